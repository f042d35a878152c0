// element_type.go defines the runtime tag of the scalar kinds flowing
// through the pipeline.

package types

import (
	"fmt"
)

// ElementType is the runtime tag of a sample's scalar kind.
type ElementType int

const (
	ElementTypeUndefined = ElementType(iota)
	ElementTypeU8
	ElementTypeI16
	ElementTypeF32
	endOfElementTypes
)

// ElementTypes returns all the supported element types.
func ElementTypes() []ElementType {
	result := make([]ElementType, 0, endOfElementTypes-1)
	for t := ElementTypeUndefined + 1; t < endOfElementTypes; t++ {
		result = append(result, t)
	}
	return result
}

// IsSupported reports whether the pipeline can process samples of that
// kind.
func (t ElementType) IsSupported() bool {
	switch t {
	case ElementTypeU8, ElementTypeI16, ElementTypeF32:
		return true
	}
	return false
}

// Size returns the physical size of one sample in bytes; 0 if the type
// is not supported.
func (t ElementType) Size() uint {
	switch t {
	case ElementTypeU8:
		return 1
	case ElementTypeI16:
		return 2
	case ElementTypeF32:
		return 4
	}
	return 0
}

func (t ElementType) String() string {
	switch t {
	case ElementTypeUndefined:
		return "undefined"
	case ElementTypeU8:
		return "uint8"
	case ElementTypeI16:
		return "int16"
	case ElementTypeF32:
		return "float32"
	}
	return fmt.Sprintf("unexpected_element_type_%d", int(t))
}

// Scalar is the compile-time counterpart of ElementType: the closed set
// of sample kinds a transform may be instantiated over.
type Scalar interface {
	~uint8 | ~int16 | ~float32
}

// ElementTypeOf maps a Scalar type parameter to its runtime tag.
func ElementTypeOf[T Scalar]() ElementType {
	var zero T
	switch any(zero).(type) {
	case uint8:
		return ElementTypeU8
	case int16:
		return ElementTypeI16
	case float32:
		return ElementTypeF32
	}
	return ElementTypeUndefined
}
