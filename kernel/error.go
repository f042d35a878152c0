package kernel

import (
	"fmt"

	"github.com/xaionaro-go/imagepipeline/types"
)

type ErrUnsupportedInputType struct {
	ElementType types.ElementType
}

func (e ErrUnsupportedInputType) Error() string {
	return fmt.Sprintf("input element type is not supported: %s", e.ElementType)
}

type ErrUnsupportedOutputType struct {
	ElementType types.ElementType
}

func (e ErrUnsupportedOutputType) Error() string {
	return fmt.Sprintf("output element type is not supported: %s", e.ElementType)
}

type ErrNotInstantiated struct {
	InputType  types.ElementType
	OutputType types.ElementType
}

func (e ErrNotInstantiated) Error() string {
	return fmt.Sprintf(
		"the transform is not instantiated for the (%s, %s) pair",
		e.InputType, e.OutputType,
	)
}
