// range.go declares the per-parameter value ranges: type, bounds, default.

package params

import (
	"fmt"
	"slices"

	"golang.org/x/exp/constraints"
)

// Range declares one parameter: which values it accepts and which one
// it starts with. A Store never lets a value outside its Range through,
// which is what allows consumers to read parameters without revalidating.
type Range interface {
	fmt.Stringer
	Validate(value any) error
	Default() any
	Description() string
}

type numeric interface {
	constraints.Integer | constraints.Float
}

type NumberRange[T numeric] struct {
	Min  T
	Max  T
	Def  T
	Desc string
}

var _ Range = (*NumberRange[uint32])(nil)

// Number declares a numeric parameter constrained to [min, max].
func Number[T numeric](min, max, def T, desc string) *NumberRange[T] {
	return &NumberRange[T]{
		Min:  min,
		Max:  max,
		Def:  def,
		Desc: desc,
	}
}

func (r *NumberRange[T]) Validate(value any) error {
	typed, ok := value.(T)
	if !ok {
		return fmt.Errorf("expected a %T, got %T", r.Def, value)
	}
	if typed < r.Min || typed > r.Max {
		return fmt.Errorf("value %v is outside of [%v, %v]", typed, r.Min, r.Max)
	}
	return nil
}

func (r *NumberRange[T]) Default() any {
	return r.Def
}

func (r *NumberRange[T]) Description() string {
	return r.Desc
}

func (r *NumberRange[T]) String() string {
	return fmt.Sprintf("[%v, %v] (default: %v)", r.Min, r.Max, r.Def)
}

type EnumRange[T comparable] struct {
	Allowed []T
	Def     T
	Desc    string
}

var _ Range = (*EnumRange[int])(nil)

// Enum declares a parameter constrained to an explicit set of values.
func Enum[T comparable](allowed []T, def T, desc string) *EnumRange[T] {
	return &EnumRange[T]{
		Allowed: allowed,
		Def:     def,
		Desc:    desc,
	}
}

func (r *EnumRange[T]) Validate(value any) error {
	typed, ok := value.(T)
	if !ok {
		return fmt.Errorf("expected a %T, got %T", r.Def, value)
	}
	if !slices.Contains(r.Allowed, typed) {
		return fmt.Errorf("value %v is not one of %v", typed, r.Allowed)
	}
	return nil
}

func (r *EnumRange[T]) Default() any {
	return r.Def
}

func (r *EnumRange[T]) Description() string {
	return r.Desc
}

func (r *EnumRange[T]) String() string {
	return fmt.Sprintf("%v (default: %v)", r.Allowed, r.Def)
}
