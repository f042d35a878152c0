// transform.go defines the transform collaborator boundary.

package kernel

import (
	"context"

	"github.com/xaionaro-go/imagepipeline/frame"
	"github.com/xaionaro-go/imagepipeline/types"
)

// TransformFunc is one concrete instantiation of a transform for a fixed
// (input, output) scalar pair. The input samples are read-only; the
// function materializes a new output slice of exactly shape.Elems()
// samples.
//
// The function may run the heavy lifting elsewhere (e.g. on an
// accelerator), but it returns only once the output is materialized.
type TransformFunc[TIn, TOut types.Scalar] func(
	ctx context.Context,
	in []TIn,
	shape frame.Shape,
	p Params,
) ([]TOut, error)

// Bank is the complete, explicit set of instantiations of one transform
// over the closed (input, output) element-type grid. Keeping all nine
// pairs enumerable as plain fields makes dispatch O(1) and lets tests
// cover the grid exhaustively.
//
// A nil field means the pair is not provided by this transform;
// dispatching to it yields ErrNotInstantiated.
type Bank struct {
	U8ToU8  TransformFunc[uint8, uint8]
	U8ToI16 TransformFunc[uint8, int16]
	U8ToF32 TransformFunc[uint8, float32]

	I16ToU8  TransformFunc[int16, uint8]
	I16ToI16 TransformFunc[int16, int16]
	I16ToF32 TransformFunc[int16, float32]

	F32ToU8  TransformFunc[float32, uint8]
	F32ToI16 TransformFunc[float32, int16]
	F32ToF32 TransformFunc[float32, float32]
}

// column is the output-type level of the dispatch grid, resolved once
// the input scalar type is fixed.
type column[TIn types.Scalar] struct {
	toU8  TransformFunc[TIn, uint8]
	toI16 TransformFunc[TIn, int16]
	toF32 TransformFunc[TIn, float32]
}

func (b *Bank) fromU8() column[uint8] {
	return column[uint8]{toU8: b.U8ToU8, toI16: b.U8ToI16, toF32: b.U8ToF32}
}

func (b *Bank) fromI16() column[int16] {
	return column[int16]{toU8: b.I16ToU8, toI16: b.I16ToI16, toF32: b.I16ToF32}
}

func (b *Bank) fromF32() column[float32] {
	return column[float32]{toU8: b.F32ToU8, toI16: b.F32ToI16, toF32: b.F32ToF32}
}
