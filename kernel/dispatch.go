// dispatch.go resolves the runtime (input, output) element-type pair to
// the one matching transform instantiation.

package kernel

import (
	"context"
	"fmt"

	"github.com/xaionaro-go/imagepipeline/frame"
	"github.com/xaionaro-go/imagepipeline/logger"
	"github.com/xaionaro-go/imagepipeline/types"
)

// Dispatch runs the transform instantiation matching the buffer's element
// type and the requested output element type, exactly once.
//
// The input and output types are determined dynamically, in two stages:
// this first switch handles the input type; the output type is handled by
// dispatchOutput once the input scalar type is fixed. There is no need to
// support all types, only those meaningful for the operation of the node.
func (b *Bank) Dispatch(
	ctx context.Context,
	buf *frame.Buffer,
	shape frame.Shape,
	outputType types.ElementType,
	p Params,
) (_ *frame.Buffer, _err error) {
	logger.Tracef(ctx, "Dispatch(%s -> %s)", buf.ElementType(), outputType)
	defer func() { logger.Tracef(ctx, "/Dispatch(%s -> %s): %v", buf.ElementType(), outputType, _err) }()

	switch buf.ElementType() {
	case types.ElementTypeU8:
		return dispatchOutput(ctx, b.fromU8(), buf.U8(), shape, outputType, p)
	case types.ElementTypeI16:
		return dispatchOutput(ctx, b.fromI16(), buf.I16(), shape, outputType, p)
	case types.ElementTypeF32:
		return dispatchOutput(ctx, b.fromF32(), buf.F32(), shape, outputType, p)
	default:
		return nil, ErrUnsupportedInputType{ElementType: buf.ElementType()}
	}
}

// dispatchOutput is the second stage: with the input scalar type already
// a compile-time parameter, it resolves the configured output type.
func dispatchOutput[TIn types.Scalar](
	ctx context.Context,
	col column[TIn],
	in []TIn,
	shape frame.Shape,
	outputType types.ElementType,
	p Params,
) (*frame.Buffer, error) {
	switch outputType {
	case types.ElementTypeU8:
		return run(ctx, col.toU8, in, shape, p)
	case types.ElementTypeI16:
		return run(ctx, col.toI16, in, shape, p)
	case types.ElementTypeF32:
		return run(ctx, col.toF32, in, shape, p)
	default:
		return nil, ErrUnsupportedOutputType{ElementType: outputType}
	}
}

func run[TIn, TOut types.Scalar](
	ctx context.Context,
	t TransformFunc[TIn, TOut],
	in []TIn,
	shape frame.Shape,
	p Params,
) (*frame.Buffer, error) {
	if t == nil {
		return nil, ErrNotInstantiated{
			InputType:  types.ElementTypeOf[TIn](),
			OutputType: types.ElementTypeOf[TOut](),
		}
	}
	out, err := t(ctx, in, shape, p)
	if err != nil {
		return nil, fmt.Errorf("the transform returned an error: %w", err)
	}
	if uint(len(out)) != shape.Elems() {
		return nil, fmt.Errorf(
			"the transform returned %d samples instead of %d",
			len(out), shape.Elems(),
		)
	}
	return frame.NewBuffer(out), nil
}
