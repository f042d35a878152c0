// dummy_test.go provides a recording cast-only transform bank for tests.

package kernel

import (
	"context"
	"sync"

	"github.com/xaionaro-go/imagepipeline/frame"
	"github.com/xaionaro-go/imagepipeline/types"
)

type Dummy struct {
	locker sync.Mutex

	CallCount    int
	ObservedIn   []types.ElementType
	ObservedOut  []types.ElementType
	ObservedArgs []Params
}

func castTransform[TIn, TOut types.Scalar](d *Dummy) TransformFunc[TIn, TOut] {
	return func(
		ctx context.Context,
		in []TIn,
		shape frame.Shape,
		p Params,
	) ([]TOut, error) {
		d.locker.Lock()
		d.CallCount++
		d.ObservedIn = append(d.ObservedIn, types.ElementTypeOf[TIn]())
		d.ObservedOut = append(d.ObservedOut, types.ElementTypeOf[TOut]())
		d.ObservedArgs = append(d.ObservedArgs, p)
		d.locker.Unlock()

		out := make([]TOut, len(in))
		for i, v := range in {
			out[i] = TOut(float64(v))
		}
		return out, nil
	}
}

func (d *Dummy) Bank() *Bank {
	return &Bank{
		U8ToU8:  castTransform[uint8, uint8](d),
		U8ToI16: castTransform[uint8, int16](d),
		U8ToF32: castTransform[uint8, float32](d),

		I16ToU8:  castTransform[int16, uint8](d),
		I16ToI16: castTransform[int16, int16](d),
		I16ToF32: castTransform[int16, float32](d),

		F32ToU8:  castTransform[float32, uint8](d),
		F32ToI16: castTransform[float32, int16](d),
		F32ToF32: castTransform[float32, float32](d),
	}
}
