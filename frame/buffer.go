// buffer.go implements the reference-counted sample storage shared between frames.

package frame

import (
	"fmt"
	"sync/atomic"

	"github.com/xaionaro-go/imagepipeline/types"
)

// Buffer is a tagged union of the sample slices a frame may consist of.
// Exactly one of the slices is set, and the tag always matches it.
//
// A Buffer is shared-ownership: it is handed between pipeline stages
// by reference, and the samples are immutable once the Buffer left the
// producer. Use Ref/Unref to track ownership; the last Unref releases
// the storage.
type Buffer struct {
	elementType types.ElementType
	u8          []uint8
	i16         []int16
	f32         []float32
	refCount    atomic.Int64
}

func NewBufferU8(data []uint8) *Buffer {
	b := &Buffer{
		elementType: types.ElementTypeU8,
		u8:          data,
	}
	b.refCount.Store(1)
	return b
}

func NewBufferI16(data []int16) *Buffer {
	b := &Buffer{
		elementType: types.ElementTypeI16,
		i16:         data,
	}
	b.refCount.Store(1)
	return b
}

func NewBufferF32(data []float32) *Buffer {
	b := &Buffer{
		elementType: types.ElementTypeF32,
		f32:         data,
	}
	b.refCount.Store(1)
	return b
}

// NewBuffer wraps a sample slice of any supported scalar kind.
func NewBuffer[T types.Scalar](data []T) *Buffer {
	switch data := any(data).(type) {
	case []uint8:
		return NewBufferU8(data)
	case []int16:
		return NewBufferI16(data)
	case []float32:
		return NewBufferF32(data)
	}
	panic("reaching this line was supposed to be impossible")
}

func (b *Buffer) ElementType() types.ElementType {
	if b == nil {
		return types.ElementTypeUndefined
	}
	return b.elementType
}

// Len returns the logical amount of samples.
func (b *Buffer) Len() uint {
	if b == nil {
		return 0
	}
	switch b.elementType {
	case types.ElementTypeU8:
		return uint(len(b.u8))
	case types.ElementTypeI16:
		return uint(len(b.i16))
	case types.ElementTypeF32:
		return uint(len(b.f32))
	}
	return 0
}

// Size returns the physical size of the samples in bytes.
func (b *Buffer) Size() uint64 {
	return uint64(b.Len()) * uint64(b.ElementType().Size())
}

// U8 returns the underlying samples; nil if the tag is not ElementTypeU8.
func (b *Buffer) U8() []uint8 {
	if b == nil {
		return nil
	}
	return b.u8
}

// I16 returns the underlying samples; nil if the tag is not ElementTypeI16.
func (b *Buffer) I16() []int16 {
	if b == nil {
		return nil
	}
	return b.i16
}

// F32 returns the underlying samples; nil if the tag is not ElementTypeF32.
func (b *Buffer) F32() []float32 {
	if b == nil {
		return nil
	}
	return b.f32
}

// BufferSamples extracts the sample slice matching the type parameter;
// ok is false if the tag does not match.
func BufferSamples[T types.Scalar](b *Buffer) (_ []T, ok bool) {
	if b == nil {
		return nil, false
	}
	var result any
	switch b.elementType {
	case types.ElementTypeU8:
		result = b.u8
	case types.ElementTypeI16:
		result = b.i16
	case types.ElementTypeF32:
		result = b.f32
	default:
		return nil, false
	}
	typed, ok := result.([]T)
	return typed, ok
}

// Ref acquires one more reference to the storage.
func (b *Buffer) Ref() *Buffer {
	if b == nil {
		return nil
	}
	if b.refCount.Add(1) <= 1 {
		panic(fmt.Errorf("Ref() on an already-released buffer"))
	}
	return b
}

// Unref releases one reference; the storage is dropped with the last one.
func (b *Buffer) Unref() {
	if b == nil {
		return
	}
	switch newCount := b.refCount.Add(-1); {
	case newCount < 0:
		panic(fmt.Errorf("Unref() on an already-released buffer"))
	case newCount == 0:
		b.u8 = nil
		b.i16 = nil
		b.f32 = nil
	}
}

func (b *Buffer) RefCount() int64 {
	if b == nil {
		return 0
	}
	return b.refCount.Load()
}

func (b *Buffer) String() string {
	if b == nil {
		return "<Buffer:nil>"
	}
	return fmt.Sprintf("Buffer(%s, %d samples)", b.elementType, b.Len())
}
