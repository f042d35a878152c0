package frame

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/xaionaro-go/imagepipeline/types"
)

func TestNewValidatesTheBufferAgainstTheShape(t *testing.T) {
	now := time.Now()

	buf := NewBufferF32(make([]float32, 4))
	f, err := New(Shape{2, 2, 1}, buf, nil, now, now)
	require.NoError(t, err)
	require.Equal(t, types.ElementTypeF32, f.ElementType())
	require.Equal(t, uint64(16), f.GetSize())

	_, err = New(Shape{2, 2, 2}, buf, nil, now, now)
	require.Error(t, err)

	_, err = New(Shape{0, 2, 1}, buf, nil, now, now)
	require.Error(t, err)

	_, err = New(Shape{2, 2, 1}, &Buffer{}, nil, now, now)
	require.Error(t, err)
}

func TestBufferTaggedUnion(t *testing.T) {
	b := NewBufferI16([]int16{1, 2, 3})
	require.Equal(t, types.ElementTypeI16, b.ElementType())
	require.Equal(t, uint(3), b.Len())
	require.Equal(t, []int16{1, 2, 3}, b.I16())
	require.Nil(t, b.U8())
	require.Nil(t, b.F32())

	samples, ok := BufferSamples[int16](b)
	require.True(t, ok)
	require.Equal(t, []int16{1, 2, 3}, samples)

	_, ok = BufferSamples[float32](b)
	require.False(t, ok)
}

func TestBufferRefCounting(t *testing.T) {
	b := NewBufferU8([]uint8{1, 2})
	require.Equal(t, int64(1), b.RefCount())

	b.Ref()
	require.Equal(t, int64(2), b.RefCount())

	b.Unref()
	require.Equal(t, []uint8{1, 2}, b.U8())

	b.Unref()
	require.Nil(t, b.U8())
	require.Panics(t, func() { b.Unref() })
	require.Panics(t, func() { b.Ref() })
}

func TestInputUnion(t *testing.T) {
	now := time.Now()
	f, err := New(Shape{1, 1, 1}, NewBufferF32([]float32{42}), nil, now, now)
	require.NoError(t, err)

	in := BuildInput(f)
	require.Equal(t, KindImage, in.Kind)
	require.Equal(t, types.ElementTypeF32, in.GetElementType())

	side := BuildSideDataInput("anything")
	require.Equal(t, KindSideData, side.Kind)
	require.Equal(t, types.ElementTypeUndefined, side.GetElementType())
	require.Zero(t, side.GetSize())
}
