// frame.go defines the Frame: one unit of streaming image data.

package frame

import (
	"fmt"
	"time"

	"github.com/xaionaro-go/imagepipeline/types"
)

// Frame is one image flowing through the pipeline: a shaped view into a
// shared sample Buffer, plus the metadata that has to survive every
// processing stage untouched.
//
// A Frame is immutable once produced. Stages derive new Frames instead
// of modifying received ones.
type Frame struct {
	Shape      Shape
	Buffer     *Buffer
	Properties any

	ReceiveTimestamp time.Time
	SyncTimestamp    time.Time
}

// New wraps a Buffer into a Frame, enforcing that the buffer's logical
// sample count matches the shape.
func New(
	shape Shape,
	buf *Buffer,
	properties any,
	receiveTimestamp time.Time,
	syncTimestamp time.Time,
) (*Frame, error) {
	if !shape.IsValid() {
		return nil, fmt.Errorf("invalid shape: %s", shape)
	}
	if !buf.ElementType().IsSupported() {
		return nil, fmt.Errorf("unsupported element type: %s", buf.ElementType())
	}
	if buf.Len() != shape.Elems() {
		return nil, fmt.Errorf(
			"buffer sample count %d does not match shape %s (%d samples)",
			buf.Len(), shape, shape.Elems(),
		)
	}
	return &Frame{
		Shape:            shape,
		Buffer:           buf,
		Properties:       properties,
		ReceiveTimestamp: receiveTimestamp,
		SyncTimestamp:    syncTimestamp,
	}, nil
}

// ElementType is the runtime tag of the underlying buffer.
func (f *Frame) ElementType() types.ElementType {
	if f == nil {
		return types.ElementTypeUndefined
	}
	return f.Buffer.ElementType()
}

// GetSize returns the physical size of the frame's samples in bytes.
func (f *Frame) GetSize() uint64 {
	if f == nil {
		return 0
	}
	return f.Buffer.Size()
}

func (f *Frame) String() string {
	if f == nil {
		return "<Frame:nil>"
	}
	return fmt.Sprintf("Frame(%s, %s)", f.ElementType(), f.Shape)
}
