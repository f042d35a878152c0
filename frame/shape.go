// shape.go defines the 3D shape of a frame's sample grid.

package frame

import (
	"fmt"
)

// Shape is the extent of a frame in samples, ordered (X, Y, Z).
// 2D frames use Z == 1.
type Shape [3]uint

func (s Shape) X() uint { return s[0] }
func (s Shape) Y() uint { return s[1] }
func (s Shape) Z() uint { return s[2] }

// Elems returns the logical amount of samples in a frame of this shape.
func (s Shape) Elems() uint {
	return s[0] * s[1] * s[2]
}

func (s Shape) IsValid() bool {
	return s[0] > 0 && s[1] > 0 && s[2] > 0
}

func (s Shape) String() string {
	return fmt.Sprintf("%dx%dx%d", s[0], s[1], s[2])
}
