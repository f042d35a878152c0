// commons.go defines the record union shared by Input and Output.

package frame

import (
	"fmt"

	"github.com/xaionaro-go/imagepipeline/types"
)

// Kind is the discriminant of the record union flowing between nodes.
type Kind int

const (
	KindUndefined = Kind(iota)
	KindImage
	KindSideData
)

func (k Kind) String() string {
	switch k {
	case KindImage:
		return "image"
	case KindSideData:
		return "side_data"
	case KindUndefined:
		return "undefined"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Commons is a closed tagged union: Kind states which field is set.
// Records of an unexpected kind are rejected by nodes instead of being
// downcast.
type Commons struct {
	Kind     Kind
	Image    *Frame
	SideData any
}

func (c *Commons) GetElementType() types.ElementType {
	if c == nil || c.Kind != KindImage {
		return types.ElementTypeUndefined
	}
	return c.Image.ElementType()
}

func (c *Commons) GetSize() uint64 {
	if c == nil || c.Kind != KindImage {
		return 0
	}
	return c.Image.GetSize()
}

func (c *Commons) String() string {
	if c == nil {
		return "<record:nil>"
	}
	switch c.Kind {
	case KindImage:
		return c.Image.String()
	default:
		return c.Kind.String()
	}
}
