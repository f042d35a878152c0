package condition

import (
	"context"
	"fmt"

	"github.com/xaionaro-go/imagepipeline/frame"
	"github.com/xaionaro-go/imagepipeline/types"
)

type ElementType types.ElementType

var _ Condition = (ElementType)(0)

func (et ElementType) String() string {
	return fmt.Sprintf("ElementType(%s)", (types.ElementType)(et))
}

func (et ElementType) Match(
	ctx context.Context,
	f frame.Input,
) bool {
	return f.GetElementType() == types.ElementType(et)
}
