// output.go defines the Output type for frames produced by a node.

package frame

import (
	"github.com/xaionaro-go/imagepipeline/types"
)

type Output Commons

func BuildOutput(f *Frame) Output {
	return Output{
		Kind:  KindImage,
		Image: f,
	}
}

func (f *Output) GetElementType() types.ElementType {
	return (*Commons)(f).GetElementType()
}

func (f *Output) GetSize() uint64 {
	return (*Commons)(f).GetSize()
}

func (f *Output) String() string {
	return (*Commons)(f).String()
}

// AsInput re-tags an emitted record for delivery to a downstream node.
func (f Output) AsInput() Input {
	return Input(f)
}
