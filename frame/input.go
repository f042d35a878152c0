package frame

import (
	"github.com/xaionaro-go/imagepipeline/types"
)

type Input Commons

func BuildInput(f *Frame) Input {
	return Input{
		Kind:  KindImage,
		Image: f,
	}
}

func BuildSideDataInput(sideData any) Input {
	return Input{
		Kind:     KindSideData,
		SideData: sideData,
	}
}

func (f *Input) GetElementType() types.ElementType {
	return (*Commons)(f).GetElementType()
}

func (f *Input) GetSize() uint64 {
	return (*Commons)(f).GetSize()
}

func (f *Input) String() string {
	return (*Commons)(f).String()
}
