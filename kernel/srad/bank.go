package srad

import (
	"github.com/xaionaro-go/imagepipeline/kernel"
)

// Bank enumerates the nine (input, output) instantiations of the SRAD
// transform.
func Bank() *kernel.Bank {
	return &kernel.Bank{
		U8ToU8:  Process[uint8, uint8],
		U8ToI16: Process[uint8, int16],
		U8ToF32: Process[uint8, float32],

		I16ToU8:  Process[int16, uint8],
		I16ToI16: Process[int16, int16],
		I16ToF32: Process[int16, float32],

		F32ToU8:  Process[float32, uint8],
		F32ToI16: Process[float32, int16],
		F32ToF32: Process[float32, float32],
	}
}
