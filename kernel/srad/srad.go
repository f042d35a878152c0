// Package srad is the reference implementation of speckle-reducing
// anisotropic diffusion (Yu & Acton 2002) over the supported scalar
// grid. It is pure Go: accelerator-backed implementations plug into the
// same kernel.Bank boundary.
package srad

import (
	"context"
	"fmt"
	"math"

	"github.com/xaionaro-go/imagepipeline/frame"
	"github.com/xaionaro-go/imagepipeline/kernel"
	"github.com/xaionaro-go/imagepipeline/types"
)

// Process runs p.Iterations diffusion sweeps over the input and casts
// the result to TOut. Zero iterations is the identity modulo the cast.
//
// Diffusion is applied per Z-slice; the Z dimension is treated as a
// stack of independent 2D images, which matches how the frames arrive
// from the beamformer.
func Process[TIn, TOut types.Scalar](
	ctx context.Context,
	in []TIn,
	shape frame.Shape,
	p kernel.Params,
) ([]TOut, error) {
	if uint(len(in)) != shape.Elems() {
		return nil, fmt.Errorf("got %d samples for shape %s", len(in), shape)
	}

	work := make([]float64, len(in))
	for i, v := range in {
		work[i] = float64(v)
	}

	width := int(shape.X())
	height := int(shape.Y())
	depth := int(shape.Z())
	sliceLen := width * height

	for it := uint32(0); it < p.Iterations; it++ {
		// the speckle scale decays over diffusion time:
		// q0(t) = q0 * exp(-rho * t)
		q0 := p.SpeckleScale * math.Exp(-p.SpeckleScaleDecay*float64(it))
		q0sqr := q0 * q0
		for z := 0; z < depth; z++ {
			iterateSlice(
				work[z*sliceLen:(z+1)*sliceLen],
				width, height,
				q0sqr, p.Lambda, p.Epsilon,
			)
		}
	}

	out := make([]TOut, len(work))
	for i, v := range work {
		out[i] = cast[TOut](v)
	}
	return out, nil
}

// iterateSlice performs one diffusion sweep over one 2D slice, in place.
// Boundaries are replicated.
func iterateSlice(
	img []float64,
	width, height int,
	q0sqr, lambda, eps float64,
) {
	dN := make([]float64, len(img))
	dS := make([]float64, len(img))
	dW := make([]float64, len(img))
	dE := make([]float64, len(img))
	c := make([]float64, len(img))

	for y := 0; y < height; y++ {
		yN := max(y-1, 0)
		yS := min(y+1, height-1)
		for x := 0; x < width; x++ {
			xW := max(x-1, 0)
			xE := min(x+1, width-1)
			i := y*width + x
			v := img[i]

			dN[i] = img[yN*width+x] - v
			dS[i] = img[yS*width+x] - v
			dW[i] = img[y*width+xW] - v
			dE[i] = img[y*width+xE] - v

			vSafe := v
			if math.Abs(vSafe) < eps {
				vSafe = eps
			}
			g2 := (dN[i]*dN[i] + dS[i]*dS[i] + dW[i]*dW[i] + dE[i]*dE[i]) / (vSafe * vSafe)
			l := (dN[i] + dS[i] + dW[i] + dE[i]) / vSafe

			num := 0.5*g2 - (1.0/16.0)*l*l
			den := 1 + 0.25*l
			qsqr := num / (den*den + eps)

			ci := 1 / (1 + (qsqr-q0sqr)/(q0sqr*(1+q0sqr)+eps))
			switch {
			case ci < 0:
				ci = 0
			case ci > 1:
				ci = 1
			}
			c[i] = ci
		}
	}

	for y := 0; y < height; y++ {
		yS := min(y+1, height-1)
		for x := 0; x < width; x++ {
			xE := min(x+1, width-1)
			i := y*width + x

			cN := c[i]
			cW := c[i]
			cS := c[yS*width+x]
			cE := c[y*width+xE]

			d := cN*dN[i] + cS*dS[i] + cW*dW[i] + cE*dE[i]
			img[i] += 0.25 * lambda * d
		}
	}
}

// cast converts a working sample to the output scalar kind, saturating
// on the integer kinds.
func cast[T types.Scalar](v float64) T {
	var zero T
	switch any(zero).(type) {
	case uint8:
		r := math.Round(v)
		switch {
		case r < 0:
			r = 0
		case r > math.MaxUint8:
			r = math.MaxUint8
		}
		return any(uint8(r)).(T)
	case int16:
		r := math.Round(v)
		switch {
		case r < math.MinInt16:
			r = math.MinInt16
		case r > math.MaxInt16:
			r = math.MaxInt16
		}
		return any(int16(r)).(T)
	case float32:
		return any(float32(v)).(T)
	}
	panic("reaching this line was supposed to be impossible")
}
