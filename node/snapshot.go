// snapshot.go defines the node's live copy of its parameters and the
// schema it registers into the parameter store.

package node

import (
	"context"

	"github.com/xaionaro-go/imagepipeline/params"
	"github.com/xaionaro-go/imagepipeline/types"
)

const (
	ParamNumberIterations  = params.Key("numberIterations")
	ParamLambda            = params.Key("lambda")
	ParamSpeckleScale      = params.Key("speckleScale")
	ParamSpeckleScaleDecay = params.Key("speckleScaleDecay")
	ParamOutputType        = params.Key("outputType")
)

// Snapshot is the single live copy of the node's parameters. It is
// protected end-to-end by the node's exclusive region: a transform
// invocation always runs against one consistent point-in-time state.
type Snapshot struct {
	NumberIterations  uint32
	Lambda            float64
	SpeckleScale      float64
	SpeckleScaleDecay float64
	OutputType        types.ElementType
}

// RegisterSchema declares the parameters this node reveals to the user.
func RegisterSchema(ctx context.Context, store *params.Store) error {
	for key, r := range map[params.Key]params.Range{
		ParamNumberIterations: params.Number[uint32](
			0, 1000, 300, "Number of Iterations",
		),
		ParamLambda: params.Number(
			0.0, 2.0, 1.0, "Step Size Lambda",
		),
		ParamSpeckleScale: params.Number(
			0.0, 2.0, 1.0, "Speckle Scale",
		),
		ParamSpeckleScaleDecay: params.Number(
			0.0, 2.0, 1.0/6.0, "Speckle Scale Decay (rho)",
		),
		ParamOutputType: params.Enum(
			[]types.ElementType{
				types.ElementTypeF32,
				types.ElementTypeU8,
				types.ElementTypeI16,
			},
			types.ElementTypeF32,
			"Output type",
		),
	} {
		if err := store.Declare(ctx, key, r); err != nil {
			return err
		}
	}
	return nil
}
