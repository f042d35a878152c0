// on_parameter_changed.go applies parameter store notifications to the
// node's snapshot.

package node

import (
	"context"

	"github.com/xaionaro-go/imagepipeline/logger"
	"github.com/xaionaro-go/imagepipeline/params"
	"github.com/xaionaro-go/imagepipeline/types"
)

// OnParameterChanged pulls the single changed key from the store into
// the snapshot. Safe to call from any goroutine at any time: it takes
// the exclusive region, so it waits out an in-flight processing pass and
// the next pass observes the fully applied value.
func (n *Node) OnParameterChanged(ctx context.Context, key params.Key) {
	logger.Debugf(ctx, "OnParameterChanged(%s)", key)
	defer logger.Debugf(ctx, "/OnParameterChanged(%s)", key)

	// lock the exclusive region to make sure no processing happens during
	// parameter changes
	n.Locker.Do(ctx, func() {
		switch key {
		case ParamNumberIterations:
			n.snapshot.NumberIterations = params.Get[uint32](ctx, n.store, key)
		case ParamLambda:
			n.snapshot.Lambda = params.Get[float64](ctx, n.store, key)
		case ParamSpeckleScale:
			n.snapshot.SpeckleScale = params.Get[float64](ctx, n.store, key)
		case ParamSpeckleScaleDecay:
			n.snapshot.SpeckleScaleDecay = params.Get[float64](ctx, n.store, key)
		case ParamOutputType:
			n.snapshot.OutputType = params.Get[types.ElementType](ctx, n.store, key)
		default:
			// a foreign key in a shared store; not ours to mirror
		}
	})
}

// configurationChanged re-reads every parameter, e.g. to apply the
// declared defaults right after construction.
func (n *Node) configurationChanged(ctx context.Context) {
	n.Locker.Do(ctx, func() {
		n.snapshot = Snapshot{
			NumberIterations:  params.Get[uint32](ctx, n.store, ParamNumberIterations),
			Lambda:            params.Get[float64](ctx, n.store, ParamLambda),
			SpeckleScale:      params.Get[float64](ctx, n.store, ParamSpeckleScale),
			SpeckleScaleDecay: params.Get[float64](ctx, n.store, ParamSpeckleScaleDecay),
			OutputType:        params.Get[types.ElementType](ctx, n.store, ParamOutputType),
		}
	})
}
