// process.go is the frame processing path: admission, the exclusive
// region, type dispatch and output construction.

package node

import (
	"context"

	"github.com/xaionaro-go/imagepipeline/frame"
	"github.com/xaionaro-go/imagepipeline/kernel"
	"github.com/xaionaro-go/imagepipeline/logger"
	"github.com/xaionaro-go/xsync"
)

// OnFrameArrived handles one inbound record: the policy decides
// admission, then the frame is processed under the exclusive region.
//
// A nil result means no output: a record of an unexpected kind, an
// unsupported element type, or a frame dropped by the backpressure
// policy. None of these are fatal; the node stays valid for the next
// frame and never panics across this boundary.
func (n *Node) OnFrameArrived(
	ctx context.Context,
	in frame.Input,
) *frame.Output {
	logger.Tracef(ctx, "OnFrameArrived[%s]", n)
	defer logger.Tracef(ctx, "/OnFrameArrived[%s]", n)

	if in.Kind != frame.KindImage || in.Image == nil {
		n.Counters.Missed.Increment(in.GetElementType(), in.GetSize())
		logger.Errorf(ctx, "%s: received an object that is not an image frame (kind: %s)", n, in.Kind)
		return nil
	}
	f := in.Image
	n.Counters.Received.Increment(f.ElementType(), f.GetSize())

	if !n.policy.TryAdmit(ctx) {
		// expected flow control under the discarding policy, not a failure
		n.Counters.Missed.Increment(f.ElementType(), f.GetSize())
		logger.Debugf(ctx, "%s: the node is busy, dropping the frame", n)
		return nil
	}
	defer n.policy.Release()

	return n.process(ctx, f)
}

func (n *Node) process(
	ctx context.Context,
	f *frame.Frame,
) *frame.Output {
	// lock the exclusive region to make sure no parameters are changed
	// during processing
	return xsync.DoR1(ctx, &n.Locker, func() *frame.Output {
		snapshot := n.snapshot

		measureEnd := n.callFrequency.Measure()
		outBuf, err := n.bank.Dispatch(ctx, f.Buffer, f.Shape, snapshot.OutputType, kernel.Params{
			Epsilon:           n.epsilon,
			Iterations:        snapshot.NumberIterations,
			Lambda:            snapshot.Lambda,
			SpeckleScale:      snapshot.SpeckleScale,
			SpeckleScaleDecay: snapshot.SpeckleScaleDecay,
		})
		measureEnd()
		if err != nil {
			n.Counters.Missed.Increment(f.ElementType(), f.GetSize())
			logger.Errorf(ctx, "%s: %v", n, err)
			return nil
		}
		n.Counters.Processed.Increment(f.ElementType(), f.GetSize())

		// wrap the returned buffer in a frame with the same shape,
		// properties and timestamps
		out, err := frame.New(
			f.Shape,
			outBuf,
			f.Properties,
			f.ReceiveTimestamp,
			f.SyncTimestamp,
		)
		if err != nil {
			logger.Errorf(ctx, "%s: unable to construct the output frame: %v", n, err)
			return nil
		}
		n.Counters.Generated.Increment(out.ElementType(), out.GetSize())

		result := frame.BuildOutput(out)
		return &result
	})
}
