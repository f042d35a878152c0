// serve.go runs a node attached to the graph: it drains the input
// channel, processes and forwards the results along the outgoing edges.

package node

import (
	"context"
	"io"

	"github.com/facebookincubator/go-belt"
	"github.com/facebookincubator/go-belt/tool/experimental/errmon"
	"github.com/go-ng/xatomic"
	"github.com/xaionaro-go/imagepipeline/frame"
	"github.com/xaionaro-go/imagepipeline/logger"
	"github.com/xaionaro-go/xsync"
)

// Serve drives the node until ctx is canceled, the node is closed, or
// the input channel is closed. Errors are reported on errCh; the loop
// never panics outwards.
//
// Exactly one Serve per node: a second concurrent call reports
// ErrAlreadyStarted and returns.
func (n *Node) Serve(
	ctx context.Context,
	serveConfig ServeConfig,
	errCh chan<- Error,
) {
	ctx, cancelFn := context.WithCancel(ctx)
	defer cancelFn()
	ctx = belt.WithField(ctx, "node", n.name)
	logger.Debugf(ctx, "Serve[%s]", n)
	defer logger.Debugf(ctx, "/Serve[%s]", n)

	sendErr := func(err error) {
		if errCh == nil {
			return
		}
		select {
		case errCh <- Error{Node: n, Err: err}:
		default:
			logger.Errorf(ctx, "error queue is full, cannot send error: '%v'", err)
		}
	}

	defer func() { errmon.ObserveRecoverCtx(ctx, recover()) }()

	if err := xsync.DoR1(ctx, &n.Locker, func() error {
		if n.isServing {
			return ErrAlreadyStarted{}
		}
		n.isServing = true
		close(*xatomic.SwapPointer(&n.changeChanIsServing, ptr(make(chan struct{}))))
		return nil
	}); err != nil {
		sendErr(err)
		return
	}
	defer n.Locker.Do(ctx, func() {
		n.isServing = false
		close(*xatomic.SwapPointer(&n.changeChanIsServing, ptr(make(chan struct{}))))
	})

	for {
		select {
		case <-ctx.Done():
			return
		case <-n.CloseChan():
			return
		case in, ok := <-n.inputCh:
			if !ok {
				sendErr(io.EOF)
				return
			}
			out := n.OnFrameArrived(ctx, in)
			if out == nil {
				continue
			}
			n.pushFurther(ctx, out)
		}
	}
}

// IsServingChangeChan returns a channel closed on the next serving-state
// flip.
func (n *Node) IsServingChangeChan() <-chan struct{} {
	return *xatomic.LoadPointer(&n.changeChanIsServing)
}

// InputChan is where upstream submits records for a served node; prefer
// Deliver, which honors the backpressure policy.
func (n *Node) InputChan() chan<- frame.Input {
	return n.inputCh
}

// Deliver submits one record to a served node according to its policy:
// queueing waits for room (nothing admitted is ever lost), discarding
// gives up immediately when the node is occupied.
func (n *Node) Deliver(ctx context.Context, in frame.Input) bool {
	if n.policy.Blocking() {
		select {
		case n.inputCh <- in:
			return true
		case <-ctx.Done():
		case <-n.CloseChan():
		}
		n.Counters.Missed.Increment(in.GetElementType(), in.GetSize())
		return false
	}
	select {
	case n.inputCh <- in:
		return true
	default:
		// expected flow control, not a failure
		n.Counters.Missed.Increment(in.GetElementType(), in.GetSize())
		logger.Debugf(ctx, "%s: busy, dropping the delivered frame", n)
		return false
	}
}

func (n *Node) pushFurther(
	ctx context.Context,
	out *frame.Output,
) {
	in := out.AsInput()
	for _, pushTo := range n.GetPushTos() {
		if pushTo.Condition != nil && !pushTo.Condition.Match(ctx, in) {
			continue
		}
		if pushTo.Node.Deliver(ctx, in) {
			n.Counters.Sent.Increment(out.GetElementType(), out.GetSize())
		}
	}
}
