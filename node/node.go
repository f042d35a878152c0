// node.go defines the processing node: the unit of the dataflow graph
// that runs one parameterized transform over the frames flowing through.

package node

import (
	"context"
	"fmt"
	"sync"

	"github.com/asticode/go-astikit"
	"github.com/xaionaro-go/imagepipeline/frame"
	framecondition "github.com/xaionaro-go/imagepipeline/frame/condition"
	"github.com/xaionaro-go/imagepipeline/helpers/callfreq"
	"github.com/xaionaro-go/imagepipeline/helpers/closuresignaler"
	"github.com/xaionaro-go/imagepipeline/kernel"
	"github.com/xaionaro-go/imagepipeline/logger"
	"github.com/xaionaro-go/imagepipeline/params"
	"github.com/xaionaro-go/imagepipeline/types"
	"github.com/xaionaro-go/xsync"
)

// Node wraps one transform Bank into a graph-attachable processing
// stage.
//
// The Locker is the node's exclusive region: it covers both parameter
// mutation (OnParameterChanged) and the whole
// "read snapshot + dispatch + build output" sequence, so a transform
// invocation can never observe a half-updated Snapshot. Admission
// (backpressure) is decided before the region is entered.
type Node struct {
	*Counters
	*closuresignaler.ClosureSignaler

	Locker xsync.Mutex

	name    string
	bank    *kernel.Bank
	store   *params.Store
	policy  Policy
	epsilon float64

	snapshot Snapshot // protected by Locker

	callFrequency *callfreq.Counter

	pushTos   PushTos // protected by Locker
	isServing bool    // protected by Locker

	changeChanIsServing *chan struct{}

	inputCh chan frame.Input

	closeOnce sync.Once
	closer    *astikit.Closer
}

var _ types.Closer = (*Node)(nil)

// New constructs a node around a transform Bank, registers the
// parameter schema into the store, applies the declared defaults and
// subscribes to change notifications.
func New(
	ctx context.Context,
	name string,
	bank *kernel.Bank,
	store *params.Store,
	opts ...Option,
) (*Node, error) {
	cfg := Options(opts).config()
	policy := PolicyFor(cfg.Queueing)
	n := &Node{
		Counters:        NewCounters(),
		ClosureSignaler: closuresignaler.New(),
		name:            name,
		bank:            bank,
		store:           store,
		policy:          policy,
		epsilon:         cfg.Epsilon,
		callFrequency:   callfreq.New(name),
		inputCh:         make(chan frame.Input, policy.QueueCapacity()),

		changeChanIsServing: ptr(make(chan struct{})),

		closer: astikit.NewCloser(),
	}
	if err := RegisterSchema(ctx, store); err != nil {
		return nil, fmt.Errorf("unable to register the parameter schema: %w", err)
	}

	// read the configuration to apply the default values
	n.configurationChanged(ctx)

	store.AddListener(n.OnParameterChanged)
	return n, nil
}

func (n *Node) GetPolicy() Policy {
	return n.policy
}

func (n *Node) GetStore() *params.Store {
	return n.store
}

func (n *Node) GetCallFrequency() *callfreq.Counter {
	return n.callFrequency
}

func (n *Node) GetStatistics() types.Statistics {
	return n.Counters.ToStats()
}

// GetSnapshot returns the current parameter snapshot, read under the
// exclusive region.
func (n *Node) GetSnapshot(ctx context.Context) Snapshot {
	return xsync.DoR1(ctx, &n.Locker, func() Snapshot {
		return n.snapshot
	})
}

func (n *Node) GetPushTos() PushTos {
	if n == nil {
		return nil
	}
	return xsync.DoR1(context.TODO(), &n.Locker, func() PushTos {
		result := make(PushTos, len(n.pushTos))
		copy(result, n.pushTos)
		return result
	})
}

func (n *Node) AddPushTo(dst *Node, conds ...framecondition.Condition) {
	n.Locker.Do(context.TODO(), func() {
		n.pushTos.Add(dst, conds...)
	})
}

func (n *Node) SetPushTos(s PushTos) {
	n.Locker.Do(context.TODO(), func() {
		n.pushTos = s
	})
}

func (n *Node) IsServing() bool {
	return xsync.DoR1(context.TODO(), &n.Locker, func() bool {
		return n.isServing
	})
}

// Close stops serving and runs the registered close callbacks.
// Idempotent.
func (n *Node) Close(ctx context.Context) (_err error) {
	logger.Debugf(ctx, "Close[%s]", n)
	defer func() { logger.Debugf(ctx, "/Close[%s]: %v", n, _err) }()
	var err error
	n.closeOnce.Do(func() {
		n.ClosureSignaler.Close(ctx)
		err = n.closer.Close()
	})
	return err
}

// AddCloseCallback registers a callback to be invoked on Close, e.g. to
// release resources an accelerator-backed transform holds.
func (n *Node) AddCloseCallback(callback func()) {
	n.closer.Add(callback)
}

func (n *Node) GetObjectID() types.ObjectID {
	return types.GetObjectID(n)
}

func (n *Node) String() string {
	if n == nil {
		return "<Node:nil>"
	}
	return fmt.Sprintf("Node<%s>", n.name)
}
