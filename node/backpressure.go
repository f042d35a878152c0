// backpressure.go implements the two admission policies a node may be
// constructed with.

package node

import (
	"context"
	"fmt"
)

// Policy decides what happens to a frame that arrives while the node is
// still occupied with a previous one. It is chosen once at construction
// and fixed for the node's lifetime.
//
// Whatever the policy, at most one transform execution is in flight per
// node at any time.
type Policy interface {
	fmt.Stringer

	// TryAdmit claims one processing slot. Queueing blocks until a slot
	// frees up (or ctx is canceled); Discarding refuses immediately when
	// occupied. A false result means the frame must be dropped.
	TryAdmit(ctx context.Context) bool

	// Release returns the slot claimed by a successful TryAdmit.
	Release()

	// IsBusy reports whether any slot is currently claimed.
	IsBusy() bool

	// QueueCapacity is the depth of the input channel of a served node.
	QueueCapacity() int

	// Blocking reports whether delivery to a served node waits for room
	// (queueing) or gives up immediately (discarding).
	Blocking() bool
}

// Queueing admits every frame: one executing plus one pending; arrivals
// beyond that block the producer, so no admitted frame is ever lost and
// FIFO order is preserved.
type Queueing struct {
	sem chan struct{}
}

var _ Policy = (*Queueing)(nil)

func NewQueueing() *Queueing {
	// 2 slots: the executing frame and the single pending one.
	return &Queueing{sem: make(chan struct{}, 2)}
}

func (q *Queueing) TryAdmit(ctx context.Context) bool {
	select {
	case q.sem <- struct{}{}:
		return true
	case <-ctx.Done():
		return false
	}
}

func (q *Queueing) Release() {
	<-q.sem
}

func (q *Queueing) IsBusy() bool {
	return len(q.sem) > 0
}

func (q *Queueing) QueueCapacity() int {
	return 1
}

func (q *Queueing) Blocking() bool {
	return true
}

func (q *Queueing) String() string {
	return "queueing"
}

// Discarding never buffers: a frame arriving while the node is occupied
// is dropped on the spot. Dropping is expected flow control, not a
// failure.
type Discarding struct {
	sem chan struct{}
}

var _ Policy = (*Discarding)(nil)

func NewDiscarding() *Discarding {
	return &Discarding{sem: make(chan struct{}, 1)}
}

func (d *Discarding) TryAdmit(ctx context.Context) bool {
	select {
	case d.sem <- struct{}{}:
		return true
	default:
		return false
	}
}

func (d *Discarding) Release() {
	<-d.sem
}

func (d *Discarding) IsBusy() bool {
	return len(d.sem) > 0
}

func (d *Discarding) QueueCapacity() int {
	return 0
}

func (d *Discarding) Blocking() bool {
	return false
}

func (d *Discarding) String() string {
	return "discarding"
}

// PolicyFor maps the construction-time flag to the policy value.
func PolicyFor(queueing bool) Policy {
	if queueing {
		return NewQueueing()
	}
	return NewDiscarding()
}
