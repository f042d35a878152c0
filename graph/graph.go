// Package graph wires processing nodes into a directed dataflow graph
// and serves them on a shared pool of worker goroutines. Topology and
// scheduling policy beyond that stay with the caller.
package graph

import (
	"context"
	"sync"

	"github.com/xaionaro-go/imagepipeline/frame"
	framecondition "github.com/xaionaro-go/imagepipeline/frame/condition"
	"github.com/xaionaro-go/imagepipeline/logger"
	"github.com/xaionaro-go/imagepipeline/node"
	"github.com/xaionaro-go/observability"
	"github.com/xaionaro-go/xsync"
)

type Graph struct {
	locker xsync.Mutex
	nodes  []*node.Node
}

func New() *Graph {
	return &Graph{}
}

// AddNode attaches a node to the graph. Idempotent.
func (g *Graph) AddNode(n *node.Node) {
	g.locker.Do(context.TODO(), func() {
		for _, existing := range g.nodes {
			if existing == n {
				return
			}
		}
		g.nodes = append(g.nodes, n)
	})
}

// Connect adds a frame edge from src to dst (and both nodes, if needed).
func (g *Graph) Connect(src, dst *node.Node, conds ...framecondition.Condition) {
	g.AddNode(src)
	g.AddNode(dst)
	src.AddPushTo(dst, conds...)
}

func (g *Graph) Nodes() []*node.Node {
	return xsync.DoR1(context.TODO(), &g.locker, func() []*node.Node {
		result := make([]*node.Node, len(g.nodes))
		copy(result, g.nodes)
		return result
	})
}

// Serve serves every attached node on its own goroutine and returns once
// all of them finished (ctx canceled or nodes closed).
func (g *Graph) Serve(
	ctx context.Context,
	serveConfig node.ServeConfig,
	errCh chan<- node.Error,
) {
	logger.Debugf(ctx, "Serve")
	defer logger.Debugf(ctx, "/Serve")

	var wg sync.WaitGroup
	for _, n := range g.Nodes() {
		wg.Add(1)
		observability.Go(ctx, func(ctx context.Context) {
			defer wg.Done()
			n.Serve(ctx, serveConfig, errCh)
		})
	}
	wg.Wait()
}

// Ingest feeds records from src into the entry node until src or ctx
// ends; returns the amount of records delivered (the rest were dropped
// by the entry node's backpressure policy).
func (g *Graph) Ingest(
	ctx context.Context,
	entry *node.Node,
	src <-chan frame.Input,
) (delivered uint64) {
	logger.Debugf(ctx, "Ingest[%s]", entry)
	defer func() { logger.Debugf(ctx, "/Ingest[%s]: %d", entry, delivered) }()

	for {
		select {
		case <-ctx.Done():
			return
		case in, ok := <-src:
			if !ok {
				return
			}
			if entry.Deliver(ctx, in) {
				delivered++
			}
		}
	}
}
