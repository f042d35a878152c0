// The sradfilter demo builds a two-stage pipeline of SRAD filter nodes,
// streams synthetic noisy frames through it and reconfigures the first
// stage mid-stream.
package main

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/davecgh/go-spew/spew"
	"github.com/facebookincubator/go-belt"
	"github.com/spf13/pflag"
	"github.com/xaionaro-go/imagepipeline/frame"
	"github.com/xaionaro-go/imagepipeline/graph"
	"github.com/xaionaro-go/imagepipeline/kernel/srad"
	"github.com/xaionaro-go/imagepipeline/logger"
	"github.com/xaionaro-go/imagepipeline/node"
	"github.com/xaionaro-go/imagepipeline/params"
	"github.com/xaionaro-go/imagepipeline/types"
	"github.com/xaionaro-go/observability"
)

func main() {

	// parse the input

	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "syntax: %s [flags]\n", os.Args[0])
		pflag.PrintDefaults()
	}

	loggerLevel := logger.LevelWarning
	pflag.Var(&loggerLevel, "log-level", "Log level")
	queueing := pflag.Bool("queueing", true, "buffer one pending frame instead of dropping under load")
	frameCount := pflag.Uint("frames", 100, "")
	width := pflag.Uint("width", 128, "")
	height := pflag.Uint("height", 128, "")
	iterations := pflag.Uint32("iterations", 50, "")
	pflag.Parse()

	// init the context

	ctx := withLogger(context.Background(), loggerLevel)
	ctx, cancelFn := context.WithCancel(ctx)
	defer cancelFn()
	defer belt.Flush(ctx)

	// build the pipeline: filter0 -> filter1

	storeA := params.NewStore()
	filterA, err := node.New(ctx, "srad0", srad.Bank(), storeA, node.OptionQueueing(*queueing))
	assert(ctx, err == nil, err)

	storeB := params.NewStore()
	filterB, err := node.New(ctx, "srad1", srad.Bank(), storeB, node.OptionQueueing(*queueing))
	assert(ctx, err == nil, err)

	err = storeA.Set(ctx, node.ParamNumberIterations, *iterations)
	assert(ctx, err == nil, err)
	err = storeB.Set(ctx, node.ParamOutputType, types.ElementTypeU8)
	assert(ctx, err == nil, err)

	g := graph.New()
	g.Connect(filterA, filterB)

	errCh := make(chan node.Error, 16)
	observability.Go(ctx, func(ctx context.Context) {
		g.Serve(ctx, node.ServeConfig{}, errCh)
	})
	observability.Go(ctx, func(ctx context.Context) {
		for err := range errCh {
			logger.Errorf(ctx, "node error: %v", err)
		}
	})

	// generate the input frames

	shape := frame.Shape{*width, *height, 1}
	src := make(chan frame.Input)
	observability.Go(ctx, func(ctx context.Context) {
		defer close(src)
		for i := uint(0); i < *frameCount; i++ {
			if i == *frameCount/2 {
				// reconfigure mid-stream, concurrently with processing
				err := storeA.Set(ctx, node.ParamLambda, 0.5)
				assert(ctx, err == nil, err)
			}
			f, err := generateFrame(shape)
			assert(ctx, err == nil, err)
			select {
			case src <- frame.BuildInput(f):
			case <-ctx.Done():
				return
			}
		}
	})

	delivered := g.Ingest(ctx, filterA, src)

	// let the tail of the pipeline drain before tearing down
	time.Sleep(100 * time.Millisecond)
	cancelFn()

	fmt.Printf("delivered: %d\n", delivered)
	fmt.Printf("%s\n", filterA.GetCallFrequency())
	fmt.Printf("%s\n", filterB.GetCallFrequency())
	spew.Dump(filterA.GetStatistics())
	spew.Dump(filterB.GetStatistics())
}

func generateFrame(shape frame.Shape) (*frame.Frame, error) {
	samples := make([]float32, shape.Elems())
	for i := range samples {
		samples[i] = 100 + 20*rand.Float32()
	}
	now := time.Now()
	return frame.New(shape, frame.NewBufferF32(samples), nil, now, now)
}
