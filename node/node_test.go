package node

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/xaionaro-go/imagepipeline/frame"
	framecondition "github.com/xaionaro-go/imagepipeline/frame/condition"
	"github.com/xaionaro-go/imagepipeline/kernel"
	"github.com/xaionaro-go/imagepipeline/kernel/srad"
	"github.com/xaionaro-go/imagepipeline/params"
	"github.com/xaionaro-go/imagepipeline/types"
)

// recorder is a transform bank observer: every invocation appends the
// received kernel.Params and the first input sample, so a test can
// verify what the node actually handed to the transform.
type recorder struct {
	locker sync.Mutex
	params []kernel.Params
	firsts []float64

	entered chan struct{}
	release chan struct{}
}

func (r *recorder) observe(first float64, p kernel.Params) {
	r.locker.Lock()
	r.params = append(r.params, p)
	r.firsts = append(r.firsts, first)
	r.locker.Unlock()
	if r.entered != nil {
		r.entered <- struct{}{}
	}
	if r.release != nil {
		<-r.release
	}
}

func (r *recorder) calls() int {
	r.locker.Lock()
	defer r.locker.Unlock()
	return len(r.params)
}

func (r *recorder) observedParams() []kernel.Params {
	r.locker.Lock()
	defer r.locker.Unlock()
	result := make([]kernel.Params, len(r.params))
	copy(result, r.params)
	return result
}

func (r *recorder) observedFirsts() []float64 {
	r.locker.Lock()
	defer r.locker.Unlock()
	result := make([]float64, len(r.firsts))
	copy(result, r.firsts)
	return result
}

func recordTransform[TIn, TOut types.Scalar](r *recorder) kernel.TransformFunc[TIn, TOut] {
	return func(_ context.Context, in []TIn, _ frame.Shape, p kernel.Params) ([]TOut, error) {
		var first float64
		if len(in) > 0 {
			first = float64(in[0])
		}
		r.observe(first, p)
		out := make([]TOut, len(in))
		for i, v := range in {
			out[i] = TOut(v)
		}
		return out, nil
	}
}

func recordBank(r *recorder) *kernel.Bank {
	return &kernel.Bank{
		U8ToU8:   recordTransform[uint8, uint8](r),
		U8ToI16:  recordTransform[uint8, int16](r),
		U8ToF32:  recordTransform[uint8, float32](r),
		I16ToU8:  recordTransform[int16, uint8](r),
		I16ToI16: recordTransform[int16, int16](r),
		I16ToF32: recordTransform[int16, float32](r),
		F32ToU8:  recordTransform[float32, uint8](r),
		F32ToI16: recordTransform[float32, int16](r),
		F32ToF32: recordTransform[float32, float32](r),
	}
}

func newTestNode(
	ctx context.Context,
	t *testing.T,
	bank *kernel.Bank,
	opts ...Option,
) (*Node, *params.Store) {
	t.Helper()
	store := params.NewStore()
	n, err := New(ctx, t.Name(), bank, store, opts...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = n.Close(ctx) })
	return n, store
}

func newFrame[T types.Scalar](t *testing.T, shape frame.Shape, samples []T) *frame.Frame {
	t.Helper()
	f, err := frame.New(shape, frame.NewBuffer(samples), nil, time.Now(), time.Now())
	require.NoError(t, err)
	return f
}

func TestProcessesEveryTypePair(t *testing.T) {
	ctx := context.Background()
	shape := frame.Shape{2, 2, 1}

	inputs := map[types.ElementType]frame.Input{}
	inputs[types.ElementTypeU8] = frame.BuildInput(newFrame(t, shape, []uint8{1, 2, 3, 4}))
	inputs[types.ElementTypeI16] = frame.BuildInput(newFrame(t, shape, []int16{1, 2, 3, 4}))
	inputs[types.ElementTypeF32] = frame.BuildInput(newFrame(t, shape, []float32{1, 2, 3, 4}))

	for inType, in := range inputs {
		for _, outType := range types.ElementTypes() {
			t.Run(inType.String()+"_to_"+outType.String(), func(t *testing.T) {
				n, store := newTestNode(ctx, t, srad.Bank())
				require.NoError(t, store.Set(ctx, ParamNumberIterations, uint32(0)))
				require.NoError(t, store.Set(ctx, ParamOutputType, outType))

				out := n.OnFrameArrived(ctx, in)
				require.NotNil(t, out)
				require.Equal(t, outType, out.GetElementType())
				require.Equal(t, shape, out.Image.Shape)
				require.EqualValues(t, 1, n.Counters.Processed.TotalCount())
				require.EqualValues(t, 1, n.Counters.Generated.TotalCount())
				require.EqualValues(t, 0, n.Counters.Missed.TotalCount())
			})
		}
	}
}

func TestZeroIterationsPreservesTheSamples(t *testing.T) {
	ctx := context.Background()
	n, store := newTestNode(ctx, t, srad.Bank())
	require.NoError(t, store.Set(ctx, ParamNumberIterations, uint32(0)))

	in := newFrame(t, frame.Shape{2, 2, 1}, []float32{1, 2, 3, 4})
	out := n.OnFrameArrived(ctx, frame.BuildInput(in))
	require.NotNil(t, out)
	require.Equal(t, []float32{1, 2, 3, 4}, out.Image.Buffer.F32())

	// int16 input casts to the default float32 output
	outF32 := n.OnFrameArrived(ctx, frame.BuildInput(
		newFrame(t, frame.Shape{2, 2, 1}, []int16{-5, 0, 5, 300}),
	))
	require.NotNil(t, outF32)
	require.Equal(t, []float32{-5, 0, 5, 300}, outF32.Image.Buffer.F32())
}

func TestOutputCarriesTheInputMetadata(t *testing.T) {
	ctx := context.Background()
	n, store := newTestNode(ctx, t, srad.Bank())
	require.NoError(t, store.Set(ctx, ParamNumberIterations, uint32(0)))

	receiveTS := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	syncTS := receiveTS.Add(time.Millisecond)
	props := map[string]string{"probe": "linear"}
	in, err := frame.New(
		frame.Shape{2, 2, 1},
		frame.NewBufferF32([]float32{1, 2, 3, 4}),
		props,
		receiveTS,
		syncTS,
	)
	require.NoError(t, err)

	out := n.OnFrameArrived(ctx, frame.BuildInput(in))
	require.NotNil(t, out)
	require.Equal(t, in.Shape, out.Image.Shape)
	require.Equal(t, receiveTS, out.Image.ReceiveTimestamp)
	require.Equal(t, syncTS, out.Image.SyncTimestamp)
	require.Equal(t, props, out.Image.Properties)
}

func TestSideDataIsNotProcessed(t *testing.T) {
	ctx := context.Background()
	rec := &recorder{}
	n, _ := newTestNode(ctx, t, recordBank(rec))

	before := n.GetSnapshot(ctx)
	out := n.OnFrameArrived(ctx, frame.BuildSideDataInput("calibration table"))
	require.Nil(t, out)
	require.Equal(t, 0, rec.calls())
	require.EqualValues(t, 1, n.Counters.Missed.Unknown.Count.Load())
	require.Equal(t, before, n.GetSnapshot(ctx), "a rejected record must not affect the node state")
}

func TestUnsupportedElementTypeIsCountedAsMissed(t *testing.T) {
	ctx := context.Background()
	n, _ := newTestNode(ctx, t, srad.Bank())

	// a frame with an untagged buffer cannot come out of frame.New, so
	// assemble it by hand
	f := &frame.Frame{Shape: frame.Shape{2, 2, 1}, Buffer: &frame.Buffer{}}
	before := n.GetSnapshot(ctx)
	out := n.OnFrameArrived(ctx, frame.BuildInput(f))
	require.Nil(t, out)
	require.Equal(t, before, n.GetSnapshot(ctx))
	require.EqualValues(t, 1, n.Counters.Received.Unknown.Count.Load())
	require.EqualValues(t, 1, n.Counters.Missed.Unknown.Count.Load())
	require.EqualValues(t, 0, n.Counters.Processed.TotalCount())

	// the node is still usable afterwards
	good := n.OnFrameArrived(ctx, frame.BuildInput(
		newFrame(t, frame.Shape{1, 1, 1}, []float32{1}),
	))
	require.NotNil(t, good)
}

func TestReconfigurationIsAppliedAndIdempotent(t *testing.T) {
	ctx := context.Background()
	n, store := newTestNode(ctx, t, srad.Bank())

	require.Equal(t, 1.0, n.GetSnapshot(ctx).Lambda)
	require.NoError(t, store.Set(ctx, ParamLambda, 0.5))
	require.Equal(t, 0.5, n.GetSnapshot(ctx).Lambda)

	// committing the same value again is a no-op, not an error
	require.NoError(t, store.Set(ctx, ParamLambda, 0.5))
	require.Equal(t, 0.5, n.GetSnapshot(ctx).Lambda)

	require.NoError(t, store.Set(ctx, ParamOutputType, types.ElementTypeU8))
	require.Equal(t, types.ElementTypeU8, n.GetSnapshot(ctx).OutputType)

	// a rejected update leaves the snapshot alone
	require.Error(t, store.Set(ctx, ParamLambda, 5.0))
	require.Equal(t, 0.5, n.GetSnapshot(ctx).Lambda)
}

func TestTransformReceivesTheConfiguredParams(t *testing.T) {
	ctx := context.Background()
	rec := &recorder{}
	n, store := newTestNode(ctx, t, recordBank(rec), OptionEpsilon(1e-3))

	require.NoError(t, store.Set(ctx, ParamNumberIterations, uint32(42)))
	require.NoError(t, store.Set(ctx, ParamLambda, 0.25))
	require.NoError(t, store.Set(ctx, ParamSpeckleScale, 1.5))
	require.NoError(t, store.Set(ctx, ParamSpeckleScaleDecay, 0.125))

	out := n.OnFrameArrived(ctx, frame.BuildInput(
		newFrame(t, frame.Shape{1, 1, 1}, []float32{7}),
	))
	require.NotNil(t, out)

	observed := rec.observedParams()
	require.Len(t, observed, 1)
	require.Equal(t, kernel.Params{
		Epsilon:           1e-3,
		Iterations:        42,
		Lambda:            0.25,
		SpeckleScale:      1.5,
		SpeckleScaleDecay: 0.125,
	}, observed[0])
}

func TestDiscardingDropsWhileBusy(t *testing.T) {
	ctx := context.Background()
	rec := &recorder{
		entered: make(chan struct{}, 1),
		release: make(chan struct{}),
	}
	n, _ := newTestNode(ctx, t, recordBank(rec), OptionQueueing(false))

	in := frame.BuildInput(newFrame(t, frame.Shape{1, 1, 1}, []float32{1}))

	firstDone := make(chan *frame.Output, 1)
	go func() {
		firstDone <- n.OnFrameArrived(ctx, in)
	}()
	<-rec.entered

	// the node is occupied: the concurrent frame must be refused
	// immediately, not queued
	second := n.OnFrameArrived(ctx, in)
	require.Nil(t, second)
	require.Equal(t, 1, rec.calls())

	close(rec.release)
	require.NotNil(t, <-firstDone)
	require.Equal(t, 1, rec.calls())
	require.EqualValues(t, 1, n.Counters.Missed.F32.Count.Load())
	require.EqualValues(t, 1, n.Counters.Processed.TotalCount())
}

func TestQueueingAdmitsEveryFrame(t *testing.T) {
	ctx := context.Background()
	rec := &recorder{
		entered: make(chan struct{}, 3),
		release: make(chan struct{}),
	}
	n, _ := newTestNode(ctx, t, recordBank(rec))

	in := frame.BuildInput(newFrame(t, frame.Shape{1, 1, 1}, []float32{1}))

	results := make(chan *frame.Output, 3)
	for i := 0; i < 3; i++ {
		go func() {
			results <- n.OnFrameArrived(ctx, in)
		}()
	}
	<-rec.entered

	// only one transform execution may be in flight
	require.Equal(t, 1, rec.calls())

	close(rec.release)
	for i := 0; i < 3; i++ {
		require.NotNil(t, <-results)
	}
	require.Equal(t, 3, rec.calls())
	require.EqualValues(t, 0, n.Counters.Missed.TotalCount())
	require.EqualValues(t, 3, n.Counters.Processed.TotalCount())
}

func TestServeKeepsArrivalOrder(t *testing.T) {
	ctx, cancelFn := context.WithCancel(context.Background())
	defer cancelFn()

	rec := &recorder{}
	n, _ := newTestNode(ctx, t, recordBank(rec))

	errCh := make(chan Error, 10)
	go n.Serve(ctx, ServeConfig{}, errCh)

	const frames = 20
	for i := 0; i < frames; i++ {
		ok := n.Deliver(ctx, frame.BuildInput(
			newFrame(t, frame.Shape{1, 1, 1}, []float32{float32(i)}),
		))
		require.True(t, ok, "frame %d", i)
	}

	require.Eventually(t, func() bool {
		return rec.calls() == frames
	}, time.Second*5, time.Millisecond)

	firsts := rec.observedFirsts()
	for i, v := range firsts {
		require.Equal(t, float64(i), v, "frame %d processed out of order", i)
	}
	require.EqualValues(t, 0, n.Counters.Missed.TotalCount())
}

func TestServeTwiceReportsAlreadyStarted(t *testing.T) {
	ctx, cancelFn := context.WithCancel(context.Background())
	defer cancelFn()

	n, _ := newTestNode(ctx, t, srad.Bank())

	errCh := make(chan Error, 10)
	go n.Serve(ctx, ServeConfig{}, errCh)
	require.Eventually(t, n.IsServing, time.Second*5, time.Millisecond)

	// the second Serve returns right away with the error reported
	n.Serve(ctx, ServeConfig{}, errCh)
	select {
	case e := <-errCh:
		require.Same(t, n, e.Node)
		var target ErrAlreadyStarted
		require.True(t, errors.As(e.Err, &target))
	default:
		t.Fatal("expected an error to be reported")
	}
	require.True(t, n.IsServing())
}

func TestServeStopsOnClose(t *testing.T) {
	ctx := context.Background()
	n, _ := newTestNode(ctx, t, srad.Bank())

	served := make(chan struct{})
	go func() {
		n.Serve(ctx, ServeConfig{}, nil)
		close(served)
	}()
	require.Eventually(t, n.IsServing, time.Second*5, time.Millisecond)

	require.NoError(t, n.Close(ctx))
	select {
	case <-served:
	case <-time.After(time.Second * 5):
		t.Fatal("Serve did not return after Close")
	}
	require.False(t, n.IsServing())
}

func TestCloseRunsTheCallbacksOnce(t *testing.T) {
	ctx := context.Background()
	store := params.NewStore()
	n, err := New(ctx, t.Name(), srad.Bank(), store)
	require.NoError(t, err)

	var releases int
	n.AddCloseCallback(func() { releases++ })

	require.NoError(t, n.Close(ctx))
	require.Equal(t, 1, releases)
	require.NoError(t, n.Close(ctx))
	require.Equal(t, 1, releases)
}

func TestConcurrentReconfigurationObservesCommittedValuesOnly(t *testing.T) {
	ctx := context.Background()
	rec := &recorder{}
	n, store := newTestNode(ctx, t, recordBank(rec))

	committed := map[float64]struct{}{
		1.0: {}, // the declared default
	}
	lambdas := []float64{0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8, 0.9, 1.0}
	for _, v := range lambdas {
		committed[v] = struct{}{}
	}

	writerDone := make(chan error, 1)
	go func() {
		for i := 0; i < 100; i++ {
			if err := store.Set(ctx, ParamLambda, lambdas[i%len(lambdas)]); err != nil {
				writerDone <- err
				return
			}
		}
		writerDone <- nil
	}()

	in := frame.BuildInput(newFrame(t, frame.Shape{1, 1, 1}, []float32{1}))
	for i := 0; i < 200; i++ {
		require.NotNil(t, n.OnFrameArrived(ctx, in))
	}
	require.NoError(t, <-writerDone)

	// a transform may observe any committed value, but never a value
	// that was not committed (i.e. no torn mid-update state)
	for i, p := range rec.observedParams() {
		_, ok := committed[p.Lambda]
		require.True(t, ok, "invocation %d observed lambda %v", i, p.Lambda)
	}
}

func TestPushFurtherHonorsTheConditions(t *testing.T) {
	ctx, cancelFn := context.WithCancel(context.Background())
	defer cancelFn()

	recA := &recorder{}
	recB := &recorder{}
	recC := &recorder{}
	a, storeA := newTestNode(ctx, t, recordBank(recA))
	b, _ := newTestNode(ctx, t, recordBank(recB))
	c, _ := newTestNode(ctx, t, recordBank(recC))

	require.NoError(t, storeA.Set(ctx, ParamOutputType, types.ElementTypeU8))
	a.AddPushTo(b, framecondition.ElementType(types.ElementTypeU8))
	a.AddPushTo(c, framecondition.ElementType(types.ElementTypeF32))

	go a.Serve(ctx, ServeConfig{}, nil)
	go b.Serve(ctx, ServeConfig{}, nil)
	go c.Serve(ctx, ServeConfig{}, nil)

	require.True(t, a.Deliver(ctx, frame.BuildInput(
		newFrame(t, frame.Shape{1, 1, 1}, []float32{1}),
	)))

	require.Eventually(t, func() bool {
		return recB.calls() == 1 && a.Counters.Sent.U8.Count.Load() == 1
	}, time.Second*5, time.Millisecond)
	require.Equal(t, 0, recC.calls(), "the non-matching edge must not receive the frame")
}
