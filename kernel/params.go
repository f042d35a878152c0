// params.go defines the parameter block handed to a transform invocation.

package kernel

// Params is the frozen parameter set one transform invocation runs with.
// It never changes mid-invocation: the node copies it under its lock
// before dispatching.
type Params struct {
	// Epsilon is a small stabilizer constant; fixed at node construction,
	// not user-configurable.
	Epsilon float64

	Iterations        uint32
	Lambda            float64
	SpeckleScale      float64
	SpeckleScaleDecay float64
}
