package chain

// Options mirrors Chain::defaults in the original chain.hpp/chain.cpp: the
// convergence and sanity-check thresholds and the iteration budget handed
// down to each site optimization (see optimizer.Options for which of them
// reach the eigensolver), and the function used to grow the bandwidth
// dimension one notch at a time.
type Options struct {
	MaximumNumberOfIterations int
	SiteConvergenceThreshold  float32
	SweepConvergenceThreshold float32
	ChainConvergenceThreshold float32
	SanityCheckThreshold      float32
	// ProjectorShift is the eigenvalue the forbidden subspace is pushed to
	// during excited-state optimization; zero selects ten times the
	// effective Hamiltonian's Frobenius norm plus one.
	ProjectorShift        float32
	BandwidthIncreaseFunc func(int) int
}

// NewOptions returns the original Chain constructor's defaults, with the
// thresholds rescaled from the original's complex-double values to ones
// achievable in complex64 arithmetic (machine epsilon 2^-23): 10000
// maximum iterations, 1e-6 convergence thresholds, a 1e-4 sanity-check
// tolerance, and a bandwidth growth function that increases the requested
// dimension by one.
func NewOptions() Options {
	return Options{
		MaximumNumberOfIterations: 10000,
		SiteConvergenceThreshold:  1e-6,
		SweepConvergenceThreshold: 1e-6,
		ChainConvergenceThreshold: 1e-6,
		SanityCheckThreshold:      1e-4,
		BandwidthIncreaseFunc:     func(x int) int { return x + 1 },
	}
}
