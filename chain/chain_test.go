package chain_test

import (
	"math/cmplx"
	"testing"

	"github.com/fumin/nutcracker/chain"
	"github.com/fumin/nutcracker/mps"
)

func absf(x complex64) float64 { return cmplx.Abs(complex128(x)) }

func TestPerformOptimizationSweepLowersOrHoldsEnergy(t *testing.T) {
	mpo := mps.Ising([2]int{6, 1}, 0.5)
	c, err := chain.NewChain(mpo, 3, chain.NewOptions(), chain.Observer{})
	if err != nil {
		t.Fatalf("NewChain: %v", err)
	}
	if c.State != chain.Fresh {
		t.Fatalf("state = %v, want Fresh", c.State)
	}

	prev := c.Energy
	for i := 0; i < 4; i++ {
		if err := c.PerformOptimizationSweep(); err != nil {
			t.Fatalf("PerformOptimizationSweep: %v", err)
		}
		if c.Energy > prev+1e-4 {
			t.Fatalf("sweep %d: energy rose from %v to %v", i, prev, c.Energy)
		}
		prev = c.Energy
	}
}

// S1: a pure external-field Hamiltonian has an exact product-state ground
// state, so bandwidth 1 should already be enough to reach it: for
// H = sum_i Z_i the ground state is all spins down, the last flat
// component, with unit amplitude.
func TestExternalFieldBandwidthOneReachesProductGroundState(t *testing.T) {
	const n = 4
	mpo := mps.MagnetizationZ([2]int{n, 1})
	c, err := chain.NewChain(mpo, 1, chain.NewOptions(), chain.Observer{})
	if err != nil {
		t.Fatalf("NewChain: %v", err)
	}
	if err := c.SweepUntilConverged(); err != nil {
		t.Fatalf("SweepUntilConverged: %v", err)
	}
	if c.State != chain.Converged {
		t.Fatalf("state = %v, want Converged", c.State)
	}

	want := float32(-n)
	if diff := c.Energy - want; diff > 1e-3 || diff < -1e-3 {
		t.Fatalf("energy = %v, want close to %v", c.Energy, want)
	}

	state := c.MakeCopyOfState()
	allDown := 1<<n - 1
	if amp := absf(mps.StateVectorComponentAt(state, allDown)); amp < 1-1e-3 {
		t.Fatalf("|<down...down|psi>| = %v, want ~1", amp)
	}
	if amp := absf(mps.StateVectorComponentAt(state, 0)); amp > 1e-2 {
		t.Fatalf("|<up...up|psi>| = %v, want ~0", amp)
	}
}

// S3: a second optimization, excited orthogonal to the first's converged
// ground state via a projector, should land at an equal or higher energy
// and have negligible overlap with the first.
func TestProjectorExcludesConvergedState(t *testing.T) {
	const n = 4
	mpo := mps.Ising([2]int{n, 1}, 0.5)

	ground, err := chain.NewChain(mpo, 4, chain.NewOptions(), chain.Observer{})
	if err != nil {
		t.Fatalf("NewChain ground: %v", err)
	}
	if err := ground.SweepUntilConverged(); err != nil {
		t.Fatalf("SweepUntilConverged ground: %v", err)
	}
	groundState := ground.MakeCopyOfState()

	excited, err := chain.NewChain(mpo, 4, chain.NewOptions(), chain.Observer{})
	if err != nil {
		t.Fatalf("NewChain excited: %v", err)
	}
	if err := excited.AddProjector(groundState); err != nil {
		t.Fatalf("AddProjector: %v", err)
	}
	if err := excited.SweepUntilConverged(); err != nil {
		t.Fatalf("SweepUntilConverged excited: %v", err)
	}

	if excited.Energy < ground.Energy-1e-3 {
		t.Fatalf("excited energy %v fell below ground energy %v", excited.Energy, ground.Energy)
	}

	excitedState := excited.MakeCopyOfState()
	overlap := absf(mps.InnerProduct(groundState, excitedState))
	if overlap > 1e-3 {
		t.Fatalf("excited state overlaps ground state: %v", overlap)
	}
}

// S5: independent random restarts of the same Hamiltonian should converge
// to the same ground energy.
func TestRestartInvarianceAcrossSeeds(t *testing.T) {
	mpo := mps.Ising([2]int{6, 1}, 1.0)

	run := func() float32 {
		c, err := chain.NewChain(mpo, 4, chain.NewOptions(), chain.Observer{})
		if err != nil {
			t.Fatalf("NewChain: %v", err)
		}
		if err := c.SweepUntilConverged(); err != nil {
			t.Fatalf("SweepUntilConverged: %v", err)
		}
		return c.Energy
	}

	e1, e2 := run(), run()
	diff := e1 - e2
	if diff < 0 {
		diff = -diff
	}
	if diff > 1e-3 {
		t.Fatalf("restart energies diverge: %v vs %v", e1, e2)
	}
}

// The all-trivial chain (N=1): a single local eigenproblem whose answer is
// the lone operator's smallest eigenvalue.
func TestTrivialSingleSiteChain(t *testing.T) {
	mpo := mps.MagnetizationZ([2]int{1, 1})
	c, err := chain.NewChain(mpo, 1, chain.NewOptions(), chain.Observer{})
	if err != nil {
		t.Fatalf("NewChain: %v", err)
	}
	if err := c.PerformOptimizationSweep(); err != nil {
		t.Fatalf("PerformOptimizationSweep: %v", err)
	}
	if diff := c.Energy - (-1); diff > 1e-3 || diff < -1e-3 {
		t.Fatalf("energy = %v, want close to -1", c.Energy)
	}
}

// S4: N=6 spin-1/2 sites support a maximum bandwidth dimension of
// 2^(6/2) = 8 (the Hilbert-space dimension of one half-chain); requesting
// exactly that must succeed, and requesting one more must fail with
// RequestedBandwidthDimensionTooLargeError.
func TestBandwidthGrowthBoundary(t *testing.T) {
	mpo := mps.Ising([2]int{6, 1}, 0.5)

	if _, err := chain.NewChain(mpo, 8, chain.NewOptions(), chain.Observer{}); err != nil {
		t.Fatalf("NewChain at the maximum supportable bandwidth 8: %v", err)
	}

	_, err := chain.NewChain(mpo, 9, chain.NewOptions(), chain.Observer{})
	if _, ok := err.(*chain.RequestedBandwidthDimensionTooLargeError); !ok {
		t.Fatalf("NewChain at bandwidth 9: got %v (%T), want *chain.RequestedBandwidthDimensionTooLargeError", err, err)
	}

	c, err := chain.NewChain(mpo, 4, chain.NewOptions(), chain.Observer{})
	if err != nil {
		t.Fatalf("NewChain: %v", err)
	}
	err = c.OptimizeChain(9)
	if _, ok := err.(*chain.RequestedBandwidthDimensionTooLargeError); !ok {
		t.Fatalf("OptimizeChain toward bandwidth 9: got %v (%T), want *chain.RequestedBandwidthDimensionTooLargeError", err, err)
	}
}

func TestOptimizeChainGrowsBandwidth(t *testing.T) {
	mpo := mps.Ising([2]int{6, 1}, 1.0)
	c, err := chain.NewChain(mpo, 1, chain.NewOptions(), chain.Observer{})
	if err != nil {
		t.Fatalf("NewChain: %v", err)
	}
	if c.BandwidthDimension() != 1 {
		t.Fatalf("initial bandwidth dimension = %d, want 1", c.BandwidthDimension())
	}

	meanField := func() float32 {
		mf, err := chain.NewChain(mpo, 1, chain.NewOptions(), chain.Observer{})
		if err != nil {
			t.Fatalf("NewChain mean field: %v", err)
		}
		if err := mf.SweepUntilConverged(); err != nil {
			t.Fatalf("SweepUntilConverged mean field: %v", err)
		}
		return mf.Energy
	}()

	if err := c.OptimizeChain(4); err != nil {
		t.Fatalf("OptimizeChain: %v", err)
	}
	if c.BandwidthDimension() < 2 {
		t.Fatalf("bandwidth dimension = %d, want grown beyond 1", c.BandwidthDimension())
	}
	// At criticality (h=1) entanglement is essential: the grown chain must
	// do strictly better than the bandwidth-1 mean-field optimum.
	if c.Energy > meanField-1e-3 {
		t.Fatalf("grown energy %v not below mean-field energy %v", c.Energy, meanField)
	}
}

func TestMoveAtEdgeReturnsNoSuchNeighborError(t *testing.T) {
	mpo := mps.Ising([2]int{3, 1}, 0.5)
	c, err := chain.NewChain(mpo, 2, chain.NewOptions(), chain.Observer{})
	if err != nil {
		t.Fatalf("NewChain: %v", err)
	}
	if _, ok := c.MoveLeft().(*chain.NoSuchNeighborError); !ok {
		t.Fatalf("MoveLeft at site 0: want *chain.NoSuchNeighborError")
	}
}
