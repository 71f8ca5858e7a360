package chain

import "fmt"

// InitialChainEnergyNotRealError mirrors chain.hpp's check that a freshly
// constructed chain's energy expectation value has a negligible imaginary
// part, guarding against a malformed (non-Hermitian) operator before any
// sweeping is attempted.
type InitialChainEnergyNotRealError struct {
	Energy complex64
}

func (e *InitialChainEnergyNotRealError) Error() string {
	return fmt.Sprintf("chain: initial energy is not real (%v)", e.Energy)
}

// RequestedBandwidthDimensionTooLargeError is returned when the requested
// bandwidth dimension exceeds what the chain's physical dimensions could
// ever support, regardless of cap.
type RequestedBandwidthDimensionTooLargeError struct {
	Requested int
	Maximum   int
}

func (e *RequestedBandwidthDimensionTooLargeError) Error() string {
	return fmt.Sprintf("chain: requested bandwidth dimension %d exceeds maximum supportable %d", e.Requested, e.Maximum)
}

// NoSuchNeighborError is returned by MoveLeft/MoveRight when the
// orthogonality center is already at the corresponding edge of the chain.
type NoSuchNeighborError struct {
	Direction string
}

func (e *NoSuchNeighborError) Error() string {
	return fmt.Sprintf("chain: no neighbor to the %s of the current site", e.Direction)
}

// UnableToConvergeError is returned by SweepUntilConverged when the sweep
// loop's own safety cap is reached without the energy settling below
// Options.SweepConvergenceThreshold.
type UnableToConvergeError struct {
	NumberOfSweeps int
}

func (e *UnableToConvergeError) Error() string {
	return fmt.Sprintf("chain: failed to converge after %d sweeps", e.NumberOfSweeps)
}
