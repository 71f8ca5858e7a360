package optimizer

import "fmt"

// The variants below mirror the OptimizerFailure hierarchy of the original
// C++ optimizer (sources/common/optimizer.cpp, includes/optimizer.hpp):
// every post-convergence sanity check failure gets its own type so a
// caller can discriminate with errors.As instead of parsing a message.

// UnableToConvergeError is returned when tensor.Arnoldi reports an error;
// NumberOfIterations carries Options.MaximumIterations.
type UnableToConvergeError struct {
	NumberOfIterations int
}

func (e *UnableToConvergeError) Error() string {
	return fmt.Sprintf("optimizer: failed to converge after %d iterations", e.NumberOfIterations)
}

// TooManyProjectorsError is returned when the forbidden subspace is as
// large as, or larger than, the space being optimized over.
type TooManyProjectorsError struct {
	NumberOfProjectors int
	PhysicalDimension  int
	LeftDimension      int
	RightDimension     int
}

func (e *TooManyProjectorsError) Error() string {
	d := e.PhysicalDimension * e.LeftDimension * e.RightDimension
	return fmt.Sprintf("optimizer: given too many projectors (%d >= %d*%d*%d = %d)",
		e.NumberOfProjectors, e.PhysicalDimension, e.LeftDimension, e.RightDimension, d)
}

// GivenGuessInProjectorSpaceError is returned when the optimizer's initial
// guess lies entirely within the forbidden subspace, leaving nothing for
// the solver to improve on.
type GivenGuessInProjectorSpaceError struct{}

func (e *GivenGuessInProjectorSpaceError) Error() string {
	return "optimizer: given guess within the forbidden orthogonal space"
}

// ObtainedEigenvalueDifferentFromExpectationValueError is returned when the
// eigenvalue Arnoldi reports disagrees with the expectation value computed
// directly from the returned eigenvector.
type ObtainedEigenvalueDifferentFromExpectationValueError struct {
	Eigenvalue    complex64
	ExpectedValue complex64
}

func (e *ObtainedEigenvalueDifferentFromExpectationValueError) Error() string {
	return fmt.Sprintf("optimizer: eigenvalue %v != expectation value %v", e.Eigenvalue, e.ExpectedValue)
}

// ObtainedComplexEigenvalueError is returned when the eigenvalue has a
// non-negligible imaginary part, which should not happen for a Hermitian
// effective Hamiltonian.
type ObtainedComplexEigenvalueError struct {
	Eigenvalue complex64
}

func (e *ObtainedComplexEigenvalueError) Error() string {
	return fmt.Sprintf("optimizer: obtained complex eigenvalue (%v)", e.Eigenvalue)
}

// ObtainedGreaterEigenvalueError is raised by the chain controller (not
// this package) and passed to its Observer.OnOptimizeSiteFailure when a
// newly optimized site raises the energy rather than lowering or
// preserving it.
type ObtainedGreaterEigenvalueError struct {
	OldEigenvalue float32
	NewEigenvalue float32
}

func (e *ObtainedGreaterEigenvalueError) Error() string {
	return fmt.Sprintf("optimizer: obtained eigenvalue greater than previous (%v > %v)",
		e.NewEigenvalue, e.OldEigenvalue)
}

// ObtainedVanishingEigenvectorError is returned when the returned
// eigenvector's norm collapsed to (near) zero.
type ObtainedVanishingEigenvectorError struct {
	Norm float32
}

func (e *ObtainedVanishingEigenvectorError) Error() string {
	return fmt.Sprintf("optimizer: obtained vanishing eigenvector (norm = %v)", e.Norm)
}

// ObtainedEigenvectorInProjectorSpaceError is returned when the returned
// eigenvector overlaps non-negligibly with the forbidden subspace.
type ObtainedEigenvectorInProjectorSpaceError struct {
	Overlap float32
}

func (e *ObtainedEigenvectorInProjectorSpaceError) Error() string {
	return fmt.Sprintf("optimizer: eigenvector overlaps forbidden subspace (overlap = %v)", e.Overlap)
}

// UnknownFailureError is kept for taxonomy completeness, mirroring the
// original's default case over an opaque native status code. This Go
// implementation has no FFI boundary that could produce one.
type UnknownFailureError struct {
	Code int
}

func (e *UnknownFailureError) Error() string {
	return fmt.Sprintf("optimizer: unknown failure code %d", e.Code)
}
