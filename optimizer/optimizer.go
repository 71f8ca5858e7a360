// Package optimizer finds the locally optimal state site at one position
// of a chain: the eigenvector of the effective Hamiltonian with smallest
// real part, optionally restricted to the orthogonal complement of a
// forbidden subspace, together with the same post-convergence sanity
// checks the original optimizeStateSite performs, in the same order.
package optimizer

import (
	"math/cmplx"

	"github.com/fumin/nutcracker/mps"
	"github.com/fumin/nutcracker/projector"
	"github.com/fumin/tensor"
	"github.com/pkg/errors"
)

// guessInProjectorSpaceThreshold is the post-projection norm below which
// the initial guess is considered to lie entirely inside the forbidden
// subspace, leaving the solver nothing valid to improve on.
const guessInProjectorSpaceThreshold = 1e-3

// Options holds the sanity-check tolerance, plus the eigenvalue shift
// applied to the forbidden subspace when a projector is active (see
// projector.Matrix.ProjectMatrix). A ProjectorShift of zero picks ten times
// the effective Hamiltonian's Frobenius norm plus one, which keeps the
// shifted entries within complex64 precision of the rest of the matrix.
// ConvergenceThreshold and MaximumIterations are not passed to
// tensor.Arnoldi, which runs with its own stopping rule; MaximumIterations
// is only reported back in Result and UnableToConvergeError.
type Options struct {
	ConvergenceThreshold float32
	SanityCheckThreshold float32
	MaximumIterations    int
	ProjectorShift       float32
}

// DefaultOptions mirrors the original chain defaults, with the thresholds
// rescaled from the original's complex-double values to ones achievable in
// complex64 arithmetic (machine epsilon 2^-23).
func DefaultOptions() Options {
	return Options{
		ConvergenceThreshold: 1e-6,
		SanityCheckThreshold: 1e-4,
		MaximumIterations:    10000,
	}
}

// Result is the outcome of a successful local optimization.
// NumberOfIterations is the solver's iteration budget, not an exact count:
// tensor.Arnoldi does not report how many restarts it used. It is zero for
// a one-dimensional working block, which is solved without Arnoldi.
type Result struct {
	NumberOfIterations int
	Eigenvalue         float32
	StateSite          *mps.StateSite
}

// OptimizeStateSite finds the new state site at the position bracketed by
// left and right, given the operator site there and (optionally) a
// projector excluding a forbidden subspace.
func OptimizeStateSite(
	left *mps.ExpectationBoundary,
	current *mps.StateSite,
	operator *mps.OperatorSite,
	right *mps.ExpectationBoundary,
	proj *projector.Matrix,
	opt Options,
) (*Result, error) {
	h := mps.AssembleOptimizationMatrix(left, operator, right)
	dim := h.Shape()[0]

	if proj.Valid() {
		if proj.NumberOfProjectors() >= dim {
			return nil, &TooManyProjectorsError{
				NumberOfProjectors: proj.NumberOfProjectors(),
				PhysicalDimension:  current.PhysicalDimension(),
				LeftDimension:      current.LeftDimension(),
				RightDimension:     current.RightDimension(),
			}
		}
		guess := proj.ApplyOrthogonalComplement(current.Tensor)
		if guess.FrobeniusNorm() < guessInProjectorSpaceThreshold*current.Tensor.FrobeniusNorm() {
			return nil, &GivenGuessInProjectorSpaceError{}
		}
	}

	// A one-dimensional working block has a single normalized state; its
	// energy is the lone entry of the effective Hamiltonian.
	if dim == 1 {
		eigenvalue := h.At(0, 0)
		site := mps.NewStateSite(ones(current.Tensor.Shape()...), mps.Middle)
		return &Result{
			NumberOfIterations: 0,
			Eigenvalue:         real(eigenvalue),
			StateSite:          site,
		}, nil
	}

	hEff := h
	if proj.Valid() {
		shift := opt.ProjectorShift
		if shift == 0 {
			shift = 10*h.FrobeniusNorm() + 1
		}
		hEff = proj.ProjectMatrix(h, shift)
	}

	eigvals := tensor.Zeros(1)
	eigvecs := tensor.Zeros(1)
	var abufs [7]*tensor.Dense
	for i := range abufs {
		abufs[i] = tensor.Zeros(1)
	}
	if err := tensor.Arnoldi(eigvals, eigvecs, hEff, 1, abufs); err != nil {
		return nil, errors.WithMessage(&UnableToConvergeError{NumberOfIterations: opt.MaximumIterations}, err.Error())
	}

	eigenvalue := eigvals.At(0)

	mag := abs32(eigenvalue)
	imagPart := absFloat32(imag(eigenvalue))
	if mag > opt.SanityCheckThreshold && imagPart/mag > opt.SanityCheckThreshold {
		return nil, &ObtainedComplexEigenvalueError{Eigenvalue: eigenvalue}
	}

	newTensor := tensor.Zeros(eigvecs.Shape()...)
	newTensor.Set([]int{0, 0}, eigvecs)
	newSite := mps.NewStateSite(newTensor.Reshape(current.Tensor.Shape()...), mps.Middle)

	expectationValue := mps.ExpectationAtSite(left, newSite, operator, right)
	if outsideTolerance(eigenvalue, expectationValue, opt.SanityCheckThreshold) {
		return nil, &ObtainedEigenvalueDifferentFromExpectationValueError{Eigenvalue: eigenvalue, ExpectedValue: expectationValue}
	}

	normal := eigvecs.FrobeniusNorm()
	if normal < 1-opt.SanityCheckThreshold {
		return nil, &ObtainedVanishingEigenvectorError{Norm: normal}
	}

	if proj.Valid() {
		overlap := proj.Overlap(eigvecs)
		if overlap > opt.SanityCheckThreshold {
			return nil, &ObtainedEigenvectorInProjectorSpaceError{Overlap: overlap}
		}
	}

	return &Result{
		NumberOfIterations: opt.MaximumIterations,
		Eigenvalue:         real(eigenvalue),
		StateSite:          newSite,
	}, nil
}

func ones(shape ...int) *tensor.Dense {
	t := tensor.Zeros(shape...)
	for ijk := range t.All() {
		t.SetAt(ijk, 1)
	}
	return t
}

func outsideTolerance(a, b complex64, tol float32) bool {
	diff := abs32(a - b)
	scale := max(abs32(a), abs32(b), 1)
	return diff > tol*scale
}

func abs32(x complex64) float32 { return float32(cmplx.Abs(complex128(x))) }

func absFloat32(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}
