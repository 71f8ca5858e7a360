package diag

import (
	"fmt"
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// MaxSpins caps the system sizes this package is willing to diagonalize
// directly; the Hilbert space dimension is 2^n, so the cap already means a
// 4096x4096 dense matrix. Exact diagonalization is a cross-check tool, not
// a solver for production-sized chains (that's what chain and mps are
// for), so this bound is kept small and enforced rather than left as an
// implicit memory blowup.
const MaxSpins = 12

// TooManySpinsError reports a request to diagonalize a chain too large to
// hold densely in memory.
type TooManySpinsError struct {
	Requested int
	Maximum   int
}

func (e *TooManySpinsError) Error() string {
	return fmt.Sprintf("diag: %d spins requested, exceeds dense diagonalization cap of %d", e.Requested, e.Maximum)
}

// GroundStateEnergy returns the smallest eigenvalue of the open-boundary
// transverse-field Ising Hamiltonian on n spins with field h, computed by
// dense diagonalization via gonum's real eigensolver -- adapted from the
// teacher's exactdiag/mat.COO.Eigen, which builds a gonum mat.Dense from
// its sparse entries and sorts mat.Eigen's output by real part.
func GroundStateEnergy(n int, h float32) (float32, error) {
	if n > MaxSpins {
		return 0, &TooManySpinsError{Requested: n, Maximum: MaxSpins}
	}
	data, dim := Hamiltonian(n, h)
	gnm := mat.NewDense(dim, dim, data)

	var eig mat.Eigen
	if ok := eig.Factorize(gnm, mat.EigenRight); !ok {
		return 0, errors.Errorf("diag: eigen factorization failed for %d spins", n)
	}
	vals := eig.Values(nil)

	min := real(vals[0])
	for _, v := range vals[1:] {
		if real(v) < min {
			min = real(v)
		}
	}
	return float32(min), nil
}

// GroundState returns the smallest eigenvalue together with its
// (unit-norm) eigenvector, in the same row-major basis ordering
// mps.FlatToTensor/TensorToFlat use -- the high bit of the basis index is
// site 0, matching qising.go's bits/bitIndex convention.
func GroundState(n int, h float32) (float32, []complex64, error) {
	if n > MaxSpins {
		return 0, nil, &TooManySpinsError{Requested: n, Maximum: MaxSpins}
	}
	data, dim := Hamiltonian(n, h)
	gnm := mat.NewDense(dim, dim, data)

	var eig mat.Eigen
	if ok := eig.Factorize(gnm, mat.EigenRight); !ok {
		return 0, nil, errors.Errorf("diag: eigen factorization failed for %d spins", n)
	}
	vals := eig.Values(nil)
	vecs := mat.NewCDense(dim, dim, nil)
	eig.VectorsTo(vecs)

	minIdx := 0
	for i, v := range vals {
		if real(v) < real(vals[minIdx]) {
			minIdx = i
		}
	}

	vec := make([]complex64, dim)
	for i := 0; i < dim; i++ {
		c := vecs.At(i, minIdx)
		vec[i] = complex64(c)
	}
	normalize(vec)
	return float32(real(vals[minIdx])), vec, nil
}

func normalize(vec []complex64) {
	var norm float64
	for _, v := range vec {
		norm += float64(real(v))*float64(real(v)) + float64(imag(v))*float64(imag(v))
	}
	if norm == 0 {
		return
	}
	scale := complex64(complex(1/math.Sqrt(norm), 0))
	for i := range vec {
		vec[i] *= scale
	}
}
