package projector

import (
	"fmt"
	"math/cmplx"

	"github.com/fumin/tensor"
)

// Machine precision for complex64 arithmetic.
const epsilon = 0x1p-23

// Matrix is an orthonormal basis for the subspace a local optimization is
// forbidden from returning an eigenvector in. It is built from a set of
// projector column vectors (each of dimension Dimension) via thin QR;
// github.com/fumin/tensor exposes no column-pivoted QR, so rank deficiency
// among the input vectors is detected by scanning the R diagonal after the
// fact rather than by pivoting during the decomposition (see DESIGN.md).
type Matrix struct {
	Dimension int
	Basis     *tensor.Dense // shape (Dimension, rank), orthonormal columns
}

// TooManyProjectorsError mirrors the original optimizer's
// OptimizerGivenTooManyProjectors: the number of projector vectors must be
// smaller than the dimension of the space the optimizer searches in.
type TooManyProjectorsError struct {
	NumberOfProjectors int
	Dimension          int
}

func (e *TooManyProjectorsError) Error() string {
	return fmt.Sprintf("projector: given %d projectors >= dimension %d", e.NumberOfProjectors, e.Dimension)
}

// BuildResult is the outcome of Build: the orthonormalized projector
// matrix, plus how many of the input vectors turned out to be linearly
// dependent on the others. Dependent vectors are detected, not silently
// dropped; a caller decides whether the deficiency is worth a warning.
type BuildResult struct {
	Matrix        *Matrix
	RankDeficient int
}

// Build stacks the given column vectors (each reshaped to a Dimension x 1
// tensor) and orthonormalizes them via thin QR.
func Build(dimension int, vectors []*tensor.Dense) (*BuildResult, error) {
	if len(vectors) == 0 {
		return &BuildResult{Matrix: &Matrix{Dimension: dimension, Basis: tensor.Zeros(dimension, 0)}}, nil
	}
	if len(vectors) >= dimension {
		return nil, &TooManyProjectorsError{NumberOfProjectors: len(vectors), Dimension: dimension}
	}

	stacked := tensor.Zeros(dimension, len(vectors))
	for j, v := range vectors {
		col := v.Reshape(dimension, 1)
		for i := 0; i < dimension; i++ {
			stacked.SetAt([]int{i, j}, col.At(i, 0))
		}
	}

	q := tensor.Zeros(1)
	bufs := [2]*tensor.Dense{tensor.Zeros(1), tensor.Zeros(1)}
	r := tensor.QR(q, stacked, bufs)

	deficient := 0
	tol := 10 * epsilon * r.FrobeniusNorm()
	for i := 0; i < len(vectors); i++ {
		if float32(cmplx.Abs(complex128(r.At(i, i)))) < tol {
			deficient++
		}
	}

	return &BuildResult{Matrix: &Matrix{Dimension: dimension, Basis: q}, RankDeficient: deficient}, nil
}

// NumberOfProjectors returns the rank of the forbidden subspace.
func (m *Matrix) NumberOfProjectors() int {
	if m == nil {
		return 0
	}
	return m.Basis.Shape()[1]
}

// Valid reports whether this projector actually excludes anything.
func (m *Matrix) Valid() bool {
	return m != nil && m.NumberOfProjectors() > 0
}

// ApplyOrthogonalComplement returns x - Q Q^H x, the component of x
// orthogonal to the forbidden subspace, as a fresh (Dimension, 1) column.
// x itself is not modified.
func (m *Matrix) ApplyOrthogonalComplement(x *tensor.Dense) *tensor.Dense {
	dim := m.Dimension
	col := asColumn(x, dim)
	if !m.Valid() {
		return col
	}

	qhx := tensor.MatMul(tensor.Zeros(1), m.Basis.H(), col)
	qqhx := tensor.MatMul(tensor.Zeros(1), m.Basis, qhx)

	out := tensor.Zeros(dim, 1)
	addOut(out, col, mulOut(tensor.Zeros(1), -1, qqhx))
	return out
}

// Overlap returns ||Q^H v||, the norm of the component of v lying inside
// the forbidden subspace. A converged eigenvector with a large overlap
// indicates the optimizer strayed back into the space it was supposed to
// avoid.
func (m *Matrix) Overlap(v *tensor.Dense) float32 {
	if !m.Valid() {
		return 0
	}
	col := asColumn(v, m.Dimension)
	qhv := tensor.MatMul(tensor.Zeros(1), m.Basis.H(), col)
	return qhv.FrobeniusNorm()
}

// ProjectMatrix returns (I-QQ^H) H (I-QQ^H) + shift*QQ^H: a matrix with the
// same eigenvectors as H restricted to the orthogonal complement of the
// forbidden subspace, with the forbidden subspace itself pushed to
// eigenvalue shift so it never wins a smallest-real-part search. This
// substitutes for a matvec-based implicit deflation, which
// github.com/fumin/tensor's Arnoldi does not expose (it takes an explicit
// dense matrix) -- see DESIGN.md.
func (m *Matrix) ProjectMatrix(h *tensor.Dense, shift float32) *tensor.Dense {
	dim := m.Dimension
	if !m.Valid() {
		return h
	}

	q := m.Basis
	qqh := tensor.MatMul(tensor.Zeros(1), q, q.H())

	complement := tensor.Zeros(dim, dim)
	addOut(complement, tensor.Zeros(1).Eye(dim, 0), mulOut(tensor.Zeros(1), -1, qqh))

	tmp := tensor.MatMul(tensor.Zeros(1), complement, h)
	projected := tensor.MatMul(tensor.Zeros(1), tmp, complement)

	shifted := mulOut(tensor.Zeros(1), complex(shift, 0), qqh)
	out := tensor.Zeros(dim, dim)
	addOut(out, projected, shifted)
	return out
}

// addOut sets out to a+b, using the in-place Add method github.com/fumin/tensor
// actually exposes (a.Add(c, b) computes a = a + c*b) rather than an
// out-param free function.
func addOut(out, a, b *tensor.Dense) *tensor.Dense {
	resetCopy(out, a)
	return out.Add(1, b)
}

// mulOut sets out to c*x, using the in-place Mul method github.com/fumin/tensor
// actually exposes (x.Mul(c) computes x = x*c) rather than an out-param free
// function.
func mulOut(out *tensor.Dense, c complex64, x *tensor.Dense) *tensor.Dense {
	resetCopy(out, x)
	return out.Mul(c)
}

// resetCopy resizes dst to src's shape and copies src's values into it.
func resetCopy(dst, src *tensor.Dense) *tensor.Dense {
	shape := src.Shape()
	zeroDigit := make([]int, len(shape))
	return dst.Reset(shape...).Set(zeroDigit, src)
}

// asColumn copies x into a fresh (dim, 1) column so callers' tensors keep
// their shapes.
func asColumn(x *tensor.Dense, dim int) *tensor.Dense {
	out := tensor.Zeros(x.Shape()...)
	out.Set(make([]int, len(x.Shape())), x)
	return out.Reshape(dim, 1)
}
