package mps

import "github.com/fumin/tensor"

// Axis positions within a state-site tensor of shape (left, up, right).
const (
	LeftAxis  = 0
	UpAxis    = 1
	RightAxis = 2
)

// Axis positions within the dense form of an operator-site tensor of shape
// (left, right, up, down).
const (
	OpLeftAxis  = 0
	OpRightAxis = 1
	OpUpAxis    = 2
	OpDownAxis  = 3
)

// Machine precision for complex64 arithmetic.
const Epsilon = 0x1p-23

// Normalization is the gauge a StateSite or OverlapSite tensor is currently
// held in. A site is Left-normalized when its left-contraction with its own
// conjugate is the identity, Right-normalized when the right-contraction is
// the identity, Middle-normalized at the orthogonality center (no isometry
// constraint), and None immediately after construction, before any gauge
// has been fixed.
type Normalization int

const (
	None Normalization = iota
	Left
	Middle
	Right
)

func (n Normalization) String() string {
	switch n {
	case Left:
		return "Left"
	case Middle:
		return "Middle"
	case Right:
		return "Right"
	case None:
		return "None"
	default:
		return "Unknown"
	}
}

// Other returns the opposite side of a move. It panics on Middle, since
// Middle never names a sweep direction -- a caller asking for its opposite
// indicates a broken internal invariant, not a user error.
func (n Normalization) Other() Normalization {
	switch n {
	case Left:
		return Right
	case Right:
		return Left
	default:
		panic("mps: Other is only defined for Left and Right")
	}
}

// StateSite is a single MPS tensor of shape (left, physical, right),
// tagged with the normalization gauge it is currently held in.
type StateSite struct {
	Tensor *tensor.Dense
	Norm   Normalization
}

// NewStateSite wraps t, tagged with the given normalization.
func NewStateSite(t *tensor.Dense, norm Normalization) *StateSite {
	return &StateSite{Tensor: t, Norm: norm}
}

func (s *StateSite) LeftDimension() int     { return s.Tensor.Shape()[LeftAxis] }
func (s *StateSite) PhysicalDimension() int { return s.Tensor.Shape()[UpAxis] }
func (s *StateSite) RightDimension() int    { return s.Tensor.Shape()[RightAxis] }

// CloneStateSite returns a StateSite backed by an independent copy of s's
// tensor data, so later in-place gauge transfers on s do not alias into the
// clone. Used when freezing a converged state as a reference for excited-
// state search.
func CloneStateSite(s *StateSite) *StateSite {
	return NewStateSite(resetCopy(tensor.Zeros(1), s.Tensor), s.Norm)
}

// OverlapSite carries the same shape and gauge discipline as a StateSite,
// but belongs to a reference state being overlapped against (e.g. a
// previously converged state excluded via a ProjectorMatrix).
type OverlapSite struct {
	Tensor *tensor.Dense
	Norm   Normalization
}

func NewOverlapSite(t *tensor.Dense, norm Normalization) *OverlapSite {
	return &OverlapSite{Tensor: t, Norm: norm}
}

// ExpectationBoundary is an SOS (state-operator-state) environment
// contraction, of shape (mpsRight.conj, mpoRight, mpsRight) when accumulated
// from the left, or the mirror shape when accumulated from the right.
type ExpectationBoundary struct {
	Tensor *tensor.Dense
}

// TrivialExpectationBoundary returns the boundary at the edge of the chain:
// an all-ones 1x1x1 tensor, which acts as the identity under SOSLeft/SOSRight.
func TrivialExpectationBoundary() *ExpectationBoundary {
	return &ExpectationBoundary{Tensor: ones(tensor.Zeros(1), 1, 1, 1)}
}

// OverlapBoundary is a VS (overlap) environment contraction between the
// current state and a single reference state, of shape
// (overlapRight.conj, mpsRight).
type OverlapBoundary struct {
	Tensor *tensor.Dense
}

// TrivialOverlapBoundary returns the boundary at the edge of the chain: an
// all-ones 1x1 tensor, the identity under VSLeft/VSRight.
func TrivialOverlapBoundary() *OverlapBoundary {
	return &OverlapBoundary{Tensor: ones(tensor.Zeros(1), 1, 1)}
}

func ones(t *tensor.Dense, shape ...int) *tensor.Dense {
	t.Reset(shape...)
	for ijk := range t.All() {
		t.SetAt(ijk, 1)
	}
	return t
}

func resetCopy(dst, src *tensor.Dense) *tensor.Dense {
	shape := src.Shape()
	zeroDigit := make([]int, len(shape))
	dst.Reset(shape...).Set(zeroDigit, src)
	return dst
}
