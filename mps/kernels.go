package mps

import "github.com/fumin/tensor"

// SOSLeft absorbs one more site into a left-accumulated state-operator-state
// environment. It is the single-site step of Equation 192 (Section 6.2,
// Schollwock): given the environment to the left of site i and site i's
// state/operator tensors, it returns the environment to the left of site
// i+1.
func SOSLeft(left *ExpectationBoundary, m *StateSite, w *OperatorSite) *ExpectationBoundary {
	mustConnect("left boundary state", left.Tensor.Shape()[2], "state site left", m.LeftDimension())
	mustConnect("left boundary operator", left.Tensor.Shape()[1], "operator site left", w.LeftDimension)
	mustConnect("state site physical", m.PhysicalDimension(), "operator site physical", w.PhysicalDimension)
	wDense := w.Dense()

	// fm is of shape {fTop, fMid, mpsTop, mpsRight}.
	fm := tensor.Product(tensor.Zeros(1), left.Tensor, m.Tensor, [][2]int{{2, LeftAxis}})
	// wfm is of shape {mpoRight, mpoUp, fTop, mpsRight}.
	wfm := tensor.Product(tensor.Zeros(1), wDense, fm, [][2]int{{OpDownAxis, 2}, {OpLeftAxis, 1}})
	// fi is of shape {mpsRight.conj, mpoRight, mpsRight}.
	fi := tensor.Product(tensor.Zeros(1), m.Tensor.Conj(), wfm, [][2]int{{LeftAxis, 2}, {UpAxis, 1}})

	return &ExpectationBoundary{Tensor: fi}
}

// SOSRight is the mirror image of SOSLeft: it absorbs one more site into a
// right-accumulated environment, returning the environment to the right of
// site i-1.
func SOSRight(right *ExpectationBoundary, m *StateSite, w *OperatorSite) *ExpectationBoundary {
	mustConnect("right boundary state", right.Tensor.Shape()[2], "state site right", m.RightDimension())
	mustConnect("right boundary operator", right.Tensor.Shape()[1], "operator site right", w.RightDimension)
	mustConnect("state site physical", m.PhysicalDimension(), "operator site physical", w.PhysicalDimension)
	wDense := w.Dense()

	fm := tensor.Product(tensor.Zeros(1), right.Tensor, m.Tensor, [][2]int{{2, RightAxis}})
	wfm := tensor.Product(tensor.Zeros(1), wDense, fm, [][2]int{{OpDownAxis, 3}, {OpRightAxis, 1}})
	fi := tensor.Product(tensor.Zeros(1), m.Tensor.Conj(), wfm, [][2]int{{RightAxis, 2}, {UpAxis, 1}})

	return &ExpectationBoundary{Tensor: fi}
}

// VSLeft absorbs one more site into a left-accumulated overlap (state vs.
// reference state) environment.
func VSLeft(left *OverlapBoundary, ref *OverlapSite, m *StateSite) *OverlapBoundary {
	mustConnect("left overlap boundary state", left.Tensor.Shape()[1], "state site left", m.LeftDimension())
	mustConnect("left overlap boundary overlap", left.Tensor.Shape()[0], "overlap site left", ref.Tensor.Shape()[LeftAxis])
	// fm is of shape {overlapDim, mpsUp, mpsRight}.
	fm := tensor.Product(tensor.Zeros(1), left.Tensor, m.Tensor, [][2]int{{1, LeftAxis}})
	// out is of shape {overlapRight, mpsRight}.
	out := tensor.Product(tensor.Zeros(1), ref.Tensor.Conj(), fm, [][2]int{{0, 0}, {1, 1}})
	return &OverlapBoundary{Tensor: out}
}

// VSRight is the mirror image of VSLeft.
func VSRight(right *OverlapBoundary, ref *OverlapSite, m *StateSite) *OverlapBoundary {
	mustConnect("right overlap boundary state", right.Tensor.Shape()[1], "state site right", m.RightDimension())
	mustConnect("right overlap boundary overlap", right.Tensor.Shape()[0], "overlap site right", ref.Tensor.Shape()[RightAxis])
	fm := tensor.Product(tensor.Zeros(1), right.Tensor, m.Tensor, [][2]int{{1, RightAxis}})
	out := tensor.Product(tensor.Zeros(1), ref.Tensor.Conj(), fm, [][2]int{{2, 0}, {1, 2}})
	return &OverlapBoundary{Tensor: out}
}

// AssembleOptimizationMatrix builds the effective Hamiltonian H_eff for the
// site bracketed by left and right, reshaped to a square matrix of
// dimension leftDim*physicalDim*rightDim, suitable for handing directly to
// an eigensolver. This is Equation 210, Section 6.3, Schollwock.
func AssembleOptimizationMatrix(left *ExpectationBoundary, w *OperatorSite, right *ExpectationBoundary) *tensor.Dense {
	mustConnect("left boundary operator", left.Tensor.Shape()[1], "operator site left", w.LeftDimension)
	mustConnect("right boundary operator", right.Tensor.Shape()[1], "operator site right", w.RightDimension)
	wDense := w.Dense()

	// wRight is of shape {mpoLeft, mpoUp, mpoDown, rightTop, rightBot}.
	wRight := tensor.Product(tensor.Zeros(1), wDense, right.Tensor, [][2]int{{OpRightAxis, 1}})
	// lwr is of shape {leftTop, leftBot, mpoUp, mpoDown, rightTop, rightBot}.
	lwr := tensor.Product(tensor.Zeros(1), left.Tensor, wRight, [][2]int{{1, 0}})

	// h is of shape {leftTop, mpoUp, rightTop, leftBot, mpoDown, rightBot}.
	h := resetCopy(tensor.Zeros(1), lwr.Transpose(0, 2, 4, 1, 3, 5))

	ls, ws, rs := left.Tensor.Shape(), wDense.Shape(), right.Tensor.Shape()
	return h.Reshape(ls[0]*ws[OpUpAxis]*rs[0], ls[2]*ws[OpDownAxis]*rs[2])
}

// AssembleOverlapVector contracts the boundaries either side of the current
// position with a reference state's site tensor there, producing a vector v
// in the current site's own (left, up, right) space such that
// <ref|state> = v^H m for any middle tensor m placed at that site. This is
// the column a projector basis is built from: constraining new middle
// tensors orthogonal to v keeps the whole state orthogonal to the
// reference.
func AssembleOverlapVector(left *OverlapBoundary, ref *OverlapSite, right *OverlapBoundary) *tensor.Dense {
	lm := tensor.Product(tensor.Zeros(1), left.Tensor.Conj(), ref.Tensor, [][2]int{{0, 0}})
	out := tensor.Product(tensor.Zeros(1), lm, right.Tensor.Conj(), [][2]int{{2, 0}})
	return out
}

// ExpectationAtSite computes <m|H|m> for the site bracketed by left and
// right, where H is the effective Hamiltonian AssembleOptimizationMatrix
// would build. Used by the optimizer to sanity-check a converged
// eigenvalue against the directly computed expectation value.
func ExpectationAtSite(left *ExpectationBoundary, m *StateSite, w *OperatorSite, right *ExpectationBoundary) complex64 {
	h := AssembleOptimizationMatrix(left, w, right)
	dim := h.Shape()[0]

	v := resetCopy(tensor.Zeros(1), m.Tensor).Reshape(dim, 1)
	hv := tensor.Zeros(dim, 1)
	tensor.MatMul(hv, h, v)

	out := tensor.Zeros(1, 1)
	tensor.MatMul(out, v.H(), hv)
	return out.At(0, 0)
}
