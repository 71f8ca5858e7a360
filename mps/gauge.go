package mps

import "github.com/fumin/tensor"

// MoveRight shifts the orthogonality center from cur to next: cur is
// decomposed cur = Q R via thin QR, Q (Left-normalized) replaces cur, and R
// is absorbed into next. Returns the number of near-singular rows on the R
// diagonal found and zeroed, so a caller can decide whether to warn about
// silently discarded degrees of freedom (this package makes no logging
// decisions of its own -- see chain.Observer.OnRankDeficiency).
func MoveRight(cur, next *StateSite) (int, error) {
	s := cur.Tensor.Shape()
	dLeft, dUp, dRight := s[LeftAxis], s[UpAxis], s[RightAxis]
	if dRight > dLeft*dUp {
		return 0, &NotEnoughDegreesOfFreedomToNormalizeError{Bond: dRight, Available: dLeft * dUp}
	}

	mi := cur.Tensor.Reshape(dLeft*dUp, -1)
	q := tensor.Zeros(1)
	qrbufs := [2]*tensor.Dense{tensor.Zeros(1), tensor.Zeros(1)}
	r := tensor.QR(q, mi, qrbufs)
	deficient := zeroNearSingularDiagonal(r)

	axes := [][2]int{{1, LeftAxis}}
	resetCopy(next.Tensor, tensor.Product(tensor.Zeros(1), r, next.Tensor, axes))

	cur.Tensor = resetCopy(cur.Tensor, q).Reshape(dLeft, dUp, -1)
	cur.Norm = Left
	next.Norm = None
	return deficient, nil
}

// MoveLeft is the mirror of MoveRight: cur is decomposed cur = L Q^H via
// thin LQ, Q^H (Right-normalized) replaces cur, and L is absorbed into
// prev.
func MoveLeft(cur, prev *StateSite) (int, error) {
	s := cur.Tensor.Shape()
	dLeft, dUp, dRight := s[LeftAxis], s[UpAxis], s[RightAxis]
	if dLeft > dUp*dRight {
		return 0, &NotEnoughDegreesOfFreedomToNormalizeError{Bond: dLeft, Available: dUp * dRight}
	}

	mi := cur.Tensor.Reshape(dLeft, dUp*dRight)
	q := tensor.Zeros(1)
	lqbufs := [2]*tensor.Dense{tensor.Zeros(1), tensor.Zeros(1)}
	r := tensor.QR(q, mi.H(), lqbufs)
	deficient := zeroNearSingularDiagonal(r)
	l := r.H()

	axes := [][2]int{{RightAxis, 0}}
	resetCopy(prev.Tensor, tensor.Product(tensor.Zeros(1), prev.Tensor, l, axes))

	cur.Tensor = resetCopy(cur.Tensor, q.H()).Reshape(-1, dUp, dRight)
	cur.Norm = Right
	prev.Norm = None
	return deficient, nil
}

// zeroNearSingularDiagonal scans r's diagonal for entries far smaller than
// r's own scale and zeros them in place, rather than letting a
// near-singular row silently vanish from a later reshape.
func zeroNearSingularDiagonal(r *tensor.Dense) int {
	shape := r.Shape()
	n := min(shape[0], shape[1])
	tol := 10 * Epsilon * r.FrobeniusNorm()

	count := 0
	for i := 0; i < n; i++ {
		if abs(r.At(i, i)) < tol {
			r.SetAt([]int{i, i}, 0)
			count++
		}
	}
	return count
}
