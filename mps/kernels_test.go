package mps_test

import (
	"testing"

	"github.com/fumin/nutcracker/mps"
)

func TestExpectationConsistentAcrossBoundaryDirections(t *testing.T) {
	mpo := mps.Ising([2]int{4, 1}, 0.7)
	state := mps.RandMPS(mpo, 4)

	// e1: sweep the environment all the way from the left.
	left := mps.TrivialExpectationBoundary()
	for i, m := range state {
		left = mps.SOSLeft(left, m, mpo[i])
	}
	e1 := left.Tensor.At(0, 0, 0)

	// e2: evaluate the same expectation value at site 0 using a right
	// environment built by sweeping from the opposite edge.
	right := mps.TrivialExpectationBoundary()
	for i := len(state) - 1; i >= 1; i-- {
		right = mps.SOSRight(right, state[i], mpo[i])
	}
	e2 := mps.ExpectationAtSite(mps.TrivialExpectationBoundary(), state[0], mpo[0], right)

	scale := max(absf(e1), 1)
	if absf(e1-e2) > 1e-3*scale {
		t.Fatalf("e1=%v e2=%v disagree", e1, e2)
	}
}

func TestOperatorSiteDenseMatchesSparseEntries(t *testing.T) {
	mpo := mps.Ising([2]int{3, 1}, 1.3)
	for i, op := range mpo {
		dense := op.Dense()

		// Every sparse transition matrix appears at its (from, to) block.
		for k, m := range op.Matrices {
			from, to := op.Indices[k][0]-1, op.Indices[k][1]-1
			for p := 0; p < op.PhysicalDimension; p++ {
				for q := 0; q < op.PhysicalDimension; q++ {
					if dense.At(from, to, p, q) != m.At(p, q) {
						t.Fatalf("site %d matrix %d: dense[%d,%d,%d,%d] = %v, want %v",
							i, k, from, to, p, q, dense.At(from, to, p, q), m.At(p, q))
					}
				}
			}
		}

		// Every entry outside the sparse blocks is zero.
		occupied := make(map[[2]int]bool, len(op.Indices))
		for _, idx := range op.Indices {
			occupied[[2]int{idx[0] - 1, idx[1] - 1}] = true
		}
		for a := 0; a < op.LeftDimension; a++ {
			for b := 0; b < op.RightDimension; b++ {
				if occupied[[2]int{a, b}] {
					continue
				}
				for p := 0; p < op.PhysicalDimension; p++ {
					for q := 0; q < op.PhysicalDimension; q++ {
						if dense.At(a, b, p, q) != 0 {
							t.Fatalf("site %d: dense[%d,%d,%d,%d] = %v outside any sparse block",
								i, a, b, p, q, dense.At(a, b, p, q))
						}
					}
				}
			}
		}
	}
}
