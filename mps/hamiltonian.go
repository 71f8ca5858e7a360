package mps

import "github.com/fumin/tensor"

var (
	zero = [][]complex64{
		{0, 0},
		{0, 0},
	}
	identity = [][]complex64{
		{1, 0},
		{0, 1},
	}
	pauliX = [][]complex64{
		{0, 1},
		{1, 0},
	}
	pauliY = [][]complex64{
		{0, -1i},
		{1i, 0},
	}
	pauliZ = [][]complex64{
		{1, 0},
		{0, -1},
	}
)

// MagnetizationZ returns the MPO Hamiltonian of the Z axis magnetization
// on a lattice of the given shape.
func MagnetizationZ(n [2]int) []*OperatorSite {
	w := tensor.T4([][][][]complex64{
		{identity, zero},
		{pauliZ, identity},
	})
	return newMPO(w, n)
}

// Ising returns the MPO Hamiltonian of the [Transverse Field Ising Model]
// on a lattice of the given shape, with transverse field strength h.
//
// [Transverse Field Ising Model]: https://en.wikipedia.org/wiki/Transverse-field_Ising_model
func Ising(n [2]int, h complex64) []*OperatorSite {
	mul := func(c complex64, x [][]complex64) [][]complex64 {
		return tensor.T2(x).Mul(c).ToSlice2()
	}
	w := tensor.T4([][][][]complex64{
		{identity, zero, zero},
		{pauliZ, zero, zero},
		{mul(-h, pauliX), mul(-1, pauliZ), identity},
	})
	return newMPO(w, n)
}

func newMPO(w *tensor.Dense, n [2]int) []*OperatorSite {
	d0, d1, d2, d3 := w.Shape()[0], w.Shape()[1], w.Shape()[2], w.Shape()[3]
	mpo := make([]*OperatorSite, 0, n[0])

	// A single-site chain truncates both the starting row and the closing
	// column at once: the only surviving element is the one that would, in
	// a longer chain, connect the start of the transfer-matrix product
	// straight to its end.
	if n[0] == 1 {
		block := w.Slice([][2]int{{d0 - 1, d0}, {0, 1}, {0, d2}, {0, d3}})
		return append(mpo, operatorFromDenseBlock(block))
	}

	// First site keeps only w[-1], the row that starts the chain's
	// transfer-matrix product at the identity.
	mpo = append(mpo, operatorFromDenseBlock(w.Slice([][2]int{{d0 - 1, d0}, {0, d1}, {0, d2}, {0, d3}})))

	for range n[0] - 2 {
		mpo = append(mpo, operatorFromDenseBlock(w))
	}

	// Last site keeps only w[:, 0], the column that closes the product.
	mpo = append(mpo, operatorFromDenseBlock(w.Slice([][2]int{{0, d0}, {0, 1}, {0, d2}, {0, d3}})))

	return mpo
}
