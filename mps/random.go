package mps

import (
	"math/rand/v2"

	"github.com/fumin/tensor"
)

// NewMPS decomposes a general dense state tensor into a matrix product
// state by repeated thin QR factorization (Section 4.1.3, Schollwock).
func NewMPS(state *tensor.Dense) []*StateSite {
	shape := state.Shape()
	sites := make([]*StateSite, 0, len(shape))

	leftD := 1
	for _, physD := range shape[:len(shape)-1] {
		q := tensor.Zeros(1)
		bufs := [2]*tensor.Dense{tensor.Zeros(1), tensor.Zeros(1)}
		r := tensor.QR(q, state.Reshape(leftD*physD, -1), bufs)

		leftD = r.Shape()[0]
		state = r

		sites = append(sites, NewStateSite(q.Reshape(-1, physD, leftD), Left))
	}

	state = state.Reshape(leftD, shape[len(shape)-1], 1)
	sites = append(sites, NewStateSite(resetCopy(tensor.Zeros(1), state), Middle))

	return sites
}

// RandMPS creates a random matrix product state matching the physical
// dimensions of mpo, with bond dimension grown toward the middle of the
// chain and capped at maxD. See the discussion below Equation 71,
// Section 4.1.4, Schollwock.
func RandMPS(mpo []*OperatorSite, maxD int) []*StateSite {
	if len(mpo) == 1 {
		return []*StateSite{NewStateSite(randTensor(1, mpo[0].PhysicalDimension, 1), None)}
	}

	sites := make([]*StateSite, 0, len(mpo))

	physD := mpo[0].PhysicalDimension
	leftD := physD
	sites = append(sites, NewStateSite(randTensor(1, physD, min(physD, maxD)), None))

	for i := 1; i <= len(mpo)-2; i++ {
		physD := mpo[i].PhysicalDimension
		var rightD int
		switch {
		case i < len(mpo)/2:
			rightD = leftD * physD
		case i > len(mpo)/2:
			rightD = leftD / physD
		case len(mpo)%2 == 0:
			rightD = leftD / physD
		default:
			rightD = leftD
		}
		leftD = rightD

		si1 := sites[i-1].Tensor.Shape()
		sites = append(sites, NewStateSite(randTensor(si1[RightAxis], physD, min(rightD, maxD)), None))
	}

	physD = mpo[len(mpo)-1].PhysicalDimension
	si1 := sites[len(mpo)-2].Tensor.Shape()
	sites = append(sites, NewStateSite(randTensor(si1[RightAxis], physD, 1), None))

	return sites
}

func randTensor(shape ...int) *tensor.Dense {
	t := tensor.Zeros(shape...)
	for ijk := range t.All() {
		v := complex(rand.Float32()*2-1, rand.Float32()*2-1)
		t.SetAt(ijk, v)
	}
	return t
}
