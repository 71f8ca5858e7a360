package mps

import (
	"fmt"
	"slices"

	"github.com/fumin/tensor"
)

// Product contracts a full chain of state sites into a single dense
// tensor, with the two boundary (size-1) bond indices left in place at
// either end -- callers typically Reshape away the leading and trailing
// 1-dimensions to recover the bare physical-index tensor.
func Product(sites []*StateSite) *tensor.Dense {
	if len(sites) == 1 {
		return resetCopy(tensor.Zeros(1), sites[0].Tensor)
	}

	buf := tensor.Zeros(1)
	p := tensor.Zeros(1)
	mmiPrev := resetCopy(buf, sites[0].Tensor)
	var mmi *tensor.Dense
	for _, s := range sites[1:] {
		if mmiPrev == buf {
			mmi = p
		} else {
			mmi = buf
		}
		axes := [][2]int{{len(mmiPrev.Shape()) - 1, 0}}
		tensor.Product(mmi, mmiPrev, s.Tensor, axes)
		mmiPrev = mmi
	}
	if mmi == buf {
		return resetCopy(p, mmi)
	}
	return mmi
}

// InnerProduct computes <x|y> for two chains of state sites of equal
// length. See Section 4.2.1, Schollwock.
func InnerProduct(x, y []*StateSite) complex64 {
	if len(x) != len(y) {
		panic(fmt.Sprintf("mps: InnerProduct length mismatch %d %d", len(x), len(y)))
	}

	f := ones(tensor.Zeros(1), 1, 1)
	const fTopAxis, fBottomAxis = 0, 1
	for i, xi := range x {
		yi := y[i]
		fyi := tensor.Product(tensor.Zeros(1), f, yi.Tensor, [][2]int{{fBottomAxis, LeftAxis}})
		tensor.Product(f, xi.Tensor.Conj(), fyi, [][2]int{{LeftAxis, fTopAxis}, {UpAxis, UpAxis}})
	}

	if !slices.Equal(f.Shape(), []int{1, 1}) {
		panic(fmt.Sprintf("mps: InnerProduct left with residual shape %#v", f.Shape()))
	}
	return f.At(0, 0)
}

// FlatToTensor reshapes a row-major flattened state vector into a dense
// tensor with one axis per physical dimension.
func FlatToTensor(flat []complex64, physicalDims []int) *tensor.Dense {
	return tensor.T1(flat).Reshape(physicalDims...)
}

// TensorToFlat is the inverse of FlatToTensor: it walks t in row-major
// order and returns the flattened state vector.
func TensorToFlat(t *tensor.Dense) []complex64 {
	n := 1
	for _, d := range t.Shape() {
		n *= d
	}
	flat := make([]complex64, 0, n)
	for ijk := range t.All() {
		flat = append(flat, t.At(ijk...))
	}
	return flat
}

// FlatIndexToTensorIndex converts an index into the row-major flattened
// representation of a tensor to the equivalent multi-index, with the first
// dimension most significant.
func FlatIndexToTensorIndex(dimensions []int, flatIndex int) []int {
	idx := make([]int, len(dimensions))
	for i := len(dimensions) - 1; i >= 0; i-- {
		idx[i] = flatIndex % dimensions[i]
		flatIndex /= dimensions[i]
	}
	return idx
}

// TensorIndexToFlatIndex is the inverse of FlatIndexToTensorIndex.
func TensorIndexToFlatIndex(dimensions []int, tensorIndex []int) int {
	flat := 0
	for i, d := range dimensions {
		flat = flat*d + tensorIndex[i]
	}
	return flat
}

// StateVectorComponent returns the amplitude the chain of state sites
// assigns to the basis state with the given observed qudit value at each
// site, by left-folding each site's selected transition matrix through a
// running row vector. For a handful of components this avoids the
// exponential cost of flattening the whole state with Product.
func StateVectorComponent(sites []*StateSite, observedValues []int) complex64 {
	if len(observedValues) != len(sites) {
		panic(fmt.Sprintf("mps: %d observed values for %d sites", len(observedValues), len(sites)))
	}

	v := ones(tensor.Zeros(1), 1, 1)
	for i, s := range sites {
		shape := s.Tensor.Shape()
		l, r := shape[LeftAxis], shape[RightAxis]
		view := s.Tensor.Slice([][2]int{{0, l}, {observedValues[i], observedValues[i] + 1}, {0, r}})
		transition := resetCopy(tensor.Zeros(1), view).Reshape(l, r)
		v = tensor.MatMul(tensor.Zeros(1), v, transition)
	}
	return v.At(0, 0)
}

// StateVectorComponentAt is StateVectorComponent addressed by the flat
// row-major index of the desired component instead of per-site observed
// values.
func StateVectorComponentAt(sites []*StateSite, flatIndex int) complex64 {
	dims := make([]int, len(sites))
	for i, s := range sites {
		dims[i] = s.PhysicalDimension()
	}
	return StateVectorComponent(sites, FlatIndexToTensorIndex(dims, flatIndex))
}
