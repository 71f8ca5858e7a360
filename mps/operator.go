package mps

import "github.com/fumin/tensor"

// OperatorSite is a single MPO tensor stored sparsely as a set of K
// physicalDimension x physicalDimension transition matrices, each tagged
// with the one-based (fromLeft, toRight) bond index pair it occupies in the
// dense (left, right, physical, physical) tensor it represents. Most
// physical Hamiltonians are block-sparse in the bond indices (e.g. the
// upper-triangular MPO form of a nearest-neighbor coupling), so this is
// the compact form; the contraction kernels work on the memoized dense
// form returned by Dense.
type OperatorSite struct {
	PhysicalDimension int
	LeftDimension     int
	RightDimension    int
	Matrices          []*tensor.Dense
	Indices           [][2]int

	dense *tensor.Dense
}

// NewOperatorSite validates and constructs a sparse operator site.
func NewOperatorSite(physicalDimension, leftDimension, rightDimension int, matrices []*tensor.Dense, indices [][2]int) (*OperatorSite, error) {
	if len(matrices) != len(indices) {
		return nil, &DimensionMismatchError{NameA: "matrices", SizeA: len(matrices), NameB: "indices", SizeB: len(indices)}
	}
	for k, m := range matrices {
		shape := m.Shape()
		if len(shape) != 2 || shape[0] != shape[1] {
			rows, cols := shape[0], shape[len(shape)-1]
			return nil, &NonSquareMatrixError{Rows: rows, Columns: cols}
		}
		if shape[0] != physicalDimension {
			return nil, &DimensionMismatchError{NameA: "matrix physical dimension", SizeA: shape[0], NameB: "physicalDimension", SizeB: physicalDimension}
		}
		from, to := indices[k][0], indices[k][1]
		if from < 1 {
			return nil, &IndexTooLowError{Which: "fromLeft", Index: from}
		}
		if from > leftDimension {
			return nil, &IndexTooHighError{Which: "fromLeft", Index: from, Bound: leftDimension}
		}
		if to < 1 {
			return nil, &IndexTooLowError{Which: "toRight", Index: to}
		}
		if to > rightDimension {
			return nil, &IndexTooHighError{Which: "toRight", Index: to, Bound: rightDimension}
		}
	}
	return &OperatorSite{
		PhysicalDimension: physicalDimension,
		LeftDimension:     leftDimension,
		RightDimension:    rightDimension,
		Matrices:          matrices,
		Indices:           indices,
	}, nil
}

// NumberOfMatrices returns K, the number of nonzero transition matrices.
func (o *OperatorSite) NumberOfMatrices() int { return len(o.Matrices) }

// Dense returns the (left, right, physical, physical) dense form of this
// operator site, memoized after the first call. The contraction kernels in
// this package operate on this dense form, following the teacher's proven
// contraction algebra; the sparse form above is the data model the rest of
// the system (persistence, construction) is built around.
func (o *OperatorSite) Dense() *tensor.Dense {
	if o.dense != nil {
		return o.dense
	}
	d := tensor.Zeros(o.LeftDimension, o.RightDimension, o.PhysicalDimension, o.PhysicalDimension)
	for k, m := range o.Matrices {
		from, to := o.Indices[k][0]-1, o.Indices[k][1]-1
		for ij := range m.All() {
			d.SetAt([]int{from, to, ij[0], ij[1]}, m.At(ij...))
		}
	}
	o.dense = d
	return d
}

// operatorFromDenseBlock extracts a sparse OperatorSite from a dense
// (left, right, physical, physical) tensor by scanning which
// (fromLeft, toRight) blocks are nonzero.
func operatorFromDenseBlock(w *tensor.Dense) *OperatorSite {
	shape := w.Shape()
	left, right, phys := shape[OpLeftAxis], shape[OpRightAxis], shape[OpUpAxis]

	var matrices []*tensor.Dense
	var indices [][2]int
	for a := 0; a < left; a++ {
		for b := 0; b < right; b++ {
			view := w.Slice([][2]int{{a, a + 1}, {b, b + 1}, {0, phys}, {0, phys}})
			block := resetCopy(tensor.Zeros(1), view).Reshape(phys, phys)
			if isZeroTensor(block) {
				continue
			}
			matrices = append(matrices, block)
			indices = append(indices, [2]int{a + 1, b + 1})
		}
	}
	return &OperatorSite{
		PhysicalDimension: phys,
		LeftDimension:     left,
		RightDimension:    right,
		Matrices:          matrices,
		Indices:           indices,
		dense:             w,
	}
}

func isZeroTensor(t *tensor.Dense) bool {
	for ij := range t.All() {
		if t.At(ij...) != 0 {
			return false
		}
	}
	return true
}
