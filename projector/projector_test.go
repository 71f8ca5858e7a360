package projector_test

import (
	"math/cmplx"
	"math/rand/v2"
	"testing"

	"github.com/fumin/nutcracker/projector"
	"github.com/fumin/tensor"
)

func randVec(n int) *tensor.Dense {
	t := tensor.Zeros(n, 1)
	for ijk := range t.All() {
		t.SetAt(ijk, complex(rand.Float32()*2-1, rand.Float32()*2-1))
	}
	return t
}

func absf(x complex64) float64 { return cmplx.Abs(complex128(x)) }

func TestApplyOrthogonalComplementIdempotent(t *testing.T) {
	const dim = 6
	res, err := projector.Build(dim, []*tensor.Dense{randVec(dim), randVec(dim)})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if res.RankDeficient != 0 {
		t.Fatalf("unexpected rank deficiency %d", res.RankDeficient)
	}
	m := res.Matrix

	v := randVec(dim)
	once := m.ApplyOrthogonalComplement(v)
	twice := m.ApplyOrthogonalComplement(once)

	for i := 0; i < dim; i++ {
		if absf(once.At(i, 0)-twice.At(i, 0)) > 1e-3 {
			t.Fatalf("not idempotent at %d: %v vs %v", i, once.At(i, 0), twice.At(i, 0))
		}
	}

	overlap := m.Overlap(once)
	if overlap > 1e-3 {
		t.Fatalf("residual overlap with forbidden subspace = %v, want ~0", overlap)
	}
}

func TestBuildTooManyProjectors(t *testing.T) {
	const dim = 3
	vecs := []*tensor.Dense{randVec(dim), randVec(dim), randVec(dim)}
	if _, err := projector.Build(dim, vecs); err == nil {
		t.Fatalf("expected TooManyProjectorsError")
	}
}
