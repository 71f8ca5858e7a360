package mps_test

import (
	"testing"

	"github.com/fumin/nutcracker/mps"
)

func TestIsingBoundaryShapes(t *testing.T) {
	mpo := mps.Ising([2]int{5, 1}, 1)
	if mpo[0].LeftDimension != 1 {
		t.Fatalf("first site left dimension = %d, want 1", mpo[0].LeftDimension)
	}
	last := mpo[len(mpo)-1]
	if last.RightDimension != 1 {
		t.Fatalf("last site right dimension = %d, want 1", last.RightDimension)
	}
	for i := 1; i < len(mpo)-1; i++ {
		if mpo[i].LeftDimension != mpo[0].RightDimension {
			t.Fatalf("site %d left dimension = %d, want %d", i, mpo[i].LeftDimension, mpo[0].RightDimension)
		}
	}
}

func TestConnectDimensionMismatch(t *testing.T) {
	if _, err := mps.Connect("a", 3, "b", 3); err != nil {
		t.Fatalf("unexpected error for matching dims: %v", err)
	}
	if _, err := mps.Connect("a", 3, "b", 4); err == nil {
		t.Fatalf("expected error for mismatched dims")
	}
}
