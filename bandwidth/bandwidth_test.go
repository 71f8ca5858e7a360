package bandwidth_test

import (
	"slices"
	"testing"

	"github.com/fumin/nutcracker/bandwidth"
)

func TestComputeBandwidthDimensionSequenceCapped(t *testing.T) {
	got := bandwidth.ComputeBandwidthDimensionSequence(4, []int{2, 2, 2, 2})
	want := []int{1, 2, 4, 2, 1}
	if !slices.Equal(got, want) {
		t.Fatalf("got %v want %v", got, want)
	}
}

func TestComputeBandwidthDimensionSequenceBoundariesAreTrivial(t *testing.T) {
	got := bandwidth.ComputeBandwidthDimensionSequence(1000, []int{2, 2, 2})
	if got[0] != 1 || got[len(got)-1] != 1 {
		t.Fatalf("boundary dimensions = %v, want 1 at both ends", got)
	}
}

func TestMaximumBandwidthDimension(t *testing.T) {
	// Six spin-1/2 sites: the widest bond sits mid-chain and is capped by
	// the Hilbert-space dimension of the smaller half, 2^3 = 8.
	if max := bandwidth.MaximumBandwidthDimension([]int{2, 2, 2, 2, 2, 2}); max != 8 {
		t.Fatalf("got %d want 8", max)
	}
	// An odd-length chain peaks at 2^2 = 4 on the two central bonds.
	if max := bandwidth.MaximumBandwidthDimension([]int{2, 2, 2, 2, 2}); max != 4 {
		t.Fatalf("got %d want 4", max)
	}
}

func TestRequestBelowMaximumIsRespected(t *testing.T) {
	seq := bandwidth.ComputeBandwidthDimensionSequence(3, []int{2, 2, 2, 2, 2})
	for _, d := range seq {
		if d > 3 {
			t.Fatalf("dimension %d exceeds requested cap 3 in %v", d, seq)
		}
	}
}
