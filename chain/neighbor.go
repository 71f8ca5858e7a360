package chain

import "github.com/fumin/nutcracker/mps"

// NeighborRecord is the aggregate record the chain controller pushes onto
// its left/right stacks as the orthogonality center sweeps past a site:
// everything needed to restore that site as the new current position in a
// single push/pop, rather than five separate parallel slices indexed in
// lock-step (one boundary slice, one state-site slice, one operator-site
// slice, and so on) the way the original per-side Neighbor<side> template
// did.
type NeighborRecord struct {
	ExpectationBoundary *mps.ExpectationBoundary
	StateSite           *mps.StateSite
	OperatorSite        *mps.OperatorSite
	OverlapBoundaries   []*mps.OverlapBoundary
}
