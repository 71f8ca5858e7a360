// Package projector builds the orthogonal-complement projector used to
// exclude a set of reference states (e.g. previously found eigenstates)
// from a local optimization, so the optimizer package can search for
// excited states instead of re-converging to the ground state.
package projector
