package diag_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fumin/nutcracker/chain"
	"github.com/fumin/nutcracker/diag"
	"github.com/fumin/nutcracker/mps"
)

// S2: the chain-converged ground-state energy of an 8-site transverse-
// field Ising chain must agree with brute-force exact diagonalization of
// the same Hamiltonian's dense matrix.
func TestGroundStateEnergyMatchesChain(t *testing.T) {
	const n = 8
	const h = 0.5

	want, err := diag.GroundStateEnergy(n, h)
	require.NoError(t, err)

	mpo := mps.Ising([2]int{n, 1}, h)
	c, err := chain.NewChain(mpo, 8, chain.NewOptions(), chain.Observer{})
	require.NoError(t, err)
	require.NoError(t, c.OptimizeChain(16))

	require.InDelta(t, want, c.Energy, 1e-2)
}

// Boundary case: the N=2 transverse-field Ising model reduces, after
// splitting off the two decoupled odd-sector states at energies +1 and
// -1, to a single two-level problem between (|^^>+|vv>)/sqrt2 and the
// symmetric spin-flip state, giving the closed form E0 = -sqrt(1+4h^2).
func TestGroundStateEnergyTwoSiteClosedForm(t *testing.T) {
	const h = 0.5
	got, err := diag.GroundStateEnergy(2, h)
	require.NoError(t, err)

	want := -math.Sqrt(1 + 4*float64(h)*float64(h))
	require.InDelta(t, want, float64(got), 1e-4)
}

// At overwhelming transverse field every spin polarizes along X, so in the
// Z basis all 2^n outcomes are equally likely and the mean |M|/n collapses
// to the mean absolute deviation of n coin flips (0.3125 for n=6), far
// below the |M|/n = 1 of the field-free ferromagnet.
func TestGroundStateMagnetizationAtLargeField(t *testing.T) {
	const n = 6
	_, state, err := diag.GroundState(n, 50)
	require.NoError(t, err)

	m := diag.Magnetization(n, state)
	require.InDelta(t, 0.3125, m, 0.05)
}

func TestTooManySpinsError(t *testing.T) {
	_, err := diag.GroundStateEnergy(diag.MaxSpins+1, 0.5)
	require.ErrorAs(t, err, new(*diag.TooManySpinsError))
}
