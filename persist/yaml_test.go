package persist_test

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fumin/nutcracker/bandwidth"
	"github.com/fumin/nutcracker/mps"
	"github.com/fumin/nutcracker/persist"
	"github.com/fumin/tensor"
)

func randomOperatorSite(t *testing.T, physDim, leftDim, rightDim, numMatrices int) *mps.OperatorSite {
	t.Helper()
	matrices := make([]*tensor.Dense, numMatrices)
	indices := make([][2]int, numMatrices)
	for k := 0; k < numMatrices; k++ {
		flat := make([]complex64, physDim*physDim)
		for i := range flat {
			flat[i] = complex(rand.Float32()*2-1, rand.Float32()*2-1)
		}
		matrices[k] = tensor.T1(flat).Reshape(physDim, physDim)
		indices[k] = [2]int{rand.IntN(leftDim) + 1, rand.IntN(rightDim) + 1}
	}
	op, err := mps.NewOperatorSite(physDim, leftDim, rightDim, matrices, indices)
	require.NoError(t, err)
	return op
}

// S6: a randomly generated MPO round-trips through the YAML format with
// index arrays preserved exactly and matrix entries preserved within
// complex64 precision (the documented 1e-15 tolerance assumes the
// complex-double element type the original used; this implementation's
// grounded tensor library uses complex64 throughout, see DESIGN.md).
func TestYAMLRoundTrip(t *testing.T) {
	physDims := []int{2, 3, 2}
	bonds := bandwidth.ComputeBandwidthDimensionSequence(4, physDims)

	mpo := make([]*mps.OperatorSite, len(physDims))
	for i, d := range physDims {
		mpo[i] = randomOperatorSite(t, d, bonds[i], bonds[i+1], 5)
	}

	data, err := persist.MarshalOperatorSites(mpo)
	require.NoError(t, err)
	got, err := persist.UnmarshalOperatorSites(data)
	require.NoError(t, err)

	require.Len(t, got, len(mpo))
	for i, want := range mpo {
		g := got[i]
		require.Equal(t, want.PhysicalDimension, g.PhysicalDimension, "site %d", i)
		require.Equal(t, want.LeftDimension, g.LeftDimension, "site %d", i)
		require.Equal(t, want.RightDimension, g.RightDimension, "site %d", i)
		require.Equal(t, want.Indices, g.Indices, "site %d", i)
		for k := range want.Matrices {
			require.NoError(t, g.Matrices[k].Equal(want.Matrices[k], 1e-6), "site %d matrix %d", i, k)
		}
	}
}

// A hand-deduplicated document may reuse one site type at several chain
// positions through the sequence array.
func TestUnmarshalRepeatedSequence(t *testing.T) {
	doc := []byte(`
sequence: [1, 2, 2, 1]
sites:
  - physical dimension: 2
    left dimension: 1
    right dimension: 1
    matrices:
      - from: 1
        to: 1
        data: [1, 0, 0, -1]
  - physical dimension: 2
    left dimension: 1
    right dimension: 1
    matrices:
      - from: 1
        to: 1
        data: [[0, 0], [0, -1], [0, 1], [0, 0]]
`)
	mpo, err := persist.UnmarshalOperatorSites(doc)
	require.NoError(t, err)
	require.Len(t, mpo, 4)
	require.Equal(t, complex64(-1), mpo[0].Matrices[0].At(1, 1))
	require.Equal(t, complex64(complex(0, -1)), mpo[1].Matrices[0].At(0, 1))
	require.Equal(t, mpo[1].PhysicalDimension, mpo[2].PhysicalDimension)
}

func TestLoadOperatorSitesMissingFile(t *testing.T) {
	_, err := persist.LoadOperatorSites("/nonexistent/path/to/mpo.yaml")
	require.ErrorAs(t, err, new(*persist.NoSuchLocationError))
}

func TestSaveOperatorSitesRefusesOverwrite(t *testing.T) {
	dir := t.TempDir()
	path := dir + "/mpo.yaml"

	mpo := []*mps.OperatorSite{randomOperatorSite(t, 2, 1, 1, 1)}
	require.NoError(t, persist.SaveOperatorSites(path, mpo, false))

	err := persist.SaveOperatorSites(path, mpo, false)
	require.ErrorAs(t, err, new(*persist.OutputFileAlreadyExistsError))

	require.NoError(t, persist.SaveOperatorSites(path, mpo, true))
}
