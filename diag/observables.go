package diag

import "math"

// Magnetization returns the mean absolute Z magnetization <|sum_i Z_i|>/n
// of a normalized state vector over n spins, adapted from qising.go's
// Magnetization: it sums the probability-weighted |M| of every basis
// state rather than <M> directly, since a finite open chain has no
// preferred sign in a symmetry-unbroken ground state.
func Magnetization(n int, state []complex64) float64 {
	var meanM float64
	for i, v := range state {
		prob := float64(real(v))*float64(real(v)) + float64(imag(v))*float64(imag(v))

		var basisM float64
		for b := 0; b < n; b++ {
			// Bit b (from the most significant end) is spin b, matching
			// mps.FlatToTensor/TensorToFlat's row-major site ordering.
			bit := (i >> (n - 1 - b)) & 1
			if bit == 1 {
				basisM++
			} else {
				basisM--
			}
		}
		meanM += prob * math.Abs(basisM)
	}
	return meanM / float64(n)
}
