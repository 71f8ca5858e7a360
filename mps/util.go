package mps

import "math/cmplx"

func abs(x complex64) float32 {
	return float32(cmplx.Abs(complex128(x)))
}
