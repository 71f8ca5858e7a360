package diag

// The transverse-field Ising Hamiltonian is real and symmetric in the Z
// basis, so its dense matrix is built directly over float64 rather than
// the complex64 element type the rest of this module uses -- gonum's
// eigensolver (see eigen.go) only accepts real input, matching the
// teacher's own COO.Eigen, which panics on a non-real entry.
var (
	pauliX    = [2][2]float64{{0, 1}, {1, 0}}
	pauliZ    = [2][2]float64{{1, 0}, {0, -1}}
	identity2 = [2][2]float64{{1, 0}, {0, 1}}
)

func flatten(m [2][2]float64) []float64 {
	return []float64{m[0][0], m[0][1], m[1][0], m[1][1]}
}

// kron returns the Kronecker product of two square row-major matrices.
func kron(a []float64, da int, b []float64, db int) ([]float64, int) {
	d := da * db
	out := make([]float64, d*d)
	for ia := 0; ia < da; ia++ {
		for ja := 0; ja < da; ja++ {
			av := a[ia*da+ja]
			if av == 0 {
				continue
			}
			for ib := 0; ib < db; ib++ {
				for jb := 0; jb < db; jb++ {
					bv := b[ib*db+jb]
					if bv == 0 {
						continue
					}
					row := ia*db + ib
					col := ja*db + jb
					out[row*d+col] += av * bv
				}
			}
		}
	}
	return out, d
}

// kronChain places op at each of sites in an n-site chain, identity
// everywhere else, and returns the resulting 2^n x 2^n row-major operator.
// This is the dense equivalent of the teacher's per-site COO.Kron loop in
// coupling/magnetic (qising.go), operated on a flat float64 buffer instead
// of incrementally accumulated sparse entries, since exact diagonalization
// here is deliberately bounded to small n.
func kronChain(n int, op [2][2]float64, sites ...int) ([]float64, int) {
	at := make(map[int]bool, len(sites))
	for _, s := range sites {
		at[s] = true
	}

	acc, d := []float64{1}, 1
	for s := 0; s < n; s++ {
		m := identity2
		if at[s] {
			m = op
		}
		acc, d = kron(acc, d, flatten(m), 2)
	}
	return acc, d
}

// Hamiltonian returns the dense matrix of the open-boundary transverse-
// field Ising model on n spins with field strength h, H = -sum_i Z_i
// Z_{i+1} - h sum_i X_i: the same model and sign convention as
// mps.Ising, built by direct Kronecker summation (qising.go's
// coupling/magnetic terms) instead of an MPO contraction, so the two can
// be cross-checked against each other.
func Hamiltonian(n int, h float32) ([]float64, int) {
	dim := 1 << n
	data := make([]float64, dim*dim)
	add := func(coeff float64, term []float64) {
		for i, v := range term {
			data[i] += coeff * v
		}
	}

	for i := 0; i < n-1; i++ {
		term, _ := kronChain(n, pauliZ, i, i+1)
		add(-1, term)
	}
	for i := 0; i < n; i++ {
		term, _ := kronChain(n, pauliX, i)
		add(float64(-h), term)
	}
	return data, dim
}
