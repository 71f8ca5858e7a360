// Package diag cross-checks the variational ground-state energy the chain
// package converges to against brute-force exact diagonalization of the
// same Hamiltonian's dense matrix representation, for system sizes small
// enough that the full Hilbert space still fits in memory.
package diag
