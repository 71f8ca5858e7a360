// Package mps implements the tensor-network primitives of the Matrix
// Product State / Matrix Product Operator formalism: state sites, operator
// sites, boundary environments, contraction kernels, gauge transfer between
// normalization forms, and flattening to/from the dense state vector.
//
// References:
//   - The density-matrix renormalization group in the age of matrix product states, Ulrich Schollwock
package mps
