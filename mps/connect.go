package mps

// Connect implements the `A | B` connector from the original tensor
// algebra: it asserts that the named dimension of tensor A and the named
// dimension of tensor B agree, and returns the common size, or an error
// identifying both names so a caller can report exactly which join failed.
func Connect(nameA string, sizeA int, nameB string, sizeB int) (int, error) {
	if sizeA != sizeB {
		return 0, &DimensionMismatchError{NameA: nameA, SizeA: sizeA, NameB: nameB, SizeB: sizeB}
	}
	return sizeA, nil
}

// mustConnect is the contraction kernels' internal join check: a mismatch
// there is a broken caller invariant, not a recoverable condition.
func mustConnect(nameA string, sizeA int, nameB string, sizeB int) {
	if _, err := Connect(nameA, sizeA, nameB, sizeB); err != nil {
		panic(err)
	}
}
