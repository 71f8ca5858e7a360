package mps

import "fmt"

// DimensionMismatchError is returned by Connect when the two named
// dimensions being joined by a contraction disagree.
type DimensionMismatchError struct {
	NameA string
	SizeA int
	NameB string
	SizeB int
}

func (e *DimensionMismatchError) Error() string {
	return fmt.Sprintf("mps: dimension mismatch connecting %s (%d) to %s (%d)",
		e.NameA, e.SizeA, e.NameB, e.SizeB)
}

// NonSquareMatrixError is returned by OperatorSite validation when a
// transition matrix is not square.
type NonSquareMatrixError struct {
	Rows    int
	Columns int
}

func (e *NonSquareMatrixError) Error() string {
	return fmt.Sprintf("mps: transition matrix is %dx%d, want square", e.Rows, e.Columns)
}

// IndexTooLowError is returned by OperatorSite validation when a sparse
// transition index falls below 1.
type IndexTooLowError struct {
	Which string
	Index int
}

func (e *IndexTooLowError) Error() string {
	return fmt.Sprintf("mps: %s index %d below 1", e.Which, e.Index)
}

// IndexTooHighError is returned by OperatorSite validation when a sparse
// transition index exceeds the bond dimension it selects into.
type IndexTooHighError struct {
	Which string
	Index int
	Bound int
}

func (e *IndexTooHighError) Error() string {
	return fmt.Sprintf("mps: %s index %d above bond dimension %d", e.Which, e.Index, e.Bound)
}

// WrongDataLengthError reports a flat data buffer whose length disagrees
// with the dimensions it claims to fill.
type WrongDataLengthError struct {
	Got  int
	Want int
}

func (e *WrongDataLengthError) Error() string {
	return fmt.Sprintf("mps: data has %d entries, want %d", e.Got, e.Want)
}

// NotEnoughDegreesOfFreedomToNormalizeError is returned by MoveRight and
// MoveLeft when the bond being decomposed toward is larger than the
// product of the remaining dimensions, so no isometry of the requested
// shape exists.
type NotEnoughDegreesOfFreedomToNormalizeError struct {
	Bond      int
	Available int
}

func (e *NotEnoughDegreesOfFreedomToNormalizeError) Error() string {
	return fmt.Sprintf("mps: cannot normalize a bond of dimension %d against only %d degrees of freedom",
		e.Bond, e.Available)
}

// WrongTensorNormalizationError reports a site tensor whose normalization
// tag is not the one an operation requires.
type WrongTensorNormalizationError struct {
	Got  Normalization
	Want Normalization
}

func (e *WrongTensorNormalizationError) Error() string {
	return fmt.Sprintf("mps: tensor is %v-normalized, want %v", e.Got, e.Want)
}
