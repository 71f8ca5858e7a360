package mps_test

import (
	"math"
	"testing"

	"github.com/fumin/nutcracker/mps"
	"github.com/fumin/tensor"
)

func TestMoveRightLeavesLeftIsometry(t *testing.T) {
	mpo := mps.Ising([2]int{4, 1}, 1)
	state := mps.RandMPS(mpo, 4)

	if _, err := mps.MoveRight(state[0], state[1]); err != nil {
		t.Fatalf("MoveRight: %v", err)
	}
	if state[0].Norm != mps.Left {
		t.Fatalf("normalization = %v, want Left", state[0].Norm)
	}

	s := state[0].Tensor.Shape()
	m := state[0].Tensor.Reshape(s[mps.LeftAxis]*s[mps.UpAxis], s[mps.RightAxis])
	mhm := tensor.MatMul(tensor.Zeros(1), m.H(), m)
	eye := tensor.Zeros(1).Eye(m.Shape()[1], 0)
	if err := mhm.Equal(eye, 1e-4); err != nil {
		t.Fatalf("M^H M != I: %v", err)
	}
}

func TestMoveLeftLeavesRightIsometry(t *testing.T) {
	mpo := mps.Ising([2]int{4, 1}, 1)
	state := mps.RandMPS(mpo, 4)

	if _, err := mps.MoveLeft(state[3], state[2]); err != nil {
		t.Fatalf("MoveLeft: %v", err)
	}
	if state[3].Norm != mps.Right {
		t.Fatalf("normalization = %v, want Right", state[3].Norm)
	}

	s := state[3].Tensor.Shape()
	m := state[3].Tensor.Reshape(s[mps.LeftAxis], s[mps.UpAxis]*s[mps.RightAxis])
	mmh := tensor.MatMul(tensor.Zeros(1), m, m.H())
	eye := tensor.Zeros(1).Eye(m.Shape()[0], 0)
	if err := mmh.Equal(eye, 1e-4); err != nil {
		t.Fatalf("M M^H != I: %v", err)
	}
}

// Moving the orthogonality center across a bond redistributes factors
// between the two sites but leaves the product state itself unchanged.
func TestMovePreservesProductState(t *testing.T) {
	mpo := mps.Ising([2]int{4, 1}, 0.8)
	state := mps.RandMPS(mpo, 4)

	before := mps.TensorToFlat(mps.Product(state))
	if _, err := mps.MoveRight(state[1], state[2]); err != nil {
		t.Fatalf("MoveRight: %v", err)
	}
	after := mps.TensorToFlat(mps.Product(state))

	var scale, diff float64
	for i := range before {
		scale += absf(before[i]) * absf(before[i])
		d := absf(before[i] - after[i])
		diff += d * d
	}
	if math.Sqrt(diff) > 1e-3*math.Sqrt(scale) {
		t.Fatalf("product state changed by %v (norm %v)", math.Sqrt(diff), math.Sqrt(scale))
	}
}

func TestMoveRightNotEnoughDegreesOfFreedom(t *testing.T) {
	cur := mps.NewStateSite(tensor.Zeros(1, 2, 3), mps.None)
	next := mps.NewStateSite(tensor.Zeros(3, 2, 1), mps.None)
	_, err := mps.MoveRight(cur, next)
	if _, ok := err.(*mps.NotEnoughDegreesOfFreedomToNormalizeError); !ok {
		t.Fatalf("got %v (%T), want *mps.NotEnoughDegreesOfFreedomToNormalizeError", err, err)
	}
}
