package money

import "testing"

func TestAccumulator_ExactSum(t *testing.T) {
	var acc Accumulator
	for i := 0; i < 10; i++ {
		acc.Add(0.1)
	}

	// A plain float64 sum of ten 0.1s is 0.9999999999999999.
	if got := acc.Float64(); got != 1.0 {
		t.Fatalf("expected exactly 1.0, got %v", got)
	}
}

func TestAccumulator_Empty(t *testing.T) {
	var acc Accumulator
	if got := acc.Float64(); got != 0 {
		t.Fatalf("expected 0, got %v", got)
	}
}

func TestMul(t *testing.T) {
	if got := Mul(2.5, 100); got != 250 {
		t.Fatalf("expected 250, got %v", got)
	}
}

func TestFormat(t *testing.T) {
	cases := map[float64]string{
		0:       "0.0000",
		0.03:    "0.0300",
		1.23456: "1.2346",
		250:     "250.0000",
	}
	for in, want := range cases {
		if got := Format(in); got != want {
			t.Fatalf("Format(%v) = %q, want %q", in, got, want)
		}
	}
}
