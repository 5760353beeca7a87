package utils

import (
	"testing"
)

func TestDeriveDeterministic(t *testing.T) {
	a := Derive(42, "benign/enterprise")
	b := Derive(42, "benign/enterprise")

	for i := 0; i < 100; i++ {
		va, vb := a.Float64(), b.Float64()
		if va != vb {
			t.Fatalf("draw %d differs: %f vs %f", i, va, vb)
		}
	}
}

func TestDeriveIndependentNames(t *testing.T) {
	a := Derive(42, "benign/enterprise")
	b := Derive(42, "benign/wifi")

	same := 0
	for i := 0; i < 100; i++ {
		if a.Float64() == b.Float64() {
			same++
		}
	}
	if same == 100 {
		t.Fatalf("derived sources for different names produced identical streams")
	}
}

func TestDeriveSeedChangesStream(t *testing.T) {
	a := Derive(1, "attack/syn-flood")
	b := Derive(2, "attack/syn-flood")
	if a.Float64() == b.Float64() && a.Float64() == b.Float64() {
		t.Fatalf("different root seeds produced identical draws")
	}
}

func TestIntBetween(t *testing.T) {
	r := NewRandSource(7)
	for i := 0; i < 1000; i++ {
		v := r.IntBetween(10, 20)
		if v < 10 || v > 20 {
			t.Fatalf("value %d outside [10, 20]", v)
		}
	}
	if got := r.IntBetween(5, 5); got != 5 {
		t.Fatalf("expected degenerate range to return 5, got %d", got)
	}
	if got := r.IntBetween(9, 3); got != 9 {
		t.Fatalf("expected inverted range to return min, got %d", got)
	}
}

func TestUniformFloat64Range(t *testing.T) {
	r := NewRandSource(7)
	for i := 0; i < 1000; i++ {
		v := r.UniformFloat64(1.5, 8.0)
		if v < 1.5 || v >= 8.0 {
			t.Fatalf("value %f outside [1.5, 8.0)", v)
		}
	}
}

func TestDistSample(t *testing.T) {
	r := NewRandSource(11)

	if got := Constant(42).Sample(r); got != 42 {
		t.Fatalf("constant dist returned %f", got)
	}

	for i := 0; i < 100; i++ {
		v := Uniform(10, 20).Sample(r)
		if v < 10 || v >= 20 {
			t.Fatalf("uniform sample %f outside [10, 20)", v)
		}
	}

	for i := 0; i < 100; i++ {
		if v := Exponential(5).Sample(r); v < 0 {
			t.Fatalf("exponential sample %f negative", v)
		}
	}

	// zero value samples as constant zero
	var zero Dist
	if got := zero.Sample(r); got != 0 {
		t.Fatalf("zero dist returned %f", got)
	}
}

func TestExpFloat64Mean(t *testing.T) {
	r := NewRandSource(3)
	sum := 0.0
	n := 20000
	for i := 0; i < n; i++ {
		sum += r.ExpFloat64(5.0)
	}
	mean := sum / float64(n)
	if mean < 4.5 || mean > 5.5 {
		t.Fatalf("sample mean %f too far from 5.0", mean)
	}
}
