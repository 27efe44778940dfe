package record

import "testing"

func TestValuesAssertEqualExactIntegers(t *testing.T) {
	// Differ by 1 but round to the same float64 above 2^53: must not
	// compare equal.
	a := int64(1 << 53)
	b := int64(1<<53) + 1
	if valuesAssertEqual(a, b) {
		t.Fatalf("valuesAssertEqual(%d, %d) = true, want false", a, b)
	}
	if !valuesAssertEqual(a, a) {
		t.Fatalf("valuesAssertEqual(%d, %d) = false, want true", a, a)
	}
}

func TestValuesAssertEqualMixedWidthIntegers(t *testing.T) {
	if !valuesAssertEqual(int32(100), int64(100)) {
		t.Fatal("expected equal values of different integer widths to compare equal")
	}
	if !valuesAssertEqual(uint32(0xDEADBEEF), int64(0xDEADBEEF)) {
		t.Fatal("expected an unsigned decode result to compare equal to a signed literal of the same magnitude")
	}
	if valuesAssertEqual(int32(-1), int64(1)) {
		t.Fatal("expected differing-sign values to compare unequal")
	}
}

func TestValuesAssertEqualFloatEpsilon(t *testing.T) {
	if !valuesAssertEqual(float32(1.0000001), float64(1.0)) {
		t.Fatal("expected floats within epsilon to compare equal")
	}
	if valuesAssertEqual(float64(1.1), float64(2.2)) {
		t.Fatal("expected floats outside epsilon to compare unequal")
	}
}

func TestValuesAssertEqualStringsAndBools(t *testing.T) {
	if !valuesAssertEqual("vein", "vein") {
		t.Fatal("expected equal strings to compare equal")
	}
	if valuesAssertEqual("vein", "ore") {
		t.Fatal("expected differing strings to compare unequal")
	}
	if !valuesAssertEqual(true, true) {
		t.Fatal("expected equal bools to compare equal")
	}
	if valuesAssertEqual(true, false) {
		t.Fatal("expected differing bools to compare unequal")
	}
}
