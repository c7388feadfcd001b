/*
vector.go - Elementwise operations on entity value slices

PURPOSE:
  Formulas combine per-entity vectors with plain arithmetic: add incomes,
  clamp a credit at zero, select a tax scale result by a condition. These
  helpers implement those operations as explicit slice loops.

  All binary operations require operands of equal length. Operands always
  come from the same population, so a length mismatch is a programming
  error, not a data condition: it panics with the offending lengths.
*/
package engine

import "fmt"

// =============================================================================
// ARITHMETIC
// =============================================================================

// Add returns a + b elementwise.
func Add(a, b []float64) []float64 {
	assertSameLen("Add", len(a), len(b))
	out := make([]float64, len(a))
	for i := range a {
		out[i] = a[i] + b[i]
	}
	return out
}

// Sub returns a - b elementwise.
func Sub(a, b []float64) []float64 {
	assertSameLen("Sub", len(a), len(b))
	out := make([]float64, len(a))
	for i := range a {
		out[i] = a[i] - b[i]
	}
	return out
}

// Mul returns a * b elementwise.
func Mul(a, b []float64) []float64 {
	assertSameLen("Mul", len(a), len(b))
	out := make([]float64, len(a))
	for i := range a {
		out[i] = a[i] * b[i]
	}
	return out
}

// MulScalar returns v * s elementwise.
func MulScalar(v []float64, s float64) []float64 {
	out := make([]float64, len(v))
	for i := range v {
		out[i] = v[i] * s
	}
	return out
}

// SubScalar returns v - s elementwise.
func SubScalar(v []float64, s float64) []float64 {
	out := make([]float64, len(v))
	for i := range v {
		out[i] = v[i] - s
	}
	return out
}

// DivScalar returns v / s elementwise.
func DivScalar(v []float64, s float64) []float64 {
	out := make([]float64, len(v))
	for i := range v {
		out[i] = v[i] / s
	}
	return out
}

// =============================================================================
// CLAMPS AND SELECTION
// =============================================================================

// ClampMin returns max(v, floor) elementwise. ClampMin(v, 0) is the usual
// "tax cannot be negative" clamp.
func ClampMin(v []float64, floor float64) []float64 {
	out := make([]float64, len(v))
	for i := range v {
		if v[i] < floor {
			out[i] = floor
		} else {
			out[i] = v[i]
		}
	}
	return out
}

// MinScalar returns min(v, ceil) elementwise.
func MinScalar(v []float64, ceil float64) []float64 {
	out := make([]float64, len(v))
	for i := range v {
		if v[i] > ceil {
			out[i] = ceil
		} else {
			out[i] = v[i]
		}
	}
	return out
}

// Where selects a[i] where cond[i] is true, b[i] otherwise.
func Where(cond []bool, a, b []float64) []float64 {
	assertSameLen("Where", len(cond), len(a))
	assertSameLen("Where", len(a), len(b))
	out := make([]float64, len(a))
	for i := range a {
		if cond[i] {
			out[i] = a[i]
		} else {
			out[i] = b[i]
		}
	}
	return out
}

// GreaterEq returns v >= s elementwise.
func GreaterEq(v []float64, s float64) []bool {
	out := make([]bool, len(v))
	for i := range v {
		out[i] = v[i] >= s
	}
	return out
}

// Or returns a || b elementwise.
func Or(a, b []bool) []bool {
	assertSameLen("Or", len(a), len(b))
	out := make([]bool, len(a))
	for i := range a {
		out[i] = a[i] || b[i]
	}
	return out
}

// BoolsToFloats converts a condition vector to 0/1 values so it can be
// multiplied into an amount.
func BoolsToFloats(b []bool) []float64 {
	out := make([]float64, len(b))
	for i := range b {
		if b[i] {
			out[i] = 1
		}
	}
	return out
}

func assertSameLen(op string, a, b int) {
	if a != b {
		panic(fmt.Sprintf("engine: %s on vectors of different lengths (%d vs %d)", op, a, b))
	}
}
