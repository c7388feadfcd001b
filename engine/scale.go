/*
scale.go - Marginal (progressive) bracket scales

PURPOSE:
  Evaluates progressive tax scales: each bracket's rate applies only to the
  portion of the input that falls between consecutive thresholds, never to
  the whole amount. This is the arithmetic behind income tax and social
  contribution schedules.

EXAMPLE:
  Scale [(0, 10%), (2000, 30%)] on an input of 3000:
    10% of the first 2000  = 200
    30% of the next  1000  = 300
    total                  = 500

GUARANTEES:
  - Calc(v) == 0 for v <= 0
  - Calc is continuous and non-decreasing in v
*/
package engine

import (
	"fmt"
	"math"
)

// =============================================================================
// BRACKET SCALE
// =============================================================================

// Bracket is one (threshold, marginal rate) pair of a scale.
type Bracket struct {
	Threshold float64
	Rate      float64
}

// BracketScale is an ordered list of brackets with strictly increasing
// thresholds, the first of which is zero. Construction validates the
// invariants so Calc never has to.
type BracketScale struct {
	brackets []Bracket
}

// NewBracketScale validates and builds a scale.
// Fails with ErrInvalidScale if there are no brackets, the first threshold
// is not 0, or thresholds are not strictly increasing.
func NewBracketScale(brackets ...Bracket) (*BracketScale, error) {
	if len(brackets) == 0 {
		return nil, fmt.Errorf("%w: no brackets", ErrInvalidScale)
	}
	if brackets[0].Threshold != 0 {
		return nil, fmt.Errorf("%w: first threshold is %v, want 0",
			ErrInvalidScale, brackets[0].Threshold)
	}
	for i := 1; i < len(brackets); i++ {
		if brackets[i].Threshold <= brackets[i-1].Threshold {
			return nil, fmt.Errorf("%w: thresholds not strictly increasing at index %d",
				ErrInvalidScale, i)
		}
	}
	owned := make([]Bracket, len(brackets))
	copy(owned, brackets)
	return &BracketScale{brackets: owned}, nil
}

// MustBracketScale is NewBracketScale for statically known-good scales.
func MustBracketScale(brackets ...Bracket) *BracketScale {
	s, err := NewBracketScale(brackets...)
	if err != nil {
		panic(err)
	}
	return s
}

// Brackets returns a copy of the scale's brackets.
func (s *BracketScale) Brackets() []Bracket {
	out := make([]Bracket, len(s.brackets))
	copy(out, s.brackets)
	return out
}

// Calc computes the marginal tax for each input value, elementwise.
// Inputs at or below zero produce zero.
func (s *BracketScale) Calc(values []float64) []float64 {
	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = s.calcOne(v)
	}
	return out
}

func (s *BracketScale) calcOne(v float64) float64 {
	if v <= 0 {
		return 0
	}
	var tax float64
	for i, b := range s.brackets {
		upper := math.Inf(1)
		if i+1 < len(s.brackets) {
			upper = s.brackets[i+1].Threshold
		}
		if v <= b.Threshold {
			break
		}
		portion := math.Min(v, upper) - b.Threshold
		tax += b.Rate * portion
	}
	return tax
}
