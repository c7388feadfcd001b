package engine_test

import (
	"errors"
	"math"
	"testing"

	"github.com/warp/fiscal-engine/engine"
)

func twoBracketScale(t *testing.T) *engine.BracketScale {
	t.Helper()
	s, err := engine.NewBracketScale(
		engine.Bracket{Threshold: 0, Rate: 0.10},
		engine.Bracket{Threshold: 2000, Rate: 0.30},
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return s
}

func TestBracketScale_MarginalArithmetic(t *testing.T) {
	// GIVEN: Scale [(0, 10%), (2000, 30%)]
	// THEN: The 30% rate applies only to the portion above 2000
	s := twoBracketScale(t)

	tests := []struct {
		in   float64
		want float64
	}{
		{0, 0},
		{-500, 0},
		{1000, 100},     // 10% of 1000
		{2000, 200},     // 10% of 2000
		{3000, 500},     // 200 + 30% of 1000
		{36000, 10400},  // 200 + 30% of 34000
	}
	ins := make([]float64, len(tests))
	for i, tt := range tests {
		ins[i] = tt.in
	}
	got := s.Calc(ins)
	for i, tt := range tests {
		if math.Abs(got[i]-tt.want) > 1e-9 {
			t.Errorf("Calc(%v) = %v, want %v", tt.in, got[i], tt.want)
		}
	}
}

func TestBracketScale_MonotonicAndZeroAtZero(t *testing.T) {
	s := twoBracketScale(t)

	if got := s.Calc([]float64{0})[0]; got != 0 {
		t.Errorf("Calc(0) = %v, want 0", got)
	}

	// Non-decreasing over a sweep of values.
	prev := math.Inf(-1)
	for v := -1000.0; v <= 100000; v += 137.5 {
		tax := s.Calc([]float64{v})[0]
		if tax < prev {
			t.Fatalf("Calc not monotonic: Calc(%v)=%v < previous %v", v, tax, prev)
		}
		prev = tax
	}
}

func TestBracketScale_ZeroRateBracketCapsContribution(t *testing.T) {
	// A trailing zero-rate bracket models a contribution ceiling.
	s, err := engine.NewBracketScale(
		engine.Bracket{Threshold: 0, Rate: 0.2765},
		engine.Bracket{Threshold: 38098, Rate: 0},
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	capAmount := 0.2765 * 38098
	got := s.Calc([]float64{38098, 50000, 200000})
	for i, v := range got {
		if math.Abs(v-capAmount) > 1e-6 {
			t.Errorf("value %d: got %v, want capped %v", i, v, capAmount)
		}
	}
}

func TestNewBracketScale_Validation(t *testing.T) {
	tests := []struct {
		name     string
		brackets []engine.Bracket
	}{
		{"empty", nil},
		{"first threshold not zero", []engine.Bracket{{Threshold: 100, Rate: 0.1}}},
		{"not strictly increasing", []engine.Bracket{
			{Threshold: 0, Rate: 0.1}, {Threshold: 2000, Rate: 0.2}, {Threshold: 2000, Rate: 0.3},
		}},
		{"decreasing", []engine.Bracket{
			{Threshold: 0, Rate: 0.1}, {Threshold: 3000, Rate: 0.2}, {Threshold: 2000, Rate: 0.3},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := engine.NewBracketScale(tt.brackets...); !errors.Is(err, engine.ErrInvalidScale) {
				t.Errorf("want ErrInvalidScale, got %v", err)
			}
		})
	}
}
