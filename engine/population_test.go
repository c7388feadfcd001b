package engine_test

import (
	"testing"

	"github.com/warp/fiscal-engine/engine"
)

func newTestPopulation(t *testing.T) *engine.Population {
	t.Helper()
	// Three persons in two households: {alice, bob} and {carol}.
	pop, err := engine.NewPopulation(
		[]string{"alice", "bob", "carol"},
		[]engine.HouseholdSpec{
			{ID: "h1", Members: []string{"alice", "bob"}},
			{ID: "h2", Members: []string{"carol"}},
		},
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return pop
}

func TestPopulation_SumByHousehold(t *testing.T) {
	pop := newTestPopulation(t)

	sums := pop.SumByHousehold([]float64{1000, 2000, 300})
	if sums[0] != 3000 || sums[1] != 300 {
		t.Errorf("SumByHousehold = %v, want [3000 300]", sums)
	}
}

func TestPopulation_SumIsAdditive(t *testing.T) {
	// sum(a) + sum(b) == sum(a+b), elementwise over households
	pop := newTestPopulation(t)
	a := []float64{10, 20, 30}
	b := []float64{1, 2, 3}

	left := engine.Add(pop.SumByHousehold(a), pop.SumByHousehold(b))
	right := pop.SumByHousehold(engine.Add(a, b))
	for i := range left {
		if left[i] != right[i] {
			t.Errorf("household %d: sum(a)+sum(b)=%v, sum(a+b)=%v", i, left[i], right[i])
		}
	}
}

func TestPopulation_BroadcastToPersons(t *testing.T) {
	pop := newTestPopulation(t)

	personValues := pop.BroadcastToPersons([]float64{500, 700})
	want := []float64{500, 500, 700}
	for i := range want {
		if personValues[i] != want[i] {
			t.Errorf("person %d: got %v, want %v", i, personValues[i], want[i])
		}
	}
}

func TestPopulation_EmptyHouseholdSumsToZero(t *testing.T) {
	pop, err := engine.NewPopulation(
		[]string{"alice"},
		[]engine.HouseholdSpec{
			{ID: "h1", Members: []string{"alice"}},
			{ID: "h2"},
		},
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	sums := pop.SumByHousehold([]float64{42})
	if sums[1] != 0 {
		t.Errorf("empty household sum = %v, want 0", sums[1])
	}
}

func TestNewPopulation_MembershipValidation(t *testing.T) {
	tests := []struct {
		name       string
		persons    []string
		households []engine.HouseholdSpec
	}{
		{"person in two households",
			[]string{"alice"},
			[]engine.HouseholdSpec{{ID: "h1", Members: []string{"alice"}}, {ID: "h2", Members: []string{"alice"}}}},
		{"person in no household",
			[]string{"alice", "bob"},
			[]engine.HouseholdSpec{{ID: "h1", Members: []string{"alice"}}}},
		{"unknown member",
			[]string{"alice"},
			[]engine.HouseholdSpec{{ID: "h1", Members: []string{"alice", "ghost"}}}},
		{"duplicate person",
			[]string{"alice", "alice"},
			[]engine.HouseholdSpec{{ID: "h1", Members: []string{"alice"}}}},
		{"duplicate household",
			[]string{"alice", "bob"},
			[]engine.HouseholdSpec{{ID: "h1", Members: []string{"alice"}}, {ID: "h1", Members: []string{"bob"}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := engine.NewPopulation(tt.persons, tt.households); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}
