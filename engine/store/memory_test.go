package store_test

import (
	"errors"
	"testing"
	"time"

	"github.com/warp/fiscal-engine/engine"
	"github.com/warp/fiscal-engine/engine/store"
)

func tree(t *testing.T, marker float64) *engine.ParameterNode {
	t.Helper()
	n := engine.NewParameterTree()
	if err := n.SetFloat("rates.marker", marker); err != nil {
		t.Fatal(err)
	}
	return n
}

func marker(t *testing.T, m *store.Memory, p engine.Period) float64 {
	t.Helper()
	node, err := m.ParametersAt(p)
	if err != nil {
		t.Fatalf("ParametersAt(%s): %v", p, err)
	}
	v, err := node.Float("rates.marker")
	if err != nil {
		t.Fatal(err)
	}
	return v
}

func TestMemory_LatestEntryAtOrBeforePeriodWins(t *testing.T) {
	m := store.NewMemory()
	// Out of registration order on purpose.
	m.Add(engine.NewYear(2025), tree(t, 2025))
	m.Add(engine.NewYear(2023), tree(t, 2023))
	m.Add(engine.MustMonth(2024, time.July), tree(t, 2024.5))

	tests := []struct {
		period engine.Period
		want   float64
	}{
		{engine.NewYear(2023), 2023},
		{engine.MustMonth(2024, time.June), 2023},
		{engine.MustMonth(2024, time.July), 2024.5},
		{engine.NewYear(2025), 2025},
		{engine.NewYear(2040), 2025},
	}
	for _, tt := range tests {
		if got := marker(t, m, tt.period); got != tt.want {
			t.Errorf("ParametersAt(%s) resolved marker %v, want %v", tt.period, got, tt.want)
		}
	}
}

func TestMemory_BeforeEarliestEntry(t *testing.T) {
	m := store.NewMemory()
	m.Add(engine.NewYear(2024), tree(t, 2024))

	_, err := m.ParametersAt(engine.NewYear(2023))
	if !errors.Is(err, engine.ErrNoParameters) {
		t.Fatalf("got %v, want ErrNoParameters", err)
	}
}

func TestMemory_Empty(t *testing.T) {
	_, err := store.NewMemory().ParametersAt(engine.NewYear(2024))
	if !errors.Is(err, engine.ErrNoParameters) {
		t.Fatalf("got %v, want ErrNoParameters", err)
	}
}

func TestMemory_YearEntryEffectiveFromJanuary(t *testing.T) {
	m := store.NewMemory()
	m.Add(engine.NewYear(2024), tree(t, 2024))

	if got := marker(t, m, engine.MustMonth(2024, time.January)); got != 2024 {
		t.Errorf("january resolved marker %v, want 2024", got)
	}
}
