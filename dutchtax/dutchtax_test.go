/*
dutchtax_test.go - Shared fixtures for the domain tests

The formula tests run against a purpose-made parameter tree with round
numbers (a 10%/30% income scale, zero credits unless a test sets them), so
expected values can be computed by hand. The built-in yearly sets are
covered separately in parameters_test.go.
*/
package dutchtax_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/warp/fiscal-engine/dutchtax"
	"github.com/warp/fiscal-engine/engine"
	"github.com/warp/fiscal-engine/engine/store"
)

type paramOverrides struct {
	ahkMax        float64 // algemene heffingskorting
	ahkThreshold  float64
	ahkPhaseOut   float64
	akMax         float64 // arbeidskorting
	akMaxIncome   float64
	akBuildup     float64
	akPhaseOut    float64
	zelfstandigen float64
	mkbRate       float64
}

func testStore(t *testing.T, o paramOverrides) *store.Memory {
	t.Helper()
	tree := engine.NewParameterTree()

	set := func(path string, v float64) {
		require.NoError(t, tree.SetFloat(path, v))
	}
	setScale := func(path string, s *engine.BracketScale) {
		require.NoError(t, tree.SetScale(path, s))
	}

	setScale("taxes.income_tax_brackets", engine.MustBracketScale(
		engine.Bracket{Threshold: 0, Rate: 0.10},
		engine.Bracket{Threshold: 2000, Rate: 0.30},
	))
	setScale("taxes.income_tax_brackets_aow", engine.MustBracketScale(
		engine.Bracket{Threshold: 0, Rate: 0.05},
		engine.Bracket{Threshold: 2000, Rate: 0.30},
	))
	setScale("taxes.social_security_contribution", engine.MustBracketScale(
		engine.Bracket{Threshold: 0, Rate: 0.10},
		engine.Bracket{Threshold: 3000, Rate: 0},
	))

	set("taxes.housing_tax.rate", 10)
	set("taxes.housing_tax.minimal_amount", 200)

	set("taxes.tax_credits.algemene_heffingskorting_max", o.ahkMax)
	set("taxes.tax_credits.algemene_heffingskorting_income_threshold", o.ahkThreshold)
	set("taxes.tax_credits.algemene_heffingskorting_phase_out_rate", o.ahkPhaseOut)
	set("taxes.tax_credits.arbeidskorting_max", o.akMax)
	set("taxes.tax_credits.arbeidskorting_max_income", o.akMaxIncome)
	set("taxes.tax_credits.arbeidskorting_buildup_rate", o.akBuildup)
	set("taxes.tax_credits.arbeidskorting_phase_out_rate", o.akPhaseOut)

	set("self_employment.zelfstandigenaftrek", o.zelfstandigen)
	set("self_employment.mkb_winstvrijstelling_rate", o.mkbRate)

	set("general.age_of_retirement", 67)

	m := store.NewMemory()
	m.Add(engine.NewYear(2020), tree)
	return m
}

// singleSim builds a one-person, one-household simulation over the full
// dutchtax registry.
func singleSim(t *testing.T, o paramOverrides, inputs *engine.Inputs) *engine.Simulation {
	t.Helper()
	pop, err := engine.NewPopulation(
		[]string{"alice"},
		[]engine.HouseholdSpec{{ID: "h1", Members: []string{"alice"}}},
	)
	require.NoError(t, err)
	return engine.NewSimulation(dutchtax.NewRegistry(), testStore(t, o), pop, inputs)
}

func newRegistryForTest() *engine.Registry { return dutchtax.NewRegistry() }

func jan2025() engine.Period { return engine.MustMonth(2025, time.January) }

func calcFloats(t *testing.T, sim *engine.Simulation, name string, p engine.Period) []float64 {
	t.Helper()
	v, err := sim.Calculate(name, p)
	require.NoError(t, err, "calculating %s@%s", name, p)
	require.Equal(t, engine.FloatValue, v.Type)
	return v.F
}
