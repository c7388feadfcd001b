package dutchtax_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/fiscal-engine/dutchtax"
	"github.com/warp/fiscal-engine/engine"
)

func TestParameterStore_DateVersioning(t *testing.T) {
	store := dutchtax.NewParameterStore()

	p2024, err := store.ParametersAt(engine.NewYear(2024))
	require.NoError(t, err)
	p2025, err := store.ParametersAt(engine.NewYear(2025))
	require.NoError(t, err)

	// The self-employed deduction shrinks between the two sets.
	v2024, err := p2024.Float("self_employment.zelfstandigenaftrek")
	require.NoError(t, err)
	v2025, err := p2025.Float("self_employment.zelfstandigenaftrek")
	require.NoError(t, err)
	assert.Equal(t, 3750.0, v2024)
	assert.Equal(t, 2470.0, v2025)

	// A later year without its own set falls back to the latest one.
	p2030, err := store.ParametersAt(engine.NewYear(2030))
	require.NoError(t, err)
	v2030, err := p2030.Float("self_employment.zelfstandigenaftrek")
	require.NoError(t, err)
	assert.Equal(t, v2025, v2030)

	// Before the earliest set there is nothing to serve.
	_, err = store.ParametersAt(engine.NewYear(2019))
	assert.ErrorIs(t, err, engine.ErrNoParameters)
}

func TestNewSystem_EvaluatesEndToEnd(t *testing.T) {
	// Smoke test over the built-in parameter sets: a modest salary must
	// produce a positive disposable income and non-negative taxes.
	registry, params := dutchtax.NewSystem()

	pop, err := engine.NewPopulation(
		[]string{"alice"},
		[]engine.HouseholdSpec{{ID: "h1", Members: []string{"alice"}}},
	)
	require.NoError(t, err)

	inputs := engine.NewInputs()
	inputs.Set("salary", jan2025(), engine.NewFloats([]float64{3000}))

	sim := engine.NewSimulation(registry, params, pop, inputs)

	tax, err := sim.Calculate("income_tax", jan2025())
	require.NoError(t, err)
	assert.GreaterOrEqual(t, tax.F[0], 0.0)

	disposable, err := sim.Calculate("disposable_income", jan2025())
	require.NoError(t, err)
	assert.Greater(t, disposable.F[0], 0.0)
	assert.Less(t, disposable.F[0], 3000.0)
}
