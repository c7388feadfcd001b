package factory_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/fiscal-engine/engine"
	"github.com/warp/fiscal-engine/factory"
)

const sampleDocument = `
sets:
  - effective_from: "2024-01"
    scalars:
      taxes.housing_tax.rate: 10
      taxes.housing_tax.minimal_amount: 200
      general.age_of_retirement: 67
    scales:
      taxes.income_tax_brackets:
        - {threshold: 0, rate: 0.10}
        - {threshold: 2000, rate: 0.30}
  - effective_from: "2025-01"
    scalars:
      taxes.housing_tax.rate: 12
      taxes.housing_tax.minimal_amount: 200
      general.age_of_retirement: 67
    scales:
      taxes.income_tax_brackets:
        - {threshold: 0, rate: 0.12}
        - {threshold: 2100, rate: 0.32}
`

func TestParse_BuildsVersionedTrees(t *testing.T) {
	trees, err := factory.Parse([]byte(sampleDocument))
	require.NoError(t, err)
	require.Len(t, trees, 2)

	assert.Equal(t, engine.NewYear(2024).FirstMonth(), trees[0].From)

	rate, err := trees[0].Tree.Float("taxes.housing_tax.rate")
	require.NoError(t, err)
	assert.Equal(t, 10.0, rate)

	scale, err := trees[1].Tree.Scale("taxes.income_tax_brackets")
	require.NoError(t, err)
	assert.InDelta(t, 0.12*2000, scale.Calc([]float64{2000})[0], 1e-9)
}

func TestNewMemoryStore_ServesTheRightSetPerPeriod(t *testing.T) {
	store, err := factory.NewMemoryStore([]byte(sampleDocument))
	require.NoError(t, err)

	p2024, err := store.ParametersAt(engine.NewYear(2024))
	require.NoError(t, err)
	p2025, err := store.ParametersAt(engine.NewYear(2025))
	require.NoError(t, err)

	r2024, err := p2024.Float("taxes.housing_tax.rate")
	require.NoError(t, err)
	r2025, err := p2025.Float("taxes.housing_tax.rate")
	require.NoError(t, err)
	assert.Equal(t, 10.0, r2024)
	assert.Equal(t, 12.0, r2025)
}

func TestParse_Validation(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"empty document", `sets: []`},
		{"bad effective_from", "sets:\n  - effective_from: \"January 2024\"\n    scalars: {a.b: 1}\n"},
		{"scale not starting at zero", `
sets:
  - effective_from: "2024"
    scales:
      taxes.income_tax_brackets:
        - {threshold: 100, rate: 0.1}
`},
		{"scalar under a leaf", `
sets:
  - effective_from: "2024"
    scalars:
      a.b: 1
      a.b.c: 2
`},
		{"not yaml at all", `{{{{`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := factory.Parse([]byte(tt.doc))
			assert.Error(t, err)
		})
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "parameters.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleDocument), 0o644))

	store, err := factory.LoadFile(path)
	require.NoError(t, err)

	p, err := store.ParametersAt(engine.NewYear(2024))
	require.NoError(t, err)
	age, err := p.Float("general.age_of_retirement")
	require.NoError(t, err)
	assert.Equal(t, 67.0, age)

	_, err = factory.LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
