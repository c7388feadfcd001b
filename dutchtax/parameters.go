/*
parameters.go - Built-in parameter sets per tax year

PURPOSE:
  The rates and thresholds of the model, one tree per tax year, loaded into
  a date-versioned store. Values change between years (the 2025 set adjusts
  the credits and the self-employed deduction); the store serves whichever
  set is in effect for the requested period.

  These sets are the model's reference data. Deployments that maintain
  parameters elsewhere load them through the factory package or the SQLite
  store instead.
*/
package dutchtax

import (
	"github.com/warp/fiscal-engine/engine"
	"github.com/warp/fiscal-engine/engine/store"
)

// NewParameterStore returns an in-memory store loaded with the built-in
// parameter sets.
func NewParameterStore() *store.Memory {
	m := store.NewMemory()
	m.Add(engine.NewYear(2024), parameters2024())
	m.Add(engine.NewYear(2025), parameters2025())
	return m
}

// NewSystem wires the full model: the variable registry plus the built-in
// parameter store.
func NewSystem() (*engine.Registry, *store.Memory) {
	return NewRegistry(), NewParameterStore()
}

func parameters2024() *engine.ParameterNode {
	t := engine.NewParameterTree()

	mustSetScale(t, "taxes.income_tax_brackets", engine.MustBracketScale(
		engine.Bracket{Threshold: 0, Rate: 0.3697},
		engine.Bracket{Threshold: 75518, Rate: 0.495},
	))
	mustSetScale(t, "taxes.income_tax_brackets_aow", engine.MustBracketScale(
		engine.Bracket{Threshold: 0, Rate: 0.1907},
		engine.Bracket{Threshold: 38098, Rate: 0.3697},
		engine.Bracket{Threshold: 75518, Rate: 0.495},
	))
	mustSetScale(t, "taxes.social_security_contribution", engine.MustBracketScale(
		engine.Bracket{Threshold: 0, Rate: 0.2765},
		engine.Bracket{Threshold: 38098, Rate: 0},
	))

	mustSetFloat(t, "taxes.housing_tax.rate", 10)
	mustSetFloat(t, "taxes.housing_tax.minimal_amount", 200)

	mustSetFloat(t, "taxes.tax_credits.algemene_heffingskorting_max", 3362)
	mustSetFloat(t, "taxes.tax_credits.algemene_heffingskorting_income_threshold", 24812)
	mustSetFloat(t, "taxes.tax_credits.algemene_heffingskorting_phase_out_rate", 0.0663)
	mustSetFloat(t, "taxes.tax_credits.arbeidskorting_max", 5532)
	mustSetFloat(t, "taxes.tax_credits.arbeidskorting_max_income", 39957)
	mustSetFloat(t, "taxes.tax_credits.arbeidskorting_buildup_rate", 0.315)
	mustSetFloat(t, "taxes.tax_credits.arbeidskorting_phase_out_rate", 0.0651)

	mustSetFloat(t, "self_employment.zelfstandigenaftrek", 3750)
	mustSetFloat(t, "self_employment.mkb_winstvrijstelling_rate", 0.1331)

	mustSetFloat(t, "general.age_of_retirement", 67)

	return t
}

func parameters2025() *engine.ParameterNode {
	t := engine.NewParameterTree()

	mustSetScale(t, "taxes.income_tax_brackets", engine.MustBracketScale(
		engine.Bracket{Threshold: 0, Rate: 0.3582},
		engine.Bracket{Threshold: 76817, Rate: 0.495},
	))
	mustSetScale(t, "taxes.income_tax_brackets_aow", engine.MustBracketScale(
		engine.Bracket{Threshold: 0, Rate: 0.1792},
		engine.Bracket{Threshold: 38441, Rate: 0.3582},
		engine.Bracket{Threshold: 76817, Rate: 0.495},
	))
	mustSetScale(t, "taxes.social_security_contribution", engine.MustBracketScale(
		engine.Bracket{Threshold: 0, Rate: 0.2765},
		engine.Bracket{Threshold: 38441, Rate: 0},
	))

	mustSetFloat(t, "taxes.housing_tax.rate", 10)
	mustSetFloat(t, "taxes.housing_tax.minimal_amount", 200)

	mustSetFloat(t, "taxes.tax_credits.algemene_heffingskorting_max", 3068)
	mustSetFloat(t, "taxes.tax_credits.algemene_heffingskorting_income_threshold", 28406)
	mustSetFloat(t, "taxes.tax_credits.algemene_heffingskorting_phase_out_rate", 0.0634)
	mustSetFloat(t, "taxes.tax_credits.arbeidskorting_max", 5599)
	mustSetFloat(t, "taxes.tax_credits.arbeidskorting_max_income", 43071)
	mustSetFloat(t, "taxes.tax_credits.arbeidskorting_buildup_rate", 0.315)
	mustSetFloat(t, "taxes.tax_credits.arbeidskorting_phase_out_rate", 0.0651)

	mustSetFloat(t, "self_employment.zelfstandigenaftrek", 2470)
	mustSetFloat(t, "self_employment.mkb_winstvrijstelling_rate", 0.1270)

	mustSetFloat(t, "general.age_of_retirement", 67)

	return t
}

func mustSetFloat(t *engine.ParameterNode, path string, v float64) {
	if err := t.SetFloat(path, v); err != nil {
		panic(err)
	}
}

func mustSetScale(t *engine.ParameterNode, path string, s *engine.BracketScale) {
	if err := t.SetScale(path, s); err != nil {
		panic(err)
	}
}
