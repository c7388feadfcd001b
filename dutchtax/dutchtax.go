/*
Package dutchtax defines the simplified Dutch tax and benefit model.

PURPOSE:
  This package is pure domain content on top of the engine: one Definition
  per taxable or benefit quantity, grouped by topic the way the legislation
  groups them (income, taxes, self-employment, benefits, statistics), plus
  the built-in date-versioned parameter sets.

  The engine knows nothing about Dutch law; swap this package out and the
  same evaluator computes a different country's model.

VARIABLE OVERVIEW:
  Inputs:   salary, capital_returns, pension, age, omzet, kosten,
            urencriterium_voldaan, accommodation_size,
            housing_occupancy_status
  Computed: winst_voor_aftrek, zelfstandigenaftrek, mkb_winstvrijstelling,
            self_employment_taxable_income, arbeidsinkomen, taxable_income,
            algemene_heffingskorting, arbeidskorting, income_tax,
            social_security_contribution, housing_tax, household_income,
            total_taxes, disposable_income

USAGE:
  registry := dutchtax.NewRegistry()
  params := dutchtax.NewParameterStore()
  sim := engine.NewSimulation(registry, params, population, inputs)

SEE ALSO:
  - engine: The evaluator this package plugs into
  - parameters.go: Built-in parameter sets per tax year
*/
package dutchtax

import "github.com/warp/fiscal-engine/engine"

// NewRegistry builds the full variable registry for the model. Call once at
// startup; the result is immutable and shareable.
func NewRegistry() *engine.Registry {
	r := engine.NewRegistry()
	registerDemographics(r)
	registerIncome(r)
	registerSelfEmployment(r)
	registerTaxes(r)
	registerHousing(r)
	registerBenefits(r)
	registerStats(r)
	return r
}

func registerDemographics(r *engine.Registry) {
	r.MustRegister(engine.Definition{
		Name:             "age",
		Entity:           engine.PersonEntity,
		Type:             engine.FloatValue,
		DefinitionPeriod: engine.GranularityMonth,
		Label:            "Age of the person in years",
	})
}
