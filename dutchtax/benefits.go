/*
benefits.go - Pension income and household income
*/
package dutchtax

import "github.com/warp/fiscal-engine/engine"

func registerBenefits(r *engine.Registry) {
	r.MustRegister(engine.Definition{
		Name:             "pension",
		Entity:           engine.PersonEntity,
		Type:             engine.FloatValue,
		DefinitionPeriod: engine.GranularityMonth,
		Label:            "Pension income",
		Reference:        "https://www.belastingdienst.nl/wps/wcm/connect/nl/pensioen/pensioen",
	})

	r.MustRegister(engine.Definition{
		Name:             "household_income",
		Entity:           engine.HouseholdEntity,
		Type:             engine.FloatValue,
		DefinitionPeriod: engine.GranularityMonth,
		Label:            "The sum of the salaries of those living in a household",
		Formula: func(ctx *engine.Context, period engine.Period) engine.Vector {
			return engine.NewFloats(ctx.SumMembers("salary", period))
		},
	})
}
