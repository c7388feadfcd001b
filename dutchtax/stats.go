/*
stats.go - Aggregate statistics over the household
*/
package dutchtax

import "github.com/warp/fiscal-engine/engine"

func registerStats(r *engine.Registry) {
	r.MustRegister(engine.Definition{
		Name:             "total_taxes",
		Entity:           engine.HouseholdEntity,
		Type:             engine.FloatValue,
		DefinitionPeriod: engine.GranularityMonth,
		Label:            "Sum of the taxes paid by a household",
		Reference:        "https://www.cbs.nl/nl-nl/cijfers/detail/80068NED",
		Formula: func(ctx *engine.Context, period engine.Period) engine.Vector {
			incomeTax := ctx.SumMembers("income_tax", period)
			socialSecurity := ctx.SumMembers("social_security_contribution", period)

			// The yearly housing tax counts for one twelfth per month.
			housingTax := engine.DivScalar(ctx.Float("housing_tax", period.ThisYear()), 12)

			return engine.NewFloats(engine.Add(engine.Add(incomeTax, socialSecurity), housingTax))
		},
	})
}
