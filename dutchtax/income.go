/*
income.go - Income inputs and disposable income

Pure inputs for wage and capital income, the freelance revenue/expense
inputs, and the household's disposable income, which ties together every
income and tax variable of the model.
*/
package dutchtax

import "github.com/warp/fiscal-engine/engine"

func registerIncome(r *engine.Registry) {
	// Divisible: a caller may declare a yearly salary and the engine
	// spreads it evenly over the months of that year.
	r.MustRegister(engine.Definition{
		Name:             "salary",
		Entity:           engine.PersonEntity,
		Type:             engine.FloatValue,
		DefinitionPeriod: engine.GranularityMonth,
		Divisible:        true,
		Label:            "Salary (gross monthly wage income)",
		Reference:        "https://www.belastingdienst.nl/wps/wcm/connect/nl/werk-en-inkomen/content/loon",
	})

	r.MustRegister(engine.Definition{
		Name:             "capital_returns",
		Entity:           engine.PersonEntity,
		Type:             engine.FloatValue,
		DefinitionPeriod: engine.GranularityMonth,
		Divisible:        true,
		Label:            "Capital returns (Box 3 income)",
		Reference:        "https://www.belastingdienst.nl/wps/wcm/connect/nl/box-3/box-3",
	})

	r.MustRegister(engine.Definition{
		Name:             "omzet",
		Entity:           engine.PersonEntity,
		Type:             engine.FloatValue,
		DefinitionPeriod: engine.GranularityMonth,
		Label:            "Freelance revenue",
	})

	r.MustRegister(engine.Definition{
		Name:             "kosten",
		Entity:           engine.PersonEntity,
		Type:             engine.FloatValue,
		DefinitionPeriod: engine.GranularityMonth,
		Label:            "Deductible business expenses",
	})

	r.MustRegister(engine.Definition{
		Name:             "winst_voor_aftrek",
		Entity:           engine.PersonEntity,
		Type:             engine.FloatValue,
		DefinitionPeriod: engine.GranularityMonth,
		Label:            "Profit before deductions",
		Formula: func(ctx *engine.Context, period engine.Period) engine.Vector {
			omzet := ctx.Float("omzet", period)
			kosten := ctx.Float("kosten", period)
			return engine.NewFloats(engine.Sub(omzet, kosten))
		},
	})

	// Disposable income is a modeling definition, not CBS's exact one:
	// everything the household takes in, minus income tax, housing tax,
	// and social contributions. The yearly housing tax enters as its
	// monthly twelfth.
	r.MustRegister(engine.Definition{
		Name:             "disposable_income",
		Entity:           engine.HouseholdEntity,
		Type:             engine.FloatValue,
		DefinitionPeriod: engine.GranularityMonth,
		Label:            "Actual amount available to the household at the end of the month",
		Reference:        "https://www.cbs.nl/nl-nl/nieuws/2024/16/besteedbaar-inkomen-huishoudens-met-6-5-procent-gestegen",
		Formula: func(ctx *engine.Context, period engine.Period) engine.Vector {
			salary := ctx.SumMembers("salary", period)
			seIncome := ctx.SumMembers("self_employment_taxable_income", period)
			capitalReturns := ctx.SumMembers("capital_returns", period)
			pension := ctx.SumMembers("pension", period)
			incomeTax := ctx.SumMembers("income_tax", period)
			socialSecurity := ctx.SumMembers("social_security_contribution", period)
			housingTax := ctx.DividedFloat("housing_tax", period)

			income := engine.Add(engine.Add(salary, seIncome), engine.Add(capitalReturns, pension))
			outgo := engine.Add(engine.Add(incomeTax, socialSecurity), housingTax)
			return engine.NewFloats(engine.Sub(income, outgo))
		},
	})
}
