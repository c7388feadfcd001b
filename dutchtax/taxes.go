/*
taxes.go - Box 1 income tax, tax credits, and social contributions

The heart of the model. Taxable income feeds progressive bracket scales;
the two credits (algemene heffingskorting, arbeidskorting) are computed on
annualized income and land as monthly twelfths; people at or above AOW age
use a separate scale because they pay no AOW premium in the first bracket.

Clamping follows the legislation exactly: income_tax and the credits clamp
at zero, taxable_income does not.
*/
package dutchtax

import "github.com/warp/fiscal-engine/engine"

func registerTaxes(r *engine.Registry) {
	r.MustRegister(engine.Definition{
		Name:             "arbeidsinkomen",
		Entity:           engine.PersonEntity,
		Type:             engine.FloatValue,
		DefinitionPeriod: engine.GranularityMonth,
		Label:            "Labor income (arbeidsinkomen) for tax purposes",
		Reference:        "https://www.belastingdienst.nl/wps/wcm/connect/nl/werk-en-inkomen/content/wat-is-arbeidsinkomen",
		Formula: func(ctx *engine.Context, period engine.Period) engine.Vector {
			salary := ctx.Float("salary", period)
			seIncome := ctx.Float("self_employment_taxable_income", period)
			return engine.NewFloats(engine.Add(salary, seIncome))
		},
	})

	r.MustRegister(engine.Definition{
		Name:             "taxable_income",
		Entity:           engine.PersonEntity,
		Type:             engine.FloatValue,
		DefinitionPeriod: engine.GranularityMonth,
		Label:            "Total Box 1 taxable income before credits",
		Reference:        "https://www.belastingdienst.nl/wps/wcm/connect/nl/inkomstenbelasting/content/tarieven-inkomstenbelasting",
		Formula: func(ctx *engine.Context, period engine.Period) engine.Vector {
			base := engine.Add(
				engine.Add(ctx.Float("salary", period), ctx.Float("capital_returns", period)),
				ctx.Float("pension", period),
			)
			seIncome := ctx.Float("self_employment_taxable_income", period)
			return engine.NewFloats(engine.Add(base, seIncome))
		},
	})

	// The general tax credit phases out above an income threshold.
	r.MustRegister(engine.Definition{
		Name:             "algemene_heffingskorting",
		Entity:           engine.PersonEntity,
		Type:             engine.FloatValue,
		DefinitionPeriod: engine.GranularityMonth,
		Label:            "General tax credit (algemene heffingskorting)",
		Reference:        "https://www.belastingdienst.nl/wps/wcm/connect/nl/heffingskortingen/content/algemene-heffingskorting",
		Formula: func(ctx *engine.Context, period engine.Period) engine.Vector {
			params := ctx.Params(period)
			maxCredit := params.Float("taxes.tax_credits.algemene_heffingskorting_max")
			threshold := params.Float("taxes.tax_credits.algemene_heffingskorting_income_threshold")
			phaseOutRate := params.Float("taxes.tax_credits.algemene_heffingskorting_phase_out_rate")

			annualIncome := engine.MulScalar(ctx.Float("taxable_income", period), 12)
			excess := engine.ClampMin(engine.SubScalar(annualIncome, threshold), 0)
			reduction := engine.MulScalar(excess, phaseOutRate)

			// maxCredit - reduction, clamped at 0, as a monthly amount.
			annualCredit := engine.ClampMin(engine.Sub(fill(ctx.Size(), maxCredit), reduction), 0)
			return engine.NewFloats(engine.DivScalar(annualCredit, 12))
		},
	})

	// The labor tax credit builds up with labor income and phases out
	// above a ceiling.
	r.MustRegister(engine.Definition{
		Name:             "arbeidskorting",
		Entity:           engine.PersonEntity,
		Type:             engine.FloatValue,
		DefinitionPeriod: engine.GranularityMonth,
		Label:            "Labor tax credit (arbeidskorting)",
		Reference:        "https://www.belastingdienst.nl/wps/wcm/connect/nl/heffingskortingen/content/arbeidskorting",
		Formula: func(ctx *engine.Context, period engine.Period) engine.Vector {
			params := ctx.Params(period)
			maxCredit := params.Float("taxes.tax_credits.arbeidskorting_max")
			maxIncome := params.Float("taxes.tax_credits.arbeidskorting_max_income")
			buildupRate := params.Float("taxes.tax_credits.arbeidskorting_buildup_rate")
			phaseOutRate := params.Float("taxes.tax_credits.arbeidskorting_phase_out_rate")

			annualIncome := engine.MulScalar(ctx.Float("arbeidsinkomen", period), 12)

			buildup := engine.MinScalar(engine.MulScalar(annualIncome, buildupRate), maxCredit)
			excess := engine.ClampMin(engine.SubScalar(annualIncome, maxIncome), 0)
			phaseOut := engine.MulScalar(excess, phaseOutRate)

			annualCredit := engine.ClampMin(engine.Sub(buildup, phaseOut), 0)
			return engine.NewFloats(engine.DivScalar(annualCredit, 12))
		},
	})

	r.MustRegister(engine.Definition{
		Name:             "income_tax",
		Entity:           engine.PersonEntity,
		Type:             engine.FloatValue,
		DefinitionPeriod: engine.GranularityMonth,
		Label:            "Income tax on Box 1 taxable income, after tax credits",
		Reference:        "https://www.belastingdienst.nl/wps/wcm/connect/nl/inkomstenbelasting/content/tarieven-inkomstenbelasting",
		Formula: func(ctx *engine.Context, period engine.Period) engine.Vector {
			taxable := ctx.Float("taxable_income", period)
			params := ctx.Params(period)

			// People at or above AOW age pay no AOW premium and use a
			// lower first-bracket scale.
			aowAge := params.Float("general.age_of_retirement")
			isAOW := engine.GreaterEq(ctx.Float("age", period), aowAge)
			grossAOW := params.Scale("taxes.income_tax_brackets_aow").Calc(taxable)
			grossRegular := params.Scale("taxes.income_tax_brackets").Calc(taxable)
			gross := engine.Where(isAOW, grossAOW, grossRegular)

			credits := engine.Add(
				ctx.Float("algemene_heffingskorting", period),
				ctx.Float("arbeidskorting", period),
			)
			return engine.NewFloats(engine.ClampMin(engine.Sub(gross, credits), 0))
		},
	})

	r.MustRegister(engine.Definition{
		Name:             "social_security_contribution",
		Entity:           engine.PersonEntity,
		Type:             engine.FloatValue,
		DefinitionPeriod: engine.GranularityMonth,
		Label:            "Progressive contribution paid on salaries to finance social security",
		Reference:        "https://www.belastingdienst.nl/wps/wcm/connect/nl/werk-en-inkomen/content/hoe-werkt-de-inhouding-van-loonheffing",
		Formula: func(ctx *engine.Context, period engine.Period) engine.Vector {
			salary := ctx.Float("salary", period)
			scale := ctx.Params(period).Scale("taxes.social_security_contribution")
			return engine.NewFloats(scale.Calc(salary))
		},
	})
}

func fill(n int, v float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = v
	}
	return out
}
