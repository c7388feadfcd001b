/*
self_employment.go - Self-employment deductions and taxable profit

The zelfstandigenaftrek requires the yearly hours criterion; the SME profit
exemption applies to what remains after it. Clamps follow the legislation:
negative bases earn no exemption and taxable income never goes below zero,
but the raw profit (winst_voor_aftrek) is deliberately left unclamped.
*/
package dutchtax

import "github.com/warp/fiscal-engine/engine"

func registerSelfEmployment(r *engine.Registry) {
	// The hours criterion requires at least 1225 hours per year spent on
	// self-employment to qualify for the zelfstandigenaftrek. A yearly
	// fact, supplied by the caller.
	r.MustRegister(engine.Definition{
		Name:             "urencriterium_voldaan",
		Entity:           engine.PersonEntity,
		Type:             engine.BoolValue,
		DefinitionPeriod: engine.GranularityYear,
		Label:            "Whether the hours criterion (urencriterium) for self-employment is met",
		Reference:        "https://www.belastingdienst.nl/wps/wcm/connect/nl/zelfstandigen/content/hulpmiddel-urencriterium",
	})

	r.MustRegister(engine.Definition{
		Name:             "zelfstandigenaftrek",
		Entity:           engine.PersonEntity,
		Type:             engine.FloatValue,
		DefinitionPeriod: engine.GranularityMonth,
		Label:            "Self-employed deduction (zelfstandigenaftrek)",
		Reference:        "https://www.belastingdienst.nl/wps/wcm/connect/nl/zelfstandigen/content/hulpmiddel-zelfstandigenaftrek",
		Formula: func(ctx *engine.Context, period engine.Period) engine.Vector {
			// The criterion is met or not for the whole year; the annual
			// deduction lands in equal monthly parts.
			met := ctx.Float("urencriterium_voldaan", period.ThisYear())
			annual := ctx.Params(period).Float("self_employment.zelfstandigenaftrek")
			return engine.NewFloats(engine.MulScalar(met, annual/12))
		},
	})

	r.MustRegister(engine.Definition{
		Name:             "mkb_winstvrijstelling",
		Entity:           engine.PersonEntity,
		Type:             engine.FloatValue,
		DefinitionPeriod: engine.GranularityMonth,
		Label:            "SME profit exemption (mkb-winstvrijstelling)",
		Reference:        "https://www.belastingdienst.nl/wps/wcm/connect/nl/zelfstandigen/content/hulpmiddel-mkb-winstvrijstelling",
		Formula: func(ctx *engine.Context, period engine.Period) engine.Vector {
			profitBefore := ctx.Float("winst_voor_aftrek", period)
			aftrek := ctx.Float("zelfstandigenaftrek", period)

			// Negative bases don't get the exemption.
			base := engine.ClampMin(engine.Sub(profitBefore, aftrek), 0)
			rate := ctx.Params(period).Float("self_employment.mkb_winstvrijstelling_rate")
			return engine.NewFloats(engine.MulScalar(base, rate))
		},
	})

	r.MustRegister(engine.Definition{
		Name:             "self_employment_taxable_income",
		Entity:           engine.PersonEntity,
		Type:             engine.FloatValue,
		DefinitionPeriod: engine.GranularityMonth,
		Label:            "Taxable income from self-employment (Box 1)",
		Reference:        "https://www.belastingdienst.nl/wps/wcm/connect/nl/zelfstandigen/content/winst-uit-onderneming",
		Formula: func(ctx *engine.Context, period engine.Period) engine.Vector {
			winst := ctx.Float("winst_voor_aftrek", period)
			aftrek := ctx.Float("zelfstandigenaftrek", period)
			mkb := ctx.Float("mkb_winstvrijstelling", period)

			taxable := engine.Sub(engine.Sub(winst, aftrek), mkb)
			return engine.NewFloats(engine.ClampMin(taxable, 0))
		},
	})
}
