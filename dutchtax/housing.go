/*
housing.go - Accommodation inputs and the yearly property tax

The housing tax (onroerendezaakbelasting, OZB) is the model's one yearly
household variable. It depends on the accommodation size and occupancy
status as of the first month of the year, and applies only when the
household owns or rents its main residency.
*/
package dutchtax

import "github.com/warp/fiscal-engine/engine"

// HousingOccupancy is the closed set of occupancy statuses. Tenant is
// declared first and is therefore the default for households that supply
// no status.
var HousingOccupancy = engine.NewEnumType("housing_occupancy_status",
	"tenant", "owner", "free_lodger", "homeless")

func registerHousing(r *engine.Registry) {
	r.MustRegister(engine.Definition{
		Name:             "accommodation_size",
		Entity:           engine.HouseholdEntity,
		Type:             engine.FloatValue,
		DefinitionPeriod: engine.GranularityMonth,
		Label:            "Size of the accommodation, in square meters",
	})

	r.MustRegister(engine.Definition{
		Name:             "housing_occupancy_status",
		Entity:           engine.HouseholdEntity,
		Type:             engine.EnumValue,
		DefinitionPeriod: engine.GranularityMonth,
		Enum:             HousingOccupancy,
		Label:            "Legal housing situation of the household concerning their main residence",
	})

	r.MustRegister(engine.Definition{
		Name:             "housing_tax",
		Entity:           engine.HouseholdEntity,
		Type:             engine.FloatValue,
		DefinitionPeriod: engine.GranularityYear,
		Label:            "Property tax (onroerendezaakbelasting - OZB)",
		Reference:        "https://www.rijksoverheid.nl/onderwerpen/belastingen-voor-particulieren/onroerendezaakbelasting-ozb",
		Formula: func(ctx *engine.Context, period engine.Period) engine.Vector {
			// Defined for the year, assessed on the situation in January.
			january := period.FirstMonth()
			size := ctx.Float("accommodation_size", january)

			params := ctx.Params(period)
			rate := params.Float("taxes.housing_tax.rate")
			minimal := params.Float("taxes.housing_tax.minimal_amount")
			amount := engine.ClampMin(engine.MulScalar(size, rate), minimal)

			// Only owners and tenants of a main residency pay.
			owner := ctx.EnumEq("housing_occupancy_status", january, "owner")
			tenant := ctx.EnumEq("housing_occupancy_status", january, "tenant")
			occupied := engine.BoolsToFloats(engine.Or(owner, tenant))

			return engine.NewFloats(engine.Mul(occupied, amount))
		},
	})
}
