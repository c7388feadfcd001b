/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the internal domain model from the external API contract, allowing:
  - Field renaming without breaking clients
  - API-specific validation
  - Version evolution

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

MONEY:
  Float results are rounded to cents through shopspring/decimal before
  they leave the API. The engine computes in float64; clients see money.

SEE ALSO:
  - handlers.go: Uses these types
  - scenario/situation.go: The persons/households request shape
*/
package api

import (
	"github.com/shopspring/decimal"

	"github.com/warp/fiscal-engine/engine"
	"github.com/warp/fiscal-engine/scenario"
)

// =============================================================================
// REQUEST/RESPONSE TYPES
// =============================================================================

// CalculateRequest is one calculation: a situation, a period, and the
// variables to evaluate. The persons/households shape is shared with
// scenario files.
type CalculateRequest struct {
	Period    string   `json:"period"`
	Variables []string `json:"variables"`
	scenario.Situation
}

// CalculateResponse carries the results of one calculation.
type CalculateResponse struct {
	CalculationID string                       `json:"calculation_id"`
	Period        string                       `json:"period"`
	Results       map[string]VariableResultDTO `json:"results"`
}

// VariableResultDTO is one evaluated variable. Values are keyed by the
// person or household IDs from the request. Floats arrive rounded to
// cents, bools as true/false, enums as their symbol.
type VariableResultDTO struct {
	Entity string         `json:"entity"`
	Period string         `json:"period"`
	Values map[string]any `json:"values"`
}

// VariableDTO describes one registered variable.
type VariableDTO struct {
	Name             string   `json:"name"`
	Entity           string   `json:"entity"`
	ValueType        string   `json:"value_type"`
	DefinitionPeriod string   `json:"definition_period"`
	Divisible        bool     `json:"divisible,omitempty"`
	Label            string   `json:"label,omitempty"`
	Reference        string   `json:"reference,omitempty"`
	HasFormula       bool     `json:"has_formula"`
	EnumSymbols      []string `json:"enum_symbols,omitempty"`
}

// BracketDTO is one bracket of a scale parameter.
type BracketDTO struct {
	Threshold float64 `json:"threshold"`
	Rate      float64 `json:"rate"`
}

// ParameterDTO is one resolved parameter: a scalar value or a scale.
type ParameterDTO struct {
	Path     string       `json:"path"`
	Period   string       `json:"period"`
	Value    *float64     `json:"value,omitempty"`
	Brackets []BracketDTO `json:"brackets,omitempty"`
}

// ErrorResponse is the standard error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details any    `json:"details,omitempty"`
}

// =============================================================================
// CONVERSION HELPERS
// =============================================================================

func toVariableDTO(def *engine.Definition) VariableDTO {
	dto := VariableDTO{
		Name:             def.Name,
		Entity:           string(def.Entity),
		ValueType:        string(def.Type),
		DefinitionPeriod: string(def.DefinitionPeriod),
		Divisible:        def.Divisible,
		Label:            def.Label,
		Reference:        def.Reference,
		HasFormula:       def.Formula != nil,
	}
	if def.Enum != nil {
		dto.EnumSymbols = def.Enum.Items()
	}
	return dto
}

// toResultValues maps a result vector onto entity IDs, rounding floats to
// cents on the way out.
func toResultValues(def *engine.Definition, ids []string, v engine.Vector) map[string]any {
	values := make(map[string]any, len(ids))
	for i, id := range ids {
		switch def.Type {
		case engine.FloatValue:
			values[id] = roundCents(v.F[i])
		case engine.BoolValue:
			values[id] = v.B[i]
		case engine.EnumValue:
			values[id] = def.Enum.Symbol(v.E[i])
		}
	}
	return values
}

func roundCents(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}
