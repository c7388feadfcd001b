/*
scenario.go - YAML scenario files and the runner

PURPOSE:
  A scenario file pins down one situation and the values its variables must
  produce. Scenarios double as executable documentation of the tax rules
  and as regression fixtures when parameters or formulas change.

FILE FORMAT:
  name: single earner, rented flat
  period: "2025-01"
  persons:
    - id: alice
      inputs:
        salary: 3000
  households:
    - id: h1
      members: [alice]
      inputs:
        accommodation_size: 80
        housing_occupancy_status: tenant
  expect:
    - variable: income_tax
      values: [500]
    - variable: housing_tax
      period: "2025"
      values: [800]

  Expectations compare as money: a result matches when it is within half a
  cent of the expected value.

SEE ALSO:
  - situation.go: The persons/households/inputs block
  - cmd/fiscal: The `run` command that executes scenario files
*/
package scenario

import (
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/warp/fiscal-engine/engine"
)

// halfCent is the comparison tolerance for expected values.
var halfCent = decimal.New(5, -3)

// =============================================================================
// SCENARIO SCHEMA
// =============================================================================

// Scenario is one named situation with expectations.
type Scenario struct {
	Name      string `yaml:"name"`
	Period    string `yaml:"period"`
	Situation `yaml:",inline"`
	Expect    []Expectation `yaml:"expect"`
}

// Expectation pins the values of one variable at one period. Period defaults
// to the scenario's period, adjusted to the variable's granularity. Values
// align with the variable's entity in declaration order.
type Expectation struct {
	Variable string    `yaml:"variable"`
	Period   string    `yaml:"period"`
	Values   []float64 `yaml:"values"`
}

// Parse decodes a scenario document.
func Parse(data []byte) (*Scenario, error) {
	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, fmt.Errorf("parsing scenario: %w", err)
	}
	if sc.Period == "" {
		return nil, fmt.Errorf("scenario %q has no period", sc.Name)
	}
	if _, err := engine.ParsePeriod(sc.Period); err != nil {
		return nil, fmt.Errorf("scenario %q: %w", sc.Name, err)
	}
	if len(sc.Persons) == 0 {
		return nil, fmt.Errorf("scenario %q has no persons", sc.Name)
	}
	return &sc, nil
}

// Load reads a scenario file from disk.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	sc, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return sc, nil
}

// =============================================================================
// RUNNER
// =============================================================================

// Failure is one expected value a run did not reproduce.
type Failure struct {
	Variable string
	Period   engine.Period
	EntityID string
	Want     float64
	Got      float64
}

func (f Failure) String() string {
	return fmt.Sprintf("%s@%s[%s]: want %.2f, got %.2f", f.Variable, f.Period, f.EntityID, f.Want, f.Got)
}

// Result is the outcome of running one scenario.
type Result struct {
	Name     string
	Checks   int
	Failures []Failure
}

// OK reports whether every expectation held.
func (r *Result) OK() bool { return len(r.Failures) == 0 }

// Run compiles a scenario and checks every expectation against a fresh
// simulation. An error means the scenario could not be evaluated at all;
// value mismatches land in the result instead.
func Run(registry *engine.Registry, params engine.ParameterResolver, sc *Scenario) (*Result, error) {
	period, err := engine.ParsePeriod(sc.Period)
	if err != nil {
		return nil, err
	}
	pop, inputs, err := Compile(registry, sc.Situation, period)
	if err != nil {
		return nil, fmt.Errorf("scenario %q: %w", sc.Name, err)
	}
	sim := engine.NewSimulation(registry, params, pop, inputs)

	result := &Result{Name: sc.Name}
	for _, exp := range sc.Expect {
		def, ok := registry.Lookup(exp.Variable)
		if !ok {
			return nil, fmt.Errorf("scenario %q: %w: %s", sc.Name, engine.ErrUnknownVariable, exp.Variable)
		}
		expPeriod, err := expectationPeriod(def, exp, period)
		if err != nil {
			return nil, fmt.Errorf("scenario %q: %w", sc.Name, err)
		}

		v, err := sim.Calculate(exp.Variable, expPeriod)
		if err != nil {
			return nil, fmt.Errorf("scenario %q: %w", sc.Name, err)
		}
		got, fok := v.AsFloats()
		if !fok {
			return nil, fmt.Errorf("scenario %q: %s is not a numeric variable", sc.Name, exp.Variable)
		}
		if len(exp.Values) != len(got) {
			return nil, fmt.Errorf("scenario %q: %s expects %d values for %d %ss",
				sc.Name, exp.Variable, len(exp.Values), len(got), def.Entity)
		}

		ids := entityIDs(pop, def.Entity)
		for i, want := range exp.Values {
			result.Checks++
			if !withinHalfCent(got[i], want) {
				result.Failures = append(result.Failures, Failure{
					Variable: exp.Variable, Period: expPeriod, EntityID: ids[i],
					Want: want, Got: got[i],
				})
			}
		}
	}
	return result, nil
}

func expectationPeriod(def *engine.Definition, exp Expectation, fallback engine.Period) (engine.Period, error) {
	if exp.Period != "" {
		return engine.ParsePeriod(exp.Period)
	}
	if def.DefinitionPeriod == engine.GranularityYear {
		return fallback.ThisYear(), nil
	}
	return fallback, nil
}

func entityIDs(pop *engine.Population, entity engine.Entity) []string {
	if entity == engine.HouseholdEntity {
		return pop.HouseholdIDs()
	}
	return pop.PersonIDs()
}

func withinHalfCent(got, want float64) bool {
	diff := decimal.NewFromFloat(got).Sub(decimal.NewFromFloat(want)).Abs()
	return diff.LessThanOrEqual(halfCent)
}
