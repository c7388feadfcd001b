/*
situation.go - Declarative household situations

PURPOSE:
  A Situation is the serializable description of who is being calculated
  for: persons, the households grouping them, and the input values each
  supplies. The same struct decodes from YAML (scenario files) and JSON
  (the HTTP API), and compiles into an engine population plus input set.

INPUT VALUE FORMS:
  An input is either a bare scalar, applied at the situation's period:

      salary: 3000

  or a map keyed by period, for values that vary or sit at another
  granularity:

      salary: {"2025": 36000, "2026-01": 3200}

  Scalars follow the variable's type: numbers for floats, true/false for
  bools, and symbol strings for enums ("owner").

SEE ALSO:
  - scenario.go: YAML scenario files built on top of situations
  - api: Decodes the same situation shape from calculation requests
*/
package scenario

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/warp/fiscal-engine/engine"
)

// =============================================================================
// SITUATION SCHEMA
// =============================================================================

// Situation describes a population and its inputs.
type Situation struct {
	Persons    []PersonSpec    `yaml:"persons" json:"persons"`
	Households []HouseholdSpec `yaml:"households" json:"households"`
}

// PersonSpec is one person and their input values.
type PersonSpec struct {
	ID     string                `yaml:"id" json:"id"`
	Inputs map[string]InputValue `yaml:"inputs" json:"inputs"`
}

// HouseholdSpec is one household, its members, and its input values.
type HouseholdSpec struct {
	ID      string                `yaml:"id" json:"id"`
	Members []string              `yaml:"members" json:"members"`
	Inputs  map[string]InputValue `yaml:"inputs" json:"inputs"`
}

// =============================================================================
// INPUT VALUES - Scalar or period-keyed map
// =============================================================================

// ScalarKind tags what a decoded scalar holds.
type ScalarKind int

const (
	FloatScalar ScalarKind = iota
	BoolScalar
	SymbolScalar
)

// Scalar is one decoded input value.
type Scalar struct {
	Kind   ScalarKind
	Float  float64
	Bool   bool
	Symbol string
}

func (s *Scalar) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("input value must be a scalar, got %s", node.Tag)
	}
	switch node.Tag {
	case "!!int", "!!float":
		s.Kind = FloatScalar
		return node.Decode(&s.Float)
	case "!!bool":
		s.Kind = BoolScalar
		return node.Decode(&s.Bool)
	case "!!str":
		s.Kind = SymbolScalar
		return node.Decode(&s.Symbol)
	default:
		return fmt.Errorf("input value has unsupported type %s", node.Tag)
	}
}

func (s *Scalar) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch v := raw.(type) {
	case float64:
		s.Kind, s.Float = FloatScalar, v
	case bool:
		s.Kind, s.Bool = BoolScalar, v
	case string:
		s.Kind, s.Symbol = SymbolScalar, v
	default:
		return fmt.Errorf("input value must be a number, bool, or string")
	}
	return nil
}

// InputValue is either one scalar at the situation's default period or a
// period-keyed map of scalars.
type InputValue struct {
	Default  *Scalar
	ByPeriod map[string]Scalar
}

func (iv *InputValue) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.MappingNode {
		return node.Decode(&iv.ByPeriod)
	}
	iv.Default = &Scalar{}
	return node.Decode(iv.Default)
}

func (iv *InputValue) UnmarshalJSON(data []byte) error {
	for _, b := range data {
		switch b {
		case ' ', '\t', '\n', '\r':
			continue
		case '{':
			return json.Unmarshal(data, &iv.ByPeriod)
		default:
			iv.Default = &Scalar{}
			return json.Unmarshal(data, iv.Default)
		}
	}
	return fmt.Errorf("empty input value")
}

// =============================================================================
// COMPILATION - Situation -> population + inputs
// =============================================================================

// Compile validates the situation against a registry and turns it into an
// engine population and input set. defaultPeriod anchors bare scalar inputs.
func Compile(registry *engine.Registry, s Situation, defaultPeriod engine.Period) (*engine.Population, *engine.Inputs, error) {
	personIDs := make([]string, len(s.Persons))
	for i, p := range s.Persons {
		personIDs[i] = p.ID
	}
	households := make([]engine.HouseholdSpec, len(s.Households))
	for i, h := range s.Households {
		households[i] = engine.HouseholdSpec{ID: h.ID, Members: h.Members}
	}
	pop, err := engine.NewPopulation(personIDs, households)
	if err != nil {
		return nil, nil, err
	}

	c := &compiler{registry: registry, pop: pop, defaultPeriod: defaultPeriod,
		pending: make(map[pendingKey]*pendingVector)}

	for i, p := range s.Persons {
		if err := c.add(engine.PersonEntity, i, p.ID, p.Inputs); err != nil {
			return nil, nil, err
		}
	}
	for i, h := range s.Households {
		if err := c.add(engine.HouseholdEntity, i, h.ID, h.Inputs); err != nil {
			return nil, nil, err
		}
	}

	if err := c.checkGranularityConflicts(); err != nil {
		return nil, nil, err
	}

	inputs := engine.NewInputs()
	for key, pv := range c.pending {
		inputs.Set(key.name, key.period, pv.vector)
	}
	return pop, inputs, nil
}

// checkGranularityConflicts rejects a variable supplied both at a year and
// at a month of that same year. The evaluator resolves exact month entries
// first, which would silently shadow the yearly amount of everyone else.
func (c *compiler) checkGranularityConflicts() error {
	years := make(map[pendingKey]bool)
	for key := range c.pending {
		if key.period.IsYear() {
			years[key] = true
		}
	}
	for key := range c.pending {
		if key.period.IsMonth() && years[pendingKey{key.name, key.period.ThisYear()}] {
			return fmt.Errorf("input %s supplied both for %s and for the whole of %s",
				key.name, key.period, key.period.ThisYear())
		}
	}
	return nil
}

type pendingKey struct {
	name   string
	period engine.Period
}

type pendingVector struct {
	vector engine.Vector
}

type compiler struct {
	registry      *engine.Registry
	pop           *engine.Population
	defaultPeriod engine.Period
	pending       map[pendingKey]*pendingVector
}

func (c *compiler) add(entity engine.Entity, index int, id string, inputs map[string]InputValue) error {
	for name, iv := range inputs {
		def, ok := c.registry.Lookup(name)
		if !ok {
			return fmt.Errorf("%w: %s (input for %s)", engine.ErrUnknownVariable, name, id)
		}
		if def.Entity != entity {
			return fmt.Errorf("variable %s is defined per %s, supplied on %s %q", name, def.Entity, entity, id)
		}
		if def.Formula != nil {
			return fmt.Errorf("variable %s has a formula and cannot be supplied as an input", name)
		}

		if iv.Default != nil {
			period := c.anchorPeriod(def)
			if err := c.set(def, period, index, *iv.Default, id); err != nil {
				return err
			}
		}
		for periodStr, scalar := range iv.ByPeriod {
			period, err := engine.ParsePeriod(periodStr)
			if err != nil {
				return fmt.Errorf("input %s for %s: %w", name, id, err)
			}
			if err := c.set(def, period, index, scalar, id); err != nil {
				return err
			}
		}
	}
	return nil
}

// anchorPeriod maps the situation's default period onto the variable's own
// granularity. A yearly variable supplied during a monthly run anchors at
// the surrounding year; a monthly variable during a yearly run anchors at
// the year itself, where the engine's divisible-input rule takes over.
func (c *compiler) anchorPeriod(def *engine.Definition) engine.Period {
	if def.DefinitionPeriod == engine.GranularityYear {
		return c.defaultPeriod.ThisYear()
	}
	return c.defaultPeriod
}

func (c *compiler) set(def *engine.Definition, period engine.Period, index int, s Scalar, id string) error {
	key := pendingKey{def.Name, period}
	pv, ok := c.pending[key]
	if !ok {
		pv = &pendingVector{vector: engine.DefaultVector(def.Type, def.Enum, c.pop.Size(def.Entity))}
		c.pending[key] = pv
	}

	switch def.Type {
	case engine.FloatValue:
		if s.Kind != FloatScalar {
			return fmt.Errorf("input %s for %s: want a number", def.Name, id)
		}
		pv.vector.F[index] = s.Float
	case engine.BoolValue:
		if s.Kind != BoolScalar {
			return fmt.Errorf("input %s for %s: want true or false", def.Name, id)
		}
		pv.vector.B[index] = s.Bool
	case engine.EnumValue:
		if s.Kind != SymbolScalar {
			return fmt.Errorf("input %s for %s: want a %s symbol", def.Name, id, def.Enum.Name())
		}
		code, err := def.Enum.Index(s.Symbol)
		if err != nil {
			return fmt.Errorf("input %s for %s: %w", def.Name, id, err)
		}
		pv.vector.E[index] = code
	}
	return nil
}
