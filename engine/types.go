/*
Package engine provides the core tax-benefit calculation engine.

PURPOSE:
  This package contains domain-agnostic types and algorithms for evaluating
  named, period-scoped quantities over a population of entities. Whether the
  quantity is an income tax, a social contribution, or a benefit, the same
  engine resolves its dependency graph, converts between month and year
  periods, and aggregates person-level values into household-level ones.

KEY CONCEPTS IN THIS FILE (types.go):
  - ValueType: What kind of values a variable holds (float, bool, enum)
  - Entity: Which population a variable belongs to (person, household)
  - Vector: One value per entity instance, index-aligned with the population

DESIGN PRINCIPLES:
  1. Vectorized: Every evaluation produces one value per entity, never a
     single scalar. Aggregation and comparison are elementwise slice ops.
  2. Immutability: The variable registry is built once and never mutated
     during evaluation; each simulation owns its private cache.
  3. Fail-fast: Definitional errors (unknown variable, cyclic dependency,
     malformed scale) abort the run. Silent fallback would produce wrong
     financial figures.

USAGE:
  reg := engine.NewRegistry()
  reg.MustRegister(engine.Definition{Name: "salary", Entity: engine.PersonEntity, ...})
  sim := engine.NewSimulation(reg, params, population, inputs)
  v, err := sim.Calculate("income_tax", engine.MustMonth(2025, time.January))

SEE ALSO:
  - simulation.go: Dependency evaluator and per-run cache
  - period.go: Month/year period model
  - scale.go: Marginal bracket scales
  - population.go: Person/household populations and aggregation
*/
package engine

// =============================================================================
// VALUE TYPES
// =============================================================================

// ValueType identifies what kind of values a variable holds.
type ValueType string

const (
	FloatValue ValueType = "float"
	BoolValue  ValueType = "bool"
	EnumValue  ValueType = "enum"
)

// =============================================================================
// ENTITIES
// =============================================================================

// Entity identifies which population a variable is defined over.
type Entity string

const (
	PersonEntity    Entity = "person"
	HouseholdEntity Entity = "household"
)

// =============================================================================
// VECTOR - One value per entity instance
// =============================================================================

// Vector holds one value per entity instance, index-aligned with the
// population of the variable's entity. Exactly one of F, B, E is populated,
// according to Type. Enum vectors carry their EnumType so symbols can be
// resolved without going back to the registry.
type Vector struct {
	Type ValueType
	F    []float64
	B    []bool
	E    []int // codes into Enum.Items()
	Enum *EnumType
}

// NewFloats wraps a float slice as a Vector.
func NewFloats(values []float64) Vector {
	return Vector{Type: FloatValue, F: values}
}

// NewBools wraps a bool slice as a Vector.
func NewBools(values []bool) Vector {
	return Vector{Type: BoolValue, B: values}
}

// NewEnums wraps a slice of enum codes as a Vector.
func NewEnums(t *EnumType, codes []int) Vector {
	return Vector{Type: EnumValue, E: codes, Enum: t}
}

// Len returns the number of entity instances in the vector.
func (v Vector) Len() int {
	switch v.Type {
	case FloatValue:
		return len(v.F)
	case BoolValue:
		return len(v.B)
	case EnumValue:
		return len(v.E)
	default:
		return 0
	}
}

// AsFloats returns the vector as floats. Bool vectors convert to 0/1, which
// lets formulas multiply a condition into an amount. Enum vectors have no
// float interpretation and return false.
func (v Vector) AsFloats() ([]float64, bool) {
	switch v.Type {
	case FloatValue:
		return v.F, true
	case BoolValue:
		return BoolsToFloats(v.B), true
	default:
		return nil, false
	}
}

// DefaultVector returns the zero-value vector for a value type: 0.0 for
// floats, false for bools, the enum's default symbol for enums.
func DefaultVector(t ValueType, enum *EnumType, n int) Vector {
	switch t {
	case BoolValue:
		return NewBools(make([]bool, n))
	case EnumValue:
		codes := make([]int, n)
		if enum != nil {
			def := enum.Default()
			for i := range codes {
				codes[i] = def
			}
		}
		return NewEnums(enum, codes)
	default:
		return NewFloats(make([]float64, n))
	}
}
