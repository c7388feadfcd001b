/*
variable.go - Variable definitions and the registry

PURPOSE:
  A variable is a named, typed, period-scoped quantity: "salary" is a float
  defined per person per month, "housing_tax" a float per household per
  year. A variable either has a formula (computed from other variables and
  parameters) or is a pure input (supplied by the caller, defaulting to the
  type's zero value).

  Definitions are plain data records registered once at startup into an
  explicit Registry. The registry is immutable after setup and is shared
  read-only across concurrently running simulations.

SEE ALSO:
  - simulation.go: Evaluates registered variables
  - dutchtax: The domain package that registers the tax model's variables
*/
package engine

import "fmt"

// =============================================================================
// DEFINITION - One record per variable
// =============================================================================

// Formula computes a variable's vector for one period. It reads dependencies
// and parameters through the Context, which routes nested reads back into
// the same simulation and cache.
type Formula func(ctx *Context, period Period) Vector

// Definition describes one variable.
type Definition struct {
	// Name is the unique key the variable is evaluated under.
	Name string

	// Entity is the population the variable is defined over.
	Entity Entity

	// Type is the kind of values the variable holds.
	Type ValueType

	// DefinitionPeriod is the granularity the variable is defined for.
	DefinitionPeriod Granularity

	// Divisible marks a monthly input variable whose caller-supplied yearly
	// value may be spread evenly over the 12 months of that year.
	Divisible bool

	// Enum is the closed symbol set for EnumValue variables, nil otherwise.
	Enum *EnumType

	// Label and Reference document the variable. Reference points at the
	// legal or statistical source of the definition.
	Label     string
	Reference string

	// Formula computes the variable. Nil means the variable is a pure input.
	Formula Formula
}

func (d Definition) validate() error {
	if d.Name == "" {
		return fmt.Errorf("variable definition without a name")
	}
	if d.Entity != PersonEntity && d.Entity != HouseholdEntity {
		return fmt.Errorf("variable %s: unknown entity %q", d.Name, d.Entity)
	}
	if d.DefinitionPeriod != GranularityMonth && d.DefinitionPeriod != GranularityYear {
		return fmt.Errorf("variable %s: unknown definition period %q", d.Name, d.DefinitionPeriod)
	}
	switch d.Type {
	case FloatValue, BoolValue:
		if d.Enum != nil {
			return fmt.Errorf("variable %s: enum set on non-enum variable", d.Name)
		}
	case EnumValue:
		if d.Enum == nil {
			return fmt.Errorf("variable %s: enum variable without an enum type", d.Name)
		}
	default:
		return fmt.Errorf("variable %s: unknown value type %q", d.Name, d.Type)
	}
	if d.Divisible && (d.Type != FloatValue || d.DefinitionPeriod != GranularityMonth) {
		return fmt.Errorf("variable %s: only monthly float variables can be divisible", d.Name)
	}
	return nil
}

// =============================================================================
// REGISTRY - Built once, immutable during evaluation
// =============================================================================

// Registry holds all variable definitions. Register everything at process
// startup; evaluation only reads. A fully built registry is safe to share
// across goroutines.
type Registry struct {
	defs  map[string]*Definition
	names []string
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{defs: make(map[string]*Definition)}
}

// Register adds a definition.
// Fails with ErrDuplicateVariable if the name is already registered.
func (r *Registry) Register(def Definition) error {
	if err := def.validate(); err != nil {
		return err
	}
	if _, exists := r.defs[def.Name]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateVariable, def.Name)
	}
	d := def
	r.defs[def.Name] = &d
	r.names = append(r.names, def.Name)
	return nil
}

// MustRegister is Register for startup wiring; it panics on error because a
// broken definition set means the process cannot run at all.
func (r *Registry) MustRegister(def Definition) {
	if err := r.Register(def); err != nil {
		panic(err)
	}
}

// Lookup returns the definition for a name.
func (r *Registry) Lookup(name string) (*Definition, bool) {
	d, ok := r.defs[name]
	return d, ok
}

// Names returns all registered names in registration order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.names))
	copy(out, r.names)
	return out
}
