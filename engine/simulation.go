/*
simulation.go - The dependency evaluator

PURPOSE:
  A Simulation is one calculation run: one population snapshot, one set of
  caller-supplied inputs, one private cache. Calculate(name, period)
  resolves the variable's formula, which reads its dependencies back
  through the same simulation, recursively, possibly at other periods and
  entity levels, bottoming out at input variables and parameters. Every
  computed (variable, period) pair is memoized for the life of the run.

EVALUATION ALGORITHM (Calculate):
  1. Cache hit -> return.
  2. Unknown name -> ErrUnknownVariable.
  3. Granularity other than the definition period -> ErrPeriodMismatch.
  4. No formula -> caller input for the exact (name, period); a yearly
     input spread over 12 months if the variable is Divisible; otherwise
     the type default.
  5. Formula -> guard against re-entering the same (name, period)
     (ErrCyclicDependency), run the formula with a Context bound to this
     simulation, validate the result shape, cache it.

ERROR PLUMBING:
  Formulas read dependencies through sticky-error accessors: the first
  failure is recorded on the simulation, subsequent accessor calls return
  zero vectors, and Calculate surfaces the recorded error. A simulation
  that has failed must be discarded; results computed before the failure
  are not trusted.

CONCURRENCY:
  A simulation is single-threaded and owns all of its mutable state. The
  registry and parameter resolver it reads are immutable and may be shared
  by any number of concurrent simulations. No locks are involved.
*/
package engine

import "fmt"

// =============================================================================
// INPUTS - Caller-supplied values for formula-less variables
// =============================================================================

type inputKey struct {
	name   string
	period Period
}

// Inputs maps (variable, period) pairs to raw vectors. Pairs absent from
// the map yield the variable's type default at evaluation time.
type Inputs struct {
	values map[inputKey]Vector
}

// NewInputs returns an empty input set.
func NewInputs() *Inputs {
	return &Inputs{values: make(map[inputKey]Vector)}
}

// Set supplies a vector for an input variable at a period, replacing any
// previous value for the pair.
func (in *Inputs) Set(name string, period Period, v Vector) {
	in.values[inputKey{name, period}] = v
}

func (in *Inputs) get(name string, period Period) (Vector, bool) {
	if in == nil || in.values == nil {
		return Vector{}, false
	}
	v, ok := in.values[inputKey{name, period}]
	return v, ok
}

// =============================================================================
// SIMULATION
// =============================================================================

// Simulation is one evaluation run. Create one per request with
// NewSimulation; do not reuse a simulation across populations or after a
// failure.
type Simulation struct {
	registry *Registry
	params   ParameterResolver
	pop      *Population
	inputs   *Inputs

	cache  map[inputKey]Vector
	active map[inputKey]bool
	stack  []string
	err    error
}

// NewSimulation binds a registry, parameter resolver, population, and input
// set into a run. inputs may be nil when everything defaults.
func NewSimulation(registry *Registry, params ParameterResolver, pop *Population, inputs *Inputs) *Simulation {
	return &Simulation{
		registry: registry,
		params:   params,
		pop:      pop,
		inputs:   inputs,
		cache:    make(map[inputKey]Vector),
		active:   make(map[inputKey]bool),
	}
}

// Population returns the population this run evaluates over.
func (s *Simulation) Population() *Population { return s.pop }

// Calculate evaluates a variable for a period across the whole population.
// The result is index-aligned with the population of the variable's entity.
func (s *Simulation) Calculate(name string, period Period) (Vector, error) {
	v := s.calculate(name, period)
	if s.err != nil {
		return Vector{}, s.err
	}
	return v, nil
}

func (s *Simulation) fail(err error) {
	if s.err == nil {
		s.err = err
	}
}

func (s *Simulation) calculate(name string, period Period) Vector {
	if s.err != nil {
		return Vector{}
	}
	key := inputKey{name, period}
	if v, ok := s.cache[key]; ok {
		return v
	}

	def, ok := s.registry.Lookup(name)
	if !ok {
		s.fail(fmt.Errorf("%w: %s", ErrUnknownVariable, name))
		return Vector{}
	}
	if period.Granularity != def.DefinitionPeriod {
		s.fail(&EvaluationError{Variable: name, Period: period,
			Err: fmt.Errorf("%w: %s is defined per %s", ErrPeriodMismatch, name, def.DefinitionPeriod)})
		return Vector{}
	}

	if def.Formula == nil {
		v := s.inputValue(def, period)
		if s.err != nil {
			return Vector{}
		}
		s.cache[key] = v
		return v
	}

	if s.active[key] {
		s.fail(&CycleError{Variable: name, Period: period, Stack: append([]string(nil), s.stack...)})
		return Vector{}
	}
	s.active[key] = true
	s.stack = append(s.stack, name+"@"+period.String())

	ctx := &Context{sim: s, def: def, period: period}
	v := def.Formula(ctx, period)

	s.stack = s.stack[:len(s.stack)-1]
	delete(s.active, key)

	if s.err != nil {
		return Vector{}
	}
	if v.Type != def.Type || v.Len() != s.pop.Size(def.Entity) {
		s.fail(&EvaluationError{Variable: name, Period: period,
			Err: fmt.Errorf("formula returned %s vector of length %d, want %s of length %d",
				v.Type, v.Len(), def.Type, s.pop.Size(def.Entity))})
		return Vector{}
	}
	s.cache[key] = v
	return v
}

// inputValue resolves a formula-less variable: exact input, divisible
// yearly input spread over 12 months, or the type default.
func (s *Simulation) inputValue(def *Definition, period Period) Vector {
	n := s.pop.Size(def.Entity)

	if v, ok := s.inputs.get(def.Name, period); ok {
		return s.checkInput(def, period, v, n)
	}

	// A monthly variable may have been supplied at the year level.
	if def.DefinitionPeriod == GranularityMonth {
		if yearly, ok := s.inputs.get(def.Name, period.ThisYear()); ok {
			if !def.Divisible {
				s.fail(&EvaluationError{Variable: def.Name, Period: period,
					Err: fmt.Errorf("%w: yearly input supplied for non-divisible monthly variable", ErrPeriodMismatch)})
				return Vector{}
			}
			v := s.checkInput(def, period, yearly, n)
			if s.err != nil {
				return Vector{}
			}
			return NewFloats(DivScalar(v.F, 12))
		}
	}

	return DefaultVector(def.Type, def.Enum, n)
}

func (s *Simulation) checkInput(def *Definition, period Period, v Vector, n int) Vector {
	if v.Type != def.Type || v.Len() != n {
		s.fail(&EvaluationError{Variable: def.Name, Period: period,
			Err: fmt.Errorf("input is a %s vector of length %d, want %s of length %d",
				v.Type, v.Len(), def.Type, n)})
		return Vector{}
	}
	return v
}

// =============================================================================
// CONTEXT - What a formula sees
// =============================================================================

// Context is the accessor a formula uses to read dependencies, aggregate
// across entities, and resolve parameters. It is bound to the simulation,
// the variable being computed, and that variable's entity.
type Context struct {
	sim    *Simulation
	def    *Definition
	period Period
}

// Float reads a variable as floats, aligned with this formula's entity.
// Bool dependencies convert to 0/1. Reading a household variable from a
// person formula broadcasts the household value across its members.
// Reading a person variable from a household formula is ambiguous; use
// MembersFloat or SumMembers instead.
func (c *Context) Float(name string, period Period) []float64 {
	v, dep := c.read(name, period)
	if dep == nil {
		return c.zeros()
	}
	f, ok := v.AsFloats()
	if !ok {
		c.sim.fail(&EvaluationError{Variable: c.def.Name, Period: c.period,
			Err: fmt.Errorf("dependency %s is a %s variable, not readable as floats", name, dep.Type)})
		return c.zeros()
	}
	switch {
	case dep.Entity == c.def.Entity:
		return f
	case c.def.Entity == PersonEntity && dep.Entity == HouseholdEntity:
		return c.sim.pop.BroadcastToPersons(f)
	default:
		c.sim.fail(&EvaluationError{Variable: c.def.Name, Period: c.period,
			Err: fmt.Errorf("person variable %s read from a household formula; use MembersFloat or SumMembers", name)})
		return c.zeros()
	}
}

// Bool reads a bool variable on the same entity.
func (c *Context) Bool(name string, period Period) []bool {
	v, dep := c.read(name, period)
	if dep == nil {
		return make([]bool, c.size())
	}
	if v.Type != BoolValue || dep.Entity != c.def.Entity {
		c.sim.fail(&EvaluationError{Variable: c.def.Name, Period: c.period,
			Err: fmt.Errorf("dependency %s is not a same-entity bool variable", name)})
		return make([]bool, c.size())
	}
	return v.B
}

// EnumEq reads an enum variable on the same entity and compares it against
// a named symbol, elementwise.
func (c *Context) EnumEq(name string, period Period, symbol string) []bool {
	v, dep := c.read(name, period)
	if dep == nil {
		return make([]bool, c.size())
	}
	if v.Type != EnumValue || dep.Entity != c.def.Entity {
		c.sim.fail(&EvaluationError{Variable: c.def.Name, Period: c.period,
			Err: fmt.Errorf("dependency %s is not a same-entity enum variable", name)})
		return make([]bool, c.size())
	}
	eq, err := v.Enum.Eq(v.E, symbol)
	if err != nil {
		c.sim.fail(&EvaluationError{Variable: c.def.Name, Period: c.period, Err: err})
		return make([]bool, c.size())
	}
	return eq
}

// MembersFloat reads a person-level variable from a household formula,
// returning the raw person-length vector (one row per member).
func (c *Context) MembersFloat(name string, period Period) []float64 {
	if c.def.Entity != HouseholdEntity {
		c.sim.fail(&EvaluationError{Variable: c.def.Name, Period: c.period,
			Err: fmt.Errorf("MembersFloat(%s) called from a non-household formula", name)})
		return nil
	}
	v, dep := c.read(name, period)
	if dep == nil {
		return make([]float64, c.sim.pop.NumPersons())
	}
	f, ok := v.AsFloats()
	if !ok || dep.Entity != PersonEntity {
		c.sim.fail(&EvaluationError{Variable: c.def.Name, Period: c.period,
			Err: fmt.Errorf("dependency %s is not a person-level numeric variable", name)})
		return make([]float64, c.sim.pop.NumPersons())
	}
	return f
}

// SumMembers reads a person-level variable and sums it per household.
func (c *Context) SumMembers(name string, period Period) []float64 {
	members := c.MembersFloat(name, period)
	if c.sim.err != nil {
		return make([]float64, c.sim.pop.NumHouseholds())
	}
	return c.sim.pop.SumByHousehold(members)
}

// DividedFloat reads a year-defined variable at a month period as the
// yearly amount divided evenly by 12. This is the explicit period
// conversion used when, say, an annual housing tax appears inside a
// monthly disposable-income formula.
func (c *Context) DividedFloat(name string, period Period) []float64 {
	dep, ok := c.sim.registry.Lookup(name)
	if !ok {
		c.sim.fail(fmt.Errorf("%w: %s", ErrUnknownVariable, name))
		return c.zeros()
	}
	if dep.DefinitionPeriod != GranularityYear || !period.IsMonth() {
		c.sim.fail(&EvaluationError{Variable: c.def.Name, Period: c.period,
			Err: fmt.Errorf("%w: DividedFloat(%s) needs a year-defined variable read at a month", ErrPeriodMismatch, name)})
		return c.zeros()
	}
	yearly := c.Float(name, period.ThisYear())
	if c.sim.err != nil {
		return c.zeros()
	}
	return DivScalar(yearly, 12)
}

// Params returns the parameter tree in effect for a period.
func (c *Context) Params(period Period) *ParamsView {
	node, err := c.sim.params.ParametersAt(period)
	if err != nil {
		c.sim.fail(&EvaluationError{Variable: c.def.Name, Period: c.period, Err: err})
		return &ParamsView{sim: c.sim, def: c.def, period: c.period}
	}
	return &ParamsView{sim: c.sim, def: c.def, period: c.period, node: node}
}

// Size returns the entity count of this formula's own entity.
func (c *Context) Size() int { return c.size() }

func (c *Context) size() int { return c.sim.pop.Size(c.def.Entity) }

func (c *Context) zeros() []float64 { return make([]float64, c.size()) }

func (c *Context) read(name string, period Period) (Vector, *Definition) {
	v := c.sim.calculate(name, period)
	if c.sim.err != nil {
		return Vector{}, nil
	}
	dep, _ := c.sim.registry.Lookup(name)
	return v, dep
}

// =============================================================================
// PARAMS VIEW - Sticky-error parameter access for formulas
// =============================================================================

// ParamsView resolves dotted parameter paths for a formula. Lookup failures
// are recorded on the simulation; the view then returns zero values so the
// formula can finish its arithmetic before the run aborts.
type ParamsView struct {
	sim    *Simulation
	def    *Definition
	period Period
	node   *ParameterNode
}

// Float resolves a scalar parameter.
func (pv *ParamsView) Float(path string) float64 {
	if pv.node == nil {
		return 0
	}
	v, err := pv.node.Float(path)
	if err != nil {
		pv.sim.fail(&EvaluationError{Variable: pv.def.Name, Period: pv.period, Err: err})
		return 0
	}
	return v
}

// Scale resolves a bracket-scale parameter. On failure an empty, all-zero
// scale is returned so downstream arithmetic stays total.
func (pv *ParamsView) Scale(path string) *BracketScale {
	if pv.node == nil {
		return &BracketScale{}
	}
	s, err := pv.node.Scale(path)
	if err != nil {
		pv.sim.fail(&EvaluationError{Variable: pv.def.Name, Period: pv.period, Err: err})
		return &BracketScale{}
	}
	return s
}
