/*
population.go - Persons grouped into households

PURPOSE:
  One simulation runs over a fixed snapshot: N persons grouped into M
  households. Person-level vectors have length N, household-level vectors
  length M, both index-aligned with the declaration order. Membership is
  many-to-one and does not change within a run.

AGGREGATION DIRECTIONS:
  SumByHousehold:     person vector -> household vector (sum over members)
  BroadcastToPersons: household vector -> person vector (repeat per member)
*/
package engine

import "fmt"

// =============================================================================
// POPULATION
// =============================================================================

// HouseholdSpec declares one household and its members, in membership order.
type HouseholdSpec struct {
	ID      string
	Members []string
}

// Population is an immutable snapshot of persons, households, and the
// membership map between them.
type Population struct {
	personIDs    []string
	householdIDs []string
	personIndex  map[string]int
	memberOf     []int   // person index -> household index
	members      [][]int // household index -> person indexes, in order
}

// NewPopulation builds a population from the ordered person list and the
// household specs. Every person must belong to exactly one household;
// households may be empty.
func NewPopulation(persons []string, households []HouseholdSpec) (*Population, error) {
	p := &Population{
		personIDs:    append([]string(nil), persons...),
		householdIDs: make([]string, 0, len(households)),
		personIndex:  make(map[string]int, len(persons)),
		memberOf:     make([]int, len(persons)),
		members:      make([][]int, len(households)),
	}
	for i, id := range persons {
		if id == "" {
			return nil, fmt.Errorf("population: empty person id at index %d", i)
		}
		if _, dup := p.personIndex[id]; dup {
			return nil, fmt.Errorf("population: duplicate person %q", id)
		}
		p.personIndex[id] = i
		p.memberOf[i] = -1
	}
	seenHousehold := make(map[string]bool, len(households))
	for h, spec := range households {
		if spec.ID == "" {
			return nil, fmt.Errorf("population: empty household id at index %d", h)
		}
		if seenHousehold[spec.ID] {
			return nil, fmt.Errorf("population: duplicate household %q", spec.ID)
		}
		seenHousehold[spec.ID] = true
		p.householdIDs = append(p.householdIDs, spec.ID)
		for _, member := range spec.Members {
			pi, ok := p.personIndex[member]
			if !ok {
				return nil, fmt.Errorf("population: household %q member %q is not a declared person", spec.ID, member)
			}
			if p.memberOf[pi] != -1 {
				return nil, fmt.Errorf("population: person %q belongs to more than one household", member)
			}
			p.memberOf[pi] = h
			p.members[h] = append(p.members[h], pi)
		}
	}
	for i, h := range p.memberOf {
		if h == -1 {
			return nil, fmt.Errorf("population: person %q belongs to no household", p.personIDs[i])
		}
	}
	return p, nil
}

// NumPersons returns the number of persons.
func (p *Population) NumPersons() int { return len(p.personIDs) }

// NumHouseholds returns the number of households.
func (p *Population) NumHouseholds() int { return len(p.householdIDs) }

// Size returns the entity count for the given entity kind.
func (p *Population) Size(e Entity) int {
	if e == HouseholdEntity {
		return p.NumHouseholds()
	}
	return p.NumPersons()
}

// PersonIDs returns person identifiers in population order.
func (p *Population) PersonIDs() []string {
	return append([]string(nil), p.personIDs...)
}

// HouseholdIDs returns household identifiers in population order.
func (p *Population) HouseholdIDs() []string {
	return append([]string(nil), p.householdIDs...)
}

// PersonIndex resolves a person identifier to its vector index.
func (p *Population) PersonIndex(id string) (int, bool) {
	i, ok := p.personIndex[id]
	return i, ok
}

// HouseholdOf returns the household index a person belongs to.
func (p *Population) HouseholdOf(personIdx int) int {
	return p.memberOf[personIdx]
}

// MembersOf returns the person indexes of a household, in membership order.
func (p *Population) MembersOf(householdIdx int) []int {
	return append([]int(nil), p.members[householdIdx]...)
}

// =============================================================================
// AGGREGATION
// =============================================================================

// SumByHousehold sums a person-level vector into a household-level vector.
// A household with no members sums to 0.
func (p *Population) SumByHousehold(personValues []float64) []float64 {
	assertSameLen("SumByHousehold", len(personValues), p.NumPersons())
	out := make([]float64, p.NumHouseholds())
	for pi, h := range p.memberOf {
		out[h] += personValues[pi]
	}
	return out
}

// BroadcastToPersons repeats each household's value across its members,
// producing a person-level vector.
func (p *Population) BroadcastToPersons(householdValues []float64) []float64 {
	assertSameLen("BroadcastToPersons", len(householdValues), p.NumHouseholds())
	out := make([]float64, p.NumPersons())
	for pi, h := range p.memberOf {
		out[pi] = householdValues[h]
	}
	return out
}
