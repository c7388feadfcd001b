/*
memory.go - In-memory date-versioned parameter store

PURPOSE:
  The simplest ParameterResolver: a sorted list of (effective-from,
  parameter tree) entries held in memory. Used by tests and by systems
  built entirely from the built-in parameter sets. The SQLite store in
  store/sqlite implements the same contract with persistence.

VERSIONING:
  A request for a period resolves to the tree of the latest entry whose
  effective-from month is at or before the period's first month. Asking for
  a period before the earliest entry fails with ErrNoParameters.
*/
package store

import (
	"fmt"
	"sort"

	"github.com/warp/fiscal-engine/engine"
)

type entry struct {
	from engine.Period // month granularity
	tree *engine.ParameterNode
}

// Memory is an in-memory ParameterResolver. Populate it with Add during
// setup; it is read-only (and therefore shareable) afterwards.
type Memory struct {
	entries []entry
}

// NewMemory returns an empty store.
func NewMemory() *Memory {
	return &Memory{}
}

// Add registers a parameter tree effective from the given period's first
// month onwards, until a later entry supersedes it.
func (m *Memory) Add(effectiveFrom engine.Period, tree *engine.ParameterNode) {
	m.entries = append(m.entries, entry{from: effectiveFrom.FirstMonth(), tree: tree})
	sort.SliceStable(m.entries, func(i, j int) bool {
		return before(m.entries[i].from, m.entries[j].from)
	})
}

// ParametersAt returns the tree in effect at the period's first month.
func (m *Memory) ParametersAt(period engine.Period) (*engine.ParameterNode, error) {
	at := period.FirstMonth()
	var found *engine.ParameterNode
	for _, e := range m.entries {
		if before(at, e.from) {
			break
		}
		found = e.tree
	}
	if found == nil {
		return nil, fmt.Errorf("%w: %s", engine.ErrNoParameters, period)
	}
	return found, nil
}

func before(a, b engine.Period) bool {
	if a.Year != b.Year {
		return a.Year < b.Year
	}
	return a.Month < b.Month
}
