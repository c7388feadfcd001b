/*
Package factory provides YAML to Go parameter-set conversion.

PURPOSE:
  Converts YAML parameter-set documents into date-versioned parameter trees
  and loads them into a store. This enables rate changes without code
  changes - a new tax year is a new entry in the document, and the engine
  picks the right set per requested period.

YAML SCHEMA:
  sets:
    - effective_from: "2024-01"
      scalars:
        taxes.housing_tax.rate: 10
        general.age_of_retirement: 67
      scales:
        taxes.income_tax_brackets:
          - {threshold: 0, rate: 0.3697}
          - {threshold: 75518, rate: 0.495}

KEY FEATURES:
  - Validates bracket scales at parse time (strictly increasing, zero
    first threshold)
  - Dotted scalar paths map directly onto the engine's parameter tree
  - The same parsed sets can seed the in-memory store or the SQLite store

USAGE:
  store, err := factory.LoadFile("parameters.yaml")
  sim := engine.NewSimulation(registry, store, population, inputs)

SEE ALSO:
  - engine/parameters.go: The tree being built
  - store/sqlite: Persistent storage of the same sets
*/
package factory

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/warp/fiscal-engine/engine"
	"github.com/warp/fiscal-engine/engine/store"
)

// =============================================================================
// YAML SCHEMA TYPES
// =============================================================================

// Document is the top-level YAML parameter-set document.
type Document struct {
	Sets []SetYAML `yaml:"sets"`
}

// SetYAML is one date-versioned parameter set.
type SetYAML struct {
	EffectiveFrom string                   `yaml:"effective_from"`
	Scalars       map[string]float64       `yaml:"scalars"`
	Scales        map[string][]BracketYAML `yaml:"scales"`
}

// BracketYAML is one bracket of a scale.
type BracketYAML struct {
	Threshold float64 `yaml:"threshold"`
	Rate      float64 `yaml:"rate"`
}

// VersionedTree pairs a parameter tree with the period it takes effect.
type VersionedTree struct {
	From engine.Period
	Tree *engine.ParameterNode
}

// =============================================================================
// PARSING
// =============================================================================

// Parse converts a YAML document into versioned parameter trees, validating
// every scale and path.
func Parse(data []byte) ([]VersionedTree, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing parameter document: %w", err)
	}
	if len(doc.Sets) == 0 {
		return nil, fmt.Errorf("parameter document has no sets")
	}

	out := make([]VersionedTree, 0, len(doc.Sets))
	for i, set := range doc.Sets {
		from, err := engine.ParsePeriod(set.EffectiveFrom)
		if err != nil {
			return nil, fmt.Errorf("set %d: effective_from: %w", i, err)
		}
		tree, err := buildTree(set)
		if err != nil {
			return nil, fmt.Errorf("set %d (%s): %w", i, set.EffectiveFrom, err)
		}
		out = append(out, VersionedTree{From: from, Tree: tree})
	}
	return out, nil
}

func buildTree(set SetYAML) (*engine.ParameterNode, error) {
	tree := engine.NewParameterTree()
	for path, v := range set.Scalars {
		if err := tree.SetFloat(path, v); err != nil {
			return nil, err
		}
	}
	for path, brackets := range set.Scales {
		bs := make([]engine.Bracket, len(brackets))
		for i, b := range brackets {
			bs[i] = engine.Bracket{Threshold: b.Threshold, Rate: b.Rate}
		}
		scale, err := engine.NewBracketScale(bs...)
		if err != nil {
			return nil, fmt.Errorf("scale %s: %w", path, err)
		}
		if err := tree.SetScale(path, scale); err != nil {
			return nil, err
		}
	}
	return tree, nil
}

// =============================================================================
// LOADING INTO A STORE
// =============================================================================

// NewMemoryStore parses a document and loads it into an in-memory store.
func NewMemoryStore(data []byte) (*store.Memory, error) {
	trees, err := Parse(data)
	if err != nil {
		return nil, err
	}
	m := store.NewMemory()
	for _, t := range trees {
		m.Add(t.From, t.Tree)
	}
	return m, nil
}

// LoadFile reads a parameter document from disk into an in-memory store.
func LoadFile(path string) (*store.Memory, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	s, err := NewMemoryStore(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}
