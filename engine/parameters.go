/*
parameters.go - The legislation parameter tree

PURPOSE:
  Rates, thresholds, and bracket scales live outside the formulas, in a tree
  addressed by dotted paths ("taxes.tax_credits.arbeidskorting_max"). The
  tree for a given period comes from a ParameterResolver: parameter values
  are date-versioned and may change between tax years, so the engine always
  asks for the tree in effect at the period it is computing.

  Leaves are either scalars or bracket scales. The engine never mutates a
  resolved tree.

IMPLEMENTATIONS:
  - engine/store: in-memory resolver (tests, default system)
  - store/sqlite: SQLite-backed resolver

SEE ALSO:
  - factory: builds versioned trees from YAML parameter sets
*/
package engine

import (
	"fmt"
	"sort"
	"strings"
)

// =============================================================================
// RESOLVER - The collaborator interface
// =============================================================================

// ParameterResolver returns the parameter tree in effect for a period.
// Implementations must treat returned trees as immutable.
type ParameterResolver interface {
	ParametersAt(period Period) (*ParameterNode, error)
}

// =============================================================================
// PARAMETER NODE
// =============================================================================

// ParameterNode is one node of a parameter tree. Interior nodes have
// children; leaf nodes carry either a scalar value or a bracket scale.
type ParameterNode struct {
	children map[string]*ParameterNode
	value    *float64
	scale    *BracketScale
}

// NewParameterTree returns an empty tree root.
func NewParameterTree() *ParameterNode {
	return &ParameterNode{}
}

// SetFloat sets a scalar leaf at a dotted path, creating interior nodes as
// needed. Setting over an existing subtree or scale leaf is a definition
// bug and fails.
func (n *ParameterNode) SetFloat(path string, v float64) error {
	leaf, err := n.makeLeaf(path)
	if err != nil {
		return err
	}
	leaf.value = &v
	return nil
}

// SetScale sets a bracket-scale leaf at a dotted path.
func (n *ParameterNode) SetScale(path string, s *BracketScale) error {
	leaf, err := n.makeLeaf(path)
	if err != nil {
		return err
	}
	leaf.scale = s
	return nil
}

func (n *ParameterNode) makeLeaf(path string) (*ParameterNode, error) {
	cur := n
	for _, part := range strings.Split(path, ".") {
		if part == "" {
			return nil, fmt.Errorf("parameter path %q has an empty segment", path)
		}
		if cur.value != nil || cur.scale != nil {
			return nil, fmt.Errorf("parameter path %q descends through a leaf", path)
		}
		if cur.children == nil {
			cur.children = make(map[string]*ParameterNode)
		}
		child, ok := cur.children[part]
		if !ok {
			child = &ParameterNode{}
			cur.children[part] = child
		}
		cur = child
	}
	if cur.children != nil {
		return nil, fmt.Errorf("parameter path %q already names a subtree", path)
	}
	return cur, nil
}

// Node resolves a dotted path to a node.
// Fails with ErrUnknownParameter if any segment is missing.
func (n *ParameterNode) Node(path string) (*ParameterNode, error) {
	cur := n
	for _, part := range strings.Split(path, ".") {
		child, ok := cur.children[part]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownParameter, path)
		}
		cur = child
	}
	return cur, nil
}

// Float resolves a dotted path to a scalar leaf.
func (n *ParameterNode) Float(path string) (float64, error) {
	node, err := n.Node(path)
	if err != nil {
		return 0, err
	}
	if node.value == nil {
		return 0, fmt.Errorf("%w: %s is not a scalar parameter", ErrUnknownParameter, path)
	}
	return *node.value, nil
}

// Scale resolves a dotted path to a bracket-scale leaf.
func (n *ParameterNode) Scale(path string) (*BracketScale, error) {
	node, err := n.Node(path)
	if err != nil {
		return nil, err
	}
	if node.scale == nil {
		return nil, fmt.Errorf("%w: %s is not a bracket scale", ErrUnknownParameter, path)
	}
	return node.scale, nil
}

// Leaf describes one leaf of the tree, for serialization and listing.
type Leaf struct {
	Path  string
	Value *float64
	Scale *BracketScale
}

// Leaves returns all leaves with their dotted paths, sorted by path.
func (n *ParameterNode) Leaves() []Leaf {
	var out []Leaf
	n.collect("", &out)
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out
}

func (n *ParameterNode) collect(prefix string, out *[]Leaf) {
	if n.value != nil || n.scale != nil {
		*out = append(*out, Leaf{Path: prefix, Value: n.value, Scale: n.scale})
		return
	}
	for name, child := range n.children {
		path := name
		if prefix != "" {
			path = prefix + "." + name
		}
		child.collect(path, out)
	}
}
