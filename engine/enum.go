/*
enum.go - Closed categorical value types

PURPOSE:
  Some variables are categorical rather than numeric: a household is an
  owner, a tenant, a free lodger, or homeless. EnumType is the closed set of
  named symbols for such a variable; per-entity values are small integer
  codes into the set, and comparisons against a symbol are elementwise.

DEFAULTS:
  The first declared symbol is the type default, used when the caller
  supplies no value for an enum input variable.
*/
package engine

import "fmt"

// =============================================================================
// ENUM TYPE
// =============================================================================

// EnumType is a closed, ordered set of named symbols.
type EnumType struct {
	name  string
	items []string
	index map[string]int
}

// NewEnumType builds an enum type from its symbols. The first symbol is the
// default. Duplicate or empty symbols are definition bugs and panic.
func NewEnumType(name string, symbols ...string) *EnumType {
	if len(symbols) == 0 {
		panic(fmt.Sprintf("enum %s: no symbols", name))
	}
	t := &EnumType{name: name, items: symbols, index: make(map[string]int, len(symbols))}
	for i, s := range symbols {
		if s == "" {
			panic(fmt.Sprintf("enum %s: empty symbol at index %d", name, i))
		}
		if _, dup := t.index[s]; dup {
			panic(fmt.Sprintf("enum %s: duplicate symbol %q", name, s))
		}
		t.index[s] = i
	}
	return t
}

// Name returns the enum type's name.
func (t *EnumType) Name() string { return t.name }

// Items returns the symbols in declaration order.
func (t *EnumType) Items() []string {
	out := make([]string, len(t.items))
	copy(out, t.items)
	return out
}

// Default returns the code of the default symbol (the first declared one).
func (t *EnumType) Default() int { return 0 }

// Index resolves a symbol to its code.
// Fails with ErrUnknownSymbol for symbols outside the set.
func (t *EnumType) Index(symbol string) (int, error) {
	i, ok := t.index[symbol]
	if !ok {
		return 0, fmt.Errorf("%w: %q not in enum %s %v", ErrUnknownSymbol, symbol, t.name, t.items)
	}
	return i, nil
}

// Symbol returns the name for a code. Codes always come from Index, so an
// out-of-range code is a corruption bug and panics.
func (t *EnumType) Symbol(code int) string {
	if code < 0 || code >= len(t.items) {
		panic(fmt.Sprintf("enum %s: code %d out of range", t.name, code))
	}
	return t.items[code]
}

// Eq compares a code vector against a named symbol, elementwise.
// Fails with ErrUnknownSymbol if the symbol is not in the set.
func (t *EnumType) Eq(codes []int, symbol string) ([]bool, error) {
	want, err := t.Index(symbol)
	if err != nil {
		return nil, err
	}
	out := make([]bool, len(codes))
	for i, c := range codes {
		out[i] = c == want
	}
	return out, nil
}
