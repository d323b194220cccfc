package fol

import (
	"fmt"
	"sort"
)

// Declarations maps formula symbols to their natural-language meanings,
// preserving a deterministic symbol order.
type Declarations struct {
	symbols  []string
	meanings map[string]string
}

// NewDeclarations returns an empty declaration map.
func NewDeclarations() *Declarations {
	return &Declarations{meanings: make(map[string]string)}
}

// DeclarationsFromData reads a declarations value out of parsed inline data.
// Map keys are sorted so the result is deterministic regardless of the
// decoder's map ordering. The second return is false when the value is not a
// map.
func DeclarationsFromData(v any) (*Declarations, bool) {
	raw, ok := v.(map[string]any)
	if !ok {
		return nil, false
	}
	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	d := NewDeclarations()
	for _, k := range keys {
		d.Add(k, fmt.Sprint(raw[k]))
	}
	return d, true
}

// Add records a symbol meaning, overwriting a previous one in place.
func (d *Declarations) Add(symbol, meaning string) {
	if _, exists := d.meanings[symbol]; !exists {
		d.symbols = append(d.symbols, symbol)
	}
	d.meanings[symbol] = meaning
}

// Get returns the meaning for a symbol.
func (d *Declarations) Get(symbol string) (string, bool) {
	m, ok := d.meanings[symbol]
	return m, ok
}

// Has reports whether the symbol is declared.
func (d *Declarations) Has(symbol string) bool {
	_, ok := d.meanings[symbol]
	return ok
}

// Symbols returns the declared symbols in insertion order.
func (d *Declarations) Symbols() []string {
	return append([]string(nil), d.symbols...)
}

// Len returns the number of declared symbols.
func (d *Declarations) Len() int {
	if d == nil {
		return 0
	}
	return len(d.symbols)
}

// AsMap renders the declarations as a plain map for result details.
func (d *Declarations) AsMap() map[string]string {
	out := make(map[string]string, len(d.meanings))
	for k, v := range d.meanings {
		out[k] = v
	}
	return out
}
