// Package fol implements the first-order formula dialect used in logical
// reconstructions: parsing, symbol inventories, declaration maps, and a
// bounded analytic tableau prover.
package fol

import (
	"sort"
	"strings"
)

// Op identifies the connective at a formula node.
type Op int

const (
	// OpAtom is a propositional symbol or predicate application.
	OpAtom Op = iota
	// OpNot negates its Sub formula.
	OpNot
	// OpAnd conjoins Left and Right.
	OpAnd
	// OpOr disjoins Left and Right.
	OpOr
	// OpImp is the material conditional from Left to Right.
	OpImp
	// OpIff is the biconditional between Left and Right.
	OpIff
	// OpAll universally quantifies Var over Sub.
	OpAll
	// OpExists existentially quantifies Var over Sub.
	OpExists
)

// Term is an individual term: a constant, variable, or function application.
type Term struct {
	Name string
	Args []Term
}

// String renders the term in surface syntax.
func (t Term) String() string {
	if len(t.Args) == 0 {
		return t.Name
	}
	parts := make([]string, len(t.Args))
	for i, a := range t.Args {
		parts[i] = a.String()
	}
	return t.Name + "(" + strings.Join(parts, ",") + ")"
}

// Formula is one node of a formula tree. Which fields are set depends on Op:
// atoms carry Pred and Args, negations and quantifiers carry Sub (and Var),
// binary connectives carry Left and Right.
type Formula struct {
	Op    Op
	Pred  string
	Args  []Term
	Var   string
	Sub   *Formula
	Left  *Formula
	Right *Formula
}

// String renders the formula in canonical surface syntax: binary connectives
// are parenthesized, negation and quantifiers bind their subformula directly.
func (f *Formula) String() string {
	if f == nil {
		return ""
	}
	switch f.Op {
	case OpAtom:
		if len(f.Args) == 0 {
			return f.Pred
		}
		parts := make([]string, len(f.Args))
		for i, a := range f.Args {
			parts[i] = a.String()
		}
		return f.Pred + "(" + strings.Join(parts, ",") + ")"
	case OpNot:
		return "-" + f.Sub.String()
	case OpAnd:
		return "(" + f.Left.String() + " & " + f.Right.String() + ")"
	case OpOr:
		return "(" + f.Left.String() + " | " + f.Right.String() + ")"
	case OpImp:
		return "(" + f.Left.String() + " -> " + f.Right.String() + ")"
	case OpIff:
		return "(" + f.Left.String() + " <-> " + f.Right.String() + ")"
	case OpAll:
		return "all " + f.Var + "." + f.Sub.String()
	case OpExists:
		return "exists " + f.Var + "." + f.Sub.String()
	default:
		return ""
	}
}

// Symbols returns the sorted free predicate, constant, and function symbols
// of the formula. Bound variables are excluded.
func (f *Formula) Symbols() []string {
	seen := make(map[string]struct{})
	f.collectSymbols(map[string]bool{}, seen)
	out := make([]string, 0, len(seen))
	for s := range seen {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

func (f *Formula) collectSymbols(bound map[string]bool, out map[string]struct{}) {
	if f == nil {
		return
	}
	switch f.Op {
	case OpAtom:
		out[f.Pred] = struct{}{}
		for _, t := range f.Args {
			collectTermSymbols(t, bound, out)
		}
	case OpNot:
		f.Sub.collectSymbols(bound, out)
	case OpAnd, OpOr, OpImp, OpIff:
		f.Left.collectSymbols(bound, out)
		f.Right.collectSymbols(bound, out)
	case OpAll, OpExists:
		inner := bound
		if !bound[f.Var] {
			inner = make(map[string]bool, len(bound)+1)
			for k := range bound {
				inner[k] = true
			}
			inner[f.Var] = true
		}
		f.Sub.collectSymbols(inner, out)
	}
}

func collectTermSymbols(t Term, bound map[string]bool, out map[string]struct{}) {
	if len(t.Args) == 0 {
		if !bound[t.Name] {
			out[t.Name] = struct{}{}
		}
		return
	}
	out[t.Name] = struct{}{}
	for _, a := range t.Args {
		collectTermSymbols(a, bound, out)
	}
}

// Equal reports structural equality via the canonical rendering.
func Equal(a, b *Formula) bool {
	return a.String() == b.String()
}

// UsesQuantifiersOrPredicates reports whether the formula goes beyond
// propositional logic: it quantifies or applies a predicate to terms.
func (f *Formula) UsesQuantifiersOrPredicates() bool {
	if f == nil {
		return false
	}
	switch f.Op {
	case OpAtom:
		return len(f.Args) > 0
	case OpNot:
		return f.Sub.UsesQuantifiersOrPredicates()
	case OpAnd, OpOr, OpImp, OpIff:
		return f.Left.UsesQuantifiersOrPredicates() || f.Right.UsesQuantifiersOrPredicates()
	case OpAll, OpExists:
		return true
	default:
		return false
	}
}
