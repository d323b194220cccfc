package fol

import (
	"fmt"
	"strconv"
)

// Prover decides whether a conclusion follows deductively from premises.
type Prover interface {
	Valid(premises []*Formula, conclusion *Formula) (bool, error)
}

// DefaultMaxDepth bounds tableau expansion when the prover carries no
// explicit budget.
const DefaultMaxDepth = 4000

// TableauProver is a bounded analytic tableau over the formula dialect. It
// is complete for propositional inputs; for quantified inputs universal
// instantiation is bounded by the branch terms and the expansion budget, so
// exhausting the budget reports "not valid".
type TableauProver struct {
	// MaxDepth is the total expansion budget. Zero means DefaultMaxDepth.
	MaxDepth int
}

// Valid reports whether premises entail the conclusion by refuting
// premises plus the negated conclusion.
func (tp TableauProver) Valid(premises []*Formula, conclusion *Formula) (bool, error) {
	if conclusion == nil {
		return false, fmt.Errorf("prover: nil conclusion")
	}
	budget := tp.MaxDepth
	if budget <= 0 {
		budget = DefaultMaxDepth
	}

	st := &tableauState{budget: budget}
	root := newBranch()
	for _, p := range premises {
		if p == nil {
			return false, fmt.Errorf("prover: nil premise")
		}
		root.push(p)
	}
	root.push(&Formula{Op: OpNot, Sub: conclusion})

	return st.close(root), nil
}

type tableauState struct {
	budget int
	fresh  int
}

func (st *tableauState) freshConst() Term {
	st.fresh++
	return Term{Name: "@" + strconv.Itoa(st.fresh)}
}

type gammaEntry struct {
	varName string
	body    *Formula
	used    map[string]bool
}

type branch struct {
	todo    []*Formula
	lits    map[string]bool
	gammas  []*gammaEntry
	terms   []Term
	termSet map[string]bool
}

func newBranch() *branch {
	return &branch{
		lits:    make(map[string]bool),
		termSet: make(map[string]bool),
	}
}

func (b *branch) push(f *Formula) {
	b.todo = append(b.todo, f)
	collectGroundTerms(f, map[string]bool{}, b)
}

func (b *branch) addTerm(t Term) {
	key := t.String()
	if b.termSet[key] {
		return
	}
	b.termSet[key] = true
	b.terms = append(b.terms, t)
}

func (b *branch) clone() *branch {
	nb := &branch{
		todo:    append([]*Formula(nil), b.todo...),
		lits:    make(map[string]bool, len(b.lits)),
		terms:   append([]Term(nil), b.terms...),
		termSet: make(map[string]bool, len(b.termSet)),
	}
	for k := range b.lits {
		nb.lits[k] = true
	}
	for k := range b.termSet {
		nb.termSet[k] = true
	}
	nb.gammas = make([]*gammaEntry, len(b.gammas))
	for i, g := range b.gammas {
		used := make(map[string]bool, len(g.used))
		for k := range g.used {
			used[k] = true
		}
		nb.gammas[i] = &gammaEntry{varName: g.varName, body: g.body, used: used}
	}
	return nb
}

// close expands the branch and reports whether every extension closes.
func (st *tableauState) close(b *branch) bool {
	for {
		if st.budget <= 0 {
			return false
		}

		if len(b.todo) == 0 {
			g, t, ok := b.nextGamma(st)
			if !ok {
				return false
			}
			st.budget--
			g.used[t.String()] = true
			b.push(subst(g.body, g.varName, t))
			continue
		}

		f := b.todo[0]
		b.todo = b.todo[1:]
		st.budget--

		switch f.Op {
		case OpAtom:
			if b.closesWith(f.String(), "-"+f.String()) {
				return true
			}
		case OpNot:
			sub := f.Sub
			switch sub.Op {
			case OpAtom:
				if b.closesWith("-"+sub.String(), sub.String()) {
					return true
				}
			case OpNot:
				b.push(sub.Sub)
			case OpAnd:
				return st.split(b,
					[]*Formula{negate(sub.Left)},
					[]*Formula{negate(sub.Right)})
			case OpOr:
				b.push(negate(sub.Left))
				b.push(negate(sub.Right))
			case OpImp:
				b.push(sub.Left)
				b.push(negate(sub.Right))
			case OpIff:
				return st.split(b,
					[]*Formula{sub.Left, negate(sub.Right)},
					[]*Formula{negate(sub.Left), sub.Right})
			case OpAll:
				c := st.freshConst()
				b.addTerm(c)
				b.push(negate(subst(sub.Sub, sub.Var, c)))
			case OpExists:
				b.gammas = append(b.gammas, &gammaEntry{
					varName: sub.Var,
					body:    negate(sub.Sub),
					used:    make(map[string]bool),
				})
			}
		case OpAnd:
			b.push(f.Left)
			b.push(f.Right)
		case OpOr:
			return st.split(b, []*Formula{f.Left}, []*Formula{f.Right})
		case OpImp:
			return st.split(b, []*Formula{negate(f.Left)}, []*Formula{f.Right})
		case OpIff:
			return st.split(b,
				[]*Formula{f.Left, f.Right},
				[]*Formula{negate(f.Left), negate(f.Right)})
		case OpAll:
			b.gammas = append(b.gammas, &gammaEntry{
				varName: f.Var,
				body:    f.Sub,
				used:    make(map[string]bool),
			})
		case OpExists:
			c := st.freshConst()
			b.addTerm(c)
			b.push(subst(f.Sub, f.Var, c))
		}
	}
}

func (st *tableauState) split(b *branch, left, right []*Formula) bool {
	lb := b.clone()
	for _, f := range left {
		lb.push(f)
	}
	if !st.close(lb) {
		return false
	}
	rb := b.clone()
	for _, f := range right {
		rb.push(f)
	}
	return st.close(rb)
}

// closesWith records a literal and reports closure against its complement.
func (b *branch) closesWith(key, complement string) bool {
	if b.lits[complement] {
		return true
	}
	b.lits[key] = true
	return false
}

// nextGamma picks the first universal formula with an uninstantiated branch
// term, inventing one fresh constant when the branch has no terms yet.
func (b *branch) nextGamma(st *tableauState) (*gammaEntry, Term, bool) {
	if len(b.gammas) == 0 {
		return nil, Term{}, false
	}
	if len(b.terms) == 0 {
		c := st.freshConst()
		b.addTerm(c)
	}
	for _, g := range b.gammas {
		for _, t := range b.terms {
			if !g.used[t.String()] {
				return g, t, true
			}
		}
	}
	return nil, Term{}, false
}

func negate(f *Formula) *Formula {
	return &Formula{Op: OpNot, Sub: f}
}

// subst replaces free occurrences of a variable with a term.
func subst(f *Formula, varName string, t Term) *Formula {
	if f == nil {
		return nil
	}
	switch f.Op {
	case OpAtom:
		args := make([]Term, len(f.Args))
		for i, a := range f.Args {
			args[i] = substTerm(a, varName, t)
		}
		return &Formula{Op: OpAtom, Pred: f.Pred, Args: args}
	case OpNot:
		return &Formula{Op: OpNot, Sub: subst(f.Sub, varName, t)}
	case OpAnd, OpOr, OpImp, OpIff:
		return &Formula{
			Op:    f.Op,
			Left:  subst(f.Left, varName, t),
			Right: subst(f.Right, varName, t),
		}
	case OpAll, OpExists:
		if f.Var == varName {
			return f
		}
		return &Formula{Op: f.Op, Var: f.Var, Sub: subst(f.Sub, varName, t)}
	default:
		return f
	}
}

func substTerm(a Term, varName string, t Term) Term {
	if len(a.Args) == 0 {
		if a.Name == varName {
			return t
		}
		return a
	}
	args := make([]Term, len(a.Args))
	for i, sub := range a.Args {
		args[i] = substTerm(sub, varName, t)
	}
	return Term{Name: a.Name, Args: args}
}

// collectGroundTerms harvests the closed terms of a formula into the branch
// term inventory, skipping quantified variables.
func collectGroundTerms(f *Formula, bound map[string]bool, b *branch) {
	if f == nil {
		return
	}
	switch f.Op {
	case OpAtom:
		for _, t := range f.Args {
			addGroundTerm(t, bound, b)
		}
	case OpNot:
		collectGroundTerms(f.Sub, bound, b)
	case OpAnd, OpOr, OpImp, OpIff:
		collectGroundTerms(f.Left, bound, b)
		collectGroundTerms(f.Right, bound, b)
	case OpAll, OpExists:
		inner := make(map[string]bool, len(bound)+1)
		for k := range bound {
			inner[k] = true
		}
		inner[f.Var] = true
		collectGroundTerms(f.Sub, inner, b)
	}
}

func addGroundTerm(t Term, bound map[string]bool, b *branch) {
	if len(t.Args) == 0 {
		if !bound[t.Name] {
			b.addTerm(t)
		}
		return
	}
	for _, a := range t.Args {
		if containsBound(a, bound) {
			return
		}
	}
	b.addTerm(t)
}

func containsBound(t Term, bound map[string]bool) bool {
	if len(t.Args) == 0 {
		return bound[t.Name]
	}
	for _, a := range t.Args {
		if containsBound(a, bound) {
			return true
		}
	}
	return false
}
