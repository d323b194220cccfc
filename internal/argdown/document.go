// Package argdown parses Argdown source into an artifact graph of
// propositions, arguments, and dialectical relations, and derives the
// relations a premise-conclusion reconstruction implies.
package argdown

import "strings"

// Valence classifies a dialectical relation.
type Valence int

const (
	// Support marks an edge whose source strengthens its target.
	Support Valence = iota
	// Attack marks an edge whose source speaks against its target.
	Attack
	// Contradict marks mutually exclusive propositions.
	Contradict
)

// String returns the canonical upper-case name of the valence.
func (v Valence) String() string {
	switch v {
	case Support:
		return "SUPPORT"
	case Attack:
		return "ATTACK"
	case Contradict:
		return "CONTRADICT"
	default:
		return "UNKNOWN"
	}
}

// Dialectics records how a relation is backed: sketched in map syntax,
// grounded in a reconstruction, or axiomatic. A relation may carry several
// flags.
type Dialectics uint8

const (
	// Sketched relations come from map-style relation lines.
	Sketched Dialectics = 1 << iota
	// Grounded relations are implied by premise-conclusion structures.
	Grounded
	// Axiomatic relations are declared contradictions.
	Axiomatic
)

// Has reports whether flag is set.
func (d Dialectics) Has(flag Dialectics) bool { return d&flag != 0 }

// NodeKind distinguishes the two node types a relation can connect.
type NodeKind int

const (
	// ClaimNode references a proposition by label.
	ClaimNode NodeKind = iota
	// ArgumentNode references an argument by label.
	ArgumentNode
)

// NodeRef identifies one endpoint of a relation.
type NodeRef struct {
	Label string
	Kind  NodeKind
}

// String renders the reference in Argdown surface syntax.
func (n NodeRef) String() string {
	if n.Kind == ArgumentNode {
		return "<" + n.Label + ">"
	}
	return "[" + n.Label + "]"
}

// Relation is a directed dialectical edge between two nodes.
type Relation struct {
	Source     NodeRef
	Target     NodeRef
	Valence    Valence
	Dialectics Dialectics
}

// PCSItem is one step of a premise-conclusion structure.
type PCSItem struct {
	// Label is the step number as written, e.g. "1".
	Label string
	// PropositionLabel names the proposition the step asserts.
	PropositionLabel string
	// IsConclusion marks steps introduced by an inference separator.
	IsConclusion bool
	// InferenceData holds the separator's inline data for conclusions,
	// nil for premises.
	InferenceData map[string]any
}

// Argument is a named argument, optionally reconstructed as a PCS.
type Argument struct {
	Label     string
	AutoLabel bool
	Gists     []string
	PCS       []PCSItem
	Data      map[string]any
}

// Proposition is a labeled statement with one or more text variants.
type Proposition struct {
	Label     string
	AutoLabel bool
	Texts     []string
	Data      map[string]any
}

// Document is the parsed artifact graph.
type Document struct {
	Arguments    []*Argument
	Propositions []*Proposition
	Relations    []*Relation
}

// ArgumentByLabel returns the argument with the given label, nil if absent.
func (d *Document) ArgumentByLabel(label string) *Argument {
	for _, a := range d.Arguments {
		if a.Label == label {
			return a
		}
	}
	return nil
}

// PropositionByLabel returns the proposition with the given label, nil if
// absent.
func (d *Document) PropositionByLabel(label string) *Proposition {
	for _, p := range d.Propositions {
		if p.Label == label {
			return p
		}
	}
	return nil
}

// FinalConclusion returns the last PCS step of the argument.
func (a *Argument) FinalConclusion() (PCSItem, bool) {
	if len(a.PCS) == 0 {
		return PCSItem{}, false
	}
	return a.PCS[len(a.PCS)-1], true
}

// PCSItemByLabel returns the step with the given label.
func (a *Argument) PCSItemByLabel(label string) (PCSItem, bool) {
	for _, item := range a.PCS {
		if item.Label == label {
			return item, true
		}
	}
	return PCSItem{}, false
}

// Premises returns the non-conclusion steps of the PCS.
func (a *Argument) Premises() []PCSItem {
	var out []PCSItem
	for _, item := range a.PCS {
		if !item.IsConclusion {
			out = append(out, item)
		}
	}
	return out
}

// FirstText returns the proposition's first text, empty when none exists.
func (p *Proposition) FirstText() string {
	if len(p.Texts) == 0 {
		return ""
	}
	return p.Texts[0]
}

// negationPrefix is the surface convention marking a proposition text as the
// negation of another.
const negationPrefix = "NOT: "

// Equivalent reports whether two propositions assert the same statement:
// identical objects, identical labels, or an exact shared text.
func Equivalent(a, b *Proposition) bool {
	if a == nil || b == nil {
		return false
	}
	if a == b || a.Label == b.Label {
		return true
	}
	return shareText(a, b)
}

func shareText(a, b *Proposition) bool {
	for _, ta := range a.Texts {
		ta = strings.TrimSpace(ta)
		if ta == "" {
			continue
		}
		for _, tb := range b.Texts {
			if ta == strings.TrimSpace(tb) {
				return true
			}
		}
	}
	return false
}

// Contradictory reports whether two propositions negate each other, either
// by the "NOT: " text convention or by an axiomatic CONTRADICT relation
// recorded in the document.
func (d *Document) Contradictory(a, b *Proposition) bool {
	if a == nil || b == nil {
		return false
	}
	if negatesByText(a, b) || negatesByText(b, a) {
		return true
	}
	for _, rel := range d.Relations {
		if rel.Valence != Contradict {
			continue
		}
		if rel.Source.Kind != ClaimNode || rel.Target.Kind != ClaimNode {
			continue
		}
		src, tgt := rel.Source.Label, rel.Target.Label
		if (src == a.Label && tgt == b.Label) || (src == b.Label && tgt == a.Label) {
			return true
		}
	}
	return false
}

func negatesByText(neg, pos *Proposition) bool {
	for _, tn := range neg.Texts {
		tn = strings.TrimSpace(tn)
		if !strings.HasPrefix(tn, negationPrefix) {
			continue
		}
		stripped := strings.TrimSpace(strings.TrimPrefix(tn, negationPrefix))
		for _, tp := range pos.Texts {
			if stripped == strings.TrimSpace(tp) {
				return true
			}
		}
	}
	return false
}
