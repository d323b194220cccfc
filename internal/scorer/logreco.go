package scorer

import (
	"fmt"
	"strings"

	"github.com/debatelab/argdown-feedback-sub001/internal/argdown"
	"github.com/debatelab/argdown-feedback-sub001/internal/fol"
	"github.com/debatelab/argdown-feedback-sub001/internal/model"
	"github.com/debatelab/argdown-feedback-sub001/internal/verifier"
)

// formalization pairs a parsed formula with the proposition it formalizes
// and the declarations in scope for its argument.
type formalization struct {
	formula *fol.Formula
	prop    *argdown.Proposition
	decls   *fol.Declarations
	isFinal bool
	argIdx  int
}

// formalizations walks the reconstruction and collects every parseable
// formalization together with its argument's accumulated declarations.
// Unparseable or missing entries are skipped; the well-formedness checks
// report those.
func formalizations(doc *argdown.Document, cfg model.Config) []formalization {
	var out []formalization
	for ai, a := range doc.Arguments {
		decls := fol.NewDeclarations()
		for _, step := range a.PCS {
			prop := doc.PropositionByLabel(step.PropositionLabel)
			if prop == nil || prop.Data == nil {
				continue
			}
			if d, ok := fol.DeclarationsFromData(prop.Data[cfg.DeclarationsKey]); ok {
				for _, sym := range d.Symbols() {
					meaning, _ := d.Get(sym)
					decls.Add(sym, meaning)
				}
			}
		}
		final, hasFinal := a.FinalConclusion()
		for _, step := range a.PCS {
			prop := doc.PropositionByLabel(step.PropositionLabel)
			if prop == nil || prop.Data == nil {
				continue
			}
			src, ok := prop.Data[cfg.FormalizationKey].(string)
			if !ok {
				continue
			}
			f, err := fol.Parse(src)
			if err != nil {
				continue
			}
			out = append(out, formalization{
				formula: f,
				prop:    prop,
				decls:   decls,
				isFinal: hasFinal && step.Label == final.Label,
				argIdx:  ai,
			})
		}
	}
	return out
}

// verbalize renders a formula as prose by substituting declared meanings for
// symbols and spelling out the connectives.
func verbalize(f *fol.Formula, decls *fol.Declarations) string {
	if f == nil {
		return ""
	}
	meaning := func(sym string) string {
		if m, ok := decls.Get(sym); ok {
			return m
		}
		return sym
	}
	switch f.Op {
	case fol.OpAtom:
		parts := []string{meaning(f.Pred)}
		for _, t := range f.Args {
			parts = append(parts, meaning(t.Name))
		}
		return strings.Join(parts, " ")
	case fol.OpNot:
		return "not " + verbalize(f.Sub, decls)
	case fol.OpAnd:
		return verbalize(f.Left, decls) + " and " + verbalize(f.Right, decls)
	case fol.OpOr:
		return verbalize(f.Left, decls) + " or " + verbalize(f.Right, decls)
	case fol.OpImp:
		return "if " + verbalize(f.Left, decls) + " then " + verbalize(f.Right, decls)
	case fol.OpIff:
		return verbalize(f.Left, decls) + " if and only if " + verbalize(f.Right, decls)
	case fol.OpAll:
		return "for all " + f.Var + " " + verbalize(f.Sub, decls)
	case fol.OpExists:
		return "for some " + f.Var + " " + verbalize(f.Sub, decls)
	default:
		return ""
	}
}

// FormalizationFaithfulness scores how closely the formalizations, read back
// as prose through their declarations, match the propositions they formalize.
type FormalizationFaithfulness struct {
	Pred verifier.ItemPredicate
}

func (FormalizationFaithfulness) ID() string { return "formalization_faithfulness" }

func (FormalizationFaithfulness) Description() string {
	return "Similarity between formalizations verbalized via their declarations and the propositions they formalize."
}

func (s FormalizationFaithfulness) Score(req *model.Request) (*model.ScoringResult, error) {
	doc := argdownDoc(req, s.Pred)
	if doc == nil {
		return nil, nil
	}
	forms := formalizations(doc, req.Config)
	if len(forms) == 0 {
		return nil, nil
	}
	total := 0.0
	for _, fm := range forms {
		prose := normalizeText(verbalize(fm.formula, fm.decls))
		text := normalizeText(strings.Join(fm.prop.Texts, " "))
		total += similarity(prose, text)
	}
	score := total / float64(len(forms))
	return &model.ScoringResult{
		ID:          s.ID(),
		Description: s.Description(),
		Score:       score,
		Message:     fmt.Sprintf("Formalizations match their propositions with average similarity %.2f.", score),
		Details:     map[string]any{"formalizations": len(forms)},
	}, nil
}

// PredicateLogicUsage scores the share of formalizations that go beyond
// propositional logic.
type PredicateLogicUsage struct {
	Pred verifier.ItemPredicate
}

func (PredicateLogicUsage) ID() string { return "predicate_logic_usage" }

func (PredicateLogicUsage) Description() string {
	return "Share of formalizations that use quantifiers or predicates."
}

func (s PredicateLogicUsage) Score(req *model.Request) (*model.ScoringResult, error) {
	doc := argdownDoc(req, s.Pred)
	if doc == nil {
		return nil, nil
	}
	forms := formalizations(doc, req.Config)
	if len(forms) == 0 {
		return nil, nil
	}
	used := 0
	for _, fm := range forms {
		if fm.formula.UsesQuantifiersOrPredicates() {
			used++
		}
	}
	score := float64(used) / float64(len(forms))
	return &model.ScoringResult{
		ID:          s.ID(),
		Description: s.Description(),
		Score:       score,
		Message:     fmt.Sprintf("%d of %d formalization(s) use quantifiers or predicates.", used, len(forms)),
		Details:     map[string]any{"predicate_logic": used, "formalizations": len(forms)},
	}, nil
}

// NonTriviality scores the share of arguments whose final conclusion is not
// just a restatement of its premises. A conclusion is trivial when it is
// deductively equivalent to the conjunction of the argument's premises.
type NonTriviality struct {
	Pred   verifier.ItemPredicate
	Prover fol.Prover
}

func (NonTriviality) ID() string { return "non_triviality" }

func (NonTriviality) Description() string {
	return "Share of arguments whose final conclusion says more than its premises restated."
}

func (s NonTriviality) Score(req *model.Request) (*model.ScoringResult, error) {
	doc := argdownDoc(req, s.Pred)
	if doc == nil {
		return nil, nil
	}
	prover := s.Prover
	if prover == nil {
		prover = fol.TableauProver{}
	}
	forms := formalizations(doc, req.Config)

	checked, nontrivial := 0, 0
	for ai := range doc.Arguments {
		var premises []*fol.Formula
		var conclusion *fol.Formula
		for _, fm := range forms {
			if fm.argIdx != ai {
				continue
			}
			if fm.isFinal {
				conclusion = fm.formula
			} else {
				premises = append(premises, fm.formula)
			}
		}
		if conclusion == nil || len(premises) == 0 {
			continue
		}
		checked++
		if !trivial(prover, premises, conclusion) {
			nontrivial++
		}
	}
	if checked == 0 {
		return nil, nil
	}
	score := float64(nontrivial) / float64(checked)
	return &model.ScoringResult{
		ID:          s.ID(),
		Description: s.Description(),
		Score:       score,
		Message:     fmt.Sprintf("%d of %d final conclusion(s) are non-trivial.", nontrivial, checked),
		Details:     map[string]any{"non_trivial": nontrivial, "arguments": checked},
	}, nil
}

// trivial reports whether the conclusion and the conjunction of the premises
// entail each other. Prover failures count as non-trivial since triviality
// cannot be demonstrated.
func trivial(prover fol.Prover, premises []*fol.Formula, conclusion *fol.Formula) bool {
	forward, err := prover.Valid(premises, conclusion)
	if err != nil || !forward {
		return false
	}
	conj := premises[0]
	for _, p := range premises[1:] {
		conj = &fol.Formula{Op: fol.OpAnd, Left: conj, Right: p}
	}
	backward, err := prover.Valid([]*fol.Formula{conclusion}, conj)
	if err != nil {
		return false
	}
	return backward
}
