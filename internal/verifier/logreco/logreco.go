// Package logreco checks logical reconstructions. It reuses the informal
// reconstruction chain under its own family name, permits inline proposition
// data (formalizations and declarations live there), and adds the
// formula-level checks: well-formedness, declaration consistency, deductive
// validity, and premise relevance.
package logreco

import (
	"fmt"
	"strings"

	"github.com/debatelab/argdown-feedback-sub001/internal/argdown"
	"github.com/debatelab/argdown-feedback-sub001/internal/fol"
	"github.com/debatelab/argdown-feedback-sub001/internal/model"
	"github.com/debatelab/argdown-feedback-sub001/internal/verifier"
	"github.com/debatelab/argdown-feedback-sub001/internal/verifier/infreco"
)

// FamilyName is the composite name of the logical reconstruction chain.
const FamilyName = "logreco"

// Check name suffixes specific to the logical chain.
const (
	WellFormedCheck  = "well_formed_formulas"
	GlobalDeclsCheck = "globally_consistent_declarations"
	DeductiveCheck   = "deductive_validity"
	RelevanceCheck   = "relevance_of_premises"
)

// Details keys stashed on the well-formedness Result.
const (
	AllExpressionsKey  = "all_expressions"
	AllDeclarationsKey = "all_declarations"
)

// Options selects the chain variant.
type Options struct {
	// RequireUnique adds the exactly-one-argument check.
	RequireUnique bool
	// SkipUsedPremises drops the used-premises check.
	SkipUsedPremises bool
	// Prover overrides the theorem prover, the bounded tableau by default.
	Prover fol.Prover
}

// Composite assembles the logical reconstruction chain for items selected by
// pred.
func Composite(opts Options, pred verifier.ItemPredicate) *verifier.Composite {
	prover := opts.Prover
	if prover == nil {
		prover = fol.TableauProver{MaxDepth: fol.DefaultMaxDepth}
	}
	c := infreco.Composite(infreco.Options{
		Family:           FamilyName,
		RequireUnique:    opts.RequireUnique,
		SkipUsedPremises: opts.SkipUsedPremises,
		AllowInlineData:  true,
	}, pred)
	c.Append(
		WellFormedFormulas(pred),
		GloballyConsistentDeclarations(pred),
		DeductiveValidity(pred, prover),
		RelevanceOfPremises(pred, prover),
	)
	return c
}

func recoDoc(item *model.PrimaryData) *argdown.Document {
	doc, _ := item.Data.(*argdown.Document)
	return doc
}

func outcome(name string, item *model.PrimaryData, violations []string) model.Result {
	if len(violations) == 0 {
		return model.ValidResult(name, item.ID)
	}
	return model.InvalidResult(name, strings.Join(violations, " "), item.ID)
}

// stepRef names a pcs step for diagnostics, e.g. "(2) of argument 'A'".
func stepRef(a *argdown.Argument, step argdown.PCSItem) string {
	return fmt.Sprintf("(%s) of argument '%s'", step.Label, a.Label)
}

// formalizationOf reads and parses the formula recorded on the step's
// proposition. The raw source is returned alongside for diagnostics.
func formalizationOf(doc *argdown.Document, step argdown.PCSItem, key string) (*fol.Formula, string, error) {
	prop := doc.PropositionByLabel(step.PropositionLabel)
	if prop == nil || prop.Data == nil {
		return nil, "", fmt.Errorf("no '%s' entry", key)
	}
	raw, ok := prop.Data[key]
	if !ok {
		return nil, "", fmt.Errorf("no '%s' entry", key)
	}
	src, ok := raw.(string)
	if !ok {
		return nil, "", fmt.Errorf("'%s' entry is not a string", key)
	}
	f, err := fol.Parse(src)
	if err != nil {
		return nil, src, err
	}
	return f, src, nil
}

func declarationsOf(doc *argdown.Document, step argdown.PCSItem, key string) (*fol.Declarations, bool, error) {
	prop := doc.PropositionByLabel(step.PropositionLabel)
	if prop == nil || prop.Data == nil {
		return nil, false, nil
	}
	raw, ok := prop.Data[key]
	if !ok {
		return nil, false, nil
	}
	decls, ok := fol.DeclarationsFromData(raw)
	if !ok {
		return nil, true, fmt.Errorf("'%s' entry is not a mapping", key)
	}
	return decls, true, nil
}

// WellFormedFormulas requires a parseable formalization on every pcs
// proposition and declarations covering every symbol the formulas use.
// The aggregated expressions and declarations are stashed in the Result
// details for downstream consumers.
func WellFormedFormulas(pred verifier.ItemPredicate) verifier.Handler {
	name := infreco.CheckName(FamilyName, WellFormedCheck)
	return &verifier.ItemCheck{CheckName: name, Pred: pred,
		Eval: func(req *model.Request, item *model.PrimaryData) model.Result {
			doc := recoDoc(item)
			fKey := req.Config.FormalizationKey
			dKey := req.Config.DeclarationsKey

			var violations []string
			expressions := make(map[string]string)
			all := fol.NewDeclarations()

			for _, a := range doc.Arguments {
				argDecls := fol.NewDeclarations()
				var formulas []*fol.Formula
				var formulaSteps []argdown.PCSItem
				for _, step := range a.PCS {
					f, src, err := formalizationOf(doc, step, fKey)
					switch {
					case err != nil && src != "":
						violations = append(violations, fmt.Sprintf(
							"Formalization '%s' of %s is not well-formed: %v.", src, stepRef(a, step), err))
					case err != nil:
						violations = append(violations, fmt.Sprintf(
							"Formalization of %s is not well-formed: %v.", stepRef(a, step), err))
					default:
						expressions[a.Label+"."+step.Label] = f.String()
						formulas = append(formulas, f)
						formulaSteps = append(formulaSteps, step)
					}

					decls, present, err := declarationsOf(doc, step, dKey)
					if err != nil {
						violations = append(violations, fmt.Sprintf(
							"Declarations of %s are invalid: %v.", stepRef(a, step), err))
						continue
					}
					if !present {
						continue
					}
					for _, sym := range decls.Symbols() {
						meaning, _ := decls.Get(sym)
						if prev, ok := argDecls.Get(sym); ok && prev != meaning {
							violations = append(violations, fmt.Sprintf(
								"Symbol '%s' is declared more than once in argument '%s' with different meanings.",
								sym, a.Label))
							continue
						}
						argDecls.Add(sym, meaning)
						if _, ok := all.Get(sym); !ok {
							all.Add(sym, meaning)
						}
					}
				}

				for i, f := range formulas {
					for _, sym := range f.Symbols() {
						if !argDecls.Has(sym) {
							violations = append(violations, fmt.Sprintf(
								"Symbol '%s' used in %s is not declared.",
								sym, stepRef(a, formulaSteps[i])))
						}
					}
				}
			}

			res := outcome(name, item, violations)
			res.Details = map[string]any{
				AllExpressionsKey:  expressions,
				AllDeclarationsKey: all.AsMap(),
			}
			return res
		}}
}

// GloballyConsistentDeclarations requires a symbol to mean the same thing in
// every argument of the snippet.
func GloballyConsistentDeclarations(pred verifier.ItemPredicate) verifier.Handler {
	name := infreco.CheckName(FamilyName, GlobalDeclsCheck)
	return &verifier.ItemCheck{CheckName: name, Pred: pred,
		Eval: func(req *model.Request, item *model.PrimaryData) model.Result {
			doc := recoDoc(item)
			dKey := req.Config.DeclarationsKey

			type origin struct {
				arg     string
				meaning string
			}
			first := make(map[string]origin)
			var violations []string

			for _, a := range doc.Arguments {
				for _, step := range a.PCS {
					decls, present, err := declarationsOf(doc, step, dKey)
					if !present || err != nil {
						continue
					}
					for _, sym := range decls.Symbols() {
						meaning, _ := decls.Get(sym)
						prev, seen := first[sym]
						if !seen {
							first[sym] = origin{arg: a.Label, meaning: meaning}
							continue
						}
						if prev.meaning != meaning && prev.arg != a.Label {
							violations = append(violations, fmt.Sprintf(
								"Symbol '%s' is declared as '%s' in argument '%s' but as '%s' in argument '%s'.",
								sym, prev.meaning, prev.arg, meaning, a.Label))
						}
					}
				}
			}
			return outcome(name, item, violations)
		}}
}

// inferenceFormulas resolves the conclusion formula and the formulas of the
// steps its from-list references. ok is false when any of them is missing or
// unparseable; those gaps are WellFormedFormulas findings.
func inferenceFormulas(doc *argdown.Document, a *argdown.Argument, step argdown.PCSItem, fromKey, fKey string) (premises []*fol.Formula, conclusion *fol.Formula, ok bool) {
	labels, present, isList := argdown.InferenceFrom(step.InferenceData, fromKey)
	if !present || !isList || len(labels) == 0 {
		return nil, nil, false
	}
	conclusion, _, err := formalizationOf(doc, step, fKey)
	if err != nil {
		return nil, nil, false
	}
	for _, label := range labels {
		ref, found := a.PCSItemByLabel(label)
		if !found {
			return nil, nil, false
		}
		f, _, err := formalizationOf(doc, ref, fKey)
		if err != nil {
			return nil, nil, false
		}
		premises = append(premises, f)
	}
	return premises, conclusion, true
}

// DeductiveValidity requires each inference step to follow deductively from
// the premises its from-list references.
func DeductiveValidity(pred verifier.ItemPredicate, prover fol.Prover) verifier.Handler {
	name := infreco.CheckName(FamilyName, DeductiveCheck)
	return &verifier.ItemCheck{CheckName: name, Pred: pred,
		Eval: func(req *model.Request, item *model.PrimaryData) model.Result {
			doc := recoDoc(item)
			var violations []string
			for _, a := range doc.Arguments {
				for _, step := range a.PCS {
					if !step.IsConclusion {
						continue
					}
					premises, conclusion, ok := inferenceFormulas(doc, a, step, req.Config.FromKey, req.Config.FormalizationKey)
					if !ok {
						continue
					}
					valid, err := prover.Valid(premises, conclusion)
					if err != nil {
						violations = append(violations, fmt.Sprintf(
							"Validity of the inference to %s could not be assessed: %v.", stepRef(a, step), err))
						continue
					}
					if !valid {
						violations = append(violations, fmt.Sprintf(
							"The inference to %s is not deductively valid.", stepRef(a, step)))
					}
				}
			}
			return outcome(name, item, violations)
		}}
}

// RelevanceOfPremises requires every referenced premise to be load-bearing:
// dropping it breaks the inference.
func RelevanceOfPremises(pred verifier.ItemPredicate, prover fol.Prover) verifier.Handler {
	name := infreco.CheckName(FamilyName, RelevanceCheck)
	return &verifier.ItemCheck{CheckName: name, Pred: pred,
		Eval: func(req *model.Request, item *model.PrimaryData) model.Result {
			doc := recoDoc(item)
			var violations []string
			for _, a := range doc.Arguments {
				for _, step := range a.PCS {
					if !step.IsConclusion {
						continue
					}
					premises, conclusion, ok := inferenceFormulas(doc, a, step, req.Config.FromKey, req.Config.FormalizationKey)
					if !ok {
						continue
					}
					labels, _, _ := argdown.InferenceFrom(step.InferenceData, req.Config.FromKey)
					for i := range premises {
						rest := make([]*fol.Formula, 0, len(premises)-1)
						rest = append(rest, premises[:i]...)
						rest = append(rest, premises[i+1:]...)
						stillValid, err := prover.Valid(rest, conclusion)
						if err != nil {
							continue
						}
						if stillValid {
							violations = append(violations, fmt.Sprintf(
								"Premise (%s) is not relevant for the inference to %s.",
								labels[i], stepRef(a, step)))
						}
					}
				}
			}
			return outcome(name, item, violations)
		}}
}
