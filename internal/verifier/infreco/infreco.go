// Package infreco checks informal argument reconstructions: every argument
// carries a well-formed premise-conclusion structure whose inferences refer
// back to earlier steps, and nothing floats outside the arguments.
//
// The check constructors take the family name as a parameter so the logical
// reconstruction chain can reuse them under its own prefix.
package infreco

import (
	"fmt"
	"strings"

	"github.com/debatelab/argdown-feedback-sub001/internal/argdown"
	"github.com/debatelab/argdown-feedback-sub001/internal/model"
	"github.com/debatelab/argdown-feedback-sub001/internal/verifier"
)

// FamilyName is the composite name of the informal reconstruction chain.
const FamilyName = "infreco"

// Check name suffixes; full handler names are "<family>.<check>".
const (
	HasArgumentsCheck      = "has_arguments"
	HasUniqueArgumentCheck = "has_unique_argument"
	HasPCSCheck            = "has_pcs"
	StartsEndsCheck        = "starts_with_premise_ends_with_conclusion"
	NoDuplicateLabelsCheck = "no_duplicate_pcs_labels"
	HasLabelAndGistCheck   = "has_label_and_gist"
	HasInferenceDataCheck  = "has_inference_data"
	UsedPremisesCheck      = "used_premises"
	NoExtraPropsCheck      = "no_extra_propositions"
	OnlyGroundedCheck      = "only_grounded_dialectical_relations"
	NoInlineDataCheck      = "no_inline_data"
)

// CheckName builds the full handler name for a family check.
func CheckName(family, check string) string { return family + "." + check }

// Options selects the chain variant. The zero value yields the default
// standalone chain under the infreco family name.
type Options struct {
	// Family overrides the handler name prefix, FamilyName when empty.
	Family string
	// RequireUnique adds the exactly-one-argument check.
	RequireUnique bool
	// SkipUsedPremises drops the used-premises check.
	SkipUsedPremises bool
	// AllowInlineData drops the inline data check; logical profiles carry
	// formalizations and declarations as proposition data.
	AllowInlineData bool
}

func (o Options) family() string {
	if o.Family == "" {
		return FamilyName
	}
	return o.Family
}

// Composite assembles the reconstruction check chain for items selected by
// pred.
func Composite(opts Options, pred verifier.ItemPredicate) *verifier.Composite {
	fam := opts.family()
	c := verifier.NewComposite(fam, HasArguments(fam, pred))
	if opts.RequireUnique {
		c.Append(HasUniqueArgument(fam, pred))
	}
	c.Append(
		HasPCS(fam, pred),
		StartsWithPremiseEndsWithConclusion(fam, pred),
		NoDuplicatePCSLabels(fam, pred),
		HasLabelAndGist(fam, pred),
		HasInferenceData(fam, pred),
	)
	if !opts.SkipUsedPremises {
		c.Append(UsedPremises(fam, pred))
	}
	c.Append(
		NoExtraPropositions(fam, pred),
		OnlyGroundedDialecticalRelations(fam, pred),
	)
	if !opts.AllowInlineData {
		c.Append(NoInlineData(fam, pred))
	}
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

// HasArguments requires at least Config.N arguments.
func HasArguments(family string, pred verifier.ItemPredicate) verifier.Handler {
	name := CheckName(family, HasArgumentsCheck)
	return &verifier.ItemCheck{CheckName: name, Pred: pred,
		Eval: func(req *model.Request, item *model.PrimaryData) model.Result {
			doc := recoDoc(item)
			minArgs := req.Config.N
			if minArgs < 1 {
				minArgs = 1
			}
			if len(doc.Arguments) < minArgs {
				return model.InvalidResult(name, fmt.Sprintf(
					"Expected at least %d argument(s), found %d.", minArgs, len(doc.Arguments)), item.ID)
			}
			return model.ValidResult(name, item.ID)
		}}
}

// HasUniqueArgument requires exactly one argument.
func HasUniqueArgument(family string, pred verifier.ItemPredicate) verifier.Handler {
	name := CheckName(family, HasUniqueArgumentCheck)
	return &verifier.ItemCheck{CheckName: name, Pred: pred,
		Eval: func(_ *model.Request, item *model.PrimaryData) model.Result {
			doc := recoDoc(item)
			if len(doc.Arguments) != 1 {
				return model.InvalidResult(name, fmt.Sprintf(
					"Expected exactly one argument, found %d.", len(doc.Arguments)), item.ID)
			}
			return model.ValidResult(name, item.ID)
		}}
}

// HasPCS requires every argument to carry a premise-conclusion structure.
func HasPCS(family string, pred verifier.ItemPredicate) verifier.Handler {
	name := CheckName(family, HasPCSCheck)
	return &verifier.ItemCheck{CheckName: name, Pred: pred,
		Eval: func(_ *model.Request, item *model.PrimaryData) model.Result {
			doc := recoDoc(item)
			var violations []string
			for _, a := range doc.Arguments {
				if len(a.PCS) == 0 {
					violations = append(violations, fmt.Sprintf(
						"Argument '%s' has no premise-conclusion structure.", a.Label))
				}
			}
			return outcome(name, item, violations)
		}}
}

// StartsWithPremiseEndsWithConclusion checks the frame of each PCS.
func StartsWithPremiseEndsWithConclusion(family string, pred verifier.ItemPredicate) verifier.Handler {
	name := CheckName(family, StartsEndsCheck)
	return &verifier.ItemCheck{CheckName: name, Pred: pred,
		Eval: func(_ *model.Request, item *model.PrimaryData) model.Result {
			doc := recoDoc(item)
			var violations []string
			for _, a := range doc.Arguments {
				if len(a.PCS) == 0 {
					continue
				}
				if a.PCS[0].IsConclusion {
					violations = append(violations, fmt.Sprintf(
						"Argument '%s' starts with a conclusion instead of a premise.", a.Label))
				}
				if !a.PCS[len(a.PCS)-1].IsConclusion {
					violations = append(violations, fmt.Sprintf(
						"Argument '%s' does not end with a conclusion.", a.Label))
				}
			}
			return outcome(name, item, violations)
		}}
}

// NoDuplicatePCSLabels requires step labels to be unique per argument.
func NoDuplicatePCSLabels(family string, pred verifier.ItemPredicate) verifier.Handler {
	name := CheckName(family, NoDuplicateLabelsCheck)
	return &verifier.ItemCheck{CheckName: name, Pred: pred,
		Eval: func(_ *model.Request, item *model.PrimaryData) model.Result {
			doc := recoDoc(item)
			var violations []string
			for _, a := range doc.Arguments {
				seen := make(map[string]bool, len(a.PCS))
				for _, step := range a.PCS {
					if seen[step.Label] {
						violations = append(violations, fmt.Sprintf(
							"Duplicate pcs label '(%s)' in argument '%s'.", step.Label, a.Label))
						continue
					}
					seen[step.Label] = true
				}
			}
			return outcome(name, item, violations)
		}}
}

// HasLabelAndGist requires an explicit label and at most one gist per
// argument.
func HasLabelAndGist(family string, pred verifier.ItemPredicate) verifier.Handler {
	name := CheckName(family, HasLabelAndGistCheck)
	return &verifier.ItemCheck{CheckName: name, Pred: pred,
		Eval: func(_ *model.Request, item *model.PrimaryData) model.Result {
			doc := recoDoc(item)
			var violations []string
			for _, a := range doc.Arguments {
				if a.AutoLabel {
					violations = append(violations, fmt.Sprintf(
						"Argument '%s' has no explicit label.", a.Label))
				}
				if n := len(distinctNonEmpty(a.Gists)); n > 1 {
					violations = append(violations, fmt.Sprintf(
						"Argument '%s' has %d gists, at most one is allowed.", a.Label, n))
				}
			}
			return outcome(name, item, violations)
		}}
}

func distinctNonEmpty(texts []string) []string {
	seen := make(map[string]bool, len(texts))
	var out []string
	for _, t := range texts {
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}

// HasInferenceData requires every conclusion to list the earlier steps it is
// drawn from under Config.FromKey.
func HasInferenceData(family string, pred verifier.ItemPredicate) verifier.Handler {
	name := CheckName(family, HasInferenceDataCheck)
	return &verifier.ItemCheck{CheckName: name, Pred: pred,
		Eval: func(req *model.Request, item *model.PrimaryData) model.Result {
			doc := recoDoc(item)
			fromKey := req.Config.FromKey
			var violations []string
			for _, a := range doc.Arguments {
				earlier := make(map[string]bool, len(a.PCS))
				for _, step := range a.PCS {
					if step.IsConclusion {
						violations = append(violations,
							checkFromList(a, step, fromKey, earlier)...)
					}
					earlier[step.Label] = true
				}
			}
			return outcome(name, item, violations)
		}}
}

func checkFromList(a *argdown.Argument, step argdown.PCSItem, fromKey string, earlier map[string]bool) []string {
	labels, present, isList := argdown.InferenceFrom(step.InferenceData, fromKey)
	if !present {
		return []string{fmt.Sprintf(
			"Conclusion (%s) of argument '%s' lacks inference data '%s'.",
			step.Label, a.Label, fromKey)}
	}
	if !isList || len(labels) == 0 {
		return []string{fmt.Sprintf(
			"Inference data '%s' of conclusion (%s) in argument '%s' is not a non-empty list.",
			fromKey, step.Label, a.Label)}
	}
	var violations []string
	for _, ref := range labels {
		if !earlier[ref] {
			violations = append(violations, fmt.Sprintf(
				"Conclusion (%s) of argument '%s' is drawn from '(%s)' which does not precede it.",
				step.Label, a.Label, ref))
		}
	}
	return violations
}

// UsedPremises requires every non-final step to feed a later inference.
func UsedPremises(family string, pred verifier.ItemPredicate) verifier.Handler {
	name := CheckName(family, UsedPremisesCheck)
	return &verifier.ItemCheck{CheckName: name, Pred: pred,
		Eval: func(req *model.Request, item *model.PrimaryData) model.Result {
			doc := recoDoc(item)
			fromKey := req.Config.FromKey
			var violations []string
			for _, a := range doc.Arguments {
				if len(a.PCS) == 0 {
					continue
				}
				used := make(map[string]bool)
				for _, step := range a.PCS {
					labels, _, _ := argdown.InferenceFrom(step.InferenceData, fromKey)
					for _, ref := range labels {
						used[ref] = true
					}
				}
				for _, step := range a.PCS[:len(a.PCS)-1] {
					if !used[step.Label] {
						violations = append(violations, fmt.Sprintf(
							"Step (%s) of argument '%s' is not used in any subsequent inference.",
							step.Label, a.Label))
					}
				}
			}
			return outcome(name, item, violations)
		}}
}

// NoExtraPropositions forbids propositions outside every argument.
func NoExtraPropositions(family string, pred verifier.ItemPredicate) verifier.Handler {
	name := CheckName(family, NoExtraPropsCheck)
	return &verifier.ItemCheck{CheckName: name, Pred: pred,
		Eval: func(_ *model.Request, item *model.PrimaryData) model.Result {
			doc := recoDoc(item)
			inPCS := make(map[string]bool)
			for _, a := range doc.Arguments {
				for _, step := range a.PCS {
					inPCS[step.PropositionLabel] = true
				}
			}
			var violations []string
			for _, p := range doc.Propositions {
				if !inPCS[p.Label] {
					violations = append(violations, fmt.Sprintf(
						"Proposition '%s' does not belong to any argument.", p.Label))
				}
			}
			return outcome(name, item, violations)
		}}
}

// OnlyGroundedDialecticalRelations requires each sketched relation to match
// a relation implied by the premise-conclusion structures.
func OnlyGroundedDialecticalRelations(family string, pred verifier.ItemPredicate) verifier.Handler {
	name := CheckName(family, OnlyGroundedCheck)
	return &verifier.ItemCheck{CheckName: name, Pred: pred,
		Eval: func(_ *model.Request, item *model.PrimaryData) model.Result {
			doc := recoDoc(item)
			grounded := make(map[string]bool)
			for _, rel := range argdown.GroundedRelations(doc) {
				grounded[relationKey(rel)] = true
			}
			var violations []string
			for _, rel := range doc.Relations {
				if !grounded[relationKey(rel)] {
					violations = append(violations, fmt.Sprintf(
						"Dialectical relation from %s to %s (%s) is not grounded in any reconstruction.",
						rel.Source, rel.Target, rel.Valence))
				}
			}
			return outcome(name, item, violations)
		}}
}

func relationKey(rel *argdown.Relation) string {
	return rel.Source.String() + " " + rel.Valence.String() + " " + rel.Target.String()
}

// NoInlineData forbids yaml data on propositions and arguments. Annotation
// id lists stay legal because coherence checks read them.
func NoInlineData(family string, pred verifier.ItemPredicate) verifier.Handler {
	name := CheckName(family, NoInlineDataCheck)
	return &verifier.ItemCheck{CheckName: name, Pred: pred,
		Eval: func(_ *model.Request, item *model.PrimaryData) model.Result {
			doc := recoDoc(item)
			var violations []string
			for _, p := range doc.Propositions {
				for key := range p.Data {
					if key != argdown.AnnotationIDsKey {
						violations = append(violations, fmt.Sprintf(
							"Proposition '%s' carries inline yaml data.", p.Label))
						break
					}
				}
			}
			for _, a := range doc.Arguments {
				if len(a.Data) > 0 {
					violations = append(violations, fmt.Sprintf(
						"Argument '%s' carries inline yaml data.", a.Label))
				}
			}
			return outcome(name, item, violations)
		}}
}
