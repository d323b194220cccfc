// Package argmap checks macro-level argument maps: claims must be labeled
// and worded, labels must be unambiguous, and arguments must stay
// unreconstructed.
package argmap

import (
	"fmt"
	"strings"

	"github.com/debatelab/argdown-feedback-sub001/internal/argdown"
	"github.com/debatelab/argdown-feedback-sub001/internal/model"
	"github.com/debatelab/argdown-feedback-sub001/internal/verifier"
)

// FamilyName is the composite name of the argument map check chain.
const FamilyName = "argmap"

// Handler names of the family.
const (
	CompleteClaimsName    = "argmap.complete_claims"
	NoDuplicateLabelsName = "argmap.no_duplicate_labels"
	NoPCSName             = "argmap.no_pcs"
)

// Composite assembles the argument map check chain for items selected by
// pred.
func Composite(pred verifier.ItemPredicate) *verifier.Composite {
	return verifier.NewComposite(FamilyName,
		CompleteClaims(pred),
		NoDuplicateLabels(pred),
		NoPCS(pred),
	)
}

func mapDoc(item *model.PrimaryData) *argdown.Document {
	doc, _ := item.Data.(*argdown.Document)
	return doc
}

func outcome(name string, item *model.PrimaryData, violations []string) model.Result {
	if len(violations) == 0 {
		return model.ValidResult(name, item.ID)
	}
	return model.InvalidResult(name, strings.Join(violations, " "), item.ID)
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

// CompleteClaims requires every claim to carry an explicit label and at
// least one non-empty text.
func CompleteClaims(pred verifier.ItemPredicate) verifier.Handler {
	return &verifier.ItemCheck{CheckName: CompleteClaimsName, Pred: pred,
		Eval: func(_ *model.Request, item *model.PrimaryData) model.Result {
			doc := mapDoc(item)
			var violations []string
			for _, p := range doc.Propositions {
				if p.AutoLabel {
					violations = append(violations,
						fmt.Sprintf("Claim '%s' has no explicit label.", p.Label))
				}
				if len(distinctNonEmpty(p.Texts)) == 0 {
					violations = append(violations,
						fmt.Sprintf("Claim '%s' has no text.", p.Label))
				}
			}
			return outcome(CompleteClaimsName, item, violations)
		}}
}

// NoDuplicateLabels requires each claim label to stand for one text and each
// argument label for one gist.
func NoDuplicateLabels(pred verifier.ItemPredicate) verifier.Handler {
	return &verifier.ItemCheck{CheckName: NoDuplicateLabelsName, Pred: pred,
		Eval: func(_ *model.Request, item *model.PrimaryData) model.Result {
			doc := mapDoc(item)
			var violations []string
			for _, p := range doc.Propositions {
				if n := len(distinctNonEmpty(p.Texts)); n > 1 {
					violations = append(violations, fmt.Sprintf(
						"Claim label '%s' is bound to %d different texts.", p.Label, n))
				}
			}
			for _, a := range doc.Arguments {
				if n := len(distinctNonEmpty(a.Gists)); n > 1 {
					violations = append(violations, fmt.Sprintf(
						"Argument label '%s' is bound to %d different gists.", a.Label, n))
				}
			}
			return outcome(NoDuplicateLabelsName, item, violations)
		}}
}

// NoPCS forbids premise-conclusion structures; argument maps stay at the
// macro level.
func NoPCS(pred verifier.ItemPredicate) verifier.Handler {
	return &verifier.ItemCheck{CheckName: NoPCSName, Pred: pred,
		Eval: func(_ *model.Request, item *model.PrimaryData) model.Result {
			doc := mapDoc(item)
			var violations []string
			for _, a := range doc.Arguments {
				if len(a.PCS) > 0 {
					violations = append(violations, fmt.Sprintf(
						"Argument '%s' carries a premise-conclusion structure.", a.Label))
				}
			}
			return outcome(NoPCSName, item, violations)
		}}
}
