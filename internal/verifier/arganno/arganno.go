// Package arganno checks the structural and referential integrity of text
// annotations: id discipline, reference validity, attribute and element
// vocabulary, and faithfulness to the annotated source text.
package arganno

import (
	"fmt"
	"strings"

	"github.com/debatelab/argdown-feedback-sub001/internal/annotation"
	"github.com/debatelab/argdown-feedback-sub001/internal/model"
	"github.com/debatelab/argdown-feedback-sub001/internal/verifier"
	"github.com/debatelab/argdown-feedback-sub001/pkg/diff"
)

// FamilyName is the composite name of the annotation check chain.
const FamilyName = "arganno"

// Handler names of the family.
const (
	SourceTextIntegrityName = "arganno.source_text_integrity"
	NestedPropositionsName  = "arganno.nested_propositions"
	IDPresenceName          = "arganno.proposition_id_presence"
	IDUniquenessName        = "arganno.proposition_id_uniqueness"
	SupportReferenceName    = "arganno.support_reference_validity"
	AttackReferenceName     = "arganno.attack_reference_validity"
	AttributeValidityName   = "arganno.attribute_validity"
	ElementValidityName     = "arganno.element_validity"
	ArgumentLabelName       = "arganno.argument_label_validity"
	RefRecoLabelName        = "arganno.ref_reco_label_validity"
)

// MaxEditRatio is the tolerated normalized edit distance between source and
// annotated text.
const MaxEditRatio = 0.01

// relaxedWordThreshold switches long sources to the in-order containment
// check instead of the edit-distance comparison.
const relaxedWordThreshold = 200

// Composite assembles the annotation check chain for items selected by pred.
func Composite(pred verifier.ItemPredicate) *verifier.Composite {
	return verifier.NewComposite(FamilyName,
		SourceTextIntegrity(pred),
		NestedPropositions(pred),
		PropositionIDPresence(pred),
		PropositionIDUniqueness(pred),
		SupportReferenceValidity(pred),
		AttackReferenceValidity(pred),
		AttributeValidity(pred),
		ElementValidity(pred),
	)
}

func annoDoc(item *model.PrimaryData) *annotation.Document {
	doc, _ := item.Data.(*annotation.Document)
	return doc
}

// elemRef names an element for diagnostics: its id when present, its
// document position otherwise.
func elemRef(el *annotation.Element, pos int) string {
	if id := el.ID(); id != "" {
		return "'" + id + "'"
	}
	return fmt.Sprintf("#%d", pos+1)
}

func outcome(name string, item *model.PrimaryData, violations []string) model.Result {
	if len(violations) == 0 {
		return model.ValidResult(name, item.ID)
	}
	return model.InvalidResult(name, strings.Join(violations, " "), item.ID)
}

// normalizeWS collapses whitespace runs to single spaces and trims the ends,
// so the integrity check is insensitive to whitespace-only edits.
func normalizeWS(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// SourceTextIntegrity compares the annotation's text content against the
// request source. Whitespace is normalized on both sides. Short sources must
// match within MaxEditRatio; sources longer than relaxedWordThreshold words
// instead require every annotated proposition text to occur in the source in
// reading order. Requests without a source skip the check.
func SourceTextIntegrity(pred verifier.ItemPredicate) verifier.Handler {
	return &verifier.Func{HandlerName: SourceTextIntegrityName, Fn: func(req *model.Request) error {
		source := normalizeWS(req.Source)
		if source == "" {
			return nil
		}
		verifier.EachItem(req, pred, func(item *model.PrimaryData) {
			doc := annoDoc(item)
			if doc == nil {
				return
			}
			req.AddResult(checkIntegrity(source, doc, item))
		})
		return nil
	}}
}

func checkIntegrity(source string, doc *annotation.Document, item *model.PrimaryData) model.Result {
	if len(strings.Fields(source)) > relaxedWordThreshold {
		return checkInOrderContainment(source, doc, item)
	}

	annotated := normalizeWS(doc.TextContent)
	ratio := diff.Ratio(source, annotated)
	if ratio > MaxEditRatio {
		msg := fmt.Sprintf(
			"Annotated text deviates from the source text (edit ratio %.3f): %s",
			ratio, diff.Compact(source, annotated),
		)
		return model.InvalidResult(SourceTextIntegrityName, msg, item.ID)
	}
	return model.ValidResult(SourceTextIntegrityName, item.ID)
}

func checkInOrderContainment(source string, doc *annotation.Document, item *model.PrimaryData) model.Result {
	var violations []string
	pos := 0
	for i, el := range doc.Propositions() {
		text := normalizeWS(el.Text)
		if text == "" {
			continue
		}
		idx := strings.Index(source[pos:], text)
		if idx >= 0 {
			pos += idx + len(text)
			continue
		}
		if strings.Contains(source, text) {
			violations = append(violations,
				fmt.Sprintf("Annotated proposition %s appears out of reading order.", elemRef(el, i)))
		} else {
			violations = append(violations,
				fmt.Sprintf("Annotated proposition %s does not occur in the source text.", elemRef(el, i)))
		}
	}
	return outcome(SourceTextIntegrityName, item, violations)
}

// NestedPropositions rejects proposition elements nested inside other
// proposition elements.
func NestedPropositions(pred verifier.ItemPredicate) verifier.Handler {
	return &verifier.ItemCheck{CheckName: NestedPropositionsName, Pred: pred,
		Eval: func(_ *model.Request, item *model.PrimaryData) model.Result {
			doc := annoDoc(item)
			var violations []string
			for i, el := range doc.Elements {
				if el.Name != annotation.ElementProposition {
					continue
				}
				if parent := enclosingProposition(doc, el); parent != nil {
					violations = append(violations, fmt.Sprintf(
						"Proposition %s is nested inside proposition %s.",
						elemRef(el, i), elemRef(parent, el.ParentIndex)))
				}
			}
			return outcome(NestedPropositionsName, item, violations)
		}}
}

func enclosingProposition(doc *annotation.Document, el *annotation.Element) *annotation.Element {
	for idx := el.ParentIndex; idx >= 0; idx = doc.Elements[idx].ParentIndex {
		if doc.Elements[idx].Name == annotation.ElementProposition {
			return doc.Elements[idx]
		}
	}
	return nil
}

// PropositionIDPresence requires a non-empty id on every proposition.
func PropositionIDPresence(pred verifier.ItemPredicate) verifier.Handler {
	return &verifier.ItemCheck{CheckName: IDPresenceName, Pred: pred,
		Eval: func(_ *model.Request, item *model.PrimaryData) model.Result {
			doc := annoDoc(item)
			var violations []string
			for i, el := range doc.Propositions() {
				if el.ID() == "" {
					violations = append(violations,
						fmt.Sprintf("Proposition %s carries no id attribute.", elemRef(el, i)))
				}
			}
			return outcome(IDPresenceName, item, violations)
		}}
}

// PropositionIDUniqueness requires all proposition ids to be distinct.
func PropositionIDUniqueness(pred verifier.ItemPredicate) verifier.Handler {
	return &verifier.ItemCheck{CheckName: IDUniquenessName, Pred: pred,
		Eval: func(_ *model.Request, item *model.PrimaryData) model.Result {
			doc := annoDoc(item)
			seen := make(map[string]bool)
			var violations []string
			for _, el := range doc.Propositions() {
				id := el.ID()
				if id == "" {
					continue
				}
				if seen[id] {
					violations = append(violations,
						fmt.Sprintf("Duplicate proposition id '%s'.", id))
					continue
				}
				seen[id] = true
			}
			return outcome(IDUniquenessName, item, violations)
		}}
}

// SupportReferenceValidity requires every supports target to exist.
func SupportReferenceValidity(pred verifier.ItemPredicate) verifier.Handler {
	return referenceValidity(SupportReferenceName, pred, "Supported",
		func(el *annotation.Element) []string { return el.Supports() })
}

// AttackReferenceValidity requires every attacks target to exist.
func AttackReferenceValidity(pred verifier.ItemPredicate) verifier.Handler {
	return referenceValidity(AttackReferenceName, pred, "Attacked",
		func(el *annotation.Element) []string { return el.Attacks() })
}

func referenceValidity(name string, pred verifier.ItemPredicate, kind string, refs func(*annotation.Element) []string) verifier.Handler {
	return &verifier.ItemCheck{CheckName: name, Pred: pred,
		Eval: func(_ *model.Request, item *model.PrimaryData) model.Result {
			doc := annoDoc(item)
			var violations []string
			for _, el := range doc.Propositions() {
				for _, ref := range refs(el) {
					if doc.ByID(ref) == nil {
						violations = append(violations, fmt.Sprintf(
							"%s proposition with id '%s' in proposition '%s' does not exist.",
							kind, ref, el.ID()))
					}
				}
			}
			return outcome(name, item, violations)
		}}
}

// AttributeValidity restricts attributes to the annotation vocabulary.
func AttributeValidity(pred verifier.ItemPredicate) verifier.Handler {
	allowed := make(map[string]bool, len(annotation.KnownAttrs))
	for _, a := range annotation.KnownAttrs {
		allowed[a] = true
	}
	return &verifier.ItemCheck{CheckName: AttributeValidityName, Pred: pred,
		Eval: func(_ *model.Request, item *model.PrimaryData) model.Result {
			doc := annoDoc(item)
			var violations []string
			for i, el := range doc.Propositions() {
				for _, attr := range el.Attrs {
					if !allowed[attr.Name] {
						violations = append(violations, fmt.Sprintf(
							"Unknown attribute '%s' on proposition %s.", attr.Name, elemRef(el, i)))
					}
				}
			}
			return outcome(AttributeValidityName, item, violations)
		}}
}

// ElementValidity permits only proposition elements.
func ElementValidity(pred verifier.ItemPredicate) verifier.Handler {
	return &verifier.ItemCheck{CheckName: ElementValidityName, Pred: pred,
		Eval: func(_ *model.Request, item *model.PrimaryData) model.Result {
			doc := annoDoc(item)
			var violations []string
			for _, el := range doc.Elements {
				if el.Name != annotation.ElementProposition {
					violations = append(violations,
						fmt.Sprintf("Unknown element '%s'.", el.Name))
				}
			}
			return outcome(ElementValidityName, item, violations)
		}}
}

// LabelProvider supplies the externally known legal labels for the optional
// label checks: argument labels mapped to their pcs step labels. ok=false
// skips the check entirely.
type LabelProvider func(req *model.Request) (map[string]map[string]bool, bool)

// ArgumentLabelValidity requires every argument_label to name a legal label.
func ArgumentLabelValidity(pred verifier.ItemPredicate, legal LabelProvider) verifier.Handler {
	return &verifier.Func{HandlerName: ArgumentLabelName, Fn: func(req *model.Request) error {
		labels, ok := legal(req)
		if !ok {
			return nil
		}
		verifier.EachItem(req, pred, func(item *model.PrimaryData) {
			doc := annoDoc(item)
			if doc == nil {
				return
			}
			var violations []string
			for i, el := range doc.Propositions() {
				label := el.ArgumentLabel()
				if label == "" {
					continue
				}
				if _, exists := labels[label]; !exists {
					violations = append(violations, fmt.Sprintf(
						"Argument label '%s' referenced by proposition %s does not exist.",
						label, elemRef(el, i)))
				}
			}
			req.AddResult(outcome(ArgumentLabelName, item, violations))
		})
		return nil
	}}
}

// RefRecoLabelValidity requires every ref_reco_label to name a pcs step of
// the element's referenced argument. Elements without a resolvable
// argument_label are left to ArgumentLabelValidity.
func RefRecoLabelValidity(pred verifier.ItemPredicate, legal LabelProvider) verifier.Handler {
	return &verifier.Func{HandlerName: RefRecoLabelName, Fn: func(req *model.Request) error {
		labels, ok := legal(req)
		if !ok {
			return nil
		}
		verifier.EachItem(req, pred, func(item *model.PrimaryData) {
			doc := annoDoc(item)
			if doc == nil {
				return
			}
			var violations []string
			for i, el := range doc.Propositions() {
				ref := el.RefRecoLabel()
				if ref == "" {
					continue
				}
				steps, exists := labels[el.ArgumentLabel()]
				if !exists {
					continue
				}
				if !steps[ref] {
					violations = append(violations, fmt.Sprintf(
						"Ref reco label '%s' on proposition %s does not name a step of argument '%s'.",
						ref, elemRef(el, i), el.ArgumentLabel()))
				}
			}
			req.AddResult(outcome(RefRecoLabelName, item, violations))
		})
		return nil
	}}
}
