package scorer

import (
	"fmt"
	"unicode/utf8"

	"github.com/debatelab/argdown-feedback-sub001/internal/model"
	"github.com/debatelab/argdown-feedback-sub001/internal/verifier"
)

// AnnotationCoverage scores how much of the text the proposition elements
// capture. A nil Pred selects the last xml item.
type AnnotationCoverage struct {
	Pred verifier.ItemPredicate
}

func (AnnotationCoverage) ID() string { return "annotation_coverage" }

func (AnnotationCoverage) Description() string {
	return "Fraction of the text captured by annotated propositions."
}

func (s AnnotationCoverage) Score(req *model.Request) (*model.ScoringResult, error) {
	doc := annoDoc(req, s.Pred)
	if doc == nil {
		return nil, nil
	}
	total := utf8.RuneCountInString(normalizeText(req.Source))
	if total == 0 {
		total = utf8.RuneCountInString(normalizeText(doc.TextContent))
	}
	if total == 0 {
		return nil, nil
	}
	covered := 0
	for _, el := range doc.Propositions() {
		covered += utf8.RuneCountInString(normalizeText(el.Text))
	}
	score := float64(covered) / float64(total)
	if score > 1 {
		score = 1
	}
	return &model.ScoringResult{
		ID:          s.ID(),
		Description: s.Description(),
		Score:       score,
		Message:     fmt.Sprintf("Annotated propositions capture %d of %d characters.", covered, total),
		Details:     map[string]any{"covered_chars": covered, "total_chars": total},
	}, nil
}

// AnnotationRelations scores the density of dialectical references between
// annotated propositions.
type AnnotationRelations struct {
	Pred verifier.ItemPredicate
}

func (AnnotationRelations) ID() string { return "annotation_relations" }

func (AnnotationRelations) Description() string {
	return "Dialectical references per annotated proposition."
}

func (s AnnotationRelations) Score(req *model.Request) (*model.ScoringResult, error) {
	doc := annoDoc(req, s.Pred)
	if doc == nil {
		return nil, nil
	}
	props := doc.Propositions()
	if len(props) == 0 {
		return nil, nil
	}
	refs := 0
	for _, el := range props {
		refs += len(el.Supports()) + len(el.Attacks())
	}
	score := float64(refs) / float64(len(props))
	if score > 1 {
		score = 1
	}
	return &model.ScoringResult{
		ID:          s.ID(),
		Description: s.Description(),
		Score:       score,
		Message:     fmt.Sprintf("%d dialectical reference(s) across %d proposition(s).", refs, len(props)),
		Details:     map[string]any{"references": refs, "propositions": len(props)},
	}, nil
}
