// Package scorer measures argumentative virtues of verified artifacts.
// Scorers never affect validity: each one runs after the checks of its
// pipeline and appends a ScoringResult to the request.
package scorer

import (
	"fmt"
	"strings"

	"github.com/debatelab/argdown-feedback-sub001/internal/annotation"
	"github.com/debatelab/argdown-feedback-sub001/internal/argdown"
	"github.com/debatelab/argdown-feedback-sub001/internal/model"
	"github.com/debatelab/argdown-feedback-sub001/internal/verifier"
	"github.com/debatelab/argdown-feedback-sub001/pkg/diff"
)

// Scorer computes one virtue score from a finalized request. Score returns
// nil when the request lacks the artifact the scorer measures.
type Scorer interface {
	ID() string
	Description() string
	Score(req *model.Request) (*model.ScoringResult, error)
}

// Handler adapts a Scorer to the verification pipeline. The scorer runs only
// when the request enables it via the enable_<id> option and every check so
// far has passed.
type Handler struct {
	Scorer Scorer
}

// Name returns the scorer id.
func (h Handler) Name() string { return h.Scorer.ID() }

// Handle runs the scorer and records its outcome on the request.
func (h Handler) Handle(req *model.Request) error {
	if !req.Config.ScorerEnabled(h.Scorer.ID()) || !req.IsValid() {
		return nil
	}
	sr, err := h.Scorer.Score(req)
	if err != nil {
		return fmt.Errorf("scorer %s: %w", h.Scorer.ID(), err)
	}
	if sr != nil {
		req.AddScoring(*sr)
	}
	return nil
}

// annoDoc returns the parsed annotation of the last matching item, nil when
// no item matches or it has not been parsed.
func annoDoc(req *model.Request, pred verifier.ItemPredicate) *annotation.Document {
	if pred == nil {
		pred = verifier.DTypePredicate(model.DTypeXML)
	}
	item := verifier.LastMatching(req, pred)
	if item == nil {
		return nil
	}
	doc, _ := item.Data.(*annotation.Document)
	return doc
}

// argdownDoc is the argdown counterpart of annoDoc.
func argdownDoc(req *model.Request, pred verifier.ItemPredicate) *argdown.Document {
	if pred == nil {
		pred = verifier.DTypePredicate(model.DTypeArgdown)
	}
	item := verifier.LastMatching(req, pred)
	if item == nil {
		return nil
	}
	doc, _ := item.Data.(*argdown.Document)
	return doc
}

// saturate maps a count onto [0,1) with diminishing returns. The scale is
// the count at which the score reaches one half.
func saturate(n int, scale float64) float64 {
	if n <= 0 {
		return 0
	}
	return float64(n) / (float64(n) + scale)
}

func normalizeText(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

// similarity scores two normalized texts in [0,1], 1 for identical.
func similarity(a, b string) float64 {
	return diff.Similarity(a, b)
}
