package scorer

import (
	"fmt"

	"github.com/debatelab/argdown-feedback-sub001/internal/model"
	"github.com/debatelab/argdown-feedback-sub001/internal/verifier"
)

// SubargumentCount scores the number of inference steps across all
// reconstructed arguments.
type SubargumentCount struct {
	Pred verifier.ItemPredicate
}

func (SubargumentCount) ID() string { return "subargument_count" }

func (SubargumentCount) Description() string {
	return "Number of inference steps in the reconstruction, with diminishing returns."
}

func (s SubargumentCount) Score(req *model.Request) (*model.ScoringResult, error) {
	doc := argdownDoc(req, s.Pred)
	if doc == nil {
		return nil, nil
	}
	steps := 0
	for _, a := range doc.Arguments {
		for _, item := range a.PCS {
			if item.IsConclusion {
				steps++
			}
		}
	}
	return &model.ScoringResult{
		ID:          s.ID(),
		Description: s.Description(),
		Score:       saturate(steps, subargumentScale),
		Message:     fmt.Sprintf("%d inference step(s) across %d argument(s).", steps, len(doc.Arguments)),
		Details:     map[string]any{"inference_steps": steps, "arguments": len(doc.Arguments)},
	}, nil
}

// PremiseCount scores the number of premises across all reconstructed
// arguments.
type PremiseCount struct {
	Pred verifier.ItemPredicate
}

func (PremiseCount) ID() string { return "premise_count" }

func (PremiseCount) Description() string {
	return "Number of premises in the reconstruction, with diminishing returns."
}

func (s PremiseCount) Score(req *model.Request) (*model.ScoringResult, error) {
	doc := argdownDoc(req, s.Pred)
	if doc == nil {
		return nil, nil
	}
	premises := 0
	for _, a := range doc.Arguments {
		premises += len(a.Premises())
	}
	return &model.ScoringResult{
		ID:          s.ID(),
		Description: s.Description(),
		Score:       saturate(premises, premiseScale),
		Message:     fmt.Sprintf("%d premise(s) across %d argument(s).", premises, len(doc.Arguments)),
		Details:     map[string]any{"premises": premises, "arguments": len(doc.Arguments)},
	}, nil
}
