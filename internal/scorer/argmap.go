package scorer

import (
	"fmt"
	"strings"

	"github.com/debatelab/argdown-feedback-sub001/internal/model"
	"github.com/debatelab/argdown-feedback-sub001/internal/verifier"
)

// Counts at which the size-style scores reach one half.
const (
	mapSizeScale     = 8
	subargumentScale = 4
	premiseScale     = 8
)

// MapSize scores the number of nodes in an argument map. A nil Pred selects
// the last argdown item.
type MapSize struct {
	Pred verifier.ItemPredicate
}

func (MapSize) ID() string { return "map_size" }

func (MapSize) Description() string {
	return "Number of claims and arguments in the map, with diminishing returns."
}

func (s MapSize) Score(req *model.Request) (*model.ScoringResult, error) {
	doc := argdownDoc(req, s.Pred)
	if doc == nil {
		return nil, nil
	}
	claims, args := len(doc.Propositions), len(doc.Arguments)
	return &model.ScoringResult{
		ID:          s.ID(),
		Description: s.Description(),
		Score:       saturate(claims+args, mapSizeScale),
		Message:     fmt.Sprintf("Map holds %d claim(s) and %d argument(s).", claims, args),
		Details:     map[string]any{"claims": claims, "arguments": args},
	}, nil
}

// MapDensity scores how well connected the map is: one means at least as
// many relations as a spanning tree needs.
type MapDensity struct {
	Pred verifier.ItemPredicate
}

func (MapDensity) ID() string { return "map_density" }

func (MapDensity) Description() string {
	return "Relations per node relative to a fully connected map."
}

func (s MapDensity) Score(req *model.Request) (*model.ScoringResult, error) {
	doc := argdownDoc(req, s.Pred)
	if doc == nil {
		return nil, nil
	}
	nodes := len(doc.Propositions) + len(doc.Arguments)
	edges := len(doc.Relations)
	score := 0.0
	if nodes > 1 {
		score = float64(edges) / float64(nodes-1)
		if score > 1 {
			score = 1
		}
	}
	return &model.ScoringResult{
		ID:          s.ID(),
		Description: s.Description(),
		Score:       score,
		Message:     fmt.Sprintf("%d relation(s) across %d node(s).", edges, nodes),
		Details:     map[string]any{"relations": edges, "nodes": nodes},
	}, nil
}

// MapFaithfulness scores the textual similarity between the map's labels and
// the source text. Without a source text the scorer stays silent.
type MapFaithfulness struct {
	Pred verifier.ItemPredicate
}

func (MapFaithfulness) ID() string { return "map_faithfulness" }

func (MapFaithfulness) Description() string {
	return "Textual similarity between the map and the source text."
}

func (s MapFaithfulness) Score(req *model.Request) (*model.ScoringResult, error) {
	doc := argdownDoc(req, s.Pred)
	source := normalizeText(req.Source)
	if doc == nil || source == "" {
		return nil, nil
	}
	var parts []string
	for _, p := range doc.Propositions {
		parts = append(parts, p.Texts...)
	}
	for _, a := range doc.Arguments {
		parts = append(parts, a.Gists...)
	}
	score := similarity(normalizeText(strings.Join(parts, " ")), source)
	return &model.ScoringResult{
		ID:          s.ID(),
		Description: s.Description(),
		Score:       score,
		Message:     fmt.Sprintf("Map text matches the source with similarity %.2f.", score),
	}, nil
}
