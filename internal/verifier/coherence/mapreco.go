package coherence

import (
	"fmt"

	"github.com/debatelab/argdown-feedback-sub001/internal/argdown"
	"github.com/debatelab/argdown-feedback-sub001/internal/model"
	"github.com/debatelab/argdown-feedback-sub001/internal/verifier"
)

// ArgmapRecoElements requires map argument labels and reconstruction
// argument labels to agree 1-to-1, and every map claim label to name a
// reconstruction proposition. When both roles select the same item, the
// check fails: a snippet cannot serve as map and reconstruction at once.
func ArgmapRecoElements(pair string, mapPred, recoPred verifier.ItemPredicate) verifier.Handler {
	name := HandlerName(pair, ElementsAspect)
	return &verifier.Func{HandlerName: name, Fn: func(req *model.Request) error {
		mapItem, recoItem := locatePair(req, mapPred, recoPred)
		argmap, reco := argdownDocOf(mapItem), argdownDocOf(recoItem)
		if argmap == nil || reco == nil {
			return nil
		}
		if mapItem == recoItem {
			req.AddResult(model.InvalidResult(name,
				"The same argdown snippet is selected as both map and reconstruction; use filters to tell the roles apart.",
				mapItem.ID))
			return nil
		}

		var violations []string
		for _, a := range argmap.Arguments {
			if reco.ArgumentByLabel(a.Label) == nil {
				violations = append(violations, fmt.Sprintf(
					"Map argument '<%s>' has no counterpart in the reconstruction.", a.Label))
			}
		}
		for _, a := range reco.Arguments {
			if argmap.ArgumentByLabel(a.Label) == nil {
				violations = append(violations, fmt.Sprintf(
					"Reconstructed argument '<%s>' does not appear in the map.", a.Label))
			}
		}
		for _, p := range argmap.Propositions {
			if reco.PropositionByLabel(p.Label) == nil {
				violations = append(violations, fmt.Sprintf(
					"Map claim '[%s]' does not appear in the reconstruction.", p.Label))
			}
		}

		req.AddResult(pairOutcome(name, mapItem, recoItem, violations))
		return nil
	}}
}

// ArgmapRecoRelations requires every sketched map edge to be grounded in the
// reconstruction. With checkReverse set, every relation the reconstruction
// implies between nodes of the map must in turn be reachable in the map:
// paths of support edges count as indirect support, paths with an odd number
// of attack edges as indirect attack.
func ArgmapRecoRelations(pair string, mapPred, recoPred verifier.ItemPredicate, checkReverse bool) verifier.Handler {
	name := HandlerName(pair, RelationsAspect)
	return &verifier.Func{HandlerName: name, Fn: func(req *model.Request) error {
		mapItem, recoItem := locatePair(req, mapPred, recoPred)
		argmap, reco := argdownDocOf(mapItem), argdownDocOf(recoItem)
		if argmap == nil || reco == nil {
			return nil
		}
		if mapItem == recoItem {
			req.AddResult(model.InvalidResult(name,
				"The same argdown snippet is selected as both map and reconstruction; use filters to tell the roles apart.",
				mapItem.ID))
			return nil
		}

		grounded := argdown.GroundedRelations(reco)
		var violations []string
		for _, rel := range argmap.Relations {
			want := rel.Valence
			if want == argdown.Contradict {
				want = argdown.Attack
			}
			if !hasEdge(grounded, rel.Source, rel.Target, want) &&
				!(rel.Valence == argdown.Contradict && hasEdge(grounded, rel.Target, rel.Source, argdown.Attack)) {
				violations = append(violations, fmt.Sprintf(
					"Sketched relation from %s to %s (%s) is not grounded in the reconstruction.",
					rel.Source, rel.Target, rel.Valence))
			}
		}

		if checkReverse {
			mapRels := argmap.Relations
			for _, g := range grounded {
				if !nodeInMap(argmap, g.Source) || !nodeInMap(argmap, g.Target) {
					continue
				}
				if !reachableWithParity(mapRels, g.Source, g.Target, g.Valence == argdown.Attack) {
					violations = append(violations, fmt.Sprintf(
						"Grounded %s from %s to %s is not reflected in the map.",
						verb(g.Valence), g.Source, g.Target))
				}
			}
		}

		req.AddResult(pairOutcome(name, mapItem, recoItem, violations))
		return nil
	}}
}

func nodeInMap(doc *argdown.Document, node argdown.NodeRef) bool {
	if node.Kind == argdown.ArgumentNode {
		return doc.ArgumentByLabel(node.Label) != nil
	}
	return doc.PropositionByLabel(node.Label) != nil
}

func verb(v argdown.Valence) string {
	if v == argdown.Attack {
		return "attack"
	}
	return "support"
}
