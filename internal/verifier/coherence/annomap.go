package coherence

import (
	"fmt"

	"github.com/debatelab/argdown-feedback-sub001/internal/argdown"
	"github.com/debatelab/argdown-feedback-sub001/internal/model"
	"github.com/debatelab/argdown-feedback-sub001/internal/verifier"
)

// mapNode resolves a label against the map, claims first.
func mapNode(doc *argdown.Document, label string) (argdown.NodeRef, bool) {
	if doc.PropositionByLabel(label) != nil {
		return argdown.NodeRef{Label: label, Kind: argdown.ClaimNode}, true
	}
	if doc.ArgumentByLabel(label) != nil {
		return argdown.NodeRef{Label: label, Kind: argdown.ArgumentNode}, true
	}
	return argdown.NodeRef{}, false
}

// ArgannoArgmapElements ties annotation elements to map nodes: every
// proposition's argument_label must name a claim or argument of the map,
// every annotation id recorded on a map node must exist, and no two map
// nodes may claim the same id.
func ArgannoArgmapElements(annoPred, mapPred verifier.ItemPredicate) verifier.Handler {
	name := HandlerName(ArgannoArgmapPair, ElementsAspect)
	return &verifier.Func{HandlerName: name, Fn: func(req *model.Request) error {
		annoItem, mapItem := locatePair(req, annoPred, mapPred)
		anno, argmap := annoDocOf(annoItem), argdownDocOf(mapItem)
		if anno == nil || argmap == nil {
			return nil
		}

		var violations []string
		for _, el := range anno.Propositions() {
			ref := elemRef(el)
			albl := el.ArgumentLabel()
			if albl == "" {
				violations = append(violations, fmt.Sprintf(
					"Proposition %s has no argument_label.", ref))
				continue
			}
			if _, ok := mapNode(argmap, albl); !ok {
				violations = append(violations, fmt.Sprintf(
					"Argument label '%s' of proposition %s does not appear in the map.", albl, ref))
			}
		}

		claimed := make(map[string]string)
		record := func(node string, ids []string) {
			for _, id := range ids {
				if anno.ByID(id) == nil {
					violations = append(violations, fmt.Sprintf(
						"Annotation id '%s' on %s does not exist in the annotation.", id, node))
				}
				if prev, dup := claimed[id]; dup && prev != node {
					violations = append(violations, fmt.Sprintf(
						"Annotation id '%s' is referenced by both %s and %s.", id, prev, node))
					continue
				}
				claimed[id] = node
			}
		}
		for _, p := range argmap.Propositions {
			record("'["+p.Label+"]'", annotationIDsOf(p.Data))
		}
		for _, a := range argmap.Arguments {
			record("'<"+a.Label+">'", annotationIDsOf(a.Data))
		}

		req.AddResult(pairOutcome(name, annoItem, mapItem, violations))
		return nil
	}}
}

// ArgannoArgmapRelations checks that every annotated supports or attacks
// edge appears as a map relation between the corresponding nodes.
func ArgannoArgmapRelations(annoPred, mapPred verifier.ItemPredicate) verifier.Handler {
	name := HandlerName(ArgannoArgmapPair, RelationsAspect)
	return &verifier.Func{HandlerName: name, Fn: func(req *model.Request) error {
		annoItem, mapItem := locatePair(req, annoPred, mapPred)
		anno, argmap := annoDocOf(annoItem), argdownDocOf(mapItem)
		if anno == nil || argmap == nil {
			return nil
		}

		nodeOf := func(id string) (argdown.NodeRef, bool) {
			el := anno.ByID(id)
			if el == nil || el.ArgumentLabel() == "" {
				return argdown.NodeRef{}, false
			}
			return mapNode(argmap, el.ArgumentLabel())
		}
		rels := allRelations(argmap)

		var violations []string
		for _, el := range anno.Propositions() {
			src, ok := nodeOf(el.ID())
			if !ok {
				continue
			}
			for _, tgt := range el.Supports() {
				dst, ok := nodeOf(tgt)
				if !ok {
					continue
				}
				if !hasEdge(rels, src, dst, argdown.Support) {
					violations = append(violations, fmt.Sprintf(
						"Annotated support from '%s' to '%s' is not mirrored by a map relation from %s to %s.",
						el.ID(), tgt, src, dst))
				}
			}
			for _, tgt := range el.Attacks() {
				dst, ok := nodeOf(tgt)
				if !ok {
					continue
				}
				if !hasEdge(rels, src, dst, argdown.Attack) {
					violations = append(violations, fmt.Sprintf(
						"Annotated attack from '%s' to '%s' is not mirrored by a map relation from %s to %s.",
						el.ID(), tgt, src, dst))
				}
			}
		}

		req.AddResult(pairOutcome(name, annoItem, mapItem, violations))
		return nil
	}}
}
