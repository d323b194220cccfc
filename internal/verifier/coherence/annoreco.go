package coherence

import (
	"fmt"

	"github.com/debatelab/argdown-feedback-sub001/internal/argdown"
	"github.com/debatelab/argdown-feedback-sub001/internal/model"
	"github.com/debatelab/argdown-feedback-sub001/internal/verifier"
)

// ArgannoRecoElements ties annotation elements to reconstruction steps:
// every proposition's argument_label and ref_reco_label must resolve, the
// resolved step must list the proposition's id among its annotation_ids,
// every recorded annotation id must exist, and no two reconstruction
// propositions may claim the same id.
func ArgannoRecoElements(pair string, annoPred, recoPred verifier.ItemPredicate) verifier.Handler {
	name := HandlerName(pair, ElementsAspect)
	return &verifier.Func{HandlerName: name, Fn: func(req *model.Request) error {
		annoItem, recoItem := locatePair(req, annoPred, recoPred)
		anno, reco := annoDocOf(annoItem), argdownDocOf(recoItem)
		if anno == nil || reco == nil {
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
			arg := reco.ArgumentByLabel(albl)
			if arg == nil {
				violations = append(violations, fmt.Sprintf(
					"Argument label '%s' of proposition %s does not appear in the reconstruction.", albl, ref))
				continue
			}
			rlbl := el.RefRecoLabel()
			if rlbl == "" {
				violations = append(violations, fmt.Sprintf(
					"Proposition %s has no ref_reco_label.", ref))
				continue
			}
			step, found := arg.PCSItemByLabel(rlbl)
			if !found {
				violations = append(violations, fmt.Sprintf(
					"Ref reco label '%s' of proposition %s does not name a step of argument '%s'.", rlbl, ref, albl))
				continue
			}
			if el.ID() == "" {
				continue
			}
			prop := reco.PropositionByLabel(step.PropositionLabel)
			if !containsString(annotationIDsOf(propData(prop)), el.ID()) {
				violations = append(violations, fmt.Sprintf(
					"Step (%s) of argument '%s' does not list annotation id '%s'.", rlbl, albl, el.ID()))
			}
		}

		claimed := make(map[string]string)
		for _, p := range reco.Propositions {
			for _, id := range annotationIDsOf(p.Data) {
				if anno.ByID(id) == nil {
					violations = append(violations, fmt.Sprintf(
						"Annotation id '%s' on proposition '%s' does not exist in the annotation.", id, p.Label))
				}
				if prev, dup := claimed[id]; dup && prev != p.Label {
					violations = append(violations, fmt.Sprintf(
						"Annotation id '%s' is referenced by both '%s' and '%s'.", id, prev, p.Label))
					continue
				}
				claimed[id] = p.Label
			}
		}

		req.AddResult(pairOutcome(name, annoItem, recoItem, violations))
		return nil
	}}
}

func propData(p *argdown.Proposition) map[string]any {
	if p == nil {
		return nil
	}
	return p.Data
}

func containsString(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}

// ArgannoRecoRelations checks that annotated dialectics are mirrored by the
// reconstruction: a supports edge within one argument must have a backward
// from-path, a supports edge across arguments must have a support relation,
// and an attacks edge must have an attack relation between the arguments.
func ArgannoRecoRelations(pair string, annoPred, recoPred verifier.ItemPredicate) verifier.Handler {
	name := HandlerName(pair, RelationsAspect)
	return &verifier.Func{HandlerName: name, Fn: func(req *model.Request) error {
		annoItem, recoItem := locatePair(req, annoPred, recoPred)
		anno, reco := annoDocOf(annoItem), argdownDocOf(recoItem)
		if anno == nil || reco == nil {
			return nil
		}

		resolved := make(map[string]recoStep)
		for _, el := range anno.Propositions() {
			if el.ID() == "" {
				continue
			}
			if step, ok := resolveStep(reco, el); ok {
				resolved[el.ID()] = step
			}
		}
		rels := allRelations(reco)
		fromKey := req.Config.FromKey

		var violations []string
		for _, el := range anno.Propositions() {
			src, ok := resolved[el.ID()]
			if !ok {
				continue
			}
			for _, tgt := range el.Supports() {
				dst, ok := resolved[tgt]
				if !ok {
					continue
				}
				if src.arg == dst.arg {
					closure := backwardClosure(dst.arg, dst.step, fromKey)
					if !closure[src.step.Label] {
						violations = append(violations, fmt.Sprintf(
							"Annotated support from '%s' to '%s' has no inferential path in argument '%s'.",
							el.ID(), tgt, src.arg.Label))
					}
					continue
				}
				if !hasEdge(rels, argNode(src.arg), argNode(dst.arg), argdown.Support) {
					violations = append(violations, fmt.Sprintf(
						"Annotated support from '%s' to '%s' is not backed by a support relation between arguments '%s' and '%s'.",
						el.ID(), tgt, src.arg.Label, dst.arg.Label))
				}
			}
			for _, tgt := range el.Attacks() {
				dst, ok := resolved[tgt]
				if !ok {
					continue
				}
				if src.arg == dst.arg {
					violations = append(violations, fmt.Sprintf(
						"Annotated attack from '%s' to '%s' stays within argument '%s'.",
						el.ID(), tgt, src.arg.Label))
					continue
				}
				if !hasEdge(rels, argNode(src.arg), argNode(dst.arg), argdown.Attack) {
					violations = append(violations, fmt.Sprintf(
						"Annotated attack from '%s' to '%s' is not backed by an attack relation between arguments '%s' and '%s'.",
						el.ID(), tgt, src.arg.Label, dst.arg.Label))
				}
			}
		}

		req.AddResult(pairOutcome(name, annoItem, recoItem, violations))
		return nil
	}}
}

func argNode(a *argdown.Argument) argdown.NodeRef {
	return argdown.NodeRef{Label: a.Label, Kind: argdown.ArgumentNode}
}
