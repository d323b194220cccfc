// Package coherence checks pairs of artifacts against each other: a text
// annotation against a reconstruction or map, and an argument map against a
// reconstruction. Each handler locates the last matching item per role,
// stays silent when either artifact is missing, and records one Result
// referencing both items.
package coherence

import (
	"strings"

	"github.com/debatelab/argdown-feedback-sub001/internal/annotation"
	"github.com/debatelab/argdown-feedback-sub001/internal/argdown"
	"github.com/debatelab/argdown-feedback-sub001/internal/model"
	"github.com/debatelab/argdown-feedback-sub001/internal/verifier"
)

// Pair names, matching the coherence verifier names they serve.
const (
	ArgannoInfrecoPair = "arganno_infreco"
	ArgannoLogrecoPair = "arganno_logreco"
	ArgannoArgmapPair  = "arganno_argmap"
	ArgmapInfrecoPair  = "argmap_infreco"
	ArgmapLogrecoPair  = "argmap_logreco"
)

// Aspect suffixes.
const (
	ElementsAspect  = "elements"
	RelationsAspect = "relations"
)

// HandlerName builds the full name of a coherence handler.
func HandlerName(pair, aspect string) string {
	return "coherence." + pair + "." + aspect
}

func annoDocOf(item *model.PrimaryData) *annotation.Document {
	if item == nil {
		return nil
	}
	doc, _ := item.Data.(*annotation.Document)
	return doc
}

func argdownDocOf(item *model.PrimaryData) *argdown.Document {
	if item == nil {
		return nil
	}
	doc, _ := item.Data.(*argdown.Document)
	return doc
}

// elemRef names an annotation element for diagnostics.
func elemRef(el *annotation.Element) string {
	if id := el.ID(); id != "" {
		return "'" + id + "'"
	}
	return "(unnamed)"
}

// allRelations returns the sketched relations of a document together with
// the relations its premise-conclusion structures imply.
func allRelations(doc *argdown.Document) []*argdown.Relation {
	rels := make([]*argdown.Relation, 0, len(doc.Relations))
	rels = append(rels, doc.Relations...)
	rels = append(rels, argdown.GroundedRelations(doc)...)
	return rels
}

// hasEdge reports whether a relation of the wanted valence connects src to
// dst. Attack edges also match declared contradictions, in either direction.
func hasEdge(rels []*argdown.Relation, src, dst argdown.NodeRef, want argdown.Valence) bool {
	for _, rel := range rels {
		switch want {
		case argdown.Support:
			if rel.Valence == argdown.Support && rel.Source == src && rel.Target == dst {
				return true
			}
		case argdown.Attack:
			if rel.Valence == argdown.Attack && rel.Source == src && rel.Target == dst {
				return true
			}
			if rel.Valence == argdown.Contradict &&
				((rel.Source == src && rel.Target == dst) || (rel.Source == dst && rel.Target == src)) {
				return true
			}
		}
	}
	return false
}

// annotationIDsOf reads the annotation id list recorded on an argdown node's
// inline data.
func annotationIDsOf(data map[string]any) []string {
	if data == nil {
		return nil
	}
	ids, _ := argdown.StringList(data[argdown.AnnotationIDsKey])
	return ids
}

// recoStep is an annotation element resolved into a reconstruction: the
// argument, the pcs step, and the step's proposition.
type recoStep struct {
	arg  *argdown.Argument
	step argdown.PCSItem
	prop *argdown.Proposition
}

// resolveStep follows an element's argument_label and ref_reco_label into
// the reconstruction. ok is false when either label does not resolve.
func resolveStep(doc *argdown.Document, el *annotation.Element) (recoStep, bool) {
	arg := doc.ArgumentByLabel(el.ArgumentLabel())
	if arg == nil {
		return recoStep{}, false
	}
	step, found := arg.PCSItemByLabel(el.RefRecoLabel())
	if !found {
		return recoStep{}, false
	}
	return recoStep{arg: arg, step: step, prop: doc.PropositionByLabel(step.PropositionLabel)}, true
}

// backwardClosure collects the labels of all steps the given step
// transitively draws from, by walking from-lists backwards.
func backwardClosure(arg *argdown.Argument, start argdown.PCSItem, fromKey string) map[string]bool {
	closure := make(map[string]bool)
	queue := []argdown.PCSItem{start}
	for len(queue) > 0 {
		step := queue[0]
		queue = queue[1:]
		labels, _, _ := argdown.InferenceFrom(step.InferenceData, fromKey)
		for _, label := range labels {
			if closure[label] {
				continue
			}
			closure[label] = true
			if ref, found := arg.PCSItemByLabel(label); found {
				queue = append(queue, ref)
			}
		}
	}
	return closure
}

// reachableWithParity reports whether dst can be reached from src through
// the given relations with the wanted attack parity: support edges keep the
// parity, attack and contradiction edges flip it. States are visited at most
// once per parity, so cyclic maps terminate.
func reachableWithParity(rels []*argdown.Relation, src, dst argdown.NodeRef, wantOdd bool) bool {
	type state struct {
		node argdown.NodeRef
		odd  bool
	}
	visited := map[state]bool{{node: src, odd: false}: true}
	queue := []state{{node: src, odd: false}}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if cur.node == dst && cur.odd == wantOdd {
			return true
		}
		for _, rel := range rels {
			if rel.Source != cur.node {
				continue
			}
			next := state{node: rel.Target, odd: cur.odd != (rel.Valence != argdown.Support)}
			if visited[next] {
				continue
			}
			visited[next] = true
			queue = append(queue, next)
		}
	}
	return false
}

// pairOutcome builds the Result for a coherence handler over two items.
func pairOutcome(name string, first, second *model.PrimaryData, violations []string) model.Result {
	if len(violations) == 0 {
		return model.ValidResult(name, first.ID, second.ID)
	}
	return model.InvalidResult(name, strings.Join(violations, " "), first.ID, second.ID)
}

// locatePair finds the two artifacts a handler relates, nil when absent.
func locatePair(req *model.Request, firstPred, secondPred verifier.ItemPredicate) (first, second *model.PrimaryData) {
	return verifier.LastMatching(req, firstPred), verifier.LastMatching(req, secondPred)
}
