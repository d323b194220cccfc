package argdown

// GroundedRelations derives the dialectical relations implied by the
// premise-conclusion structures of a document. An argument supports whatever
// its final conclusion restates and attacks whatever its final conclusion
// negates; a claim supports an argument when it restates one of its premises
// and attacks it when it negates one. Claim-to-claim edges are never
// grounded. The result is deterministic and deduplicated per
// (source, target, valence).
func GroundedRelations(d *Document) []*Relation {
	g := groundedBuilder{doc: d, seen: make(map[string]bool)}

	for _, a := range d.Arguments {
		fcProp := d.finalConclusionProp(a)
		if fcProp == nil {
			continue
		}
		src := NodeRef{Label: a.Label, Kind: ArgumentNode}

		for _, b := range d.Arguments {
			if b == a {
				continue
			}
			tgt := NodeRef{Label: b.Label, Kind: ArgumentNode}
			for _, premise := range d.premiseProps(b) {
				if Equivalent(fcProp, premise) {
					g.add(src, tgt, Support)
				}
				if d.Contradictory(fcProp, premise) {
					g.add(src, tgt, Attack)
				}
			}
		}

		for _, prop := range d.Propositions {
			tgt := NodeRef{Label: prop.Label, Kind: ClaimNode}
			if Equivalent(fcProp, prop) {
				g.add(src, tgt, Support)
			}
			if d.Contradictory(fcProp, prop) {
				g.add(src, tgt, Attack)
			}
		}
	}

	for _, prop := range d.Propositions {
		src := NodeRef{Label: prop.Label, Kind: ClaimNode}
		for _, b := range d.Arguments {
			tgt := NodeRef{Label: b.Label, Kind: ArgumentNode}
			for _, premise := range d.premiseProps(b) {
				if Equivalent(prop, premise) {
					g.add(src, tgt, Support)
				}
				if d.Contradictory(prop, premise) {
					g.add(src, tgt, Attack)
				}
			}
		}
	}

	return g.out
}

type groundedBuilder struct {
	doc  *Document
	seen map[string]bool
	out  []*Relation
}

func (g *groundedBuilder) add(src, tgt NodeRef, valence Valence) {
	key := src.String() + "|" + tgt.String() + "|" + valence.String()
	if g.seen[key] {
		return
	}
	g.seen[key] = true
	g.out = append(g.out, &Relation{Source: src, Target: tgt, Valence: valence, Dialectics: Grounded})
}

func (d *Document) finalConclusionProp(a *Argument) *Proposition {
	fc, ok := a.FinalConclusion()
	if !ok || !fc.IsConclusion {
		return nil
	}
	return d.PropositionByLabel(fc.PropositionLabel)
}

func (d *Document) premiseProps(a *Argument) []*Proposition {
	var out []*Proposition
	for _, item := range a.Premises() {
		if p := d.PropositionByLabel(item.PropositionLabel); p != nil {
			out = append(out, p)
		}
	}
	return out
}
