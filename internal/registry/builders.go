package registry

import (
	"github.com/debatelab/argdown-feedback-sub001/internal/argdown"
	"github.com/debatelab/argdown-feedback-sub001/internal/model"
	"github.com/debatelab/argdown-feedback-sub001/internal/scorer"
	"github.com/debatelab/argdown-feedback-sub001/internal/verifier"
	"github.com/debatelab/argdown-feedback-sub001/internal/verifier/arganno"
	"github.com/debatelab/argdown-feedback-sub001/internal/verifier/argmap"
	"github.com/debatelab/argdown-feedback-sub001/internal/verifier/coherence"
	"github.com/debatelab/argdown-feedback-sub001/internal/verifier/infreco"
	"github.com/debatelab/argdown-feedback-sub001/internal/verifier/logreco"
	"github.com/debatelab/argdown-feedback-sub001/internal/verifier/processing"
)

// Names of the registered verifiers.
const (
	ArgannoName              = "arganno"
	ArgmapName               = "argmap"
	InfrecoName              = "infreco"
	LogrecoName              = "logreco"
	HasAnnotationsName       = "has_annotations"
	HasArgdownName           = "has_argdown"
	ArgannoArgmapName        = "arganno_argmap"
	ArgannoInfrecoName       = "arganno_infreco"
	ArgannoLogrecoName       = "arganno_logreco"
	ArgmapInfrecoName        = "argmap_infreco"
	ArgmapLogrecoName        = "argmap_logreco"
	ArgannoArgmapLogrecoName = "arganno_argmap_logreco"
)

// Scorer sets per check family. The predicate scopes each scorer to the
// items its role selects.

func annoScorers(pred verifier.ItemPredicate) []scorer.Scorer {
	return []scorer.Scorer{
		scorer.AnnotationCoverage{Pred: pred},
		scorer.AnnotationRelations{Pred: pred},
	}
}

func mapScorers(pred verifier.ItemPredicate) []scorer.Scorer {
	return []scorer.Scorer{
		scorer.MapSize{Pred: pred},
		scorer.MapDensity{Pred: pred},
		scorer.MapFaithfulness{Pred: pred},
	}
}

func recoScorers(pred verifier.ItemPredicate) []scorer.Scorer {
	return []scorer.Scorer{
		scorer.SubargumentCount{Pred: pred},
		scorer.PremiseCount{Pred: pred},
	}
}

func logicScorers(pred verifier.ItemPredicate) []scorer.Scorer {
	return append(recoScorers(pred),
		scorer.FormalizationFaithfulness{Pred: pred},
		scorer.PredicateLogicUsage{Pred: pred},
		scorer.NonTriviality{Pred: pred},
	)
}

// recoLabels exposes the argument labels and pcs step labels of the last
// matching reconstruction to the annotation label checks. ok=false when no
// reconstruction is available, which skips those checks.
func recoLabels(recoPred verifier.ItemPredicate) arganno.LabelProvider {
	return func(req *model.Request) (map[string]map[string]bool, bool) {
		item := verifier.LastMatching(req, recoPred)
		if item == nil {
			return nil, false
		}
		doc, ok := item.Data.(*argdown.Document)
		if !ok || doc == nil {
			return nil, false
		}
		labels := make(map[string]map[string]bool, len(doc.Arguments))
		for _, a := range doc.Arguments {
			steps := make(map[string]bool, len(a.PCS))
			for _, step := range a.PCS {
				steps[step.Label] = true
			}
			labels[a.Label] = steps
		}
		return labels, true
	}
}

func recoOptions(family string, requireUnique bool, cfg model.Config) infreco.Options {
	return infreco.Options{
		Family:           family,
		RequireUnique:    requireUnique,
		SkipUsedPremises: !cfg.ExtraBool(OptionRequireUsedPremises, true),
	}
}

func argannoBuilder() *builder {
	info := model.VerifierInfo{
		Name:               ArgannoName,
		Description:        "Checks an argumentative text annotation for structural soundness.",
		InputTypes:         []model.DType{model.DTypeXML},
		AllowedFilterRoles: []string{model.RoleArganno},
	}
	return newBuilder(info, annoScorers(nil),
		func(spec model.FilterSpec, cfg model.Config) ([]verifier.Handler, []scorer.Scorer, error) {
			pred, err := verifier.PredicateFor(spec, model.RoleArganno)
			if err != nil {
				return nil, nil, err
			}
			return []verifier.Handler{arganno.Composite(pred)}, annoScorers(pred), nil
		})
}

func argmapBuilder() *builder {
	info := model.VerifierInfo{
		Name:               ArgmapName,
		Description:        "Checks an informal argument map for complete, uniquely labeled nodes.",
		InputTypes:         []model.DType{model.DTypeArgdown},
		AllowedFilterRoles: []string{model.RoleArgmap},
	}
	return newBuilder(info, mapScorers(nil),
		func(spec model.FilterSpec, cfg model.Config) ([]verifier.Handler, []scorer.Scorer, error) {
			pred, err := verifier.PredicateFor(spec, model.RoleArgmap)
			if err != nil {
				return nil, nil, err
			}
			return []verifier.Handler{argmap.Composite(pred)}, mapScorers(pred), nil
		})
}

func infrecoBuilder() *builder {
	info := model.VerifierInfo{
		Name:               InfrecoName,
		Description:        "Checks a premise-conclusion reconstruction for structural soundness.",
		InputTypes:         []model.DType{model.DTypeArgdown},
		AllowedFilterRoles: []string{model.RoleInfreco},
		ConfigOptions: []model.ConfigOption{
			fromKeyOption(), nOption(), usedPremisesOption(),
		},
	}
	return newBuilder(info, recoScorers(nil),
		func(spec model.FilterSpec, cfg model.Config) ([]verifier.Handler, []scorer.Scorer, error) {
			pred, err := verifier.PredicateFor(spec, model.RoleInfreco)
			if err != nil {
				return nil, nil, err
			}
			comp := infreco.Composite(recoOptions(infreco.FamilyName, true, cfg), pred)
			return []verifier.Handler{comp}, recoScorers(pred), nil
		})
}

func logrecoBuilder() *builder {
	info := model.VerifierInfo{
		Name:               LogrecoName,
		Description:        "Checks a logical reconstruction, its formalizations, and their deductive validity.",
		InputTypes:         []model.DType{model.DTypeArgdown},
		AllowedFilterRoles: []string{model.RoleLogreco},
		ConfigOptions: []model.ConfigOption{
			fromKeyOption(), nOption(), usedPremisesOption(),
			formalizationKeyOption(), declarationsKeyOption(),
		},
	}
	return newBuilder(info, logicScorers(nil),
		func(spec model.FilterSpec, cfg model.Config) ([]verifier.Handler, []scorer.Scorer, error) {
			pred, err := verifier.PredicateFor(spec, model.RoleLogreco)
			if err != nil {
				return nil, nil, err
			}
			comp := logreco.Composite(logreco.Options{
				RequireUnique:    true,
				SkipUsedPremises: !cfg.ExtraBool(OptionRequireUsedPremises, true),
			}, pred)
			return []verifier.Handler{comp}, logicScorers(pred), nil
		})
}

func hasAnnotationsBuilder() *builder {
	info := model.VerifierInfo{
		Name:        HasAnnotationsName,
		Description: "Checks that the input carries annotation content.",
		InputTypes:  []model.DType{model.DTypeXML},
	}
	return newBuilder(info, nil,
		func(spec model.FilterSpec, cfg model.Config) ([]verifier.Handler, []scorer.Scorer, error) {
			return []verifier.Handler{processing.HasAnnotations()}, nil, nil
		})
}

func hasArgdownBuilder() *builder {
	info := model.VerifierInfo{
		Name:        HasArgdownName,
		Description: "Checks that the input carries argdown content.",
		InputTypes:  []model.DType{model.DTypeArgdown},
	}
	return newBuilder(info, nil,
		func(spec model.FilterSpec, cfg model.Config) ([]verifier.Handler, []scorer.Scorer, error) {
			return []verifier.Handler{processing.HasArgdown()}, nil, nil
		})
}

func argannoArgmapBuilder() *builder {
	info := model.VerifierInfo{
		Name:                ArgannoArgmapName,
		Description:         "Checks an annotation and an argument map for mutual coherence.",
		InputTypes:          []model.DType{model.DTypeXML, model.DTypeArgdown},
		AllowedFilterRoles:  []string{model.RoleArganno, model.RoleArgmap},
		IsCoherenceVerifier: true,
	}
	return newBuilder(info, append(annoScorers(nil), mapScorers(nil)...),
		func(spec model.FilterSpec, cfg model.Config) ([]verifier.Handler, []scorer.Scorer, error) {
			annoPred, err := verifier.PredicateFor(spec, model.RoleArganno)
			if err != nil {
				return nil, nil, err
			}
			mapPred, err := verifier.PredicateFor(spec, model.RoleArgmap)
			if err != nil {
				return nil, nil, err
			}
			handlers := []verifier.Handler{
				arganno.Composite(annoPred),
				argmap.Composite(mapPred),
				coherence.ArgannoArgmapElements(annoPred, mapPred),
				coherence.ArgannoArgmapRelations(annoPred, mapPred),
			}
			return handlers, append(annoScorers(annoPred), mapScorers(mapPred)...), nil
		})
}

func argannoRecoBuilder(name, pair, recoRole string) *builder {
	logical := recoRole == model.RoleLogreco
	artifact := "reconstruction"
	options := []model.ConfigOption{fromKeyOption(), nOption(), usedPremisesOption()}
	if logical {
		artifact = "logical reconstruction"
		options = append(options, formalizationKeyOption(), declarationsKeyOption())
	}
	scorerSet := recoScorers
	if logical {
		scorerSet = logicScorers
	}
	info := model.VerifierInfo{
		Name:                name,
		Description:         "Checks an annotation and a " + artifact + " for mutual coherence.",
		InputTypes:          []model.DType{model.DTypeXML, model.DTypeArgdown},
		AllowedFilterRoles:  []string{model.RoleArganno, recoRole},
		ConfigOptions:       options,
		IsCoherenceVerifier: true,
	}
	return newBuilder(info, append(annoScorers(nil), scorerSet(nil)...),
		func(spec model.FilterSpec, cfg model.Config) ([]verifier.Handler, []scorer.Scorer, error) {
			annoPred, err := verifier.PredicateFor(spec, model.RoleArganno)
			if err != nil {
				return nil, nil, err
			}
			recoPred, err := verifier.PredicateFor(spec, recoRole)
			if err != nil {
				return nil, nil, err
			}
			anno := arganno.Composite(annoPred)
			anno.Append(
				arganno.ArgumentLabelValidity(annoPred, recoLabels(recoPred)),
				arganno.RefRecoLabelValidity(annoPred, recoLabels(recoPred)),
			)
			var reco verifier.Handler
			if logical {
				reco = logreco.Composite(logreco.Options{
					SkipUsedPremises: !cfg.ExtraBool(OptionRequireUsedPremises, true),
				}, recoPred)
			} else {
				reco = infreco.Composite(recoOptions(infreco.FamilyName, false, cfg), recoPred)
			}
			handlers := []verifier.Handler{
				anno,
				reco,
				coherence.ArgannoRecoElements(pair, annoPred, recoPred),
				coherence.ArgannoRecoRelations(pair, annoPred, recoPred),
			}
			return handlers, append(annoScorers(annoPred), scorerSet(recoPred)...), nil
		})
}

func argmapRecoBuilder(name, pair, recoRole string) *builder {
	logical := recoRole == model.RoleLogreco
	artifact := "reconstruction"
	options := []model.ConfigOption{fromKeyOption(), nOption(), usedPremisesOption()}
	if logical {
		artifact = "logical reconstruction"
		options = append(options, formalizationKeyOption(), declarationsKeyOption())
	}
	scorerSet := recoScorers
	if logical {
		scorerSet = logicScorers
	}
	info := model.VerifierInfo{
		Name:                name,
		Description:         "Checks an argument map and a " + artifact + " for mutual coherence.",
		InputTypes:          []model.DType{model.DTypeArgdown},
		AllowedFilterRoles:  []string{model.RoleArgmap, recoRole},
		ConfigOptions:       options,
		IsCoherenceVerifier: true,
	}
	return newBuilder(info, append(mapScorers(nil), scorerSet(nil)...),
		func(spec model.FilterSpec, cfg model.Config) ([]verifier.Handler, []scorer.Scorer, error) {
			mapPred, err := verifier.PredicateFor(spec, model.RoleArgmap)
			if err != nil {
				return nil, nil, err
			}
			recoPred, err := verifier.PredicateFor(spec, recoRole)
			if err != nil {
				return nil, nil, err
			}
			var reco verifier.Handler
			if logical {
				reco = logreco.Composite(logreco.Options{
					SkipUsedPremises: !cfg.ExtraBool(OptionRequireUsedPremises, true),
				}, recoPred)
			} else {
				reco = infreco.Composite(recoOptions(infreco.FamilyName, false, cfg), recoPred)
			}
			handlers := []verifier.Handler{
				argmap.Composite(mapPred),
				reco,
				coherence.ArgmapRecoElements(pair, mapPred, recoPred),
				coherence.ArgmapRecoRelations(pair, mapPred, recoPred, logical),
			}
			return handlers, append(mapScorers(mapPred), scorerSet(recoPred)...), nil
		})
}

func argannoArgmapLogrecoBuilder() *builder {
	info := model.VerifierInfo{
		Name:        ArgannoArgmapLogrecoName,
		Description: "Checks annotation, argument map, and logical reconstruction for pairwise coherence.",
		InputTypes:  []model.DType{model.DTypeXML, model.DTypeArgdown},
		AllowedFilterRoles: []string{
			model.RoleArganno, model.RoleArgmap, model.RoleLogreco,
		},
		ConfigOptions: []model.ConfigOption{
			fromKeyOption(), nOption(), usedPremisesOption(),
			formalizationKeyOption(), declarationsKeyOption(),
		},
		IsCoherenceVerifier: true,
	}
	scorers := append(append(annoScorers(nil), mapScorers(nil)...), logicScorers(nil)...)
	return newBuilder(info, scorers,
		func(spec model.FilterSpec, cfg model.Config) ([]verifier.Handler, []scorer.Scorer, error) {
			annoPred, err := verifier.PredicateFor(spec, model.RoleArganno)
			if err != nil {
				return nil, nil, err
			}
			mapPred, err := verifier.PredicateFor(spec, model.RoleArgmap)
			if err != nil {
				return nil, nil, err
			}
			recoPred, err := verifier.PredicateFor(spec, model.RoleLogreco)
			if err != nil {
				return nil, nil, err
			}
			anno := arganno.Composite(annoPred)
			anno.Append(
				arganno.ArgumentLabelValidity(annoPred, recoLabels(recoPred)),
				arganno.RefRecoLabelValidity(annoPred, recoLabels(recoPred)),
			)
			reco := logreco.Composite(logreco.Options{
				SkipUsedPremises: !cfg.ExtraBool(OptionRequireUsedPremises, true),
			}, recoPred)
			handlers := []verifier.Handler{
				anno,
				argmap.Composite(mapPred),
				reco,
				coherence.ArgannoArgmapElements(annoPred, mapPred),
				coherence.ArgannoArgmapRelations(annoPred, mapPred),
				coherence.ArgannoRecoElements(coherence.ArgannoLogrecoPair, annoPred, recoPred),
				coherence.ArgannoRecoRelations(coherence.ArgannoLogrecoPair, annoPred, recoPred),
				coherence.ArgmapRecoElements(coherence.ArgmapLogrecoPair, mapPred, recoPred),
				coherence.ArgmapRecoRelations(coherence.ArgmapLogrecoPair, mapPred, recoPred, true),
			}
			scoped := append(append(annoScorers(annoPred), mapScorers(mapPred)...), logicScorers(recoPred)...)
			return handlers, scoped, nil
		})
}
