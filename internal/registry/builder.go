// Package registry holds the closed set of named verifiers and the builders
// that assemble their pipelines. The set is fixed at construction; lookups
// are read-only and safe for concurrent use.
package registry

import (
	"sort"

	"github.com/debatelab/argdown-feedback-sub001/internal/model"
	"github.com/debatelab/argdown-feedback-sub001/internal/scorer"
	"github.com/debatelab/argdown-feedback-sub001/internal/verifier"
	"github.com/debatelab/argdown-feedback-sub001/internal/verifier/processing"
)

// OptionRequireUsedPremises toggles the used-premises check on
// reconstruction pipelines. Defaults to true.
const OptionRequireUsedPremises = "require_used_premises"

// Builder assembles the verification pipeline of one named verifier.
type Builder interface {
	// Info describes the verifier: name, inputs, filter roles, options.
	Info() model.VerifierInfo
	// Build returns the root handler for one request. The filter spec has
	// already been popped from the raw config and validated.
	Build(filters model.FilterSpec, cfg model.Config) (verifier.Handler, error)
	// ValidateConfig returns the raw config keys this verifier does not
	// declare, sorted.
	ValidateConfig(raw map[string]any) []string
	// ValidateFilters returns the filter roles this verifier does not allow,
	// sorted.
	ValidateFilters(roles []string) []string
}

// assembleFunc produces the family and coherence handlers plus the scorers
// of a verifier, with predicates compiled from the filter spec.
type assembleFunc func(spec model.FilterSpec, cfg model.Config) ([]verifier.Handler, []scorer.Scorer, error)

type builder struct {
	info     model.VerifierInfo
	assemble assembleFunc
}

func (b *builder) Info() model.VerifierInfo { return b.info }

// Build wires processing, checks, and scorer handlers into a root composite
// carrying the verifier's name.
func (b *builder) Build(filters model.FilterSpec, cfg model.Config) (verifier.Handler, error) {
	handlers, scorers, err := b.assemble(filters, cfg)
	if err != nil {
		return nil, err
	}
	root := verifier.NewComposite(b.info.Name)
	root.Append(processing.Default(b.info.InputTypes...))
	root.Append(handlers...)
	for _, s := range scorers {
		root.Append(scorer.Handler{Scorer: s})
	}
	return root, nil
}

func (b *builder) ValidateConfig(raw map[string]any) []string {
	var unknown []string
	for key := range raw {
		if _, ok := b.info.Option(key); !ok {
			unknown = append(unknown, key)
		}
	}
	sort.Strings(unknown)
	return unknown
}

func (b *builder) ValidateFilters(roles []string) []string {
	allowed := make(map[string]bool, len(b.info.AllowedFilterRoles))
	for _, role := range b.info.AllowedFilterRoles {
		allowed[role] = true
	}
	var bad []string
	for _, role := range roles {
		if !allowed[role] {
			bad = append(bad, role)
		}
	}
	sort.Strings(bad)
	return bad
}

// newBuilder finalizes a verifier definition: the filters option and one
// enable_<scorer_id> toggle per attached scorer are appended to the declared
// options.
func newBuilder(info model.VerifierInfo, scorers []scorer.Scorer, assemble assembleFunc) *builder {
	info.ConfigOptions = append(info.ConfigOptions, filtersOption())
	for _, s := range scorers {
		info.ConfigOptions = append(info.ConfigOptions, model.ConfigOption{
			Name:        model.EnableOptionName(s.ID()),
			Type:        "bool",
			Default:     false,
			Description: s.Description(),
		})
	}
	return &builder{info: info, assemble: assemble}
}

func filtersOption() model.ConfigOption {
	return model.ConfigOption{
		Name:        model.OptionFilters,
		Type:        "object",
		Description: "Mapping from filter role to a list of {key, value, regex} criteria.",
	}
}

func fromKeyOption() model.ConfigOption {
	return model.ConfigOption{
		Name:        model.OptionFromKey,
		Type:        "string",
		Default:     "from",
		Description: "Inference-data key listing the labels a conclusion is drawn from.",
	}
}

func nOption() model.ConfigOption {
	return model.ConfigOption{
		Name:        model.OptionN,
		Type:        "int",
		Default:     1,
		Description: "Minimum number of reconstructed arguments.",
	}
}

func usedPremisesOption() model.ConfigOption {
	return model.ConfigOption{
		Name:        OptionRequireUsedPremises,
		Type:        "bool",
		Default:     true,
		Description: "Require every premise to be referenced by a later inference step.",
	}
}

func formalizationKeyOption() model.ConfigOption {
	return model.ConfigOption{
		Name:        model.OptionFormalizationKey,
		Type:        "string",
		Default:     "formalization",
		Description: "Proposition-data key holding the first-order formalization.",
	}
}

func declarationsKeyOption() model.ConfigOption {
	return model.ConfigOption{
		Name:        model.OptionDeclarationsKey,
		Type:        "string",
		Default:     "declarations",
		Description: "Proposition-data key mapping symbols to their meanings.",
	}
}
