package registry

import (
	"sort"
	"strings"

	"github.com/debatelab/argdown-feedback-sub001/internal/model"
	"github.com/debatelab/argdown-feedback-sub001/internal/verifier/coherence"
)

// Verifier groups reported by the listing endpoint.
const (
	GroupCore         = "core"
	GroupCoherence    = "coherence"
	GroupContentCheck = "content_check"
)

// Registry maps verifier names to builders. The set is closed: New registers
// every verifier and nothing mutates the registry afterwards, so lookups
// need no locking.
type Registry struct {
	builders map[string]Builder
	order    []string
}

// New constructs the registry with the full verifier set.
func New() *Registry {
	r := &Registry{builders: make(map[string]Builder)}
	for _, b := range []*builder{
		argannoBuilder(),
		argmapBuilder(),
		infrecoBuilder(),
		logrecoBuilder(),
		hasAnnotationsBuilder(),
		hasArgdownBuilder(),
		argannoArgmapBuilder(),
		argannoRecoBuilder(ArgannoInfrecoName, coherence.ArgannoInfrecoPair, model.RoleInfreco),
		argannoRecoBuilder(ArgannoLogrecoName, coherence.ArgannoLogrecoPair, model.RoleLogreco),
		argmapRecoBuilder(ArgmapInfrecoName, coherence.ArgmapInfrecoPair, model.RoleInfreco),
		argmapRecoBuilder(ArgmapLogrecoName, coherence.ArgmapLogrecoPair, model.RoleLogreco),
		argannoArgmapLogrecoBuilder(),
	} {
		r.register(b)
	}
	return r
}

func (r *Registry) register(b Builder) {
	name := b.Info().Name
	if _, exists := r.builders[name]; exists {
		panic("registry: duplicate verifier " + name)
	}
	r.builders[name] = b
	r.order = append(r.order, name)
}

// Get returns the builder for name.
func (r *Registry) Get(name string) (Builder, bool) {
	b, ok := r.builders[name]
	return b, ok
}

// Names returns all verifier names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.builders))
	for name := range r.builders {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Infos returns the verifier descriptions in registration order.
func (r *Registry) Infos() []model.VerifierInfo {
	infos := make([]model.VerifierInfo, 0, len(r.order))
	for _, name := range r.order {
		infos = append(infos, r.builders[name].Info())
	}
	return infos
}

// Groups buckets the verifier names for the listing endpoint: content checks
// by their has_ prefix, coherence verifiers by their info flag, core
// otherwise. Names within a group are sorted.
func (r *Registry) Groups() map[string][]string {
	groups := map[string][]string{
		GroupCore:         {},
		GroupCoherence:    {},
		GroupContentCheck: {},
	}
	for name, b := range r.builders {
		switch {
		case strings.HasPrefix(name, "has_"):
			groups[GroupContentCheck] = append(groups[GroupContentCheck], name)
		case b.Info().IsCoherenceVerifier:
			groups[GroupCoherence] = append(groups[GroupCoherence], name)
		default:
			groups[GroupCore] = append(groups[GroupCore], name)
		}
	}
	for _, names := range groups {
		sort.Strings(names)
	}
	return groups
}
