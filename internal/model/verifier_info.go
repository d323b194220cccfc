package model

// ConfigOption declares one recognized config key of a verifier.
type ConfigOption struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Default     any    `json:"default"`
	Description string `json:"description"`
	Required    bool   `json:"required"`
}

// VerifierInfo is the registry view of a verifier: everything a client needs
// to call it correctly.
type VerifierInfo struct {
	Name                string         `json:"name"`
	Description         string         `json:"description"`
	InputTypes          []DType        `json:"input_types"`
	AllowedFilterRoles  []string       `json:"allowed_filter_roles"`
	ConfigOptions       []ConfigOption `json:"config_options"`
	IsCoherenceVerifier bool           `json:"is_coherence_verifier"`
}

// Option returns the declared option with the given name.
func (v VerifierInfo) Option(name string) (ConfigOption, bool) {
	for _, opt := range v.ConfigOptions {
		if opt.Name == name {
			return opt, true
		}
	}
	return ConfigOption{}, false
}
