package model

import "strings"

// Names of the typed config options shared across verifiers. Scorer toggles
// follow the "enable_<scorer_id>" convention and the filters key is consumed
// by the dispatcher before the builder runs.
const (
	OptionFromKey          = "from_key"
	OptionFormalizationKey = "formalization_key"
	OptionDeclarationsKey  = "declarations_key"
	OptionN                = "N"
	OptionFilters          = "filters"

	enablePrefix = "enable_"
)

// Config holds the per-request options resolved from the client request
// against a verifier's declared option set.
type Config struct {
	// FromKey names the inference-data entry listing the PCS labels a
	// conclusion is drawn from.
	FromKey string
	// FormalizationKey names the proposition-data entry holding a first-order
	// formula.
	FormalizationKey string
	// DeclarationsKey names the proposition-data entry mapping symbols to
	// meanings.
	DeclarationsKey string
	// N is the minimum argument count required by reconstruction checks.
	N int
	// Enabled holds the per-scorer activation toggles, keyed by scorer id.
	Enabled map[string]bool
	// Extra retains builder-declared options outside the typed set.
	Extra map[string]any
}

// DefaultConfig returns the option defaults shared by all verifiers.
func DefaultConfig() Config {
	return Config{
		FromKey:          "from",
		FormalizationKey: "formalization",
		DeclarationsKey:  "declarations",
		N:                1,
		Enabled:          make(map[string]bool),
		Extra:            make(map[string]any),
	}
}

// ScorerEnabled reports whether the scorer toggle is set.
func (c Config) ScorerEnabled(id string) bool {
	return c.Enabled[id]
}

// ExtraBool reads a boolean from the free-form options, falling back to def.
func (c Config) ExtraBool(key string, def bool) bool {
	if v, ok := c.Extra[key]; ok {
		if b, ok := v.(bool); ok {
			return b
		}
	}
	return def
}

// ExtraString reads a string from the free-form options, falling back to def.
func (c Config) ExtraString(key, def string) string {
	if v, ok := c.Extra[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return def
}

// ResolveConfig merges the raw request config into the defaults declared by
// opts. The filters key is ignored here. The returned slice lists keys whose
// values did not match the declared primitive type; those keys keep their
// declared defaults.
func ResolveConfig(raw map[string]any, opts []ConfigOption) (Config, []string) {
	cfg := DefaultConfig()
	var badTyped []string

	apply := func(opt ConfigOption, value any) bool {
		switch opt.Type {
		case "string":
			s, ok := value.(string)
			if !ok {
				return false
			}
			cfg.setString(opt.Name, s)
		case "int":
			n, ok := asInt(value)
			if !ok {
				return false
			}
			cfg.setInt(opt.Name, n)
		case "bool":
			b, ok := value.(bool)
			if !ok {
				return false
			}
			cfg.setBool(opt.Name, b)
		default:
			cfg.Extra[opt.Name] = value
		}
		return true
	}

	for _, opt := range opts {
		if opt.Default != nil {
			apply(opt, opt.Default)
		}
		value, present := raw[opt.Name]
		if !present {
			continue
		}
		if !apply(opt, value) {
			badTyped = append(badTyped, opt.Name)
		}
	}
	return cfg, badTyped
}

func (c *Config) setString(name, value string) {
	switch name {
	case OptionFromKey:
		c.FromKey = value
	case OptionFormalizationKey:
		c.FormalizationKey = value
	case OptionDeclarationsKey:
		c.DeclarationsKey = value
	default:
		c.Extra[name] = value
	}
}

func (c *Config) setInt(name string, value int) {
	switch name {
	case OptionN:
		c.N = value
	default:
		c.Extra[name] = value
	}
}

func (c *Config) setBool(name string, value bool) {
	if id, ok := ScorerToggle(name); ok {
		c.Enabled[id] = value
		return
	}
	c.Extra[name] = value
}

// ScorerToggle extracts the scorer id from an "enable_<scorer_id>" option
// name.
func ScorerToggle(option string) (string, bool) {
	if strings.HasPrefix(option, enablePrefix) && len(option) > len(enablePrefix) {
		return option[len(enablePrefix):], true
	}
	return "", false
}

// EnableOptionName returns the config option name toggling the given scorer.
func EnableOptionName(scorerID string) string {
	return enablePrefix + scorerID
}

func asInt(value any) (int, bool) {
	switch v := value.(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		// JSON numbers decode as float64; accept whole values only.
		if v == float64(int(v)) {
			return int(v), true
		}
		return 0, false
	default:
		return 0, false
	}
}
