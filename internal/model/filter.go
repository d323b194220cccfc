package model

import (
	"fmt"
	"sort"
)

// Filter roles. A role selects the artifacts a check family applies to.
const (
	RoleArganno = "arganno"
	RoleArgmap  = "argmap"
	RoleInfreco = "infreco"
	RoleLogreco = "logreco"
)

// KnownRole reports whether role is one of the four filter roles.
func KnownRole(role string) bool {
	switch role {
	case RoleArganno, RoleArgmap, RoleInfreco, RoleLogreco:
		return true
	default:
		return false
	}
}

// RoleDType returns the artifact type a role applies to: arganno selects xml
// items, every other role selects argdown items.
func RoleDType(role string) DType {
	if role == RoleArganno {
		return DTypeXML
	}
	return DTypeArgdown
}

// Criterion is one metadata condition of a role filter. Value is compared
// against metadata[Key], literally or as a regular expression.
type Criterion struct {
	Key   string `json:"key"`
	Value string `json:"value"`
	Regex bool   `json:"regex,omitempty"`
}

// RoleFilter pairs a role with the criteria an item must satisfy to be
// checked under that role.
type RoleFilter struct {
	Role     string
	Criteria []Criterion
}

// FilterSpec is an ordered list of role filters decoded from the request's
// filters config value.
type FilterSpec []RoleFilter

// Roles returns the filtered role names in spec order.
func (s FilterSpec) Roles() []string {
	out := make([]string, 0, len(s))
	for _, rf := range s {
		out = append(out, rf.Role)
	}
	return out
}

// ForRole returns the criteria configured for role.
func (s FilterSpec) ForRole(role string) ([]Criterion, bool) {
	for _, rf := range s {
		if rf.Role == role {
			return rf.Criteria, true
		}
	}
	return nil, false
}

// DecodeFilterSpec converts the raw filters config value, a mapping from
// role name to a list of {key, value, regex} records, into a FilterSpec.
// Roles are ordered alphabetically for determinism since JSON objects carry
// no order.
func DecodeFilterSpec(raw any) (FilterSpec, error) {
	if raw == nil {
		return nil, nil
	}
	byRole, ok := raw.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("filters must map role names to criteria lists, got %T", raw)
	}
	roles := make([]string, 0, len(byRole))
	for role := range byRole {
		roles = append(roles, role)
	}
	sort.Strings(roles)

	spec := make(FilterSpec, 0, len(roles))
	for _, role := range roles {
		criteria, err := decodeCriteria(role, byRole[role])
		if err != nil {
			return nil, err
		}
		spec = append(spec, RoleFilter{Role: role, Criteria: criteria})
	}
	return spec, nil
}

func decodeCriteria(role string, raw any) ([]Criterion, error) {
	list, ok := raw.([]any)
	if !ok {
		return nil, fmt.Errorf("criteria for role '%s' must be a list, got %T", role, raw)
	}
	out := make([]Criterion, 0, len(list))
	for i, entry := range list {
		record, ok := entry.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("criterion %d for role '%s' must be an object, got %T", i, role, entry)
		}
		key, ok := record["key"].(string)
		if !ok || key == "" {
			return nil, fmt.Errorf("criterion %d for role '%s' requires a string key", i, role)
		}
		crit := Criterion{Key: key}
		switch v := record["value"].(type) {
		case string:
			crit.Value = v
		case nil:
			return nil, fmt.Errorf("criterion %d for role '%s' requires a value", i, role)
		default:
			crit.Value = fmt.Sprintf("%v", v)
		}
		if regex, ok := record["regex"].(bool); ok {
			crit.Regex = regex
		}
		out = append(out, crit)
	}
	return out, nil
}
