package model

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRoleDType(t *testing.T) {
	t.Parallel()

	require.Equal(t, DTypeXML, RoleDType(RoleArganno))
	require.Equal(t, DTypeArgdown, RoleDType(RoleArgmap))
	require.Equal(t, DTypeArgdown, RoleDType(RoleInfreco))
	require.Equal(t, DTypeArgdown, RoleDType(RoleLogreco))
}

func TestDecodeFilterSpec(t *testing.T) {
	t.Parallel()

	raw := map[string]any{
		"infreco": []any{
			map[string]any{"key": "filename", "value": "reco.ad"},
		},
		"argmap": []any{
			map[string]any{"key": "filename", "value": `map.*\.ad`, "regex": true},
		},
	}

	spec, err := DecodeFilterSpec(raw)
	require.NoError(t, err)
	// Roles sorted alphabetically for determinism.
	require.Equal(t, []string{"argmap", "infreco"}, spec.Roles())

	criteria, ok := spec.ForRole("argmap")
	require.True(t, ok)
	require.Len(t, criteria, 1)
	require.True(t, criteria[0].Regex)
	require.Equal(t, "filename", criteria[0].Key)

	_, ok = spec.ForRole("logreco")
	require.False(t, ok)
}

func TestDecodeFilterSpecNil(t *testing.T) {
	t.Parallel()

	spec, err := DecodeFilterSpec(nil)
	require.NoError(t, err)
	require.Nil(t, spec)
}

func TestDecodeFilterSpecErrors(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		raw  any
	}{
		{"not a map", []any{"argmap"}},
		{"criteria not a list", map[string]any{"argmap": "filename=map.ad"}},
		{"criterion not an object", map[string]any{"argmap": []any{"filename"}}},
		{"criterion missing key", map[string]any{"argmap": []any{map[string]any{"value": "x"}}}},
		{"criterion missing value", map[string]any{"argmap": []any{map[string]any{"key": "filename"}}}},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := DecodeFilterSpec(tc.raw)
			require.Error(t, err)
		})
	}
}

func TestDecodeFilterSpecStringifiesScalarValues(t *testing.T) {
	t.Parallel()

	raw := map[string]any{
		"infreco": []any{map[string]any{"key": "version", "value": float64(3)}},
	}
	spec, err := DecodeFilterSpec(raw)
	require.NoError(t, err)
	criteria, _ := spec.ForRole("infreco")
	require.Equal(t, "3", criteria[0].Value)
}
