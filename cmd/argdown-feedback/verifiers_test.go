package main

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/debatelab/argdown-feedback-sub001/internal/model"
	"github.com/debatelab/argdown-feedback-sub001/internal/registry"
)

func runCommand(t *testing.T, args ...string) string {
	t.Helper()

	root := newRootCmd()
	buf := &bytes.Buffer{}
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)

	require.NoError(t, root.Execute())
	return buf.String()
}

func TestVerifiersCommandListsTable(t *testing.T) {
	t.Parallel()

	output := runCommand(t, "verifiers")

	require.Contains(t, output, "NAME")
	require.Contains(t, output, "GROUP")
	require.Contains(t, output, "INPUT TYPES")

	for _, name := range registry.New().Names() {
		require.Contains(t, output, name)
	}
	require.Contains(t, output, registry.GroupCore)
	require.Contains(t, output, registry.GroupCoherence)
	require.Contains(t, output, registry.GroupContentCheck)
}

func TestVerifiersCommandJSONOutput(t *testing.T) {
	t.Parallel()

	output := runCommand(t, "verifiers", "--json")

	var payload struct {
		Groups    map[string][]string  `json:"groups"`
		Verifiers []model.VerifierInfo `json:"verifiers"`
	}
	require.NoError(t, json.Unmarshal([]byte(output), &payload))

	require.Len(t, payload.Verifiers, 12)
	require.Contains(t, payload.Groups, registry.GroupCore)
	require.Contains(t, payload.Groups, registry.GroupCoherence)
	require.Contains(t, payload.Groups, registry.GroupContentCheck)

	total := 0
	for _, names := range payload.Groups {
		total += len(names)
	}
	require.Equal(t, len(payload.Verifiers), total)

	for _, info := range payload.Verifiers {
		require.NotEmpty(t, info.Name)
		require.NotEmpty(t, info.InputTypes)
	}
}
