package main

import (
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/debatelab/argdown-feedback-sub001/internal/model"
	"github.com/debatelab/argdown-feedback-sub001/internal/registry"
)

type verifiersOptions struct {
	jsonOutput bool
}

func newVerifiersCmd() *cobra.Command {
	opts := &verifiersOptions{}

	cmd := &cobra.Command{
		Use:   "verifiers",
		Short: "List the registered verifiers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runVerifiers(cmd, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.jsonOutput, "json", false, "Output in JSON format")

	return cmd
}

func runVerifiers(cmd *cobra.Command, opts *verifiersOptions) error {
	reg := registry.New()

	if opts.jsonOutput {
		payload := struct {
			Groups    map[string][]string  `json:"groups"`
			Verifiers []model.VerifierInfo `json:"verifiers"`
		}{Groups: reg.Groups(), Verifiers: reg.Infos()}

		encoder := json.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent("", "  ")
		return encoder.Encode(payload)
	}

	groupByName := make(map[string]string)
	for group, names := range reg.Groups() {
		for _, name := range names {
			groupByName[name] = group
		}
	}

	writer := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(writer, "NAME\tGROUP\tINPUT TYPES\tDESCRIPTION")
	for _, info := range reg.Infos() {
		types := make([]string, 0, len(info.InputTypes))
		for _, dtype := range info.InputTypes {
			types = append(types, string(dtype))
		}
		fmt.Fprintf(writer, "%s\t%s\t%s\t%s\n",
			info.Name, groupByName[info.Name], strings.Join(types, ","), info.Description)
	}
	return writer.Flush()
}
