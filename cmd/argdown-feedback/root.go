package main

import (
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "argdown-feedback",
		Short: "Verification service for argumentative analyses",
		Long: "argdown-feedback verifies argumentative analyses in Argdown and " +
			"XML-annotation form. It checks annotations, argument maps, and " +
			"premise-conclusion reconstructions for internal soundness and mutual " +
			"coherence, and serves the verdicts over HTTP.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newVerifiersCmd())
	cmd.AddCommand(newVersionCmd())

	return cmd
}
