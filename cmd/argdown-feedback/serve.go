package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/debatelab/argdown-feedback-sub001/internal/config"
	"github.com/debatelab/argdown-feedback-sub001/internal/dispatch"
	"github.com/debatelab/argdown-feedback-sub001/internal/httpapi"
	"github.com/debatelab/argdown-feedback-sub001/internal/logger"
	"github.com/debatelab/argdown-feedback-sub001/internal/registry"
)

const closeGrace = 30 * time.Second

type serveOptions struct {
	configPath string
	host       string
	port       int
}

func newServeCmd() *cobra.Command {
	opts := serveOptions{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the verification HTTP service",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := resolveSettings(cmd, opts)
			if err != nil {
				return err
			}
			return runServe(settings)
		},
	}

	cmd.Flags().StringVarP(&opts.configPath, "config", "c", "", "Path to settings file")
	cmd.Flags().StringVar(&opts.host, "host", "", "Listen interface (overrides settings)")
	cmd.Flags().IntVar(&opts.port, "port", 0, "Listen port (overrides settings)")

	return cmd
}

// resolveSettings layers the settings file over the defaults and the explicit
// flags over both.
func resolveSettings(cmd *cobra.Command, opts serveOptions) (config.Settings, error) {
	settings := config.Default()
	if opts.configPath != "" {
		loaded, err := config.Load(opts.configPath)
		if err != nil {
			return config.Settings{}, err
		}
		settings = loaded
	}

	if cmd.Flags().Changed("host") {
		settings.Host = opts.host
	}
	if cmd.Flags().Changed("port") {
		settings.Port = opts.port
	}

	if err := settings.Validate(); err != nil {
		return config.Settings{}, err
	}
	return settings, nil
}

func runServe(settings config.Settings) error {
	log, err := logger.New(settings.LoggerOptions())
	if err != nil {
		return err
	}

	svc, err := dispatch.NewService(registry.New(), log, settings.DispatchOptions())
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	server := httpapi.NewServer(svc, log, version)
	runErr := server.Run(ctx, settings.Addr())

	closeCtx, cancel := context.WithTimeout(context.Background(), closeGrace)
	defer cancel()
	if err := svc.Close(closeCtx); err != nil {
		log.Error(err, "closing verification service")
	}
	return runErr
}
