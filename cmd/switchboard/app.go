package main

import (
	"context"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"mercator-hq/switchboard/pkg/catalog"
	"mercator-hq/switchboard/pkg/cli"
	"mercator-hq/switchboard/pkg/config"
	"mercator-hq/switchboard/pkg/credentials"
	"mercator-hq/switchboard/pkg/environment"
	"mercator-hq/switchboard/pkg/providers"
	"mercator-hq/switchboard/pkg/telemetry/logging"
	"mercator-hq/switchboard/pkg/telemetry/metrics"
	"mercator-hq/switchboard/pkg/telemetry/tracing"
)

// app holds what every command needs: the environment snapshot, the
// configured logger and telemetry, and the provider catalog.
type app struct {
	cmd     *cobra.Command
	env     environment.Map
	logger  *slog.Logger
	metrics *metrics.Collector
	tracer  *tracing.Tracer
	catalog *catalog.Catalog
	format  cli.OutputFormat
}

// newApp loads the configuration named by --config and wires logging,
// metrics, tracing and the catalog from it.
func newApp(cmd *cobra.Command, opts ...catalog.Option) (*app, error) {
	format, err := cli.ParseOutputFormat(outputFormat)
	if err != nil {
		return nil, err
	}

	env := environment.Capture()

	// The catalog loads the file again; this pass only configures telemetry.
	cfg, _ := config.LoadConfigWithEnvOverrides(cfgFile, env)
	if cfg == nil {
		cfg = config.Default()
	}

	logCfg := logging.FromConfig(cfg.Telemetry.Logging)
	if verbose {
		logCfg.Level = "debug"
	}
	logCfg.Writer = cmd.ErrOrStderr()
	logger, err := logging.New(logCfg)
	if err != nil {
		return nil, cli.NewConfigError("telemetry.logging", err.Error())
	}
	slog.SetDefault(logger)

	collector := metrics.NewCollector(&cfg.Telemetry.Metrics, prometheus.NewRegistry())

	tracer, err := tracing.New(&cfg.Telemetry.Tracing, Version)
	if err != nil {
		return nil, cli.NewConfigError("telemetry.tracing", err.Error())
	}

	catalogOpts := []catalog.Option{
		catalog.WithLogger(logger),
		catalog.WithVersion(Version),
		catalog.WithRecorder(collector),
	}
	cat, err := catalog.New(cfgFile, env, append(catalogOpts, opts...)...)
	if err != nil {
		_ = tracer.Shutdown(context.Background())
		return nil, err
	}

	return &app{
		cmd:     cmd,
		env:     env,
		logger:  logger,
		metrics: collector,
		tracer:  tracer,
		catalog: cat,
		format:  format,
	}, nil
}

// Close flushes pending spans.
func (a *app) Close() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := a.tracer.Shutdown(ctx); err != nil {
		a.logger.Warn("failed to flush traces", "error", err)
	}
}

// print writes a command result in the selected output format.
func (a *app) print(result any) error {
	return cli.NewFormatter(a.format).FormatTo(a.cmd.OutOrStdout(), result)
}

// lookup resolves a provider id, falling back to model_provider when id is
// empty.
func (a *app) lookup(id string) (string, providers.Info, error) {
	if id == "" {
		return a.catalog.Default()
	}
	info, err := a.catalog.Lookup(id)
	return id, info, err
}

// openStore opens the credential store from the auth section. It returns a
// nil store when no credential file location is known.
func (a *app) openStore(watch bool) (*credentials.Store, error) {
	auth := a.catalog.Config().Auth
	if auth.File == "" {
		return nil, nil
	}

	mode, err := credentials.ParseAuthMode(auth.PreferredMode)
	if err != nil {
		return nil, cli.NewConfigError("auth.preferred_mode", err.Error())
	}

	return credentials.OpenStore(credentials.StoreOptions{
		Path:          auth.File,
		Watch:         watch,
		PreferredMode: mode,
		Refresh: credentials.RefreshConfig{
			TokenURL: auth.TokenURL,
			ClientID: auth.ClientID,
		},
		Logger: a.logger,
	})
}

// stored returns the current credential of store, or nil.
func stored(store *credentials.Store) credentials.Credential {
	if store == nil {
		return nil
	}
	return store.Current()
}

// builder returns a request builder wired to the app's telemetry.
func (a *app) builder() *providers.RequestBuilder {
	return providers.NewRequestBuilder(a.env,
		providers.WithLogger(a.logger),
		providers.WithTracer(a.tracer),
		providers.WithRecorder(a.metrics),
		providers.WithStrictEnvKey(a.catalog.Config().Auth.StrictEnvKey),
	)
}

// resolveOptions mirrors the builder options for callers that only resolve
// the credential.
func (a *app) resolveOptions() providers.ResolveOptions {
	return providers.ResolveOptions{StrictEnvKey: a.catalog.Config().Auth.StrictEnvKey}
}

// commandContext tags ctx with the command path for log records.
func commandContext(cmd *cobra.Command) context.Context {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return logging.WithCommand(ctx, cmd.CommandPath())
}
