package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"mercator-hq/switchboard/pkg/catalog"
	"mercator-hq/switchboard/pkg/cli"
	"mercator-hq/switchboard/pkg/credentials"
	"mercator-hq/switchboard/pkg/telemetry/health"
)

var watchFlags struct {
	listenAddress string
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Reload the provider catalog whenever the configuration changes",
	Long: `Watch the configuration file and reload the provider catalog on every
change until interrupted. A reload that fails keeps the previous catalog.

When metrics are enabled and a listen address is set, the Prometheus
endpoint is served together with /healthz, /readyz and /version.

Examples:
  # Watch and log reloads
  switchboard watch --config switchboard.yaml

  # Serve metrics and health probes on :9090
  switchboard watch --config switchboard.yaml --listen :9090`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)

	watchCmd.Flags().StringVarP(&watchFlags.listenAddress, "listen", "l", "", "override telemetry.metrics.listen_address")
}

func runWatch(cmd *cobra.Command, args []string) error {
	if cfgFile == "" {
		return cli.NewConfigError("config", "watch needs a configuration file (--config)")
	}

	ctx, stop := cli.SetupSignalHandler(commandContext(cmd))
	defer stop()

	out := cmd.OutOrStdout()
	a, err := newApp(cmd, catalog.WithOnReload(func(snap *catalog.Snapshot) {
		fmt.Fprintf(out, "%s reloaded %d providers, %d rejected\n",
			snap.LoadedAt.Format(time.RFC3339), snap.Registry.Len(), len(snap.Rejected))
	}))
	if err != nil {
		return err
	}
	defer a.Close()

	auth := a.catalog.Config().Auth
	store, err := a.openStore(auth.Watch)
	if err != nil {
		return err
	}
	if store != nil {
		defer store.Close()
	}

	checker := health.New(5 * time.Second)
	checker.RegisterCheck("catalog", a.catalog.Check)
	if store != nil {
		checker.RegisterCheck("credentials", credentialCheck(store, auth.TokenURL != ""))
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return a.catalog.Watch(ctx)
	})

	metricsCfg := a.catalog.Config().Telemetry.Metrics
	addr := metricsCfg.ListenAddress
	if watchFlags.listenAddress != "" {
		addr = watchFlags.listenAddress
	}
	if metricsCfg.Enabled && addr != "" {
		g.Go(func() error {
			return a.metrics.Serve(ctx, addr, a.logger, func(mux *http.ServeMux) {
				health.Register(mux, checker, Version, GitCommit, BuildDate)
			})
		})
	}

	a.logger.InfoContext(ctx, "watching configuration",
		"path", cfgFile,
		"providers", a.catalog.Registry().Len(),
		"checks", checker.ListChecks(),
	)

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return cli.NewCommandError("watch", err)
	}
	a.logger.Info("watch stopped")
	return nil
}

// credentialCheck fails when the stored managed login has expired and
// cannot be refreshed.
func credentialCheck(store *credentials.Store, canRefresh bool) health.CheckFunc {
	return func(ctx context.Context) error {
		login, ok := store.Current().(*credentials.ManagedLogin)
		if !ok {
			return nil
		}
		expiry := login.Expiry()
		if expiry.IsZero() || time.Now().Before(expiry) {
			return nil
		}
		if canRefresh && login.Tokens().RefreshToken != "" {
			return nil
		}
		return fmt.Errorf("%w at %s", credentials.ErrLoginExpired, expiry.Format(time.RFC3339))
	}
}
