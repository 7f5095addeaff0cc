package main

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"mercator-hq/switchboard/pkg/credentials"
	"mercator-hq/switchboard/pkg/telemetry/logging"
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Inspect the stored credential",
}

var authStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the stored credential mode and expiry",
	Long: `Show which credential the credential file holds and, for a managed
login, when its access token expires. Secrets are never printed in full.`,
	Args: cobra.NoArgs,
	RunE: authStatus,
}

func init() {
	rootCmd.AddCommand(authCmd)
	authCmd.AddCommand(authStatusCmd)
}

// AuthStatus describes the stored credential.
type AuthStatus struct {
	File        string    `json:"file" yaml:"file" toml:"file"`
	Present     bool      `json:"present" yaml:"present" toml:"present"`
	Mode        string    `json:"mode,omitempty" yaml:"mode,omitempty" toml:"mode,omitempty"`
	APIKey      string    `json:"api_key,omitempty" yaml:"api_key,omitempty" toml:"api_key,omitempty"`
	AccountID   string    `json:"account_id,omitempty" yaml:"account_id,omitempty" toml:"account_id,omitempty"`
	Expiry      time.Time `json:"expiry,omitzero" yaml:"expiry,omitempty" toml:"expiry,omitempty"`
	Expired     bool      `json:"expired" yaml:"expired" toml:"expired"`
	CanRefresh  bool      `json:"can_refresh" yaml:"can_refresh" toml:"can_refresh"`
	LastRefresh time.Time `json:"last_refresh,omitzero" yaml:"last_refresh,omitempty" toml:"last_refresh,omitempty"`
}

func (s AuthStatus) WriteText(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Credential file:\t%s\n", orDash(s.File))
	if !s.Present {
		fmt.Fprintln(tw, "Credential:\tnone")
		return tw.Flush()
	}
	fmt.Fprintf(tw, "Mode:\t%s\n", s.Mode)
	if s.APIKey != "" {
		fmt.Fprintf(tw, "API key:\t%s\n", s.APIKey)
	}
	if s.AccountID != "" {
		fmt.Fprintf(tw, "Account:\t%s\n", s.AccountID)
	}
	if s.Mode == string(credentials.ModeManagedLogin) {
		expiry := "unknown"
		if !s.Expiry.IsZero() {
			expiry = s.Expiry.Format(time.RFC3339)
		}
		fmt.Fprintf(tw, "Expiry:\t%s\n", expiry)
		fmt.Fprintf(tw, "Expired:\t%t\n", s.Expired)
		fmt.Fprintf(tw, "Refresh configured:\t%t\n", s.CanRefresh)
	}
	if !s.LastRefresh.IsZero() {
		fmt.Fprintf(tw, "Last refresh:\t%s\n", s.LastRefresh.Format(time.RFC3339))
	}
	return tw.Flush()
}

func authStatus(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	store, err := a.openStore(false)
	if err != nil {
		return err
	}
	status := AuthStatus{File: a.catalog.Config().Auth.File}
	if store != nil {
		defer store.Close()
		status = describeCredential(status, store, a.catalog.Config().Auth.TokenURL != "", time.Now())
	}

	return a.print(status)
}

func describeCredential(status AuthStatus, store *credentials.Store, canRefresh bool, now time.Time) AuthStatus {
	cred := store.Current()
	if cred == nil {
		return status
	}

	status.Present = true
	status.Mode = string(cred.Mode())
	status.LastRefresh = store.File().LastRefresh

	switch c := cred.(type) {
	case credentials.APIKey:
		status.APIKey = logging.RedactSecret(string(c))
	case *credentials.ManagedLogin:
		status.AccountID = c.AccountID()
		status.Expiry = c.Expiry()
		status.Expired = !status.Expiry.IsZero() && !now.Before(status.Expiry)
		status.CanRefresh = canRefresh && c.Tokens().RefreshToken != ""
	}
	return status
}
