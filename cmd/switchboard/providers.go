package main

import (
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"mercator-hq/switchboard/pkg/providers"
	"mercator-hq/switchboard/pkg/telemetry/logging"
	"mercator-hq/switchboard/pkg/telemetry/tracing"
)

var requestFlags struct {
	traceparent string
}

var providersCmd = &cobra.Command{
	Use:     "providers",
	Aliases: []string{"provider"},
	Short:   "Inspect provider descriptors",
	Long: `Inspect the providers known to switchboard.

Examples:
  # List providers
  switchboard providers list

  # Show one provider with its effective retry limits
  switchboard providers show anthropic --format yaml

  # Print the endpoint URL
  switchboard providers url openai

  # Build a request without sending it
  switchboard providers request azure --config switchboard.toml`,
}

var providersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List every known provider",
	Args:  cobra.NoArgs,
	RunE:  listProviders,
}

var providersShowCmd = &cobra.Command{
	Use:   "show [id]",
	Short: "Show a provider descriptor and its effective policy",
	Long: `Show a provider descriptor and its effective policy.

Without an id the provider named by model_provider is shown. Bearer token
overrides are redacted.`,
	Args: cobra.MaximumNArgs(1),
	RunE: showProvider,
}

var providersURLCmd = &cobra.Command{
	Use:   "url [id]",
	Short: "Print the endpoint URL of a provider",
	Long: `Print the endpoint URL of a provider.

The stored credential is taken into account: a managed login without an
explicit base_url targets the managed backend instead of the public API.`,
	Args: cobra.MaximumNArgs(1),
	RunE: providerURL,
}

var providersRequestCmd = &cobra.Command{
	Use:   "request [id]",
	Short: "Build a request to a provider without sending it",
	Long: `Build the HTTP request a client would send to a provider and print its
method, URL and headers. Secret header values are redacted.

The credential is resolved exactly as for a real request, so a missing API
key fails here the same way.`,
	Args: cobra.MaximumNArgs(1),
	RunE: previewRequest,
}

func init() {
	rootCmd.AddCommand(providersCmd)
	providersCmd.AddCommand(providersListCmd, providersShowCmd, providersURLCmd, providersRequestCmd)

	providersRequestCmd.Flags().StringVar(&requestFlags.traceparent, "traceparent", "", "W3C traceparent of the calling trace")
}

// providerRow is one line of `providers list`.
type providerRow struct {
	ID                  string `json:"id" yaml:"id" toml:"id"`
	Name                string `json:"name" yaml:"name" toml:"name"`
	WireAPI             string `json:"wire_api" yaml:"wire_api" toml:"wire_api"`
	BaseURL             string `json:"base_url,omitempty" yaml:"base_url,omitempty" toml:"base_url,omitempty"`
	RequiresManagedAuth bool   `json:"requires_managed_auth" yaml:"requires_managed_auth" toml:"requires_managed_auth"`
	Default             bool   `json:"default" yaml:"default" toml:"default"`
}

type providerList struct {
	Providers []providerRow `json:"providers" yaml:"providers" toml:"providers"`
}

func (l providerList) WriteText(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tWIRE API\tBASE URL\tMANAGED AUTH")
	for _, p := range l.Providers {
		id := p.ID
		if p.Default {
			id += " *"
		}
		baseURL := p.BaseURL
		if baseURL == "" {
			baseURL = "-"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%t\n", id, p.Name, p.WireAPI, baseURL, p.RequiresManagedAuth)
	}
	return tw.Flush()
}

func listProviders(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	registry := a.catalog.Registry()
	defaultID := a.catalog.Config().ModelProvider

	list := providerList{Providers: make([]providerRow, 0, registry.Len())}
	for _, id := range registry.IDs() {
		info, _ := registry.Get(id)
		list.Providers = append(list.Providers, providerRow{
			ID:                  id,
			Name:                info.Name,
			WireAPI:             info.WireAPI.String(),
			BaseURL:             info.BaseURL,
			RequiresManagedAuth: info.RequiresManagedAuth,
			Default:             id == defaultID,
		})
	}

	return a.print(list)
}

// effectivePolicy holds the retry and idle limits after defaults apply.
type effectivePolicy struct {
	RequestMaxRetries   uint64 `json:"request_max_retries" yaml:"request_max_retries" toml:"request_max_retries"`
	StreamMaxRetries    uint64 `json:"stream_max_retries" yaml:"stream_max_retries" toml:"stream_max_retries"`
	StreamIdleTimeoutMS int64  `json:"stream_idle_timeout_ms" yaml:"stream_idle_timeout_ms" toml:"stream_idle_timeout_ms"`
}

type providerDetail struct {
	ID             string          `json:"id" yaml:"id" toml:"id"`
	Provider       providers.Info  `json:"provider" yaml:"provider" toml:"provider"`
	Effective      effectivePolicy `json:"effective" yaml:"effective" toml:"effective"`
	AzureResponses bool            `json:"azure_responses_endpoint" yaml:"azure_responses_endpoint" toml:"azure_responses_endpoint"`
}

func (d providerDetail) WriteText(w io.Writer) error {
	p := d.Provider
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "ID:\t%s\n", d.ID)
	fmt.Fprintf(tw, "Name:\t%s\n", p.Name)
	fmt.Fprintf(tw, "Wire API:\t%s\n", p.WireAPI)
	fmt.Fprintf(tw, "Base URL:\t%s\n", orDash(p.BaseURL))
	fmt.Fprintf(tw, "Env Key:\t%s\n", orDash(p.EnvKey))
	if p.BearerTokenOverride != "" {
		fmt.Fprintf(tw, "Bearer Token Override:\t%s\n", p.BearerTokenOverride)
	}
	fmt.Fprintf(tw, "Requires Managed Auth:\t%t\n", p.RequiresManagedAuth)
	fmt.Fprintf(tw, "Azure Responses Endpoint:\t%t\n", d.AzureResponses)
	fmt.Fprintf(tw, "Request Max Retries:\t%d\n", d.Effective.RequestMaxRetries)
	fmt.Fprintf(tw, "Stream Max Retries:\t%d\n", d.Effective.StreamMaxRetries)
	fmt.Fprintf(tw, "Stream Idle Timeout:\t%dms\n", d.Effective.StreamIdleTimeoutMS)
	writeMap(tw, "Query Param", p.QueryParams)
	writeMap(tw, "Header", p.StaticHeaders)
	writeMap(tw, "Env Header", p.EnvHeaders)
	return tw.Flush()
}

func showProvider(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	id, info, err := a.lookup(firstArg(args))
	if err != nil {
		return err
	}

	shown := info.Clone()
	shown.BearerTokenOverride = logging.RedactSecret(shown.BearerTokenOverride)

	return a.print(providerDetail{
		ID:       id,
		Provider: shown,
		Effective: effectivePolicy{
			RequestMaxRetries:   info.RequestMaxRetries(),
			StreamMaxRetries:    info.StreamMaxRetries(),
			StreamIdleTimeoutMS: info.StreamIdleTimeout().Milliseconds(),
		},
		AzureResponses: info.IsAzureResponsesEndpoint(),
	})
}

type providerEndpoint struct {
	Provider string `json:"provider" yaml:"provider" toml:"provider"`
	URL      string `json:"url" yaml:"url" toml:"url"`
}

func (e providerEndpoint) WriteText(w io.Writer) error {
	_, err := fmt.Fprintln(w, e.URL)
	return err
}

func providerURL(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	id, info, err := a.lookup(firstArg(args))
	if err != nil {
		return err
	}

	store, err := a.openStore(false)
	if err != nil {
		return err
	}
	if store != nil {
		defer store.Close()
	}

	return a.print(providerEndpoint{Provider: id, URL: info.FullURL(stored(store))})
}

type requestPreview struct {
	Provider   string            `json:"provider" yaml:"provider" toml:"provider"`
	Method     string            `json:"method" yaml:"method" toml:"method"`
	URL        string            `json:"url" yaml:"url" toml:"url"`
	AuthSource string            `json:"auth_source" yaml:"auth_source" toml:"auth_source"`
	Headers    map[string]string `json:"headers" yaml:"headers" toml:"headers"`
	Trace      map[string]string `json:"trace" yaml:"trace" toml:"trace"`
}

func (p requestPreview) WriteText(w io.Writer) error {
	if _, err := fmt.Fprintf(w, "%s %s\n", p.Method, p.URL); err != nil {
		return err
	}
	names := make([]string, 0, len(p.Headers))
	for name := range p.Headers {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if _, err := fmt.Fprintf(w, "%s: %s\n", name, p.Headers[name]); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "\nauth source: %s\n", p.AuthSource)
	return err
}

func previewRequest(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	id, info, err := a.lookup(firstArg(args))
	if err != nil {
		return err
	}

	store, err := a.openStore(false)
	if err != nil {
		return err
	}
	if store != nil {
		defer store.Close()
	}
	cred := stored(store)

	ctx := logging.WithProvider(commandContext(cmd), id)
	if requestFlags.traceparent != "" {
		if !tracing.ValidateTraceParent(requestFlags.traceparent) {
			return fmt.Errorf("invalid traceparent %q", requestFlags.traceparent)
		}
		ctx = tracing.ContextWithTraceParent(ctx, requestFlags.traceparent)
	}

	ctx, span := a.tracer.Start(ctx, "switchboard.providers.request")
	defer span.End()

	req, err := a.builder().Build(ctx, info, cred, nil)
	if err != nil {
		tracing.SetError(span, err)
		return err
	}
	tracing.SetStatus(span, nil)

	decision, err := providers.ResolveAuth(info, a.env, cred, a.resolveOptions())
	if err != nil {
		return err
	}

	return a.print(requestPreview{
		Provider:   id,
		Method:     req.Method,
		URL:        req.URL.String(),
		AuthSource: string(decision.Source),
		Headers:    redactHeaders(req.Header),
		Trace:      tracing.PropagationDebugInfo(req.Header),
	})
}

func redactHeaders(h http.Header) map[string]string {
	redactor := logging.NewRedactor()
	out := make(map[string]string, len(h))
	for name, values := range h {
		redacted := make([]string, len(values))
		for i, v := range values {
			redacted[i] = redactor.RedactHeader(name, v)
		}
		out[name] = strings.Join(redacted, ", ")
	}
	return out
}

func writeMap(w io.Writer, label string, m map[string]string) {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(w, "%s:\t%s=%s\n", label, k, m[k])
	}
}

func firstArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
