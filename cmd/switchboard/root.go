package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"mercator-hq/switchboard/pkg/cli"
)

var (
	// Global flags
	cfgFile      string
	verbose      bool
	outputFormat string
)

var rootCmd = &cobra.Command{
	Use:   "switchboard",
	Short: "Switchboard - LLM provider registry and request preparation",
	Long: `Switchboard describes the LLM providers a client can talk to and prepares
the HTTP requests sent to them.

Providers come from a built-in set (OpenAI, gpt-oss, Google GenAI, Anthropic)
merged with the model_providers section of a YAML, JSON or TOML configuration
file. For each provider switchboard resolves:
  - the endpoint URL for its wire protocol
  - the credential (override, environment variable or stored login)
  - static and environment-sourced headers
  - retry and stream idle limits`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command and exits with the code matching the error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(cli.ExitCode(err))
	}
}

func init() {
	// Global persistent flags (available to all subcommands)
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path (.yaml, .yml, .json or .toml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVar(&outputFormat, "format", "text", "output format: text, json, yaml, toml")
}
