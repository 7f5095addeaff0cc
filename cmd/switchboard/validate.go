package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"mercator-hq/switchboard/pkg/cli"
	"mercator-hq/switchboard/pkg/config"
	"mercator-hq/switchboard/pkg/environment"
	"mercator-hq/switchboard/pkg/providers"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Work with configuration files",
}

var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a configuration file",
	Long: `Load and validate the configuration file given with --config.

Every invalid provider definition is reported, not just the first. The
command exits with status 3 when anything is invalid.

Examples:
  # Validate a YAML file
  switchboard config validate --config switchboard.yaml

  # JSON output for CI/CD
  switchboard config validate --config switchboard.toml --format json`,
	Args: cobra.NoArgs,
	RunE: validateConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configValidateCmd)
}

// ValidationResult is the outcome of validating one configuration file.
type ValidationResult struct {
	File      string            `json:"file" yaml:"file" toml:"file"`
	Valid     bool              `json:"valid" yaml:"valid" toml:"valid"`
	Providers int               `json:"providers" yaml:"providers" toml:"providers"`
	Errors    []ValidationIssue `json:"errors,omitempty" yaml:"errors,omitempty" toml:"errors,omitempty"`
}

// ValidationIssue is a single problem found in the file.
type ValidationIssue struct {
	Provider string `json:"provider,omitempty" yaml:"provider,omitempty" toml:"provider,omitempty"`
	Field    string `json:"field,omitempty" yaml:"field,omitempty" toml:"field,omitempty"`
	Message  string `json:"message" yaml:"message" toml:"message"`
}

func (r ValidationResult) WriteText(w io.Writer) error {
	file := r.File
	if file == "" {
		file = "(defaults)"
	}
	if r.Valid {
		_, err := fmt.Fprintf(w, "✓ %s is valid (%d providers)\n", file, r.Providers)
		return err
	}

	fmt.Fprintf(w, "✗ %s has %d error(s)\n", file, len(r.Errors))
	for _, issue := range r.Errors {
		switch {
		case issue.Provider != "":
			fmt.Fprintf(w, "  model_providers.%s.%s: %s\n", issue.Provider, issue.Field, issue.Message)
		case issue.Field != "":
			fmt.Fprintf(w, "  %s: %s\n", issue.Field, issue.Message)
		default:
			fmt.Fprintf(w, "  %s\n", issue.Message)
		}
	}
	return nil
}

func validateConfig(cmd *cobra.Command, args []string) error {
	format, err := cli.ParseOutputFormat(outputFormat)
	if err != nil {
		return err
	}

	result := validateFile(cfgFile, environment.Capture())
	if err := cli.NewFormatter(format).FormatTo(cmd.OutOrStdout(), result); err != nil {
		return err
	}

	if !result.Valid {
		return cli.NewConfigError("", fmt.Sprintf("%s is invalid", result.File))
	}
	return nil
}

func validateFile(path string, env environment.Env) ValidationResult {
	result := ValidationResult{File: path}

	cfg, err := config.LoadConfigWithEnvOverrides(path, env)
	if cfg == nil {
		result.Errors = settingsIssues(err)
		return result
	}

	rejected := config.ProviderErrors(err)
	for _, r := range rejected {
		result.Errors = append(result.Errors, ValidationIssue{
			Provider: r.Provider,
			Field:    r.Field,
			Message:  issueMessage(r),
		})
	}

	result.Providers = len(cfg.ModelProviders)
	result.Valid = len(result.Errors) == 0
	return result
}

func issueMessage(e *providers.ConfigError) string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// settingsIssues flattens a fatal load error into issues.
func settingsIssues(err error) []ValidationIssue {
	var validation config.ValidationError
	if errors.As(err, &validation) {
		issues := make([]ValidationIssue, 0, len(validation.Errors))
		for _, fe := range validation.Errors {
			issues = append(issues, ValidationIssue{Field: fe.Field, Message: fe.Message})
		}
		return issues
	}

	var cfgErr *providers.ConfigError
	if errors.As(err, &cfgErr) {
		return []ValidationIssue{{Provider: cfgErr.Provider, Field: cfgErr.Field, Message: issueMessage(cfgErr)}}
	}
	return []ValidationIssue{{Message: err.Error()}}
}
