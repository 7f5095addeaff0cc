/*
Package cli provides command-line helpers for the switchboard command.

Output Formatting:

Results are printed in the format chosen with --format:

	format, err := cli.ParseOutputFormat("yaml")
	if err != nil {
		return err
	}
	if err := cli.NewFormatter(format).FormatTo(os.Stdout, result); err != nil {
		return err
	}

Text output uses the result's WriteText method when it has one.

Exit Codes:

ExitCode maps command errors to process exit codes: 3 for configuration
errors, 4 for missing or unusable credentials and 1 otherwise.

Signal Handling:

For graceful shutdown on SIGINT/SIGTERM:

	ctx, stop := cli.SetupSignalHandler(context.Background())
	defer stop()
*/
package cli
