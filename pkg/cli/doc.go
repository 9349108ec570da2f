/*
Package cli provides command-line interface utilities for the readiness
command.

The cli package includes output formatters, error types and signal handling
shared by the readiness subcommands.

Output Formatting:

Retention results and assessments can be rendered as text, JSON or CSV:

	formatter, err := cli.NewFormatter(cli.FormatJSON)
	if err != nil {
		return err
	}
	if err := formatter.FormatTo(os.Stdout, result); err != nil {
		return err
	}

Signal Handling:

For graceful shutdown on SIGINT/SIGTERM:

	ctx, stop := cli.SetupSignalHandler(context.Background())
	defer stop()
*/
package cli
