/*
Package cli provides command-line interface utilities for Arbiter.

The cli package includes output formatters, error types, and signal handling
helpers used by the arbiter command.

Output Formatting:

	formatter := cli.NewFormatter(cli.FormatJSON)
	if err := formatter.FormatTo(os.Stdout, result); err != nil {
		return err
	}

Signal Handling:

	ctx, stop := cli.ShutdownContext(context.Background())
	defer stop()
	// ctx is canceled on SIGINT or SIGTERM
*/
package cli
