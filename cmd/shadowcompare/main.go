// Command shadowcompare replays solar-term and conversion requests against the legacy service
// and this service and reports where they disagree.
package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	opts := options{}

	cmd := &cobra.Command{
		Use:          "shadowcompare",
		Short:        "Compare the legacy converter with the Go service",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), cmd.OutOrStdout(), opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.goBase, "go-base", "http://localhost:8080", "Go service base URL")
	flags.StringVar(&opts.legacyBase, "legacy-base", "http://localhost:5001", "Legacy service base URL")
	flags.StringVar(&opts.targetsPath, "targets", filepath.Join("cmd", "shadowcompare", "targets.json"), "Path to JSON targets file")
	flags.DurationVar(&opts.timeout, "timeout", 5*time.Second, "HTTP client timeout")
	flags.StringSliceVar(&opts.ignore, "ignore", []string{"source", "datetime"}, "JSON keys skipped in every body comparison")
	flags.BoolVar(&opts.verbose, "verbose", false, "Print a body diff for every mismatch")

	return cmd
}
