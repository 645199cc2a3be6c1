package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sevigo/srcfix/internal/report"
	"github.com/sevigo/srcfix/internal/wire"
)

var checkCmd = &cobra.Command{
	Use:   "check <glob>...",
	Short: "Dry-run the catalog against many checkouts",
	Long: `Dry-run every matching fix against each file the patterns expand to and
report which ones still apply cleanly. Patterns support ** and run concurrently,
bounded by SRCFIX_MAX_WORKERS. Nothing is written.

Examples:
  srcfix check 'workspace/**/src/video/drastic_video.c'`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		appInstance, cleanup, err := wire.InitializeApp()
		if err != nil {
			return fmt.Errorf("failed to initialize app: %w", err)
		}
		defer cleanup()

		results, err := appInstance.Check(context.Background(), args)
		if err != nil {
			return err
		}

		failed := 0
		for _, res := range results {
			if res.Report != nil {
				printReport(os.Stdout, res.Report)
			}
			if res.Err != nil {
				errorColor.Fprintf(os.Stdout, "   %s: %v\n", res.Target, res.Err)
			}
			if res.Err != nil || (res.Report != nil && res.Report.Decision() == report.DecisionFailure) {
				failed++
			}
		}
		boldColor.Printf("%d of %d targets checked cleanly\n", len(results)-failed, len(results))
		if failed > 0 {
			return errRunFailed
		}
		return nil
	},
}

func init() { //nolint:gochecknoinits // Cobra command registration
	rootCmd.AddCommand(checkCmd)
}
