package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sevigo/srcfix/internal/app"
	"github.com/sevigo/srcfix/internal/fixes"
	"github.com/sevigo/srcfix/internal/wire"
)

var (
	applyOnly     []string
	applySkip     []string
	applyDryRun   bool
	applyJSON     bool
	applyContinue bool
)

var applyCmd = &cobra.Command{
	Use:   "apply <target>",
	Short: "Apply every fix that targets the given file",
	Long: `Apply every catalog fix whose target matches the file name, in catalog order.

Examples:
  srcfix apply src/video/drastic_video.c
  srcfix apply --only drm-init,menu src/video/drastic_video.c
  srcfix apply --skip nextui --continue src/video/drastic_video.c
  srcfix apply --dry-run --json src/video/dummy/SDL_nullvideo.c`,
	Args: cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		return runApply(app.ApplyRequest{
			Target:     args[0],
			Only:       applyOnly,
			Skip:       applySkip,
			ConfigPath: runConfigPath,
			DryRun:     applyDryRun,
			Continue:   applyContinue,
		}, applyJSON)
	},
}

func init() { //nolint:gochecknoinits // Cobra command registration
	applyCmd.Flags().StringSliceVar(&applyOnly, "only", nil, "Run only these fixes (comma separated)")
	applyCmd.Flags().StringSliceVar(&applySkip, "skip", nil, "Skip these fixes (comma separated)")
	applyCmd.Flags().BoolVar(&applyDryRun, "dry-run", false, "Report what would change without writing")
	applyCmd.Flags().BoolVar(&applyJSON, "json", false, "Output the report as JSON")
	applyCmd.Flags().BoolVar(&applyContinue, "continue", false, "Keep applying fixes after a hard failure")
	rootCmd.AddCommand(applyCmd)

	registerFixCommands()
}

func runApply(req app.ApplyRequest, asJSON bool) error {
	appInstance, cleanup, err := wire.InitializeApp()
	if err != nil {
		return fmt.Errorf("failed to initialize app: %w", err)
	}
	defer cleanup()

	rep, err := appInstance.Apply(context.Background(), req)
	if rep == nil {
		return err
	}
	if emitErr := emit(rep, asJSON); emitErr != nil {
		return emitErr
	}
	if err != nil {
		errorColor.Fprintf(os.Stderr, "error: %v\n", err)
		return errRunFailed
	}
	return nil
}

// registerFixCommands adds one subcommand per catalog fix.
func registerFixCommands() {
	reg, err := fixes.Default()
	if err != nil {
		panic(fmt.Sprintf("invalid fix catalog: %v", err))
	}
	for _, fix := range reg.All() {
		fix := fix
		var dryRun, asJSON bool
		cmd := &cobra.Command{
			Use:   fix.ID + " <target>",
			Short: fix.Summary,
			Long:  fmt.Sprintf("Apply the %s fix to the given file.\n\nRun `srcfix explain %s` for details.", fix.ID, fix.ID),
			Args:  cobra.ExactArgs(1),
			RunE: func(_ *cobra.Command, args []string) error {
				return runApply(app.ApplyRequest{
					Target:     args[0],
					Only:       []string{fix.ID},
					ConfigPath: runConfigPath,
					DryRun:     dryRun,
				}, asJSON)
			},
		}
		cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Report what would change without writing")
		cmd.Flags().BoolVar(&asJSON, "json", false, "Output the report as JSON")
		rootCmd.AddCommand(cmd)
	}
}
