package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	"github.com/sevigo/srcfix/internal/fixes"
)

var explainCmd = &cobra.Command{
	Use:   "explain <fix>",
	Short: "Show what a fix changes and how it finds its code",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		reg, err := fixes.Default()
		if err != nil {
			return err
		}
		fix, err := reg.Lookup(args[0])
		if err != nil {
			return err
		}

		renderer, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(80),
		)
		if err != nil {
			fmt.Fprint(os.Stdout, fix.Doc)
			return nil //nolint:nilerr
		}
		out, err := renderer.Render(fix.Doc)
		if err != nil {
			return fmt.Errorf("failed to render documentation: %w", err)
		}
		fmt.Fprint(os.Stdout, out)
		return nil
	},
}

func init() { //nolint:gochecknoinits // Cobra command registration
	rootCmd.AddCommand(explainCmd)
}
