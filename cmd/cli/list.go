package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/sevigo/srcfix/internal/core"
	"github.com/sevigo/srcfix/internal/fixes"
)

var listJSON bool

type fixInfo struct {
	ID      string   `json:"id"`
	Summary string   `json:"summary"`
	Targets []string `json:"targets"`
	Kind    string   `json:"kind"`
	Rules   []string `json:"rules,omitempty"`
	Patch   string   `json:"patch,omitempty"`
}

func describeFix(f core.Fix) fixInfo {
	info := fixInfo{ID: f.ID, Summary: f.Summary, Targets: f.Targets, Kind: "rules"}
	if f.Delegated() {
		info.Kind = "patch"
		info.Patch = f.Patch.File
		return info
	}
	for _, r := range f.Rules {
		info.Rules = append(info.Rules, r.Name)
	}
	return info
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the fixes in the catalog",
	RunE: func(_ *cobra.Command, _ []string) error {
		reg, err := fixes.Default()
		if err != nil {
			return err
		}

		infos := make([]fixInfo, 0, len(reg.All()))
		for _, f := range reg.All() {
			infos = append(infos, describeFix(f))
		}

		if listJSON {
			encoder := json.NewEncoder(os.Stdout)
			encoder.SetIndent("", "  ")
			return encoder.Encode(infos)
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "FIX\tTARGET\tKIND\tSUMMARY")
		for _, info := range infos {
			kind := info.Kind
			if info.Patch != "" {
				kind += " (" + info.Patch + ")"
			} else {
				kind += fmt.Sprintf(" (%d)", len(info.Rules))
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", info.ID, strings.Join(info.Targets, ","), kind, info.Summary)
		}
		return w.Flush()
	},
}

func init() { //nolint:gochecknoinits // Cobra command registration
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Output the catalog as JSON")
	rootCmd.AddCommand(listCmd)
}
