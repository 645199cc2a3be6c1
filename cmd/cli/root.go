package main

import (
	"errors"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// errRunFailed makes the process exit 1 after a run whose report was already
// printed.
var errRunFailed = errors.New("run failed")

var (
	logLevel      string
	patchDir      string
	runConfigPath string
)

var rootCmd = &cobra.Command{
	Use:   "srcfix",
	Short: "srcfix applies named source fixes to upstream C files.",
	Long: `srcfix rewrites upstream C sources in place with a catalog of named fixes.

Each fix locates its code by exact text first, then by the enclosing block, and
finally by narrow line edits, so it keeps working when upstream drifts. Re-running
a fix on a patched file changes nothing.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() { //nolint:gochecknoinits // Cobra's init function for command registration
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&patchDir, "patch-dir", "", "Directory holding companion diff files")
	rootCmd.PersistentFlags().StringVarP(&runConfigPath, "config", "c", "", "Run config file (default: .srcfix.yml next to the target)")

	for key, flag := range map[string]string{"LOG_LEVEL": "log-level", "PATCH_DIR": "patch-dir"} {
		if err := viper.BindPFlag(key, rootCmd.PersistentFlags().Lookup(flag)); err != nil {
			slog.Error("Error binding flag", "error", err)
			os.Exit(1)
		}
	}
}

// initConfig reads in ENV variables if set.
func initConfig() {
	viper.SetEnvPrefix("SRCFIX")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
}
