package main

import (
	"errors"
	"log/slog"
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, errRunFailed) {
			slog.Error("cli failed to run", "error", err)
		}
		os.Exit(1)
	}
}
