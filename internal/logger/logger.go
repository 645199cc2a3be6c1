package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
)

// DefaultLogFile is used when Output is "file" and no File is set.
const DefaultLogFile = "srcfix.log"

// Config holds the logger configuration.
type Config struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
	File   string `mapstructure:"file"`
}

// NewLogger initializes a new slog logger based on the provided configuration.
// Records go to stderr unless configured otherwise so stdout stays free for
// machine-readable reports.
func NewLogger(cfg Config, output io.Writer) *slog.Logger {
	var handler slog.Handler

	if output == nil {
		switch cfg.Output {
		case "stdout":
			output = os.Stdout
		case "file":
			name := cfg.File
			if name == "" {
				name = DefaultLogFile
			}
			file, err := os.OpenFile(name, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Failed to open log file: %v\n", err)
				output = os.Stderr
			} else {
				output = file
			}
		default:
			output = os.Stderr
		}
	}

	level := new(slog.Level)
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = new(slog.Level)
	}

	switch cfg.Format {
	case "json":
		handler = slog.NewJSONHandler(output, &slog.HandlerOptions{
			Level: level,
		})
	case "text":
		fallthrough
	default:
		handler = slog.NewTextHandler(output, &slog.HandlerOptions{
			Level: level,
		})
	}

	return slog.New(handler)
}

// ForRun tags every record with the run id and target so interleaved runs of
// `check` can be told apart.
func ForRun(l *slog.Logger, runID, target string) *slog.Logger {
	return l.With("run_id", runID, "target", target)
}
