package wire

import (
	"io"
	"log/slog"
	"os"

	"github.com/google/wire"

	"github.com/sevigo/srcfix/internal/app"
	"github.com/sevigo/srcfix/internal/config"
	"github.com/sevigo/srcfix/internal/core"
	"github.com/sevigo/srcfix/internal/engine"
	"github.com/sevigo/srcfix/internal/fixes"
	"github.com/sevigo/srcfix/internal/gitutil"
	"github.com/sevigo/srcfix/internal/logger"
	"github.com/sevigo/srcfix/internal/patchtool"
	"github.com/sevigo/srcfix/internal/runner"
	"github.com/sevigo/srcfix/internal/storage"
)

var AppSet = wire.NewSet(
	app.NewApp,
	config.LoadConfig,
	fixes.Default,
	engine.New,
	storage.NewStore,
	runner.New,
	gitutil.NewClient,
	patchtool.NewExecExecutor,
	wire.Bind(new(patchtool.Executor), new(*patchtool.ExecExecutor)),
	patchtool.New,
	wire.Bind(new(core.PatchDelegate), new(*patchtool.Delegate)),
	providePatchOptions,
	provideLoggerConfig,
	provideLogWriter,
	provideSlogLogger,
)

func providePatchOptions(cfg *config.Config) patchtool.Options {
	return patchtool.Options{Binary: cfg.PatchBinary, Timeout: cfg.PatchTimeout}
}

func provideLoggerConfig(cfg *config.Config) logger.Config {
	return logger.Config{
		Level:  cfg.LogLevel.String(),
		Format: cfg.LogFormat,
		Output: cfg.LogOutput,
	}
}

// provideLogWriter opens the log destination. The cleanup closes a log file.
func provideLogWriter(cfg *config.Config) (io.Writer, func(), error) {
	switch cfg.LogOutput {
	case "stdout":
		return os.Stdout, func() {}, nil
	case "file":
		f, err := os.OpenFile(logger.DefaultLogFile, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0600)
		if err != nil {
			return nil, nil, err
		}
		return f, func() { _ = f.Close() }, nil
	default:
		return os.Stderr, func() {}, nil
	}
}

func provideSlogLogger(loggerConfig logger.Config, writer io.Writer) *slog.Logger {
	return logger.NewLogger(loggerConfig, writer)
}
