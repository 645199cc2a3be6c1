// Code generated manually. DO NOT EDIT.

//go:generate go run -mod=mod github.com/google/wire/cmd/wire
//go:build !wireinject
// +build !wireinject

package wire

import (
	"fmt"

	"github.com/sevigo/srcfix/internal/app"
	"github.com/sevigo/srcfix/internal/config"
	"github.com/sevigo/srcfix/internal/engine"
	"github.com/sevigo/srcfix/internal/fixes"
	"github.com/sevigo/srcfix/internal/gitutil"
	"github.com/sevigo/srcfix/internal/patchtool"
	"github.com/sevigo/srcfix/internal/runner"
	"github.com/sevigo/srcfix/internal/storage"
)

// InitializeApp creates and wires all application dependencies.
func InitializeApp() (*app.App, func(), error) {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	// Setup logger
	loggerConfig := provideLoggerConfig(cfg)
	writer, cleanup, err := provideLogWriter(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log output: %w", err)
	}
	slogLogger := provideSlogLogger(loggerConfig, writer)

	// Fix catalog
	registry, err := fixes.Default()
	if err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("invalid fix catalog: %w", err)
	}

	// Runner
	engineEngine := engine.New(slogLogger)
	store := storage.NewStore()
	execExecutor := patchtool.NewExecExecutor()
	options := providePatchOptions(cfg)
	delegate := patchtool.New(execExecutor, options, slogLogger)
	runnerRunner := runner.New(engineEngine, store, delegate, slogLogger)
	client := gitutil.NewClient(slogLogger)

	appApp := app.NewApp(cfg, slogLogger, registry, runnerRunner, client)
	return appApp, func() {
		cleanup()
	}, nil
}
