// Package app initializes and orchestrates the main components of srcfix.
// It wires together the configuration, the fix catalog and the runner.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
	"golang.org/x/sync/errgroup"

	"github.com/sevigo/srcfix/internal/config"
	"github.com/sevigo/srcfix/internal/core"
	"github.com/sevigo/srcfix/internal/fixes"
	"github.com/sevigo/srcfix/internal/gitutil"
	"github.com/sevigo/srcfix/internal/report"
	"github.com/sevigo/srcfix/internal/runner"
)

// ErrNoFixes is returned when nothing in the catalog applies to a target.
var ErrNoFixes = errors.New("no fixes selected")

// App holds the main application components.
type App struct {
	cfg      *config.Config
	logger   *slog.Logger
	registry *fixes.Registry
	runner   *runner.Runner
	git      *gitutil.Client
}

// NewApp sets up the application with all its dependencies.
func NewApp(cfg *config.Config, logger *slog.Logger, registry *fixes.Registry, r *runner.Runner, git *gitutil.Client) *App {
	return &App{cfg: cfg, logger: logger, registry: registry, runner: r, git: git}
}

// Registry exposes the fix catalog to the CLI.
func (a *App) Registry() *fixes.Registry {
	return a.registry
}

// ApplyRequest describes one `apply` invocation.
type ApplyRequest struct {
	Target string
	// Only runs exactly these fixes, even ones that do not name the target's file.
	Only []string
	Skip []string
	// ConfigPath overrides the run config next to the target.
	ConfigPath string
	DryRun     bool
	// Continue keeps going after a hard failure.
	Continue bool
}

// Apply runs the selected fixes against one target.
func (a *App) Apply(ctx context.Context, req ApplyRequest) (*report.Report, error) {
	if st, err := os.Stat(req.Target); err != nil || !st.Mode().IsRegular() {
		rep := report.New(req.Target)
		rep.Err = fmt.Sprintf("target %s is not a readable file", req.Target)
		a.logger.Error("target missing", "target", req.Target, "outcome", core.StatusConfigError)
		return rep, fmt.Errorf("%s: %w", rep.Err, os.ErrNotExist)
	}

	runCfg, err := a.loadRunConfig(req)
	if err != nil {
		return nil, err
	}

	selected, err := a.selectFixes(req, runCfg)
	if err != nil {
		return nil, err
	}

	opts := runner.Options{
		DryRun:         req.DryRun,
		StopOnFailure:  a.cfg.StopOnFailure,
		PatchDir:       a.cfg.PatchDir,
		PatchRootDepth: a.cfg.PatchRootDepth,
	}
	if runCfg.StopOnFailure != nil {
		opts.StopOnFailure = *runCfg.StopOnFailure
	}
	if req.Continue {
		opts.StopOnFailure = false
	}
	if runCfg.PatchDir != "" {
		opts.PatchDir = runCfg.PatchDir
	}
	if runCfg.PatchRootDepth > 0 {
		opts.PatchRootDepth = runCfg.PatchRootDepth
	}

	rev, inRepo, err := a.git.Revision(req.Target)
	if err != nil {
		a.logger.Warn("could not determine target revision", "target", req.Target, "error", err)
	} else if inRepo {
		a.logger.Info("target revision",
			"target", req.Target,
			"root", rev.Root,
			"head", rev.Short(),
			"branch", rev.Branch,
			"dirty", rev.Dirty,
			"target_modified", rev.TargetModified,
		)
		if rev.TargetModified {
			a.logger.Warn("target has local changes, fixes apply on top of them", "target", req.Target)
		}
	}

	rep, err := a.runner.Run(ctx, req.Target, selected, opts)
	if rep != nil && inRepo {
		rep.Revision = rev.Head
		rep.Dirty = rev.Dirty
		rep.TargetModified = rev.TargetModified
	}
	return rep, err
}

func (a *App) loadRunConfig(req ApplyRequest) (*core.RunConfig, error) {
	path := req.ConfigPath
	explicit := path != ""
	if !explicit {
		path = filepath.Join(filepath.Dir(req.Target), a.cfg.RunConfig)
	}
	runCfg, err := config.LoadRunConfig(path)
	switch {
	case errors.Is(err, config.ErrConfigNotFound) && !explicit:
		a.logger.Debug("no run config, using defaults", "path", path)
		return runCfg, nil
	case err != nil:
		return nil, fmt.Errorf("failed to load run config %s: %w", path, err)
	}
	a.logger.Info("loaded run config", "path", path)
	return runCfg, nil
}

func (a *App) selectFixes(req ApplyRequest, runCfg *core.RunConfig) ([]core.Fix, error) {
	only := req.Only
	candidates := a.registry.All()
	if len(only) == 0 {
		only = runCfg.Fixes
		candidates = a.registry.ForTarget(req.Target)
	}
	skip := append(append([]string{}, runCfg.Skip...), req.Skip...)

	selected, err := a.registry.Select(candidates, only, skip)
	if err != nil {
		return nil, err
	}
	if len(selected) == 0 {
		return nil, fmt.Errorf("%w for %s", ErrNoFixes, filepath.Base(req.Target))
	}
	return selected, nil
}

// CheckResult is one target of a `check` run.
type CheckResult struct {
	Target string
	Report *report.Report
	Err    error
}

// Check dry-runs every matching fix against each target the glob patterns
// expand to, at most MaxWorkers at a time. Results keep the expansion order.
func (a *App) Check(ctx context.Context, patterns []string) ([]CheckResult, error) {
	var targets []string
	seen := make(map[string]struct{})
	for _, p := range patterns {
		matches, err := doublestar.FilepathGlob(p, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %q: %w", p, err)
		}
		sort.Strings(matches)
		for _, m := range matches {
			if _, dup := seen[m]; dup {
				continue
			}
			seen[m] = struct{}{}
			targets = append(targets, m)
		}
	}
	if len(targets) == 0 {
		return nil, fmt.Errorf("no files match %v", patterns)
	}

	results := make([]CheckResult, len(targets))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, a.cfg.MaxWorkers))
	for i, target := range targets {
		i, target := i, target
		g.Go(func() error {
			rep, err := a.Apply(gctx, ApplyRequest{Target: target, DryRun: true})
			results[i] = CheckResult{Target: target, Report: rep, Err: err}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
