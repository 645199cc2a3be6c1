// Package runner applies a selection of fixes to one target file.
package runner

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/sevigo/srcfix/internal/core"
	"github.com/sevigo/srcfix/internal/engine"
	"github.com/sevigo/srcfix/internal/logger"
	"github.com/sevigo/srcfix/internal/patchtool"
	"github.com/sevigo/srcfix/internal/report"
	"github.com/sevigo/srcfix/internal/storage"
)

// Options controls one run.
type Options struct {
	DryRun        bool
	StopOnFailure bool
	// PatchDir is where delegated fixes find their diff files.
	PatchDir string
	// PatchRootDepth is how far above the target's directory the patch tool runs.
	PatchRootDepth int
}

// Runner threads the target's text through fixes in order. The corpus lives in
// memory; it is written to disk before a delegated fix runs, so the patch tool
// sees earlier edits, and once more at the end if anything changed. Edits of
// fixes that completed stay in place even when a later fix fails hard.
type Runner struct {
	engine   *engine.Engine
	store    storage.Store
	delegate core.PatchDelegate
	logger   *slog.Logger
}

// New creates a Runner.
func New(eng *engine.Engine, store storage.Store, delegate core.PatchDelegate, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{engine: eng, store: store, delegate: delegate, logger: logger}
}

type state struct {
	target  string
	corpus  string
	onDisk  string
	written bool
}

func (s *state) commit(store storage.Store) error {
	if s.corpus == s.onDisk {
		return nil
	}
	if err := store.Write(s.target, s.corpus); err != nil {
		return err
	}
	s.onDisk = s.corpus
	s.written = true
	return nil
}

// Run applies fixes to target. The error is non-nil only when the target could
// not be read or written; fix outcomes are in the report.
func (r *Runner) Run(ctx context.Context, target string, fixes []core.Fix, opts Options) (*report.Report, error) {
	rep := report.New(target)
	rep.DryRun = opts.DryRun
	log := logger.ForRun(r.logger, rep.RunID, target)
	eng := r.engine.With(log)
	defer rep.Finish()

	corpus, err := r.store.Read(target)
	if err != nil {
		rep.Err = err.Error()
		log.Error("target not readable", "outcome", core.StatusConfigError, "error", err)
		return rep, err
	}
	rep.DigestBefore = report.Digest(corpus)
	st := &state{target: target, corpus: corpus, onDisk: corpus}

	stopped := false
	for _, fix := range fixes {
		if stopped {
			rep.Skipped = append(rep.Skipped, fix.ID)
			log.Info("fix skipped after hard failure", "fix", fix.ID)
			continue
		}
		if err := ctx.Err(); err != nil {
			rep.Skipped = append(rep.Skipped, fix.ID)
			continue
		}

		var res core.FixResult
		if fix.Delegated() {
			res, err = r.runDelegated(ctx, log, st, fix, opts)
			if err != nil {
				rep.Err = err.Error()
				rep.Written = st.written
				return rep, err
			}
		} else {
			st.corpus, res = eng.ApplyFix(fix, st.corpus)
		}
		rep.Add(res)
		log.Info("fix finished", "fix", fix.ID, "outcome", res.Outcome.Status, "tier", res.Outcome.Tier, "detail", res.Outcome.Detail)

		if res.Outcome.Hard() && opts.StopOnFailure {
			stopped = true
		}
	}

	if !opts.DryRun {
		if err := st.commit(r.store); err != nil {
			rep.Err = err.Error()
			log.Error("failed to write target", "error", err)
			return rep, err
		}
	}
	rep.Written = st.written
	rep.DigestAfter = report.Digest(st.corpus)

	summary := rep.Summary()
	log.Info("run finished",
		"decision", rep.Decision(),
		"applied", summary.Applied,
		"already_applied", summary.AlreadyApplied,
		"not_found", summary.NotFound,
		"failed", summary.Failed,
		"skipped", summary.Skipped,
		"written", rep.Written,
	)
	return rep, nil
}

func (r *Runner) runDelegated(ctx context.Context, log *slog.Logger, st *state, fix core.Fix, opts Options) (core.FixResult, error) {
	res := core.FixResult{FixID: fix.ID}
	if r.delegate == nil {
		res.Outcome = core.ConfigError("no patch tool configured")
		return res, nil
	}

	workDir, err := patchtool.ResolveWorkDir(st.target, opts.PatchRootDepth)
	if err != nil {
		res.Outcome = core.ConfigError(err.Error())
		log.Error("cannot resolve patch root", "fix", fix.ID, "outcome", res.Outcome.Status, "error", err)
		return res, nil
	}

	if !opts.DryRun {
		if err := st.commit(r.store); err != nil {
			return res, fmt.Errorf("failed to write pending edits before %s: %w", fix.ID, err)
		}
	} else if st.corpus != st.onDisk {
		log.Warn("dry run checks the diff against the file on disk, earlier in-memory edits are not visible", "fix", fix.ID)
	}

	res.Outcome = r.delegate.Apply(ctx, core.PatchRequest{
		DiffPath: filepath.Join(opts.PatchDir, fix.Patch.File),
		WorkDir:  workDir,
		Strip:    fix.Patch.Strip,
		DryRun:   opts.DryRun,
	})

	if res.Outcome.Status == core.StatusApplied && !opts.DryRun {
		updated, err := r.store.Read(st.target)
		if err != nil {
			return res, fmt.Errorf("failed to re-read target after %s: %w", fix.ID, err)
		}
		st.corpus, st.onDisk = updated, updated
		st.written = true
	}
	return res, nil
}
