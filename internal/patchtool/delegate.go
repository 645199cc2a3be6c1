package patchtool

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/sevigo/srcfix/internal/core"
)

// ErrTimeout is reported when the patch program does not finish in time.
var ErrTimeout = errors.New("patch tool timed out")

// alreadyAppliedMarkers are printed by GNU patch when --forward finds a hunk that
// is already in place.
var alreadyAppliedMarkers = []string{"already applied", "reversed"}

// Options configures a Delegate.
type Options struct {
	// Binary is the patch program, looked up on PATH when not absolute.
	Binary  string
	Timeout time.Duration
}

// Delegate applies diffs with GNU patch in forward-only mode. It dry-runs first
// so a diff that would half-apply never touches the file.
type Delegate struct {
	exec   Executor
	opts   Options
	logger *slog.Logger
}

// New returns a Delegate. A zero Timeout means no limit.
func New(executor Executor, opts Options, logger *slog.Logger) *Delegate {
	if opts.Binary == "" {
		opts.Binary = "patch"
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Delegate{exec: executor, opts: opts, logger: logger}
}

var _ core.PatchDelegate = (*Delegate)(nil)

// Apply runs the diff from req.WorkDir. With req.DryRun set only the dry run
// happens.
func (d *Delegate) Apply(ctx context.Context, req core.PatchRequest) core.Outcome {
	diffPath, workDir := req.DiffPath, req.WorkDir
	if _, err := os.Stat(diffPath); err != nil {
		return core.ConfigError(fmt.Sprintf("patch file %s: %v", diffPath, err))
	}
	if st, err := os.Stat(workDir); err != nil || !st.IsDir() {
		return core.ConfigError(fmt.Sprintf("patch working directory %s is not a directory", workDir))
	}

	check, err := d.run(ctx, req, true)
	if err != nil {
		return d.failure(check, err)
	}
	if isAlreadyApplied(check) {
		d.logger.InfoContext(ctx, "diff already applied", "diff", diffPath, "outcome", core.StatusAlreadyApplied)
		return core.AlreadyApplied(core.StrategyExternal, "patch reports hunks already applied")
	}
	if check.ExitCode != 0 {
		out := d.toolFailure(check, "dry run rejected the diff")
		d.logger.ErrorContext(ctx, "patch dry run failed", "diff", diffPath, "exit_code", check.ExitCode, "stderr", check.Stderr)
		return out
	}
	if req.DryRun {
		return core.Applied(core.StrategyExternal, 0, "dry run: diff applies cleanly")
	}

	res, err := d.run(ctx, req, false)
	if err != nil {
		return d.failure(res, err)
	}
	if res.ExitCode != 0 {
		d.logger.ErrorContext(ctx, "patch failed", "diff", diffPath, "exit_code", res.ExitCode, "stderr", res.Stderr)
		return d.toolFailure(res, "patch exited with an error")
	}
	d.logger.InfoContext(ctx, "diff applied", "diff", diffPath, "outcome", core.StatusApplied)
	out := core.Applied(core.StrategyExternal, 0, "patch applied")
	out.Stdout, out.Stderr = res.Stdout, res.Stderr
	return out
}

func (d *Delegate) run(ctx context.Context, req core.PatchRequest, dryRun bool) (Result, error) {
	if d.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.opts.Timeout)
		defer cancel()
	}
	args := []string{"--forward", "--no-backup-if-mismatch", "-p" + strconv.Itoa(req.Strip)}
	if dryRun {
		args = append(args, "--dry-run")
	}
	args = append(args, "-i", req.DiffPath)

	cmd := Command{Dir: req.WorkDir, Name: d.opts.Binary, Args: args}
	d.logger.DebugContext(ctx, "running patch tool", "command", cmd.String())
	res, err := d.exec.Run(ctx, cmd)
	if errors.Is(err, context.DeadlineExceeded) {
		return res, fmt.Errorf("%w after %s", ErrTimeout, d.opts.Timeout)
	}
	return res, err
}

func (d *Delegate) failure(res Result, err error) core.Outcome {
	exit := res.ExitCode
	if errors.Is(err, ErrTimeout) || errors.Is(err, context.Canceled) {
		exit = -1
	}
	return core.ToolFailure(core.StrategyExternal, exit, res.Stderr, err.Error())
}

func (d *Delegate) toolFailure(res Result, detail string) core.Outcome {
	out := core.ToolFailure(core.StrategyExternal, res.ExitCode, res.Stderr, detail)
	out.Stdout = res.Stdout
	return out
}

func isAlreadyApplied(res Result) bool {
	text := strings.ToLower(res.Stdout + "\n" + res.Stderr)
	for _, m := range alreadyAppliedMarkers {
		if strings.Contains(text, m) {
			return true
		}
	}
	return false
}

// ResolveWorkDir returns the directory depth levels above the directory holding
// target. Diff paths are relative to that root.
func ResolveWorkDir(target string, depth int) (string, error) {
	abs, err := filepath.Abs(target)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %s: %w", target, err)
	}
	dir := filepath.Dir(abs)
	for i := 0; i < depth; i++ {
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("%s has fewer than %d parent directories", target, depth)
		}
		dir = parent
	}
	return dir, nil
}
