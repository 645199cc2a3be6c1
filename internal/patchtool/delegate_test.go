package patchtool_test

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/sevigo/srcfix/internal/core"
	"github.com/sevigo/srcfix/internal/patchtool"
	"github.com/sevigo/srcfix/mocks"
)

func setup(t *testing.T) (diff, workDir string) {
	t.Helper()
	workDir = t.TempDir()
	diff = filepath.Join(t.TempDir(), "fix.patch")
	require.NoError(t, os.WriteFile(diff, []byte("--- a\n+++ b\n"), 0o644))
	return diff, workDir
}

func newDelegate(exec patchtool.Executor) *patchtool.Delegate {
	return patchtool.New(exec, patchtool.Options{Timeout: time.Second}, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func dryRunArgs(diff string) []string {
	return []string{"--forward", "--no-backup-if-mismatch", "-p0", "--dry-run", "-i", diff}
}

func TestDelegate_Apply(t *testing.T) {
	diff, workDir := setup(t)
	dry := patchtool.Command{Dir: workDir, Name: "patch", Args: dryRunArgs(diff)}
	apply := patchtool.Command{Dir: workDir, Name: "patch", Args: []string{"--forward", "--no-backup-if-mismatch", "-p0", "-i", diff}}

	testCases := []struct {
		name      string
		dryRun    bool
		mockSetup func(m *mocks.MockExecutor)
		want      core.Status
		wantExit  int
	}{
		{
			name: "Clean apply",
			mockSetup: func(m *mocks.MockExecutor) {
				gomock.InOrder(
					m.EXPECT().Run(gomock.Any(), dry).Return(patchtool.Result{Stdout: "checking file src/video/drastic_video.c\n"}, nil),
					m.EXPECT().Run(gomock.Any(), apply).Return(patchtool.Result{Stdout: "patching file src/video/drastic_video.c\n"}, nil),
				)
			},
			want: core.StatusApplied,
		},
		{
			name:   "Dry run stops after the check",
			dryRun: true,
			mockSetup: func(m *mocks.MockExecutor) {
				m.EXPECT().Run(gomock.Any(), dry).Return(patchtool.Result{}, nil)
			},
			want: core.StatusApplied,
		},
		{
			name: "Reversed patch detected is already applied",
			mockSetup: func(m *mocks.MockExecutor) {
				m.EXPECT().Run(gomock.Any(), dry).Return(patchtool.Result{
					ExitCode: 1,
					Stdout:   "Reversed (or previously applied) patch detected!  Skipping patch.\n",
				}, nil)
			},
			want: core.StatusAlreadyApplied,
		},
		{
			name: "Marker on stderr in other case",
			mockSetup: func(m *mocks.MockExecutor) {
				m.EXPECT().Run(gomock.Any(), dry).Return(patchtool.Result{ExitCode: 1, Stderr: "Hunk ALREADY APPLIED\n"}, nil)
			},
			want: core.StatusAlreadyApplied,
		},
		{
			name: "Rejected hunks fail without touching the file",
			mockSetup: func(m *mocks.MockExecutor) {
				m.EXPECT().Run(gomock.Any(), dry).Return(patchtool.Result{ExitCode: 1, Stdout: "Hunk #1 FAILED at 10.\n"}, nil)
			},
			want:     core.StatusToolFailure,
			wantExit: 1,
		},
		{
			name: "Timeout",
			mockSetup: func(m *mocks.MockExecutor) {
				m.EXPECT().Run(gomock.Any(), dry).Return(patchtool.Result{ExitCode: -1}, context.DeadlineExceeded)
			},
			want:     core.StatusToolFailure,
			wantExit: -1,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			m := mocks.NewMockExecutor(ctrl)
			tc.mockSetup(m)

			out := newDelegate(m).Apply(context.Background(), core.PatchRequest{DiffPath: diff, WorkDir: workDir, DryRun: tc.dryRun})
			assert.Equal(t, tc.want, out.Status, out.Detail)
			assert.Equal(t, core.StrategyExternal, out.Tier)
			assert.Equal(t, tc.wantExit, out.ExitCode)
		})
	}
}

func TestDelegate_TimeoutDetail(t *testing.T) {
	diff, workDir := setup(t)
	ctrl := gomock.NewController(t)
	m := mocks.NewMockExecutor(ctrl)
	m.EXPECT().Run(gomock.Any(), gomock.Any()).Return(patchtool.Result{}, context.DeadlineExceeded)

	out := newDelegate(m).Apply(context.Background(), core.PatchRequest{DiffPath: diff, WorkDir: workDir})
	assert.Contains(t, out.Detail, patchtool.ErrTimeout.Error())
}

func TestDelegate_MissingInputsAreConfigErrors(t *testing.T) {
	diff, workDir := setup(t)
	ctrl := gomock.NewController(t)
	m := mocks.NewMockExecutor(ctrl)

	d := newDelegate(m)
	assert.Equal(t, core.StatusConfigError, d.Apply(context.Background(), core.PatchRequest{DiffPath: filepath.Join(workDir, "missing.patch"), WorkDir: workDir}).Status)
	assert.Equal(t, core.StatusConfigError, d.Apply(context.Background(), core.PatchRequest{DiffPath: diff, WorkDir: filepath.Join(workDir, "nope")}).Status)
}

func TestResolveWorkDir(t *testing.T) {
	root := t.TempDir()
	target := filepath.Join(root, "src", "video", "drastic_video.c")

	dir, err := patchtool.ResolveWorkDir(target, 2)
	require.NoError(t, err)
	assert.Equal(t, root, dir)

	dir, err = patchtool.ResolveWorkDir(target, 0)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "src", "video"), dir)

	_, err = patchtool.ResolveWorkDir("/a.c", 3)
	assert.Error(t, err)
}
