package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(viper.New())
	require.NoError(t, err)

	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, "stderr", cfg.LogOutput)
	assert.Equal(t, "patch", cfg.PatchBinary)
	assert.Equal(t, 60*time.Second, cfg.PatchTimeout)
	assert.Equal(t, 2, cfg.PatchRootDepth)
	assert.True(t, cfg.StopOnFailure)
	assert.Equal(t, 4, cfg.MaxWorkers)
	assert.Equal(t, ".srcfix.yml", cfg.RunConfig)
	assert.NotEmpty(t, cfg.PatchDir)
}

func TestLoad_Environment(t *testing.T) {
	t.Setenv("SRCFIX_LOG_LEVEL", "debug")
	t.Setenv("SRCFIX_LOG_FORMAT", "JSON")
	t.Setenv("SRCFIX_PATCH_TIMEOUT", "5s")
	t.Setenv("SRCFIX_STOP_ON_FAILURE", "false")
	t.Setenv("SRCFIX_PATCH_DIR", "/opt/patches")
	t.Setenv("SRCFIX_MAX_WORKERS", "0")

	cfg, err := Load(viper.New())
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, 5*time.Second, cfg.PatchTimeout)
	assert.False(t, cfg.StopOnFailure)
	assert.Equal(t, "/opt/patches", cfg.PatchDir)
	assert.Equal(t, 1, cfg.MaxWorkers)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name, key, value string
	}{
		{"Zero timeout", "SRCFIX_PATCH_TIMEOUT", "0s"},
		{"Negative depth", "SRCFIX_PATCH_ROOT_DEPTH", "-1"},
		{"Unknown log format", "SRCFIX_LOG_FORMAT", "xml"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := Load(viper.New())
			assert.Error(t, err)
		})
	}
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelWarn, ParseLevel("WARN"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("verbose"))
}

func TestLoadRunConfig(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr error
		check   func(t *testing.T, dir string, fixes, skip []string, stop *bool, patchDir string, depth int)
	}{
		{
			name:    "Full file",
			content: "fixes: [drm-init, menu]\nskip: [nextui]\nstop_on_failure: false\npatch_dir: patches\npatch_root_depth: 1\n",
			check: func(t *testing.T, dir string, fixes, skip []string, stop *bool, patchDir string, depth int) {
				assert.Equal(t, []string{"drm-init", "menu"}, fixes)
				assert.Equal(t, []string{"nextui"}, skip)
				require.NotNil(t, stop)
				assert.False(t, *stop)
				assert.Equal(t, filepath.Join(dir, "patches"), patchDir)
				assert.Equal(t, 1, depth)
			},
		},
		{
			name:    "Empty file keeps defaults",
			content: "",
			check: func(t *testing.T, _ string, fixes, skip []string, stop *bool, _ string, _ int) {
				assert.Empty(t, fixes)
				assert.Empty(t, skip)
				assert.Nil(t, stop)
			},
		},
		{name: "Unknown key", content: "fixez: [menu]\n", wantErr: ErrConfigInvalid},
		{name: "Wrong type", content: "stop_on_failure: maybe\n", wantErr: ErrConfigInvalid},
		{name: "Negative depth", content: "patch_root_depth: -2\n", wantErr: ErrConfigInvalid},
		{name: "Duplicate ids", content: "fixes: [menu, menu]\n", wantErr: ErrConfigInvalid},
		{name: "Broken YAML", content: "fixes: [menu\n", wantErr: ErrConfigParsing},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			path := filepath.Join(dir, ".srcfix.yml")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o644))

			cfg, err := LoadRunConfig(path)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			tt.check(t, dir, cfg.Fixes, cfg.Skip, cfg.StopOnFailure, cfg.PatchDir, cfg.PatchRootDepth)
		})
	}
}

func TestLoadRunConfig_Missing(t *testing.T) {
	cfg, err := LoadRunConfig(filepath.Join(t.TempDir(), ".srcfix.yml"))
	assert.ErrorIs(t, err, ErrConfigNotFound)
	require.NotNil(t, cfg)
	assert.Empty(t, cfg.Fixes)
}
