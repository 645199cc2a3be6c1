package core

// RunConfig represents the structure of the optional .srcfix.yml file that sits
// next to a target (or is passed with --config).
type RunConfig struct {
	// Fixes restricts the run to these fix ids, in this order. Empty means the
	// whole catalog in catalog order.
	Fixes []string `yaml:"fixes"`

	// Skip removes fix ids from the selection.
	Skip []string `yaml:"skip"`

	// StopOnFailure overrides the environment default when set.
	StopOnFailure *bool `yaml:"stop_on_failure"`

	// PatchDir is where companion diff files are looked up. Relative paths are
	// resolved against the directory of the run config file.
	PatchDir string `yaml:"patch_dir"`

	// PatchRootDepth is how many directories above the target's directory the
	// external patch tool runs from. Zero keeps the environment default.
	PatchRootDepth int `yaml:"patch_root_depth"`
}

// DefaultRunConfig returns a config with default values.
func DefaultRunConfig() *RunConfig {
	return &RunConfig{
		Fixes: []string{},
		Skip:  []string{},
	}
}
