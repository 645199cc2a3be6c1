package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"

	"github.com/sevigo/srcfix/internal/core"
)

var (
	ErrConfigNotFound = errors.New("config file not found")
	ErrConfigParsing  = errors.New("config parsing failed")
	ErrConfigInvalid  = errors.New("config failed schema validation")
)

const runConfigSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "additionalProperties": false,
  "properties": {
    "fixes": {"type": "array", "items": {"type": "string", "minLength": 1}, "uniqueItems": true},
    "skip": {"type": "array", "items": {"type": "string", "minLength": 1}, "uniqueItems": true},
    "stop_on_failure": {"type": "boolean"},
    "patch_dir": {"type": "string"},
    "patch_root_depth": {"type": "integer", "minimum": 0}
  }
}`

var runSchema = mustCompile(runConfigSchema)

func mustCompile(schema string) *jsonschema.Schema {
	c := jsonschema.NewCompiler()
	if err := c.AddResource("run_config.json", strings.NewReader(schema)); err != nil {
		panic(err)
	}
	return c.MustCompile("run_config.json")
}

// LoadRunConfig loads and validates a .srcfix.yml file. A missing file yields the
// defaults together with ErrConfigNotFound.
func LoadRunConfig(path string) (*core.RunConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return core.DefaultRunConfig(), ErrConfigNotFound
		}
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return ParseRunConfig(data, filepath.Dir(path))
}

// ParseRunConfig validates data against the run config schema and decodes it.
// A relative patch_dir is resolved against baseDir.
func ParseRunConfig(data []byte, baseDir string) (*core.RunConfig, error) {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfigParsing, err)
	}
	if doc == nil {
		return core.DefaultRunConfig(), nil
	}

	// the schema validator wants JSON-shaped values
	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfigParsing, err)
	}
	var value any
	if err := json.Unmarshal(raw, &value); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfigParsing, err)
	}
	if err := runSchema.Validate(value); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfigInvalid, err)
	}

	cfg := core.DefaultRunConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfigParsing, err)
	}
	if cfg.PatchDir != "" && !filepath.IsAbs(cfg.PatchDir) {
		cfg.PatchDir = filepath.Join(baseDir, cfg.PatchDir)
	}
	return cfg, nil
}
