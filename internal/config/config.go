// Package config loads cmd/scenedemo's configuration, following the same
// defaults -> global -> project -> CLI precedence chain the teacher repo
// uses for its own config, parsed with the same JSONC-tolerant hujson
// reader so a config file can carry comments.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tailscale/hujson"
)

var (
	errConfigFileRead  = errors.New("cannot read config file")
	errConfigInvalid   = errors.New("invalid config file")
	errLogLevelUnknown = errors.New("unknown log level")
)

// Config holds cmd/scenedemo's configuration.
type Config struct {
	// LogLevel is one of "debug", "info", "warn", "error".
	LogLevel string `json:"log_level,omitempty"`
	// SeedShape selects the demo scene the REPL starts with: "empty",
	// "single", or "tree".
	SeedShape string `json:"seed_shape,omitempty"`
	// SnapshotDir is where the "snapshot" verb writes render-store dumps.
	SnapshotDir string `json:"snapshot_dir,omitempty"`
}

// Sources records which config files, if any, contributed to a Load.
type Sources struct {
	Global  string
	Project string
}

// DefaultConfig returns scenedemo's baseline configuration.
func DefaultConfig() Config {
	return Config{
		LogLevel:    "info",
		SeedShape:   "empty",
		SnapshotDir: ".",
	}
}

// FileName is the project-local config file name.
const FileName = ".scenedemo.json"

var validLogLevels = map[string]bool{"debug": true, "info": true, "warn": true, "error": true}

// getGlobalConfigPath returns $XDG_CONFIG_HOME/scenedemo/config.json, or
// ~/.config/scenedemo/config.json if XDG_CONFIG_HOME is unset. Returns ""
// if neither can be determined.
func getGlobalConfigPath(env []string) string {
	for _, e := range env {
		if after, ok := strings.CutPrefix(e, "XDG_CONFIG_HOME="); ok {
			return filepath.Join(after, "scenedemo", "config.json")
		}
	}

	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "scenedemo", "config.json")
	}

	home, err := os.UserHomeDir()
	if err == nil {
		return filepath.Join(home, ".config", "scenedemo", "config.json")
	}

	return ""
}

// Load loads configuration with the following precedence (highest wins):
//  1. Defaults
//  2. Global user config ($XDG_CONFIG_HOME/scenedemo/config.json)
//  3. Project config file (.scenedemo.json in workDir, if present)
//  4. CLI overrides
func Load(workDir string, cliOverrides Config, overridden map[string]bool, env []string) (Config, Sources, error) {
	cfg := DefaultConfig()

	var sources Sources

	globalCfg, globalPath, err := loadConfigFile(getGlobalConfigPath(env), false)
	if err != nil {
		return Config{}, Sources{}, err
	}

	sources.Global = globalPath
	cfg = mergeConfig(cfg, globalCfg)

	projectPath := filepath.Join(workDir, FileName)

	projectCfg, loadedProjectPath, err := loadConfigFile(projectPath, false)
	if err != nil {
		return Config{}, Sources{}, err
	}

	sources.Project = loadedProjectPath
	cfg = mergeConfig(cfg, projectCfg)

	if overridden["log_level"] {
		cfg.LogLevel = cliOverrides.LogLevel
	}

	if overridden["seed_shape"] {
		cfg.SeedShape = cliOverrides.SeedShape
	}

	if overridden["snapshot_dir"] {
		cfg.SnapshotDir = cliOverrides.SnapshotDir
	}

	if err := validateConfig(cfg); err != nil {
		return Config{}, Sources{}, err
	}

	return cfg, sources, nil
}

// loadConfigFile loads a JSONC config file. A missing file is not an error
// and returns a zero Config with an empty path.
func loadConfigFile(path string, mustExist bool) (Config, string, error) {
	if path == "" {
		return Config{}, "", nil
	}

	data, err := os.ReadFile(path) //nolint:gosec // path is caller-controlled, not attacker input
	if err != nil {
		if os.IsNotExist(err) && !mustExist {
			return Config{}, "", nil
		}

		return Config{}, "", fmt.Errorf("%w: %s", errConfigFileRead, path)
	}

	cfg, err := parseConfig(data)
	if err != nil {
		return Config{}, "", fmt.Errorf("%w %s: %w", errConfigInvalid, path, err)
	}

	return cfg, path, nil
}

func parseConfig(data []byte) (Config, error) {
	standardized, err := hujson.Standardize(data)
	if err != nil {
		return Config{}, fmt.Errorf("invalid JSONC: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(standardized, &cfg); err != nil {
		return Config{}, fmt.Errorf("invalid JSON: %w", err)
	}

	return cfg, nil
}

func mergeConfig(base, overlay Config) Config {
	if overlay.LogLevel != "" {
		base.LogLevel = overlay.LogLevel
	}

	if overlay.SeedShape != "" {
		base.SeedShape = overlay.SeedShape
	}

	if overlay.SnapshotDir != "" {
		base.SnapshotDir = overlay.SnapshotDir
	}

	return base
}

func validateConfig(cfg Config) error {
	if !validLogLevels[cfg.LogLevel] {
		return fmt.Errorf("%w: %s", errLogLevelUnknown, cfg.LogLevel)
	}

	return nil
}

// Format returns cfg as formatted JSON, for the REPL's "config" verb.
func Format(cfg Config) (string, error) {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to format config: %w", err)
	}

	return string(data), nil
}
