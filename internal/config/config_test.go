package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arborui/scenesync/internal/config"
)

func Test_Load_Defaults_When_No_Files_Present(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	cfg, sources, err := config.Load(dir, config.Config{}, nil, nil)
	require.NoError(t, err)

	assert.Equal(t, config.DefaultConfig(), cfg)
	assert.Empty(t, sources.Global)
	assert.Empty(t, sources.Project)
}

func Test_Load_Reads_Project_Config_File(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, config.FileName)

	require.NoError(t, os.WriteFile(path, []byte(`{
		// project override
		"log_level": "debug",
	}`), 0o600))

	cfg, sources, err := config.Load(dir, config.Config{}, nil, nil)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, path, sources.Project)
}

func Test_Load_CLI_Override_Wins_Over_Project_File(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, config.FileName)

	require.NoError(t, os.WriteFile(path, []byte(`{"log_level": "debug"}`), 0o600))

	overrides := config.Config{LogLevel: "error"}

	cfg, _, err := config.Load(dir, overrides, map[string]bool{"log_level": true}, nil)
	require.NoError(t, err)

	assert.Equal(t, "error", cfg.LogLevel)
}

func Test_Load_Global_Config_Via_XDG_CONFIG_HOME(t *testing.T) {
	t.Parallel()

	xdg := t.TempDir()
	globalPath := filepath.Join(xdg, "scenedemo", "config.json")
	require.NoError(t, os.MkdirAll(filepath.Dir(globalPath), 0o750))
	require.NoError(t, os.WriteFile(globalPath, []byte(`{"seed_shape": "tree"}`), 0o600))

	dir := t.TempDir()

	cfg, sources, err := config.Load(dir, config.Config{}, nil, []string{"XDG_CONFIG_HOME=" + xdg})
	require.NoError(t, err)

	assert.Equal(t, "tree", cfg.SeedShape)
	assert.Equal(t, globalPath, sources.Global)
}

func Test_Load_Project_Overrides_Global(t *testing.T) {
	t.Parallel()

	xdg := t.TempDir()
	globalPath := filepath.Join(xdg, "scenedemo", "config.json")
	require.NoError(t, os.MkdirAll(filepath.Dir(globalPath), 0o750))
	require.NoError(t, os.WriteFile(globalPath, []byte(`{"log_level": "debug"}`), 0o600))

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, config.FileName), []byte(`{"log_level": "warn"}`), 0o600))

	cfg, _, err := config.Load(dir, config.Config{}, nil, []string{"XDG_CONFIG_HOME=" + xdg})
	require.NoError(t, err)

	assert.Equal(t, "warn", cfg.LogLevel)
}

func Test_Load_Invalid_JSON_Errors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, config.FileName), []byte(`not json at all`), 0o600))

	_, _, err := config.Load(dir, config.Config{}, nil, nil)
	assert.Error(t, err)
}

func Test_Load_Unknown_Log_Level_Errors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, config.FileName), []byte(`{"log_level": "verbose"}`), 0o600))

	_, _, err := config.Load(dir, config.Config{}, nil, nil)
	assert.Error(t, err)
}

func Test_Format_Returns_Indented_JSON(t *testing.T) {
	t.Parallel()

	out, err := config.Format(config.DefaultConfig())
	require.NoError(t, err)
	assert.Contains(t, out, "\"log_level\": \"info\"")
}
