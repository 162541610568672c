package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tqbf/mkmanifest/pkg/manifest"
)

func writeTree(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for path, content := range files {
		full := filepath.Join(dir, filepath.FromSlash(path))
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0755))
		require.NoError(t, os.WriteFile(full, []byte(content), 0644))
	}
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	app := newApp()
	app.Writer = &out
	app.ErrWriter = &out
	err := app.Run(append([]string{"mkmanifest"}, args...))
	return out.String(), err
}

func TestRunConfigsMode(t *testing.T) {
	dir := t.TempDir()
	writeTree(t, dir, map[string]string{
		"config/a.txt": "hi",
		"mods/jei.jar": "jar",
	})

	out, err := run(t, "--mode", "configs", "--version", "2.0.0", dir)
	require.NoError(t, err)

	m, err := manifest.Load(filepath.Join(dir, "manifest-configs.json"))
	require.NoError(t, err)
	assert.Equal(t, "2.0.0", m.Version)
	assert.Equal(t, "1.16.5", m.MinecraftVersion)
	assert.Equal(t, "36.2.42", m.ForgeVersion)
	require.Len(t, m.Files, 1)
	assert.Equal(t, "config/a.txt", m.Files[0].Path)

	assert.Contains(t, out, "config/a.txt")
	assert.Contains(t, out, "scripts/ missing or not a directory, skipping")
	assert.Contains(t, out, "Version: 2.0.0")
	assert.NotContains(t, out, "mods/jei.jar")
}

func TestRunDefaults(t *testing.T) {
	dir := t.TempDir()
	writeTree(t, dir, map[string]string{"mods/jei.jar": "jar"})

	_, err := run(t, "--quiet", dir)
	require.NoError(t, err)

	m, err := manifest.Load(filepath.Join(dir, "manifest.json"))
	require.NoError(t, err)
	assert.Equal(t, manifest.DefaultVersion, m.Version)
	assert.Len(t, m.Files, 1)
}

func TestRunQuietPrintsNothing(t *testing.T) {
	dir := t.TempDir()
	writeTree(t, dir, map[string]string{"config/a.txt": "a"})

	out, err := run(t, "-q", "--output", "custom.json", dir)
	require.NoError(t, err)
	assert.Empty(t, out)
	assert.FileExists(t, filepath.Join(dir, "custom.json"))
}

func TestRunInvalidModeWritesNothing(t *testing.T) {
	dir := t.TempDir()
	writeTree(t, dir, map[string]string{"config/a.txt": "a"})

	_, err := run(t, "--mode", "everything", dir)
	assert.ErrorIs(t, err, manifest.ErrInvalidMode)
	assert.NoFileExists(t, filepath.Join(dir, "manifest.json"))
}

func TestRunInvalidSymlinkPolicy(t *testing.T) {
	_, err := run(t, "--symlinks", "chase", t.TempDir())
	assert.Error(t, err)
}

func TestRunInvalidWorkers(t *testing.T) {
	_, err := run(t, "--workers", "0", t.TempDir())
	assert.Error(t, err)
}

func TestRunTooManyArgs(t *testing.T) {
	_, err := run(t, t.TempDir(), t.TempDir())
	assert.Error(t, err)
}

func TestRunMissingBaseDir(t *testing.T) {
	_, err := run(t, filepath.Join(t.TempDir(), "nope"))
	assert.ErrorIs(t, err, manifest.ErrBaseDir)
}

func TestRunConfigFile(t *testing.T) {
	dir := t.TempDir()
	writeTree(t, dir, map[string]string{
		"config/a.toml":          "a",
		"config/b.toml.disabled": "b",
		"mods/jei.jar":           "jar",
	})
	cfgPath := filepath.Join(t.TempDir(), "mkmanifest.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(`
version: 5.0.0
mode: configs
output: from-config.json
exclude: ["*.disabled"]
workers: 3
`), 0644))

	_, err := run(t, "-q", "--config", cfgPath, dir)
	require.NoError(t, err)
	m, err := manifest.Load(filepath.Join(dir, "from-config.json"))
	require.NoError(t, err)
	assert.Equal(t, "5.0.0", m.Version)
	require.Len(t, m.Files, 1)
	assert.Equal(t, "config/a.toml", m.Files[0].Path)

	// explicit flags beat the file
	_, err = run(t, "-q", "--config", cfgPath, "--version", "6.0.0", "--mode", "all", dir)
	require.NoError(t, err)
	m, err = manifest.Load(filepath.Join(dir, "from-config.json"))
	require.NoError(t, err)
	assert.Equal(t, "6.0.0", m.Version)
	assert.Len(t, m.Files, 2)
}

func TestRunBadConfigFile(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("colour: blue\n"), 0644))
	_, err := run(t, "--config", cfgPath, t.TempDir())
	assert.Error(t, err)
}
