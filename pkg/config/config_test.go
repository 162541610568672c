package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode(t *testing.T) {
	cfg, err := Decode(strings.NewReader(`
version: 2.3.0
mode: configs
output: out.json
exclude:
  - "*.disabled"
  - .DS_Store
symlinks: follow
workers: 4
sort: true
`))
	require.NoError(t, err)
	assert.Equal(t, &File{
		Version:  "2.3.0",
		Mode:     "configs",
		Output:   "out.json",
		Exclude:  []string{"*.disabled", ".DS_Store"},
		Symlinks: "follow",
		Workers:  4,
		Sort:     true,
	}, cfg)
}

func TestDecodeEmpty(t *testing.T) {
	cfg, err := Decode(strings.NewReader(""))
	require.NoError(t, err)
	assert.Equal(t, &File{}, cfg)
}

func TestDecodeUnknownKey(t *testing.T) {
	_, err := Decode(strings.NewReader("minecraft_version: 1.18.2\n"))
	assert.Error(t, err)
}

func TestDecodeNegativeWorkers(t *testing.T) {
	_, err := Decode(strings.NewReader("workers: -2\n"))
	assert.Error(t, err)
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "mkmanifest.yaml")
	require.NoError(t, os.WriteFile(path, []byte("version: \"1.0.1\"\n"), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "1.0.1", cfg.Version)

	_, err = Load(filepath.Join(dir, "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
