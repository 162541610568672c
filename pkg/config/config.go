// Package config loads the optional YAML file that supplies defaults for
// a manifest run. Command-line flags that are set explicitly win over
// values from the file.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

type File struct {
	Version  string   `yaml:"version"`
	Mode     string   `yaml:"mode"`
	Output   string   `yaml:"output"`
	Exclude  []string `yaml:"exclude"`
	Symlinks string   `yaml:"symlinks"`
	Workers  int      `yaml:"workers"`
	Sort     bool     `yaml:"sort"`
}

func Load(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()

	cfg, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Decode parses a config document. Unknown keys are an error; an empty
// document yields the zero File.
func Decode(r io.Reader) (*File, error) {
	var cfg File
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if cfg.Workers < 0 {
		return nil, fmt.Errorf("workers must be >= 0, got %d", cfg.Workers)
	}
	return &cfg, nil
}
