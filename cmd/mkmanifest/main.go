package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/tqbf/mkmanifest/pkg/manifest"
)

const appVersion = "0.1.0"

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	// --version belongs to the manifest, not the tool.
	cli.VersionFlag = &cli.BoolFlag{
		Name:  "print-version",
		Usage: "print the tool version",
	}

	return &cli.App{
		Name:      "mkmanifest",
		Usage:     "hash a modpack bundle into a JSON manifest",
		Version:   appVersion,
		ArgsUsage: "[baseDir]",
		Before: func(c *cli.Context) error {
			configureLogging(c.Bool("verbose"))
			return nil
		},
		Flags:  generateFlags(),
		Action: generateAction,
	}
}

func generateFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "version",
			Value: manifest.DefaultVersion,
			Usage: "version string stored in the manifest",
		},
		&cli.StringFlag{
			Name:  "mode",
			Value: string(manifest.ModeAll),
			Usage: "directory set: all or configs",
		},
		&cli.StringFlag{
			Name:  "output",
			Usage: "manifest filename relative to baseDir (default: manifest.json, or manifest-configs.json for configs)",
		},
		&cli.StringSliceFlag{
			Name:  "exclude",
			Usage: "exclude pattern (repeatable)",
		},
		&cli.StringFlag{
			Name:  "symlinks",
			Value: "skip",
			Usage: "symlink handling: skip, follow or error",
		},
		&cli.IntFlag{
			Name:  "workers",
			Value: 1,
			Usage: "files hashed in parallel",
		},
		&cli.BoolFlag{
			Name:  "sort",
			Usage: "sort records by path",
		},
		&cli.StringFlag{
			Name:    "config",
			EnvVars: []string{"MKMANIFEST_CONFIG"},
			Usage:   "YAML config file",
		},
		&cli.BoolFlag{
			Name:    "quiet",
			Aliases: []string{"q"},
			Usage:   "no progress output",
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"v"},
			Usage:   "verbose output",
		},
	}
}

func configureLogging(verbose bool) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(
		slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: level,
		}),
	))
}
