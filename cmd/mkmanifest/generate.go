package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/tqbf/mkmanifest/pkg/config"
	"github.com/tqbf/mkmanifest/pkg/manifest"
	"github.com/tqbf/mkmanifest/pkg/pack"
)

func generateAction(c *cli.Context) error {
	if c.NArg() > 1 {
		return fmt.Errorf("usage: mkmanifest [flags] [baseDir]")
	}

	opts, err := resolveOptions(c)
	if err != nil {
		return err
	}

	var con *console
	if !c.Bool("quiet") {
		con = newConsole(c.App.Writer)
		opts.Observer = con
	}

	b, err := manifest.NewBuilder(opts)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(
		context.Background(), os.Interrupt,
	)
	defer stop()

	if con != nil {
		con.banner(b)
	}

	t := time.Now()
	m, err := b.Scan(ctx)
	if err != nil {
		return err
	}
	out, err := b.Write(m)
	if err != nil {
		return err
	}
	slog.Debug("manifest written",
		"path", out,
		"files", len(m.Files),
		"elapsed", time.Since(t),
	)

	if con != nil {
		con.summary(m, out)
	}
	return nil
}

// resolveOptions merges the config file under the command line: a flag
// the user set wins, then the file, then the flag default.
func resolveOptions(c *cli.Context) (manifest.Options, error) {
	var cfg config.File
	if p := c.String("config"); p != "" {
		loaded, err := config.Load(p)
		if err != nil {
			return manifest.Options{}, err
		}
		cfg = *loaded
	}

	pick := func(flag, fromFile string) string {
		if c.IsSet(flag) || fromFile == "" {
			return c.String(flag)
		}
		return fromFile
	}

	mode, err := manifest.ParseMode(pick("mode", cfg.Mode))
	if err != nil {
		return manifest.Options{}, err
	}
	symlinks, err := pack.ParseSymlinkPolicy(pick("symlinks", cfg.Symlinks))
	if err != nil {
		return manifest.Options{}, err
	}

	workers := c.Int("workers")
	if !c.IsSet("workers") && cfg.Workers > 0 {
		workers = cfg.Workers
	}
	if workers < 1 {
		return manifest.Options{}, fmt.Errorf(
			"--workers must be at least 1, got %d", workers,
		)
	}

	base := "."
	if c.NArg() == 1 {
		base = c.Args().First()
	}

	excludes := append([]string(nil), cfg.Exclude...)
	excludes = append(excludes, c.StringSlice("exclude")...)

	return manifest.Options{
		BaseDir:  base,
		Version:  pick("version", cfg.Version),
		Mode:     mode,
		Output:   pick("output", cfg.Output),
		Excludes: excludes,
		Symlinks: symlinks,
		Workers:  workers,
		Sort:     c.Bool("sort") || cfg.Sort,
	}, nil
}
