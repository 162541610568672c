package manifest

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/tqbf/mkmanifest/pkg/pack"
	"github.com/tqbf/mkmanifest/pkg/paths"
)

type Options struct {
	BaseDir string
	// Version is stored verbatim; empty means DefaultVersion.
	Version string
	// Mode defaults to ModeAll.
	Mode Mode
	// Output is the manifest filename relative to BaseDir; empty means
	// the mode's default.
	Output   string
	Excludes []string
	Symlinks pack.SymlinkPolicy
	// Workers > 1 hashes files of a directory in parallel.
	Workers int
	// Sort orders records by path instead of scan order.
	Sort     bool
	Observer Observer
}

type Builder struct {
	base     string
	version  string
	mode     Mode
	output   string
	excludes *paths.ExcludeMatcher
	symlinks pack.SymlinkPolicy
	workers  int
	sort     bool
	obs      Observer
}

// NewBuilder validates opts. Nothing under the base directory is read
// beyond a stat of the directory itself.
func NewBuilder(opts Options) (*Builder, error) {
	b := &Builder{
		base:     opts.BaseDir,
		version:  opts.Version,
		mode:     opts.Mode,
		symlinks: opts.Symlinks,
		workers:  opts.Workers,
		sort:     opts.Sort,
		obs:      opts.Observer,
	}
	if b.base == "" {
		b.base = "."
	}
	if b.version == "" {
		b.version = DefaultVersion
	}
	if b.mode == "" {
		b.mode = ModeAll
	}
	if !b.mode.Valid() {
		return nil, fmt.Errorf("%w %q", ErrInvalidMode, string(b.mode))
	}
	if b.obs == nil {
		b.obs = NopObserver{}
	}

	b.output = opts.Output
	if b.output == "" {
		b.output = b.mode.DefaultOutput()
	}
	if err := paths.ValidateRelPath(b.output); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidOutput, err)
	}
	b.output = paths.CleanRelPath(b.output)

	m, err := paths.NewExcludeMatcher(opts.Excludes)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidExclude, err)
	}
	b.excludes = m

	info, err := os.Stat(b.base)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBaseDir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", ErrBaseDir, b.base)
	}
	return b, nil
}

func (b *Builder) Mode() Mode {
	return b.mode
}

func (b *Builder) Version() string {
	return b.version
}

func (b *Builder) BaseDir() string {
	return b.base
}

// OutputPath is where Write puts the manifest.
func (b *Builder) OutputPath() string {
	return filepath.Join(b.base, filepath.FromSlash(b.output))
}

// Scan hashes every regular file under the mode's include directories.
// Missing directories, and include roots that are symlinks or plain
// files, are reported to the observer and skipped.
func (b *Builder) Scan(ctx context.Context) (*Manifest, error) {
	m := New(b.version)

	for _, name := range b.mode.Dirs() {
		dir := filepath.Join(b.base, name)
		info, err := os.Lstat(dir)
		if errors.Is(err, fs.ErrNotExist) {
			slog.Debug("include directory not found", "dir", name)
			b.obs.DirectorySkipped(name)
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrUnreadableFile, err)
		}
		if info.Mode()&fs.ModeSymlink != 0 {
			if b.symlinks == pack.SymlinkError {
				return nil, fmt.Errorf("%w: %s", ErrSymlink, name)
			}
			slog.Debug("include directory is a symlink, skipping", "dir", name)
			b.obs.DirectorySkipped(name)
			continue
		}
		if !info.IsDir() {
			slog.Debug("include path is not a directory", "dir", name)
			b.obs.DirectorySkipped(name)
			continue
		}

		b.obs.DirectoryEntered(name)
		records, err := b.scanDir(ctx, dir)
		if err != nil {
			return nil, err
		}
		m.Files = append(m.Files, records...)
	}

	if b.sort {
		m.SortByPath()
	}
	return m, nil
}

func (b *Builder) scanDir(
	ctx context.Context,
	dir string,
) ([]FileRecord, error) {
	jobs, err := pack.ListFiles(dir, pack.WalkOptions{
		Base:     b.base,
		Excludes: b.excludes,
		Symlinks: b.symlinks,
	})
	if err != nil {
		return nil, classify(err)
	}

	kept := jobs[:0]
	for _, j := range jobs {
		if j.RelPath == b.output {
			slog.Debug("skipping previous manifest", "path", j.RelPath)
			continue
		}
		kept = append(kept, j)
	}
	slog.Debug("hashing", "dir", dir, "files", len(kept), "workers", b.workers)

	records, err := pack.HashFiles(ctx, kept, b.workers, b.obs.FileHashed)
	if err != nil {
		return nil, classify(err)
	}
	return records, nil
}

func classify(err error) error {
	switch {
	case errors.Is(err, ErrSymlink),
		errors.Is(err, context.Canceled),
		errors.Is(err, context.DeadlineExceeded):
		return err
	default:
		return fmt.Errorf("%w: %w", ErrUnreadableFile, err)
	}
}

// Write persists m to OutputPath, replacing any existing file.
func (b *Builder) Write(m *Manifest) (string, error) {
	out := b.OutputPath()
	if err := WriteFile(out, m); err != nil {
		return "", fmt.Errorf("%w %s: %w", ErrUnwritableOutput, out, err)
	}
	return out, nil
}

// Generate scans opts.BaseDir and writes the manifest. Nothing is
// written unless the whole scan succeeds.
func Generate(ctx context.Context, opts Options) (*Manifest, error) {
	b, err := NewBuilder(opts)
	if err != nil {
		return nil, err
	}
	m, err := b.Scan(ctx)
	if err != nil {
		return nil, err
	}
	if _, err := b.Write(m); err != nil {
		return nil, err
	}
	return m, nil
}
