package pack

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"unicode/utf8"

	"golang.org/x/sync/errgroup"

	"github.com/tqbf/mkmanifest/pkg/paths"
)

const hashBufSize = 1 << 20

// ErrInvalidName is returned for names that are not valid UTF-8; JSON
// cannot carry them without collapsing distinct files onto one path.
var ErrInvalidName = errors.New("path is not valid UTF-8")

type WalkOptions struct {
	// Base is the directory record paths are made relative to.
	Base     string
	Excludes *paths.ExcludeMatcher
	Symlinks SymlinkPolicy
}

// ListFiles enumerates the regular files under dir in WalkDir order
// (lexical within each directory).
func ListFiles(
	dir string,
	opts WalkOptions,
) ([]FileJob, error) {
	base := opts.Base
	if base == "" {
		base = dir
	}
	w := &walker{base: base, opts: opts}

	err := filepath.WalkDir(dir, w.visit)
	if err != nil {
		return nil, err
	}
	return w.jobs, nil
}

type walker struct {
	base         string
	resolvedBase string
	opts         WalkOptions
	jobs         []FileJob
}

func (w *walker) visit(p string, d fs.DirEntry, err error) error {
	if err != nil {
		return err
	}
	rel, err := paths.RelSlash(w.base, p)
	if err != nil {
		return err
	}
	if !utf8.ValidString(rel) {
		return fmt.Errorf("%w: %q", ErrInvalidName, rel)
	}
	if w.opts.Excludes.Match(rel) {
		slog.Debug("excluded", "path", rel)
		if d.IsDir() {
			return filepath.SkipDir
		}
		return nil
	}
	if d.IsDir() {
		return nil
	}
	if d.Type()&fs.ModeSymlink != 0 {
		return w.symlink(p, rel)
	}
	if !d.Type().IsRegular() {
		return nil
	}
	w.jobs = append(w.jobs, FileJob{
		RelPath: rel,
		AbsPath: p,
	})
	return nil
}

func (w *walker) symlink(p, rel string) error {
	switch w.opts.Symlinks {
	case SymlinkError:
		return fmt.Errorf("%w: %s", ErrSymlink, rel)
	case SymlinkFollow:
	default:
		slog.Debug("skipping symlink", "path", rel)
		return nil
	}

	if w.resolvedBase == "" {
		rb, err := resolve(w.base)
		if err != nil {
			return fmt.Errorf("resolve base: %w", err)
		}
		w.resolvedBase = rb
	}

	target, err := resolve(p)
	if err != nil {
		slog.Debug("skipping dangling symlink", "path", rel, "err", err)
		return nil
	}
	if !paths.IsWithinDir(w.resolvedBase, target) {
		slog.Debug("skipping symlink outside base",
			"path", rel,
			"target", target,
		)
		return nil
	}
	info, err := os.Stat(target)
	if err != nil {
		return err
	}
	if !info.Mode().IsRegular() {
		slog.Debug("not descending symlinked directory", "path", rel)
		return nil
	}
	w.jobs = append(w.jobs, FileJob{
		RelPath: rel,
		AbsPath: p,
	})
	return nil
}

func resolve(p string) (string, error) {
	abs, err := filepath.Abs(p)
	if err != nil {
		return "", err
	}
	return filepath.EvalSymlinks(abs)
}

// HashFiles hashes jobs and returns their records in the same order.
// With workers <= 1 one file is open at a time. progress, if set, is
// called on the calling goroutine in job order.
func HashFiles(
	ctx context.Context,
	jobs []FileJob,
	workers int,
	progress func(FileRecord),
) ([]FileRecord, error) {
	if progress == nil {
		progress = func(FileRecord) {}
	}
	if workers > len(jobs) {
		workers = len(jobs)
	}
	if workers <= 1 {
		return hashSequential(ctx, jobs, progress)
	}

	records := make([]FileRecord, len(jobs))
	done := make([]bool, len(jobs))

	g, gctx := errgroup.WithContext(ctx)
	jobCh := make(chan int)
	resultCh := make(chan int, len(jobs))

	g.Go(func() error {
		defer close(jobCh)
		for i := range jobs {
			select {
			case jobCh <- i:
			case <-gctx.Done():
				return gctx.Err()
			}
		}
		return nil
	})

	for w := 0; w < workers; w++ {
		g.Go(func() error {
			buf := make([]byte, hashBufSize)
			for i := range jobCh {
				if err := gctx.Err(); err != nil {
					return err
				}
				rec, err := hashFile(jobs[i], buf)
				if err != nil {
					return err
				}
				records[i] = rec
				resultCh <- i
			}
			return nil
		})
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- g.Wait()
		close(resultCh)
	}()

	next := 0
	for i := range resultCh {
		done[i] = true
		for next < len(records) && done[next] {
			progress(records[next])
			next++
		}
	}
	if err := <-errCh; err != nil {
		return nil, err
	}
	return records, nil
}

func hashSequential(
	ctx context.Context,
	jobs []FileJob,
	progress func(FileRecord),
) ([]FileRecord, error) {
	buf := make([]byte, hashBufSize)
	records := make([]FileRecord, 0, len(jobs))
	for _, j := range jobs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		rec, err := hashFile(j, buf)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
		progress(rec)
	}
	return records, nil
}

func hashFile(
	j FileJob,
	buf []byte,
) (FileRecord, error) {
	f, err := os.Open(j.AbsPath)
	if err != nil {
		return FileRecord{}, fmt.Errorf("open %s: %w", j.RelPath, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return FileRecord{}, fmt.Errorf("stat %s: %w", j.RelPath, err)
	}

	sum, err := HashReader(f, buf)
	if err != nil {
		return FileRecord{}, fmt.Errorf("read %s: %w", j.RelPath, err)
	}

	return FileRecord{
		Path:   j.RelPath,
		SHA256: sum,
		Size:   info.Size(),
	}, nil
}

// HashReader returns the lowercase hex SHA-256 of r, streamed through
// buf. A nil buf gets a default-sized one.
func HashReader(r io.Reader, buf []byte) (string, error) {
	if buf == nil {
		buf = make([]byte, hashBufSize)
	}
	h := sha256.New()
	if _, err := io.CopyBuffer(h, r, buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
