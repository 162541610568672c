package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/mattn/go-isatty"

	"github.com/tqbf/mkmanifest/pkg/manifest"
)

var rule = strings.Repeat("=", 50)

type icons struct {
	dir, skip, file, ok, total, version string
}

var (
	emojiIcons = icons{"📁", "⚠️ ", "🔍", "✅", "📊", "📦"}
	plainIcons = icons{"==>", "!!", "  ", "ok", "--", "--"}
)

// console prints progress for a terminal user. It implements
// manifest.Observer.
type console struct {
	w     io.Writer
	icons icons

	dirColor  *color.Color
	warnColor *color.Color
	okColor   *color.Color
}

func newConsole(w io.Writer) *console {
	ic := plainIcons
	if isTerminal(w) {
		ic = emojiIcons
	}
	return &console{
		w:         w,
		icons:     ic,
		dirColor:  color.New(color.FgCyan, color.Bold),
		warnColor: color.New(color.FgYellow),
		okColor:   color.New(color.FgGreen),
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func (c *console) banner(b *manifest.Builder) {
	fmt.Fprintf(c.w,
		"Generating %s manifest %s for %s\n",
		b.Mode(), b.Version(), b.BaseDir(),
	)
	fmt.Fprintln(c.w, rule)
}

func (c *console) DirectoryEntered(name string) {
	c.dirColor.Fprintf(c.w, "\n%s %s/\n", c.icons.dir, name)
}

func (c *console) DirectorySkipped(name string) {
	c.warnColor.Fprintf(c.w,
		"%s %s/ missing or not a directory, skipping\n", c.icons.skip, name,
	)
}

func (c *console) FileHashed(rec manifest.FileRecord) {
	fmt.Fprintf(c.w, "  %s %s ", c.icons.file, rec.Path)
	c.okColor.Fprintf(c.w,
		"%s (%s)\n", c.icons.ok, humanize.IBytes(uint64(rec.Size)),
	)
}

func (c *console) summary(m *manifest.Manifest, out string) {
	fmt.Fprintf(c.w, "\n%s\n", rule)
	c.okColor.Fprintf(c.w, "%s Manifest written: %s\n", c.icons.ok, out)
	fmt.Fprintf(c.w,
		"%s Files: %s (%s)\n",
		c.icons.total,
		humanize.Comma(int64(len(m.Files))),
		humanize.IBytes(uint64(m.TotalSize())),
	)
	fmt.Fprintf(c.w, "%s Version: %s\n", c.icons.version, m.Version)
}
