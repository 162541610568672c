package manifest

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/tqbf/mkmanifest/pkg/pack"
)

// Runtime the bundle targets. Consumers compare these verbatim.
const (
	MinecraftVersion = "1.16.5"
	ForgeVersion     = "36.2.42"
)

const DefaultVersion = "1.0.0"

type FileRecord = pack.FileRecord

type Manifest struct {
	Version          string       `json:"version"`
	MinecraftVersion string       `json:"minecraft_version"`
	ForgeVersion     string       `json:"forge_version"`
	Files            []FileRecord `json:"files"`
}

func New(version string) *Manifest {
	return &Manifest{
		Version:          version,
		MinecraftVersion: MinecraftVersion,
		ForgeVersion:     ForgeVersion,
		Files:            []FileRecord{},
	}
}

func (m *Manifest) TotalSize() int64 {
	var total int64
	for _, f := range m.Files {
		total += f.Size
	}
	return total
}

func (m *Manifest) SortByPath() {
	sort.Slice(m.Files, func(i, j int) bool {
		return m.Files[i].Path < m.Files[j].Path
	})
}

// Encode writes m as indented JSON. HTML escaping is off so paths keep
// their literal characters.
func (m *Manifest) Encode(w io.Writer) error {
	out := *m
	if out.Files == nil {
		out.Files = []FileRecord{}
	}
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func Decode(r io.Reader) (*Manifest, error) {
	var m Manifest
	if err := json.NewDecoder(r).Decode(&m); err != nil {
		return nil, fmt.Errorf("decode manifest: %w", err)
	}
	return &m, nil
}

func Load(path string) (*Manifest, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Decode(f)
}

// WriteFile replaces path with the encoded manifest. The document is
// written to a temporary sibling first, so path is either the old file
// or the complete new one. An existing file's permissions are kept; a
// new file gets 0644.
func WriteFile(path string, m *Manifest) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".manifest-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp: %w", err)
	}
	tmpName := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			os.Remove(tmpName)
		}
	}()

	encErr := m.Encode(tmp)
	closeErr := tmp.Close()
	if encErr != nil {
		return fmt.Errorf("write %s: %w", tmpName, encErr)
	}
	if closeErr != nil {
		return fmt.Errorf("close %s: %w", tmpName, closeErr)
	}
	perm := os.FileMode(0644)
	if info, err := os.Stat(path); err == nil {
		perm = info.Mode().Perm()
	}
	if err := os.Chmod(tmpName, perm); err != nil {
		return fmt.Errorf("chmod %s: %w", tmpName, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("rename: %w", err)
	}
	committed = true
	return nil
}
