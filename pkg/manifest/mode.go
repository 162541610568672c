package manifest

import "fmt"

// Mode selects which top-level directories of a bundle are scanned.
type Mode string

const (
	ModeAll     Mode = "all"
	ModeConfigs Mode = "configs"
)

// ExtraDir is the bundle-specific directory shipped alongside the
// standard Forge layout.
const ExtraDir = "Randomsland Menu Stuff"

var includeDirs = map[Mode][]string{
	ModeAll: {
		"mods",
		"config",
		"scripts",
		"defaultconfigs",
		"kubejs",
		"resourcepacks",
		"shaderpacks",
		ExtraDir,
	},
	ModeConfigs: {
		"config",
		"scripts",
		"defaultconfigs",
		"kubejs",
	},
}

var defaultOutputs = map[Mode]string{
	ModeAll:     "manifest.json",
	ModeConfigs: "manifest-configs.json",
}

func Modes() []Mode {
	return []Mode{ModeAll, ModeConfigs}
}

func ParseMode(s string) (Mode, error) {
	m := Mode(s)
	if !m.Valid() {
		return "", fmt.Errorf(
			"%w %q (want all or configs)", ErrInvalidMode, s,
		)
	}
	return m, nil
}

func (m Mode) Valid() bool {
	_, ok := includeDirs[m]
	return ok
}

// Dirs returns the include directories for m in scan order. The slice
// is a copy.
func (m Mode) Dirs() []string {
	return append([]string(nil), includeDirs[m]...)
}

func (m Mode) DefaultOutput() string {
	return defaultOutputs[m]
}

func (m Mode) String() string {
	return string(m)
}
