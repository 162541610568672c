package manifest

import (
	"errors"

	"github.com/tqbf/mkmanifest/pkg/pack"
)

// Error kinds for callers using errors.Is. The underlying OS error is
// wrapped alongside the kind.
var (
	ErrBaseDir          = errors.New("base directory unusable")
	ErrInvalidMode      = errors.New("invalid mode")
	ErrInvalidOutput    = errors.New("invalid output filename")
	ErrInvalidExclude   = errors.New("invalid exclude pattern")
	ErrUnreadableFile   = errors.New("unreadable file")
	ErrUnwritableOutput = errors.New("cannot write manifest")
	ErrSymlink          = pack.ErrSymlink
	ErrInvalidName      = pack.ErrInvalidName
)
