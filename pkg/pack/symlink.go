package pack

import (
	"errors"
	"fmt"
	"strings"
)

var ErrSymlink = errors.New("symlink not allowed")

// SymlinkPolicy controls what ListFiles does with symbolic links.
type SymlinkPolicy int

const (
	// SymlinkSkip ignores links entirely.
	SymlinkSkip SymlinkPolicy = iota
	// SymlinkFollow hashes links to regular files that resolve inside
	// the base directory. Linked directories are never descended.
	SymlinkFollow
	// SymlinkError fails the walk on the first link.
	SymlinkError
)

var symlinkPolicyNames = map[SymlinkPolicy]string{
	SymlinkSkip:   "skip",
	SymlinkFollow: "follow",
	SymlinkError:  "error",
}

func (p SymlinkPolicy) String() string {
	if s, ok := symlinkPolicyNames[p]; ok {
		return s
	}
	return fmt.Sprintf("SymlinkPolicy(%d)", int(p))
}

func ParseSymlinkPolicy(s string) (SymlinkPolicy, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return SymlinkSkip, nil
	}
	for p, name := range symlinkPolicyNames {
		if name == s {
			return p, nil
		}
	}
	return SymlinkSkip, fmt.Errorf(
		"invalid symlink policy %q (want skip, follow or error)", s,
	)
}
