package paths

import (
	"fmt"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// ExcludeMatcher decides whether a base-relative, slash-separated path
// should be left out of a scan. Patterns use doublestar syntax. A pattern
// without a slash is tested against every path component; a pattern with
// one is tested against the whole path.
type ExcludeMatcher struct {
	patterns []string
}

func NewExcludeMatcher(patterns []string) (*ExcludeMatcher, error) {
	m := &ExcludeMatcher{}
	for _, pat := range patterns {
		pat = strings.TrimSuffix(strings.TrimSpace(pat), "/")
		if pat == "" {
			continue
		}
		if !doublestar.ValidatePattern(pat) {
			return nil, fmt.Errorf("invalid exclude pattern %q", pat)
		}
		m.patterns = append(m.patterns, pat)
	}
	return m, nil
}

func (m *ExcludeMatcher) Match(relPath string) bool {
	if m == nil {
		return false
	}
	for _, pat := range m.patterns {
		if matchPattern(pat, relPath) {
			return true
		}
	}
	return false
}

func (m *ExcludeMatcher) Empty() bool {
	return m == nil || len(m.patterns) == 0
}

func matchPattern(pattern, relPath string) bool {
	if strings.Contains(pattern, "/") {
		matched, _ := doublestar.Match(pattern, relPath)
		return matched
	}
	for _, part := range strings.Split(relPath, "/") {
		if matched, _ := doublestar.Match(pattern, part); matched {
			return true
		}
	}
	return false
}
