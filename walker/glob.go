package walker

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/gobwas/glob"
)

// GlobSet matches a path against a set of Unix-style globs.
// '*' does not cross '/', '**' does, and a leading "**/" also matches no directory at all.
type GlobSet struct {
	patterns []string
	globs    []glob.Glob
}

// CompileGlobs compiles every pattern. An empty pattern list yields a set that matches nothing.
func CompileGlobs(patterns []string) (*GlobSet, error) {
	set := &GlobSet{patterns: patterns}
	for _, pattern := range patterns {
		g, err := glob.Compile(pattern, '/')
		if err != nil {
			return nil, fmt.Errorf("compile glob %q: %w", pattern, err)
		}
		set.globs = append(set.globs, g)

		if rest, ok := strings.CutPrefix(pattern, "**/"); ok && rest != "" {
			g, err := glob.Compile(rest, '/')
			if err != nil {
				return nil, fmt.Errorf("compile glob %q: %w", pattern, err)
			}
			set.globs = append(set.globs, g)
		}
	}
	return set, nil
}

// Match reports whether path matches any glob in the set.
func (s *GlobSet) Match(path string) bool {
	if s == nil {
		return false
	}
	path = filepath.ToSlash(path)
	for _, g := range s.globs {
		if g.Match(path) {
			return true
		}
	}
	return false
}

// Len returns the number of patterns the set was compiled from.
func (s *GlobSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.patterns)
}

// String returns the source patterns joined by commas.
func (s *GlobSet) String() string {
	if s == nil {
		return ""
	}
	return strings.Join(s.patterns, ",")
}
