// Package walker discovers the files deadlinks searches: it walks root paths
// recursively and filters entries by include/exclude globs and a hidden-file policy.
package walker

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/lukemcguire/deadlinks/logger"
)

// Options selects which files a walk yields.
type Options struct {
	Roots   []string // Paths to search, walked in order
	Include *GlobSet // A file must match one of these; nil matches everything
	Exclude *GlobSet // A file must match none of these; nil excludes nothing
	Hidden  bool     // Descend into and yield dot-files and dot-directories
	Logger  logger.Logger
}

// VisitFunc is invoked for every selected file.
type VisitFunc func(path string) error

// Walk calls fn for each regular file under opts.Roots that passes the filters,
// in lexical order within each root. Entries that cannot be read are skipped,
// and so is a root that does not exist: it is logged and the walk moves on.
func Walk(ctx context.Context, opts Options, fn VisitFunc) error {
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}

	for _, root := range opts.Roots {
		if _, err := os.Stat(root); err != nil {
			log.Warn("root path skipped", logger.String("path", root), logger.Error(err))
			continue
		}

		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			if err != nil {
				// Unreadable directory or vanished entry below the root.
				if d != nil && d.IsDir() && path != root {
					return filepath.SkipDir
				}
				return nil
			}

			if path != root && !opts.Hidden && isHidden(d.Name()) {
				if d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}

			if !d.Type().IsRegular() {
				return nil
			}
			if !selected(opts, path) {
				return nil
			}
			return fn(path)
		})
		if err != nil {
			return fmt.Errorf("walk %s: %w", root, err)
		}
	}
	return nil
}

// Find collects the paths Walk would visit.
func Find(ctx context.Context, opts Options) ([]string, error) {
	var paths []string
	err := Walk(ctx, opts, func(path string) error {
		paths = append(paths, path)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return paths, nil
}

func selected(opts Options, path string) bool {
	if opts.Include != nil && !opts.Include.Match(path) {
		return false
	}
	return !opts.Exclude.Match(path)
}

func isHidden(name string) bool {
	return strings.HasPrefix(name, ".") && name != "." && name != ".."
}
