package walker

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/lukemcguire/deadlinks/logger"
)

// newTree lays out:
//
//	README.md
//	index.html
//	hidden/.hidden_file
//	hidden/.hidden_dir/visible_in_hidden.html
//	docs/guide.md
func newTree(t *testing.T) string {
	t.Helper()
	root := t.TempDir()

	for _, rel := range []string{
		"README.md",
		"index.html",
		"hidden/.hidden_file",
		"hidden/.hidden_dir/visible_in_hidden.html",
		"docs/guide.md",
	} {
		path := filepath.Join(root, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte("https://example.com"), 0o644))
	}
	return root
}

func mustGlobs(t *testing.T, patterns ...string) *GlobSet {
	t.Helper()
	set, err := CompileGlobs(patterns)
	require.NoError(t, err)
	return set
}

func rel(t *testing.T, root string, paths []string) []string {
	t.Helper()
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		r, err := filepath.Rel(root, p)
		require.NoError(t, err)
		out = append(out, filepath.ToSlash(r))
	}
	return out
}

func TestFind(t *testing.T) {
	root := newTree(t)

	tests := []struct {
		name    string
		roots   func(root string) []string
		include []string
		exclude []string
		hidden  bool
		want    []string
	}{
		{
			name:    "visible files only",
			roots:   func(r string) []string { return []string{r} },
			include: []string{"**"},
			want:    []string{"README.md", "docs/guide.md", "index.html"},
		},
		{
			name:    "hidden root with hidden enabled",
			roots:   func(r string) []string { return []string{filepath.Join(r, "hidden")} },
			include: []string{"**"},
			hidden:  true,
			want:    []string{"hidden/.hidden_dir/visible_in_hidden.html", "hidden/.hidden_file"},
		},
		{
			name:    "html glob",
			roots:   func(r string) []string { return []string{r} },
			include: []string{"**/*.html"},
			want:    []string{"index.html"},
		},
		{
			name:    "html glob with hidden",
			roots:   func(r string) []string { return []string{r} },
			include: []string{"**/*.html"},
			hidden:  true,
			want:    []string{"hidden/.hidden_dir/visible_in_hidden.html", "index.html"},
		},
		{
			name:    "exclude directory",
			roots:   func(r string) []string { return []string{r} },
			include: []string{"**"},
			exclude: []string{"**/docs/**"},
			want:    []string{"README.md", "index.html"},
		},
		{
			name:    "several roots keep order",
			roots:   func(r string) []string { return []string{filepath.Join(r, "index.html"), filepath.Join(r, "docs")} },
			include: []string{"**"},
			want:    []string{"index.html", "docs/guide.md"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := Options{
				Roots:   tt.roots(root),
				Include: mustGlobs(t, tt.include...),
				Exclude: mustGlobs(t, tt.exclude...),
				Hidden:  tt.hidden,
			}

			got, err := Find(context.Background(), opts)
			require.NoError(t, err)
			assert.Equal(t, tt.want, rel(t, root, got))
		})
	}
}

func TestFindSkipsMissingRoot(t *testing.T) {
	root := newTree(t)
	missing := filepath.Join(root, "nope")
	core, logs := observer.New(zapcore.WarnLevel)

	opts := Options{
		Roots:   []string{missing, filepath.Join(root, "docs"), filepath.Join(root, "index.html")},
		Include: mustGlobs(t, "**"),
		Logger:  logger.FromZap(zap.New(core)),
	}

	got, err := Find(context.Background(), opts)
	require.NoError(t, err)
	assert.Equal(t, []string{"docs/guide.md", "index.html"}, rel(t, root, got))

	entries := logs.FilterField(zap.String("path", missing)).All()
	require.Len(t, entries, 1)
	assert.Equal(t, zapcore.WarnLevel, entries[0].Level)
}

func TestWalkCancelled(t *testing.T) {
	root := newTree(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := Walk(ctx, Options{Roots: []string{root}}, func(string) error {
		t.Fatal("visit called after cancellation")
		return nil
	})
	require.ErrorIs(t, err, context.Canceled)
}

func TestGlobSetMatch(t *testing.T) {
	tests := []struct {
		pattern string
		path    string
		want    bool
	}{
		{"**", "a/b/c.md", true},
		{"*.md", "a.md", true},
		{"*.md", "docs/a.md", false},
		{"**/*.md", "docs/a.md", true},
		{"**/*.md", "a.md", true},
		{"docs/**", "docs/x/y.md", true},
		{"docs/*", "docs/x/y.md", false},
		{"**/*.{md,html}", "site/index.html", true},
	}

	for _, tt := range tests {
		t.Run(tt.pattern+" "+tt.path, func(t *testing.T) {
			set := mustGlobs(t, tt.pattern)
			assert.Equal(t, tt.want, set.Match(tt.path))
		})
	}
}

func TestGlobSetEmptyAndNil(t *testing.T) {
	var nilSet *GlobSet
	assert.False(t, nilSet.Match("a.md"))
	assert.Equal(t, 0, nilSet.Len())

	empty := mustGlobs(t)
	assert.False(t, empty.Match("a.md"))
}

func TestCompileGlobsInvalid(t *testing.T) {
	_, err := CompileGlobs([]string{"[unterminated"})
	require.Error(t, err)
}
