package checker

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"runtime/debug"
	"unicode/utf8"

	"github.com/edsrzf/mmap-go"

	"github.com/lukemcguire/deadlinks/result"
)

var (
	// ErrNotText is returned when a file's content is not valid UTF-8.
	ErrNotText = errors.New("content is not valid UTF-8")
	// ErrTruncated is returned when a file shrinks while it is being read.
	ErrTruncated = errors.New("file truncated while reading")
)

// linkPattern matches http(s) URLs with a one- or two-label host and a
// two- or three-letter top-level domain.
var linkPattern = regexp.MustCompile(`https?://(?:[[:alnum:]]+\.)?[[:alnum:]]+\.[[:alpha:]]{2,3}/?(?:[[:alnum:]]|[-$_.+!*/&?%=@,:])*`)

// FindLinks returns every link in content, in order of appearance.
// Matches are leftmost-first and never overlap.
func FindLinks(content []byte) []result.Link {
	matches := linkPattern.FindAll(content, -1)
	if len(matches) == 0 {
		return nil
	}
	links := make([]result.Link, 0, len(matches))
	for _, m := range matches {
		// string() copies, so links outlive the mapping.
		links = append(links, result.NewLink(string(m)))
	}
	return links
}

// ExtractFile reads the file at path through a read-only memory map and
// returns the links it contains.
func ExtractFile(path string) ([]result.Link, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	if !info.Mode().IsRegular() {
		return nil, fmt.Errorf("read %s: not a regular file", path)
	}
	if info.Size() == 0 {
		return nil, nil
	}

	content, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		return nil, fmt.Errorf("mmap %s: %w", path, err)
	}
	defer func() { _ = content.Unmap() }()

	return scanMapped(path, content)
}

// scanMapped validates and scans a mapped file. Touching a page past the end
// of a file truncated after mapping faults; the fault is turned into
// ErrTruncated instead of crashing the process.
func scanMapped(path string, content []byte) (links []result.Link, err error) {
	defer debug.SetPanicOnFault(debug.SetPanicOnFault(true))
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		if _, fault := r.(interface{ Addr() uintptr }); !fault {
			panic(r)
		}
		links, err = nil, fmt.Errorf("read %s: %w", path, ErrTruncated)
	}()

	if !utf8.Valid(content) {
		return nil, fmt.Errorf("read %s: %w", path, ErrNotText)
	}
	return FindLinks(content), nil
}

// Extract is ExtractFile with read failures reported as no links.
func Extract(path string) []result.Link {
	links, err := ExtractFile(path)
	if err != nil {
		return nil
	}
	return links
}
