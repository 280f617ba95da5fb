package checker

import (
	"context"
	"fmt"
	"io"
	"slices"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/lukemcguire/deadlinks/logger"
	"github.com/lukemcguire/deadlinks/result"
	"github.com/lukemcguire/deadlinks/walker"
)

// File is a discovered file, identified by its path.
type File struct {
	path string
}

// NewFile wraps path.
func NewFile(path string) File { return File{path: path} }

// Path returns the file's path as discovered.
func (f File) Path() string { return f.path }

func (f File) String() string { return f.path }

// Compare orders files by path.
func (f File) Compare(other File) int { return strings.Compare(f.path, other.path) }

// Links returns the links of f that are not in ignore.
func (f File) Links(ignore []result.Link) []result.Link {
	var links []result.Link
	for _, link := range Extract(f.path) {
		if !slices.Contains(ignore, link) {
			links = append(links, link)
		}
	}
	return links
}

// FilesOptions configures a run over a set of files.
type FilesOptions struct {
	Walk        walker.Options // Which files to search
	Ignore      []result.Link  // Links that are never probed
	Concurrency int            // Files checked in parallel (default 1)

	// Out receives the per-file text output. Nil disables it.
	Out io.Writer
	// Events receives a FileChecked per file. Nil disables it; the caller
	// owns the channel and closes it after the run.
	Events chan<- FileChecked
	Logger logger.Logger
}

// Files drives a run: it discovers files, checks them with one cache shared
// by the whole run, and reports per-file output in discovery order.
type Files struct {
	opts    FilesOptions
	checker *Checker
	log     logger.Logger
}

// NewFiles creates an orchestrator that checks links with c.
func NewFiles(opts FilesOptions, c *Checker) *Files {
	if opts.Concurrency <= 0 {
		opts.Concurrency = 1
	}
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}
	if opts.Walk.Logger == nil {
		opts.Walk.Logger = log
	}
	return &Files{opts: opts, checker: c, log: log}
}

// Find returns the files selected by the walk options, in discovery order.
func (o *Files) Find(ctx context.Context) ([]File, error) {
	paths, err := walker.Find(ctx, o.opts.Walk)
	if err != nil {
		return nil, fmt.Errorf("find files: %w", err)
	}
	files := make([]File, 0, len(paths))
	for _, path := range paths {
		files = append(files, NewFile(path))
	}
	return files, nil
}

// Check checks every discovered file and returns the run-wide report.
// Unreadable files and missing roots contribute nothing; the only error is
// cancellation.
func (o *Files) Check(ctx context.Context) (*result.Report, error) {
	start := time.Now()

	files, err := o.Find(ctx)
	if err != nil {
		return nil, err
	}
	o.log.Info("files discovered", logger.Int("files", len(files)))

	cache := NewCache()
	report := &result.Report{Results: result.New()}

	var (
		mu   sync.Mutex
		done = make([]*result.Results, len(files))
		next int
	)
	// flush emits completed files in discovery order. Callers hold mu.
	flush := func() {
		for next < len(files) && done[next] != nil {
			file, res := files[next], done[next]
			done[next] = nil
			next++

			if o.opts.Out != nil {
				result.PrintFile(o.opts.Out, file.Path(), res)
			}
			report.Records = append(report.Records, result.Records(file.Path(), res)...)
			entries := res.Entries()
			report.Results.Merge(res)

			o.emit(ctx, FileChecked{
				Path:    file.Path(),
				Entries: entries,
				Done:    next,
				Total:   len(files),
				Links:   report.Results.Len(),
				Dead:    report.Results.CountWith(result.KindDead),
			})
		}
	}

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(o.opts.Concurrency)

	for i, file := range files {
		if groupCtx.Err() != nil {
			break
		}
		group.Go(func() error {
			res := o.checker.Check(groupCtx, file.Path(), o.opts.Ignore, cache)

			mu.Lock()
			defer mu.Unlock()
			done[i] = res
			flush()
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, fmt.Errorf("check files: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("check files: %w", err)
	}

	report.Stats = result.Stats{
		Files:    len(files),
		Checked:  report.Results.Len(),
		Dead:     report.Results.CountWith(result.KindDead),
		Warnings: report.Results.CountWith(result.KindWarn),
		Duration: time.Since(start),
	}
	o.log.Info("run complete",
		logger.Int("files", report.Stats.Files),
		logger.Int("links", report.Stats.Checked),
		logger.Int("dead", report.Stats.Dead),
		logger.Int("cached_alive", cache.Len()),
		logger.Duration("elapsed", report.Stats.Duration),
	)
	return report, nil
}

// List writes the path of every file that would be searched.
func (o *Files) List(ctx context.Context) error {
	return walker.Walk(ctx, o.opts.Walk, func(path string) error {
		_, err := fmt.Fprintln(o.out(), path)
		return err
	})
}

// Dry writes every file that would be searched, each followed by the
// links that would be probed. Nothing is fetched.
func (o *Files) Dry(ctx context.Context) error {
	return walker.Walk(ctx, o.opts.Walk, func(path string) error {
		w := o.out()
		if _, err := fmt.Fprintln(w, path); err != nil {
			return err
		}
		for _, link := range NewFile(path).Links(o.opts.Ignore) {
			if _, err := fmt.Fprintf(w, "\t%s\n", link); err != nil {
				return err
			}
		}
		return nil
	})
}

func (o *Files) out() io.Writer {
	if o.opts.Out == nil {
		return io.Discard
	}
	return o.opts.Out
}

func (o *Files) emit(ctx context.Context, evt FileChecked) {
	if o.opts.Events == nil {
		return
	}
	select {
	case o.opts.Events <- evt:
	case <-ctx.Done():
	}
}
