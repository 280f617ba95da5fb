package result

import (
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
)

// PrintFile writes a file's path followed by its results, one line per link.
func PrintFile(w io.Writer, path string, res *Results) {
	_, _ = fmt.Fprintf(w, "%s%s\n", path, res)
}

// PrintSummary writes the run verdict and aggregate counts to w.
func PrintSummary(w io.Writer, rep *Report) {
	writef := func(format string, a ...any) { _, _ = fmt.Fprintf(w, format, a...) }

	dead := rep.DeadLinks()
	if dead == 0 {
		writef("\nNo dead links !\n")
	} else {
		writef("\nFound %s dead links\n", humanize.Comma(int64(dead)))
	}
	writef("Checked %s links in %s files (%s)\n",
		humanize.Comma(int64(rep.Stats.Checked)),
		humanize.Comma(int64(rep.Stats.Files)),
		rep.Stats.Duration.Round(1_000_000),
	)
}
