package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/dustin/go-humanize"

	"github.com/lukemcguire/deadlinks/result"
)

var (
	titleStyle       = lipgloss.NewStyle().Bold(true)
	successStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
	errorStyle       = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
	headerStyle      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	categoryStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("11"))
	dimStyle         = lipgloss.NewStyle().Faint(true)
	urlStyle         = lipgloss.NewStyle()
	statusErrorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)

// kindStyles colors the tag of each status line.
var kindStyles = map[result.Kind]lipgloss.Style{
	result.KindAlive:   lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
	result.KindDead:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9")),
	result.KindWarn:    lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
	result.KindCached:  lipgloss.NewStyle().Foreground(lipgloss.Color("12")),
	result.KindIgnored: dimStyle,
}

// categoryOrder defines the display order for problem categories (most to least actionable).
var categoryOrder = []result.ErrorCategory{
	result.Category4xx,
	result.Category5xx,
	result.CategoryTimeout,
	result.CategoryDNSFailure,
	result.CategoryConnectionRefused,
	result.CategoryTLS,
	result.CategoryRedirectLoop,
	result.CategoryRobots,
	result.CategoryUnknown,
}

// RenderFile renders a file's path followed by its styled status lines.
func RenderFile(path string, entries []result.Entry) string {
	return dimStyle.Render(path) + renderEntries(entries)
}

// renderEntries renders one styled line per entry, in the same layout as
// Results.String.
func renderEntries(entries []result.Entry) string {
	var b strings.Builder
	for _, e := range entries {
		kind := e.Status.Kind()
		b.WriteString("\n\t")
		b.WriteString(kindStyles[kind].Render(kind.Tag()))
		b.WriteString(" ")
		b.WriteString(urlStyle.Render(e.Link.String()))
		if reason := e.Status.Reason(); reason != "" {
			b.WriteString(" ")
			if kind == result.KindDead {
				b.WriteString(statusErrorStyle.Render(reason))
			} else {
				b.WriteString(reason)
			}
		}
	}
	return b.String()
}

// RenderSummary produces a Lip Gloss styled verdict for a finished run,
// with dead and warned links grouped by category.
func RenderSummary(rep *result.Report) string {
	if rep == nil {
		return errorStyle.Render("No results available.") + "\n"
	}

	var builder strings.Builder

	grouped := make(map[result.ErrorCategory][]result.Record)
	for _, rec := range rep.Records {
		if rec.Status != result.KindDead.String() && rec.Status != result.KindWarn.String() {
			continue
		}
		cat := rec.Category
		if cat == result.CategoryNone {
			cat = result.CategoryUnknown
		}
		grouped[cat] = append(grouped[cat], rec)
	}

	for _, cat := range categoryOrder {
		records := grouped[cat]
		if len(records) == 0 {
			continue
		}

		builder.WriteString("\n")
		builder.WriteString(categoryStyle.Render(fmt.Sprintf("## %s (%d)", result.FormatCategory(cat), len(records))))
		builder.WriteString("\n")

		rows := make([][]string, 0, len(records))
		for _, rec := range records {
			rows = append(rows, []string{rec.URL, rec.Reason, rec.File})
		}

		catTable := table.New().
			Border(lipgloss.RoundedBorder()).
			Headers("URL", "Status", "Found In").
			StyleFunc(func(row, col int) lipgloss.Style {
				if row == table.HeaderRow {
					return headerStyle
				}
				if col == 1 {
					return statusErrorStyle
				}
				return urlStyle
			}).
			Rows(rows...)

		builder.WriteString(catTable.Render())
		builder.WriteString("\n")
	}

	builder.WriteString("\n")
	if dead := rep.DeadLinks(); dead == 0 {
		builder.WriteString(successStyle.Render("No dead links !"))
	} else {
		builder.WriteString(errorStyle.Render(fmt.Sprintf("Found %s dead links", humanize.Comma(int64(dead)))))
	}
	builder.WriteString("\n")
	builder.WriteString(titleStyle.Render(fmt.Sprintf(
		"Checked %s links in %s files",
		humanize.Comma(int64(rep.Stats.Checked)),
		humanize.Comma(int64(rep.Stats.Files)),
	)))
	builder.WriteString(dimStyle.Render(fmt.Sprintf(" (%s)", rep.Stats.Duration.Round(1_000_000))))
	builder.WriteString("\n")

	return builder.String()
}
