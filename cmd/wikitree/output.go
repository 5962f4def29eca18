package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/fwojciec/wikitree"
	"github.com/fwojciec/wikitree/ingest"
)

var (
	// titleStyle for page and site names
	titleStyle = lipgloss.NewStyle().
			Bold(true)

	// dimStyle for muted metadata text
	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	// barStyle for the filled part of the progress bar
	barStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42"))

	// warnStyle for failure counts
	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214"))
)

const barWidth = 30

// progressLine redraws a single progress line for one dump.
type progressLine struct {
	w    io.Writer
	name string
	drew bool
}

func (l *progressLine) update(p wikitree.Progress) {
	fmt.Fprintf(l.w, "\r%s", formatProgress(l.name, p))
	l.drew = true
}

func (l *progressLine) done() {
	if l.drew {
		fmt.Fprintln(l.w)
	}
}

// formatProgress renders the progress of a dump as a bar when its size is
// known and as plain counters otherwise.
func formatProgress(name string, p wikitree.Progress) string {
	if p.Total <= 0 {
		counters := formatBytes(p.Bytes)
		if p.Elements > 0 {
			counters = fmt.Sprintf("%d elements, %s", p.Elements, counters)
		}
		return fmt.Sprintf("%s %s", titleStyle.Render(name), dimStyle.Render(counters))
	}

	filled := int(p.Fraction() * barWidth)
	bar := barStyle.Render(strings.Repeat("=", filled)) + dimStyle.Render(strings.Repeat("-", barWidth-filled))
	return fmt.Sprintf("%s [%s] %3.0f%% %s", titleStyle.Render(name), bar, p.Fraction()*100,
		dimStyle.Render(formatBytes(p.Bytes)+" / "+formatBytes(p.Total)))
}

// formatSummary renders the totals of a parse.
func formatSummary(res *ingest.Result) string {
	s := fmt.Sprintf("%d pages, %d records", res.Pages, res.Records)
	if res.Failed > 0 {
		s += ", " + warnStyle.Render(fmt.Sprintf("%d rejected", res.Failed))
	}
	if res.Duplicates > 0 {
		s += fmt.Sprintf(", %d duplicates", res.Duplicates)
	}
	if res.StreamErrors > 0 {
		s += ", " + warnStyle.Render(fmt.Sprintf("%d malformed fragments", res.StreamErrors))
	}
	return s
}

// formatBytes formats byte count in human-readable form.
func formatBytes(bytes int64) string {
	const (
		KB = 1024
		MB = KB * 1024
		GB = MB * 1024
	)
	switch {
	case bytes >= GB:
		return fmt.Sprintf("%.1f GB", float64(bytes)/float64(GB))
	case bytes >= MB:
		return fmt.Sprintf("%.1f MB", float64(bytes)/float64(MB))
	case bytes >= KB:
		return fmt.Sprintf("%.1f KB", float64(bytes)/float64(KB))
	default:
		return fmt.Sprintf("%d B", bytes)
	}
}
