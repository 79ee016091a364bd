// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/jonathan/job-intake/internal/normalize"
	"github.com/jonathan/job-intake/internal/session"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow caps the field names listed per round
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, truncate(title))
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(strings.TrimRight(content, "\n"), "\n") {
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, truncate(line))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// truncate shortens line to the box's inner width, counting runes.
func truncate(line string) string {
	runes := []rune(line)
	if len(runes) <= boxWidth-4 {
		return line
	}
	return string(runes[:boxWidth-7]) + "..."
}

// PrintTranscript outputs one box per extraction round of a session.
func (p *Printer) PrintTranscript(sessionID string, rounds []session.Round) {
	for _, r := range rounds {
		var sb strings.Builder

		sb.WriteString(fmt.Sprintf("Input:    %s\n", r.Input))
		sb.WriteString(fmt.Sprintf("Found:    %s\n", list(r.Found)))
		sb.WriteString(fmt.Sprintf("Missing:  %s\n", list(r.Missing)))
		if r.Error != "" {
			sb.WriteString(fmt.Sprintf("Error:    %s\n", r.Error))
		}
		if r.Question != "" {
			sb.WriteString(fmt.Sprintf("Asked:    %s\n", r.Question))
		}
		sb.WriteString(fmt.Sprintf("Took:     %s\n", r.Duration.Round(time.Millisecond)))

		p.printBox(fmt.Sprintf("ROUND %d (%s)", r.Number, shortID(sessionID)), sb.String())
	}
}

// PrintRecord outputs the finalized record, one field per line in schema order.
func (p *Printer) PrintRecord(rec *normalize.Record) {
	if rec == nil {
		return
	}

	var sb strings.Builder
	for _, name := range rec.Schema().Names() {
		sb.WriteString(fmt.Sprintf("%s: %s\n", name, rec.Get(name)))
	}
	p.printBox(fmt.Sprintf("RECORD: %s", rec.Schema().Name()), sb.String())
}

func list(names []string) string {
	if len(names) == 0 {
		return "-"
	}
	if len(names) > maxItemsToShow {
		return fmt.Sprintf("%s ... and %d more", strings.Join(names[:maxItemsToShow], ", "), len(names)-maxItemsToShow)
	}
	return strings.Join(names, ", ")
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
