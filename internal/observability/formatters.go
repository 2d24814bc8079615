// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/jonathan/resume-intake/internal/pipeline"
	"github.com/jonathan/resume-intake/internal/schemas"
	"github.com/jonathan/resume-intake/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
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
	fmt.Fprintf(p.out, "│ %s │\n", pad(title))
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		fmt.Fprintf(p.out, "│ %s │\n", pad(line))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// pad truncates or right-pads line to the box's inner width, counting runes.
func pad(line string) string {
	width := boxWidth - 4
	if utf8.RuneCountInString(line) > width {
		r := []rune(line)
		line = string(r[:width-3]) + "..."
	}
	return line + strings.Repeat(" ", width-utf8.RuneCountInString(line))
}

// PrintResume outputs a human-readable summary of a parsed résumé.
func (p *Printer) PrintResume(r *types.StructuredResume) {
	if r == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Name:     %s\n", r.FullName))
	writeField(&sb, "Email:    ", r.Contact.Email)
	writeField(&sb, "Phone:    ", r.Contact.Phone)
	writeField(&sb, "LinkedIn: ", r.Contact.LinkedIn)
	writeField(&sb, "GitHub:   ", r.Contact.GitHub)
	writeField(&sb, "Location: ", r.Contact.Location)
	writeField(&sb, "Language: ", r.DetectedLanguage)
	sb.WriteString("\n")

	if len(r.WorkExperience) > 0 {
		sb.WriteString("Experience:\n")
		count := min(len(r.WorkExperience), maxItemsToShow)
		for i := 0; i < count; i++ {
			w := r.WorkExperience[i]
			sb.WriteString(fmt.Sprintf("  • %s", w.Company))
			if w.Title != "" {
				sb.WriteString(fmt.Sprintf(", %s", w.Title))
			}
			sb.WriteString(fmt.Sprintf(" (%s)\n", period(w.StartDate, w.EndDate)))
		}
		writeMore(&sb, len(r.WorkExperience), count)
		sb.WriteString("\n")
	}

	if len(r.Education) > 0 {
		sb.WriteString("Education:\n")
		count := min(len(r.Education), 3)
		for i := 0; i < count; i++ {
			e := r.Education[i]
			sb.WriteString(fmt.Sprintf("  • %s", e.Institution))
			if e.Degree != "" {
				sb.WriteString(fmt.Sprintf(", %s", e.Degree))
			}
			sb.WriteString(fmt.Sprintf(" (%s)\n", period(e.StartDate, e.EndDate)))
		}
		writeMore(&sb, len(r.Education), count)
		sb.WriteString("\n")
	}

	if len(r.Skills) > 0 {
		sb.WriteString(fmt.Sprintf("Skills (%d):\n", r.SkillCount()))
		for _, b := range r.Skills {
			sb.WriteString(fmt.Sprintf("  %s: %s\n", b.Category, strings.Join(b.Skills, ", ")))
		}
	}

	if n := len(r.Projects) + len(r.Certifications); n > 0 {
		sb.WriteString(fmt.Sprintf("Projects: %d  Certifications: %d\n", len(r.Projects), len(r.Certifications)))
	}

	p.printBox("PARSED RESUME", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintExtraction outputs how a run obtained its text and how many model calls it took.
func (p *Printer) PrintExtraction(state types.AnalysisState) {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Run:      %s\n", state.RunID))
	writeField(&sb, "File:     ", state.ResumeFilePath)
	sb.WriteString(fmt.Sprintf("Stage:    %s\n", state.Stage))
	if state.Extraction.Method != "" {
		sb.WriteString(fmt.Sprintf("Method:   %s", state.Extraction.Method))
		if state.Extraction.Pages > 0 {
			sb.WriteString(fmt.Sprintf(" (%d pages)", state.Extraction.Pages))
		}
		sb.WriteString("\n")
	}
	sb.WriteString(fmt.Sprintf("Text:     %d chars\n", utf8.RuneCountInString(state.RawResumeText)))

	if len(state.Attempts) > 0 {
		sb.WriteString("\nAttempts:\n")
		for _, a := range state.Attempts {
			if a.Succeeded() {
				sb.WriteString(fmt.Sprintf("  ✓ %s\n", a.Strategy))
			} else {
				sb.WriteString(fmt.Sprintf("  ✗ %s: %s\n", a.Strategy, a.Error))
			}
		}
	}
	if state.Error != "" {
		sb.WriteString(fmt.Sprintf("\nError: %s\n", state.Error))
	}

	p.printBox("EXTRACTION", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintValidationErrors outputs each failing field of a validation error.
func (p *Printer) PrintValidationErrors(verr *schemas.ValidationError) {
	if verr == nil || len(verr.Errors) == 0 {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Found %d problem(s):\n\n", len(verr.Errors)))
	for _, fe := range verr.Errors {
		sb.WriteString(fmt.Sprintf("  ✗ %s\n", fe.Field))
		sb.WriteString(fmt.Sprintf("    %s\n", fe.Message))
	}

	p.printBox("VALIDATION FAILED", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintBatchSummary outputs one line per document of a batch run.
func (p *Printer) PrintBatchSummary(results []pipeline.BatchResult) {
	if len(results) == 0 {
		return
	}

	var sb strings.Builder
	ok := 0
	for _, r := range results {
		if r.Err == nil {
			ok++
		}
	}
	sb.WriteString(fmt.Sprintf("Parsed %d/%d documents\n\n", ok, len(results)))

	for _, r := range results {
		if r.Err == nil {
			name := ""
			if r.State.StructuredResume != nil {
				name = r.State.StructuredResume.FullName
			}
			sb.WriteString(fmt.Sprintf("  ✓ %s  %s\n", r.Path, name))
			continue
		}
		sb.WriteString(fmt.Sprintf("  ✗ %s  %s\n", r.Path, r.State.Stage))
	}

	p.printBox("BATCH SUMMARY", strings.TrimSuffix(sb.String(), "\n"))
}

func writeField(sb *strings.Builder, label, value string) {
	if value != "" {
		sb.WriteString(label + value + "\n")
	}
}

func writeMore(sb *strings.Builder, total, shown int) {
	if total > shown {
		sb.WriteString(fmt.Sprintf("  ... and %d more\n", total-shown))
	}
}

func period(start, end types.Date) string {
	from := start.String()
	if from == "" {
		from = "?"
	}
	to := end.String()
	if to == "" {
		to = "present"
	}
	return from + " - " + to
}
