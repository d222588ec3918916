// Package output provides formatters for CLI output.
package output

import (
	"fmt"
	"io"
	"math"
	"strings"

	"ptask/internal/service"
)

const (
	// Separator frames the project header in detail output.
	Separator = "------------"

	// progressWidth is the number of cells in the text progress bar.
	progressWidth = 20
)

// FormatProject formats a project line for the project list.
// Format: "{ID:>4}  {TITLE}\n", followed by an indented description line
// when there is one.
func FormatProject(w io.Writer, p service.Project) {
	fmt.Fprintf(w, "%4d  %s\n", p.ID, normalizeTitle(p.Title))
	if desc := singleLine(p.Description); desc != "" {
		fmt.Fprintf(w, "      %s\n", desc)
	}
}

// FormatProjectHeader formats the header of the detail view.
func FormatProjectHeader(w io.Writer, p service.Project, prog service.Progress) {
	fmt.Fprintln(w, Separator)
	fmt.Fprintln(w, normalizeTitle(p.Title))
	if desc := singleLine(p.Description); desc != "" {
		fmt.Fprintln(w, desc)
	}
	fmt.Fprintln(w, Separator)
	fmt.Fprintf(w, "%s %d%%\n", ProgressBar(prog.ProgressPercentage), Percent(prog.ProgressPercentage))
	fmt.Fprintf(w, "%d of %d tasks completed\n", prog.CompletedTasks, prog.TotalTasks)
}

// FormatTask formats a task line.
// Format: "{ID:>4}  [x] {TITLE}" with "  (due {DATE})" when a due date is set.
func FormatTask(w io.Writer, t service.Task) {
	fmt.Fprintf(w, "%4d  %s %s", t.ID, Checkbox(t.Completed), normalizeTitle(t.Title))
	if t.DueDate != "" {
		fmt.Fprintf(w, "  (due %s)", t.DueDate)
	}
	fmt.Fprintln(w)
}

// Checkbox renders a completion marker.
func Checkbox(done bool) string {
	if done {
		return "[x]"
	}
	return "[ ]"
}

// Percent rounds a server percentage for display.
func Percent(pct float64) int {
	return int(math.Round(clamp(pct)))
}

// ProgressBar renders pct (0-100) as a fixed-width bar.
func ProgressBar(pct float64) string {
	filled := int(math.Round(clamp(pct) / 100 * progressWidth))
	return "[" + strings.Repeat("#", filled) + strings.Repeat(".", progressWidth-filled) + "]"
}

func clamp(pct float64) float64 {
	return math.Max(0, math.Min(100, pct))
}

// normalizeTitle normalizes a title for display.
// - Empty or whitespace-only titles become "(untitled)"
// - Newlines are replaced with spaces
func normalizeTitle(title string) string {
	title = singleLine(title)
	if title == "" {
		return "(untitled)"
	}
	return title
}

func singleLine(s string) string {
	s = strings.ReplaceAll(s, "\r", " ")
	s = strings.ReplaceAll(s, "\n", " ")
	return strings.TrimSpace(s)
}
