package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/klauern/obssync/internal/model"
	"github.com/klauern/obssync/internal/sync"
)

var (
	titleCaser = cases.Title(language.English)

	summaryBox   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	summaryTitle = lipgloss.NewStyle().Bold(true)
)

// PhaseTitle returns the display title of a phase, e.g. "Delete".
func PhaseTitle(p sync.Phase) string {
	return titleCaser.String(string(p))
}

// ModeLabel colors a revision mode: commits stand out, pending stays dim.
func ModeLabel(m model.RevisionMode) string {
	if m == model.Commit {
		return Info(m.String())
	}
	return Dim(m.String())
}

// FileLine renders one batch entry as a status line.
func FileLine(fr sync.FileResult) string {
	label := fmt.Sprintf("%s (%s)", fr.Name, ModeLabel(fr.Mode))
	switch fr.Action {
	case sync.ActionFailed:
		return StatusError(fmt.Sprintf("%s: %v", label, fr.Error))
	case sync.ActionPlanned:
		return StatusPending(label)
	default:
		return StatusSuccess(label)
	}
}

// RenderResult renders a batch result as a boxed summary.
func RenderResult(r *sync.Result) string {
	var b strings.Builder

	title := fmt.Sprintf("%s %s", PhaseTitle(r.Phase), r.Package)
	if r.DryRun {
		title += " (dry run)"
	}
	b.WriteString(summaryTitle.Render(title))

	if len(r.Files) == 0 {
		b.WriteString("\n")
		b.WriteString(StatusSkipped("nothing to do"))
	}
	for _, fr := range r.Files {
		b.WriteString("\n")
		b.WriteString(FileLine(fr))
	}
	for _, name := range r.Ignored {
		b.WriteString("\n")
		b.WriteString(StatusSkipped(name + " (not an artifact)"))
	}

	b.WriteString("\n\n")
	switch {
	case !r.Success():
		b.WriteString(Error(fmt.Sprintf("%d of %d completed, aborted", len(r.Completed()), len(r.Files))))
	case r.DryRun:
		b.WriteString(Warning(fmt.Sprintf("%d planned", len(r.Files))))
	case r.Committed():
		b.WriteString(Success(fmt.Sprintf("%d %s, committed", len(r.Files), r.Phase.Verb())))
	default:
		b.WriteString(Dim("no revision created"))
	}

	return summaryBox.Render(b.String())
}
