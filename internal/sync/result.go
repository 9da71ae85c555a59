package sync

import (
	"fmt"
	"strings"

	"github.com/klauern/obssync/internal/model"
)

// Phase names a synchronization batch.
type Phase string

const (
	// PhaseDelete removes stale artifacts from the remote package.
	PhaseDelete Phase = "delete"
	// PhaseUpload uploads the local artifact set.
	PhaseUpload Phase = "upload"
)

// Verb returns the past tense used when reporting the phase.
func (p Phase) Verb() string {
	switch p {
	case PhaseDelete:
		return "deleted"
	case PhaseUpload:
		return "uploaded"
	default:
		return string(p)
	}
}

// Action represents the outcome for a single file in a batch.
type Action string

const (
	// ActionDeleted indicates the file was deleted from the package.
	ActionDeleted Action = "deleted"

	// ActionUploaded indicates the file was uploaded to the package.
	ActionUploaded Action = "uploaded"

	// ActionPlanned indicates a dry run would have processed the file.
	ActionPlanned Action = "planned"

	// ActionFailed indicates the operation for the file failed.
	ActionFailed Action = "failed"
)

// FileResult represents the outcome of one operation in a batch.
type FileResult struct {
	// Name is the remote file name.
	Name string

	// Path is the local path for uploads, empty for deletes.
	Path string

	// Mode is the revision mode the operation was issued with.
	Mode model.RevisionMode

	// Action is the action that was taken.
	Action Action

	// Error contains the failure when Action is ActionFailed.
	Error error
}

// Success returns true if the operation did not fail.
func (fr *FileResult) Success() bool {
	return fr.Action != ActionFailed
}

// Result contains the outcome of one batch.
type Result struct {
	// Phase is the batch that ran.
	Phase Phase

	// Package is the remote package the batch targeted.
	Package model.PackageRef

	// Files holds one entry per attempted operation, in issue order.
	// Operations after a failure are absent.
	Files []FileResult

	// Ignored lists remote files left alone because they are not artifacts.
	Ignored []string

	// DryRun indicates if this was a dry run (no changes made).
	DryRun bool
}

// Completed returns the operations that succeeded or were planned.
func (r *Result) Completed() []FileResult {
	var out []FileResult
	for _, fr := range r.Files {
		if fr.Success() {
			out = append(out, fr)
		}
	}
	return out
}

// Failed returns the failed operation, if any.
func (r *Result) Failed() []FileResult {
	var out []FileResult
	for _, fr := range r.Files {
		if !fr.Success() {
			out = append(out, fr)
		}
	}
	return out
}

// Success returns true if no operation failed.
func (r *Result) Success() bool {
	return len(r.Failed()) == 0
}

// Committed reports whether the batch issued its closing commit.
func (r *Result) Committed() bool {
	n := len(r.Files)
	return n > 0 && !r.DryRun && r.Files[n-1].Mode == model.Commit && r.Files[n-1].Success()
}

// Summary returns a human-readable summary of the batch.
func (r *Result) Summary() string {
	var sb strings.Builder

	if r.DryRun {
		sb.WriteString("Dry run - no changes made\n")
	}

	fmt.Fprintf(&sb, "%s %s: %d file(s)\n", r.Phase, r.Package, len(r.Files))
	for _, fr := range r.Files {
		fmt.Fprintf(&sb, "  %-8s %-7s %s\n", fr.Action, fr.Mode, fr.Name)
	}
	if len(r.Ignored) > 0 {
		fmt.Fprintf(&sb, "  ignored: %s\n", strings.Join(r.Ignored, ", "))
	}

	if !r.Success() {
		sb.WriteString("\nErrors:\n")
		for _, f := range r.Failed() {
			fmt.Fprintf(&sb, "  - %s: %v\n", f.Name, f.Error)
		}
	}

	return sb.String()
}
