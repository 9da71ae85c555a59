package sync

import "github.com/klauern/obssync/internal/model"

// ProgressEventType identifies a progress event.
type ProgressEventType string

const (
	// ProgressEventStart is emitted once the batch is known.
	ProgressEventStart ProgressEventType = "start"
	// ProgressEventFileStart is emitted before an operation is issued.
	ProgressEventFileStart ProgressEventType = "file_start"
	// ProgressEventFileComplete is emitted after an operation succeeds.
	ProgressEventFileComplete ProgressEventType = "file_complete"
	// ProgressEventComplete is emitted after the last operation succeeds.
	ProgressEventComplete ProgressEventType = "complete"
	// ProgressEventError is emitted when an operation fails.
	ProgressEventError ProgressEventType = "error"
)

// ProgressEvent describes progress within a batch.
type ProgressEvent struct {
	Type  ProgressEventType
	Phase Phase
	// File is empty for batch level events.
	File string
	Mode model.RevisionMode
	// Index is the zero-based position of File in the batch.
	Index int
	Total int
	Err   error
}

// PercentComplete returns how much of the batch has finished, 0-100.
func (e ProgressEvent) PercentComplete() int {
	if e.Total == 0 {
		return 100
	}
	done := e.Index
	switch e.Type {
	case ProgressEventFileComplete:
		done = e.Index + 1
	case ProgressEventComplete:
		done = e.Total
	case ProgressEventStart:
		done = 0
	}
	return done * 100 / e.Total
}

// ProgressCallback receives progress events. An error returned for a start
// or file start event cancels the batch before the next operation is issued;
// errors for other events are ignored.
type ProgressCallback func(ProgressEvent) error
