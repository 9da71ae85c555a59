package progress

import (
	"fmt"
	"io"

	"github.com/klauern/obssync/internal/logging"
	"github.com/klauern/obssync/internal/sync"
	"github.com/klauern/obssync/internal/ui"
)

// Tracker draws one bar per sync batch.
type Tracker struct {
	w   io.Writer
	bar *Bar
}

// NewTracker returns a tracker writing to w (os.Stderr when nil).
func NewTracker(w io.Writer) *Tracker {
	return &Tracker{w: w}
}

// Callback returns the sync progress callback backed by the tracker.
func (t *Tracker) Callback() sync.ProgressCallback {
	return t.handle
}

func (t *Tracker) handle(ev sync.ProgressEvent) error {
	switch ev.Type {
	case sync.ProgressEventStart:
		t.bar = New(Options{
			Max:         int64(ev.Total),
			Description: ui.PhaseTitle(ev.Phase),
			Writer:      t.w,
		})
	case sync.ProgressEventFileStart:
		if t.bar != nil {
			t.bar.Describe(fmt.Sprintf("%s %s", ui.PhaseTitle(ev.Phase), ev.File))
		}
	case sync.ProgressEventFileComplete:
		if t.bar != nil {
			_ = t.bar.Add(1)
		}
	case sync.ProgressEventComplete:
		if t.bar != nil {
			_ = t.bar.Finish()
			t.bar = nil
		}
	case sync.ProgressEventError:
		if t.bar != nil {
			_ = t.bar.Clear()
			t.bar = nil
		}
		logging.Debug("batch aborted", logging.File(ev.File), logging.Err(ev.Err))
	}
	return nil
}
