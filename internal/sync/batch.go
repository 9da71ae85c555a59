package sync

import (
	"context"
	"fmt"

	"github.com/klauern/obssync/internal/logging"
	"github.com/klauern/obssync/internal/model"
)

// operation is one step of a batch.
type operation struct {
	name   string
	path   string
	action Action
	apply  func(ctx context.Context, mode model.RevisionMode) error
}

// runBatch issues ops in order. Only the last one commits. The first
// failure stops the batch and is returned; later ops are not attempted.
func (s *Synchronizer) runBatch(ctx context.Context, result *Result, ops []operation) error {
	n := len(ops)
	log := logging.WithContext(ctx).With(
		logging.Operation(string(result.Phase)),
		logging.Project(result.Package.Project),
		logging.Package(result.Package.Package),
	)

	if err := s.emit(ProgressEvent{Type: ProgressEventStart, Phase: result.Phase, Total: n}); err != nil {
		return err
	}

	for i, op := range ops {
		mode := model.ModeFor(i, n)
		event := ProgressEvent{Phase: result.Phase, File: op.name, Mode: mode, Index: i, Total: n}

		event.Type = ProgressEventFileStart
		if err := s.emit(event); err != nil {
			return err
		}

		fr := FileResult{Name: op.name, Path: op.path, Mode: mode, Action: op.action}
		if s.opts.DryRun {
			fr.Action = ActionPlanned
		} else if err := op.apply(ctx, mode); err != nil {
			fr.Action = ActionFailed
			fr.Error = err
			result.Files = append(result.Files, fr)

			log.Error("operation failed", logging.File(op.name), logging.Mode(mode), logging.Err(err))
			event.Type = ProgressEventError
			event.Err = err
			_ = s.emit(event)
			return err
		}
		result.Files = append(result.Files, fr)

		log.Info(string(fr.Action), logging.File(op.name), logging.Mode(mode))
		event.Type = ProgressEventFileComplete
		_ = s.emit(event)
	}

	_ = s.emit(ProgressEvent{Type: ProgressEventComplete, Phase: result.Phase, Index: n, Total: n})
	return nil
}

// emit forwards an event to the progress callback.
func (s *Synchronizer) emit(event ProgressEvent) error {
	if s.opts.Progress == nil {
		return nil
	}
	if err := s.opts.Progress(event); err != nil {
		return fmt.Errorf("%w: %w", ErrCancelled, err)
	}
	return nil
}
