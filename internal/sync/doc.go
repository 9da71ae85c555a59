// Package sync sequences source file batches against a build service package.
//
// A batch is the ordered list of operations derived from one remote listing
// (deletes) or one local scan (uploads). Operations run strictly one after
// another. Every operation except the last is issued in Pending mode; the
// last one is issued in Commit mode, so the whole batch becomes one package
// revision. Commit selection is positional, never by name, which keeps the
// rule intact when a listing contains duplicate names.
//
// The first failing operation ends the batch. Operations issued before it
// stay applied; operations after it are never attempted.
//
// # Progress Reporting
//
// Progress can be tracked by providing a ProgressCallback in Options:
//
//	opts := sync.Options{
//	    Progress: func(event sync.ProgressEvent) error {
//	        fmt.Printf("%s %s (%d/%d)\n", event.Phase, event.File, event.Index+1, event.Total)
//	        return nil // Return error to cancel the batch
//	    },
//	}
//
// Progress events are emitted for:
//   - Batch start (ProgressEventStart)
//   - Each file start (ProgressEventFileStart)
//   - Each file completion (ProgressEventFileComplete)
//   - Batch completion (ProgressEventComplete)
//   - Errors (ProgressEventError)
//
// A callback error cancels the batch before the next operation is issued.
//
// # Dry Run
//
// With Options.DryRun set, listings and scans still run but no file is
// deleted or uploaded. The result records each planned operation and the
// revision mode it would have used.
package sync
