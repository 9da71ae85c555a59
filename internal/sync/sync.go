package sync

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/klauern/obssync/internal/artifact"
	"github.com/klauern/obssync/internal/logging"
	"github.com/klauern/obssync/internal/model"
)

// Remote is the source API of a build service package.
type Remote interface {
	ListFiles(ctx context.Context, ref model.PackageRef) ([]model.RemoteFileEntry, error)
	DeleteFile(ctx context.Context, ref model.PackageRef, fileName string, mode model.RevisionMode) error
	UploadFile(ctx context.Context, ref model.PackageRef, filePath string, mode model.RevisionMode) error
}

// TypedUploader is implemented by remotes that accept a content type
// already inferred by the scanner.
type TypedUploader interface {
	UploadFileAs(ctx context.Context, ref model.PackageRef, filePath, contentType string, mode model.RevisionMode) error
}

// Scanner discovers local artifacts.
type Scanner interface {
	Scan(ctx context.Context, dir string) ([]model.LocalFileEntry, error)
}

// Options configures synchronization behavior.
type Options struct {
	// DryRun plans batches without deleting or uploading anything.
	DryRun bool

	// Progress, if set, receives progress events.
	Progress ProgressCallback
}

// Plan describes a complete synchronization run.
type Plan struct {
	Package model.PackageRef
	// LocalDir holds the artifacts to upload.
	LocalDir string
	// RemoveOldSources runs the delete batch before the upload batch.
	RemoveOldSources bool
}

// ErrCancelled is returned when a progress callback stops a batch.
var ErrCancelled = errors.New("sync cancelled")

// Synchronizer runs delete and upload batches against one remote.
type Synchronizer struct {
	remote  Remote
	scanner Scanner
	opts    Options
}

// New creates a Synchronizer.
func New(remote Remote, scanner Scanner, opts Options) *Synchronizer {
	return &Synchronizer{remote: remote, scanner: scanner, opts: opts}
}

// DeleteOldSourceFiles deletes every artifact in the remote package listing,
// in listing order, as one revision.
func (s *Synchronizer) DeleteOldSourceFiles(ctx context.Context, ref model.PackageRef) (*Result, error) {
	defer logging.Timer("delete")()

	result := &Result{Phase: PhaseDelete, Package: ref, DryRun: s.opts.DryRun}

	files, err := s.remote.ListFiles(ctx, ref)
	if err != nil {
		return result, fmt.Errorf("list sources of %s: %w", ref, err)
	}

	var ops []operation
	for _, f := range files {
		if !artifact.IsArtifact(f.Name) {
			result.Ignored = append(result.Ignored, f.Name)
			continue
		}
		name := f.Name
		ops = append(ops, operation{
			name:   name,
			action: ActionDeleted,
			apply: func(ctx context.Context, mode model.RevisionMode) error {
				return s.remote.DeleteFile(ctx, ref, name, mode)
			},
		})
	}

	logging.WithContext(ctx).Debug("planned delete batch",
		logging.Project(ref.Project),
		logging.Package(ref.Package),
		logging.Count(len(ops)),
		slog.Int("ignored", len(result.Ignored)),
	)

	if err := s.runBatch(ctx, result, ops); err != nil {
		return result, fmt.Errorf("delete old sources of %s: %w", ref, err)
	}
	return result, nil
}

// UploadSourceFiles uploads every artifact in localDir, in scan order, as
// one revision.
func (s *Synchronizer) UploadSourceFiles(ctx context.Context, ref model.PackageRef, localDir string) (*Result, error) {
	defer logging.Timer("upload")()

	result := &Result{Phase: PhaseUpload, Package: ref, DryRun: s.opts.DryRun}

	entries, err := s.scanner.Scan(ctx, localDir)
	if err != nil {
		return result, fmt.Errorf("scan %s: %w", localDir, err)
	}

	typed, _ := s.remote.(TypedUploader)
	ops := make([]operation, 0, len(entries))
	for _, e := range entries {
		path, contentType := e.AbsolutePath, e.MIMEType
		ops = append(ops, operation{
			name:   e.FileName,
			path:   path,
			action: ActionUploaded,
			apply: func(ctx context.Context, mode model.RevisionMode) error {
				if typed != nil {
					return typed.UploadFileAs(ctx, ref, path, contentType, mode)
				}
				return s.remote.UploadFile(ctx, ref, path, mode)
			},
		})
	}

	logging.WithContext(ctx).Debug("planned upload batch",
		logging.Project(ref.Project),
		logging.Package(ref.Package),
		logging.Path(localDir),
		logging.Count(len(ops)),
	)

	if err := s.runBatch(ctx, result, ops); err != nil {
		return result, fmt.Errorf("upload sources to %s: %w", ref, err)
	}
	return result, nil
}

// Run executes a plan: the optional delete batch, then the upload batch.
// A failed delete batch stops the run before anything is uploaded.
func (s *Synchronizer) Run(ctx context.Context, plan Plan) ([]*Result, error) {
	var results []*Result

	if plan.RemoveOldSources {
		res, err := s.DeleteOldSourceFiles(ctx, plan.Package)
		results = append(results, res)
		if err != nil {
			return results, err
		}
	}

	res, err := s.UploadSourceFiles(ctx, plan.Package, plan.LocalDir)
	results = append(results, res)
	return results, err
}
