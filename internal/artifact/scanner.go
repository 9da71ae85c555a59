package artifact

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"sort"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"

	"github.com/klauern/obssync/internal/logging"
	"github.com/klauern/obssync/internal/model"
)

// Scanner discovers packaging artifacts directly inside a directory.
type Scanner struct {
	fs      billy.Filesystem
	resolve func(string) (string, error)
}

// NewScanner creates a scanner over fs. Paths are made absolute and cleaned
// but symlinks are not resolved.
func NewScanner(fs billy.Filesystem) *Scanner {
	return &Scanner{fs: fs, resolve: filepath.Abs}
}

// NewOSScanner creates a scanner over the OS filesystem. Paths are resolved
// to their canonical form, following symlinks.
func NewOSScanner() *Scanner {
	return &Scanner{
		fs: osfs.New("/"),
		resolve: func(dir string) (string, error) {
			abs, err := filepath.Abs(dir)
			if err != nil {
				return "", err
			}
			return filepath.EvalSymlinks(abs)
		},
	}
}

// Scan returns the artifacts directly inside dir, ordered by file name.
// Subdirectories are not descended into. An empty directory yields an
// empty slice.
func (s *Scanner) Scan(ctx context.Context, dir string) ([]model.LocalFileEntry, error) {
	canonical, err := s.resolve(dir)
	if err != nil {
		return nil, &model.Error{Kind: model.KindLocalScan, File: dir, Err: err}
	}

	info, err := s.fs.Stat(canonical)
	if err != nil {
		return nil, &model.Error{Kind: model.KindLocalScan, File: canonical, Err: err}
	}
	if !info.IsDir() {
		return nil, &model.Error{Kind: model.KindLocalScan, File: canonical, Err: errors.New("not a directory")}
	}

	children, err := s.fs.ReadDir(canonical)
	if err != nil {
		return nil, &model.Error{Kind: model.KindLocalScan, File: canonical, Err: err}
	}
	sort.Slice(children, func(i, j int) bool {
		return children[i].Name() < children[j].Name()
	})

	entries := make([]model.LocalFileEntry, 0, len(children))
	for _, child := range children {
		if err := ctx.Err(); err != nil {
			return nil, &model.Error{Kind: model.KindLocalScan, File: canonical, Err: err}
		}
		if child.IsDir() || !IsArtifact(child.Name()) {
			continue
		}

		path := s.fs.Join(canonical, child.Name())
		entries = append(entries, model.LocalFileEntry{
			AbsolutePath: path,
			FileName:     child.Name(),
			MIMEType:     ContentType(child.Name(), s.head(path)),
		})
	}

	logging.WithContext(ctx).Debug("scanned artifact directory",
		logging.Path(canonical),
		logging.Count(len(entries)),
	)
	return entries, nil
}

// head reads the leading bytes of a file for content sniffing.
// Read failures yield nil so the name-based fallback applies.
func (s *Scanner) head(path string) []byte {
	f, err := s.fs.Open(path)
	if err != nil {
		return nil
	}
	defer f.Close()

	buf := make([]byte, sniffLen)
	n, err := io.ReadFull(f, buf)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return nil
	}
	return buf[:n]
}

