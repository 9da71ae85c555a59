package sync

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"testing"

	"github.com/klauern/obssync/internal/model"
)

var testRef = model.PackageRef{Project: "home:alice", Package: "hello"}

type call struct {
	op   string
	name string
	mode model.RevisionMode
}

// fakeRemote records calls and fails the configured file names.
type fakeRemote struct {
	files   []model.RemoteFileEntry
	listErr error
	fail    map[string]error
	calls   []call
}

func (f *fakeRemote) ListFiles(_ context.Context, _ model.PackageRef) ([]model.RemoteFileEntry, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.files, nil
}

func (f *fakeRemote) DeleteFile(_ context.Context, _ model.PackageRef, name string, mode model.RevisionMode) error {
	f.calls = append(f.calls, call{op: "delete", name: name, mode: mode})
	return f.fail[name]
}

func (f *fakeRemote) UploadFile(_ context.Context, _ model.PackageRef, path string, mode model.RevisionMode) error {
	f.calls = append(f.calls, call{op: "upload", name: path, mode: mode})
	return f.fail[path]
}

// typedRemote additionally records the content type of each upload.
type typedRemote struct {
	fakeRemote
	contentTypes map[string]string
}

func (f *typedRemote) UploadFileAs(ctx context.Context, ref model.PackageRef, path, contentType string, mode model.RevisionMode) error {
	if f.contentTypes == nil {
		f.contentTypes = map[string]string{}
	}
	f.contentTypes[path] = contentType
	return f.UploadFile(ctx, ref, path, mode)
}

type fakeScanner struct {
	entries []model.LocalFileEntry
	err     error
}

func (f *fakeScanner) Scan(_ context.Context, _ string) ([]model.LocalFileEntry, error) {
	return f.entries, f.err
}

func remoteFiles(names ...string) []model.RemoteFileEntry {
	out := make([]model.RemoteFileEntry, 0, len(names))
	for _, n := range names {
		out = append(out, model.RemoteFileEntry{Name: n})
	}
	return out
}

func localFiles(names ...string) []model.LocalFileEntry {
	out := make([]model.LocalFileEntry, 0, len(names))
	for _, n := range names {
		out = append(out, model.LocalFileEntry{AbsolutePath: "/src/" + n, FileName: n})
	}
	return out
}

func modes(calls []call) []model.RevisionMode {
	out := make([]model.RevisionMode, 0, len(calls))
	for _, c := range calls {
		out = append(out, c.mode)
	}
	return out
}

func names(calls []call) []string {
	out := make([]string, 0, len(calls))
	for _, c := range calls {
		out = append(out, c.name)
	}
	return out
}

func TestDeleteOldSourceFiles_FiltersAndCommitsLast(t *testing.T) {
	remote := &fakeRemote{files: remoteFiles("a.dsc", "b.changes", "readme.md", "c.tar.gz")}

	result, err := New(remote, &fakeScanner{}, Options{}).DeleteOldSourceFiles(context.Background(), testRef)
	if err != nil {
		t.Fatalf("DeleteOldSourceFiles() unexpected error: %v", err)
	}

	wantNames := []string{"a.dsc", "b.changes", "c.tar.gz"}
	if got := names(remote.calls); !reflect.DeepEqual(got, wantNames) {
		t.Errorf("deleted %v, want %v", got, wantNames)
	}
	wantModes := []model.RevisionMode{model.Pending, model.Pending, model.Commit}
	if got := modes(remote.calls); !reflect.DeepEqual(got, wantModes) {
		t.Errorf("modes %v, want %v", got, wantModes)
	}
	if !reflect.DeepEqual(result.Ignored, []string{"readme.md"}) {
		t.Errorf("Ignored = %v, want [readme.md]", result.Ignored)
	}
	if !result.Success() || !result.Committed() {
		t.Errorf("expected successful committed result: %+v", result)
	}
}

func TestDeleteOldSourceFiles_TrailingNonArtifact(t *testing.T) {
	// The last listed file is not an artifact; the last artifact must still commit.
	remote := &fakeRemote{files: remoteFiles("a.dsc", "b.tar.xz", "_service")}

	if _, err := New(remote, &fakeScanner{}, Options{}).DeleteOldSourceFiles(context.Background(), testRef); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []model.RevisionMode{model.Pending, model.Commit}
	if got := modes(remote.calls); !reflect.DeepEqual(got, want) {
		t.Errorf("modes %v, want %v", got, want)
	}
}

func TestDeleteOldSourceFiles_DuplicateNames(t *testing.T) {
	remote := &fakeRemote{files: remoteFiles("a.dsc", "b.dsc", "a.dsc")}

	if _, err := New(remote, &fakeScanner{}, Options{}).DeleteOldSourceFiles(context.Background(), testRef); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []model.RevisionMode{model.Pending, model.Pending, model.Commit}
	if got := modes(remote.calls); !reflect.DeepEqual(got, want) {
		t.Errorf("modes %v, want %v", got, want)
	}
}

func TestDeleteOldSourceFiles_Empty(t *testing.T) {
	tests := map[string][]model.RemoteFileEntry{
		"empty listing":      nil,
		"no artifacts found": remoteFiles("README.md", "_service"),
	}

	for name, files := range tests {
		t.Run(name, func(t *testing.T) {
			remote := &fakeRemote{files: files}

			result, err := New(remote, &fakeScanner{}, Options{}).DeleteOldSourceFiles(context.Background(), testRef)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(remote.calls) != 0 {
				t.Errorf("expected no calls, got %v", remote.calls)
			}
			if !result.Success() || result.Committed() {
				t.Errorf("expected trivially successful result without commit: %+v", result)
			}
		})
	}
}

func TestDeleteOldSourceFiles_ListingError(t *testing.T) {
	listErr := &model.Error{Kind: model.KindRemoteListing, Package: testRef, StatusCode: 404}
	remote := &fakeRemote{listErr: listErr}

	_, err := New(remote, &fakeScanner{}, Options{}).DeleteOldSourceFiles(context.Background(), testRef)
	if !model.IsKind(err, model.KindRemoteListing) {
		t.Fatalf("expected remote_listing error, got: %v", err)
	}
	if len(remote.calls) != 0 {
		t.Errorf("expected no deletes, got %v", remote.calls)
	}
}

func TestDeleteOldSourceFiles_AbortsWithoutRollback(t *testing.T) {
	boom := &model.Error{Kind: model.KindRemoteDelete, Package: testRef, File: "b.changes", StatusCode: 500}
	remote := &fakeRemote{
		files: remoteFiles("a.dsc", "b.changes", "c.tar.gz"),
		fail:  map[string]error{"b.changes": boom},
	}

	result, err := New(remote, &fakeScanner{}, Options{}).DeleteOldSourceFiles(context.Background(), testRef)
	if !errors.Is(err, boom) {
		t.Fatalf("expected failing delete to be reported, got: %v", err)
	}

	if got := names(remote.calls); !reflect.DeepEqual(got, []string{"a.dsc", "b.changes"}) {
		t.Errorf("calls %v, third delete must not be issued", got)
	}
	if len(result.Files) != 2 || result.Files[0].Action != ActionDeleted || result.Files[1].Action != ActionFailed {
		t.Errorf("unexpected file results: %+v", result.Files)
	}
	if result.Success() || result.Committed() {
		t.Error("expected failed, uncommitted result")
	}
}

func TestUploadSourceFiles(t *testing.T) {
	remote := &fakeRemote{}
	scanner := &fakeScanner{entries: localFiles("a.dsc", "a.tar.gz", "a_source.changes")}

	result, err := New(remote, scanner, Options{}).UploadSourceFiles(context.Background(), testRef, "/src")
	if err != nil {
		t.Fatalf("UploadSourceFiles() unexpected error: %v", err)
	}

	wantNames := []string{"/src/a.dsc", "/src/a.tar.gz", "/src/a_source.changes"}
	if got := names(remote.calls); !reflect.DeepEqual(got, wantNames) {
		t.Errorf("uploaded %v, want %v", got, wantNames)
	}
	wantModes := []model.RevisionMode{model.Pending, model.Pending, model.Commit}
	if got := modes(remote.calls); !reflect.DeepEqual(got, wantModes) {
		t.Errorf("modes %v, want %v", got, wantModes)
	}
	if len(result.Completed()) != 3 || result.Files[2].Action != ActionUploaded {
		t.Errorf("unexpected result: %+v", result.Files)
	}
}

func TestUploadSourceFiles_UsesScannedContentType(t *testing.T) {
	remote := &typedRemote{}
	entries := localFiles("a.dsc", "a.tar.gz")
	entries[0].MIMEType = "text/x-dsc"
	scanner := &fakeScanner{entries: entries}

	if _, err := New(remote, scanner, Options{}).UploadSourceFiles(context.Background(), testRef, "/src"); err != nil {
		t.Fatalf("UploadSourceFiles() unexpected error: %v", err)
	}

	want := map[string]string{"/src/a.dsc": "text/x-dsc", "/src/a.tar.gz": ""}
	if !reflect.DeepEqual(remote.contentTypes, want) {
		t.Errorf("content types = %v, want %v", remote.contentTypes, want)
	}
	if got := modes(remote.calls); !reflect.DeepEqual(got, []model.RevisionMode{model.Pending, model.Commit}) {
		t.Errorf("modes %v, want pending then commit", got)
	}
}

func TestUploadSourceFiles_ScanError(t *testing.T) {
	scanErr := &model.Error{Kind: model.KindLocalScan, File: "/nope"}
	remote := &fakeRemote{}

	_, err := New(remote, &fakeScanner{err: scanErr}, Options{}).UploadSourceFiles(context.Background(), testRef, "/nope")
	if !model.IsKind(err, model.KindLocalScan) {
		t.Fatalf("expected local_scan error, got: %v", err)
	}
	if len(remote.calls) != 0 {
		t.Errorf("expected no uploads, got %v", remote.calls)
	}
}

func TestUploadSourceFiles_AbortsOnReadError(t *testing.T) {
	readErr := &model.Error{Kind: model.KindLocalRead, File: "/src/b.dsc"}
	remote := &fakeRemote{fail: map[string]error{"/src/b.dsc": readErr}}
	scanner := &fakeScanner{entries: localFiles("a.dsc", "b.dsc", "c.dsc")}

	_, err := New(remote, scanner, Options{}).UploadSourceFiles(context.Background(), testRef, "/src")
	if !model.IsKind(err, model.KindLocalRead) {
		t.Fatalf("expected local_read error, got: %v", err)
	}
	if len(remote.calls) != 2 {
		t.Errorf("expected 2 calls before abort, got %v", remote.calls)
	}
}

func TestCommitInvariant(t *testing.T) {
	for n := 0; n <= 8; n++ {
		t.Run(fmt.Sprintf("n=%d", n), func(t *testing.T) {
			entries := make([]model.LocalFileEntry, n)
			for i := range entries {
				entries[i] = model.LocalFileEntry{AbsolutePath: fmt.Sprintf("/src/%d.tar", i), FileName: fmt.Sprintf("%d.tar", i)}
			}
			remote := &fakeRemote{}

			if _, err := New(remote, &fakeScanner{entries: entries}, Options{}).UploadSourceFiles(context.Background(), testRef, "/src"); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if len(remote.calls) != n {
				t.Fatalf("issued %d calls, want %d", len(remote.calls), n)
			}
			for i, c := range remote.calls {
				if c.name != entries[i].AbsolutePath {
					t.Errorf("call %d = %q, want %q (order must be preserved)", i, c.name, entries[i].AbsolutePath)
				}
				wantMode := model.Pending
				if i == n-1 {
					wantMode = model.Commit
				}
				if c.mode != wantMode {
					t.Errorf("call %d mode = %v, want %v", i, c.mode, wantMode)
				}
			}
		})
	}
}

func TestDryRun(t *testing.T) {
	remote := &fakeRemote{files: remoteFiles("a.dsc", "b.changes")}

	result, err := New(remote, &fakeScanner{}, Options{DryRun: true}).DeleteOldSourceFiles(context.Background(), testRef)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(remote.calls) != 0 {
		t.Errorf("dry run issued calls: %v", remote.calls)
	}
	if len(result.Files) != 2 || result.Files[0].Action != ActionPlanned || result.Files[1].Mode != model.Commit {
		t.Errorf("unexpected planned result: %+v", result.Files)
	}
	if result.Committed() {
		t.Error("dry run must not report a commit")
	}
}

func TestRun(t *testing.T) {
	t.Run("delete then upload", func(t *testing.T) {
		remote := &fakeRemote{files: remoteFiles("old.dsc")}
		scanner := &fakeScanner{entries: localFiles("new.dsc")}

		results, err := New(remote, scanner, Options{}).Run(context.Background(), Plan{Package: testRef, LocalDir: "/src", RemoveOldSources: true})
		if err != nil {
			t.Fatalf("Run() unexpected error: %v", err)
		}
		if len(results) != 2 || results[0].Phase != PhaseDelete || results[1].Phase != PhaseUpload {
			t.Fatalf("unexpected results: %+v", results)
		}
		want := []call{{op: "delete", name: "old.dsc", mode: model.Commit}, {op: "upload", name: "/src/new.dsc", mode: model.Commit}}
		if !reflect.DeepEqual(remote.calls, want) {
			t.Errorf("calls %v, want %v", remote.calls, want)
		}
	})

	t.Run("upload only", func(t *testing.T) {
		remote := &fakeRemote{files: remoteFiles("old.dsc")}
		scanner := &fakeScanner{entries: localFiles("new.dsc")}

		results, err := New(remote, scanner, Options{}).Run(context.Background(), Plan{Package: testRef, LocalDir: "/src"})
		if err != nil {
			t.Fatalf("Run() unexpected error: %v", err)
		}
		if len(results) != 1 || len(remote.calls) != 1 || remote.calls[0].op != "upload" {
			t.Errorf("expected only the upload batch, got calls %v", remote.calls)
		}
	})

	t.Run("delete failure halts upload", func(t *testing.T) {
		remote := &fakeRemote{
			files: remoteFiles("old.dsc"),
			fail:  map[string]error{"old.dsc": errors.New("status 500")},
		}
		scanner := &fakeScanner{entries: localFiles("new.dsc")}

		results, err := New(remote, scanner, Options{}).Run(context.Background(), Plan{Package: testRef, LocalDir: "/src", RemoveOldSources: true})
		if err == nil {
			t.Fatal("Run() expected error")
		}
		if len(results) != 1 {
			t.Errorf("expected only the delete result, got %d", len(results))
		}
		for _, c := range remote.calls {
			if c.op == "upload" {
				t.Errorf("upload issued after failed delete: %v", c)
			}
		}
	})
}
