package e2e_test

import (
	"testing"

	"github.com/klauern/obssync/internal/e2e"
)

func TestVersionCommand(t *testing.T) {
	h := e2e.NewHarness(t)

	result := h.Run("version")

	e2e.AssertSuccess(t, result)
	e2e.AssertOutputContains(t, result, "obssync version")
}

// Remote has a.dsc, a.changes and _service; only the artifacts go, the
// last of them with the commit.
func TestDeleteOldSources(t *testing.T) {
	h := e2e.NewHarness(t)
	h.Server.Files = []string{"a.dsc", "a.changes", "_service"}

	result := h.Run("delete", "home:alice/hello")

	e2e.AssertSuccess(t, result)
	e2e.AssertMutations(t, h,
		"DELETE a.dsc pending",
		"DELETE a.changes commit",
	)
	e2e.AssertOutputContains(t, result, "_service (not an artifact)")
	e2e.AssertOutputContains(t, result, "2 deleted, committed")
}

func TestUploadArtifacts(t *testing.T) {
	h := e2e.NewHarness(t)
	h.WriteArtifact("x.tar.gz", "tarball")
	h.WriteArtifact("x.dsc", "Format: 3.0 (native)\n")
	h.WriteArtifact("notes.txt", "ignored")

	result := h.Run("upload", "home:alice/hello")

	e2e.AssertSuccess(t, result)
	e2e.AssertMutations(t, h,
		"PUT x.dsc pending",
		"PUT x.tar.gz commit",
	)
	e2e.AssertOutputNotContains(t, result, "notes.txt")
}

// A rejected second delete leaves the first deleted and the third untouched.
func TestDeleteAbortsOnFailure(t *testing.T) {
	h := e2e.NewHarness(t)
	h.Server.Files = []string{"a.dsc", "b.changes", "c.tar.gz"}
	h.Server.Fail["DELETE b.changes"] = 403

	result := h.Run("delete", "home:alice/hello")

	e2e.AssertError(t, result)
	e2e.AssertExitCode(t, result, 1)
	e2e.AssertMutations(t, h,
		"DELETE a.dsc pending",
		"DELETE b.changes pending",
	)
	e2e.AssertOutputContains(t, result, "1 of 2 completed, aborted")
}

func TestSyncRemovesThenUploads(t *testing.T) {
	h := e2e.NewHarness(t)
	h.Server.Files = []string{"hello_0.9.dsc", "hello_0.9.tar.xz"}
	h.WriteArtifact("hello_1.0.dsc", "Format: 3.0 (quilt)\n")

	result := h.Run("sync", "--remove-old-sources", "home:alice/hello")

	e2e.AssertSuccess(t, result)
	e2e.AssertMutations(t, h,
		"DELETE hello_0.9.dsc pending",
		"DELETE hello_0.9.tar.xz commit",
		"PUT hello_1.0.dsc commit",
	)
}

func TestSyncStopsWhenListingFails(t *testing.T) {
	h := e2e.NewHarness(t)
	h.Server.ListingStatus = 500
	h.WriteArtifact("hello_1.0.dsc", "Format: 3.0 (quilt)\n")

	result := h.Run("sync", "--remove-old-sources", "home:alice/hello")

	e2e.AssertError(t, result)
	e2e.AssertMutations(t, h)
}

func TestEmptyBatchesIssueNothing(t *testing.T) {
	h := e2e.NewHarness(t)
	h.Server.Files = []string{"_service", "_link"}

	result := h.Run("sync", "--remove-old-sources", "home:alice/hello")

	e2e.AssertSuccess(t, result)
	e2e.AssertMutations(t, h)
	e2e.AssertOutputContains(t, result, "nothing to do")
}

func TestDryRunSync(t *testing.T) {
	h := e2e.NewHarness(t)
	h.Server.Files = []string{"old.dsc"}
	h.WriteArtifact("new.dsc", "Format: 3.0 (quilt)\n")

	result := h.Run("sync", "--remove-old-sources", "--dry-run", "home:alice/hello")

	e2e.AssertSuccess(t, result)
	e2e.AssertMutations(t, h)
	e2e.AssertOutputContains(t, result, "old.dsc (commit)")
	e2e.AssertOutputContains(t, result, "new.dsc (commit)")
}
