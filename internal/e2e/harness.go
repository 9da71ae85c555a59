// Package e2e provides testing infrastructure for end-to-end CLI tests.
// A Harness runs the obssync command tree against a fake build service
// with an isolated home directory and environment.
package e2e

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauern/obssync/internal/cli"
	"github.com/klauern/obssync/internal/obs/obstest"
)

// Result contains the outcome of running a CLI command.
type Result struct {
	// Stdout contains the captured standard output.
	Stdout string
	// Err is the error returned by the CLI command, if any.
	Err error
	// ExitCode is the inferred exit code (0 for success, 1 for error).
	ExitCode int
}

// Success returns true if the command completed without error.
func (r *Result) Success() bool {
	return r.Err == nil
}

// Harness provides a test harness for running E2E CLI tests.
type Harness struct {
	t        *testing.T
	homeDir  string
	localDir string

	// Server is the fake build service every command talks to.
	Server *obstest.Server
}

// NewHarness creates a harness with its own home, artifact directory and
// fake server. Credentials and the server URL are provided through the
// environment, the same way a CI job would.
func NewHarness(t *testing.T) *Harness {
	t.Helper()

	h := &Harness{
		t:        t,
		homeDir:  t.TempDir(),
		localDir: t.TempDir(),
		Server:   obstest.NewServer(t),
	}

	t.Setenv("HOME", h.homeDir)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(h.homeDir, ".config"))
	t.Setenv("OBSSYNC_SERVER_URL", h.Server.URL)
	t.Setenv("OBSSYNC_USER", "alice")
	t.Setenv("OBSSYNC_PASSWORD", "s3cret")
	t.Setenv("OBSSYNC_LOCAL_DIR", h.localDir)
	t.Setenv("OBSSYNC_OUTPUT_COLOR", "never")

	return h
}

// HomeDir returns the isolated home directory for this test harness.
func (h *Harness) HomeDir() string {
	return h.homeDir
}

// LocalDir returns the directory uploads are read from.
func (h *Harness) LocalDir() string {
	return h.localDir
}

// WriteArtifact writes a file into the local artifact directory.
func (h *Harness) WriteArtifact(name, content string) string {
	h.t.Helper()
	path := filepath.Join(h.localDir, name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		h.t.Fatalf("failed to write file %s: %v", path, err)
	}
	return path
}

// Run executes a CLI command with the given arguments and captures the output.
func (h *Harness) Run(args ...string) *Result {
	h.t.Helper()

	if len(args) == 0 || args[0] != "obssync" {
		args = append([]string{"obssync"}, args...)
	}

	oldStdout := os.Stdout
	stdoutR, stdoutW, err := os.Pipe()
	if err != nil {
		h.t.Fatalf("failed to create stdout pipe: %v", err)
	}
	os.Stdout = stdoutW

	// Drain concurrently so large output cannot block on the pipe buffer.
	var stdoutBuf bytes.Buffer
	var copyErr error
	copyDone := make(chan struct{})
	go func() {
		defer close(copyDone)
		_, copyErr = io.Copy(&stdoutBuf, stdoutR)
	}()

	cmdErr := cli.Run(context.Background(), args)

	if err := stdoutW.Close(); err != nil {
		h.t.Fatalf("failed to close stdout pipe writer: %v", err)
	}
	os.Stdout = oldStdout

	<-copyDone
	if copyErr != nil {
		h.t.Fatalf("failed to read captured stdout: %v", copyErr)
	}

	exitCode := 0
	if cmdErr != nil {
		exitCode = 1
	}

	return &Result{
		Stdout:   stdoutBuf.String(),
		Err:      cmdErr,
		ExitCode: exitCode,
	}
}

// Mutations returns the DELETE and PUT requests as "METHOD file mode",
// where mode is pending or commit.
func (h *Harness) Mutations() []string {
	var out []string
	for _, r := range h.Server.Mutations() {
		mode := "?"
		switch {
		case r.Query.Get("cmd") == "commit":
			mode = "commit"
		case r.Query.Get("rev") == "upload":
			mode = "pending"
		}
		out = append(out, r.Method+" "+r.File+" "+mode)
	}
	return out
}
