package main

import (
	"bytes"
	"context"
	"io"
	"os"
	"strings"
	"testing"

	"github.com/klauern/obssync/internal/cli"
)

// captureStdout runs fn with os.Stdout redirected and returns what it wrote.
func captureStdout(t *testing.T, fn func() error) (string, error) {
	t.Helper()
	old := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w

	err := fn()

	if closeErr := w.Close(); closeErr != nil {
		t.Fatalf("failed to close pipe writer: %v", closeErr)
	}
	os.Stdout = old

	var buf bytes.Buffer
	if _, copyErr := io.Copy(&buf, r); copyErr != nil {
		t.Fatalf("failed to read captured output: %v", copyErr)
	}
	return buf.String(), err
}

func TestCLIInitialization(t *testing.T) {
	output, err := captureStdout(t, func() error {
		return cli.Run(context.Background(), []string{"obssync", "--help"})
	})
	if err != nil {
		t.Fatalf("CLI initialization failed: %v", err)
	}

	if !strings.Contains(output, "obssync") {
		t.Errorf("expected help output to contain 'obssync', got: %q", output)
	}
	if !strings.Contains(output, "USAGE") || !strings.Contains(output, "COMMANDS") {
		t.Errorf("expected help output to contain USAGE and COMMANDS sections, got: %q", output)
	}
}

func TestVersionFlag(t *testing.T) {
	output, err := captureStdout(t, func() error {
		return cli.Run(context.Background(), []string{"obssync", "--version"})
	})
	if err != nil {
		t.Fatalf("--version flag failed: %v", err)
	}
	if !strings.Contains(output, "obssync") {
		t.Errorf("expected version output to contain 'obssync', got: %q", output)
	}
}

func TestGlobalFlagsRecognized(t *testing.T) {
	tests := map[string]struct {
		args    []string
		wantErr bool
	}{
		"verbose flag":  {args: []string{"obssync", "--verbose", "version"}},
		"debug flag":    {args: []string{"obssync", "--debug", "version"}},
		"log-json flag": {args: []string{"obssync", "--log-json", "version"}},
		"no-color flag": {args: []string{"obssync", "--no-color", "version"}},
		"unknown flag":  {args: []string{"obssync", "--bogus", "version"}, wantErr: true},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := captureStdout(t, func() error {
				return cli.Run(context.Background(), tt.args)
			})
			if (err != nil) != tt.wantErr {
				t.Errorf("Run() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestAllCommandsRegistered(t *testing.T) {
	output, err := captureStdout(t, func() error {
		return cli.Run(context.Background(), []string{"obssync", "--help"})
	})
	if err != nil {
		t.Fatalf("help command failed: %v", err)
	}

	for _, cmd := range []string{"version", "config", "sync", "delete", "upload", "list"} {
		if !strings.Contains(output, cmd) {
			t.Errorf("expected command %q to be registered, help output: %q", cmd, output)
		}
	}
}

func TestSyncHelp(t *testing.T) {
	output, err := captureStdout(t, func() error {
		return cli.Run(context.Background(), []string{"obssync", "sync", "--help"})
	})
	if err != nil {
		t.Fatalf("sync --help failed: %v", err)
	}
	for _, flag := range []string{"--remove-old-sources", "--dry-run", "--dir"} {
		if !strings.Contains(output, flag) {
			t.Errorf("expected sync help to mention %s, got: %q", flag, output)
		}
	}
}
