package model

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorKind classifies a synchronization failure.
type ErrorKind string

const (
	// KindRemoteListing means the remote source listing could not be fetched or parsed.
	KindRemoteListing ErrorKind = "remote_listing"
	// KindRemoteDelete means the service rejected a file deletion.
	KindRemoteDelete ErrorKind = "remote_delete"
	// KindRemoteUpload means the service rejected a file upload.
	KindRemoteUpload ErrorKind = "remote_upload"
	// KindLocalScan means the local artifact directory could not be read.
	KindLocalScan ErrorKind = "local_scan"
	// KindLocalRead means a local artifact could not be read for upload.
	KindLocalRead ErrorKind = "local_read"
)

// Error is a synchronization failure with enough context to diagnose and re-run.
type Error struct {
	Kind    ErrorKind
	Package PackageRef
	// File is the remote file name or local path, when one is involved.
	File string
	// StatusCode is the HTTP status returned by the service, zero for
	// transport and local failures.
	StatusCode int
	// Body is the response body returned with a rejected request.
	Body string
	// Err is the underlying cause, if any.
	Err error
}

// Error returns a formatted message including kind, package, file and cause.
func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(string(e.Kind))
	if e.Package != (PackageRef{}) {
		fmt.Fprintf(&b, " %s", e.Package)
	}
	if e.File != "" {
		fmt.Fprintf(&b, " file %q", e.File)
	}
	if e.StatusCode != 0 {
		fmt.Fprintf(&b, ": status %d", e.StatusCode)
	}
	if body := strings.TrimSpace(e.Body); body != "" {
		fmt.Fprintf(&b, ": %s", body)
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

// Unwrap returns the underlying error for errors.Is/As.
func (e *Error) Unwrap() error {
	return e.Err
}

// IsKind reports whether err, or any error it wraps, is an *Error of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == kind
}
