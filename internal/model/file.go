package model

// RemoteFileEntry is one entry of a remote package source listing.
type RemoteFileEntry struct {
	Name string
	// MD5, Size and MTime are informational and empty when the server omits them.
	MD5   string
	Size  int64
	MTime int64
}

// LocalFileEntry is a local artifact discovered by a directory scan.
type LocalFileEntry struct {
	AbsolutePath string
	FileName     string
	MIMEType     string
}
