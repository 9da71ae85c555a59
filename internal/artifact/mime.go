package artifact

import (
	"mime"
	"path/filepath"

	"github.com/gabriel-vasile/mimetype"
)

// DefaultContentType is used when neither the name nor the content
// identifies a more specific type.
const DefaultContentType = "text/plain"

// sniffLen is the number of leading bytes used for content detection.
const sniffLen = 3072

// ContentTypeByName infers a MIME type from the file extension.
// It returns "" when the extension is unknown.
func ContentTypeByName(name string) string {
	return mime.TypeByExtension(filepath.Ext(name))
}

// ContentType infers the MIME type of a file from its name, falling back to
// sniffing head and finally to DefaultContentType.
func ContentType(name string, head []byte) string {
	if ct := ContentTypeByName(name); ct != "" {
		return ct
	}
	if len(head) > sniffLen {
		head = head[:sniffLen]
	}
	if len(head) > 0 {
		if mt := mimetype.Detect(head); mt != nil && !mt.Is("application/octet-stream") {
			return mt.String()
		}
	}
	return DefaultContentType
}
