// Package artifact recognizes packaging artifacts and discovers them on disk.
package artifact

import "strings"

// fragments mark a file name as a packaging artifact: .dsc control files,
// .changes changelogs and tar archives.
var fragments = []string{"dsc", "changes", "tar"}

// IsArtifact reports whether name contains one of the artifact fragments.
// The match is a case-sensitive substring test, so "tarball.log" qualifies.
func IsArtifact(name string) bool {
	for _, f := range fragments {
		if strings.Contains(name, f) {
			return true
		}
	}
	return false
}
