package model

// RevisionMode selects whether a source operation closes a revision.
type RevisionMode int

const (
	// Pending stages the change without creating a visible revision.
	Pending RevisionMode = iota
	// Commit closes the revision. Everything staged since the last commit
	// becomes visible together with this operation.
	Commit
)

// String returns the mode name used in logs.
func (m RevisionMode) String() string {
	switch m {
	case Pending:
		return "pending"
	case Commit:
		return "commit"
	default:
		return "unknown"
	}
}

// ModeFor returns the revision mode for position i of a batch of n items.
// Only the last item commits.
func ModeFor(i, n int) RevisionMode {
	if i == n-1 {
		return Commit
	}
	return Pending
}
