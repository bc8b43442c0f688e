package update

import "github.com/spec-kit/project-tracker/internal/domain"

// CommentChanges carries the requested edit to a comment body.
type CommentChanges struct {
	BodyText *string
}

// CommentSnapshot captures the single changeable comment field.
type CommentSnapshot struct {
	BodyText string
}

// ApplyComment mutates c according to ch and returns the before/after
// snapshots. Comment edits carry no audit row (matching the source system);
// the snapshots exist so the engine contract stays uniform.
func ApplyComment(c *domain.Comment, ch CommentChanges) (old, updated CommentSnapshot) {
	old = CommentSnapshot{BodyText: c.BodyText}
	updated = CommentSnapshot{BodyText: apply(&c.BodyText, ch.BodyText)}
	return old, updated
}
