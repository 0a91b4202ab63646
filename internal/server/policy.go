package server

import "yatube/internal/models"

// EditDecision is the explicit outcome of the post-edit authorization
// check, so the policy is testable on its own rather than buried in a
// handler branch.
type EditDecision int

const (
	// EditAllowed lets the owner through to the edit form.
	EditAllowed EditDecision = iota
	// EditDenied downgrades everyone else to the read-only post view.
	EditDenied
)

// DecideEdit reports whether viewer may edit post.
func DecideEdit(viewer *models.User, post *models.Post) EditDecision {
	if viewer != nil && viewer.ID == post.AuthorID {
		return EditAllowed
	}
	return EditDenied
}
