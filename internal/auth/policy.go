package auth

import "github.com/spec-kit/project-tracker/internal/domain"

// Policy centralizes every admin-or-owner decision so handlers never
// re-implement the rule. All checks assume the target's existence was already
// confirmed; existence failures take precedence over authorization failures.
type Policy struct{}

// NewPolicy constructs the authorization policy.
func NewPolicy() *Policy {
	return &Policy{}
}

// CanModify reports whether the actor may modify or delete a resource owned
// by creatorID (projects, tickets, comments).
func (p *Policy) CanModify(actor *domain.User, creatorID int64) bool {
	if actor == nil {
		return false
	}
	return actor.IsAdmin() || actor.ID == creatorID
}

// CanManagePersonnel reports whether the actor may assign or remove personnel
// on the given project.
func (p *Policy) CanManagePersonnel(actor *domain.User, project *domain.Project) bool {
	if actor == nil || project == nil {
		return false
	}
	return actor.IsAdmin() || project.CreatorID == actor.ID
}

// CanEditUser reports whether the actor may edit or delete the target user's
// profile.
func (p *Policy) CanEditUser(actor *domain.User, targetID int64) bool {
	if actor == nil {
		return false
	}
	return actor.IsAdmin() || actor.ID == targetID
}

// CanChangeAccess reports whether the actor may set the access field on any
// user, including themselves.
func (p *Policy) CanChangeAccess(actor *domain.User) bool {
	return actor.IsAdmin()
}
