package update

import "github.com/spec-kit/project-tracker/internal/domain"

// UserChanges carries the requested edits to a user profile. Access is only
// honored for admin actors; the authorization policy rejects it otherwise
// before the engine runs.
type UserChanges struct {
	Name     *string
	Surname  *string
	Username *string
	Email    *string
	Access   *domain.AccessLevel
}

// UserSnapshot captures the changeable user fields at a point in time.
type UserSnapshot struct {
	Name     *string
	Surname  *string
	Username string
	Email    string
	Access   domain.AccessLevel
}

// SnapshotUser reads the current changeable fields of a user.
func SnapshotUser(u *domain.User) UserSnapshot {
	return UserSnapshot{
		Name:     u.Name,
		Surname:  u.Surname,
		Username: u.Username,
		Email:    u.Email,
		Access:   u.Access,
	}
}

// ApplyUser mutates u according to ch and returns the before/after snapshots.
// User edits are not recorded in an audit table, but the engine contract is
// identical to projects and tickets.
func ApplyUser(u *domain.User, ch UserChanges) (old, updated UserSnapshot) {
	old = SnapshotUser(u)
	updated = UserSnapshot{
		Name:     applyOptional(&u.Name, ch.Name),
		Surname:  applyOptional(&u.Surname, ch.Surname),
		Username: apply(&u.Username, ch.Username),
		Email:    apply(&u.Email, ch.Email),
		Access:   apply(&u.Access, ch.Access),
	}
	return old, updated
}
