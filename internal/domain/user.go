package domain

import "time"

// AccessLevel enumerates account privilege tiers.
type AccessLevel string

const (
	AccessUser  AccessLevel = "user"
	AccessAdmin AccessLevel = "admin"
)

// User is the domain model for accounts that own projects, tickets and comments.
type User struct {
	ID           int64
	Username     string
	Email        string
	PasswordHash string
	Name         *string
	Surname      *string
	Access       AccessLevel
	CreatedAt    time.Time
}

// IsAdmin reports whether the user holds admin access.
func (u *User) IsAdmin() bool {
	return u != nil && u.Access == AccessAdmin
}
