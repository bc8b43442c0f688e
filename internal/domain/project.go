package domain

import "time"

// ProjectStatus is a free-form lifecycle label; "ongoing" is the default.
const ProjectStatusOngoing = "ongoing"

// Project groups tickets and assigned personnel under a creator.
type Project struct {
	ID          int64
	Name        string
	Description string
	Start       *time.Time
	Deadline    *time.Time
	Status      string
	CreatedAt   time.Time
	CreatorID   int64
	Creator     *User
}
