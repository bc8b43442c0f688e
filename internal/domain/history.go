package domain

import "time"

// ProjectUpdateHistory is an immutable audit row for one project edit. Field
// pairs snapshot every changeable project field before and after the edit;
// PersonnelChange is non-empty only for personnel add/remove batches.
type ProjectUpdateHistory struct {
	ID        int64
	UpdatedAt time.Time
	EditorID  int64
	ProjectID int64

	OldName        string
	OldDescription string
	OldStart       *time.Time
	OldDeadline    *time.Time
	OldStatus      string

	NewName        string
	NewDescription string
	NewStart       *time.Time
	NewDeadline    *time.Time
	NewStatus      string

	PersonnelChange string

	Editor *User
}

// TicketUpdateHistory is an immutable audit row for one ticket edit.
type TicketUpdateHistory struct {
	ID        int64
	UpdatedAt time.Time
	EditorID  int64
	TicketID  int64

	OldCaption     string
	OldDescription string
	OldPriority    int
	OldStatus      string
	OldCategory    string

	NewCaption     string
	NewDescription string
	NewPriority    int
	NewStatus      string
	NewCategory    string

	Editor *User
}
