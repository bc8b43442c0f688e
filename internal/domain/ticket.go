package domain

import "time"

// TicketStatusNew is the status assigned to freshly filed tickets.
const TicketStatusNew = "new"

// Ticket is a work item filed against a project. Project and creator are
// immutable after creation.
type Ticket struct {
	ID          int64
	Caption     string
	Description string
	Priority    int
	Status      string
	Category    string
	CreatedAt   time.Time
	CreatorID   int64
	ProjectID   int64
	Creator     *User
	Project     *Project
}
