package domain

import "time"

// Comment is a note on a ticket. Ticket and creator are immutable.
type Comment struct {
	ID        int64
	BodyText  string
	CreatedAt time.Time
	CreatorID int64
	TicketID  int64
	Creator   *User
}
