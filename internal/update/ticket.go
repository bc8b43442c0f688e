package update

import "github.com/spec-kit/project-tracker/internal/domain"

// TicketChanges carries the requested edits to a ticket.
type TicketChanges struct {
	Caption     *string
	Description *string
	Priority    *int
	Status      *string
	Category    *string
}

// TicketSnapshot captures the changeable ticket fields at a point in time.
type TicketSnapshot struct {
	Caption     string
	Description string
	Priority    int
	Status      string
	Category    string
}

// SnapshotTicket reads the current changeable fields of a ticket.
func SnapshotTicket(t *domain.Ticket) TicketSnapshot {
	return TicketSnapshot{
		Caption:     t.Caption,
		Description: t.Description,
		Priority:    t.Priority,
		Status:      t.Status,
		Category:    t.Category,
	}
}

// ApplyTicket mutates t according to ch and returns the before/after
// snapshots of its changeable fields.
func ApplyTicket(t *domain.Ticket, ch TicketChanges) (old, updated TicketSnapshot) {
	old = SnapshotTicket(t)
	updated = TicketSnapshot{
		Caption:     apply(&t.Caption, ch.Caption),
		Description: apply(&t.Description, ch.Description),
		Priority:    apply(&t.Priority, ch.Priority),
		Status:      apply(&t.Status, ch.Status),
		Category:    apply(&t.Category, ch.Category),
	}
	return old, updated
}
