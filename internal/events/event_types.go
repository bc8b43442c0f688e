package events

import "github.com/spec-kit/project-tracker/internal/domain"

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventProjectUpdated   EventType = "project_updated"
	EventTicketUpdated    EventType = "ticket_updated"
	EventPersonnelChanged EventType = "personnel_changed"
	EventUserUpdated      EventType = "user_updated"
)

// Event represents a domain event emitted after a successful audited edit.
type Event struct {
	Type     EventType `json:"type"`
	EditorID int64     `json:"editor_id"`
	EntityID int64     `json:"entity_id"`
	Payload  any       `json:"payload,omitempty"`
}

// PersonnelChangedPayload payload.
type PersonnelChangedPayload struct {
	ProjectID int64              `json:"project_id"`
	Op        domain.PersonnelOp `json:"op"`
	UserIDs   []int64            `json:"user_ids"`
}
