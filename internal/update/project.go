package update

import (
	"time"

	"github.com/spec-kit/project-tracker/internal/domain"
)

// ProjectChanges carries the requested edits to a project. Nil fields are
// carried forward unchanged.
type ProjectChanges struct {
	Name        *string
	Description *string
	Start       *time.Time
	Deadline    *time.Time
	Status      *string
}

// ProjectSnapshot captures the changeable project fields at a point in time.
type ProjectSnapshot struct {
	Name        string
	Description string
	Start       *time.Time
	Deadline    *time.Time
	Status      string
}

// SnapshotProject reads the current changeable fields of a project.
func SnapshotProject(p *domain.Project) ProjectSnapshot {
	return ProjectSnapshot{
		Name:        p.Name,
		Description: p.Description,
		Start:       p.Start,
		Deadline:    p.Deadline,
		Status:      p.Status,
	}
}

// ApplyProject mutates p according to ch and returns the before/after
// snapshots of its changeable fields.
func ApplyProject(p *domain.Project, ch ProjectChanges) (old, updated ProjectSnapshot) {
	old = SnapshotProject(p)
	updated = ProjectSnapshot{
		Name:        apply(&p.Name, ch.Name),
		Description: apply(&p.Description, ch.Description),
		Start:       applyOptional(&p.Start, ch.Start),
		Deadline:    applyOptional(&p.Deadline, ch.Deadline),
		Status:      apply(&p.Status, ch.Status),
	}
	return old, updated
}
