package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/project-tracker/internal/auth"
	"github.com/spec-kit/project-tracker/internal/domain"
	"github.com/spec-kit/project-tracker/internal/repository"
	"github.com/spec-kit/project-tracker/internal/update"
)

func newTicketService(f *fixture) *TicketService {
	return NewTicketService(TicketDependencies{
		Tx:          f.tx,
		TicketRepo:  f.tickets,
		CommentRepo: f.comments,
		HistoryRepo: f.ticketHistory,
		Policy:      auth.NewPolicy(),
	})
}

func TestTicketEditRecordsHistory(t *testing.T) {
	f := newFixture()
	svc := newTicketService(f)
	creator := f.seedUser(t, "ada", domain.AccessUser)
	project := f.seedProject(t, "tracker", creator)
	ticket := f.seedTicket(t, "login broken", creator, project)

	priority := 5
	status := "in progress"
	updated, err := svc.Edit(context.Background(), creator, ticket.ID, update.TicketChanges{
		Priority: &priority,
		Status:   &status,
	})
	require.NoError(t, err)
	assert.Equal(t, 5, updated.Priority)
	assert.Equal(t, "in progress", updated.Status)

	require.Len(t, f.ticketHistory.Entries, 1)
	entry := f.ticketHistory.Entries[0]
	assert.Equal(t, 1, entry.OldPriority)
	assert.Equal(t, 5, entry.NewPriority)
	assert.Equal(t, domain.TicketStatusNew, entry.OldStatus)
	assert.Equal(t, "in progress", entry.NewStatus)
	assert.Equal(t, entry.OldCaption, entry.NewCaption)
	assert.Equal(t, creator.ID, entry.EditorID)
	assert.Equal(t, 1, f.tx.Calls)
}

func TestTicketEditForbidden(t *testing.T) {
	f := newFixture()
	svc := newTicketService(f)
	creator := f.seedUser(t, "ada", domain.AccessUser)
	other := f.seedUser(t, "bob", domain.AccessUser)
	project := f.seedProject(t, "tracker", creator)
	ticket := f.seedTicket(t, "login broken", creator, project)

	caption := "hijacked"
	_, err := svc.Edit(context.Background(), other, ticket.ID, update.TicketChanges{Caption: &caption})
	requireDomainError(t, err, "FORBIDDEN")
	assert.Empty(t, f.ticketHistory.Entries)

	_, err = svc.Edit(context.Background(), other, 99, update.TicketChanges{Caption: &caption})
	requireDomainError(t, err, "NOT_FOUND")
}

func TestTicketDelete(t *testing.T) {
	f := newFixture()
	svc := newTicketService(f)
	creator := f.seedUser(t, "ada", domain.AccessUser)
	other := f.seedUser(t, "bob", domain.AccessUser)
	project := f.seedProject(t, "tracker", creator)
	ticket := f.seedTicket(t, "login broken", creator, project)

	requireDomainError(t, svc.Delete(context.Background(), other, ticket.ID), "FORBIDDEN")
	require.NoError(t, svc.Delete(context.Background(), creator, ticket.ID))
	requireDomainError(t, svc.Delete(context.Background(), creator, ticket.ID), "NOT_FOUND")
}

func TestTicketComment(t *testing.T) {
	f := newFixture()
	svc := newTicketService(f)
	creator := f.seedUser(t, "ada", domain.AccessUser)
	project := f.seedProject(t, "tracker", creator)
	ticket := f.seedTicket(t, "login broken", creator, project)

	comment, err := svc.Comment(context.Background(), creator, ticket.ID, "can reproduce")
	require.NoError(t, err)
	assert.NotZero(t, comment.ID)
	assert.Equal(t, ticket.ID, comment.TicketID)

	_, err = svc.Comment(context.Background(), creator, ticket.ID, "   ")
	requireDomainError(t, err, "VALIDATION_FAILED")

	_, err = svc.Comment(context.Background(), creator, 99, "orphan")
	requireDomainError(t, err, "NOT_FOUND")
}

func TestTicketGetAggregatesDetail(t *testing.T) {
	f := newFixture()
	svc := newTicketService(f)
	creator := f.seedUser(t, "ada", domain.AccessUser)
	project := f.seedProject(t, "tracker", creator)
	ticket := f.seedTicket(t, "login broken", creator, project)

	_, err := svc.Comment(context.Background(), creator, ticket.ID, "first")
	require.NoError(t, err)

	caption := "login still broken"
	_, err = svc.Edit(context.Background(), creator, ticket.ID, update.TicketChanges{Caption: &caption})
	require.NoError(t, err)

	detail, err := svc.Get(context.Background(), ticket.ID)
	require.NoError(t, err)
	assert.Len(t, detail.Comments, 1)
	assert.Len(t, detail.History, 1)
}

func TestTicketListFilters(t *testing.T) {
	f := newFixture()
	svc := newTicketService(f)
	creator := f.seedUser(t, "ada", domain.AccessUser)
	project := f.seedProject(t, "tracker", creator)

	bug := f.seedTicket(t, "login broken", creator, project)
	feature := &domain.Ticket{
		Caption: "dark mode", Description: "add theme", Priority: 2,
		Category: "feature", CreatorID: creator.ID, ProjectID: project.ID,
	}
	require.NoError(t, f.tickets.Create(context.Background(), nil, feature))

	results, err := svc.List(context.Background(), repository.TicketFilter{Category: "bug"})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, bug.ID, results[0].ID)

	priority := 2
	results, err = svc.List(context.Background(), repository.TicketFilter{Priority: &priority})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, feature.ID, results[0].ID)

	results, err = svc.List(context.Background(), repository.TicketFilter{SearchTerm: "THEME"})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, feature.ID, results[0].ID)
}
