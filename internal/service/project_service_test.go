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

func newProjectService(f *fixture) *ProjectService {
	return NewProjectService(ProjectDependencies{
		Tx:            f.tx,
		ProjectRepo:   f.projects,
		TicketRepo:    f.tickets,
		PersonnelRepo: f.personnel,
		UserRepo:      f.users,
		HistoryRepo:   f.projectHistory,
		Policy:        auth.NewPolicy(),
	})
}

func TestProjectCreateAssignsCreator(t *testing.T) {
	f := newFixture()
	svc := newProjectService(f)
	creator := f.seedUser(t, "ada", domain.AccessUser)

	project, err := svc.Create(context.Background(), creator, ProjectCreateInput{
		Name:        "tracker",
		Description: "issue tracker",
	})
	require.NoError(t, err)
	assert.NotZero(t, project.ID)
	assert.Equal(t, domain.ProjectStatusOngoing, project.Status)

	assigned, err := f.personnel.Exists(context.Background(), nil, project.ID, creator.ID)
	require.NoError(t, err)
	assert.True(t, assigned, "creator should be assigned as personnel")
}

func TestProjectCreateValidation(t *testing.T) {
	f := newFixture()
	svc := newProjectService(f)
	creator := f.seedUser(t, "ada", domain.AccessUser)

	_, err := svc.Create(context.Background(), creator, ProjectCreateInput{Name: " ", Description: "d"})
	requireDomainError(t, err, "VALIDATION_FAILED")
}

func TestProjectEditRecordsHistory(t *testing.T) {
	f := newFixture()
	svc := newProjectService(f)
	creator := f.seedUser(t, "ada", domain.AccessUser)
	project := f.seedProject(t, "tracker", creator)

	name := "tracker-v2"
	updated, err := svc.Edit(context.Background(), creator, project.ID, update.ProjectChanges{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "tracker-v2", updated.Name)

	stored, err := f.projects.GetByID(context.Background(), nil, project.ID)
	require.NoError(t, err)
	assert.Equal(t, "tracker-v2", stored.Name)

	require.Len(t, f.projectHistory.Entries, 1)
	entry := f.projectHistory.Entries[0]
	assert.Equal(t, creator.ID, entry.EditorID)
	assert.Equal(t, "tracker", entry.OldName)
	assert.Equal(t, "tracker-v2", entry.NewName)
	assert.Equal(t, entry.OldDescription, entry.NewDescription)
	assert.Empty(t, entry.PersonnelChange)
	assert.Equal(t, 1, f.tx.Calls, "update and audit row share one transaction")
}

func TestProjectEditNoOpStillRecordsHistory(t *testing.T) {
	f := newFixture()
	svc := newProjectService(f)
	creator := f.seedUser(t, "ada", domain.AccessUser)
	project := f.seedProject(t, "tracker", creator)

	_, err := svc.Edit(context.Background(), creator, project.ID, update.ProjectChanges{})
	require.NoError(t, err)

	require.Len(t, f.projectHistory.Entries, 1)
	entry := f.projectHistory.Entries[0]
	assert.Equal(t, entry.OldName, entry.NewName)
	assert.Equal(t, entry.OldStatus, entry.NewStatus)
}

func TestProjectEditForbiddenForNonOwner(t *testing.T) {
	f := newFixture()
	svc := newProjectService(f)
	creator := f.seedUser(t, "ada", domain.AccessUser)
	other := f.seedUser(t, "bob", domain.AccessUser)
	project := f.seedProject(t, "tracker", creator)

	name := "hijacked"
	_, err := svc.Edit(context.Background(), other, project.ID, update.ProjectChanges{Name: &name})
	requireDomainError(t, err, "FORBIDDEN")
	assert.Empty(t, f.projectHistory.Entries)
}

func TestProjectEditAdminAllowed(t *testing.T) {
	f := newFixture()
	svc := newProjectService(f)
	creator := f.seedUser(t, "ada", domain.AccessUser)
	admin := f.seedUser(t, "root", domain.AccessAdmin)
	project := f.seedProject(t, "tracker", creator)

	status := "finished"
	updated, err := svc.Edit(context.Background(), admin, project.ID, update.ProjectChanges{Status: &status})
	require.NoError(t, err)
	assert.Equal(t, "finished", updated.Status)
}

func TestProjectEditNotFoundBeforeForbidden(t *testing.T) {
	f := newFixture()
	svc := newProjectService(f)
	other := f.seedUser(t, "bob", domain.AccessUser)

	name := "x"
	_, err := svc.Edit(context.Background(), other, 99, update.ProjectChanges{Name: &name})
	requireDomainError(t, err, "NOT_FOUND")
}

func TestProjectDelete(t *testing.T) {
	f := newFixture()
	svc := newProjectService(f)
	creator := f.seedUser(t, "ada", domain.AccessUser)
	other := f.seedUser(t, "bob", domain.AccessUser)
	admin := f.seedUser(t, "root", domain.AccessAdmin)

	project := f.seedProject(t, "tracker", creator)
	requireDomainError(t, svc.Delete(context.Background(), other, project.ID), "FORBIDDEN")
	require.NoError(t, svc.Delete(context.Background(), creator, project.ID))

	project = f.seedProject(t, "tracker2", creator)
	require.NoError(t, svc.Delete(context.Background(), admin, project.ID))
}

func TestProjectNewTicketDefaults(t *testing.T) {
	f := newFixture()
	svc := newProjectService(f)
	creator := f.seedUser(t, "ada", domain.AccessUser)
	project := f.seedProject(t, "tracker", creator)

	ticket, err := svc.NewTicket(context.Background(), creator, project.ID, TicketCreateInput{
		Caption:     "login broken",
		Description: "500 on login",
		Priority:    2,
		Category:    "bug",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.TicketStatusNew, ticket.Status)
	assert.Equal(t, project.ID, ticket.ProjectID)
	assert.Equal(t, creator.ID, ticket.CreatorID)

	_, err = svc.NewTicket(context.Background(), creator, 99, TicketCreateInput{Caption: "c", Description: "d", Category: "bug"})
	requireDomainError(t, err, "NOT_FOUND")

	_, err = svc.NewTicket(context.Background(), creator, project.ID, TicketCreateInput{Caption: "", Description: "d", Category: "bug"})
	requireDomainError(t, err, "VALIDATION_FAILED")
}

func TestAddPersonnelBatch(t *testing.T) {
	f := newFixture()
	svc := newProjectService(f)
	creator := f.seedUser(t, "ada", domain.AccessUser)
	bob := f.seedUser(t, "bob", domain.AccessUser)
	eve := f.seedUser(t, "eve", domain.AccessUser)
	project := f.seedProject(t, "tracker", creator)

	require.NoError(t, svc.AddPersonnel(context.Background(), creator, project.ID, []int64{bob.ID, eve.ID}))

	for _, id := range []int64{bob.ID, eve.ID} {
		assigned, err := f.personnel.Exists(context.Background(), nil, project.ID, id)
		require.NoError(t, err)
		assert.True(t, assigned)
	}

	require.Len(t, f.projectHistory.Entries, 1, "one audit row per batch")
	entry := f.projectHistory.Entries[0]
	assert.Equal(t, domain.EncodePersonnelChange(domain.PersonnelAdded, []int64{bob.ID, eve.ID}), entry.PersonnelChange)
	assert.Equal(t, entry.OldName, entry.NewName, "personnel rows snapshot unchanged fields as old==new")
}

func TestAddPersonnelRejectsWholeBatchOnUnknownUser(t *testing.T) {
	f := newFixture()
	svc := newProjectService(f)
	creator := f.seedUser(t, "ada", domain.AccessUser)
	bob := f.seedUser(t, "bob", domain.AccessUser)
	project := f.seedProject(t, "tracker", creator)

	err := svc.AddPersonnel(context.Background(), creator, project.ID, []int64{bob.ID, 99})
	requireDomainError(t, err, "NOT_FOUND")

	assigned, _ := f.personnel.Exists(context.Background(), nil, project.ID, bob.ID)
	assert.False(t, assigned, "no link is written when any target fails validation")
	assert.Empty(t, f.projectHistory.Entries)
	assert.Zero(t, f.tx.Calls)
}

func TestAddPersonnelConflictOnExistingAssignment(t *testing.T) {
	f := newFixture()
	svc := newProjectService(f)
	creator := f.seedUser(t, "ada", domain.AccessUser)
	bob := f.seedUser(t, "bob", domain.AccessUser)
	project := f.seedProject(t, "tracker", creator)

	require.NoError(t, svc.AddPersonnel(context.Background(), creator, project.ID, []int64{bob.ID}))
	err := svc.AddPersonnel(context.Background(), creator, project.ID, []int64{bob.ID})
	requireDomainError(t, err, "CONFLICT")
}

func TestRemovePersonnelBatch(t *testing.T) {
	f := newFixture()
	svc := newProjectService(f)
	creator := f.seedUser(t, "ada", domain.AccessUser)
	bob := f.seedUser(t, "bob", domain.AccessUser)
	project := f.seedProject(t, "tracker", creator)

	require.NoError(t, svc.AddPersonnel(context.Background(), creator, project.ID, []int64{bob.ID}))
	require.NoError(t, svc.RemovePersonnel(context.Background(), creator, project.ID, []int64{bob.ID}))

	assigned, _ := f.personnel.Exists(context.Background(), nil, project.ID, bob.ID)
	assert.False(t, assigned)

	require.Len(t, f.projectHistory.Entries, 2)
	assert.Equal(t, domain.EncodePersonnelChange(domain.PersonnelRemoved, []int64{bob.ID}),
		f.projectHistory.Entries[1].PersonnelChange)

	// removing again: the assignment no longer exists
	err := svc.RemovePersonnel(context.Background(), creator, project.ID, []int64{bob.ID})
	requireDomainError(t, err, "NOT_FOUND")
}

func TestPersonnelForbiddenForNonOwner(t *testing.T) {
	f := newFixture()
	svc := newProjectService(f)
	creator := f.seedUser(t, "ada", domain.AccessUser)
	other := f.seedUser(t, "bob", domain.AccessUser)
	project := f.seedProject(t, "tracker", creator)

	err := svc.AddPersonnel(context.Background(), other, project.ID, []int64{other.ID})
	requireDomainError(t, err, "FORBIDDEN")
}

func TestProjectGetAggregatesDetail(t *testing.T) {
	f := newFixture()
	svc := newProjectService(f)
	creator := f.seedUser(t, "ada", domain.AccessUser)
	project := f.seedProject(t, "tracker", creator)

	require.NoError(t, f.personnel.Assign(context.Background(), nil, project.ID, creator.ID))
	for i := 0; i < 12; i++ {
		f.seedTicket(t, "ticket", creator, project)
	}

	detail, err := svc.Get(context.Background(), project.ID)
	require.NoError(t, err)
	assert.Equal(t, project.ID, detail.Project.ID)
	assert.Len(t, detail.Tickets, 12, "the embedded ticket list is not truncated to a page")
	assert.Len(t, detail.Personnel, 1)
}

func TestProjectListFilter(t *testing.T) {
	f := newFixture()
	svc := newProjectService(f)
	creator := f.seedUser(t, "ada", domain.AccessUser)
	f.seedProject(t, "Website Redesign", creator)
	f.seedProject(t, "Backend API", creator)

	results, err := svc.List(context.Background(), repository.ProjectFilter{SearchTerm: "redesign"})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "Website Redesign", results[0].Name)
}
