package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/project-tracker/internal/auth"
	"github.com/spec-kit/project-tracker/internal/domain"
	"github.com/spec-kit/project-tracker/internal/update"
)

func newUserService(f *fixture) *UserService {
	return NewUserService(UserDependencies{
		Tx:            f.tx,
		UserRepo:      f.users,
		TicketRepo:    f.tickets,
		ProjectRepo:   f.projects,
		PersonnelRepo: f.personnel,
		HistoryRepo:   f.projectHistory,
		Policy:        auth.NewPolicy(),
		Tokens:        auth.NewTokenManager("test-secret", 60),
		Revoked:       f.revoked,
		Logger:        zap.NewNop(),
	})
}

func TestUserEditOwnProfile(t *testing.T) {
	f := newFixture()
	svc := newUserService(f)
	user := f.seedUser(t, "ada", domain.AccessUser)

	name := "Ada"
	updated, err := svc.Edit(context.Background(), user, user.ID, update.UserChanges{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Ada", *updated.Name)

	stored, err := f.users.GetByID(context.Background(), nil, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ada", *stored.Name)
}

func TestUserEditForbiddenForOtherUser(t *testing.T) {
	f := newFixture()
	svc := newUserService(f)
	f.seedUser(t, "ada", domain.AccessUser)
	bob := f.seedUser(t, "bob", domain.AccessUser)

	name := "Hijack"
	_, err := svc.Edit(context.Background(), bob, 1, update.UserChanges{Name: &name})
	requireDomainError(t, err, "FORBIDDEN")
}

func TestUserEditAccessRequiresAdmin(t *testing.T) {
	f := newFixture()
	svc := newUserService(f)
	user := f.seedUser(t, "ada", domain.AccessUser)
	admin := f.seedUser(t, "root", domain.AccessAdmin)

	elevated := domain.AccessAdmin

	// even on their own profile, a regular user cannot touch access
	_, err := svc.Edit(context.Background(), user, user.ID, update.UserChanges{Access: &elevated})
	requireDomainError(t, err, "FORBIDDEN")

	updated, err := svc.Edit(context.Background(), admin, user.ID, update.UserChanges{Access: &elevated})
	require.NoError(t, err)
	assert.Equal(t, domain.AccessAdmin, updated.Access)
}

func TestUserEditDuplicateUsername(t *testing.T) {
	f := newFixture()
	svc := newUserService(f)
	f.seedUser(t, "ada", domain.AccessUser)
	bob := f.seedUser(t, "bob", domain.AccessUser)

	taken := "ada"
	_, err := svc.Edit(context.Background(), bob, bob.ID, update.UserChanges{Username: &taken})
	requireDomainError(t, err, "CONFLICT")
}

func TestUserDeleteRevokesTokens(t *testing.T) {
	f := newFixture()
	svc := newUserService(f)
	user := f.seedUser(t, "ada", domain.AccessUser)

	require.NoError(t, svc.Delete(context.Background(), user, user.ID))

	_, err := f.users.GetByID(context.Background(), nil, user.ID)
	assert.Error(t, err)

	revoked, err := f.revoked.IsRevoked(context.Background(), user.ID)
	require.NoError(t, err)
	assert.True(t, revoked, "deleted accounts are logged out everywhere")
}

func TestUserDeleteForbidden(t *testing.T) {
	f := newFixture()
	svc := newUserService(f)
	ada := f.seedUser(t, "ada", domain.AccessUser)
	bob := f.seedUser(t, "bob", domain.AccessUser)
	admin := f.seedUser(t, "root", domain.AccessAdmin)

	requireDomainError(t, svc.Delete(context.Background(), bob, ada.ID), "FORBIDDEN")
	require.NoError(t, svc.Delete(context.Background(), admin, ada.ID))
}

func TestAssignProjectsWritesPerProjectHistory(t *testing.T) {
	f := newFixture()
	svc := newUserService(f)
	creator := f.seedUser(t, "ada", domain.AccessUser)
	bob := f.seedUser(t, "bob", domain.AccessUser)
	p1 := f.seedProject(t, "alpha", creator)
	p2 := f.seedProject(t, "beta", creator)

	require.NoError(t, svc.AssignProjects(context.Background(), creator, bob.ID, []int64{p1.ID, p2.ID}))

	for _, projectID := range []int64{p1.ID, p2.ID} {
		assigned, err := f.personnel.Exists(context.Background(), nil, projectID, bob.ID)
		require.NoError(t, err)
		assert.True(t, assigned)
	}

	require.Len(t, f.projectHistory.Entries, 2, "each affected project gets its own audit row")
	expected := domain.EncodePersonnelChange(domain.PersonnelAdded, []int64{bob.ID})
	assert.Equal(t, expected, f.projectHistory.Entries[0].PersonnelChange)
	assert.Equal(t, expected, f.projectHistory.Entries[1].PersonnelChange)
	assert.Equal(t, 1, f.tx.Calls, "the whole batch commits in one transaction")
}

func TestAssignProjectsConflictWhenAlreadyAssigned(t *testing.T) {
	f := newFixture()
	svc := newUserService(f)
	creator := f.seedUser(t, "ada", domain.AccessUser)
	bob := f.seedUser(t, "bob", domain.AccessUser)
	p1 := f.seedProject(t, "alpha", creator)
	p2 := f.seedProject(t, "beta", creator)

	require.NoError(t, f.personnel.Assign(context.Background(), nil, p2.ID, bob.ID))

	err := svc.AssignProjects(context.Background(), creator, bob.ID, []int64{p1.ID, p2.ID})
	requireDomainError(t, err, "CONFLICT")

	assigned, _ := f.personnel.Exists(context.Background(), nil, p1.ID, bob.ID)
	assert.False(t, assigned, "validation rejects the batch before any link is written")
	assert.Empty(t, f.projectHistory.Entries)
}

func TestRemoveProjectsInverse(t *testing.T) {
	f := newFixture()
	svc := newUserService(f)
	creator := f.seedUser(t, "ada", domain.AccessUser)
	bob := f.seedUser(t, "bob", domain.AccessUser)
	project := f.seedProject(t, "alpha", creator)

	require.NoError(t, svc.AssignProjects(context.Background(), creator, bob.ID, []int64{project.ID}))
	require.NoError(t, svc.RemoveProjects(context.Background(), creator, bob.ID, []int64{project.ID}))

	assigned, _ := f.personnel.Exists(context.Background(), nil, project.ID, bob.ID)
	assert.False(t, assigned)

	// removing an absent assignment conflicts
	err := svc.RemoveProjects(context.Background(), creator, bob.ID, []int64{project.ID})
	requireDomainError(t, err, "CONFLICT")
}

func TestAssignProjectsAuthorization(t *testing.T) {
	f := newFixture()
	svc := newUserService(f)
	creator := f.seedUser(t, "ada", domain.AccessUser)
	bob := f.seedUser(t, "bob", domain.AccessUser)
	project := f.seedProject(t, "alpha", creator)

	err := svc.AssignProjects(context.Background(), bob, bob.ID, []int64{project.ID})
	requireDomainError(t, err, "FORBIDDEN")

	err = svc.AssignProjects(context.Background(), creator, 99, []int64{project.ID})
	requireDomainError(t, err, "NOT_FOUND")

	err = svc.AssignProjects(context.Background(), creator, bob.ID, []int64{99})
	requireDomainError(t, err, "NOT_FOUND")
}

func TestUserGetAggregatesDetail(t *testing.T) {
	f := newFixture()
	svc := newUserService(f)
	creator := f.seedUser(t, "ada", domain.AccessUser)
	project := f.seedProject(t, "alpha", creator)
	f.seedTicket(t, "login broken", creator, project)
	require.NoError(t, f.personnel.Assign(context.Background(), nil, project.ID, creator.ID))

	detail, err := svc.Get(context.Background(), creator.ID)
	require.NoError(t, err)
	assert.Equal(t, creator.ID, detail.User.ID)
	assert.Len(t, detail.Tickets, 1)
	assert.Len(t, detail.Projects, 1)
}
