package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/spec-kit/project-tracker/internal/domain"
	"github.com/spec-kit/project-tracker/internal/testutil"
	apperrors "github.com/spec-kit/project-tracker/pkg/util"
)

// fixture bundles the in-memory fakes every service test needs.
type fixture struct {
	users          *testutil.FakeUserRepo
	projects       *testutil.FakeProjectRepo
	tickets        *testutil.FakeTicketRepo
	comments       *testutil.FakeCommentRepo
	personnel      *testutil.FakePersonnelRepo
	projectHistory *testutil.FakeProjectHistoryRepo
	ticketHistory  *testutil.FakeTicketHistoryRepo
	tx             *testutil.FakeTxRunner
	revoked        *testutil.FakeRevocationStore
}

func newFixture() *fixture {
	users := testutil.NewFakeUserRepo()
	projects := testutil.NewFakeProjectRepo()
	personnel := testutil.NewFakePersonnelRepo(users)
	projects.Personnel = personnel

	return &fixture{
		users:          users,
		projects:       projects,
		tickets:        testutil.NewFakeTicketRepo(),
		comments:       testutil.NewFakeCommentRepo(),
		personnel:      personnel,
		projectHistory: testutil.NewFakeProjectHistoryRepo(),
		ticketHistory:  testutil.NewFakeTicketHistoryRepo(),
		tx:             &testutil.FakeTxRunner{},
		revoked:        testutil.NewFakeRevocationStore(),
	}
}

func (f *fixture) seedUser(t *testing.T, username string, access domain.AccessLevel) *domain.User {
	t.Helper()
	user := &domain.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "x",
		Access:       access,
	}
	require.NoError(t, f.users.Create(context.Background(), nil, user))
	return user
}

func (f *fixture) seedProject(t *testing.T, name string, creator *domain.User) *domain.Project {
	t.Helper()
	project := &domain.Project{
		Name:        name,
		Description: name + " description",
		CreatorID:   creator.ID,
	}
	require.NoError(t, f.projects.Create(context.Background(), nil, project))
	return project
}

func (f *fixture) seedTicket(t *testing.T, caption string, creator *domain.User, project *domain.Project) *domain.Ticket {
	t.Helper()
	ticket := &domain.Ticket{
		Caption:     caption,
		Description: caption + " description",
		Priority:    1,
		Category:    "bug",
		CreatorID:   creator.ID,
		ProjectID:   project.ID,
	}
	require.NoError(t, f.tickets.Create(context.Background(), nil, ticket))
	return ticket
}

// requireDomainError asserts err carries the given application error code.
func requireDomainError(t *testing.T, err error, code string) *apperrors.DomainError {
	t.Helper()
	require.Error(t, err)
	var domainErr *apperrors.DomainError
	require.True(t, errors.As(err, &domainErr), "expected DomainError, got %T: %v", err, err)
	require.Equal(t, code, domainErr.Code)
	return domainErr
}
