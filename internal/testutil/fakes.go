// Package testutil provides in-memory repository fakes so service tests run
// without Postgres or Redis. Fakes mirror the SQL-backed behavior the services
// rely on: pgx.ErrNoRows for missing rows, pg error 23505 for duplicates, and
// server-side defaults on insert.
package testutil

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/spec-kit/project-tracker/internal/domain"
	"github.com/spec-kit/project-tracker/internal/repository"
)

func uniqueViolation() error {
	return &pgconn.PgError{Code: "23505", Message: "duplicate key value violates unique constraint"}
}

// FakeTxRunner executes the callback directly. The fakes ignore the Querier
// handle, so passing nil is safe. A non-nil Err short-circuits the callback to
// simulate a failed transaction.
type FakeTxRunner struct {
	Err   error
	Calls int
}

func (f *FakeTxRunner) InTx(ctx context.Context, fn func(tx repository.Querier) error) error {
	f.Calls++
	if f.Err != nil {
		return f.Err
	}
	return fn(nil)
}

// FakeRevocationStore records revoked user ids in memory.
type FakeRevocationStore struct {
	Revoked map[int64]time.Duration
	Err     error
}

func NewFakeRevocationStore() *FakeRevocationStore {
	return &FakeRevocationStore{Revoked: make(map[int64]time.Duration)}
}

func (f *FakeRevocationStore) Revoke(ctx context.Context, userID int64, ttl time.Duration) error {
	if f.Err != nil {
		return f.Err
	}
	f.Revoked[userID] = ttl
	return nil
}

func (f *FakeRevocationStore) IsRevoked(ctx context.Context, userID int64) (bool, error) {
	if f.Err != nil {
		return false, f.Err
	}
	_, ok := f.Revoked[userID]
	return ok, nil
}

// FakeUserRepo is an in-memory repository.UserRepository.
type FakeUserRepo struct {
	Users  map[int64]domain.User
	nextID int64
}

func NewFakeUserRepo() *FakeUserRepo {
	return &FakeUserRepo{Users: make(map[int64]domain.User)}
}

func (f *FakeUserRepo) Create(ctx context.Context, db repository.Querier, user *domain.User) error {
	for _, existing := range f.Users {
		if existing.Username == user.Username || existing.Email == user.Email {
			return uniqueViolation()
		}
	}
	f.nextID++
	user.ID = f.nextID
	user.CreatedAt = time.Now()
	f.Users[user.ID] = *user
	return nil
}

func (f *FakeUserRepo) Update(ctx context.Context, db repository.Querier, user *domain.User) error {
	if _, ok := f.Users[user.ID]; !ok {
		return pgx.ErrNoRows
	}
	for id, existing := range f.Users {
		if id != user.ID && (existing.Username == user.Username || existing.Email == user.Email) {
			return uniqueViolation()
		}
	}
	f.Users[user.ID] = *user
	return nil
}

func (f *FakeUserRepo) Delete(ctx context.Context, db repository.Querier, id int64) error {
	if _, ok := f.Users[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(f.Users, id)
	return nil
}

func (f *FakeUserRepo) GetByID(ctx context.Context, db repository.Querier, id int64) (*domain.User, error) {
	user, ok := f.Users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &user, nil
}

func (f *FakeUserRepo) GetByUsername(ctx context.Context, db repository.Querier, username string) (*domain.User, error) {
	for _, user := range f.Users {
		if user.Username == username {
			u := user
			return &u, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *FakeUserRepo) GetByEmail(ctx context.Context, db repository.Querier, email string) (*domain.User, error) {
	for _, user := range f.Users {
		if user.Email == email {
			u := user
			return &u, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *FakeUserRepo) List(ctx context.Context, db repository.Querier) ([]domain.User, error) {
	result := make([]domain.User, 0, len(f.Users))
	for _, user := range f.Users {
		result = append(result, user)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

// FakeProjectRepo is an in-memory repository.ProjectRepository. ListByMember
// consults the personnel fake it is wired to.
type FakeProjectRepo struct {
	Projects  map[int64]domain.Project
	Personnel *FakePersonnelRepo
	nextID    int64
}

func NewFakeProjectRepo() *FakeProjectRepo {
	return &FakeProjectRepo{Projects: make(map[int64]domain.Project)}
}

func (f *FakeProjectRepo) Create(ctx context.Context, db repository.Querier, project *domain.Project) error {
	f.nextID++
	project.ID = f.nextID
	if project.Status == "" {
		project.Status = domain.ProjectStatusOngoing
	}
	project.CreatedAt = time.Now()
	f.Projects[project.ID] = *project
	return nil
}

func (f *FakeProjectRepo) Update(ctx context.Context, db repository.Querier, project *domain.Project) error {
	if _, ok := f.Projects[project.ID]; !ok {
		return pgx.ErrNoRows
	}
	f.Projects[project.ID] = *project
	return nil
}

func (f *FakeProjectRepo) Delete(ctx context.Context, db repository.Querier, id int64) error {
	if _, ok := f.Projects[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(f.Projects, id)
	return nil
}

func (f *FakeProjectRepo) GetByID(ctx context.Context, db repository.Querier, id int64) (*domain.Project, error) {
	project, ok := f.Projects[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &project, nil
}

func (f *FakeProjectRepo) List(ctx context.Context, db repository.Querier, filter repository.ProjectFilter) ([]domain.Project, error) {
	var result []domain.Project
	for _, project := range f.Projects {
		if filter.Status != "" && project.Status != filter.Status {
			continue
		}
		if term := strings.ToLower(strings.TrimSpace(filter.SearchTerm)); term != "" {
			if !strings.Contains(strings.ToLower(project.Name), term) &&
				!strings.Contains(strings.ToLower(project.Description), term) {
				continue
			}
		}
		result = append(result, project)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	limit := filter.Limit
	if limit <= 0 {
		limit = 10
	}
	if len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

func (f *FakeProjectRepo) ListByMember(ctx context.Context, db repository.Querier, userID int64) ([]domain.Project, error) {
	var result []domain.Project
	if f.Personnel == nil {
		return result, nil
	}
	for link := range f.Personnel.Links {
		if link.UserID != userID {
			continue
		}
		if project, ok := f.Projects[link.ProjectID]; ok {
			result = append(result, project)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

// FakeTicketRepo is an in-memory repository.TicketRepository.
type FakeTicketRepo struct {
	Tickets map[int64]domain.Ticket
	nextID  int64
}

func NewFakeTicketRepo() *FakeTicketRepo {
	return &FakeTicketRepo{Tickets: make(map[int64]domain.Ticket)}
}

func (f *FakeTicketRepo) Create(ctx context.Context, db repository.Querier, ticket *domain.Ticket) error {
	f.nextID++
	ticket.ID = f.nextID
	if ticket.Status == "" {
		ticket.Status = domain.TicketStatusNew
	}
	ticket.CreatedAt = time.Now()
	f.Tickets[ticket.ID] = *ticket
	return nil
}

func (f *FakeTicketRepo) Update(ctx context.Context, db repository.Querier, ticket *domain.Ticket) error {
	if _, ok := f.Tickets[ticket.ID]; !ok {
		return pgx.ErrNoRows
	}
	f.Tickets[ticket.ID] = *ticket
	return nil
}

func (f *FakeTicketRepo) Delete(ctx context.Context, db repository.Querier, id int64) error {
	if _, ok := f.Tickets[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(f.Tickets, id)
	return nil
}

func (f *FakeTicketRepo) GetByID(ctx context.Context, db repository.Querier, id int64) (*domain.Ticket, error) {
	ticket, ok := f.Tickets[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &ticket, nil
}

func (f *FakeTicketRepo) List(ctx context.Context, db repository.Querier, filter repository.TicketFilter) ([]domain.Ticket, error) {
	var result []domain.Ticket
	for _, ticket := range f.Tickets {
		if filter.ProjectID != nil && ticket.ProjectID != *filter.ProjectID {
			continue
		}
		if filter.CreatorID != nil && ticket.CreatorID != *filter.CreatorID {
			continue
		}
		if filter.Priority != nil && ticket.Priority != *filter.Priority {
			continue
		}
		if filter.Category != "" && ticket.Category != filter.Category {
			continue
		}
		if filter.Status != "" && ticket.Status != filter.Status {
			continue
		}
		if term := strings.ToLower(strings.TrimSpace(filter.SearchTerm)); term != "" {
			if !strings.Contains(strings.ToLower(ticket.Caption), term) &&
				!strings.Contains(strings.ToLower(ticket.Description), term) {
				continue
			}
		}
		result = append(result, ticket)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	limit := filter.Limit
	if limit == 0 {
		limit = 10
	}
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

// FakeCommentRepo is an in-memory repository.CommentRepository.
type FakeCommentRepo struct {
	Comments map[int64]domain.Comment
	nextID   int64
}

func NewFakeCommentRepo() *FakeCommentRepo {
	return &FakeCommentRepo{Comments: make(map[int64]domain.Comment)}
}

func (f *FakeCommentRepo) Create(ctx context.Context, db repository.Querier, comment *domain.Comment) error {
	f.nextID++
	comment.ID = f.nextID
	comment.CreatedAt = time.Now()
	f.Comments[comment.ID] = *comment
	return nil
}

func (f *FakeCommentRepo) Update(ctx context.Context, db repository.Querier, comment *domain.Comment) error {
	if _, ok := f.Comments[comment.ID]; !ok {
		return pgx.ErrNoRows
	}
	f.Comments[comment.ID] = *comment
	return nil
}

func (f *FakeCommentRepo) Delete(ctx context.Context, db repository.Querier, id int64) error {
	if _, ok := f.Comments[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(f.Comments, id)
	return nil
}

func (f *FakeCommentRepo) GetByID(ctx context.Context, db repository.Querier, id int64) (*domain.Comment, error) {
	comment, ok := f.Comments[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &comment, nil
}

func (f *FakeCommentRepo) List(ctx context.Context, db repository.Querier) ([]domain.Comment, error) {
	result := make([]domain.Comment, 0, len(f.Comments))
	for _, comment := range f.Comments {
		result = append(result, comment)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (f *FakeCommentRepo) ListByTicket(ctx context.Context, db repository.Querier, ticketID int64) ([]domain.Comment, error) {
	var result []domain.Comment
	for _, comment := range f.Comments {
		if comment.TicketID == ticketID {
			result = append(result, comment)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

// Link identifies a personnel assignment.
type Link struct {
	ProjectID int64
	UserID    int64
}

// FakePersonnelRepo is an in-memory repository.PersonnelRepository.
type FakePersonnelRepo struct {
	Links map[Link]time.Time
	Users *FakeUserRepo
}

func NewFakePersonnelRepo(users *FakeUserRepo) *FakePersonnelRepo {
	return &FakePersonnelRepo{Links: make(map[Link]time.Time), Users: users}
}

func (f *FakePersonnelRepo) Assign(ctx context.Context, db repository.Querier, projectID, userID int64) error {
	link := Link{ProjectID: projectID, UserID: userID}
	if _, ok := f.Links[link]; ok {
		return uniqueViolation()
	}
	f.Links[link] = time.Now()
	return nil
}

func (f *FakePersonnelRepo) Remove(ctx context.Context, db repository.Querier, projectID, userID int64) error {
	link := Link{ProjectID: projectID, UserID: userID}
	if _, ok := f.Links[link]; !ok {
		return pgx.ErrNoRows
	}
	delete(f.Links, link)
	return nil
}

func (f *FakePersonnelRepo) Exists(ctx context.Context, db repository.Querier, projectID, userID int64) (bool, error) {
	_, ok := f.Links[Link{ProjectID: projectID, UserID: userID}]
	return ok, nil
}

func (f *FakePersonnelRepo) ListUsersByProject(ctx context.Context, db repository.Querier, projectID int64) ([]domain.User, error) {
	var result []domain.User
	for link := range f.Links {
		if link.ProjectID != projectID {
			continue
		}
		if f.Users != nil {
			if user, ok := f.Users.Users[link.UserID]; ok {
				result = append(result, user)
			}
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

// FakeProjectHistoryRepo is an in-memory repository.ProjectHistoryRepository.
type FakeProjectHistoryRepo struct {
	Entries []domain.ProjectUpdateHistory
	nextID  int64
}

func NewFakeProjectHistoryRepo() *FakeProjectHistoryRepo {
	return &FakeProjectHistoryRepo{}
}

func (f *FakeProjectHistoryRepo) Create(ctx context.Context, db repository.Querier, history *domain.ProjectUpdateHistory) error {
	f.nextID++
	history.ID = f.nextID
	history.UpdatedAt = time.Now()
	f.Entries = append(f.Entries, *history)
	return nil
}

func (f *FakeProjectHistoryRepo) ListByProject(ctx context.Context, db repository.Querier, projectID int64) ([]domain.ProjectUpdateHistory, error) {
	var result []domain.ProjectUpdateHistory
	for _, entry := range f.Entries {
		if entry.ProjectID == projectID {
			result = append(result, entry)
		}
	}
	return result, nil
}

// FakeTicketHistoryRepo is an in-memory repository.TicketHistoryRepository.
type FakeTicketHistoryRepo struct {
	Entries []domain.TicketUpdateHistory
	nextID  int64
}

func NewFakeTicketHistoryRepo() *FakeTicketHistoryRepo {
	return &FakeTicketHistoryRepo{}
}

func (f *FakeTicketHistoryRepo) Create(ctx context.Context, db repository.Querier, history *domain.TicketUpdateHistory) error {
	f.nextID++
	history.ID = f.nextID
	history.UpdatedAt = time.Now()
	f.Entries = append(f.Entries, *history)
	return nil
}

func (f *FakeTicketHistoryRepo) ListByTicket(ctx context.Context, db repository.Querier, ticketID int64) ([]domain.TicketUpdateHistory, error) {
	var result []domain.TicketUpdateHistory
	for _, entry := range f.Entries {
		if entry.TicketID == ticketID {
			result = append(result, entry)
		}
	}
	return result, nil
}
