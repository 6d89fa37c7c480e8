package http

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"superlists/internal/domain"
	"superlists/internal/repository"
)

type mockUserRepo struct {
	usersByID     map[string]domain.User
	idsByUsername map[string]string
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{
		usersByID:     make(map[string]domain.User),
		idsByUsername: make(map[string]string),
	}
}

func (m *mockUserRepo) Create(_ context.Context, user domain.User) error {
	if _, ok := m.idsByUsername[user.Username]; ok {
		return &repository.ConflictError{Constraint: "users_username_key", Field: "username"}
	}
	m.usersByID[user.ID] = user
	m.idsByUsername[user.Username] = user.ID
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (domain.User, error) {
	user, ok := m.usersByID[id]
	if !ok {
		return domain.User{}, pgx.ErrNoRows
	}
	return user, nil
}

func (m *mockUserRepo) GetByUsername(ctx context.Context, username string) (domain.User, error) {
	id, ok := m.idsByUsername[username]
	if !ok {
		return domain.User{}, pgx.ErrNoRows
	}
	return m.GetByID(ctx, id)
}

func (m *mockUserRepo) UsernameExists(_ context.Context, username string) (bool, error) {
	_, ok := m.idsByUsername[username]
	return ok, nil
}

func (m *mockUserRepo) EmailInUse(_ context.Context, email, exceptUsername string) (bool, error) {
	for _, u := range m.usersByID {
		if u.Email == email && u.Username != exceptUsername {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockUserRepo) Activate(_ context.Context, id string) error {
	user, ok := m.usersByID[id]
	if !ok {
		return pgx.ErrNoRows
	}
	user.IsActive = true
	m.usersByID[id] = user
	return nil
}

type mockProfileRepo struct {
	profiles map[int64]domain.Profile
	nextID   int64
}

func newMockProfileRepo() *mockProfileRepo {
	return &mockProfileRepo{profiles: make(map[int64]domain.Profile)}
}

func (m *mockProfileRepo) Create(_ context.Context, profile domain.Profile) (domain.Profile, error) {
	m.nextID++
	profile.ID = m.nextID
	m.profiles[profile.ID] = profile
	return profile, nil
}

func (m *mockProfileRepo) GetByID(_ context.Context, id int64) (domain.Profile, error) {
	profile, ok := m.profiles[id]
	if !ok {
		return domain.Profile{}, pgx.ErrNoRows
	}
	return profile, nil
}

func (m *mockProfileRepo) GetByUserID(_ context.Context, userID string) (domain.Profile, error) {
	for _, p := range m.profiles {
		if p.UserID == userID {
			return p, nil
		}
	}
	return domain.Profile{}, pgx.ErrNoRows
}

func (m *mockProfileRepo) MarkConfirmationSent(_ context.Context, id int64, sentAt time.Time) error {
	profile, ok := m.profiles[id]
	if !ok {
		return pgx.ErrNoRows
	}
	profile.ConfirmationSentAt = &sentAt
	m.profiles[id] = profile
	return nil
}

func (m *mockProfileRepo) ListPending(_ context.Context, _ int) ([]domain.PendingConfirmation, error) {
	return nil, nil
}

type mockTx struct {
	users    *mockUserRepo
	profiles *mockProfileRepo
}

func (m *mockTx) Users() repository.UserRepository       { return m.users }
func (m *mockTx) Profiles() repository.ProfileRepository { return m.profiles }

func (m *mockTx) WithTx(_ context.Context, fn func(repos repository.Repositories) error) error {
	return fn(m)
}

type mockEmailSender struct {
	to   []string
	body []string
	err  error
}

func (m *mockEmailSender) Send(_ context.Context, toEmail, _, body string) error {
	if m.err != nil {
		return m.err
	}
	m.to = append(m.to, toEmail)
	m.body = append(m.body, body)
	return nil
}

type mockTodoListRepo struct {
	public    []domain.TodoList
	byProfile map[int64][]domain.TodoList
	err       error
}

func (m *mockTodoListRepo) ListPublic(_ context.Context) ([]domain.TodoList, error) {
	return m.public, m.err
}

func (m *mockTodoListRepo) ListByProfile(_ context.Context, profileID int64) ([]domain.TodoList, error) {
	return m.byProfile[profileID], m.err
}

type mockPinger struct {
	err error
}

func (m *mockPinger) Ping(_ context.Context) error {
	return m.err
}
