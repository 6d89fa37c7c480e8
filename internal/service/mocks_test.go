package service

import (
	"context"
	"sort"
	"time"

	"github.com/jackc/pgx/v5"

	"superlists/internal/domain"
	"superlists/internal/repository"
)

type mockUserRepo struct {
	usersByID     map[string]domain.User
	idsByUsername map[string]string
	createErr     error
	activations   int
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{
		usersByID:     make(map[string]domain.User),
		idsByUsername: make(map[string]string),
	}
}

func (m *mockUserRepo) Create(_ context.Context, user domain.User) error {
	if m.createErr != nil {
		return m.createErr
	}
	if _, ok := m.idsByUsername[user.Username]; ok {
		return &repository.ConflictError{Constraint: "users_username_key", Field: "username"}
	}
	for _, u := range m.usersByID {
		if u.Email == user.Email {
			return &repository.ConflictError{Constraint: "users_email_key", Field: "email"}
		}
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
	if !user.IsActive {
		m.activations++
	}
	user.IsActive = true
	m.usersByID[id] = user
	return nil
}

type mockProfileRepo struct {
	users     *mockUserRepo
	profiles  map[int64]domain.Profile
	nextID    int64
	createErr error
}

func newMockProfileRepo(users *mockUserRepo) *mockProfileRepo {
	return &mockProfileRepo{
		users:    users,
		profiles: make(map[int64]domain.Profile),
	}
}

func (m *mockProfileRepo) Create(_ context.Context, profile domain.Profile) (domain.Profile, error) {
	if m.createErr != nil {
		return domain.Profile{}, m.createErr
	}
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

func (m *mockProfileRepo) ListPending(_ context.Context, limit int) ([]domain.PendingConfirmation, error) {
	var pending []domain.PendingConfirmation
	for _, p := range m.profiles {
		user := m.users.usersByID[p.UserID]
		if user.IsActive || p.ConfirmationSentAt != nil {
			continue
		}
		pending = append(pending, domain.PendingConfirmation{
			ProfileID: p.ID,
			UserID:    user.ID,
			Username:  user.Username,
			Email:     user.Email,
			CreatedAt: p.CreatedAt,
		})
	}
	sort.Slice(pending, func(i, j int) bool { return pending[i].ProfileID < pending[j].ProfileID })
	if len(pending) > limit {
		pending = pending[:limit]
	}
	return pending, nil
}

// mockTx emula una transaccion restaurando los mapas si fn falla.
type mockTx struct {
	users    *mockUserRepo
	profiles *mockProfileRepo
}

func (m *mockTx) Users() repository.UserRepository       { return m.users }
func (m *mockTx) Profiles() repository.ProfileRepository { return m.profiles }

func (m *mockTx) WithTx(_ context.Context, fn func(repos repository.Repositories) error) error {
	usersByID := make(map[string]domain.User, len(m.users.usersByID))
	for k, v := range m.users.usersByID {
		usersByID[k] = v
	}
	idsByUsername := make(map[string]string, len(m.users.idsByUsername))
	for k, v := range m.users.idsByUsername {
		idsByUsername[k] = v
	}
	profiles := make(map[int64]domain.Profile, len(m.profiles.profiles))
	for k, v := range m.profiles.profiles {
		profiles[k] = v
	}

	if err := fn(m); err != nil {
		m.users.usersByID = usersByID
		m.users.idsByUsername = idsByUsername
		m.profiles.profiles = profiles
		return err
	}
	return nil
}

type sentMessage struct {
	to      string
	subject string
	body    string
}

type mockEmailSender struct {
	sent []sentMessage
	err  error
}

func (m *mockEmailSender) Send(_ context.Context, toEmail, subject, body string) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, sentMessage{to: toEmail, subject: subject, body: body})
	return nil
}

type mockLimiter struct {
	blocked  bool
	err      error
	failures map[string]int
	resets   []string
}

func newMockLimiter() *mockLimiter {
	return &mockLimiter{failures: make(map[string]int)}
}

func (m *mockLimiter) Blocked(_ context.Context, _ string) (bool, error) {
	return m.blocked, m.err
}

func (m *mockLimiter) RecordFailure(_ context.Context, username string) error {
	m.failures[username]++
	return m.err
}

func (m *mockLimiter) Reset(_ context.Context, username string) error {
	m.resets = append(m.resets, username)
	return m.err
}
