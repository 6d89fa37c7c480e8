package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"superlists/internal/domain"
)

type ProfileRepository interface {
	Create(ctx context.Context, profile domain.Profile) (domain.Profile, error)
	GetByID(ctx context.Context, id int64) (domain.Profile, error)
	GetByUserID(ctx context.Context, userID string) (domain.Profile, error)
	MarkConfirmationSent(ctx context.Context, id int64, sentAt time.Time) error
	ListPending(ctx context.Context, limit int) ([]domain.PendingConfirmation, error)
}

type PgProfileRepository struct {
	db DBTX
}

func NewPgProfileRepository(db DBTX) *PgProfileRepository {
	return &PgProfileRepository{db: db}
}

// Create inserta el perfil y devuelve el id asignado por la base.
func (r *PgProfileRepository) Create(ctx context.Context, profile domain.Profile) (domain.Profile, error) {
	const query = `
		INSERT INTO user_profiles (user_id, confirmation_code, created_at)
		VALUES ($1, $2, $3)
		RETURNING id
	`
	err := r.db.QueryRow(ctx, query,
		profile.UserID,
		profile.ConfirmationCode,
		profile.CreatedAt,
	).Scan(&profile.ID)
	if err != nil {
		return domain.Profile{}, mapConflict(err)
	}
	return profile, nil
}

func (r *PgProfileRepository) GetByID(ctx context.Context, id int64) (domain.Profile, error) {
	const query = `
		SELECT id, user_id, confirmation_code, confirmation_sent_at, created_at
		FROM user_profiles
		WHERE id = $1
	`
	return r.scanOne(ctx, query, id)
}

func (r *PgProfileRepository) GetByUserID(ctx context.Context, userID string) (domain.Profile, error) {
	const query = `
		SELECT id, user_id, confirmation_code, confirmation_sent_at, created_at
		FROM user_profiles
		WHERE user_id = $1
	`
	return r.scanOne(ctx, query, userID)
}

func (r *PgProfileRepository) MarkConfirmationSent(ctx context.Context, id int64, sentAt time.Time) error {
	const query = `UPDATE user_profiles SET confirmation_sent_at = $2 WHERE id = $1`
	tag, err := r.db.Exec(ctx, query, id, sentAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// ListPending devuelve usuarios inactivos cuyo correo de confirmacion nunca salio.
func (r *PgProfileRepository) ListPending(ctx context.Context, limit int) ([]domain.PendingConfirmation, error) {
	const query = `
		SELECT p.id, u.id, u.username, u.email, p.created_at
		FROM user_profiles p
		JOIN users u ON u.id = p.user_id
		WHERE u.is_active = FALSE AND p.confirmation_sent_at IS NULL
		ORDER BY p.created_at ASC
		LIMIT $1
	`
	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var pending []domain.PendingConfirmation
	for rows.Next() {
		var p domain.PendingConfirmation
		if err := rows.Scan(&p.ProfileID, &p.UserID, &p.Username, &p.Email, &p.CreatedAt); err != nil {
			return nil, err
		}
		pending = append(pending, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return pending, nil
}

func (r *PgProfileRepository) scanOne(ctx context.Context, query string, arg any) (domain.Profile, error) {
	var p domain.Profile
	err := r.db.QueryRow(ctx, query, arg).Scan(
		&p.ID,
		&p.UserID,
		&p.ConfirmationCode,
		&p.ConfirmationSentAt,
		&p.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Profile{}, err
	}
	return p, err
}
