package repository

import (
	"context"

	"superlists/internal/domain"
)

// TodoListRepository expone las consultas de listas usadas por las vistas.
type TodoListRepository interface {
	ListPublic(ctx context.Context) ([]domain.TodoList, error)
	ListByProfile(ctx context.Context, profileID int64) ([]domain.TodoList, error)
}

type PgTodoListRepository struct {
	db DBTX
}

func NewPgTodoListRepository(db DBTX) *PgTodoListRepository {
	return &PgTodoListRepository{db: db}
}

const todoListColumns = `
		SELECT l.id, l.name, l.creation_date, l.is_private, l.user_profile_id,
		       (SELECT COUNT(*) FROM todo_list_items i WHERE i.todo_list_id = l.id)
		FROM todo_lists l
`

func (r *PgTodoListRepository) ListPublic(ctx context.Context) ([]domain.TodoList, error) {
	const query = todoListColumns + `
		WHERE l.is_private = FALSE
		ORDER BY l.creation_date DESC
	`
	return r.list(ctx, query)
}

func (r *PgTodoListRepository) ListByProfile(ctx context.Context, profileID int64) ([]domain.TodoList, error) {
	const query = todoListColumns + `
		WHERE l.user_profile_id = $1
		ORDER BY l.creation_date DESC
	`
	return r.list(ctx, query, profileID)
}

func (r *PgTodoListRepository) list(ctx context.Context, query string, args ...any) ([]domain.TodoList, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	lists := []domain.TodoList{}
	for rows.Next() {
		var l domain.TodoList
		if err := rows.Scan(
			&l.ID,
			&l.Name,
			&l.CreationDate,
			&l.IsPrivate,
			&l.UserProfileID,
			&l.ItemCount,
		); err != nil {
			return nil, err
		}
		lists = append(lists, l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return lists, nil
}
