package repository

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

const uniqueViolationCode = "23505"

// ConflictError indica una violacion de restriccion unica.
// Field es el campo del formulario afectado, vacio si la restriccion no es conocida.
type ConflictError struct {
	Constraint string
	Field      string
	Err        error
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("unique constraint %s violated", e.Constraint)
}

func (e *ConflictError) Unwrap() error {
	return e.Err
}

var constraintFields = map[string]string{
	"users_username_key":        "username",
	"users_email_key":           "email",
	"user_profiles_user_id_key": "user",
}

// mapConflict convierte una violacion de unicidad de Postgres en *ConflictError.
// Cualquier otro error se devuelve sin cambios.
func mapConflict(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != uniqueViolationCode {
		return err
	}
	return &ConflictError{
		Constraint: pgErr.ConstraintName,
		Field:      constraintFields[pgErr.ConstraintName],
		Err:        err,
	}
}
