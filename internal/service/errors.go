package service

import (
	"errors"
	"fmt"
	"strings"
)

// Motivos de validacion expuestos al usuario junto al campo afectado.
const (
	ReasonRequired     = "required"
	ReasonMinLength    = "min_length"
	ReasonMaxLength    = "max_length"
	ReasonInvalidEmail = "invalid_email"
	ReasonInvalid      = "invalid"
	ReasonMismatch     = "mismatch"
	ReasonInUse        = "in_use"
)

var (
	ErrNotFound            = errors.New("not found")
	ErrProfileNotFound     = fmt.Errorf("profile %w", ErrNotFound)
	ErrConfirmationInvalid = errors.New("confirmation code invalid")
	ErrConfirmationExpired = errors.New("confirmation code expired")
	ErrAlreadyActive       = errors.New("account already active")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrAccountInactive     = errors.New("account not active")
	ErrRateLimited         = errors.New("rate limited")
	ErrNoSession           = errors.New("no session")
)

// FieldError es un problema de entrada corregible por el usuario.
type FieldError struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

// ValidationError agrupa los errores de campo de un formulario.
// Cause guarda el error de origen cuando la validacion proviene de un conflicto en la base.
type ValidationError struct {
	Errors []FieldError
	Cause  error
}

func newValidationError(field, reason string) *ValidationError {
	return &ValidationError{Errors: []FieldError{{Field: field, Reason: reason}}}
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Errors))
	for _, fe := range e.Errors {
		parts = append(parts, fe.Field+": "+fe.Reason)
	}
	return "validation failed: " + strings.Join(parts, ", ")
}

func (e *ValidationError) Unwrap() error {
	return e.Cause
}

// Has indica si hay al menos un error para el campo.
func (e *ValidationError) Has(field string) bool {
	for _, fe := range e.Errors {
		if fe.Field == field {
			return true
		}
	}
	return false
}

// ByField agrupa los motivos por campo, en el orden en que se detectaron.
func (e *ValidationError) ByField() map[string][]string {
	out := make(map[string][]string, len(e.Errors))
	for _, fe := range e.Errors {
		out[fe.Field] = append(out[fe.Field], fe.Reason)
	}
	return out
}

// DispatchError indica que el correo de confirmacion no pudo enviarse.
// El registro ya quedo persistido; el error es para operadores.
type DispatchError struct {
	ProfileID int64
	Err       error
}

func (e *DispatchError) Error() string {
	return fmt.Sprintf("dispatch confirmation for profile %d: %v", e.ProfileID, e.Err)
}

func (e *DispatchError) Unwrap() error {
	return e.Err
}
