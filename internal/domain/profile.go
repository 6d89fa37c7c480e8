package domain

import "time"

// ConfirmationCodeLength es el largo fijo del codigo de confirmacion.
const ConfirmationCodeLength = 32

// Profile acopla un usuario con su codigo de confirmacion de cuenta.
type Profile struct {
	ID                 int64      `json:"id"`
	UserID             string     `json:"user_id"`
	ConfirmationCode   string     `json:"-"`
	ConfirmationSentAt *time.Time `json:"confirmation_sent_at,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
}

// PendingConfirmation es un perfil cuyo usuario sigue inactivo y nunca recibio el correo.
type PendingConfirmation struct {
	ProfileID int64     `json:"profile_id"`
	UserID    string    `json:"user_id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}
