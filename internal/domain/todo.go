package domain

import "time"

// TodoList es la unidad principal de almacenamiento de la aplicacion.
type TodoList struct {
	ID            int64     `json:"id"`
	Name          string    `json:"name"`
	CreationDate  time.Time `json:"creation_date"`
	IsPrivate     bool      `json:"is_private"`
	UserProfileID *int64    `json:"user_profile_id,omitempty"`
	ItemCount     int       `json:"item_count"`
}
