package repository

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Password  string    `json:"-"`
	Address   string    `json:"address"`
	Phone     string    `json:"phone"`
	AvatarURL string    `json:"avatar_url"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type InsertUserParams struct {
	Name      string
	Email     string
	Password  string
	Address   string
	Phone     string
	AvatarURL string
	Role      string
}

type UpdateUserParams struct {
	ID        uuid.UUID
	Name      string
	Address   string
	Phone     string
	AvatarURL string
}
