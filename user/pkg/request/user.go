package request

import (
	"encoding/json"

	"github.com/rs/zerolog"
)

type Register struct {
	Name     string `validate:"required,min=1,max=255" json:"name"`
	Email    string `validate:"required,email"         json:"email"`
	Password string `validate:"required,min=8"         json:"password"`
	Address  string `json:"address"`
	Phone    string `validate:"omitempty,max=32"       json:"phone"`
}

func (r Register) MarshalZerologObject(e *zerolog.Event) {
	e.Str("email", r.Email).Str("name", r.Name)
}

func (r Register) MarshalJSON() ([]byte, error) {
	r.Password = "***"
	type R Register
	return json.Marshal(R(r))
}

type Login struct {
	Email    string `validate:"required,email" json:"email"`
	Password string `validate:"required"       json:"password"`
}

func (l Login) MarshalZerologObject(e *zerolog.Event) {
	e.Str("email", l.Email).Str("password", "***")
}

func (l Login) MarshalJSON() ([]byte, error) {
	l.Password = "***"
	type L Login
	return json.Marshal(L(l))
}

type UpdateUser struct {
	Name      *string `validate:"omitempty,min=1,max=255" json:"name"`
	Address   *string `json:"address"`
	Phone     *string `validate:"omitempty,max=32"        json:"phone"`
	AvatarUrl *string `json:"avatar_url"`
}
