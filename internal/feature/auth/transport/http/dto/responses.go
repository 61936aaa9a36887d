package dto

import (
	"time"

	"satark_backend/internal/feature/auth/domain/entity"
)

// FullnameRes is the serialized name of a user.
type FullnameRes struct {
	Firstname string `json:"firstname"`
	Lastname  string `json:"lastname,omitempty"`
}

// UserRes is the public view of a user. The password hash is never part of it.
type UserRes struct {
	ID        string      `json:"_id"`
	Fullname  FullnameRes `json:"fullname"`
	Email     string      `json:"email"`
	CreatedAt time.Time   `json:"createdAt"`
}

// NewUserRes converts a domain user into its response shape.
func NewUserRes(u *entity.User) UserRes {
	return UserRes{
		ID: u.ID,
		Fullname: FullnameRes{
			Firstname: u.Fullname.Firstname,
			Lastname:  u.Fullname.Lastname,
		},
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
	}
}

// AuthRes is returned by /register and /login.
type AuthRes struct {
	Token string  `json:"token"`
	User  UserRes `json:"user"`
}

// MessageRes is a plain acknowledgement.
type MessageRes struct {
	Message string `json:"message"`
}

// ErrorRes carries a client-facing message and, for server failures, the underlying error text.
type ErrorRes struct {
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

// FieldErrorRes is one rejected request field.
type FieldErrorRes struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationErrorRes is returned with 400 when the request body fails validation.
type ValidationErrorRes struct {
	Errors []FieldErrorRes `json:"errors"`
}
