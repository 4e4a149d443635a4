package model

import "time"

// User represents a user in the database.
type User struct {
	ID                int64
	Name              string
	Email             string
	PasswordHash      string
	Initials          string
	ResetTokenHash    *string
	ResetTokenExpires *time.Time
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// Response strips credential material from u.
func (u *User) Response() UserResponse {
	return UserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Initials:  u.Initials,
		CreatedAt: u.CreatedAt,
	}
}

// CreateUserRequest represents a user registration request.
type CreateUserRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginRequest represents a user login request.
type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// AuthResponse represents an authentication response with a JWT token and user info.
type AuthResponse struct {
	Success bool         `json:"success"`
	Token   string       `json:"token"`
	User    UserResponse `json:"user"`
}

// MeResponse is returned by the "who am I" endpoint.
type MeResponse struct {
	Success bool         `json:"success"`
	User    UserResponse `json:"user"`
}

// UserResponse represents user data safe for API responses (no sensitive fields).
type UserResponse struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Initials  string    `json:"initials"`
	CreatedAt time.Time `json:"createdAt"`
}
