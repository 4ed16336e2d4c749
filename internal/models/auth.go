package models

import (
	"github.com/golang-jwt/jwt/v5"
)

// RegisterRequest creates a new observer account.
type RegisterRequest struct {
	Email         string  `json:"email" validate:"required,email,max=255"`
	Password      string  `json:"password" validate:"required,min=8,max=72"`
	FirstName     string  `json:"firstName" validate:"required,max=100"`
	LastName      string  `json:"lastName" validate:"required,max=100"`
	Title         *string `json:"title" validate:"omitempty,max=100"`
	District      string  `json:"district" validate:"required,max=200"`
	LicenseNumber *string `json:"licenseNumber" validate:"omitempty,max=100"`
}

// LoginRequest holds credentials for authenticating an observer.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// UserInfo describes the authenticated observer in responses.
type UserInfo struct {
	ID        string  `json:"id"`
	Email     string  `json:"email"`
	FirstName string  `json:"firstName"`
	LastName  string  `json:"lastName"`
	Title     *string `json:"title,omitempty"`
	District  string  `json:"district"`
}

// AuthResponse is returned by register and login.
type AuthResponse struct {
	Token     string   `json:"token"`
	ExpiresIn int64    `json:"expiresIn"`
	User      UserInfo `json:"user"`
}

// JWTClaims is the identity claim set carried by bearer tokens.
type JWTClaims struct {
	UserID    string `json:"user_id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Title     string `json:"title,omitempty"`
	District  string `json:"district"`
	jwt.RegisteredClaims
}

// Info converts claims into the public user view.
func (c *JWTClaims) Info() UserInfo {
	info := UserInfo{
		ID:        c.UserID,
		Email:     c.Email,
		FirstName: c.FirstName,
		LastName:  c.LastName,
		District:  c.District,
	}
	if c.Title != "" {
		title := c.Title
		info.Title = &title
	}
	return info
}

// NewUserInfo builds the public view of a stored user.
func NewUserInfo(u *User) UserInfo {
	return UserInfo{
		ID:        u.ID,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Title:     u.Title,
		District:  u.District,
	}
}
