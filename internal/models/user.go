package models

import (
	"slices"
	"time"

	"github.com/golang-jwt/jwt"

	"tecawayBack/internal/geo"
)

const (
	RoleTechnician = "technician"
	RoleClient     = "client"
	RoleAdmin      = "admin"
)

// User is a registered account. Users holding RoleTechnician form the searchable directory.
type User struct {
	ID          int        `json:"id"`
	Email       string     `json:"email"`
	Name        string     `json:"name"`
	Password    string     `json:"-"`
	Title       *string    `json:"title,omitempty"`
	Description *string    `json:"description,omitempty"`
	Town        *string    `json:"town,omitempty"`
	Country     *string    `json:"country,omitempty"`
	CanMove     bool       `json:"can_move"`
	Photo       *string    `json:"photo,omitempty"`
	Latitude    *float64   `json:"latitude,omitempty"`
	Longitude   *float64   `json:"longitude,omitempty"`
	Roles       []string   `json:"roles"`
	CreatedAt   *time.Time `json:"created_at,omitempty"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty"`
}

// Coordinates returns the stored position, nil when either part is missing.
func (u User) Coordinates() *geo.Coordinates {
	return geo.NewCoordinates(u.Latitude, u.Longitude)
}

func (u User) HasRole(role string) bool {
	return slices.Contains(u.Roles, role)
}

// TechnicianWithDistance is a directory entry enriched with its distance to the searching user.
type TechnicianWithDistance struct {
	User
	Distance      *float64 `json:"distance,omitempty"`
	DistanceLabel string   `json:"distance_label,omitempty"`
}

// Actor is the authenticated caller of an operation.
type Actor struct {
	UserID int
	Role   string
}

// CanEdit reports whether the actor may change the account userID.
func (a Actor) CanEdit(userID int) bool {
	return a.UserID == userID || a.Role == RoleAdmin
}

type Claims struct {
	UserID int    `json:"user_id"`
	Role   string `json:"role"`
	jwt.StandardClaims
}

type Tokens struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type Session struct {
	UserID       int       `json:"user_id"`
	Role         string    `json:"role"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
}

type SignUpRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Name     string `json:"name" validate:"required,min=2,max=120"`
	Password string `json:"password" validate:"required,min=8,max=72"`
	Role     string `json:"role" validate:"omitempty,oneof=technician client"`
	Town     string `json:"town" validate:"omitempty,max=120"`
	Country  string `json:"country" validate:"omitempty,max=120"`
}

type SignInRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// UpdateProfileRequest carries the editable profile fields. Nil fields are left untouched.
type UpdateProfileRequest struct {
	Name        *string  `json:"name" validate:"omitempty,min=2,max=120"`
	Title       *string  `json:"title" validate:"omitempty,max=120"`
	Description *string  `json:"description" validate:"omitempty,max=2000"`
	Town        *string  `json:"town" validate:"omitempty,max=120"`
	Country     *string  `json:"country" validate:"omitempty,max=120"`
	CanMove     *bool    `json:"can_move"`
	Latitude    *float64 `json:"latitude"`
	Longitude   *float64 `json:"longitude"`
}

type SignUpResponse struct {
	User   User   `json:"user"`
	Tokens Tokens `json:"tokens"`
}
