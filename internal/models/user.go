package models

import (
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AllowedEmailDomain is the only address suffix accepted at signup.
const AllowedEmailDomain = "@gmail.com"

type User struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Name      string             `json:"name" bson:"name"`
	Email     string             `json:"email" bson:"email"` // lower-cased, unique
	Password  string             `json:"-" bson:"password"`  // bcrypt hash
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
}

// UserCompact is the public projection of a user returned by the API.
type UserCompact struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	CreatedAt *time.Time `json:"createdAt,omitempty"`
}

func (u *User) ToCompact() UserCompact {
	return UserCompact{
		ID:    u.ID.Hex(),
		Name:  u.Name,
		Email: u.Email,
	}
}

// ToProfile is ToCompact plus the creation time.
func (u *User) ToProfile() UserCompact {
	c := u.ToCompact()
	createdAt := u.CreatedAt
	c.CreatedAt = &createdAt
	return c
}

// NormalizeEmail trims and lower-cases an address so lookups are case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

type SignupRequest struct {
	Name     string `json:"name" validate:"required,max=100"`
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required,max=72"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type AuthResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Token   string      `json:"token"`
	User    UserCompact `json:"user"`
}

// Identity is what a verified session token proves.
type Identity struct {
	UserID string
	Email  string
}

// TokenClaims are the signed session token claims.
type TokenClaims struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}
