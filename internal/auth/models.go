package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// User is an author as known to the identity layer.
type User struct {
	ID                int64     `json:"-"`
	Email             string    `json:"email"`
	Token             string    `json:"token,omitempty"`
	Username          string    `json:"username"`
	CreatedAt         time.Time `json:"-"`
	Password          []byte    `json:"-"`
	PlaintextPassword string    `json:"-"`
}

type UserClaim struct {
	Username string `json:"username"`
	Email    string `json:"email"`

	jwt.RegisteredClaims
}
