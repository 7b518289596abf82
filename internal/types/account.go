package types

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Roles an account can hold. Assigned once at signup, never changed.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

var (
	ErrNotFound        = errors.New("requested item not found")
	ErrConflict        = errors.New("item already exists or conflict")
	ErrInvalidEmail    = errors.New("id must be a valid email address")
	ErrUnauthorized    = errors.New("invalid id or password")
	ErrUnauthenticated = errors.New("authentication required or invalid credentials")
)

// Account is the sole entity of the service. ID is the user-chosen email
// address and doubles as the primary key.
type Account struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"` // Argon2id output, never exposed.
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}

// Claims is the access-token claim set. Subject carries the account id;
// Role is a cached convenience — the identity resolver always re-reads the
// live record, so a stale role claim never outlives a single lookup.
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}
