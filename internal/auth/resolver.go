package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/vidyavipul/Mini-User-Management-System/internal/users"
)

// ErrUnknownSubject is returned when a valid token names no stored user.
var ErrUnknownSubject = errors.New("auth: unknown subject")

// Identity is the caller attached to an authenticated request. Role and
// status come from the stored record, never from the token.
type Identity struct {
	ID       uuid.UUID    `json:"id"`
	Email    string       `json:"email"`
	FullName string       `json:"fullName"`
	Role     users.Role   `json:"role"`
	Status   users.Status `json:"status"`
}

// UserFinder is the slice of the user store the resolver needs.
type UserFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*users.User, error)
}

// Resolver maps verified claims to the current user record.
type Resolver struct {
	Users UserFinder
}

// NewResolver constructs a Resolver.
func NewResolver(finder UserFinder) *Resolver {
	return &Resolver{Users: finder}
}

// Resolve loads the user named by claims.Subject.
func (r *Resolver) Resolve(ctx context.Context, claims *Claims) (Identity, error) {
	id, err := uuid.Parse(claims.Subject)
	if err != nil {
		return Identity{}, ErrUnknownSubject
	}
	user, err := r.Users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, users.ErrNotFound) {
			return Identity{}, ErrUnknownSubject
		}
		return Identity{}, fmt.Errorf("auth: resolve identity: %w", err)
	}
	return IdentityFromUser(user), nil
}

// IdentityFromUser projects a stored user onto an Identity.
func IdentityFromUser(user *users.User) Identity {
	return Identity{
		ID:       user.ID,
		Email:    user.Email,
		FullName: user.FullName,
		Role:     user.Role,
		Status:   user.Status,
	}
}
