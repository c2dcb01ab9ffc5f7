package repository

import (
	"context"

	"github.com/maxviazov/user-directory-service/internal/model"
)

// Pinger represents a minimal readiness probe capability.
// I use it to decouple health checks from storage implementation details.
type Pinger interface {
	Ping(ctx context.Context) error
}

// UserRepository declares the record store primitives for directory users.
// Implementations own id generation and keep insertion order; I surface domain
// errors from errors.go rather than backend-specific ones.
type UserRepository interface {
	Pinger
	// Create ignores u.ID, assigns a fresh unique id and appends the record.
	Create(ctx context.Context, u model.User) (model.User, error)
	GetByID(ctx context.Context, id string) (model.User, error)
	// Update merges the non-nil patch fields over the stored record.
	// ErrNotFound is returned when the id is absent.
	Update(ctx context.Context, id string, patch model.UserPatch) (model.User, error)
	// Delete reports whether a record was removed. Absence is not an error.
	Delete(ctx context.Context, id string) (bool, error)
	// All returns a snapshot of the collection in insertion order.
	All(ctx context.Context) ([]model.User, error)
}
