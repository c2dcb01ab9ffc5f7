// Package client keeps a table view of the directory in sync with the server.
//
// Controller owns the pagination/search state and re-fetches on every change
// and after every successful mutation. It talks to a Directory, which is either
// the in-process service.UserService or the GraphQL HTTP client in this package.
package client

import (
	"context"

	"github.com/maxviazov/user-directory-service/internal/model"
)

// Directory is the query/mutation surface the controller needs.
type Directory interface {
	ListUsers(ctx context.Context, p model.Pagination) (model.UserPage, error)
	CreateUser(ctx context.Context, in model.UserInput) (model.User, error)
	UpdateUser(ctx context.Context, id string, patch model.UserPatch) (model.User, error)
	DeleteUser(ctx context.Context, id string) (bool, error)
}
