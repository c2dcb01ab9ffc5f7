package graph

import (
	"context"
	"fmt"
	"strings"

	graphql "github.com/graph-gophers/graphql-go"
	"github.com/rs/zerolog"

	"github.com/maxviazov/user-directory-service/internal/model"
	"github.com/maxviazov/user-directory-service/internal/service"
	"github.com/maxviazov/user-directory-service/pkg/response"
)

// Resolver is the root for both Query and Mutation fields.
type Resolver struct {
	users service.UserService
	log   zerolog.Logger
}

type userPageInput struct {
	Page     *int32
	PageSize *int32
	Search   *string
	OrderBy  *string
}

func (in userPageInput) toModel() model.Pagination {
	var p model.Pagination
	if in.Page != nil {
		p.Page = int(*in.Page)
	}
	if in.PageSize != nil {
		p.PageSize = int(*in.PageSize)
	}
	if in.Search != nil {
		p.Search = *in.Search
	}
	if in.OrderBy != nil {
		p.OrderBy = *in.OrderBy
	}
	return p
}

type userInput struct {
	ID        *graphql.ID
	FirstName string
	LastName  string
}

type userPatch struct {
	FirstName *string
	LastName  *string
}

func (r *Resolver) Users(ctx context.Context, args struct{ Pagination userPageInput }) (*userPageResolver, error) {
	page, err := r.users.ListUsers(ctx, args.Pagination.toModel())
	if err != nil {
		return nil, r.fail("users", err)
	}
	return &userPageResolver{page: page}, nil
}

func (r *Resolver) CreateUser(ctx context.Context, args struct{ User userInput }) (*userResolver, error) {
	in := model.UserInput{FirstName: args.User.FirstName, LastName: args.User.LastName}
	if args.User.ID != nil {
		id := string(*args.User.ID)
		in.ID = &id
	}
	u, err := r.users.CreateUser(ctx, in)
	if err != nil {
		return nil, r.fail("createUser", err)
	}
	return &userResolver{u: u}, nil
}

func (r *Resolver) UpdateUser(ctx context.Context, args struct {
	ID   graphql.ID
	User userPatch
}) (*userResolver, error) {
	u, err := r.users.UpdateUser(ctx, string(args.ID), model.UserPatch{FirstName: args.User.FirstName, LastName: args.User.LastName})
	if err != nil {
		return nil, r.fail("updateUser", err)
	}
	return &userResolver{u: u}, nil
}

func (r *Resolver) DeleteUser(ctx context.Context, args struct{ ID graphql.ID }) (bool, error) {
	removed, err := r.users.DeleteUser(ctx, string(args.ID))
	if err != nil {
		return false, r.fail("deleteUser", err)
	}
	return removed, nil
}

func (r *Resolver) fail(op string, err error) error {
	gerr := newResolverError(err)
	if gerr.code == "internal_error" {
		r.log.Error().Err(err).Str("op", op).Msg("graphql operation failed")
	} else {
		r.log.Debug().Err(err).Str("op", op).Str("code", gerr.code).Msg("graphql operation rejected")
	}
	return gerr
}

type userResolver struct{ u model.User }

func (r *userResolver) ID() graphql.ID    { return graphql.ID(r.u.ID) }
func (r *userResolver) FirstName() string { return r.u.FirstName }
func (r *userResolver) LastName() string  { return r.u.LastName }

type userPageResolver struct{ page model.UserPage }

func (r *userPageResolver) Total() int32 { return int32(r.page.Total) }

func (r *userPageResolver) Data() []*userResolver {
	out := make([]*userResolver, 0, len(r.page.Data))
	for _, u := range r.page.Data {
		out = append(out, &userResolver{u: u})
	}
	return out
}

// resolverError carries the same code the REST envelope uses in GraphQL extensions.
type resolverError struct {
	err     error
	code    string
	message string
	fields  []service.FieldError
}

func newResolverError(err error) *resolverError {
	_, payload := response.MapError(err)
	msg := payload.Message
	if msg == "" {
		msg = strings.ReplaceAll(payload.Error, "_", " ")
	}
	if len(payload.FieldErrors) > 0 {
		parts := make([]string, 0, len(payload.FieldErrors))
		for _, fe := range payload.FieldErrors {
			parts = append(parts, fe.Field+" "+fe.Message)
		}
		msg = fmt.Sprintf("%s: %s", service.ErrInvalidInput, strings.Join(parts, "; "))
	}
	return &resolverError{err: err, code: payload.Error, message: msg, fields: payload.FieldErrors}
}

func (e *resolverError) Error() string { return e.message }
func (e *resolverError) Unwrap() error { return e.err }

// Extensions implements the graphql-go resolver error hook.
func (e *resolverError) Extensions() map[string]interface{} {
	ext := map[string]interface{}{"code": e.code}
	if len(e.fields) > 0 {
		ext["fieldErrors"] = e.fields
	}
	return ext
}

var _ error = (*resolverError)(nil)
