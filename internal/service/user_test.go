package service_test

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maxviazov/user-directory-service/internal/model"
	"github.com/maxviazov/user-directory-service/internal/repository"
	"github.com/maxviazov/user-directory-service/internal/repository/memory"
	"github.com/maxviazov/user-directory-service/internal/service"
)

// fakeUserRepo wraps the memory store and lets a test force backend failures.
type fakeUserRepo struct {
	*memory.UserStore
	allErr    error
	createErr error
	calls     int
}

func newFakeUserRepo() *fakeUserRepo { return &fakeUserRepo{UserStore: memory.NewUserStore()} }

func (f *fakeUserRepo) Create(ctx context.Context, u model.User) (model.User, error) {
	f.calls++
	if f.createErr != nil {
		return model.User{}, f.createErr
	}
	return f.UserStore.Create(ctx, u)
}

func (f *fakeUserRepo) All(ctx context.Context) ([]model.User, error) {
	if f.allErr != nil {
		return nil, f.allErr
	}
	return f.UserStore.All(ctx)
}

var _ repository.UserRepository = (*fakeUserRepo)(nil)

func newService(t *testing.T) (service.UserService, *fakeUserRepo) {
	t.Helper()
	repo := newFakeUserRepo()
	return service.NewUserService(repo, zerolog.New(io.Discard)), repo
}

func strPtr(s string) *string { return &s }

func hasField(err error, field string) bool {
	for _, f := range service.FieldErrors(err) {
		if f.Field == field {
			return true
		}
	}
	return false
}

func TestUserService_CreateUser_Validation(t *testing.T) {
	cases := []struct {
		name      string
		input     model.UserInput
		wantField string
	}{
		{"empty first", model.UserInput{FirstName: "", LastName: "B"}, "firstName"},
		{"blank last", model.UserInput{FirstName: "A", LastName: "   "}, "lastName"},
		{"long name accepted", model.UserInput{FirstName: strings.Repeat("x", 101), LastName: "B"}, ""},
		{"ok", model.UserInput{FirstName: "Ada", LastName: "Lovelace"}, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc, _ := newService(t)
			u, err := svc.CreateUser(context.Background(), tc.input)
			if tc.wantField == "" {
				require.NoError(t, err)
				assert.NotEmpty(t, u.ID)
				return
			}
			require.ErrorIs(t, err, service.ErrInvalidInput)
			assert.True(t, hasField(err, tc.wantField), "expected field error for %s, got %+v", tc.wantField, service.FieldErrors(err))
		})
	}
}

func TestUserService_CreateUser_StoresNamesAsGiven(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	u, err := svc.CreateUser(ctx, model.UserInput{FirstName: "  Ada ", LastName: " Lovelace"})
	require.NoError(t, err)
	assert.Equal(t, "  Ada ", u.FirstName)
	assert.Equal(t, " Lovelace", u.LastName)

	updated, err := svc.UpdateUser(ctx, u.ID, model.UserPatch{LastName: strPtr("Byron  ")})
	require.NoError(t, err)
	assert.Equal(t, "Byron  ", updated.LastName)
	assert.Equal(t, "  Ada ", updated.FirstName)
}

func TestUserService_CreateUser_SuppliedID(t *testing.T) {
	svc, repo := newService(t)
	ctx := context.Background()
	existing, err := svc.CreateUser(ctx, model.UserInput{FirstName: "A", LastName: "B"})
	require.NoError(t, err)
	before := repo.calls

	_, err = svc.CreateUser(ctx, model.UserInput{ID: strPtr(existing.ID), FirstName: "C", LastName: "D"})
	assert.ErrorIs(t, err, repository.ErrAlreadyExists)

	_, err = svc.CreateUser(ctx, model.UserInput{ID: strPtr("fresh-id"), FirstName: "C", LastName: "D"})
	require.ErrorIs(t, err, service.ErrInvalidInput)
	assert.True(t, hasField(err, "id"))

	assert.Equal(t, before, repo.calls, "rejected creates must not reach the store")
	assert.Equal(t, 1, repo.Len())
}

func TestUserService_CreateUser_RepoErrorPropagates(t *testing.T) {
	svc, repo := newService(t)
	boom := errors.New("boom")
	repo.createErr = boom
	_, err := svc.CreateUser(context.Background(), model.UserInput{FirstName: "A", LastName: "B"})
	assert.ErrorIs(t, err, boom)
}

func TestUserService_UpdateRoundTrip(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	created, err := svc.CreateUser(ctx, model.UserInput{FirstName: "A", LastName: "B"})
	require.NoError(t, err)

	updated, err := svc.UpdateUser(ctx, created.ID, model.UserPatch{LastName: strPtr("C")})
	require.NoError(t, err)
	assert.Equal(t, model.User{ID: created.ID, FirstName: "A", LastName: "C"}, updated)

	got, err := svc.GetUser(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, updated, got)
}

func TestUserService_UpdateUser_Errors(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	_, err := svc.UpdateUser(ctx, "missing", model.UserPatch{FirstName: strPtr("X")})
	assert.ErrorIs(t, err, repository.ErrNotFound)

	_, err = svc.UpdateUser(ctx, "", model.UserPatch{})
	require.ErrorIs(t, err, service.ErrInvalidInput)
	assert.True(t, hasField(err, "id"))

	created, err := svc.CreateUser(ctx, model.UserInput{FirstName: "A", LastName: "B"})
	require.NoError(t, err)
	_, err = svc.UpdateUser(ctx, created.ID, model.UserPatch{FirstName: strPtr("  ")})
	require.ErrorIs(t, err, service.ErrInvalidInput)
	assert.True(t, hasField(err, "firstName"))

	got, _ := svc.GetUser(ctx, created.ID)
	assert.Equal(t, "A", got.FirstName, "failed update must not touch the record")
}

func TestUserService_UpdateUser_EmptyPatchIsNoop(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	created, err := svc.CreateUser(ctx, model.UserInput{FirstName: "A", LastName: "B"})
	require.NoError(t, err)
	got, err := svc.UpdateUser(ctx, created.ID, model.UserPatch{})
	require.NoError(t, err)
	assert.Equal(t, created, got)
}

func TestUserService_DeleteUser_Idempotent(t *testing.T) {
	svc, repo := newService(t)
	ctx := context.Background()
	created, err := svc.CreateUser(ctx, model.UserInput{FirstName: "A", LastName: "B"})
	require.NoError(t, err)
	_, err = svc.CreateUser(ctx, model.UserInput{FirstName: "C", LastName: "D"})
	require.NoError(t, err)

	removed, err := svc.DeleteUser(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, removed)
	after := repo.Len()

	removed, err = svc.DeleteUser(ctx, created.ID)
	require.NoError(t, err)
	assert.False(t, removed)
	assert.Equal(t, after, repo.Len())

	_, err = svc.GetUser(ctx, created.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestUserService_GetUser_EmptyID(t *testing.T) {
	svc, _ := newService(t)
	_, err := svc.GetUser(context.Background(), " ")
	assert.ErrorIs(t, err, service.ErrInvalidInput)
}
