package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maxviazov/user-directory-service/internal/model"
	"github.com/maxviazov/user-directory-service/internal/repository/memory"
	"github.com/maxviazov/user-directory-service/internal/service"
)

// fakeDirectory records every query and can hold a query until released.
type fakeDirectory struct {
	Directory

	mu      sync.Mutex
	queries []model.Pagination
	gates   map[int]chan struct{} // page -> release
	started chan model.Pagination
	listErr error
	mutErr  error
}

func (f *fakeDirectory) ListUsers(ctx context.Context, p model.Pagination) (model.UserPage, error) {
	f.mu.Lock()
	f.queries = append(f.queries, p)
	gate := f.gates[p.Page]
	listErr := f.listErr
	f.mu.Unlock()
	if f.started != nil {
		f.started <- p
	}
	if gate != nil {
		<-gate
	}
	if listErr != nil {
		return model.UserPage{}, listErr
	}
	if f.Directory != nil {
		return f.Directory.ListUsers(ctx, p)
	}
	return model.UserPage{Total: 100, Data: []model.User{{ID: fmt.Sprintf("page-%d", p.Page)}}}, nil
}

func (f *fakeDirectory) CreateUser(ctx context.Context, in model.UserInput) (model.User, error) {
	if f.mutErr != nil {
		return model.User{}, f.mutErr
	}
	return f.Directory.CreateUser(ctx, in)
}

func (f *fakeDirectory) lastQuery() model.Pagination {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.queries[len(f.queries)-1]
}

func newServiceDirectory(t *testing.T, n int) Directory {
	t.Helper()
	svc := service.NewUserService(memory.NewUserStore(), zerolog.New(io.Discard))
	for i := 0; i < n; i++ {
		_, err := svc.CreateUser(context.Background(), model.UserInput{FirstName: "User", LastName: fmt.Sprint(i)})
		require.NoError(t, err)
	}
	return svc
}

func TestController_SetSearchResetsPage(t *testing.T) {
	dir := &fakeDirectory{}
	c := NewController(dir, model.Pagination{Page: 2, PageSize: 5})
	ctx := context.Background()

	require.NoError(t, c.SetSearch(ctx, "x"))
	assert.Equal(t, model.Pagination{Page: 0, PageSize: 5, Search: "x"}, c.State())
	assert.Equal(t, c.State(), dir.lastQuery())

	require.NoError(t, c.SetPage(ctx, 3))
	require.NoError(t, c.SetPageSize(ctx, 10))
	assert.Equal(t, model.Pagination{Page: 0, PageSize: 10, Search: "x"}, c.State())
}

func TestController_SetPageKeepsSearch(t *testing.T) {
	dir := &fakeDirectory{}
	c := NewController(dir, model.Pagination{PageSize: 5, Search: "ada"})
	require.NoError(t, c.SetPage(context.Background(), 2))
	assert.Equal(t, model.Pagination{Page: 2, PageSize: 5, Search: "ada"}, dir.lastQuery())
	assert.Equal(t, StatusIdle, c.Status())
	assert.Equal(t, "page-2", c.View().Data[0].ID)
}

func TestController_DefaultsPageSize(t *testing.T) {
	c := NewController(&fakeDirectory{}, model.Pagination{Page: -1})
	assert.Equal(t, model.Pagination{Page: 0, PageSize: DefaultPageSize}, c.State())
}

func TestController_ErrorKeepsState(t *testing.T) {
	boom := errors.New("network down")
	dir := &fakeDirectory{}
	c := NewController(dir, model.Pagination{PageSize: 5})
	ctx := context.Background()
	require.NoError(t, c.Refresh(ctx))

	dir.listErr = boom
	err := c.SetPage(ctx, 3)
	require.ErrorIs(t, err, boom)
	assert.Equal(t, StatusError, c.Status())
	assert.Equal(t, 3, c.State().Page, "state is not rolled back")
	assert.ErrorIs(t, c.Err(), boom)

	props := c.Props()
	assert.Equal(t, "network down", props.Error)
	assert.Nil(t, props.Data, "failure must not render as a table")

	// retry by re-triggering
	dir.listErr = nil
	require.NoError(t, c.Refresh(ctx))
	assert.Equal(t, StatusIdle, c.Status())
	assert.NoError(t, c.Err())
	assert.Equal(t, "page-3", c.Props().Data[0].ID)
}

func TestController_LastRequestWins(t *testing.T) {
	release0 := make(chan struct{})
	dir := &fakeDirectory{
		gates:   map[int]chan struct{}{0: release0},
		started: make(chan model.Pagination, 2),
	}
	c := NewController(dir, model.Pagination{PageSize: 5})
	ctx := context.Background()

	first := make(chan error, 1)
	go func() { first <- c.SetPage(ctx, 0) }()
	<-dir.started // page 0 is in flight and held

	require.NoError(t, c.SetPage(ctx, 1))
	<-dir.started
	assert.Equal(t, "page-1", c.View().Data[0].ID)

	close(release0) // the stale page 0 response arrives last
	select {
	case err := <-first:
		assert.ErrorIs(t, err, ErrSuperseded)
	case <-time.After(2 * time.Second):
		t.Fatal("superseded fetch never returned")
	}
	assert.Equal(t, "page-1", c.View().Data[0].ID, "stale response must not overwrite the newer view")
	assert.Equal(t, 1, c.State().Page)
	assert.Equal(t, StatusIdle, c.Status())
}

func TestController_RefreshAfterMutationUsesCurrentState(t *testing.T) {
	dir := &fakeDirectory{Directory: newServiceDirectory(t, 12)}
	c := NewController(dir, model.Pagination{PageSize: 5})
	ctx := context.Background()
	require.NoError(t, c.SetPage(ctx, 2))
	assert.Len(t, c.View().Data, 2)

	u, err := c.CreateUser(ctx, model.UserInput{FirstName: "New", LastName: "Comer"})
	require.NoError(t, err)
	assert.NotEmpty(t, u.ID)

	assert.Equal(t, model.Pagination{Page: 2, PageSize: 5}, dir.lastQuery())
	view := c.View()
	assert.Equal(t, 13, view.Total)
	require.Len(t, view.Data, 3)
	assert.Equal(t, u, view.Data[2])
}

func TestController_DeleteShrinksBelowCurrentPage(t *testing.T) {
	inner := newServiceDirectory(t, 6)
	c := NewController(inner, model.Pagination{PageSize: 5})
	ctx := context.Background()
	require.NoError(t, c.SetPage(ctx, 1))
	require.Len(t, c.View().Data, 1)
	victim := c.View().Data[0]

	removed, err := c.DeleteUser(ctx, victim.ID)
	require.NoError(t, err)
	assert.True(t, removed)

	// page is not corrected downward; the page is legitimately empty now
	assert.Equal(t, 1, c.State().Page)
	assert.Equal(t, 5, c.View().Total)
	assert.Empty(t, c.View().Data)

	removed, err = c.DeleteUser(ctx, victim.ID)
	require.NoError(t, err)
	assert.False(t, removed)
	assert.Equal(t, StatusIdle, c.Status())
}

func TestController_UpdateRefreshes(t *testing.T) {
	inner := newServiceDirectory(t, 1)
	c := NewController(inner, model.Pagination{PageSize: 5})
	ctx := context.Background()
	require.NoError(t, c.Refresh(ctx))
	id := c.View().Data[0].ID

	last := "Changed"
	_, err := c.UpdateUser(ctx, id, model.UserPatch{LastName: &last})
	require.NoError(t, err)
	assert.Equal(t, "Changed", c.View().Data[0].LastName)
	assert.Equal(t, "User", c.View().Data[0].FirstName)
}

func TestController_MutationFailureSurfaces(t *testing.T) {
	mutErr := service.NewInvalidInputError([]service.FieldError{{Field: "firstName", Message: "must not be empty"}})
	dir := &fakeDirectory{Directory: newServiceDirectory(t, 2), mutErr: mutErr}
	c := NewController(dir, model.Pagination{PageSize: 5})
	ctx := context.Background()
	require.NoError(t, c.Refresh(ctx))
	queries := len(dir.queries)

	_, err := c.CreateUser(ctx, model.UserInput{})
	require.ErrorIs(t, err, service.ErrInvalidInput)
	assert.Equal(t, StatusError, c.Status())
	assert.Equal(t, queries, len(dir.queries), "failed mutation does not refetch")
	assert.NotEmpty(t, c.Props().Error)
}

func TestController_RendersEveryTransition(t *testing.T) {
	var mu sync.Mutex
	var seen []TableProps
	c := NewController(&fakeDirectory{}, model.Pagination{PageSize: 5}, WithRenderer(func(p TableProps) {
		mu.Lock()
		seen = append(seen, p)
		mu.Unlock()
	}), WithLogger(zerolog.New(io.Discard)))

	require.NoError(t, c.SetPage(context.Background(), 1))

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, seen, 2)
	assert.True(t, seen[0].Loading)
	assert.False(t, seen[1].Loading)
	assert.Equal(t, 100, seen[1].TotalCount)
	assert.Equal(t, Columns, seen[1].Columns)
	assert.NotNil(t, seen[1].OnChangePage)
}

func TestController_PropsCallbacksDriveController(t *testing.T) {
	dir := &fakeDirectory{}
	c := NewController(dir, model.Pagination{Page: 3, PageSize: 5})
	props := c.Props()
	require.NoError(t, props.OnChangeRowsPerPage(context.Background(), 20))
	assert.Equal(t, model.Pagination{Page: 0, PageSize: 20}, c.State())
}

func TestStatus_String(t *testing.T) {
	assert.Equal(t, "idle", StatusIdle.String())
	assert.Equal(t, "fetching", StatusFetching.String())
	assert.Equal(t, "error", StatusError.String())
	assert.Equal(t, "status(9)", Status(9).String())
}

func TestController_RefreshFailureAfterMutation(t *testing.T) {
	boom := errors.New("gateway timeout")
	dir := &fakeDirectory{Directory: newServiceDirectory(t, 1)}
	c := NewController(dir, model.Pagination{PageSize: 5})
	dir.listErr = boom

	u, err := c.CreateUser(context.Background(), model.UserInput{FirstName: "Ada", LastName: "Lovelace"})
	require.ErrorIs(t, err, ErrRefreshFailed)
	assert.ErrorIs(t, err, boom)
	assert.NotEmpty(t, u.ID, "the mutation result is still returned")
	assert.Equal(t, StatusError, c.Status())
}

func TestController_MutationFailureOutlivesInFlightFetch(t *testing.T) {
	release := make(chan struct{})
	rejected := errors.New("create rejected")
	dir := &fakeDirectory{
		gates:   map[int]chan struct{}{1: release},
		started: make(chan model.Pagination, 1),
		mutErr:  rejected,
	}
	c := NewController(dir, model.Pagination{PageSize: 5})
	ctx := context.Background()

	pending := make(chan error, 1)
	go func() { pending <- c.SetPage(ctx, 1) }()
	<-dir.started // page 1 is held

	_, err := c.CreateUser(ctx, model.UserInput{FirstName: "Ada", LastName: "Lovelace"})
	require.ErrorIs(t, err, rejected)

	close(release)
	select {
	case err := <-pending:
		assert.ErrorIs(t, err, ErrSuperseded)
	case <-time.After(2 * time.Second):
		t.Fatal("held fetch never returned")
	}

	assert.Equal(t, StatusError, c.Status())
	assert.ErrorIs(t, c.Err(), rejected)
	props := c.Props()
	assert.Equal(t, "create rejected", props.Error)
	assert.Nil(t, props.Data)
}
