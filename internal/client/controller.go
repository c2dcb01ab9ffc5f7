package client

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/maxviazov/user-directory-service/internal/model"
)

// ErrSuperseded is returned to the caller whose fetch completed after a newer one
// was issued. Its result was discarded and the view was left alone.
var ErrSuperseded = errors.New("fetch superseded by a newer request")

// ErrRefreshFailed wraps a failed re-fetch after a mutation that itself succeeded.
var ErrRefreshFailed = errors.New("refresh after mutation failed")

// Status is the controller's position in the fetch state machine.
type Status int

const (
	StatusIdle Status = iota
	StatusFetching
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusFetching:
		return "fetching"
	case StatusError:
		return "error"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// DefaultPageSize is used when a controller is started with a non-positive page size.
const DefaultPageSize = 5

// Controller holds {page, pageSize, search}, fetches the matching page whenever
// that state changes and re-fetches after every successful mutation.
// Only the most recently issued fetch may update the view.
type Controller struct {
	dir    Directory
	log    zerolog.Logger
	render func(TableProps)

	mu     sync.Mutex
	state  model.Pagination
	status Status
	view   model.UserPage
	err    error
	issued uint64 // ticket of the latest fetch
}

// Option customizes a Controller.
type Option func(*Controller)

// WithLogger attaches a logger; the default discards everything.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Controller) { c.log = l.With().Str("module", "client").Str("component", "controller").Logger() }
}

// WithRenderer registers a callback invoked with fresh props after every transition.
// It runs outside the controller lock and may call back into the controller.
func WithRenderer(fn func(TableProps)) Option {
	return func(c *Controller) { c.render = fn }
}

// NewController builds an Idle controller. No fetch happens until Refresh or a setter is called.
func NewController(dir Directory, initial model.Pagination, opts ...Option) *Controller {
	if initial.PageSize <= 0 {
		initial.PageSize = DefaultPageSize
	}
	if initial.Page < 0 {
		initial.Page = 0
	}
	c := &Controller{dir: dir, log: zerolog.Nop(), state: initial}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// State returns the current pagination state.
func (c *Controller) State() model.Pagination {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Status returns the current state machine position.
func (c *Controller) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

// Err returns the failure that moved the controller into StatusError, if any.
func (c *Controller) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.err
}

// View returns the last successfully applied page.
func (c *Controller) View() model.UserPage {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.view
}

// Refresh re-runs the query for the current state.
func (c *Controller) Refresh(ctx context.Context) error {
	return c.fetch(ctx, nil)
}

// SetPage moves to page and fetches it.
func (c *Controller) SetPage(ctx context.Context, page int) error {
	return c.fetch(ctx, func(p *model.Pagination) { p.Page = page })
}

// SetPageSize changes the page size, resets to the first page and fetches.
func (c *Controller) SetPageSize(ctx context.Context, size int) error {
	return c.fetch(ctx, func(p *model.Pagination) {
		p.PageSize = size
		p.Page = 0
	})
}

// SetSearch changes the filter, resets to the first page and fetches.
func (c *Controller) SetSearch(ctx context.Context, search string) error {
	return c.fetch(ctx, func(p *model.Pagination) {
		p.Search = search
		p.Page = 0
	})
}

// fetch applies mutate to the state and issues a query for the result in one
// critical section, so every ticket corresponds to exactly one state.
func (c *Controller) fetch(ctx context.Context, mutate func(*model.Pagination)) error {
	c.mu.Lock()
	if mutate != nil {
		mutate(&c.state)
	}
	c.issued++
	ticket := c.issued
	query := c.state
	c.status = StatusFetching
	c.mu.Unlock()
	c.notify()

	page, err := c.dir.ListUsers(ctx, query)

	c.mu.Lock()
	if ticket != c.issued {
		c.mu.Unlock()
		c.log.Debug().Uint64("ticket", ticket).Int("page", query.Page).Msg("discarding superseded fetch result")
		return ErrSuperseded
	}
	if err != nil {
		// state fields stay as requested so the user can retry
		c.status = StatusError
		c.err = err
		c.mu.Unlock()
		c.log.Warn().Err(err).Int("page", query.Page).Int("page_size", query.PageSize).Str("search", query.Search).Msg("fetch failed")
		c.notify()
		return err
	}
	c.status = StatusIdle
	c.err = nil
	c.view = page
	c.mu.Unlock()
	c.notify()
	return nil
}

// fail moves the controller into StatusError for a failed mutation. It takes a
// ticket so an older in-flight fetch cannot land afterwards and clear the error.
func (c *Controller) fail(op string, err error) error {
	c.mu.Lock()
	c.issued++
	c.status = StatusError
	c.err = err
	c.mu.Unlock()
	c.log.Warn().Err(err).Str("op", op).Msg("mutation failed")
	c.notify()
	return err
}

// refreshAfter re-runs the query with the state current at the time the
// mutation finished. Losing the race to a newer fetch is not a failure.
func (c *Controller) refreshAfter(ctx context.Context, op string) error {
	if err := c.Refresh(ctx); err != nil && !errors.Is(err, ErrSuperseded) {
		return fmt.Errorf("%w (%s): %w", ErrRefreshFailed, op, err)
	}
	return nil
}

// CreateUser creates a user and refreshes the view. The created user is
// returned even when the follow-up refresh fails.
func (c *Controller) CreateUser(ctx context.Context, in model.UserInput) (model.User, error) {
	u, err := c.dir.CreateUser(ctx, in)
	if err != nil {
		return model.User{}, c.fail("create", err)
	}
	return u, c.refreshAfter(ctx, "create")
}

// UpdateUser applies patch to the user and refreshes the view.
func (c *Controller) UpdateUser(ctx context.Context, id string, patch model.UserPatch) (model.User, error) {
	u, err := c.dir.UpdateUser(ctx, id, patch)
	if err != nil {
		return model.User{}, c.fail("update", err)
	}
	return u, c.refreshAfter(ctx, "update")
}

// DeleteUser removes the user and refreshes the view. Deleting an unknown id
// still refreshes and reports false.
func (c *Controller) DeleteUser(ctx context.Context, id string) (bool, error) {
	removed, err := c.dir.DeleteUser(ctx, id)
	if err != nil {
		return false, c.fail("delete", err)
	}
	return removed, c.refreshAfter(ctx, "delete")
}

func (c *Controller) notify() {
	if c.render == nil {
		return
	}
	c.render(c.Props())
}
