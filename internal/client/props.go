package client

import (
	"context"

	"github.com/maxviazov/user-directory-service/internal/model"
)

// Column describes one rendered table column.
type Column struct {
	Title string
	Field string
}

// Columns are the directory table columns, in display order.
var Columns = []Column{
	{Title: "Name", Field: "firstName"},
	{Title: "Surname", Field: "lastName"},
}

// TableProps is everything a table widget needs to render the directory and
// call back into the controller.
type TableProps struct {
	Columns    []Column
	Data       []model.User
	TotalCount int
	Page       int
	PageSize   int
	Search     string
	Loading    bool
	// Error is set in StatusError; Data is nil then so a failure never renders as a table.
	Error string

	OnChangePage        func(ctx context.Context, page int) error
	OnChangeRowsPerPage func(ctx context.Context, size int) error
	OnSearchChange      func(ctx context.Context, search string) error
	OnRowAdd            func(ctx context.Context, in model.UserInput) (model.User, error)
	OnRowUpdate         func(ctx context.Context, id string, patch model.UserPatch) (model.User, error)
	OnRowDelete         func(ctx context.Context, id string) (bool, error)
}

// Props snapshots the controller for rendering.
func (c *Controller) Props() TableProps {
	c.mu.Lock()
	p := TableProps{
		Columns:    Columns,
		TotalCount: c.view.Total,
		Page:       c.state.Page,
		PageSize:   c.state.PageSize,
		Search:     c.state.Search,
		Loading:    c.status == StatusFetching,
	}
	if c.status == StatusError && c.err != nil {
		p.Error = c.err.Error()
		p.TotalCount = 0
	} else {
		p.Data = make([]model.User, len(c.view.Data))
		copy(p.Data, c.view.Data)
	}
	c.mu.Unlock()

	p.OnChangePage = c.SetPage
	p.OnChangeRowsPerPage = c.SetPageSize
	p.OnSearchChange = c.SetSearch
	p.OnRowAdd = c.CreateUser
	p.OnRowUpdate = c.UpdateUser
	p.OnRowDelete = c.DeleteUser
	return p
}
