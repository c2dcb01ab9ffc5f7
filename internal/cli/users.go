package cli

import (
	"context"
	"errors"
	"strings"

	"github.com/spf13/cobra"

	"github.com/maxviazov/user-directory-service/internal/client"
	"github.com/maxviazov/user-directory-service/internal/model"
)

// ListOptions holds flags for users list and the page shown after mutations.
type ListOptions struct {
	*RootOptions
	Page     int
	PageSize int
	Search   string
}

func (o *ListOptions) bind(cmd *cobra.Command) {
	cmd.Flags().IntVar(&o.Page, "page", 0, "zero-based page index")
	cmd.Flags().IntVar(&o.PageSize, "page-size", client.DefaultPageSize, "rows per page")
	cmd.Flags().StringVar(&o.Search, "search", "", "case-insensitive name filter")
}

// NewUsersCommand groups the directory subcommands.
func NewUsersCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "Work with directory users",
	}
	cmd.AddCommand(newListCommand(rootOpts))
	cmd.AddCommand(newCreateCommand(rootOpts))
	cmd.AddCommand(newUpdateCommand(rootOpts))
	cmd.AddCommand(newDeleteCommand(rootOpts))
	return cmd
}

func newListCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ListOptions{RootOptions: rootOpts}
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print one page of users",
		Long: `Print one page of users matching --search.

Example:
  directoryctl users list --search ada --page-size 10`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.PageSize <= 0 {
				return NewExitError(ExitCommandError, "--page-size must be positive")
			}
			if opts.Page < 0 {
				return NewExitError(ExitCommandError, "--page must not be negative")
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), opts.Timeout)
			defer cancel()
			c := opts.controller(cmd, opts.Page, opts.PageSize, opts.Search)
			if err := c.Refresh(ctx); err != nil {
				return requestError("list users", err)
			}
			return opts.formatter(cmd).Page(c.Props())
		},
	}
	opts.bind(cmd)
	return cmd
}

type createOptions struct {
	*RootOptions
	FirstName string
	LastName  string
}

func newCreateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &createOptions{RootOptions: rootOpts}
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Add a user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), opts.Timeout)
			defer cancel()
			c := opts.controller(cmd, 0, client.DefaultPageSize, "")
			u, err := c.CreateUser(ctx, model.UserInput{FirstName: opts.FirstName, LastName: opts.LastName})
			out := opts.formatter(cmd)
			if err != nil {
				if !errors.Is(err, client.ErrRefreshFailed) {
					return requestError("create user", err)
				}
				out.VerboseLog("%v", err)
			}
			return out.User(u)
		},
	}
	cmd.Flags().StringVar(&opts.FirstName, "first-name", "", "first name")
	cmd.Flags().StringVar(&opts.LastName, "last-name", "", "last name")
	_ = cmd.MarkFlagRequired("first-name")
	_ = cmd.MarkFlagRequired("last-name")
	return cmd
}

type updateOptions struct {
	*RootOptions
	FirstName string
	LastName  string
}

func newUpdateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &updateOptions{RootOptions: rootOpts}
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Change a user's names",
		Long: `Change a user's names. Only the flags given are changed.

Example:
  directoryctl users update 7c1e... --last-name Byron`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var patch model.UserPatch
			if cmd.Flags().Changed("first-name") {
				patch.FirstName = &opts.FirstName
			}
			if cmd.Flags().Changed("last-name") {
				patch.LastName = &opts.LastName
			}
			if patch.Empty() {
				return NewExitError(ExitCommandError, "nothing to update: pass --first-name and/or --last-name")
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), opts.Timeout)
			defer cancel()
			c := opts.controller(cmd, 0, client.DefaultPageSize, "")
			u, err := c.UpdateUser(ctx, strings.TrimSpace(args[0]), patch)
			out := opts.formatter(cmd)
			if err != nil {
				if !errors.Is(err, client.ErrRefreshFailed) {
					return requestError("update user", err)
				}
				out.VerboseLog("%v", err)
			}
			return out.User(u)
		},
	}
	cmd.Flags().StringVar(&opts.FirstName, "first-name", "", "new first name")
	cmd.Flags().StringVar(&opts.LastName, "last-name", "", "new last name")
	return cmd
}

func newDeleteCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Remove a user; unknown ids are not an error",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), rootOpts.Timeout)
			defer cancel()
			c := rootOpts.controller(cmd, 0, client.DefaultPageSize, "")
			removed, err := c.DeleteUser(ctx, args[0])
			out := rootOpts.formatter(cmd)
			if err != nil {
				if !errors.Is(err, client.ErrRefreshFailed) {
					return requestError("delete user", err)
				}
				out.VerboseLog("%v", err)
			}
			return out.Deleted(args[0], removed)
		},
	}
}

func paginationOf(page, pageSize int, search string) model.Pagination {
	return model.Pagination{Page: page, PageSize: pageSize, Search: strings.TrimSpace(search)}
}
