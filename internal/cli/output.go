package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/maxviazov/user-directory-service/internal/client"
	"github.com/maxviazov/user-directory-service/internal/model"
)

// Exit codes for CLI commands.
const (
	ExitSuccess      = 0
	ExitFailure      = 1 // the API rejected the request
	ExitCommandError = 2 // bad flags or the server could not be reached
)

// ExitError carries the process exit code alongside the error.
type ExitError struct {
	Code    int
	Message string
	Err     error
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error { return e.Err }

// NewExitError creates a new ExitError with the given code and message.
func NewExitError(code int, message string) *ExitError {
	return &ExitError{Code: code, Message: message}
}

// WrapExitError wraps an existing error with an exit code.
func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// GetExitCode extracts the exit code from an error.
// Returns ExitFailure if the error is not an ExitError.
func GetExitCode(err error) int {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}

// requestError classifies a controller failure by whether the server answered.
func requestError(op string, err error) error {
	if errors.Is(err, client.ErrTransport) {
		return WrapExitError(ExitCommandError, op, err)
	}
	return WrapExitError(ExitFailure, op, err)
}

// OutputFormatter handles JSON vs text output for CLI commands.
type OutputFormatter struct {
	Format    string
	Writer    io.Writer
	ErrWriter io.Writer
	Verbose   bool
}

// CLIResponse is the JSON envelope printed with --format json.
type CLIResponse struct {
	Status string      `json:"status"`
	Data   interface{} `json:"data,omitempty"`
}

func (f *OutputFormatter) jsonOK(data interface{}) error {
	enc := json.NewEncoder(f.Writer)
	enc.SetIndent("", "  ")
	return enc.Encode(CLIResponse{Status: "ok", Data: data})
}

// Page prints a table of users followed by a page summary.
func (f *OutputFormatter) Page(props client.TableProps) error {
	if f.Format == "json" {
		return f.jsonOK(model.UserPage{Total: props.TotalCount, Data: props.Data})
	}
	tw := tabwriter.NewWriter(f.Writer, 0, 0, 2, ' ', 0)
	fmt.Fprint(tw, "ID")
	for _, col := range props.Columns {
		fmt.Fprintf(tw, "\t%s", col.Title)
	}
	fmt.Fprintln(tw)
	for _, u := range props.Data {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", u.ID, u.FirstName, u.LastName)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(f.Writer, "page %d of %d (%d users, %d per page)\n",
		props.Page+1, pageCount(props.TotalCount, props.PageSize), props.TotalCount, props.PageSize)
	return nil
}

// User prints a single user.
func (f *OutputFormatter) User(u model.User) error {
	if f.Format == "json" {
		return f.jsonOK(u)
	}
	fmt.Fprintf(f.Writer, "%s\t%s %s\n", u.ID, u.FirstName, u.LastName)
	return nil
}

// Deleted prints the outcome of a delete.
func (f *OutputFormatter) Deleted(id string, removed bool) error {
	if f.Format == "json" {
		return f.jsonOK(map[string]interface{}{"id": id, "deleted": removed})
	}
	if removed {
		fmt.Fprintf(f.Writer, "deleted %s\n", id)
	} else {
		fmt.Fprintf(f.Writer, "%s not found, nothing deleted\n", id)
	}
	return nil
}

// VerboseLog writes a diagnostic line to ErrWriter when verbose mode is on.
func (f *OutputFormatter) VerboseLog(format string, args ...interface{}) {
	if !f.Verbose {
		return
	}
	w := f.ErrWriter
	if w == nil {
		w = f.Writer
	}
	fmt.Fprintf(w, format+"\n", args...)
}

func pageCount(total, size int) int {
	if size <= 0 || total == 0 {
		return 1
	}
	return (total + size - 1) / size
}
