// Package cli implements directoryctl, a command-line client that drives the
// sync controller against a running directory server.
package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/maxviazov/user-directory-service/internal/client"
)

// DefaultEndpoint is the GraphQL endpoint of a locally running server.
const DefaultEndpoint = "http://localhost:4000/graphql"

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Endpoint string
	Format   string // "json" | "text"
	Timeout  time.Duration
	Verbose  bool
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for directoryctl.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "directoryctl",
		Short: "Query and edit the user directory",
		Long:  "directoryctl lists, searches, creates, updates and deletes directory users over the GraphQL API.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return NewExitError(ExitCommandError, fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats))
			}
			if opts.Endpoint == "" {
				return NewExitError(ExitCommandError, "--endpoint must not be empty")
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	endpoint := os.Getenv("DIRECTORY_ENDPOINT")
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}

	cmd.PersistentFlags().StringVar(&opts.Endpoint, "endpoint", endpoint, "GraphQL endpoint (env DIRECTORY_ENDPOINT)")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().DurationVar(&opts.Timeout, "timeout", 10*time.Second, "request timeout")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "log controller transitions to stderr")

	cmd.AddCommand(NewUsersCommand(opts))

	return cmd
}

// controller builds a sync controller talking to the configured endpoint.
func (o *RootOptions) controller(cmd *cobra.Command, page, pageSize int, search string) *client.Controller {
	gql := client.NewGraphQLClient(o.Endpoint)
	log := zerolog.Nop()
	if o.Verbose {
		log = zerolog.New(zerolog.ConsoleWriter{Out: cmd.ErrOrStderr(), NoColor: true}).Level(zerolog.DebugLevel).With().Timestamp().Logger()
	}
	return client.NewController(gql, paginationOf(page, pageSize, search), client.WithLogger(log))
}

func (o *RootOptions) formatter(cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{Format: o.Format, Writer: cmd.OutOrStdout(), ErrWriter: cmd.ErrOrStderr(), Verbose: o.Verbose}
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}
