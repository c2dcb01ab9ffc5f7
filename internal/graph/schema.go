// Package graph exposes the directory over GraphQL using graph-gophers/graphql-go.
// Resolvers are thin: they translate GraphQL shapes and delegate to service.UserService.
package graph

import (
	"context"
	_ "embed"
	"fmt"
	"net/http"

	graphql "github.com/graph-gophers/graphql-go"
	"github.com/graph-gophers/graphql-go/relay"
	"github.com/rs/zerolog"

	"github.com/maxviazov/user-directory-service/internal/service"
)

// SDL is the schema served at /graphql and published at /schema.graphql.
//
//go:embed schema.graphql
var SDL string

const maxQueryDepth = 8

// NewSchema parses the SDL and binds it to resolvers backed by users.
func NewSchema(users service.UserService, logger zerolog.Logger) (*graphql.Schema, error) {
	l := logger.With().Str("module", "graph").Logger()
	schema, err := graphql.ParseSchema(SDL, &Resolver{users: users, log: l},
		graphql.MaxDepth(maxQueryDepth),
		graphql.Logger(panicLogger{log: l}),
	)
	if err != nil {
		return nil, fmt.Errorf("parse graphql schema: %w", err)
	}
	return schema, nil
}

// NewHandler serves POST requests carrying {query, operationName, variables}.
func NewHandler(schema *graphql.Schema) http.Handler {
	return &relay.Handler{Schema: schema}
}

// panicLogger routes resolver panics recovered by graphql-go into zerolog.
type panicLogger struct{ log zerolog.Logger }

func (p panicLogger) LogPanic(_ context.Context, value interface{}) {
	p.log.Error().Interface("panic", value).Msg("graphql resolver panicked")
}
