package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/maxviazov/user-directory-service/internal/model"
)

const (
	usersQuery = `query Users($pagination: UserPageInput!) {
  users(pagination: $pagination) { total data { id firstName lastName } }
}`
	createUserMutation = `mutation CreateUser($user: UserInput!) {
  createUser(user: $user) { id firstName lastName }
}`
	updateUserMutation = `mutation UpdateUser($id: ID!, $user: UserPatch!) {
  updateUser(id: $id, user: $user) { id firstName lastName }
}`
	deleteUserMutation = `mutation DeleteUser($id: ID!) {
  deleteUser(id: $id)
}`
)

const defaultTimeout = 10 * time.Second

// ErrTransport marks failures reaching the API, as opposed to errors the API returned.
var ErrTransport = errors.New("transport failure")

// APIError is an error the GraphQL API reported, with its extension code.
type APIError struct {
	Message string
	Code    string
}

func (e *APIError) Error() string {
	if e.Code == "" {
		return e.Message
	}
	return fmt.Sprintf("%s (%s)", e.Message, e.Code)
}

// GraphQLClient implements Directory over the server's /graphql endpoint.
type GraphQLClient struct {
	endpoint string
	http     *http.Client
}

// GraphQLOption customizes a GraphQLClient.
type GraphQLOption func(*GraphQLClient)

// WithHTTPClient swaps the underlying http.Client.
func WithHTTPClient(c *http.Client) GraphQLOption {
	return func(g *GraphQLClient) {
		if c != nil {
			g.http = c
		}
	}
}

func NewGraphQLClient(endpoint string, opts ...GraphQLOption) *GraphQLClient {
	g := &GraphQLClient{
		endpoint: strings.TrimRight(endpoint, "/"),
		http:     &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

type gqlRequest struct {
	Query     string                 `json:"query"`
	Variables map[string]interface{} `json:"variables,omitempty"`
}

type gqlResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []struct {
		Message    string                 `json:"message"`
		Extensions map[string]interface{} `json:"extensions"`
	} `json:"errors"`
}

func (g *GraphQLClient) do(ctx context.Context, query string, vars map[string]interface{}, out interface{}) error {
	body, err := json.Marshal(gqlRequest{Query: query, Variables: vars})
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrTransport, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := g.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrTransport, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: read body: %v", ErrTransport, err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: unexpected status %d", ErrTransport, resp.StatusCode)
	}

	var decoded gqlResponse
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return fmt.Errorf("%w: decode response: %v", ErrTransport, err)
	}
	if len(decoded.Errors) > 0 {
		first := decoded.Errors[0]
		code, _ := first.Extensions["code"].(string)
		return &APIError{Message: first.Message, Code: code}
	}
	if err := json.Unmarshal(decoded.Data, out); err != nil {
		return fmt.Errorf("%w: decode data: %v", ErrTransport, err)
	}
	return nil
}

func (g *GraphQLClient) ListUsers(ctx context.Context, p model.Pagination) (model.UserPage, error) {
	vars := map[string]interface{}{"pagination": map[string]interface{}{
		"page":     p.Page,
		"pageSize": p.PageSize,
		"search":   p.Search,
		"orderBy":  p.OrderBy,
	}}
	var out struct {
		Users model.UserPage `json:"users"`
	}
	if err := g.do(ctx, usersQuery, vars, &out); err != nil {
		return model.UserPage{}, err
	}
	if out.Users.Data == nil {
		out.Users.Data = []model.User{}
	}
	return out.Users, nil
}

func (g *GraphQLClient) CreateUser(ctx context.Context, in model.UserInput) (model.User, error) {
	user := map[string]interface{}{"firstName": in.FirstName, "lastName": in.LastName}
	if in.ID != nil {
		user["id"] = *in.ID
	}
	var out struct {
		CreateUser model.User `json:"createUser"`
	}
	if err := g.do(ctx, createUserMutation, map[string]interface{}{"user": user}, &out); err != nil {
		return model.User{}, err
	}
	return out.CreateUser, nil
}

func (g *GraphQLClient) UpdateUser(ctx context.Context, id string, patch model.UserPatch) (model.User, error) {
	var out struct {
		UpdateUser model.User `json:"updateUser"`
	}
	if err := g.do(ctx, updateUserMutation, map[string]interface{}{"id": id, "user": patch}, &out); err != nil {
		return model.User{}, err
	}
	return out.UpdateUser, nil
}

func (g *GraphQLClient) DeleteUser(ctx context.Context, id string) (bool, error) {
	var out struct {
		DeleteUser bool `json:"deleteUser"`
	}
	if err := g.do(ctx, deleteUserMutation, map[string]interface{}{"id": id}, &out); err != nil {
		return false, err
	}
	return out.DeleteUser, nil
}

var _ Directory = (*GraphQLClient)(nil)
