package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/maxviazov/user-directory-service/internal/service"
)

const (
	// APIV1Prefix is the base path of the REST API.
	APIV1Prefix = "/api/v1"
	// GraphQLPath is where the GraphQL endpoint is mounted.
	GraphQLPath = "/graphql"
)

// Register mounts all public routes on the given engine.
// gql may be nil when only the REST surface is needed (tests mostly).
func Register(r *gin.Engine, repo Pinger, userSvc service.UserService, gql http.Handler) {
	h := NewHealthHandler(repo)

	// Health probes
	r.GET("/live", h.Liveness)
	r.GET("/ready", h.Readiness)

	// Docs endpoints (root-level)
	RegisterDocs(r)

	if gql != nil {
		r.POST(GraphQLPath, gin.WrapH(gql))
	}

	api := r.Group(APIV1Prefix)
	{
		health := api.Group("/health")
		{
			health.GET("/live", h.Liveness)
			health.GET("/ready", h.Readiness)
		}
		if userSvc != nil {
			NewUserHandler(userSvc).Register(api)
		}
	}
}
