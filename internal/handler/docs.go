package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/maxviazov/user-directory-service/internal/graph"
)

// RegisterDocs mounts documentation endpoints at the root:
//   - GET /schema.graphql: the GraphQL SDL the API is built from
func RegisterDocs(r *gin.Engine) {
	r.GET("/schema.graphql", func(c *gin.Context) {
		c.Data(http.StatusOK, "application/graphql; charset=utf-8", []byte(graph.SDL))
	})
}
