package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/maxviazov/user-directory-service/internal/model"
	"github.com/maxviazov/user-directory-service/internal/service"
	"github.com/maxviazov/user-directory-service/pkg/response"
)

type UserHandler struct {
	svc service.UserService
}

func NewUserHandler(svc service.UserService) *UserHandler { return &UserHandler{svc: svc} }

func (h *UserHandler) Register(r *gin.RouterGroup) {
	g := r.Group("/users")
	{
		g.GET("", h.list)
		g.POST("", h.create)
		g.GET("/:id", h.getByID)
		g.PATCH("/:id", h.update)
		g.DELETE("/:id", h.delete)
	}
}

type createUserRequest struct {
	ID        *string `json:"id"`
	FirstName string  `json:"firstName"`
	LastName  string  `json:"lastName"`
}

type updateUserRequest struct {
	FirstName *string `json:"firstName"`
	LastName  *string `json:"lastName"`
}

type deleteUserResponse struct {
	Deleted bool `json:"deleted"`
}

func (h *UserHandler) list(c *gin.Context) {
	var ferrs []service.FieldError
	page, ok := intQuery(c, "page", 0)
	if !ok {
		ferrs = append(ferrs, service.FieldError{Field: "page", Message: "must be a valid integer"})
	}
	pageSize, ok := intQuery(c, "pageSize", 0)
	if !ok {
		ferrs = append(ferrs, service.FieldError{Field: "pageSize", Message: "must be a valid integer"})
	}
	if err := service.NewInvalidInputError(ferrs); err != nil {
		response.WriteError(c, err)
		return
	}
	p := model.Pagination{
		Page:     page,
		PageSize: pageSize,
		Search:   c.Query("search"),
		OrderBy:  c.Query("orderBy"),
	}
	res, err := h.svc.ListUsers(c.Request.Context(), p)
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, res)
}

// intQuery parses an optional integer query parameter; a missing value yields def.
func intQuery(c *gin.Context, key string, def int) (int, bool) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return def, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return v, true
}

func (h *UserHandler) getByID(c *gin.Context) {
	user, err := h.svc.GetUser(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, user)
}

func (h *UserHandler) create(c *gin.Context) {
	var req createUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.WriteError(c, service.ErrInvalidInput) // parse details stay internal
		return
	}
	user, err := h.svc.CreateUser(c.Request.Context(), model.UserInput{ID: req.ID, FirstName: req.FirstName, LastName: req.LastName})
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusCreated, user)
}

func (h *UserHandler) update(c *gin.Context) {
	var req updateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.WriteError(c, service.ErrInvalidInput)
		return
	}
	user, err := h.svc.UpdateUser(c.Request.Context(), c.Param("id"), model.UserPatch{FirstName: req.FirstName, LastName: req.LastName})
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, user)
}

func (h *UserHandler) delete(c *gin.Context) {
	removed, err := h.svc.DeleteUser(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, deleteUserResponse{Deleted: removed})
}
