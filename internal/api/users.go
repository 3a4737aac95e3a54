package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pageza/healthdiary/backend/internal/service"
	"github.com/pageza/healthdiary/backend/internal/types"
)

// UserHandler serves profile CRUD under /users.
type UserHandler struct {
	users service.IUserService
	log   *zap.Logger
}

func NewUserHandler(users service.IUserService, log *zap.Logger) *UserHandler {
	return &UserHandler{users: users, log: log}
}

// RegisterRoutes mounts the collection route on router and the per-user
// routes on owned, which may carry ownership checks.
func (h *UserHandler) RegisterRoutes(router, owned *gin.RouterGroup) {
	router.POST("/users", h.Create)

	users := owned.Group("/users")
	{
		users.GET("/:id", h.Get)
		users.PUT("/:id", h.Replace)
		users.DELETE("/:id", h.Delete)
	}
}

func (h *UserHandler) Create(c *gin.Context) {
	var req types.ProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body: "+err.Error())
		return
	}

	id, err := h.users.Create(c.Request.Context(), &req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "User created",
		"id":      id.String(),
	})
}

func (h *UserHandler) Get(c *gin.Context) {
	profile, err := h.users.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

func (h *UserHandler) Replace(c *gin.Context) {
	var req types.ProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body: "+err.Error())
		return
	}

	if err := h.users.Replace(c.Request.Context(), c.Param("id"), &req); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "User updated successfully"})
}

func (h *UserHandler) Delete(c *gin.Context) {
	if err := h.users.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "User and all related data deleted successfully"})
}
