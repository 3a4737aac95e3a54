package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pageza/healthdiary/backend/internal/service"
	"github.com/pageza/healthdiary/backend/internal/types"
)

// AuthHandler serves registration and login.
type AuthHandler struct {
	users service.IUserService
	log   *zap.Logger
}

func NewAuthHandler(users service.IUserService, log *zap.Logger) *AuthHandler {
	return &AuthHandler{users: users, log: log}
}

func (h *AuthHandler) RegisterRoutes(router *gin.RouterGroup) {
	auth := router.Group("/auth")
	{
		auth.POST("/register", h.Register)
		auth.POST("/login", h.Login)
	}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req types.ProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body: "+err.Error())
		return
	}

	userID, err := h.users.Register(c.Request.Context(), &req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "User registered successfully",
		"user_id": userID,
	})
}

// Login accepts the identifier as a user_id query parameter or in a JSON
// body together with an optional password.
func (h *AuthHandler) Login(c *gin.Context) {
	var req types.LoginRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "invalid request body: "+err.Error())
			return
		}
	}
	if userID := c.Query("user_id"); userID != "" {
		req.UserID = userID
	}
	if req.UserID == "" {
		badRequest(c, "user_id is required")
		return
	}

	profile, token, err := h.users.Login(c.Request.Context(), req.UserID, req.Password)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	resp := gin.H{
		"message": "Login successful",
		"user":    profile,
	}
	if token != "" {
		resp["token"] = token
	}
	c.JSON(http.StatusOK, resp)
}
