package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pageza/healthdiary/backend/internal/service"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error     string `json:"error"`
	Kind      string `json:"kind,omitempty"`
	Transient bool   `json:"transient,omitempty"`
}

// respondError maps a service error to its HTTP status and aborts the
// request.
func respondError(c *gin.Context, log *zap.Logger, err error) {
	var genErr *service.GenerationError
	switch {
	case errors.As(err, &genErr):
		c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{
			Error:     genErr.Error(),
			Kind:      string(genErr.Kind),
			Transient: genErr.Transient(),
		})
	case errors.Is(err, service.ErrNotFound):
		c.AbortWithStatusJSON(http.StatusNotFound, ErrorResponse{Error: "User not found"})
	case errors.Is(err, service.ErrConflict):
		c.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{Error: "User already exists"})
	case errors.Is(err, service.ErrNoChange):
		c.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{Error: "No changes made"})
	case errors.Is(err, service.ErrValidation):
		c.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	case errors.Is(err, service.ErrUnauthorized):
		c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Error: "Invalid credentials"})
	default:
		log.Error("request failed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Error(err))
		c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
	}
}

func badRequest(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{Error: msg})
}
