package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pageza/healthdiary/backend/internal/service"
)

type RecommendationHandler struct {
	recommendations service.IRecommendationService
	log             *zap.Logger
}

func NewRecommendationHandler(recommendations service.IRecommendationService, log *zap.Logger) *RecommendationHandler {
	return &RecommendationHandler{recommendations: recommendations, log: log}
}

// RegisterRoutes mounts the recommendation routes. limiter, when non-nil,
// guards generation only.
func (h *RecommendationHandler) RegisterRoutes(owned *gin.RouterGroup, limiter gin.HandlerFunc) {
	recs := owned.Group("/recommendations")
	if limiter != nil {
		recs.POST("/:id", limiter, h.Generate)
	} else {
		recs.POST("/:id", h.Generate)
	}
	recs.GET("/:id/history", h.History)
}

func (h *RecommendationHandler) Generate(c *gin.Context) {
	rec, err := h.recommendations.Generate(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"recommendation": rec.Text})
}

func (h *RecommendationHandler) History(c *gin.Context) {
	limit, ok := parseLimit(c)
	if !ok {
		return
	}

	history, err := h.recommendations.ListHistory(c.Request.Context(), c.Param("id"), limit)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, history)
}
