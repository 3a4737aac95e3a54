package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pageza/healthdiary/backend/internal/models"
	"github.com/pageza/healthdiary/backend/internal/service"
)

type DiaryHandler struct {
	diary service.IDiaryService
	log   *zap.Logger
}

func NewDiaryHandler(diary service.IDiaryService, log *zap.Logger) *DiaryHandler {
	return &DiaryHandler{diary: diary, log: log}
}

func (h *DiaryHandler) RegisterRoutes(owned *gin.RouterGroup) {
	diary := owned.Group("/diary")
	{
		diary.POST("/:id", h.AddEntry)
		diary.GET("/:id", h.ListEntries)
	}
}

func (h *DiaryHandler) AddEntry(c *gin.Context) {
	var entry models.DiaryEntry
	if err := c.ShouldBindJSON(&entry); err != nil {
		badRequest(c, "invalid request body: "+err.Error())
		return
	}

	id, err := h.diary.AddEntry(c.Request.Context(), c.Param("id"), &entry)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Diary entry added",
		"id":      id.String(),
	})
}

func (h *DiaryHandler) ListEntries(c *gin.Context) {
	limit, ok := parseLimit(c)
	if !ok {
		return
	}

	entries, err := h.diary.ListEntries(c.Request.Context(), c.Param("id"), limit)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, entries)
}
