package transport

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/eslsoft/islamic-sources/internal/core"
	"github.com/eslsoft/islamic-sources/internal/platform/logger"
)

// ProgressHandler serves anonymous course progress tracking.
type ProgressHandler struct {
	service core.ProgressService
	log     *logger.Logger
}

// NewProgressHandler constructs a progress handler backed by the provided service.
func NewProgressHandler(service core.ProgressService, log *logger.Logger) *ProgressHandler {
	return &ProgressHandler{service: service, log: log}
}

// GetProgress handles GET /progress?course_id=&session_id=. A session without
// progress yields {"progress": null}.
func (h *ProgressHandler) GetProgress(c *gin.Context) {
	var query progressQuery
	if err := bindQuery(c, &query); err != nil {
		respondError(c, h.log, err)
		return
	}

	progress, err := h.service.GetProgress(c.Request.Context(), uuid.MustParse(query.CourseID), query.SessionID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"progress": toProgressResponse(progress)})
}

// RecordCompletion handles POST /progress.
func (h *ProgressHandler) RecordCompletion(c *gin.Context) {
	var req recordCompletionRequest
	if err := bindJSON(c, &req); err != nil {
		respondError(c, h.log, err)
		return
	}

	progress, completion, err := h.service.RecordCompletion(c.Request.Context(), core.RecordCompletionParams{
		CourseID:         uuid.MustParse(req.CourseID),
		SessionID:        req.SessionID,
		LessonID:         uuid.MustParse(req.LessonID),
		TimeSpentMinutes: req.TimeSpentMinutes,
	})
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"progress":   toProgressResponse(progress),
		"completion": toCompletionResponse(*completion, 0),
	})
}
