package handler

import (
	"fmt"
	"mime"
	"net/http"
	"path/filepath"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"samarth/internal/domain"
	"samarth/internal/export"
	"samarth/internal/service"
)

// ReportHandler handles reviewer-facing attempt listings and exports.
type ReportHandler struct {
	review service.ReviewService
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(review service.ReviewService) *ReportHandler {
	return &ReportHandler{review: review}
}

// ListAttempts handles GET /api/v1/attempts
func (h *ReportHandler) ListAttempts(c *gin.Context) {
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	subjectID := uuid.Nil
	if raw := c.Query("subject_id"); raw != "" {
		parsed, err := uuid.Parse(raw)
		if err != nil {
			RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid subject_id filter")
			return
		}
		subjectID = parsed
	}

	status := domain.VerificationStatus(c.Query("status"))

	page, err := h.review.ListAttempts(c.Request.Context(), status, subjectID, offset, limit)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondPaginated(c, page.Attempts, PagMeta{Total: page.Total, Offset: page.Offset, Limit: page.Limit})
}

// ExportPending handles GET /api/v1/reports/pending.xlsx
func (h *ReportHandler) ExportPending(c *gin.Context) {
	filename := export.BuildFilename("pending_review_queue")
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))

	if err := h.review.ExportPending(c.Request.Context(), c.Writer); err != nil {
		// Headers may already be out; log-and-abort is the best we can do.
		_ = c.Error(err)
		c.Abort()
	}
}

// DownloadArchive handles GET /api/v1/attempts/:id/archive/download
func (h *ReportHandler) DownloadArchive(c *gin.Context) {
	attemptID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid attempt ID")
		return
	}

	attempt, data, err := h.review.ArchiveImage(c.Request.Context(), attemptID)
	if err != nil {
		HandleError(c, err)
		return
	}

	contentType := mime.TypeByExtension(filepath.Ext(attempt.ArchiveKey))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, attempt.FileName))
	c.Data(http.StatusOK, contentType, data)
}

// ArchiveURL handles GET /api/v1/attempts/:id/archive
func (h *ReportHandler) ArchiveURL(c *gin.Context) {
	attemptID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid attempt ID")
		return
	}

	url, err := h.review.ArchiveURL(c.Request.Context(), attemptID)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, gin.H{"url": url})
}
