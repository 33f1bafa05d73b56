package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"samarth/internal/service"
)

// SubjectHandler handles subject profile endpoints.
type SubjectHandler struct {
	subjects service.SubjectService
}

// NewSubjectHandler creates a new SubjectHandler.
func NewSubjectHandler(subjects service.SubjectService) *SubjectHandler {
	return &SubjectHandler{subjects: subjects}
}

// Create handles POST /api/v1/subjects
func (h *SubjectHandler) Create(c *gin.Context) {
	var input service.CreateSubjectInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "full_name and a valid email are required")
		return
	}

	subject, err := h.subjects.Create(c.Request.Context(), input)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondCreated(c, subject)
}

// GetByID handles GET /api/v1/subjects/:id
func (h *SubjectHandler) GetByID(c *gin.Context) {
	subjectID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid subject ID")
		return
	}

	profile, err := h.subjects.Get(c.Request.Context(), subjectID)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, profile)
}
