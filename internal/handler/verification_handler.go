package handler

import (
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"samarth/internal/config"
	"samarth/internal/domain"
	"samarth/internal/port"
	"samarth/internal/service"
)

// VerificationHandler handles certificate upload and verification.
type VerificationHandler struct {
	verification service.VerificationService
	tempStore    port.TempFileStore
	uploadCfg    *config.UploadConfig
}

// NewVerificationHandler creates a new VerificationHandler.
func NewVerificationHandler(verification service.VerificationService, tempStore port.TempFileStore, uploadCfg *config.UploadConfig) *VerificationHandler {
	return &VerificationHandler{verification: verification, tempStore: tempStore, uploadCfg: uploadCfg}
}

// Verify handles POST /api/v1/subjects/:id/certificate
//
// PDFs pass the upload gate on purpose: the pipeline owns that rejection and
// reports it as a verification outcome, not a transport error.
func (h *VerificationHandler) Verify(c *gin.Context) {
	subjectID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid subject ID")
		return
	}

	file, header, err := c.Request.FormFile("certificate")
	if err != nil {
		RespondError(c, http.StatusBadRequest, "MISSING_FILE", "certificate field is required")
		return
	}
	defer func() { _ = file.Close() }()

	if header.Size > h.uploadCfg.MaxFileSizeMB*1024*1024 {
		HandleError(c, domain.ErrFileTooLarge)
		return
	}

	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(header.Filename)), ".")
	if _, ok := domain.AllowedExtensions[ext]; !ok && ext != "pdf" {
		HandleError(c, domain.ErrUnsupportedFileType)
		return
	}

	path, err := h.tempStore.Save(file, ext)
	if err != nil {
		HandleError(c, err)
		return
	}

	outcome, err := h.verification.Verify(c.Request.Context(), service.VerifyInput{
		SubjectID: subjectID,
		File: domain.UploadedFile{
			Path:         path,
			OriginalName: header.Filename,
			ContentType:  header.Header.Get("Content-Type"),
			Size:         header.Size,
		},
	})
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, outcome)
}
