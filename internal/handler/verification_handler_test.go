package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"samarth/internal/config"
	"samarth/internal/domain"
	"samarth/internal/handler"
	"samarth/internal/service"
	"samarth/mocks"
)

// stubVerification captures the input and returns a canned outcome.
type stubVerification struct {
	outcome *domain.VerificationOutcome
	err     error
	got     service.VerifyInput
	called  bool
}

func (s *stubVerification) Verify(_ context.Context, input service.VerifyInput) (*domain.VerificationOutcome, error) {
	s.called = true
	s.got = input
	return s.outcome, s.err
}

func setupVerifyRouter(svc service.VerificationService, tempStore *mocks.MockTempFileStore, maxMB int64) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := handler.NewVerificationHandler(svc, tempStore, &config.UploadConfig{MaxFileSizeMB: maxMB})
	r := gin.New()
	r.POST("/api/v1/subjects/:id/certificate", h.Verify)
	return r
}

func multipartBody(t *testing.T, field, filename string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	part, err := w.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return body, w.FormDataContentType()
}

func TestVerifyHandler_Success(t *testing.T) {
	tempStore := new(mocks.MockTempFileStore)
	tempStore.On("Save", mock.Anything, "png").Return("/tmp/upload-1.png", nil)

	stub := &stubVerification{outcome: &domain.VerificationOutcome{
		Status:  domain.VerificationStatusVerified,
		Success: true,
		Message: "Your disability certificate has been verified successfully.",
	}}
	r := setupVerifyRouter(stub, tempStore, 10)

	subjectID := uuid.New()
	body, contentType := multipartBody(t, "certificate", "cert.png", []byte("fake image bytes"))
	req := httptest.NewRequest(http.MethodPost, "/api/v1/subjects/"+subjectID.String()+"/certificate", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, stub.called)
	assert.Equal(t, subjectID, stub.got.SubjectID)
	assert.Equal(t, "/tmp/upload-1.png", stub.got.File.Path)
	assert.Equal(t, "cert.png", stub.got.File.OriginalName)

	var resp handler.APIResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
}

func TestVerifyHandler_PDFPassesUploadGate(t *testing.T) {
	// The pipeline owns PDF rejection; the handler must let it through.
	tempStore := new(mocks.MockTempFileStore)
	tempStore.On("Save", mock.Anything, "pdf").Return("/tmp/upload-2.pdf", nil)

	stub := &stubVerification{outcome: &domain.VerificationOutcome{
		Status: domain.VerificationStatusRejected,
		Reason: domain.ReasonUnsupportedFormat,
	}}
	r := setupVerifyRouter(stub, tempStore, 10)

	body, contentType := multipartBody(t, "certificate", "cert.pdf", []byte("%PDF-1.4 content"))
	req := httptest.NewRequest(http.MethodPost, "/api/v1/subjects/"+uuid.NewString()+"/certificate", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, stub.called)
}

func TestVerifyHandler_UnsupportedExtension(t *testing.T) {
	stub := &stubVerification{}
	r := setupVerifyRouter(stub, new(mocks.MockTempFileStore), 10)

	body, contentType := multipartBody(t, "certificate", "cert.exe", []byte("binary"))
	req := httptest.NewRequest(http.MethodPost, "/api/v1/subjects/"+uuid.NewString()+"/certificate", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.False(t, stub.called)
}

func TestVerifyHandler_FileTooLarge(t *testing.T) {
	stub := &stubVerification{}
	r := setupVerifyRouter(stub, new(mocks.MockTempFileStore), 1)

	big := bytes.Repeat([]byte("a"), 2*1024*1024)
	body, contentType := multipartBody(t, "certificate", "cert.png", big)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/subjects/"+uuid.NewString()+"/certificate", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	assert.False(t, stub.called)
}

func TestVerifyHandler_MissingFile(t *testing.T) {
	stub := &stubVerification{}
	r := setupVerifyRouter(stub, new(mocks.MockTempFileStore), 10)

	body, contentType := multipartBody(t, "wrong_field", "cert.png", []byte("x"))
	req := httptest.NewRequest(http.MethodPost, "/api/v1/subjects/"+uuid.NewString()+"/certificate", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.False(t, stub.called)
}

func TestVerifyHandler_InvalidSubjectID(t *testing.T) {
	stub := &stubVerification{}
	r := setupVerifyRouter(stub, new(mocks.MockTempFileStore), 10)

	body, contentType := multipartBody(t, "certificate", "cert.png", []byte("x"))
	req := httptest.NewRequest(http.MethodPost, "/api/v1/subjects/not-a-uuid/certificate", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.False(t, stub.called)
}
