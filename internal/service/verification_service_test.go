package service_test

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"samarth/internal/config"
	"samarth/internal/domain"
	"samarth/internal/port"
	"samarth/internal/service"
	"samarth/mocks"
)

const fullCertificateText = `GOVERNMENT OF INDIA
Department of Empowerment of Persons with Disabilities
DISABILITY CERTIFICATE
Certificate No: MH2221320070216846
This is to certify that Shri Ramesh Kumar Sharma
is a case of LOCOMOTOR DISABILITY
Percentage of disability: 60%
Date of Issue: 15/03/2021
Issuing Authority: Dr. Anil Mehta Hospital`

type pipelineMocks struct {
	subjects  *mocks.MockSubjectRepo
	attempts  *mocks.MockAttemptRepo
	engine    *mocks.MockOCREngine
	tempStore *mocks.MockTempFileStore
	storage   *mocks.MockObjectStorage
	email     *mocks.MockEmailSender
}

func newPipeline() (service.VerificationService, *pipelineMocks) {
	m := &pipelineMocks{
		subjects:  new(mocks.MockSubjectRepo),
		attempts:  new(mocks.MockAttemptRepo),
		engine:    new(mocks.MockOCREngine),
		tempStore: new(mocks.MockTempFileStore),
		storage:   new(mocks.MockObjectStorage),
		email:     new(mocks.MockEmailSender),
	}
	svc := service.NewVerificationService(
		m.subjects, m.attempts, m.engine, m.tempStore, m.storage, m.email,
		&config.S3Config{Bucket: "test-bucket"},
		&config.OCRConfig{Language: "eng", TimeoutSecs: 5},
		&config.VerificationConfig{MinConfidence: 30, MinTextLength: 30, MinValidScore: 6, ReviewMinScore: 3},
	)
	return svc, m
}

func testSubject() *domain.Subject {
	return &domain.Subject{
		ID:                 uuid.New(),
		FullName:           "Ramesh Kumar Sharma",
		Email:              "ramesh@example.com",
		VerificationStatus: domain.VerificationStatusUnverified,
	}
}

func testImagePNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewGray(image.Rect(0, 0, 32, 32))
	for y := 0; y < 32; y++ {
		for x := 0; x < 32; x++ {
			img.SetGray(x, y, color.Gray{Y: uint8(x * 8)})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func testUpload() domain.UploadedFile {
	return domain.UploadedFile{
		Path:         "/tmp/upload-test.png",
		OriginalName: "certificate.png",
		ContentType:  "image/png",
		Size:         1024,
	}
}

func TestVerify_CompleteCertificate_Verified(t *testing.T) {
	svc, m := newPipeline()
	subject := testSubject()

	m.subjects.On("GetByID", mock.Anything, subject.ID).Return(subject, nil)
	m.tempStore.On("Read", "/tmp/upload-test.png").Return(testImagePNG(t), nil)
	m.tempStore.On("Delete", "/tmp/upload-test.png").Return(nil)
	m.engine.On("Recognize", mock.Anything, mock.Anything, "eng").
		Return(domain.OCRResult{Text: fullCertificateText, Confidence: 85}, nil)
	m.storage.On("Upload", mock.Anything, mock.AnythingOfType("port.UploadInput")).
		Return(&port.UploadOutput{Location: "https://test-bucket.s3.amazonaws.com/x"}, nil)
	m.subjects.On("UpdateVerification", mock.Anything, subject.ID, domain.VerificationStatusVerified, true, mock.AnythingOfType("*domain.CertificateData")).Return(nil)
	m.attempts.On("Create", mock.Anything, mock.AnythingOfType("*domain.VerificationAttempt")).Return(nil)
	m.attempts.On("ListBySubject", mock.Anything, subject.ID, 0, 50).
		Return([]domain.VerificationAttempt{}, 0, nil)
	m.subjects.On("AppendActivity", mock.Anything, mock.AnythingOfType("*domain.ActivityEntry")).Return(nil)
	m.email.On("SendOutcomeEmail", mock.Anything, subject.Email, subject.FullName, mock.AnythingOfType("*domain.VerificationOutcome")).Return(nil)

	outcome, err := svc.Verify(context.Background(), service.VerifyInput{SubjectID: subject.ID, File: testUpload()})
	require.NoError(t, err)

	assert.Equal(t, domain.VerificationStatusVerified, outcome.Status)
	assert.True(t, outcome.Success)
	require.NotNil(t, outcome.CertificateData)
	assert.Equal(t, "MH2221320070216846", outcome.CertificateData.CertificateNumber)
	assert.Equal(t, 60, outcome.CertificateData.DisabilityPercentage)

	m.subjects.AssertExpectations(t)
	m.attempts.AssertExpectations(t)
	m.tempStore.AssertCalled(t, "Delete", "/tmp/upload-test.png")
}

func TestVerify_Reverification_RemovesSupersededArchive(t *testing.T) {
	svc, m := newPipeline()
	subject := testSubject()
	oldKey := "subjects/" + subject.ID.String() + "/certificates/old-upload.png"

	m.subjects.On("GetByID", mock.Anything, subject.ID).Return(subject, nil)
	m.tempStore.On("Read", mock.Anything).Return(testImagePNG(t), nil)
	m.tempStore.On("Delete", mock.Anything).Return(nil)
	m.engine.On("Recognize", mock.Anything, mock.Anything, "eng").
		Return(domain.OCRResult{Text: fullCertificateText, Confidence: 85}, nil)
	m.storage.On("Upload", mock.Anything, mock.AnythingOfType("port.UploadInput")).
		Return(&port.UploadOutput{Location: "https://test-bucket.s3.amazonaws.com/x"}, nil)
	m.storage.On("Delete", mock.Anything, "test-bucket", oldKey).Return(nil)
	m.subjects.On("UpdateVerification", mock.Anything, subject.ID, domain.VerificationStatusVerified, true, mock.AnythingOfType("*domain.CertificateData")).Return(nil)
	m.attempts.On("Create", mock.Anything, mock.AnythingOfType("*domain.VerificationAttempt")).Return(nil)
	m.attempts.On("ListBySubject", mock.Anything, subject.ID, 0, 50).
		Return([]domain.VerificationAttempt{
			{ID: uuid.New(), SubjectID: subject.ID, Status: domain.VerificationStatusVerified, ArchiveKey: oldKey},
			{ID: uuid.New(), SubjectID: subject.ID, Status: domain.VerificationStatusPending},
		}, 2, nil)
	m.subjects.On("AppendActivity", mock.Anything, mock.AnythingOfType("*domain.ActivityEntry")).Return(nil)
	m.email.On("SendOutcomeEmail", mock.Anything, subject.Email, subject.FullName, mock.Anything).Return(nil)

	outcome, err := svc.Verify(context.Background(), service.VerifyInput{SubjectID: subject.ID, File: testUpload()})
	require.NoError(t, err)

	assert.Equal(t, domain.VerificationStatusVerified, outcome.Status)
	m.storage.AssertCalled(t, "Delete", mock.Anything, "test-bucket", oldKey)
	m.storage.AssertNumberOfCalls(t, "Delete", 1)
}

func TestVerify_EmptyOCRText_PendingInsufficientText(t *testing.T) {
	svc, m := newPipeline()
	subject := testSubject()

	m.subjects.On("GetByID", mock.Anything, subject.ID).Return(subject, nil)
	m.tempStore.On("Read", mock.Anything).Return(testImagePNG(t), nil)
	m.tempStore.On("Delete", mock.Anything).Return(nil)
	m.engine.On("Recognize", mock.Anything, mock.Anything, "eng").
		Return(domain.OCRResult{Text: "", Confidence: 0}, nil)
	m.subjects.On("UpdateVerification", mock.Anything, subject.ID, domain.VerificationStatusPending, false, (*domain.CertificateData)(nil)).Return(nil)
	m.attempts.On("Create", mock.Anything, mock.AnythingOfType("*domain.VerificationAttempt")).Return(nil)
	m.subjects.On("AppendActivity", mock.Anything, mock.AnythingOfType("*domain.ActivityEntry")).Return(nil)
	m.email.On("SendOutcomeEmail", mock.Anything, subject.Email, subject.FullName, mock.Anything).Return(nil)

	outcome, err := svc.Verify(context.Background(), service.VerifyInput{SubjectID: subject.ID, File: testUpload()})
	require.NoError(t, err)

	assert.Equal(t, domain.VerificationStatusPending, outcome.Status)
	assert.Equal(t, domain.ReasonInsufficientText, outcome.Reason)
	m.storage.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything)
}

func TestVerify_LowConfidence_PendingWithCertificateHint(t *testing.T) {
	svc, m := newPipeline()
	subject := testSubject()

	blurry := "barely legible disability certificate issued by government medical authority in india"
	m.subjects.On("GetByID", mock.Anything, subject.ID).Return(subject, nil)
	m.tempStore.On("Read", mock.Anything).Return(testImagePNG(t), nil)
	m.tempStore.On("Delete", mock.Anything).Return(nil)
	m.engine.On("Recognize", mock.Anything, mock.Anything, "eng").
		Return(domain.OCRResult{Text: blurry, Confidence: 12}, nil)
	m.subjects.On("UpdateVerification", mock.Anything, subject.ID, domain.VerificationStatusPending, false, (*domain.CertificateData)(nil)).Return(nil)
	m.attempts.On("Create", mock.Anything, mock.AnythingOfType("*domain.VerificationAttempt")).Return(nil)
	m.subjects.On("AppendActivity", mock.Anything, mock.AnythingOfType("*domain.ActivityEntry")).Return(nil)
	m.email.On("SendOutcomeEmail", mock.Anything, subject.Email, subject.FullName, mock.Anything).Return(nil)

	outcome, err := svc.Verify(context.Background(), service.VerifyInput{SubjectID: subject.ID, File: testUpload()})
	require.NoError(t, err)

	assert.Equal(t, domain.VerificationStatusPending, outcome.Status)
	assert.Equal(t, domain.ReasonLowConfidence, outcome.Reason)
	assert.Contains(t, outcome.Message, "does appear to be a disability certificate")
}

func TestVerify_ShortTextAndLowConfidence_ConfidenceWins(t *testing.T) {
	svc, m := newPipeline()
	subject := testSubject()

	m.subjects.On("GetByID", mock.Anything, subject.ID).Return(subject, nil)
	m.tempStore.On("Read", mock.Anything).Return(testImagePNG(t), nil)
	m.tempStore.On("Delete", mock.Anything).Return(nil)
	m.engine.On("Recognize", mock.Anything, mock.Anything, "eng").
		Return(domain.OCRResult{Text: "blurry txt", Confidence: 10}, nil)
	m.subjects.On("UpdateVerification", mock.Anything, subject.ID, domain.VerificationStatusPending, false, (*domain.CertificateData)(nil)).Return(nil)
	m.attempts.On("Create", mock.Anything, mock.AnythingOfType("*domain.VerificationAttempt")).Return(nil)
	m.subjects.On("AppendActivity", mock.Anything, mock.AnythingOfType("*domain.ActivityEntry")).Return(nil)
	m.email.On("SendOutcomeEmail", mock.Anything, subject.Email, subject.FullName, mock.Anything).Return(nil)

	outcome, err := svc.Verify(context.Background(), service.VerifyInput{SubjectID: subject.ID, File: testUpload()})
	require.NoError(t, err)

	assert.Equal(t, domain.VerificationStatusPending, outcome.Status)
	assert.Equal(t, domain.ReasonLowConfidence, outcome.Reason)
}

func TestVerify_KeywordsWithoutNumber_PendingNotRejected(t *testing.T) {
	svc, m := newPipeline()
	subject := testSubject()

	partial := "Government of India Disability Certificate for Name: Ramesh Kumar attested by the medical authority"
	m.subjects.On("GetByID", mock.Anything, subject.ID).Return(subject, nil)
	m.tempStore.On("Read", mock.Anything).Return(testImagePNG(t), nil)
	m.tempStore.On("Delete", mock.Anything).Return(nil)
	m.engine.On("Recognize", mock.Anything, mock.Anything, "eng").
		Return(domain.OCRResult{Text: partial, Confidence: 78}, nil)
	m.subjects.On("UpdateVerification", mock.Anything, subject.ID, domain.VerificationStatusPending, false, (*domain.CertificateData)(nil)).Return(nil)
	m.attempts.On("Create", mock.Anything, mock.AnythingOfType("*domain.VerificationAttempt")).Return(nil)
	m.subjects.On("AppendActivity", mock.Anything, mock.AnythingOfType("*domain.ActivityEntry")).Return(nil)
	m.email.On("SendOutcomeEmail", mock.Anything, subject.Email, subject.FullName, mock.Anything).Return(nil)

	outcome, err := svc.Verify(context.Background(), service.VerifyInput{SubjectID: subject.ID, File: testUpload()})
	require.NoError(t, err)

	assert.Equal(t, domain.VerificationStatusPending, outcome.Status)
	assert.Equal(t, domain.ReasonFieldsNotExtracted, outcome.Reason)
}

func TestVerify_UnrelatedDocument_Rejected(t *testing.T) {
	svc, m := newPipeline()
	subject := testSubject()

	invoice := "Invoice #4521 Total Amount Due $450.00 Thank you for your business"
	m.subjects.On("GetByID", mock.Anything, subject.ID).Return(subject, nil)
	m.tempStore.On("Read", mock.Anything).Return(testImagePNG(t), nil)
	m.tempStore.On("Delete", mock.Anything).Return(nil)
	m.engine.On("Recognize", mock.Anything, mock.Anything, "eng").
		Return(domain.OCRResult{Text: invoice, Confidence: 92}, nil)
	m.subjects.On("UpdateVerification", mock.Anything, subject.ID, domain.VerificationStatusRejected, false, (*domain.CertificateData)(nil)).Return(nil)
	m.attempts.On("Create", mock.Anything, mock.AnythingOfType("*domain.VerificationAttempt")).Return(nil)
	m.subjects.On("AppendActivity", mock.Anything, mock.AnythingOfType("*domain.ActivityEntry")).Return(nil)
	m.email.On("SendOutcomeEmail", mock.Anything, subject.Email, subject.FullName, mock.Anything).Return(nil)

	outcome, err := svc.Verify(context.Background(), service.VerifyInput{SubjectID: subject.ID, File: testUpload()})
	require.NoError(t, err)

	assert.Equal(t, domain.VerificationStatusRejected, outcome.Status)
	assert.Equal(t, domain.ReasonValidationFailed, outcome.Reason)
	m.storage.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything)
}

func TestVerify_PDFUpload_RejectedBeforeOCR(t *testing.T) {
	svc, m := newPipeline()
	subject := testSubject()

	m.subjects.On("GetByID", mock.Anything, subject.ID).Return(subject, nil)
	m.tempStore.On("Delete", "/tmp/upload-test.pdf").Return(nil)

	upload := domain.UploadedFile{
		Path:         "/tmp/upload-test.pdf",
		OriginalName: "certificate.pdf",
		ContentType:  "application/pdf",
		Size:         2048,
	}
	outcome, err := svc.Verify(context.Background(), service.VerifyInput{SubjectID: subject.ID, File: upload})
	require.NoError(t, err)

	assert.Equal(t, domain.VerificationStatusRejected, outcome.Status)
	assert.Equal(t, domain.ReasonUnsupportedFormat, outcome.Reason)

	m.engine.AssertNotCalled(t, "Recognize", mock.Anything, mock.Anything, mock.Anything)
	m.tempStore.AssertNotCalled(t, "Read", mock.Anything)
	m.subjects.AssertNotCalled(t, "UpdateVerification", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	m.tempStore.AssertCalled(t, "Delete", "/tmp/upload-test.pdf")
}

func TestVerify_CorruptImage_RejectedWithoutPersistence(t *testing.T) {
	svc, m := newPipeline()
	subject := testSubject()

	m.subjects.On("GetByID", mock.Anything, subject.ID).Return(subject, nil)
	m.tempStore.On("Read", mock.Anything).Return([]byte("not an image at all"), nil)
	m.tempStore.On("Delete", mock.Anything).Return(nil)

	outcome, err := svc.Verify(context.Background(), service.VerifyInput{SubjectID: subject.ID, File: testUpload()})
	require.NoError(t, err)

	assert.Equal(t, domain.VerificationStatusRejected, outcome.Status)
	assert.Equal(t, domain.ReasonUnreadableImage, outcome.Reason)

	m.engine.AssertNotCalled(t, "Recognize", mock.Anything, mock.Anything, mock.Anything)
	m.subjects.AssertNotCalled(t, "UpdateVerification", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	m.attempts.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestVerify_EngineFailure_TreatedAsZeroResult(t *testing.T) {
	svc, m := newPipeline()
	subject := testSubject()

	m.subjects.On("GetByID", mock.Anything, subject.ID).Return(subject, nil)
	m.tempStore.On("Read", mock.Anything).Return(testImagePNG(t), nil)
	m.tempStore.On("Delete", mock.Anything).Return(nil)
	m.engine.On("Recognize", mock.Anything, mock.Anything, "eng").
		Return(domain.OCRResult{}, errors.New("tesseract exploded"))
	m.subjects.On("UpdateVerification", mock.Anything, subject.ID, domain.VerificationStatusPending, false, (*domain.CertificateData)(nil)).Return(nil)
	m.attempts.On("Create", mock.Anything, mock.AnythingOfType("*domain.VerificationAttempt")).Return(nil)
	m.subjects.On("AppendActivity", mock.Anything, mock.AnythingOfType("*domain.ActivityEntry")).Return(nil)
	m.email.On("SendOutcomeEmail", mock.Anything, subject.Email, subject.FullName, mock.Anything).Return(nil)

	outcome, err := svc.Verify(context.Background(), service.VerifyInput{SubjectID: subject.ID, File: testUpload()})
	require.NoError(t, err)

	assert.Equal(t, domain.VerificationStatusPending, outcome.Status)
	assert.Equal(t, domain.ReasonInsufficientText, outcome.Reason)
}

// stalledEngine never produces a result; it only returns once its context is
// cancelled, the way a hung recognizer would.
type stalledEngine struct{}

func (stalledEngine) Recognize(ctx context.Context, _ []byte, _ string) (domain.OCRResult, error) {
	<-ctx.Done()
	return domain.OCRResult{}, ctx.Err()
}

func TestVerify_EngineTimeout_TreatedAsZeroResult(t *testing.T) {
	m := &pipelineMocks{
		subjects:  new(mocks.MockSubjectRepo),
		attempts:  new(mocks.MockAttemptRepo),
		engine:    new(mocks.MockOCREngine),
		tempStore: new(mocks.MockTempFileStore),
		storage:   new(mocks.MockObjectStorage),
		email:     new(mocks.MockEmailSender),
	}
	svc := service.NewVerificationService(
		m.subjects, m.attempts, stalledEngine{}, m.tempStore, m.storage, m.email,
		&config.S3Config{Bucket: "test-bucket"},
		&config.OCRConfig{Language: "eng", TimeoutSecs: 1},
		&config.VerificationConfig{MinConfidence: 30, MinTextLength: 30, MinValidScore: 6, ReviewMinScore: 3},
	)
	subject := testSubject()

	m.subjects.On("GetByID", mock.Anything, subject.ID).Return(subject, nil)
	m.tempStore.On("Read", mock.Anything).Return(testImagePNG(t), nil)
	m.tempStore.On("Delete", mock.Anything).Return(nil)
	m.subjects.On("UpdateVerification", mock.Anything, subject.ID, domain.VerificationStatusPending, false, (*domain.CertificateData)(nil)).Return(nil)
	m.attempts.On("Create", mock.Anything, mock.AnythingOfType("*domain.VerificationAttempt")).Return(nil)
	m.subjects.On("AppendActivity", mock.Anything, mock.AnythingOfType("*domain.ActivityEntry")).Return(nil)
	m.email.On("SendOutcomeEmail", mock.Anything, subject.Email, subject.FullName, mock.Anything).Return(nil)

	outcome, err := svc.Verify(context.Background(), service.VerifyInput{SubjectID: subject.ID, File: testUpload()})
	require.NoError(t, err)

	assert.Equal(t, domain.VerificationStatusPending, outcome.Status)
	assert.Equal(t, domain.ReasonInsufficientText, outcome.Reason)
	m.storage.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything)
}

func TestVerify_PersistenceFailure_DowngradesToProcessingError(t *testing.T) {
	svc, m := newPipeline()
	subject := testSubject()

	m.subjects.On("GetByID", mock.Anything, subject.ID).Return(subject, nil)
	m.tempStore.On("Read", mock.Anything).Return(testImagePNG(t), nil)
	m.tempStore.On("Delete", mock.Anything).Return(nil)
	m.engine.On("Recognize", mock.Anything, mock.Anything, "eng").
		Return(domain.OCRResult{Text: fullCertificateText, Confidence: 85}, nil)
	m.storage.On("Upload", mock.Anything, mock.AnythingOfType("port.UploadInput")).
		Return(&port.UploadOutput{Location: "https://test-bucket.s3.amazonaws.com/x"}, nil)
	m.subjects.On("UpdateVerification", mock.Anything, subject.ID, domain.VerificationStatusVerified, true, mock.Anything).
		Return(errors.New("db connection lost"))

	outcome, err := svc.Verify(context.Background(), service.VerifyInput{SubjectID: subject.ID, File: testUpload()})
	require.NoError(t, err)

	assert.Equal(t, domain.VerificationStatusPending, outcome.Status)
	assert.Equal(t, domain.ReasonProcessingError, outcome.Reason)
	m.email.AssertNotCalled(t, "SendOutcomeEmail", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestVerify_UnknownSubject(t *testing.T) {
	svc, m := newPipeline()
	subjectID := uuid.New()

	m.subjects.On("GetByID", mock.Anything, subjectID).Return(nil, domain.ErrNotFound)
	m.tempStore.On("Delete", mock.Anything).Return(nil)

	outcome, err := svc.Verify(context.Background(), service.VerifyInput{SubjectID: subjectID, File: testUpload()})
	assert.Nil(t, outcome)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	m.tempStore.AssertCalled(t, "Delete", "/tmp/upload-test.png")
}
