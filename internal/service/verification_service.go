package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"samarth/internal/config"
	"samarth/internal/domain"
	"samarth/internal/extract"
	"samarth/internal/ocr"
	"samarth/internal/port"
	"samarth/internal/preprocess"
	"samarth/internal/validator/certificate"
)

// minTriageHints is how many hint keywords must appear in low-quality text
// before the user-facing message calls the document certificate-like.
const minTriageHints = 2

// VerifyInput is the DTO for a verification request. The pipeline owns the
// temp file and deletes it on every exit path.
type VerifyInput struct {
	SubjectID uuid.UUID
	File      domain.UploadedFile
}

// VerificationService runs the certificate verification pipeline.
type VerificationService interface {
	Verify(ctx context.Context, input VerifyInput) (*domain.VerificationOutcome, error)
}

type verificationService struct {
	subjects  port.SubjectRepository
	attempts  port.AttemptRepository
	engine    port.OCREngine
	tempStore port.TempFileStore
	storage   port.ObjectStorage
	email     port.EmailSender
	s3Cfg     *config.S3Config
	ocrCfg    *config.OCRConfig
	cfg       *config.VerificationConfig
}

// NewVerificationService creates a new VerificationService implementation.
func NewVerificationService(
	subjects port.SubjectRepository,
	attempts port.AttemptRepository,
	engine port.OCREngine,
	tempStore port.TempFileStore,
	storage port.ObjectStorage,
	email port.EmailSender,
	s3Cfg *config.S3Config,
	ocrCfg *config.OCRConfig,
	cfg *config.VerificationConfig,
) VerificationService {
	return &verificationService{
		subjects:  subjects,
		attempts:  attempts,
		engine:    engine,
		tempStore: tempStore,
		storage:   storage,
		email:     email,
		s3Cfg:     s3Cfg,
		ocrCfg:    ocrCfg,
		cfg:       cfg,
	}
}

// Verify runs the full triage pipeline for one uploaded certificate. Only
// two conditions reject before OCR: PDF uploads and unreadable images. Every
// other fault downgrades to manual review; the caller never sees a raw
// pipeline error for a processable image.
func (s *verificationService) Verify(ctx context.Context, input VerifyInput) (*domain.VerificationOutcome, error) {
	defer func() {
		if err := s.tempStore.Delete(input.File.Path); err != nil {
			log.Printf("verificationService.Verify: temp cleanup failed for %s: %v", input.File.Path, err)
		}
	}()

	subject, err := s.subjects.GetByID(ctx, input.SubjectID)
	if err != nil {
		return nil, err
	}

	// PDFs are refused outright: the pipeline needs a photograph.
	if isPDF(input.File) {
		return &domain.VerificationOutcome{
			Status:  domain.VerificationStatusRejected,
			Success: false,
			Message: "PDF uploads are not accepted. Please upload a clear photograph of the certificate.",
			Reason:  domain.ReasonUnsupportedFormat,
		}, nil
	}

	data, err := s.tempStore.Read(input.File.Path)
	if err != nil {
		return s.processingError(subject, input, "reading_upload", err), nil
	}

	candidates, err := preprocess.Variants(data)
	if err != nil {
		if errors.Is(err, domain.ErrUnreadableImage) || errors.Is(err, domain.ErrNoRenderings) {
			log.Printf("verificationService.Verify: unreadable upload for subject %s: %v", subject.ID, err)
			return &domain.VerificationOutcome{
				Status:  domain.VerificationStatusRejected,
				Success: false,
				Message: "We were unable to read the uploaded image. Please upload a clearer photograph.",
				Reason:  domain.ReasonUnreadableImage,
			}, nil
		}
		return s.processingError(subject, input, "preprocessing", err), nil
	}

	best := s.recognizeBest(ctx, candidates)
	trimmed := strings.TrimSpace(best.Text)

	// Low-quality gate runs before extraction.
	if outcome := s.lowQualityOutcome(best, trimmed); outcome != nil {
		if err := s.record(ctx, subject, input, outcome, nil, best.Confidence, ""); err != nil {
			return s.processingError(subject, input, "recording_outcome", err), nil
		}
		s.notify(ctx, subject, outcome)
		return outcome, nil
	}

	fields := extract.Extract(best.Text)
	result := certificate.Validate(fields, s.cfg.MinValidScore)

	outcome := s.decide(fields, result)
	archiveKey := ""
	if outcome.Status == domain.VerificationStatusVerified {
		archiveKey = s.archive(ctx, subject.ID, input.File, data)
	}
	if err := s.record(ctx, subject, input, outcome, &result, best.Confidence, archiveKey); err != nil {
		return s.processingError(subject, input, "recording_outcome", err), nil
	}
	if archiveKey != "" {
		s.pruneSupersededArchives(ctx, subject.ID, archiveKey)
	}
	s.notify(ctx, subject, outcome)
	return outcome, nil
}

// recognizeBest runs every candidate through the OCR engine in fixed
// strategy order and folds the results down to the single best one. A failed
// or timed-out candidate contributes the zero result; each candidate's bytes
// are released after its call.
func (s *verificationService) recognizeBest(ctx context.Context, candidates []preprocess.Candidate) domain.OCRResult {
	results := make([]domain.OCRResult, 0, len(candidates))
	for i := range candidates {
		res, err := s.recognize(ctx, candidates[i].Data)
		candidates[i].Data = nil
		if err != nil {
			log.Printf("verificationService.recognizeBest: strategy %s failed: %v", candidates[i].Strategy, err)
			res = domain.OCRResult{}
		}
		results = append(results, res)
	}
	return ocr.Best(results)
}

// recognize bounds a single OCR call with the configured timeout. A timeout
// is treated exactly like an engine failure.
func (s *verificationService) recognize(ctx context.Context, image []byte) (domain.OCRResult, error) {
	timeout := time.Duration(s.ocrCfg.TimeoutSecs) * time.Second
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	type reply struct {
		res domain.OCRResult
		err error
	}
	ch := make(chan reply, 1)
	go func() {
		res, err := s.engine.Recognize(ctx, image, s.ocrCfg.Language)
		ch <- reply{res, err}
	}()

	select {
	case <-ctx.Done():
		return domain.OCRResult{}, ctx.Err()
	case r := <-ch:
		return r.res, r.err
	}
}

// lowQualityOutcome returns a pending outcome when the best OCR result is
// below the quality floor, nil otherwise. Empty text always reads as
// insufficient text; for non-empty text the confidence check wins when both
// gates trigger.
func (s *verificationService) lowQualityOutcome(best domain.OCRResult, trimmed string) *domain.VerificationOutcome {
	var reason, message string
	switch {
	case trimmed == "":
		reason = domain.ReasonInsufficientText
		message = "We could not extract any text from the certificate. It has been queued for manual review."
	case best.Confidence < s.cfg.MinConfidence:
		reason = domain.ReasonLowConfidence
		message = "The certificate image quality is too low for automatic verification. It has been queued for manual review."
	case len(trimmed) < s.cfg.MinTextLength:
		reason = domain.ReasonInsufficientText
		message = "We could not extract enough text from the certificate. It has been queued for manual review."
	default:
		return nil
	}

	// Best-effort enrichment only; never changes the outcome.
	if extract.CountTriageHints(best.Text) >= minTriageHints {
		message += " The document does appear to be a disability certificate."
	}

	return &domain.VerificationOutcome{
		Status:  domain.VerificationStatusPending,
		Success: false,
		Message: message,
		Reason:  reason,
		Details: map[string]interface{}{
			"confidence":  best.Confidence,
			"text_length": len(trimmed),
		},
	}
}

// decide maps a validation result onto one of the three terminal states.
func (s *verificationService) decide(fields extract.Fields, result certificate.Result) *domain.VerificationOutcome {
	if result.IsValid {
		certData := &domain.CertificateData{
			CertificateNumber:    deref(fields.CertificateNumber),
			DisabilityPercentage: derefInt(fields.DisabilityPercentage),
			DisabilityType:       deref(fields.DisabilityType),
			DateOfIssue:          deref(fields.DateOfIssue),
			ValidTill:            deref(fields.ValidTill),
			VerifiedAt:           time.Now().UTC(),
		}
		return &domain.VerificationOutcome{
			Status:          domain.VerificationStatusVerified,
			Success:         true,
			Message:         "Your disability certificate has been verified successfully.",
			CertificateData: certData,
			Details: map[string]interface{}{
				"score":            result.Score,
				"score_percentage": result.ScorePercentage,
			},
		}
	}

	// A partial score or any certificate-like keyword keeps the document out
	// of rejection: a human reviewer decides.
	if result.Score >= s.cfg.ReviewMinScore || fields.HasCertificateSignal() {
		return &domain.VerificationOutcome{
			Status:  domain.VerificationStatusPending,
			Success: false,
			Message: "We could not automatically confirm all required certificate details. It has been queued for manual review.",
			Reason:  domain.ReasonFieldsNotExtracted,
			Details: map[string]interface{}{
				"score":            result.Score,
				"score_percentage": result.ScorePercentage,
				"fields":           fields,
			},
		}
	}

	return &domain.VerificationOutcome{
		Status:  domain.VerificationStatusRejected,
		Success: false,
		Message: "The uploaded document does not appear to be a valid disability certificate.",
		Reason:  domain.ReasonValidationFailed,
		Details: map[string]interface{}{
			"score":  result.Score,
			"errors": result.Errors,
		},
	}
}

// record persists the outcome: subject status, attempt row, activity entry.
// Any failure here is a recording failure the caller converts to a
// processing-error review outcome.
func (s *verificationService) record(ctx context.Context, subject *domain.Subject, input VerifyInput, outcome *domain.VerificationOutcome, result *certificate.Result, confidence float64, archiveKey string) error {
	isVerified := outcome.Status == domain.VerificationStatusVerified
	if err := s.subjects.UpdateVerification(ctx, subject.ID, outcome.Status, isVerified, outcome.CertificateData); err != nil {
		return fmt.Errorf("updating subject verification: %w", err)
	}

	score := 0
	if result != nil {
		score = result.Score
	}
	attempt := &domain.VerificationAttempt{
		SubjectID:  subject.ID,
		FileName:   input.File.OriginalName,
		Status:     outcome.Status,
		Reason:     outcome.Reason,
		Score:      score,
		Confidence: confidence,
		ArchiveKey: archiveKey,
	}
	if err := s.attempts.Create(ctx, attempt); err != nil {
		return fmt.Errorf("recording verification attempt: %w", err)
	}

	meta, _ := json.Marshal(map[string]interface{}{
		"reason":     outcome.Reason,
		"score":      score,
		"confidence": confidence,
		"file_name":  input.File.OriginalName,
	})
	entry := &domain.ActivityEntry{
		SubjectID:   subject.ID,
		Action:      activityAction(outcome.Status),
		Description: outcome.Message,
		Metadata:    meta,
	}
	if err := s.subjects.AppendActivity(ctx, entry); err != nil {
		return fmt.Errorf("appending activity: %w", err)
	}
	return nil
}

// archive copies the original upload to object storage for reviewer access.
// Best-effort: a failure is logged and the outcome is unaffected.
func (s *verificationService) archive(ctx context.Context, subjectID uuid.UUID, file domain.UploadedFile, data []byte) string {
	key := fmt.Sprintf("subjects/%s/certificates/%s%s", subjectID, uuid.New(), filepath.Ext(file.OriginalName))
	_, err := s.storage.Upload(ctx, port.UploadInput{
		Bucket:      s.s3Cfg.Bucket,
		Key:         key,
		Body:        bytes.NewReader(data),
		ContentType: file.ContentType,
		Size:        int64(len(data)),
	})
	if err != nil {
		log.Printf("verificationService.archive: upload failed for subject %s: %v", subjectID, err)
		return ""
	}
	return key
}

// pruneSupersededArchives removes archived images from earlier attempts once
// a newly verified upload replaces them. Best-effort: the subject keeps at
// most one archived certificate, but a failed delete never surfaces.
func (s *verificationService) pruneSupersededArchives(ctx context.Context, subjectID uuid.UUID, currentKey string) {
	attempts, _, err := s.attempts.ListBySubject(ctx, subjectID, 0, 50)
	if err != nil {
		log.Printf("verificationService.pruneSupersededArchives: listing attempts for subject %s: %v", subjectID, err)
		return
	}
	for _, a := range attempts {
		if a.ArchiveKey == "" || a.ArchiveKey == currentKey {
			continue
		}
		if err := s.storage.Delete(ctx, s.s3Cfg.Bucket, a.ArchiveKey); err != nil {
			log.Printf("verificationService.pruneSupersededArchives: deleting %s: %v", a.ArchiveKey, err)
		}
	}
}

// notify sends the outcome email. Notification failures are logged, never
// propagated.
func (s *verificationService) notify(ctx context.Context, subject *domain.Subject, outcome *domain.VerificationOutcome) {
	if subject.Email == "" {
		return
	}
	if err := s.email.SendOutcomeEmail(ctx, subject.Email, subject.FullName, outcome); err != nil {
		log.Printf("verificationService.notify: outcome email failed for subject %s: %v", subject.ID, err)
	}
}

// processingError downgrades an internal fault to a manual-review outcome so
// the subject is never stuck on a pipeline failure. The failing stage rides
// along in the developer-facing detail.
func (s *verificationService) processingError(subject *domain.Subject, input VerifyInput, stage string, err error) *domain.VerificationOutcome {
	log.Printf("verificationService.Verify: processing error for subject %s (%s) at %s: %v", subject.ID, input.File.OriginalName, stage, err)
	return &domain.VerificationOutcome{
		Status:  domain.VerificationStatusPending,
		Success: false,
		Message: "Something went wrong while verifying the certificate. It has been queued for manual review.",
		Reason:  domain.ReasonProcessingError,
		Details: map[string]interface{}{
			"stage": stage,
		},
	}
}

func activityAction(status domain.VerificationStatus) string {
	switch status {
	case domain.VerificationStatusVerified:
		return domain.ActivityCertificateVerified
	case domain.VerificationStatusPending:
		return domain.ActivityCertificatePending
	default:
		return domain.ActivityCertificateRejected
	}
}

func isPDF(file domain.UploadedFile) bool {
	if file.ContentType == "application/pdf" {
		return true
	}
	return strings.EqualFold(filepath.Ext(file.OriginalName), ".pdf")
}

func deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func derefInt(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}
