package main

import (
	"fmt"
	"log"

	"samarth/internal/config"
	"samarth/internal/email/noop"
	"samarth/internal/email/ses"
	"samarth/internal/handler"
	"samarth/internal/ocr/tesseract"
	"samarth/internal/port"
	"samarth/internal/repository/postgres"
	"samarth/internal/router"
	"samarth/internal/service"
	"samarth/internal/storage/local"
	s3storage "samarth/internal/storage/s3"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	db, err := postgres.NewDB(&cfg.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	// Initialize repositories
	subjectRepo := postgres.NewSubjectRepo(db)
	attemptRepo := postgres.NewAttemptRepo(db)

	// Initialize storage
	s3Client, err := s3storage.NewS3Client(&cfg.S3)
	if err != nil {
		return fmt.Errorf("failed to initialize S3 client: %w", err)
	}
	tempStore, err := local.NewTempStore(cfg.Upload.TempDir)
	if err != nil {
		return fmt.Errorf("failed to initialize temp store: %w", err)
	}

	// Initialize email sender
	var emailSender port.EmailSender
	switch cfg.Email.Provider {
	case "ses":
		emailSender, err = ses.NewSESSender(cfg.Email.Region, cfg.Email.FromAddress, cfg.Email.FromName)
		if err != nil {
			return fmt.Errorf("failed to initialize SES sender: %w", err)
		}
	default:
		emailSender = noop.NewNoopSender()
	}

	// Initialize OCR engine
	engine := tesseract.NewEngine()

	// Initialize services
	verificationSvc := service.NewVerificationService(
		subjectRepo, attemptRepo, engine, tempStore, s3Client, emailSender,
		&cfg.S3, &cfg.OCR, &cfg.Verification,
	)
	subjectSvc := service.NewSubjectService(subjectRepo)
	reviewSvc := service.NewReviewService(attemptRepo, s3Client, &cfg.S3)

	// Initialize handlers
	subjectH := handler.NewSubjectHandler(subjectSvc)
	verificationH := handler.NewVerificationHandler(verificationSvc, tempStore, &cfg.Upload)
	reportH := handler.NewReportHandler(reviewSvc)
	healthH := handler.NewHealthHandler(db)

	// Setup router
	r := router.Setup(cfg, subjectH, verificationH, reportH, healthH)

	log.Printf("Server starting on %s", cfg.Server.Port)
	if err := r.Run(cfg.Server.Port); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}

	return nil
}
