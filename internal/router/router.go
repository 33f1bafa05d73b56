package router

import (
	"github.com/gin-gonic/gin"

	"samarth/internal/config"
	"samarth/internal/domain"
	"samarth/internal/handler"
	"samarth/internal/middleware"
)

// Setup configures the Gin engine with all routes and middleware.
func Setup(
	cfg *config.Config,
	subjectH *handler.SubjectHandler,
	verificationH *handler.VerificationHandler,
	reportH *handler.ReportHandler,
	healthH *handler.HealthHandler,
) *gin.Engine {
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.CORS(cfg.CORS.AllowedOrigins))

	// Health checks
	r.GET("/healthz", healthH.Liveness)
	r.GET("/readyz", healthH.Readiness)

	v1 := r.Group("/api/v1")

	// Protected routes - require valid JWT
	protected := v1.Group("")
	protected.Use(middleware.AuthMiddleware(&cfg.JWT))

	// Subject routes
	subjects := protected.Group("/subjects")
	subjects.POST("", middleware.RequireRole(domain.RoleAdmin, domain.RoleReviewer), subjectH.Create)
	subjects.GET("/:id", subjectH.GetByID)
	subjects.POST("/:id/certificate", verificationH.Verify)

	// Reviewer routes
	reviewer := middleware.RequireRole(domain.RoleAdmin, domain.RoleReviewer)
	attempts := protected.Group("/attempts")
	attempts.GET("", reviewer, reportH.ListAttempts)
	attempts.GET("/:id/archive", reviewer, reportH.ArchiveURL)
	attempts.GET("/:id/archive/download", reviewer, reportH.DownloadArchive)

	reports := protected.Group("/reports")
	reports.GET("/pending.xlsx", reviewer, reportH.ExportPending)

	return r
}
