package routes

import (
	"time"

	"github.com/hemalink/hemalink-backend/internal/config"
	"github.com/hemalink/hemalink-backend/internal/handlers"
	"github.com/hemalink/hemalink-backend/internal/middleware"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"gorm.io/gorm"
)

func Setup(
	app *fiber.App,
	cfg *config.Config,
	db *gorm.DB,
	authHandler *handlers.AuthHandler,
	userHandler *handlers.UserHandler,
	assignmentHandler *handlers.AssignmentHandler,
	reportHandler *handlers.ReportHandler,
	patientReportHandler *handlers.PatientReportHandler,
	messageHandler *handlers.MessageHandler,
	healthHandler *handlers.HealthHandler,
) {
	api := app.Group("/api")

	// General API rate limiter: 60 req/min per IP
	api.Use(limiter.New(limiter.Config{
		Max:               60,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))

	api.Get("/health", healthHandler.Check)

	// Auth — public, with a stricter rate limit: 10 req/min per IP
	authLimiter := limiter.New(limiter.Config{
		Max:               10,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	})
	api.Post("/register", authLimiter, authHandler.Register)
	api.Post("/login", authLimiter, authHandler.Login)
	api.Post("/refresh", authLimiter, authHandler.Refresh)

	// Everything below requires a valid token and a resolvable user.
	protected := api.Group("", middleware.JWTProtected(cfg), middleware.LoadUser(db))

	protected.Post("/logout", authHandler.Logout)

	// Profiles
	protected.Get("/user", userHandler.Me)
	protected.Put("/user", userHandler.Update)
	protected.Get("/user/:id", userHandler.Get)

	// Doctor-patient linking
	protected.Post("/patients/link-doctor", assignmentHandler.LinkDoctor)
	protected.Get("/doctor/patients", assignmentHandler.ListPatients)
	protected.Delete("/doctor/patients/:id/remove", assignmentHandler.RemovePatient)

	// Diagnostic reports
	protected.Get("/reports", reportHandler.List)
	protected.Post("/upload", reportHandler.Upload)
	protected.Put("/verify-report/:id", reportHandler.Verify)
	protected.Put("/send-report-to-patient/:id", reportHandler.SendToPatient)
	protected.Get("/patient-microscopic-reports", reportHandler.ListVerified)
	protected.Post("/create-report-from-analysis", reportHandler.CreateFromAnalysis)
	protected.Get("/doctor-report-stats", reportHandler.Stats)

	// Patient-uploaded documents
	protected.Post("/upload-patient-report", patientReportHandler.Upload)
	protected.Get("/doctor-reports", patientReportHandler.ListForDoctor)
	protected.Get("/patient-reports", patientReportHandler.ListForPatient)
	protected.Put("/verify-patient-report/:id", patientReportHandler.Verify)

	// Messages
	protected.Post("/send-message", messageHandler.Send)
	protected.Get("/patient-messages", messageHandler.List)
	protected.Put("/mark-message-read/:id", messageHandler.MarkRead)
	protected.Post("/contact-doctor", messageHandler.ContactDoctor)
}
