package handlers

import (
	"errors"
	"io"
	"mime/multipart"

	"github.com/hemalink/hemalink-backend/internal/dto"
	"github.com/hemalink/hemalink-backend/internal/middleware"
	"github.com/hemalink/hemalink-backend/internal/prediction"
	"github.com/hemalink/hemalink-backend/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type ReportHandler struct {
	reportService *services.ReportService
}

func NewReportHandler(reportService *services.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

func readFormFile(header *multipart.FileHeader) ([]byte, error) {
	f, err := header.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

// Upload classifies the posted image and creates an unverified report.
// Collaborator failures come back as 502 and persist nothing.
func (h *ReportHandler) Upload(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	header, err := c.FormFile("image")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "image file is required",
		})
	}

	image, err := readFormFile(header)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "failed to read image file",
		})
	}

	report, err := h.reportService.Upload(c.Context(), user, header.Filename, image)
	if err != nil {
		if errors.Is(err, prediction.ErrPredictionFailed) {
			return c.Status(fiber.StatusBadGateway).JSON(dto.ErrorResponse{
				Error: true, Message: "Prediction service unavailable",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Internal server error",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(dto.NewReportResponse(report))
}

func (h *ReportHandler) List(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	reports, err := h.reportService.List(user)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Internal server error",
		})
	}
	return c.JSON(dto.NewReportResponses(reports))
}

func (h *ReportHandler) Verify(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	reportID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
			Error: true, Message: "Report not found",
		})
	}

	report, err := h.reportService.Verify(user, reportID)
	if err != nil {
		return h.mapReportError(c, err, "Only doctors can verify reports")
	}
	return c.JSON(dto.NewReportResponse(report))
}

func (h *ReportHandler) SendToPatient(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	reportID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
			Error: true, Message: "Report not found",
		})
	}

	report, err := h.reportService.SendToPatient(user, reportID)
	if err != nil {
		return h.mapReportError(c, err, "Only doctors can send reports to patients")
	}
	return c.JSON(dto.NewReportResponse(report))
}

// ListVerified returns the calling patient's countersigned reports.
func (h *ReportHandler) ListVerified(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	reports, err := h.reportService.ListVerifiedForPatient(user)
	if err != nil {
		return h.mapReportError(c, err, "Only patients can access this endpoint")
	}
	return c.JSON(dto.NewReportResponses(reports))
}

// CreateFromAnalysis bulk-creates pre-verified reports from a doctor's own
// analysis for a list of patient ids.
func (h *ReportHandler) CreateFromAnalysis(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	form, err := c.MultipartForm()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid multipart form",
		})
	}

	patients := form.Value["patients"]
	result := c.FormValue("result")
	confidence := c.FormValue("confidence")

	files := form.File["image"]
	if len(patients) == 0 || len(files) == 0 || result == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Missing required fields",
		})
	}

	image, err := readFormFile(files[0])
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "failed to read image file",
		})
	}

	bulk, err := h.reportService.CreateFromAnalysis(user, patients, files[0].Filename, image, result, confidence)
	if err != nil {
		if errors.Is(err, services.ErrForbidden) {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Error: true, Message: "Only doctors can create reports from analysis",
			})
		}
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	}

	return c.Status(fiber.StatusCreated).JSON(dto.BulkReportResponse{
		CreatedReports:  bulk.Created,
		SkippedPatients: bulk.Skipped,
	})
}

// Stats returns the pending/verified rollup for the calling doctor.
func (h *ReportHandler) Stats(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	stats, err := h.reportService.Stats(user)
	if err != nil {
		return h.mapReportError(c, err, "Only doctors can access this endpoint")
	}

	return c.JSON(dto.ReportStatsResponse{
		PendingReports:  stats.Pending,
		VerifiedReports: stats.Verified,
	})
}

func (h *ReportHandler) mapReportError(c *fiber.Ctx, err error, forbiddenMsg string) error {
	if errors.Is(err, services.ErrForbidden) {
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
			Error: true, Message: forbiddenMsg,
		})
	}
	if errors.Is(err, services.ErrNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
			Error: true, Message: "Report not found",
		})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
		Error: true, Message: "Internal server error",
	})
}
