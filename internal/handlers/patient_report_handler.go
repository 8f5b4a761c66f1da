package handlers

import (
	"errors"

	"github.com/hemalink/hemalink-backend/internal/dto"
	"github.com/hemalink/hemalink-backend/internal/middleware"
	"github.com/hemalink/hemalink-backend/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type PatientReportHandler struct {
	patientReportService *services.PatientReportService
}

func NewPatientReportHandler(patientReportService *services.PatientReportService) *PatientReportHandler {
	return &PatientReportHandler{patientReportService: patientReportService}
}

// Upload stores a patient document addressed to a doctor by code.
func (h *PatientReportHandler) Upload(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	header, err := c.FormFile("report_file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "report_file is required",
		})
	}

	data, err := readFormFile(header)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "failed to read report file",
		})
	}

	report, err := h.patientReportService.Upload(user, c.FormValue("doctor_code"), header.Filename, data)
	if err != nil {
		if errors.Is(err, services.ErrInvalidDoctorCode) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Error: true, Message: "Invalid doctor code.",
			})
		}
		if errors.Is(err, services.ErrForbidden) {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Error: true, Message: "Only patients can upload reports",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Internal server error",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(dto.NewPatientReportResponse(report))
}

// ListForDoctor returns documents addressed to the calling doctor.
func (h *PatientReportHandler) ListForDoctor(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	reports, err := h.patientReportService.ListForDoctor(user)
	if err != nil {
		return h.mapError(c, err, "Only doctors can access this endpoint")
	}
	return c.JSON(dto.NewPatientReportResponses(reports))
}

// ListForPatient returns the caller's own uploads.
func (h *PatientReportHandler) ListForPatient(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	reports, err := h.patientReportService.ListForPatient(user)
	if err != nil {
		return h.mapError(c, err, "Only patients can access this endpoint")
	}
	return c.JSON(dto.NewPatientReportResponses(reports))
}

func (h *PatientReportHandler) Verify(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	reportID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
			Error: true, Message: "Report not found",
		})
	}

	var req dto.VerifyPatientReportRequest
	if err := c.BodyParser(&req); err != nil && !errors.Is(err, fiber.ErrUnprocessableEntity) {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	report, err := h.patientReportService.Verify(user, reportID, req.Comments)
	if err != nil {
		return h.mapError(c, err, "Only doctors can verify reports")
	}
	return c.JSON(dto.NewPatientReportResponse(report))
}

func (h *PatientReportHandler) mapError(c *fiber.Ctx, err error, forbiddenMsg string) error {
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
