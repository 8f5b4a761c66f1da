package handlers

import (
	"errors"
	"fmt"

	"github.com/hemalink/hemalink-backend/internal/dto"
	"github.com/hemalink/hemalink-backend/internal/middleware"
	"github.com/hemalink/hemalink-backend/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type AssignmentHandler struct {
	assignmentService *services.AssignmentService
}

func NewAssignmentHandler(assignmentService *services.AssignmentService) *AssignmentHandler {
	return &AssignmentHandler{assignmentService: assignmentService}
}

// LinkDoctor attaches the calling patient to a doctor by code. The error
// body uses the `detail` key the mobile client already parses.
func (h *AssignmentHandler) LinkDoctor(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	var req dto.LinkDoctorRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.DetailResponse{
			Detail: "Invalid doctor code or not available.",
		})
	}

	result, err := h.assignmentService.LinkDoctor(user, req.DoctorCode)
	if err != nil {
		if errors.Is(err, services.ErrInvalidDoctorCode) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.DetailResponse{
				Detail: "Invalid doctor code or not available.",
			})
		}
		if errors.Is(err, services.ErrNotAPatient) {
			return c.Status(fiber.StatusForbidden).JSON(dto.DetailResponse{
				Detail: "Only patients can link to doctors.",
			})
		}
		if errors.Is(err, services.ErrAlreadyAssigned) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.DetailResponse{
				Detail: "Patient already assigned to another doctor.",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Internal server error",
		})
	}

	if result.AlreadyLinked {
		return c.JSON(dto.LinkDoctorResponse{
			Message: "Doctor already linked.",
			Doctor:  dto.NewDoctorSummary(result.Doctor),
		})
	}

	return c.JSON(dto.LinkDoctorResponse{
		Message: fmt.Sprintf("Doctor successfully linked. You will now see reports and messages from Dr. %s.", result.Doctor.FullName()),
		Doctor:  dto.NewDoctorSummary(result.Doctor),
	})
}

// ListPatients returns the calling doctor's roster.
func (h *AssignmentHandler) ListPatients(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	patients, err := h.assignmentService.ListPatients(user)
	if err != nil {
		if errors.Is(err, services.ErrForbidden) {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Error: true, Message: "Only doctors can access this endpoint",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Internal server error",
		})
	}

	out := make([]dto.UserResponse, len(patients))
	for i := range patients {
		out[i] = dto.NewUserResponse(&patients[i])
	}
	return c.JSON(out)
}

// RemovePatient detaches a patient from the calling doctor's roster.
func (h *AssignmentHandler) RemovePatient(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	patientID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.DetailResponse{
			Detail: "Patient not found or not assigned to you.",
		})
	}

	if err := h.assignmentService.RemovePatient(user, patientID); err != nil {
		if errors.Is(err, services.ErrForbidden) {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Error: true, Message: "Only doctors can access this endpoint",
			})
		}
		if errors.Is(err, services.ErrPatientNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.DetailResponse{
				Detail: "Patient not found or not assigned to you.",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Internal server error",
		})
	}

	return c.JSON(dto.MessageResponse{Message: "Patient removed successfully."})
}
