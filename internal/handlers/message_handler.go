package handlers

import (
	"errors"

	"github.com/hemalink/hemalink-backend/internal/dto"
	"github.com/hemalink/hemalink-backend/internal/middleware"
	"github.com/hemalink/hemalink-backend/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type MessageHandler struct {
	messageService *services.MessageService
}

func NewMessageHandler(messageService *services.MessageService) *MessageHandler {
	return &MessageHandler{messageService: messageService}
}

func (h *MessageHandler) Send(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	var req dto.SendMessageRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	message, err := h.messageService.Send(user, &req)
	if err != nil {
		if errors.Is(err, services.ErrForbidden) {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Error: true, Message: "Only patients can send messages",
			})
		}
		if errors.Is(err, services.ErrNoAssignedDoctor) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Error: true, Message: "You must be linked to a doctor to send messages.",
			})
		}
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	}

	return c.Status(fiber.StatusCreated).JSON(dto.NewPatientMessageResponse(message))
}

func (h *MessageHandler) List(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	messages, err := h.messageService.List(user)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Internal server error",
		})
	}
	return c.JSON(dto.NewPatientMessageResponses(messages))
}

func (h *MessageHandler) MarkRead(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	messageID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
			Error: true, Message: "Message not found",
		})
	}

	message, err := h.messageService.MarkRead(user, messageID)
	if err != nil {
		if errors.Is(err, services.ErrForbidden) {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Error: true, Message: "Only doctors can mark messages as read",
			})
		}
		if errors.Is(err, services.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: "Message not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Internal server error",
		})
	}

	return c.JSON(dto.NewPatientMessageResponse(message))
}

// ContactDoctor accepts a free-form contact note. Delivery is out of scope;
// the note is acknowledged only.
func (h *MessageHandler) ContactDoctor(c *fiber.Ctx) error {
	var body struct {
		Message string `json:"message"`
	}
	if err := c.BodyParser(&body); err != nil || body.Message == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "message is required",
		})
	}
	return c.JSON(dto.MessageResponse{Message: "Message sent successfully"})
}
