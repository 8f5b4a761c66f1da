package dto

import (
	"time"

	"github.com/hemalink/hemalink-backend/internal/models"
	"github.com/google/uuid"
)

type SendMessageRequest struct {
	Subject  string `json:"subject"`
	Message  string `json:"message"`
	Priority string `json:"priority"`
}

type PatientMessageResponse struct {
	ID          uuid.UUID `json:"id"`
	PatientName string    `json:"patient_name"`
	DoctorName  string    `json:"doctor_name"`
	Subject     string    `json:"subject"`
	Message     string    `json:"message"`
	Priority    string    `json:"priority"`
	IsRead      bool      `json:"is_read"`
	CreatedAt   time.Time `json:"created_at"`
}

func NewPatientMessageResponse(m *models.PatientMessage) PatientMessageResponse {
	return PatientMessageResponse{
		ID:          m.ID,
		PatientName: m.Patient.Username,
		DoctorName:  m.Doctor.Username,
		Subject:     m.Subject,
		Message:     m.Message,
		Priority:    m.Priority,
		IsRead:      m.IsRead,
		CreatedAt:   m.CreatedAt,
	}
}

func NewPatientMessageResponses(messages []models.PatientMessage) []PatientMessageResponse {
	out := make([]PatientMessageResponse, len(messages))
	for i := range messages {
		out[i] = NewPatientMessageResponse(&messages[i])
	}
	return out
}
