package services

import (
	"errors"
	"fmt"

	"github.com/hemalink/hemalink-backend/internal/dto"
	"github.com/hemalink/hemalink-backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrNoAssignedDoctor = errors.New("you must be linked to a doctor to send messages")

// MessageService routes prioritized notes from patients to their assigned
// doctor.
type MessageService struct {
	db *gorm.DB
}

func NewMessageService(db *gorm.DB) *MessageService {
	return &MessageService{db: db}
}

// Send creates a message addressed to the caller's assigned doctor.
func (s *MessageService) Send(caller *models.User, req *dto.SendMessageRequest) (*models.PatientMessage, error) {
	if !caller.Role.IsPatient() {
		return nil, ErrForbidden
	}
	if caller.AssignedDoctorID == nil {
		return nil, ErrNoAssignedDoctor
	}
	if req.Subject == "" || req.Message == "" {
		return nil, errors.New("subject and message are required")
	}

	priority := req.Priority
	if priority == "" {
		priority = models.PriorityNormal
	}
	if !models.ValidPriority(priority) {
		return nil, errors.New("priority must be one of low, normal, high, urgent")
	}

	var doctor models.User
	if err := s.db.First(&doctor, "id = ?", *caller.AssignedDoctorID).Error; err != nil {
		return nil, ErrNoAssignedDoctor
	}

	message := models.PatientMessage{
		ID:        uuid.New(),
		PatientID: caller.ID,
		DoctorID:  doctor.ID,
		Subject:   req.Subject,
		Message:   req.Message,
		Priority:  priority,
	}
	if err := s.db.Create(&message).Error; err != nil {
		return nil, fmt.Errorf("failed to create message: %w", err)
	}

	message.Patient = *caller
	message.Doctor = doctor
	return &message, nil
}

// List returns received messages for doctors and sent messages for
// patients.
func (s *MessageService) List(caller *models.User) ([]models.PatientMessage, error) {
	query := s.db.Preload("Patient").Preload("Doctor").Order("created_at DESC")
	if caller.Role.IsDoctor() {
		query = query.Where("doctor_id = ?", caller.ID)
	} else {
		query = query.Where("patient_id = ?", caller.ID)
	}

	var messages []models.PatientMessage
	if err := query.Find(&messages).Error; err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	return messages, nil
}

// MarkRead flips is_read on a message received by the caller. Messages
// addressed to other doctors read as not found.
func (s *MessageService) MarkRead(caller *models.User, messageID uuid.UUID) (*models.PatientMessage, error) {
	if !caller.Role.IsDoctor() {
		return nil, ErrForbidden
	}

	var message models.PatientMessage
	err := s.db.Preload("Patient").Preload("Doctor").
		First(&message, "id = ? AND doctor_id = ?", messageID, caller.ID).Error
	if err != nil {
		return nil, ErrNotFound
	}

	if err := s.db.Model(&message).Update("is_read", true).Error; err != nil {
		return nil, fmt.Errorf("failed to mark message read: %w", err)
	}

	message.IsRead = true
	return &message, nil
}
