package models

import (
	"time"

	"github.com/google/uuid"
)

// Message priorities.
const (
	PriorityLow    = "low"
	PriorityNormal = "normal"
	PriorityHigh   = "high"
	PriorityUrgent = "urgent"
)

// ValidPriority reports whether p is one of the known priority tags.
func ValidPriority(p string) bool {
	switch p {
	case PriorityLow, PriorityNormal, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

// PatientMessage is a directional note from a patient to their assigned
// doctor. IsRead is flipped only by the recipient doctor.
type PatientMessage struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	PatientID uuid.UUID `gorm:"type:uuid;not null;index" json:"patient_id"`
	DoctorID  uuid.UUID `gorm:"type:uuid;not null;index" json:"doctor_id"`
	Subject   string    `gorm:"not null;size:200" json:"subject"`
	Message   string    `gorm:"type:text;not null" json:"message"`
	Priority  string    `gorm:"size:10;not null;default:'normal'" json:"priority"`
	IsRead    bool      `gorm:"default:false" json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
	Patient   User      `gorm:"foreignKey:PatientID" json:"-"`
	Doctor    User      `gorm:"foreignKey:DoctorID" json:"-"`
}

func (PatientMessage) TableName() string {
	return "patient_messages"
}
