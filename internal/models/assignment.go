package models

import (
	"time"

	"github.com/google/uuid"
)

// Assignment log sources.
const (
	AssignmentSourceDoctorCode    = "doctor_code"
	AssignmentSourceDoctorRemoval = "doctor_removal"
)

// DoctorAssignment is the append-only audit trail of link and unlink
// events. Rows are never updated or deleted by normal flows.
type DoctorAssignment struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	PatientID uuid.UUID `gorm:"type:uuid;not null;index" json:"patient_id"`
	DoctorID  uuid.UUID `gorm:"type:uuid;not null;index" json:"doctor_id"`
	Source    string    `gorm:"size:32;not null;default:'doctor_code'" json:"source"`
	Note      string    `gorm:"type:text" json:"note,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	Patient   User      `gorm:"foreignKey:PatientID" json:"-"`
	Doctor    User      `gorm:"foreignKey:DoctorID" json:"-"`
}

func (DoctorAssignment) TableName() string {
	return "doctor_assignment_logs"
}
