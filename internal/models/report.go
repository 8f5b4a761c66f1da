package models

import (
	"time"

	"github.com/google/uuid"
)

// DiagnosticReport is an uploaded microscopy image plus the label returned
// by the prediction service. A doctor may countersign it (Verified +
// DoctorID) and later release it to the patient.
type DiagnosticReport struct {
	ID            uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UserID        uuid.UUID  `gorm:"type:uuid;not null;index" json:"user"`
	DoctorID      *uuid.UUID `gorm:"type:uuid;index" json:"doctor,omitempty"`
	ImagePath     string     `gorm:"not null;size:500" json:"image"`
	Result        string     `gorm:"not null;size:100" json:"result"`
	GradcamPath   *string    `gorm:"size:500" json:"gradcam_image,omitempty"`
	Verified      bool       `gorm:"default:false" json:"verified"`
	SentToPatient bool       `gorm:"default:false" json:"sent_to_patient"`
	SentAt        *time.Time `json:"sent_at,omitempty"`
	Comments      string     `gorm:"type:text" json:"comments,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	User          User       `gorm:"foreignKey:UserID" json:"-"`
	Doctor        *User      `gorm:"foreignKey:DoctorID;constraint:OnDelete:SET NULL" json:"-"`
}

func (DiagnosticReport) TableName() string {
	return "diagnostic_reports"
}
