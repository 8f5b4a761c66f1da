package models

import (
	"time"

	"github.com/google/uuid"
)

// PatientReport is a patient-supplied document (typically a PDF) addressed
// to a specific doctor by code at upload time. It runs its own verification
// pipeline, independent of DiagnosticReport.
type PatientReport struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	PatientID  uuid.UUID `gorm:"type:uuid;not null;index" json:"patient_id"`
	DoctorID   uuid.UUID `gorm:"type:uuid;not null;index" json:"doctor_id"`
	FilePath   string    `gorm:"not null;size:500" json:"report_file"`
	Verified   bool      `gorm:"default:false" json:"verified"`
	Comments   string    `gorm:"type:text" json:"comments,omitempty"`
	UploadedAt time.Time `gorm:"autoCreateTime" json:"uploaded_at"`
	Patient    User      `gorm:"foreignKey:PatientID" json:"-"`
	Doctor     User      `gorm:"foreignKey:DoctorID" json:"-"`
}

func (PatientReport) TableName() string {
	return "patient_reports"
}
