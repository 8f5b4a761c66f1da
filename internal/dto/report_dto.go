package dto

import (
	"time"

	"github.com/hemalink/hemalink-backend/internal/models"
	"github.com/google/uuid"
)

type ReportResponse struct {
	ID            uuid.UUID  `json:"id"`
	UserID        uuid.UUID  `json:"user"`
	UserName      string     `json:"user_name"`
	DoctorID      *uuid.UUID `json:"doctor,omitempty"`
	DoctorName    string     `json:"doctor_name,omitempty"`
	Image         string     `json:"image"`
	Result        string     `json:"result"`
	GradcamImage  *string    `json:"gradcam_image,omitempty"`
	Verified      bool       `json:"verified"`
	SentToPatient bool       `json:"sent_to_patient"`
	SentAt        *time.Time `json:"sent_at,omitempty"`
	Comments      string     `json:"comments,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

func NewReportResponse(r *models.DiagnosticReport) ReportResponse {
	resp := ReportResponse{
		ID:            r.ID,
		UserID:        r.UserID,
		UserName:      r.User.Username,
		DoctorID:      r.DoctorID,
		Image:         r.ImagePath,
		Result:        r.Result,
		GradcamImage:  r.GradcamPath,
		Verified:      r.Verified,
		SentToPatient: r.SentToPatient,
		SentAt:        r.SentAt,
		Comments:      r.Comments,
		CreatedAt:     r.CreatedAt,
	}
	if r.Doctor != nil {
		resp.DoctorName = r.Doctor.Username
	}
	return resp
}

func NewReportResponses(reports []models.DiagnosticReport) []ReportResponse {
	out := make([]ReportResponse, len(reports))
	for i := range reports {
		out[i] = NewReportResponse(&reports[i])
	}
	return out
}

type PatientReportResponse struct {
	ID          uuid.UUID `json:"id"`
	PatientName string    `json:"patient_name"`
	DoctorName  string    `json:"doctor_name"`
	ReportFile  string    `json:"report_file"`
	UploadedAt  time.Time `json:"uploaded_at"`
	Verified    bool      `json:"verified"`
	Comments    string    `json:"comments,omitempty"`
}

func NewPatientReportResponse(r *models.PatientReport) PatientReportResponse {
	return PatientReportResponse{
		ID:          r.ID,
		PatientName: r.Patient.Username,
		DoctorName:  r.Doctor.Username,
		ReportFile:  r.FilePath,
		UploadedAt:  r.UploadedAt,
		Verified:    r.Verified,
		Comments:    r.Comments,
	}
}

func NewPatientReportResponses(reports []models.PatientReport) []PatientReportResponse {
	out := make([]PatientReportResponse, len(reports))
	for i := range reports {
		out[i] = NewPatientReportResponse(&reports[i])
	}
	return out
}

type VerifyPatientReportRequest struct {
	Comments string `json:"comments"`
}

type BulkReportResponse struct {
	CreatedReports  []uuid.UUID `json:"created_reports"`
	SkippedPatients []string    `json:"skipped_patients,omitempty"`
}

type ReportStatsResponse struct {
	PendingReports  int64 `json:"pending_reports"`
	VerifiedReports int64 `json:"verified_reports"`
}
