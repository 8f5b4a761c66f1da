package services

import (
	"fmt"
	"strings"

	"github.com/hemalink/hemalink-backend/internal/models"
	"github.com/hemalink/hemalink-backend/internal/storage"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PatientReportService owns patient-supplied documents: upload addressed to
// a doctor by code, listings for both sides, and doctor verification. It is
// a separate pipeline from DiagnosticReport on purpose.
type PatientReportService struct {
	db    *gorm.DB
	files FileStore
}

func NewPatientReportService(db *gorm.DB, files FileStore) *PatientReportService {
	return &PatientReportService{db: db, files: files}
}

// Upload stores the document and addresses it to the doctor owning code.
func (s *PatientReportService) Upload(caller *models.User, doctorCode, filename string, data []byte) (*models.PatientReport, error) {
	if !caller.Role.IsPatient() {
		return nil, ErrForbidden
	}

	code := strings.ToUpper(strings.TrimSpace(doctorCode))
	var doctor models.User
	if err := s.db.Where("doctor_code = ? AND role = ?", code, models.RoleDoctor).First(&doctor).Error; err != nil {
		return nil, ErrInvalidDoctorCode
	}

	path, err := s.files.Save(storage.PrefixReports, filename, data)
	if err != nil {
		return nil, fmt.Errorf("failed to store report file: %w", err)
	}

	report := models.PatientReport{
		ID:        uuid.New(),
		PatientID: caller.ID,
		DoctorID:  doctor.ID,
		FilePath:  path,
	}
	if err := s.db.Create(&report).Error; err != nil {
		return nil, fmt.Errorf("failed to create patient report: %w", err)
	}

	report.Patient = *caller
	report.Doctor = doctor
	return &report, nil
}

// ListForDoctor returns documents addressed to the calling doctor.
func (s *PatientReportService) ListForDoctor(caller *models.User) ([]models.PatientReport, error) {
	if !caller.Role.IsDoctor() {
		return nil, ErrForbidden
	}
	return s.list("doctor_id = ?", caller.ID)
}

// ListForPatient returns the caller's own uploads.
func (s *PatientReportService) ListForPatient(caller *models.User) ([]models.PatientReport, error) {
	if !caller.Role.IsPatient() {
		return nil, ErrForbidden
	}
	return s.list("patient_id = ?", caller.ID)
}

func (s *PatientReportService) list(cond string, arg interface{}) ([]models.PatientReport, error) {
	var reports []models.PatientReport
	err := s.db.Preload("Patient").Preload("Doctor").
		Where(cond, arg).
		Order("uploaded_at DESC").
		Find(&reports).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list patient reports: %w", err)
	}
	return reports, nil
}

// Verify countersigns a document addressed to the caller. Documents
// addressed elsewhere read as not found.
func (s *PatientReportService) Verify(caller *models.User, reportID uuid.UUID, comments string) (*models.PatientReport, error) {
	if !caller.Role.IsDoctor() {
		return nil, ErrForbidden
	}

	var report models.PatientReport
	err := s.db.Preload("Patient").Preload("Doctor").
		First(&report, "id = ? AND doctor_id = ?", reportID, caller.ID).Error
	if err != nil {
		return nil, ErrNotFound
	}

	updates := map[string]interface{}{
		"verified": true,
		"comments": comments,
	}
	if err := s.db.Model(&report).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to verify patient report: %w", err)
	}

	report.Verified = true
	report.Comments = comments
	return &report, nil
}
