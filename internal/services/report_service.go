package services

import (
	"context"
	"fmt"
	"time"

	"github.com/hemalink/hemalink-backend/internal/models"
	"github.com/hemalink/hemalink-backend/internal/storage"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Predictor is the external classification collaborator.
type Predictor interface {
	Predict(ctx context.Context, filename string, image []byte) (string, error)
}

// FileStore persists uploaded artifacts and returns their stored path.
type FileStore interface {
	Save(prefix, filename string, data []byte) (string, error)
}

// ReportService owns diagnostic report uploads, countersigning, release to
// patients, bulk creation from a doctor's own analysis, and the per-doctor
// stats rollup.
type ReportService struct {
	db        *gorm.DB
	predictor Predictor
	files     FileStore
}

func NewReportService(db *gorm.DB, predictor Predictor, files FileStore) *ReportService {
	return &ReportService{db: db, predictor: predictor, files: files}
}

// Upload classifies the image and persists it as an unverified report. The
// prediction call comes first: if it fails, neither the file nor the row is
// saved.
func (s *ReportService) Upload(ctx context.Context, caller *models.User, filename string, image []byte) (*models.DiagnosticReport, error) {
	result, err := s.predictor.Predict(ctx, filename, image)
	if err != nil {
		return nil, err
	}

	path, err := s.files.Save(storage.PrefixUploads, filename, image)
	if err != nil {
		return nil, fmt.Errorf("failed to store uploaded image: %w", err)
	}

	report := models.DiagnosticReport{
		ID:        uuid.New(),
		UserID:    caller.ID,
		ImagePath: path,
		Result:    result,
	}
	if err := s.db.Create(&report).Error; err != nil {
		return nil, fmt.Errorf("failed to create report: %w", err)
	}

	report.User = *caller
	return &report, nil
}

// List returns every report for doctors and only the caller's own for
// patients.
func (s *ReportService) List(caller *models.User) ([]models.DiagnosticReport, error) {
	query := s.db.Preload("User").Preload("Doctor").Order("created_at DESC")
	if !caller.Role.IsDoctor() {
		query = query.Where("user_id = ?", caller.ID)
	}

	var reports []models.DiagnosticReport
	if err := query.Find(&reports).Error; err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}
	return reports, nil
}

// Verify countersigns the report: verified flag plus the countersigning
// doctor, in one step.
func (s *ReportService) Verify(caller *models.User, reportID uuid.UUID) (*models.DiagnosticReport, error) {
	if !caller.Role.IsDoctor() {
		return nil, ErrForbidden
	}

	var report models.DiagnosticReport
	if err := s.db.Preload("User").First(&report, "id = ?", reportID).Error; err != nil {
		return nil, ErrNotFound
	}

	updates := map[string]interface{}{
		"verified":  true,
		"doctor_id": caller.ID,
	}
	if err := s.db.Model(&report).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to verify report: %w", err)
	}

	report.Verified = true
	report.DoctorID = &caller.ID
	report.Doctor = caller
	return &report, nil
}

// SendToPatient marks the report released, stamping the send time.
func (s *ReportService) SendToPatient(caller *models.User, reportID uuid.UUID) (*models.DiagnosticReport, error) {
	if !caller.Role.IsDoctor() {
		return nil, ErrForbidden
	}

	var report models.DiagnosticReport
	if err := s.db.Preload("User").Preload("Doctor").First(&report, "id = ?", reportID).Error; err != nil {
		return nil, ErrNotFound
	}

	now := time.Now().UTC()
	updates := map[string]interface{}{
		"sent_to_patient": true,
		"sent_at":         now,
	}
	if err := s.db.Model(&report).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to send report: %w", err)
	}

	report.SentToPatient = true
	report.SentAt = &now
	return &report, nil
}

// ListVerifiedForPatient returns the caller's countersigned reports.
func (s *ReportService) ListVerifiedForPatient(caller *models.User) ([]models.DiagnosticReport, error) {
	if !caller.Role.IsPatient() {
		return nil, ErrForbidden
	}

	var reports []models.DiagnosticReport
	err := s.db.Preload("User").Preload("Doctor").
		Where("user_id = ? AND verified = ? AND doctor_id IS NOT NULL", caller.ID, true).
		Order("created_at DESC").
		Find(&reports).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list verified reports: %w", err)
	}
	return reports, nil
}

// BulkCreateResult separates the patients that received a report from the
// ids that were skipped, instead of dropping failures silently.
type BulkCreateResult struct {
	Created []uuid.UUID
	Skipped []string
}

// CreateFromAnalysis stores the analysis image once and fans it out as a
// pre-verified report to each resolvable patient id. Unknown ids and
// non-patient accounts land in Skipped.
func (s *ReportService) CreateFromAnalysis(caller *models.User, patientIDs []string, filename string, image []byte, result, confidence string) (*BulkCreateResult, error) {
	if !caller.Role.IsDoctor() {
		return nil, ErrForbidden
	}
	if len(patientIDs) == 0 || len(image) == 0 || result == "" {
		return nil, fmt.Errorf("patients, image and result are required")
	}

	path, err := s.files.Save(storage.PrefixUploads, filename, image)
	if err != nil {
		return nil, fmt.Errorf("failed to store analysis image: %w", err)
	}

	out := &BulkCreateResult{}
	for _, raw := range patientIDs {
		patientID, err := uuid.Parse(raw)
		if err != nil {
			out.Skipped = append(out.Skipped, raw)
			continue
		}

		var patient models.User
		if err := s.db.Where("id = ? AND role = ?", patientID, models.RolePatient).First(&patient).Error; err != nil {
			out.Skipped = append(out.Skipped, raw)
			continue
		}

		report := models.DiagnosticReport{
			ID:        uuid.New(),
			UserID:    patient.ID,
			DoctorID:  &caller.ID,
			ImagePath: path,
			Result:    result,
			Verified:  true,
			Comments:  fmt.Sprintf("Analysis confidence: %s", confidence),
		}
		if err := s.db.Create(&report).Error; err != nil {
			out.Skipped = append(out.Skipped, raw)
			continue
		}
		out.Created = append(out.Created, report.ID)
	}

	return out, nil
}

// ReportStats is the two-scalar rollup across both content kinds.
type ReportStats struct {
	Pending  int64
	Verified int64
}

// Stats counts diagnostic reports owned by the caller's currently assigned
// patients and patient documents addressed to the caller, each split by
// verified, then sums the two kinds.
func (s *ReportService) Stats(caller *models.User) (*ReportStats, error) {
	if !caller.Role.IsDoctor() {
		return nil, ErrForbidden
	}

	patientIDs := s.db.Model(&models.User{}).
		Select("id").
		Where("assigned_doctor_id = ?", caller.ID)

	var pendingDiagnostic, verifiedDiagnostic int64
	if err := s.db.Model(&models.DiagnosticReport{}).
		Where("user_id IN (?) AND verified = ?", patientIDs, false).
		Count(&pendingDiagnostic).Error; err != nil {
		return nil, fmt.Errorf("failed to count pending reports: %w", err)
	}
	if err := s.db.Model(&models.DiagnosticReport{}).
		Where("user_id IN (?) AND verified = ?", patientIDs, true).
		Count(&verifiedDiagnostic).Error; err != nil {
		return nil, fmt.Errorf("failed to count verified reports: %w", err)
	}

	var pendingUploaded, verifiedUploaded int64
	if err := s.db.Model(&models.PatientReport{}).
		Where("doctor_id = ? AND verified = ?", caller.ID, false).
		Count(&pendingUploaded).Error; err != nil {
		return nil, fmt.Errorf("failed to count pending patient reports: %w", err)
	}
	if err := s.db.Model(&models.PatientReport{}).
		Where("doctor_id = ? AND verified = ?", caller.ID, true).
		Count(&verifiedUploaded).Error; err != nil {
		return nil, fmt.Errorf("failed to count verified patient reports: %w", err)
	}

	return &ReportStats{
		Pending:  pendingDiagnostic + pendingUploaded,
		Verified: verifiedDiagnostic + verifiedUploaded,
	}, nil
}
