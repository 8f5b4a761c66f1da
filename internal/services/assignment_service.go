package services

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/hemalink/hemalink-backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrInvalidDoctorCode = errors.New("invalid doctor code or not available")
	ErrNotAPatient       = errors.New("only patients can link to doctors")
	ErrAlreadyAssigned   = errors.New("patient already assigned to another doctor")
	ErrPatientNotFound   = errors.New("patient not found or not assigned to you")
	ErrCodeExhausted     = errors.New("could not generate a unique doctor code")
)

const (
	doctorCodeAlphabet    = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	doctorCodeLength      = 8
	doctorCodeMaxAttempts = 10
)

// AssignmentService owns the doctor-patient link: code generation, linking
// via code, removal, and the append-only assignment log.
type AssignmentService struct {
	db *gorm.DB
}

func NewAssignmentService(db *gorm.DB) *AssignmentService {
	return &AssignmentService{db: db}
}

// GenerateDoctorCode draws 8-character uppercase alphanumeric codes from a
// cryptographically strong source until one is unused. Attempts are capped;
// the unique index on users.doctor_code backstops any lost race.
func (s *AssignmentService) GenerateDoctorCode() (string, error) {
	for attempt := 0; attempt < doctorCodeMaxAttempts; attempt++ {
		code, err := randomDoctorCode()
		if err != nil {
			return "", err
		}

		var count int64
		if err := s.db.Model(&models.User{}).Where("doctor_code = ?", code).Count(&count).Error; err != nil {
			return "", fmt.Errorf("failed to check doctor code uniqueness: %w", err)
		}
		if count == 0 {
			return code, nil
		}
	}
	return "", ErrCodeExhausted
}

func randomDoctorCode() (string, error) {
	b := make([]byte, doctorCodeLength)
	max := big.NewInt(int64(len(doctorCodeAlphabet)))
	for i := range b {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("failed to draw random code character: %w", err)
		}
		b[i] = doctorCodeAlphabet[n.Int64()]
	}
	return string(b), nil
}

// LinkResult reports the linked doctor and whether the link already existed.
type LinkResult struct {
	Doctor        *models.User
	AlreadyLinked bool
}

// LinkDoctor attaches the calling patient to the doctor owning code. Codes
// match case-insensitively. Linking to the current doctor is a no-op
// success; linking while assigned elsewhere fails without touching state.
// The NULL-guarded update and the log append commit together, so a lost
// race surfaces as ErrAlreadyAssigned instead of a second link.
func (s *AssignmentService) LinkDoctor(patient *models.User, code string) (*LinkResult, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return nil, ErrInvalidDoctorCode
	}

	var doctor models.User
	if err := s.db.Where("doctor_code = ? AND role = ?", code, models.RoleDoctor).First(&doctor).Error; err != nil {
		return nil, ErrInvalidDoctorCode
	}

	if !patient.Role.IsPatient() {
		return nil, ErrNotAPatient
	}

	if patient.AssignedDoctorID != nil {
		if *patient.AssignedDoctorID == doctor.ID {
			return &LinkResult{Doctor: &doctor, AlreadyLinked: true}, nil
		}
		return nil, ErrAlreadyAssigned
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.User{}).
			Where("id = ? AND assigned_doctor_id IS NULL", patient.ID).
			Update("assigned_doctor_id", doctor.ID)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrAlreadyAssigned
		}

		return tx.Create(&models.DoctorAssignment{
			ID:        uuid.New(),
			PatientID: patient.ID,
			DoctorID:  doctor.ID,
			Source:    models.AssignmentSourceDoctorCode,
		}).Error
	})
	if err != nil {
		return nil, err
	}

	patient.AssignedDoctorID = &doctor.ID
	return &LinkResult{Doctor: &doctor}, nil
}

// RemovePatient detaches patientID from the calling doctor. The update is
// guarded on the current assignment, so a patient linked to someone else
// (or to nobody) reads as not found and no log row is written.
func (s *AssignmentService) RemovePatient(doctor *models.User, patientID uuid.UUID) error {
	if !doctor.Role.IsDoctor() {
		return ErrForbidden
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.User{}).
			Where("id = ? AND assigned_doctor_id = ?", patientID, doctor.ID).
			Update("assigned_doctor_id", nil)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrPatientNotFound
		}

		return tx.Create(&models.DoctorAssignment{
			ID:        uuid.New(),
			PatientID: patientID,
			DoctorID:  doctor.ID,
			Source:    models.AssignmentSourceDoctorRemoval,
			Note:      "Removed by doctor",
		}).Error
	})
}

// ListPatients returns the caller's current roster.
func (s *AssignmentService) ListPatients(doctor *models.User) ([]models.User, error) {
	if !doctor.Role.IsDoctor() {
		return nil, ErrForbidden
	}

	var patients []models.User
	if err := s.db.Where("assigned_doctor_id = ?", doctor.ID).Order("username").Find(&patients).Error; err != nil {
		return nil, fmt.Errorf("failed to list patients: %w", err)
	}
	return patients, nil
}
