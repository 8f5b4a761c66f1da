package services

import (
	"testing"
	"time"

	"github.com/hemalink/hemalink-backend/internal/config"
	"github.com/hemalink/hemalink-backend/internal/database"
	"github.com/hemalink/hemalink-backend/internal/models"
	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	// A pooled second connection would see a different :memory: database.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.Migrate(db))
	return db
}

func testConfig() *config.Config {
	return &config.Config{
		JWTSecret:        "test-secret",
		JWTAccessExpiry:  15 * time.Minute,
		JWTRefreshExpiry: 24 * time.Hour,
	}
}

func createDoctor(t *testing.T, db *gorm.DB, username, code string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("pass1234"), bcrypt.MinCost)
	require.NoError(t, err)

	doctor := &models.User{
		ID:             uuid.New(),
		Username:       username,
		Email:          username + "@example.com",
		Password:       string(hash),
		Role:           models.RoleDoctor,
		FirstName:      "John",
		LastName:       "Doe",
		Specialization: "Hematology",
		Verified:       true,
		DoctorCode:     &code,
	}
	require.NoError(t, db.Create(doctor).Error)
	return doctor
}

func createPatient(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("pass1234"), bcrypt.MinCost)
	require.NoError(t, err)

	patient := &models.User{
		ID:       uuid.New(),
		Username: username,
		Email:    username + "@example.com",
		Password: string(hash),
		Role:     models.RolePatient,
	}
	require.NoError(t, db.Create(patient).Error)
	return patient
}

func assignPatient(t *testing.T, db *gorm.DB, patient, doctor *models.User) {
	t.Helper()
	require.NoError(t, db.Model(patient).Update("assigned_doctor_id", doctor.ID).Error)
	patient.AssignedDoctorID = &doctor.ID
}

func countAssignmentLogs(t *testing.T, db *gorm.DB, patient *models.User) int64 {
	t.Helper()
	var count int64
	require.NoError(t, db.Model(&models.DoctorAssignment{}).Where("patient_id = ?", patient.ID).Count(&count).Error)
	return count
}
