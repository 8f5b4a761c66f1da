package services

import (
	"testing"

	"github.com/hemalink/hemalink-backend/internal/dto"
	"github.com/hemalink/hemalink-backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterDoctorGetsCode(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAuthService(db, testConfig(), NewAssignmentService(db))

	resp, err := svc.Register(&dto.RegisterRequest{
		Username:       "doctor1",
		Email:          "doctor@example.com",
		Password:       "pass12345",
		UserType:       "doctor",
		Specialization: "Hematology",
	})
	require.NoError(t, err)
	require.NotNil(t, resp.User.DoctorCode)
	assert.Len(t, *resp.User.DoctorCode, 8)
	assert.NotEmpty(t, resp.Access)
	assert.NotEmpty(t, resp.Refresh)

	var stored models.User
	require.NoError(t, db.First(&stored, "username = ?", "doctor1").Error)
	assert.Equal(t, models.RoleDoctor, stored.Role)
	require.NotNil(t, stored.DoctorCode)
	for _, ch := range *stored.DoctorCode {
		assert.Contains(t, doctorCodeAlphabet, string(ch))
	}
}

func TestRegisterPatientHasNoCode(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAuthService(db, testConfig(), NewAssignmentService(db))

	resp, err := svc.Register(&dto.RegisterRequest{
		Username: "patient1",
		Email:    "patient@example.com",
		Password: "pass12345",
		UserType: "patient",
	})
	require.NoError(t, err)
	assert.Nil(t, resp.User.DoctorCode)
	assert.Equal(t, models.RolePatient, resp.User.UserType)
}

func TestRegisterRejectsUnknownRole(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAuthService(db, testConfig(), NewAssignmentService(db))

	_, err := svc.Register(&dto.RegisterRequest{
		Username: "admin1",
		Email:    "admin@example.com",
		Password: "pass12345",
		UserType: "admin",
	})
	assert.Error(t, err)
}

func TestRegisterDuplicateUsername(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAuthService(db, testConfig(), NewAssignmentService(db))

	req := &dto.RegisterRequest{
		Username: "patient1",
		Email:    "patient@example.com",
		Password: "pass12345",
		UserType: "patient",
	}
	_, err := svc.Register(req)
	require.NoError(t, err)

	_, err = svc.Register(req)
	assert.ErrorIs(t, err, ErrUsernameTaken)
}

func TestLogin(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAuthService(db, testConfig(), NewAssignmentService(db))

	_, err := svc.Register(&dto.RegisterRequest{
		Username: "patient1",
		Email:    "patient@example.com",
		Password: "pass12345",
		UserType: "patient",
	})
	require.NoError(t, err)

	resp, err := svc.Login(&dto.LoginRequest{Username: "patient1", Password: "pass12345"})
	require.NoError(t, err)
	assert.Equal(t, "patient1", resp.User.Username)

	_, err = svc.Login(&dto.LoginRequest{Username: "patient1", Password: "wrongpass"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(&dto.LoginRequest{Username: "nobody", Password: "pass12345"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRefreshRotation(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAuthService(db, testConfig(), NewAssignmentService(db))

	registered, err := svc.Register(&dto.RegisterRequest{
		Username: "patient1",
		Email:    "patient@example.com",
		Password: "pass12345",
		UserType: "patient",
	})
	require.NoError(t, err)

	refreshed, err := svc.Refresh(&dto.RefreshRequest{RefreshToken: registered.Refresh})
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.Access)

	// Rotation: the original refresh token is single-use.
	_, err = svc.Refresh(&dto.RefreshRequest{RefreshToken: registered.Refresh})
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestLogoutRevokesRefreshToken(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAuthService(db, testConfig(), NewAssignmentService(db))

	registered, err := svc.Register(&dto.RegisterRequest{
		Username: "patient1",
		Email:    "patient@example.com",
		Password: "pass12345",
		UserType: "patient",
	})
	require.NoError(t, err)

	require.NoError(t, svc.Logout(&dto.LogoutRequest{RefreshToken: registered.Refresh}))

	_, err = svc.Refresh(&dto.RefreshRequest{RefreshToken: registered.Refresh})
	assert.ErrorIs(t, err, ErrInvalidToken)
}
