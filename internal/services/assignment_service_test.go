package services

import (
	"testing"

	"github.com/hemalink/hemalink-backend/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateDoctorCode(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAssignmentService(db)

	code, err := svc.GenerateDoctorCode()
	require.NoError(t, err)
	assert.Len(t, code, 8)
	for _, ch := range code {
		assert.Contains(t, doctorCodeAlphabet, string(ch))
	}

	// An existing code is never reissued.
	createDoctor(t, db, "doctor1", code)
	second, err := svc.GenerateDoctorCode()
	require.NoError(t, err)
	assert.NotEqual(t, code, second)
}

func TestLinkDoctorCaseInsensitive(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAssignmentService(db)

	doctor := createDoctor(t, db, "doctor1", "ABCD1234")
	patient := createPatient(t, db, "patient1")

	result, err := svc.LinkDoctor(patient, "abcd1234")
	require.NoError(t, err)
	assert.False(t, result.AlreadyLinked)
	assert.Equal(t, doctor.ID, result.Doctor.ID)

	var stored models.User
	require.NoError(t, db.First(&stored, "id = ?", patient.ID).Error)
	require.NotNil(t, stored.AssignedDoctorID)
	assert.Equal(t, doctor.ID, *stored.AssignedDoctorID)

	var log models.DoctorAssignment
	require.NoError(t, db.First(&log, "patient_id = ?", patient.ID).Error)
	assert.Equal(t, models.AssignmentSourceDoctorCode, log.Source)
	assert.Equal(t, doctor.ID, log.DoctorID)
}

func TestLinkDoctorInvalidCode(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAssignmentService(db)

	patient := createPatient(t, db, "patient1")

	_, err := svc.LinkDoctor(patient, "ZZZZZZZZ")
	assert.ErrorIs(t, err, ErrInvalidDoctorCode)
	assert.Zero(t, countAssignmentLogs(t, db, patient))
}

func TestLinkDoctorRejectsDoctors(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAssignmentService(db)

	createDoctor(t, db, "doctor1", "ABCD1234")
	other := createDoctor(t, db, "doctor2", "EFGH5678")

	_, err := svc.LinkDoctor(other, "ABCD1234")
	assert.ErrorIs(t, err, ErrNotAPatient)
}

func TestLinkDoctorIdempotent(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAssignmentService(db)

	doctor := createDoctor(t, db, "doctor1", "ABCD1234")
	patient := createPatient(t, db, "patient1")

	_, err := svc.LinkDoctor(patient, "ABCD1234")
	require.NoError(t, err)
	require.EqualValues(t, 1, countAssignmentLogs(t, db, patient))

	result, err := svc.LinkDoctor(patient, "ABCD1234")
	require.NoError(t, err)
	assert.True(t, result.AlreadyLinked)
	assert.Equal(t, doctor.ID, result.Doctor.ID)

	// Re-linking must not append a second log entry.
	assert.EqualValues(t, 1, countAssignmentLogs(t, db, patient))
}

func TestLinkDoctorAlreadyAssignedElsewhere(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAssignmentService(db)

	first := createDoctor(t, db, "doctor1", "ABCD1234")
	createDoctor(t, db, "doctor2", "EFGH5678")
	patient := createPatient(t, db, "patient1")

	_, err := svc.LinkDoctor(patient, "ABCD1234")
	require.NoError(t, err)

	_, err = svc.LinkDoctor(patient, "EFGH5678")
	assert.ErrorIs(t, err, ErrAlreadyAssigned)

	var stored models.User
	require.NoError(t, db.First(&stored, "id = ?", patient.ID).Error)
	require.NotNil(t, stored.AssignedDoctorID)
	assert.Equal(t, first.ID, *stored.AssignedDoctorID)
	assert.EqualValues(t, 1, countAssignmentLogs(t, db, patient))
}

func TestRemovePatient(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAssignmentService(db)

	doctor := createDoctor(t, db, "doctor1", "ABCD1234")
	patient := createPatient(t, db, "patient1")
	assignPatient(t, db, patient, doctor)

	require.NoError(t, svc.RemovePatient(doctor, patient.ID))

	var stored models.User
	require.NoError(t, db.First(&stored, "id = ?", patient.ID).Error)
	assert.Nil(t, stored.AssignedDoctorID)

	var log models.DoctorAssignment
	require.NoError(t, db.First(&log, "patient_id = ? AND source = ?", patient.ID, models.AssignmentSourceDoctorRemoval).Error)
	assert.Equal(t, "Removed by doctor", log.Note)
}

func TestRemovePatientNotAssigned(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAssignmentService(db)

	doctor := createDoctor(t, db, "doctor1", "ABCD1234")
	other := createDoctor(t, db, "doctor2", "EFGH5678")
	patient := createPatient(t, db, "patient1")
	assignPatient(t, db, patient, other)

	err := svc.RemovePatient(doctor, patient.ID)
	assert.ErrorIs(t, err, ErrPatientNotFound)
	assert.Zero(t, countAssignmentLogs(t, db, patient))

	err = svc.RemovePatient(doctor, uuid.New())
	assert.ErrorIs(t, err, ErrPatientNotFound)
}

func TestRemovePatientRequiresDoctor(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAssignmentService(db)

	patient := createPatient(t, db, "patient1")
	err := svc.RemovePatient(patient, uuid.New())
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestListPatients(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAssignmentService(db)

	doctor := createDoctor(t, db, "doctor1", "ABCD1234")
	p1 := createPatient(t, db, "patient1")
	p2 := createPatient(t, db, "patient2")
	createPatient(t, db, "patient3")
	assignPatient(t, db, p1, doctor)
	assignPatient(t, db, p2, doctor)

	patients, err := svc.ListPatients(doctor)
	require.NoError(t, err)
	assert.Len(t, patients, 2)

	_, err = svc.ListPatients(p1)
	assert.ErrorIs(t, err, ErrForbidden)
}
