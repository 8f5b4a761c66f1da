package services

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/hemalink/hemalink-backend/internal/models"
	"github.com/hemalink/hemalink-backend/internal/prediction"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// fakePredictor returns a fixed label or error.
type fakePredictor struct {
	label string
	err   error
	calls int
}

func (f *fakePredictor) Predict(_ context.Context, _ string, _ []byte) (string, error) {
	f.calls++
	return f.label, f.err
}

// fakeStore records saves without touching disk.
type fakeStore struct {
	saves int
}

func (f *fakeStore) Save(prefix, filename string, _ []byte) (string, error) {
	f.saves++
	return filepath.Join(prefix, filename), nil
}

func TestUploadCreatesUnverifiedReport(t *testing.T) {
	db := setupTestDB(t)
	store := &fakeStore{}
	svc := NewReportService(db, &fakePredictor{label: "Myeloblast"}, store)

	patient := createPatient(t, db, "patient1")

	report, err := svc.Upload(context.Background(), patient, "cell.png", []byte("img"))
	require.NoError(t, err)
	assert.Equal(t, "Myeloblast", report.Result)
	assert.False(t, report.Verified)
	assert.False(t, report.SentToPatient)
	assert.Equal(t, 1, store.saves)

	var count int64
	require.NoError(t, db.Model(&models.DiagnosticReport{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestUploadPredictionFailureIsAtomic(t *testing.T) {
	db := setupTestDB(t)
	store := &fakeStore{}
	svc := NewReportService(db, &fakePredictor{err: prediction.ErrPredictionFailed}, store)

	patient := createPatient(t, db, "patient1")

	_, err := svc.Upload(context.Background(), patient, "cell.png", []byte("img"))
	assert.ErrorIs(t, err, prediction.ErrPredictionFailed)

	// Nothing persists when the collaborator fails.
	assert.Zero(t, store.saves)
	var count int64
	require.NoError(t, db.Model(&models.DiagnosticReport{}).Count(&count).Error)
	assert.Zero(t, count)
}

func createReport(t *testing.T, db *gorm.DB, patient *models.User, verified bool, doctor *models.User) *models.DiagnosticReport {
	t.Helper()
	report := &models.DiagnosticReport{
		ID:        uuid.New(),
		UserID:    patient.ID,
		ImagePath: "uploads/test.png",
		Result:    "Lymphocyte",
		Verified:  verified,
	}
	if doctor != nil {
		report.DoctorID = &doctor.ID
	}
	require.NoError(t, db.Create(report).Error)
	return report
}

func TestVerifyReport(t *testing.T) {
	db := setupTestDB(t)
	svc := NewReportService(db, &fakePredictor{}, &fakeStore{})

	doctor := createDoctor(t, db, "doctor1", "ABCD1234")
	patient := createPatient(t, db, "patient1")
	report := createReport(t, db, patient, false, nil)

	verified, err := svc.Verify(doctor, report.ID)
	require.NoError(t, err)
	assert.True(t, verified.Verified)
	require.NotNil(t, verified.DoctorID)
	assert.Equal(t, doctor.ID, *verified.DoctorID)

	_, err = svc.Verify(patient, report.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = svc.Verify(doctor, uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSendToPatient(t *testing.T) {
	db := setupTestDB(t)
	svc := NewReportService(db, &fakePredictor{}, &fakeStore{})

	doctor := createDoctor(t, db, "doctor1", "ABCD1234")
	patient := createPatient(t, db, "patient1")
	report := createReport(t, db, patient, true, doctor)

	sent, err := svc.SendToPatient(doctor, report.ID)
	require.NoError(t, err)
	assert.True(t, sent.SentToPatient)
	require.NotNil(t, sent.SentAt)

	_, err = svc.SendToPatient(patient, report.ID)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestListScopesByRole(t *testing.T) {
	db := setupTestDB(t)
	svc := NewReportService(db, &fakePredictor{}, &fakeStore{})

	doctor := createDoctor(t, db, "doctor1", "ABCD1234")
	p1 := createPatient(t, db, "patient1")
	p2 := createPatient(t, db, "patient2")
	createReport(t, db, p1, false, nil)
	createReport(t, db, p2, false, nil)

	all, err := svc.List(doctor)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	own, err := svc.List(p1)
	require.NoError(t, err)
	require.Len(t, own, 1)
	assert.Equal(t, p1.ID, own[0].UserID)
}

func TestListVerifiedForPatient(t *testing.T) {
	db := setupTestDB(t)
	svc := NewReportService(db, &fakePredictor{}, &fakeStore{})

	doctor := createDoctor(t, db, "doctor1", "ABCD1234")
	patient := createPatient(t, db, "patient1")
	createReport(t, db, patient, false, nil)
	createReport(t, db, patient, true, doctor)
	// Verified but never countersigned rows stay hidden.
	createReport(t, db, patient, true, nil)

	reports, err := svc.ListVerifiedForPatient(patient)
	require.NoError(t, err)
	assert.Len(t, reports, 1)

	_, err = svc.ListVerifiedForPatient(doctor)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestCreateFromAnalysis(t *testing.T) {
	db := setupTestDB(t)
	store := &fakeStore{}
	svc := NewReportService(db, &fakePredictor{}, store)

	doctor := createDoctor(t, db, "doctor1", "ABCD1234")
	p1 := createPatient(t, db, "patient1")
	p2 := createPatient(t, db, "patient2")

	ids := []string{p1.ID.String(), p2.ID.String(), uuid.New().String(), "not-a-uuid"}
	result, err := svc.CreateFromAnalysis(doctor, ids, "smear.png", []byte("img"), "Monocyte", "0.97")
	require.NoError(t, err)
	assert.Len(t, result.Created, 2)
	assert.Len(t, result.Skipped, 2)
	assert.Equal(t, 1, store.saves)

	var reports []models.DiagnosticReport
	require.NoError(t, db.Find(&reports).Error)
	require.Len(t, reports, 2)
	for _, r := range reports {
		assert.True(t, r.Verified)
		require.NotNil(t, r.DoctorID)
		assert.Equal(t, doctor.ID, *r.DoctorID)
		assert.Equal(t, "Analysis confidence: 0.97", r.Comments)
	}

	_, err = svc.CreateFromAnalysis(p1, ids, "smear.png", []byte("img"), "Monocyte", "0.97")
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestStats(t *testing.T) {
	db := setupTestDB(t)
	svc := NewReportService(db, &fakePredictor{}, &fakeStore{})

	doctor := createDoctor(t, db, "doctor1", "ABCD1234")
	p1 := createPatient(t, db, "patient1")
	p2 := createPatient(t, db, "patient2")
	stranger := createPatient(t, db, "patient3")
	assignPatient(t, db, p1, doctor)
	assignPatient(t, db, p2, doctor)

	// 2 pending + 1 verified diagnostic among the doctor's patients.
	createReport(t, db, p1, false, nil)
	createReport(t, db, p2, false, nil)
	createReport(t, db, p1, true, doctor)
	// Unassigned patients never count.
	createReport(t, db, stranger, false, nil)

	// 1 pending uploaded document addressed to the doctor.
	require.NoError(t, db.Create(&models.PatientReport{
		ID:        uuid.New(),
		PatientID: p1.ID,
		DoctorID:  doctor.ID,
		FilePath:  "reports/doc.pdf",
	}).Error)

	stats, err := svc.Stats(doctor)
	require.NoError(t, err)
	assert.EqualValues(t, 3, stats.Pending)
	assert.EqualValues(t, 1, stats.Verified)

	_, err = svc.Stats(p1)
	assert.ErrorIs(t, err, ErrForbidden)
}
