package dto

import (
	"time"

	"github.com/hemalink/hemalink-backend/internal/models"
	"github.com/google/uuid"
)

// DoctorSummary is the public shape of a doctor embedded in patient-facing
// responses.
type DoctorSummary struct {
	ID             uuid.UUID `json:"id"`
	FirstName      string    `json:"first_name"`
	LastName       string    `json:"last_name"`
	Specialization string    `json:"specialization"`
	Verified       bool      `json:"verified"`
	FullName       string    `json:"full_name"`
}

func NewDoctorSummary(d *models.User) *DoctorSummary {
	if d == nil {
		return nil
	}
	return &DoctorSummary{
		ID:             d.ID,
		FirstName:      d.FirstName,
		LastName:       d.LastName,
		Specialization: d.Specialization,
		Verified:       d.Verified,
		FullName:       d.FullName(),
	}
}

type UserResponse struct {
	ID             uuid.UUID      `json:"id"`
	Username       string         `json:"username"`
	Email          string         `json:"email"`
	UserType       models.Role    `json:"user_type"`
	FirstName      string         `json:"first_name"`
	LastName       string         `json:"last_name"`
	Specialization string         `json:"specialization,omitempty"`
	Verified       bool           `json:"verified"`
	PhoneNumber    string         `json:"phone_number,omitempty"`
	DateOfBirth    *time.Time     `json:"date_of_birth,omitempty"`
	Address        string         `json:"address,omitempty"`
	DoctorCode     *string        `json:"doctor_code,omitempty"`
	AssignedDoctor *DoctorSummary `json:"assigned_doctor,omitempty"`
}

func NewUserResponse(u *models.User) UserResponse {
	return UserResponse{
		ID:             u.ID,
		Username:       u.Username,
		Email:          u.Email,
		UserType:       u.Role,
		FirstName:      u.FirstName,
		LastName:       u.LastName,
		Specialization: u.Specialization,
		Verified:       u.Verified,
		PhoneNumber:    u.PhoneNumber,
		DateOfBirth:    u.DateOfBirth,
		Address:        u.Address,
		DoctorCode:     u.DoctorCode,
		AssignedDoctor: NewDoctorSummary(u.AssignedDoctor),
	}
}

// UpdateUserRequest carries partial profile updates; nil fields are left
// untouched.
type UpdateUserRequest struct {
	Email          *string `json:"email"`
	FirstName      *string `json:"first_name"`
	LastName       *string `json:"last_name"`
	Specialization *string `json:"specialization"`
	PhoneNumber    *string `json:"phone_number"`
	DateOfBirth    *string `json:"date_of_birth"`
	Address        *string `json:"address"`
}
