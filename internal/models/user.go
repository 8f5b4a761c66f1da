package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Role is the closed set of account kinds. Behavior is gated through the
// predicates below, never by comparing raw request strings.
type Role string

const (
	RoleDoctor  Role = "doctor"
	RolePatient Role = "patient"
)

func (r Role) IsDoctor() bool  { return r == RoleDoctor }
func (r Role) IsPatient() bool { return r == RolePatient }

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleDoctor || r == RolePatient
}

// User covers both doctors and patients. DoctorCode is set once for doctor
// accounts and never changes; AssignedDoctorID is the patient's single
// current doctor link.
type User struct {
	ID               uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Username         string         `gorm:"not null;size:150;uniqueIndex" json:"username"`
	Email            string         `gorm:"not null;size:255" json:"email"`
	Password         string         `gorm:"not null" json:"-"`
	Role             Role           `gorm:"size:10;not null;default:'patient'" json:"user_type"`
	FirstName        string         `gorm:"size:150" json:"first_name"`
	LastName         string         `gorm:"size:150" json:"last_name"`
	Specialization   string         `gorm:"size:100" json:"specialization,omitempty"`
	Verified         bool           `gorm:"default:false" json:"verified"`
	PhoneNumber      string         `gorm:"size:15" json:"phone_number,omitempty"`
	DateOfBirth      *time.Time     `json:"date_of_birth,omitempty"`
	Address          string         `gorm:"type:text" json:"address,omitempty"`
	DoctorCode       *string        `gorm:"size:10;uniqueIndex" json:"doctor_code,omitempty"`
	AssignedDoctorID *uuid.UUID     `gorm:"type:uuid;index" json:"-"`
	AssignedDoctor   *User          `gorm:"foreignKey:AssignedDoctorID" json:"-"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
	DeletedAt        gorm.DeletedAt `gorm:"index" json:"-"`
}

// FullName falls back to the username when no name fields are set.
func (u *User) FullName() string {
	name := u.FirstName
	if u.LastName != "" {
		if name != "" {
			name += " "
		}
		name += u.LastName
	}
	if name == "" {
		return u.Username
	}
	return name
}
