package domain

import (
	"time"

	"github.com/google/uuid"
)

type TriageLevel string

const (
	TriageCritical TriageLevel = "critical"
	TriageHigh     TriageLevel = "high"
	TriageMedium   TriageLevel = "medium"
	TriageLow      TriageLevel = "low"
)

type Patient struct {
	ID          uuid.UUID    `json:"id" db:"id"`
	FirstName   string       `json:"first_name" db:"first_name"`
	LastName    string       `json:"last_name" db:"last_name"`
	NationalID  *string      `json:"national_id,omitempty" db:"national_id"`
	ShaNumber   *string      `json:"sha_number,omitempty" db:"sha_number"`
	DateOfBirth *time.Time   `json:"date_of_birth,omitempty" db:"date_of_birth"`
	Gender      *string      `json:"gender,omitempty" db:"gender"`
	Phone       *string      `json:"phone,omitempty" db:"phone"`
	TriageLevel *TriageLevel `json:"triage_level,omitempty" db:"triage_level"`
	FacilityID  string       `json:"facility_id" db:"facility_id"`
	CreatedBy   uuid.UUID    `json:"created_by" db:"created_by"`
	CreatedAt   time.Time    `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at" db:"updated_at"`
	DeletedAt   *time.Time   `json:"-" db:"deleted_at"`
}

type CreatePatientInput struct {
	FirstName   string       `json:"first_name" validate:"required,min=1"`
	LastName    string       `json:"last_name" validate:"required,min=1"`
	NationalID  *string      `json:"national_id,omitempty"`
	ShaNumber   *string      `json:"sha_number,omitempty"`
	DateOfBirth *time.Time   `json:"date_of_birth,omitempty"`
	Gender      *string      `json:"gender,omitempty"`
	Phone       *string      `json:"phone,omitempty"`
	TriageLevel *TriageLevel `json:"triage_level,omitempty"`
	FacilityID  string       `json:"facility_id" validate:"required"`
}

type UpdatePatientInput struct {
	FirstName   *string      `json:"first_name,omitempty"`
	LastName    *string      `json:"last_name,omitempty"`
	NationalID  *string      `json:"national_id,omitempty"`
	ShaNumber   *string      `json:"sha_number,omitempty"`
	Phone       *string      `json:"phone,omitempty"`
	TriageLevel *TriageLevel `json:"triage_level,omitempty"`
}
