package domain

import (
	"time"

	"github.com/google/uuid"
)

type ClaimStatus string

const (
	ClaimSubmitted ClaimStatus = "submitted"
	ClaimApproved  ClaimStatus = "approved"
	ClaimRejected  ClaimStatus = "rejected"
	ClaimPaid      ClaimStatus = "paid"
)

// ShaClaim is an insurance claim filed against the Social Health Authority
// for a patient encounter.
type ShaClaim struct {
	ID          uuid.UUID   `json:"id" db:"id"`
	PatientID   uuid.UUID   `json:"patient_id" db:"patient_id"`
	ShaNumber   string      `json:"sha_number" db:"sha_number"`
	Amount      int64       `json:"amount" db:"amount"`
	Description string      `json:"description" db:"description"`
	Status      ClaimStatus `json:"status" db:"status"`
	FacilityID  string      `json:"facility_id" db:"facility_id"`
	SubmittedBy uuid.UUID   `json:"submitted_by" db:"submitted_by"`
	CreatedAt   time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at" db:"updated_at"`
}

type SubmitClaimInput struct {
	PatientID   uuid.UUID `json:"patient_id" validate:"required"`
	Amount      int64     `json:"amount" validate:"required,gt=0"`
	Description string    `json:"description" validate:"required"`
	FacilityID  string    `json:"facility_id" validate:"required"`
}
