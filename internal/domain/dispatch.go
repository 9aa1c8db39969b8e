package domain

import (
	"time"

	"github.com/google/uuid"
)

type DispatchStatus string

const (
	DispatchPending   DispatchStatus = "pending"
	DispatchAssigned  DispatchStatus = "assigned"
	DispatchEnRoute   DispatchStatus = "en_route"
	DispatchOnScene   DispatchStatus = "on_scene"
	DispatchCompleted DispatchStatus = "completed"
	DispatchCancelled DispatchStatus = "cancelled"
)

type DispatchPriority string

const (
	PriorityLow      DispatchPriority = "low"
	PriorityMedium   DispatchPriority = "medium"
	PriorityHigh     DispatchPriority = "high"
	PriorityCritical DispatchPriority = "critical"
)

type DispatchCall struct {
	ID          uuid.UUID        `json:"id" db:"id"`
	CallerName  string           `json:"caller_name" db:"caller_name"`
	CallerPhone *string          `json:"caller_phone,omitempty" db:"caller_phone"`
	Location    string           `json:"location" db:"location"`
	CountyID    *string          `json:"county_id,omitempty" db:"county_id"`
	Description string           `json:"description" db:"description"`
	Priority    DispatchPriority `json:"priority" db:"priority"`
	Status      DispatchStatus   `json:"status" db:"status"`
	FacilityID  string           `json:"facility_id" db:"facility_id"`
	AmbulanceID *uuid.UUID       `json:"ambulance_id,omitempty" db:"ambulance_id"`
	CreatedBy   uuid.UUID        `json:"created_by" db:"created_by"`
	CreatedAt   time.Time        `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at" db:"updated_at"`
}

type CreateDispatchInput struct {
	CallerName  string           `json:"caller_name" validate:"required"`
	CallerPhone *string          `json:"caller_phone,omitempty"`
	Location    string           `json:"location" validate:"required"`
	CountyID    *string          `json:"county_id,omitempty"`
	Description string           `json:"description" validate:"required"`
	Priority    DispatchPriority `json:"priority" validate:"required,oneof=low medium high critical"`
	FacilityID  string           `json:"facility_id" validate:"required"`
}
