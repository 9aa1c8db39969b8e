package domain

import (
	"time"

	"github.com/google/uuid"
)

type AmbulanceStatus string

const (
	AmbulanceAvailable    AmbulanceStatus = "available"
	AmbulanceEnRoute      AmbulanceStatus = "en_route"
	AmbulanceAtScene      AmbulanceStatus = "at_scene"
	AmbulanceTransporting AmbulanceStatus = "transporting"
	AmbulanceEmergency    AmbulanceStatus = "emergency"
	AmbulanceOutOfService AmbulanceStatus = "out_of_service"
)

func (s AmbulanceStatus) IsValid() bool {
	switch s {
	case AmbulanceAvailable, AmbulanceEnRoute, AmbulanceAtScene,
		AmbulanceTransporting, AmbulanceEmergency, AmbulanceOutOfService:
		return true
	default:
		return false
	}
}

type Ambulance struct {
	ID         uuid.UUID       `json:"id" db:"id"`
	CallSign   string          `json:"call_sign" db:"call_sign"`
	Plate      string          `json:"plate" db:"plate"`
	Status     AmbulanceStatus `json:"status" db:"status"`
	FacilityID string          `json:"facility_id" db:"facility_id"`
	Location   *string         `json:"location,omitempty" db:"location"`
	CreatedAt  time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at" db:"updated_at"`
}
