package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type AuditAction string

const (
	ActionCreate      AuditAction = "CREATE"
	ActionUpdate      AuditAction = "UPDATE"
	ActionDelete      AuditAction = "DELETE"
	ActionRead        AuditAction = "READ"
	ActionLogin       AuditAction = "LOGIN"
	ActionLogout      AuditAction = "LOGOUT"
	ActionLoginFailed AuditAction = "LOGIN_FAILED"
	ActionSubmitClaim AuditAction = "SUBMIT_CLAIM"
	ActionExport      AuditAction = "EXPORT"
)

func (a AuditAction) IsValid() bool {
	switch a {
	case ActionCreate, ActionUpdate, ActionDelete, ActionRead,
		ActionLogin, ActionLogout, ActionLoginFailed, ActionSubmitClaim, ActionExport:
		return true
	default:
		return false
	}
}

// AuditLog is one durable audit trail row. CreatedAt is assigned by the
// database at write time, never by the producer.
type AuditLog struct {
	ID           uuid.UUID       `json:"id" db:"id"`
	UserID       uuid.UUID       `json:"user_id" db:"user_id"`
	UserRole     string          `json:"user_role" db:"user_role"`
	UserName     *string         `json:"user_name,omitempty" db:"user_name"`
	Action       AuditAction     `json:"action" db:"action"`
	EntityType   string          `json:"entity_type" db:"entity_type"`
	EntityID     string          `json:"entity_id" db:"entity_id"`
	Description  string          `json:"description" db:"description"`
	Changes      json.RawMessage `json:"changes,omitempty" db:"changes"`
	IPAddress    *string         `json:"ip_address,omitempty" db:"ip_address"`
	UserAgent    *string         `json:"user_agent,omitempty" db:"user_agent"`
	FacilityID   *string         `json:"facility_id,omitempty" db:"facility_id"`
	Success      bool            `json:"success" db:"success"`
	ErrorMessage *string         `json:"error_message,omitempty" db:"error_message"`
	CreatedAt    time.Time       `json:"created_at" db:"created_at"`
}

type AuditLogFilter struct {
	UserID     *uuid.UUID
	EntityType string
	EntityID   string
	Action     AuditAction
	FacilityID string
	StartDate  *time.Time
	EndDate    *time.Time
}

type AuditTimeframe string

const (
	Timeframe24h AuditTimeframe = "24h"
	Timeframe7d  AuditTimeframe = "7d"
	Timeframe30d AuditTimeframe = "30d"
)

func (t AuditTimeframe) Duration() time.Duration {
	switch t {
	case Timeframe7d:
		return 7 * 24 * time.Hour
	case Timeframe30d:
		return 30 * 24 * time.Hour
	default:
		return 24 * time.Hour
	}
}

type ActionCount struct {
	Action AuditAction `json:"action" db:"action"`
	Count  int64       `json:"count" db:"count"`
}

type EntityTypeCount struct {
	EntityType string `json:"entity_type" db:"entity_type"`
	Count      int64  `json:"count" db:"count"`
}

type ActorCount struct {
	UserID   uuid.UUID `json:"user_id" db:"user_id"`
	UserName *string   `json:"user_name,omitempty" db:"user_name"`
	Count    int64     `json:"count" db:"count"`
}

type HourlyCount struct {
	Hour  time.Time `json:"hour" db:"hour"`
	Count int64     `json:"count" db:"count"`
}

type AuditStatistics struct {
	Timeframe    AuditTimeframe    `json:"timeframe"`
	Total        int64             `json:"total"`
	ByAction     []ActionCount     `json:"by_action"`
	ByEntityType []EntityTypeCount `json:"by_entity_type"`
	TopActors    []ActorCount      `json:"top_actors"`
	SuccessRate  float64           `json:"success_rate"`
	Hourly       []HourlyCount     `json:"hourly"`
}
