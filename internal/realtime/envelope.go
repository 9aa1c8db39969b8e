package realtime

import (
	"encoding/json"
	"time"
)

// MessageType discriminates the wire envelopes pushed by the dispatch gateway.
type MessageType string

const (
	MsgTriageUpdate    MessageType = "TRIAGE_UPDATE"
	MsgDispatchAlert   MessageType = "DISPATCH_ALERT"
	MsgAmbulanceStatus MessageType = "AMBULANCE_STATUS"
	MsgBedCapacity     MessageType = "BED_CAPACITY"
	MsgEmergencyAlert  MessageType = "EMERGENCY_ALERT"
	MsgSystemStatus    MessageType = "SYSTEM_STATUS"
	MsgShaClaimUpdate  MessageType = "SHA_CLAIM_UPDATE"
	MsgPatientTransfer MessageType = "PATIENT_TRANSFER"
	MsgResourceAlert   MessageType = "RESOURCE_ALERT"
)

type Priority string

const (
	PriorityLow      Priority = "low"
	PriorityMedium   Priority = "medium"
	PriorityHigh     Priority = "high"
	PriorityCritical Priority = "critical"
)

// Envelope is the outer wrapper around every gateway message. Data is kept
// raw and decoded per message type.
type Envelope struct {
	Type       MessageType     `json:"type"`
	Data       json.RawMessage `json:"data"`
	Timestamp  time.Time       `json:"timestamp"`
	FacilityID string          `json:"facilityId,omitempty"`
	CountyID   string          `json:"countyId,omitempty"`
	Priority   Priority        `json:"priority,omitempty"`
}

// Control payloads travel as SYSTEM_STATUS envelopes.
type controlPayload struct {
	Action  string `json:"action"`
	Channel string `json:"channel"`
}

func subscribeEnvelope(action, channel string) Envelope {
	data, _ := json.Marshal(controlPayload{Action: action, Channel: channel})
	return Envelope{
		Type:      MsgSystemStatus,
		Data:      data,
		Timestamp: time.Now().UTC(),
	}
}
