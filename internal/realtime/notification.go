package realtime

import (
	"encoding/json"
	"time"
)

type NotificationKind string

const (
	KindSuccess   NotificationKind = "success"
	KindError     NotificationKind = "error"
	KindWarning   NotificationKind = "warning"
	KindEmergency NotificationKind = "emergency"
	KindInfo      NotificationKind = "info"
)

// NotificationAction is an optional follow-up the presentation layer can
// attach to a rendered notification.
type NotificationAction struct {
	Label string `json:"label"`
	URL   string `json:"url"`
}

// Notification is the ephemeral user-facing unit derived from selected
// envelopes. The channel creates it; whoever observes it owns its display
// and expiry.
type Notification struct {
	Kind     NotificationKind    `json:"kind"`
	Title    string              `json:"title"`
	Body     string              `json:"body"`
	Priority Priority            `json:"priority"`
	Source   string              `json:"source"`
	Duration time.Duration       `json:"duration"`
	Action   *NotificationAction `json:"action,omitempty"`
}

type emergencyAlertPayload struct {
	Title     string `json:"title"`
	Message   string `json:"message"`
	ActionURL string `json:"actionUrl"`
}

type triageUpdatePayload struct {
	PatientName string   `json:"patientName"`
	Priority    Priority `json:"priority"`
}

type dispatchAlertPayload struct {
	Severity string `json:"severity"`
	Location string `json:"location"`
}

type ambulanceStatusPayload struct {
	CallSign string `json:"callSign"`
	Status   string `json:"status"`
}

type resourceAlertPayload struct {
	Resource string `json:"resource"`
	Critical bool   `json:"critical"`
}

type systemStatusPayload struct {
	Status string `json:"status"`
}

// notificationFromEnvelope applies the message-type policy: it returns at
// most one notification for any envelope and never fails, whatever the
// payload looks like. The switch covers every defined message type; an
// unrecognized type is recorded but never surfaced.
func notificationFromEnvelope(env Envelope) (Notification, bool) {
	switch env.Type {
	case MsgEmergencyAlert:
		var p emergencyAlertPayload
		_ = json.Unmarshal(env.Data, &p)
		title := p.Title
		if title == "" {
			title = "Emergency Alert"
		}
		n := Notification{
			Kind:     KindEmergency,
			Title:    title,
			Body:     p.Message,
			Priority: PriorityCritical,
			Source:   string(env.Type),
			Duration: 10 * time.Second,
		}
		if p.ActionURL != "" {
			n.Action = &NotificationAction{Label: "View details", URL: p.ActionURL}
		}
		return n, true

	case MsgTriageUpdate:
		var p triageUpdatePayload
		_ = json.Unmarshal(env.Data, &p)
		if p.Priority != PriorityHigh && p.Priority != PriorityCritical {
			return Notification{}, false
		}
		body := "A patient requires urgent attention"
		if p.PatientName != "" {
			body = p.PatientName + " requires urgent attention"
		}
		return Notification{
			Kind:     KindWarning,
			Title:    "Triage Update",
			Body:     body,
			Priority: p.Priority,
			Source:   string(env.Type),
			Duration: 6 * time.Second,
		}, true

	case MsgDispatchAlert:
		var p dispatchAlertPayload
		_ = json.Unmarshal(env.Data, &p)
		n := Notification{
			Kind:     KindWarning,
			Title:    "Dispatch Alert",
			Body:     "New dispatch call" + locationSuffix(p.Location),
			Priority: PriorityHigh,
			Source:   string(env.Type),
			Duration: 8 * time.Second,
		}
		if p.Severity == "critical" {
			n.Kind = KindError
			n.Priority = PriorityCritical
		}
		return n, true

	case MsgAmbulanceStatus:
		var p ambulanceStatusPayload
		_ = json.Unmarshal(env.Data, &p)
		if p.Status != "emergency" {
			return Notification{}, false
		}
		body := "An ambulance has declared an emergency"
		if p.CallSign != "" {
			body = "Ambulance " + p.CallSign + " has declared an emergency"
		}
		return Notification{
			Kind:     KindEmergency,
			Title:    "Ambulance Emergency",
			Body:     body,
			Priority: PriorityCritical,
			Source:   string(env.Type),
			Duration: 10 * time.Second,
		}, true

	case MsgResourceAlert:
		var p resourceAlertPayload
		_ = json.Unmarshal(env.Data, &p)
		prio := PriorityMedium
		if p.Critical {
			prio = PriorityHigh
		}
		body := "A facility resource is running low"
		if p.Resource != "" {
			body = p.Resource + " is running low"
		}
		return Notification{
			Kind:     KindWarning,
			Title:    "Resource Alert",
			Body:     body,
			Priority: prio,
			Source:   string(env.Type),
			Duration: 5 * time.Second,
		}, true

	case MsgSystemStatus:
		var p systemStatusPayload
		_ = json.Unmarshal(env.Data, &p)
		if p.Status != "degraded" && p.Status != "down" {
			return Notification{}, false
		}
		return Notification{
			Kind:     KindError,
			Title:    "System Status",
			Body:     "Platform status: " + p.Status,
			Priority: PriorityHigh,
			Source:   string(env.Type),
			Duration: 8 * time.Second,
		}, true

	case MsgBedCapacity, MsgShaClaimUpdate, MsgPatientTransfer:
		// Recorded as the last envelope, not surfaced.
		return Notification{}, false

	default:
		return Notification{}, false
	}
}

func locationSuffix(location string) string {
	if location == "" {
		return ""
	}
	return " at " + location
}
