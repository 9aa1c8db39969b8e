package realtime

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func envelope(t MessageType, payload string) Envelope {
	return Envelope{Type: t, Data: json.RawMessage(payload), Timestamp: time.Now()}
}

func TestNotificationFromEnvelope_EmergencyAlert(t *testing.T) {
	n, ok := notificationFromEnvelope(envelope(MsgEmergencyAlert,
		`{"title":"Mass casualty incident","message":"All units respond","actionUrl":"/incidents/42"}`))

	assert.True(t, ok)
	assert.Equal(t, KindEmergency, n.Kind)
	assert.Equal(t, "Mass casualty incident", n.Title)
	assert.Equal(t, PriorityCritical, n.Priority)
	assert.Equal(t, 10*time.Second, n.Duration)
	if assert.NotNil(t, n.Action) {
		assert.Equal(t, "/incidents/42", n.Action.URL)
	}
}

func TestNotificationFromEnvelope_EmergencyAlertDefaultsTitle(t *testing.T) {
	n, ok := notificationFromEnvelope(envelope(MsgEmergencyAlert, `{}`))

	assert.True(t, ok)
	assert.Equal(t, "Emergency Alert", n.Title)
	assert.Nil(t, n.Action)
}

func TestNotificationFromEnvelope_TriageUpdate(t *testing.T) {
	n, ok := notificationFromEnvelope(envelope(MsgTriageUpdate,
		`{"patientName":"Wanjiku Kamau","priority":"critical"}`))
	assert.True(t, ok)
	assert.Equal(t, KindWarning, n.Kind)
	assert.Equal(t, "Wanjiku Kamau requires urgent attention", n.Body)
	assert.Equal(t, PriorityCritical, n.Priority)

	// Routine triage movement stays quiet.
	_, ok = notificationFromEnvelope(envelope(MsgTriageUpdate,
		`{"patientName":"Wanjiku Kamau","priority":"low"}`))
	assert.False(t, ok)
}

func TestNotificationFromEnvelope_DispatchAlertSeverity(t *testing.T) {
	n, ok := notificationFromEnvelope(envelope(MsgDispatchAlert,
		`{"severity":"normal","location":"Thika Road"}`))
	assert.True(t, ok)
	assert.Equal(t, KindWarning, n.Kind)
	assert.Equal(t, PriorityHigh, n.Priority)
	assert.Equal(t, "New dispatch call at Thika Road", n.Body)

	n, ok = notificationFromEnvelope(envelope(MsgDispatchAlert, `{"severity":"critical"}`))
	assert.True(t, ok)
	assert.Equal(t, KindError, n.Kind)
	assert.Equal(t, PriorityCritical, n.Priority)
}

func TestNotificationFromEnvelope_AmbulanceStatus(t *testing.T) {
	n, ok := notificationFromEnvelope(envelope(MsgAmbulanceStatus,
		`{"callSign":"KBF-12","status":"emergency"}`))
	assert.True(t, ok)
	assert.Equal(t, KindEmergency, n.Kind)
	assert.Equal(t, "Ambulance KBF-12 has declared an emergency", n.Body)

	_, ok = notificationFromEnvelope(envelope(MsgAmbulanceStatus,
		`{"callSign":"KBF-12","status":"en_route"}`))
	assert.False(t, ok)
}

func TestNotificationFromEnvelope_ResourceAlert(t *testing.T) {
	n, ok := notificationFromEnvelope(envelope(MsgResourceAlert,
		`{"resource":"O-negative blood","critical":true}`))
	assert.True(t, ok)
	assert.Equal(t, PriorityHigh, n.Priority)
	assert.Equal(t, "O-negative blood is running low", n.Body)

	n, ok = notificationFromEnvelope(envelope(MsgResourceAlert, `{"resource":"Oxygen"}`))
	assert.True(t, ok)
	assert.Equal(t, PriorityMedium, n.Priority)
}

func TestNotificationFromEnvelope_SystemStatus(t *testing.T) {
	n, ok := notificationFromEnvelope(envelope(MsgSystemStatus, `{"status":"degraded"}`))
	assert.True(t, ok)
	assert.Equal(t, KindError, n.Kind)
	assert.Equal(t, "Platform status: degraded", n.Body)

	_, ok = notificationFromEnvelope(envelope(MsgSystemStatus, `{"status":"ok"}`))
	assert.False(t, ok)
}

func TestNotificationFromEnvelope_SilentTypes(t *testing.T) {
	for _, mt := range []MessageType{MsgBedCapacity, MsgShaClaimUpdate, MsgPatientTransfer} {
		_, ok := notificationFromEnvelope(envelope(mt, `{}`))
		assert.False(t, ok, string(mt))
	}
}

func TestNotificationFromEnvelope_UnknownTypeIsSilent(t *testing.T) {
	_, ok := notificationFromEnvelope(envelope(MessageType("CAFETERIA_MENU"), `{}`))
	assert.False(t, ok)
}

func TestNotificationFromEnvelope_GarbagePayloadNeverPanics(t *testing.T) {
	for _, mt := range []MessageType{
		MsgTriageUpdate, MsgDispatchAlert, MsgAmbulanceStatus,
		MsgBedCapacity, MsgEmergencyAlert, MsgSystemStatus,
		MsgShaClaimUpdate, MsgPatientTransfer, MsgResourceAlert,
	} {
		assert.NotPanics(t, func() {
			notificationFromEnvelope(envelope(mt, `"not an object"`))
		}, string(mt))
	}
}
