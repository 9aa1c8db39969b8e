package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
)

type fakeConn struct {
	mu     sync.Mutex
	writes [][]byte

	done      chan struct{}
	closeOnce sync.Once
}

func newFakeConn() *fakeConn {
	return &fakeConn{done: make(chan struct{})}
}

func (c *fakeConn) ReadMessage() (int, []byte, error) {
	<-c.done
	return 0, nil, &websocket.CloseError{Code: websocket.CloseAbnormalClosure}
}

func (c *fakeConn) WriteMessage(messageType int, data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.writes = append(c.writes, data)
	return nil
}

func (c *fakeConn) Close() error {
	c.closeOnce.Do(func() { close(c.done) })
	return nil
}

func (c *fakeConn) sentEnvelopes(t *testing.T) []Envelope {
	t.Helper()
	c.mu.Lock()
	defer c.mu.Unlock()
	envs := make([]Envelope, 0, len(c.writes))
	for _, data := range c.writes {
		var env Envelope
		assert.NoError(t, json.Unmarshal(data, &env))
		envs = append(envs, env)
	}
	return envs
}

// fakeDialer fails the first failures dials, then hands out fresh conns.
type fakeDialer struct {
	mu       sync.Mutex
	failures int
	dials    int
	conns    []*fakeConn
}

func (d *fakeDialer) Dial(ctx context.Context, url string) (Conn, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.dials++
	if d.dials <= d.failures {
		return nil, errors.New("connection refused")
	}
	conn := newFakeConn()
	d.conns = append(d.conns, conn)
	return conn, nil
}

func (d *fakeDialer) dialCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.dials
}

func (d *fakeDialer) lastConn() *fakeConn {
	d.mu.Lock()
	defer d.mu.Unlock()
	if len(d.conns) == 0 {
		return nil
	}
	return d.conns[len(d.conns)-1]
}

// timerRecorder replaces the channel's timer constructor so tests can see
// every scheduled delay and fire callbacks synchronously.
type timerRecorder struct {
	mu     sync.Mutex
	delays []time.Duration
	fns    []func()
}

func (r *timerRecorder) install(c *Channel) {
	c.newTimer = func(d time.Duration, f func()) *time.Timer {
		r.mu.Lock()
		r.delays = append(r.delays, d)
		r.fns = append(r.fns, f)
		r.mu.Unlock()
		return time.AfterFunc(time.Hour, func() {})
	}
}

func (r *timerRecorder) fireLast() {
	r.mu.Lock()
	fn := r.fns[len(r.fns)-1]
	r.mu.Unlock()
	fn()
}

func (r *timerRecorder) scheduled() []time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]time.Duration{}, r.delays...)
}

func TestChannel_ConnectSuccess(t *testing.T) {
	dialer := &fakeDialer{}
	c := NewChannel("ws://gateway.test/ws", dialer)

	var notifications []Notification
	c.OnNotification(func(n Notification) { notifications = append(notifications, n) })

	c.Connect()

	assert.Equal(t, StatusConnected, c.Status())
	assert.Equal(t, 0, c.Attempts())
	assert.Equal(t, 1, dialer.dialCount())
	if assert.Len(t, notifications, 1) {
		assert.Equal(t, KindInfo, notifications[0].Kind)
		assert.Equal(t, "connection", notifications[0].Source)
	}
}

func TestChannel_ConnectIsIdempotentWhileOpen(t *testing.T) {
	dialer := &fakeDialer{}
	c := NewChannel("ws://gateway.test/ws", dialer)

	c.Connect()
	c.Connect()
	c.Connect()

	assert.Equal(t, 1, dialer.dialCount())
	assert.Equal(t, StatusConnected, c.Status())
}

func TestChannel_BackoffDoublesPerAttempt(t *testing.T) {
	dialer := &fakeDialer{failures: 100}
	c := NewChannel("ws://gateway.test/ws", dialer)
	timers := &timerRecorder{}
	timers.install(c)

	c.Connect()
	assert.Equal(t, StatusReconnecting, c.Status())

	timers.fireLast() // attempt 1 fails
	timers.fireLast() // attempt 2 fails
	timers.fireLast() // attempt 3 fails

	assert.Equal(t, []time.Duration{
		1 * time.Second,
		2 * time.Second,
		4 * time.Second,
		8 * time.Second,
	}, timers.scheduled())
}

func TestChannel_GivesUpAfterFiveAttempts(t *testing.T) {
	dialer := &fakeDialer{failures: 100}
	c := NewChannel("ws://gateway.test/ws", dialer)
	timers := &timerRecorder{}
	timers.install(c)

	c.Connect()
	for i := 0; i < 5; i++ {
		timers.fireLast()
	}

	// Five retries were scheduled, and no sixth timer was armed.
	assert.Len(t, timers.scheduled(), 5)
	assert.Equal(t, 5, c.Attempts())
	assert.Equal(t, StatusError, c.Status())
	assert.Equal(t, 6, dialer.dialCount())
}

func TestChannel_AttemptsResetOnlyOnSuccessfulOpen(t *testing.T) {
	dialer := &fakeDialer{failures: 3}
	c := NewChannel("ws://gateway.test/ws", dialer)
	timers := &timerRecorder{}
	timers.install(c)

	c.Connect()
	timers.fireLast()
	assert.Equal(t, 1, c.Attempts())
	timers.fireLast()
	assert.Equal(t, 2, c.Attempts())
	timers.fireLast() // fourth dial succeeds

	assert.Equal(t, StatusConnected, c.Status())
	assert.Equal(t, 0, c.Attempts())

	// A fresh drop starts the backoff ladder over at the base delay.
	conn := dialer.lastConn()
	c.handleClose(c.gen, errors.New("broken pipe"))
	conn.Close()

	delays := timers.scheduled()
	assert.Equal(t, time.Second, delays[len(delays)-1])
}

func TestChannel_SubscriptionsSurviveReconnect(t *testing.T) {
	dialer := &fakeDialer{}
	c := NewChannel("ws://gateway.test/ws", dialer)
	timers := &timerRecorder{}
	timers.install(c)

	c.Subscribe("dispatch:KNH-001")
	c.Subscribe("county:alerts")
	c.Connect()

	first := dialer.lastConn()
	assert.Len(t, first.sentEnvelopes(t), 2)

	c.handleClose(c.gen, errors.New("broken pipe"))
	first.Close()
	timers.fireLast()

	assert.Equal(t, StatusConnected, c.Status())
	second := dialer.lastConn()
	assert.NotSame(t, first, second)

	replayed := map[string]bool{}
	for _, env := range second.sentEnvelopes(t) {
		assert.Equal(t, MsgSystemStatus, env.Type)
		var p controlPayload
		assert.NoError(t, json.Unmarshal(env.Data, &p))
		assert.Equal(t, "subscribe", p.Action)
		replayed[p.Channel] = true
	}
	assert.True(t, replayed["dispatch:KNH-001"])
	assert.True(t, replayed["county:alerts"])
}

func TestChannel_CleanCloseDoesNotRetry(t *testing.T) {
	dialer := &fakeDialer{}
	c := NewChannel("ws://gateway.test/ws", dialer)
	timers := &timerRecorder{}
	timers.install(c)

	c.Connect()
	c.handleClose(c.gen, &websocket.CloseError{Code: websocket.CloseNormalClosure})

	assert.Equal(t, StatusDisconnected, c.Status())
	assert.Empty(t, timers.scheduled())
}

func TestChannel_DisconnectSuppressesRetry(t *testing.T) {
	dialer := &fakeDialer{}
	c := NewChannel("ws://gateway.test/ws", dialer)
	timers := &timerRecorder{}
	timers.install(c)

	c.Connect()
	c.Disconnect()

	assert.Equal(t, StatusDisconnected, c.Status())
	assert.Empty(t, timers.scheduled())
	assert.Equal(t, 1, dialer.dialCount())
}

func TestChannel_ManualReconnectAfterStall(t *testing.T) {
	dialer := &fakeDialer{failures: 6}
	c := NewChannel("ws://gateway.test/ws", dialer)
	timers := &timerRecorder{}
	timers.install(c)

	c.Connect()
	for i := 0; i < 5; i++ {
		timers.fireLast()
	}
	assert.Equal(t, StatusError, c.Status())

	c.Reconnect()
	timers.fireLast()

	assert.Equal(t, StatusConnected, c.Status())
	assert.Equal(t, 0, c.Attempts())
}

func TestChannel_SendWhileDisconnectedDrops(t *testing.T) {
	c := NewChannel("ws://gateway.test/ws", &fakeDialer{})

	var notifications []Notification
	c.OnNotification(func(n Notification) { notifications = append(notifications, n) })

	c.Send(Envelope{Type: MsgTriageUpdate, Timestamp: time.Now()})

	if assert.Len(t, notifications, 1) {
		assert.Equal(t, KindWarning, notifications[0].Kind)
		assert.Equal(t, "connection", notifications[0].Source)
	}
}

func TestChannel_SendWritesWhenConnected(t *testing.T) {
	dialer := &fakeDialer{}
	c := NewChannel("ws://gateway.test/ws", dialer)
	c.Connect()

	c.Send(Envelope{Type: MsgAmbulanceStatus, Timestamp: time.Now()})

	envs := dialer.lastConn().sentEnvelopes(t)
	assert.Equal(t, MsgAmbulanceStatus, envs[len(envs)-1].Type)
}

func TestChannel_IncomingEnvelopeFansOut(t *testing.T) {
	dialer := &fakeDialer{}
	c := NewChannel("ws://gateway.test/ws", dialer)

	var envelopes []Envelope
	var notifications []Notification
	c.OnEnvelope(func(e Envelope) { envelopes = append(envelopes, e) })
	c.OnNotification(func(n Notification) { notifications = append(notifications, n) })

	c.Connect()
	notifications = nil // discard the connect notice

	frame := []byte(`{"type":"EMERGENCY_ALERT","data":{"title":"Mass casualty","message":"All units respond"},"timestamp":"2026-08-30T10:00:00Z"}`)
	c.handleIncoming(c.gen, frame)

	if assert.Len(t, envelopes, 1) {
		assert.Equal(t, MsgEmergencyAlert, envelopes[0].Type)
	}
	if assert.Len(t, notifications, 1) {
		assert.Equal(t, KindEmergency, notifications[0].Kind)
		assert.Equal(t, "Mass casualty", notifications[0].Title)
	}
	assert.Equal(t, MsgEmergencyAlert, c.LastEnvelope().Type)
}

func TestChannel_MalformedFrameIsDropped(t *testing.T) {
	dialer := &fakeDialer{}
	c := NewChannel("ws://gateway.test/ws", dialer)

	var notifications []Notification
	c.OnNotification(func(n Notification) { notifications = append(notifications, n) })

	c.Connect()
	notifications = nil

	c.handleIncoming(c.gen, []byte(`{not json`))

	assert.Empty(t, notifications)
	assert.Nil(t, c.LastEnvelope())
	assert.Equal(t, StatusConnected, c.Status())

	// The connection keeps working after the bad frame.
	frame := []byte(`{"type":"BED_CAPACITY","data":{"available":4},"timestamp":"2026-08-30T10:00:00Z"}`)
	c.handleIncoming(c.gen, frame)
	assert.Equal(t, MsgBedCapacity, c.LastEnvelope().Type)
}

func TestChannel_StaleGenerationEventsAreIgnored(t *testing.T) {
	dialer := &fakeDialer{}
	c := NewChannel("ws://gateway.test/ws", dialer)
	timers := &timerRecorder{}
	timers.install(c)

	c.Connect()
	staleGen := c.gen
	c.Disconnect()

	frame := []byte(`{"type":"TRIAGE_UPDATE","data":{},"timestamp":"2026-08-30T10:00:00Z"}`)
	c.handleIncoming(staleGen, frame)
	assert.Nil(t, c.LastEnvelope())

	c.handleClose(staleGen, errors.New("broken pipe"))
	assert.Equal(t, StatusDisconnected, c.Status())
	assert.Empty(t, timers.scheduled())
}

func TestChannel_SubscribeWhileConnectedNotifiesGateway(t *testing.T) {
	dialer := &fakeDialer{}
	c := NewChannel("ws://gateway.test/ws", dialer)
	c.Connect()

	c.Subscribe("facility:KNH-001")
	c.Unsubscribe("facility:KNH-001")

	envs := dialer.lastConn().sentEnvelopes(t)
	assert.Len(t, envs, 2)

	var p controlPayload
	assert.NoError(t, json.Unmarshal(envs[0].Data, &p))
	assert.Equal(t, "subscribe", p.Action)
	assert.NoError(t, json.Unmarshal(envs[1].Data, &p))
	assert.Equal(t, "unsubscribe", p.Action)
	assert.Empty(t, c.Subscriptions())
}
