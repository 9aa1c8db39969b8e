package realtime

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

type Status string

const (
	StatusDisconnected Status = "disconnected"
	StatusConnecting   Status = "connecting"
	StatusConnected    Status = "connected"
	StatusError        Status = "error"
	StatusReconnecting Status = "reconnecting"
)

const (
	maxReconnectAttempts = 5
	baseReconnectDelay   = time.Second
	maxReconnectDelay    = 30 * time.Second
	dialTimeout          = 10 * time.Second
	manualReconnectGap   = 500 * time.Millisecond
)

// Conn is the duplex transport the channel drives. *websocket.Conn
// satisfies it; tests substitute a fake.
type Conn interface {
	ReadMessage() (messageType int, data []byte, err error)
	WriteMessage(messageType int, data []byte) error
	Close() error
}

type Dialer interface {
	Dial(ctx context.Context, url string) (Conn, error)
}

// WebsocketDialer dials the gateway with gorilla/websocket.
type WebsocketDialer struct{}

func (WebsocketDialer) Dial(ctx context.Context, url string) (Conn, error) {
	d := websocket.Dialer{HandshakeTimeout: dialTimeout}
	conn, _, err := d.DialContext(ctx, url, nil)
	if err != nil {
		return nil, err
	}
	return conn, nil
}

// Channel maintains the single logical connection to the dispatch gateway.
// One Channel exists per process; everything that sends messages receives
// the handle explicitly.
//
// All state lives behind mu. Each accepted transport gets a generation
// number, and events carrying a stale generation (a late close from a
// replaced socket, a read racing a manual disconnect) are dropped instead
// of applied.
type Channel struct {
	url    string
	dialer Dialer

	mu             sync.Mutex
	status         Status
	attempts       int
	subscribed     map[string]struct{}
	conn           Conn
	gen            int
	manualClose    bool
	reconnectTimer *time.Timer
	lastEnvelope   *Envelope

	notifyFns   []func(Notification)
	envelopeFns []func(Envelope)

	// newTimer is swapped in tests to observe scheduled delays.
	newTimer func(d time.Duration, f func()) *time.Timer
}

func NewChannel(url string, dialer Dialer) *Channel {
	if dialer == nil {
		dialer = WebsocketDialer{}
	}
	return &Channel{
		url:        url,
		dialer:     dialer,
		status:     StatusDisconnected,
		subscribed: make(map[string]struct{}),
		newTimer:   time.AfterFunc,
	}
}

// OnNotification registers an observer for derived notifications. Register
// before Connect.
func (c *Channel) OnNotification(fn func(Notification)) {
	c.mu.Lock()
	c.notifyFns = append(c.notifyFns, fn)
	c.mu.Unlock()
}

// OnEnvelope registers an observer for every parsed inbound envelope.
func (c *Channel) OnEnvelope(fn func(Envelope)) {
	c.mu.Lock()
	c.envelopeFns = append(c.envelopeFns, fn)
	c.mu.Unlock()
}

func (c *Channel) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

func (c *Channel) Attempts() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.attempts
}

func (c *Channel) LastEnvelope() *Envelope {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastEnvelope
}

func (c *Channel) Subscriptions() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	channels := make([]string, 0, len(c.subscribed))
	for ch := range c.subscribed {
		channels = append(channels, ch)
	}
	return channels
}

// Connect establishes the transport. It is a no-op while a connection is
// open or an attempt is in flight. Dial failures never propagate: the
// channel degrades to the error state and arms a bounded reconnect.
func (c *Channel) Connect() {
	c.mu.Lock()
	if c.status == StatusConnecting || c.status == StatusConnected || c.conn != nil {
		c.mu.Unlock()
		return
	}
	c.manualClose = false
	c.status = StatusConnecting
	c.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), dialTimeout)
	conn, err := c.dialer.Dial(ctx, c.url)
	cancel()

	c.mu.Lock()
	if err != nil {
		c.status = StatusError
		c.mu.Unlock()
		log.Printf("realtime: connection failed: %v", err)
		c.publish(Notification{
			Kind:     KindError,
			Title:    "Connection Error",
			Body:     "Lost connection to the dispatch gateway",
			Priority: PriorityHigh,
			Source:   "connection",
			Duration: 8 * time.Second,
		})
		c.scheduleReconnect()
		return
	}
	if c.manualClose {
		// Disconnect won the race against the dial.
		c.mu.Unlock()
		conn.Close()
		return
	}
	c.conn = conn
	c.gen++
	gen := c.gen
	c.status = StatusConnected
	c.attempts = 0
	for ch := range c.subscribed {
		c.writeLocked(subscribeEnvelope("subscribe", ch))
	}
	c.mu.Unlock()

	log.Printf("realtime: connected to %s", c.url)
	c.publish(Notification{
		Kind:     KindInfo,
		Title:    "Connected",
		Body:     "Real-time updates are active",
		Priority: PriorityLow,
		Source:   "connection",
		Duration: 3 * time.Second,
	})
	go c.readLoop(conn, gen)
}

func (c *Channel) readLoop(conn Conn, gen int) {
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			c.handleClose(gen, err)
			return
		}
		c.handleIncoming(gen, data)
	}
}

// handleIncoming parses and dispatches one inbound frame. Malformed frames
// are logged and dropped without touching connection state.
func (c *Channel) handleIncoming(gen int, data []byte) {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		log.Printf("realtime: dropping malformed message: %v", err)
		return
	}

	c.mu.Lock()
	if gen != c.gen {
		c.mu.Unlock()
		return
	}
	c.lastEnvelope = &env
	envelopeFns := append([]func(Envelope){}, c.envelopeFns...)
	c.mu.Unlock()

	for _, fn := range envelopeFns {
		fn(env)
	}
	if n, ok := notificationFromEnvelope(env); ok {
		c.publish(n)
	}
}

func (c *Channel) handleClose(gen int, err error) {
	c.mu.Lock()
	if gen != c.gen || c.conn == nil {
		c.mu.Unlock()
		return
	}
	c.conn.Close()
	c.conn = nil
	clean := c.manualClose || websocket.IsCloseError(err, websocket.CloseNormalClosure)
	if clean {
		c.status = StatusDisconnected
		c.mu.Unlock()
		return
	}
	c.status = StatusError
	c.mu.Unlock()

	log.Printf("realtime: connection lost: %v", err)
	c.publish(Notification{
		Kind:     KindError,
		Title:    "Connection Error",
		Body:     "Lost connection to the dispatch gateway",
		Priority: PriorityHigh,
		Source:   "connection",
		Duration: 8 * time.Second,
	})
	c.scheduleReconnect()
}

// scheduleReconnect arms at most one backoff timer. Once five consecutive
// attempts have failed it refuses to arm another; only a manual
// Reconnect/Connect breaks the stall.
func (c *Channel) scheduleReconnect() {
	c.mu.Lock()
	if c.reconnectTimer != nil || c.manualClose {
		c.mu.Unlock()
		return
	}
	if c.attempts >= maxReconnectAttempts {
		c.mu.Unlock()
		log.Printf("realtime: giving up after %d reconnect attempts", maxReconnectAttempts)
		return
	}
	delay := baseReconnectDelay << c.attempts
	if delay > maxReconnectDelay {
		delay = maxReconnectDelay
	}
	c.status = StatusReconnecting
	c.reconnectTimer = c.newTimer(delay, func() {
		c.mu.Lock()
		c.reconnectTimer = nil
		c.attempts++
		c.status = StatusDisconnected
		c.mu.Unlock()
		c.Connect()
	})
	c.mu.Unlock()
	log.Printf("realtime: reconnecting in %s (attempt %d)", delay, c.Attempts()+1)
}

// Send transmits an envelope if the transport is open. There is no outbound
// queue: while disconnected the message is dropped and the caller's user is
// warned once.
func (c *Channel) Send(env Envelope) {
	data, err := json.Marshal(env)
	if err != nil {
		log.Printf("realtime: cannot encode outbound %s message: %v", env.Type, err)
		return
	}

	c.mu.Lock()
	if c.status != StatusConnected || c.conn == nil {
		c.mu.Unlock()
		log.Printf("realtime: dropping outbound %s message while disconnected", env.Type)
		c.publish(Notification{
			Kind:     KindWarning,
			Title:    "Offline",
			Body:     "Real-time updates unavailable",
			Priority: PriorityMedium,
			Source:   "connection",
			Duration: 5 * time.Second,
		})
		return
	}
	err = c.conn.WriteMessage(websocket.TextMessage, data)
	c.mu.Unlock()
	if err != nil {
		log.Printf("realtime: write failed: %v", err)
	}
}

// Subscribe records the channel name so it survives reconnects and, when
// connected, tells the gateway immediately.
func (c *Channel) Subscribe(channel string) {
	c.mu.Lock()
	c.subscribed[channel] = struct{}{}
	if c.status == StatusConnected && c.conn != nil {
		c.writeLocked(subscribeEnvelope("subscribe", channel))
	}
	c.mu.Unlock()
}

func (c *Channel) Unsubscribe(channel string) {
	c.mu.Lock()
	delete(c.subscribed, channel)
	if c.status == StatusConnected && c.conn != nil {
		c.writeLocked(subscribeEnvelope("unsubscribe", channel))
	}
	c.mu.Unlock()
}

// Disconnect tears the connection down for good: it cancels any pending
// reconnect and is the only path that suppresses automatic retry.
func (c *Channel) Disconnect() {
	c.mu.Lock()
	c.manualClose = true
	if c.reconnectTimer != nil {
		c.reconnectTimer.Stop()
		c.reconnectTimer = nil
	}
	if c.conn != nil {
		msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
		_ = c.conn.WriteMessage(websocket.CloseMessage, msg)
		c.conn.Close()
		c.conn = nil
		c.gen++
	}
	c.status = StatusDisconnected
	c.mu.Unlock()
}

// Reconnect is the manual retry: disconnect, then connect after a short
// gap so the transport teardown settles.
func (c *Channel) Reconnect() {
	c.Disconnect()
	c.newTimer(manualReconnectGap, c.Connect)
}

func (c *Channel) writeLocked(env Envelope) {
	data, err := json.Marshal(env)
	if err != nil {
		return
	}
	if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
		log.Printf("realtime: control write failed: %v", err)
	}
}

func (c *Channel) publish(n Notification) {
	c.mu.Lock()
	fns := append([]func(Notification){}, c.notifyFns...)
	c.mu.Unlock()
	for _, fn := range fns {
		fn(n)
	}
}
