package infrastructure

import (
	"encoding/json"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"smartWaiter/internal/modules/realtime/domain"
)

const (
	writeWait     = 5 * time.Second
	pongWait      = 60 * time.Second
	pingPeriod    = 30 * time.Second
	maxFrameBytes = 1 << 16
	defaultOutbox = 8
)

// Client is one websocket session. Outgoing frames wait in outbox; a session that
// lets outbox fill up is too slow and gets dropped by the hub.
type Client struct {
	hub        *Hub
	conn       *websocket.Conn
	id         string
	remoteAddr string
	filter     topicFilter
	actions    *actionRouter

	mu      sync.Mutex
	outbox  chan []byte
	closed  bool
	onClose []func(*Client)
}

// NewClient wraps an upgraded connection. outboxSize bounds the frames queued
// for the session; fallback serves actions other than subscribe, unsubscribe and ping.
func NewClient(hub *Hub, conn *websocket.Conn, id, remoteAddr string, outboxSize int, fallback CommandHandler) *Client {
	if outboxSize <= 0 {
		outboxSize = defaultOutbox
	}
	return &Client{
		hub:        hub,
		conn:       conn,
		id:         strings.TrimSpace(id),
		remoteAddr: remoteAddr,
		actions:    newActionRouter(hub, fallback),
		outbox:     make(chan []byte, outboxSize),
	}
}

func (c *Client) ID() string {
	return c.id
}

// OnClose registers fn to run once when the session ends. fn runs right away if
// the session is already closed.
func (c *Client) OnClose(fn func(*Client)) {
	if fn == nil {
		return
	}
	c.mu.Lock()
	if !c.closed {
		c.onClose = append(c.onClose, fn)
		c.mu.Unlock()
		return
	}
	c.mu.Unlock()
	c.runCloseHook(fn)
}

// Send queues msg for this session only.
func (c *Client) Send(msg *domain.Message) {
	frame, err := json.Marshal(msg)
	if err != nil {
		slog.Error("ws message encode failed", slog.String("clientId", c.id), slog.Any("error", err))
		return
	}
	if !c.offer(frame) {
		slog.Warn("ws outbox full", slog.String("clientId", c.id))
		go c.hub.drop(c)
	}
}

// offer queues frame without blocking. It reports false only when the outbox is
// full; frames for a closed session are discarded.
func (c *Client) offer(frame []byte) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return true
	}
	select {
	case c.outbox <- frame:
		return true
	default:
		return false
	}
}

// shutdown closes the outbox and the connection and runs the close hooks. It
// reports whether this call did the closing.
func (c *Client) shutdown() bool {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return false
	}
	c.closed = true
	close(c.outbox)
	hooks := c.onClose
	c.onClose = nil
	c.mu.Unlock()

	if c.conn != nil {
		_ = c.conn.Close()
	}
	for _, fn := range hooks {
		c.runCloseHook(fn)
	}
	return true
}

func (c *Client) runCloseHook(fn func(*Client)) {
	defer func() {
		if r := recover(); r != nil {
			slog.Warn("ws close hook panicked", slog.String("clientId", c.id), slog.Any("panic", r))
		}
	}()
	fn(c)
}

// Run pumps frames in both directions until the connection ends.
func (c *Client) Run() {
	go c.writeLoop()
	c.readLoop()
}

func (c *Client) writeLoop() {
	defer c.hub.drop(c)
	heartbeat := time.NewTicker(pingPeriod)
	defer heartbeat.Stop()

	for {
		select {
		case frame, open := <-c.outbox:
			if !open {
				_ = c.writeFrame(websocket.CloseMessage, nil)
				return
			}
			if err := c.writeFrame(websocket.TextMessage, frame); err != nil {
				slog.Warn("ws write failed", slog.String("clientId", c.id), slog.Any("error", err))
				return
			}
		case <-heartbeat.C:
			if err := c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				slog.Warn("ws heartbeat failed", slog.String("clientId", c.id), slog.Any("error", err))
				return
			}
		}
	}
}

func (c *Client) writeFrame(kind int, payload []byte) error {
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteMessage(kind, payload)
}

func (c *Client) readLoop() {
	defer c.hub.drop(c)
	c.conn.SetReadLimit(maxFrameBytes)
	_ = c.extendReadDeadline()
	c.conn.SetPongHandler(func(string) error { return c.extendReadDeadline() })

	for {
		var cmd Command
		if err := c.conn.ReadJSON(&cmd); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				slog.Warn("ws read failed", slog.String("clientId", c.id), slog.Any("error", err))
			}
			return
		}
		_ = c.extendReadDeadline()
		c.actions.dispatch(c, cmd)
	}
}

func (c *Client) extendReadDeadline() error {
	return c.conn.SetReadDeadline(time.Now().Add(pongWait))
}
