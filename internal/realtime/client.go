// Package realtime connects sessions to the hosted voice service over a
// WebSocket.
package realtime

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/daikw/philofight/internal/session"
)

const (
	defaultDialTimeout = 15 * time.Second
	closeGrace         = 2 * time.Second
)

// Client opens calls on the hosted voice service
type Client struct {
	url         string
	dialer      *websocket.Dialer
	dialTimeout time.Duration
	header      http.Header
	logger      zerolog.Logger
}

// Option configures a Client
type Option func(*Client)

// WithDialer replaces the WebSocket dialer
func WithDialer(d *websocket.Dialer) Option {
	return func(c *Client) { c.dialer = d }
}

// WithDialTimeout bounds the handshake
func WithDialTimeout(d time.Duration) Option {
	return func(c *Client) { c.dialTimeout = d }
}

// WithHeader adds a header to the handshake request
func WithHeader(key, value string) Option {
	return func(c *Client) { c.header.Set(key, value) }
}

// WithLogger replaces the client logger
func WithLogger(l zerolog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// New creates a client for the service at rawURL
func New(rawURL string, opts ...Option) *Client {
	c := &Client{
		url:         rawURL,
		dialer:      websocket.DefaultDialer,
		dialTimeout: defaultDialTimeout,
		header:      make(http.Header),
		logger:      log.Logger.With().Str("component", "realtime").Logger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Open returns immediately and dials in the background. The handshake
// outcome arrives on handle as a CallStart (sent by the service once the
// call is live) or an ErrorEvent.
func (c *Client) Open(ctx context.Context, req session.StartRequest, handle session.EventHandler) (session.Call, error) {
	if c.url == "" {
		return nil, fmt.Errorf("voice service url not configured")
	}
	u, err := url.Parse(c.url)
	if err != nil {
		return nil, fmt.Errorf("invalid voice service url: %w", err)
	}
	if u.Scheme != "ws" && u.Scheme != "wss" {
		return nil, fmt.Errorf("invalid voice service url %q: scheme must be ws or wss", c.url)
	}

	start, err := buildStartFrame(req)
	if err != nil {
		return nil, err
	}

	header := c.header.Clone()
	header.Set("Authorization", "Bearer "+req.PublicKey)

	dialCtx, cancel := context.WithTimeout(ctx, c.dialTimeout)
	call := &call{
		url:    u.String(),
		dialer: c.dialer,
		header: header,
		handle: handle,
		cancel: cancel,
		done:   make(chan struct{}),
		logger: c.logger.With().Str("session_id", req.SessionID).Logger(),
	}
	go call.run(dialCtx, start)
	return call, nil
}

type call struct {
	url    string
	dialer *websocket.Dialer
	header http.Header
	handle session.EventHandler
	cancel context.CancelFunc
	logger zerolog.Logger

	connMu sync.Mutex
	conn   *websocket.Conn

	writeMu   sync.Mutex
	closeOnce sync.Once
	closed    atomic.Bool
	done      chan struct{}
}

func (c *call) run(ctx context.Context, start startFrame) {
	defer close(c.done)

	conn, resp, err := c.dialer.DialContext(ctx, c.url, c.header)
	c.cancel()
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
	if err != nil {
		c.emit(session.ErrorEvent{Err: dialError(resp, err)})
		return
	}

	c.connMu.Lock()
	if c.closed.Load() {
		c.connMu.Unlock()
		_ = conn.Close()
		return
	}
	c.conn = conn
	c.connMu.Unlock()

	c.logger.Debug().Str("url", c.url).Msg("Voice service connected")

	if err := c.writeJSON(start); err != nil {
		c.emit(session.ErrorEvent{Err: fmt.Errorf("failed to start call: %w", err)})
		return
	}
	c.readLoop(conn)
}

func (c *call) readLoop(conn *websocket.Conn) {
	for {
		messageType, data, err := conn.ReadMessage()
		if err != nil {
			if c.closed.Load() {
				return
			}
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				c.emit(session.CallEnd{Reason: "connection-closed"})
				return
			}
			c.emit(session.ErrorEvent{Err: &session.VendorError{
				Code:    "network",
				Message: fmt.Sprintf("connection lost: %v", err),
			}})
			return
		}
		if messageType != websocket.TextMessage {
			continue
		}

		ev, frameType, err := decodeServerFrame(data)
		if err != nil {
			c.logger.Warn().Err(err).Msg("Skipping malformed frame")
			continue
		}
		if ev == nil {
			c.logger.Debug().Str("frame", frameType).Msg("Skipping frame")
			continue
		}
		c.emit(ev)
	}
}

func (c *call) emit(ev session.Event) {
	if c.closed.Load() {
		return
	}
	c.handle(ev)
}

// Send injects a message into the live call
func (c *call) Send(msg session.Message) error {
	return c.writeJSON(addMessageFrame{Type: frameAddMessage, Message: msg})
}

// SetMuted toggles the user's microphone on the service side
func (c *call) SetMuted(muted bool) error {
	op := controlUnmute
	if muted {
		op = controlMute
	}
	return c.writeJSON(controlFrame{Type: frameControl, Control: op})
}

// Close ends the call and waits for the reader to exit, including any
// handler it is running. No events are delivered once it returns.
func (c *call) Close() error {
	var err error
	c.closeOnce.Do(func() {
		_ = c.writeJSON(controlFrame{Type: frameControl, Control: controlEndCall})
		c.closed.Store(true)
		c.cancel()

		c.connMu.Lock()
		conn := c.conn
		c.connMu.Unlock()
		if conn == nil {
			return
		}

		c.writeMu.Lock()
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(closeGrace))
		c.writeMu.Unlock()
		err = conn.Close()
	})

	<-c.done
	if errors.Is(err, net.ErrClosed) {
		return nil
	}
	return err
}

func (c *call) writeJSON(v any) error {
	if c.closed.Load() {
		return fmt.Errorf("call is closed")
	}
	c.connMu.Lock()
	conn := c.conn
	c.connMu.Unlock()
	if conn == nil {
		return fmt.Errorf("call is not connected")
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return conn.WriteJSON(v)
}

// dialError turns a failed handshake into a vendor error
func dialError(resp *http.Response, err error) error {
	if resp == nil {
		return fmt.Errorf("failed to reach voice service: %w", err)
	}
	switch resp.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return &session.VendorError{
			Code:    "unauthorized",
			Message: fmt.Sprintf("handshake rejected with status %d", resp.StatusCode),
		}
	case http.StatusServiceUnavailable, http.StatusBadGateway, http.StatusGatewayTimeout:
		return &session.VendorError{
			Code:    "unavailable",
			Message: fmt.Sprintf("voice service unavailable (status %d)", resp.StatusCode),
		}
	default:
		return &session.VendorError{
			Code:    "connection_failed",
			Message: fmt.Sprintf("handshake failed with status %d: %v", resp.StatusCode, err),
		}
	}
}
