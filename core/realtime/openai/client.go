// Package openai implements the duplex realtime voice protocol over a single
// WebSocket connection: handshake, session configuration push, inbound event
// demultiplexing into the canonical realtime vocabulary, and outbound
// audio/tool-result framing.
package openai

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/codexlink/codexlink-core/core/realtime"
	"github.com/gorilla/websocket"
	"go.opentelemetry.io/otel/attribute"
)

const defaultHandshakeTimeout = 30 * time.Second

type connState int

const (
	stateIdle connState = iota
	stateConnecting
	stateOpen
	stateClosed
)

// Client owns at most one realtime connection at a time. Connect fails while
// a connection is open or being established; Disconnect is idempotent.
type Client struct {
	baseURL     string
	credential  string
	tenantToken string

	handshakeTimeout time.Duration

	mu    sync.Mutex
	state connState
	conn  *websocket.Conn

	writeMu sync.Mutex

	handlersMu    sync.Mutex
	handlers      map[int]func(realtime.Event)
	nextHandlerID int
}

type ClientOption func(*Client)

// WithBaseURL points the client at a non-default deployment. A base URL whose
// path ends in the gateway suffix is treated as a hosted gateway.
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// WithCredential sets the caller's own API credential.
func WithCredential(credential string) ClientOption {
	return func(c *Client) {
		c.credential = credential
	}
}

// WithTenantToken sets the tenant-scoped token used in gateway mode. When
// present it takes priority over the caller's credential.
func WithTenantToken(token string) ClientOption {
	return func(c *Client) {
		c.tenantToken = token
	}
}

func NewClient(opts ...ClientOption) *Client {
	client := &Client{
		handshakeTimeout: defaultHandshakeTimeout,
		handlers:         map[int]func(realtime.Event){},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

// OnEvent registers a handler for canonical realtime events and returns its
// unsubscribe function.
func (c *Client) OnEvent(handler func(realtime.Event)) func() {
	c.handlersMu.Lock()
	defer c.handlersMu.Unlock()

	id := c.nextHandlerID
	c.nextHandlerID++
	c.handlers[id] = handler

	return func() {
		c.handlersMu.Lock()
		defer c.handlersMu.Unlock()
		delete(c.handlers, id)
	}
}

func (c *Client) emit(event realtime.Event) {
	c.handlersMu.Lock()
	handlers := make([]func(realtime.Event), 0, len(c.handlers))
	for _, handler := range c.handlers {
		handlers = append(handlers, handler)
	}
	c.handlersMu.Unlock()

	for _, handler := range handlers {
		handler(event)
	}
}

// Connect opens the socket, waits for the server's session.created, pushes
// the session configuration, and returns once the handshake is complete. It
// fails immediately if a connection is already open or connecting, and fails
// with a timeout error if session.created does not arrive in time.
func (c *Client) Connect(ctx context.Context, opts ...realtime.SessionOption) error {
	c.mu.Lock()
	switch c.state {
	case stateConnecting, stateOpen:
		c.mu.Unlock()
		return fmt.Errorf("connection already active: call Disconnect before reconnecting")
	}
	// A terminal state from a prior attempt is cleared here.
	c.state = stateConnecting
	c.conn = nil
	c.mu.Unlock()

	config := realtime.NewSessionConfig(opts...)

	ctx, span := tracer.Start(ctx, "realtime connect")
	defer span.End()

	endpoint, err := endpointURL(c.baseURL, config.Model)
	if err != nil {
		c.setState(stateIdle)
		span.RecordError(err)
		return err
	}
	span.SetAttributes(attribute.String("request.url", endpoint))

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, endpoint,
		http.Header{"Authorization": {"Bearer " + c.bearerToken()}})
	if err != nil {
		c.setState(stateIdle)
		err = fmt.Errorf("failed to open realtime socket: %w", err)
		span.RecordError(err)
		return err
	}

	c.mu.Lock()
	c.conn = conn
	c.mu.Unlock()

	created := make(chan error, 1)
	go c.readLoop(conn, config, created)

	timer := time.NewTimer(c.handshakeTimeout)
	defer timer.Stop()

	select {
	case err := <-created:
		if err != nil {
			c.teardown(conn)
			err = fmt.Errorf("realtime handshake failed: %w", err)
			span.RecordError(err)
			return err
		}
		c.setState(stateOpen)
		return nil
	case <-timer.C:
		c.teardown(conn)
		err := fmt.Errorf("timed out waiting for session.created after %s", c.handshakeTimeout)
		span.RecordError(err)
		return err
	case <-ctx.Done():
		c.teardown(conn)
		span.RecordError(ctx.Err())
		return ctx.Err()
	}
}

func (c *Client) bearerToken() string {
	if c.tenantToken != "" {
		return c.tenantToken
	}
	return c.credential
}

func (c *Client) setState(state connState) {
	c.mu.Lock()
	c.state = state
	c.mu.Unlock()
}

func (c *Client) teardown(conn *websocket.Conn) {
	c.mu.Lock()
	if c.conn == conn {
		c.conn = nil
	}
	c.state = stateClosed
	c.mu.Unlock()
	_ = conn.Close()
}

func (c *Client) readLoop(conn *websocket.Conn, config realtime.SessionConfig, created chan<- error) {
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			c.mu.Lock()
			if c.conn == conn {
				c.conn = nil
			}
			c.state = stateClosed
			c.mu.Unlock()

			// A pending connect must not wait out the handshake timer once the
			// socket is gone, no matter which side closed it. The channel is
			// buffered and per-connection, so the signal is harmless after a
			// completed handshake.
			select {
			case created <- fmt.Errorf("connection closed before session.created: %w", err):
			default:
			}
			c.emit(realtime.NewClosed(closeReason(err)))
			_ = conn.Close()
			return
		}

		c.handleMessage(data, config, created)
	}
}

func closeReason(err error) string {
	var closeErr *websocket.CloseError
	if errors.As(err, &closeErr) {
		if closeErr.Text != "" {
			return fmt.Sprintf("%d: %s", closeErr.Code, closeErr.Text)
		}
		return strconv.Itoa(closeErr.Code)
	}
	return err.Error()
}

func (c *Client) handleMessage(data []byte, config realtime.SessionConfig, created chan<- error) {
	var msg serverEvent
	if err := json.Unmarshal(data, &msg); err != nil {
		// Malformed inbound messages are dropped, never fatal.
		logger.Debug("dropping malformed realtime message", "error", err)
		return
	}

	switch msg.Type {
	case serverEventSessionCreated:
		c.emit(realtime.NewSessionCreated(msg.Session.ID))
		if err := c.pushSessionConfig(config); err != nil {
			select {
			case created <- err:
			default:
			}
			return
		}
		select {
		case created <- nil:
		default:
		}

	case serverEventAudioDelta:
		audio, err := base64.StdEncoding.DecodeString(msg.Delta)
		if err != nil {
			logger.Debug("dropping undecodable audio delta", "error", err)
			return
		}
		c.emit(realtime.NewAudio(audio))

	case serverEventAudioTranscriptDone:
		c.emit(realtime.NewTranscript(msg.Transcript, realtime.RoleAssistant))

	case serverEventInputTranscriptionDone:
		c.emit(realtime.NewTranscript(msg.Transcript, realtime.RoleUser))

	case serverEventTextDelta:
		c.emit(realtime.NewText(msg.Delta))

	case serverEventFunctionArgumentsDone:
		c.emit(realtime.NewToolCall(msg.CallID, msg.Name, msg.Arguments))

	case serverEventError:
		c.emit(realtime.NewError(msg.Error.Message, msg.Error.Code))
		c.mu.Lock()
		preHandshake := c.state == stateConnecting
		c.mu.Unlock()
		if preHandshake {
			select {
			case created <- fmt.Errorf("server error before session.created: %s", msg.Error.Message):
			default:
			}
		}

	default:
		logger.Debug("ignoring unrecognized realtime event", "type", msg.Type)
	}
}

func (c *Client) pushSessionConfig(config realtime.SessionConfig) error {
	frame, err := sessionUpdateFrame(config)
	if err != nil {
		return err
	}
	if err := c.writeJSON(frame); err != nil {
		return fmt.Errorf("failed to push session config: %w", err)
	}
	return nil
}

func (c *Client) writeJSON(message any) error {
	c.mu.Lock()
	conn := c.conn
	c.mu.Unlock()
	if conn == nil {
		return fmt.Errorf("realtime connection closed")
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	if err := conn.WriteJSON(message); err != nil {
		return fmt.Errorf("failed to write to realtime socket: %w", err)
	}
	return nil
}

// Disconnect closes the socket with a normal-closure code. It is safe to call
// from any state and always leaves the client closed.
func (c *Client) Disconnect() error {
	c.mu.Lock()
	conn := c.conn
	c.conn = nil
	c.state = stateClosed
	c.mu.Unlock()

	if conn == nil {
		return nil
	}

	c.writeMu.Lock()
	_ = conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	c.writeMu.Unlock()

	if err := conn.Close(); err != nil {
		return fmt.Errorf("failed to close realtime socket: %w", err)
	}
	return nil
}
