// Package voice wraps the ElevenLabs Conversational AI websocket session.
// The provider delivers an asynchronous event stream of user transcripts and
// agent responses; only final user utterances are meant to be persisted by
// callers, interim partials are display-only.
package voice

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const defaultEndpoint = "wss://api.elevenlabs.io/v1/convai/conversation"

type Source int

const (
	SourceUser Source = iota
	SourceAssistant
)

// SessionEvent is one asynchronous message from the provider.
type SessionEvent struct {
	Source  Source
	Content string
	Final   bool
}

// wire frames exchanged with the provider.
type inboundFrame struct {
	Type               string `json:"type"`
	UserTranscription  *userTranscriptionEvent `json:"user_transcription_event,omitempty"`
	AgentResponse      *agentResponseEvent     `json:"agent_response_event,omitempty"`
	Ping               *pingEvent              `json:"ping_event,omitempty"`
}

type userTranscriptionEvent struct {
	UserTranscript string `json:"user_transcript"`
	IsFinal        bool   `json:"is_final"`
}

type agentResponseEvent struct {
	AgentResponse string `json:"agent_response"`
}

type pingEvent struct {
	EventID int `json:"event_id"`
}

type pongFrame struct {
	Type    string `json:"type"`
	EventID int    `json:"event_id"`
}

type Client struct {
	endpoint string
	apiKey   string
	dialer   *websocket.Dialer
	log      *zap.Logger
}

type ClientOption func(*Client)

// WithEndpoint overrides the provider endpoint, for tests.
func WithEndpoint(endpoint string) ClientOption {
	return func(c *Client) { c.endpoint = endpoint }
}

func NewClient(apiKey string, log *zap.Logger, opts ...ClientOption) *Client {
	if log == nil {
		log = zap.NewNop()
	}
	c := &Client{
		endpoint: defaultEndpoint,
		apiKey:   apiKey,
		dialer: &websocket.Dialer{
			HandshakeTimeout: 10 * time.Second,
		},
		log: log,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// StartSession dials the provider for the given agent and starts the read
// loop. Events arrive on Session.Events until the session ends; the channel
// is closed when the read loop exits.
func (c *Client) StartSession(ctx context.Context, agentID string) (*Session, error) {
	if agentID == "" {
		return nil, errors.New("agent id is required")
	}

	wsURL := c.endpoint + "?agent_id=" + url.QueryEscape(agentID)
	header := http.Header{}
	if c.apiKey != "" {
		header.Set("xi-api-key", c.apiKey)
	}

	conn, _, err := c.dialer.DialContext(ctx, wsURL, header)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to voice provider: %w", err)
	}

	sessCtx, cancel := context.WithCancel(context.Background())
	s := &Session{
		conn:    conn,
		events:  make(chan SessionEvent, 32),
		done:    make(chan struct{}),
		ctx:     sessCtx,
		cancel:  cancel,
		log:     c.log,
		agentID: agentID,
	}
	go s.readLoop()

	c.log.Info("voice session started", zap.String("agent_id", agentID))
	return s, nil
}

type Session struct {
	conn    *websocket.Conn
	events  chan SessionEvent
	done    chan struct{}
	ctx     context.Context
	cancel  context.CancelFunc
	log     *zap.Logger
	agentID string

	closeOnce sync.Once
	writeMu   sync.Mutex

	mu      sync.Mutex
	lastErr error
	clean   bool
}

func (s *Session) Events() <-chan SessionEvent {
	return s.events
}

// Done is closed when the read loop has exited.
func (s *Session) Done() <-chan struct{} {
	return s.done
}

// Err reports why the read loop stopped; nil after a clean End.
func (s *Session) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.clean {
		return nil
	}
	return s.lastErr
}

func (s *Session) readLoop() {
	defer close(s.events)
	defer close(s.done)

	for {
		var frame inboundFrame
		if err := s.conn.ReadJSON(&frame); err != nil {
			s.mu.Lock()
			if !s.clean {
				s.lastErr = err
			}
			s.mu.Unlock()
			return
		}

		switch frame.Type {
		case "user_transcript":
			if frame.UserTranscription == nil {
				continue
			}
			s.deliver(SessionEvent{
				Source:  SourceUser,
				Content: frame.UserTranscription.UserTranscript,
				Final:   frame.UserTranscription.IsFinal,
			})
		case "agent_response":
			if frame.AgentResponse == nil {
				continue
			}
			s.deliver(SessionEvent{
				Source:  SourceAssistant,
				Content: frame.AgentResponse.AgentResponse,
				Final:   true,
			})
		case "ping":
			if frame.Ping != nil {
				s.pong(frame.Ping.EventID)
			}
		default:
			// Conversation metadata, audio chunks and other frame types are
			// not needed for the transcript stream.
			s.log.Debug("ignoring provider frame", zap.String("type", frame.Type))
		}
	}
}

func (s *Session) deliver(event SessionEvent) {
	select {
	case s.events <- event:
	case <-s.ctx.Done():
	}
}

func (s *Session) pong(eventID int) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	if err := s.conn.WriteJSON(pongFrame{Type: "pong", EventID: eventID}); err != nil {
		s.log.Warn("failed to answer provider ping", zap.Error(err))
	}
}

// End terminates the session. Safe to call more than once and after the
// provider has already closed the stream.
func (s *Session) End() {
	s.closeOnce.Do(func() {
		s.mu.Lock()
		s.clean = true
		s.mu.Unlock()

		s.writeMu.Lock()
		_ = s.conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		s.writeMu.Unlock()

		s.cancel()
		_ = s.conn.Close()
		s.log.Info("voice session ended", zap.String("agent_id", s.agentID))
	})
}

// BenignClose reports whether an abnormal read-loop exit was an ordinary
// end-of-stream rather than a failure. Callers restart recognition on benign
// closes while the widget still shows the session as connected.
func BenignClose(err error) bool {
	if err == nil {
		return true
	}
	return websocket.IsCloseError(err,
		websocket.CloseNormalClosure,
		websocket.CloseGoingAway)
}
