package connection

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// Session is one live WebSocket connection to the feed.
type Session interface {
	// ID identifies the session in logs.
	ID() string

	// Send writes one text frame. Returns a *SendError wrapping
	// ErrSessionClosed once the session is closed.
	Send(frame []byte) error

	// Receive blocks until the next frame arrives. There is no read
	// deadline. Returns ErrRemoteClosed (wrapped) when the remote sends a
	// close frame, ErrSessionClosed after Close, or the network error.
	Receive() ([]byte, error)

	// Close releases the connection. Idempotent and safe to call from any
	// goroutine, including while another goroutine is in Receive.
	Close() error

	// Closed reports whether Close has been called.
	Closed() bool
}

// session implements the Session interface.
type session struct {
	id     string
	cfg    SessionConfig
	logger *slog.Logger

	conn *websocket.Conn

	// Write serialization
	writeMu sync.Mutex

	// State
	mu     sync.RWMutex
	closed bool

	// Close runs once; every caller waits for it.
	closeOnce sync.Once
	closeErr  error
}

// Dial opens a session to cfg.URL. A failure is returned as *ConnectError.
func Dial(ctx context.Context, cfg SessionConfig, logger *slog.Logger) (Session, error) {
	if logger == nil {
		logger = slog.Default()
	}

	header := http.Header{}
	header.Set("Accept", "application/json")

	dialer := websocket.Dialer{
		Proxy:            http.ProxyFromEnvironment,
		HandshakeTimeout: cfg.HandshakeTimeout,
	}

	conn, resp, err := dialer.DialContext(ctx, cfg.URL, header)
	if err != nil {
		cerr := &ConnectError{URL: RedactURL(cfg.URL), Err: err}
		if resp != nil {
			cerr.StatusCode = resp.StatusCode
		}
		return nil, cerr
	}

	id := uuid.NewString()
	s := &session{
		id:     id,
		cfg:    cfg,
		logger: logger.With("session_id", id),
		conn:   conn,
	}

	s.logger.Debug("websocket connected", "url", RedactURL(cfg.URL))

	return s, nil
}

func (s *session) ID() string {
	return s.id
}

// Send writes a text frame.
func (s *session) Send(frame []byte) error {
	if s.Closed() {
		return &SendError{Err: ErrSessionClosed}
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if s.cfg.WriteTimeout > 0 {
		s.conn.SetWriteDeadline(time.Now().Add(s.cfg.WriteTimeout))
	}
	if err := s.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
		// A concurrent Close makes the write fail; report it as closed.
		if s.Closed() {
			return &SendError{Err: ErrSessionClosed}
		}
		return &SendError{Err: err}
	}
	return nil
}

// Receive reads the next frame.
func (s *session) Receive() ([]byte, error) {
	_, data, err := s.conn.ReadMessage()
	if err == nil {
		return data, nil
	}

	if s.Closed() {
		return nil, ErrSessionClosed
	}

	var closeErr *websocket.CloseError
	if errors.As(err, &closeErr) {
		return nil, errors.Join(ErrRemoteClosed, err)
	}
	return nil, err
}

// Close gracefully closes the connection. Concurrent callers all return
// only after the connection is closed.
func (s *session) Close() error {
	s.closeOnce.Do(func() {
		s.mu.Lock()
		s.closed = true
		s.mu.Unlock()

		// WriteControl may run concurrently with WriteMessage.
		s.conn.WriteControl(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(time.Second),
		)

		s.closeErr = s.conn.Close()
		s.logger.Debug("websocket closed")
	})
	return s.closeErr
}

// Closed reports whether the session has been closed.
func (s *session) Closed() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.closed
}
