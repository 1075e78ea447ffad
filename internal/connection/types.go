package connection

import (
	"errors"
	"fmt"
	"time"
)

// Errors
var (
	ErrSessionClosed = errors.New("session closed")
	ErrRemoteClosed  = errors.New("remote closed connection")
)

// ConnectError is returned when a session cannot be opened.
type ConnectError struct {
	URL        string // redacted
	StatusCode int    // HTTP status of a failed upgrade, 0 if none
	Err        error
}

func (e *ConnectError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("connect %s: status %d: %v", e.URL, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("connect %s: %v", e.URL, e.Err)
}

func (e *ConnectError) Unwrap() error { return e.Err }

// SendError is returned when a frame cannot be written.
type SendError struct {
	Err error
}

func (e *SendError) Error() string { return "send: " + e.Err.Error() }

func (e *SendError) Unwrap() error { return e.Err }

// SessionConfig configures a WebSocket session.
type SessionConfig struct {
	URL              string        // full feed URL, credentials included
	HandshakeTimeout time.Duration // WebSocket upgrade timeout
	WriteTimeout     time.Duration // write deadline for sends
}

// DefaultSessionConfig returns sensible defaults.
func DefaultSessionConfig() SessionConfig {
	return SessionConfig{
		HandshakeTimeout: 10 * time.Second,
		WriteTimeout:     5 * time.Second,
	}
}

// SupervisorConfig configures the Connection Supervisor.
type SupervisorConfig struct {
	Session           SessionConfig
	HeartbeatInterval time.Duration // time between "ping" frames
	ReconnectDelay    time.Duration // fixed wait between sessions
}

// DefaultSupervisorConfig returns sensible defaults.
func DefaultSupervisorConfig() SupervisorConfig {
	return SupervisorConfig{
		Session:           DefaultSessionConfig(),
		HeartbeatInterval: 30 * time.Second,
		ReconnectDelay:    30 * time.Second,
	}
}

// State is the Connection Supervisor state.
type State int32

const (
	StateDisconnected State = iota
	StateConnecting
	StateConnected
	StateDraining
)

func (s State) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	case StateDraining:
		return "draining"
	default:
		return fmt.Sprintf("state(%d)", int32(s))
	}
}

// SupervisorStats provides statistics about the supervisor.
type SupervisorStats struct {
	State           State
	SessionID       string // empty when no session is open
	Connects        int64
	ConnectFailures int64
	Frames          int64
	Batches         int64
	LastFrameAt     time.Time
}
