package connection

import (
	"context"
	"errors"
	"log/slog"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rickgao/captainup-firehose/internal/ack"
	"github.com/rickgao/captainup-firehose/internal/dispatch"
	"github.com/rickgao/captainup-firehose/internal/message"
	"github.com/rickgao/captainup-firehose/internal/metrics"
)

// DialFunc opens a session. Dial is the production implementation.
type DialFunc func(ctx context.Context, cfg SessionConfig, logger *slog.Logger) (Session, error)

// SupervisorOption configures a Supervisor.
type SupervisorOption func(*Supervisor)

// WithDialer replaces the WebSocket dialer.
func WithDialer(dial DialFunc) SupervisorOption {
	return func(s *Supervisor) {
		s.dial = dial
	}
}

// WithMetrics sets the metrics collectors.
func WithMetrics(m *metrics.Collectors) SupervisorOption {
	return func(s *Supervisor) {
		s.metrics = m
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) SupervisorOption {
	return func(s *Supervisor) {
		s.logger = logger
	}
}

// Supervisor owns the reconnect loop: it opens a session, runs the heartbeat
// next to the frame loop, and feeds every frame through decode, ack and
// dispatch. Only one session is open at a time.
type Supervisor struct {
	cfg        SupervisorConfig
	dial       DialFunc
	tracker    *ack.Tracker
	dispatcher *dispatch.Dispatcher
	logger     *slog.Logger
	metrics    *metrics.Collectors

	state atomic.Int32

	// Stats
	mu              sync.RWMutex
	sessionID       string
	connects        int64
	connectFailures int64
	frames          int64
	batches         int64
	lastFrameAt     time.Time
}

// NewSupervisor creates a Supervisor. The tracker's acknowledged set is kept
// across reconnects.
func NewSupervisor(cfg SupervisorConfig, tracker *ack.Tracker, dispatcher *dispatch.Dispatcher, opts ...SupervisorOption) *Supervisor {
	s := &Supervisor{
		cfg:        cfg,
		dial:       Dial,
		tracker:    tracker,
		dispatcher: dispatcher,
		logger:     slog.Default(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Run connects and consumes until ctx is cancelled, reconnecting after
// ReconnectDelay whenever a session ends. It only returns ctx.Err().
func (s *Supervisor) Run(ctx context.Context) error {
	s.logger.Info("firehose supervisor started",
		"url", RedactURL(s.cfg.Session.URL),
		"heartbeat_interval", s.cfg.HeartbeatInterval,
		"reconnect_delay", s.cfg.ReconnectDelay,
	)

	for {
		s.runSession(ctx)
		s.setState(StateDisconnected)

		if ctx.Err() != nil {
			s.logger.Info("firehose supervisor stopped")
			return ctx.Err()
		}

		s.logger.Info("reconnecting", "delay", s.cfg.ReconnectDelay)

		select {
		case <-ctx.Done():
			s.logger.Info("firehose supervisor stopped")
			return ctx.Err()
		case <-time.After(s.cfg.ReconnectDelay):
		}
	}
}

// State returns the current state.
func (s *Supervisor) State() State {
	return State(s.state.Load())
}

// Stats returns current statistics.
func (s *Supervisor) Stats() SupervisorStats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return SupervisorStats{
		State:           s.State(),
		SessionID:       s.sessionID,
		Connects:        s.connects,
		ConnectFailures: s.connectFailures,
		Frames:          s.frames,
		Batches:         s.batches,
		LastFrameAt:     s.lastFrameAt,
	}
}

// Acknowledged returns the AUIDs currently remembered, oldest first.
func (s *Supervisor) Acknowledged() []string {
	return s.tracker.Acknowledged()
}

func (s *Supervisor) setState(st State) {
	s.state.Store(int32(st))
	s.metrics.SetState(int(st))
}

// runSession runs one Connecting → Connected → Draining cycle.
func (s *Supervisor) runSession(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("unexpected panic in session",
				"panic", r,
				"stack", string(debug.Stack()),
			)
		}
	}()

	if ctx.Err() != nil {
		return
	}

	s.setState(StateConnecting)

	sess, err := s.dial(ctx, s.cfg.Session, s.logger)
	if err != nil {
		s.mu.Lock()
		s.connectFailures++
		s.mu.Unlock()
		s.metrics.ConnectFailed()
		s.logger.Error("connection error", "error", err)
		return
	}

	logger := s.logger.With("session_id", sess.ID())

	s.mu.Lock()
	s.connects++
	s.sessionID = sess.ID()
	s.mu.Unlock()
	s.metrics.Connected()
	s.setState(StateConnected)
	logger.Info("connected to firehose")

	hb := StartHeartbeat(ctx, sess, s.cfg.HeartbeatInterval, s.metrics, logger)

	// Shutdown must unblock Receive; the heartbeat still goes first.
	stopWatch := context.AfterFunc(ctx, func() {
		hb.Stop()
		sess.Close()
	})

	defer func() {
		s.setState(StateDraining)
		stopWatch()
		hb.Stop()
		sess.Close()

		s.mu.Lock()
		s.sessionID = ""
		s.mu.Unlock()

		logger.Info("session drained")
	}()

	s.consume(ctx, sess, logger)
}

// consume reads frames until the session fails.
func (s *Supervisor) consume(ctx context.Context, sess Session, logger *slog.Logger) {
	for {
		frame, err := sess.Receive()
		if err != nil {
			switch {
			case ctx.Err() != nil:
				logger.Info("session closed for shutdown")
			case errors.Is(err, ErrRemoteClosed):
				logger.Warn("websocket closed by remote", "error", err)
			default:
				logger.Warn("websocket read failed", "error", err)
			}
			return
		}

		s.mu.Lock()
		s.frames++
		s.lastFrameAt = time.Now()
		s.mu.Unlock()

		s.handleFrame(ctx, sess, frame, logger)
	}
}

// handleFrame runs one frame through decode, ack and dispatch. A panic is
// logged and the frame abandoned; the session stays open.
func (s *Supervisor) handleFrame(ctx context.Context, sess Session, frame []byte, logger *slog.Logger) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("unexpected error handling frame",
				"panic", r,
				"frame", string(frame),
				"stack", string(debug.Stack()),
			)
		}
	}()

	res := message.Decode(frame)

	switch res.Kind {
	case message.KindErrorFrame:
		s.metrics.ErrorFrame()
		logger.Error("firehose error", "frame", res.ErrorFrame)
		return

	case message.KindDecodeFailure:
		s.metrics.DecodeFailed()
		logger.Error("failed to parse message", "error", res.Err, "frame", string(frame))
		return
	}

	batch := res.Batch

	s.mu.Lock()
	s.batches++
	s.mu.Unlock()
	s.metrics.BatchReceived()

	logger.Info("received batch", "auid", batch.ID, "events", len(batch.Events))
	if batch.EventsErr != nil {
		logger.Error("batch events malformed", "auid", batch.ID, "error", batch.EventsErr)
	}

	// Ack failures are logged by the tracker; events are dispatched anyway.
	s.tracker.Acknowledge(sess, batch.ID)

	sum := s.dispatcher.Dispatch(ctx, batch.Events)
	if sum.Failed > 0 || sum.Unhandled > 0 {
		logger.Info("batch dispatched with issues",
			"auid", batch.ID,
			"handled", sum.Handled,
			"failed", sum.Failed,
			"unhandled", sum.Unhandled,
		)
	}
}
