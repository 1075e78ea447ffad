package connection

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/rickgao/captainup-firehose/internal/message"
	"github.com/rickgao/captainup-firehose/internal/metrics"
)

// Sender writes a frame to the feed.
type Sender interface {
	Send(frame []byte) error
}

// Heartbeat periodically writes the keepalive frame to a session. It never
// reads.
type Heartbeat struct {
	sender   Sender
	interval time.Duration
	logger   *slog.Logger
	metrics  *metrics.Collectors

	cancel   context.CancelFunc
	done     chan struct{}
	stopOnce sync.Once
}

// StartHeartbeat sends the first keepalive immediately and then one per
// interval until ctx is cancelled, Stop is called, or a send fails.
func StartHeartbeat(ctx context.Context, s Sender, interval time.Duration, m *metrics.Collectors, logger *slog.Logger) *Heartbeat {
	if logger == nil {
		logger = slog.Default()
	}

	ctx, cancel := context.WithCancel(ctx)
	h := &Heartbeat{
		sender:   s,
		interval: interval,
		logger:   logger,
		metrics:  m,
		cancel:   cancel,
		done:     make(chan struct{}),
	}

	go h.run(ctx)

	return h
}

// Stop cancels the heartbeat and waits for it to finish. Safe to call more
// than once and from several goroutines.
func (h *Heartbeat) Stop() {
	h.stopOnce.Do(h.cancel)
	<-h.done
}

// Done is closed once the heartbeat goroutine has returned.
func (h *Heartbeat) Done() <-chan struct{} {
	return h.done
}

func (h *Heartbeat) run(ctx context.Context) {
	defer close(h.done)

	if ctx.Err() != nil || !h.beat() {
		return
	}

	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			// Cancellation wins over a tick that fired at the same time.
			if ctx.Err() != nil {
				return
			}
			if !h.beat() {
				return
			}
		}
	}
}

// beat sends one keepalive. It returns false when the heartbeat should end.
func (h *Heartbeat) beat() bool {
	err := h.sender.Send([]byte(message.Heartbeat))
	if err == nil {
		h.metrics.HeartbeatSent()
		h.logger.Debug("sent heartbeat")
		return true
	}

	if errors.Is(err, ErrSessionClosed) {
		h.logger.Debug("session closed, heartbeat stopping")
		return false
	}
	h.metrics.HeartbeatFailed()
	h.logger.Warn("heartbeat send failed, heartbeat stopping", "error", err)
	return false
}
