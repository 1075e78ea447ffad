package ack

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/rickgao/captainup-firehose/internal/metrics"
)

// Sender writes a frame to the feed.
type Sender interface {
	Send(frame []byte) error
}

// Outcome is the result of acknowledging one batch.
type Outcome struct {
	Duplicate bool  // AUID was already in the set
	Sent      bool  // ack frame was written
	Err       error // ack frame could not be built or written
}

// Tracker deduplicates and acknowledges batches.
type Tracker struct {
	set     *Set
	logger  *slog.Logger
	metrics *metrics.Collectors

	// Copy of set contents for readers outside the frame loop.
	snapshot atomic.Pointer[[]string]
}

// NewTracker creates a Tracker over set. The caller keeps ownership of set
// and may hand the same set to a new Tracker after a reconnect.
func NewTracker(set *Set, m *metrics.Collectors, logger *slog.Logger) *Tracker {
	if logger == nil {
		logger = slog.Default()
	}
	t := &Tracker{
		set:     set,
		logger:  logger,
		metrics: m,
	}
	items := set.Items()
	t.snapshot.Store(&items)
	return t
}

// Acknowledge records batchID and sends the ack frame over s.
//
// A duplicate is logged but still re-inserted and re-acknowledged. A failed
// send is logged and reported in the Outcome; it must not stop the caller
// from dispatching the batch.
func (t *Tracker) Acknowledge(s Sender, batchID string) Outcome {
	if batchID == "" {
		t.logger.Warn("batch has no auid, not acknowledging")
		return Outcome{}
	}

	var out Outcome
	if t.set.Contains(batchID) {
		out.Duplicate = true
		t.metrics.DuplicateBatch()
		t.logger.Info("duplicate batch received, re-acknowledging", "auid", batchID)
	}

	if evicted, ok := t.set.Add(batchID); ok {
		t.logger.Debug("evicted acknowledged auid", "auid", evicted)
	}
	items := t.set.Items()
	t.snapshot.Store(&items)

	frame, err := Frame(batchID)
	if err != nil {
		out.Err = err
		t.metrics.AckFailed()
		t.logger.Error("failed to build ack frame", "auid", batchID, "error", err)
		return out
	}

	if err := s.Send(frame); err != nil {
		out.Err = fmt.Errorf("send ack %s: %w", batchID, err)
		t.metrics.AckFailed()
		t.logger.Error("failed to send ack", "auid", batchID, "error", err)
		return out
	}

	out.Sent = true
	t.metrics.AckSent()
	t.logger.Info("acknowledged batch", "auid", batchID)
	return out
}

// Acknowledged returns the remembered AUIDs, oldest first. Safe to call from
// any goroutine.
func (t *Tracker) Acknowledged() []string {
	p := t.snapshot.Load()
	if p == nil {
		return nil
	}
	out := make([]string, len(*p))
	copy(out, *p)
	return out
}

// Frame builds the acknowledgment frame for batchID: a JSON array holding
// exactly one string.
func Frame(batchID string) ([]byte, error) {
	return json.Marshal([]string{batchID})
}
