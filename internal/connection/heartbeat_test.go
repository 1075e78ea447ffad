package connection

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSender records frames and can be closed like a session.
type fakeSender struct {
	mu         sync.Mutex
	frames     []string
	closed     bool
	afterClose int // sends attempted after close
	err        error
}

func (s *fakeSender) Send(frame []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		s.afterClose++
		return &SendError{Err: ErrSessionClosed}
	}
	if s.err != nil {
		return s.err
	}
	s.frames = append(s.frames, string(frame))
	return nil
}

func (s *fakeSender) close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
}

func (s *fakeSender) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.frames)
}

func TestHeartbeat_SendsImmediatelyAndPeriodically(t *testing.T) {
	sender := &fakeSender{}
	hb := StartHeartbeat(context.Background(), sender, 20*time.Millisecond, nil, nil)
	defer hb.Stop()

	assert.Eventually(t, func() bool { return sender.count() >= 3 }, time.Second, 5*time.Millisecond)

	sender.mu.Lock()
	defer sender.mu.Unlock()
	for _, f := range sender.frames {
		assert.Equal(t, "ping", f)
	}
}

func TestHeartbeat_StopWaits(t *testing.T) {
	sender := &fakeSender{}
	hb := StartHeartbeat(context.Background(), sender, time.Hour, nil, nil)

	assert.Eventually(t, func() bool { return sender.count() == 1 }, time.Second, 5*time.Millisecond)

	hb.Stop()
	select {
	case <-hb.Done():
	default:
		t.Fatal("Done not closed after Stop returned")
	}

	// Idempotent
	hb.Stop()
}

func TestHeartbeat_ContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	hb := StartHeartbeat(ctx, &fakeSender{}, time.Hour, nil, nil)

	cancel()

	select {
	case <-hb.Done():
	case <-time.After(time.Second):
		t.Fatal("heartbeat did not stop on context cancel")
	}
}

func TestHeartbeat_CancelledBeforeStart(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	sender := &fakeSender{}
	hb := StartHeartbeat(ctx, sender, time.Millisecond, nil, nil)
	hb.Stop()

	assert.Equal(t, 0, sender.count())
}

func TestHeartbeat_EndsQuietlyWhenSessionClosed(t *testing.T) {
	sender := &fakeSender{}
	hb := StartHeartbeat(context.Background(), sender, 10*time.Millisecond, nil, nil)

	assert.Eventually(t, func() bool { return sender.count() >= 1 }, time.Second, 5*time.Millisecond)
	sender.close()

	select {
	case <-hb.Done():
	case <-time.After(time.Second):
		t.Fatal("heartbeat did not end after session closed")
	}

	sender.mu.Lock()
	defer sender.mu.Unlock()
	assert.Equal(t, 1, sender.afterClose, "exactly one failed send, then the driver exits")
}

func TestHeartbeat_EndsOnSendError(t *testing.T) {
	sender := &fakeSender{err: errors.New("write: broken pipe")}
	hb := StartHeartbeat(context.Background(), sender, 10*time.Millisecond, nil, nil)

	select {
	case <-hb.Done():
	case <-time.After(time.Second):
		t.Fatal("heartbeat did not end after send error")
	}
	require.Equal(t, 0, sender.count())
}
