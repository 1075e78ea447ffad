package ack

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rickgao/captainup-firehose/internal/metrics"
)

type recordingSender struct {
	frames [][]byte
	err    error
}

func (s *recordingSender) Send(frame []byte) error {
	if s.err != nil {
		return s.err
	}
	s.frames = append(s.frames, frame)
	return nil
}

func newTestLogger() (*slog.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})), &buf
}

func TestFrame(t *testing.T) {
	frame, err := Frame("a1")
	require.NoError(t, err)
	assert.Equal(t, `["a1"]`, string(frame))

	frame, err = Frame(`quo"te`)
	require.NoError(t, err)
	assert.Equal(t, `["quo\"te"]`, string(frame))
}

func TestTracker_Acknowledge(t *testing.T) {
	logger, _ := newTestLogger()
	set := NewSet(DefaultCapacity)
	tr := NewTracker(set, nil, logger)
	sender := &recordingSender{}

	out := tr.Acknowledge(sender, "a1")

	assert.False(t, out.Duplicate)
	assert.True(t, out.Sent)
	assert.NoError(t, out.Err)
	assert.True(t, set.Contains("a1"))
	require.Len(t, sender.frames, 1)
	assert.Equal(t, `["a1"]`, string(sender.frames[0]))
	assert.Equal(t, []string{"a1"}, tr.Acknowledged())
}

func TestTracker_DuplicateStillAcknowledged(t *testing.T) {
	logger, buf := newTestLogger()
	m := metrics.New(nil)
	set := NewSet(DefaultCapacity)
	tr := NewTracker(set, m, logger)
	sender := &recordingSender{}

	first := tr.Acknowledge(sender, "a1")
	second := tr.Acknowledge(sender, "a1")

	assert.False(t, first.Duplicate)
	assert.True(t, second.Duplicate)
	assert.True(t, second.Sent)
	require.Len(t, sender.frames, 2)
	assert.Equal(t, `["a1"]`, string(sender.frames[1]))
	assert.Equal(t, 1, set.Len())
	assert.Contains(t, buf.String(), "duplicate batch")
	assert.Equal(t, 1.0, testutil.ToFloat64(m.DuplicateBatches))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.AcksSent))
}

func TestTracker_SendFailure(t *testing.T) {
	logger, buf := newTestLogger()
	m := metrics.New(nil)
	set := NewSet(DefaultCapacity)
	tr := NewTracker(set, m, logger)
	sendErr := errors.New("broken pipe")

	out := tr.Acknowledge(&recordingSender{err: sendErr}, "a1")

	assert.False(t, out.Sent)
	require.Error(t, out.Err)
	assert.ErrorIs(t, out.Err, sendErr)
	assert.True(t, set.Contains("a1"), "auid is remembered even when the ack fails")
	assert.Contains(t, buf.String(), "failed to send ack")
	assert.Equal(t, 1.0, testutil.ToFloat64(m.AckFailures))
}

func TestTracker_EmptyAUID(t *testing.T) {
	logger, _ := newTestLogger()
	set := NewSet(DefaultCapacity)
	tr := NewTracker(set, nil, logger)
	sender := &recordingSender{}

	out := tr.Acknowledge(sender, "")

	assert.Equal(t, Outcome{}, out)
	assert.Empty(t, sender.frames)
	assert.Equal(t, 0, set.Len())
}

func TestTracker_SharedSetAcrossTrackers(t *testing.T) {
	logger, _ := newTestLogger()
	set := NewSet(DefaultCapacity)
	sender := &recordingSender{}

	NewTracker(set, nil, logger).Acknowledge(sender, "a1")
	out := NewTracker(set, nil, logger).Acknowledge(sender, "a1")

	assert.True(t, out.Duplicate)
}
