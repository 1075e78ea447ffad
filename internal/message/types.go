package message

import "errors"

// Kind classifies a decoded frame.
type Kind int

const (
	KindDecodeFailure Kind = iota
	KindBatch
	KindErrorFrame
)

func (k Kind) String() string {
	switch k {
	case KindBatch:
		return "batch"
	case KindErrorFrame:
		return "error_frame"
	default:
		return "decode_failure"
	}
}

// Decode failure reasons. ErrBadEvents and ErrBadEventItem do not fail the
// frame; they are reported on the Batch and EventRecord instead.
var (
	ErrNotJSON      = errors.New("frame is not valid JSON")
	ErrNotObject    = errors.New("frame is not a JSON object")
	ErrBadAUID      = errors.New("auid is not a string")
	ErrBadEvents    = errors.New("events is not an array")
	ErrBadEventItem = errors.New("event is not a JSON object")
)

// Batch is one frame's worth of events sharing an acknowledgment identifier.
type Batch struct {
	ID     string // auid
	Events []EventRecord

	// EventsErr is set when "events" is present but not an array. Events is
	// then empty; the batch is still acknowledged.
	EventsErr error
}

// EventRecord is one event from a batch. Payload is the whole event object,
// including "type", so handlers can read top-level fields such as "user"
// alongside the nested "data" block.
//
// An element that is not a JSON object keeps its position as a record with
// Err set and the raw value in Raw.
type EventRecord struct {
	Type    string
	Payload map[string]any

	Raw any
	Err error
}

// Result is the outcome of decoding one frame.
type Result struct {
	Kind Kind

	// Set when Kind == KindBatch.
	Batch Batch

	// Set when Kind == KindErrorFrame: the full error object.
	ErrorFrame map[string]any

	// Set when Kind == KindDecodeFailure.
	Err error
}

// Outbound frames.
const (
	// Heartbeat is the keepalive text frame.
	Heartbeat = "ping"
)
