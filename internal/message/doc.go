// Package message decodes raw firehose frames.
//
// Each inbound text frame decodes to exactly one of:
//   - a Batch: {"auid": "...", "events": [...]}
//   - an error frame: {"type": "error", ...}
//   - a decode failure, for anything that is not a well-formed frame
//
// Decoding never panics and never returns a Go error to the caller; failures
// are reported through Result.
package message
