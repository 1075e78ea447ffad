// Package ack implements the Acknowledgment Tracker.
//
// The tracker:
//   - Remembers the most recent batch identifiers (AUIDs) in a bounded FIFO set
//   - Logs batches the feed delivers more than once
//   - Sends the ["<auid>"] acknowledgment frame back over the session
//
// A Set is owned by the Connection Supervisor and outlives individual
// sessions, since a resumed feed may resend an AUID seen before a reconnect.
package ack
