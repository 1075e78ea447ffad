// Package dispatch routes firehose events to per-type handlers.
//
// The Registry is built once at startup and is read-only afterwards. The
// Dispatcher walks a batch in order and isolates every handler: a returned
// error or a panic is logged with the event type and payload, and dispatch
// moves on to the next event.
package dispatch
