// Package metrics provides Prometheus metrics for monitoring.
//
// Key metrics:
//   - Connection state, connect attempts and failures
//   - Heartbeat sends and failures
//   - Batches received, duplicates, acknowledgments sent and failed
//   - Decode failures and server error frames
//   - Events dispatched per type and result
//
// A nil *Collectors is valid and records nothing, so components can be
// constructed without metrics in tests.
package metrics
