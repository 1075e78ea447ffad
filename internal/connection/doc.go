// Package connection implements the firehose Transport Session, Heartbeat
// Driver and Connection Supervisor.
//
// The Connection Supervisor:
//   - Maintains a single WebSocket session to the Captain Up firehose
//   - Runs a text heartbeat ("ping") alongside the frame loop
//   - Decodes each frame, acknowledges its AUID, and dispatches its events
//   - Tears the session down on any read failure and reconnects after a
//     fixed delay, forever, until its context is cancelled
package connection
