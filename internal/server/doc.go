// Package server streams the robot fleet state to dashboards over HTTP.
//
// The server reads from a snapshot source (normally the shared robot state
// registry) and exposes two endpoints:
//
//   - GET /robots — a one-shot JSON array of every robot heard from, with
//     its obstacle distance, liveness flag, and per-pin readings.
//   - GET /ws — a websocket stream pushing the same array as a JSON text
//     frame at a fixed interval.
//
// The stream is one-way: incoming websocket messages are discarded and the
// read side is only serviced to notice the peer closing. Liveness uses the
// standard ping/pong heartbeat with a read deadline.
//
// # Usage Example
//
//	srv, err := server.New(&server.Config{Port: 8080}, board.Registry())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := srv.Start(); err != nil {
//	    log.Fatal(err)
//	}
//
// Start blocks until SIGINT/SIGTERM and shuts down gracefully. The caller
// keeps draining the board session elsewhere; the server only ever reads
// snapshots.
package server
