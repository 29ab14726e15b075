// Package tui provides the live fleet dashboard for the watch command.
//
// The dashboard is a bubbletea program wrapped around an open board
// session. On a fixed tick it drains the link (board.Iterate), snapshots
// the robot state registry, and renders one table row per robot heard
// from: liveness, obstacle distance, and the legacy scalar readings.
//
// The session is owned by the caller; the dashboard only paces its drain
// loop and never writes to the link.
package tui
