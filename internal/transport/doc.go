// Package transport abstracts the byte link to a DuinoBot robot fleet.
//
// A fleet of robots shares one physical link: either a serial device (an
// XBee radio bridge on a USB port) or a TCP connection to a robot's WiFi
// module. This package hides both behind the Transport interface so the
// framing and dispatch layers above never know which one they are draining.
//
// # Contract
//
// Transports are polling-friendly: Available never blocks, and ReadByte
// returns at most one byte without stalling an idle link. Write blocks until
// the OS has accepted the bytes. Close is idempotent.
//
// # Fault model
//
// The TCP transport deliberately swallows a peer reset during reads and
// reports "no data" instead, so a drain loop keeps running. The sticky error
// remains observable through the Faultable interface for callers that need
// to tell a dead link from an idle one.
//
// The Scripted transport replays canned wire bytes and captures writes for
// tests; no real hardware is required anywhere in the test suite.
package transport
