// Package firmata implements the DuinoBot extension of the Firmata wire
// protocol.
//
// # Protocol Overview
//
// Firmata frames variable-length "sysex" messages between StartSysex (0xF0)
// and EndSysex (0xF7). The first payload byte is a command identifier; the
// range 0x00-0x0F is reserved for user-defined commands, and the DuinoBot
// firmware uses it to multiplex telemetry from up to 128 robots over one
// link:
//
//   - Ping (0x03): [msb, lsb, robot] nearest-obstacle distance
//   - Analog request (0x06): [msb, lsb, robot] legacy analog value
//   - Digital request (0x07): [value, robot] legacy digital value
//   - Broadcast report (0x09): [robot] presence announcement
//   - Pin commands (0x0F): [subtype, ...] per-pin readings, subtypes
//     get-analog (0x01) and get-digital (0x02)
//
// Every data byte keeps its high bit clear for framing, so 14-bit sensor
// values travel as two 7-bit halves and are reconstructed as (msb<<7)|lsb.
// The robot identifier rides in the payload, which is why one transport can
// carry a whole fleet.
//
// # Dispatch
//
// The Parser accumulates bytes into frames; the Dispatcher routes completed
// frames to handlers by command byte, synchronously on the goroutine that
// drains the transport. The table is built once at session setup from
// Decoders.Table plus any session-level handlers (firmware report,
// capability response) and never changes afterwards.
//
// # Error Handling
//
// Payloads shorter than their command requires produce a
// MalformedFrameError (errors.Is-able against ErrMalformedFrame) and leave
// the registry untouched. Unknown commands and unknown pin-command subtypes
// are dropped silently: that is the protocol's forward-compatibility stance,
// not an error.
package firmata
