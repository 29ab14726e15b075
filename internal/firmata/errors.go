package firmata

import (
	"errors"
	"fmt"
)

// ErrMalformedFrame marks payloads shorter than the command requires, or
// pin indices outside the declared layout. Decoders fail these defensively
// instead of indexing past the payload; the dispatcher logs and drops the
// frame with no state change.
var ErrMalformedFrame = errors.New("malformed frame")

// MalformedFrameError reports a payload that does not match the wire layout
// of its command.
type MalformedFrameError struct {
	Command byte
	Subtype byte // only meaningful for PinCommands frames
	Got     int  // payload length received
	Want    int  // minimum payload length for the command
	Reason  string
}

// Error implements the error interface
func (e *MalformedFrameError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("malformed frame for command 0x%02x: %s", e.Command, e.Reason)
	}
	if e.Subtype != 0 {
		return fmt.Sprintf("malformed frame for command 0x%02x subtype 0x%02x: got %d payload bytes, want at least %d",
			e.Command, e.Subtype, e.Got, e.Want)
	}
	return fmt.Sprintf("malformed frame for command 0x%02x: got %d payload bytes, want at least %d",
		e.Command, e.Got, e.Want)
}

// Unwrap allows errors.Is(err, ErrMalformedFrame)
func (e *MalformedFrameError) Unwrap() error {
	return ErrMalformedFrame
}
