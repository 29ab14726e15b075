package firmata

import (
	"go.uber.org/zap"

	"github.com/robotgroup/duinobot/internal/logging"
)

// Handler decodes one extended command's payload. The payload arrives
// already stripped of framing and the command identifier.
type Handler func(payload []byte) error

// Dispatcher routes completed sysex frames to their handlers by the one-byte
// command identifier. The table is built once at session setup and is
// immutable afterwards; there is no runtime registration.
//
// Frames with no registered handler are silently dropped. That is the
// forward-compatibility stance of the protocol, not an error.
type Dispatcher struct {
	handlers map[byte]Handler
}

// NewDispatcher builds a dispatcher from the given command table. The map is
// copied, so the caller's map can be discarded or reused.
func NewDispatcher(handlers map[byte]Handler) *Dispatcher {
	table := make(map[byte]Handler, len(handlers))
	for cmd, h := range handlers {
		table[cmd] = h
	}
	return &Dispatcher{handlers: table}
}

// Dispatch invokes the handler registered for the command, synchronously on
// the caller's goroutine (the same one draining the transport). Handler
// errors are returned to the caller; an unregistered command returns nil.
func (d *Dispatcher) Dispatch(cmd byte, payload []byte) error {
	h, ok := d.handlers[cmd]
	if !ok {
		logging.Debug("No handler for sysex command, dropping frame",
			zap.Uint8("command", cmd),
			zap.Int("payload_len", len(payload)),
		)
		return nil
	}
	return h(payload)
}

// Handles reports whether a handler is registered for the command.
func (d *Dispatcher) Handles(cmd byte) bool {
	_, ok := d.handlers[cmd]
	return ok
}
