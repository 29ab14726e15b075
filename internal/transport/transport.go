package transport

// Transport is an open duplex byte channel with a non-blocking availability
// check. It abstracts the physical link (serial device or TCP socket) so the
// framing and dispatch logic above it works unmodified over either.
//
// A Transport is owned by exactly one board session; closing the session
// closes the transport.
type Transport interface {
	// ReadByte returns the next byte from the link. ok is false when no byte
	// is immediately available. A peer reset is reported as no data rather
	// than an error so that polling loops keep running; use Err on the
	// concrete type to detect a dead link.
	ReadByte() (b byte, ok bool, err error)

	// Write sends all bytes, blocking until the OS accepts them.
	Write(p []byte) (int, error)

	// Available returns the number of bytes that can be read without
	// blocking. It must never block on an idle link.
	Available() int

	// Close releases the underlying resource. Idempotent.
	Close() error
}

// Faultable is implemented by transports that can report a sticky link
// failure observed during reads. Callers that need to distinguish "idle"
// from "disconnected" should type-assert and check Err.
type Faultable interface {
	Err() error
}
