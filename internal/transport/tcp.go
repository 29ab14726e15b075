package transport

import (
	"net"
	"strconv"
	"sync"
	"time"
)

// DefaultConnectTimeout bounds TCP connection establishment. Robots with a
// WiFi module that is off or out of range fail within this window instead of
// hanging the caller.
const DefaultConnectTimeout = 5 * time.Second

// TCP is a Transport backed by a connected TCP stream. Availability is
// implemented as a zero-deadline readiness poll on the connection, the
// select(2) analogue for a net.Conn.
//
// A peer reset during a read is reported as "no data" so the polling loop
// treats it like an idle link instead of crashing; the underlying error is
// retained and exposed through Err.
type TCP struct {
	conn net.Conn

	mu      sync.Mutex
	pending []byte
	rbuf    [256]byte
	readErr error
	closed  bool
}

// DialTCP connects to the robot's WiFi module at host:port within the given
// timeout (DefaultConnectTimeout when zero).
func DialTCP(host string, port int, timeout time.Duration) (*TCP, error) {
	if timeout <= 0 {
		timeout = DefaultConnectTimeout
	}
	addr := net.JoinHostPort(host, strconv.Itoa(port))
	conn, err := net.DialTimeout("tcp", addr, timeout)
	if err != nil {
		return nil, err
	}
	return &TCP{conn: conn}, nil
}

// NewTCP wraps an already-connected stream. Used by tests and by callers
// that establish the connection themselves.
func NewTCP(conn net.Conn) *TCP {
	return &TCP{conn: conn}
}

// fill performs one poll against the connection with the given deadline.
// Must be called with the lock held.
func (t *TCP) fill(deadline time.Time) {
	if t.closed || t.readErr != nil {
		return
	}
	_ = t.conn.SetReadDeadline(deadline)
	n, err := t.conn.Read(t.rbuf[:])
	if n > 0 {
		t.pending = append(t.pending, t.rbuf[:n]...)
	}
	if err != nil {
		if nerr, ok := err.(net.Error); ok && nerr.Timeout() {
			// Nothing ready within the deadline; not a failure.
			return
		}
		// Peer reset or EOF: remember it, report no data.
		t.readErr = err
	}
}

// ReadByte returns the next buffered byte. When the peer has reset the
// connection it returns ok=false with a nil error; check Err to distinguish
// a dead link from an idle one.
func (t *TCP) ReadByte() (byte, bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if len(t.pending) == 0 {
		t.fill(time.Now())
	}
	if len(t.pending) == 0 {
		return 0, false, nil
	}
	b := t.pending[0]
	t.pending = t.pending[1:]
	return b, true, nil
}

// Write sends all bytes to the peer.
func (t *TCP) Write(p []byte) (int, error) {
	return t.conn.Write(p)
}

// Available reports how many bytes can be read without blocking. The
// readiness poll uses an immediate deadline so an idle link answers at once.
func (t *TCP) Available() int {
	t.mu.Lock()
	defer t.mu.Unlock()

	if len(t.pending) == 0 {
		t.fill(time.Now())
	}
	return len(t.pending)
}

// Err returns the sticky read error observed on the link, if any. A non-nil
// result means the connection is dead even though ReadByte keeps reporting
// "no data".
func (t *TCP) Err() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.readErr
}

// Close closes the connection. Idempotent.
func (t *TCP) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return nil
	}
	t.closed = true
	return t.conn.Close()
}
