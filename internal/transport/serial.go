package transport

import (
	"fmt"
	"sync"
	"time"

	"go.bug.st/serial"
)

// DefaultBaudRate matches the XBee links shipped with DuinoBot robots.
const DefaultBaudRate = 57600

// pollTimeout bounds each read against the driver so that Available and
// ReadByte stay effectively non-blocking.
const pollTimeout = 10 * time.Millisecond

// SerialConfig describes the serial connection parameters used when opening
// a physical or virtual serial device.
type SerialConfig struct {
	BaudRate    int           // defaults to DefaultBaudRate when zero
	ReadTimeout time.Duration // per-read poll timeout, defaults to pollTimeout
}

// Serial is a Transport backed by a serial device. Reads are buffered
// internally: each poll drains whatever the driver has ready so Available can
// answer without a syscall per byte.
type Serial struct {
	port    serial.Port
	timeout time.Duration

	mu      sync.Mutex
	pending []byte
	rbuf    [256]byte
	closed  bool
}

// OpenSerial opens the serial device at the given path. Construction fails if
// the device cannot be opened; the raw driver error is returned for the
// session layer to classify.
func OpenSerial(device string, cfg SerialConfig) (*Serial, error) {
	baud := cfg.BaudRate
	if baud <= 0 {
		baud = DefaultBaudRate
	}
	timeout := cfg.ReadTimeout
	if timeout <= 0 {
		timeout = pollTimeout
	}

	mode := &serial.Mode{
		BaudRate: baud,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}

	port, err := serial.Open(device, mode)
	if err != nil {
		return nil, err
	}

	if err := port.SetReadTimeout(timeout); err != nil {
		port.Close()
		return nil, fmt.Errorf("failed to set read timeout on %s: %w", device, err)
	}

	return &Serial{port: port, timeout: timeout}, nil
}

// fill performs one bounded read against the driver and appends whatever
// arrived to the pending buffer. Must be called with the lock held.
func (s *Serial) fill() error {
	if s.closed {
		return nil
	}
	n, err := s.port.Read(s.rbuf[:])
	if n > 0 {
		s.pending = append(s.pending, s.rbuf[:n]...)
	}
	// A timeout read returns n == 0 with a nil error; anything else is a
	// real driver failure.
	return err
}

// ReadByte returns the next buffered byte, polling the driver once when the
// buffer is empty.
func (s *Serial) ReadByte() (byte, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.pending) == 0 {
		if err := s.fill(); err != nil {
			return 0, false, err
		}
	}
	if len(s.pending) == 0 {
		return 0, false, nil
	}
	b := s.pending[0]
	s.pending = s.pending[1:]
	return b, true, nil
}

// Write sends all bytes to the device.
func (s *Serial) Write(p []byte) (int, error) {
	return s.port.Write(p)
}

// Available reports how many bytes can be read without blocking.
func (s *Serial) Available() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.pending) == 0 {
		_ = s.fill()
	}
	return len(s.pending)
}

// Close releases the serial device. Idempotent.
func (s *Serial) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true
	return s.port.Close()
}
