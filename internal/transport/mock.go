package transport

import (
	"bytes"
	"errors"
	"sync"
)

// Scripted implements Transport with configurable behaviour for testing.
// It provides fine-grained control over reads, writes, and errors without
// real hardware.
type Scripted struct {
	mu sync.Mutex

	// ReadBuffer holds data to be returned by ReadByte calls
	ReadBuffer *bytes.Buffer

	// WriteBuffer captures data written to the transport
	WriteBuffer *bytes.Buffer

	// ReadError is returned by the next ReadByte call if set
	ReadError error

	// WriteError is returned by the next Write call if set
	WriteError error

	// Closed indicates whether Close was called
	Closed bool

	// ReadCalls records the number of ReadByte calls
	ReadCalls int

	// WriteCalls records the number of Write calls
	WriteCalls int
}

// NewScripted creates a Scripted transport preloaded with the given wire
// bytes.
func NewScripted(data []byte) *Scripted {
	return &Scripted{
		ReadBuffer:  bytes.NewBuffer(data),
		WriteBuffer: bytes.NewBuffer(nil),
	}
}

// ReadByte pops one byte from the read buffer.
func (s *Scripted) ReadByte() (byte, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.ReadCalls++

	if s.Closed {
		return 0, false, errors.New("transport closed")
	}
	if s.ReadError != nil {
		err := s.ReadError
		s.ReadError = nil
		return 0, false, err
	}
	if s.ReadBuffer.Len() == 0 {
		return 0, false, nil
	}
	b, _ := s.ReadBuffer.ReadByte()
	return b, true, nil
}

// Write captures the written bytes.
func (s *Scripted) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.WriteCalls++

	if s.Closed {
		return 0, errors.New("transport closed")
	}
	if s.WriteError != nil {
		err := s.WriteError
		s.WriteError = nil
		return 0, err
	}
	return s.WriteBuffer.Write(p)
}

// Available reports the number of scripted bytes remaining.
func (s *Scripted) Available() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.Closed {
		return 0
	}
	return s.ReadBuffer.Len()
}

// Close marks the transport as closed. Idempotent.
func (s *Scripted) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.Closed = true
	return nil
}

// AddReadData appends data to be returned by subsequent ReadByte calls.
func (s *Scripted) AddReadData(data []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.ReadBuffer.Write(data)
}

// Written returns all data written to the transport so far.
func (s *Scripted) Written() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.WriteBuffer.Bytes()
}
