package firmata

import (
	"go.uber.org/zap"

	"github.com/robotgroup/duinobot/internal/logging"
)

// maxSysexLength caps frame accumulation so a link that loses an EndSysex
// byte cannot grow the buffer without bound.
const maxSysexLength = 1024

// Parser is the byte-stream frame reader of the base protocol engine. Bytes
// are fed one at a time as they are drained from the transport; completed
// sysex frames are handed to the Dispatcher.
//
// Non-sysex messages (analog/digital reports, protocol version) are
// recognized by their fixed lengths and consumed so they cannot desynchronize
// the stream, but their contents are not interpreted here: this layer only
// extends the command set, the built-in messages belong to the base protocol.
type Parser struct {
	disp *Dispatcher

	inSysex bool
	buf     []byte

	// skip counts remaining data bytes of a fixed-length non-sysex message
	skip int
}

// NewParser creates a parser feeding the given dispatcher.
func NewParser(disp *Dispatcher) *Parser {
	return &Parser{disp: disp}
}

// Feed consumes one wire byte. Handler and framing errors are returned; the
// parser itself always resynchronizes and can keep being fed.
func (p *Parser) Feed(b byte) error {
	if p.inSysex {
		return p.feedSysex(b)
	}

	if p.skip > 0 {
		p.skip--
		return nil
	}

	switch {
	case b == StartSysex:
		p.inSysex = true
		p.buf = p.buf[:0]
	case b == ReportVersion:
		p.skip = 2
	case b&0xF0 == AnalogMessage:
		p.skip = 2
	case b&0xF0 == DigitalMessage:
		p.skip = 2
	case b >= 0x80:
		// Unknown command byte: nothing to pair it with, drop it.
		logging.Debug("Ignoring unknown command byte", zap.Uint8("byte", b))
	default:
		// Stray data byte outside any message; noise on the link.
	}
	return nil
}

func (p *Parser) feedSysex(b byte) error {
	if b == EndSysex {
		p.inSysex = false
		if len(p.buf) == 0 {
			// Empty sysex frame carries nothing to dispatch.
			return nil
		}
		cmd := p.buf[0]
		payload := make([]byte, len(p.buf)-1)
		copy(payload, p.buf[1:])
		return p.disp.Dispatch(cmd, payload)
	}

	if b >= 0x80 {
		// Sysex data bytes are 7-bit; a high bit set mid-frame means the
		// frame is corrupt (dropped terminator, line noise). Letting it
		// through would hand decoders out-of-range robot ids.
		p.inSysex = false
		p.buf = p.buf[:0]
		return &MalformedFrameError{
			Command: 0,
			Reason:  "data byte with high bit set inside sysex frame",
		}
	}

	if len(p.buf) >= maxSysexLength {
		p.inSysex = false
		p.buf = p.buf[:0]
		return &MalformedFrameError{
			Command: 0,
			Reason:  "sysex frame exceeded maximum length without terminator",
		}
	}

	p.buf = append(p.buf, b)
	return nil
}
