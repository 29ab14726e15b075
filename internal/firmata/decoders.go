package firmata

import (
	"go.uber.org/zap"

	"github.com/robotgroup/duinobot/internal/logging"
	"github.com/robotgroup/duinobot/internal/state"
)

// Decoders binds the DuinoBot extended command set to a state registry.
// One Decoders instance backs one dispatch table; building the table is the
// registration step and happens exactly once per session.
type Decoders struct {
	reg *state.Registry
}

// NewDecoders creates the decoder set writing into the given registry.
func NewDecoders(reg *state.Registry) *Decoders {
	return &Decoders{reg: reg}
}

// Table returns the extended-command dispatch entries. Hand the result to
// NewDispatcher, optionally merged with session-level handlers.
func (d *Decoders) Table() map[byte]Handler {
	return map[byte]Handler{
		SysexPing:           d.ping,
		AnalogInputRequest:  d.analog,
		DigitalInputRequest: d.digital,
		BroadcastReport:     d.broadcast,
		PinCommands:         d.pinCommands,
	}
}

// ping decodes [msb, lsb, robot] into the nearest-obstacle distance.
func (d *Decoders) ping(payload []byte) error {
	if len(payload) < 3 {
		return &MalformedFrameError{Command: SysexPing, Got: len(payload), Want: 3}
	}
	robot := int(payload[2])
	value := Value14(payload[0], payload[1])
	d.reg.SetNearestObstacle(robot, value)

	logging.Debug("Ping decoded",
		zap.Int("robot", robot),
		zap.Int("obstacle", value),
	)
	return nil
}

// analog decodes [msb, lsb, robot] into the legacy analog slot.
func (d *Decoders) analog(payload []byte) error {
	if len(payload) < 3 {
		return &MalformedFrameError{Command: AnalogInputRequest, Got: len(payload), Want: 3}
	}
	d.reg.SetAnalogValue(int(payload[2]), Value14(payload[0], payload[1]))
	return nil
}

// digital decodes [value, robot] into the legacy digital slot.
func (d *Decoders) digital(payload []byte) error {
	if len(payload) < 2 {
		return &MalformedFrameError{Command: DigitalInputRequest, Got: len(payload), Want: 2}
	}
	d.reg.SetDigitalValue(int(payload[1]), int(payload[0]))
	return nil
}

// broadcast decodes [robot] and marks the robot live.
func (d *Decoders) broadcast(payload []byte) error {
	if len(payload) < 1 {
		return &MalformedFrameError{Command: BroadcastReport, Got: len(payload), Want: 1}
	}
	robot := int(payload[0])
	d.reg.SetLive(robot)

	logging.Debug("Broadcast decoded", zap.Int("robot", robot))
	return nil
}

// pinCommands decodes the per-pin command family [subtype, ...]. Unknown
// subtypes are ignored without error, mirroring the firmware's tolerance
// for forward-compatible extension.
func (d *Decoders) pinCommands(payload []byte) error {
	if len(payload) < 1 {
		return &MalformedFrameError{Command: PinCommands, Got: len(payload), Want: 1}
	}

	switch payload[0] {
	case PinGetAnalog:
		// [subtype, msb, lsb, pin, robot]
		if len(payload) < 5 {
			return &MalformedFrameError{Command: PinCommands, Subtype: PinGetAnalog, Got: len(payload), Want: 5}
		}
		robot, pin := int(payload[4]), int(payload[3])
		if !d.reg.SetPinAnalogValue(robot, pin, Value14(payload[1], payload[2])) {
			return &MalformedFrameError{
				Command: PinCommands,
				Subtype: PinGetAnalog,
				Reason:  "analog pin index outside board layout",
			}
		}

	case PinGetDigital:
		// [subtype, value, pin, robot]
		if len(payload) < 4 {
			return &MalformedFrameError{Command: PinCommands, Subtype: PinGetDigital, Got: len(payload), Want: 4}
		}
		robot, pin := int(payload[3]), int(payload[2])
		if !d.reg.SetPinDigitalValue(robot, pin, int(payload[1])) {
			return &MalformedFrameError{
				Command: PinCommands,
				Subtype: PinGetDigital,
				Reason:  "digital pin index outside board layout",
			}
		}

	default:
		logging.Debug("Ignoring unknown pin command subtype",
			zap.Uint8("subtype", payload[0]),
		)
	}
	return nil
}
