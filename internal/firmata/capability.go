package firmata

// Firmware identifies the peer's firmware, reported in the unsolicited
// REPORT_FIRMWARE frame sent at connection start.
type Firmware struct {
	Name  string
	Major byte
	Minor byte
}

// ParseFirmwareReport decodes a REPORT_FIRMWARE payload:
// [major, minor, name as 7-bit byte pairs].
func ParseFirmwareReport(payload []byte) (Firmware, error) {
	if len(payload) < 2 {
		return Firmware{}, &MalformedFrameError{Command: ReportFirmware, Got: len(payload), Want: 2}
	}
	return Firmware{
		Major: payload[0],
		Minor: payload[1],
		Name:  DecodeString7(payload[2:]),
	}, nil
}

// Capability is the pin inventory decoded from a capability response:
// which pin indices exist, and which support analog input or PWM. Analog
// channel numbers are assigned in pin order, matching how the firmware maps
// analog channels onto capable pins.
type Capability struct {
	Digital []int // pins supporting digital input/output
	Analog  []int // analog channel numbers (0..n-1)
	PWM     []int // pins supporting PWM output
}

// ParseCapabilityResponse decodes a CAPABILITY_RESPONSE payload. The payload
// lists (mode, resolution) pairs per pin, with 0x7F terminating each pin's
// list; a pin with an empty list is unavailable.
func ParseCapabilityResponse(payload []byte) (Capability, error) {
	var c Capability

	pin := 0
	analogChannel := 0
	digital := false
	analog := false
	pwm := false

	i := 0
	for i < len(payload) {
		if payload[i] == capabilityPinDelimiter {
			if digital {
				c.Digital = append(c.Digital, pin)
			}
			if analog {
				c.Analog = append(c.Analog, analogChannel)
				analogChannel++
			}
			if pwm {
				c.PWM = append(c.PWM, pin)
			}
			pin++
			digital, analog, pwm = false, false, false
			i++
			continue
		}

		if i+1 >= len(payload) {
			return Capability{}, &MalformedFrameError{
				Command: CapabilityResponse,
				Reason:  "truncated mode/resolution pair",
			}
		}

		switch payload[i] {
		case ModeInput, ModeOutput:
			digital = true
		case ModeAnalog:
			analog = true
		case ModePWM:
			pwm = true
		}
		i += 2 // skip the resolution byte
	}

	return c, nil
}
