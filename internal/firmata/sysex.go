package firmata

// Core Firmata message bytes. The high bit of every data byte is reserved
// for framing, which is why multi-byte values travel as 7-bit pairs.
const (
	StartSysex = 0xF0
	EndSysex   = 0xF7

	ReportVersion  = 0xF9
	AnalogMessage  = 0xE0 // high nibble; low nibble is the pin
	DigitalMessage = 0x90 // high nibble; low nibble is the port
	SystemReset    = 0xFF

	ReportFirmware     = 0x79
	CapabilityQuery    = 0x6B
	CapabilityResponse = 0x6C
)

// Extended command set using sysex. 0x00-0x0F are reserved for user-defined
// commands, which is where the DuinoBot firmware lives.
const (
	SysexPing           = 0x03
	AnalogInputRequest  = 0x06
	DigitalInputRequest = 0x07
	BroadcastReport     = 0x09
	PinCommands         = 0x0F
)

// PinCommands subtypes. The per-pin commands replace the older single-value
// analog/digital requests.
const (
	PinGetAnalog  = 0x01
	PinGetDigital = 0x02
)

// Pin capability modes reported in a capability response.
const (
	ModeInput  = 0x00
	ModeOutput = 0x01
	ModeAnalog = 0x02
	ModePWM    = 0x03
	ModeServo  = 0x04
)

// capabilityPinDelimiter separates per-pin mode lists in a capability
// response.
const capabilityPinDelimiter = 0x7F

// Value14 reconstructs a 14-bit value from its two 7-bit halves. The wire
// splits values this way because the high bit of every byte belongs to the
// framing layer. Result range is [0, 16383].
func Value14(msb, lsb byte) int {
	return int(msb)<<7 | int(lsb)
}

// Split14 splits a 14-bit value back into its 7-bit halves.
func Split14(v int) (msb, lsb byte) {
	return byte(v >> 7 & 0x7F), byte(v & 0x7F)
}

// DecodeString7 decodes a string sent as 7-bit byte pairs (lsb, msb per
// character), the encoding firmware names arrive in.
func DecodeString7(data []byte) string {
	out := make([]byte, 0, len(data)/2)
	for i := 0; i+1 < len(data); i += 2 {
		out = append(out, byte(Value14(data[i+1], data[i])))
	}
	return string(out)
}
