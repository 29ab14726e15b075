package firmata

import (
	"errors"
	"testing"
)

func TestParseFirmwareReport(t *testing.T) {
	payload := []byte{2, 3, 'D', 0, 'u', 0, 'i', 0, 'n', 0, 'o', 0}
	fw, err := ParseFirmwareReport(payload)
	if err != nil {
		t.Fatalf("ParseFirmwareReport() error = %v", err)
	}
	if fw.Major != 2 || fw.Minor != 3 {
		t.Errorf("version = %d.%d, want 2.3", fw.Major, fw.Minor)
	}
	if fw.Name != "Duino" {
		t.Errorf("name = %q, want %q", fw.Name, "Duino")
	}

	if _, err := ParseFirmwareReport([]byte{2}); !errors.Is(err, ErrMalformedFrame) {
		t.Errorf("short payload error = %v, want ErrMalformedFrame", err)
	}
}

func TestParseCapabilityResponse(t *testing.T) {
	// Three pins: pin 0 digital only, pin 1 digital+pwm, pin 2 analog only.
	payload := []byte{
		ModeInput, 1, ModeOutput, 1, capabilityPinDelimiter,
		ModeInput, 1, ModeOutput, 1, ModePWM, 8, capabilityPinDelimiter,
		ModeAnalog, 10, capabilityPinDelimiter,
	}

	caps, err := ParseCapabilityResponse(payload)
	if err != nil {
		t.Fatalf("ParseCapabilityResponse() error = %v", err)
	}

	if len(caps.Digital) != 2 || caps.Digital[0] != 0 || caps.Digital[1] != 1 {
		t.Errorf("Digital = %v, want [0 1]", caps.Digital)
	}
	if len(caps.Analog) != 1 || caps.Analog[0] != 0 {
		t.Errorf("Analog = %v, want [0]", caps.Analog)
	}
	if len(caps.PWM) != 1 || caps.PWM[0] != 1 {
		t.Errorf("PWM = %v, want [1]", caps.PWM)
	}
}

func TestParseCapabilityResponse_Truncated(t *testing.T) {
	// A mode byte with no resolution byte after it
	payload := []byte{ModeInput, 1, ModeOutput}
	if _, err := ParseCapabilityResponse(payload); !errors.Is(err, ErrMalformedFrame) {
		t.Errorf("truncated payload error = %v, want ErrMalformedFrame", err)
	}
}

func TestParseCapabilityResponse_Empty(t *testing.T) {
	caps, err := ParseCapabilityResponse(nil)
	if err != nil {
		t.Fatalf("ParseCapabilityResponse(nil) error = %v", err)
	}
	if len(caps.Digital) != 0 || len(caps.Analog) != 0 || len(caps.PWM) != 0 {
		t.Errorf("capability = %+v, want empty", caps)
	}
}
