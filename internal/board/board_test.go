package board

import (
	"errors"
	"testing"
	"time"

	"github.com/robotgroup/duinobot/internal/firmata"
	"github.com/robotgroup/duinobot/internal/state"
	"github.com/robotgroup/duinobot/internal/transport"
)

// firmwareFrame builds a REPORT_FIRMWARE sysex frame announcing the given
// name and version.
func firmwareFrame(name string, major, minor byte) []byte {
	frame := []byte{firmata.StartSysex, firmata.ReportFirmware, major, minor}
	for _, ch := range []byte(name) {
		frame = append(frame, ch&0x7F, 0)
	}
	return append(frame, firmata.EndSysex)
}

func TestAttach_DrainsFirmwareFrames(t *testing.T) {
	tr := transport.NewScripted(firmwareFrame("DuinoBot", 2, 1))

	layout := DuinoBot()
	b, err := Attach(tr, Config{Layout: &layout, Name: "test"})
	if err != nil {
		t.Fatalf("Attach() error = %v", err)
	}
	defer b.Close()

	if b.State() != Ready {
		t.Errorf("State() = %s, want ready", b.State())
	}
	fw := b.Firmware()
	if fw.Name != "DuinoBot" || fw.Major != 2 || fw.Minor != 1 {
		t.Errorf("Firmware() = %+v, want DuinoBot 2.1", fw)
	}
	if tr.Available() != 0 {
		t.Errorf("%d bytes left undrained after init", tr.Available())
	}
}

func TestAttach_SilentPeerStillReady(t *testing.T) {
	// No handshake verification: a peer that sends nothing is accepted.
	tr := transport.NewScripted(nil)

	layout := DuinoBot()
	b, err := Attach(tr, Config{Layout: &layout})
	if err != nil {
		t.Fatalf("Attach() error = %v", err)
	}
	defer b.Close()

	if b.State() != Ready {
		t.Errorf("State() = %s, want ready", b.State())
	}
	if fw := b.Firmware(); fw.Name != "" {
		t.Errorf("Firmware() = %+v, want zero value", fw)
	}
}

func TestBoard_IterateDecodesTelemetry(t *testing.T) {
	tr := transport.NewScripted(nil)

	layout := DuinoBot()
	b, err := Attach(tr, Config{Layout: &layout})
	if err != nil {
		t.Fatalf("Attach() error = %v", err)
	}
	defer b.Close()

	tr.AddReadData([]byte{
		firmata.StartSysex, firmata.SysexPing, 1, 0, 2, firmata.EndSysex,
		firmata.StartSysex, firmata.BroadcastReport, 7, firmata.EndSysex,
		firmata.StartSysex, firmata.PinCommands, firmata.PinGetDigital, 1, 3, 4, firmata.EndSysex,
	})
	if err := b.Iterate(); err != nil {
		t.Fatalf("Iterate() error = %v", err)
	}

	reg := b.Registry()
	if v := reg.NearestObstacle(2); v != 128 {
		t.Errorf("NearestObstacle(2) = %d, want 128", v)
	}
	if !reg.IsLive(7) {
		t.Error("IsLive(7) = false")
	}
	pins := reg.PinDigitalValues(4)
	if len(pins) != len(layout.Digital) {
		t.Errorf("PinDigitalValues length = %d, want %d", len(pins), len(layout.Digital))
	}
	if pins[3] != 1 {
		t.Errorf("PinDigitalValues(4)[3] = %d, want 1", pins[3])
	}
}

func TestBoard_MalformedFrameDroppedNotFatal(t *testing.T) {
	tr := transport.NewScripted(nil)

	layout := DuinoBot()
	b, err := Attach(tr, Config{Layout: &layout})
	if err != nil {
		t.Fatalf("Attach() error = %v", err)
	}
	defer b.Close()

	// Truncated ping followed by a valid broadcast
	tr.AddReadData([]byte{
		firmata.StartSysex, firmata.SysexPing, 1, firmata.EndSysex,
		firmata.StartSysex, firmata.BroadcastReport, 5, firmata.EndSysex,
	})
	if err := b.Iterate(); err != nil {
		t.Fatalf("Iterate() error = %v", err)
	}

	if !b.Registry().IsLive(5) {
		t.Error("IsLive(5) = false; malformed frame broke the drain loop")
	}
}

func TestBoard_HighBitNoiseDroppedNotFatal(t *testing.T) {
	tr := transport.NewScripted(nil)

	layout := DuinoBot()
	b, err := Attach(tr, Config{Layout: &layout})
	if err != nil {
		t.Fatalf("Attach() error = %v", err)
	}
	defer b.Close()

	// Line noise with the high bit set where a robot id belongs. Must be
	// dropped like any corrupt frame, never index past the registry.
	tr.AddReadData([]byte{
		firmata.StartSysex, firmata.BroadcastReport, 0x85, firmata.EndSysex,
		firmata.StartSysex, firmata.BroadcastReport, 6, firmata.EndSysex,
	})
	if err := b.Iterate(); err != nil {
		t.Fatalf("Iterate() error = %v", err)
	}

	if len(b.Registry().LiveRobots()) != 1 {
		t.Errorf("LiveRobots() = %v, want only robot 6", b.Registry().LiveRobots())
	}
	if !b.Registry().IsLive(6) {
		t.Error("IsLive(6) = false; corrupt frame broke the drain loop")
	}
}

// faultyLink wraps a scripted transport with a sticky link fault, the shape
// a reset TCP connection presents.
type faultyLink struct {
	*transport.Scripted
	fault error
}

func (f *faultyLink) Err() error { return f.fault }

func TestBoard_IterateSurfacesStickyLinkFault(t *testing.T) {
	tr := &faultyLink{Scripted: transport.NewScripted(nil)}

	layout := DuinoBot()
	b, err := Attach(tr, Config{Layout: &layout})
	if err != nil {
		t.Fatalf("Attach() error = %v", err)
	}
	defer b.Close()

	if err := b.Iterate(); err != nil {
		t.Fatalf("Iterate() with healthy link error = %v", err)
	}

	// Once the peer resets, the link reads as idle but Iterate must report
	// the fault instead of letting owners poll a dead connection forever.
	tr.fault = errors.New("connection reset by peer")
	if err := b.Iterate(); err == nil {
		t.Fatal("Iterate() on faulted link succeeded, want error")
	} else if !errors.Is(err, tr.fault) {
		t.Errorf("Iterate() error = %v, want wrapped link fault", err)
	}
}

func TestAttach_AutoDiscoversLayout(t *testing.T) {
	// Script a capability response: two digital pins, one analog channel.
	response := []byte{
		firmata.StartSysex, firmata.CapabilityResponse,
		firmata.ModeInput, 1, firmata.ModeOutput, 1, 0x7F,
		firmata.ModeInput, 1, firmata.ModeOutput, 1, firmata.ModePWM, 8, 0x7F,
		firmata.ModeAnalog, 10, 0x7F,
		firmata.EndSysex,
	}
	tr := transport.NewScripted(response)

	b, err := Attach(tr, Config{})
	if err != nil {
		t.Fatalf("Attach() error = %v", err)
	}
	defer b.Close()

	// The capability query went out on the wire
	written := tr.Written()
	want := []byte{firmata.StartSysex, firmata.CapabilityQuery, firmata.EndSysex}
	if len(written) != len(want) {
		t.Fatalf("wrote %v, want %v", written, want)
	}
	for i := range want {
		if written[i] != want[i] {
			t.Fatalf("wrote %v, want %v", written, want)
		}
	}

	layout := b.Layout()
	if len(layout.Digital) != 2 || len(layout.Analog) != 1 || len(layout.PWM) != 1 {
		t.Errorf("Layout = %+v, want 2 digital / 1 analog / 1 pwm", layout)
	}

	// Registry sized to the discovered layout
	if got := len(b.Registry().PinAnalogValues(0)); got != 1 {
		t.Errorf("analog pin array length = %d, want 1", got)
	}
}

func TestAttach_AutoDiscoveryNeedsResponsivePeer(t *testing.T) {
	// An injected read error should surface instead of spinning until the
	// discovery deadline.
	tr := transport.NewScripted(nil)
	tr.ReadError = errors.New("link dropped")

	if _, err := Attach(tr, Config{}); err == nil {
		t.Fatal("Attach() with failing transport succeeded, want error")
	}
}

func TestBoard_SharedRegistry(t *testing.T) {
	reg := state.NewRegistry(7, 19)
	layout := DuinoBot()

	tr1 := transport.NewScripted(nil)
	b1, err := Attach(tr1, Config{Layout: &layout, Registry: reg})
	if err != nil {
		t.Fatalf("Attach() error = %v", err)
	}
	defer b1.Close()

	tr2 := transport.NewScripted(nil)
	b2, err := Attach(tr2, Config{Layout: &layout, Registry: reg})
	if err != nil {
		t.Fatalf("Attach() error = %v", err)
	}
	defer b2.Close()

	// A broadcast on one link is visible through the other session: robot
	// identity lives in the payload, not the transport.
	tr1.AddReadData([]byte{firmata.StartSysex, firmata.BroadcastReport, 12, firmata.EndSysex})
	if err := b1.Iterate(); err != nil {
		t.Fatalf("Iterate() error = %v", err)
	}
	if !b2.Registry().IsLive(12) {
		t.Error("shared registry did not propagate liveness across sessions")
	}
}

func TestOpenTCP_RequiresLayout(t *testing.T) {
	if _, err := OpenTCP("127.0.0.1", 4200, Config{Debug: true}); err == nil {
		t.Fatal("OpenTCP() without layout succeeded, want error")
	}
}

func TestOpenTCP_UnreachableDebugMode(t *testing.T) {
	layout := DuinoBot()

	// 192.0.2.0/24 is TEST-NET-1; nothing answers there. Debug mode must
	// return the classified error rather than terminating the process.
	_, err := OpenTCP("192.0.2.1", 4200, Config{
		Layout:         &layout,
		Debug:          true,
		ConnectTimeout: 200 * time.Millisecond,
	})
	if err == nil {
		t.Fatal("OpenTCP() to TEST-NET succeeded, want error")
	}

	var cerr *ConnectionError
	if !errors.As(err, &cerr) {
		t.Fatalf("error = %v (%T), want *ConnectionError", err, err)
	}
	if cerr.Network != "tcp" {
		t.Errorf("Network = %q, want tcp", cerr.Network)
	}
	if cerr.Kind != ConnectionTimeout && cerr.Kind != ConnectionUnreachable {
		t.Errorf("Kind = %s, want timeout or unreachable", cerr.Kind)
	}
}

func TestBoard_IterateAfterClose(t *testing.T) {
	tr := transport.NewScripted(nil)
	layout := DuinoBot()
	b, err := Attach(tr, Config{Layout: &layout})
	if err != nil {
		t.Fatalf("Attach() error = %v", err)
	}

	if err := b.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if err := b.Close(); err != nil {
		t.Fatalf("second Close() error = %v", err)
	}
	if err := b.Iterate(); err == nil {
		t.Error("Iterate() on closed board succeeded, want error")
	}
}
