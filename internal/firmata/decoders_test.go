package firmata

import (
	"errors"
	"testing"

	"github.com/robotgroup/duinobot/internal/state"
)

func newTestDecoders() (*Decoders, *state.Registry) {
	reg := state.NewRegistry(7, 19)
	return NewDecoders(reg), reg
}

func TestDecoders_Ping(t *testing.T) {
	d, reg := newTestDecoders()

	// Ping(msb=1, lsb=0, robot=2) -> obstacle 128
	if err := d.ping([]byte{1, 0, 2}); err != nil {
		t.Fatalf("ping() error = %v", err)
	}
	if v := reg.NearestObstacle(2); v != 128 {
		t.Errorf("NearestObstacle(2) = %d, want 128", v)
	}

	// Dispatch isolation: no other robot was touched
	for robot := 0; robot < state.MaxRobots; robot++ {
		if robot == 2 {
			continue
		}
		if v := reg.NearestObstacle(robot); v != state.Unknown {
			t.Errorf("NearestObstacle(%d) = %d, want untouched", robot, v)
		}
	}
}

func TestDecoders_Analog(t *testing.T) {
	d, reg := newTestDecoders()

	if err := d.analog([]byte{3, 21, 10}); err != nil {
		t.Fatalf("analog() error = %v", err)
	}
	if v := reg.AnalogValue(10); v != 3<<7|21 {
		t.Errorf("AnalogValue(10) = %d, want %d", v, 3<<7|21)
	}
}

func TestDecoders_Digital(t *testing.T) {
	d, reg := newTestDecoders()

	if err := d.digital([]byte{1, 6}); err != nil {
		t.Fatalf("digital() error = %v", err)
	}
	if v := reg.DigitalValue(6); v != 1 {
		t.Errorf("DigitalValue(6) = %d, want 1", v)
	}
}

func TestDecoders_Broadcast(t *testing.T) {
	d, reg := newTestDecoders()

	if err := d.broadcast([]byte{7}); err != nil {
		t.Fatalf("broadcast() error = %v", err)
	}
	if !reg.IsLive(7) {
		t.Error("IsLive(7) = false after broadcast")
	}
	for robot := 0; robot < state.MaxRobots; robot++ {
		if robot != 7 && reg.IsLive(robot) {
			t.Errorf("IsLive(%d) = true, want false", robot)
		}
	}
}

func TestDecoders_PinCommands(t *testing.T) {
	tests := []struct {
		name    string
		payload []byte
		verify  func(t *testing.T, reg *state.Registry)
	}{
		{
			name:    "get analog",
			payload: []byte{PinGetAnalog, 2, 5, 3, 4},
			verify: func(t *testing.T, reg *state.Registry) {
				if v := reg.PinAnalogValues(4)[3]; v != 2<<7|5 {
					t.Errorf("PinAnalogValues(4)[3] = %d, want %d", v, 2<<7|5)
				}
			},
		},
		{
			name:    "get digital",
			payload: []byte{PinGetDigital, 1, 3, 4},
			verify: func(t *testing.T, reg *state.Registry) {
				pins := reg.PinDigitalValues(4)
				if len(pins) != 19 {
					t.Fatalf("PinDigitalValues(4) length = %d, want 19", len(pins))
				}
				if pins[3] != 1 {
					t.Errorf("PinDigitalValues(4)[3] = %d, want 1", pins[3])
				}
			},
		},
		{
			name:    "unknown subtype ignored",
			payload: []byte{0x42, 1, 2, 3, 4},
			verify: func(t *testing.T, reg *state.Registry) {
				if got := reg.Snapshot(); len(got) != 0 {
					t.Errorf("Snapshot() = %v, want no state mutation", got)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, reg := newTestDecoders()
			if err := d.pinCommands(tt.payload); err != nil {
				t.Fatalf("pinCommands() error = %v", err)
			}
			tt.verify(t, reg)
		})
	}
}

func TestDecoders_MalformedPayloads(t *testing.T) {
	tests := []struct {
		name    string
		run     func(d *Decoders) error
	}{
		{"ping short", func(d *Decoders) error { return d.ping([]byte{1, 0}) }},
		{"analog short", func(d *Decoders) error { return d.analog([]byte{1}) }},
		{"digital short", func(d *Decoders) error { return d.digital([]byte{1}) }},
		{"broadcast empty", func(d *Decoders) error { return d.broadcast(nil) }},
		{"pin commands empty", func(d *Decoders) error { return d.pinCommands(nil) }},
		{"pin get analog short", func(d *Decoders) error { return d.pinCommands([]byte{PinGetAnalog, 1, 2}) }},
		{"pin get digital short", func(d *Decoders) error { return d.pinCommands([]byte{PinGetDigital, 1}) }},
		{"pin index out of layout", func(d *Decoders) error { return d.pinCommands([]byte{PinGetAnalog, 0, 1, 12, 4}) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, reg := newTestDecoders()
			err := tt.run(d)
			if !errors.Is(err, ErrMalformedFrame) {
				t.Fatalf("error = %v, want ErrMalformedFrame", err)
			}
			// A rejected frame must not mutate scalar state. The lazy pin
			// arrays may have been allocated, but every slot stays Unknown.
			for _, snap := range reg.Snapshot() {
				if snap.Live || snap.NearestObstacle != state.Unknown ||
					snap.AnalogValue != state.Unknown || snap.DigitalValue != state.Unknown {
					t.Errorf("scalar state mutated by malformed frame: %+v", snap)
				}
				for i, v := range snap.PinAnalog {
					if v != state.Unknown {
						t.Errorf("PinAnalog[%d] = %d, want Unknown", i, v)
					}
				}
				for i, v := range snap.PinDigital {
					if v != state.Unknown {
						t.Errorf("PinDigital[%d] = %d, want Unknown", i, v)
					}
				}
			}
		})
	}
}
