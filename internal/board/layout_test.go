package board

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/robotgroup/duinobot/internal/firmata"
)

func TestDuinoBot_StockLayout(t *testing.T) {
	l := DuinoBot()

	if len(l.Digital) != 19 {
		t.Errorf("digital pins = %d, want 19", len(l.Digital))
	}
	if len(l.Analog) != 7 {
		t.Errorf("analog channels = %d, want 7", len(l.Analog))
	}
	if !l.UsePorts {
		t.Error("UsePorts = false, want true")
	}

	wantPWM := []int{5, 6, 9}
	if len(l.PWM) != len(wantPWM) {
		t.Fatalf("PWM = %v, want %v", l.PWM, wantPWM)
	}
	for i, p := range wantPWM {
		if l.PWM[i] != p {
			t.Errorf("PWM = %v, want %v", l.PWM, wantPWM)
			break
		}
	}

	wantDisabled := []int{0, 1, 3, 4, 8}
	if len(l.Disabled) != len(wantDisabled) {
		t.Fatalf("Disabled = %v, want %v", l.Disabled, wantDisabled)
	}
	for i, p := range wantDisabled {
		if l.Disabled[i] != p {
			t.Errorf("Disabled = %v, want %v", l.Disabled, wantDisabled)
			break
		}
	}
}

func TestLoadLayout(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "layout.yaml")

	content := `digital: [0, 1, 2, 3]
analog: [0, 1]
pwm: [3]
use_ports: false
disabled: [0]
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write layout file: %v", err)
	}

	l, err := LoadLayout(path)
	if err != nil {
		t.Fatalf("LoadLayout() error = %v", err)
	}

	if len(l.Digital) != 4 || len(l.Analog) != 2 || len(l.PWM) != 1 {
		t.Errorf("layout = %+v, want 4 digital / 2 analog / 1 pwm", l)
	}
	if l.UsePorts {
		t.Error("UsePorts = true, want false")
	}
}

func TestLoadLayout_Errors(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		content string
	}{
		{"not yaml", "digital: [unclosed"},
		{"no digital pins", "analog: [0, 1]\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, "bad.yaml")
			if err := os.WriteFile(path, []byte(tt.content), 0o644); err != nil {
				t.Fatalf("failed to write layout file: %v", err)
			}
			if _, err := LoadLayout(path); err == nil {
				t.Error("LoadLayout() succeeded, want error")
			}
		})
	}

	if _, err := LoadLayout(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("LoadLayout() on missing file succeeded, want error")
	}
}

func TestLayoutFromCapability(t *testing.T) {
	l := layoutFromCapability(firmata.Capability{
		Digital: []int{0, 1, 2},
		Analog:  []int{0},
		PWM:     []int{2},
	})

	if len(l.Digital) != 3 || len(l.Analog) != 1 || len(l.PWM) != 1 {
		t.Errorf("layout = %+v, want 3 digital / 1 analog / 1 pwm", l)
	}
	if !l.UsePorts {
		t.Error("UsePorts = false, want the firmware default true")
	}
	if len(l.Disabled) != 0 {
		t.Errorf("Disabled = %v, want empty: discovery cannot know reserved pins", l.Disabled)
	}
}
