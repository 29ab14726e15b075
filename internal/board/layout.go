package board

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/robotgroup/duinobot/internal/firmata"
)

// Layout is the capability declaration for a board model: which pin indices
// exist and what roles they support. Pin counts from the layout size the
// per-robot reading arrays in the state registry.
type Layout struct {
	// Digital lists the digital pin indices.
	Digital []int `yaml:"digital"`

	// Analog lists the analog channel numbers.
	Analog []int `yaml:"analog"`

	// PWM lists the digital pins supporting PWM output.
	PWM []int `yaml:"pwm"`

	// UsePorts indicates the firmware addresses digital pins in groups of 8.
	UsePorts bool `yaml:"use_ports"`

	// Disabled lists pins reserved for protocol use (serial lines, radio).
	Disabled []int `yaml:"disabled"`
}

// DuinoBot returns the layout of the stock DuinoBot board: 19 digital pins,
// 7 analog channels, PWM on 5/6/9, with the pins claimed by the serial link
// and radio disabled.
func DuinoBot() Layout {
	return Layout{
		Digital:  pinRange(19),
		Analog:   pinRange(7),
		PWM:      []int{5, 6, 9},
		UsePorts: true,
		Disabled: []int{0, 1, 3, 4, 8},
	}
}

// LoadLayout reads a layout description from a YAML file.
func LoadLayout(path string) (Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Layout{}, fmt.Errorf("failed to read layout file: %w", err)
	}

	var l Layout
	if err := yaml.Unmarshal(data, &l); err != nil {
		return Layout{}, fmt.Errorf("failed to parse layout file %s: %w", path, err)
	}
	if len(l.Digital) == 0 {
		return Layout{}, fmt.Errorf("layout file %s declares no digital pins", path)
	}
	return l, nil
}

// layoutFromCapability converts an auto-discovered pin inventory into a
// layout. Discovery cannot tell which pins the protocol has claimed, so
// Disabled stays empty; port addressing is the firmware default.
func layoutFromCapability(c firmata.Capability) Layout {
	return Layout{
		Digital:  c.Digital,
		Analog:   c.Analog,
		PWM:      c.PWM,
		UsePorts: true,
	}
}

func pinRange(n int) []int {
	pins := make([]int, n)
	for i := range pins {
		pins[i] = i
	}
	return pins
}
