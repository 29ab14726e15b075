package state

import "sync"

// MaxRobots is the size of the robot address space. Robot identifiers are
// 7-bit values carried inside sysex payloads, so 128 addresses exist by
// construction of the wire format.
const MaxRobots = 128

// Unknown is the sentinel for "no reading yet".
const Unknown = -1

// Registry holds the sensed values for every robot reachable over the
// process's links. Robot identity travels in the payload, not the transport,
// so multiple board sessions may share one Registry and observe the same
// robots; all mutation goes through the decoders, readers never write.
//
// Scalar fields are pre-allocated for the full address space; the per-pin
// arrays are allocated lazily on first access for a given robot. Entries are
// never deleted, the registry lives as long as the process wants it to.
type Registry struct {
	mu sync.RWMutex

	analogPins  int
	digitalPins int

	nearestObstacle [MaxRobots]int
	analogValue     [MaxRobots]int
	digitalValue    [MaxRobots]int
	live            [MaxRobots]bool

	pinAnalog  map[int][]int
	pinDigital map[int][]int
}

// NewRegistry creates a registry for boards whose layout declares the given
// pin counts. The counts size the lazily-allocated per-pin arrays.
func NewRegistry(analogPins, digitalPins int) *Registry {
	r := &Registry{
		analogPins:  analogPins,
		digitalPins: digitalPins,
		pinAnalog:   make(map[int][]int),
		pinDigital:  make(map[int][]int),
	}
	for i := 0; i < MaxRobots; i++ {
		r.nearestObstacle[i] = Unknown
		r.analogValue[i] = Unknown
		r.digitalValue[i] = Unknown
	}
	return r
}

// AnalogPinCount returns the configured analog pin count.
func (r *Registry) AnalogPinCount() int { return r.analogPins }

// DigitalPinCount returns the configured digital pin count.
func (r *Registry) DigitalPinCount() int { return r.digitalPins }

// NearestObstacle returns the last ping distance for the robot, or Unknown.
func (r *Registry) NearestObstacle(robot int) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.nearestObstacle[robot]
}

// SetNearestObstacle records a ping distance for the robot.
func (r *Registry) SetNearestObstacle(robot, value int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nearestObstacle[robot] = value
}

// AnalogValue returns the legacy single-slot analog value for the robot.
// Superseded by the per-pin arrays but retained for compatibility with older
// firmware that still answers the single-value request.
func (r *Registry) AnalogValue(robot int) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.analogValue[robot]
}

// SetAnalogValue records a legacy analog reading.
func (r *Registry) SetAnalogValue(robot, value int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.analogValue[robot] = value
}

// DigitalValue returns the legacy single-slot digital value for the robot.
func (r *Registry) DigitalValue(robot int) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.digitalValue[robot]
}

// SetDigitalValue records a legacy digital reading.
func (r *Registry) SetDigitalValue(robot, value int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.digitalValue[robot] = value
}

// IsLive reports whether a broadcast frame has ever been seen from the
// robot. Liveness is monotonic: nothing in this layer resets it. A timeout
// policy, if wanted, belongs to the caller.
func (r *Registry) IsLive(robot int) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.live[robot]
}

// SetLive marks the robot as present on the link.
func (r *Registry) SetLive(robot int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.live[robot] = true
}

// LiveRobots returns the identifiers of all robots marked live, in order.
func (r *Registry) LiveRobots() []int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var ids []int
	for i := 0; i < MaxRobots; i++ {
		if r.live[i] {
			ids = append(ids, i)
		}
	}
	return ids
}

// PinAnalogValues returns the per-pin analog array for the robot, allocating
// it on first access with one Unknown slot per configured analog pin.
// Subsequent calls for the same robot return the same backing array, so
// readings persist across accesses.
func (r *Registry) PinAnalogValues(robot int) []int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return lazyPins(r.pinAnalog, robot, r.analogPins)
}

// PinDigitalValues returns the per-pin digital array for the robot,
// allocating it on first access with one Unknown slot per configured digital
// pin.
func (r *Registry) PinDigitalValues(robot int) []int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return lazyPins(r.pinDigital, robot, r.digitalPins)
}

// SetPinAnalogValue records a per-pin analog reading. Reports false when the
// pin index is outside the configured layout.
func (r *Registry) SetPinAnalogValue(robot, pin, value int) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	pins := lazyPins(r.pinAnalog, robot, r.analogPins)
	if pin < 0 || pin >= len(pins) {
		return false
	}
	pins[pin] = value
	return true
}

// SetPinDigitalValue records a per-pin digital reading. Reports false when
// the pin index is outside the configured layout.
func (r *Registry) SetPinDigitalValue(robot, pin, value int) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	pins := lazyPins(r.pinDigital, robot, r.digitalPins)
	if pin < 0 || pin >= len(pins) {
		return false
	}
	pins[pin] = value
	return true
}

func lazyPins(store map[int][]int, robot, count int) []int {
	if pins, ok := store[robot]; ok {
		return pins
	}
	pins := make([]int, count)
	for i := range pins {
		pins[i] = Unknown
	}
	store[robot] = pins
	return pins
}
