package state

// RobotSnapshot is a copied view of one robot's sensed state, safe to hand
// to encoders and UI code while decoders keep writing.
type RobotSnapshot struct {
	ID              int   `json:"id"`
	Live            bool  `json:"live"`
	NearestObstacle int   `json:"nearest_obstacle"`
	AnalogValue     int   `json:"analog_value"`
	DigitalValue    int   `json:"digital_value"`
	PinAnalog       []int `json:"pin_analog,omitempty"`
	PinDigital      []int `json:"pin_digital,omitempty"`
}

// Snapshot returns copies of the state of every robot that has been heard
// from: robots that are live, have any scalar reading, or have per-pin
// arrays allocated. Robots never referenced by a frame are omitted.
func (r *Registry) Snapshot() []RobotSnapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []RobotSnapshot
	for id := 0; id < MaxRobots; id++ {
		_, hasAnalog := r.pinAnalog[id]
		_, hasDigital := r.pinDigital[id]
		seen := r.live[id] ||
			r.nearestObstacle[id] != Unknown ||
			r.analogValue[id] != Unknown ||
			r.digitalValue[id] != Unknown ||
			hasAnalog || hasDigital

		if !seen {
			continue
		}

		snap := RobotSnapshot{
			ID:              id,
			Live:            r.live[id],
			NearestObstacle: r.nearestObstacle[id],
			AnalogValue:     r.analogValue[id],
			DigitalValue:    r.digitalValue[id],
		}
		if hasAnalog {
			snap.PinAnalog = append([]int(nil), r.pinAnalog[id]...)
		}
		if hasDigital {
			snap.PinDigital = append([]int(nil), r.pinDigital[id]...)
		}
		out = append(out, snap)
	}
	return out
}
