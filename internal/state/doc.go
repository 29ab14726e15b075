// Package state holds the robot sensor registry.
//
// The registry is the single store that frame decoders write into and
// everything else reads from: nearest-obstacle distances from pings, legacy
// single-slot analog/digital values, per-pin reading arrays sized to the
// board layout, and the monotonic liveness flag set by broadcast frames.
//
// Historically this state lived in process-wide arrays; here it is an
// explicit object so independent sessions and tests can each own one, and
// sharing between sessions is a deliberate act of passing the same Registry.
package state
