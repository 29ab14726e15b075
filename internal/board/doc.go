// Package board manages sessions with DuinoBot robot fleets.
//
// A Board owns one transport (serial device or TCP socket), runs the
// protocol initialization against it, and exposes the registry its decoders
// fill. The flavors are composed, not subclassed: OpenSerial and OpenTCP
// construct different transports and hand them to the same session logic,
// and Attach accepts any transport at all.
//
// # Lifecycle
//
//	Unopened -> Connecting -> Initializing -> Ready -> Closed
//	                 \-> Failed
//
// Initialization applies the configured pin layout (or auto-discovers one
// over the link, serial only), builds the dispatch table, and drains the
// unsolicited firmware frames the peer sends on connect. After that the
// owner drives everything: Iterate drains whatever bytes are available and
// returns, a polling model that lets the owner interleave robot control
// with input processing on a single thread.
//
// # Failure policy
//
// Connection failures are classified (permission vs unreachable vs timeout)
// for the diagnostic. By default the process terminates after printing it,
// which is what the classroom tools want; Config.Debug switches to
// returning the ConnectionError so embedding applications can retry.
package board
