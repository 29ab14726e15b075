package board

import (
	"errors"
	"fmt"
	"io/fs"
	"net"
	"syscall"

	"go.bug.st/serial"
)

// ConnectionErrorKind categorizes why a link could not be opened. The
// distinction matters for the diagnostic shown to users: a permission
// problem has a different fix than an absent device or an unreachable peer.
type ConnectionErrorKind int

const (
	// ConnectionUnknown covers failures with no more specific cause.
	ConnectionUnknown ConnectionErrorKind = iota
	// ConnectionPermission indicates the device exists but access was denied.
	ConnectionPermission
	// ConnectionUnreachable indicates an absent device or a peer that
	// refused or could not be reached.
	ConnectionUnreachable
	// ConnectionTimeout indicates connection establishment exceeded its bound.
	ConnectionTimeout
)

// String returns a human-readable name for the error kind
func (k ConnectionErrorKind) String() string {
	switch k {
	case ConnectionPermission:
		return "permission denied"
	case ConnectionUnreachable:
		return "unreachable"
	case ConnectionTimeout:
		return "timeout"
	default:
		return "unknown"
	}
}

// ConnectionError reports that a board's transport could not be opened.
type ConnectionError struct {
	Kind    ConnectionErrorKind
	Network string // "serial" or "tcp"
	Target  string // device path or host:port
	Err     error
}

// Error implements the error interface
func (e *ConnectionError) Error() string {
	return fmt.Sprintf("failed to connect to %s (%s, %s): %v", e.Target, e.Network, e.Kind, e.Err)
}

// Unwrap returns the underlying error for error chain inspection
func (e *ConnectionError) Unwrap() error {
	return e.Err
}

// Diagnostic returns a human-actionable message for the failure, worded for
// the classroom audience the robots ship to.
func (e *ConnectionError) Diagnostic() string {
	switch {
	case e.Kind == ConnectionPermission:
		return fmt.Sprintf("You do not have permission to access %s. "+
			"Check that your user belongs to the dialout group.", e.Target)
	case e.Network == "serial":
		return fmt.Sprintf("Unable to connect to the robot on %s. "+
			"Please plug in and configure the XBee.", e.Target)
	default:
		return fmt.Sprintf("Unable to connect to the robot at %s. "+
			"Check that the WiFi module is powered on.", e.Target)
	}
}

// classifyConnectionError wraps a transport construction failure with the
// kind a diagnostic needs. Classification checks the serial driver's typed
// errors first, then the portable filesystem and network causes.
func classifyConnectionError(network, target string, err error) *ConnectionError {
	kind := ConnectionUnknown

	var portErr *serial.PortError
	var netErr net.Error
	switch {
	case errors.As(err, &portErr):
		switch portErr.Code() {
		case serial.PermissionDenied:
			kind = ConnectionPermission
		case serial.PortNotFound, serial.PortBusy:
			kind = ConnectionUnreachable
		}
	case errors.Is(err, fs.ErrPermission):
		kind = ConnectionPermission
	case errors.As(err, &netErr) && netErr.Timeout():
		kind = ConnectionTimeout
	case errors.Is(err, syscall.ECONNREFUSED),
		errors.Is(err, syscall.EHOSTUNREACH),
		errors.Is(err, syscall.ENETUNREACH),
		errors.Is(err, fs.ErrNotExist):
		kind = ConnectionUnreachable
	}

	return &ConnectionError{
		Kind:    kind,
		Network: network,
		Target:  target,
		Err:     err,
	}
}
