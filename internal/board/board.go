package board

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/robotgroup/duinobot/internal/firmata"
	"github.com/robotgroup/duinobot/internal/logging"
	"github.com/robotgroup/duinobot/internal/state"
	"github.com/robotgroup/duinobot/internal/transport"
)

// State tracks a board session's lifecycle.
type State int

const (
	Unopened State = iota
	Connecting
	Initializing
	Ready
	Closed
	Failed
)

// String returns a human-readable state name
func (s State) String() string {
	switch s {
	case Unopened:
		return "unopened"
	case Connecting:
		return "connecting"
	case Initializing:
		return "initializing"
	case Ready:
		return "ready"
	case Closed:
		return "closed"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// autoSetupTimeout bounds how long auto-discovery waits for the peer to
// answer the capability query.
const autoSetupTimeout = 5 * time.Second

// Config carries the optional parameters shared by both board flavors.
// Zero values select the defaults.
type Config struct {
	// Layout declares the board's pin capabilities. When nil on a serial
	// board, the layout is auto-discovered from the peer. TCP boards
	// require an explicit layout.
	Layout *Layout

	// Name is the display name; defaults to the device path or host:port.
	Name string

	// Debug makes connection failures propagate as errors instead of
	// printing a diagnostic and terminating the process. Embedding
	// applications set this to handle or retry construction themselves.
	Debug bool

	// BaudRate for serial boards; defaults to 57600.
	BaudRate int

	// ReadTimeout is the per-poll read bound for serial boards.
	ReadTimeout time.Duration

	// ConnectTimeout bounds TCP connection establishment; defaults to 5s.
	ConnectTimeout time.Duration

	// Registry is the robot state store written by this session's
	// decoders. When nil a fresh registry sized to the layout is created.
	// Pass the same registry to several sessions to share one fleet view
	// across links.
	Registry *state.Registry
}

// Board is one session over one transport: it owns the link, performs the
// protocol initialization, and feeds incoming frames through the dispatch
// table into the state registry. The serial and TCP flavors differ only in
// the transport they construct.
//
// A board has a single logical thread of control: nothing reads the link in
// the background, the owner paces all input by calling Iterate.
type Board struct {
	tr     transport.Transport
	layout Layout
	reg    *state.Registry
	parser *firmata.Parser

	name     string
	st       State
	firmware firmata.Firmware
}

// OpenSerial opens a board over the serial device at the given path. With
// cfg.Debug unset a connection failure prints a diagnostic and terminates
// the process; with it set the ConnectionError is returned.
func OpenSerial(device string, cfg Config) (*Board, error) {
	b := &Board{name: cfg.Name, st: Connecting}
	if b.name == "" {
		b.name = device
	}

	tr, err := transport.OpenSerial(device, transport.SerialConfig{
		BaudRate:    cfg.BaudRate,
		ReadTimeout: cfg.ReadTimeout,
	})
	if err != nil {
		return nil, b.connectFailed("serial", device, err, cfg.Debug)
	}
	b.tr = tr

	if err := b.initialize(cfg, cfg.Layout == nil); err != nil {
		tr.Close()
		return nil, err
	}
	return b, nil
}

// OpenTCP opens a board over a TCP connection to the robot's WiFi module.
// The layout is required: no auto-discovery path is wired for TCP boards.
func OpenTCP(host string, port int, cfg Config) (*Board, error) {
	if cfg.Layout == nil {
		return nil, errors.New("tcp boards require an explicit layout")
	}

	target := net.JoinHostPort(host, strconv.Itoa(port))
	b := &Board{name: cfg.Name, st: Connecting}
	if b.name == "" {
		b.name = target
	}

	tr, err := transport.DialTCP(host, port, cfg.ConnectTimeout)
	if err != nil {
		return nil, b.connectFailed("tcp", target, err, cfg.Debug)
	}
	b.tr = tr

	if err := b.initialize(cfg, false); err != nil {
		tr.Close()
		return nil, err
	}
	return b, nil
}

// Attach builds a board session over an already-open transport. Used by
// tests and by embedders that construct the link themselves. Auto-discovery
// runs when cfg.Layout is nil, as on the serial path.
func Attach(tr transport.Transport, cfg Config) (*Board, error) {
	b := &Board{tr: tr, name: cfg.Name, st: Connecting}
	if b.name == "" {
		b.name = "attached"
	}
	if err := b.initialize(cfg, cfg.Layout == nil); err != nil {
		return nil, err
	}
	return b, nil
}

// connectFailed applies the connection failure policy: classify, then either
// propagate (debug) or print the diagnostic and terminate.
func (b *Board) connectFailed(network, target string, err error, debug bool) error {
	b.st = Failed
	cerr := classifyConnectionError(network, target, err)

	logging.Error("Connection failed",
		zap.String("target", target),
		zap.String("network", network),
		zap.String("kind", cerr.Kind.String()),
		zap.Error(err),
	)

	if debug {
		return cerr
	}
	fmt.Fprintln(os.Stderr, cerr.Diagnostic())
	os.Exit(1)
	return nil // unreachable
}

// initialize applies or discovers the layout, builds the immutable dispatch
// table, and drains the unsolicited frames the firmware sends at connection
// start. No particular firmware frame is required to have arrived: a silent
// peer is accepted, and callers that care can check Firmware afterwards.
func (b *Board) initialize(cfg Config, autoDiscover bool) error {
	b.st = Initializing

	if autoDiscover {
		if err := b.autoSetup(); err != nil {
			b.st = Failed
			return err
		}
	} else {
		b.layout = *cfg.Layout
	}

	b.reg = cfg.Registry
	if b.reg == nil {
		b.reg = state.NewRegistry(len(b.layout.Analog), len(b.layout.Digital))
	}

	table := firmata.NewDecoders(b.reg).Table()
	table[firmata.ReportFirmware] = b.handleFirmwareReport
	b.parser = firmata.NewParser(firmata.NewDispatcher(table))

	// Consume any firmware-identification frames queued at connection start.
	if err := b.drainAvailable(); err != nil {
		b.st = Failed
		return err
	}

	b.st = Ready
	logging.Info("Board ready",
		zap.String("name", b.name),
		zap.Int("digital_pins", len(b.layout.Digital)),
		zap.Int("analog_pins", len(b.layout.Analog)),
	)
	return nil
}

// autoSetup queries the peer for its pin capabilities and builds the layout
// from the response. A dedicated dispatch table is used because the full
// table cannot exist yet: the registry it writes to is sized by the layout
// being discovered here.
func (b *Board) autoSetup() error {
	var caps *firmata.Capability
	parser := firmata.NewParser(firmata.NewDispatcher(map[byte]firmata.Handler{
		firmata.CapabilityResponse: func(payload []byte) error {
			c, err := firmata.ParseCapabilityResponse(payload)
			if err != nil {
				return err
			}
			caps = &c
			return nil
		},
		firmata.ReportFirmware: b.handleFirmwareReport,
	}))

	if err := b.sendSysex(firmata.CapabilityQuery, nil); err != nil {
		return fmt.Errorf("failed to send capability query: %w", err)
	}

	deadline := time.Now().Add(autoSetupTimeout)
	for caps == nil {
		if time.Now().After(deadline) {
			return errors.New("timed out waiting for capability response")
		}
		by, ok, err := b.tr.ReadByte()
		if err != nil {
			return err
		}
		if !ok {
			time.Sleep(time.Millisecond)
			continue
		}
		if err := parser.Feed(by); err != nil {
			logging.Warn("Dropping frame during auto-setup", zap.Error(err))
		}
	}

	b.layout = layoutFromCapability(*caps)
	return nil
}

func (b *Board) handleFirmwareReport(payload []byte) error {
	fw, err := firmata.ParseFirmwareReport(payload)
	if err != nil {
		return err
	}
	b.firmware = fw

	logging.Info("Firmware reported",
		zap.String("name", fw.Name),
		zap.Uint8("major", fw.Major),
		zap.Uint8("minor", fw.Minor),
	)
	return nil
}

// Iterate drains every byte currently available on the transport through
// the dispatcher. This is the only way state updates happen after
// initialization; the owner calls it at whatever pace suits the
// application. Malformed frames are logged and dropped without mutating
// state; only transport failures are returned, including the sticky fault a
// reset TCP link retains.
func (b *Board) Iterate() error {
	if b.st != Ready {
		return fmt.Errorf("board is %s, not ready", b.st)
	}
	if err := b.drainAvailable(); err != nil {
		return err
	}
	// A reset TCP peer reads as an idle link; surface the sticky fault so
	// owners stop polling a dead connection.
	if f, ok := b.tr.(transport.Faultable); ok {
		if err := f.Err(); err != nil {
			return fmt.Errorf("link lost: %w", err)
		}
	}
	return nil
}

func (b *Board) drainAvailable() error {
	for b.tr.Available() > 0 {
		by, ok, err := b.tr.ReadByte()
		if err != nil {
			return err
		}
		if !ok {
			break
		}
		if err := b.parser.Feed(by); err != nil {
			logging.Warn("Dropping frame",
				zap.String("board", b.name),
				zap.Error(err),
			)
		}
	}
	return nil
}

// sendSysex frames and writes one sysex command. Payload bytes must already
// be 7-bit clean.
func (b *Board) sendSysex(cmd byte, payload []byte) error {
	frame := make([]byte, 0, len(payload)+3)
	frame = append(frame, firmata.StartSysex, cmd)
	frame = append(frame, payload...)
	frame = append(frame, firmata.EndSysex)
	_, err := b.tr.Write(frame)
	return err
}

// Registry returns the robot state store this session's decoders write to.
func (b *Board) Registry() *state.Registry { return b.reg }

// Layout returns the active pin layout.
func (b *Board) Layout() Layout { return b.layout }

// Name returns the session's display name.
func (b *Board) Name() string { return b.name }

// State returns the session's lifecycle state.
func (b *Board) State() State { return b.st }

// Firmware returns the peer's firmware identity, or the zero value when no
// firmware report has been seen. The handshake is deliberately not
// enforced: a peer that opens the link but says nothing is still accepted.
func (b *Board) Firmware() firmata.Firmware { return b.firmware }

// Transport exposes the underlying transport, mainly so owners can check
// for a sticky link fault on TCP boards.
func (b *Board) Transport() transport.Transport { return b.tr }

// Close releases the transport. Idempotent.
func (b *Board) Close() error {
	if b.st == Closed {
		return nil
	}
	b.st = Closed
	if b.tr == nil {
		return nil
	}
	return b.tr.Close()
}
