package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/robotgroup/duinobot/internal/board"
	"github.com/robotgroup/duinobot/internal/config"
	"github.com/robotgroup/duinobot/internal/discovery"
	"github.com/robotgroup/duinobot/internal/logging"
	"github.com/robotgroup/duinobot/internal/server"
	"github.com/robotgroup/duinobot/internal/tui"
)

// Connection flags shared by the commands that open a board session
var (
	serialDevice string
	baudRate     int
	tcpHost      string
	tcpPort      int
	layoutPath   string
	autoLayout   bool
	profileName  string
	debugMode    bool
	logLevel     string
)

func init() {
	rootCmd.PersistentFlags().StringVar(&serialDevice, "device", "", "Serial device path (e.g., /dev/ttyUSB0)")
	rootCmd.PersistentFlags().IntVar(&baudRate, "baud", 0, "Serial baud rate (default 57600)")
	rootCmd.PersistentFlags().StringVar(&tcpHost, "tcp", "", "Robot WiFi module host (connect over TCP instead of serial)")
	rootCmd.PersistentFlags().IntVar(&tcpPort, "port", discovery.DefaultPort, "TCP port of the WiFi module")
	rootCmd.PersistentFlags().StringVar(&layoutPath, "layout", "", "Path to a YAML pin layout file (default: stock DuinoBot layout)")
	rootCmd.PersistentFlags().BoolVar(&autoLayout, "discover-layout", false, "Query the peer for its pin layout (serial only)")
	rootCmd.PersistentFlags().StringVar(&profileName, "profile", "", "Use a saved connection profile")
	rootCmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "Return connection errors instead of exiting with a diagnostic")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error; silent when unset)")

	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(dumpCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(profileCmd)
}

// resolveProfile overlays a saved profile onto any flags the user did not
// set explicitly. Flags win over the profile.
func resolveProfile(cmd *cobra.Command) error {
	if profileName == "" {
		return nil
	}

	registry, err := config.LoadRegistry()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	p := registry.GetProfile(profileName)
	if p == nil {
		return fmt.Errorf("no saved profile named %q (see 'duinobot-monitor profile list')", profileName)
	}

	switch p.Transport {
	case config.TransportSerial:
		if !cmd.Flags().Changed("device") {
			serialDevice = p.Device
		}
		if !cmd.Flags().Changed("baud") {
			baudRate = p.Baud
		}
	case config.TransportTCP:
		if !cmd.Flags().Changed("tcp") {
			tcpHost = p.Host
		}
		if !cmd.Flags().Changed("port") {
			tcpPort = p.Port
		}
	}
	if !cmd.Flags().Changed("layout") {
		layoutPath = p.Layout
	}

	registry.TouchProfile(profileName)
	if err := registry.Save(); err != nil {
		logging.Warn("Failed to update profile timestamp", zap.Error(err))
	}
	return nil
}

// resolveLayout picks the pin layout for a new session.
func resolveLayout() (*board.Layout, error) {
	if layoutPath != "" {
		l, err := board.LoadLayout(layoutPath)
		if err != nil {
			return nil, err
		}
		return &l, nil
	}
	if autoLayout {
		if tcpHost != "" {
			return nil, fmt.Errorf("--discover-layout only works on serial links")
		}
		return nil, nil // nil layout triggers auto-discovery
	}
	l := board.DuinoBot()
	return &l, nil
}

// openBoard opens the session described by the flags (and profile).
func openBoard(cmd *cobra.Command) (*board.Board, error) {
	if err := logging.Initialize(logLevel); err != nil {
		return nil, err
	}
	if err := resolveProfile(cmd); err != nil {
		return nil, err
	}

	layout, err := resolveLayout()
	if err != nil {
		return nil, err
	}

	cfg := board.Config{
		Layout:   layout,
		Debug:    debugMode,
		BaudRate: baudRate,
	}

	switch {
	case tcpHost != "":
		return board.OpenTCP(tcpHost, tcpPort, cfg)
	case serialDevice != "":
		return board.OpenSerial(serialDevice, cfg)
	default:
		return nil, fmt.Errorf("no link given: use --device, --tcp, or --profile")
	}
}

// scanCmd discovers robots on the network
var scanTimeout int

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Scan for robots on the network",
	Long: `Scan for WiFi-attached robots using mDNS/DNS-SD discovery.

Robots carrying a WiFi module advertise a _duinobot._tcp service. This
command listens for those advertisements and lists each robot's ID, address,
and metadata. Serial-attached robots do not appear here; they are found by
opening the radio link and watching for broadcasts.`,
	Example: `  # Scan for 10 seconds (default)
  duinobot-monitor scan

  # Quick 3-second scan
  duinobot-monitor scan --timeout 3`,
	RunE: runScan,
}

func init() {
	scanCmd.Flags().IntVar(&scanTimeout, "timeout", 10, "Scan timeout in seconds")
}

func runScan(cmd *cobra.Command, args []string) error {
	fmt.Printf("Scanning for robots (timeout: %ds)...\n\n", scanTimeout)

	robots, err := discovery.ScanForRobots(time.Duration(scanTimeout) * time.Second)
	if err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}

	if len(robots) == 0 {
		fmt.Println("No robots found.")
		fmt.Println("\nTroubleshooting:")
		fmt.Println("  - Check that the robots' WiFi modules are powered on")
		fmt.Println("  - Verify your computer is on the same network as the robots")
		fmt.Println("  - Try increasing --timeout for slower networks")
		fmt.Println("  - Use --tcp <host> to connect directly if discovery fails")
		return nil
	}

	fmt.Printf("Found %d robot(s):\n\n", len(robots))
	for i, r := range robots {
		fmt.Printf("%d. %s\n", i+1, r.Hostname)
		fmt.Printf("   ID:      %s\n", r.ID)
		fmt.Printf("   Address: %s\n", r.Target())
		if len(r.Metadata) > 0 {
			fmt.Printf("   Metadata: %v\n", r.Metadata)
		}
		fmt.Println()
	}

	fmt.Println("Use 'duinobot-monitor watch --tcp <host>' to open a live dashboard")
	return nil
}

// watchCmd opens the live fleet dashboard
var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Show a live fleet dashboard",
	Long: `Open a full-screen terminal dashboard showing every robot heard on
the link: liveness, obstacle distance, and sensor readings, refreshed as
telemetry arrives.`,
	Example: `  # Watch over the serial radio
  duinobot-monitor watch --device /dev/ttyUSB0

  # Watch a WiFi-attached robot's segment
  duinobot-monitor watch --tcp 192.168.4.16

  # Use a saved profile
  duinobot-monitor watch --profile classroom`,
	RunE: runWatch,
}

func runWatch(cmd *cobra.Command, args []string) error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("watch needs an interactive terminal; use 'dump' for scripted output")
	}

	b, err := openBoard(cmd)
	if err != nil {
		return err
	}
	defer b.Close()

	return tui.Run(b)
}

// dumpCmd drains the link for a while and prints a JSON snapshot
var dumpDuration int

var dumpCmd = &cobra.Command{
	Use:   "dump",
	Short: "Print a JSON snapshot of the fleet",
	Long: `Drain the link for a fixed listening period, then print the state of
every robot heard from as a JSON array. Intended for scripting; pair it
with jq.`,
	Example: `  # Listen for 5 seconds (default) and dump
  duinobot-monitor dump --device /dev/ttyUSB0

  # Longer listening period
  duinobot-monitor dump --device /dev/ttyUSB0 --duration 30`,
	RunE: runDump,
}

func init() {
	dumpCmd.Flags().IntVar(&dumpDuration, "duration", 5, "Listening period in seconds")
}

func runDump(cmd *cobra.Command, args []string) error {
	b, err := openBoard(cmd)
	if err != nil {
		return err
	}
	defer b.Close()

	deadline := time.Now().Add(time.Duration(dumpDuration) * time.Second)
	for time.Now().Before(deadline) {
		if err := b.Iterate(); err != nil {
			return fmt.Errorf("link failed while listening: %w", err)
		}
		time.Sleep(10 * time.Millisecond)
	}

	data, err := json.MarshalIndent(b.Registry().Snapshot(), "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}
	fmt.Println(string(data))
	return nil
}

// serveCmd streams the fleet state over HTTP
var (
	serveHost string
	servePort int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the fleet state over HTTP and WebSocket",
	Long: `Attach to the fleet and expose its state to dashboards:

  GET /robots  one-shot JSON array of every robot heard from
  GET /ws      websocket stream of the same array

The link keeps draining in the background while the server runs.`,
	Example: `  # Serve the serial fleet on port 8080
  duinobot-monitor serve --device /dev/ttyUSB0 --listen-port 8080

  # Serve a WiFi-attached segment
  duinobot-monitor serve --tcp 192.168.4.16 --listen-port 8080`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveHost, "listen-host", "", "Listen host (empty = all interfaces)")
	serveCmd.Flags().IntVar(&servePort, "listen-port", 8080, "Listen port")
}

func runServe(cmd *cobra.Command, args []string) error {
	b, err := openBoard(cmd)
	if err != nil {
		return err
	}
	defer b.Close()

	srv, err := server.New(&server.Config{
		Host:     serveHost,
		Port:     servePort,
		LogLevel: logLevel,
	}, b.Registry())
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	// Keep draining the link while the server blocks on Start. The
	// registry handles the cross-goroutine access. A dead link takes the
	// server down with it rather than serving a frozen fleet.
	stop := make(chan struct{})
	defer close(stop)
	linkErr := make(chan error, 1)
	go func() {
		ticker := time.NewTicker(20 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				if err := b.Iterate(); err != nil {
					logging.Error("Link failed while serving", zap.Error(err))
					linkErr <- err
					_ = srv.Shutdown()
					return
				}
			}
		}
	}()

	if err := srv.Start(); err != nil {
		return err
	}
	select {
	case err := <-linkErr:
		return fmt.Errorf("link failed while serving: %w", err)
	default:
		return nil
	}
}

// profileCmd manages saved connection profiles
var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Manage saved connection profiles",
	Long: `Manage the saved connection profiles in the user configuration file.

A profile names a way of reaching the fleet (a serial device and baud rate,
or a WiFi module's host and port) plus an optional layout file, so the
connection flags don't need repeating on every command.`,
}

var profileDefault bool

var profileSaveCmd = &cobra.Command{
	Use:   "save <name>",
	Short: "Save the current connection flags as a profile",
	Example: `  duinobot-monitor profile save classroom --device /dev/ttyUSB0
  duinobot-monitor profile save lab-wifi --tcp 192.168.4.16 --default`,
	Args: cobra.ExactArgs(1),
	RunE: runProfileSave,
}

var profileListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved profiles",
	Args:  cobra.NoArgs,
	RunE:  runProfileList,
}

var profileDeleteCmd = &cobra.Command{
	Use:   "delete <name>",
	Short: "Delete a saved profile",
	Args:  cobra.ExactArgs(1),
	RunE:  runProfileDelete,
}

func init() {
	profileSaveCmd.Flags().BoolVar(&profileDefault, "default", false, "Make this the default profile")

	profileCmd.AddCommand(profileSaveCmd)
	profileCmd.AddCommand(profileListCmd)
	profileCmd.AddCommand(profileDeleteCmd)
}

func runProfileSave(cmd *cobra.Command, args []string) error {
	name := args[0]

	p := &config.Profile{Layout: layoutPath}
	switch {
	case tcpHost != "":
		p.Transport = config.TransportTCP
		p.Host = tcpHost
		p.Port = tcpPort
	case serialDevice != "":
		p.Transport = config.TransportSerial
		p.Device = serialDevice
		p.Baud = baudRate
	default:
		return fmt.Errorf("nothing to save: give --device or --tcp")
	}

	registry, err := config.LoadRegistry()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := registry.SetProfile(name, p); err != nil {
		return err
	}
	if profileDefault {
		registry.Preferences.DefaultProfile = name
	}
	if err := registry.Save(); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	fmt.Printf("Saved profile %q.\n", name)
	return nil
}

func runProfileList(cmd *cobra.Command, args []string) error {
	registry, err := config.LoadRegistry()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	names := registry.ProfileNames()
	if len(names) == 0 {
		fmt.Println("No saved profiles. Use 'duinobot-monitor profile save <name>' to create one.")
		return nil
	}

	defaultName := ""
	if registry.Preferences != nil {
		defaultName = registry.Preferences.DefaultProfile
	}

	for _, name := range names {
		p := registry.GetProfile(name)
		marker := " "
		if name == defaultName {
			marker = "*"
		}
		switch p.Transport {
		case config.TransportSerial:
			fmt.Printf("%s %-16s serial %s", marker, name, p.Device)
			if p.Baud != 0 {
				fmt.Printf(" @%d", p.Baud)
			}
		case config.TransportTCP:
			fmt.Printf("%s %-16s tcp    %s:%d", marker, name, p.Host, p.Port)
		}
		if p.Layout != "" {
			fmt.Printf("  layout=%s", p.Layout)
		}
		fmt.Println()
	}
	return nil
}

func runProfileDelete(cmd *cobra.Command, args []string) error {
	registry, err := config.LoadRegistry()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	registry.DeleteProfile(args[0])
	if err := registry.Save(); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}
	fmt.Printf("Deleted profile %q.\n", args[0])
	return nil
}
