package discovery

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/grandcat/zeroconf"
)

const (
	// ServiceType is the mDNS service type the robots' WiFi modules
	// advertise.
	ServiceType = "_duinobot._tcp"

	// ServiceDomain is the mDNS domain (typically "local.")
	ServiceDomain = "local."

	// DefaultScanTimeout is the default timeout for robot discovery
	DefaultScanTimeout = 10 * time.Second

	// DefaultPort is the TCP port the firmata bridge listens on when the
	// advertisement carries none.
	DefaultPort = 4200
)

// idPattern matches robot module hostnames (e.g., "duinobot12.local.")
var idPattern = regexp.MustCompile(`^duinobot(\d+)\.local\.?$`)

// Scanner handles mDNS robot discovery
type Scanner struct {
	// Timeout is the maximum time to wait for advertisements
	Timeout time.Duration
}

// NewScanner creates a new mDNS scanner with default settings
func NewScanner() *Scanner {
	return &Scanner{
		Timeout: DefaultScanTimeout,
	}
}

// ScanForRobots discovers all robots on the local network.
// Returns the robots heard from before the timeout elapsed.
func (s *Scanner) ScanForRobots() ([]*Robot, error) {
	return s.ScanForRobotsWithContext(context.Background())
}

// ScanForRobotsWithContext discovers robots with a custom context
func (s *Scanner) ScanForRobotsWithContext(ctx context.Context) ([]*Robot, error) {
	ctx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()

	entries := make(chan *zeroconf.ServiceEntry)
	robots := make([]*Robot, 0)
	done := make(chan struct{})

	resolver, err := zeroconf.NewResolver(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create mDNS resolver: %w", err)
	}

	go func() {
		defer close(done)
		for entry := range entries {
			robot := s.parseServiceEntry(entry)
			if robot != nil {
				robots = append(robots, robot)
			}
		}
	}()

	if err := resolver.Browse(ctx, ServiceType, ServiceDomain, entries); err != nil {
		return nil, fmt.Errorf("failed to browse for mDNS services: %w", err)
	}

	<-ctx.Done()
	<-done

	return robots, nil
}

// WaitForRobot waits for a specific robot by ID.
// Returns the robot or an error if not heard from within the timeout.
func (s *Scanner) WaitForRobot(id string) (*Robot, error) {
	return s.WaitForRobotWithContext(context.Background(), id)
}

// WaitForRobotWithContext waits for a specific robot with a custom context
func (s *Scanner) WaitForRobotWithContext(ctx context.Context, id string) (*Robot, error) {
	ctx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()

	entries := make(chan *zeroconf.ServiceEntry)
	robotChan := make(chan *Robot, 1)

	resolver, err := zeroconf.NewResolver(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create mDNS resolver: %w", err)
	}

	go func() {
		for entry := range entries {
			robot := s.parseServiceEntry(entry)
			if robot != nil && robot.ID == id {
				robotChan <- robot
				cancel()
				return
			}
		}
	}()

	if err := resolver.Browse(ctx, ServiceType, ServiceDomain, entries); err != nil {
		return nil, fmt.Errorf("failed to browse for mDNS services: %w", err)
	}

	select {
	case robot := <-robotChan:
		return robot, nil
	case <-ctx.Done():
		return nil, fmt.Errorf("robot %s not found within timeout", id)
	}
}

// parseServiceEntry converts a zeroconf service entry to a Robot.
// Returns nil if the entry does not look like a robot's WiFi module.
func (s *Scanner) parseServiceEntry(entry *zeroconf.ServiceEntry) *Robot {
	hostname := entry.HostName
	if hostname == "" {
		return nil
	}

	matches := idPattern.FindStringSubmatch(hostname)
	if len(matches) < 2 {
		return nil
	}
	id := matches[1]

	// Prefer IPv4; the modules advertise both when the network does.
	var ip string
	for _, addr := range entry.AddrIPv4 {
		ip = addr.String()
		break
	}
	if ip == "" && len(entry.AddrIPv6) > 0 {
		ip = entry.AddrIPv6[0].String()
	}
	if ip == "" {
		return nil
	}

	port := entry.Port
	if port == 0 {
		port = DefaultPort
	}

	// TXT records are "key=value" pairs, bare keys allowed
	metadata := make(map[string]string)
	for _, txt := range entry.Text {
		parts := strings.SplitN(txt, "=", 2)
		if len(parts) == 2 {
			metadata[parts[0]] = parts[1]
		} else {
			metadata[parts[0]] = ""
		}
	}

	return &Robot{
		ID:           id,
		Hostname:     hostname,
		IP:           ip,
		Port:         port,
		Metadata:     metadata,
		DiscoveredAt: time.Now(),
	}
}

// ScanForRobots is a convenience function to scan with a custom timeout
func ScanForRobots(timeout time.Duration) ([]*Robot, error) {
	scanner := NewScanner()
	scanner.Timeout = timeout
	return scanner.ScanForRobots()
}

// QuickScan performs a fast scan with a 3-second timeout
func QuickScan() ([]*Robot, error) {
	scanner := NewScanner()
	scanner.Timeout = 3 * time.Second
	return scanner.ScanForRobots()
}

// FindRobot searches for a specific robot by ID with the default timeout
func FindRobot(id string) (*Robot, error) {
	scanner := NewScanner()
	return scanner.WaitForRobot(id)
}
