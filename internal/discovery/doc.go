// Package discovery locates WiFi-attached robots on the local network.
//
// Robots reachable over TCP carry a WiFi module that bridges the serial
// firmata stream onto a socket and advertises itself over multicast DNS
// using the "_duinobot._tcp" service type, with a hostname of the form
// "duinobot<id>.local".
//
// # Discovery Process
//
//  1. Broadcasts mDNS queries on the local network
//  2. Listens for service advertisements from robot WiFi modules
//  3. Filters responses by the hostname pattern
//  4. Collects robot information (ID, IP, port, TXT metadata)
//  5. Returns the robots heard from after the timeout period
//
// # Usage Example
//
//	robots, err := discovery.ScanForRobots(10 * time.Second)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, r := range robots {
//	    fmt.Printf("Found: %s\n", r)
//	}
//
// The Target method yields the host:port address a TCP board session
// needs, so discovery composes directly with board.OpenTCP.
//
// # Network Requirements
//
//   - Multicast support on the network interface
//   - Robots on the same local network segment
//   - Firewall allowing mDNS (UDP port 5353)
//
// # Thread Safety
//
// This package is safe for concurrent use. Multiple discovery sessions can
// run simultaneously without interference.
package discovery
