// Package config provides user configuration management for the DuinoBot
// tooling.
//
// This package manages a YAML-based configuration file holding saved
// connection profiles (which serial device or WiFi module to reach, at
// what baud or port, with which pin layout) and application preferences.
// The configuration follows OS-specific conventions for storage location.
//
// # Configuration File Location
//
//   - Linux: $XDG_CONFIG_HOME/duinobot/config.yaml or $HOME/.config/duinobot/config.yaml
//   - macOS: $HOME/.config/duinobot/config.yaml
//   - Windows: %LOCALAPPDATA%\duinobot\config.yaml
//
// # Usage Example
//
//	registry, err := config.LoadRegistry()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	err = registry.SetProfile("classroom", &config.Profile{
//	    Transport: config.TransportSerial,
//	    Device:    "/dev/ttyUSB0",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Save changes atomically
//	if err := registry.Save(); err != nil {
//	    log.Fatal(err)
//	}
//
// # Thread Safety
//
// The global registry uses sync.Once for safe initialization across
// goroutines. File operations are protected by a mutex to ensure atomic
// writes.
package config
