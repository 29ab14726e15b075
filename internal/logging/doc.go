// Package logging provides structured logging for the duinobot tools.
//
// This package wraps zap with convenience functions for common logging
// patterns. Logging is silent by default so that library consumers and CLI
// output stay clean; set DUINOBOT_LOG_LEVEL (debug, info, warn, error) to
// enable output.
//
// All log functions use structured fields for queryability:
//
//	logging.Info("Robot reported",
//	    zap.Int("robot", 5),
//	    zap.Int("obstacle", 128),
//	)
//
// LogRawBytes emits hex and ASCII dumps of wire data at debug level, which is
// the main tool for diagnosing framing problems on the serial link.
package logging
