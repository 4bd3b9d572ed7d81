package script

import "time"

// Config defines runtime limits and capabilities.
type Config struct {
	Timeout       time.Duration // per-execution wall clock limit
	EnableConsole bool          // capture console.log/warn/error/info
	EnableDOM     bool          // inject the document proxy
}

// DefaultConfig returns the limits used by the shell.
func DefaultConfig() Config {
	return Config{
		Timeout:       5 * time.Second,
		EnableConsole: true,
		EnableDOM:     true,
	}
}

// Result holds one execution's outcome.
type Result struct {
	Value    interface{}   // script return value, exported to Go
	Console  []LogEntry    // captured console output
	Duration time.Duration // wall clock execution time
	Error    error         // execution error, if any
}

// LogEntry is one captured console call.
type LogEntry struct {
	Level   string    // log, warn, error, info
	Message string    // space-joined arguments
	Time    time.Time // capture timestamp
}
