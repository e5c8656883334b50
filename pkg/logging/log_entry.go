package logging

// LogEntry represents a structured log record emitted by the engine.
type LogEntry struct {
	// Standard fields
	Time     int64
	Severity Severity
	Message  string
	File     string
	Line     int
	Function string

	// Run-specific fields
	Generation int    // Generation counter, when known
	RunID      string // Identifier of the evolutionary run, when known

	// General structured data
	Fields map[string]interface{}
}
