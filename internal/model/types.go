package model

import "time"

// Severity is the inferred level of a log line.
type Severity string

const (
	SeverityDebug Severity = "debug"
	SeverityInfo  Severity = "info"
	SeverityWarn  Severity = "warn"
	SeverityError Severity = "error"
)

// Severities lists all levels in ascending order of urgency.
var Severities = []Severity{SeverityDebug, SeverityInfo, SeverityWarn, SeverityError}

// TimeLayout is the normalized timestamp rendering used across the
// app: embedded source timestamps have their T separator replaced
// with a single space, and entries are stored at second resolution.
const TimeLayout = "2006-01-02 15:04:05"

// LogEntry is one admitted log line, immutable once created.
//
// ID is assigned by the multiplexer in admission order and is the
// identity key and ordering tiebreaker. Identical lines can
// legitimately repeat, so identity is never derived from content.
// Whether an entry is pinned is not stored here; it is membership in
// the pin registry.
type LogEntry struct {
	ID        uint64    `json:"id"`
	Source    string    `json:"source"`
	Timestamp time.Time `json:"timestamp"`
	Severity  Severity  `json:"severity"`
	Message   string    `json:"message"`
}
