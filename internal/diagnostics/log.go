// Package diagnostics holds the severity-tagged log accumulated while a
// document is validated and rendered.
package diagnostics

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Severity orders diagnostic entries by blocking power.
type Severity int

const (
	// SeverityNote is informational.
	SeverityNote Severity = iota
	// SeverityWarning is advisory; rendering continues unaffected.
	SeverityWarning
	// SeverityError marks a declared feature that could not be honored.
	SeverityError
	// SeverityCritical marks a unit (a link, or the whole document) that could not be produced.
	SeverityCritical
)

const (
	noteLabel     = "NOTE"
	warningLabel  = "WARNING"
	errorLabel    = "ERROR"
	criticalLabel = "CRITICAL"

	unknownSeverityFormat = "unknown severity %q"
)

var severityLabels = map[Severity]string{
	SeverityNote:     noteLabel,
	SeverityWarning:  warningLabel,
	SeverityError:    errorLabel,
	SeverityCritical: criticalLabel,
}

// String returns the upper-case label of the severity.
func (severity Severity) String() string {
	if label, known := severityLabels[severity]; known {
		return label
	}
	return fmt.Sprintf("SEVERITY(%d)", int(severity))
}

// ParseSeverity converts a case-insensitive label into a Severity.
func ParseSeverity(label string) (Severity, error) {
	normalized := strings.ToUpper(strings.TrimSpace(label))
	for severity, severityLabel := range severityLabels {
		if severityLabel == normalized {
			return severity, nil
		}
	}
	return SeverityNote, fmt.Errorf(unknownSeverityFormat, label)
}

// MarshalText renders the severity label for JSON and XML encoders.
func (severity Severity) MarshalText() ([]byte, error) {
	return []byte(severity.String()), nil
}

// UnmarshalText parses a severity label.
func (severity *Severity) UnmarshalText(text []byte) error {
	parsed, parseError := ParseSeverity(string(text))
	if parseError != nil {
		return parseError
	}
	*severity = parsed
	return nil
}

// Entry is one diagnostic message.
type Entry struct {
	Severity Severity `json:"severity" xml:"severity,attr"`
	Message  string   `json:"message" xml:",chardata"`
}

// String formats the entry as "[SEVERITY] message".
func (entry Entry) String() string {
	return "[" + entry.Severity.String() + "] " + entry.Message
}

// Log is an append-only sequence of entries. The zero value is ready to use.
// A Log belongs to the run that produced it and is not safe for concurrent use.
type Log struct {
	entries []Entry
}

// Add appends an entry with a formatted message.
func (log *Log) Add(severity Severity, format string, arguments ...any) {
	log.entries = append(log.entries, Entry{Severity: severity, Message: fmt.Sprintf(format, arguments...)})
}

// Note appends a NOTE entry.
func (log *Log) Note(format string, arguments ...any) { log.Add(SeverityNote, format, arguments...) }

// Warning appends a WARNING entry.
func (log *Log) Warning(format string, arguments ...any) {
	log.Add(SeverityWarning, format, arguments...)
}

// Error appends an ERROR entry.
func (log *Log) Error(format string, arguments ...any) { log.Add(SeverityError, format, arguments...) }

// Critical appends a CRITICAL entry.
func (log *Log) Critical(format string, arguments ...any) {
	log.Add(SeverityCritical, format, arguments...)
}

// Extend appends every entry of other in order.
func (log *Log) Extend(other Log) {
	log.entries = append(log.entries, other.entries...)
}

// Entries returns a copy of the recorded entries.
func (log Log) Entries() []Entry {
	copied := make([]Entry, len(log.entries))
	copy(copied, log.entries)
	return copied
}

// Len reports the number of entries.
func (log Log) Len() int {
	return len(log.entries)
}

// AtLeast returns the entries whose severity is at or above threshold.
func (log Log) AtLeast(threshold Severity) []Entry {
	var filtered []Entry
	for _, entry := range log.entries {
		if entry.Severity >= threshold {
			filtered = append(filtered, entry)
		}
	}
	return filtered
}

// Has reports whether any entry is at or above threshold.
func (log Log) Has(threshold Severity) bool {
	for _, entry := range log.entries {
		if entry.Severity >= threshold {
			return true
		}
	}
	return false
}

// Count returns the number of entries with exactly the given severity.
func (log Log) Count(severity Severity) int {
	total := 0
	for _, entry := range log.entries {
		if entry.Severity == severity {
			total++
		}
	}
	return total
}

// MarshalJSON encodes the log as its entry list.
func (log Log) MarshalJSON() ([]byte, error) {
	if log.entries == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(log.entries)
}
