package diagnostics

import (
	"go.uber.org/zap"
)

const (
	documentFieldName = "document"
	severityFieldName = "severity"
)

// Scope identifies the unit of work a log belongs to. One Scope is created per
// processed document and handed to the logger explicitly.
type Scope struct {
	Document string
}

// Logger derives a zap logger that tags every record with the scope.
func (scope Scope) Logger(base *zap.Logger) *zap.Logger {
	if base == nil {
		base = zap.NewNop()
	}
	if scope.Document == "" {
		return base
	}
	return base.With(zap.String(documentFieldName, scope.Document))
}

// Emit writes every entry at or above threshold to the logger in order.
func Emit(base *zap.Logger, scope Scope, log Log, threshold Severity) {
	logger := scope.Logger(base)
	for _, entry := range log.AtLeast(threshold) {
		severityField := zap.Stringer(severityFieldName, entry.Severity)
		switch entry.Severity {
		case SeverityNote:
			logger.Info(entry.Message, severityField)
		case SeverityWarning:
			logger.Warn(entry.Message, severityField)
		default:
			logger.Error(entry.Message, severityField)
		}
	}
}
