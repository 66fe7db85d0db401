// Package notify delivers user-facing messages with a severity level.
package notify

import (
	"go.uber.org/zap"
)

// Severity classifies a notification.
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityWarning
	SeverityError
)

// Notifier accepts a message string and a severity. Implementations must not
// fail the run; delivery is best-effort.
type Notifier interface {
	Notify(severity Severity, message string)
}

// LoggerNotifier delivers notifications through a zap logger.
type LoggerNotifier struct {
	logger *zap.Logger
}

// NewLoggerNotifier constructs a LoggerNotifier. A nil logger is replaced
// with a no-op logger.
func NewLoggerNotifier(logger *zap.Logger) *LoggerNotifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LoggerNotifier{logger: logger}
}

// Notify logs the message at the level matching its severity.
func (notifier *LoggerNotifier) Notify(severity Severity, message string) {
	switch severity {
	case SeverityWarning:
		notifier.logger.Warn(message)
	case SeverityError:
		notifier.logger.Error(message)
	default:
		notifier.logger.Info(message)
	}
}

var _ Notifier = (*LoggerNotifier)(nil)
