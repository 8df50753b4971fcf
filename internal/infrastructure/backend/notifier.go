package backend

import (
	"github.com/rs/zerolog"

	"github.com/inventorypro/client-go/internal/core/ports"
)

// LogNotifier is the default Notifier for headless use: it writes
// notifications to the structured log. Host applications with a UI supply
// their own implementation.
type LogNotifier struct {
	log zerolog.Logger
}

func NewLogNotifier(log zerolog.Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

func (n *LogNotifier) Notify(severity, message string) {
	switch severity {
	case ports.SeverityWarning:
		n.log.Warn().Msg(message)
	default:
		n.log.Error().Msg(message)
	}
}

func (n *LogNotifier) SessionExpired() {
	n.log.Warn().Msg("session expired, sign in again")
}
