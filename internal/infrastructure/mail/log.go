package mail

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/empresatop10/employee-manager/internal/core/ports"
)

// LogMailer writes messages to the log instead of sending them. It is used
// when no SMTP relay is configured.
type LogMailer struct {
	log zerolog.Logger
}

func NewLogMailer(log zerolog.Logger) *LogMailer {
	return &LogMailer{log: log}
}

func (m *LogMailer) Send(_ context.Context, msg ports.Message) error {
	m.log.Info().
		Strs("to", msg.To).
		Str("subject", msg.Subject).
		Str("body", msg.HTMLBody).
		Msg("mail not sent: no smtp relay configured")
	return nil
}
