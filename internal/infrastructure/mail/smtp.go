package mail

import (
	"context"
	"fmt"

	gomail "github.com/wneessen/go-mail"

	"github.com/empresatop10/employee-manager/internal/core/ports"
)

// Config captures the SMTP relay settings.
type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// SMTPMailer delivers messages through an SMTP relay. Every Send dials a new
// connection.
type SMTPMailer struct {
	client *gomail.Client
	from   string
}

// NewSMTPMailer builds the relay client. Authentication is only negotiated
// when a username is configured.
func NewSMTPMailer(cfg Config) (*SMTPMailer, error) {
	opts := []gomail.Option{
		gomail.WithPort(cfg.Port),
		gomail.WithTLSPortPolicy(gomail.TLSOpportunistic),
	}
	if cfg.Username != "" {
		opts = append(opts,
			gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
			gomail.WithUsername(cfg.Username),
			gomail.WithPassword(cfg.Password),
		)
	}
	client, err := gomail.NewClient(cfg.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("smtp client: %w", err)
	}
	return &SMTPMailer{client: client, from: cfg.From}, nil
}

func (m *SMTPMailer) Send(ctx context.Context, msg ports.Message) error {
	out, err := buildMessage(m.from, msg)
	if err != nil {
		return err
	}
	if err := m.client.DialAndSendWithContext(ctx, out); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	return nil
}

func buildMessage(from string, msg ports.Message) (*gomail.Msg, error) {
	if len(msg.To) == 0 {
		return nil, fmt.Errorf("message %q has no recipients", msg.Subject)
	}
	out := gomail.NewMsg()
	if err := out.From(from); err != nil {
		return nil, fmt.Errorf("sender %q: %w", from, err)
	}
	if err := out.To(msg.To...); err != nil {
		return nil, fmt.Errorf("recipients: %w", err)
	}
	out.Subject(msg.Subject)
	out.SetBodyString(gomail.TypeTextHTML, msg.HTMLBody)
	return out, nil
}
