// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package deliver

import (
	"context"
	"errors"
	"fmt"

	"github.com/wneessen/go-mail"

	"github.com/pdiddy/mashup-engine/pkg/types"
)

// SMTPTransport sends messages over SMTP submission with STARTTLS.
type SMTPTransport struct {
	cfg types.MailConfig
}

// NewSMTPTransport validates the mail configuration and returns a transport.
func NewSMTPTransport(cfg types.MailConfig) (*SMTPTransport, error) {
	if cfg.Host == "" {
		return nil, errors.New("mail host is not configured")
	}
	if cfg.Port == 0 {
		cfg.Port = types.DefaultSMTPPort
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = types.DefaultMailTimeout
	}
	return &SMTPTransport{cfg: cfg}, nil
}

// Send implements Transport. The SMTP session lives only for this call.
func (t *SMTPTransport) Send(ctx context.Context, msg Message) error {
	m, err := buildMsg(msg)
	if err != nil {
		return err
	}

	client, err := mail.NewClient(t.cfg.Host, t.clientOptions()...)
	if err != nil {
		return fmt.Errorf("configuring SMTP client: %w", err)
	}
	if err := client.DialAndSendWithContext(ctx, m); err != nil {
		return fmt.Errorf("sending via %s:%d: %w", t.cfg.Host, t.cfg.Port, err)
	}
	return nil
}

func (t *SMTPTransport) clientOptions() []mail.Option {
	opts := []mail.Option{
		mail.WithPort(t.cfg.Port),
		mail.WithTimeout(t.cfg.Timeout),
		mail.WithTLSPolicy(tlsPolicy(t.cfg.TLS)),
	}
	if t.cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(t.cfg.Username),
			mail.WithPassword(t.cfg.Password),
		)
	}
	return opts
}

func tlsPolicy(p types.TLSPolicy) mail.TLSPolicy {
	if p == types.TLSOpportunistic {
		return mail.TLSOpportunistic
	}
	return mail.TLSMandatory
}

func buildMsg(msg Message) (*mail.Msg, error) {
	m := mail.NewMsg()
	if err := m.From(msg.From); err != nil {
		return nil, fmt.Errorf("invalid sender %q: %w", msg.From, err)
	}
	if err := m.To(msg.To); err != nil {
		return nil, fmt.Errorf("invalid recipient %q: %w", msg.To, err)
	}
	m.Subject(msg.Subject)
	m.SetBodyString(mail.TypeTextPlain, msg.Body)
	if msg.Attachment != "" {
		m.AttachFile(msg.Attachment)
	}
	return m, nil
}
