// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package deliver bundles the merged track into a zip archive and mails
// it to the recipient.
//
// Archive failures are returned as errors wrapping ErrArchive. Transport
// failures never are: Deliver makes exactly one send attempt and folds any
// error into a DeliveryResult with a Failed outcome.
package deliver

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/pdiddy/mashup-engine/internal/logging"
	"github.com/pdiddy/mashup-engine/pkg/types"
)

// Message is one outgoing mail with a single attachment.
type Message struct {
	From       string
	To         string
	Subject    string
	Body       string
	Attachment string
}

// Transport sends a message. Implementations open, use, and close their
// session inside Send.
type Transport interface {
	Send(ctx context.Context, msg Message) error
}

// Deliverer sends bundles through a Transport.
type Deliverer struct {
	Transport Transport
	Sender    string
	Subject   string
	Logger    *slog.Logger
}

// New returns a Deliverer for the mail configuration. The sender falls
// back to the SMTP username.
func New(cfg types.MailConfig, transport Transport, logger *slog.Logger) *Deliverer {
	if logger == nil {
		logger = logging.Discard()
	}
	sender := cfg.Sender
	if sender == "" {
		sender = cfg.Username
	}
	subject := cfg.Subject
	if subject == "" {
		subject = types.DefaultMailSubject
	}
	return &Deliverer{
		Transport: transport,
		Sender:    sender,
		Subject:   subject,
		Logger:    logging.WithComponent(logger, "deliver"),
	}
}

// Deliver mails the bundle to recipient once. clipCount and requested are
// reported in the message body and in the result.
func (d *Deliverer) Deliver(ctx context.Context, bundle types.Bundle, recipient string, clipCount, requested int) types.DeliveryResult {
	result := types.DeliveryResult{
		Recipient:      recipient,
		Bundle:         bundle,
		ClipCount:      clipCount,
		RequestedCount: requested,
	}

	msg := Message{
		From:       d.Sender,
		To:         recipient,
		Subject:    d.Subject,
		Body:       messageBody(clipCount, requested),
		Attachment: bundle.Path,
	}
	if err := d.Transport.Send(ctx, msg); err != nil {
		result.Outcome = types.DeliveryFailed
		result.Reason = err.Error()
		d.Logger.Error("delivery failed", "recipient", recipient, "error", err)
		return result
	}

	result.Outcome = types.DeliverySent
	d.Logger.Info("delivery sent", "recipient", recipient, "bundle", bundle.Entry, "clips", clipCount)
	return result
}

func messageBody(clipCount, requested int) string {
	var b strings.Builder
	b.WriteString("Hello,\n\nYour mashup is attached.\n\n")
	switch {
	case requested > 0 && clipCount < requested:
		fmt.Fprintf(&b, "Only %d of the %d requested clips could be used; the rest could not be downloaded or decoded.\n", clipCount, requested)
	default:
		fmt.Fprintf(&b, "It contains %d clips.\n", clipCount)
	}
	return b.String()
}
