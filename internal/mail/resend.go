package mail

import (
	"context"
	"fmt"
	"net/http"

	"github.com/resend/resend-go/v2"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
)

// ResendSender sends email through the Resend API.
type ResendSender struct {
	client *resend.Client
	from   string
}

var _ Sender = (*ResendSender)(nil)

func NewResendSender(apiKey, from string) *ResendSender {
	httpClient := &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)}
	return &ResendSender{
		client: resend.NewCustomClient(httpClient, apiKey),
		from:   from,
	}
}

func (s *ResendSender) Send(ctx context.Context, msg Message) error {
	html, err := RenderHTML(msg.Markdown)
	if err != nil {
		return err
	}
	sent, err := s.client.Emails.SendWithContext(ctx, &resend.SendEmailRequest{
		From:    s.from,
		To:      []string{msg.To},
		Subject: msg.Subject,
		Html:    html,
		Text:    msg.Markdown,
	})
	if err != nil {
		return fmt.Errorf("resend send: %w", err)
	}
	zap.L().Info("mail_sent",
		zap.String("component", "mail"),
		zap.String("message_id", sent.Id),
		zap.String("subject", msg.Subject),
	)
	return nil
}

// LogSender writes messages to the logger instead of delivering them.
type LogSender struct {
	log *zap.Logger
}

var _ Sender = (*LogSender)(nil)

func NewLogSender(log *zap.Logger) *LogSender {
	return &LogSender{log: log.With(zap.String("component", "mail"))}
}

func (s *LogSender) Send(_ context.Context, msg Message) error {
	s.log.Info("mail_skipped",
		zap.String("to", msg.To),
		zap.String("subject", msg.Subject),
		zap.String("body", msg.Markdown),
	)
	return nil
}
