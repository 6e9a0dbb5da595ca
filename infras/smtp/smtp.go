package smtp

//go:generate go run go.uber.org/mock/mockgen -source=./smtp.go -destination=./mocks/smtp_mock.go -package=mocks

import (
	"context"
	"fmt"
	"tourwise/config"
	"tourwise/infras/otel"
	"tourwise/shared/constant"

	"github.com/rs/zerolog/log"
	"github.com/wneessen/go-mail"
)

const (
	otelAttrRecipient = "mail.to"
	otelAttrSubject   = "mail.subject"
)

type Email struct {
	To      []string
	Subject string
	Body    string
	HTML    bool
}

type Mailer interface {
	Send(ctx context.Context, email Email) error
}

type mailerImpl struct {
	config *config.Config
	otel   otel.Otel
}

func New(cfg *config.Config, otel otel.Otel) Mailer {
	return &mailerImpl{
		config: cfg,
		otel:   otel,
	}
}

func (m *mailerImpl) client() (*mail.Client, error) {
	client, err := mail.NewClient(
		m.config.SMTP.Host,
		mail.WithPort(m.config.SMTP.Port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(m.config.SMTP.Username),
		mail.WithPassword(m.config.SMTP.Password),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize smtp client: %w", err)
	}

	return client, nil
}

func (m *mailerImpl) Send(ctx context.Context, email Email) (err error) {
	ctx, scope := m.otel.NewScope(ctx, constant.OtelMailScopeName, constant.OtelMailScopeName+".Send")
	defer scope.End()
	defer scope.TraceIfError(err)

	scope.SetAttributes(map[string]any{
		otelAttrRecipient: email.To,
		otelAttrSubject:   email.Subject,
	})

	if !m.config.SMTP.Enable {
		log.Debug().Strs("to", email.To).Str("subject", email.Subject).Msg("SMTP disabled, skipping email")

		return nil
	}

	client, err := m.client()
	if err != nil {
		return err
	}

	msg := mail.NewMsg()
	if err = msg.FromFormat(m.config.SMTP.FromName, m.config.SMTP.FromEmail); err != nil {
		return fmt.Errorf("failed to set from address: %w", err)
	}

	if err = msg.To(email.To...); err != nil {
		return fmt.Errorf("failed to set to address: %w", err)
	}

	msg.Subject(email.Subject)

	if email.HTML {
		msg.SetBodyString(mail.TypeTextHTML, email.Body)
	} else {
		msg.SetBodyString(mail.TypeTextPlain, email.Body)
	}

	if err = client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	log.Info().Strs("to", email.To).Str("subject", email.Subject).Msg("Email sent")

	return nil
}
