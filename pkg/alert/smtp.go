package alert

import (
	"context"

	gomail "gopkg.in/gomail.v2"

	"github.com/primis-labs/primis-backend/pkg/config"
)

type SMTPAlerter struct {
	dialer *gomail.Dialer
	from   string
}

func newSMTPAlerter() (alertHandlerInterface, error) {
	smtpConfig := config.GetConfig().SMTP
	dialer := gomail.NewDialer(smtpConfig.Host, smtpConfig.Port, smtpConfig.User, smtpConfig.Password)
	return &SMTPAlerter{
		dialer: dialer,
		from:   smtpConfig.User,
	}, nil
}

func (s *SMTPAlerter) SendMessageTo(_ context.Context, receiver, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", receiver)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)
	return s.dialer.DialAndSend(m)
}
