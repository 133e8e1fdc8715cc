package mailer

import (
	"fmt"

	mail "github.com/go-mail/mail/v2"
)

// Sender dispatches out-of-band notifications. Delivery failures surface to
// the caller; nothing is retried here.
type Sender interface {
	SendPasswordReset(to, resetURL string) error
}

type SMTP struct {
	host string
	port int
	user string
	pass string
	from string
}

func NewSMTP(host string, port int, user, pass, from string) *SMTP {
	return &SMTP{host: host, port: port, user: user, pass: pass, from: from}
}

func (s *SMTP) SendPasswordReset(to, resetURL string) error {
	m := mail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", "Password reset")
	m.SetBody("text/plain", fmt.Sprintf(
		"A password reset was requested for this address.\n\n"+
			"Reset link (valid for 15 minutes, single use):\n%s\n\n"+
			"If you did not request this, ignore this message.\n", resetURL))

	d := mail.NewDialer(s.host, s.port, s.user, s.pass)
	d.StartTLSPolicy = mail.MandatoryStartTLS
	return d.DialAndSend(m)
}
