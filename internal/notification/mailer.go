package notification

import (
	"crypto/tls"
	"fmt"
	"os"
	"strconv"

	mail "github.com/go-mail/mail/v2"
)

//go:generate mockgen -source=mailer.go -destination=mock/mailer_mock.go -package=mock
type Mailer interface {
	SendApplicationSubmitted(to, employeeName string) error
	SendApplicationApproved(to, employeeName string) error
}

type smtpMailer struct {
	host          string
	port          int
	user          string
	pass          string
	from          string
	skipTLSVerify bool
}

func NewSMTPMailer() Mailer {
	port, _ := strconv.Atoi(os.Getenv("SMTP_PORT"))
	if port == 0 {
		port = 587
	}
	return &smtpMailer{
		host:          os.Getenv("SMTP_HOST"),
		port:          port,
		user:          os.Getenv("SMTP_USER"),
		pass:          os.Getenv("SMTP_PASS"),
		from:          os.Getenv("SMTP_FROM"),
		skipTLSVerify: os.Getenv("SMTP_SKIP_TLS_VERIFY") == "1",
	}
}

func (m *smtpMailer) SendApplicationSubmitted(to, employeeName string) error {
	subject := "Onboarding application submitted"
	body := fmt.Sprintf(
		"The onboarding application for %s has been submitted and is ready for review.",
		employeeName,
	)
	return m.send(to, subject, body)
}

func (m *smtpMailer) SendApplicationApproved(to, employeeName string) error {
	subject := "Onboarding application approved"
	body := fmt.Sprintf(
		"Hi %s, your onboarding application has been approved. Welcome aboard!",
		employeeName,
	)
	return m.send(to, subject, body)
}

func (m *smtpMailer) send(to, subject, body string) error {
	if m.host == "" || m.from == "" {
		return fmt.Errorf("smtp not configured (SMTP_HOST/SMTP_FROM)")
	}

	msg := mail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)

	d := mail.NewDialer(m.host, m.port, m.user, m.pass)
	d.StartTLSPolicy = mail.MandatoryStartTLS
	d.TLSConfig = &tls.Config{
		ServerName:         m.host,
		InsecureSkipVerify: m.skipTLSVerify,
	}

	return d.DialAndSend(msg)
}
