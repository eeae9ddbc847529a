package config

import (
	"crypto/tls"
	"fmt"
	"os"
	"strconv"

	mail "github.com/go-mail/mail/v2"
)

type mailerConfig struct {
	host          string
	port          int
	user          string
	pass          string
	from          string // e.g. "CEP <nao-responda@instituicao.br>"
	skipTLSVerify bool
}

var mailer = loadMailerConfig()

func loadMailerConfig() mailerConfig {
	port, _ := strconv.Atoi(os.Getenv("SMTP_PORT"))
	if port == 0 {
		port = 587
	}
	return mailerConfig{
		host:          os.Getenv("SMTP_HOST"),
		port:          port,
		user:          os.Getenv("SMTP_USER"),
		pass:          os.Getenv("SMTP_PASS"),
		from:          os.Getenv("SMTP_FROM"),
		skipTLSVerify: os.Getenv("SMTP_SKIP_TLS_VERIFY") == "1",
	}
}

// ReloadMailerConfig re-reads the SMTP_* environment variables. Call it after
// godotenv.Load, since this package is initialized before main runs.
func ReloadMailerConfig() {
	mailer = loadMailerConfig()
}

// SendMail delivers one HTML message over STARTTLS. A single attempt, no
// retry; callers decide what a failure means.
func SendMail(to []string, subject, html string) error {
	if len(to) == 0 {
		return nil
	}
	if mailer.host == "" || mailer.from == "" {
		return fmt.Errorf("smtp not configured (SMTP_HOST/SMTP_FROM)")
	}

	m := mail.NewMessage()
	m.SetHeader("From", mailer.from)
	m.SetHeader("To", to...)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", html)

	d := mail.NewDialer(mailer.host, mailer.port, mailer.user, mailer.pass)
	d.StartTLSPolicy = mail.MandatoryStartTLS
	d.TLSConfig = &tls.Config{
		ServerName:         mailer.host,
		InsecureSkipVerify: mailer.skipTLSVerify, // dev only
	}

	return d.DialAndSend(m)
}
