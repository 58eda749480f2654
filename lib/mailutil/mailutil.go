package mailutil

import (
	"fmt"
	"net/smtp"
	"strings"

	"github.com/jordan-wright/email"
)

type SmtpConfig struct {
	Server       string `json:"server"`
	Port         int    `json:"port"`
	EmailAddress string `json:"email_address"`
	Password     string `json:"password"`
}

type Credentials struct {
	Name     string
	Username string
	Password string
	Host     string
}

// SendCredentials mails a freshly created contest account its login
// details. Servers without AUTH support get a second, unauthenticated
// attempt.
func SendCredentials(config SmtpConfig, to string, creds Credentials) error {
	mail := email.NewEmail()
	mail.From = fmt.Sprintf("DOMjudge <%s>", config.EmailAddress)
	mail.To = []string{to}
	mail.Subject = "Contest account credentials"

	body := fmt.Sprintf(`Hello %s,

An account has been created for you on %s.

    username: %s
    password: %s

Please log in and verify that you can submit.`,
		creds.Name, creds.Host, creds.Username, creds.Password)
	mail.Text = []byte(body)

	addr := fmt.Sprintf("%s:%d", config.Server, config.Port)
	err := mail.Send(
		addr,
		smtp.PlainAuth("", config.EmailAddress, config.Password, config.Server),
	)
	if err != nil && strings.Contains(err.Error(), "server doesn't support AUTH") {
		return mail.Send(addr, nil)
	}
	return err
}
