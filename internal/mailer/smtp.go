package mailer

import (
	"bytes"
	"fmt"
	"text/template"
	"time"

	mail "gopkg.in/mail.v2"
)

// SMTPClient sends templated mail through a plain SMTP relay. Templates live
// in the embedded FS and must define "subject" and "body" blocks.
type SMTPClient struct {
	fromEmail string
	dialer    *mail.Dialer
}

func NewSMTPClient(host string, port int, username, password, fromEmail string) (*SMTPClient, error) {
	if host == "" || fromEmail == "" {
		return nil, fmt.Errorf("smtp host and from address are required")
	}

	dialer := mail.NewDialer(host, port, username, password)
	dialer.Timeout = 10 * time.Second

	return &SMTPClient{
		fromEmail: fromEmail,
		dialer:    dialer,
	}, nil
}

func (c *SMTPClient) Send(templateFile, username, email string, data any) (int, error) {
	tmpl, err := template.ParseFS(FS, "templates/"+templateFile)
	if err != nil {
		return -1, err
	}

	subject := new(bytes.Buffer)
	if err := tmpl.ExecuteTemplate(subject, "subject", data); err != nil {
		return -1, err
	}

	body := new(bytes.Buffer)
	if err := tmpl.ExecuteTemplate(body, "body", data); err != nil {
		return -1, err
	}

	msg := mail.NewMessage()
	msg.SetAddressHeader("From", c.fromEmail, FromName)
	msg.SetHeader("To", email)
	msg.SetHeader("Subject", subject.String())
	msg.SetBody("text/html", body.String())

	var retryErr error
	for i := 0; i < maxRetries; i++ {
		if retryErr = c.dialer.DialAndSend(msg); retryErr == nil {
			return 200, nil
		}
		time.Sleep(time.Second * time.Duration(i+1))
	}

	return -1, fmt.Errorf("failed to send email after %d attempts: %w", maxRetries, retryErr)
}
