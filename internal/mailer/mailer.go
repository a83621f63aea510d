package mailer

import "embed"

const (
	FromName             = "NightOwl TO"
	maxRetries           = 3
	OTPCodeTemplate      = "otp_code.tmpl"
	OutcomeEmailTemplate = "submission_outcome.tmpl"
)

//go:embed "templates"
var FS embed.FS

type Client interface {
	Send(templateFile, username, email string, data any) (int, error)
}
