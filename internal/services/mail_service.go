package services

import (
	"bytes"
	"fmt"
	"html/template"
	"log"
	"net/smtp"
)

// MailService delivers one-time codes by email.
type MailService struct {
	host     string
	port     string
	username string
	password string
	from     string
}

// NewMailService creates a new MailService.
func NewMailService(host, port, username, password, from string) *MailService {
	return &MailService{
		host:     host,
		port:     port,
		username: username,
		password: password,
		from:     from,
	}
}

const otpTemplate = `
<!DOCTYPE html>
<html>
<body>
    <p>Verify Account OTP: <strong>{{.Code}}</strong></p>
    <p>The code expires in {{.Minutes}} minutes. If you did not request it, you can safely ignore this email.</p>
</body>
</html>
`

// SendOTP sends a one-time code to the given address. When no SMTP host is
// configured the mail is logged instead of sent, so local development does
// not need a mail server.
func (s *MailService) SendOTP(to, code string, minutes int) error {
	t, err := template.New("otp").Parse(otpTemplate)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}

	var body bytes.Buffer
	if err := t.Execute(&body, map[string]interface{}{"Code": code, "Minutes": minutes}); err != nil {
		return fmt.Errorf("failed to execute template: %w", err)
	}

	if s.host == "" {
		log.Printf("[Mail] SMTP not configured, OTP for %s: %s", to, code)
		return nil
	}

	headers := map[string]string{
		"From":         s.from,
		"To":           to,
		"Subject":      "Your OTP",
		"MIME-Version": "1.0",
		"Content-Type": `text/html; charset="UTF-8"`,
	}

	var message bytes.Buffer
	for k, v := range headers {
		fmt.Fprintf(&message, "%s: %s\r\n", k, v)
	}
	message.WriteString("\r\n")
	message.Write(body.Bytes())

	auth := smtp.PlainAuth("", s.username, s.password, s.host)
	addr := fmt.Sprintf("%s:%s", s.host, s.port)

	return smtp.SendMail(addr, auth, s.from, []string{to}, message.Bytes())
}
