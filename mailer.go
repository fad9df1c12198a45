package main

import (
	"fmt"

	"gopkg.in/gomail.v2"
)

// Mailer sends transactional email. Handlers talk to the interface so tests
// can record deliveries instead of dialing SMTP.
type Mailer interface {
	Send(to, subject, html string) error
}

type smtpMailer struct {
	host     string
	port     int
	username string
	password string
	from     string
}

func (m *smtpMailer) Send(to, subject, html string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", html)

	return gomail.NewDialer(m.host, m.port, m.username, m.password).DialAndSend(msg)
}

func verificationEmail(name, link string) string {
	return fmt.Sprintf(`<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h2>Welcome to EchoSphere, %s!</h2>
  <p>Click the button below to verify your account. The link expires in 30 minutes.</p>
  <p><a href="%s" style="background: #4f46e5; color: #fff; padding: 12px 24px; text-decoration: none; border-radius: 4px;">Verify my account</a></p>
  <p>If the button does not work, copy this link into your browser:<br>%s</p>
</div>`, name, link, link)
}

func loginNotificationEmail(name, loginTime, deviceType, deviceOS, deviceBrowser string) string {
	return fmt.Sprintf(`<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h2>New login to your account</h2>
  <p>Hi %s, your account was just signed in to.</p>
  <ul>
    <li>Time: %s</li>
    <li>Device: %s</li>
    <li>Operating system: %s</li>
    <li>Browser: %s</li>
  </ul>
  <p>If this was not you, reset your password immediately.</p>
</div>`, name, loginTime, deviceType, deviceOS, deviceBrowser)
}

func resetEmail(email, link string) string {
	return fmt.Sprintf(`<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h2>Reset your password</h2>
  <p>A password reset was requested for %s. The link expires in 15 minutes.</p>
  <p><a href="%s" style="background: #4f46e5; color: #fff; padding: 12px 24px; text-decoration: none; border-radius: 4px;">Reset password</a></p>
  <p>If you did not request this, you can ignore this email.</p>
</div>`, email, link)
}
