package jobs

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"net"
	"net/smtp"
	"strconv"
	"strings"
)

var otpTemplate = template.Must(template.New("otp").Parse(`<!DOCTYPE html>
<html lang="en">
<body style="margin:0;padding:0;background-color:#f2f3f8;font-family:Arial,sans-serif;">
  <table width="100%" cellpadding="0" cellspacing="0" style="padding:20px 0;">
    <tr><td align="center">
      <table width="600" cellpadding="0" cellspacing="0" style="background:#ffffff;border-radius:8px;">
        <tr><td style="background:#1E6F5C;padding:25px;text-align:center;border-radius:8px 8px 0 0;">
          <h1 style="margin:0;color:#ffffff;">{{.Product}}</h1>
        </td></tr>
        <tr><td style="padding:30px;color:#333;">
          <h2 style="margin-top:0;">Email Verification</h2>
          <p>Use the OTP below to verify your email for <strong>{{.Product}}</strong>.</p>
          <p style="text-align:center;font-size:28px;letter-spacing:6px;font-weight:bold;color:#1E6F5C;">{{.Code}}</p>
          <p>This code expires in {{.Minutes}} minutes. If you did not request it, ignore this email.</p>
        </td></tr>
      </table>
    </td></tr>
  </table>
</body>
</html>`))

const productName = "MedBill Pro"

// OTPMail renders the verification email carrying code.
func OTPMail(to, code string, minutes int) (SendEmailPayload, error) {
	var body bytes.Buffer
	err := otpTemplate.Execute(&body, struct {
		Product string
		Code    string
		Minutes int
	}{productName, code, minutes})
	if err != nil {
		return SendEmailPayload{}, fmt.Errorf("jobs: render otp mail: %w", err)
	}
	return SendEmailPayload{
		To:      to,
		Subject: "Your OTP for " + productName,
		Body:    body.String(),
	}, nil
}

// SMTPConfig holds relay settings.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// SMTPMailer sends HTML mail through an SMTP relay with PLAIN auth.
type SMTPMailer struct {
	cfg  SMTPConfig
	send func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

// NewSMTPMailer constructs SMTPMailer.
func NewSMTPMailer(cfg SMTPConfig) *SMTPMailer {
	return &SMTPMailer{cfg: cfg, send: smtp.SendMail}
}

// Send implements Mailer.
func (m *SMTPMailer) Send(ctx context.Context, msg SendEmailPayload) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if m.cfg.Host == "" {
		return fmt.Errorf("jobs: smtp host not configured")
	}
	var auth smtp.Auth
	if m.cfg.Username != "" {
		auth = smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
	}
	addr := net.JoinHostPort(m.cfg.Host, strconv.Itoa(m.cfg.Port))
	return m.send(addr, auth, m.cfg.From, []string{msg.To}, m.compose(msg))
}

func (m *SMTPMailer) compose(msg SendEmailPayload) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s <%s>\r\n", productName, m.cfg.From)
	fmt.Fprintf(&b, "To: %s\r\n", msg.To)
	fmt.Fprintf(&b, "Subject: %s\r\n", msg.Subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n\r\n")
	b.WriteString(msg.Body)
	return []byte(b.String())
}
