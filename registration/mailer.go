package registration

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/gomail.v2"
)

const MailSubject = "Discord registration"

// SendTimeout bounds one SMTP delivery. The member's code scope stays locked
// until it returns.
const SendTimeout = 20 * time.Second

//go:embed templates/email.html
var defaultEmailTemplate string

// Letter is everything a verification email needs.
type Letter struct {
	To          string
	Code        string
	Expire      string
	DisplayName string
	GuildName   string
	AvatarURL   string
	LogoURL     string
}

type Mailer interface {
	SendVerificationEmail(ctx context.Context, letter Letter) error
}

// DestinationAddress is the university mailbox of a student index.
func DestinationAddress(index, domain string) string {
	return fmt.Sprintf("s%s@%s", index, domain)
}

// RenderLetter fills the template placeholders. Image placeholders without a
// URL are left empty.
func RenderLetter(tmpl string, l Letter) string {
	r := strings.NewReplacer(
		"{{USER_DISPLAY_NAME}}", l.DisplayName,
		"{{REGISTRATION_CODE}}", l.Code,
		"{{DISCORD_NAME}}", l.GuildName,
		"{{CODE_EXPIRATION}}", l.Expire,
		"{{USER_AVATAR}}", l.AvatarURL,
		"{{DISCORD_LOGO}}", l.LogoURL,
	)
	return r.Replace(tmpl)
}

// SMTPMailer delivers letters through an SMTP account.
type SMTPMailer struct {
	dialer       *gomail.Dialer
	from         string
	templatePath string
	timeout      time.Duration
	send         func(m ...*gomail.Message) error
}

// NewSMTPMailer dials with implicit TLS when port is 465.
func NewSMTPMailer(host string, port int, address, password, templatePath string) *SMTPMailer {
	dialer := gomail.NewDialer(host, port, address, password)
	return &SMTPMailer{
		dialer:       dialer,
		from:         address,
		templatePath: templatePath,
		timeout:      SendTimeout,
		send:         dialer.DialAndSend,
	}
}

// Template returns the operator-provided template, or the built-in one when
// the file does not exist.
func (s *SMTPMailer) Template() (string, error) {
	if s.templatePath == "" {
		return defaultEmailTemplate, nil
	}
	data, err := os.ReadFile(s.templatePath)
	if errors.Is(err, os.ErrNotExist) {
		return defaultEmailTemplate, nil
	}
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func (s *SMTPMailer) SendVerificationEmail(ctx context.Context, l Letter) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	tmpl, err := s.Template()
	if err != nil {
		return fmt.Errorf("failed to read email template: %w", err)
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", l.To)
	m.SetHeader("Subject", MailSubject)
	m.SetBody("text/html", RenderLetter(tmpl, l))

	// gomail has no context support; an abandoned send finishes in the background.
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- s.send(m) }()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("failed to send verification email to %s: %w", l.To, err)
		}
		return nil
	case <-ctx.Done():
		return fmt.Errorf("failed to send verification email to %s: %w", l.To, ctx.Err())
	}
}
