package registration

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/gomail.v2"
)

func TestDestinationAddress(t *testing.T) {
	assert.Equal(t, "s123456@sggw.edu.pl", DestinationAddress("123456", "sggw.edu.pl"))
}

func TestRenderLetter(t *testing.T) {
	tmpl := "{{USER_DISPLAY_NAME}}|{{REGISTRATION_CODE}}|{{DISCORD_NAME}}|{{CODE_EXPIRATION}}|{{USER_AVATAR}}|{{DISCORD_LOGO}}"
	got := RenderLetter(tmpl, Letter{
		Code:        "AbCdEfGh",
		Expire:      "01.10.2024 20:00:00",
		DisplayName: "Jan",
		GuildName:   "SGGW",
		AvatarURL:   "https://cdn/avatar.png",
	})
	assert.Equal(t, "Jan|AbCdEfGh|SGGW|01.10.2024 20:00:00|https://cdn/avatar.png|", got)
}

func TestDefaultTemplateHasPlaceholders(t *testing.T) {
	for _, p := range []string{"{{USER_DISPLAY_NAME}}", "{{REGISTRATION_CODE}}", "{{DISCORD_NAME}}", "{{CODE_EXPIRATION}}"} {
		assert.Contains(t, defaultEmailTemplate, p)
	}
}

func TestSMTPMailerTemplate(t *testing.T) {
	dir := t.TempDir()

	m := NewSMTPMailer("localhost", 465, "bot@example.com", "secret", filepath.Join(dir, "email.html"))
	tmpl, err := m.Template()
	require.NoError(t, err)
	assert.Equal(t, defaultEmailTemplate, tmpl)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "email.html"), []byte("code: {{REGISTRATION_CODE}}"), 0644))
	tmpl, err = m.Template()
	require.NoError(t, err)
	assert.Equal(t, "code: {{REGISTRATION_CODE}}", tmpl)
}

func TestSMTPMailerSend(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "email.html"), []byte("code: {{REGISTRATION_CODE}}"), 0644))

	m := NewSMTPMailer("localhost", 465, "bot@example.com", "secret", filepath.Join(dir, "email.html"))
	var got []*gomail.Message
	m.send = func(msgs ...*gomail.Message) error {
		got = append(got, msgs...)
		return nil
	}

	err := m.SendVerificationEmail(context.Background(), Letter{To: "s123456@sggw.edu.pl", Code: "AbCdEfGh"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, []string{"s123456@sggw.edu.pl"}, got[0].GetHeader("To"))
	assert.Equal(t, []string{MailSubject}, got[0].GetHeader("Subject"))
	assert.Equal(t, []string{"bot@example.com"}, got[0].GetHeader("From"))

	m.send = func(...*gomail.Message) error { return errors.New("535 auth failed") }
	err = m.SendVerificationEmail(context.Background(), Letter{To: "s123456@sggw.edu.pl"})
	assert.ErrorContains(t, err, "535 auth failed")
}

func TestSMTPMailerSendTimesOut(t *testing.T) {
	m := NewSMTPMailer("localhost", 465, "bot@example.com", "secret", "")
	m.timeout = 50 * time.Millisecond

	release := make(chan struct{})
	t.Cleanup(func() { close(release) })
	m.send = func(...*gomail.Message) error {
		<-release
		return nil
	}

	start := time.Now()
	err := m.SendVerificationEmail(context.Background(), Letter{To: "s123456@example.com", Code: "AbCdEfGh"})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), 2*time.Second)
}
