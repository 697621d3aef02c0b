package sys

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
)

func TestBotLogHandlerComponentAndAttrs(t *testing.T) {
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = false })

	var buf bytes.Buffer
	logger := slog.New(NewBotLogHandler(&buf, &BotLogHandlerOptions{Level: slog.LevelDebug}))

	logger.With("component", "mail").Info("sent", "to", "s123456@example.com")
	assert.Contains(t, buf.String(), "[MAIL] sent to=s123456@example.com")

	buf.Reset()
	logger.Warn("careful")
	assert.Contains(t, buf.String(), "[WARN] careful")
}

func TestBotLogHandlerSilent(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewBotLogHandler(&buf, &BotLogHandlerOptions{Silent: true, Level: slog.LevelInfo}))

	logger.Error("dropped")
	assert.Empty(t, buf.String())
}

func TestStripANSIWriter(t *testing.T) {
	var buf bytes.Buffer
	w := NewStripANSIWriter(&buf)

	n, err := w.Write([]byte("\x1b[31mred\x1b[0m"))
	assert.NoError(t, err)
	assert.Equal(t, len("\x1b[31mred\x1b[0m"), n)
	assert.Equal(t, "red", buf.String())
}

func TestBotLogHandlerComponentWarningShowsLevel(t *testing.T) {
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = false })

	var buf bytes.Buffer
	logger := slog.New(NewBotLogHandler(&buf, &BotLogHandlerOptions{Level: slog.LevelInfo}))

	logger.With("component", "registration").Warn("dropping invalid code record", "member", "1001")
	assert.Contains(t, buf.String(), "[WARN] [REGISTRATION] dropping invalid code record member=1001")

	buf.Reset()
	logger.Debug("hidden")
	assert.Empty(t, buf.String())
}
