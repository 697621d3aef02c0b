package registration

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2024, 10, 1, 12, 0, 0, 0, time.Local)

func TestGenerateCode(t *testing.T) {
	for i := 0; i < 100; i++ {
		code := GenerateCode()
		require.Len(t, code, CodeLength)
		for _, c := range code {
			assert.True(t, (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z'), "unexpected rune %q", c)
		}
	}
}

func TestCodeModelValidity(t *testing.T) {
	m := NewCodeModel(t0)

	assert.True(t, m.IsValid(t0))
	assert.True(t, m.IsValid(t0.Add(8*time.Hour-time.Second)))
	assert.False(t, m.IsValid(t0.Add(8*time.Hour)))
	assert.False(t, m.IsValid(t0.Add(9*time.Hour)))
	assert.Equal(t, "01.10.2024 20:00:00", m.Expire())
}

func TestShouldSendEmail(t *testing.T) {
	m := NewCodeModel(t0)
	assert.True(t, m.ShouldSendEmail("123456", t0))

	m.AddMailSentTime("123456", t0)

	tests := []struct {
		name  string
		after time.Duration
		want  bool
	}{
		{"immediately", 0, false},
		{"30 seconds later", 30 * time.Second, false},
		{"just before cooldown ends", 5*time.Minute - time.Second, false},
		{"cooldown elapsed", 5 * time.Minute, true},
		{"six minutes later", 6 * time.Minute, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, m.ShouldSendEmail("123456", t0.Add(tt.after)))
		})
	}

	assert.True(t, m.ShouldSendEmail("654321", t0), "other indices are unaffected")
}

func TestCheckIfBlockedTemporary(t *testing.T) {
	m := NewCodeModel(t0)
	for i := 0; i < 3; i++ {
		m.AddMailSentTime("123456", t0.Add(time.Duration(i)*6*time.Minute))
	}

	t.Run("cooldown still running", func(t *testing.T) {
		_, blocked := m.CheckIfBlocked("123456", t0.Add(13*time.Minute))
		assert.False(t, blocked)
	})

	t.Run("fourth send due", func(t *testing.T) {
		reason, blocked := m.CheckIfBlocked("123456", t0.Add(18*time.Minute))
		require.True(t, blocked)
		assert.Equal(t, fmt.Sprintf(ReasonTemporaryFmt, m.Expire()), reason)
		assert.Contains(t, reason, "01.10.2024 20:00:00")
	})

	t.Run("model expired", func(t *testing.T) {
		_, blocked := m.CheckIfBlocked("123456", t0.Add(8*time.Hour))
		assert.False(t, blocked)
	})

	t.Run("two sends only", func(t *testing.T) {
		m := NewCodeModel(t0)
		m.AddMailSentTime("123456", t0)
		m.AddMailSentTime("123456", t0.Add(6*time.Minute))
		_, blocked := m.CheckIfBlocked("123456", t0.Add(20*time.Minute))
		assert.False(t, blocked)
	})
}

func TestCheckIfBlockedPermanent(t *testing.T) {
	m := NewCodeModel(t0)
	for _, idx := range []string{"111111", "222222", "333333"} {
		m.AddMailSentTime(idx, t0)
	}
	now := t0.Add(time.Minute)

	reason, blocked := m.CheckIfBlocked("444444", now)
	require.True(t, blocked)
	assert.Equal(t, ReasonPermanentText, reason)

	_, blocked = m.CheckIfBlocked("111111", now)
	assert.False(t, blocked, "known index is not permanently blocked")

	t.Run("two distinct indices", func(t *testing.T) {
		m := NewCodeModel(t0)
		m.AddMailSentTime("111111", t0)
		m.AddMailSentTime("222222", t0)
		_, blocked := m.CheckIfBlocked("333333", now)
		assert.False(t, blocked)
	})
}

func TestCheckIfBlockedTemporaryBeforePermanent(t *testing.T) {
	m := NewCodeModel(t0)
	for _, idx := range []string{"111111", "222222", "333333"} {
		m.AddMailSentTime(idx, t0)
	}
	m.AddMailSentTime("111111", t0.Add(6*time.Minute))
	m.AddMailSentTime("111111", t0.Add(12*time.Minute))

	reason, blocked := m.CheckIfBlocked("111111", t0.Add(30*time.Minute))
	require.True(t, blocked)
	assert.True(t, strings.Contains(reason, "temporarily"))
}

func TestAddMailSentTime(t *testing.T) {
	m := NewCodeModel(t0)

	m.AddMailSentTime("123456", t0.Add(1500*time.Millisecond))
	m.AddMailSentTime("654321", t0.Add(time.Minute))
	m.AddMailSentTime("123456", t0.Add(10*time.Minute))

	require.Len(t, m.MailLogs, 2)
	assert.Equal(t, []string{"123456", "654321"}, m.DistinctIndices())
	assert.Equal(t, []time.Time{t0.Add(time.Second), t0.Add(10 * time.Minute)}, m.MailLogs[0].SentTimes)
	assert.Len(t, m.MailLogs[1].SentTimes, 1)
}
