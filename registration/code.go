package registration

import (
	"fmt"
	"math/rand/v2"
	"time"
)

const (
	CodeValidity        = 8 * time.Hour
	EmailCooldown       = 5 * time.Minute
	MaxSendsPerIndex    = 3
	MaxDistinctIndices  = 3
	CodeLength          = 8
	ExpireLayout        = "02.01.2006 15:04:05"
	codeAlphabet        = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"
	ReasonTemporaryFmt  = "Too many registration requests.\nRegistration has been **temporarily blocked**.\nNext possible attempt: %s"
	ReasonPermanentText = "A different index was provided 3 times.\nRegistration has been **permanently blocked**.\nIf you want to appeal, find an Admin on the list and send them a private message."
)

// CodeModel is one member's registration state: the current code and the
// emails sent while it is valid.
type CodeModel struct {
	Code           string
	GenerationTime time.Time
	MailLogs       []*MailLog
}

// NewCodeModel generates a fresh code with no mail history.
func NewCodeModel(now time.Time) *CodeModel {
	return &CodeModel{Code: GenerateCode(), GenerationTime: now}
}

// GenerateCode draws CodeLength letters uniformly from [A-Za-z].
// Not cryptographic; the code is short-lived and throttled.
func GenerateCode() string {
	b := make([]byte, CodeLength)
	for i := range b {
		b[i] = codeAlphabet[rand.IntN(len(codeAlphabet))]
	}
	return string(b)
}

func (m *CodeModel) ValidUntil() time.Time {
	return m.GenerationTime.Add(CodeValidity)
}

// IsValid is false from exactly ValidUntil onwards.
func (m *CodeModel) IsValid(now time.Time) bool {
	return now.Before(m.ValidUntil())
}

// Expire is ValidUntil in the format shown to members.
func (m *CodeModel) Expire() string {
	return m.ValidUntil().Local().Format(ExpireLayout)
}

func (m *CodeModel) logFor(index string) *MailLog {
	for _, l := range m.MailLogs {
		if l.ProvidedIndex == index {
			return l
		}
	}
	return nil
}

// ShouldSendEmail is false while a send to index happened within the cooldown.
func (m *CodeModel) ShouldSendEmail(index string, now time.Time) bool {
	l := m.logFor(index)
	if l == nil {
		return true
	}
	threshold := now.Add(-EmailCooldown)
	for _, t := range l.SentTimes {
		if t.After(threshold) {
			return false
		}
	}
	return true
}

// CheckIfBlocked returns the reason shown to the member when registration
// with index must not continue. The temporary block only applies once
// another send is due.
func (m *CodeModel) CheckIfBlocked(index string, now time.Time) (string, bool) {
	if l := m.logFor(index); l != nil {
		if m.IsValid(now) && len(l.SentTimes) >= MaxSendsPerIndex && m.ShouldSendEmail(index, now) {
			return fmt.Sprintf(ReasonTemporaryFmt, m.Expire()), true
		}
	}

	if len(m.DistinctIndices()) >= MaxDistinctIndices && m.logFor(index) == nil {
		return ReasonPermanentText, true
	}
	return "", false
}

func (m *CodeModel) DistinctIndices() []string {
	seen := make(map[string]struct{}, len(m.MailLogs))
	var out []string
	for _, l := range m.MailLogs {
		if _, ok := seen[l.ProvidedIndex]; ok {
			continue
		}
		seen[l.ProvidedIndex] = struct{}{}
		out = append(out, l.ProvidedIndex)
	}
	return out
}

// AddMailSentTime records a send at second precision.
func (m *CodeModel) AddMailSentTime(index string, now time.Time) {
	now = now.Truncate(time.Second)
	if l := m.logFor(index); l != nil {
		l.Append(now)
		return
	}
	m.MailLogs = append(m.MailLogs, NewMailLog(index, now))
}
