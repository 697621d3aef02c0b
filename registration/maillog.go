package registration

import "time"

// MailLog records every verification email sent for one index number.
type MailLog struct {
	ProvidedIndex string
	SentTimes     []time.Time
}

func NewMailLog(index string, first time.Time) *MailLog {
	return &MailLog{ProvidedIndex: index, SentTimes: []time.Time{first}}
}

func (l *MailLog) Append(t time.Time) {
	l.SentTimes = append(l.SentTimes, t)
}
