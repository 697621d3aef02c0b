package registration

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"time"
)

// CodeStore persists the member id -> CodeModel map.
type CodeStore interface {
	Load(ctx context.Context) (map[string]*CodeModel, error)
	Save(ctx context.Context, models map[string]*CodeModel) error
}

type mailLogRecord struct {
	ProvidedIndex string    `json:"provided_index"`
	MailsSentTime []float64 `json:"mails_sent_time"`
}

type codeRecord struct {
	Code           string          `json:"code"`
	GenerationTime *float64        `json:"generation_time"`
	MailLogs       []mailLogRecord `json:"mail_logs"`
}

var errMalformedRecord = errors.New("malformed code record")

func toUnix(t time.Time) float64 {
	return float64(t.UnixMicro()) / 1e6
}

func fromUnix(f float64) time.Time {
	return time.UnixMicro(int64(math.Round(f * 1e6)))
}

func (m *CodeModel) record() codeRecord {
	gen := toUnix(m.GenerationTime)
	rec := codeRecord{Code: m.Code, GenerationTime: &gen, MailLogs: make([]mailLogRecord, 0, len(m.MailLogs))}
	for _, l := range m.MailLogs {
		times := make([]float64, len(l.SentTimes))
		for i, t := range l.SentTimes {
			times[i] = toUnix(t)
		}
		rec.MailLogs = append(rec.MailLogs, mailLogRecord{ProvidedIndex: l.ProvidedIndex, MailsSentTime: times})
	}
	return rec
}

func (r codeRecord) model() (*CodeModel, error) {
	if len(r.Code) != CodeLength {
		return nil, fmt.Errorf("%w: code %q", errMalformedRecord, r.Code)
	}
	if r.GenerationTime == nil {
		return nil, fmt.Errorf("%w: missing generation_time", errMalformedRecord)
	}

	m := &CodeModel{Code: r.Code, GenerationTime: fromUnix(*r.GenerationTime)}
	seen := make(map[string]struct{}, len(r.MailLogs))
	for _, l := range r.MailLogs {
		if l.ProvidedIndex == "" || len(l.MailsSentTime) == 0 {
			return nil, fmt.Errorf("%w: empty mail log", errMalformedRecord)
		}
		if _, dup := seen[l.ProvidedIndex]; dup {
			return nil, fmt.Errorf("%w: duplicate index %s", errMalformedRecord, l.ProvidedIndex)
		}
		seen[l.ProvidedIndex] = struct{}{}

		ml := &MailLog{ProvidedIndex: l.ProvidedIndex, SentTimes: make([]time.Time, len(l.MailsSentTime))}
		for i, f := range l.MailsSentTime {
			ml.SentTimes[i] = fromUnix(f)
		}
		m.MailLogs = append(m.MailLogs, ml)
	}
	return m, nil
}

// JSONCodeStore keeps the map in a single JSON file.
type JSONCodeStore struct {
	path   string
	logger *slog.Logger
}

func NewJSONCodeStore(path string, logger *slog.Logger) *JSONCodeStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &JSONCodeStore{path: path, logger: logger.With(slog.String("component", "registration"))}
}

func (s *JSONCodeStore) Path() string { return s.path }

// Load returns an empty map when the file does not exist yet. Records that do
// not decode are dropped so the controller regenerates them.
func (s *JSONCodeStore) Load(ctx context.Context) (map[string]*CodeModel, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return map[string]*CodeModel{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", s.path, err)
	}
	if len(data) == 0 {
		return map[string]*CodeModel{}, nil
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode %s: %w", s.path, err)
	}

	models := make(map[string]*CodeModel, len(raw))
	for memberID, msg := range raw {
		var rec codeRecord
		if err := json.Unmarshal(msg, &rec); err != nil {
			s.logger.Warn("dropping undecodable code record", slog.String("member", memberID), slog.Any("error", err))
			continue
		}
		m, err := rec.model()
		if err != nil {
			s.logger.Warn("dropping invalid code record", slog.String("member", memberID), slog.Any("error", err))
			continue
		}
		models[memberID] = m
	}
	return models, nil
}

// Save writes through a temp file and rename so readers never see a partial file.
func (s *JSONCodeStore) Save(ctx context.Context, models map[string]*CodeModel) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	records := make(map[string]codeRecord, len(models))
	for id, m := range models {
		records[id] = m.record()
	}
	data, err := json.MarshalIndent(records, "", "    ")
	if err != nil {
		return err
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("write %s: %w", s.path, err)
	}
	return nil
}
