package voicepool

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/disgoorg/snowflake/v2"
	"golang.org/x/time/rate"
)

const (
	MaxUserLimit   = 99
	RenameBurst    = 2
	RenameInterval = 10 * time.Minute
	MaxNameLength  = 100
)

var (
	ErrInvalidLimit  = errors.New("user limit must be between 0 and 99")
	ErrInvalidName   = errors.New("channel name must be 1-100 characters")
	ErrRenameLimited = errors.New("channel renamed too often")
	ErrNotInPool     = errors.New("channel is not part of the voice pool")
)

// ChannelAPI is the platform side of the pool.
type ChannelAPI interface {
	Channels(ctx context.Context) ([]Channel, error)
	CreateChannel(ctx context.Context, name string) (Channel, error)
	DeleteChannel(ctx context.Context, id snowflake.ID) error
	SetUserLimit(ctx context.Context, id snowflake.ID, limit int) error
	Rename(ctx context.Context, id snowflake.ID, name string) error
}

// Manager reconciles the pool and applies member edits.
type Manager struct {
	api    ChannelAPI
	picker *NamePicker

	mu sync.Mutex

	limitersMu sync.Mutex
	limiters   map[snowflake.ID]*rate.Limiter
}

func NewManager(api ChannelAPI, names []string) *Manager {
	return &Manager{
		api:      api,
		picker:   NewNamePicker(names),
		limiters: make(map[snowflake.ID]*rate.Limiter),
	}
}

// Reconcile brings the pool to exactly one empty channel. Runs are serialized.
// Deletion errors do not stop the remaining actions; all are returned joined.
func (m *Manager) Reconcile(ctx context.Context) (Actions, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	channels, err := m.api.Channels(ctx)
	if err != nil {
		return Actions{}, fmt.Errorf("list pool channels: %w", err)
	}

	actions := Plan(channels)
	var errs []error

	if actions.Create {
		names := make([]string, len(channels))
		for i, ch := range channels {
			names[i] = ch.Name
		}
		if _, err := m.api.CreateChannel(ctx, m.picker.Next(names)); err != nil {
			errs = append(errs, fmt.Errorf("create channel: %w", err))
		}
	}

	for _, id := range actions.Delete {
		if err := m.api.DeleteChannel(ctx, id); err != nil {
			errs = append(errs, fmt.Errorf("delete channel %s: %w", id, err))
		}
		m.forget(id)
	}

	return actions, errors.Join(errs...)
}

// Contains reports whether id is one of the pool's channels.
func (m *Manager) Contains(ctx context.Context, id snowflake.ID) (bool, error) {
	channels, err := m.api.Channels(ctx)
	if err != nil {
		return false, err
	}
	for _, ch := range channels {
		if ch.ID == id {
			return true, nil
		}
	}
	return false, nil
}

func (m *Manager) SetLimit(ctx context.Context, id snowflake.ID, limit int) error {
	if limit < 0 || limit > MaxUserLimit {
		return ErrInvalidLimit
	}
	if ok, err := m.Contains(ctx, id); err != nil {
		return err
	} else if !ok {
		return ErrNotInPool
	}
	return m.api.SetUserLimit(ctx, id, limit)
}

// Rename allows RenameBurst renames per RenameInterval per channel.
func (m *Manager) Rename(ctx context.Context, id snowflake.ID, name string) error {
	name = strings.TrimSpace(name)
	if name == "" || len([]rune(name)) > MaxNameLength {
		return ErrInvalidName
	}
	if ok, err := m.Contains(ctx, id); err != nil {
		return err
	} else if !ok {
		return ErrNotInPool
	}
	if !m.limiter(id).Allow() {
		return ErrRenameLimited
	}
	return m.api.Rename(ctx, id, name)
}

func (m *Manager) limiter(id snowflake.ID) *rate.Limiter {
	m.limitersMu.Lock()
	defer m.limitersMu.Unlock()

	l, ok := m.limiters[id]
	if !ok {
		l = rate.NewLimiter(rate.Every(RenameInterval/RenameBurst), RenameBurst)
		m.limiters[id] = l
	}
	return l
}

func (m *Manager) forget(id snowflake.ID) {
	m.limitersMu.Lock()
	delete(m.limiters, id)
	m.limitersMu.Unlock()
}
