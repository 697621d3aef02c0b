package registration

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

// CodeController scopes one registration attempt to a member's CodeModel
// and writes the model back on every exit path.
type CodeController struct {
	store CodeStore
	now   func() time.Time

	storeMu sync.Mutex
	members keyedMutex
}

func NewCodeController(store CodeStore) *CodeController {
	return &CodeController{store: store, now: time.Now}
}

// Do loads (or regenerates) the member's model, runs fn with it and persists
// the result. Attempts of the same member run one at a time. A save failure is
// joined with fn's error; a panic in fn is re-raised after the save.
func (c *CodeController) Do(ctx context.Context, memberID string, fn func(*CodeModel) error) (err error) {
	unlock := c.members.Lock(memberID)
	defer unlock()

	model, err := c.acquire(ctx, memberID)
	if err != nil {
		return err
	}

	defer func() {
		r := recover()
		// The save must outlive a cancelled attempt.
		saveErr := c.release(context.WithoutCancel(ctx), memberID, model)
		if r != nil {
			panic(r)
		}
		if saveErr != nil {
			err = errors.Join(err, saveErr)
		}
	}()

	return fn(model)
}

func (c *CodeController) acquire(ctx context.Context, memberID string) (*CodeModel, error) {
	c.storeMu.Lock()
	defer c.storeMu.Unlock()

	models, err := c.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load codes: %w", err)
	}

	now := c.now()
	if m, ok := models[memberID]; ok && m.IsValid(now) {
		return m, nil
	}
	return NewCodeModel(now), nil
}

func (c *CodeController) release(ctx context.Context, memberID string, model *CodeModel) error {
	c.storeMu.Lock()
	defer c.storeMu.Unlock()

	models, err := c.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("reload codes: %w", err)
	}
	models[memberID] = model
	if err := c.store.Save(ctx, models); err != nil {
		return fmt.Errorf("save codes: %w", err)
	}
	return nil
}

type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*refMutex
}

type refMutex struct {
	sync.Mutex
	refs int
}

func (k *keyedMutex) Lock(key string) func() {
	k.mu.Lock()
	if k.locks == nil {
		k.locks = make(map[string]*refMutex)
	}
	m, ok := k.locks[key]
	if !ok {
		m = &refMutex{}
		k.locks[key] = m
	}
	m.refs++
	k.mu.Unlock()

	m.Lock()
	return func() {
		m.Unlock()
		k.mu.Lock()
		m.refs--
		if m.refs == 0 {
			delete(k.locks, key)
		}
		k.mu.Unlock()
	}
}
