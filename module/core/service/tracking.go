package service

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/google/uuid"

	"github.com/p0x6/private-kit/module/core/domain"
	"github.com/p0x6/private-kit/module/core/internal/repository/database"
)

type locationSource interface {
	Start() error
	Stop() error
}

// Tracker reference counts tracking sessions over a single location source.
// The first Start starts the source and the last Stop stops it.
type Tracker struct {
	source locationSource
	repo   database.KeyValueRepository

	mu      sync.Mutex
	handles map[string]*TrackingHandle
}

type TrackingHandle struct {
	ID string `json:"id"`

	tracker *Tracker
	once    sync.Once
	err     error
}

func NewTracker(source locationSource, repo database.KeyValueRepository) *Tracker {
	return &Tracker{
		source:  source,
		repo:    repo,
		handles: make(map[string]*TrackingHandle),
	}
}

func (t *Tracker) Start(ctx context.Context) (*TrackingHandle, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if len(t.handles) == 0 {
		if err := t.source.Start(); err != nil {
			return nil, fmt.Errorf("start location source: %w", err)
		}
		t.setParticipate(ctx, true)
	}

	h := &TrackingHandle{ID: uuid.NewString(), tracker: t}
	t.handles[h.ID] = h
	return h, nil
}

// Stop releases the handle with the given id.
func (t *Tracker) Stop(ctx context.Context, id string) error {
	t.mu.Lock()
	h, ok := t.handles[id]
	t.mu.Unlock()
	if !ok {
		return domain.ErrHandleNotFound
	}
	return h.Stop(ctx)
}

// Resume restarts the location source if any handle is held. It is called
// after the transport reconnects and has lost the source's subscription.
func (t *Tracker) Resume() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if len(t.handles) == 0 {
		return nil
	}
	if err := t.source.Start(); err != nil {
		return fmt.Errorf("resume location source: %w", err)
	}
	return nil
}

// Active returns the number of live handles.
func (t *Tracker) Active() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.handles)
}

// Stop is idempotent; later calls return the first call's result.
func (h *TrackingHandle) Stop(ctx context.Context) error {
	h.once.Do(func() {
		h.err = h.tracker.release(ctx, h.ID)
	})
	return h.err
}

func (t *Tracker) release(ctx context.Context, id string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	delete(t.handles, id)
	if len(t.handles) > 0 {
		return nil
	}

	if err := t.source.Stop(); err != nil {
		return fmt.Errorf("stop location source: %w", err)
	}
	t.setParticipate(ctx, false)
	return nil
}

func (t *Tracker) setParticipate(ctx context.Context, on bool) {
	value := "false"
	if on {
		value = "true"
	}
	if err := t.repo.Set(ctx, domain.KeyParticipate, value); err != nil {
		log.Printf("persist participate flag: %v", err)
	}
}
