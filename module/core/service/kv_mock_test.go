package service

import (
	"context"
	"sync"
)

type mockKVRepo struct {
	mu       sync.Mutex
	data     map[string]string
	getFn    func(ctx context.Context, key string) (string, bool, error)
	setFn    func(ctx context.Context, key, value string) error
	setCalls int
}

func newMockKVRepo() *mockKVRepo {
	return &mockKVRepo{data: make(map[string]string)}
}

func (m *mockKVRepo) Get(ctx context.Context, key string) (string, bool, error) {
	if m.getFn != nil {
		return m.getFn(ctx, key)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *mockKVRepo) Set(ctx context.Context, key, value string) error {
	m.mu.Lock()
	m.setCalls++
	m.mu.Unlock()
	if m.setFn != nil {
		return m.setFn(ctx, key, value)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func (m *mockKVRepo) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}
