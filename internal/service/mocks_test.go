package service_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	errorvalues "github.com/jjtjtyt6644/studify/internal/error_values"
	"github.com/jjtjtyt6644/studify/internal/service"
)

type mockState int

const (
	stateSuccess = iota
	stateDBError
)

func TestMain(m *testing.M) {
	service.InitValidator()
	m.Run()
}

// kvMock is an in-memory stand-in for the postgres kv store.
type kvMock struct {
	mu    sync.Mutex
	data  map[string]string
	state mockState
}

func newKVMock() *kvMock {
	return &kvMock{
		data: map[string]string{},
	}
}

func (kv *kvMock) Get(ctx context.Context, key string) (string, error) {
	kv.mu.Lock()
	defer kv.mu.Unlock()
	if kv.state == stateDBError {
		return "", errors.New("db error")
	}
	value, ok := kv.data[key]
	if !ok {
		return "", errorvalues.ErrKeyNotFound
	}
	return value, nil
}

func (kv *kvMock) Set(ctx context.Context, key, value string) error {
	kv.mu.Lock()
	defer kv.mu.Unlock()
	if kv.state == stateDBError {
		return errors.New("db error")
	}
	kv.data[key] = value
	return nil
}

func (kv *kvMock) Remove(ctx context.Context, key string) error {
	kv.mu.Lock()
	defer kv.mu.Unlock()
	if kv.state == stateDBError {
		return errors.New("db error")
	}
	delete(kv.data, key)
	return nil
}

func (kv *kvMock) Clear(ctx context.Context) error {
	kv.mu.Lock()
	defer kv.mu.Unlock()
	if kv.state == stateDBError {
		return errors.New("db error")
	}
	kv.data = map[string]string{}
	return nil
}

func (kv *kvMock) setState(state mockState) {
	kv.mu.Lock()
	defer kv.mu.Unlock()
	kv.state = state
}

func (kv *kvMock) has(key string) bool {
	kv.mu.Lock()
	defer kv.mu.Unlock()
	_, ok := kv.data[key]
	return ok
}

// schedMock records scheduled and cancelled notifications.
type schedMock struct {
	mu        sync.Mutex
	scheduled map[string]time.Time
	cancelled []string
}

func newSchedMock() *schedMock {
	return &schedMock{
		scheduled: map[string]time.Time{},
	}
}

func (sm *schedMock) Schedule(id string, at time.Time, title, body string) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	sm.scheduled[id] = at
}

func (sm *schedMock) Cancel(id string) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	delete(sm.scheduled, id)
	sm.cancelled = append(sm.cancelled, id)
}

func (sm *schedMock) pending(id string) bool {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	_, ok := sm.scheduled[id]
	return ok
}

func (sm *schedMock) pendingAt(id string) time.Time {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	return sm.scheduled[id]
}

func (sm *schedMock) wasCancelled(id string) bool {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	for _, c := range sm.cancelled {
		if c == id {
			return true
		}
	}
	return false
}
