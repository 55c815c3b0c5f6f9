// Package inmemory provides process-local memory stores. State is lost on
// restart; use the redis or postgres stores when sessions must survive one.
package inmemory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/KamdynS/weather-agent/memory"
)

// Store is a mutex-guarded map implementing memory.Store.
type Store struct {
	mu   sync.RWMutex
	data map[string]interface{}
}

func NewStore() *Store {
	return &Store{data: make(map[string]interface{})}
}

func (s *Store) Store(ctx context.Context, key string, value interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = value
	return nil
}

func (s *Store) Retrieve(ctx context.Context, key string) (interface{}, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	value, exists := s.data[key]
	if !exists {
		return nil, fmt.Errorf("key %s not found", key)
	}
	return value, nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
	return nil
}

func (s *Store) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := make([]string, 0, len(s.data))
	for key := range s.data {
		keys = append(keys, key)
	}
	return keys, nil
}

func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = make(map[string]interface{})
	return nil
}

// ConversationStore keeps typed per-session message slices alongside a
// generic key/value map.
type ConversationStore struct {
	mu       sync.RWMutex
	data     map[string]interface{}
	sessions map[string][]memory.Message
}

func NewConversationStore() *ConversationStore {
	return &ConversationStore{
		data:     make(map[string]interface{}),
		sessions: make(map[string][]memory.Message),
	}
}

func (cs *ConversationStore) Store(ctx context.Context, key string, value interface{}) error {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	cs.data[key] = value
	return nil
}

func (cs *ConversationStore) Retrieve(ctx context.Context, key string) (interface{}, error) {
	cs.mu.RLock()
	defer cs.mu.RUnlock()
	value, exists := cs.data[key]
	if !exists {
		return nil, fmt.Errorf("key %s not found", key)
	}
	return value, nil
}

func (cs *ConversationStore) Delete(ctx context.Context, key string) error {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	delete(cs.data, key)
	return nil
}

func (cs *ConversationStore) List(ctx context.Context) ([]string, error) {
	cs.mu.RLock()
	defer cs.mu.RUnlock()
	keys := make([]string, 0, len(cs.data))
	for k := range cs.data {
		keys = append(keys, k)
	}
	return keys, nil
}

func (cs *ConversationStore) Clear(ctx context.Context) error {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	cs.data = make(map[string]interface{})
	cs.sessions = make(map[string][]memory.Message)
	return nil
}

func (cs *ConversationStore) AppendMessage(ctx context.Context, sessionID string, msg memory.Message) error {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	if msg.Timestamp == 0 {
		msg.Timestamp = time.Now().Unix()
	}
	cs.sessions[sessionID] = append(cs.sessions[sessionID], msg)
	return nil
}

func (cs *ConversationStore) GetMessages(ctx context.Context, sessionID string) ([]memory.Message, error) {
	cs.mu.RLock()
	defer cs.mu.RUnlock()
	msgs := cs.sessions[sessionID]
	out := make([]memory.Message, len(msgs))
	copy(out, msgs)
	return out, nil
}

func (cs *ConversationStore) ClearSession(ctx context.Context, sessionID string) error {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	delete(cs.sessions, sessionID)
	return nil
}

var _ memory.Store = (*Store)(nil)
var _ memory.ConversationStore = (*ConversationStore)(nil)
