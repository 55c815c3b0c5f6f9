// Package redis implements memory stores on go-redis. Conversations are
// Redis lists, one per session, so appends and full reads stay O(1) round
// trips.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	rds "github.com/redis/go-redis/v9"

	"github.com/KamdynS/weather-agent/memory"
)

// Store is a JSON-encoded key/value store with an optional TTL and key prefix.
type Store struct {
	client *rds.Client
	ttl    time.Duration
	prefix string
}

func NewStore(client *rds.Client, ttl time.Duration, prefix string) *Store {
	return &Store{client: client, ttl: ttl, prefix: prefix}
}

func (s *Store) key(k string) string {
	if s.prefix == "" {
		return k
	}
	return s.prefix + ":" + k
}

func (s *Store) Store(ctx context.Context, key string, value interface{}) error {
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, s.key(key), b, s.ttl).Err()
}

func (s *Store) Retrieve(ctx context.Context, key string) (interface{}, error) {
	val, err := s.client.Get(ctx, s.key(key)).Bytes()
	if err != nil {
		if errors.Is(err, rds.Nil) {
			return nil, fmt.Errorf("key %s not found", key)
		}
		return nil, err
	}
	var out interface{}
	if err := json.Unmarshal(val, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	return s.client.Del(ctx, s.key(key)).Err()
}

func (s *Store) List(ctx context.Context) ([]string, error) {
	pattern := "*"
	if s.prefix != "" {
		pattern = s.prefix + ":*"
	}
	return scanKeys(ctx, s.client, pattern)
}

func (s *Store) Clear(ctx context.Context) error {
	keys, err := s.List(ctx)
	if err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	return s.client.Del(ctx, keys...).Err()
}

// ConversationStore holds each session as a list of JSON-encoded messages.
type ConversationStore struct {
	client *rds.Client
	prefix string
	ttl    time.Duration
}

func NewConversationStore(client *rds.Client, prefix string, ttl time.Duration) *ConversationStore {
	return &ConversationStore{client: client, prefix: prefix, ttl: ttl}
}

func (cs *ConversationStore) sessionKey(sessionID string) string {
	p := cs.prefix
	if p != "" {
		p += ":"
	}
	return fmt.Sprintf("%ssession:%s", p, sessionID)
}

func (cs *ConversationStore) Store(ctx context.Context, key string, value interface{}) error {
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return cs.client.Set(ctx, cs.sessionKey(key), b, cs.ttl).Err()
}

func (cs *ConversationStore) Retrieve(ctx context.Context, key string) (interface{}, error) {
	val, err := cs.client.Get(ctx, cs.sessionKey(key)).Bytes()
	if err != nil {
		if errors.Is(err, rds.Nil) {
			return nil, fmt.Errorf("key %s not found", key)
		}
		return nil, err
	}
	var out interface{}
	if err := json.Unmarshal(val, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (cs *ConversationStore) Delete(ctx context.Context, key string) error {
	return cs.client.Del(ctx, cs.sessionKey(key)).Err()
}

func (cs *ConversationStore) List(ctx context.Context) ([]string, error) {
	return scanKeys(ctx, cs.client, cs.sessionKey("*"))
}

func (cs *ConversationStore) Clear(ctx context.Context) error {
	keys, err := cs.List(ctx)
	if err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	return cs.client.Del(ctx, keys...).Err()
}

func (cs *ConversationStore) AppendMessage(ctx context.Context, sessionID string, msg memory.Message) error {
	if msg.Timestamp == 0 {
		msg.Timestamp = time.Now().Unix()
	}
	b, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	key := cs.sessionKey(sessionID)
	if err := cs.client.RPush(ctx, key, b).Err(); err != nil {
		return err
	}
	if cs.ttl > 0 {
		// Sliding expiry: each append renews the session.
		_ = cs.client.Expire(ctx, key, cs.ttl).Err()
	}
	return nil
}

func (cs *ConversationStore) GetMessages(ctx context.Context, sessionID string) ([]memory.Message, error) {
	vals, err := cs.client.LRange(ctx, cs.sessionKey(sessionID), 0, -1).Result()
	if err != nil {
		if errors.Is(err, rds.Nil) {
			return []memory.Message{}, nil
		}
		return nil, err
	}
	msgs := make([]memory.Message, 0, len(vals))
	for _, v := range vals {
		var m memory.Message
		if err := json.Unmarshal([]byte(v), &m); err != nil {
			return nil, err
		}
		msgs = append(msgs, m)
	}
	return msgs, nil
}

func (cs *ConversationStore) ClearSession(ctx context.Context, sessionID string) error {
	return cs.client.Del(ctx, cs.sessionKey(sessionID)).Err()
}

func scanKeys(ctx context.Context, client *rds.Client, pattern string) ([]string, error) {
	var cursor uint64
	keys := []string{}
	for {
		ks, cur, err := client.Scan(ctx, cursor, pattern, 100).Result()
		if err != nil {
			return nil, err
		}
		keys = append(keys, ks...)
		if cur == 0 {
			break
		}
		cursor = cur
	}
	return keys, nil
}

var _ memory.Store = (*Store)(nil)
var _ memory.ConversationStore = (*ConversationStore)(nil)
