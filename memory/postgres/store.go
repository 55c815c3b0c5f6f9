// Package postgres implements a durable conversation store on pgx. Each
// session is a row-per-message log in agent_messages, plus a small
// agent_state table backing the generic key/value interface.
package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/KamdynS/weather-agent/memory"
)

const schema = `
CREATE TABLE IF NOT EXISTS agent_state (
	key   TEXT PRIMARY KEY,
	value JSONB NOT NULL
);
CREATE TABLE IF NOT EXISTS agent_messages (
	id           BIGSERIAL PRIMARY KEY,
	session_id   TEXT NOT NULL,
	role         TEXT NOT NULL,
	content      TEXT NOT NULL,
	name         TEXT NOT NULL DEFAULT '',
	tool_call_id TEXT NOT NULL DEFAULT '',
	created_at   BIGINT NOT NULL,
	meta         JSONB
);
CREATE INDEX IF NOT EXISTS agent_messages_session_idx ON agent_messages (session_id, id);
`

// ConversationStore persists sessions in PostgreSQL.
type ConversationStore struct {
	pool *pgxpool.Pool
}

// NewConversationStore connects to dsn and ensures the schema exists.
func NewConversationStore(ctx context.Context, dsn string) (*ConversationStore, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}
	cs := &ConversationStore{pool: pool}
	if err := cs.migrate(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return cs, nil
}

// NewConversationStoreWithPool wraps an existing pool. The schema must
// already exist or be created via Migrate.
func NewConversationStoreWithPool(pool *pgxpool.Pool) *ConversationStore {
	return &ConversationStore{pool: pool}
}

// Migrate creates the backing tables if they are missing.
func (cs *ConversationStore) Migrate(ctx context.Context) error {
	return cs.migrate(ctx)
}

func (cs *ConversationStore) migrate(ctx context.Context) error {
	if _, err := cs.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

// Close releases the connection pool.
func (cs *ConversationStore) Close() {
	cs.pool.Close()
}

func (cs *ConversationStore) Store(ctx context.Context, key string, value interface{}) error {
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	_, err = cs.pool.Exec(ctx,
		`INSERT INTO agent_state (key, value) VALUES ($1, $2)
		 ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value`,
		key, b)
	return err
}

func (cs *ConversationStore) Retrieve(ctx context.Context, key string) (interface{}, error) {
	var raw []byte
	err := cs.pool.QueryRow(ctx,
		`SELECT value FROM agent_state WHERE key = $1`, key).Scan(&raw)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("key %s not found", key)
		}
		return nil, err
	}
	var out interface{}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (cs *ConversationStore) Delete(ctx context.Context, key string) error {
	_, err := cs.pool.Exec(ctx, `DELETE FROM agent_state WHERE key = $1`, key)
	return err
}

func (cs *ConversationStore) List(ctx context.Context) ([]string, error) {
	rows, err := cs.pool.Query(ctx, `SELECT key FROM agent_state ORDER BY key`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	keys := []string{}
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, err
		}
		keys = append(keys, k)
	}
	return keys, rows.Err()
}

func (cs *ConversationStore) Clear(ctx context.Context) error {
	if _, err := cs.pool.Exec(ctx, `DELETE FROM agent_state`); err != nil {
		return err
	}
	_, err := cs.pool.Exec(ctx, `DELETE FROM agent_messages`)
	return err
}

func (cs *ConversationStore) AppendMessage(ctx context.Context, sessionID string, msg memory.Message) error {
	if msg.Timestamp == 0 {
		msg.Timestamp = time.Now().Unix()
	}
	var meta []byte
	if len(msg.Meta) > 0 {
		b, err := json.Marshal(msg.Meta)
		if err != nil {
			return err
		}
		meta = b
	}
	_, err := cs.pool.Exec(ctx,
		`INSERT INTO agent_messages (session_id, role, content, name, tool_call_id, created_at, meta)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		sessionID, msg.Role, msg.Content, msg.Name, msg.ToolCallID, msg.Timestamp, meta)
	return err
}

func (cs *ConversationStore) GetMessages(ctx context.Context, sessionID string) ([]memory.Message, error) {
	rows, err := cs.pool.Query(ctx,
		`SELECT role, content, name, tool_call_id, created_at, meta
		 FROM agent_messages WHERE session_id = $1 ORDER BY id`,
		sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	msgs := []memory.Message{}
	for rows.Next() {
		var m memory.Message
		var meta []byte
		if err := rows.Scan(&m.Role, &m.Content, &m.Name, &m.ToolCallID, &m.Timestamp, &meta); err != nil {
			return nil, err
		}
		if len(meta) > 0 {
			if err := json.Unmarshal(meta, &m.Meta); err != nil {
				return nil, err
			}
		}
		msgs = append(msgs, m)
	}
	return msgs, rows.Err()
}

func (cs *ConversationStore) ClearSession(ctx context.Context, sessionID string) error {
	_, err := cs.pool.Exec(ctx, `DELETE FROM agent_messages WHERE session_id = $1`, sessionID)
	return err
}

var _ memory.ConversationStore = (*ConversationStore)(nil)
