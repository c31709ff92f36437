package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/lugvitc/antigravity-tray/internal/query"
	_ "github.com/mattn/go-sqlite3"
)

// Keys the shell itself reads.
const (
	KeyHideNoticeShown = "hide_notice_shown"
)

// Settings is a small persistent key/value store. Values are stored as JSON
// so the frontend can save arbitrary shapes.
type Settings struct {
	mu sync.Mutex
	db *sql.DB
}

func OpenSettings(address string) (*Settings, error) {
	db, err := sql.Open("sqlite3", address)
	if err != nil {
		return nil, fmt.Errorf("open settings: %w", err)
	}
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(query.CreateSettingsTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("create settings table: %w", err)
	}
	return &Settings{db: db}, nil
}

func (s *Settings) Get(key string) (any, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var raw string
	err := s.db.QueryRow(query.SelectSetting, key).Scan(&raw)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get %s: %w", key, err)
	}
	var v any
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return nil, false, fmt.Errorf("decode %s: %w", key, err)
	}
	return v, true, nil
}

// GetBool returns def when the key is missing or not a bool.
func (s *Settings) GetBool(key string, def bool) bool {
	v, ok, err := s.Get(key)
	if err != nil || !ok {
		return def
	}
	b, ok := v.(bool)
	if !ok {
		return def
	}
	return b
}

func (s *Settings) Set(key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err = s.db.Exec(query.UpsertSetting, key, string(raw))
	if err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}

func (s *Settings) All() (map[string]any, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rows, err := s.db.Query(query.SelectAllSettings)
	if err != nil {
		return nil, fmt.Errorf("list settings: %w", err)
	}
	defer rows.Close()
	out := make(map[string]any)
	for rows.Next() {
		var key, raw string
		if err := rows.Scan(&key, &raw); err != nil {
			return nil, err
		}
		var v any
		if err := json.Unmarshal([]byte(raw), &v); err != nil {
			return nil, fmt.Errorf("decode %s: %w", key, err)
		}
		out[key] = v
	}
	return out, rows.Err()
}

// SaveAll writes every entry of m in one transaction.
func (s *Settings) SaveAll(m map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()
	for key, value := range m {
		raw, err := json.Marshal(value)
		if err != nil {
			return fmt.Errorf("encode %s: %w", key, err)
		}
		if _, err := tx.Exec(query.UpsertSetting, key, string(raw)); err != nil {
			return fmt.Errorf("set %s: %w", key, err)
		}
	}
	return tx.Commit()
}

func (s *Settings) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}
