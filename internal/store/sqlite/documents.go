package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Timmmy307/Gmail-unspamer/internal/domain"
	"github.com/Timmmy307/Gmail-unspamer/internal/store"
)

const (
	settingsKey = "settings"
	snapshotKey = "last_scan"
)

// getDocument reads one JSON document into v. sql.ErrNoRows passes through
// for callers that treat absence specially.
func (s *DB) getDocument(ctx context.Context, key string, v any) error {
	var value string
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM documents WHERE key = ?`, key,
	).Scan(&value)
	if err != nil {
		return err
	}
	if err := json.Unmarshal([]byte(value), v); err != nil {
		return fmt.Errorf("failed to decode document %s: %w", key, err)
	}
	return nil
}

// setDocument overwrites one JSON document atomically.
func (s *DB) setDocument(ctx context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode document %s: %w", key, err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO documents (key, value, updated_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET
			value      = excluded.value,
			updated_at = excluded.updated_at`,
		key, string(data),
	)
	if err != nil {
		return fmt.Errorf("failed to write document %s: %w", key, err)
	}
	return nil
}

// LoadSettings returns the persisted settings normalized against defaults,
// or plain defaults when nothing has been saved yet.
func (s *DB) LoadSettings(ctx context.Context) (domain.Settings, error) {
	var settings domain.Settings
	err := s.getDocument(ctx, settingsKey, &settings)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.DefaultSettings(), nil
	}
	if err != nil {
		return domain.Settings{}, fmt.Errorf("failed to load settings: %w", err)
	}
	return settings.Normalize(), nil
}

// SaveSettings overwrites the settings document.
func (s *DB) SaveSettings(ctx context.Context, settings domain.Settings) error {
	return s.setDocument(ctx, settingsKey, settings)
}

// LoadSnapshot returns the retained scan snapshot.
func (s *DB) LoadSnapshot(ctx context.Context) (*domain.ScanSnapshot, error) {
	var snap domain.ScanSnapshot
	err := s.getDocument(ctx, snapshotKey, &snap)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNoSnapshot
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load snapshot: %w", err)
	}
	if snap.Groups == nil {
		snap.Groups = make(map[string]*domain.SenderGroup)
	}
	return &snap, nil
}

// SaveSnapshot overwrites the retained scan snapshot.
func (s *DB) SaveSnapshot(ctx context.Context, snap *domain.ScanSnapshot) error {
	return s.setDocument(ctx, snapshotKey, snap)
}

// Compile-time interface compliance check.
var _ store.Store = (*DB)(nil)
