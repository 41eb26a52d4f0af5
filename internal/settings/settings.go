// Package settings persists operator-mutable configuration — destination
// channel override and the temporary mute window — in a Postgres key-value
// table so it survives restarts.
package settings

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/kikibot/aa-alert/internal/db"
)

const (
	keyAlertChannel = "alert_channel_id"
	keyMutedUntil   = "muted_until"
)

// Store reads and writes durable bot settings. The dedup set is explicitly
// NOT kept here: losing it on restart is accepted, losing the destination
// or an active mute is not.
type Store struct {
	pool *db.Pool
	// fallbackChannel is the startup ALERT_CHANNEL_ID, used until an
	// operator sets an override.
	fallbackChannel string
}

// New creates a Store over the shared pool.
func New(pool *db.Pool, fallbackChannel string) *Store {
	return &Store{pool: pool, fallbackChannel: fallbackChannel}
}

// EnsureSchema creates the settings table when missing. Safe to run on
// every startup.
func (s *Store) EnsureSchema(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS bot_settings (
			key        TEXT PRIMARY KEY,
			value      TEXT NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`)
	if err != nil {
		return fmt.Errorf("create bot_settings: %w", err)
	}
	return nil
}

// Destination returns the alert channel ID: the stored override when
// present, otherwise the startup fallback.
func (s *Store) Destination(ctx context.Context) (string, error) {
	v, err := s.get(ctx, keyAlertChannel)
	if err != nil {
		return "", err
	}
	if v == "" {
		return s.fallbackChannel, nil
	}
	return v, nil
}

// SetDestination stores a new alert channel ID.
func (s *Store) SetDestination(ctx context.Context, channelID string) error {
	if channelID == "" {
		return errors.New("channel ID is empty")
	}
	return s.put(ctx, keyAlertChannel, channelID)
}

// MuteUntil returns the end of the current mute window, or the zero time
// when not muted.
func (s *Store) MuteUntil(ctx context.Context) (time.Time, error) {
	v, err := s.get(ctx, keyMutedUntil)
	if err != nil || v == "" {
		return time.Time{}, err
	}
	t, perr := time.Parse(time.RFC3339, v)
	if perr != nil {
		// A corrupt row should not block sends; treat as unmuted.
		return time.Time{}, nil
	}
	return t, nil
}

// SetMute suppresses alert sends until the given instant.
func (s *Store) SetMute(ctx context.Context, until time.Time) error {
	return s.put(ctx, keyMutedUntil, until.UTC().Format(time.RFC3339))
}

// ClearMute removes the mute window.
func (s *Store) ClearMute(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, "settings_delete", keyMutedUntil)
	if err != nil {
		return fmt.Errorf("delete %s: %w", keyMutedUntil, err)
	}
	return nil
}

// ClearExpiredMute removes the mute row once its window has passed, so
// status output goes back to "not muted". Returns whether a row was cleared.
func (s *Store) ClearExpiredMute(ctx context.Context) (bool, error) {
	until, err := s.MuteUntil(ctx)
	if err != nil {
		return false, err
	}
	if until.IsZero() || time.Now().Before(until) {
		return false, nil
	}
	if err := s.ClearMute(ctx); err != nil {
		return false, err
	}
	return true, nil
}

func (s *Store) get(ctx context.Context, key string) (string, error) {
	var value string
	err := s.pool.QueryRow(ctx, "settings_get", key).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("get %s: %w", key, err)
	}
	return value, nil
}

func (s *Store) put(ctx context.Context, key, value string) error {
	if _, err := s.pool.Exec(ctx, "settings_put", key, value); err != nil {
		return fmt.Errorf("put %s: %w", key, err)
	}
	return nil
}
