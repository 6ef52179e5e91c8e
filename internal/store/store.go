package store

import (
	"context"
	"errors"

	"github.com/Timmmy307/Gmail-unspamer/internal/domain"
)

// ErrNoSnapshot is returned when no scan has been persisted yet.
var ErrNoSnapshot = errors.New("no snapshot stored")

// Store persists the two durable documents: the user settings and the most
// recent scan snapshot. Both are whole-document read-modify-write.
type Store interface {
	// LoadSettings returns the persisted settings with defaults merged in,
	// or plain defaults when nothing has been saved yet.
	LoadSettings(ctx context.Context) (domain.Settings, error)
	SaveSettings(ctx context.Context, settings domain.Settings) error

	// LoadSnapshot returns the retained snapshot, or ErrNoSnapshot.
	LoadSnapshot(ctx context.Context) (*domain.ScanSnapshot, error)
	// SaveSnapshot overwrites the retained snapshot.
	SaveSnapshot(ctx context.Context, snap *domain.ScanSnapshot) error

	Close() error
}
