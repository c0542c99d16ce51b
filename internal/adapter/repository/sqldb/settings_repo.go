package sqldb

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/simaogato/networth-backend/internal/domain"
)

// settings are stored as one JSON document in a single-row table
const settingsRowID = 1

// settingsRepository implements domain.SettingsRepository
type settingsRepository struct {
	db *DB
}

// NewSettingsRepository creates a new settings repository
func NewSettingsRepository(db *DB) domain.SettingsRepository {
	return &settingsRepository{db: db}
}

// Load retrieves the saved settings
func (r *settingsRepository) Load(ctx context.Context) (*domain.Settings, error) {
	query := r.db.rebind(`SELECT document FROM settings WHERE id = ?`)

	var document string
	err := r.db.QueryRowContext(ctx, query, settingsRowID).Scan(&document)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get settings: %w", err)
	}

	settings, err := domain.DecodeSettings([]byte(document))
	if err != nil {
		return nil, fmt.Errorf("failed to parse settings document: %w", err)
	}
	return settings, nil
}

// Save replaces the saved settings
func (r *settingsRepository) Save(ctx context.Context, settings *domain.Settings) error {
	document, err := json.Marshal(settings)
	if err != nil {
		return fmt.Errorf("failed to encode settings: %w", err)
	}

	query := r.db.rebind(`
		INSERT INTO settings (id, document, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET document = excluded.document, updated_at = excluded.updated_at
	`)

	_, err = r.db.ExecContext(ctx, query, settingsRowID, string(document), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	return nil
}
