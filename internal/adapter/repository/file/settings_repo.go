// Package file stores settings as a JSON document and the history ledger as CSV,
// both under a single data directory.
package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"github.com/simaogato/networth-backend/internal/domain"
)

// SettingsFileName is the settings document inside the data directory
const SettingsFileName = "settings.json"

// settingsRepository implements domain.SettingsRepository
type settingsRepository struct {
	path   string
	schema *jsonschema.Schema
}

// NewSettingsRepository creates a settings repository rooted at dir
func NewSettingsRepository(dir string) (domain.SettingsRepository, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	schema, err := compileSettingsSchema()
	if err != nil {
		return nil, fmt.Errorf("failed to compile settings schema: %w", err)
	}
	return &settingsRepository{
		path:   filepath.Join(dir, SettingsFileName),
		schema: schema,
	}, nil
}

// Load reads and schema-checks the settings document.
// A missing file yields domain.ErrNotFound.
func (r *settingsRepository) Load(ctx context.Context) (*domain.Settings, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	raw, err := os.ReadFile(r.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to read settings file: %w", err)
	}

	var doc interface{}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse settings file: %w", err)
	}
	if err := r.schema.Validate(doc); err != nil {
		return nil, fmt.Errorf("failed to validate settings file: %w", err)
	}

	settings, err := domain.DecodeSettings(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to decode settings file: %w", err)
	}
	return settings, nil
}

// Save replaces the settings document atomically
func (r *settingsRepository) Save(ctx context.Context, settings *domain.Settings) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	raw, err := json.MarshalIndent(settings, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode settings: %w", err)
	}
	if err := writeFileAtomic(r.path, raw); err != nil {
		return fmt.Errorf("failed to write settings file: %w", err)
	}
	return nil
}

// writeFileAtomic writes data to a temp file in the target directory, syncs it and renames
// it over path, so readers see either the old or the new document.
func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer func() {
		// no-op once renamed
		_ = os.Remove(tmpName)
	}()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}
