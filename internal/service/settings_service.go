package service

import (
	"context"
	"database/sql"
	"fmt"

	app_errors "note-ai/assistant/internal/errors"
)

// Setting keys in the settings table.
const (
	settingKeyModel   = "ai_model"
	settingKeyAPIKey  = "ai_api_key"
	settingKeyBaseURL = "ai_base_url"
)

// AISetting is the workspace-level AI model configuration. All three fields
// must be present for generation to work.
type AISetting struct {
	Model   string `json:"model"`
	APIKey  string `json:"api_key"`
	BaseURL string `json:"base_url"`
}

// IsAbsent reports that nothing was ever configured.
func (s *AISetting) IsAbsent() bool {
	return s.Model == "" && s.APIKey == "" && s.BaseURL == ""
}

// IsComplete reports that every required field is set.
func (s *AISetting) IsComplete() bool {
	return s.Model != "" && s.APIKey != "" && s.BaseURL != ""
}

type SettingsService struct {
	db *sql.DB
}

func NewSettingsService(db *sql.DB) *SettingsService {
	return &SettingsService{db: db}
}

// Get reads the AI setting from the key/value settings table. Missing keys
// are not an error; they come back as empty fields so callers can tell
// "never configured" from "partially configured".
func (s *SettingsService) Get(ctx context.Context) (*AISetting, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT key, value FROM settings")
	if err != nil {
		return nil, fmt.Errorf("could not read settings: %w", err)
	}
	defer rows.Close()

	var setting AISetting
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("could not scan setting row: %w", err)
		}
		switch key {
		case settingKeyModel:
			setting.Model = value
		case settingKeyAPIKey:
			setting.APIKey = value
		case settingKeyBaseURL:
			setting.BaseURL = value
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("could not read settings: %w", err)
	}
	return &setting, nil
}

// Save upserts the AI setting. Partial configurations are rejected up front;
// an incomplete setting would make every generation request fail anyway.
func (s *SettingsService) Save(ctx context.Context, setting *AISetting) error {
	if !setting.IsComplete() {
		return fmt.Errorf("%w: model, api_key and base_url are all required", app_errors.ErrValidation)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("could not begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, "INSERT INTO settings (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value")
	if err != nil {
		return fmt.Errorf("could not prepare settings upsert: %w", err)
	}
	defer stmt.Close()

	pairs := [][2]string{
		{settingKeyModel, setting.Model},
		{settingKeyAPIKey, setting.APIKey},
		{settingKeyBaseURL, setting.BaseURL},
	}
	for _, pair := range pairs {
		if _, err := stmt.ExecContext(ctx, pair[0], pair[1]); err != nil {
			return fmt.Errorf("could not save setting %s: %w", pair[0], err)
		}
	}

	return tx.Commit()
}
