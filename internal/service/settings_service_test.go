package service_test

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	app_errors "note-ai/assistant/internal/errors"
	"note-ai/assistant/internal/service"
)

const settingsUpsertQuery = "INSERT INTO settings (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value"

func TestSettingsService_Get(t *testing.T) {
	t.Run("Returns the full setting when all keys exist", func(t *testing.T) {
		// ARRANGE
		db, dbmock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()
		svc := service.NewSettingsService(db)

		rows := sqlmock.NewRows([]string{"key", "value"}).
			AddRow("ai_model", "gpt-4o-mini").
			AddRow("ai_api_key", "sk-test").
			AddRow("ai_base_url", "https://api.openai.com/v1")
		dbmock.ExpectQuery(regexp.QuoteMeta("SELECT key, value FROM settings")).WillReturnRows(rows)

		// ACT
		setting, err := svc.Get(context.Background())

		// ASSERT
		require.NoError(t, err)
		assert.Equal(t, "gpt-4o-mini", setting.Model)
		assert.Equal(t, "sk-test", setting.APIKey)
		assert.Equal(t, "https://api.openai.com/v1", setting.BaseURL)
		assert.True(t, setting.IsComplete())
		assert.NoError(t, dbmock.ExpectationsWereMet())
	})

	t.Run("Missing keys come back as empty fields, not an error", func(t *testing.T) {
		// ARRANGE
		db, dbmock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()
		svc := service.NewSettingsService(db)

		rows := sqlmock.NewRows([]string{"key", "value"}).
			AddRow("ai_model", "gpt-4o-mini")
		dbmock.ExpectQuery(regexp.QuoteMeta("SELECT key, value FROM settings")).WillReturnRows(rows)

		// ACT
		setting, err := svc.Get(context.Background())

		// ASSERT
		require.NoError(t, err)
		assert.False(t, setting.IsAbsent())
		assert.False(t, setting.IsComplete())
		assert.NoError(t, dbmock.ExpectationsWereMet())
	})

	t.Run("Empty table means never configured", func(t *testing.T) {
		// ARRANGE
		db, dbmock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()
		svc := service.NewSettingsService(db)

		dbmock.ExpectQuery(regexp.QuoteMeta("SELECT key, value FROM settings")).
			WillReturnRows(sqlmock.NewRows([]string{"key", "value"}))

		// ACT
		setting, err := svc.Get(context.Background())

		// ASSERT
		require.NoError(t, err)
		assert.True(t, setting.IsAbsent())
		assert.NoError(t, dbmock.ExpectationsWereMet())
	})

	t.Run("Query failure is wrapped", func(t *testing.T) {
		// ARRANGE
		db, dbmock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()
		svc := service.NewSettingsService(db)

		dbmock.ExpectQuery(regexp.QuoteMeta("SELECT key, value FROM settings")).
			WillReturnError(errors.New("database is locked"))

		// ACT
		_, err = svc.Get(context.Background())

		// ASSERT
		require.Error(t, err)
		assert.Contains(t, err.Error(), "could not read settings")
	})
}

func TestSettingsService_Save(t *testing.T) {
	t.Run("Upserts all three keys in one transaction", func(t *testing.T) {
		// ARRANGE
		db, dbmock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()
		svc := service.NewSettingsService(db)

		dbmock.ExpectBegin()
		prepared := dbmock.ExpectPrepare(regexp.QuoteMeta(settingsUpsertQuery))
		prepared.ExpectExec().WithArgs("ai_model", "gpt-4o-mini").WillReturnResult(sqlmock.NewResult(1, 1))
		prepared.ExpectExec().WithArgs("ai_api_key", "sk-test").WillReturnResult(sqlmock.NewResult(2, 1))
		prepared.ExpectExec().WithArgs("ai_base_url", "https://api.openai.com/v1").WillReturnResult(sqlmock.NewResult(3, 1))
		dbmock.ExpectCommit()

		// ACT
		err = svc.Save(context.Background(), &service.AISetting{
			Model:   "gpt-4o-mini",
			APIKey:  "sk-test",
			BaseURL: "https://api.openai.com/v1",
		})

		// ASSERT
		require.NoError(t, err)
		assert.NoError(t, dbmock.ExpectationsWereMet())
	})

	t.Run("Incomplete setting is rejected before touching the database", func(t *testing.T) {
		// ARRANGE
		db, dbmock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()
		svc := service.NewSettingsService(db)

		// ACT
		err = svc.Save(context.Background(), &service.AISetting{Model: "gpt-4o-mini"})

		// ASSERT
		require.Error(t, err)
		assert.True(t, errors.Is(err, app_errors.ErrValidation))
		assert.NoError(t, dbmock.ExpectationsWereMet())
	})

	t.Run("Exec failure rolls the transaction back", func(t *testing.T) {
		// ARRANGE
		db, dbmock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()
		svc := service.NewSettingsService(db)

		dbmock.ExpectBegin()
		prepared := dbmock.ExpectPrepare(regexp.QuoteMeta(settingsUpsertQuery))
		prepared.ExpectExec().WithArgs("ai_model", "gpt-4o-mini").WillReturnError(errors.New("disk I/O error"))
		dbmock.ExpectRollback()

		// ACT
		err = svc.Save(context.Background(), &service.AISetting{
			Model:   "gpt-4o-mini",
			APIKey:  "sk-test",
			BaseURL: "https://api.openai.com/v1",
		})

		// ASSERT
		require.Error(t, err)
		assert.Contains(t, err.Error(), "could not save setting ai_model")
		assert.NoError(t, dbmock.ExpectationsWereMet())
	})
}
