package app_test

import (
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"note-ai/assistant/internal/app"
	"note-ai/assistant/internal/config"
)

func TestNewApp(t *testing.T) {
	// GOAL: the whole dependency graph wires up from a bare configuration
	// and the resulting server actually routes requests.

	// ARRANGE
	cfg := &config.Config{
		AppPort:      8000,
		DatabasePath: filepath.Join(t.TempDir(), "assistant.db"),
		LogLevel:     "INFO",
	}

	// ACT
	application, err := app.NewApp(cfg)

	// ASSERT
	require.NoError(t, err)
	require.NotNil(t, application.DB)
	require.NotNil(t, application.Server)
	defer application.DB.Close()

	assert.Equal(t, ":8000", application.Server.Addr)

	// A fresh database has no sessions; the endpoint must still answer.
	req := httptest.NewRequest("GET", "/api/v1/sessions", nil)
	rr := httptest.NewRecorder()
	application.Server.Handler.ServeHTTP(rr, req)
	assert.Equal(t, 200, rr.Code)
	assert.JSONEq(t, "[]", rr.Body.String())

	t.Run("Health endpoint responds", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/healthz", nil)
		rr := httptest.NewRecorder()
		application.Server.Handler.ServeHTTP(rr, req)
		assert.Equal(t, 200, rr.Code)
	})
}

func TestNewApp_BadDatabasePath(t *testing.T) {
	cfg := &config.Config{
		AppPort: 8000,
		// A directory cannot be opened as a database file.
		DatabasePath: t.TempDir(),
	}

	_, err := app.NewApp(cfg)

	assert.Error(t, err)
}
