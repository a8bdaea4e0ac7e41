package repository_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"note-ai/assistant/internal/database"
	"note-ai/assistant/internal/model"
	"note-ai/assistant/internal/repository"
)

// setupRepository boots a throwaway SQLite database with the real schema.
func setupRepository(t *testing.T) repository.Repository {
	t.Helper()
	db, err := database.InitDB(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return repository.NewSQLiteRepository(db)
}

func newSession(title string, ts int64) *model.ChatSession {
	return &model.ChatSession{Title: title, CreatedTs: ts, UpdatedTs: ts}
}

func TestSQLiteRepository_Sessions(t *testing.T) {
	t.Run("Create mints a uid and defaults the status", func(t *testing.T) {
		repo := setupRepository(t)
		session := newSession("First", 100)

		require.NoError(t, repo.CreateSession(context.Background(), session))

		assert.NotEmpty(t, session.UID)
		got, err := repo.GetSession(context.Background(), session.UID)
		require.NoError(t, err)
		assert.Equal(t, "First", got.Title)
		assert.Equal(t, model.SessionStatusActive, got.Status)
	})

	t.Run("Get on an unknown uid returns ErrNotFound", func(t *testing.T) {
		repo := setupRepository(t)

		_, err := repo.GetSession(context.Background(), "uid-missing")

		assert.ErrorIs(t, err, repository.ErrNotFound)
	})

	t.Run("List orders by updated_ts, newest first", func(t *testing.T) {
		repo := setupRepository(t)
		older := newSession("Older", 100)
		newer := newSession("Newer", 200)
		require.NoError(t, repo.CreateSession(context.Background(), older))
		require.NoError(t, repo.CreateSession(context.Background(), newer))

		sessions, err := repo.ListSessions(context.Background())

		require.NoError(t, err)
		require.Len(t, sessions, 2)
		assert.Equal(t, "Newer", sessions[0].Title)
		assert.Equal(t, "Older", sessions[1].Title)
	})

	t.Run("UpdateSessionTitle renames and bumps updated_ts", func(t *testing.T) {
		repo := setupRepository(t)
		session := newSession("Old Title", 100)
		require.NoError(t, repo.CreateSession(context.Background(), session))

		require.NoError(t, repo.UpdateSessionTitle(context.Background(), session.UID, "New Title"))

		got, err := repo.GetSession(context.Background(), session.UID)
		require.NoError(t, err)
		assert.Equal(t, "New Title", got.Title)
		assert.Greater(t, got.UpdatedTs, int64(100))
	})

	t.Run("UpdateSessionTitle on an unknown uid returns ErrNotFound", func(t *testing.T) {
		repo := setupRepository(t)

		err := repo.UpdateSessionTitle(context.Background(), "uid-missing", "New Title")

		assert.ErrorIs(t, err, repository.ErrNotFound)
	})

	t.Run("Delete cascades to the session's messages", func(t *testing.T) {
		repo := setupRepository(t)
		session := newSession("Doomed", 100)
		require.NoError(t, repo.CreateSession(context.Background(), session))
		require.NoError(t, repo.AddMessage(context.Background(), session.UID, &model.ChatMessage{
			Role: model.RoleUser, Content: "q", CreatedTs: 101,
		}))

		require.NoError(t, repo.DeleteSession(context.Background(), session.UID))

		_, err := repo.GetSession(context.Background(), session.UID)
		assert.ErrorIs(t, err, repository.ErrNotFound)
		messages, err := repo.GetMessagesBySessionUID(context.Background(), session.UID)
		require.NoError(t, err)
		assert.Empty(t, messages)
	})

	t.Run("Delete on an unknown uid returns ErrNotFound", func(t *testing.T) {
		repo := setupRepository(t)

		err := repo.DeleteSession(context.Background(), "uid-missing")

		assert.ErrorIs(t, err, repository.ErrNotFound)
	})
}

func TestSQLiteRepository_Messages(t *testing.T) {
	t.Run("Messages come back in insertion order", func(t *testing.T) {
		repo := setupRepository(t)
		session := newSession("Chat", 100)
		require.NoError(t, repo.CreateSession(context.Background(), session))

		// Identical timestamps: rowid breaks the tie.
		for _, content := range []string{"first", "second", "third"} {
			require.NoError(t, repo.AddMessage(context.Background(), session.UID, &model.ChatMessage{
				Role: model.RoleUser, Content: content, CreatedTs: 200,
			}))
		}

		messages, err := repo.GetMessagesBySessionUID(context.Background(), session.UID)

		require.NoError(t, err)
		require.Len(t, messages, 3)
		assert.Equal(t, "first", messages[0].Content)
		assert.Equal(t, "second", messages[1].Content)
		assert.Equal(t, "third", messages[2].Content)
	})

	t.Run("AddMessage bumps the session's updated_ts", func(t *testing.T) {
		repo := setupRepository(t)
		session := newSession("Chat", 100)
		require.NoError(t, repo.CreateSession(context.Background(), session))

		require.NoError(t, repo.AddMessage(context.Background(), session.UID, &model.ChatMessage{
			Role: model.RoleAssistant, Content: "a", CreatedTs: 200,
		}))

		got, err := repo.GetSession(context.Background(), session.UID)
		require.NoError(t, err)
		assert.Greater(t, got.UpdatedTs, int64(100))
	})

	t.Run("Unknown session has no messages", func(t *testing.T) {
		repo := setupRepository(t)

		messages, err := repo.GetMessagesBySessionUID(context.Background(), "uid-missing")

		require.NoError(t, err)
		assert.Empty(t, messages)
	})
}
