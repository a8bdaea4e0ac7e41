package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"note-ai/assistant/internal/model"
)

type sqliteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(db *sql.DB) Repository {
	return &sqliteRepository{db: db}
}

func (r *sqliteRepository) CreateSession(ctx context.Context, session *model.ChatSession) error {
	if session.UID == "" {
		session.UID = uuid.NewString()
	}
	if session.Status == "" {
		session.Status = model.SessionStatusActive
	}
	query := "INSERT INTO chat_sessions (uid, title, status, created_ts, updated_ts) VALUES (?, ?, ?, ?, ?)"
	_, err := r.db.ExecContext(ctx, query, session.UID, session.Title, session.Status, session.CreatedTs, session.UpdatedTs)
	return err
}

func (r *sqliteRepository) GetSession(ctx context.Context, uid string) (*model.ChatSession, error) {
	query := "SELECT uid, title, status, created_ts, updated_ts FROM chat_sessions WHERE uid = ?"
	row := r.db.QueryRowContext(ctx, query, uid)

	var session model.ChatSession
	err := row.Scan(&session.UID, &session.Title, &session.Status, &session.CreatedTs, &session.UpdatedTs)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &session, nil
}

func (r *sqliteRepository) ListSessions(ctx context.Context) ([]*model.ChatSession, error) {
	query := "SELECT uid, title, status, created_ts, updated_ts FROM chat_sessions WHERE status = ? ORDER BY updated_ts DESC"
	rows, err := r.db.QueryContext(ctx, query, model.SessionStatusActive)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []*model.ChatSession
	for rows.Next() {
		var session model.ChatSession
		if err := rows.Scan(&session.UID, &session.Title, &session.Status, &session.CreatedTs, &session.UpdatedTs); err != nil {
			return nil, err
		}
		sessions = append(sessions, &session)
	}
	return sessions, rows.Err()
}

func (r *sqliteRepository) UpdateSessionTitle(ctx context.Context, uid, title string) error {
	query := "UPDATE chat_sessions SET title = ?, updated_ts = ? WHERE uid = ?"
	res, err := r.db.ExecContext(ctx, query, title, time.Now().Unix(), uid)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func (r *sqliteRepository) TouchSession(ctx context.Context, uid string) error {
	query := "UPDATE chat_sessions SET updated_ts = ? WHERE uid = ?"
	res, err := r.db.ExecContext(ctx, query, time.Now().Unix(), uid)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func (r *sqliteRepository) DeleteSession(ctx context.Context, uid string) error {
	query := "DELETE FROM chat_sessions WHERE uid = ?"
	res, err := r.db.ExecContext(ctx, query, uid)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

// AddMessage inserts a message and bumps the session's updated_ts in one
// transaction so a half-written exchange never reorders the session list.
func (r *sqliteRepository) AddMessage(ctx context.Context, sessionUID string, message *model.ChatMessage) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("could not begin transaction: %w", err)
	}
	defer tx.Rollback()

	insertQuery := "INSERT INTO chat_messages (id, session_uid, role, content, created_ts) VALUES (?, ?, ?, ?, ?)"
	if _, err := tx.ExecContext(ctx, insertQuery, uuid.NewString(), sessionUID, message.Role, message.Content, message.CreatedTs); err != nil {
		return fmt.Errorf("could not insert message: %w", err)
	}

	touchQuery := "UPDATE chat_sessions SET updated_ts = ? WHERE uid = ?"
	if _, err := tx.ExecContext(ctx, touchQuery, time.Now().Unix(), sessionUID); err != nil {
		return fmt.Errorf("could not update session timestamp: %w", err)
	}

	return tx.Commit()
}

func (r *sqliteRepository) GetMessagesBySessionUID(ctx context.Context, sessionUID string) ([]model.ChatMessage, error) {
	query := "SELECT role, content, created_ts FROM chat_messages WHERE session_uid = ? ORDER BY created_ts ASC, rowid ASC"
	rows, err := r.db.QueryContext(ctx, query, sessionUID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []model.ChatMessage
	for rows.Next() {
		var msg model.ChatMessage
		if err := rows.Scan(&msg.Role, &msg.Content, &msg.CreatedTs); err != nil {
			return nil, err
		}
		messages = append(messages, msg)
	}
	return messages, rows.Err()
}

func requireAffected(res sql.Result) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
