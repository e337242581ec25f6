package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"studyhub/internal/domain/model"
)

type MessageRepository interface {
	CreateMessage(ctx context.Context, msg *model.Message) error
	// ListByGroupAfter serves the polling read: messages newer than `after`,
	// oldest first, capped at limit.
	ListByGroupAfter(ctx context.Context, groupID string, after time.Time, limit int) ([]model.Message, error)
}

type pgMessageRepository struct {
	db *sql.DB
}

func NewPgMessageRepository(db *sql.DB) MessageRepository {
	return &pgMessageRepository{db: db}
}

func (r *pgMessageRepository) CreateMessage(ctx context.Context, m *model.Message) error {
	query := `INSERT INTO messages (id, group_id, user_id, body) VALUES ($1, $2, $3, $4)`
	_, err := r.db.ExecContext(ctx, query, m.ID, m.GroupID, m.UserID, m.Body)
	if err != nil {
		return fmt.Errorf("pgMessageRepository.CreateMessage: %w", err)
	}
	return nil
}

func (r *pgMessageRepository) ListByGroupAfter(ctx context.Context, groupID string, after time.Time, limit int) ([]model.Message, error) {
	query := `
        SELECT m.id, m.group_id, m.user_id, m.body, m.created_at, u.username
        FROM messages m
        JOIN users u ON m.user_id = u.id
        WHERE m.group_id = $1 AND m.created_at > $2
        ORDER BY m.created_at ASC
        LIMIT $3`
	rows, err := r.db.QueryContext(ctx, query, groupID, after, limit)
	if err != nil {
		return nil, fmt.Errorf("pgMessageRepository.ListByGroupAfter query: %w", err)
	}
	defer rows.Close()

	msgs := []model.Message{}
	for rows.Next() {
		var m model.Message
		if err := rows.Scan(&m.ID, &m.GroupID, &m.UserID, &m.Body, &m.CreatedAt, &m.UserUsername); err != nil {
			return nil, fmt.Errorf("pgMessageRepository.ListByGroupAfter scan: %w", err)
		}
		msgs = append(msgs, m)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("pgMessageRepository.ListByGroupAfter rows.Err: %w", err)
	}
	return msgs, nil
}
