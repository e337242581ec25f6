package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"studyhub/internal/common"
	"studyhub/internal/domain/model"
)

type TaskRepository interface {
	CreateTask(ctx context.Context, task *model.Task) error
	FindTaskByID(ctx context.Context, id string) (*model.Task, error)
	ListTasksByGroup(ctx context.Context, groupID string) ([]model.Task, error)
	// ListTaskIDsByGroup is the leaderboard's first fetch; only identifiers
	// are needed there.
	ListTaskIDsByGroup(ctx context.Context, groupID string) ([]string, error)
}

type pgTaskRepository struct {
	db *sql.DB
}

func NewPgTaskRepository(db *sql.DB) TaskRepository {
	return &pgTaskRepository{db: db}
}

func (r *pgTaskRepository) CreateTask(ctx context.Context, t *model.Task) error {
	query := `INSERT INTO tasks (id, group_id, title, description, type, resource_url, created_by)
	          VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.db.ExecContext(ctx, query, t.ID, t.GroupID, t.Title, t.Description, t.Type, t.ResourceURL, t.CreatedByID)
	if err != nil {
		return fmt.Errorf("pgTaskRepository.CreateTask: %w", err)
	}
	return nil
}

func (r *pgTaskRepository) FindTaskByID(ctx context.Context, id string) (*model.Task, error) {
	query := `SELECT id, group_id, title, description, type, resource_url, created_by, created_at, updated_at
	          FROM tasks WHERE id = $1`
	t := &model.Task{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&t.ID, &t.GroupID, &t.Title, &t.Description, &t.Type, &t.ResourceURL, &t.CreatedByID, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgTaskRepository.FindTaskByID: %w", err)
	}
	return t, nil
}

func (r *pgTaskRepository) ListTasksByGroup(ctx context.Context, groupID string) ([]model.Task, error) {
	query := `SELECT id, group_id, title, description, type, resource_url, created_by, created_at, updated_at
	          FROM tasks WHERE group_id = $1 ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, query, groupID)
	if err != nil {
		return nil, fmt.Errorf("pgTaskRepository.ListTasksByGroup query: %w", err)
	}
	defer rows.Close()

	tasks := []model.Task{}
	for rows.Next() {
		var t model.Task
		if err := rows.Scan(&t.ID, &t.GroupID, &t.Title, &t.Description, &t.Type, &t.ResourceURL, &t.CreatedByID, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, fmt.Errorf("pgTaskRepository.ListTasksByGroup scan: %w", err)
		}
		tasks = append(tasks, t)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("pgTaskRepository.ListTasksByGroup rows.Err: %w", err)
	}
	return tasks, nil
}

func (r *pgTaskRepository) ListTaskIDsByGroup(ctx context.Context, groupID string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id FROM tasks WHERE group_id = $1`, groupID)
	if err != nil {
		return nil, fmt.Errorf("pgTaskRepository.ListTaskIDsByGroup query: %w", err)
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("pgTaskRepository.ListTaskIDsByGroup scan: %w", err)
		}
		ids = append(ids, id)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("pgTaskRepository.ListTaskIDsByGroup rows.Err: %w", err)
	}
	return ids, nil
}
