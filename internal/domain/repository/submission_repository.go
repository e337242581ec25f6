package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"studyhub/internal/domain/model"
)

type SubmissionRepository interface {
	CreateSubmission(ctx context.Context, sub *model.Submission) error
	ListByTask(ctx context.Context, taskID string) ([]model.Submission, error)
	ListByUser(ctx context.Context, userID string) ([]model.Submission, error)
	// ListCompletedByTaskIDs returns completed submissions for the given
	// tasks with submitted_at >= since; a zero since means no lower bound.
	// Callers must short-circuit an empty taskIDs set before calling.
	ListCompletedByTaskIDs(ctx context.Context, taskIDs []string, since time.Time) ([]model.Submission, error)
}

type pgSubmissionRepository struct {
	db *sql.DB
}

func NewPgSubmissionRepository(db *sql.DB) SubmissionRepository {
	return &pgSubmissionRepository{db: db}
}

func (r *pgSubmissionRepository) CreateSubmission(ctx context.Context, s *model.Submission) error {
	query := `INSERT INTO submissions (id, task_id, user_id, status, score, comment)
	          VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.db.ExecContext(ctx, query, s.ID, s.TaskID, s.UserID, s.Status, s.Score, s.Comment)
	if err != nil {
		return fmt.Errorf("pgSubmissionRepository.CreateSubmission: %w", err)
	}
	return nil
}

func (r *pgSubmissionRepository) ListByTask(ctx context.Context, taskID string) ([]model.Submission, error) {
	query := `
        SELECT s.id, s.task_id, s.user_id, s.status, s.score, s.comment, s.submitted_at, s.updated_at,
               u.username
        FROM submissions s
        JOIN users u ON s.user_id = u.id
        WHERE s.task_id = $1
        ORDER BY s.submitted_at DESC`
	rows, err := r.db.QueryContext(ctx, query, taskID)
	if err != nil {
		return nil, fmt.Errorf("pgSubmissionRepository.ListByTask query: %w", err)
	}
	defer rows.Close()

	subs := []model.Submission{}
	for rows.Next() {
		var s model.Submission
		if err := rows.Scan(&s.ID, &s.TaskID, &s.UserID, &s.Status, &s.Score, &s.Comment, &s.SubmittedAt, &s.UpdatedAt, &s.UserUsername); err != nil {
			return nil, fmt.Errorf("pgSubmissionRepository.ListByTask scan: %w", err)
		}
		subs = append(subs, s)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("pgSubmissionRepository.ListByTask rows.Err: %w", err)
	}
	return subs, nil
}

func (r *pgSubmissionRepository) ListByUser(ctx context.Context, userID string) ([]model.Submission, error) {
	query := `
        SELECT s.id, s.task_id, s.user_id, s.status, s.score, s.comment, s.submitted_at, s.updated_at,
               t.title
        FROM submissions s
        JOIN tasks t ON s.task_id = t.id
        WHERE s.user_id = $1
        ORDER BY s.submitted_at DESC`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("pgSubmissionRepository.ListByUser query: %w", err)
	}
	defer rows.Close()

	subs := []model.Submission{}
	for rows.Next() {
		var s model.Submission
		if err := rows.Scan(&s.ID, &s.TaskID, &s.UserID, &s.Status, &s.Score, &s.Comment, &s.SubmittedAt, &s.UpdatedAt, &s.TaskTitle); err != nil {
			return nil, fmt.Errorf("pgSubmissionRepository.ListByUser scan: %w", err)
		}
		subs = append(subs, s)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("pgSubmissionRepository.ListByUser rows.Err: %w", err)
	}
	return subs, nil
}

func (r *pgSubmissionRepository) ListCompletedByTaskIDs(ctx context.Context, taskIDs []string, since time.Time) ([]model.Submission, error) {
	if len(taskIDs) == 0 {
		// An empty IN-set must never be sent to the database; it would be a
		// bug upstream, not a match-everything filter.
		return []model.Submission{}, nil
	}

	placeholders := make([]string, len(taskIDs))
	args := make([]interface{}, 0, len(taskIDs)+2)
	for i, id := range taskIDs {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		args = append(args, id)
	}

	var query strings.Builder
	query.WriteString(`SELECT id, task_id, user_id, status, score, comment, submitted_at, updated_at
	                   FROM submissions
	                   WHERE status = $` + fmt.Sprintf("%d", len(taskIDs)+1))
	args = append(args, model.SubmissionCompleted)
	query.WriteString(` AND task_id IN (` + strings.Join(placeholders, ",") + `)`)
	if !since.IsZero() {
		query.WriteString(fmt.Sprintf(` AND submitted_at >= $%d`, len(taskIDs)+2))
		args = append(args, since)
	}
	query.WriteString(` ORDER BY submitted_at ASC`)

	rows, err := r.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("pgSubmissionRepository.ListCompletedByTaskIDs query: %w", err)
	}
	defer rows.Close()

	subs := []model.Submission{}
	for rows.Next() {
		var s model.Submission
		if err := rows.Scan(&s.ID, &s.TaskID, &s.UserID, &s.Status, &s.Score, &s.Comment, &s.SubmittedAt, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("pgSubmissionRepository.ListCompletedByTaskIDs scan: %w", err)
		}
		subs = append(subs, s)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("pgSubmissionRepository.ListCompletedByTaskIDs rows.Err: %w", err)
	}
	return subs, nil
}
