package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"studyhub/internal/domain/model"
)

type VerificationRepository interface {
	CreateAttempt(ctx context.Context, attempt *model.VerificationAttempt) error
	FinishAttempt(ctx context.Context, id, status string, reason *string) error
	// FailStuckAttempts flags attempts left in "checking" before the cutoff
	// as errored. Safe to run repeatedly.
	FailStuckAttempts(ctx context.Context, cutoff time.Time) (int64, error)
}

type pgVerificationRepository struct {
	db *sql.DB
}

func NewPgVerificationRepository(db *sql.DB) VerificationRepository {
	return &pgVerificationRepository{db: db}
}

func (r *pgVerificationRepository) CreateAttempt(ctx context.Context, a *model.VerificationAttempt) error {
	query := `INSERT INTO verification_attempts (id, task_id, user_id, problem_slug, status)
	          VALUES ($1, $2, $3, $4, $5)`
	_, err := r.db.ExecContext(ctx, query, a.ID, a.TaskID, a.UserID, a.ProblemSlug, a.Status)
	if err != nil {
		return fmt.Errorf("pgVerificationRepository.CreateAttempt: %w", err)
	}
	return nil
}

func (r *pgVerificationRepository) FinishAttempt(ctx context.Context, id, status string, reason *string) error {
	query := `UPDATE verification_attempts
	          SET status = $1, reason = $2, updated_at = CURRENT_TIMESTAMP
	          WHERE id = $3`
	_, err := r.db.ExecContext(ctx, query, status, reason, id)
	if err != nil {
		return fmt.Errorf("pgVerificationRepository.FinishAttempt: %w", err)
	}
	return nil
}

func (r *pgVerificationRepository) FailStuckAttempts(ctx context.Context, cutoff time.Time) (int64, error) {
	query := `UPDATE verification_attempts
	          SET status = $1, reason = 'verification timed out', updated_at = CURRENT_TIMESTAMP
	          WHERE status = $2 AND created_at < $3`
	res, err := r.db.ExecContext(ctx, query, model.AttemptError, model.AttemptChecking, cutoff)
	if err != nil {
		return 0, fmt.Errorf("pgVerificationRepository.FailStuckAttempts: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("pgVerificationRepository.FailStuckAttempts rows: %w", err)
	}
	return n, nil
}
