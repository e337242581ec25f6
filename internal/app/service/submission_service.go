package service

import (
	"context"

	"studyhub/internal/common"
	"studyhub/internal/common/validate"
	"studyhub/internal/domain/model"
	"studyhub/internal/domain/repository"

	"github.com/google/uuid"
)

type SubmissionService struct {
	submissionRepo repository.SubmissionRepository
	taskRepo       repository.TaskRepository
	groupRepo      repository.GroupRepository
}

func NewSubmissionService(
	subRepo repository.SubmissionRepository,
	taskRepo repository.TaskRepository,
	groupRepo repository.GroupRepository,
) *SubmissionService {
	return &SubmissionService{
		submissionRepo: subRepo,
		taskRepo:       taskRepo,
		groupRepo:      groupRepo,
	}
}

type CreateSubmissionRequest struct {
	Status string `json:"status" validate:"required"`
	// Score is optional; when absent the configured default weight applies
	// at leaderboard time. It is stored as NULL, not resolved here, so a
	// later change to the default reweights history consistently.
	Score   *int    `json:"score,omitempty" validate:"omitempty,gte=0"`
	Comment *string `json:"comment,omitempty" validate:"omitempty,max=1000"`
}

func (s *SubmissionService) CreateSubmission(ctx context.Context, userID, taskID string, req CreateSubmissionRequest) (*model.Submission, error) {
	if err := validate.Struct(req); err != nil {
		return nil, err
	}

	status := model.SubmissionStatus(req.Status)
	if !status.Valid() {
		return nil, common.Errorf("unknown submission status %q: %w", req.Status, common.ErrBadRequest)
	}

	task, err := s.taskRepo.FindTaskByID(ctx, taskID)
	if err != nil {
		return nil, common.Errorf("task not found: %w", err)
	}

	isMember, err := s.groupRepo.IsMember(ctx, task.GroupID, userID)
	if err != nil {
		return nil, err
	}
	if !isMember {
		return nil, common.Errorf("not a member of this group: %w", common.ErrForbidden)
	}

	submission := &model.Submission{
		ID:      uuid.NewString(),
		TaskID:  task.ID,
		UserID:  userID,
		Status:  status,
		Score:   req.Score,
		Comment: req.Comment,
	}
	if err := s.submissionRepo.CreateSubmission(ctx, submission); err != nil {
		return nil, err
	}
	return submission, nil
}

func (s *SubmissionService) ListTaskSubmissions(ctx context.Context, userID, taskID string) ([]model.Submission, error) {
	task, err := s.taskRepo.FindTaskByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	isMember, err := s.groupRepo.IsMember(ctx, task.GroupID, userID)
	if err != nil {
		return nil, err
	}
	if !isMember {
		return nil, common.Errorf("not a member of this group: %w", common.ErrForbidden)
	}
	return s.submissionRepo.ListByTask(ctx, taskID)
}

func (s *SubmissionService) MySubmissions(ctx context.Context, userID string) ([]model.Submission, error) {
	return s.submissionRepo.ListByUser(ctx, userID)
}
