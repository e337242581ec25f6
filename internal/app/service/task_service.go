package service

import (
	"context"

	"studyhub/internal/common"
	"studyhub/internal/common/validate"
	"studyhub/internal/domain/model"
	"studyhub/internal/domain/repository"

	"github.com/google/uuid"
)

type TaskService struct {
	taskRepo  repository.TaskRepository
	groupRepo repository.GroupRepository
}

func NewTaskService(taskRepo repository.TaskRepository, groupRepo repository.GroupRepository) *TaskService {
	return &TaskService{taskRepo: taskRepo, groupRepo: groupRepo}
}

type CreateTaskRequest struct {
	Title       string  `json:"title" validate:"required,min=1,max=200"`
	Description string  `json:"description" validate:"max=2000"`
	Type        string  `json:"type" validate:"required"`
	ResourceURL *string `json:"resource_url,omitempty" validate:"omitempty,url"`
}

func (s *TaskService) CreateTask(ctx context.Context, userID, groupID string, req CreateTaskRequest) (*model.Task, error) {
	if err := validate.Struct(req); err != nil {
		return nil, err
	}

	taskType := model.TaskType(req.Type)
	if !taskType.Valid() {
		return nil, common.Errorf("unknown task type %q: %w", req.Type, common.ErrBadRequest)
	}
	// Problem and form tasks are only useful with something to link to.
	if taskType != model.TaskTypeGeneral && req.ResourceURL == nil {
		return nil, common.Errorf("resource_url is required for %s tasks: %w", taskType, common.ErrBadRequest)
	}

	isMember, err := s.groupRepo.IsMember(ctx, groupID, userID)
	if err != nil {
		return nil, err
	}
	if !isMember {
		return nil, common.Errorf("not a member of this group: %w", common.ErrForbidden)
	}

	task := &model.Task{
		ID:          uuid.NewString(),
		GroupID:     groupID,
		Title:       req.Title,
		Description: req.Description,
		Type:        taskType,
		ResourceURL: req.ResourceURL,
		CreatedByID: userID,
	}
	if err := s.taskRepo.CreateTask(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

func (s *TaskService) ListGroupTasks(ctx context.Context, userID, groupID string) ([]model.Task, error) {
	isMember, err := s.groupRepo.IsMember(ctx, groupID, userID)
	if err != nil {
		return nil, err
	}
	if !isMember {
		return nil, common.Errorf("not a member of this group: %w", common.ErrForbidden)
	}
	return s.taskRepo.ListTasksByGroup(ctx, groupID)
}
