package service

import (
	"context"
	"database/sql"

	"studyhub/internal/common"
	"studyhub/internal/common/validate"
	"studyhub/internal/domain/model"
	"studyhub/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
)

type GroupService struct {
	groupRepo repository.GroupRepository
	db        *sql.DB // For transactions
}

func NewGroupService(groupRepo repository.GroupRepository, db *sql.DB) *GroupService {
	return &GroupService{groupRepo: groupRepo, db: db}
}

type CreateGroupRequest struct {
	Name        string `json:"name" validate:"required,min=3,max=80"`
	Description string `json:"description" validate:"max=500"`
}

func (s *GroupService) CreateGroup(ctx context.Context, userID string, req CreateGroupRequest) (*model.Group, error) {
	if err := validate.Struct(req); err != nil {
		return nil, err
	}

	group := &model.Group{
		ID:          uuid.NewString(),
		Name:        req.Name,
		Slug:        slug.Make(req.Name),
		Description: req.Description,
		CreatedByID: userID,
	}

	// Group row and creator's admin membership land atomically.
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, common.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := s.groupRepo.CreateGroup(ctx, tx, group); err != nil {
		return nil, err
	}

	membership := &model.Membership{
		ID:      uuid.NewString(),
		GroupID: group.ID,
		UserID:  userID,
		IsAdmin: true,
	}
	if err := s.groupRepo.AddMember(ctx, tx, membership); err != nil {
		return nil, common.Errorf("failed to add creator membership: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, common.Errorf("failed to commit transaction: %w", err)
	}

	group.MemberCount = 1
	return group, nil
}

func (s *GroupService) GetGroup(ctx context.Context, groupID string) (*model.Group, error) {
	return s.groupRepo.FindGroupByID(ctx, groupID)
}

func (s *GroupService) ListGroups(ctx context.Context, page, pageSize int) ([]model.Group, int, error) {
	limit := pageSize
	offset := (page - 1) * pageSize
	if offset < 0 {
		offset = 0
	}
	return s.groupRepo.ListGroups(ctx, limit, offset)
}

func (s *GroupService) JoinGroup(ctx context.Context, userID, groupID string) (*model.Membership, error) {
	if _, err := s.groupRepo.FindGroupByID(ctx, groupID); err != nil {
		return nil, err
	}

	membership := &model.Membership{
		ID:      uuid.NewString(),
		GroupID: groupID,
		UserID:  userID,
		IsAdmin: false,
	}
	if err := s.groupRepo.AddMember(ctx, nil, membership); err != nil {
		return nil, err
	}
	return membership, nil
}

func (s *GroupService) LeaveGroup(ctx context.Context, userID, groupID string) error {
	return s.groupRepo.RemoveMember(ctx, groupID, userID)
}

func (s *GroupService) ListMembers(ctx context.Context, userID, groupID string) ([]model.GroupMember, error) {
	isMember, err := s.groupRepo.IsMember(ctx, groupID, userID)
	if err != nil {
		return nil, err
	}
	if !isMember {
		return nil, common.Errorf("not a member of this group: %w", common.ErrForbidden)
	}
	return s.groupRepo.ListMembers(ctx, groupID)
}

// DeleteGroup removes the group and everything that hangs off it. The whole
// fan-out (submissions, tasks, messages, memberships, group) is one
// transaction; either all of it goes or none of it does.
func (s *GroupService) DeleteGroup(ctx context.Context, userID, groupID string) error {
	isAdmin, err := s.groupRepo.IsAdmin(ctx, groupID, userID)
	if err != nil {
		return err
	}
	if !isAdmin {
		return common.Errorf("only group admins can delete a group: %w", common.ErrForbidden)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return common.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := s.groupRepo.DeleteGroupCascade(ctx, tx, groupID); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return common.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
