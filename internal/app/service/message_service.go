package service

import (
	"context"
	"time"

	"studyhub/internal/common"
	"studyhub/internal/common/validate"
	"studyhub/internal/domain/model"
	"studyhub/internal/domain/repository"

	"github.com/google/uuid"
)

const (
	defaultMessagePageSize = 50
	maxMessagePageSize     = 200
)

type MessageService struct {
	messageRepo repository.MessageRepository
	groupRepo   repository.GroupRepository
}

func NewMessageService(messageRepo repository.MessageRepository, groupRepo repository.GroupRepository) *MessageService {
	return &MessageService{messageRepo: messageRepo, groupRepo: groupRepo}
}

type PostMessageRequest struct {
	Body string `json:"body" validate:"required,min=1,max=2000"`
}

func (s *MessageService) PostMessage(ctx context.Context, userID, groupID string, req PostMessageRequest) (*model.Message, error) {
	if err := validate.Struct(req); err != nil {
		return nil, err
	}

	isMember, err := s.groupRepo.IsMember(ctx, groupID, userID)
	if err != nil {
		return nil, err
	}
	if !isMember {
		return nil, common.Errorf("not a member of this group: %w", common.ErrForbidden)
	}

	msg := &model.Message{
		ID:      uuid.NewString(),
		GroupID: groupID,
		UserID:  userID,
		Body:    req.Body,
	}
	if err := s.messageRepo.CreateMessage(ctx, msg); err != nil {
		return nil, err
	}
	return msg, nil
}

// ListMessages is the polling read: everything after the client's last-seen
// timestamp, oldest first.
func (s *MessageService) ListMessages(ctx context.Context, userID, groupID string, after time.Time, limit int) ([]model.Message, error) {
	isMember, err := s.groupRepo.IsMember(ctx, groupID, userID)
	if err != nil {
		return nil, err
	}
	if !isMember {
		return nil, common.Errorf("not a member of this group: %w", common.ErrForbidden)
	}

	if limit <= 0 {
		limit = defaultMessagePageSize
	}
	if limit > maxMessagePageSize {
		limit = maxMessagePageSize
	}
	return s.messageRepo.ListByGroupAfter(ctx, groupID, after, limit)
}
