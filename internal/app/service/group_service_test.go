package service

import (
	"context"
	"testing"

	"studyhub/internal/common"
	"studyhub/internal/domain/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJoinGroupDuplicateConflicts(t *testing.T) {
	ctx := context.Background()
	groupRepo := newFakeGroupRepo(&model.Group{ID: "g1", Name: "Algorithms"})
	svc := NewGroupService(groupRepo, nil)

	m, err := svc.JoinGroup(ctx, "u1", "g1")
	require.NoError(t, err)
	assert.Equal(t, "g1", m.GroupID)
	assert.False(t, m.IsAdmin)

	_, err = svc.JoinGroup(ctx, "u1", "g1")
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrConflict, "a second join of the same group must not create a second membership")
}

func TestJoinGroupUnknownGroup(t *testing.T) {
	groupRepo := newFakeGroupRepo()
	svc := NewGroupService(groupRepo, nil)

	_, err := svc.JoinGroup(context.Background(), "u1", "nope")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestListMembersRequiresMembership(t *testing.T) {
	ctx := context.Background()
	groupRepo := newFakeGroupRepo(&model.Group{ID: "g1"})
	groupRepo.AddMember(ctx, nil, &model.Membership{GroupID: "g1", UserID: "member"})
	svc := NewGroupService(groupRepo, nil)

	_, err := svc.ListMembers(ctx, "outsider", "g1")
	assert.ErrorIs(t, err, common.ErrForbidden)

	members, err := svc.ListMembers(ctx, "member", "g1")
	require.NoError(t, err)
	assert.Len(t, members, 1)
}

func TestDeleteGroupRequiresAdmin(t *testing.T) {
	ctx := context.Background()
	groupRepo := newFakeGroupRepo(&model.Group{ID: "g1"})
	groupRepo.AddMember(ctx, nil, &model.Membership{GroupID: "g1", UserID: "plain"})
	svc := NewGroupService(groupRepo, nil)

	err := svc.DeleteGroup(ctx, "plain", "g1")
	assert.ErrorIs(t, err, common.ErrForbidden)
}
