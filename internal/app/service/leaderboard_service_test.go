package service

import (
	"context"
	"testing"
	"time"

	"studyhub/internal/domain/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func newLeaderboardFixture(opts LeaderboardOptions) (*LeaderboardService, *fakeTaskRepo, *fakeSubmissionRepo, *fakeUserRepo, *fakeGroupRepo) {
	taskRepo := newFakeTaskRepo()
	subRepo := &fakeSubmissionRepo{}
	userRepo := newFakeUserRepo()
	groupRepo := newFakeGroupRepo(&model.Group{ID: "g1", Name: "Algorithms"})
	svc := NewLeaderboardService(taskRepo, subRepo, userRepo, groupRepo, opts)
	return svc, taskRepo, subRepo, userRepo, groupRepo
}

func TestGroupLeaderboardNoTasksShortCircuits(t *testing.T) {
	svc, _, subRepo, _, _ := newLeaderboardFixture(LeaderboardOptions{DefaultScore: 10})

	entries, err := svc.GroupLeaderboard(context.Background(), "g1", model.TimeframeAll)
	require.NoError(t, err)
	assert.Empty(t, entries)
	assert.Equal(t, 0, subRepo.listCompletedCalls, "no submission fetch may happen for a task-less group")
}

func TestGroupLeaderboardSumsCompletedOnly(t *testing.T) {
	svc, taskRepo, subRepo, userRepo, _ := newLeaderboardFixture(LeaderboardOptions{DefaultScore: 10})
	taskRepo.CreateTask(context.Background(), &model.Task{ID: "t1", GroupID: "g1"})
	taskRepo.CreateTask(context.Background(), &model.Task{ID: "t2", GroupID: "g1"})
	userRepo.Create(context.Background(), &model.User{ID: "alice", Username: "alice"})
	userRepo.Create(context.Background(), &model.User{ID: "bob", Username: "bob"})

	now := time.Now()
	subRepo.submissions = []model.Submission{
		{TaskID: "t1", UserID: "alice", Status: model.SubmissionCompleted, Score: intPtr(30), SubmittedAt: now},
		{TaskID: "t2", UserID: "alice", Status: model.SubmissionCompleted, Score: intPtr(20), SubmittedAt: now},
		{TaskID: "t1", UserID: "bob", Status: model.SubmissionCompleted, Score: intPtr(15), SubmittedAt: now},
		// Pending and failed must not count, whatever their score says.
		{TaskID: "t2", UserID: "bob", Status: model.SubmissionPending, Score: intPtr(999), SubmittedAt: now},
		{TaskID: "t1", UserID: "bob", Status: model.SubmissionFailed, Score: intPtr(999), SubmittedAt: now},
	}

	entries, err := svc.GroupLeaderboard(context.Background(), "g1", model.TimeframeAll)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, model.LeaderboardEntry{Rank: 1, UserID: "alice", Username: "alice", Score: 50}, entries[0])
	assert.Equal(t, model.LeaderboardEntry{Rank: 2, UserID: "bob", Username: "bob", Score: 15}, entries[1])
}

func TestGroupLeaderboardOrderNonIncreasing(t *testing.T) {
	svc, taskRepo, subRepo, userRepo, _ := newLeaderboardFixture(LeaderboardOptions{DefaultScore: 10})
	taskRepo.CreateTask(context.Background(), &model.Task{ID: "t1", GroupID: "g1"})

	now := time.Now()
	for i, id := range []string{"u1", "u2", "u3", "u4"} {
		userRepo.Create(context.Background(), &model.User{ID: id, Username: id})
		subRepo.submissions = append(subRepo.submissions, model.Submission{
			TaskID: "t1", UserID: id, Status: model.SubmissionCompleted,
			Score: intPtr((i * 7) % 20), SubmittedAt: now,
		})
	}

	entries, err := svc.GroupLeaderboard(context.Background(), "g1", model.TimeframeAll)
	require.NoError(t, err)
	require.Len(t, entries, 4)
	for i := 1; i < len(entries); i++ {
		assert.GreaterOrEqual(t, entries[i-1].Score, entries[i].Score)
		assert.Equal(t, i+1, entries[i].Rank)
	}
}

func TestGroupLeaderboardNilScoreUsesDefault(t *testing.T) {
	svc, taskRepo, subRepo, userRepo, _ := newLeaderboardFixture(LeaderboardOptions{DefaultScore: 10})
	taskRepo.CreateTask(context.Background(), &model.Task{ID: "t1", GroupID: "g1"})
	userRepo.Create(context.Background(), &model.User{ID: "alice", Username: "alice"})

	subRepo.submissions = []model.Submission{
		{TaskID: "t1", UserID: "alice", Status: model.SubmissionCompleted, Score: intPtr(10), SubmittedAt: time.Now()},
		{TaskID: "t1", UserID: "alice", Status: model.SubmissionCompleted, Score: nil, SubmittedAt: time.Now()},
	}

	entries, err := svc.GroupLeaderboard(context.Background(), "g1", model.TimeframeAll)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, 20, entries[0].Score)
}

func TestGroupLeaderboardWeeklyWindowBoundary(t *testing.T) {
	svc, taskRepo, subRepo, userRepo, _ := newLeaderboardFixture(LeaderboardOptions{DefaultScore: 10})
	taskRepo.CreateTask(context.Background(), &model.Task{ID: "t1", GroupID: "g1"})
	userRepo.Create(context.Background(), &model.User{ID: "alice", Username: "alice"})

	fixed := time.Date(2025, 3, 15, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return fixed }

	subRepo.submissions = []model.Submission{
		{TaskID: "t1", UserID: "alice", Status: model.SubmissionCompleted, Score: intPtr(5), SubmittedAt: fixed.AddDate(0, 0, -8)},
		{TaskID: "t1", UserID: "alice", Status: model.SubmissionCompleted, Score: intPtr(3), SubmittedAt: fixed.AddDate(0, 0, -6)},
	}

	entries, err := svc.GroupLeaderboard(context.Background(), "g1", model.TimeframeWeekly)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, 3, entries[0].Score, "only the 6-day-old submission is inside the weekly window")
	assert.Equal(t, fixed.AddDate(0, 0, -7), subRepo.lastSince)

	// The all timeframe has no lower bound and counts both.
	entries, err = svc.GroupLeaderboard(context.Background(), "g1", model.TimeframeAll)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, 8, entries[0].Score)
	assert.True(t, subRepo.lastSince.IsZero())
}

func TestGroupLeaderboardZeroScoreMembers(t *testing.T) {
	ctx := context.Background()

	svc, taskRepo, subRepo, userRepo, groupRepo := newLeaderboardFixture(LeaderboardOptions{DefaultScore: 10, IncludeZeroScoreMembers: true})
	taskRepo.CreateTask(ctx, &model.Task{ID: "t1", GroupID: "g1"})
	userRepo.Create(ctx, &model.User{ID: "alice", Username: "alice"})
	userRepo.Create(ctx, &model.User{ID: "bob", Username: "bob"})
	groupRepo.AddMember(ctx, nil, &model.Membership{GroupID: "g1", UserID: "alice"})
	groupRepo.AddMember(ctx, nil, &model.Membership{GroupID: "g1", UserID: "bob"})

	subRepo.submissions = []model.Submission{
		{TaskID: "t1", UserID: "alice", Status: model.SubmissionCompleted, Score: intPtr(7), SubmittedAt: time.Now()},
	}

	entries, err := svc.GroupLeaderboard(ctx, "g1", model.TimeframeAll)
	require.NoError(t, err)
	require.Len(t, entries, 2, "bob appears at zero when the flag is on")
	assert.Equal(t, "alice", entries[0].UserID)
	assert.Equal(t, 7, entries[0].Score)
	assert.Equal(t, "bob", entries[1].UserID)
	assert.Equal(t, 0, entries[1].Score)

	// Flag off: members without completed submissions are omitted.
	svc2, taskRepo2, subRepo2, userRepo2, groupRepo2 := newLeaderboardFixture(LeaderboardOptions{DefaultScore: 10})
	taskRepo2.CreateTask(ctx, &model.Task{ID: "t1", GroupID: "g1"})
	userRepo2.Create(ctx, &model.User{ID: "alice", Username: "alice"})
	groupRepo2.AddMember(ctx, nil, &model.Membership{GroupID: "g1", UserID: "alice"})
	groupRepo2.AddMember(ctx, nil, &model.Membership{GroupID: "g1", UserID: "bob"})
	subRepo2.submissions = subRepo.submissions

	entries, err = svc2.GroupLeaderboard(ctx, "g1", model.TimeframeAll)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "alice", entries[0].UserID)
}
