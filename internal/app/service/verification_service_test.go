package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"studyhub/internal/common"
	"studyhub/internal/domain/model"
	"studyhub/internal/platform/practice"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

type verifyFixture struct {
	svc       *VerificationService
	userRepo  *fakeUserRepo
	taskRepo  *fakeTaskRepo
	verifRepo *fakeVerificationRepo
	client    *fakePracticeClient
	locker    *fakeLocker
}

func newVerifyFixture() *verifyFixture {
	f := &verifyFixture{
		userRepo:  newFakeUserRepo(),
		taskRepo:  newFakeTaskRepo(),
		verifRepo: newFakeVerificationRepo(),
		client:    &fakePracticeClient{},
		locker:    &fakeLocker{},
	}
	f.userRepo.Create(context.Background(), &model.User{
		ID: "u1", Username: "alice", PracticeHandle: strPtr("alice_cp"),
	})
	f.taskRepo.CreateTask(context.Background(), &model.Task{
		ID: "task1", GroupID: "g1", Type: model.TaskTypeExternalProblem,
		ResourceURL: strPtr("https://practice.example.com/problems/two-sum/"),
	})
	f.svc = NewVerificationService(f.userRepo, f.taskRepo, f.verifRepo, f.client, f.locker, time.Minute, 20)
	return f
}

func (f *verifyFixture) acceptedRecent(slug string) {
	f.client.status = &practice.ProblemStatus{
		Solved:  true,
		Problem: practice.Problem{Slug: slug, Title: "Two Sum", Difficulty: "easy"},
	}
	f.client.recent = []practice.RecentSubmission{
		{ID: "s1", ProblemSlug: slug, Outcome: practice.OutcomeAccepted, EpochSecond: 1700000000, Language: "go"},
		{ID: "s2", ProblemSlug: "other", Outcome: practice.OutcomeAccepted, EpochSecond: 1700000100, Language: "go"},
		{ID: "s3", ProblemSlug: slug, Outcome: "Wrong Answer", EpochSecond: 1700000200, Language: "go"},
	}
}

func TestVerifyHandleMissing(t *testing.T) {
	f := newVerifyFixture()
	f.userRepo.Create(context.Background(), &model.User{ID: "u2", Username: "bob"})

	res, err := f.svc.VerifyTaskSolution(context.Background(), "u2", "task1")
	require.NoError(t, err)
	assert.False(t, res.Verified)
	assert.Equal(t, model.VerifyHandleMissing, res.Reason)
	assert.Equal(t, 0, f.client.statusCalls)
}

func TestVerifyMalformedLinkFailsFast(t *testing.T) {
	f := newVerifyFixture()
	f.taskRepo.CreateTask(context.Background(), &model.Task{
		ID: "task2", GroupID: "g1", Type: model.TaskTypeExternalProblem,
		ResourceURL: strPtr("https://practice.example.com/contests/weekly-42"),
	})

	res, err := f.svc.VerifyTaskSolution(context.Background(), "u1", "task2")
	require.NoError(t, err)
	assert.False(t, res.Verified)
	assert.Equal(t, model.VerifyMalformedLink, res.Reason)
	assert.Equal(t, 0, f.client.statusCalls, "no network call for a rejected link")
	assert.Equal(t, 0, f.client.recentCalls)
	assert.Empty(t, f.verifRepo.attempts, "no attempt row before the link parses")
}

func TestVerifyWrongTaskType(t *testing.T) {
	f := newVerifyFixture()
	f.taskRepo.CreateTask(context.Background(), &model.Task{
		ID: "task3", GroupID: "g1", Type: model.TaskTypeGeneral,
	})

	_, err := f.svc.VerifyTaskSolution(context.Background(), "u1", "task3")
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrBadRequest)
}

func TestVerifyProblemNotFound(t *testing.T) {
	f := newVerifyFixture()
	f.client.statusErr = common.ErrNotFound

	res, err := f.svc.VerifyTaskSolution(context.Background(), "u1", "task1")
	require.NoError(t, err)
	assert.False(t, res.Verified)
	assert.Equal(t, model.VerifyProblemNotFound, res.Reason)

	attempt := f.verifRepo.single()
	require.NotNil(t, attempt)
	assert.Equal(t, model.AttemptError, attempt.Status)
}

func TestVerifyRequiresBothSolvedAndRecentAccepted(t *testing.T) {
	// Lifetime solved but nothing accepted in the recent window.
	f := newVerifyFixture()
	f.client.status = &practice.ProblemStatus{Solved: true, Problem: practice.Problem{Slug: "two-sum"}}
	f.client.recent = []practice.RecentSubmission{
		{ID: "s1", ProblemSlug: "two-sum", Outcome: "Wrong Answer"},
	}

	res, err := f.svc.VerifyTaskSolution(context.Background(), "u1", "task1")
	require.NoError(t, err)
	assert.False(t, res.Verified)
	assert.Equal(t, model.VerifyNotVerified, res.Reason)

	// Recent accepted entry but the lifetime flag is off.
	f = newVerifyFixture()
	f.acceptedRecent("two-sum")
	f.client.status.Solved = false

	res, err = f.svc.VerifyTaskSolution(context.Background(), "u1", "task1")
	require.NoError(t, err)
	assert.False(t, res.Verified)
	assert.Equal(t, model.VerifyNotVerified, res.Reason)
}

func TestVerifySuccess(t *testing.T) {
	f := newVerifyFixture()
	f.acceptedRecent("two-sum")

	res, err := f.svc.VerifyTaskSolution(context.Background(), "u1", "task1")
	require.NoError(t, err)
	assert.True(t, res.Verified)
	assert.Equal(t, model.VerifyOK, res.Reason)
	assert.Equal(t, "Two Sum", res.ProblemTitle)
	assert.Equal(t, "easy", res.ProblemDifficulty)
	require.Len(t, res.Matches, 1, "only accepted entries for the target slug match")
	assert.Equal(t, "s1", res.Matches[0].ID)
	assert.Equal(t, "go", res.Matches[0].Language)

	attempt := f.verifRepo.single()
	require.NotNil(t, attempt)
	assert.Equal(t, model.AttemptSuccess, attempt.Status)
	assert.Equal(t, "two-sum", attempt.ProblemSlug)
	assert.Equal(t, 1, f.locker.releases)
}

func TestVerifyRemoteErrorIsTyped(t *testing.T) {
	f := newVerifyFixture()
	f.client.statusErr = common.Errorf("practice api: %w", common.ErrServiceUnavailable)

	res, err := f.svc.VerifyTaskSolution(context.Background(), "u1", "task1")
	require.NoError(t, err, "transport failures never surface as raw errors")
	assert.False(t, res.Verified)
	assert.Equal(t, model.VerifyRemoteError, res.Reason)

	f = newVerifyFixture()
	f.client.status = &practice.ProblemStatus{Solved: true, Problem: practice.Problem{Slug: "two-sum"}}
	f.client.recentErr = errors.New("connection reset")

	res, err = f.svc.VerifyTaskSolution(context.Background(), "u1", "task1")
	require.NoError(t, err)
	assert.Equal(t, model.VerifyRemoteError, res.Reason)
}

func TestVerifyHeldLockRefusesReentry(t *testing.T) {
	f := newVerifyFixture()
	f.locker.held = true

	res, err := f.svc.VerifyTaskSolution(context.Background(), "u1", "task1")
	require.NoError(t, err)
	assert.False(t, res.Verified)
	assert.Equal(t, model.VerifyInProgress, res.Reason)
	assert.Equal(t, 0, f.client.statusCalls)
	assert.Empty(t, f.verifRepo.attempts)
}

func TestVerifyLockInfrastructureFailure(t *testing.T) {
	f := newVerifyFixture()
	f.locker.err = errors.New("redis down")

	_, err := f.svc.VerifyTaskSolution(context.Background(), "u1", "task1")
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrServiceUnavailable)
}
