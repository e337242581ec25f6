package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"studyhub/internal/common"
	"studyhub/internal/domain/model"
	"studyhub/internal/domain/repository"
	"studyhub/internal/platform/cache"
	"studyhub/internal/platform/practice"

	"github.com/google/uuid"
)

type VerificationService struct {
	userRepo  repository.UserRepository
	taskRepo  repository.TaskRepository
	verifRepo repository.VerificationRepository
	client    practice.Client
	locker    cache.Locker

	lockTTL     time.Duration
	recentLimit int
}

func NewVerificationService(
	userRepo repository.UserRepository,
	taskRepo repository.TaskRepository,
	verifRepo repository.VerificationRepository,
	client practice.Client,
	locker cache.Locker,
	lockTTL time.Duration,
	recentLimit int,
) *VerificationService {
	return &VerificationService{
		userRepo:    userRepo,
		taskRepo:    taskRepo,
		verifRepo:   verifRepo,
		client:      client,
		locker:      locker,
		lockTTL:     lockTTL,
		recentLimit: recentLimit,
	}
}

// VerifyTaskSolution decides whether the caller has an accepted solution on
// the practice site for the problem a task links to. Failures below the
// transport layer come back as a typed result, never a raw error: the UI
// must branch on the reason.
//
// Verification requires BOTH the lifetime solved flag AND an accepted entry
// for the slug inside the recent-history window. Lifetime alone could be
// stale history; recent alone could miss a solve that predates the window.
// The conjunction is the anti-false-positive heuristic, not an accident.
func (s *VerificationService) VerifyTaskSolution(ctx context.Context, userID, taskID string) (*model.VerificationResult, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.PracticeHandle == nil || *user.PracticeHandle == "" {
		return &model.VerificationResult{
			Verified: false,
			Reason:   model.VerifyHandleMissing,
			Message:  "Set your practice-site handle in your profile first.",
		}, nil
	}
	handle := *user.PracticeHandle

	task, err := s.taskRepo.FindTaskByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if task.Type != model.TaskTypeExternalProblem {
		return nil, common.Errorf("task %s is not an external-problem task: %w", taskID, common.ErrBadRequest)
	}

	resourceURL := ""
	if task.ResourceURL != nil {
		resourceURL = *task.ResourceURL
	}
	problemSlug, err := practice.ParseProblemSlug(resourceURL)
	if err != nil {
		// Fail fast; no network call happens for an unusable link.
		return &model.VerificationResult{
			Verified: false,
			Reason:   model.VerifyMalformedLink,
			Message:  "The task's resource link is not a valid practice-problem link.",
		}, nil
	}

	// One verification in flight per (task, user); the lock is the
	// "checking" state and expires on its own if we die mid-check.
	lockKey := fmt.Sprintf("verify:%s:%s", taskID, userID)
	acquired, release, err := s.locker.Acquire(ctx, lockKey, s.lockTTL)
	if err != nil {
		return nil, common.Errorf("verification lock unavailable: %w", common.ErrServiceUnavailable)
	}
	if !acquired {
		return &model.VerificationResult{
			Verified: false,
			Reason:   model.VerifyInProgress,
			Message:  "A verification for this task is already running.",
		}, nil
	}
	defer release()

	attempt := &model.VerificationAttempt{
		ID:          uuid.NewString(),
		TaskID:      taskID,
		UserID:      userID,
		ProblemSlug: problemSlug,
		Status:      model.AttemptChecking,
	}
	if err := s.verifRepo.CreateAttempt(ctx, attempt); err != nil {
		return nil, err
	}

	status, err := s.client.FetchProblemStatus(ctx, handle, problemSlug)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return s.fail(ctx, attempt.ID, model.VerifyProblemNotFound,
				"Problem "+problemSlug+" was not found on the practice site."), nil
		}
		log.Printf("WARN: practice status fetch failed for %s/%s: %v", handle, problemSlug, err)
		return s.fail(ctx, attempt.ID, model.VerifyRemoteError,
			"The practice site could not be reached. Try again in a moment."), nil
	}

	recent, err := s.client.FetchRecentSubmissions(ctx, handle, s.recentLimit)
	if err != nil {
		log.Printf("WARN: practice history fetch failed for %s: %v", handle, err)
		return s.fail(ctx, attempt.ID, model.VerifyRemoteError,
			"The practice site could not be reached. Try again in a moment."), nil
	}

	matches := []model.AcceptedRecord{}
	for _, sub := range recent {
		if sub.ProblemSlug == problemSlug && sub.Outcome == practice.OutcomeAccepted {
			matches = append(matches, model.AcceptedRecord{
				ID:          sub.ID,
				SubmittedAt: sub.SubmittedAt(),
				Language:    sub.Language,
			})
		}
	}

	if !status.Solved || len(matches) == 0 {
		return s.fail(ctx, attempt.ID, model.VerifyNotVerified,
			"No verified accepted solution found for "+problemSlug+". Solve it (again) and retry."), nil
	}

	if err := s.verifRepo.FinishAttempt(ctx, attempt.ID, model.AttemptSuccess, nil); err != nil {
		log.Printf("WARN: failed to record verification success for attempt %s: %v", attempt.ID, err)
	}

	return &model.VerificationResult{
		Verified:          true,
		Reason:            model.VerifyOK,
		Message:           "Verified: accepted solution for " + status.Problem.Title + ".",
		ProblemTitle:      status.Problem.Title,
		ProblemDifficulty: status.Problem.Difficulty,
		Matches:           matches,
	}, nil
}

func (s *VerificationService) fail(ctx context.Context, attemptID string, reason model.VerificationReason, message string) *model.VerificationResult {
	reasonStr := string(reason)
	if err := s.verifRepo.FinishAttempt(ctx, attemptID, model.AttemptError, &reasonStr); err != nil {
		log.Printf("WARN: failed to record verification failure for attempt %s: %v", attemptID, err)
	}
	return &model.VerificationResult{
		Verified: false,
		Reason:   reason,
		Message:  message,
	}
}
