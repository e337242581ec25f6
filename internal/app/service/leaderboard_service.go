package service

import (
	"context"
	"sort"
	"time"

	"studyhub/internal/domain/model"
	"studyhub/internal/domain/repository"
)

// LeaderboardOptions carry the two knobs the product has not settled on.
type LeaderboardOptions struct {
	// DefaultScore is the weight of a completed submission without an
	// explicit score.
	DefaultScore int
	// IncludeZeroScoreMembers pre-seeds every group member at score 0
	// instead of omitting users with no completed submissions.
	IncludeZeroScoreMembers bool
}

type LeaderboardService struct {
	taskRepo       repository.TaskRepository
	submissionRepo repository.SubmissionRepository
	userRepo       repository.UserRepository
	groupRepo      repository.GroupRepository
	opts           LeaderboardOptions

	now func() time.Time // injectable for tests
}

func NewLeaderboardService(
	taskRepo repository.TaskRepository,
	subRepo repository.SubmissionRepository,
	userRepo repository.UserRepository,
	groupRepo repository.GroupRepository,
	opts LeaderboardOptions,
) *LeaderboardService {
	return &LeaderboardService{
		taskRepo:       taskRepo,
		submissionRepo: subRepo,
		userRepo:       userRepo,
		groupRepo:      groupRepo,
		opts:           opts,
		now:            time.Now,
	}
}

// GroupLeaderboard ranks group members by their cumulative completed-
// submission score inside the timeframe. Always computed fresh; nothing is
// cached. Any fetch failure aborts the whole computation.
func (s *LeaderboardService) GroupLeaderboard(ctx context.Context, groupID string, tf model.Timeframe) ([]model.LeaderboardEntry, error) {
	taskIDs, err := s.taskRepo.ListTaskIDsByGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	// A group with no tasks has an empty board. Returning here is required
	// correctness, not a shortcut: an empty identifier set must not reach
	// the submission filter, where it would mean "match nothing" at best.
	if len(taskIDs) == 0 {
		return []model.LeaderboardEntry{}, nil
	}

	since := tf.WindowStart(s.now())
	submissions, err := s.submissionRepo.ListCompletedByTaskIDs(ctx, taskIDs, since)
	if err != nil {
		return nil, err
	}

	// Fold into per-user totals, keeping first-seen order for a stable sort.
	totals := make(map[string]int)
	order := []string{}

	if s.opts.IncludeZeroScoreMembers {
		members, err := s.groupRepo.ListMembers(ctx, groupID)
		if err != nil {
			return nil, err
		}
		for _, m := range members {
			totals[m.UserID] = 0
			order = append(order, m.UserID)
		}
	}

	for _, sub := range submissions {
		if sub.Status != model.SubmissionCompleted {
			continue
		}
		score := s.opts.DefaultScore
		if sub.Score != nil {
			score = *sub.Score
		}
		if _, seen := totals[sub.UserID]; !seen {
			order = append(order, sub.UserID)
		}
		totals[sub.UserID] += score
	}

	if len(order) == 0 {
		return []model.LeaderboardEntry{}, nil
	}

	// One batch user fetch instead of a lookup per submission.
	users, err := s.userRepo.FindByIDs(ctx, order)
	if err != nil {
		return nil, err
	}
	usernames := make(map[string]string, len(users))
	for _, u := range users {
		usernames[u.ID] = u.Username
	}

	entries := make([]model.LeaderboardEntry, 0, len(order))
	for _, userID := range order {
		entries = append(entries, model.LeaderboardEntry{
			UserID:   userID,
			Username: usernames[userID],
			Score:    totals[userID],
		})
	}

	// Ties keep insertion order; no tie-break is promised.
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Score > entries[j].Score
	})
	for i := range entries {
		entries[i].Rank = i + 1
	}
	return entries, nil
}
