package service

import (
	"context"
	"database/sql"
	"time"

	"studyhub/internal/common"
	"studyhub/internal/domain/model"
	"studyhub/internal/platform/practice"
)

// In-memory fakes for the repository and client interfaces. Call counters
// exist where a test needs to assert a call did NOT happen.

type fakeUserRepo struct {
	users map[string]*model.User
}

func newFakeUserRepo(users ...*model.User) *fakeUserRepo {
	m := make(map[string]*model.User)
	for _, u := range users {
		m[u.ID] = u
	}
	return &fakeUserRepo{users: m}
}

func (f *fakeUserRepo) Create(ctx context.Context, user *model.User) error {
	f.users[user.ID] = user
	return nil
}

func (f *fakeUserRepo) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, common.ErrNotFound
}

func (f *fakeUserRepo) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	for _, u := range f.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, common.ErrNotFound
}

func (f *fakeUserRepo) FindByID(ctx context.Context, id string) (*model.User, error) {
	if u, ok := f.users[id]; ok {
		return u, nil
	}
	return nil, common.ErrNotFound
}

func (f *fakeUserRepo) FindByIDs(ctx context.Context, ids []string) ([]model.User, error) {
	out := []model.User{}
	for _, id := range ids {
		if u, ok := f.users[id]; ok {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (f *fakeUserRepo) UpdateProfile(ctx context.Context, user *model.User) error {
	f.users[user.ID] = user
	return nil
}

type fakeTaskRepo struct {
	tasks       map[string]*model.Task
	idsByGroup  map[string][]string
	listIDCalls int
}

func newFakeTaskRepo(tasks ...*model.Task) *fakeTaskRepo {
	f := &fakeTaskRepo{
		tasks:      make(map[string]*model.Task),
		idsByGroup: make(map[string][]string),
	}
	for _, t := range tasks {
		f.tasks[t.ID] = t
		f.idsByGroup[t.GroupID] = append(f.idsByGroup[t.GroupID], t.ID)
	}
	return f
}

func (f *fakeTaskRepo) CreateTask(ctx context.Context, t *model.Task) error {
	f.tasks[t.ID] = t
	f.idsByGroup[t.GroupID] = append(f.idsByGroup[t.GroupID], t.ID)
	return nil
}

func (f *fakeTaskRepo) FindTaskByID(ctx context.Context, id string) (*model.Task, error) {
	if t, ok := f.tasks[id]; ok {
		return t, nil
	}
	return nil, common.ErrNotFound
}

func (f *fakeTaskRepo) ListTasksByGroup(ctx context.Context, groupID string) ([]model.Task, error) {
	out := []model.Task{}
	for _, id := range f.idsByGroup[groupID] {
		out = append(out, *f.tasks[id])
	}
	return out, nil
}

func (f *fakeTaskRepo) ListTaskIDsByGroup(ctx context.Context, groupID string) ([]string, error) {
	f.listIDCalls++
	return f.idsByGroup[groupID], nil
}

type fakeSubmissionRepo struct {
	submissions []model.Submission

	listCompletedCalls int
	lastSince          time.Time
}

func (f *fakeSubmissionRepo) CreateSubmission(ctx context.Context, s *model.Submission) error {
	f.submissions = append(f.submissions, *s)
	return nil
}

func (f *fakeSubmissionRepo) ListByTask(ctx context.Context, taskID string) ([]model.Submission, error) {
	out := []model.Submission{}
	for _, s := range f.submissions {
		if s.TaskID == taskID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeSubmissionRepo) ListByUser(ctx context.Context, userID string) ([]model.Submission, error) {
	out := []model.Submission{}
	for _, s := range f.submissions {
		if s.UserID == userID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeSubmissionRepo) ListCompletedByTaskIDs(ctx context.Context, taskIDs []string, since time.Time) ([]model.Submission, error) {
	f.listCompletedCalls++
	f.lastSince = since

	inSet := make(map[string]bool, len(taskIDs))
	for _, id := range taskIDs {
		inSet[id] = true
	}
	out := []model.Submission{}
	for _, s := range f.submissions {
		if !inSet[s.TaskID] || s.Status != model.SubmissionCompleted {
			continue
		}
		if !since.IsZero() && s.SubmittedAt.Before(since) {
			continue
		}
		out = append(out, s)
	}
	return out, nil
}

type fakeGroupRepo struct {
	groups  map[string]*model.Group
	members map[string]map[string]bool // groupID -> userID -> isAdmin
}

func newFakeGroupRepo(groups ...*model.Group) *fakeGroupRepo {
	f := &fakeGroupRepo{
		groups:  make(map[string]*model.Group),
		members: make(map[string]map[string]bool),
	}
	for _, g := range groups {
		f.groups[g.ID] = g
		f.members[g.ID] = make(map[string]bool)
	}
	return f
}

func (f *fakeGroupRepo) CreateGroup(ctx context.Context, tx *sql.Tx, g *model.Group) error {
	f.groups[g.ID] = g
	f.members[g.ID] = make(map[string]bool)
	return nil
}

func (f *fakeGroupRepo) FindGroupByID(ctx context.Context, id string) (*model.Group, error) {
	if g, ok := f.groups[id]; ok {
		return g, nil
	}
	return nil, common.ErrNotFound
}

func (f *fakeGroupRepo) ListGroups(ctx context.Context, limit, offset int) ([]model.Group, int, error) {
	out := []model.Group{}
	for _, g := range f.groups {
		out = append(out, *g)
	}
	return out, len(out), nil
}

func (f *fakeGroupRepo) AddMember(ctx context.Context, tx *sql.Tx, m *model.Membership) error {
	byUser, ok := f.members[m.GroupID]
	if !ok {
		byUser = make(map[string]bool)
		f.members[m.GroupID] = byUser
	}
	if _, exists := byUser[m.UserID]; exists {
		return common.ErrConflict
	}
	byUser[m.UserID] = m.IsAdmin
	return nil
}

func (f *fakeGroupRepo) RemoveMember(ctx context.Context, groupID, userID string) error {
	delete(f.members[groupID], userID)
	return nil
}

func (f *fakeGroupRepo) IsMember(ctx context.Context, groupID, userID string) (bool, error) {
	_, ok := f.members[groupID][userID]
	return ok, nil
}

func (f *fakeGroupRepo) IsAdmin(ctx context.Context, groupID, userID string) (bool, error) {
	return f.members[groupID][userID], nil
}

func (f *fakeGroupRepo) ListMembers(ctx context.Context, groupID string) ([]model.GroupMember, error) {
	out := []model.GroupMember{}
	for userID, isAdmin := range f.members[groupID] {
		out = append(out, model.GroupMember{UserID: userID, IsAdmin: isAdmin})
	}
	return out, nil
}

func (f *fakeGroupRepo) DeleteGroupCascade(ctx context.Context, tx *sql.Tx, groupID string) error {
	delete(f.groups, groupID)
	delete(f.members, groupID)
	return nil
}

type fakeVerificationRepo struct {
	attempts map[string]*model.VerificationAttempt
}

func newFakeVerificationRepo() *fakeVerificationRepo {
	return &fakeVerificationRepo{attempts: make(map[string]*model.VerificationAttempt)}
}

func (f *fakeVerificationRepo) CreateAttempt(ctx context.Context, a *model.VerificationAttempt) error {
	cp := *a
	f.attempts[a.ID] = &cp
	return nil
}

func (f *fakeVerificationRepo) FinishAttempt(ctx context.Context, id, status string, reason *string) error {
	if a, ok := f.attempts[id]; ok {
		a.Status = status
		a.Reason = reason
	}
	return nil
}

func (f *fakeVerificationRepo) FailStuckAttempts(ctx context.Context, cutoff time.Time) (int64, error) {
	var n int64
	for _, a := range f.attempts {
		if a.Status == model.AttemptChecking && a.CreatedAt.Before(cutoff) {
			a.Status = model.AttemptError
			n++
		}
	}
	return n, nil
}

// single returns the only stored attempt; nil if there is not exactly one.
func (f *fakeVerificationRepo) single() *model.VerificationAttempt {
	if len(f.attempts) != 1 {
		return nil
	}
	for _, a := range f.attempts {
		return a
	}
	return nil
}

type fakePracticeClient struct {
	status    *practice.ProblemStatus
	statusErr error
	recent    []practice.RecentSubmission
	recentErr error

	statusCalls int
	recentCalls int
}

func (f *fakePracticeClient) FetchProblemStatus(ctx context.Context, handle, slug string) (*practice.ProblemStatus, error) {
	f.statusCalls++
	if f.statusErr != nil {
		return nil, f.statusErr
	}
	return f.status, nil
}

func (f *fakePracticeClient) FetchRecentSubmissions(ctx context.Context, handle string, limit int) ([]practice.RecentSubmission, error) {
	f.recentCalls++
	if f.recentErr != nil {
		return nil, f.recentErr
	}
	return f.recent, nil
}

type fakeLocker struct {
	held     bool
	err      error
	releases int
}

func (f *fakeLocker) Acquire(ctx context.Context, key string, ttl time.Duration) (bool, func(), error) {
	if f.err != nil {
		return false, nil, f.err
	}
	if f.held {
		return false, nil, nil
	}
	return true, func() { f.releases++ }, nil
}
