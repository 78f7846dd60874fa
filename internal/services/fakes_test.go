package services

import (
	"context"
	"sort"
	"strings"
	"time"

	"habitboard/internal/models"
	"habitboard/internal/repositories"
)

// In-memory repository fakes. They mirror the relational constraints that
// matter for the business rules: unique users, unique share pairs.

type fakeUserRepo struct {
	users  map[int64]*models.User
	nextID int64
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[int64]*models.User{}}
}

func (r *fakeUserRepo) Create(_ context.Context, user *models.User) error {
	for _, u := range r.users {
		if strings.EqualFold(u.Email, user.Email) || u.Username == user.Username {
			return repositories.ErrDuplicateUser
		}
	}
	r.nextID++
	user.ID = r.nextID
	user.CreatedAt = time.Now()
	cp := *user
	r.users[user.ID] = &cp
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id int64) (*models.User, error) {
	if u, ok := r.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range r.users {
		if strings.EqualFold(u.Email, email) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) GetByUsername(_ context.Context, username string) (*models.User, error) {
	for _, u := range r.users {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) List(_ context.Context) ([]*models.User, error) {
	ids := make([]int64, 0, len(r.users))
	for id := range r.users {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	out := make([]*models.User, 0, len(ids))
	for _, id := range ids {
		cp := *r.users[id]
		out = append(out, &cp)
	}
	return out, nil
}

func (r *fakeUserRepo) UpdateRefresh(_ context.Context, userID int64, token string, expiresAt time.Time) error {
	if u, ok := r.users[userID]; ok {
		u.RefreshToken = &token
		u.RefreshExpiresAt = &expiresAt
		u.RefreshRevoked = false
	}
	return nil
}

func (r *fakeUserRepo) RotateRefresh(_ context.Context, oldToken, newToken string, newExpiresAt time.Time) (*models.User, error) {
	for _, u := range r.users {
		if u.RefreshToken != nil && *u.RefreshToken == oldToken && !u.RefreshRevoked {
			u.RefreshToken = &newToken
			u.RefreshExpiresAt = &newExpiresAt
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) ClearRefresh(_ context.Context, userID int64) error {
	if u, ok := r.users[userID]; ok {
		u.RefreshToken = nil
		u.RefreshExpiresAt = nil
		u.RefreshRevoked = false
	}
	return nil
}

func (r *fakeUserRepo) GetByRefreshToken(_ context.Context, token string) (*models.User, error) {
	for _, u := range r.users {
		if u.RefreshToken != nil && *u.RefreshToken == token {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) UpdateTelegramChat(_ context.Context, userID int64, chatID *int64) error {
	if u, ok := r.users[userID]; ok {
		u.TelegramChatID = chatID
	}
	return nil
}

type fakeTaskRepo struct {
	tasks  map[int64]*models.Task
	nextID int64
}

func newFakeTaskRepo() *fakeTaskRepo {
	return &fakeTaskRepo{tasks: map[int64]*models.Task{}}
}

func (r *fakeTaskRepo) Store(_ context.Context, task *models.Task) error {
	r.nextID++
	task.ID = r.nextID
	task.CreatedAt = time.Now()
	cp := *task
	r.tasks[task.ID] = &cp
	return nil
}

func (r *fakeTaskRepo) FindByID(_ context.Context, id int64) (*models.Task, error) {
	if t, ok := r.tasks[id]; ok {
		cp := *t
		return &cp, nil
	}
	return nil, nil
}

func (r *fakeTaskRepo) FindByOwners(_ context.Context, ownerIDs []int64) ([]models.Task, error) {
	owners := map[int64]bool{}
	for _, id := range ownerIDs {
		owners[id] = true
	}
	var out []models.Task
	for _, t := range r.tasks {
		if owners[t.OwnerID] {
			out = append(out, *t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeTaskRepo) Delete(_ context.Context, id int64) error {
	delete(r.tasks, id)
	return nil
}

type fakeShareRepo struct {
	pairs map[[2]int64]bool
}

func newFakeShareRepo() *fakeShareRepo {
	return &fakeShareRepo{pairs: map[[2]int64]bool{}}
}

func (r *fakeShareRepo) Create(_ context.Context, ownerID, partnerID int64) error {
	key := [2]int64{ownerID, partnerID}
	if r.pairs[key] {
		return repositories.ErrDuplicatePair
	}
	r.pairs[key] = true
	return nil
}

func (r *fakeShareRepo) Exists(_ context.Context, ownerID, partnerID int64) (bool, error) {
	return r.pairs[[2]int64{ownerID, partnerID}], nil
}

func (r *fakeShareRepo) VisibleOwnerIDs(_ context.Context, userID int64) ([]int64, error) {
	owners := []int64{userID}
	for pair := range r.pairs {
		if pair[1] == userID {
			owners = append(owners, pair[0])
		}
	}
	sort.Slice(owners, func(i, j int) bool { return owners[i] < owners[j] })
	return owners, nil
}

func (r *fakeShareRepo) ListViewers(_ context.Context, ownerID int64) ([]models.ShareContact, error) {
	var out []models.ShareContact
	for pair := range r.pairs {
		if pair[0] == ownerID {
			out = append(out, models.ShareContact{UserID: pair[1]})
		}
	}
	return out, nil
}

func (r *fakeShareRepo) ListOwners(_ context.Context, partnerID int64) ([]models.ShareContact, error) {
	var out []models.ShareContact
	for pair := range r.pairs {
		if pair[1] == partnerID {
			out = append(out, models.ShareContact{UserID: pair[0]})
		}
	}
	return out, nil
}

func (r *fakeShareRepo) pairCount() int { return len(r.pairs) }

type fakeSubmissionRepo struct {
	tasks  *fakeTaskRepo // rankings join through tasks, as the SQL does
	subs   []models.Submission
	nextID int64
	clock  time.Time
}

func newFakeSubmissionRepo(tasks *fakeTaskRepo) *fakeSubmissionRepo {
	return &fakeSubmissionRepo{tasks: tasks, clock: time.Now()}
}

func sameDay(a, b time.Time) bool {
	y1, m1, d1 := a.Date()
	y2, m2, d2 := b.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

func (r *fakeSubmissionRepo) Store(_ context.Context, sub *models.Submission) error {
	r.nextID++
	sub.ID = r.nextID
	// strictly increasing timestamps so newest-first ordering is decidable
	r.clock = r.clock.Add(time.Second)
	sub.CreatedAt = r.clock
	r.subs = append(r.subs, *sub)
	return nil
}

func (r *fakeSubmissionRepo) FindByTask(_ context.Context, taskID int64) ([]models.Submission, error) {
	var out []models.Submission
	for _, s := range r.subs {
		if s.TaskID == taskID {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *fakeSubmissionRepo) FindByTasksOnDate(_ context.Context, taskIDs []int64, d time.Time) ([]models.Submission, error) {
	ids := map[int64]bool{}
	for _, id := range taskIDs {
		ids[id] = true
	}
	var out []models.Submission
	for _, s := range r.subs {
		if ids[s.TaskID] && sameDay(s.Date, d) {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *fakeSubmissionRepo) ExistsForTaskOnDate(_ context.Context, taskID int64, d time.Time) (bool, error) {
	for _, s := range r.subs {
		if s.TaskID == taskID && sameDay(s.Date, d) {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeSubmissionRepo) Rankings(_ context.Context, ownerIDs []int64, since time.Time) ([]models.RankingEntry, error) {
	if len(ownerIDs) == 0 {
		return nil, nil
	}
	owners := map[int64]bool{}
	for _, id := range ownerIDs {
		owners[id] = true
	}
	counts := map[int64]int{}
	for _, s := range r.subs {
		if s.Date.Before(since) {
			continue
		}
		// inner join on tasks: the task must still exist and belong to
		// one of the requested owners
		task, ok := r.tasks.tasks[s.TaskID]
		if !ok || !owners[task.OwnerID] {
			continue
		}
		counts[s.UserID]++
	}
	var out []models.RankingEntry
	for userID, n := range counts {
		out = append(out, models.RankingEntry{UserID: userID, Submissions: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Submissions != out[j].Submissions {
			return out[i].Submissions > out[j].Submissions
		}
		return out[i].UserID < out[j].UserID
	})
	return out, nil
}
