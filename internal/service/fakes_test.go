package service

import (
	"context"
	"sort"
	"sync"

	"github.com/CampusConnect/notice-service/internal/model"
	"github.com/CampusConnect/notice-service/internal/repository"
	"github.com/CampusConnect/notice-service/internal/repository/postgres"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// memUserRepo and memNoticeRepo are in-memory stand-ins for the pgx repos so
// service behavior can be exercised without a database.

type memUserRepo struct {
	mu    sync.Mutex
	users map[uuid.UUID]model.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: make(map[uuid.UUID]model.User)}
}

func (r *memUserRepo) Create(_ context.Context, user model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[user.ID] = user
	return nil
}

func (r *memUserRepo) FindByID(_ context.Context, id uuid.UUID) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &user, nil
}

func (r *memUserRepo) FindByEmail(_ context.Context, email string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if user.Email == email {
			u := user
			return &u, nil
		}
	}
	return nil, pgx.ErrNoRows
}

type memNoticeRepo struct {
	mu      sync.Mutex
	notices map[uuid.UUID]model.Notice
	viewed  map[uuid.UUID]map[uuid.UUID]bool

	listCalls int
}

func newMemNoticeRepo() *memNoticeRepo {
	return &memNoticeRepo{
		notices: make(map[uuid.UUID]model.Notice),
		viewed:  make(map[uuid.UUID]map[uuid.UUID]bool),
	}
}

func (r *memNoticeRepo) Create(_ context.Context, notice model.Notice) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notices[notice.ID] = notice
	return nil
}

func (r *memNoticeRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Notice, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	notice, ok := r.notices[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &notice, nil
}

func (r *memNoticeRepo) sorted(filter func(model.Notice) bool, newFirst bool) []*model.Notice {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.listCalls++

	var notices []*model.Notice
	for _, n := range r.notices {
		if filter(n) {
			notice := n
			notices = append(notices, &notice)
		}
	}

	sort.SliceStable(notices, func(i, j int) bool {
		if newFirst && notices[i].IsNew != notices[j].IsNew {
			return notices[i].IsNew
		}
		return notices[i].CreatedAt.After(notices[j].CreatedAt)
	})

	return notices
}

func (r *memNoticeRepo) GetActive(_ context.Context) ([]*model.Notice, error) {
	return r.sorted(func(n model.Notice) bool { return !n.IsArchived }, true), nil
}

func (r *memNoticeRepo) GetNew(_ context.Context) ([]*model.Notice, error) {
	return r.sorted(func(n model.Notice) bool { return !n.IsArchived && n.IsNew }, false), nil
}

func (r *memNoticeRepo) GetArchived(_ context.Context) ([]*model.Notice, error) {
	return r.sorted(func(n model.Notice) bool { return n.IsArchived }, false), nil
}

func (r *memNoticeRepo) UpdateByID(_ context.Context, id uuid.UUID, updates map[string]interface{}) (*model.Notice, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	notice, ok := r.notices[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}

	for column, value := range updates {
		switch column {
		case "title":
			notice.Title = value.(string)
		case "description":
			notice.Description = value.(string)
		case "category":
			notice.Category = value.(string)
		case "posted_by":
			notice.PostedBy = value.(string)
		case "is_archived":
			notice.IsArchived = value.(bool)
		case "is_new":
			notice.IsNew = value.(bool)
		case "image_url":
			url := value.(string)
			notice.ImageURL = &url
		}
	}

	r.notices[id] = notice
	return &notice, nil
}

func (r *memNoticeRepo) ToggleArchive(_ context.Context, id uuid.UUID) (*model.Notice, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	notice, ok := r.notices[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}

	notice.IsArchived = !notice.IsArchived
	if notice.IsArchived {
		notice.IsNew = false
	}

	r.notices[id] = notice
	return &notice, nil
}

func (r *memNoticeRepo) DeleteByID(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.notices[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.notices, id)
	return nil
}

func (r *memNoticeRepo) MarkViewed(_ context.Context, userID uuid.UUID, noticeID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.viewed[userID] == nil {
		r.viewed[userID] = make(map[uuid.UUID]bool)
	}
	r.viewed[userID][noticeID] = true
	return nil
}

func (r *memNoticeRepo) GetViewedNoticeIDs(_ context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var ids []uuid.UUID
	for id := range r.viewed[userID] {
		ids = append(ids, id)
	}
	return ids, nil
}

func (r *memNoticeRepo) GetImageURLs(_ context.Context) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var urls []string
	for _, n := range r.notices {
		if n.ImageURL != nil {
			urls = append(urls, *n.ImageURL)
		}
	}
	return urls, nil
}

func newTestRepository(users *memUserRepo, notices postgres.Notice) *repository.Repository {
	return &repository.Repository{
		Postgres: &postgres.PGRepo{
			User:   users,
			Notice: notices,
		},
	}
}
