package handler

import (
	"context"
	"net/http"
	"os"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/CampusConnect/notice-service/internal/assets"
	"github.com/CampusConnect/notice-service/internal/model"
	"github.com/CampusConnect/notice-service/internal/repository"
	"github.com/CampusConnect/notice-service/internal/repository/postgres"
	"github.com/CampusConnect/notice-service/internal/service"
	"github.com/alicebob/miniredis/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	pgxv5 "github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type memUserRepo struct {
	mu    sync.Mutex
	users map[uuid.UUID]model.User
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
		return nil, pgxv5.ErrNoRows
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
	return nil, pgxv5.ErrNoRows
}

type memNoticeRepo struct {
	mu      sync.Mutex
	notices map[uuid.UUID]model.Notice
	viewed  map[uuid.UUID]map[uuid.UUID]bool
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
		return nil, pgxv5.ErrNoRows
	}
	return &notice, nil
}

func (r *memNoticeRepo) list(filter func(model.Notice) bool, newFirst bool) []*model.Notice {
	r.mu.Lock()
	defer r.mu.Unlock()

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
	return r.list(func(n model.Notice) bool { return !n.IsArchived }, true), nil
}

func (r *memNoticeRepo) GetNew(_ context.Context) ([]*model.Notice, error) {
	return r.list(func(n model.Notice) bool { return !n.IsArchived && n.IsNew }, false), nil
}

func (r *memNoticeRepo) GetArchived(_ context.Context) ([]*model.Notice, error) {
	return r.list(func(n model.Notice) bool { return n.IsArchived }, false), nil
}

func (r *memNoticeRepo) UpdateByID(_ context.Context, id uuid.UUID, updates map[string]interface{}) (*model.Notice, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	notice, ok := r.notices[id]
	if !ok {
		return nil, pgxv5.ErrNoRows
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
		return nil, pgxv5.ErrNoRows
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
		return pgxv5.ErrNoRows
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

type testEnv struct {
	handler *Handler
	mux     http.Handler
	users   *memUserRepo
	notices *memNoticeRepo
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	t.Setenv("ACCESS_SECRET", "test-secret")

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	store, err := assets.NewStore(t.TempDir())
	require.NoError(t, err)

	users := &memUserRepo{users: make(map[uuid.UUID]model.User)}
	notices := &memNoticeRepo{
		notices: make(map[uuid.UUID]model.Notice),
		viewed:  make(map[uuid.UUID]map[uuid.UUID]bool),
	}
	repo := &repository.Repository{
		Postgres: &postgres.PGRepo{User: users, Notice: notices},
	}

	services := service.New(zap.NewNop(), repo, rdb, nil, store)
	h := New(services)

	return &testEnv{
		handler: h,
		mux:     h.SetupRoutes(),
		users:   users,
		notices: notices,
	}
}

// seedUser registers a user and returns a bearer token for them.
func (e *testEnv) seedUser(t *testing.T, role string) (model.User, string) {
	t.Helper()

	user := model.User{
		ID:    uuid.New(),
		Role:  role,
		Name:  "Test " + role,
		Email: role + "-" + uuid.NewString() + "@campus.edu",
	}
	require.NoError(t, e.users.Create(context.Background(), user))

	claims := jwt.MapClaims{
		"id":   user.ID.String(),
		"role": user.Role,
		"exp":  time.Now().Add(time.Hour).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(os.Getenv("ACCESS_SECRET")))
	require.NoError(t, err)

	return user, token
}

func (e *testEnv) seedNotice(t *testing.T, title string, archived bool) model.Notice {
	t.Helper()

	notice := model.Notice{
		ID:          uuid.New(),
		Title:       title,
		Description: "description of " + title,
		Category:    model.CategoryGeneral,
		PostedBy:    "Admin",
		IsNew:       !archived,
		IsArchived:  archived,
		CreatedAt:   time.Now(),
	}
	require.NoError(t, e.notices.Create(context.Background(), notice))
	return notice
}
