package service

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/CampusConnect/notice-service/internal/assets"
	"github.com/CampusConnect/notice-service/internal/config"
	"github.com/CampusConnect/notice-service/internal/dto"
	"github.com/CampusConnect/notice-service/internal/model"
	"github.com/CampusConnect/notice-service/internal/rabbitmq"
	"github.com/CampusConnect/notice-service/internal/repository"
	"github.com/CampusConnect/notice-service/internal/repository/redisrepo"
	"github.com/go-co-op/gocron/v2"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type noticeService struct {
	logger *zap.Logger
	repo *repository.Repository
	rdb *redis.Client
	rabbitmq *rabbitmq.MQConn
	assets *assets.Store
	scheduler gocron.Scheduler
	conns *sync.Map
	deliveryChan chan model.NoticeDelivery
}

func newNoticeService(logger *zap.Logger, repo *repository.Repository, rdb *redis.Client, rabbitmq *rabbitmq.MQConn, assets *assets.Store) Notice {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		panic(err)
	}

	s := &noticeService{
		logger: logger,
		repo: repo,
		rdb: rdb,
		rabbitmq: rabbitmq,
		assets: assets,
		scheduler: scheduler,
		conns: &sync.Map{},
		deliveryChan: make(chan model.NoticeDelivery, 1000),
	}

	for range 5 {
		go s.deliveryWorker()
	}

	return s
}

func (s *noticeService) deliveryWorker() {
	for msg := range s.deliveryChan {
		payload := map[string]string{
			"type": msg.Type,
			"notice_id": msg.NoticeID,
			"title": msg.Title,
			"category": msg.Category,
		}

		s.conns.Range(func(key, val interface{}) bool {
			conn, ok := val.(*websocket.Conn)
			if !ok {
				return true
			}

			if err := conn.WriteJSON(payload); err != nil {
				s.logger.Sugar().Errorf("failed to write json msg to receiver(%v)'s conn: %s", key, err.Error())
			}
			return true
		})
	}
}

func (s *noticeService) RegisterConnection(userID uuid.UUID, conn *websocket.Conn) {
	s.conns.Store(userID, conn)

	go func(userID uuid.UUID, c *websocket.Conn) {
		for {
			_, _, err := c.ReadMessage()
			if err != nil {
				s.UnregisterConnection(userID)
				break
			}
		}
	}(userID, conn)
}

func (s *noticeService) UnregisterConnection(userID uuid.UUID) {
	if val, ok := s.conns.Load(userID); ok {
		if conn, ok := val.(*websocket.Conn); ok {
			conn.Close()
		}
		s.conns.Delete(userID)
	}
}

// List returns non-archived notices, globally-new first, newest-first after
// that. For an authenticated viewer every notice is additionally annotated
// with isNewForUser; the persisted global flag is never touched.
func (s *noticeService) List(ctx context.Context, viewer *model.User) ([]*model.NoticeView, error) {
	notices, err := s.activeNotices(ctx)
	if err != nil {
		return nil, err
	}

	views := make([]*model.NoticeView, 0, len(notices))
	for _, n := range notices {
		views = append(views, &model.NoticeView{Notice: *n})
	}

	if viewer == nil {
		return views, nil
	}

	viewed, err := s.viewedSet(ctx, viewer.ID)
	if err != nil {
		return nil, err
	}

	for _, v := range views {
		isNewForUser := !viewed[v.ID]
		v.IsNewForUser = &isNewForUser
	}

	return views, nil
}

func (s *noticeService) activeNotices(ctx context.Context) ([]*model.Notice, error) {
	return s.cachedListing(ctx, redisrepo.ACTIVE_NOTICES, s.repo.Postgres.Notice.GetActive)
}

func (s *noticeService) ListNew(ctx context.Context) ([]*model.Notice, error) {
	return s.cachedListing(ctx, redisrepo.NEW_NOTICES, s.repo.Postgres.Notice.GetNew)
}

func (s *noticeService) ListArchived(ctx context.Context) ([]*model.Notice, error) {
	return s.cachedListing(ctx, redisrepo.ARCHIVED_NOTICES, s.repo.Postgres.Notice.GetArchived)
}

func (s *noticeService) cachedListing(ctx context.Context, key string, fetch func(ctx context.Context) ([]*model.Notice, error)) ([]*model.Notice, error) {
	noticesCache, err := redisrepo.Get[[]*model.Notice](s.rdb, ctx, key)
	if err == nil {
		return *noticesCache, nil
	}
	if err != redis.Nil {
		s.logger.Sugar().Errorf("failed to get listing(%s) from redis: %s", key, err.Error())
		return nil, ErrInternal
	}

	notices, err := fetch(ctx)
	if err != nil {
		s.logger.Sugar().Errorf("failed to get listing(%s) from postgres: %s", key, err.Error())
		return nil, ErrInternal
	}

	if err := redisrepo.SetJSON(s.rdb, ctx, key, notices, config.ListingCacheTTL()); err != nil {
		s.logger.Sugar().Errorf("failed to set listing(%s) in redis cache: %s", key, err.Error())
	}

	return notices, nil
}

func (s *noticeService) invalidateListings(ctx context.Context) {
	if err := redisrepo.Del(s.rdb, ctx, redisrepo.ListingKeys()...); err != nil {
		s.logger.Sugar().Errorf("failed to invalidate listing cache: %s", err.Error())
	}
}

func (s *noticeService) viewedSet(ctx context.Context, userID uuid.UUID) (map[uuid.UUID]bool, error) {
	ids, err := s.repo.Postgres.Notice.GetViewedNoticeIDs(ctx, userID)
	if err != nil {
		s.logger.Sugar().Errorf("failed to get user(%s)'s viewed notices: %s", userID.String(), err.Error())
		return nil, ErrInternal
	}

	viewed := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		viewed[id] = true
	}

	return viewed, nil
}

// GetByID hides archived notices from everyone but admins; the error is the
// same as for an id that never existed, so existence is not leaked.
func (s *noticeService) GetByID(ctx context.Context, id uuid.UUID, viewer *model.User) (*model.NoticeView, error) {
	notice, err := s.repo.Postgres.Notice.FindByID(ctx, id)
	if err == pgx.ErrNoRows {
		return nil, ErrNoticeNotFound
	}
	if err != nil {
		s.logger.Sugar().Errorf("failed to find notice(%s): %s", id.String(), err.Error())
		return nil, ErrInternal
	}

	if notice.IsArchived && !viewer.IsAdmin() {
		return nil, ErrNoticeNotFound
	}

	view := &model.NoticeView{Notice: *notice}
	if viewer == nil {
		return view, nil
	}

	viewed, err := s.viewedSet(ctx, viewer.ID)
	if err != nil {
		return nil, err
	}
	isNewForUser := !viewed[notice.ID]
	view.IsNewForUser = &isNewForUser

	return view, nil
}

func (s *noticeService) Create(ctx context.Context, input dto.CreateNoticeRequest, image *UploadedImage) (*model.Notice, error) {
	if input.Title == "" || input.Description == "" || input.Category == "" || input.PostedBy == "" {
		return nil, ErrMissingFields
	}
	if !model.IsValidCategory(input.Category) {
		return nil, ErrInvalidCategory
	}

	notice := model.Notice{
		ID: uuid.New(),
		Title: input.Title,
		Description: input.Description,
		Category: input.Category,
		PostedBy: input.PostedBy,
		IsNew: true,
		IsArchived: false,
		CreatedAt: time.Now(),
	}

	if image != nil {
		url, err := s.assets.Save(image.Filename, image.File)
		if err != nil {
			s.logger.Sugar().Errorf("failed to save image for new notice: %s", err.Error())
			return nil, ErrInternal
		}
		notice.ImageURL = &url
	}

	if err := s.repo.Postgres.Notice.Create(ctx, notice); err != nil {
		s.logger.Sugar().Errorf("failed to create notice: %s", err.Error())
		if notice.ImageURL != nil {
			if err := s.assets.Remove(*notice.ImageURL); err != nil {
				s.logger.Sugar().Errorf("failed to remove image of unsaved notice: %s", err.Error())
			}
		}
		return nil, ErrInternal
	}

	s.invalidateListings(ctx)

	s.publishJSON(ctx, rabbitmq.NOTICE_POSTED_QUEUE, dto.MQNoticePosted{
		NoticeID: notice.ID,
		Title: notice.Title,
		Category: notice.Category,
		PostedBy: notice.PostedBy,
		CreatedAt: notice.CreatedAt,
	})

	s.deliveryChan <- model.NoticeDelivery{
		Type: "notice_posted",
		NoticeID: notice.ID.String(),
		Title: notice.Title,
		Category: notice.Category,
	}

	return &notice, nil
}

func (s *noticeService) Update(ctx context.Context, id uuid.UUID, input dto.UpdateNoticeRequest, image *UploadedImage) (*model.Notice, error) {
	current, err := s.repo.Postgres.Notice.FindByID(ctx, id)
	if err == pgx.ErrNoRows {
		return nil, ErrNoticeNotFound
	}
	if err != nil {
		s.logger.Sugar().Errorf("failed to find notice(%s): %s", id.String(), err.Error())
		return nil, ErrInternal
	}

	// empty strings are treated as not supplied; a notice never loses a
	// required field through a partial update
	updates := map[string]interface{}{}
	if input.Title != nil && *input.Title != "" {
		updates["title"] = *input.Title
	}
	if input.Description != nil && *input.Description != "" {
		updates["description"] = *input.Description
	}
	if input.Category != nil && *input.Category != "" {
		if !model.IsValidCategory(*input.Category) {
			return nil, ErrInvalidCategory
		}
		updates["category"] = *input.Category
	}
	if input.PostedBy != nil && *input.PostedBy != "" {
		updates["posted_by"] = *input.PostedBy
	}
	if input.IsArchived != nil {
		updates["is_archived"] = *input.IsArchived
		// archived implies not new
		if *input.IsArchived {
			updates["is_new"] = false
		}
	}

	var oldImageURL *string
	if image != nil {
		url, err := s.assets.Save(image.Filename, image.File)
		if err != nil {
			s.logger.Sugar().Errorf("failed to save replacement image for notice(%s): %s", id.String(), err.Error())
			return nil, ErrInternal
		}
		updates["image_url"] = url
		oldImageURL = current.ImageURL
	}

	if len(updates) == 0 {
		return current, nil
	}

	notice, err := s.repo.Postgres.Notice.UpdateByID(ctx, id, updates)
	if err == pgx.ErrNoRows {
		return nil, ErrNoticeNotFound
	}
	if err != nil {
		s.logger.Sugar().Errorf("failed to update notice(%s): %s", id.String(), err.Error())
		return nil, ErrInternal
	}

	// the replaced asset is released after the record swap; a failure here
	// only leaves an orphan for the sweep job
	if oldImageURL != nil {
		if err := s.assets.Remove(*oldImageURL); err != nil {
			s.logger.Sugar().Errorf("failed to remove replaced image of notice(%s): %s", id.String(), err.Error())
		}
	}

	s.invalidateListings(ctx)

	return notice, nil
}

func (s *noticeService) MarkViewed(ctx context.Context, userID uuid.UUID, noticeID uuid.UUID) error {
	if _, err := s.repo.Postgres.Notice.FindByID(ctx, noticeID); err != nil {
		if err == pgx.ErrNoRows {
			return ErrNoticeNotFound
		}
		s.logger.Sugar().Errorf("failed to find notice(%s): %s", noticeID.String(), err.Error())
		return ErrInternal
	}

	if err := s.repo.Postgres.Notice.MarkViewed(ctx, userID, noticeID); err != nil {
		s.logger.Sugar().Errorf("failed to mark notice(%s) viewed by user(%s): %s", noticeID.String(), userID.String(), err.Error())
		return ErrInternal
	}

	return nil
}

func (s *noticeService) ToggleArchive(ctx context.Context, id uuid.UUID) (*model.Notice, error) {
	notice, err := s.repo.Postgres.Notice.ToggleArchive(ctx, id)
	if err == pgx.ErrNoRows {
		return nil, ErrNoticeNotFound
	}
	if err != nil {
		s.logger.Sugar().Errorf("failed to toggle archive on notice(%s): %s", id.String(), err.Error())
		return nil, ErrInternal
	}

	s.invalidateListings(ctx)

	s.publishJSON(ctx, rabbitmq.NOTICE_ARCHIVED_QUEUE, dto.MQNoticeArchived{
		NoticeID: notice.ID,
		Archived: notice.IsArchived,
	})

	return notice, nil
}

func (s *noticeService) Delete(ctx context.Context, id uuid.UUID) error {
	notice, err := s.repo.Postgres.Notice.FindByID(ctx, id)
	if err == pgx.ErrNoRows {
		return ErrNoticeNotFound
	}
	if err != nil {
		s.logger.Sugar().Errorf("failed to find notice(%s): %s", id.String(), err.Error())
		return ErrInternal
	}

	if err := s.repo.Postgres.Notice.DeleteByID(ctx, id); err != nil {
		if err == pgx.ErrNoRows {
			return ErrNoticeNotFound
		}
		s.logger.Sugar().Errorf("failed to delete notice(%s): %s", id.String(), err.Error())
		return ErrInternal
	}

	if notice.ImageURL != nil {
		if err := s.assets.Remove(*notice.ImageURL); err != nil {
			s.logger.Sugar().Errorf("failed to remove image of deleted notice(%s): %s", id.String(), err.Error())
		}
	}

	s.invalidateListings(ctx)

	return nil
}

func (s *noticeService) publishJSON(ctx context.Context, queue string, payload interface{}) {
	if s.rabbitmq == nil {
		return
	}

	body, err := json.Marshal(payload)
	if err != nil {
		s.logger.Sugar().Errorf("failed to marshal payload for queue(%s): %s", queue, err.Error())
		return
	}

	if err := s.rabbitmq.PublishJSON(ctx, queue, body); err != nil {
		s.logger.Sugar().Errorf("failed to publish to queue(%s): %s", queue, err.Error())
	}
}

func (s *noticeService) newSweepOrphanedAssetsJob() {
	s.scheduler.NewJob(gocron.DurationJob(config.AssetSweepInterval()), gocron.NewTask(func(ctx context.Context) {
		urls, err := s.repo.Postgres.Notice.GetImageURLs(ctx)
		if err != nil {
			s.logger.Sugar().Errorf("failed to list referenced images: %s", err.Error())
			return
		}

		removed, err := s.assets.Sweep(urls)
		if err != nil {
			s.logger.Sugar().Errorf("failed to sweep orphaned assets: %s", err.Error())
			return
		}
		if removed > 0 {
			s.logger.Sugar().Infof("swept %d orphaned asset(s)", removed)
		}
	}))
}

func (s *noticeService) StartJobs() {
	s.newSweepOrphanedAssetsJob()

	s.scheduler.Start()
}
