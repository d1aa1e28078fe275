package service

import (
	"context"
	"io"

	"github.com/CampusConnect/notice-service/internal/assets"
	"github.com/CampusConnect/notice-service/internal/dto"
	"github.com/CampusConnect/notice-service/internal/model"
	"github.com/CampusConnect/notice-service/internal/rabbitmq"
	"github.com/CampusConnect/notice-service/internal/repository"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// UploadedImage is a multipart image part handed down from the handler.
type UploadedImage struct {
	Filename string
	File     io.Reader
}

type User interface {
	SignUp(ctx context.Context, input dto.SignUpRequest) (*dto.AuthResponse, error)
	SignIn(ctx context.Context, input dto.SignInRequest) (*dto.AuthResponse, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.User, error)
}

type Notice interface {
	List(ctx context.Context, viewer *model.User) ([]*model.NoticeView, error)
	ListNew(ctx context.Context) ([]*model.Notice, error)
	ListArchived(ctx context.Context) ([]*model.Notice, error)
	GetByID(ctx context.Context, id uuid.UUID, viewer *model.User) (*model.NoticeView, error)
	Create(ctx context.Context, input dto.CreateNoticeRequest, image *UploadedImage) (*model.Notice, error)
	Update(ctx context.Context, id uuid.UUID, input dto.UpdateNoticeRequest, image *UploadedImage) (*model.Notice, error)
	MarkViewed(ctx context.Context, userID uuid.UUID, noticeID uuid.UUID) error
	ToggleArchive(ctx context.Context, id uuid.UUID) (*model.Notice, error)
	Delete(ctx context.Context, id uuid.UUID) error
	RegisterConnection(userID uuid.UUID, conn *websocket.Conn)
	UnregisterConnection(userID uuid.UUID)
	StartJobs()
}

type Service struct {
	User
	Notice
}

func New(logger *zap.Logger, repo *repository.Repository, rdb *redis.Client, rabbitmq *rabbitmq.MQConn, assets *assets.Store) *Service {
	return &Service{
		User:   newUserService(logger, repo),
		Notice: newNoticeService(logger, repo, rdb, rabbitmq, assets),
	}
}
