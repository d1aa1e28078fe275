package postgres

import (
	"context"
	"fmt"

	"github.com/CampusConnect/notice-service/internal/config"
	"github.com/CampusConnect/notice-service/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type User interface {
	Create(ctx context.Context, user model.User) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
}

type Notice interface {
	Create(ctx context.Context, notice model.Notice) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Notice, error)
	GetActive(ctx context.Context) ([]*model.Notice, error)
	GetNew(ctx context.Context) ([]*model.Notice, error)
	GetArchived(ctx context.Context) ([]*model.Notice, error)
	UpdateByID(ctx context.Context, id uuid.UUID, updates map[string]interface{}) (*model.Notice, error)
	ToggleArchive(ctx context.Context, id uuid.UUID) (*model.Notice, error)
	DeleteByID(ctx context.Context, id uuid.UUID) error
	MarkViewed(ctx context.Context, userID uuid.UUID, noticeID uuid.UUID) error
	GetViewedNoticeIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error)
	GetImageURLs(ctx context.Context) ([]string, error)
}

type PGRepo struct {
	User
	Notice
}

func New(db *pgxpool.Pool) *PGRepo {
	return &PGRepo{
		User:   newUserRepo(db),
		Notice: newNoticeRepo(db),
	}
}

func Connect(ctx context.Context, cfg config.DBConfig) (*pgxpool.Pool, error) {
	connString := fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		cfg.Username, cfg.Password, cfg.Host, cfg.Port, cfg.DBName, cfg.SSLMode,
	)

	return pgxpool.New(ctx, connString)
}
