package service

import (
	"context"
	"os"
	"strings"
	"time"

	"github.com/CampusConnect/notice-service/internal/dto"
	"github.com/CampusConnect/notice-service/internal/model"
	"github.com/CampusConnect/notice-service/internal/repository"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const accessTokenTTL = time.Hour * 24

type userService struct {
	logger *zap.Logger
	repo *repository.Repository
}

func newUserService(logger *zap.Logger, repo *repository.Repository) User {
	return &userService{
		logger: logger,
		repo: repo,
	}
}

func (s *userService) SignUp(ctx context.Context, input dto.SignUpRequest) (*dto.AuthResponse, error) {
	role := strings.ToLower(input.Role)
	if role != model.RoleAdmin && role != model.RoleStudent {
		return nil, ErrInvalidRole
	}
	if input.Name == "" || input.Email == "" || input.Password == "" {
		return nil, ErrMissingFields
	}

	if _, err := s.repo.Postgres.User.FindByEmail(ctx, input.Email); err == nil {
		return nil, ErrEmailTaken
	} else if err != pgx.ErrNoRows {
		s.logger.Sugar().Errorf("failed to look up email(%s): %s", input.Email, err.Error())
		return nil, ErrInternal
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		s.logger.Sugar().Errorf("failed to hash password for(%s): %s", input.Email, err.Error())
		return nil, ErrInternal
	}

	user := model.User{
		ID: uuid.New(),
		Role: role,
		Name: input.Name,
		Email: input.Email,
		PasswordHash: string(hash),
		CreatedAt: time.Now(),
	}
	if err := s.repo.Postgres.User.Create(ctx, user); err != nil {
		s.logger.Sugar().Errorf("failed to create user(%s): %s", input.Email, err.Error())
		return nil, ErrInternal
	}

	token, err := s.signToken(&user)
	if err != nil {
		s.logger.Sugar().Errorf("failed to sign token for(%s): %s", user.ID.String(), err.Error())
		return nil, ErrInternal
	}

	return &dto.AuthResponse{Token: token, Role: user.Role}, nil
}

func (s *userService) SignIn(ctx context.Context, input dto.SignInRequest) (*dto.AuthResponse, error) {
	user, err := s.repo.Postgres.User.FindByEmail(ctx, input.Email)
	if err == pgx.ErrNoRows {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		s.logger.Sugar().Errorf("failed to find user by email(%s): %s", input.Email, err.Error())
		return nil, ErrInternal
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := s.signToken(user)
	if err != nil {
		s.logger.Sugar().Errorf("failed to sign token for(%s): %s", user.ID.String(), err.Error())
		return nil, ErrInternal
	}

	return &dto.AuthResponse{Token: token, Role: user.Role}, nil
}

func (s *userService) FindByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	return s.repo.Postgres.User.FindByID(ctx, id)
}

func (s *userService) signToken(user *model.User) (string, error) {
	claims := jwt.MapClaims{
		"id": user.ID.String(),
		"role": user.Role,
		"exp": time.Now().Add(accessTokenTTL).Unix(),
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(os.Getenv("ACCESS_SECRET")))
}
