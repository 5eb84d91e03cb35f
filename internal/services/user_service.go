package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"go-task-list/backend/internal/models"
	"go-task-list/backend/internal/repositories"
)

// ErrInvalidCredentials はユーザー名またはパスワードが正しくない場合のエラーです。
var ErrInvalidCredentials = errors.New("invalid credentials")

// UserService はユーザー関連のビジネスロジックを扱います。
type UserService struct {
	userRepo repositories.UserRepository
}

// NewUserService は新しいUserServiceを作成します。
func NewUserService(userRepo repositories.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

// CreateUser はユーザーを作成します (tasksctl createuser から使用)。
func (s *UserService) CreateUser(ctx context.Context, username, password string) (*models.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, errors.New("username and password are required")
	}

	hashedPassword, err := repositories.HashPassword(password)
	if err != nil {
		log.Printf("Failed to hash password: %v", err)
		return nil, err
	}

	return s.userRepo.Create(ctx, &models.User{
		Username:     username,
		PasswordHash: hashedPassword,
	})
}

// AuthenticateUser はユーザーを認証し、成功したらユーザーを返します。
// ユーザーが存在しない場合とパスワード不一致は区別せず ErrInvalidCredentials を返します。
func (s *UserService) AuthenticateUser(ctx context.Context, req models.LoginRequest) (*models.User, error) {
	if req.Username == "" || req.Password == "" {
		return nil, ErrInvalidCredentials
	}

	foundUser, err := s.userRepo.FindByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("could not load user: %w", err)
	}

	if err := repositories.VerifyPassword(foundUser.PasswordHash, req.Password); err != nil {
		return nil, ErrInvalidCredentials
	}

	foundUser.PasswordHash = "" // レスポンスにパスワードを含めない
	return foundUser, nil
}
