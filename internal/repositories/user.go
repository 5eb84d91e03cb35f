package repositories

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt" // パスワードのハッシュ化用

	"go-task-list/backend/internal/models"
)

var (
	ErrDuplicateUsername = errors.New("duplicate username")
	ErrUserNotFound      = errors.New("user not found")
)

// UserRepository はログイン用のユーザーストアです。
type UserRepository interface {
	Create(ctx context.Context, u *models.User) (*models.User, error)
	FindByUsername(ctx context.Context, username string) (*models.User, error)
}

// HashPassword は与えられたパスワードをbcryptでハッシュ化します。
func HashPassword(password string) (string, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashedPassword), nil
}

// VerifyPassword はハッシュ化されたパスワードと平文のパスワードを比較します。
func VerifyPassword(hashedPassword, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
}
