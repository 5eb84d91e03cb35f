package repositories

import (
	"context"
	"errors"
	"fmt"
	"log"

	"gorm.io/gorm"

	"go-task-list/backend/internal/models"
)

// GormUserRepository はGORM (PostgreSQL) によるUserRepositoryの実装です。
type GormUserRepository struct {
	db *gorm.DB
}

// NewGormUserRepository は新しいGormUserRepositoryを作成します。
func NewGormUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

// Create は新しいユーザーを挿入します。
// 一意制約違反の判定には gorm.Config.TranslateError が有効である必要があります。
func (r *GormUserRepository) Create(ctx context.Context, u *models.User) (*models.User, error) {
	if err := r.db.WithContext(ctx).Create(u).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateUsername
		}
		log.Printf("Failed to insert user: %v", err)
		return nil, fmt.Errorf("could not insert user: %w", err)
	}
	return u, nil
}

func (r *GormUserRepository) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	var u models.User
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		log.Printf("Failed to query user by username: %v", err)
		return nil, fmt.Errorf("could not query user: %w", err)
	}
	return &u, nil
}
