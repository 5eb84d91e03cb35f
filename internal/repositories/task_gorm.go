package repositories

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"gorm.io/gorm"

	"go-task-list/backend/internal/models"
)

// GormTaskRepository はGORM (PostgreSQL) によるTaskRepositoryの実装です。
type GormTaskRepository struct {
	db *gorm.DB
}

// NewGormTaskRepository は新しいGormTaskRepositoryを作成します。
func NewGormTaskRepository(db *gorm.DB) *GormTaskRepository {
	return &GormTaskRepository{db: db}
}

func (r *GormTaskRepository) Create(ctx context.Context, title string, completed bool) (*models.Task, error) {
	title, err := NormalizeTitle(title)
	if err != nil {
		return nil, err
	}

	task := &models.Task{
		Title:     title,
		Completed: completed,
		CreatedAt: time.Now().UTC().Truncate(time.Microsecond),
	}
	if err := r.db.WithContext(ctx).Create(task).Error; err != nil {
		log.Printf("Failed to insert task: %v", err)
		return nil, fmt.Errorf("could not insert task: %w", err)
	}
	return task, nil
}

func (r *GormTaskRepository) FindAll(ctx context.Context) ([]*models.Task, error) {
	tasks := make([]*models.Task, 0)
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Order("id DESC").
		Find(&tasks).Error
	if err != nil {
		log.Printf("Failed to query tasks: %v", err)
		return nil, fmt.Errorf("could not query tasks: %w", err)
	}
	return tasks, nil
}

func (r *GormTaskRepository) FindByID(ctx context.Context, id int) (*models.Task, error) {
	var task models.Task
	if err := r.db.WithContext(ctx).First(&task, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		log.Printf("Failed to query task by ID: %v", err)
		return nil, fmt.Errorf("could not query task: %w", err)
	}
	return &task, nil
}

// Update は指定されたフィールドのみを更新します。
// false や空文字もゼロ値として捨てられないよう map で渡します。
func (r *GormTaskRepository) Update(ctx context.Context, id int, fields models.TaskFields) (*models.Task, error) {
	fields, err := normalizeFields(fields)
	if err != nil {
		return nil, err
	}

	task, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if fields.Title != nil {
		updates["title"] = *fields.Title
	}
	if fields.Completed != nil {
		updates["completed"] = *fields.Completed
	}
	if len(updates) == 0 {
		return task, nil
	}

	err = r.db.WithContext(ctx).Model(&models.Task{}).Where("id = ?", id).Updates(updates).Error
	if err != nil {
		log.Printf("Failed to update task: %v", err)
		return nil, fmt.Errorf("could not update task: %w", err)
	}

	if fields.Title != nil {
		task.Title = *fields.Title
	}
	if fields.Completed != nil {
		task.Completed = *fields.Completed
	}
	return task, nil
}

func (r *GormTaskRepository) Delete(ctx context.Context, id int) error {
	result := r.db.WithContext(ctx).Delete(&models.Task{}, id)
	if result.Error != nil {
		log.Printf("Failed to delete task: %v", result.Error)
		return fmt.Errorf("could not delete task: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrTaskNotFound
	}
	return nil
}
