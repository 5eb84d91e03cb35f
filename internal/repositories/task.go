// Package repositories はデータベース操作を行うリポジトリを提供します。
package repositories

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"go-task-list/backend/internal/models"
)

var (
	// ErrTaskNotFound はタスクが見つからない場合のエラーです。
	ErrTaskNotFound = errors.New("task not found")
	// ErrInvalidTitle はタイトルが空、または長すぎる場合のエラーです。
	ErrInvalidTitle = errors.New("title must be a non-empty string of at most 255 characters")
)

// TaskRepository はタスクの永続化を抽象化します。
// 実装はMySQL (database/sql) とPostgreSQL (GORM) の2つです。
type TaskRepository interface {
	Create(ctx context.Context, title string, completed bool) (*models.Task, error)
	FindAll(ctx context.Context) ([]*models.Task, error)
	FindByID(ctx context.Context, id int) (*models.Task, error)
	Update(ctx context.Context, id int, fields models.TaskFields) (*models.Task, error)
	Delete(ctx context.Context, id int) error
}

// NormalizeTitle は前後の空白を取り除き、タイトルとして有効か検証します。
func NormalizeTitle(title string) (string, error) {
	title = strings.TrimSpace(title)
	if title == "" || utf8.RuneCountInString(title) > models.TitleMaxLength {
		return "", ErrInvalidTitle
	}
	return title, nil
}

// normalizeFields は部分更新で指定されたタイトルを検証します。
func normalizeFields(fields models.TaskFields) (models.TaskFields, error) {
	if fields.Title == nil {
		return fields, nil
	}
	title, err := NormalizeTitle(*fields.Title)
	if err != nil {
		return fields, err
	}
	fields.Title = &title
	return fields, nil
}
