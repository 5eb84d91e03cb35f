// Package modelsはTaskとUser、およびリクエスト/レスポンスの型を定義します。
package models

import (
	"time"
)

// TitleMaxLength はタイトルの最大文字数です (tasks.title VARCHAR(255))。
const TitleMaxLength = 255

// Task は tasks テーブルの1行を表します。
type Task struct {
	ID        int       `json:"id" gorm:"primaryKey;autoIncrement"`              // 主キー (ストアが採番)
	Title     string    `json:"title" gorm:"size:255;not null"`                  // タスクのタイトル（必須）
	Completed bool      `json:"completed" gorm:"not null;default:false"`         // 完了状態
	CreatedAt time.Time `json:"created_at" gorm:"not null;index;autoCreateTime"` // 作成日時 (一覧のソートキー)
}

// TableName はGORMが使用するテーブル名を返します。
func (Task) TableName() string {
	return "tasks"
}

// TaskFields は部分更新の対象フィールドです。nil のフィールドは変更しません。
type TaskFields struct {
	Title     *string
	Completed *bool
}

// TaskCreateRequest は POST /api/tasks/ のリクエストボディです。
type TaskCreateRequest struct {
	Title     string `json:"title" binding:"required"`
	Completed bool   `json:"completed"`
}

// TaskUpdateRequest は PUT /api/tasks/:id/ のリクエストボディです。
// PUT は全体更新なので completed を省略した場合は false になります。
type TaskUpdateRequest struct {
	Title     string `json:"title" binding:"required"`
	Completed bool   `json:"completed"`
}

// Fields は全体更新を TaskFields に変換します。
func (r TaskUpdateRequest) Fields() TaskFields {
	return TaskFields{Title: &r.Title, Completed: &r.Completed}
}

// TaskPatchRequest は PATCH /api/tasks/:id/ のリクエストボディです。
type TaskPatchRequest struct {
	Title     *string `json:"title"`
	Completed *bool   `json:"completed"`
}

// Fields は部分更新を TaskFields に変換します。
func (r TaskPatchRequest) Fields() TaskFields {
	return TaskFields{Title: r.Title, Completed: r.Completed}
}

// TaskForm はHTMLの作成フォームです。
type TaskForm struct {
	Title string `form:"title"`
}
