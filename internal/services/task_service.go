package services

import (
	"context"
	"time"

	"go-task-list/backend/internal/events"
	"go-task-list/backend/internal/models"
	"go-task-list/backend/internal/repositories"
)

// TaskService はTask関連のビジネスロジックを扱います。
type TaskService struct {
	taskRepo  repositories.TaskRepository
	publisher events.Publisher
	now       func() time.Time
}

// NewTaskService は新しいTaskServiceを作成します。publisher が nil の場合はイベントを送信しません。
func NewTaskService(taskRepo repositories.TaskRepository, publisher events.Publisher) *TaskService {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &TaskService{taskRepo: taskRepo, publisher: publisher, now: time.Now}
}

// CreateTask は新しいTaskを作成します。空のタイトルは repositories.ErrInvalidTitle になります。
// completed は挿入と同時に保存され、発行されるイベントは created の1件だけです。
func (s *TaskService) CreateTask(ctx context.Context, title string, completed bool) (*models.Task, error) {
	task, err := s.taskRepo.Create(ctx, title, completed)
	if err != nil {
		return nil, err
	}
	s.emit(ctx, events.ActionCreated, task)
	return task, nil
}

// ListTasks は全Taskを作成日時の降順で返します。
func (s *TaskService) ListTasks(ctx context.Context) ([]*models.Task, error) {
	return s.taskRepo.FindAll(ctx)
}

// GetTask は指定IDのTaskを取得します。
func (s *TaskService) GetTask(ctx context.Context, id int) (*models.Task, error) {
	return s.taskRepo.FindByID(ctx, id)
}

// UpdateTask は指定されたフィールドを更新します (PUT / PATCH 共通)。
func (s *TaskService) UpdateTask(ctx context.Context, id int, fields models.TaskFields) (*models.Task, error) {
	task, err := s.taskRepo.Update(ctx, id, fields)
	if err != nil {
		return nil, err
	}
	s.emit(ctx, events.ActionUpdated, task)
	return task, nil
}

// CompleteTask はTaskを完了にします。すでに完了済みでもエラーにはなりません。
func (s *TaskService) CompleteTask(ctx context.Context, id int) (*models.Task, error) {
	completed := true
	task, err := s.taskRepo.Update(ctx, id, models.TaskFields{Completed: &completed})
	if err != nil {
		return nil, err
	}
	s.emit(ctx, events.ActionCompleted, task)
	return task, nil
}

// DeleteTask はTaskを削除します。存在しない場合は repositories.ErrTaskNotFound です。
func (s *TaskService) DeleteTask(ctx context.Context, id int) error {
	if err := s.taskRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.publisher.Publish(ctx, events.TaskEvent{Action: events.ActionDeleted, TaskID: id, At: s.now().UTC()})
	return nil
}

func (s *TaskService) emit(ctx context.Context, action string, task *models.Task) {
	s.publisher.Publish(ctx, events.TaskEvent{
		Action: action,
		TaskID: task.ID,
		Title:  task.Title,
		At:     s.now().UTC(),
	})
}
