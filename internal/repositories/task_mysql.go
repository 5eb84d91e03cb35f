package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"go-task-list/backend/internal/models"
)

// MySQLTaskRepository は database/sql + go-sql-driver/mysql によるTaskRepositoryの実装です。
type MySQLTaskRepository struct {
	DB *sql.DB
}

// NewMySQLTaskRepository は新しいMySQLTaskRepositoryインスタンスを作成します。
func NewMySQLTaskRepository(db *sql.DB) *MySQLTaskRepository {
	return &MySQLTaskRepository{DB: db}
}

// Create は新しいタスクをデータベースに挿入します。完了状態も同じINSERTで書き込みます。
func (r *MySQLTaskRepository) Create(ctx context.Context, title string, completed bool) (*models.Task, error) {
	title, err := NormalizeTitle(title)
	if err != nil {
		return nil, err
	}

	// created_at はアプリ側で確定させ、返却値とDBの値を一致させる (DATETIME(6))
	createdAt := time.Now().UTC().Truncate(time.Microsecond)

	query := "INSERT INTO tasks (title, completed, created_at) VALUES (?, ?, ?)"
	result, err := r.DB.ExecContext(ctx, query, title, completed, createdAt)
	if err != nil {
		log.Printf("Failed to insert task: %v", err)
		return nil, fmt.Errorf("could not insert task: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("could not get last insert ID: %w", err)
	}

	return &models.Task{
		ID:        int(id),
		Title:     title,
		Completed: completed,
		CreatedAt: createdAt,
	}, nil
}

// FindAll はすべてのタスクを作成日時の降順で取得します。
func (r *MySQLTaskRepository) FindAll(ctx context.Context) ([]*models.Task, error) {
	query := "SELECT id, title, completed, created_at FROM tasks ORDER BY created_at DESC, id DESC"

	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		log.Printf("Failed to query tasks: %v", err)
		return nil, fmt.Errorf("could not query tasks: %w", err)
	}
	defer rows.Close()

	tasks := make([]*models.Task, 0)
	for rows.Next() {
		var t models.Task
		if err := rows.Scan(&t.ID, &t.Title, &t.Completed, &t.CreatedAt); err != nil {
			log.Printf("Failed to scan task: %v", err)
			return nil, fmt.Errorf("could not scan task: %w", err)
		}
		tasks = append(tasks, &t)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tasks: %w", err)
	}

	return tasks, nil
}

// FindByID は指定されたIDのタスクを取得します。
func (r *MySQLTaskRepository) FindByID(ctx context.Context, id int) (*models.Task, error) {
	query := "SELECT id, title, completed, created_at FROM tasks WHERE id = ?"

	var t models.Task
	err := r.DB.QueryRowContext(ctx, query, id).Scan(&t.ID, &t.Title, &t.Completed, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTaskNotFound
		}
		log.Printf("Failed to query task by ID: %v", err)
		return nil, fmt.Errorf("could not query task: %w", err)
	}

	return &t, nil
}

// Update は指定されたIDのタスクを部分更新します。
//
// MySQLは値が変わらない行を RowsAffected に数えないため、存在確認は
// 先に FindByID で行います (完了済みタスクの再完了を NotFound にしない)。
func (r *MySQLTaskRepository) Update(ctx context.Context, id int, fields models.TaskFields) (*models.Task, error) {
	fields, err := normalizeFields(fields)
	if err != nil {
		return nil, err
	}

	existing, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	var sets []string
	var args []interface{}
	if fields.Title != nil {
		sets = append(sets, "title = ?")
		args = append(args, *fields.Title)
		existing.Title = *fields.Title
	}
	if fields.Completed != nil {
		sets = append(sets, "completed = ?")
		args = append(args, *fields.Completed)
		existing.Completed = *fields.Completed
	}
	if len(sets) == 0 {
		return existing, nil
	}

	query := "UPDATE tasks SET " + strings.Join(sets, ", ") + " WHERE id = ?"
	args = append(args, id)
	if _, err := r.DB.ExecContext(ctx, query, args...); err != nil {
		log.Printf("Failed to update task: %v", err)
		return nil, fmt.Errorf("could not update task: %w", err)
	}

	return existing, nil
}

// Delete は指定されたIDのタスクを削除します。
func (r *MySQLTaskRepository) Delete(ctx context.Context, id int) error {
	query := "DELETE FROM tasks WHERE id = ?"

	result, err := r.DB.ExecContext(ctx, query, id)
	if err != nil {
		log.Printf("Failed to delete task: %v", err)
		return fmt.Errorf("could not delete task: %w", err)
	}

	// 削除された行数を確認
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("could not get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrTaskNotFound
	}

	return nil
}
