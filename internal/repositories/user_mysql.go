package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/go-sql-driver/mysql"

	"go-task-list/backend/internal/models"
)

// mysqlDuplicateEntry は MySQL の重複エントリーエラーコードです。
const mysqlDuplicateEntry = 1062

// MySQLUserRepository はデータベース操作を行うための構造体です。
type MySQLUserRepository struct {
	DB *sql.DB
}

// NewMySQLUserRepository は新しいMySQLUserRepositoryインスタンスを作成します。
func NewMySQLUserRepository(db *sql.DB) *MySQLUserRepository {
	return &MySQLUserRepository{DB: db}
}

// Create は新しいユーザーをデータベースに挿入します。
func (r *MySQLUserRepository) Create(ctx context.Context, u *models.User) (*models.User, error) {
	u.CreatedAt = time.Now().UTC().Truncate(time.Microsecond)

	query := "INSERT INTO users (username, password_hash, created_at) VALUES (?, ?, ?)"
	result, err := r.DB.ExecContext(ctx, query, u.Username, u.PasswordHash, u.CreatedAt)
	if err != nil {
		var mysqlErr *mysql.MySQLError
		if errors.As(err, &mysqlErr) && mysqlErr.Number == mysqlDuplicateEntry {
			return nil, ErrDuplicateUsername
		}
		log.Printf("Failed to insert user: %v", err)
		return nil, fmt.Errorf("could not insert user: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("could not get last insert ID: %w", err)
	}
	u.ID = int(id)

	return u, nil
}

// FindByUsername はユーザー名でユーザーを検索します。
func (r *MySQLUserRepository) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	query := "SELECT id, username, password_hash, created_at FROM users WHERE username = ?"
	var u models.User
	err := r.DB.QueryRowContext(ctx, query, username).Scan(
		&u.ID,
		&u.Username,
		&u.PasswordHash,
		&u.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		log.Printf("Failed to query user by username: %v", err)
		return nil, fmt.Errorf("could not query user: %w", err)
	}
	return &u, nil
}
