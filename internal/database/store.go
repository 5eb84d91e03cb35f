package database

import (
	"context"
	"database/sql"
	"fmt"

	"go-task-list/backend/internal/config"
	"go-task-list/backend/internal/repositories"
)

// Store は設定されたドライバーに応じたリポジトリと接続プールです。
type Store struct {
	Tasks repositories.TaskRepository
	Users repositories.UserRepository
	// DB はヘルスチェックとClose用の接続プールです (GORMの場合も内部の *sql.DB)。
	DB *sql.DB
}

// Open は DB_DRIVER に従ってデータベースへ接続し、初期スキーマを用意します。
func Open(ctx context.Context, cfg config.DatabaseConfig) (*Store, error) {
	switch cfg.Driver {
	case config.DriverMySQL:
		db, err := OpenMySQL(ctx, cfg)
		if err != nil {
			return nil, err
		}
		if err := EnsureMySQLSchema(ctx, db); err != nil {
			db.Close()
			return nil, err
		}
		return &Store{
			Tasks: repositories.NewMySQLTaskRepository(db),
			Users: repositories.NewMySQLUserRepository(db),
			DB:    db,
		}, nil

	case config.DriverPostgres:
		gormDB, err := OpenPostgres(ctx, cfg)
		if err != nil {
			return nil, err
		}
		sqlDB, err := gormDB.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
		}
		if err := EnsurePostgresSchema(ctx, gormDB); err != nil {
			sqlDB.Close()
			return nil, err
		}
		return &Store{
			Tasks: repositories.NewGormTaskRepository(gormDB),
			Users: repositories.NewGormUserRepository(gormDB),
			DB:    sqlDB,
		}, nil

	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.Driver)
	}
}

// Close は接続プールを閉じます。
func (s *Store) Close() error {
	return s.DB.Close()
}
