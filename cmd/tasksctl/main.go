// tasksctl はタスクリストの管理用コマンドです (ユーザー作成とスキーマ初期化)。
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"go-task-list/backend/internal/config"
	"go-task-list/backend/internal/database"
	"go-task-list/backend/internal/repositories"
	"go-task-list/backend/internal/services"
)

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "tasksctl",
		Short:        "Administrative commands for the task list backend",
		SilenceUsage: true,
	}
	root.AddCommand(newInitDBCmd(), newCreateUserCmd())
	return root
}

func newInitDBCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "initdb",
		Short: "Create the users and tasks tables if they do not exist",
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer store.Close()

			log.Println("Database schema is ready")
			return nil
		},
	}
}

func newCreateUserCmd() *cobra.Command {
	var username, password string
	cmd := &cobra.Command{
		Use:   "createuser",
		Short: "Create a user who can log in and obtain tokens",
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer store.Close()

			user, err := services.NewUserService(store.Users).CreateUser(cmd.Context(), username, password)
			if err != nil {
				if errors.Is(err, repositories.ErrDuplicateUsername) {
					return fmt.Errorf("user %q already exists", username)
				}
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created user %s (id=%d)\n", user.Username, user.ID)
			return nil
		},
	}
	cmd.Flags().StringVarP(&username, "username", "u", "", "login name")
	cmd.Flags().StringVarP(&password, "password", "p", "", "password (stored as a bcrypt hash)")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

// openStore は .env と環境変数の設定でデータベースへ接続し、初期スキーマを用意します。
func openStore(ctx context.Context) (*database.Store, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return database.Open(ctx, cfg.Database)
}
