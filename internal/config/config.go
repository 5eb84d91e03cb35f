// Package config は環境変数と .env ファイルから設定を読み込みます。
package config

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
)

// Config はアプリケーション全体の設定です。
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	JWT      JWTConfig
	Kafka    KafkaConfig
}

type ServerConfig struct {
	Port         string
	GinMode      string
	AllowOrigins []string
}

type DatabaseConfig struct {
	Driver          string
	User            string
	Pass            string
	Host            string
	Port            string
	Name            string
	DSN             string // 指定された場合は上記から組み立てたDSNより優先
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

type JWTConfig struct {
	Secret     string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

type KafkaConfig struct {
	Broker string
	Topic  string
}

// Enabled はKafkaへのイベント送信が設定されているかを返します。
func (k KafkaConfig) Enabled() bool {
	return k.Broker != "" && k.Topic != ""
}

// Load は .env (存在すれば) と環境変数から設定を読み込みます。
func Load(envFiles ...string) (*Config, error) {
	if err := godotenv.Load(envFiles...); err != nil {
		log.Printf("No .env file loaded, using environment only: %v", err)
	}
	return FromViper(newViper())
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("PORT", "8080")
	v.SetDefault("GIN_MODE", "debug")
	v.SetDefault("CORS_ORIGINS", "http://localhost:3000")
	v.SetDefault("DB_DRIVER", DriverMySQL)
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_MAX_OPEN_CONNS", 25)
	v.SetDefault("DB_MAX_IDLE_CONNS", 25)
	v.SetDefault("DB_CONN_MAX_LIFETIME", 5*time.Minute)
	v.SetDefault("JWT_ACCESS_TTL", 5*time.Minute)
	v.SetDefault("JWT_REFRESH_TTL", 24*time.Hour)
	v.SetDefault("KAFKA_TOPIC", "task-events")
	return v
}

// FromViper は viper インスタンスから Config を組み立てて検証します。
func FromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:         v.GetString("PORT"),
			GinMode:      v.GetString("GIN_MODE"),
			AllowOrigins: splitList(v.GetString("CORS_ORIGINS")),
		},
		Database: DatabaseConfig{
			Driver:          strings.ToLower(v.GetString("DB_DRIVER")),
			User:            v.GetString("DB_USER"),
			Pass:            v.GetString("DB_PASS"),
			Host:            v.GetString("DB_HOST"),
			Port:            v.GetString("DB_PORT"),
			Name:            v.GetString("DB_NAME"),
			DSN:             v.GetString("DB_DSN"),
			MaxOpenConns:    v.GetInt("DB_MAX_OPEN_CONNS"),
			MaxIdleConns:    v.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetime: v.GetDuration("DB_CONN_MAX_LIFETIME"),
		},
		JWT: JWTConfig{
			Secret:     v.GetString("JWT_SECRET"),
			AccessTTL:  v.GetDuration("JWT_ACCESS_TTL"),
			RefreshTTL: v.GetDuration("JWT_REFRESH_TTL"),
		},
		Kafka: KafkaConfig{
			Broker: v.GetString("KAFKA_BROKER"),
			Topic:  v.GetString("KAFKA_TOPIC"),
		},
	}

	if cfg.Database.Port == "" {
		switch cfg.Database.Driver {
		case DriverPostgres:
			cfg.Database.Port = "5432"
		default:
			cfg.Database.Port = "3306"
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate は必須項目と値の範囲を確認します。
func (c *Config) Validate() error {
	var errs []error
	if c.JWT.Secret == "" {
		errs = append(errs, errors.New("JWT_SECRET environment variable not set"))
	}
	if c.JWT.AccessTTL <= 0 || c.JWT.RefreshTTL <= 0 {
		errs = append(errs, errors.New("JWT_ACCESS_TTL and JWT_REFRESH_TTL must be positive"))
	}
	if c.Database.Driver != DriverMySQL && c.Database.Driver != DriverPostgres {
		errs = append(errs, fmt.Errorf("unsupported DB_DRIVER %q", c.Database.Driver))
	}
	switch c.Server.GinMode {
	case "debug", "release", "test":
	default:
		errs = append(errs, fmt.Errorf("unsupported GIN_MODE %q", c.Server.GinMode))
	}
	if len(c.Server.AllowOrigins) == 0 {
		errs = append(errs, errors.New("CORS_ORIGINS must list at least one origin"))
	}
	if c.Database.DSN == "" && c.Database.Name == "" {
		errs = append(errs, errors.New("DB_NAME or DB_DSN must be set"))
	}
	return errors.Join(errs...)
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
