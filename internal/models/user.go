package models

import "time"

// User はユーザーのデータベース構造体を表します。
// パスワードはbcryptのハッシュのみを保存し、JSONには出力しません。
type User struct {
	ID           int       `json:"id" gorm:"primaryKey;autoIncrement"`
	Username     string    `json:"username" gorm:"size:150;not null;uniqueIndex"`
	PasswordHash string    `json:"-" gorm:"column:password_hash;size:255;not null"`
	CreatedAt    time.Time `json:"created_at" gorm:"not null;autoCreateTime"`
}

// TableName はGORMが使用するテーブル名を返します。
func (User) TableName() string {
	return "users"
}

// LoginRequest はログインリクエストの構造体です。
// 未入力は認証失敗 (401) として扱うため binding:"required" は付けません。
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// RefreshRequest はアクセストークン再発行リクエストです。
type RefreshRequest struct {
	Refresh string `json:"refresh" binding:"required"`
}

// TokenPair はログイン成功時のレスポンスです。
type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// JWTClaims は検証済みトークンから取り出したユーザー情報です。
type JWTClaims struct {
	UserID    int
	Username  string
	TokenType string
}
