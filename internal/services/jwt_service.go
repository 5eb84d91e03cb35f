package services

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"go-task-list/backend/internal/models"
)

const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"

	tokenIssuer = "task-list-backend"
)

// ErrInvalidToken はトークンが不正・期限切れ・種別違いの場合のエラーです。
var ErrInvalidToken = errors.New("invalid or expired token")

// Claims はアクセス/リフレッシュトークン共通のクレームです。
type Claims struct {
	UserID    int    `json:"user_id"`
	Username  string `json:"username"`
	TokenType string `json:"token_type"`
	jwt.RegisteredClaims
}

// JWTService はJWTトークンの生成と検証を扱います。
type JWTService struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

// NewJWTService は新しいJWTServiceを作成します。
func NewJWTService(secret string, accessTTL, refreshTTL time.Duration) *JWTService {
	return &JWTService{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		now:        time.Now,
	}
}

// GenerateTokenPair はアクセストークンとリフレッシュトークンを発行します。
// jti が異なるため2つのトークンは必ず別の文字列になります。
func (s *JWTService) GenerateTokenPair(user *models.User) (*models.TokenPair, error) {
	access, err := s.sign(user.ID, user.Username, TokenTypeAccess, s.accessTTL)
	if err != nil {
		return nil, err
	}
	refresh, err := s.sign(user.ID, user.Username, TokenTypeRefresh, s.refreshTTL)
	if err != nil {
		return nil, err
	}
	return &models.TokenPair{Access: access, Refresh: refresh}, nil
}

// RefreshAccessToken はリフレッシュトークンを検証し、新しいアクセストークンを返します。
func (s *JWTService) RefreshAccessToken(refreshToken string) (string, error) {
	claims, err := s.parse(refreshToken, TokenTypeRefresh)
	if err != nil {
		return "", err
	}
	return s.sign(claims.UserID, claims.Username, TokenTypeAccess, s.accessTTL)
}

// ValidateAccessToken はアクセストークンを検証し、クレームを返します。
func (s *JWTService) ValidateAccessToken(tokenString string) (*models.JWTClaims, error) {
	return s.parse(tokenString, TokenTypeAccess)
}

func (s *JWTService) sign(userID int, username, tokenType string, ttl time.Duration) (string, error) {
	now := s.now()
	claims := &Claims{
		UserID:    userID,
		Username:  username,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    tokenIssuer,
			Subject:   strconv.Itoa(userID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign %s token: %w", tokenType, err)
	}
	return tokenString, nil
}

func (s *JWTService) parse(tokenString, wantType string) (*models.JWTClaims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	},
		jwt.WithIssuer(tokenIssuer),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid || claims.TokenType != wantType {
		return nil, ErrInvalidToken
	}
	return &models.JWTClaims{
		UserID:    claims.UserID,
		Username:  claims.Username,
		TokenType: claims.TokenType,
	}, nil
}
