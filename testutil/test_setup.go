package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"go-task-list/backend/internal/events"
	"go-task-list/backend/internal/models"
	"go-task-list/backend/internal/routes"
	"go-task-list/backend/internal/services"
)

const (
	// TestJWTSecret はテスト用の署名鍵です。
	TestJWTSecret = "test-secret"

	NormalUsername = "normal_user"
	NormalPassword = "password123"
)

// TestEnv はテスト用に組み立てたルーターと依存関係です。
type TestEnv struct {
	Router    *gin.Engine
	TaskRepo  *MemoryTaskRepository
	UserRepo  *MemoryUserRepository
	Publisher *RecordingPublisher
	Pinger    *FakePinger
	JWT       *services.JWTService
}

// SetupTestRouter はメモリ上のリポジトリでGinルーターをセットアップし、テストユーザーを投入します。
func SetupTestRouter(t *testing.T) *TestEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	env := &TestEnv{
		TaskRepo:  NewMemoryTaskRepository(),
		UserRepo:  NewMemoryUserRepository(),
		Publisher: &RecordingPublisher{},
		Pinger:    &FakePinger{},
		JWT:       services.NewJWTService(TestJWTSecret, 5*time.Minute, 24*time.Hour),
	}

	userService := services.NewUserService(env.UserRepo)
	_, err := userService.CreateUser(context.Background(), NormalUsername, NormalPassword)
	require.NoError(t, err)

	env.Router = routes.SetupRouter(routes.Services{
		Tasks: services.NewTaskService(env.TaskRepo, env.Publisher),
		Users: userService,
		JWT:   env.JWT,
	}, env.Pinger, []string{"http://localhost:3000"})
	return env
}

// PerformJSON はJSONボディ付きのリクエストを送信します。token が空の場合は認証ヘッダーを付けません。
func PerformJSON(router *gin.Engine, method, path, token string, payload interface{}) *httptest.ResponseRecorder {
	var body *bytes.Buffer
	if payload == nil {
		body = &bytes.Buffer{}
	} else {
		raw, _ := json.Marshal(payload)
		body = bytes.NewBuffer(raw)
	}
	req, _ := http.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

// PerformForm はHTMLフォームの送信を模倣します。
func PerformForm(router *gin.Engine, method, path string, form url.Values) *httptest.ResponseRecorder {
	req, _ := http.NewRequest(method, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

// LoginAndGetToken はログインしてアクセストークンを返します。
func LoginAndGetToken(t *testing.T, router *gin.Engine, username, password string) (string, error) {
	t.Helper()
	tokens, err := Login(router, username, password)
	if err != nil {
		return "", err
	}
	return tokens.Access, nil
}

// Login はログインしてトークンペアを返します。
func Login(router *gin.Engine, username, password string) (*models.TokenPair, error) {
	resp := PerformJSON(router, http.MethodPost, "/login/", "", map[string]string{
		"username": username,
		"password": password,
	})
	if resp.Code != http.StatusOK {
		return nil, fmt.Errorf("login failed with status %d: %s", resp.Code, resp.Body.String())
	}

	var tokens models.TokenPair
	if err := json.Unmarshal(resp.Body.Bytes(), &tokens); err != nil {
		return nil, fmt.Errorf("failed to unmarshal login response: %w", err)
	}
	if tokens.Access == "" {
		return nil, errors.New("access token not found in login response")
	}
	return &tokens, nil
}

// CreateTestTask はREST API経由でテスト用のTaskを作成します。
func CreateTestTask(t *testing.T, router *gin.Engine, token, title string) *models.Task {
	t.Helper()
	resp := PerformJSON(router, http.MethodPost, "/api/tasks/", token, map[string]interface{}{"title": title})
	require.Equal(t, http.StatusCreated, resp.Code, "Task作成に失敗しました: %s", resp.Body.String())

	var created models.Task
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &created))
	return &created
}

// RecordingPublisher は送信されたイベントを記録するPublisherです。
type RecordingPublisher struct {
	mu     sync.Mutex
	events []events.TaskEvent
}

func (p *RecordingPublisher) Publish(_ context.Context, event events.TaskEvent) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
}

func (p *RecordingPublisher) Close() error { return nil }

// Actions は記録されたイベントのactionを順に返します。
func (p *RecordingPublisher) Actions() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	actions := make([]string, 0, len(p.events))
	for _, e := range p.events {
		actions = append(actions, e.Action)
	}
	return actions
}

// Events は記録されたイベントのコピーを返します。
func (p *RecordingPublisher) Events() []events.TaskEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]events.TaskEvent(nil), p.events...)
}

// FakePinger はヘルスチェック用のPingerです。Err を設定すると失敗します。
type FakePinger struct {
	Err error
}

func (p *FakePinger) PingContext(context.Context) error { return p.Err }
