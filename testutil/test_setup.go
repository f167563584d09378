// Package testutil はテスト用のDB・ルーター・ストアを提供します。
package testutil

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"nany-todo/internal/config"
	"nany-todo/internal/database"
	"nany-todo/internal/models"
	"nany-todo/internal/repositories"
	"nany-todo/internal/routes"
	"nany-todo/internal/services"
)

// TestJWTSecret はテスト用のAPIキー署名シークレットです。
const TestJWTSecret = "test-secret"

// NewTestLogger は出力を捨てるロガーを返します。
func NewTestLogger() *log.Logger {
	return log.New(io.Discard)
}

// SetupTestDB は一時ディレクトリの sqlite にマイグレーション済みの DB を作ります。
// created_at はテストごとに1秒ずつ進む時計で決まるので並び順が安定します。
func SetupTestDB(t *testing.T) (*sql.DB, *repositories.TaskRepository) {
	t.Helper()

	cfg := config.DatabaseConfig{
		Driver: config.DriverSQLite,
		Path:   filepath.Join(t.TempDir(), "todo_test.db"),
	}
	db, err := database.Open(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, database.Migrate(db, cfg.Driver))

	clock := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	repo := repositories.NewTaskRepository(db).WithClock(func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	})
	return db, repo
}

// SetupTestRouter はテスト用のGinルーターと Board をセットアップします。
func SetupTestRouter(t *testing.T, store services.TaskStore, db *sql.DB) (*gin.Engine, *services.Board) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	keys, err := services.NewAPIKeyService(TestJWTSecret)
	require.NoError(t, err)

	logger := NewTestLogger()
	board := services.NewBoard(store, logger)
	r, err := routes.SetupRouter(routes.Dependencies{
		Store:        store,
		Board:        board,
		Logger:       logger,
		Keys:         keys,
		DB:           db,
		AllowOrigins: []string{"http://localhost:3000"},
	})
	require.NoError(t, err)
	return r, board
}

// APIKey はテスト用シークレットで role のキーを発行します。
func APIKey(t *testing.T, role string) string {
	t.Helper()
	keys, err := services.NewAPIKeyService(TestJWTSecret)
	require.NoError(t, err)
	key, err := keys.GenerateKey(role, time.Hour)
	require.NoError(t, err)
	return key
}

// CreateTestTodo は API 経由でTODOを作成します。
func CreateTestTodo(t *testing.T, router *gin.Engine, key, title string) models.Task {
	t.Helper()
	body, _ := json.Marshal(map[string]string{"title": title})

	req, _ := http.NewRequest(http.MethodPost, "/api/todos", bytes.NewBuffer(body))
	req.Header.Set("Authorization", "Bearer "+key)
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	require.Equal(t, http.StatusCreated, resp.Code, "failed to create todo: %s", resp.Body.String())

	var created models.Task
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &created))
	return created
}
