// Package routes はルーティングを行います。
package routes

import (
	"database/sql"
	"errors"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"nany-todo/internal/handlers"
	"nany-todo/internal/logging"
	"nany-todo/internal/services"
	"nany-todo/internal/web"
)

// Dependencies はルーターに注入する依存です。
type Dependencies struct {
	Store  services.TaskStore
	Board  *services.Board
	Logger *log.Logger

	// Keys が nil の場合 /api/todos は登録しません。
	Keys *services.APIKeyService
	// DB は SQL バックエンドの場合のみ設定します (/api/dbcheck)。
	DB *sql.DB

	AllowOrigins []string
}

// SetupRouter はGinルーターをセットアップし、すべてのエンドポイントを登録します。
func SetupRouter(deps Dependencies) (*gin.Engine, error) {
	if deps.Store == nil || deps.Board == nil || deps.Logger == nil {
		return nil, errors.New("routes: store, board and logger are required")
	}

	tmpl, err := web.Templates()
	if err != nil {
		return nil, err
	}

	r := gin.New()
	r.Use(gin.Recovery(), logging.RequestLogger(deps.Logger))
	r.SetHTMLTemplate(tmpl)

	// CORS対策
	config := cors.DefaultConfig()
	config.AllowOrigins = deps.AllowOrigins
	config.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	config.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization", "apikey"}
	config.MaxAge = 12 * time.Hour
	if len(config.AllowOrigins) == 0 {
		config.AllowOrigins = []string{"http://localhost:3000"}
	}
	r.Use(cors.New(config))

	// 画面
	pageHandler := handlers.NewPageHandler(deps.Board)
	r.GET("/", pageHandler.IndexHandler)
	r.POST("/todos", pageHandler.AddHandler)
	r.POST("/todos/:id/toggle", pageHandler.ToggleHandler)
	r.POST("/todos/:id/edit", pageHandler.EditHandler)
	r.POST("/todos/:id/save", pageHandler.SaveHandler)
	r.POST("/todos/:id/cancel", pageHandler.CancelHandler)
	r.POST("/todos/:id/delete", pageHandler.DeleteHandler)
	r.POST("/reload", pageHandler.ReloadHandler)
	r.POST("/dismiss", pageHandler.DismissHandler)
	r.GET("/home", handlers.HomeHandler)
	r.GET("/home/a", handlers.HomeAHandler)

	// API
	r.GET("/api/hello", handlers.HelloHandler)
	if deps.DB != nil {
		r.GET("/api/dbcheck", handlers.DBCheckHandler(deps.DB))
	}

	if deps.Keys == nil {
		deps.Logger.Warn("JWT_SECRET not set, /api/todos is disabled")
		return r, nil
	}

	todoHandler := handlers.NewTodoHandler(deps.Store)
	api := r.Group("/api/todos")
	api.Use(APIKeyMiddleware(deps.Keys), RequireServiceRole())
	{
		api.GET("", todoHandler.GetTodosHandler)
		api.POST("", todoHandler.CreateTodoHandler)
		api.PUT("/:id", todoHandler.UpdateTodoHandler)
		api.PATCH("/:id", todoHandler.UpdateTodoHandler)
		api.DELETE("/:id", todoHandler.DeleteTodoHandler)
	}

	return r, nil
}
