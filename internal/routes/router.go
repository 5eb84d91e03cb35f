// Package routesはroutingを行います。
package routes

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"go-task-list/backend/internal/handlers"
	"go-task-list/backend/internal/services"
	"go-task-list/backend/internal/web"
)

// Pinger はヘルスチェックで使うデータストアへの疎通確認です (*sql.DB が満たします)。
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Services はルーターに注入するサービス群です。
type Services struct {
	Tasks *services.TaskService
	Users *services.UserService
	JWT   *services.JWTService
}

// SetupRouter はGinルーターをセットアップし、すべてのエンドポイントを登録します。
func SetupRouter(svc Services, db Pinger, allowOrigins []string) *gin.Engine {
	r := gin.Default()

	// CORS対策
	config := cors.DefaultConfig()
	config.AllowOrigins = allowOrigins
	config.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	config.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization"}
	config.AllowCredentials = true
	r.Use(cors.New(config))

	r.SetHTMLTemplate(web.Templates())

	// ハンドラー
	userHandler := handlers.NewUserHandler(svc.Users, svc.JWT)
	taskHandler := handlers.NewTaskHandler(svc.Tasks)
	pageHandler := handlers.NewPageHandler(svc.Tasks)

	// ルーティング
	r.GET("/", func(c *gin.Context) {
		c.Redirect(http.StatusFound, handlers.TaskPagePath)
	})
	r.POST("/login/", userHandler.LoginHandler)
	r.POST("/token/refresh/", userHandler.RefreshHandler)

	// HTML画面
	r.GET("/tasks/", pageHandler.TaskPageHandler)
	r.POST("/tasks/", pageHandler.TaskPageHandler)
	r.POST("/tasks/:id/complete/", pageHandler.CompleteTaskHandler)
	r.POST("/tasks/:id/delete/", pageHandler.DeleteTaskHandler)

	api := r.Group("/api")
	api.GET("/health", healthHandler(db))

	authorized := api.Group("/")
	authorized.Use(AuthMiddleware(svc.JWT))
	{
		authorized.GET("/tasks/", taskHandler.GetTasksHandler)
		authorized.POST("/tasks/", taskHandler.CreateTaskHandler)
		authorized.GET("/tasks/:id/", taskHandler.GetTaskByIDHandler)
		authorized.PUT("/tasks/:id/", taskHandler.UpdateTaskHandler)
		authorized.PATCH("/tasks/:id/", taskHandler.PatchTaskHandler)
		authorized.DELETE("/tasks/:id/", taskHandler.DeleteTaskHandler)
	}

	return r
}

func healthHandler(db Pinger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := db.PingContext(ctx); err != nil {
			log.Printf("Health check failed: %v", err)
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "error", "message": "Database connection failed"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
