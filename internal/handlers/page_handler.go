package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"go-task-list/backend/internal/models"
	"go-task-list/backend/internal/repositories"
	"go-task-list/backend/internal/services"
)

// TaskPagePath はHTML一覧画面のパスです。
const TaskPagePath = "/tasks/"

// PageHandler はサーバーサイドレンダリングのTask画面を扱います。
type PageHandler struct {
	taskService *services.TaskService
}

// NewPageHandler は新しいPageHandlerを作成します。
func NewPageHandler(taskService *services.TaskService) *PageHandler {
	return &PageHandler{taskService: taskService}
}

// TaskPageHandler は一覧を表示し、POST時はタスクを作成して一覧へリダイレクトします。
// タイトルが空のPOSTは何も作成せず一覧を再表示します。
func (h *PageHandler) TaskPageHandler(c *gin.Context) {
	if c.Request.Method == http.MethodPost {
		var form models.TaskForm
		if err := c.ShouldBind(&form); err != nil {
			log.Printf("Failed to bind task form: %v", err)
		}
		if form.Title != "" {
			_, err := h.taskService.CreateTask(c.Request.Context(), form.Title, false)
			switch {
			case err == nil:
				// リロードによる二重送信を避けるため303でGETに切り替える
				c.Redirect(http.StatusSeeOther, TaskPagePath)
				return
			case !errors.Is(err, repositories.ErrInvalidTitle):
				h.renderError(c, err)
				return
			}
		}
	}

	tasks, err := h.taskService.ListTasks(c.Request.Context())
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.HTML(http.StatusOK, "tasks.html", gin.H{"tasks": tasks})
}

// CompleteTaskHandler はタスクを完了にして一覧へリダイレクトします。
func (h *PageHandler) CompleteTaskHandler(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}
	if _, err := h.taskService.CompleteTask(c.Request.Context(), id); err != nil {
		h.renderError(c, err)
		return
	}
	c.Redirect(http.StatusSeeOther, TaskPagePath)
}

// DeleteTaskHandler はタスクを削除して一覧へリダイレクトします。
func (h *PageHandler) DeleteTaskHandler(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}
	if err := h.taskService.DeleteTask(c.Request.Context(), id); err != nil {
		h.renderError(c, err)
		return
	}
	c.Redirect(http.StatusSeeOther, TaskPagePath)
}

func (h *PageHandler) parseID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.HTML(http.StatusNotFound, "error.html", gin.H{"status": http.StatusNotFound, "message": "Task not found."})
		return 0, false
	}
	return id, true
}

// renderError はエラーページを表示します (未処理の例外画面は出さない)。
func (h *PageHandler) renderError(c *gin.Context, err error) {
	if errors.Is(err, repositories.ErrTaskNotFound) {
		c.HTML(http.StatusNotFound, "error.html", gin.H{"status": http.StatusNotFound, "message": "Task not found."})
		return
	}
	log.Printf("Task page error: %v", err)
	c.HTML(http.StatusInternalServerError, "error.html", gin.H{
		"status":  http.StatusInternalServerError,
		"message": "Something went wrong. Please try again.",
	})
}
