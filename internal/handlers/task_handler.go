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

// TaskHandler はTaskのREST APIハンドラーを管理します。
type TaskHandler struct {
	taskService *services.TaskService
}

// NewTaskHandler は新しいTaskHandlerを作成します。
func NewTaskHandler(taskService *services.TaskService) *TaskHandler {
	return &TaskHandler{taskService: taskService}
}

// GetTasksHandler はTask一覧を作成日時の降順で返します。
func (h *TaskHandler) GetTasksHandler(c *gin.Context) {
	tasks, err := h.taskService.ListTasks(c.Request.Context())
	if err != nil {
		log.Printf("Failed to fetch tasks: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch tasks"})
		return
	}
	c.JSON(http.StatusOK, tasks)
}

// GetTaskByIDHandler は指定IDのTaskを返します。
func (h *TaskHandler) GetTaskByIDHandler(c *gin.Context) {
	id, ok := parseTaskID(c)
	if !ok {
		return
	}
	task, err := h.taskService.GetTask(c.Request.Context(), id)
	if err != nil {
		respondTaskError(c, err, "Failed to fetch task")
		return
	}
	c.JSON(http.StatusOK, task)
}

// CreateTaskHandler は新しいTaskを作成します。
// completed は1回の挿入で保存されるため、失敗時に行は残りません。
func (h *TaskHandler) CreateTaskHandler(c *gin.Context) {
	var req models.TaskCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "details": err.Error()})
		return
	}

	task, err := h.taskService.CreateTask(c.Request.Context(), req.Title, req.Completed)
	if err != nil {
		respondTaskError(c, err, "Failed to save task to database")
		return
	}
	c.JSON(http.StatusCreated, task)
}

// UpdateTaskHandler はTaskを全体更新します (PUT)。
func (h *TaskHandler) UpdateTaskHandler(c *gin.Context) {
	id, ok := parseTaskID(c)
	if !ok {
		return
	}
	var req models.TaskUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "details": err.Error()})
		return
	}
	task, err := h.taskService.UpdateTask(c.Request.Context(), id, req.Fields())
	if err != nil {
		respondTaskError(c, err, "Failed to update task")
		return
	}
	c.JSON(http.StatusOK, task)
}

// PatchTaskHandler はTaskを部分更新します (PATCH)。
func (h *TaskHandler) PatchTaskHandler(c *gin.Context) {
	id, ok := parseTaskID(c)
	if !ok {
		return
	}
	var req models.TaskPatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "details": err.Error()})
		return
	}
	task, err := h.taskService.UpdateTask(c.Request.Context(), id, req.Fields())
	if err != nil {
		respondTaskError(c, err, "Failed to update task")
		return
	}
	c.JSON(http.StatusOK, task)
}

// DeleteTaskHandler はTaskを削除します。
func (h *TaskHandler) DeleteTaskHandler(c *gin.Context) {
	id, ok := parseTaskID(c)
	if !ok {
		return
	}
	if err := h.taskService.DeleteTask(c.Request.Context(), id); err != nil {
		respondTaskError(c, err, "Failed to delete task")
		return
	}
	c.Status(http.StatusNoContent)
}

// parseTaskID はパスパラメータ :id を解釈します。不正な場合は400を返します。
func parseTaskID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID format"})
		return 0, false
	}
	return id, true
}

// respondTaskError はリポジトリのエラーをHTTPステータスに変換します。
func respondTaskError(c *gin.Context, err error, message string) {
	switch {
	case errors.Is(err, repositories.ErrTaskNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
	case errors.Is(err, repositories.ErrInvalidTitle):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		log.Printf("%s: %v", message, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": message})
	}
}
