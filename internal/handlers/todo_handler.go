// Package handlers は gin のハンドラーを提供します。
package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"nany-todo/internal/models"
	"nany-todo/internal/services"
)

// TodoHandler は /api/todos のハンドラーを管理します。
type TodoHandler struct {
	store services.TaskStore
}

// NewTodoHandler は新しいTodoHandlerを作成します。
func NewTodoHandler(store services.TaskStore) *TodoHandler {
	return &TodoHandler{store: store}
}

// GetTodosHandler は全件を作成日時の降順で返します。
func (h *TodoHandler) GetTodosHandler(c *gin.Context) {
	tasks, err := h.store.ListTasks(c.Request.Context())
	if err != nil {
		respondStoreError(c, "Failed to fetch todos", err)
		return
	}
	c.JSON(http.StatusOK, tasks)
}

// CreateTodoHandler は新しいTodoを作成します。
func (h *TodoHandler) CreateTodoHandler(c *gin.Context) {
	var req models.TaskCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "details": err.Error()})
		return
	}
	title := strings.TrimSpace(req.Title)
	if title == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Title is required"})
		return
	}

	created, err := h.store.InsertTask(c.Request.Context(), title)
	if err != nil {
		respondStoreError(c, "Failed to save todo", err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// UpdateTodoHandler は指定されたフィールドだけを更新します。
func (h *TodoHandler) UpdateTodoHandler(c *gin.Context) {
	id := c.Param("id")

	var patch models.TaskPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "details": err.Error()})
		return
	}
	if patch.IsEmpty() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Nothing to update"})
		return
	}
	if patch.Title != nil && strings.TrimSpace(*patch.Title) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Title must not be empty"})
		return
	}

	if err := h.store.UpdateTask(c.Request.Context(), id, patch); err != nil {
		respondStoreError(c, "Failed to update todo", err)
		return
	}
	c.Status(http.StatusNoContent)
}

// DeleteTodoHandler は指定されたIDのTodoを削除します。
func (h *TodoHandler) DeleteTodoHandler(c *gin.Context) {
	if err := h.store.DeleteTask(c.Request.Context(), c.Param("id")); err != nil {
		respondStoreError(c, "Failed to delete todo", err)
		return
	}
	c.Status(http.StatusNoContent)
}

func respondStoreError(c *gin.Context, msg string, err error) {
	status := http.StatusInternalServerError
	switch models.KindOf(err) {
	case models.KindNotFound:
		status = http.StatusNotFound
		msg = "Todo not found"
	case models.KindInvalid:
		status = http.StatusBadRequest
	case models.KindUnauthorized:
		status = http.StatusBadGateway
	case models.KindUnavailable:
		status = http.StatusServiceUnavailable
	}
	_ = c.Error(err)
	c.JSON(status, gin.H{"error": msg, "details": err.Error()})
}
