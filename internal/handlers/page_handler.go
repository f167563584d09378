package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"nany-todo/internal/services"
)

// PageHandler はToDo画面 (HTML) のハンドラーです。
// 失敗は Board のエラー欄に残るので、どの操作も / にリダイレクトします。
type PageHandler struct {
	board *services.Board
}

// NewPageHandler は新しいPageHandlerを作成します。
func NewPageHandler(board *services.Board) *PageHandler {
	return &PageHandler{board: board}
}

// IndexHandler は現在の Board を描画します。
func (h *PageHandler) IndexHandler(c *gin.Context) {
	c.HTML(http.StatusOK, "todos.html", h.board.View())
}

// AddHandler はフォームの title でタスクを追加します。
func (h *PageHandler) AddHandler(c *gin.Context) {
	_ = h.board.AddTask(c.Request.Context(), c.PostForm("title"))
	backToIndex(c)
}

// ToggleHandler はフォームの completed (現在値) を反転します。
func (h *PageHandler) ToggleHandler(c *gin.Context) {
	current, _ := strconv.ParseBool(c.PostForm("completed"))
	_ = h.board.ToggleComplete(c.Request.Context(), c.Param("id"), current)
	backToIndex(c)
}

// EditHandler は編集モードに入ります。
func (h *PageHandler) EditHandler(c *gin.Context) {
	h.board.BeginEdit(c.Param("id"), c.PostForm("title"))
	backToIndex(c)
}

// SaveHandler は編集中テキストを保存します。
func (h *PageHandler) SaveHandler(c *gin.Context) {
	h.board.SetEditText(c.PostForm("text"))
	_ = h.board.SaveEdit(c.Request.Context(), c.Param("id"))
	backToIndex(c)
}

// CancelHandler は編集モードを抜けます。
func (h *PageHandler) CancelHandler(c *gin.Context) {
	h.board.CancelEdit()
	backToIndex(c)
}

// DeleteHandler はタスクを削除します。
func (h *PageHandler) DeleteHandler(c *gin.Context) {
	_ = h.board.DeleteTask(c.Request.Context(), c.Param("id"))
	backToIndex(c)
}

// ReloadHandler はストアから一覧を読み直します。
func (h *PageHandler) ReloadHandler(c *gin.Context) {
	_ = h.board.LoadTasks(c.Request.Context())
	backToIndex(c)
}

// DismissHandler はエラー表示を消します。
func (h *PageHandler) DismissHandler(c *gin.Context) {
	h.board.DismissError()
	backToIndex(c)
}

func backToIndex(c *gin.Context) {
	c.Redirect(http.StatusSeeOther, "/")
}
