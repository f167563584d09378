package services

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/charmbracelet/log"

	"nany-todo/internal/models"
)

// ErrEmptyTitle は空のタイトルで保存しようとした場合のエラーです。
var ErrEmptyTitle = errors.New("title must not be empty")

// Board はToDo画面の状態を保持し、ユーザー操作をストア呼び出しに変換します。
// 各操作は成功したストア呼び出しの結果だけをローカル状態に反映します。
// mu はストア呼び出しの間は保持しません。同じタスクへの同時操作は後に返った方が勝ちます。
type Board struct {
	store  TaskStore
	logger *log.Logger

	mu        sync.Mutex
	input     string
	tasks     []models.Task
	editingID string
	editText  string
	lastErr   string
}

// BoardView は描画用の状態のスナップショットです。
type BoardView struct {
	Input     string
	Tasks     []models.Task
	EditingID string
	EditText  string
	Error     string
}

// NewBoard は新しいBoardを作成します。
func NewBoard(store TaskStore, logger *log.Logger) *Board {
	return &Board{
		store:  store,
		logger: logger,
		tasks:  []models.Task{},
	}
}

// View は現在の状態のコピーを返します。
func (b *Board) View() BoardView {
	b.mu.Lock()
	defer b.mu.Unlock()

	tasks := make([]models.Task, len(b.tasks))
	copy(tasks, b.tasks)
	return BoardView{
		Input:     b.input,
		Tasks:     tasks,
		EditingID: b.editingID,
		EditText:  b.editText,
		Error:     b.lastErr,
	}
}

// SetInput は新規タスクの入力欄を更新します。
func (b *Board) SetInput(text string) {
	b.mu.Lock()
	b.input = text
	b.mu.Unlock()
}

// SetEditText は編集中テキストを更新します。
func (b *Board) SetEditText(text string) {
	b.mu.Lock()
	b.editText = text
	b.mu.Unlock()
}

// AddTask は text をタイトルとして挿入し、返された行を末尾に追加します。
// 空白のみの text は何もしません。失敗時は入力欄を残します。
func (b *Board) AddTask(ctx context.Context, text string) error {
	title := strings.TrimSpace(text)
	if title == "" {
		return nil
	}
	b.SetInput(text)

	created, err := b.store.InsertTask(ctx, title)
	if err != nil {
		b.fail("Failed to add todo", err)
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	// 読み込み時は降順だが、追加分は末尾に足す (再ソートしない)
	b.tasks = append(b.tasks, created)
	b.input = ""
	b.lastErr = ""
	return nil
}

// LoadTasks は全件を取得してローカルの一覧を置き換えます。
func (b *Board) LoadTasks(ctx context.Context) error {
	tasks, err := b.store.ListTasks(ctx)
	if err != nil {
		b.fail("Failed to fetch todos", err)
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.tasks = append([]models.Task{}, tasks...)
	b.lastErr = ""
	return nil
}

// DeleteTask は id の行を削除し、成功したらローカルからも取り除きます。
func (b *Board) DeleteTask(ctx context.Context, id string) error {
	if err := b.store.DeleteTask(ctx, id); err != nil {
		b.fail("Failed to delete todo", err)
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	kept := make([]models.Task, 0, len(b.tasks))
	for _, t := range b.tasks {
		if t.ID != id {
			kept = append(kept, t)
		}
	}
	b.tasks = kept
	b.lastErr = ""
	return nil
}

// BeginEdit は編集状態を開始します。ストアには触れません。
func (b *Board) BeginEdit(id, currentTitle string) {
	b.mu.Lock()
	b.editingID = id
	b.editText = currentTitle
	b.mu.Unlock()
}

// CancelEdit は編集状態を破棄します。
func (b *Board) CancelEdit() {
	b.mu.Lock()
	b.editingID = ""
	b.editText = ""
	b.mu.Unlock()
}

// SaveEdit は編集中テキストで id のタイトルを更新します。
// 失敗時は編集状態を残します。
func (b *Board) SaveEdit(ctx context.Context, id string) error {
	b.mu.Lock()
	text := b.editText
	b.mu.Unlock()

	if strings.TrimSpace(text) == "" {
		b.fail("Failed to update todo", ErrEmptyTitle)
		return ErrEmptyTitle
	}

	if err := b.store.UpdateTask(ctx, id, models.TitlePatch(text)); err != nil {
		b.fail("Failed to update todo", err)
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	for i := range b.tasks {
		if b.tasks[i].ID == id {
			b.tasks[i].Title = text
		}
	}
	b.editingID = ""
	b.editText = ""
	b.lastErr = ""
	return nil
}

// ToggleComplete は completed を !current に更新します。
func (b *Board) ToggleComplete(ctx context.Context, id string, current bool) error {
	next := !current
	if err := b.store.UpdateTask(ctx, id, models.CompletedPatch(next)); err != nil {
		b.fail("Failed to update completion", err)
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	for i := range b.tasks {
		if b.tasks[i].ID == id {
			b.tasks[i].Completed = next
		}
	}
	b.lastErr = ""
	return nil
}

// DismissError はエラー表示を消します。
func (b *Board) DismissError() {
	b.mu.Lock()
	b.lastErr = ""
	b.mu.Unlock()
}

func (b *Board) fail(msg string, err error) {
	b.logger.Error(msg, "err", err, "kind", models.KindOf(err))

	b.mu.Lock()
	b.lastErr = msg + ": " + err.Error()
	b.mu.Unlock()
}
