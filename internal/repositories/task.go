package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"nany-todo/internal/models"
)

// ErrTaskNotFound は対象の行が存在しない場合のエラーです。
var ErrTaskNotFound = errors.New("todo not found")

// TaskRepository は todos テーブルに対する services.TaskStore の実装です。
type TaskRepository struct {
	DB *sql.DB

	now   func() time.Time
	newID func() string
}

// NewTaskRepository は新しいTaskRepositoryインスタンスを作成します。
func NewTaskRepository(db *sql.DB) *TaskRepository {
	return &TaskRepository{
		DB:    db,
		now:   func() time.Time { return time.Now().UTC() },
		newID: uuid.NewString,
	}
}

// WithClock は created_at に使う時計を差し替えます。テスト用です。
func (r *TaskRepository) WithClock(now func() time.Time) *TaskRepository {
	r.now = now
	return r
}

// InsertTask は新しい行を挿入し、保存された行を返します。
func (r *TaskRepository) InsertTask(ctx context.Context, title string) (models.Task, error) {
	const op = "insert todo"
	if strings.TrimSpace(title) == "" {
		return models.Task{}, models.NewRemoteError(op, models.KindInvalid, errors.New("title is required"))
	}

	id := r.newID()
	query := "INSERT INTO todos (id, title, completed, created_at) VALUES (?, ?, ?, ?)"
	if _, err := r.DB.ExecContext(ctx, query, id, title, false, r.now()); err != nil {
		return models.Task{}, models.NewRemoteError(op, classify(err), fmt.Errorf("could not insert todo: %w", err))
	}

	t, err := r.FindByID(ctx, id)
	if err != nil {
		return models.Task{}, models.NewRemoteError(op, models.KindOf(err), err)
	}
	return t, nil
}

// ListTasks はすべての行を作成日時の降順で返します。
func (r *TaskRepository) ListTasks(ctx context.Context) ([]models.Task, error) {
	const op = "list todos"
	query := "SELECT id, title, completed, created_at FROM todos ORDER BY created_at DESC"

	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, models.NewRemoteError(op, classify(err), fmt.Errorf("could not query todos: %w", err))
	}
	defer rows.Close()

	tasks := []models.Task{}
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, models.NewRemoteError(op, models.KindUnknown, fmt.Errorf("could not scan todo: %w", err))
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, models.NewRemoteError(op, classify(err), fmt.Errorf("error iterating todos: %w", err))
	}
	return tasks, nil
}

// FindByID は指定されたIDの行を返します。
func (r *TaskRepository) FindByID(ctx context.Context, id string) (models.Task, error) {
	const op = "find todo"
	query := "SELECT id, title, completed, created_at FROM todos WHERE id = ?"

	t, err := scanTask(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Task{}, models.NewRemoteError(op, models.KindNotFound, ErrTaskNotFound)
		}
		return models.Task{}, models.NewRemoteError(op, classify(err), fmt.Errorf("could not query todo: %w", err))
	}
	return t, nil
}

// UpdateTask は patch で指定されたフィールドだけを更新します。
func (r *TaskRepository) UpdateTask(ctx context.Context, id string, patch models.TaskPatch) error {
	const op = "update todo"
	if patch.IsEmpty() {
		return models.NewRemoteError(op, models.KindInvalid, errors.New("nothing to update"))
	}

	var sets []string
	var args []interface{}
	if patch.Title != nil {
		sets = append(sets, "title = ?")
		args = append(args, *patch.Title)
	}
	if patch.Completed != nil {
		sets = append(sets, "completed = ?")
		args = append(args, *patch.Completed)
	}
	args = append(args, id)

	query := "UPDATE todos SET " + strings.Join(sets, ", ") + " WHERE id = ?"
	result, err := r.DB.ExecContext(ctx, query, args...)
	if err != nil {
		return models.NewRemoteError(op, classify(err), fmt.Errorf("could not update todo: %w", err))
	}
	return checkAffected(op, result)
}

// DeleteTask は指定されたIDの行を削除します。
func (r *TaskRepository) DeleteTask(ctx context.Context, id string) error {
	const op = "delete todo"
	result, err := r.DB.ExecContext(ctx, "DELETE FROM todos WHERE id = ?", id)
	if err != nil {
		return models.NewRemoteError(op, classify(err), fmt.Errorf("could not delete todo: %w", err))
	}
	return checkAffected(op, result)
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

// completed は NULL を許容するので、ここで false に寄せる
func scanTask(row rowScanner) (models.Task, error) {
	var t models.Task
	var completed sql.NullBool
	if err := row.Scan(&t.ID, &t.Title, &completed, &t.CreatedAt); err != nil {
		return models.Task{}, err
	}
	t.Completed = completed.Valid && completed.Bool
	return t, nil
}

func checkAffected(op string, result sql.Result) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return models.NewRemoteError(op, models.KindUnknown, fmt.Errorf("could not get rows affected: %w", err))
	}
	if rowsAffected == 0 {
		return models.NewRemoteError(op, models.KindNotFound, ErrTaskNotFound)
	}
	return nil
}
