// Package services はストアの契約と画面状態 (Board) を扱います。
package services

import (
	"context"

	"nany-todo/internal/models"
)

// TaskStore はリモートのテーブルストアに対する4操作の契約です。
// 1回の呼び出しは1往復で、リトライはしません。
// 失敗時は *models.RemoteError を返します。
type TaskStore interface {
	// InsertTask は行を挿入し、ストアが採番した行を返します。
	InsertTask(ctx context.Context, title string) (models.Task, error)

	// ListTasks はすべての行を作成日時の降順で返します。
	ListTasks(ctx context.Context) ([]models.Task, error)

	// UpdateTask は id の行に patch を適用します。
	UpdateTask(ctx context.Context, id string, patch models.TaskPatch) error

	// DeleteTask は id の行を削除します。
	DeleteTask(ctx context.Context, id string) error
}
