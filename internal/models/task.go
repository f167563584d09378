// Package models はアプリケーション全体で使うドメイン型を定義します。
package models

import "time"

// Task は todos テーブルの1行を表します。
// ID はストア側で採番され、以後変更されません。
type Task struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Completed bool      `json:"completed"`
	CreatedAt time.Time `json:"created_at"`
}

// TaskPatch は部分更新のフィールドです。nil のフィールドは更新しません。
type TaskPatch struct {
	Title     *string `json:"title,omitempty"`
	Completed *bool   `json:"completed,omitempty"`
}

// IsEmpty は更新対象のフィールドが1つもない場合に true を返します。
func (p TaskPatch) IsEmpty() bool {
	return p.Title == nil && p.Completed == nil
}

// TitlePatch はタイトルだけを更新するパッチを作ります。
func TitlePatch(title string) TaskPatch {
	return TaskPatch{Title: &title}
}

// CompletedPatch は完了状態だけを更新するパッチを作ります。
func CompletedPatch(completed bool) TaskPatch {
	return TaskPatch{Completed: &completed}
}

// TaskCreateRequest は POST /api/todos のリクエストボディです。
type TaskCreateRequest struct {
	Title string `json:"title" binding:"required"`
}

// APIKeyClaims は API キー (JWT) から取り出したクレームです。
type APIKeyClaims struct {
	Role string `json:"role"`
}
