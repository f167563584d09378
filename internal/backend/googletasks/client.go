// Package googletasks は Google Tasks のリストを todos テーブルとして扱う services.TaskStore の実装です。
package googletasks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	tasks "google.golang.org/api/tasks/v1"

	"nany-todo/internal/config"
	"nany-todo/internal/models"
)

const (
	// APITimeout は1回のAPI呼び出しのタイムアウトです。
	APITimeout = 5 * time.Second

	// PageSize は一覧取得の1ページの件数です。
	PageSize = 100

	statusCompleted   = "completed"
	statusNeedsAction = "needsAction"

	tasksScope = "https://www.googleapis.com/auth/tasks"
)

// Client は1つのタスクリストを対象にした Google Tasks クライアントです。
type Client struct {
	svc    *tasks.Service
	listID string
}

// New は設定の OAuth クライアントとトークンから Client を作成します。
func New(ctx context.Context, cfg config.GoogleTasksConfig) (*Client, error) {
	clientJSON, err := os.ReadFile(cfg.CredentialsPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read oauth client file: %w", err)
	}
	oauthConfig, err := google.ConfigFromJSON(clientJSON, tasksScope)
	if err != nil {
		return nil, fmt.Errorf("invalid oauth client file: %w", err)
	}

	tokenData, err := os.ReadFile(cfg.TokenPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read token file: %w", err)
	}
	var token oauth2.Token
	if err := json.Unmarshal(tokenData, &token); err != nil {
		return nil, fmt.Errorf("invalid token file: %w", err)
	}

	// 期限切れのトークンは自動で更新される
	httpClient := oauth2.NewClient(ctx, oauthConfig.TokenSource(ctx, &token))
	return NewWithHTTPClient(ctx, httpClient, cfg.ListID)
}

// NewWithHTTPClient は任意の HTTP クライアントで Client を作成します。
// opts はテストでエンドポイントを差し替えるために使います。
func NewWithHTTPClient(ctx context.Context, httpClient *http.Client, listID string, opts ...option.ClientOption) (*Client, error) {
	opts = append([]option.ClientOption{option.WithHTTPClient(httpClient)}, opts...)
	svc, err := tasks.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create tasks service: %w", err)
	}
	return &Client{svc: svc, listID: listID}, nil
}

// InsertTask はリストにタスクを追加します。
func (c *Client) InsertTask(ctx context.Context, title string) (models.Task, error) {
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	created, err := c.svc.Tasks.Insert(c.listID, &tasks.Task{Title: title}).Context(ctx).Do()
	if err != nil {
		return models.Task{}, wrapError("insert todo", err)
	}
	return toModel(created), nil
}

// ListTasks は完了済みを含む全タスクを返します。
// Google Tasks には作成日時が無く、新しいタスクはリストの先頭に入るので API の順序をそのまま使います。
func (c *Client) ListTasks(ctx context.Context) ([]models.Task, error) {
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	result := []models.Task{}
	err := c.svc.Tasks.List(c.listID).
		MaxResults(PageSize).
		ShowCompleted(true).
		ShowHidden(true).
		ShowDeleted(false).
		Pages(ctx, func(resp *tasks.Tasks) error {
			for _, t := range resp.Items {
				result = append(result, toModel(t))
			}
			return nil
		})
	if err != nil {
		return nil, wrapError("list todos", err)
	}
	return result, nil
}

// UpdateTask は patch を Tasks.Patch に変換します。
func (c *Client) UpdateTask(ctx context.Context, id string, patch models.TaskPatch) error {
	const op = "update todo"
	if patch.IsEmpty() {
		return models.NewRemoteError(op, models.KindInvalid, errors.New("nothing to update"))
	}

	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	body := &tasks.Task{}
	if patch.Title != nil {
		body.Title = *patch.Title
		body.ForceSendFields = append(body.ForceSendFields, "Title")
	}
	if patch.Completed != nil {
		if *patch.Completed {
			body.Status = statusCompleted
		} else {
			// 未完了に戻すときは completed の日時も消す
			body.Status = statusNeedsAction
			body.NullFields = append(body.NullFields, "Completed")
		}
	}

	if _, err := c.svc.Tasks.Patch(c.listID, id, body).Context(ctx).Do(); err != nil {
		return wrapError(op, err)
	}
	return nil
}

// DeleteTask はタスクを削除します。
func (c *Client) DeleteTask(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	if err := c.svc.Tasks.Delete(c.listID, id).Context(ctx).Do(); err != nil {
		return wrapError("delete todo", err)
	}
	return nil
}

func toModel(t *tasks.Task) models.Task {
	task := models.Task{
		ID:        t.Id,
		Title:     t.Title,
		Completed: t.Status == statusCompleted,
	}
	if updated, err := time.Parse(time.RFC3339, t.Updated); err == nil {
		task.CreatedAt = updated
	}
	return task
}

// wrapError は API エラーを models.RemoteError に変換します。
func wrapError(op string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return models.NewRemoteError(op, models.KindUnavailable, fmt.Errorf("request timed out: %w", err))
	}

	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case http.StatusNotFound:
			return models.NewRemoteError(op, models.KindNotFound, err)
		case http.StatusUnauthorized, http.StatusForbidden:
			return models.NewRemoteError(op, models.KindUnauthorized, fmt.Errorf("token expired or revoked: %w", err))
		case http.StatusBadRequest:
			return models.NewRemoteError(op, models.KindInvalid, err)
		case http.StatusTooManyRequests, http.StatusServiceUnavailable, http.StatusBadGateway:
			return models.NewRemoteError(op, models.KindUnavailable, err)
		}
	}
	return models.NewRemoteError(op, models.KindUnknown, err)
}
