package testutil

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"nany-todo/internal/models"
)

// Op はMemoryStoreの操作名です。
type Op string

const (
	OpInsert Op = "insert"
	OpList   Op = "list"
	OpUpdate Op = "update"
	OpDelete Op = "delete"
)

// ErrSimulated は FailNext で注入されるデフォルトのエラーです。
var ErrSimulated = errors.New("simulated remote failure")

// MemoryStore はテスト用のメモリ上の services.TaskStore です。
// FailNext で次の1回の呼び出しを失敗させられます。
type MemoryStore struct {
	mu    sync.Mutex
	rows  map[string]models.Task
	seq   int
	base  time.Time
	fail  map[Op]error
	calls map[Op]int
}

// NewMemoryStore は空のMemoryStoreを作成します。
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		rows:  map[string]models.Task{},
		base:  time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		fail:  map[Op]error{},
		calls: map[Op]int{},
	}
}

// FailNext は op の次の呼び出しを err (nil なら ErrSimulated) で失敗させます。
func (s *MemoryStore) FailNext(op Op, err error) {
	if err == nil {
		err = ErrSimulated
	}
	s.mu.Lock()
	s.fail[op] = err
	s.mu.Unlock()
}

// Calls は op が呼ばれた回数を返します。
func (s *MemoryStore) Calls(op Op) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[op]
}

// Seed は title の行を直接追加します。呼び出し回数には数えません。
func (s *MemoryStore) Seed(titles ...string) []models.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Task
	for _, title := range titles {
		out = append(out, s.insertLocked(title))
	}
	return out
}

// Get は id の行を返します。
func (s *MemoryStore) Get(id string) (models.Task, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.rows[id]
	return t, ok
}

func (s *MemoryStore) begin(op Op) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls[op]++
	if err, ok := s.fail[op]; ok {
		delete(s.fail, op)
		return models.NewRemoteError(string(op)+" todo", models.KindUnavailable, err)
	}
	return nil
}

func (s *MemoryStore) insertLocked(title string) models.Task {
	s.seq++
	t := models.Task{
		ID:        fmt.Sprintf("task-%d", s.seq),
		Title:     title,
		CreatedAt: s.base.Add(time.Duration(s.seq) * time.Second),
	}
	s.rows[t.ID] = t
	return t
}

func (s *MemoryStore) InsertTask(ctx context.Context, title string) (models.Task, error) {
	if err := s.begin(OpInsert); err != nil {
		return models.Task{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.insertLocked(title), nil
}

func (s *MemoryStore) ListTasks(ctx context.Context) ([]models.Task, error) {
	if err := s.begin(OpList); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Task, 0, len(s.rows))
	for _, t := range s.rows {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *MemoryStore) UpdateTask(ctx context.Context, id string, patch models.TaskPatch) error {
	if err := s.begin(OpUpdate); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.rows[id]
	if !ok {
		return models.NewRemoteError("update todo", models.KindNotFound, errors.New("todo not found"))
	}
	if patch.Title != nil {
		t.Title = *patch.Title
	}
	if patch.Completed != nil {
		t.Completed = *patch.Completed
	}
	s.rows[id] = t
	return nil
}

func (s *MemoryStore) DeleteTask(ctx context.Context, id string) error {
	if err := s.begin(OpDelete); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rows[id]; !ok {
		return models.NewRemoteError("delete todo", models.KindNotFound, errors.New("todo not found"))
	}
	delete(s.rows, id)
	return nil
}
