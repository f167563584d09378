package handlers_test

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nany-todo/testutil"
)

func postForm(t *testing.T, r *gin.Engine, path string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	req, _ := http.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusSeeOther, w.Code)
	require.Equal(t, "/", w.Header().Get("Location"))
	return w
}

func getIndex(t *testing.T, r *gin.Engine) string {
	t.Helper()
	req, _ := http.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	return w.Body.String()
}

func TestIndex_RendersLoadedTasks(t *testing.T) {
	store := testutil.NewMemoryStore()
	store.Seed("Buy milk", "Walk dog")
	r, board := testutil.SetupTestRouter(t, store, nil)
	require.NoError(t, board.LoadTasks(t.Context()))

	body := getIndex(t, r)

	assert.Contains(t, body, "Nany")
	// 新しい順
	assert.Less(t, strings.Index(body, "Walk dog"), strings.Index(body, "Buy milk"))
	assert.Contains(t, body, `action="/todos/task-1/toggle"`)
	assert.NotContains(t, body, `role="alert"`)
}

func TestAdd_AppendsAndClearsInput(t *testing.T) {
	store := testutil.NewMemoryStore()
	r, board := testutil.SetupTestRouter(t, store, nil)

	postForm(t, r, "/todos", url.Values{"title": {"  Buy milk  "}})

	view := board.View()
	require.Len(t, view.Tasks, 1)
	assert.Equal(t, "Buy milk", view.Tasks[0].Title)
	assert.False(t, view.Tasks[0].Completed)
	assert.Empty(t, view.Input)
	assert.Equal(t, 1, store.Calls(testutil.OpInsert))
	assert.Contains(t, getIndex(t, r), "Buy milk")
}

func TestAdd_EmptyTitleIsNoOp(t *testing.T) {
	store := testutil.NewMemoryStore()
	r, board := testutil.SetupTestRouter(t, store, nil)

	postForm(t, r, "/todos", url.Values{"title": {"   "}})

	assert.Equal(t, 0, store.Calls(testutil.OpInsert))
	assert.Empty(t, board.View().Tasks)
	assert.Empty(t, board.View().Error)
}

func TestAdd_FailureKeepsInputAndShowsBanner(t *testing.T) {
	store := testutil.NewMemoryStore()
	r, board := testutil.SetupTestRouter(t, store, nil)
	store.FailNext(testutil.OpInsert, nil)

	postForm(t, r, "/todos", url.Values{"title": {"Buy milk"}})

	view := board.View()
	assert.Empty(t, view.Tasks)
	assert.Equal(t, "Buy milk", view.Input)
	assert.Contains(t, view.Error, "Failed to add todo")

	body := getIndex(t, r)
	assert.Contains(t, body, `role="alert"`)
	assert.Contains(t, body, `value="Buy milk"`)

	postForm(t, r, "/dismiss", nil)
	assert.Empty(t, board.View().Error)
	assert.NotContains(t, getIndex(t, r), `role="alert"`)
}

func TestToggle_FlipsCurrentValue(t *testing.T) {
	store := testutil.NewMemoryStore()
	r, board := testutil.SetupTestRouter(t, store, nil)
	postForm(t, r, "/todos", url.Values{"title": {"Buy milk"}})
	id := board.View().Tasks[0].ID

	postForm(t, r, "/todos/"+id+"/toggle", url.Values{"completed": {"false"}})

	assert.True(t, board.View().Tasks[0].Completed)
	stored, ok := store.Get(id)
	require.True(t, ok)
	assert.True(t, stored.Completed)
	assert.Contains(t, getIndex(t, r), "title done")

	postForm(t, r, "/todos/"+id+"/toggle", url.Values{"completed": {"true"}})
	assert.False(t, board.View().Tasks[0].Completed)
}

func TestToggle_FailureLeavesState(t *testing.T) {
	store := testutil.NewMemoryStore()
	r, board := testutil.SetupTestRouter(t, store, nil)
	postForm(t, r, "/todos", url.Values{"title": {"Buy milk"}})
	id := board.View().Tasks[0].ID
	store.FailNext(testutil.OpUpdate, nil)

	postForm(t, r, "/todos/"+id+"/toggle", url.Values{"completed": {"false"}})

	assert.False(t, board.View().Tasks[0].Completed)
	assert.Contains(t, board.View().Error, "Failed to update completion")
}

func TestEditSave_UpdatesTitle(t *testing.T) {
	store := testutil.NewMemoryStore()
	r, board := testutil.SetupTestRouter(t, store, nil)
	postForm(t, r, "/todos", url.Values{"title": {"Buy milk"}})
	id := board.View().Tasks[0].ID

	postForm(t, r, "/todos/"+id+"/edit", url.Values{"title": {"Buy milk"}})

	view := board.View()
	assert.Equal(t, id, view.EditingID)
	assert.Equal(t, "Buy milk", view.EditText)
	body := getIndex(t, r)
	assert.Contains(t, body, `action="/todos/`+id+`/save"`)
	assert.Contains(t, body, `name="text" value="Buy milk"`)

	postForm(t, r, "/todos/"+id+"/save", url.Values{"text": {"Buy oat milk"}})

	view = board.View()
	assert.Equal(t, "Buy oat milk", view.Tasks[0].Title)
	assert.Empty(t, view.EditingID)
	assert.Empty(t, view.EditText)
	stored, _ := store.Get(id)
	assert.Equal(t, "Buy oat milk", stored.Title)
}

func TestSave_EmptyTextIsRejected(t *testing.T) {
	store := testutil.NewMemoryStore()
	r, board := testutil.SetupTestRouter(t, store, nil)
	postForm(t, r, "/todos", url.Values{"title": {"Buy milk"}})
	id := board.View().Tasks[0].ID
	postForm(t, r, "/todos/"+id+"/edit", url.Values{"title": {"Buy milk"}})

	postForm(t, r, "/todos/"+id+"/save", url.Values{"text": {"  "}})

	view := board.View()
	assert.Equal(t, 0, store.Calls(testutil.OpUpdate))
	assert.Equal(t, id, view.EditingID)
	assert.Equal(t, "Buy milk", view.Tasks[0].Title)
	assert.NotEmpty(t, view.Error)
}

func TestCancel_LeavesEditMode(t *testing.T) {
	store := testutil.NewMemoryStore()
	r, board := testutil.SetupTestRouter(t, store, nil)
	postForm(t, r, "/todos", url.Values{"title": {"Buy milk"}})
	id := board.View().Tasks[0].ID
	postForm(t, r, "/todos/"+id+"/edit", url.Values{"title": {"Buy milk"}})

	postForm(t, r, "/todos/"+id+"/cancel", nil)

	assert.Empty(t, board.View().EditingID)
	assert.Equal(t, 0, store.Calls(testutil.OpUpdate))
	assert.NotContains(t, getIndex(t, r), `name="text"`)
}

func TestDelete_RemovesTask(t *testing.T) {
	store := testutil.NewMemoryStore()
	r, board := testutil.SetupTestRouter(t, store, nil)
	postForm(t, r, "/todos", url.Values{"title": {"Buy milk"}})
	postForm(t, r, "/todos", url.Values{"title": {"Walk dog"}})
	id := board.View().Tasks[0].ID

	postForm(t, r, "/todos/"+id+"/delete", nil)

	view := board.View()
	require.Len(t, view.Tasks, 1)
	assert.Equal(t, "Walk dog", view.Tasks[0].Title)
	_, ok := store.Get(id)
	assert.False(t, ok)
}

func TestDelete_FailureLeavesState(t *testing.T) {
	store := testutil.NewMemoryStore()
	r, board := testutil.SetupTestRouter(t, store, nil)
	postForm(t, r, "/todos", url.Values{"title": {"Buy milk"}})
	store.FailNext(testutil.OpDelete, nil)

	postForm(t, r, "/todos/"+board.View().Tasks[0].ID+"/delete", nil)

	assert.Len(t, board.View().Tasks, 1)
	assert.Contains(t, board.View().Error, "Failed to delete todo")
}

func TestReload_ReplacesTasks(t *testing.T) {
	store := testutil.NewMemoryStore()
	r, board := testutil.SetupTestRouter(t, store, nil)
	store.Seed("Buy milk", "Walk dog")
	require.Empty(t, board.View().Tasks)

	postForm(t, r, "/reload", nil)

	view := board.View()
	require.Len(t, view.Tasks, 2)
	assert.Equal(t, "Walk dog", view.Tasks[0].Title)
	assert.Equal(t, "Buy milk", view.Tasks[1].Title)

	store.FailNext(testutil.OpList, nil)
	postForm(t, r, "/reload", nil)
	assert.Len(t, board.View().Tasks, 2)
	assert.Contains(t, board.View().Error, "Failed to fetch todos")
}
