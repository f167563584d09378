package handlers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nany-todo/testutil"
)

func TestHelloHandler(t *testing.T) {
	r, _ := testutil.SetupTestRouter(t, testutil.NewMemoryStore(), nil)

	req, _ := http.NewRequest(http.MethodGet, "/api/hello", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Hello from Go Backend!", resp["message"])
}

func TestDBCheckHandler(t *testing.T) {
	db, repo := testutil.SetupTestDB(t)
	r, _ := testutil.SetupTestRouter(t, repo, db)

	req, _ := http.NewRequest(http.MethodGet, "/api/dbcheck", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	require.NoError(t, db.Close())
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestDBCheckHandler_NotMountedWithoutDB(t *testing.T) {
	r, _ := testutil.SetupTestRouter(t, testutil.NewMemoryStore(), nil)

	req, _ := http.NewRequest(http.MethodGet, "/api/dbcheck", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
