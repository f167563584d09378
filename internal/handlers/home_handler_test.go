package handlers_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nany-todo/testutil"
)

func TestHomeHandler(t *testing.T) {
	tests := []struct {
		name      string
		query     string
		wantColor string
		wantSize  string
	}{
		{name: "defaults", query: "", wantColor: "blue", wantSize: "100"},
		{name: "color and size", query: "?color=%23ff0000&size=42", wantColor: "#ff0000", wantSize: "42"},
		{name: "fractional size", query: "?size=12.5", wantColor: "blue", wantSize: "12.5"},
		{name: "invalid size becomes zero", query: "?size=abc", wantColor: "blue", wantSize: "0"},
		{name: "empty size becomes zero", query: "?size=", wantColor: "blue", wantSize: "0"},
	}

	r, _ := testutil.SetupTestRouter(t, testutil.NewMemoryStore(), nil)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, _ := http.NewRequest(http.MethodGet, "/home"+tt.query, nil)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			require.Equal(t, http.StatusOK, w.Code)
			body := w.Body.String()
			assert.Contains(t, body, "Home Layout")
			assert.Contains(t, body, "Hello Home")
			assert.Contains(t, body, `name="color" placeholder="pick color" value="`+tt.wantColor+`"`)
			assert.Contains(t, body, `name="size" placeholder="pick size" value="`+tt.wantSize+`"`)
			// 見本の大きさは入力に関係なく固定
			assert.Contains(t, body, "width: 300px")
		})
	}
}

func TestHomeAHandler(t *testing.T) {
	r, _ := testutil.SetupTestRouter(t, testutil.NewMemoryStore(), nil)

	req, _ := http.NewRequest(http.MethodGet, "/home/a", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Home Layout")
}
