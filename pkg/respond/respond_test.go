package respond

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var got map[string]any
	require.NoError(t, json.NewDecoder(w.Body).Decode(&got))
	return got
}

func TestJSON(t *testing.T) {
	tests := []struct {
		name     string
		code     int
		data     any
		wantBody map[string]any
	}{
		{
			name:     "view",
			code:     http.StatusOK,
			data:     map[string]any{"has_active_filters": false},
			wantBody: map[string]any{"has_active_filters": false},
		},
		{
			name:     "numbers decode as float64",
			code:     http.StatusOK,
			data:     map[string]int{"from": 2},
			wantBody: map[string]any{"from": float64(2)},
		},
		{
			name:     "empty object",
			code:     http.StatusOK,
			data:     struct{}{},
			wantBody: map[string]any{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()

			JSON(w, httptest.NewRequest(http.MethodGet, "/", nil), tt.code, tt.data)

			assert.Equal(t, tt.code, w.Code)
			assert.Equal(t, tt.wantBody, decode(t, w))
		})
	}
}

func TestError(t *testing.T) {
	for _, code := range []int{http.StatusBadRequest, http.StatusConflict, http.StatusServiceUnavailable} {
		w := httptest.NewRecorder()

		Error(w, httptest.NewRequest(http.MethodPost, "/", nil), code, "invalid task id")

		assert.Equal(t, code, w.Code)
		assert.Equal(t, map[string]any{"error": "invalid task id"}, decode(t, w))
	}
}

func TestFieldError(t *testing.T) {
	w := httptest.NewRecorder()

	FieldError(w, httptest.NewRequest(http.MethodPost, "/", nil), http.StatusUnprocessableEntity, "title", "Title is required")

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, map[string]any{"error": "Title is required", "field": "title"}, decode(t, w))
}

func TestAccepted(t *testing.T) {
	w := httptest.NewRecorder()

	Accepted(w, httptest.NewRequest(http.MethodPost, "/", nil), "4b1c6f0e-job")

	assert.Equal(t, http.StatusAccepted, w.Code)
	assert.Equal(t, map[string]any{"job_id": "4b1c6f0e-job"}, decode(t, w))
}

func TestJSON_NilData(t *testing.T) {
	w := httptest.NewRecorder()

	JSON(w, httptest.NewRequest(http.MethodGet, "/", nil), http.StatusOK, nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Body.String())
}

func TestNoContent(t *testing.T) {
	w := httptest.NewRecorder()

	NoContent(w, httptest.NewRequest(http.MethodDelete, "/", nil))

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Body.String())
}
