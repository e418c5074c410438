package devserver

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tasksync/internal/service"
)

func doJSON(t *testing.T, h http.Handler, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestServer_CRUD(t *testing.T) {
	h := New(NewMemoryStore(), nil).Handler()

	rec := doJSON(t, h, http.MethodGet, "/tasks/", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())

	rec = doJSON(t, h, http.MethodPost, "/tasks/", service.Task{ID: "ignored", Title: "Buy milk", Description: "2 liters"})
	require.Equal(t, http.StatusCreated, rec.Code)
	created := decode[service.Task](t, rec)
	assert.NotEqual(t, "ignored", created.ID)
	_, err := uuid.Parse(created.ID)
	assert.NoError(t, err)
	assert.Equal(t, "Buy milk", created.Title)
	assert.False(t, created.Completed)

	created.Completed = true
	rec = doJSON(t, h, http.MethodPut, "/tasks/"+created.ID, created)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, created, decode[service.Task](t, rec))

	rec = doJSON(t, h, http.MethodGet, "/tasks/", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []service.Task{created}, decode[[]service.Task](t, rec))

	rec = doJSON(t, h, http.MethodDelete, "/tasks/"+created.ID, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = doJSON(t, h, http.MethodGet, "/tasks/", nil)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestServer_ValidationAndNotFound(t *testing.T) {
	h := New(NewMemoryStore(), nil).Handler()

	tests := []struct {
		name    string
		method  string
		target  string
		body    any
		status  int
		message string
	}{
		{"create empty title", http.MethodPost, "/tasks/", service.Task{Description: "d"}, http.StatusUnprocessableEntity, "title required"},
		{"create blank description", http.MethodPost, "/tasks/", service.Task{Title: "t", Description: "  "}, http.StatusUnprocessableEntity, "description required"},
		{"update unknown", http.MethodPut, "/tasks/nope", service.Task{Title: "t", Description: "d"}, http.StatusNotFound, "not found"},
		{"update invalid", http.MethodPut, "/tasks/nope", service.Task{Title: "", Description: "d"}, http.StatusUnprocessableEntity, "title required"},
		{"delete unknown", http.MethodDelete, "/tasks/nope", nil, http.StatusNotFound, "not found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doJSON(t, h, tt.method, tt.target, tt.body)
			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, tt.message, decode[ErrorResponse](t, rec).Error)
		})
	}
}

func TestServer_MalformedBody(t *testing.T) {
	h := New(NewMemoryStore(), nil).Handler()

	req := httptest.NewRequest(http.MethodPost, "/tasks/", bytes.NewBufferString("{not json"))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid request body", decode[ErrorResponse](t, rec).Error)
}

func TestServer_Health(t *testing.T) {
	h := New(NewMemoryStore(), nil).Handler()
	rec := doJSON(t, h, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestServer_RunStopsOnCancel(t *testing.T) {
	srv := New(NewMemoryStore(), nil)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx, "127.0.0.1:0") }()
	cancel()
	assert.NoError(t, <-done)
}

func storeImplementations(t *testing.T) map[string]Store {
	t.Helper()
	sqlite, err := OpenSQLite(filepath.Join(t.TempDir(), "sub", "tasks.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlite.Close() })
	return map[string]Store{
		"memory": NewMemoryStore(),
		"sqlite": sqlite,
	}
}

func TestStores(t *testing.T) {
	for name, store := range storeImplementations(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			tasks, err := store.List(ctx)
			require.NoError(t, err)
			assert.NotNil(t, tasks)
			assert.Empty(t, tasks)

			a := service.Task{ID: "a", Title: "first", Description: "one"}
			b := service.Task{ID: "b", Title: "second", Description: "two"}
			c := service.Task{ID: "c", Title: "third", Description: "three"}
			for _, task := range []service.Task{a, b, c} {
				require.NoError(t, store.Insert(ctx, task))
			}

			b.Completed = true
			b.Title = "second, edited"
			require.NoError(t, store.Replace(ctx, b))
			require.NoError(t, store.Delete(ctx, "a"))

			tasks, err = store.List(ctx)
			require.NoError(t, err)
			assert.Equal(t, []service.Task{b, c}, tasks)

			assert.ErrorIs(t, store.Replace(ctx, a), ErrNotFound)
			assert.ErrorIs(t, store.Delete(ctx, "a"), ErrNotFound)
		})
	}
}

func TestSQLiteStore_Persists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.db")
	ctx := context.Background()

	store, err := OpenSQLite(path)
	require.NoError(t, err)
	require.NoError(t, store.Insert(ctx, service.Task{ID: "x", Title: "t", Description: "d", Completed: true}))
	require.NoError(t, store.Close())

	store, err = OpenSQLite(path)
	require.NoError(t, err)
	defer store.Close()

	tasks, err := store.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []service.Task{{ID: "x", Title: "t", Description: "d", Completed: true}}, tasks)
}
