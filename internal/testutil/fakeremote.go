package testutil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
)

// RemoteTodo is the DummyJSON wire shape.
type RemoteTodo struct {
	ID        int64  `json:"id"`
	Todo      string `json:"todo"`
	Completed bool   `json:"completed"`
	UserID    int64  `json:"userId"`
}

// RecordedRequest is one call received by FakeRemote.
type RecordedRequest struct {
	Op     string
	Method string
	Path   string
	Body   map[string]any
}

// FakeRemote imitates the DummyJSON todo endpoints. Like the real service it
// accepts writes but never persists them.
type FakeRemote struct {
	Server *httptest.Server

	mu       sync.Mutex
	todos    []RemoteTodo
	requests []RecordedRequest
	failures map[string]int
	holds    map[string]*hold
}

type hold struct {
	ch   chan struct{}
	once sync.Once
}

func (h *hold) release() { h.once.Do(func() { close(h.ch) }) }

func NewFakeRemote(t *testing.T, todos ...RemoteTodo) *FakeRemote {
	t.Helper()

	f := &FakeRemote{
		todos:    append([]RemoteTodo(nil), todos...),
		failures: make(map[string]int),
		holds:    make(map[string]*hold),
	}

	r := chi.NewRouter()
	r.Get("/todos", f.list)
	r.Post("/todos/add", f.add)
	r.Patch("/todos/{id}", f.update)
	r.Delete("/todos/{id}", f.delete)

	f.Server = httptest.NewServer(r)
	t.Cleanup(func() {
		f.releaseAll()
		f.Server.Close()
	})
	return f
}

func (f *FakeRemote) URL() string { return f.Server.URL }

// Fail makes every following op ("list", "create", "update", "delete")
// answer with status until Recover is called.
func (f *FakeRemote) Fail(op string, status int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failures[op] = status
}

func (f *FakeRemote) Recover(op string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.failures, op)
}

// Hold blocks calls to op until the returned release func is called.
func (f *FakeRemote) Hold(op string) (release func()) {
	h := &hold{ch: make(chan struct{})}
	f.mu.Lock()
	if prev := f.holds[op]; prev != nil {
		prev.release()
	}
	f.holds[op] = h
	f.mu.Unlock()

	return func() {
		f.mu.Lock()
		if f.holds[op] == h {
			delete(f.holds, op)
		}
		f.mu.Unlock()
		h.release()
	}
}

func (f *FakeRemote) SetTodos(todos []RemoteTodo) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.todos = append([]RemoteTodo(nil), todos...)
}

func (f *FakeRemote) Requests() []RecordedRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]RecordedRequest(nil), f.requests...)
}

// Count returns how many calls of op were received.
func (f *FakeRemote) Count(op string) int {
	n := 0
	for _, req := range f.Requests() {
		if req.Op == op {
			n++
		}
	}
	return n
}

func (f *FakeRemote) list(w http.ResponseWriter, r *http.Request) {
	if _, ok := f.begin(w, r, "list"); !ok {
		return
	}
	f.mu.Lock()
	todos := append([]RemoteTodo(nil), f.todos...)
	f.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]any{
		"todos": todos,
		"total": len(todos),
		"skip":  0,
		"limit": len(todos),
	})
}

func (f *FakeRemote) add(w http.ResponseWriter, r *http.Request) {
	body, ok := f.begin(w, r, "create")
	if !ok {
		return
	}
	todo, _ := body["todo"].(string)
	if todo == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Todo is required"})
		return
	}
	completed, _ := body["completed"].(bool)
	userID, _ := body["userId"].(float64)

	f.mu.Lock()
	id := int64(len(f.todos) + 1)
	f.mu.Unlock()

	writeJSON(w, http.StatusCreated, RemoteTodo{ID: id, Todo: todo, Completed: completed, UserID: int64(userID)})
}

func (f *FakeRemote) update(w http.ResponseWriter, r *http.Request) {
	body, ok := f.begin(w, r, "update")
	if !ok {
		return
	}
	todo, ok := f.find(w, r)
	if !ok {
		return
	}
	if v, ok := body["completed"].(bool); ok {
		todo.Completed = v
	}
	if v, ok := body["todo"].(string); ok {
		todo.Todo = v
	}
	writeJSON(w, http.StatusOK, todo)
}

func (f *FakeRemote) delete(w http.ResponseWriter, r *http.Request) {
	if _, ok := f.begin(w, r, "delete"); !ok {
		return
	}
	todo, ok := f.find(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"id":        todo.ID,
		"todo":      todo.Todo,
		"completed": todo.Completed,
		"userId":    todo.UserID,
		"isDeleted": true,
	})
}

// begin records the call, waits on any hold and applies injected failures.
func (f *FakeRemote) begin(w http.ResponseWriter, r *http.Request, op string) (map[string]any, bool) {
	var body map[string]any
	if r.Body != nil {
		json.NewDecoder(r.Body).Decode(&body)
	}

	f.mu.Lock()
	f.requests = append(f.requests, RecordedRequest{Op: op, Method: r.Method, Path: r.URL.Path, Body: body})
	h := f.holds[op]
	status := f.failures[op]
	f.mu.Unlock()

	if h != nil {
		select {
		case <-h.ch:
		case <-r.Context().Done():
			return nil, false
		}
	}

	if status != 0 {
		writeJSON(w, status, map[string]string{"message": fmt.Sprintf("injected %s failure", op)})
		return nil, false
	}
	return body, true
}

func (f *FakeRemote) find(w http.ResponseWriter, r *http.Request) (RemoteTodo, bool) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err == nil {
		f.mu.Lock()
		defer f.mu.Unlock()
		for _, t := range f.todos {
			if t.ID == id {
				return t, true
			}
		}
	}
	writeJSON(w, http.StatusNotFound, map[string]string{"message": fmt.Sprintf("Todo with id '%s' not found", raw)})
	return RemoteTodo{}, false
}

func (f *FakeRemote) releaseAll() {
	f.mu.Lock()
	holds := f.holds
	f.holds = make(map[string]*hold)
	f.mu.Unlock()
	for _, h := range holds {
		h.release()
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}
