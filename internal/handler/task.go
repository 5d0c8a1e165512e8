package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/BuzzLyutic/todo-client/internal/model"
	"github.com/BuzzLyutic/todo-client/internal/service"
	"github.com/BuzzLyutic/todo-client/internal/store"
	"github.com/BuzzLyutic/todo-client/internal/worker"
	"github.com/BuzzLyutic/todo-client/pkg/respond"
)

// Dispatcher runs intents that involve network I/O off the request path.
type Dispatcher interface {
	Submit(name string, fn worker.Job) (string, error)
}

type TaskHandler struct {
	service    *service.TaskService
	dispatcher Dispatcher
	logger     *zap.Logger
}

func NewTaskHandler(srv *service.TaskService, dispatcher Dispatcher, logger *zap.Logger) *TaskHandler {
	return &TaskHandler{
		service:    srv,
		dispatcher: dispatcher,
		logger:     logger,
	}
}

// Routes mounts the intent endpoints under the given router.
func (h *TaskHandler) Routes(r chi.Router) {
	r.Get("/tasks", h.View)
	r.Post("/tasks", h.Create)
	r.Post("/tasks/reorder", h.Reorder)
	r.Patch("/tasks/{id}", h.Update)
	r.Post("/tasks/{id}/toggle", h.Toggle)
	r.Delete("/tasks/{id}", h.Delete)

	r.Patch("/filter", h.SetFilter)
	r.Delete("/filter", h.ClearFilter)

	r.Post("/refresh", h.Refresh)
	r.Delete("/error", h.DismissError)
}

type createRequest struct {
	Title string `json:"title"`
}

type updateRequest struct {
	Completed *bool   `json:"completed"`
	Title     *string `json:"title"`
}

type reorderRequest struct {
	From *int `json:"from"`
	To   *int `json:"to"`
}

type filterRequest struct {
	Status *string `json:"status"`
	Search *string `json:"search"`
}

func (h *TaskHandler) View(w http.ResponseWriter, r *http.Request) {
	respond.JSON(w, r, http.StatusOK, h.service.View())
}

func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	if r.ContentLength == 0 {
		respond.Error(w, r, http.StatusBadRequest, "empty request body")
		return
	}

	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Error("failed to decode json", zap.Error(err))
		respond.Error(w, r, http.StatusBadRequest, fmt.Sprintf("invalid json: %v", err))
		return
	}

	// Validation fails fast, before anything is queued.
	title, err := service.ValidateTitle(req.Title)
	if err != nil {
		h.handleErrors(w, r, err)
		return
	}

	h.submit(w, r, "create", func(ctx context.Context) error {
		_, err := h.service.Create(ctx, title)
		return err
	})
}

func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := h.taskID(w, r)
	if !ok {
		return
	}

	var req updateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, r, http.StatusBadRequest, "invalid json")
		return
	}

	patch := model.TaskPatch{Completed: req.Completed, Title: req.Title}
	if patch.IsEmpty() {
		h.handleErrors(w, r, &service.ValidationError{Field: "patch", Message: "Nothing to update"})
		return
	}
	if patch.Title != nil {
		title, err := service.ValidateTitle(*patch.Title)
		if err != nil {
			h.handleErrors(w, r, err)
			return
		}
		patch.Title = &title
	}

	h.submit(w, r, "update", func(ctx context.Context) error {
		_, err := h.service.ToggleOrEdit(ctx, id, patch)
		return err
	})
}

func (h *TaskHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	id, ok := h.taskID(w, r)
	if !ok {
		return
	}
	// The negation needs a known current state.
	if _, err := h.service.Lookup(id); err != nil {
		h.handleErrors(w, r, err)
		return
	}

	h.submit(w, r, "toggle", func(ctx context.Context) error {
		_, err := h.service.Toggle(ctx, id)
		return err
	})
}

func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.taskID(w, r)
	if !ok {
		return
	}

	h.submit(w, r, "delete", func(ctx context.Context) error {
		return h.service.Remove(ctx, id)
	})
}

func (h *TaskHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	h.submit(w, r, "refresh", h.service.Refresh)
}

func (h *TaskHandler) Reorder(w http.ResponseWriter, r *http.Request) {
	var req reorderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, r, http.StatusBadRequest, "invalid json")
		return
	}
	if req.From == nil || req.To == nil {
		respond.Error(w, r, http.StatusBadRequest, "from and to are required")
		return
	}

	if err := h.service.Reorder(*req.From, *req.To); err != nil {
		h.handleErrors(w, r, err)
		return
	}
	respond.JSON(w, r, http.StatusOK, h.service.View())
}

func (h *TaskHandler) SetFilter(w http.ResponseWriter, r *http.Request) {
	var req filterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, r, http.StatusBadRequest, "invalid json")
		return
	}

	var patch model.FilterPatch
	if req.Status != nil {
		status, err := model.ParseStatus(*req.Status)
		if err != nil {
			respond.FieldError(w, r, http.StatusBadRequest, "status", err.Error())
			return
		}
		patch.Status = &status
	}
	patch.Search = req.Search

	h.service.SetFilter(patch)
	respond.JSON(w, r, http.StatusOK, h.service.View())
}

func (h *TaskHandler) ClearFilter(w http.ResponseWriter, r *http.Request) {
	h.service.ClearFilter()
	respond.JSON(w, r, http.StatusOK, h.service.View())
}

func (h *TaskHandler) DismissError(w http.ResponseWriter, r *http.Request) {
	h.service.DismissError()
	respond.NoContent(w, r)
}

func (h *TaskHandler) submit(w http.ResponseWriter, r *http.Request, name string, fn worker.Job) {
	jobID, err := h.dispatcher.Submit(name, fn)
	if err != nil {
		h.handleErrors(w, r, err)
		return
	}
	respond.Accepted(w, r, jobID)
}

func (h *TaskHandler) taskID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		respond.Error(w, r, http.StatusBadRequest, "invalid task id")
		return 0, false
	}
	return id, true
}

func (h *TaskHandler) handleErrors(w http.ResponseWriter, r *http.Request, err error) {
	var (
		verr *service.ValidationError
		ierr *store.IndexError
	)
	switch {
	case errors.As(err, &verr):
		respond.FieldError(w, r, http.StatusUnprocessableEntity, verr.Field, verr.Message)
	case errors.As(err, &ierr):
		h.logger.Warn("reorder out of range", zap.Error(err))
		respond.Error(w, r, http.StatusConflict, "index out of range")
	case errors.Is(err, worker.ErrQueueFull), errors.Is(err, worker.ErrPoolStopped):
		respond.Error(w, r, http.StatusServiceUnavailable, "busy, try again")
	default:
		h.logger.Error("internal error", zap.Error(err))
		respond.Error(w, r, http.StatusInternalServerError, "internal error")
	}
}
