package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/BuzzLyutic/todo-client/internal/gateway"
	"github.com/BuzzLyutic/todo-client/internal/model"
	"github.com/BuzzLyutic/todo-client/internal/store"
)

// Store-level messages shown in the error banner.
const (
	MsgLoadFailed    = "Failed to fetch todos"
	MsgCreateFailed  = "Failed to create todo"
	MsgUpdateFailed  = "Update failed"
	MsgDeleteFailed  = "Delete failed"
	MsgRefreshFailed = "Refresh failed"
)

// TaskGateway is the remote source of tasks.
type TaskGateway interface {
	List(ctx context.Context) ([]model.Task, error)
	Create(ctx context.Context, in model.NewTask) (model.Task, error)
	Update(ctx context.Context, id int64, p model.TaskPatch) (model.Task, error)
	Delete(ctx context.Context, id int64) (model.DeleteResult, error)
}

// TaskService is the only place where gateway failures turn into store
// error state. Overlapping calls for the same task are not deduplicated;
// their effects land in completion order.
type TaskService struct {
	gateway TaskGateway
	store   *store.Store
	logger  *zap.Logger

	loaded  atomic.Bool
	pending pendingTracker
	ids     localIDs
}

func NewTaskService(gw TaskGateway, st *store.Store, logger *zap.Logger) *TaskService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TaskService{
		gateway: gw,
		store:   st,
		logger:  logger,
		ids:     localIDs{now: time.Now},
	}
}

// Load fetches the task list on its first invocation only. The result is
// applied only while the store is still empty, so local edits made before
// the fetch resolves are kept.
func (s *TaskService) Load(ctx context.Context) error {
	if !s.loaded.CompareAndSwap(false, true) {
		return nil
	}

	s.store.SetLoading(true)
	tasks, err := s.gateway.List(ctx)
	if err != nil {
		s.logger.Error("initial load failed", zap.Error(err))
		s.store.Fail(remoteMessage(err, MsgLoadFailed))
		return err
	}

	if !s.store.ReplaceIfEmpty(tasks) {
		s.logger.Info("initial load ignored, store already populated", zap.Int("fetched", len(tasks)))
	}
	return nil
}

// Refresh always replaces the store contents on success.
// On failure existing data is kept.
func (s *TaskService) Refresh(ctx context.Context) error {
	s.loaded.Store(true)
	s.store.SetLoading(true)

	tasks, err := s.gateway.List(ctx)
	if err != nil {
		s.logger.Error("refresh failed", zap.Error(err))
		s.store.Fail(MsgRefreshFailed)
		return err
	}
	s.store.ReplaceAll(tasks)
	return nil
}

func (s *TaskService) Create(ctx context.Context, title string) (model.Task, error) {
	title, err := ValidateTitle(title)
	if err != nil {
		return model.Task{}, err
	}

	done := s.pending.begin(opCreate)
	defer done()

	created, err := s.gateway.Create(ctx, model.NewTask{
		Title:     title,
		Completed: false,
		Owner:     model.DefaultOwner,
	})
	if err != nil {
		s.logger.Error("create failed", zap.String("title", title), zap.Error(err))
		s.store.Fail(MsgCreateFailed)
		return model.Task{}, err
	}

	// The remote source never persists creations, so the id it hands back
	// is meaningless to later calls.
	task := created
	task.ID = s.ids.next()
	task.IsLocal = true
	if task.Title == "" {
		task.Title = title
	}
	if task.Owner == 0 {
		task.Owner = model.DefaultOwner
	}

	s.store.InsertFront(task)
	s.logger.Debug("task created", zap.Int64("task_id", task.ID))
	return task, nil
}

// ToggleOrEdit applies p to the task. Local tasks are patched in place;
// everything else goes through the gateway and the response is reconciled.
func (s *TaskService) ToggleOrEdit(ctx context.Context, id int64, p model.TaskPatch) (model.Task, error) {
	if p.IsEmpty() {
		return model.Task{}, &ValidationError{Field: "patch", Message: "Nothing to update"}
	}
	if p.Title != nil {
		title, err := ValidateTitle(*p.Title)
		if err != nil {
			return model.Task{}, err
		}
		p.Title = &title
	}

	done := s.pending.begin(opUpdate)
	defer done()

	if current, ok := s.store.Get(id); ok && current.IsLocal {
		patched, _ := s.store.Patch(id, p)
		return patched, nil
	}

	updated, err := s.gateway.Update(ctx, id, p)
	if err != nil {
		s.logger.Error("update failed", zap.Int64("task_id", id), zap.Error(err))
		s.store.Fail(MsgUpdateFailed)
		return model.Task{}, err
	}

	reconciled, ok := s.store.Patch(id, model.TaskPatch{
		Completed: &updated.Completed,
		Title:     &updated.Title,
	})
	if !ok {
		s.logger.Warn("updated task no longer in store", zap.Int64("task_id", id))
		return updated, nil
	}
	return reconciled, nil
}

// Lookup returns the stored task or a ValidationError on "id".
func (s *TaskService) Lookup(id int64) (model.Task, error) {
	current, ok := s.store.Get(id)
	if !ok {
		return model.Task{}, &ValidationError{Field: "id", Message: "Task not found"}
	}
	return current, nil
}

// Toggle flips the completion flag of the task as the store currently sees it.
func (s *TaskService) Toggle(ctx context.Context, id int64) (model.Task, error) {
	current, err := s.Lookup(id)
	if err != nil {
		return model.Task{}, err
	}
	completed := !current.Completed
	return s.ToggleOrEdit(ctx, id, model.TaskPatch{Completed: &completed})
}

func (s *TaskService) Remove(ctx context.Context, id int64) error {
	done := s.pending.begin(opDelete)
	defer done()

	if current, ok := s.store.Get(id); ok && current.IsLocal {
		s.store.Remove(id)
		return nil
	}

	res, err := s.gateway.Delete(ctx, id)
	if err != nil {
		s.logger.Error("delete failed", zap.Int64("task_id", id), zap.Error(err))
		s.store.Fail(MsgDeleteFailed)
		return err
	}
	if !res.Deleted {
		s.logger.Warn("remote did not confirm deletion", zap.Int64("task_id", id))
	}

	s.store.Remove(id)
	return nil
}

// Reorder is purely local; the remote source has no notion of ordering.
func (s *TaskService) Reorder(from, to int) error {
	if err := s.store.Reorder(from, to); err != nil {
		s.logger.Warn("reorder rejected", zap.Int("from", from), zap.Int("to", to), zap.Error(err))
		return err
	}
	return nil
}

func (s *TaskService) SetFilter(p model.FilterPatch) model.FilterCriteria {
	return s.store.SetFilter(p)
}

func (s *TaskService) ClearFilter() {
	s.store.ClearFilter()
}

func (s *TaskService) DismissError() {
	s.store.ClearError()
}

func (s *TaskService) Status() model.Flags {
	flags := s.pending.flags()
	flags.Loading = s.store.Loading()
	return flags
}

func (s *TaskService) View() model.View {
	snap := s.store.Snapshot()
	flags := s.pending.flags()
	flags.Loading = snap.Loading

	return model.View{
		Tasks:            snap.Visible(),
		Counts:           snap.Counts(),
		Filter:           snap.Filter,
		HasActiveFilters: snap.Filter.IsActive(),
		Error:            snap.Err,
		Status:           flags,
	}
}

// ValidateTitle trims title and checks it is non-empty and at most
// model.MaxTitleLength characters.
func ValidateTitle(title string) (string, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return "", &ValidationError{Field: "title", Message: "Title is required"}
	}
	if utf8.RuneCountInString(title) > model.MaxTitleLength {
		return "", &ValidationError{Field: "title", Message: "Title must be less than 100 characters"}
	}
	return title, nil
}

func remoteMessage(err error, fallback string) string {
	var rerr *gateway.RemoteError
	if errors.As(err, &rerr) && rerr.Message != "" {
		return rerr.Message
	}
	return fallback
}

// localIDs hands out millisecond timestamps, bumped so they never repeat.
type localIDs struct {
	mu   sync.Mutex
	last int64
	now  func() time.Time
}

func (g *localIDs) next() int64 {
	g.mu.Lock()
	defer g.mu.Unlock()

	id := g.now().UnixMilli()
	if id <= g.last {
		id = g.last + 1
	}
	g.last = id
	return id
}
