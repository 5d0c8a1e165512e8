// Package store holds the canonical in-memory task collection together with
// the filter criteria, the last error and the loading flag.
//
// Every transition is applied under one mutex, so callers observe each
// operation as a single atomic state replacement.
package store

import (
	"errors"
	"fmt"
	"sync"

	"github.com/BuzzLyutic/todo-client/internal/model"
)

var ErrIndexOutOfRange = errors.New("index out of range")

// IndexError is returned by Reorder when an index falls outside [0, Len).
type IndexError struct {
	From   int
	To     int
	Length int
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("reorder %d -> %d: %v (length %d)", e.From, e.To, ErrIndexOutOfRange, e.Length)
}

func (e *IndexError) Unwrap() error { return ErrIndexOutOfRange }

type Store struct {
	mu      sync.RWMutex
	tasks   []model.Task
	filter  model.FilterCriteria
	err     *string
	loading bool
}

func New() *Store {
	return &Store{
		tasks:  []model.Task{},
		filter: model.DefaultFilter(),
	}
}

// Snapshot is a consistent copy of the whole store.
type Snapshot struct {
	Tasks   []model.Task
	Filter  model.FilterCriteria
	Err     *string
	Loading bool
}

// ReplaceAll sets the full collection and clears error and loading.
// Later duplicates of an id are dropped.
func (s *Store) ReplaceAll(tasks []model.Task) {
	next := dedup(tasks)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.tasks = next
	s.err = nil
	s.loading = false
}

// ReplaceIfEmpty behaves like ReplaceAll while the collection is empty.
// Otherwise it only clears loading and reports false.
func (s *Store) ReplaceIfEmpty(tasks []model.Task) bool {
	next := dedup(tasks)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
	if len(s.tasks) > 0 {
		return false
	}
	s.tasks = next
	s.err = nil
	return true
}

func dedup(tasks []model.Task) []model.Task {
	next := make([]model.Task, 0, len(tasks))
	seen := make(map[int64]struct{}, len(tasks))
	for _, t := range tasks {
		if _, ok := seen[t.ID]; ok {
			continue
		}
		seen[t.ID] = struct{}{}
		next = append(next, t)
	}
	return next
}

// InsertFront prepends t. A task already holding the same id is dropped first.
func (s *Store) InsertFront(t model.Task) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := make([]model.Task, 0, len(s.tasks)+1)
	next = append(next, t)
	for _, existing := range s.tasks {
		if existing.ID != t.ID {
			next = append(next, existing)
		}
	}
	s.tasks = next
}

// Patch merges p into the task with the given id. Returns false if absent.
func (s *Store) Patch(id int64, p model.TaskPatch) (model.Task, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return model.Task{}, false
	}
	s.tasks[i] = p.Apply(s.tasks[i])
	return s.tasks[i], true
}

// Remove deletes the task with the given id. Returns false if absent.
func (s *Store) Remove(id int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return false
	}
	next := make([]model.Task, 0, len(s.tasks)-1)
	next = append(next, s.tasks[:i]...)
	next = append(next, s.tasks[i+1:]...)
	s.tasks = next
	return true
}

// Reorder moves the element at from so that it ends up at index to.
func (s *Store) Reorder(from, to int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := len(s.tasks)
	if from < 0 || from >= n || to < 0 || to >= n {
		return &IndexError{From: from, To: to, Length: n}
	}
	if from == to {
		return nil
	}

	moved := s.tasks[from]
	rest := make([]model.Task, 0, n)
	rest = append(rest, s.tasks[:from]...)
	rest = append(rest, s.tasks[from+1:]...)

	next := make([]model.Task, 0, n)
	next = append(next, rest[:to]...)
	next = append(next, moved)
	next = append(next, rest[to:]...)
	s.tasks = next
	return nil
}

func (s *Store) SetFilter(p model.FilterPatch) model.FilterCriteria {
	s.mu.Lock()
	defer s.mu.Unlock()

	if p.Status != nil {
		s.filter.Status = *p.Status
	}
	if p.Search != nil {
		s.filter.Search = *p.Search
	}
	return s.filter
}

func (s *Store) ClearFilter() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filter = model.DefaultFilter()
}

// SetError records msg (nil clears it). Any loading indicator is dropped.
func (s *Store) SetError(msg *string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if msg != nil {
		m := *msg
		msg = &m
	}
	s.err = msg
	s.loading = false
}

func (s *Store) Fail(msg string) { s.SetError(&msg) }

func (s *Store) ClearError() { s.SetError(nil) }

func (s *Store) SetLoading(v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = v
}

func (s *Store) Get(id int64) (model.Task, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := s.indexOf(id)
	if i < 0 {
		return model.Task{}, false
	}
	return s.tasks[i], true
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.tasks)
}

func (s *Store) Tasks() []model.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]model.Task(nil), s.tasks...)
}

func (s *Store) Filter() model.FilterCriteria {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.filter
}

func (s *Store) Err() *string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copyString(s.err)
}

func (s *Store) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Snapshot{
		Tasks:   append([]model.Task(nil), s.tasks...),
		Filter:  s.filter,
		Err:     copyString(s.err),
		Loading: s.loading,
	}
}

// caller must hold mu
func (s *Store) indexOf(id int64) int {
	for i, t := range s.tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}

func copyString(p *string) *string {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
