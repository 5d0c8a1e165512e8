package store

import "github.com/BuzzLyutic/todo-client/internal/model"

// VisibleTasks returns the tasks matching the current filter, in store order.
func (s *Store) VisibleTasks() []model.Task {
	return s.Snapshot().Visible()
}

func (s *Store) Counts() model.Counts {
	return s.Snapshot().Counts()
}

func (s *Store) HasActiveFilters() bool {
	return s.Filter().IsActive()
}

func (sn Snapshot) Visible() []model.Task {
	out := make([]model.Task, 0, len(sn.Tasks))
	for _, t := range sn.Tasks {
		if sn.Filter.Matches(t) {
			out = append(out, t)
		}
	}
	return out
}

// Counts is computed over the full collection, ignoring the filter.
func (sn Snapshot) Counts() model.Counts {
	c := model.Counts{All: len(sn.Tasks)}
	for _, t := range sn.Tasks {
		if t.Completed {
			c.Completed++
		} else {
			c.Incomplete++
		}
	}
	return c
}
