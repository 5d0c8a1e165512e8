package store

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BuzzLyutic/todo-client/internal/model"
)

func seed(n int) []model.Task {
	tasks := make([]model.Task, 0, n)
	for i := 1; i <= n; i++ {
		tasks = append(tasks, model.Task{
			ID:        int64(i),
			Title:     "Task " + string(rune('A'+i-1)),
			Completed: i%2 == 0,
			Owner:     1,
		})
	}
	return tasks
}

func ids(tasks []model.Task) []int64 {
	out := make([]int64, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, t.ID)
	}
	return out
}

func boolPtr(b bool) *bool { return &b }

func strPtr(s string) *string { return &s }

func statusPtr(s model.Status) *model.Status { return &s }

func TestNew_Empty(t *testing.T) {
	s := New()

	snap := s.Snapshot()
	assert.Empty(t, snap.Tasks)
	assert.Equal(t, model.DefaultFilter(), snap.Filter)
	assert.Nil(t, snap.Err)
	assert.False(t, snap.Loading)
}

func TestStore_ReplaceAll(t *testing.T) {
	s := New()
	s.SetLoading(true)
	s.Fail("boom")

	s.ReplaceAll(seed(3))

	assert.Equal(t, []int64{1, 2, 3}, ids(s.Tasks()))
	assert.Nil(t, s.Err())
	assert.False(t, s.Loading())
}

func TestStore_ReplaceAll_DropsDuplicateIDs(t *testing.T) {
	s := New()
	s.ReplaceAll([]model.Task{
		{ID: 1, Title: "first"},
		{ID: 2, Title: "second"},
		{ID: 1, Title: "again"},
	})

	tasks := s.Tasks()
	require.Len(t, tasks, 2)
	assert.Equal(t, "first", tasks[0].Title)
}

func TestStore_ReplaceIfEmpty(t *testing.T) {
	s := New()
	s.SetLoading(true)
	assert.True(t, s.ReplaceIfEmpty(seed(2)))
	assert.Equal(t, []int64{1, 2}, ids(s.Tasks()))
	assert.False(t, s.Loading())

	s.SetLoading(true)
	assert.False(t, s.ReplaceIfEmpty(seed(5)))
	assert.Equal(t, []int64{1, 2}, ids(s.Tasks()), "populated store is kept")
	assert.False(t, s.Loading())
}

func TestStore_InsertFront(t *testing.T) {
	s := New()
	s.ReplaceAll(seed(2))

	s.InsertFront(model.Task{ID: 99, Title: "new"})
	assert.Equal(t, []int64{99, 1, 2}, ids(s.Tasks()))

	s.InsertFront(model.Task{ID: 2, Title: "replaced"})
	assert.Equal(t, []int64{2, 99, 1}, ids(s.Tasks()))
	got, ok := s.Get(2)
	require.True(t, ok)
	assert.Equal(t, "replaced", got.Title)
}

func TestStore_Patch(t *testing.T) {
	s := New()
	s.ReplaceAll(seed(3))

	tests := []struct {
		name   string
		id     int64
		patch  model.TaskPatch
		wantOK bool
		check  func(*testing.T, model.Task)
	}{
		{
			name:   "completed only",
			id:     1,
			patch:  model.TaskPatch{Completed: boolPtr(true)},
			wantOK: true,
			check: func(t *testing.T, task model.Task) {
				assert.True(t, task.Completed)
				assert.Equal(t, "Task A", task.Title)
			},
		},
		{
			name:   "title only",
			id:     2,
			patch:  model.TaskPatch{Title: strPtr("renamed")},
			wantOK: true,
			check: func(t *testing.T, task model.Task) {
				assert.Equal(t, "renamed", task.Title)
				assert.True(t, task.Completed)
			},
		},
		{
			name:   "missing id is a no-op",
			id:     42,
			patch:  model.TaskPatch{Completed: boolPtr(true)},
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := s.Tasks()
			got, ok := s.Patch(tt.id, tt.patch)
			assert.Equal(t, tt.wantOK, ok)
			if !tt.wantOK {
				assert.Equal(t, before, s.Tasks())
				return
			}
			tt.check(t, got)
			stored, _ := s.Get(tt.id)
			assert.Equal(t, got, stored)
		})
	}
}

func TestStore_Remove(t *testing.T) {
	s := New()
	s.ReplaceAll(seed(7))

	assert.True(t, s.Remove(5))
	assert.Equal(t, []int64{1, 2, 3, 4, 6, 7}, ids(s.Tasks()))

	assert.False(t, s.Remove(5))
	assert.Equal(t, 6, s.Len())
}

func TestStore_Reorder(t *testing.T) {
	tests := []struct {
		name     string
		from, to int
		want     []int64
		wantErr  bool
	}{
		{name: "move down", from: 0, to: 2, want: []int64{2, 3, 1, 4}},
		{name: "move up", from: 3, to: 0, want: []int64{4, 1, 2, 3}},
		{name: "same index", from: 1, to: 1, want: []int64{1, 2, 3, 4}},
		{name: "from out of range", from: 4, to: 0, wantErr: true},
		{name: "to out of range", from: 0, to: 4, wantErr: true},
		{name: "negative", from: -1, to: 0, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New()
			s.ReplaceAll(seed(4))

			err := s.Reorder(tt.from, tt.to)
			if tt.wantErr {
				var ierr *IndexError
				require.ErrorAs(t, err, &ierr)
				assert.ErrorIs(t, err, ErrIndexOutOfRange)
				assert.Equal(t, 4, ierr.Length)
				assert.Equal(t, []int64{1, 2, 3, 4}, ids(s.Tasks()))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, ids(s.Tasks()))
		})
	}
}

func TestStore_Reorder_Empty(t *testing.T) {
	s := New()
	assert.ErrorIs(t, s.Reorder(0, 0), ErrIndexOutOfRange)
}

func TestStore_Reorder_InverseLaw(t *testing.T) {
	s := New()
	s.ReplaceAll(seed(6))
	original := s.Tasks()

	for i := 0; i < 6; i++ {
		for j := 0; j < 6; j++ {
			require.NoError(t, s.Reorder(i, j))
			require.NoError(t, s.Reorder(j, i))
			require.Equal(t, original, s.Tasks(), "reorder(%d,%d) then reorder(%d,%d)", i, j, j, i)
		}
	}
}

func TestStore_UniqueIDs_RandomOperations(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	s := New()
	s.ReplaceAll(seed(5))

	for step := 0; step < 500; step++ {
		id := int64(rng.Intn(12))
		switch rng.Intn(3) {
		case 0:
			s.InsertFront(model.Task{ID: id, Title: "x"})
		case 1:
			s.Remove(id)
		case 2:
			s.Patch(id, model.TaskPatch{Completed: boolPtr(rng.Intn(2) == 0)})
		}

		seen := make(map[int64]bool)
		for _, task := range s.Tasks() {
			require.False(t, seen[task.ID], "duplicate id %d after step %d", task.ID, step)
			seen[task.ID] = true
		}
	}
}

func TestStore_Filter(t *testing.T) {
	s := New()

	got := s.SetFilter(model.FilterPatch{Status: statusPtr(model.StatusCompleted)})
	assert.Equal(t, model.FilterCriteria{Status: model.StatusCompleted}, got)

	got = s.SetFilter(model.FilterPatch{Search: strPtr("milk")})
	assert.Equal(t, model.FilterCriteria{Status: model.StatusCompleted, Search: "milk"}, got)
	assert.True(t, s.HasActiveFilters())

	s.ClearFilter()
	assert.Equal(t, model.DefaultFilter(), s.Filter())
	assert.False(t, s.HasActiveFilters())
}

func TestStore_ErrorAndLoading(t *testing.T) {
	s := New()

	s.SetLoading(true)
	assert.True(t, s.Loading())

	msg := "Refresh failed"
	s.SetError(&msg)
	msg = "mutated after the call"
	require.NotNil(t, s.Err())
	assert.Equal(t, "Refresh failed", *s.Err())
	assert.False(t, s.Loading(), "setting an error ends loading")

	s.ClearError()
	assert.Nil(t, s.Err())
}

func TestStore_VisibleTasks_Identity(t *testing.T) {
	s := New()
	s.ReplaceAll(seed(5))

	assert.Equal(t, s.Tasks(), s.VisibleTasks())
}

func TestStore_VisibleTasks(t *testing.T) {
	s := New()
	s.ReplaceAll([]model.Task{
		{ID: 1, Title: "Buy milk", Completed: false},
		{ID: 2, Title: "Walk the dog", Completed: true},
		{ID: 3, Title: "buy MILK again", Completed: true},
		{ID: 4, Title: "Write report", Completed: false},
	})

	tests := []struct {
		name   string
		filter model.FilterCriteria
		want   []int64
	}{
		{name: "all", filter: model.FilterCriteria{Status: model.StatusAll}, want: []int64{1, 2, 3, 4}},
		{name: "completed", filter: model.FilterCriteria{Status: model.StatusCompleted}, want: []int64{2, 3}},
		{name: "incomplete", filter: model.FilterCriteria{Status: model.StatusIncomplete}, want: []int64{1, 4}},
		{name: "search is case-insensitive", filter: model.FilterCriteria{Status: model.StatusAll, Search: "MiLk"}, want: []int64{1, 3}},
		{name: "search and status", filter: model.FilterCriteria{Status: model.StatusIncomplete, Search: "milk"}, want: []int64{1}},
		{name: "no match", filter: model.FilterCriteria{Status: model.StatusAll, Search: "zebra"}, want: []int64{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, search := tt.filter.Status, tt.filter.Search
			s.SetFilter(model.FilterPatch{Status: &status, Search: &search})

			got := s.VisibleTasks()
			assert.Equal(t, tt.want, ids(got))

			// a task is visible iff it satisfies both predicates
			for _, task := range s.Tasks() {
				statusOK := tt.filter.Status == model.StatusAll ||
					(tt.filter.Status == model.StatusCompleted && task.Completed) ||
					(tt.filter.Status == model.StatusIncomplete && !task.Completed)
				searchOK := strings.Contains(strings.ToLower(task.Title), strings.ToLower(tt.filter.Search))
				assert.Equal(t, statusOK && searchOK, contains(got, task.ID), "task %d", task.ID)
			}
		})
	}
}

func TestStore_Counts(t *testing.T) {
	s := New()
	s.ReplaceAll(seed(5))
	s.SetFilter(model.FilterPatch{Status: statusPtr(model.StatusCompleted)})

	assert.Equal(t, model.Counts{All: 5, Completed: 2, Incomplete: 3}, s.Counts())
}

func contains(tasks []model.Task, id int64) bool {
	for _, t := range tasks {
		if t.ID == id {
			return true
		}
	}
	return false
}
