package model

// DefaultOwner is the placeholder owner attached to every created task.
const DefaultOwner int64 = 1

const MaxTitleLength = 100

type Task struct {
	ID        int64  `json:"id"`
	Title     string `json:"title"`
	Completed bool   `json:"completed"`
	Owner     int64  `json:"owner"`
	IsLocal   bool   `json:"is_local"`
}

// NewTask is the creation input sent to the remote source.
type NewTask struct {
	Title     string `json:"title"`
	Completed bool   `json:"completed"`
	Owner     int64  `json:"owner"`
}

// TaskPatch carries the fields to change; nil fields are left untouched.
type TaskPatch struct {
	Completed *bool   `json:"completed,omitempty"`
	Title     *string `json:"title,omitempty"`
}

func (p TaskPatch) IsEmpty() bool {
	return p.Completed == nil && p.Title == nil
}

// Apply merges the present fields of p into t.
func (p TaskPatch) Apply(t Task) Task {
	if p.Completed != nil {
		t.Completed = *p.Completed
	}
	if p.Title != nil {
		t.Title = *p.Title
	}
	return t
}

type DeleteResult struct {
	ID      int64 `json:"id"`
	Deleted bool  `json:"deleted"`
}
