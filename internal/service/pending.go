package service

import (
	"sync"

	"github.com/BuzzLyutic/todo-client/internal/model"
)

type opKind int

const (
	opCreate opKind = iota
	opUpdate
	opDelete
	opKinds
)

// pendingTracker follows only the most recently started call of each kind:
// idle -> pending -> idle. A call that finishes after a newer one has
// started leaves the flag alone.
type pendingTracker struct {
	mu     sync.Mutex
	seq    uint64
	latest [opKinds]uint64
	active [opKinds]bool
}

func (t *pendingTracker) begin(k opKind) (done func()) {
	t.mu.Lock()
	t.seq++
	token := t.seq
	t.latest[k] = token
	t.active[k] = true
	t.mu.Unlock()

	return func() {
		t.mu.Lock()
		defer t.mu.Unlock()
		if t.latest[k] == token {
			t.active[k] = false
		}
	}
}

func (t *pendingTracker) flags() model.Flags {
	t.mu.Lock()
	defer t.mu.Unlock()
	return model.Flags{
		Creating: t.active[opCreate],
		Updating: t.active[opUpdate],
		Deleting: t.active[opDelete],
	}
}
