// Package task tracks asynchronous agent queries submitted through the
// gateway. Tasks live in memory only; finished tasks are pruned by a
// scheduled reaper job.
package task

import (
	"cmp"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Status describes where a task is in its lifecycle.
type Status string

// Task lifecycle states.
const (
	StatusPending   Status = "pending"
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// Terminal reports whether the status is a final state.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// Task is one asynchronous agent query.
type Task struct {
	ID         string    `json:"task_id"`
	Question   string    `json:"question"`
	Status     Status    `json:"status"`
	Answer     string    `json:"answer,omitempty"`
	Error      string    `json:"error,omitempty"`
	Iterations int       `json:"iterations,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	FinishedAt time.Time `json:"finished_at,omitzero"`
}

// Tracker is a concurrent-safe in-memory task store.
type Tracker struct {
	mu    sync.RWMutex
	tasks map[string]Task
}

// NewTracker creates an empty Tracker.
func NewTracker() *Tracker {
	return &Tracker{tasks: make(map[string]Task)}
}

// Create registers a new pending task for the question and returns it.
func (tr *Tracker) Create(question string) Task {
	t := Task{
		ID:        uuid.NewString(),
		Question:  question,
		Status:    StatusPending,
		CreatedAt: time.Now().UTC(),
	}

	tr.mu.Lock()
	defer tr.mu.Unlock()
	tr.tasks[t.ID] = t
	return t
}

// Get returns the task with the given ID, or false if absent.
func (tr *Tracker) Get(id string) (Task, bool) {
	tr.mu.RLock()
	defer tr.mu.RUnlock()
	t, ok := tr.tasks[id]
	return t, ok
}

// List returns all tasks, newest first.
func (tr *Tracker) List() []Task {
	tr.mu.RLock()
	defer tr.mu.RUnlock()

	out := make([]Task, 0, len(tr.tasks))
	for _, t := range tr.tasks {
		out = append(out, t)
	}
	slices.SortFunc(out, func(a, b Task) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return out
}

// MarkRunning transitions a task to running.
func (tr *Tracker) MarkRunning(id string) {
	tr.update(id, func(t *Task) {
		t.Status = StatusRunning
	})
}

// MarkCompleted records a successful result.
func (tr *Tracker) MarkCompleted(id, answer string, iterations int) {
	tr.update(id, func(t *Task) {
		t.Status = StatusCompleted
		t.Answer = answer
		t.Iterations = iterations
		t.FinishedAt = time.Now().UTC()
	})
}

// MarkFailed records a failure.
func (tr *Tracker) MarkFailed(id string, err error) {
	tr.update(id, func(t *Task) {
		t.Status = StatusFailed
		t.Error = err.Error()
		t.FinishedAt = time.Now().UTC()
	})
}

// Prune removes terminal tasks that finished more than maxAge ago and
// returns how many were removed.
func (tr *Tracker) Prune(maxAge time.Duration) int {
	cutoff := time.Now().UTC().Add(-maxAge)

	tr.mu.Lock()
	defer tr.mu.Unlock()

	var pruned int
	for id, t := range tr.tasks {
		if t.Status.Terminal() && t.FinishedAt.Before(cutoff) {
			delete(tr.tasks, id)
			pruned++
		}
	}
	return pruned
}

// Len returns the number of tracked tasks.
func (tr *Tracker) Len() int {
	tr.mu.RLock()
	defer tr.mu.RUnlock()
	return len(tr.tasks)
}

func (tr *Tracker) update(id string, fn func(*Task)) {
	tr.mu.Lock()
	defer tr.mu.Unlock()

	t, ok := tr.tasks[id]
	if !ok {
		return
	}
	fn(&t)
	tr.tasks[id] = t
}
