// Package queue implements the durable FIFO of pending webhook tasks. The
// whole queue is persisted as one JSON array blob under a single key in the
// KV store, so it survives process restarts: the process handling a push
// notification is not guaranteed to be the one that processes it.
//
// Ordering works without head/tail pointers: Enqueue prepends to the front
// of the persisted array and Pop removes from the tail, which together yield
// strict oldest-first draining.
package queue

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/nvoss/slack-archive-backend/internal/domain"
	"github.com/nvoss/slack-archive-backend/internal/repo"
)

// DefaultKey is the KV key the task blob lives under.
const DefaultKey = "slack:webhook-tasks"

// TaskQueue is a durable FIFO over the KV blob store. The zero value is not
// usable; construct with New.
type TaskQueue struct {
	db  *gorm.DB
	key string
}

// New returns a queue persisted under DefaultKey.
func New(db *gorm.DB) *TaskQueue {
	return &TaskQueue{db: db, key: DefaultKey}
}

// NewWithKey returns a queue persisted under a caller-chosen key.
func NewWithKey(db *gorm.DB, key string) *TaskQueue {
	return &TaskQueue{db: db, key: key}
}

// Enqueue prepends a task and persists the whole queue.
func (q *TaskQueue) Enqueue(ctx context.Context, task domain.Task) error {
	tasks := q.load(ctx)
	tasks = append([]domain.Task{task}, tasks...)
	return q.save(ctx, tasks)
}

// Pop removes and returns the oldest task, persisting the shortened queue
// before returning — the task is durably out of the queue the moment the
// caller holds it, so a crash mid-processing drops it rather than replaying
// it (the poll pass rediscovers anything that was never recorded). Returns
// (nil, nil) when the queue is empty; the re-persist on that path leaves a
// well-formed empty blob behind even after corruption.
func (q *TaskQueue) Pop(ctx context.Context) (*domain.Task, error) {
	tasks := q.load(ctx)
	if len(tasks) == 0 {
		if err := q.save(ctx, tasks); err != nil {
			return nil, err
		}
		return nil, nil
	}
	last := tasks[len(tasks)-1]
	if err := q.save(ctx, tasks[:len(tasks)-1]); err != nil {
		return nil, err
	}
	return &last, nil
}

// Len reports how many tasks are currently persisted.
func (q *TaskQueue) Len(ctx context.Context) int {
	return len(q.load(ctx))
}

// load reads and decodes the persisted queue. A missing key, a malformed
// blob, or a blob that is not an array all degrade to an empty queue: one
// corrupt write must never wedge the push path permanently.
func (q *TaskQueue) load(ctx context.Context) []domain.Task {
	blob, ok, err := repo.LoadValue(ctx, q.db, q.key)
	if err != nil {
		log.Warn().Err(err).Str("key", q.key).Msg("task queue load failed; treating as empty")
		return nil
	}
	if !ok || blob == "" {
		return nil
	}
	var tasks []domain.Task
	if err := json.Unmarshal([]byte(blob), &tasks); err != nil {
		log.Warn().Err(err).Str("key", q.key).Msg("task queue blob corrupt; treating as empty")
		return nil
	}
	return tasks
}

// save persists the full queue as one JSON array blob. A nil slice is
// stored as an empty array, never as null.
func (q *TaskQueue) save(ctx context.Context, tasks []domain.Task) error {
	if tasks == nil {
		tasks = []domain.Task{}
	}
	blob, err := json.Marshal(tasks)
	if err != nil {
		return fmt.Errorf("queue: encode tasks: %w", err)
	}
	return repo.SaveValue(ctx, q.db, q.key, string(blob))
}
