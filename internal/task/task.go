package task

import (
	"context"
	"errors"
	"time"
)

// DrainedEventName is the name carried by every EventBacklogDrained event.
const DrainedEventName = "all"

// ErrQueueDestroyed is returned to WaitForCompletion callers that were waiting
// when the queue was destroyed.
var ErrQueueDestroyed = errors.New("task queue destroyed")

// Action is a unit of deferred work. A returned error is logged by the queue
// and never reported back to the enqueuer.
type Action func(ctx context.Context) error

// EventKind identifies a queue event.
type EventKind string

const (
	// EventTaskCompleted fires once per task, right after its action settles.
	EventTaskCompleted EventKind = "task_completed"

	// EventBacklogDrained fires when a run cycle ends with nothing pending.
	EventBacklogDrained EventKind = "backlog_drained"
)

// Event is delivered to queue listeners.
type Event struct {
	Kind EventKind
	// Name is the task name for EventTaskCompleted and DrainedEventName for
	// EventBacklogDrained.
	Name string
}

// Listener observes queue events.
type Listener func(Event)

// Task is a named action waiting in, or dispatched from, the queue.
type Task struct {
	// Name labels the task in events and logs. It is not an identity key.
	Name string

	// EnqueuedAt is when the task was admitted. Used for diagnostics only.
	EnqueuedAt time.Time

	ctx    context.Context
	action Action
	done   chan struct{}
}

// Done is closed once the batch that ran this task has settled, or when the
// task is discarded by Destroy.
func (t *Task) Done() <-chan struct{} {
	return t.done
}
