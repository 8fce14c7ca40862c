package task

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/phrazzld/booklib-api/internal/events"
	"github.com/phrazzld/booklib-api/internal/platform/logger"
	"github.com/sourcegraph/conc"
	"github.com/sourcegraph/conc/panics"
)

// ListenerID identifies a listener registered with AddEventListener.
type ListenerID = events.SubscriptionID

// Queue runs admitted tasks in FIFO batches of at most concurrency actions.
//
// A single run loop goroutine is active while there is work to dispatch. It
// takes up to concurrency tasks from the front of the backlog, runs them
// concurrently, waits for the whole batch to settle and then either loops or,
// if the backlog is empty, emits EventBacklogDrained and exits.
type Queue struct {
	concurrency int
	logger      *slog.Logger
	listeners   *events.Bus[EventKind, Event]

	mu       sync.Mutex
	pending  []*Task
	running  bool // a run loop goroutine is active
	inFlight bool // a batch is executing
	stopped  bool
	// reset is closed and replaced by Destroy to release WaitForCompletion callers.
	reset chan struct{}
}

// NewQueue creates a queue that runs at most concurrency tasks at a time.
// Values below 1 are clamped to 1.
func NewQueue(concurrency int, logger *slog.Logger) *Queue {
	if logger == nil {
		logger = slog.Default()
	}

	if concurrency < 1 {
		logger.Warn("invalid queue concurrency specified, using default",
			"specified_concurrency", concurrency,
			"default_concurrency", 1)
		concurrency = 1
	}

	return &Queue{
		concurrency: concurrency,
		logger:      logger.With("component", "task_queue"),
		listeners:   events.NewBus[EventKind, Event](logger),
		reset:       make(chan struct{}),
	}
}

// Concurrency returns the maximum number of tasks run per batch.
func (q *Queue) Concurrency() int {
	return q.concurrency
}

// Add admits action under name and starts the run loop if none is active.
//
// The returned channel is closed after the batch containing this task has
// settled, whether or not the action succeeded. The action receives ctx with
// its cancellation removed: request-scoped values reach the action, but an
// admitted task is not abandoned when the caller goes away.
func (q *Queue) Add(ctx context.Context, name string, action Action) <-chan struct{} {
	t := &Task{
		Name:       name,
		EnqueuedAt: time.Now(),
		ctx:        context.WithoutCancel(ctx),
		action:     action,
		done:       make(chan struct{}),
	}

	q.mu.Lock()
	q.pending = append(q.pending, t)
	queueLen := len(q.pending)
	startLoop := !q.running
	if startLoop {
		q.running = true
	}
	q.mu.Unlock()

	q.logger.Debug("task enqueued",
		"task_name", name,
		"queue_len", queueLen,
		"started_run_loop", startLoop)

	if startLoop {
		go q.run()
	}

	return t.done
}

// Do adds action and blocks until its batch has settled or ctx is done.
// It returns ctx.Err() if ctx ends first; the task itself still runs.
func (q *Queue) Do(ctx context.Context, name string, action Action) error {
	done := q.Add(ctx, name, action)

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// IsCompleted reports whether the backlog is empty. A batch may still be
// executing when it returns true.
func (q *Queue) IsCompleted() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending) == 0
}

// Len returns the number of tasks waiting to be dispatched.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}

// WaitForCompletion blocks until the backlog has drained. It returns nil
// immediately if nothing is pending and no batch is executing. Otherwise it
// waits for the next EventBacklogDrained, ctx cancellation, or Destroy.
func (q *Queue) WaitForCompletion(ctx context.Context) error {
	drained := make(chan struct{})
	var once sync.Once

	q.mu.Lock()
	if len(q.pending) == 0 && !q.inFlight {
		q.mu.Unlock()
		return nil
	}
	reset := q.reset
	// Registered under q.mu so the check and the subscription are atomic with
	// respect to the run loop's drain decision.
	id := q.listeners.Subscribe(EventBacklogDrained, func(Event) {
		once.Do(func() { close(drained) })
	})
	q.mu.Unlock()

	defer q.listeners.Unsubscribe(EventBacklogDrained, id)

	select {
	case <-drained:
		return nil
	case <-reset:
		return ErrQueueDestroyed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Stop prevents the run loop from dispatching further batches. Tasks already
// in flight run to completion and pending tasks stay queued until Start.
func (q *Queue) Stop() {
	q.mu.Lock()
	q.stopped = true
	pending := len(q.pending)
	q.mu.Unlock()

	q.logger.Info("task queue stopped", "pending_count", pending)
}

// Start clears a previous Stop and resumes dispatching pending tasks.
func (q *Queue) Start() {
	q.mu.Lock()
	q.stopped = false
	startLoop := !q.running && len(q.pending) > 0
	if startLoop {
		q.running = true
	}
	pending := len(q.pending)
	q.mu.Unlock()

	q.logger.Info("task queue started", "pending_count", pending)

	if startLoop {
		go q.run()
	}
}

// Destroy discards every pending task and every listener. Batches already in
// flight are not cancelled. Discarded tasks have their done channels closed
// and WaitForCompletion callers return ErrQueueDestroyed.
func (q *Queue) Destroy() {
	q.mu.Lock()
	dropped := q.pending
	q.pending = nil
	q.listeners.Clear()
	close(q.reset)
	q.reset = make(chan struct{})
	q.mu.Unlock()

	for _, t := range dropped {
		close(t.done)
	}

	q.logger.Info("task queue destroyed", "dropped_count", len(dropped))
}

// AddEventListener registers fn for kind. Listeners of the same kind run in
// registration order. EventTaskCompleted listeners may be called concurrently
// by tasks of the same batch.
func (q *Queue) AddEventListener(kind EventKind, fn Listener) ListenerID {
	return q.listeners.Subscribe(kind, events.Handler[Event](fn))
}

// RemoveEventListener unregisters a listener. It reports whether one was removed.
func (q *Queue) RemoveEventListener(kind EventKind, id ListenerID) bool {
	return q.listeners.Unsubscribe(kind, id)
}

// run is the queue's run loop. Exactly one instance is active while
// q.running is true.
//
// The drained decision is made under q.mu but EventBacklogDrained is emitted
// after unlocking, so an Add landing in between can start a new loop while
// waiters are being released. Those waiters observed an empty backlog with no
// batch in flight at the moment the decision was taken.
func (q *Queue) run() {
	for {
		q.mu.Lock()
		if q.stopped {
			q.running = false
			q.mu.Unlock()
			q.logger.Debug("run loop exiting, queue is stopped")
			return
		}

		batch := q.dequeueLocked()
		if len(batch) == 0 {
			q.running = false
			q.mu.Unlock()
			return
		}
		q.inFlight = true
		q.mu.Unlock()

		q.executeBatch(batch)

		q.mu.Lock()
		q.inFlight = false
		drained := len(q.pending) == 0
		if drained {
			q.running = false
		}
		q.mu.Unlock()

		if drained {
			q.logger.Debug("task backlog drained")
			q.listeners.Emit(EventBacklogDrained, Event{Kind: EventBacklogDrained, Name: DrainedEventName})
		}

		for _, t := range batch {
			close(t.done)
		}

		if drained {
			return
		}
	}
}

// dequeueLocked removes up to q.concurrency tasks from the front of the
// backlog. q.mu must be held.
func (q *Queue) dequeueLocked() []*Task {
	n := min(q.concurrency, len(q.pending))
	if n == 0 {
		return nil
	}

	batch := make([]*Task, n)
	copy(batch, q.pending[:n])

	// Zero the dispatched slots so settled tasks can be collected.
	clear(q.pending[:n])
	q.pending = q.pending[n:]
	if len(q.pending) == 0 {
		q.pending = nil
	}

	return batch
}

// executeBatch runs every task of batch concurrently and waits for all of them.
func (q *Queue) executeBatch(batch []*Task) {
	var wg conc.WaitGroup
	for _, t := range batch {
		wg.Go(func() { q.execute(t) })
	}
	wg.Wait()
}

// execute runs a single task, absorbing errors and panics, then emits
// EventTaskCompleted.
func (q *Queue) execute(t *Task) {
	log := logger.FromContextOrDefault(t.ctx, q.logger).With(
		"task_name", t.Name,
		"queued_for_ms", time.Since(t.EnqueuedAt).Milliseconds(),
	)

	start := time.Now()
	var err error
	if r := panics.Try(func() { err = t.action(t.ctx) }); r != nil {
		err = r.AsError()
	}

	if err != nil {
		log.Error("task action failed",
			"error", err,
			"duration_ms", time.Since(start).Milliseconds())
	} else {
		log.Debug("task action completed",
			"duration_ms", time.Since(start).Milliseconds())
	}

	q.listeners.Emit(EventTaskCompleted, Event{Kind: EventTaskCompleted, Name: t.Name})
}
