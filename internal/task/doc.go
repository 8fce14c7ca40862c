// Package task provides a bounded, in-process task queue used to cap how many
// write operations reach the store at once.
//
// Tasks are admitted in FIFO order and executed in batches of at most
// Concurrency actions. Observers can subscribe to per-task completion and to
// the backlog draining to empty. Nothing is persisted: tasks that have not been
// dispatched are lost when the process exits.
package task
