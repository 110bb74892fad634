package executor

import (
	"sync"

	"github.com/br-lewis/continuum/future"
)

// Queue is a deterministic FIFO future.Executor: Enqueue appends to an
// internal slice instead of running anything, and tasks only run when a
// test explicitly calls RunOne or Drain. This gives tests full control over
// interleaving without needing real goroutines or sleeps to observe
// continuation ordering.
//
// A Queue is safe to use from multiple goroutines (Enqueue may be called
// from inside a running task, e.g. a chained Then firing a further Then),
// but RunOne/Drain are meant to be driven from the test goroutine.
type Queue struct {
	mu    sync.Mutex
	tasks []future.Task
}

// NewQueue constructs an empty Queue.
func NewQueue() *Queue {
	return &Queue{}
}

// Enqueue implements future.Executor.
func (q *Queue) Enqueue(t future.Task) {
	q.mu.Lock()
	q.tasks = append(q.tasks, t)
	q.mu.Unlock()
}

// Len reports how many tasks are currently queued.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.tasks)
}

// RunOne pops and runs the oldest queued task, reporting whether there was
// one to run. Running the task may itself enqueue further tasks (a chained
// continuation firing its own successor); those land at the back of the
// queue and are not run by this call.
func (q *Queue) RunOne() bool {
	q.mu.Lock()
	if len(q.tasks) == 0 {
		q.mu.Unlock()
		return false
	}
	t := q.tasks[0]
	q.tasks = q.tasks[1:]
	q.mu.Unlock()
	t()
	return true
}

// Drain runs tasks, including any they enqueue in turn, until the queue is
// empty. Returns the number of tasks run.
func (q *Queue) Drain() int {
	n := 0
	for q.RunOne() {
		n++
	}
	return n
}
