package executor

import (
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/br-lewis/continuum/future"
)

// Loop runs a dedicated goroutine that drains enqueued tasks one at a time,
// in order, recovering and logging any panic a continuation raises so a
// single misbehaving callback can't take the rest of the process's
// in-flight futures down with it. This is the production Executor: install
// it once at startup with future.SetExecutor(executor.NewLoop()).
type Loop struct {
	tasks chan future.Task
	log   logrus.FieldLogger
	done  chan struct{}
	once  sync.Once
}

// Option configures a Loop during construction.
type Option func(*loopConfig)

type loopConfig struct {
	log       logrus.FieldLogger
	queueSize int
}

// WithLogger sets the logger used to report recovered panics. Defaults to
// logrus.StandardLogger().
func WithLogger(l logrus.FieldLogger) Option {
	return func(c *loopConfig) {
		if l != nil {
			c.log = l
		}
	}
}

// WithQueueSize sets the buffer size of the internal task channel. Defaults
// to 64; a full queue blocks whatever goroutine is fulfilling a future
// until the loop catches up.
func WithQueueSize(n int) Option {
	return func(c *loopConfig) {
		if n > 0 {
			c.queueSize = n
		}
	}
}

// NewLoop starts a Loop's worker goroutine and returns it ready to use as a
// future.Executor.
func NewLoop(opts ...Option) *Loop {
	cfg := loopConfig{log: logrus.StandardLogger(), queueSize: 64}
	for _, opt := range opts {
		opt(&cfg)
	}

	l := &Loop{
		tasks: make(chan future.Task, cfg.queueSize),
		log:   cfg.log,
		done:  make(chan struct{}),
	}
	go l.run()
	return l
}

// Enqueue implements future.Executor.
func (l *Loop) Enqueue(t future.Task) {
	l.tasks <- t
}

// Stop shuts the worker goroutine down once its queue drains. Enqueue must
// not be called again after Stop.
func (l *Loop) Stop() {
	l.once.Do(func() { close(l.tasks) })
	<-l.done
}

func (l *Loop) run() {
	defer close(l.done)
	for t := range l.tasks {
		l.runOne(t)
	}
}

func (l *Loop) runOne(t future.Task) {
	defer func() {
		if r := recover(); r != nil {
			l.log.WithField("panic", r).Error("continuum/executor: continuation panicked, recovered")
		}
	}()
	t()
}
