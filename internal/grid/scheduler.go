package grid

import (
	"sync"
	"time"
)

// Scheduler runs a task periodically until stopped. Reschedule cancels the
// pending fire and arms a new interval; the running task, if any, completes
// and the new interval applies from the following fire.
//
// Every arm bumps a generation counter. A timer that fires after being
// superseded sees a stale generation and does nothing, so a cancel racing an
// in-flight fire is always a no-op for the stale side.
type Scheduler struct {
	task func()

	mu       sync.Mutex
	interval time.Duration
	gen      uint64
	timer    *time.Timer
	running  bool
	stopped  bool

	// run serialises task executions.
	run sync.Mutex
}

func NewScheduler(task func()) *Scheduler {
	return &Scheduler{task: task}
}

// Start arms the first fire. Calling Start on a running scheduler behaves like
// Reschedule; a stopped scheduler stays stopped.
func (s *Scheduler) Start(interval time.Duration) {
	s.Reschedule(interval)
}

func (s *Scheduler) Reschedule(interval time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return
	}
	s.interval = interval
	s.running = true
	s.armLocked()
}

func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopped = true
	s.running = false
	s.gen++
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

func (s *Scheduler) Interval() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.interval
}

func (s *Scheduler) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

func (s *Scheduler) armLocked() {
	if s.timer != nil {
		s.timer.Stop()
	}
	s.gen++
	gen := s.gen
	s.timer = time.AfterFunc(s.interval, func() { s.fire(gen) })
}

func (s *Scheduler) fire(gen uint64) {
	s.run.Lock()
	defer s.run.Unlock()

	s.mu.Lock()
	if s.stopped || gen != s.gen {
		s.mu.Unlock()
		return
	}
	s.mu.Unlock()

	s.task()

	s.mu.Lock()
	defer s.mu.Unlock()
	// The task may have rescheduled or stopped; only the current generation re-arms.
	if !s.stopped && gen == s.gen {
		s.armLocked()
	}
}
