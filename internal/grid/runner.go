package grid

import (
	"sync"
	"time"
)

// Tick is reported to the observer after every simulation step.
type Tick struct {
	State   State
	Outcome Outcome
}

// Runner paces an Engine with a Scheduler. Steer may be called from any
// goroutine; observer calls are serialised and never overlap.
type Runner struct {
	mu        sync.Mutex
	engine    *Engine
	paused    bool
	best      int
	done      chan struct{}
	closeOnce sync.Once

	sched    *Scheduler
	observer func(Tick)
}

func NewRunner(engine *Engine, observer func(Tick)) *Runner {
	r := &Runner{
		engine:   engine,
		done:     make(chan struct{}),
		observer: observer,
	}
	r.sched = NewScheduler(r.tick)
	return r
}

func (r *Runner) Start() {
	r.mu.Lock()
	interval := r.engine.Interval()
	r.mu.Unlock()
	r.sched.Start(interval)
}

func (r *Runner) Steer(d Direction) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.engine.Steer(d)
}

func (r *Runner) TogglePause() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.paused = !r.paused
	return r.paused
}

func (r *Runner) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.engine.State()
}

// BestScore is the highest score this runner has seen.
func (r *Runner) BestScore() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.best
}

func (r *Runner) Interval() time.Duration {
	return r.sched.Interval()
}

// Done is closed once the snake is eliminated or the runner is stopped.
func (r *Runner) Done() <-chan struct{} {
	return r.done
}

func (r *Runner) Stop() {
	r.sched.Stop()
	r.closeOnce.Do(func() { close(r.done) })
}

func (r *Runner) tick() {
	r.mu.Lock()
	if r.paused {
		r.mu.Unlock()
		return
	}
	outcome := r.engine.Advance()
	state := r.engine.State()
	r.best = max(r.best, state.Score)
	r.mu.Unlock()

	switch {
	case outcome.Eliminated:
		r.sched.Stop()
	case outcome.SpeedChanged:
		r.sched.Reschedule(Interval(state.SpeedLevel))
	}

	if r.observer != nil {
		r.observer(Tick{State: state, Outcome: outcome})
	}

	if outcome.Eliminated {
		r.closeOnce.Do(func() { close(r.done) })
	}
}
