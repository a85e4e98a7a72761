package sim

import (
	"errors"
	"sync"
	"time"
)

// Clock abstracts wall time so the scheduler can be driven in tests.
type Clock interface {
	Now() time.Time
}

// RealClock reads the system clock.
type RealClock struct{}

// Now returns the current time.
func (RealClock) Now() time.Time { return time.Now() }

var (
	ErrSchedulerRunning = errors.New("sim: scheduler already running")
	ErrInvalidPeriod    = errors.New("sim: scheduler period must be positive")
)

// Scheduler turns elapsed wall time into discrete ticks. It never scales a
// tick: if it wakes late it hands dispatch the number of whole periods that
// elapsed and keeps the remainder for the next wake-up.
type Scheduler struct {
	clock    Clock
	dispatch func(ticks int)

	mu      sync.Mutex
	period  time.Duration
	last    time.Time
	running bool
	stop    chan struct{}
	done    chan struct{}
}

// NewScheduler creates a stopped scheduler. dispatch is called from the
// scheduler goroutine with the number of ticks to run.
func NewScheduler(clock Clock, dispatch func(ticks int)) *Scheduler {
	if clock == nil {
		clock = RealClock{}
	}
	return &Scheduler{clock: clock, dispatch: dispatch}
}

// Start begins ticking every period.
func (s *Scheduler) Start(period time.Duration) error {
	if period <= 0 {
		return ErrInvalidPeriod
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return ErrSchedulerRunning
	}

	s.period = period
	s.last = s.clock.Now()
	s.running = true
	s.stop = make(chan struct{})
	s.done = make(chan struct{})

	go s.loop(period, s.stop, s.done)
	return nil
}

// Stop halts the scheduler and waits for its goroutine to exit. No tick is
// dispatched after Stop returns. It must not be called from dispatch.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	close(s.stop)
	done := s.done
	s.mu.Unlock()

	<-done
}

// Running reports whether the scheduler is active.
func (s *Scheduler) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// Period returns the period of the last Start.
func (s *Scheduler) Period() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.period
}

// Due consumes every whole period elapsed between the last accounted
// instant and now, returning how many ticks are owed.
func (s *Scheduler) Due(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dueLocked(now)
}

func (s *Scheduler) dueLocked(now time.Time) int {
	if s.period <= 0 {
		return 0
	}
	elapsed := now.Sub(s.last)
	if elapsed < s.period {
		return 0
	}
	n := elapsed / s.period
	s.last = s.last.Add(n * s.period)
	return int(n)
}

func (s *Scheduler) loop(period time.Duration, stop, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(period)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			n := s.Due(s.clock.Now())
			if n == 0 {
				continue
			}
			select {
			case <-stop:
				return
			default:
			}
			s.dispatch(n)
		}
	}
}
