// Package schedule coalesces bursts of calls into fewer recomputes.
//
// A Scheduler holds at most one pending call per key. Debounce replaces the
// pending call and restarts its timer on every request, so only the last
// call of a burst runs. Throttle runs the first call at once and then at
// most one call per interval, always finishing with the last call of the
// burst. A call superseded before it runs is dropped.
//
// Callbacks run on the timer's goroutine, or on the caller's goroutine for
// a leading throttle call or Flush.
package schedule

import (
	"sync"
	"time"
)

type mode int

const (
	modeDebounce mode = iota + 1
	modeThrottle
)

type entry struct {
	mode    mode
	timer   Timer
	pending func()
	gen     uint64
	lastRun time.Time
	ran     bool
}

// Scheduler runs keyed, rate-limited callbacks. The zero value is not
// usable; call New.
type Scheduler struct {
	mu      sync.Mutex
	clock   Clock
	entries map[string]*entry
	gen     uint64
	stopped bool

	// running counts callbacks in progress; idle is signalled when it
	// drops to zero.
	running int
	idle    *sync.Cond
}

// New returns a Scheduler on clock. A nil clock means RealClock.
func New(clock Clock) *Scheduler {
	if clock == nil {
		clock = RealClock()
	}
	s := &Scheduler{clock: clock, entries: make(map[string]*entry)}
	s.idle = sync.NewCond(&s.mu)
	return s
}

// run releases s.mu, which the caller holds, and calls fn.
func (s *Scheduler) run(fn func()) {
	s.running++
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		s.running--
		if s.running == 0 {
			s.idle.Broadcast()
		}
		s.mu.Unlock()
	}()
	fn()
}

func (s *Scheduler) entryFor(key string, m mode) *entry {
	e, ok := s.entries[key]
	if !ok || e.mode != m {
		if ok && e.timer != nil {
			e.timer.Stop()
		}
		e = &entry{mode: m}
		s.entries[key] = e
	}
	return e
}

// Debounce schedules fn to run after wait, replacing any call pending
// under key.
func (s *Scheduler) Debounce(key string, wait time.Duration, fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return
	}

	e := s.entryFor(key, modeDebounce)
	if e.timer != nil {
		e.timer.Stop()
	}
	s.gen++
	gen := s.gen
	e.gen = gen
	e.pending = fn
	e.timer = s.clock.AfterFunc(wait, func() { s.fire(key, gen) })
}

// Throttle runs fn at most once per interval for key.
//
// A call arriving when the key has been quiet for interval runs at once. A
// call arriving sooner becomes the pending trailing call, replacing any
// earlier pending one, and runs when the interval elapses.
func (s *Scheduler) Throttle(key string, interval time.Duration, fn func()) {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return
	}

	e := s.entryFor(key, modeThrottle)
	now := s.clock.Now()

	if e.timer == nil && (!e.ran || now.Sub(e.lastRun) >= interval) {
		e.ran = true
		e.lastRun = now
		s.run(fn)
		return
	}

	e.pending = fn
	if e.timer == nil {
		s.gen++
		gen := s.gen
		e.gen = gen
		e.timer = s.clock.AfterFunc(e.lastRun.Add(interval).Sub(now), func() { s.fire(key, gen) })
	}
	s.mu.Unlock()
}

// fire runs the pending call for key if gen is still current.
func (s *Scheduler) fire(key string, gen uint64) {
	s.mu.Lock()
	e, ok := s.entries[key]
	if !ok || s.stopped || e.gen != gen || e.pending == nil {
		s.mu.Unlock()
		return
	}
	fn := e.pending
	e.pending = nil
	e.timer = nil
	if e.mode == modeThrottle {
		e.ran = true
		e.lastRun = s.clock.Now()
	} else {
		delete(s.entries, key)
	}
	s.run(fn)
}

// Flush runs the call pending under key now, on the caller's goroutine.
// It reports whether a call was pending.
func (s *Scheduler) Flush(key string) bool {
	s.mu.Lock()
	e, ok := s.entries[key]
	if !ok || s.stopped || e.pending == nil {
		s.mu.Unlock()
		return false
	}
	if e.timer != nil {
		e.timer.Stop()
	}
	fn := e.pending
	e.pending = nil
	e.timer = nil
	s.gen++
	e.gen = s.gen
	if e.mode == modeThrottle {
		e.ran = true
		e.lastRun = s.clock.Now()
	} else {
		delete(s.entries, key)
	}
	s.run(fn)
	return true
}

// Wait blocks until no callback is running. It must not be called from a
// callback.
func (s *Scheduler) Wait() {
	s.mu.Lock()
	for s.running > 0 {
		s.idle.Wait()
	}
	s.mu.Unlock()
}

// Cancel drops the call pending under key. It reports whether one was
// pending.
func (s *Scheduler) Cancel(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[key]
	if !ok {
		return false
	}
	had := e.pending != nil
	if e.timer != nil {
		e.timer.Stop()
	}
	delete(s.entries, key)
	return had
}

// Pending reports whether a call is waiting under key.
func (s *Scheduler) Pending(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[key]
	return ok && e.pending != nil
}

// Stop cancels every pending call. Later requests are ignored.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for key, e := range s.entries {
		if e.timer != nil {
			e.timer.Stop()
		}
		delete(s.entries, key)
	}
	s.stopped = true
}
