package tablemaker

import (
	"cmp"
	"slices"
	"sync"
	"time"
)

// Timer is a scheduled function call that can be stopped.
type Timer interface {
	Stop() bool
}

// Scheduler schedules function calls after a delay.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
}

// TimerScheduler implements Scheduler with time.AfterFunc.
type TimerScheduler struct{}

func (TimerScheduler) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// Debouncer coalesces calls per source:
// a call runs after a quiet period of delay
// and is superseded by any newer call for the same source
// that is made before that.
type Debouncer struct {
	mu        sync.Mutex
	scheduler Scheduler
	delay     time.Duration
	seq       uint64
	pending   map[string]*debouncedCall
}

type debouncedCall struct {
	seq   uint64
	timer Timer
	f     func()
}

// NewDebouncer returns a Debouncer using scheduler.
// A nil scheduler uses TimerScheduler.
func NewDebouncer(scheduler Scheduler, delay time.Duration) *Debouncer {
	if scheduler == nil {
		scheduler = TimerScheduler{}
	}
	return &Debouncer{
		scheduler: scheduler,
		delay:     delay,
		pending:   make(map[string]*debouncedCall),
	}
}

// Call schedules f for source replacing
// a still pending call of the same source.
func (d *Debouncer) Call(source string, f func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if prev := d.pending[source]; prev != nil {
		prev.timer.Stop()
	}
	d.seq++
	call := &debouncedCall{seq: d.seq, f: f}
	d.pending[source] = call
	call.timer = d.scheduler.AfterFunc(d.delay, func() { d.fire(source, call.seq) })
}

func (d *Debouncer) fire(source string, seq uint64) {
	d.mu.Lock()
	call := d.pending[source]
	if call == nil || call.seq != seq {
		// superseded or flushed
		d.mu.Unlock()
		return
	}
	delete(d.pending, source)
	d.mu.Unlock()

	call.f()
}

// Cancel drops a pending call of source without running it.
func (d *Debouncer) Cancel(source string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if call := d.pending[source]; call != nil {
		call.timer.Stop()
		delete(d.pending, source)
	}
}

// Pending returns the number of calls waiting to run.
func (d *Debouncer) Pending() int {
	d.mu.Lock()
	defer d.mu.Unlock()

	return len(d.pending)
}

// Flush runs all pending calls immediately
// in the order they were scheduled.
func (d *Debouncer) Flush() {
	for _, call := range d.take() {
		call.f()
	}
}

// Stop drops all pending calls.
func (d *Debouncer) Stop() {
	d.take()
}

func (d *Debouncer) take() []*debouncedCall {
	d.mu.Lock()
	defer d.mu.Unlock()

	calls := make([]*debouncedCall, 0, len(d.pending))
	for source, call := range d.pending {
		call.timer.Stop()
		calls = append(calls, call)
		delete(d.pending, source)
	}
	slices.SortFunc(calls, func(a, b *debouncedCall) int {
		return cmp.Compare(a.seq, b.seq)
	})
	return calls
}
