package player

import (
	"slices"
	"sync"
	"sync/atomic"
	"time"
)

// TimeObservers tracks periodic and boundary time observers for a host
// player. The host calls Advance from its clock while playing and Reset when
// the position jumps (new item, seek).
type TimeObservers struct {
	mu       sync.Mutex
	last     time.Duration
	periodic []*periodicObserver
	boundary []*boundaryObserver
}

type periodicObserver struct {
	interval time.Duration
	next     time.Duration
	queue    Queue
	fn       func(time.Duration)
	removed  atomic.Bool
}

type boundaryObserver struct {
	times   []time.Duration
	queue   Queue
	fn      func()
	removed atomic.Bool
}

// AddPeriodic registers fn to be called every interval of playback time.
func (t *TimeObservers) AddPeriodic(interval time.Duration, queue Queue, fn func(time.Duration)) Token {
	t.mu.Lock()
	defer t.mu.Unlock()
	o := &periodicObserver{interval: interval, queue: queue, fn: fn}
	o.next = nextMultiple(t.last, interval)
	t.periodic = append(t.periodic, o)
	return o
}

// AddBoundary registers fn to be called whenever playback crosses one of times.
func (t *TimeObservers) AddBoundary(times []time.Duration, queue Queue, fn func()) Token {
	t.mu.Lock()
	defer t.mu.Unlock()
	marks := slices.Clone(times)
	slices.Sort(marks)
	o := &boundaryObserver{times: marks, queue: queue, fn: fn}
	t.boundary = append(t.boundary, o)
	return o
}

// Remove unregisters the observer behind token. Unknown tokens are ignored.
func (t *TimeObservers) Remove(token Token) {
	t.mu.Lock()
	defer t.mu.Unlock()
	switch o := token.(type) {
	case *periodicObserver:
		o.removed.Store(true)
		t.periodic = slices.DeleteFunc(t.periodic, func(x *periodicObserver) bool { return x == o })
	case *boundaryObserver:
		o.removed.Store(true)
		t.boundary = slices.DeleteFunc(t.boundary, func(x *boundaryObserver) bool { return x == o })
	}
}

// Len returns the number of registered observers.
func (t *TimeObservers) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.periodic) + len(t.boundary)
}

// Advance moves the clock forward to pos and fires due observers.
// Moving backwards is handled as a Reset.
func (t *TimeObservers) Advance(pos time.Duration) {
	t.mu.Lock()
	if pos < t.last {
		t.mu.Unlock()
		t.Reset(pos)
		return
	}

	var calls []func()
	for _, o := range t.periodic {
		if o.interval > 0 && pos < o.next {
			continue
		}
		o.next = nextMultiple(pos, o.interval)
		calls = append(calls, periodicCall(o, pos))
	}
	for _, o := range t.boundary {
		for _, m := range o.times {
			if m > t.last && m <= pos {
				calls = append(calls, boundaryCall(o))
			}
		}
	}
	t.last = pos
	t.mu.Unlock()

	for _, call := range calls {
		call()
	}
}

// Reset jumps the clock to pos. Periodic observers fire once with the new
// position; boundary observers do not fire.
func (t *TimeObservers) Reset(pos time.Duration) {
	t.mu.Lock()
	calls := make([]func(), 0, len(t.periodic))
	for _, o := range t.periodic {
		o.next = nextMultiple(pos, o.interval)
		calls = append(calls, periodicCall(o, pos))
	}
	t.last = pos
	t.mu.Unlock()

	for _, call := range calls {
		call()
	}
}

func periodicCall(o *periodicObserver, pos time.Duration) func() {
	return func() {
		if o.removed.Load() {
			return
		}
		dispatch(o.queue, func() { o.fn(pos) })
	}
}

func boundaryCall(o *boundaryObserver) func() {
	return func() {
		if o.removed.Load() {
			return
		}
		dispatch(o.queue, o.fn)
	}
}

// nextMultiple returns the first multiple of interval strictly after pos.
func nextMultiple(pos, interval time.Duration) time.Duration {
	if interval <= 0 {
		return pos
	}
	return (pos/interval + 1) * interval
}
