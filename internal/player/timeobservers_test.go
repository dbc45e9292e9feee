package player

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTimeObservers_PeriodicFiresEachInterval(t *testing.T) {
	var obs TimeObservers
	var got []time.Duration
	obs.AddPeriodic(time.Second, nil, func(pos time.Duration) { got = append(got, pos) })

	for _, pos := range []time.Duration{
		200 * time.Millisecond,
		900 * time.Millisecond,
		1050 * time.Millisecond,
		1500 * time.Millisecond,
		2 * time.Second,
		3100 * time.Millisecond,
	} {
		obs.Advance(pos)
	}

	assert.Equal(t, []time.Duration{1050 * time.Millisecond, 2 * time.Second, 3100 * time.Millisecond}, got)
}

func TestTimeObservers_PeriodicSkippedIntervalsFireOnce(t *testing.T) {
	var obs TimeObservers
	calls := 0
	obs.AddPeriodic(time.Second, nil, func(time.Duration) { calls++ })

	obs.Advance(5 * time.Second)

	assert.Equal(t, 1, calls)
}

func TestTimeObservers_NonPositiveIntervalFiresEveryAdvance(t *testing.T) {
	var obs TimeObservers
	calls := 0
	obs.AddPeriodic(0, nil, func(time.Duration) { calls++ })

	obs.Advance(10 * time.Millisecond)
	obs.Advance(20 * time.Millisecond)
	obs.Advance(20 * time.Millisecond)

	assert.Equal(t, 3, calls)
}

func TestTimeObservers_ResetFiresPeriodicOnly(t *testing.T) {
	var obs TimeObservers
	var periodic []time.Duration
	boundary := 0
	obs.AddPeriodic(time.Second, nil, func(pos time.Duration) { periodic = append(periodic, pos) })
	obs.AddBoundary([]time.Duration{5 * time.Second}, nil, func() { boundary++ })

	obs.Reset(10 * time.Second)

	assert.Equal(t, []time.Duration{10 * time.Second}, periodic)
	assert.Equal(t, 0, boundary)

	// Next periodic fire is relative to the reset position.
	obs.Advance(10500 * time.Millisecond)
	obs.Advance(11 * time.Second)
	assert.Equal(t, []time.Duration{10 * time.Second, 11 * time.Second}, periodic)
}

func TestTimeObservers_BoundaryFiresOnCrossing(t *testing.T) {
	var obs TimeObservers
	calls := 0
	obs.AddBoundary([]time.Duration{time.Second}, nil, func() { calls++ })

	obs.Advance(500 * time.Millisecond)
	assert.Equal(t, 0, calls)

	obs.Advance(time.Second)
	assert.Equal(t, 1, calls)

	obs.Advance(3 * time.Second)
	assert.Equal(t, 1, calls, "a mark fires once per crossing")
}

func TestTimeObservers_BoundaryFiresForEveryCrossedMark(t *testing.T) {
	var obs TimeObservers
	calls := 0
	obs.AddBoundary([]time.Duration{3 * time.Second, time.Second, 2 * time.Second}, nil, func() { calls++ })

	obs.Advance(2500 * time.Millisecond)

	assert.Equal(t, 2, calls)
}

func TestTimeObservers_BackwardsMoveRearmsBoundary(t *testing.T) {
	var obs TimeObservers
	calls := 0
	obs.AddBoundary([]time.Duration{time.Second}, nil, func() { calls++ })

	obs.Advance(2 * time.Second)
	obs.Advance(0)
	obs.Advance(2 * time.Second)

	assert.Equal(t, 2, calls)
}

func TestTimeObservers_RemoveStopsCallbacks(t *testing.T) {
	var obs TimeObservers
	periodic, boundary := 0, 0
	p := obs.AddPeriodic(time.Second, nil, func(time.Duration) { periodic++ })
	b := obs.AddBoundary([]time.Duration{time.Second}, nil, func() { boundary++ })
	assert.Equal(t, 2, obs.Len())

	obs.Remove(p)
	obs.Remove(b)
	obs.Remove(b)
	obs.Remove("unknown")
	obs.Advance(2 * time.Second)

	assert.Equal(t, 0, obs.Len())
	assert.Equal(t, 0, periodic)
	assert.Equal(t, 0, boundary)
}

func TestTimeObservers_RemoveFromCallbackSkipsPendingCall(t *testing.T) {
	var obs TimeObservers
	var second Token
	secondCalls := 0
	obs.AddPeriodic(time.Second, nil, func(time.Duration) { obs.Remove(second) })
	second = obs.AddPeriodic(time.Second, nil, func(time.Duration) { secondCalls++ })

	obs.Advance(time.Second)

	assert.Equal(t, 0, secondCalls)
}

func TestTimeObservers_DispatchesThroughQueue(t *testing.T) {
	var obs TimeObservers
	var queued []func()
	queue := func(fn func()) { queued = append(queued, fn) }
	var got []time.Duration
	obs.AddPeriodic(time.Second, queue, func(pos time.Duration) { got = append(got, pos) })

	obs.Advance(time.Second)
	assert.Empty(t, got, "callback must wait for the queue")
	assert.Len(t, queued, 1)

	queued[0]()
	assert.Equal(t, []time.Duration{time.Second}, got)
}

func TestTimeObservers_CallbackMayRegister(t *testing.T) {
	var obs TimeObservers
	obs.AddBoundary([]time.Duration{time.Second}, nil, func() {
		obs.AddBoundary([]time.Duration{2 * time.Second}, nil, func() {})
	})

	obs.Advance(time.Second)

	assert.Equal(t, 2, obs.Len())
}

func TestNextMultiple(t *testing.T) {
	tests := []struct {
		name     string
		pos      time.Duration
		interval time.Duration
		expected time.Duration
	}{
		{"zero position", 0, time.Second, time.Second},
		{"exact multiple moves to next", 2 * time.Second, time.Second, 3 * time.Second},
		{"between multiples", 1500 * time.Millisecond, time.Second, 2 * time.Second},
		{"non-positive interval", 5 * time.Second, 0, 5 * time.Second},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := nextMultiple(tt.pos, tt.interval); got != tt.expected {
				t.Errorf("nextMultiple(%v, %v) = %v, want %v", tt.pos, tt.interval, got, tt.expected)
			}
		})
	}
}
