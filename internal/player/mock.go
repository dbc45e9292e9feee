// internal/player/mock.go
package player

import (
	"fmt"
	"slices"
	"sync"
	"time"
)

// Mock is a test double for Player. Property setters notify observers like a
// real player; time observer registrations are recorded and only fire when
// the test calls FirePeriodic or FireBoundary.
type Mock struct {
	Properties

	mu                sync.Mutex
	token             Token
	registrations     int
	periodicIntervals []time.Duration
	boundaryTimes     [][]time.Duration
	removed           []Token
	timeObservers     []*mockTimeObserver
	onAddPeriodic     func(fn func(time.Duration))
	onAddBoundary     func(fn func())
}

type mockTimeObserver struct {
	token    Token
	periodic func(time.Duration)
	boundary func()
}

// NewMock creates a new mock player for testing.
func NewMock() *Mock {
	return &Mock{}
}

func (m *Mock) AddPeriodicTimeObserver(interval time.Duration, _ Queue, fn func(time.Duration)) Token {
	m.mu.Lock()
	m.periodicIntervals = append(m.periodicIntervals, interval)
	tok := m.nextTokenLocked()
	m.timeObservers = append(m.timeObservers, &mockTimeObserver{token: tok, periodic: fn})
	hook := m.onAddPeriodic
	m.mu.Unlock()

	if hook != nil {
		hook(fn)
	}
	return tok
}

func (m *Mock) AddBoundaryTimeObserver(times []time.Duration, _ Queue, fn func()) Token {
	m.mu.Lock()
	m.boundaryTimes = append(m.boundaryTimes, slices.Clone(times))
	tok := m.nextTokenLocked()
	m.timeObservers = append(m.timeObservers, &mockTimeObserver{token: tok, boundary: fn})
	hook := m.onAddBoundary
	m.mu.Unlock()

	if hook != nil {
		hook(fn)
	}
	return tok
}

func (m *Mock) RemoveTimeObserver(token Token) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.removed = append(m.removed, token)
	for i, o := range m.timeObservers {
		if o.token == token {
			m.timeObservers = slices.Delete(m.timeObservers, i, i+1)
			return
		}
	}
}

func (m *Mock) nextTokenLocked() Token {
	m.registrations++
	if m.token != nil {
		return m.token
	}
	return fmt.Sprintf("observer-%d", m.registrations)
}

// Test helpers

// SetToken makes every following registration return tok.
func (m *Mock) SetToken(tok Token) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = tok
}

// OnAddPeriodic installs a hook run with the callback during registration.
func (m *Mock) OnAddPeriodic(hook func(fn func(time.Duration))) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onAddPeriodic = hook
}

// OnAddBoundary installs a hook run with the callback during registration.
func (m *Mock) OnAddBoundary(hook func(fn func())) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onAddBoundary = hook
}

func (m *Mock) PeriodicIntervals() []time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.periodicIntervals)
}

func (m *Mock) BoundaryTimes() [][]time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.boundaryTimes)
}

// Removed returns the tokens passed to RemoveTimeObserver, in call order.
func (m *Mock) Removed() []Token {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.removed)
}

// TimeObserverCount returns the number of time observers not yet removed.
func (m *Mock) TimeObserverCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.timeObservers)
}

// FirePeriodic invokes every registered periodic callback with t.
func (m *Mock) FirePeriodic(t time.Duration) {
	for _, o := range m.snapshot() {
		if o.periodic != nil {
			o.periodic(t)
		}
	}
}

// FireBoundary invokes every registered boundary callback.
func (m *Mock) FireBoundary() {
	for _, o := range m.snapshot() {
		if o.boundary != nil {
			o.boundary()
		}
	}
}

func (m *Mock) snapshot() []*mockTimeObserver {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.timeObservers)
}

// Verify Mock implements Interface at compile time.
var _ Interface = (*Mock)(nil)
