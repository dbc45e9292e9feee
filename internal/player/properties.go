package player

import (
	"slices"
	"sync"
	"sync/atomic"
)

// Properties holds the observable player properties and their listeners.
// The zero value is ready to use: rate 0, StatusUnknown, no error.
type Properties struct {
	mu        sync.Mutex
	rate      float64
	status    Status
	err       error
	observers map[Property][]*propertyObserver
}

type propertyObserver struct {
	prop    Property
	fn      func()
	removed atomic.Bool
}

// Rate returns the current playback rate.
func (p *Properties) Rate() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.rate
}

// Status returns the current status.
func (p *Properties) Status() Status {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.status
}

// Err returns the current error, or nil.
func (p *Properties) Err() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.err
}

// SetRate stores rate and notifies rate listeners.
func (p *Properties) SetRate(rate float64) {
	p.mu.Lock()
	p.rate = rate
	p.mu.Unlock()
	p.notify(PropertyRate)
}

// SetStatus stores s and notifies status listeners.
func (p *Properties) SetStatus(s Status) {
	p.mu.Lock()
	p.status = s
	p.mu.Unlock()
	p.notify(PropertyStatus)
}

// SetErr stores err and notifies error listeners.
func (p *Properties) SetErr(err error) {
	p.mu.Lock()
	p.err = err
	p.mu.Unlock()
	p.notify(PropertyError)
}

// AddPropertyObserver registers fn to run after each mutation of prop.
func (p *Properties) AddPropertyObserver(prop Property, fn func()) Token {
	o := &propertyObserver{prop: prop, fn: fn}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.observers == nil {
		p.observers = make(map[Property][]*propertyObserver)
	}
	p.observers[prop] = append(p.observers[prop], o)
	return o
}

// RemovePropertyObserver unregisters the observer behind token.
// Unknown or already removed tokens are ignored.
func (p *Properties) RemovePropertyObserver(token Token) {
	o, ok := token.(*propertyObserver)
	if !ok || o == nil {
		return
	}
	o.removed.Store(true)

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.observers == nil {
		return
	}
	p.observers[o.prop] = slices.DeleteFunc(p.observers[o.prop], func(x *propertyObserver) bool {
		return x == o
	})
}

// ObserverCount returns the number of listeners registered for prop.
func (p *Properties) ObserverCount(prop Property) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.observers[prop])
}

// notify runs listeners outside the lock so they can read properties back.
func (p *Properties) notify(prop Property) {
	p.mu.Lock()
	observers := slices.Clone(p.observers[prop])
	p.mu.Unlock()

	for _, o := range observers {
		if o.removed.Load() {
			continue
		}
		o.fn()
	}
}
