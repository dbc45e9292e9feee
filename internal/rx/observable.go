// Package rx exposes player observation as cancellable streams.
//
// Streams are cold and synchronous: Subscribe registers with the source
// before returning, elements are delivered on whatever goroutine the source
// notifies from, and Dispose unregisters before returning.
package rx

import (
	"sync"
	"sync/atomic"
)

// Observable is a stream of T. Each Subscribe performs its own registration.
type Observable[T any] struct {
	subscribe func(emit func(T)) (teardown func())
}

// Create builds an Observable from a registration function. subscribe is run
// once per subscriber and returns the teardown that undoes the registration.
func Create[T any](subscribe func(emit func(T)) (teardown func())) Observable[T] {
	return Observable[T]{subscribe: subscribe}
}

// Subscribe registers onNext and returns the subscription handle.
func (o Observable[T]) Subscribe(onNext func(T)) *Disposable {
	d := &Disposable{}
	emit := func(v T) {
		if d.disposed.Load() {
			return
		}
		onNext(v)
	}
	teardown := o.subscribe(emit)

	d.mu.Lock()
	d.teardown = teardown
	d.mu.Unlock()
	return d
}

// Map returns a stream of f applied to every element of o.
func Map[T, U any](o Observable[T], f func(T) U) Observable[U] {
	return Create(func(emit func(U)) func() {
		d := o.Subscribe(func(v T) { emit(f(v)) })
		return d.Dispose
	})
}

// Disposable is a subscription handle. Dispose is idempotent.
type Disposable struct {
	mu       sync.Mutex
	once     sync.Once
	disposed atomic.Bool
	teardown func()
}

// Dispose stops delivery and runs the teardown exactly once. No new delivery
// starts after Dispose returns; one already running on another goroutine
// finishes.
func (d *Disposable) Dispose() {
	d.once.Do(func() {
		d.disposed.Store(true)
		d.mu.Lock()
		teardown := d.teardown
		d.teardown = nil
		d.mu.Unlock()
		if teardown != nil {
			teardown()
		}
	})
}

// Disposed reports whether Dispose has been called.
func (d *Disposable) Disposed() bool {
	return d.disposed.Load()
}

// Bag disposes a group of subscriptions together.
type Bag struct {
	mu       sync.Mutex
	items    []*Disposable
	disposed bool
}

// Add adds d to the bag. If the bag is already disposed, d is disposed now.
func (b *Bag) Add(d *Disposable) {
	b.mu.Lock()
	if b.disposed {
		b.mu.Unlock()
		d.Dispose()
		return
	}
	b.items = append(b.items, d)
	b.mu.Unlock()
}

// Len returns the number of subscriptions held.
func (b *Bag) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.items)
}

// Dispose disposes every held subscription in insertion order.
func (b *Bag) Dispose() {
	b.mu.Lock()
	items := b.items
	b.items = nil
	b.disposed = true
	b.mu.Unlock()

	for _, d := range items {
		d.Dispose()
	}
}
