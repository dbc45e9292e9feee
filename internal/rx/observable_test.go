package rx

import (
	"strconv"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

// subject is a minimal hot source for exercising operators.
type subject struct {
	listeners map[int]func(int)
	next      int
	teardowns int
}

func newSubject() *subject {
	return &subject{listeners: make(map[int]func(int))}
}

func (s *subject) observable() Observable[int] {
	return Create(func(emit func(int)) func() {
		id := s.next
		s.next++
		s.listeners[id] = emit
		return func() {
			delete(s.listeners, id)
			s.teardowns++
		}
	})
}

func (s *subject) send(v int) {
	for _, fn := range s.listeners {
		fn(v)
	}
}

func TestSubscribe_DeliversUntilDisposed(t *testing.T) {
	s := newSubject()
	var got []int

	d := s.observable().Subscribe(func(v int) { got = append(got, v) })
	s.send(1)
	s.send(2)
	d.Dispose()
	s.send(3)

	assert.Equal(t, []int{1, 2}, got)
	assert.True(t, d.Disposed())
	assert.Empty(t, s.listeners)
}

func TestDispose_IsIdempotent(t *testing.T) {
	s := newSubject()

	d := s.observable().Subscribe(func(int) {})
	d.Dispose()
	d.Dispose()

	assert.Equal(t, 1, s.teardowns)
}

func TestSubscribe_DeliversSynchronousEmits(t *testing.T) {
	teardowns := 0
	o := Create(func(emit func(int)) func() {
		emit(1)
		emit(2)
		return func() { teardowns++ }
	})

	var got []int
	d := o.Subscribe(func(v int) { got = append(got, v) })

	assert.Equal(t, []int{1, 2}, got)
	assert.Equal(t, 0, teardowns)
	d.Dispose()
	assert.Equal(t, 1, teardowns)
}

func TestDispose_NilTeardown(t *testing.T) {
	o := Create(func(func(int)) func() { return nil })

	d := o.Subscribe(func(int) {})

	assert.NotPanics(t, d.Dispose)
}

func TestMap_TransformsAndDisposesUpstream(t *testing.T) {
	s := newSubject()
	var got []string

	d := Map(s.observable(), strconv.Itoa).Subscribe(func(v string) { got = append(got, v) })
	s.send(7)
	s.send(42)
	d.Dispose()
	s.send(1)

	assert.Equal(t, []string{"7", "42"}, got)
	assert.Equal(t, 1, s.teardowns)
}

func TestBag_DisposesAll(t *testing.T) {
	s := newSubject()
	var b Bag

	b.Add(s.observable().Subscribe(func(int) {}))
	b.Add(s.observable().Subscribe(func(int) {}))
	assert.Equal(t, 2, b.Len())

	b.Dispose()

	assert.Equal(t, 0, b.Len())
	assert.Equal(t, 2, s.teardowns)
	assert.Empty(t, s.listeners)
}

func TestBag_AddAfterDisposeDisposesImmediately(t *testing.T) {
	s := newSubject()
	var b Bag
	b.Dispose()

	d := s.observable().Subscribe(func(int) {})
	b.Add(d)

	assert.True(t, d.Disposed())
	assert.Equal(t, 1, s.teardowns)
	assert.Equal(t, 0, b.Len())
}

func TestDispose_InFlightDeliveryFinishesNoNewDeliveryStarts(t *testing.T) {
	var emit func(int)
	o := Create(func(e func(int)) func() {
		emit = e
		return func() {}
	})

	entered := make(chan struct{})
	release := make(chan struct{})
	var delivered atomic.Int32
	d := o.Subscribe(func(v int) {
		delivered.Add(1)
		if v == 1 {
			close(entered)
			<-release
		}
	})

	done := make(chan struct{})
	go func() {
		emit(1)
		close(done)
	}()
	<-entered

	// Dispose does not wait for the running delivery.
	d.Dispose()
	assert.True(t, d.Disposed())

	// A notifier that captured emit before the teardown is still gated.
	emit(2)
	close(release)
	<-done

	assert.Equal(t, int32(1), delivered.Load())
}
