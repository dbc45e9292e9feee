package rx

import (
	"context"
	"sync"
)

// Chan subscribes to o and delivers elements on a channel with the given
// buffer. Sends never block the source: elements are dropped while the
// buffer is full. When ctx is done the subscription is disposed and the
// channel closed.
func (o Observable[T]) Chan(ctx context.Context, buffer int) <-chan T {
	ch := make(chan T, max(buffer, 0))
	var mu sync.Mutex
	closed := false

	d := o.Subscribe(func(v T) {
		mu.Lock()
		defer mu.Unlock()
		if closed {
			return
		}
		select {
		case ch <- v:
		default:
			// Drop if buffer full
		}
	})

	go func() {
		<-ctx.Done()
		d.Dispose()
		mu.Lock()
		closed = true
		close(ch)
		mu.Unlock()
	}()

	return ch
}
