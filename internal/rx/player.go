package rx

import (
	"time"

	"github.com/sirupsen/logrus"

	"github.com/llehouerou/wavesrx/internal/log"
	"github.com/llehouerou/wavesrx/internal/player"
)

// Reactive adapts a player.Interface into streams.
type Reactive struct {
	player player.Interface
	queue  player.Queue
}

// For returns the stream adapter for p. Time observers are registered
// without a queue, so callbacks arrive on the player's notifying goroutine.
func For(p player.Interface) Reactive {
	return Reactive{player: p}
}

// On returns a copy of r whose time observers are registered with queue.
func (r Reactive) On(queue player.Queue) Reactive {
	r.queue = queue
	return r
}

// Rate emits the current rate, then the rate after each change.
func (r Reactive) Rate() Observable[float64] {
	return observe(r.player, player.PropertyRate, r.player.Rate)
}

// Status emits the current status, then the status after each change.
func (r Reactive) Status() Observable[player.Status] {
	return observe(r.player, player.PropertyStatus, r.player.Status)
}

// Error emits the current error (nil when none), then the error after each
// change.
func (r Reactive) Error() Observable[error] {
	return observe(r.player, player.PropertyError, r.player.Err)
}

// PeriodicTimeObserver emits the playback time each time the player's
// periodic callback for interval fires.
func (r Reactive) PeriodicTimeObserver(interval time.Duration) Observable[time.Duration] {
	p, queue := r.player, r.queue
	return Create(func(emit func(time.Duration)) func() {
		token := p.AddPeriodicTimeObserver(interval, queue, emit)
		logRegistered("periodic", token, logrus.Fields{"interval": interval})
		return func() {
			p.RemoveTimeObserver(token)
			logRemoved("periodic", token)
		}
	})
}

// BoundaryTimeObserver emits once each time playback crosses one of times.
func (r Reactive) BoundaryTimeObserver(times []time.Duration) Observable[struct{}] {
	p, queue := r.player, r.queue
	return Create(func(emit func(struct{})) func() {
		token := p.AddBoundaryTimeObserver(times, queue, func() { emit(struct{}{}) })
		logRegistered("boundary", token, logrus.Fields{"times": times})
		return func() {
			p.RemoveTimeObserver(token)
			logRemoved("boundary", token)
		}
	})
}

// observe registers the property listener first and then emits the current
// value, so a change racing the subscription is never lost.
func observe[T any](p player.Interface, prop player.Property, get func() T) Observable[T] {
	return Create(func(emit func(T)) func() {
		token := p.AddPropertyObserver(prop, func() { emit(get()) })
		logRegistered(prop.String(), token, nil)
		emit(get())
		return func() {
			p.RemovePropertyObserver(token)
			logRemoved(prop.String(), token)
		}
	})
}

func logRegistered(kind string, token player.Token, fields logrus.Fields) {
	log.WithFields(fields).
		WithField("observer", kind).
		WithField("token", token).
		Debug("observer registered")
}

func logRemoved(kind string, token player.Token) {
	log.WithFields(logrus.Fields{"observer": kind, "token": token}).Debug("observer removed")
}
