// internal/player/interface.go
package player

import "time"

// Property identifies an observable player property.
type Property int

const (
	PropertyRate Property = iota
	PropertyStatus
	PropertyError
)

// String returns the property key.
func (p Property) String() string {
	switch p {
	case PropertyRate:
		return "rate"
	case PropertyStatus:
		return "status"
	case PropertyError:
		return "error"
	default:
		return "unknown"
	}
}

// Token is the opaque handle returned when an observer is registered.
// It must be handed back unchanged to the matching Remove call.
type Token any

// Queue dispatches a callback. A nil Queue means the callback runs on the
// goroutine that produced the notification.
type Queue func(fn func())

// Interface defines the player contract for dependency injection and testing.
type Interface interface {
	Rate() float64
	SetRate(rate float64)
	Status() Status
	Err() error

	// AddPropertyObserver registers fn to run after every mutation of prop.
	AddPropertyObserver(prop Property, fn func()) Token
	RemovePropertyObserver(token Token)

	AddPeriodicTimeObserver(interval time.Duration, queue Queue, fn func(time.Duration)) Token
	AddBoundaryTimeObserver(times []time.Duration, queue Queue, fn func()) Token
	RemoveTimeObserver(token Token)
}

// Verify Player implements Interface at compile time.
var _ Interface = (*Player)(nil)

// dispatch runs fn on q, or inline when q is nil.
func dispatch(q Queue, fn func()) {
	if q == nil {
		fn()
		return
	}
	q(fn)
}
