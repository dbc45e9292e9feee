// internal/player/status.go
package player

// Status reports whether the player can play its current item.
//
//	Unknown ──load ok──▶ ReadyToPlay
//	   │                     │
//	   └──load failed──▶ Failed ◀──load failed──┘
//
// A new player starts in StatusUnknown. Once Failed, only a successful Load
// brings it back to ReadyToPlay.
type Status int

const (
	StatusUnknown Status = iota
	StatusReadyToPlay
	StatusFailed
)

// String returns the status name for debugging.
func (s Status) String() string {
	switch s {
	case StatusUnknown:
		return "Unknown"
	case StatusReadyToPlay:
		return "ReadyToPlay"
	case StatusFailed:
		return "Failed"
	default:
		return "Invalid"
	}
}

// IsReady returns true if the current item can be played.
func (s Status) IsReady() bool {
	return s == StatusReadyToPlay
}
