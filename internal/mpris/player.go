package mpris

import (
	"time"

	"github.com/llehouerou/wavesrx/internal/player"
)

// Player is what the MPRIS bridge needs from a host player.
type Player interface {
	player.Interface
	Position() time.Duration
	SeekTo(pos time.Duration) error
	TrackInfo() *player.TrackInfo
}

// Verify the host player can be published.
var _ Player = (*player.Player)(nil)
