//go:build linux

package mpris

import (
	"fmt"
	"hash/fnv"
	"math"
	"sync/atomic"
	"time"

	"github.com/godbus/dbus/v5"
	"github.com/quarckster/go-mpris-server/pkg/server"
	"github.com/quarckster/go-mpris-server/pkg/types"

	"github.com/llehouerou/wavesrx/internal/errmsg"
	"github.com/llehouerou/wavesrx/internal/log"
	"github.com/llehouerou/wavesrx/internal/player"
	"github.com/llehouerou/wavesrx/internal/rx"
)

const (
	minimumRate = 0.25
	maximumRate = 2.0

	objectPath        = dbus.ObjectPath("/org/mpris/MediaPlayer2")
	playerInterface   = "org.mpris.MediaPlayer2.Player"
	propertiesChanged = "org.freedesktop.DBus.Properties.PropertiesChanged"
)

// emitter sends D-Bus signals. *dbus.Conn implements it.
type emitter interface {
	Emit(path dbus.ObjectPath, name string, values ...any) error
}

// Adapter publishes a player over D-Bus MPRIS.
type Adapter struct {
	server *server.Server
	conn   emitter
	player *playerAdapter
	subs   rx.Bag
}

// New creates and starts a new MPRIS adapter for p.
func New(p Player) (*Adapter, error) {
	// Shared with the server, which connects through SessionBus too.
	conn, err := dbus.SessionBus()
	if err != nil {
		return nil, fmt.Errorf("connect session bus: %w", err)
	}

	pa := &playerAdapter{player: p}
	pa.resumeRate.Store(math.Float64bits(1))

	a := &Adapter{conn: conn, player: pa}
	a.server = server.NewServer("wavesrx", &rootAdapter{}, pa)

	pa.watch(&a.subs, a.playbackChanged)

	// Start the server in background
	go func() {
		if err := a.server.Listen(); err != nil {
			log.Errorf("mpris listen: %v", err)
		}
	}()

	return a, nil
}

func (a *Adapter) playbackChanged() {
	if err := emitPlayback(a.conn, a.player); err != nil {
		log.Debugf("mpris playback signal: %v", err)
	}
}

// emitPlayback signals the current PlaybackStatus and Rate.
func emitPlayback(e emitter, p *playerAdapter) error {
	rate := p.currentRate()
	changed := map[string]dbus.Variant{
		"PlaybackStatus": dbus.MakeVariant(string(playbackStatus(p.currentStatus(), rate))),
		"Rate":           dbus.MakeVariant(rate),
	}
	return e.Emit(objectPath, propertiesChanged, playerInterface, changed, []string{})
}

// Close disposes the stream subscriptions and releases D-Bus resources.
func (a *Adapter) Close() error {
	a.subs.Dispose()
	return a.server.Stop()
}

// rootAdapter implements OrgMprisMediaPlayer2Adapter.
type rootAdapter struct{}

func (r *rootAdapter) Raise() error { return nil }

func (r *rootAdapter) Quit() error { return nil }

func (r *rootAdapter) CanQuit() (bool, error) { return false, nil }

func (r *rootAdapter) CanRaise() (bool, error) { return false, nil }

func (r *rootAdapter) HasTrackList() (bool, error) { return false, nil }

func (r *rootAdapter) Identity() (string, error) { return "wavesrx", nil }

//nolint:revive // Method name required by interface.
func (r *rootAdapter) SupportedUriSchemes() ([]string, error) {
	return []string{"file"}, nil
}

func (r *rootAdapter) SupportedMimeTypes() ([]string, error) {
	return []string{"audio/mpeg", "audio/flac"}, nil
}

// playerAdapter implements OrgMprisMediaPlayer2PlayerAdapter. Rate and status
// are cached from the player's streams.
type playerAdapter struct {
	player     Player
	rate       atomic.Uint64
	resumeRate atomic.Uint64
	status     atomic.Int32
}

// watch caches rate and status from the player's streams and calls changed
// after every update.
func (p *playerAdapter) watch(bag *rx.Bag, changed func()) {
	r := rx.For(p.player)
	bag.Add(r.Rate().Subscribe(func(rate float64) {
		p.storeRate(rate)
		changed()
	}))
	bag.Add(r.Status().Subscribe(func(s player.Status) {
		p.status.Store(int32(s)) //nolint:gosec // small enum
		changed()
	}))
}

func (p *playerAdapter) storeRate(rate float64) {
	p.rate.Store(math.Float64bits(rate))
	if rate > 0 {
		p.resumeRate.Store(math.Float64bits(rate))
	}
}

func (p *playerAdapter) currentRate() float64 {
	return math.Float64frombits(p.rate.Load())
}

func (p *playerAdapter) currentStatus() player.Status {
	return player.Status(p.status.Load())
}

func (p *playerAdapter) Next() error { return nil }

func (p *playerAdapter) Previous() error { return nil }

func (p *playerAdapter) Pause() error {
	p.player.SetRate(0)
	return nil
}

func (p *playerAdapter) PlayPause() error {
	if p.currentRate() > 0 {
		return p.Pause()
	}
	return p.Play()
}

func (p *playerAdapter) Stop() error {
	p.player.SetRate(0)
	if !p.currentStatus().IsReady() {
		return nil
	}
	return p.seek(0)
}

func (p *playerAdapter) Play() error {
	if !p.currentStatus().IsReady() {
		return nil
	}
	p.player.SetRate(math.Float64frombits(p.resumeRate.Load()))
	return nil
}

func (p *playerAdapter) Seek(offset types.Microseconds) error {
	return p.seek(p.player.Position() + time.Duration(offset)*time.Microsecond)
}

func (p *playerAdapter) SetPosition(_ string, position types.Microseconds) error {
	return p.seek(time.Duration(position) * time.Microsecond)
}

func (p *playerAdapter) seek(pos time.Duration) error {
	if err := p.player.SeekTo(pos); err != nil {
		log.Error(errmsg.Format(errmsg.OpMediaSeek, err))
		return err
	}
	return nil
}

//nolint:revive // Method name required by interface.
func (p *playerAdapter) OpenUri(_ string) error {
	return nil // Not supported
}

func (p *playerAdapter) PlaybackStatus() (types.PlaybackStatus, error) {
	return playbackStatus(p.currentStatus(), p.currentRate()), nil
}

func (p *playerAdapter) Rate() (float64, error) {
	return p.currentRate(), nil
}

func (p *playerAdapter) SetRate(rate float64) error {
	p.player.SetRate(min(rate, maximumRate))
	return nil
}

func (p *playerAdapter) Metadata() (types.Metadata, error) {
	info := p.player.TrackInfo()
	if info == nil {
		return types.Metadata{}, nil
	}
	meta := types.Metadata{
		TrackId:     dbus.ObjectPath(formatTrackID(info.Path)),
		Length:      types.Microseconds(info.Duration.Microseconds()),
		Title:       info.Title,
		Artist:      []string{info.Artist},
		Album:       info.Album,
		TrackNumber: info.Track,
	}
	if art := artURL(info.Path); art != "" {
		meta.ArtUrl = art
	}
	return meta, nil
}

func (p *playerAdapter) Volume() (float64, error) { return 1.0, nil }

func (p *playerAdapter) SetVolume(_ float64) error { return nil }

func (p *playerAdapter) Position() (int64, error) {
	return p.player.Position().Microseconds(), nil
}

func (p *playerAdapter) MinimumRate() (float64, error) { return minimumRate, nil }

func (p *playerAdapter) MaximumRate() (float64, error) { return maximumRate, nil }

func (p *playerAdapter) CanGoNext() (bool, error) { return false, nil }

func (p *playerAdapter) CanGoPrevious() (bool, error) { return false, nil }

func (p *playerAdapter) CanPlay() (bool, error) {
	return p.currentStatus().IsReady(), nil
}

func (p *playerAdapter) CanPause() (bool, error) {
	return p.currentStatus().IsReady(), nil
}

func (p *playerAdapter) CanSeek() (bool, error) {
	return p.currentStatus().IsReady(), nil
}

func (p *playerAdapter) CanControl() (bool, error) { return true, nil }

// playbackStatus maps the player status and rate onto MPRIS.
func playbackStatus(s player.Status, rate float64) types.PlaybackStatus {
	switch {
	case !s.IsReady():
		return types.PlaybackStatusStopped
	case rate > 0:
		return types.PlaybackStatusPlaying
	default:
		return types.PlaybackStatusPaused
	}
}

func formatTrackID(path string) string {
	h := fnv.New64a()
	h.Write([]byte(path))
	return fmt.Sprintf("/org/mpris/MediaPlayer2/Track/%x", h.Sum64())
}
