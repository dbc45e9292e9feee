package player

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/speaker"
)

const (
	defaultTickInterval = 50 * time.Millisecond
	resampleQuality     = 4
)

// ErrNoItem is returned by operations that need a loaded item.
var ErrNoItem = errors.New("no item loaded")

var (
	speakerMu          sync.Mutex
	speakerInitialized bool
	speakerSampleRate  beep.SampleRate
)

// Player is a beep-backed host player. It owns the observable properties and
// drives time observers from an internal clock.
type Player struct {
	props Properties
	times TimeObservers

	mu        sync.Mutex
	streamer  beep.StreamSeekCloser
	format    beep.Format
	resampler *beep.Resampler
	ctrl      *beep.Ctrl
	baseRatio float64
	trackInfo *TrackInfo

	tick      time.Duration
	finished  chan struct{}
	quit      chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// Option configures a Player.
type Option func(*Player)

// WithTickInterval sets how often time observers are advanced.
// Non-positive values are ignored.
func WithTickInterval(d time.Duration) Option {
	return func(p *Player) {
		if d > 0 {
			p.tick = d
		}
	}
}

// New creates a player with no item and starts its clock.
func New(opts ...Option) *Player {
	p := &Player{
		tick:     defaultTickInterval,
		finished: make(chan struct{}, 1),
		quit:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.wg.Add(1)
	go p.clock()
	return p
}

// Load replaces the current item with the file at path. The current rate is
// kept: a player at rate 0 loads paused.
func (p *Player) Load(path string) error {
	p.unload()

	streamer, format, err := decodeFile(path)
	if err != nil {
		p.fail(err)
		return err
	}
	if err := initSpeaker(format.SampleRate); err != nil {
		streamer.Close()
		p.fail(err)
		return err
	}

	rate := p.props.Rate()
	speed := rate
	if speed == 0 {
		speed = 1
	}

	p.mu.Lock()
	p.streamer = streamer
	p.format = format
	p.baseRatio = float64(format.SampleRate) / float64(speakerSampleRate)
	p.resampler = beep.ResampleRatio(resampleQuality, p.baseRatio*speed, streamer)
	p.ctrl = &beep.Ctrl{Streamer: p.resampler, Paused: rate == 0}
	p.trackInfo = trackInfoOrDefault(path, format.SampleRate.D(streamer.Len()))
	ctrl := p.ctrl
	p.mu.Unlock()

	// Drop a finish signal left over from the previous item.
	select {
	case <-p.finished:
	default:
	}

	speaker.Play(beep.Seq(ctrl, beep.Callback(func() {
		select {
		case p.finished <- struct{}{}:
		default:
		}
	})))

	if p.props.Err() != nil {
		p.props.SetErr(nil)
	}
	p.props.SetStatus(StatusReadyToPlay)
	p.times.Reset(0)
	return nil
}

func (p *Player) fail(err error) {
	p.props.SetErr(err)
	p.props.SetStatus(StatusFailed)
}

func (p *Player) unload() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.streamer == nil {
		return
	}
	speaker.Clear()
	p.streamer.Close()
	p.streamer = nil
	p.resampler = nil
	p.ctrl = nil
	p.trackInfo = nil
}

func initSpeaker(sr beep.SampleRate) error {
	speakerMu.Lock()
	defer speakerMu.Unlock()
	if speakerInitialized {
		return nil
	}
	if err := speaker.Init(sr, sr.N(time.Second/10)); err != nil {
		return fmt.Errorf("init speaker: %w", err)
	}
	speakerSampleRate = sr
	speakerInitialized = true
	return nil
}

// clock advances time observers while the item is playing.
func (p *Player) clock() {
	defer p.wg.Done()
	ticker := time.NewTicker(p.tick)
	defer ticker.Stop()

	for {
		select {
		case <-p.quit:
			return
		case <-p.finished:
			p.times.Advance(p.Duration())
			p.props.SetRate(0)
		case <-ticker.C:
			if p.props.Rate() > 0 && p.hasItem() {
				p.times.Advance(p.Position())
			}
		}
	}
}

func (p *Player) hasItem() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.streamer != nil
}

// SetRate sets the playback rate. 0 pauses; negative rates are clamped to 0.
func (p *Player) SetRate(rate float64) {
	rate = max(rate, 0)

	p.mu.Lock()
	if p.ctrl != nil {
		speaker.Lock()
		p.ctrl.Paused = rate == 0
		if rate > 0 {
			p.resampler.SetRatio(p.baseRatio * rate)
		}
		speaker.Unlock()
	}
	p.mu.Unlock()

	p.props.SetRate(rate)
}

// SeekTo moves playback to pos, clamped to the item bounds.
func (p *Player) SeekTo(pos time.Duration) error {
	p.mu.Lock()
	if p.streamer == nil {
		p.mu.Unlock()
		return ErrNoItem
	}
	sr := p.format.SampleRate
	speaker.Lock()
	n := min(max(sr.N(pos), 0), p.streamer.Len())
	err := p.streamer.Seek(n)
	speaker.Unlock()
	p.mu.Unlock()

	if err != nil {
		return fmt.Errorf("seek: %w", err)
	}
	p.times.Reset(sr.D(n))
	return nil
}

// Position returns the current playback position.
func (p *Player) Position() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.streamer == nil {
		return 0
	}
	speaker.Lock()
	pos := p.format.SampleRate.D(p.streamer.Position())
	speaker.Unlock()
	return pos
}

// Duration returns the length of the current item.
func (p *Player) Duration() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.trackInfo == nil {
		return 0
	}
	return p.trackInfo.Duration
}

// TrackInfo returns metadata for the current item, or nil.
func (p *Player) TrackInfo() *TrackInfo {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.trackInfo
}

// Close stops the clock and releases the current item.
func (p *Player) Close() error {
	p.closeOnce.Do(func() {
		close(p.quit)
		p.wg.Wait()
		p.unload()
	})
	return nil
}

func (p *Player) Rate() float64  { return p.props.Rate() }
func (p *Player) Status() Status { return p.props.Status() }
func (p *Player) Err() error     { return p.props.Err() }

func (p *Player) AddPropertyObserver(prop Property, fn func()) Token {
	return p.props.AddPropertyObserver(prop, fn)
}

func (p *Player) RemovePropertyObserver(token Token) {
	p.props.RemovePropertyObserver(token)
}

func (p *Player) AddPeriodicTimeObserver(interval time.Duration, queue Queue, fn func(time.Duration)) Token {
	return p.times.AddPeriodic(interval, queue, fn)
}

func (p *Player) AddBoundaryTimeObserver(times []time.Duration, queue Queue, fn func()) Token {
	return p.times.AddBoundary(times, queue, fn)
}

func (p *Player) RemoveTimeObserver(token Token) {
	p.times.Remove(token)
}
