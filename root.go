package main

import (
	"errors"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/llehouerou/wavesrx/internal/config"
	"github.com/llehouerou/wavesrx/internal/errmsg"
	"github.com/llehouerou/wavesrx/internal/log"
	"github.com/llehouerou/wavesrx/internal/mpris"
	"github.com/llehouerou/wavesrx/internal/player"
	"github.com/llehouerou/wavesrx/internal/rx"
)

// options holds the raw command-line flags.
type options struct {
	configPath string
	rate       float64
	interval   time.Duration
	boundaries []string
	noMPRIS    bool
}

func (o *options) bind(f *pflag.FlagSet) {
	f.StringVarP(&o.configPath, "config", "c", "", "read configuration from this TOML file only")
	f.Float64VarP(&o.rate, "rate", "r", config.DefaultRate, "playback rate once loaded (0 loads paused)")
	f.DurationVarP(&o.interval, "interval", "i", config.DefaultPeriodicInterval, "periodic time observer interval")
	f.StringArrayVarP(&o.boundaries, "boundary", "b", nil, "boundary time to report, e.g. 30s (repeatable)")
	f.BoolVar(&o.noMPRIS, "no-mpris", false, "do not publish the player over MPRIS")
}

// settings are the effective values after merging flags over configuration.
type settings struct {
	tick       time.Duration
	rate       float64
	interval   time.Duration
	boundaries []time.Duration
	mpris      bool
}

// resolve merges flags that were set explicitly over cfg.
func (o *options) resolve(cfg *config.Config, changed func(name string) bool) (settings, error) {
	s := settings{
		tick:     cfg.TickInterval(),
		rate:     cfg.InitialRate(),
		interval: cfg.PeriodicInterval(),
		mpris:    cfg.MPRISEnabled() && !o.noMPRIS,
	}
	if changed("rate") {
		s.rate = max(o.rate, 0)
	}
	if changed("interval") {
		s.interval = o.interval
	}

	var err error
	if changed("boundary") {
		s.boundaries, err = config.ParseDurations(o.boundaries)
	} else {
		s.boundaries, err = cfg.Boundaries()
	}
	if err != nil {
		return settings{}, errors.New(errmsg.Format(errmsg.OpBoundaryParse, err))
	}
	return s, nil
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	cmd := &cobra.Command{
		Use:   "wavesrx [flags] <file>",
		Short: "Play an audio file and print the player's observation streams",
		Long: "wavesrx loads an MP3 or FLAC file, subscribes to the player's rate, status,\n" +
			"error and time observer streams, and prints every element until the\n" +
			"item ends or the process is interrupted.",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, opts, args[0])
		},
	}
	opts.bind(cmd.Flags())
	return cmd
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return nil, err
		}
		return config.LoadFiles(path)
	}
	return config.Load()
}

func run(cmd *cobra.Command, opts *options, path string) error {
	cfg, err := loadConfig(opts.configPath)
	if err != nil {
		return errors.New(errmsg.Format(errmsg.OpConfigLoad, err))
	}
	s, err := opts.resolve(cfg, cmd.Flags().Changed)
	if err != nil {
		return err
	}

	if err := log.Setup(cfg.Log); err != nil {
		return errors.New(errmsg.Format(errmsg.OpLogSetup, err))
	}
	defer log.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	p := player.New(player.WithTickInterval(s.tick))
	defer p.Close()

	// Time observer callbacks run on this goroutine, in the loop below.
	q := newLoopQueue(16)
	defer q.stop()

	out := newPrinter(cmd.OutOrStdout())
	var subs rx.Bag
	defer subs.Dispose()

	r := rx.For(p)
	subs.Add(r.Status().Subscribe(out.status))
	subs.Add(r.Error().Subscribe(out.err))

	if err := p.Load(path); err != nil {
		return errors.New(errmsg.FormatWith(errmsg.OpMediaLoad, path, err))
	}
	out.header(path, p.TrackInfo())
	log.Infof("loaded %s", path)

	rq := r.On(q.enqueue)
	subs.Add(r.Rate().Subscribe(out.rate))
	subs.Add(rq.PeriodicTimeObserver(s.interval).Subscribe(out.tick))
	if len(s.boundaries) > 0 {
		crossed := rx.Map(rq.BoundaryTimeObserver(s.boundaries), func(struct{}) time.Duration {
			return p.Position()
		})
		subs.Add(crossed.Subscribe(out.boundary))
	}

	// Closed on interrupt; receives once playback reaches the end.
	ended := r.BoundaryTimeObserver([]time.Duration{p.Duration()}).Chan(ctx, 1)

	if s.mpris {
		adapter, err := mpris.New(p)
		if err != nil {
			log.Warnf("%s", errmsg.Format(errmsg.OpMPRISStart, err))
		} else {
			defer adapter.Close()
		}
	}

	p.SetRate(s.rate)

	q.run(ended)
	if ctx.Err() != nil {
		log.Info("interrupted")
	} else {
		log.Info("end of item")
	}
	return nil
}

// loopQueue is a player.Queue whose callbacks run on the goroutine calling
// run. After stop, enqueue drops callbacks instead of blocking.
type loopQueue struct {
	fns  chan func()
	done chan struct{}
	once sync.Once
}

func newLoopQueue(size int) *loopQueue {
	return &loopQueue{
		fns:  make(chan func(), size),
		done: make(chan struct{}),
	}
}

func (q *loopQueue) enqueue(fn func()) {
	select {
	case q.fns <- fn:
	case <-q.done:
	}
}

// run executes queued callbacks until until receives or is closed.
func (q *loopQueue) run(until <-chan struct{}) {
	for {
		select {
		case fn := <-q.fns:
			fn()
		case <-until:
			return
		}
	}
}

func (q *loopQueue) stop() {
	q.once.Do(func() { close(q.done) })
}
