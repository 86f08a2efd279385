// Package demo wires the rate limiters and the demo components together,
// the way the original page wired them to its inputs and buttons.
package demo

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/romdo/go-pace"
	"github.com/romdo/go-pace/clock"
	"github.com/romdo/go-pace/internal/colors"
	"github.com/romdo/go-pace/internal/config"
	"github.com/romdo/go-pace/internal/idioms"
	"github.com/romdo/go-pace/internal/notes"
	"github.com/romdo/go-pace/internal/panel"
	"github.com/romdo/go-pace/internal/universities"
)

// App holds every demo component.
type App struct {
	Panels    *panel.Set
	Heading   *colors.Heading
	Delegated *notes.DelegatedList
	Traversal *notes.TraversalList

	logger   *zap.Logger
	clock    clock.Clock
	changer  *colors.Changer
	searcher universities.Searcher
	redis    *redis.Client

	mux          sync.RWMutex
	search       func(string)
	cancelSearch func()
	click        *pace.Throttler
	interval     time.Duration
	rewatch      chan struct{}
}

type options struct {
	clock    clock.Clock
	searcher universities.Searcher
	roll     func() int
}

// Option configures an App.
type Option func(*options)

// WithClock sets the clock used by every time based component.
func WithClock(c clock.Clock) Option {
	return func(o *options) {
		o.clock = c
	}
}

// WithSearcher replaces the university client built from config.
func WithSearcher(s universities.Searcher) Option {
	return func(o *options) {
		o.searcher = s
	}
}

// WithRoll replaces the network roll of the color changer.
func WithRoll(roll func() int) Option {
	return func(o *options) {
		o.roll = roll
	}
}

// New builds an App from cfg.
func New(cfg *config.Config, logger *zap.Logger, opts ...Option) *App {
	o := &options{clock: clock.New()}
	for _, opt := range opts {
		opt(o)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	panels := panel.NewSet(logger, panel.DefaultNames,
		panel.WithClock(o.clock),
		panel.WithMaxLines(cfg.Panels.MaxLines),
	)

	a := &App{
		Panels:  panels,
		Heading: &colors.Heading{},
		Delegated: notes.NewDelegatedList(
			panels.MustGet(panel.Delegation), o.clock,
		),
		Traversal: notes.NewTraversalList(
			panels.MustGet(panel.Traversal), o.clock,
		),
		logger:  logger,
		clock:   o.clock,
		rewatch: make(chan struct{}, 1),
	}

	changerOpts := []colors.Option{
		colors.WithClock(o.clock),
		colors.WithSequence(cfg.Colors.Delay, cfg.Colors.Sequence...),
	}
	if o.roll != nil {
		changerOpts = append(changerOpts, colors.WithRoll(o.roll))
	}
	a.changer = colors.NewChanger(
		a.Heading, panels.MustGet(panel.Async), changerOpts...,
	)

	a.searcher = o.searcher
	if a.searcher == nil {
		a.searcher = a.newUniversityClient(cfg.Universities)
	}

	a.Apply(cfg)

	return a
}

func (a *App) newUniversityClient(
	cfg config.UniversitiesConfig,
) *universities.Client {
	var cache universities.Cache
	if cfg.RedisAddr != "" {
		a.redis = redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		cache = universities.NewRedisCache(a.redis,
			universities.WithRedisPrefix(cfg.RedisPrefix),
			universities.WithRedisTTL(cfg.CacheTTL),
		)
	} else if cfg.CacheTTL > 0 {
		cache = universities.NewMemoryCache(cfg.CacheTTL, a.clock)
	}

	opts := []universities.Option{
		universities.WithHTTPClient(&http.Client{Timeout: cfg.Timeout}),
		universities.WithRateLimit(cfg.RateLimit, cfg.Burst),
		universities.WithLogger(a.logger),
	}
	if cfg.ProxyURL != "" {
		opts = append(opts, universities.WithProxyURL(cfg.ProxyURL))
	}
	if cfg.UpstreamURL != "" {
		opts = append(opts, universities.WithUpstreamURL(cfg.UpstreamURL))
	}
	if cache != nil {
		opts = append(opts, universities.WithCache(cache))
	}

	return universities.NewClient(opts...)
}

// Apply rebuilds the search debouncer and click throttler from cfg. A
// pending search is discarded.
func (a *App) Apply(cfg *config.Config) {
	searchPanel := a.Panels.MustGet(panel.Debounce)
	search, cancel := pace.Debounce(cfg.Search.Wait, func(q string) {
		searchPanel.Log("Searching for:", q)
	}, cfg.Search.Options(pace.WithClock(a.clock))...)

	click := cfg.Click.NewThrottler(pace.WithClock(a.clock))

	a.mux.Lock()
	old := a.cancelSearch
	a.search, a.cancelSearch = search, cancel
	a.click = click
	rewatch := a.interval != 0 && a.interval != cfg.Traversal.Interval
	a.interval = cfg.Traversal.Interval
	a.mux.Unlock()

	if old != nil {
		old()
	}

	if rewatch {
		select {
		case a.rewatch <- struct{}{}:
		default:
		}
	}

	a.logger.Debug("Rate limiters configured",
		zap.Duration("search_wait", cfg.Search.Wait),
		zap.Duration("click_wait", cfg.Click.Wait),
	)
}

// Search feeds the debounced search box.
func (a *App) Search(query string) {
	a.mux.RLock()
	search := a.search
	a.mux.RUnlock()

	search(query)
}

// Click presses the throttled button, and reports whether the click was
// accepted.
func (a *App) Click() bool {
	a.mux.RLock()
	click := a.click
	a.mux.RUnlock()

	p := a.Panels.MustGet(panel.Debounce)

	return click.ThrottleWith(func() { p.Log("Button Clicked!") })
}

// ChangeColors runs the color sequence.
func (a *App) ChangeColors(ctx context.Context) error {
	return a.changer.Run(ctx)
}

// FetchUniversities searches and logs universities of country.
func (a *App) FetchUniversities(
	ctx context.Context,
	country string,
) ([]universities.University, error) {
	return universities.Fetch(
		ctx, a.searcher, a.Panels.MustGet(panel.Fetch), country,
	)
}

// RunIdioms logs the spread and currying walkthrough.
func (a *App) RunIdioms() error {
	if err := idioms.Run(a.Panels.MustGet(panel.Currying)); err != nil {
		return fmt.Errorf("idioms: %w", err)
	}

	return nil
}

// WatchTraversal logs the traversal list contents periodically until ctx is
// done. The watch restarts with the new interval when Apply changes it.
func (a *App) WatchTraversal(ctx context.Context) error {
	for {
		a.mux.RLock()
		interval := a.interval
		a.mux.RUnlock()

		watchCtx, cancel := context.WithCancel(ctx)
		done := make(chan error, 1)
		go func() {
			done <- a.Traversal.Watch(watchCtx, interval)
		}()

		select {
		case err := <-done:
			cancel()

			return err
		case <-ctx.Done():
			cancel()
			<-done

			return ctx.Err()
		case <-a.rewatch:
			cancel()
			<-done
			a.logger.Debug("Traversal interval changed, restarting watch")
		}
	}
}

// Close releases external connections and discards pending searches.
func (a *App) Close() error {
	a.mux.RLock()
	cancel := a.cancelSearch
	a.mux.RUnlock()

	if cancel != nil {
		cancel()
	}

	if a.redis != nil {
		return a.redis.Close()
	}

	return nil
}
