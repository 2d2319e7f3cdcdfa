package usecase

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/riskibarqy/playscout/internal/domain/fixture"
	"github.com/riskibarqy/playscout/internal/platform/logging"
	"github.com/riskibarqy/playscout/internal/platform/resilience"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

type PollMode string

const (
	// PollModeStandard fetches on a fixed interval.
	PollModeStandard PollMode = "standard"
	// PollModeKickoffAware fetches once more after the last kickoff of the day
	// plus a grace period, then re-arms from the new result.
	PollModeKickoffAware PollMode = "kickoff_aware"
)

func ParsePollMode(raw string) (PollMode, error) {
	switch PollMode(raw) {
	case PollModeStandard, "":
		return PollModeStandard, nil
	case PollModeKickoffAware:
		return PollModeKickoffAware, nil
	default:
		return "", fmt.Errorf("%w: unknown poll mode %q", ErrInvalidInput, raw)
	}
}

type PollPhase string

const (
	PollPhaseIdle      PollPhase = "idle"
	PollPhaseFetching  PollPhase = "fetching"
	PollPhaseScheduled PollPhase = "scheduled"
)

type UpdateReason string

const (
	UpdateReasonFixtures UpdateReason = "fixtures"
	UpdateReasonClock    UpdateReason = "clock"
	UpdateReasonError    UpdateReason = "error"
)

// FeedState is what one feed screen renders. Fixtures is only replaced as a
// whole, by fetch completions that pass the change detector.
type FeedState struct {
	Fixtures  []fixture.Fixture
	Loading   bool
	LastPoll  time.Time
	Now       time.Time
	Phase     PollPhase
	NextFetch time.Time
	LastError string
}

func (s FeedState) clone() FeedState {
	s.Fixtures = slices.Clone(s.Fixtures)
	return s
}

type FeedUpdate struct {
	Reason UpdateReason
	State  FeedState
}

type FeedPollerConfig struct {
	Mode          PollMode
	Interval      time.Duration
	ClockInterval time.Duration
	KickoffGrace  time.Duration
	RetryInitial  time.Duration
	FetchTimeout  time.Duration
	// Date pins the feed day; empty follows the current day in Location.
	Date     string
	Location *time.Location
	Logger   *logging.Logger
	Now      func() time.Time
}

func (c FeedPollerConfig) normalized() FeedPollerConfig {
	if c.Mode == "" {
		c.Mode = PollModeStandard
	}
	if c.Interval <= 0 {
		c.Interval = 20 * time.Second
	}
	if c.ClockInterval <= 0 {
		c.ClockInterval = 30 * time.Second
	}
	if c.KickoffGrace <= 0 {
		c.KickoffGrace = 10 * time.Minute
	}
	if c.RetryInitial <= 0 {
		c.RetryInitial = 2 * time.Second
	}
	if c.FetchTimeout <= 0 {
		c.FetchTimeout = 30 * time.Second
	}
	if c.Location == nil {
		c.Location = time.UTC
	}
	if c.Logger == nil {
		c.Logger = logging.Default()
	}
	if c.Now == nil {
		c.Now = time.Now
	}
	return c
}

// FeedPoller owns the refresh schedule of one feed screen. A single goroutine
// owns the state; timers, refresh requests and fetch completions are events
// on that loop.
type FeedPoller struct {
	cfg     FeedPollerConfig
	fetcher FeedFetcher
	logger  *logging.Logger
	metrics *pollerMetrics

	refreshCh chan struct{}
	resultCh  chan fetchResult

	mu    sync.RWMutex
	state FeedState

	subMu   sync.Mutex
	subs    map[int]chan FeedUpdate
	nextSub int
	closed  bool

	startOnce sync.Once
	stopOnce  sync.Once
	cancel    context.CancelFunc
	done      chan struct{}
}

type fetchResult struct {
	seq      uint64
	silent   bool
	fixtures []fixture.Fixture
	err      error
}

func NewFeedPoller(fetcher FeedFetcher, cfg FeedPollerConfig) *FeedPoller {
	cfg = cfg.normalized()
	return &FeedPoller{
		cfg:       cfg,
		fetcher:   fetcher,
		logger:    cfg.Logger,
		metrics:   newPollerMetrics(cfg.Logger),
		refreshCh: make(chan struct{}, 1),
		resultCh:  make(chan fetchResult),
		state:     FeedState{Phase: PollPhaseIdle, Now: cfg.Now()},
		subs:      make(map[int]chan FeedUpdate),
		done:      make(chan struct{}),
	}
}

// Start runs the initial non-silent fetch and the schedule until Stop or ctx
// cancellation.
func (p *FeedPoller) Start(ctx context.Context) {
	p.startOnce.Do(func() {
		loopCtx, cancel := context.WithCancel(ctx)
		p.mu.Lock()
		p.cancel = cancel
		p.mu.Unlock()
		go p.run(loopCtx)
	})
}

// Stop cancels every timer and the in-flight fetch, then waits for the loop.
// No state change happens after Stop returns.
func (p *FeedPoller) Stop() {
	p.stopOnce.Do(func() {
		started := true
		p.startOnce.Do(func() { started = false })

		p.mu.RLock()
		cancel := p.cancel
		p.mu.RUnlock()
		if cancel != nil {
			cancel()
		}
		if started {
			<-p.done
		}
		p.closeSubscribers()
	})
}

// Refresh requests an immediate non-silent fetch, superseding one in flight.
func (p *FeedPoller) Refresh() {
	select {
	case p.refreshCh <- struct{}{}:
	default:
	}
}

func (p *FeedPoller) Snapshot() FeedState {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.state.clone()
}

// Subscribe delivers state updates. Updates are coalesced: a slow reader only
// sees the latest one. The channel closes when the poller stops.
func (p *FeedPoller) Subscribe() (<-chan FeedUpdate, func()) {
	p.subMu.Lock()
	defer p.subMu.Unlock()

	ch := make(chan FeedUpdate, 1)
	if p.closed {
		close(ch)
		return ch, func() {}
	}
	id := p.nextSub
	p.nextSub++
	p.subs[id] = ch

	return ch, func() {
		p.subMu.Lock()
		defer p.subMu.Unlock()
		if sub, ok := p.subs[id]; ok {
			delete(p.subs, id)
			close(sub)
		}
	}
}

func (p *FeedPoller) run(ctx context.Context) {
	defer close(p.done)

	var (
		seq         uint64
		inFlight    bool
		cancelFetch context.CancelFunc = func() {}
		fetchTimer  *time.Timer
		fetchC      <-chan time.Time
		retry       = resilience.NewBackoff(p.cfg.RetryInitial, p.cfg.Interval)
	)

	clock := time.NewTicker(p.cfg.ClockInterval)
	var intervalC <-chan time.Time
	if p.cfg.Mode == PollModeStandard {
		interval := time.NewTicker(p.cfg.Interval)
		defer interval.Stop()
		intervalC = interval.C
	}
	defer func() {
		clock.Stop()
		if fetchTimer != nil {
			fetchTimer.Stop()
		}
		cancelFetch()
	}()

	disarm := func() {
		if fetchTimer != nil {
			fetchTimer.Stop()
		}
		fetchTimer, fetchC = nil, nil
	}
	arm := func(delay time.Duration) {
		disarm()
		if delay < 0 {
			delay = 0
		}
		fetchTimer = time.NewTimer(delay)
		fetchC = fetchTimer.C
	}

	issue := func(silent bool) {
		cancelFetch()
		seq++
		inFlight = true
		fetchCtx, cancel := context.WithTimeout(ctx, p.cfg.FetchTimeout)
		cancelFetch = cancel
		date := p.feedDate()
		p.metrics.cycle(ctx, p.cfg.Mode, silent)

		p.mutate(func(s *FeedState) {
			s.Phase = PollPhaseFetching
			if !silent {
				s.Loading = true
			}
		})
		if !silent {
			p.publish(UpdateReasonFixtures)
		}

		go func(id uint64) {
			fixtures, err := p.fetcher.FetchFeed(fetchCtx, date)
			select {
			case p.resultCh <- fetchResult{seq: id, silent: silent, fixtures: fixtures, err: err}:
			case <-ctx.Done():
			}
		}(seq)
	}

	issue(false)

	for {
		if ctx.Err() != nil {
			return
		}

		select {
		case <-ctx.Done():
			return

		case <-intervalC:
			if inFlight {
				p.metrics.skip(ctx, p.cfg.Mode)
				continue
			}
			issue(true)

		case <-fetchC:
			fetchTimer, fetchC = nil, nil
			if inFlight {
				continue
			}
			issue(true)

		case <-p.refreshCh:
			disarm()
			issue(false)

		case <-clock.C:
			p.mutate(func(s *FeedState) { s.Now = p.cfg.Now() })
			p.publish(UpdateReasonClock)

		case res := <-p.resultCh:
			if res.seq != seq {
				continue
			}
			inFlight = false
			cancelFetch()
			if ctx.Err() != nil {
				return
			}

			if res.err != nil {
				p.metrics.failure(ctx, p.cfg.Mode, res.silent)
				if res.silent {
					delay := retry.Next()
					p.logger.WarnContext(ctx, "silent feed refresh failed", "error", res.err, "retry_in", delay)
					arm(delay)
					p.mutate(func(s *FeedState) {
						s.Phase = PollPhaseScheduled
						s.NextFetch = p.cfg.Now().Add(delay)
						s.LastError = res.err.Error()
					})
					continue
				}
				p.logger.WarnContext(ctx, "feed fetch failed", "error", res.err)
				disarm()
				now := p.cfg.Now()
				p.mutate(func(s *FeedState) {
					s.Fixtures = nil
					s.Loading = false
					s.LastPoll = now
					s.Now = now
					s.Phase = PollPhaseIdle
					s.NextFetch = time.Time{}
					s.LastError = res.err.Error()
				})
				p.publish(UpdateReasonError)
				continue
			}

			retry.Reset()
			now := p.cfg.Now()
			replaced := false
			p.mutate(func(s *FeedState) {
				if fixture.ShouldReplace(s.Fixtures, res.fixtures, res.silent) {
					s.Fixtures = res.fixtures
					replaced = true
				}
				s.Loading = false
				s.LastPoll = now
				s.Now = now
				s.LastError = ""
			})

			next, ok := p.nextScheduledFetch(now)
			if ok {
				arm(next.Sub(now))
			} else {
				disarm()
			}
			p.mutate(func(s *FeedState) {
				switch {
				case ok:
					s.Phase = PollPhaseScheduled
					s.NextFetch = next
				default:
					s.Phase = PollPhaseIdle
					s.NextFetch = time.Time{}
				}
			})

			if replaced {
				p.publish(UpdateReasonFixtures)
			} else {
				p.metrics.suppress(ctx, p.cfg.Mode)
			}
		}
	}
}

// nextScheduledFetch decides when the kickoff-aware mode fetches again. The
// standard mode is driven by its ticker and reports no one-shot fetch.
func (p *FeedPoller) nextScheduledFetch(now time.Time) (time.Time, bool) {
	if p.cfg.Mode != PollModeKickoffAware {
		return time.Time{}, false
	}

	held := p.Snapshot().Fixtures
	if len(held) == 0 {
		return time.Time{}, false
	}

	var latest time.Time
	anyLive := false
	for _, item := range held {
		if item.Kickoff.After(latest) {
			latest = item.Kickoff
		}
		if item.IsLive {
			anyLive = true
		}
	}

	at := latest.Add(p.cfg.KickoffGrace)
	if at.After(now) {
		return at, true
	}
	// Past the last kickoff plus grace: keep following matches still in play.
	if anyLive {
		return now.Add(p.cfg.Interval), true
	}
	return time.Time{}, false
}

func (p *FeedPoller) feedDate() string {
	if p.cfg.Date != "" {
		return p.cfg.Date
	}
	return p.cfg.Now().In(p.cfg.Location).Format(feedDateLayout)
}

func (p *FeedPoller) mutate(fn func(s *FeedState)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fn(&p.state)
}

func (p *FeedPoller) publish(reason UpdateReason) {
	update := FeedUpdate{Reason: reason, State: p.Snapshot()}

	p.subMu.Lock()
	defer p.subMu.Unlock()
	for _, ch := range p.subs {
		select {
		case ch <- update:
		default:
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- update:
			default:
			}
		}
	}
}

func (p *FeedPoller) closeSubscribers() {
	p.subMu.Lock()
	defer p.subMu.Unlock()
	p.closed = true
	for id, ch := range p.subs {
		delete(p.subs, id)
		close(ch)
	}
}

type pollerMetrics struct {
	cycles     metric.Int64Counter
	failures   metric.Int64Counter
	suppressed metric.Int64Counter
	skipped    metric.Int64Counter
}

func newPollerMetrics(logger *logging.Logger) *pollerMetrics {
	meter := otel.Meter("playscout/internal/usecase")
	m := &pollerMetrics{}
	var err error
	if m.cycles, err = meter.Int64Counter("feed.poll.cycles", metric.WithDescription("Feed fetches issued by pollers.")); err != nil {
		logger.Warn("create feed metric failed", "metric", "feed.poll.cycles", "error", err)
	}
	if m.failures, err = meter.Int64Counter("feed.poll.failures", metric.WithDescription("Feed fetches that failed.")); err != nil {
		logger.Warn("create feed metric failed", "metric", "feed.poll.failures", "error", err)
	}
	if m.suppressed, err = meter.Int64Counter("feed.poll.suppressed", metric.WithDescription("Silent fetches with no visible change.")); err != nil {
		logger.Warn("create feed metric failed", "metric", "feed.poll.suppressed", "error", err)
	}
	if m.skipped, err = meter.Int64Counter("feed.poll.skipped", metric.WithDescription("Scheduled fetches skipped while one was in flight.")); err != nil {
		logger.Warn("create feed metric failed", "metric", "feed.poll.skipped", "error", err)
	}
	return m
}

func (m *pollerMetrics) cycle(ctx context.Context, mode PollMode, silent bool) {
	add(ctx, m.cycles, attribute.String("mode", string(mode)), attribute.Bool("silent", silent))
}

func (m *pollerMetrics) failure(ctx context.Context, mode PollMode, silent bool) {
	add(ctx, m.failures, attribute.String("mode", string(mode)), attribute.Bool("silent", silent))
}

func (m *pollerMetrics) suppress(ctx context.Context, mode PollMode) {
	add(ctx, m.suppressed, attribute.String("mode", string(mode)))
}

func (m *pollerMetrics) skip(ctx context.Context, mode PollMode) {
	add(ctx, m.skipped, attribute.String("mode", string(mode)))
}

func add(ctx context.Context, counter metric.Int64Counter, attrs ...attribute.KeyValue) {
	if counter == nil {
		return
	}
	counter.Add(context.WithoutCancel(ctx), 1, metric.WithAttributes(attrs...))
}
