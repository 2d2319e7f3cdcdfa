package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/riskibarqy/playscout/internal/domain/fixture"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeFetcher struct {
	mu    sync.Mutex
	calls int
	dates []string
	fn    func(ctx context.Context, call int) ([]fixture.Fixture, error)
}

func (f *fakeFetcher) FetchFeed(ctx context.Context, date string) ([]fixture.Fixture, error) {
	f.mu.Lock()
	f.calls++
	call := f.calls
	f.dates = append(f.dates, date)
	f.mu.Unlock()
	return f.fn(ctx, call)
}

func (f *fakeFetcher) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func pollerFeed(logo string) []fixture.Fixture {
	home, away := 1, 0
	return []fixture.Fixture{
		{
			ID:         "1",
			Kickoff:    time.Date(2024, 5, 1, 19, 0, 0, 0, time.UTC),
			HomeTeam:   fixture.Team{Name: "Flamengo", LogoURL: logo},
			AwayTeam:   fixture.Team{Name: "Vasco"},
			StatusRaw:  "34",
			StatusKind: fixture.StatusLive,
			IsLive:     true,
			Score:      fixture.Score{Home: &home, Away: &away},
		},
	}
}

func fastPollerConfig() FeedPollerConfig {
	return FeedPollerConfig{
		Interval:      10 * time.Millisecond,
		ClockInterval: time.Hour,
		RetryInitial:  5 * time.Millisecond,
		Date:          "2024-05-01",
	}
}

func TestFeedPoller_InitialFetchIsNonSilent(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	fetcher := &fakeFetcher{fn: func(ctx context.Context, call int) ([]fixture.Fixture, error) {
		if call == 1 {
			<-release
		}
		return pollerFeed("a.png"), nil
	}}

	cfg := fastPollerConfig()
	cfg.Interval = time.Hour
	poller := NewFeedPoller(fetcher, cfg)
	updates, unsubscribe := poller.Subscribe()
	defer unsubscribe()

	poller.Start(context.Background())
	defer poller.Stop()

	first := <-updates
	assert.Equal(t, UpdateReasonFixtures, first.Reason)
	assert.True(t, first.State.Loading)
	assert.Equal(t, PollPhaseFetching, first.State.Phase)

	close(release)
	second := <-updates
	assert.False(t, second.State.Loading)
	require.Len(t, second.State.Fixtures, 1)
	assert.Equal(t, "2024-05-01", fetcher.dates[0])
}

func TestFeedPoller_SilentRefreshIgnoresInvisibleChanges(t *testing.T) {
	t.Parallel()

	fetcher := &fakeFetcher{fn: func(ctx context.Context, call int) ([]fixture.Fixture, error) {
		if call == 1 {
			return pollerFeed("a.png"), nil
		}
		return pollerFeed("b.png"), nil
	}}

	poller := NewFeedPoller(fetcher, fastPollerConfig())
	poller.Start(context.Background())
	defer poller.Stop()

	require.Eventually(t, func() bool { return fetcher.callCount() >= 3 }, time.Second, 5*time.Millisecond)
	snap := poller.Snapshot()
	require.Len(t, snap.Fixtures, 1)
	assert.Equal(t, "a.png", snap.Fixtures[0].HomeTeam.LogoURL)
}

func TestFeedPoller_SilentRefreshAppliesVisibleChanges(t *testing.T) {
	t.Parallel()

	fetcher := &fakeFetcher{fn: func(ctx context.Context, call int) ([]fixture.Fixture, error) {
		feed := pollerFeed("a.png")
		if call >= 2 {
			two := 2
			feed[0].Score.Home = &two
		}
		return feed, nil
	}}

	poller := NewFeedPoller(fetcher, fastPollerConfig())
	poller.Start(context.Background())
	defer poller.Stop()

	require.Eventually(t, func() bool {
		snap := poller.Snapshot()
		return len(snap.Fixtures) == 1 && *snap.Fixtures[0].Score.Home == 2
	}, time.Second, 5*time.Millisecond)
}

func TestFeedPoller_SilentFailureKeepsState(t *testing.T) {
	t.Parallel()

	fetcher := &fakeFetcher{fn: func(ctx context.Context, call int) ([]fixture.Fixture, error) {
		if call == 1 {
			return pollerFeed("a.png"), nil
		}
		return nil, fixture.ErrNetwork
	}}

	poller := NewFeedPoller(fetcher, fastPollerConfig())
	poller.Start(context.Background())
	defer poller.Stop()

	require.Eventually(t, func() bool { return fetcher.callCount() >= 3 }, time.Second, 5*time.Millisecond)
	snap := poller.Snapshot()
	require.Len(t, snap.Fixtures, 1)
	assert.False(t, snap.Loading)
	assert.Contains(t, snap.LastError, "network")
}

func TestFeedPoller_NonSilentFailureClearsState(t *testing.T) {
	t.Parallel()

	fetcher := &fakeFetcher{fn: func(ctx context.Context, call int) ([]fixture.Fixture, error) {
		return nil, fixture.ErrMalformedResponse
	}}

	cfg := fastPollerConfig()
	cfg.Interval = time.Hour
	poller := NewFeedPoller(fetcher, cfg)
	updates, unsubscribe := poller.Subscribe()
	defer unsubscribe()

	poller.Start(context.Background())
	defer poller.Stop()

	var last FeedUpdate
	for update := range updates {
		last = update
		if update.Reason == UpdateReasonError {
			break
		}
	}
	assert.Equal(t, UpdateReasonError, last.Reason)
	assert.Empty(t, last.State.Fixtures)
	assert.False(t, last.State.Loading)
	assert.Equal(t, PollPhaseIdle, last.State.Phase)
}

func TestFeedPoller_RefreshSupersedesInFlightFetch(t *testing.T) {
	t.Parallel()

	started := make(chan struct{})
	fetcher := &fakeFetcher{fn: func(ctx context.Context, call int) ([]fixture.Fixture, error) {
		if call == 1 {
			close(started)
			<-ctx.Done()
			return nil, ctx.Err()
		}
		return pollerFeed("fresh.png"), nil
	}}

	cfg := fastPollerConfig()
	cfg.Interval = time.Hour
	poller := NewFeedPoller(fetcher, cfg)
	poller.Start(context.Background())
	defer poller.Stop()

	<-started
	poller.Refresh()

	require.Eventually(t, func() bool { return len(poller.Snapshot().Fixtures) == 1 }, time.Second, 5*time.Millisecond)
	snap := poller.Snapshot()
	assert.Empty(t, snap.LastError)
	assert.Equal(t, "fresh.png", snap.Fixtures[0].HomeTeam.LogoURL)
}

func TestFeedPoller_SkipsScheduledFetchWhileInFlight(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	fetcher := &fakeFetcher{fn: func(ctx context.Context, call int) ([]fixture.Fixture, error) {
		select {
		case <-release:
		case <-ctx.Done():
		}
		return pollerFeed("a.png"), nil
	}}

	poller := NewFeedPoller(fetcher, fastPollerConfig())
	poller.Start(context.Background())

	time.Sleep(60 * time.Millisecond)
	if got := fetcher.callCount(); got != 1 {
		t.Fatalf("expected scheduled fetches to be skipped, got=%d calls", got)
	}
	close(release)
	poller.Stop()
}

func TestFeedPoller_StopHaltsFetchingAndClosesSubscribers(t *testing.T) {
	t.Parallel()

	fetcher := &fakeFetcher{fn: func(ctx context.Context, call int) ([]fixture.Fixture, error) {
		return pollerFeed("a.png"), nil
	}}

	poller := NewFeedPoller(fetcher, fastPollerConfig())
	updates, _ := poller.Subscribe()
	poller.Start(context.Background())

	require.Eventually(t, func() bool { return fetcher.callCount() >= 2 }, time.Second, 5*time.Millisecond)
	poller.Stop()
	calls := fetcher.callCount()
	time.Sleep(40 * time.Millisecond)
	assert.Equal(t, calls, fetcher.callCount())

	for range updates {
	}
	poller.Stop()
}

func TestFeedPoller_KickoffAwareRearmsThenIdles(t *testing.T) {
	t.Parallel()

	grace := time.Second
	kickoff := time.Now().Add(-grace + 40*time.Millisecond)
	fetcher := &fakeFetcher{fn: func(ctx context.Context, call int) ([]fixture.Fixture, error) {
		return []fixture.Fixture{{ID: "1", Kickoff: kickoff, HomeTeam: fixture.Team{Name: "A"}, AwayTeam: fixture.Team{Name: "B"}}}, nil
	}}

	cfg := fastPollerConfig()
	cfg.Mode = PollModeKickoffAware
	cfg.KickoffGrace = grace
	poller := NewFeedPoller(fetcher, cfg)
	poller.Start(context.Background())
	defer poller.Stop()

	require.Eventually(t, func() bool { return poller.Snapshot().Phase == PollPhaseScheduled }, time.Second, time.Millisecond)
	require.Eventually(t, func() bool {
		return fetcher.callCount() == 2 && poller.Snapshot().Phase == PollPhaseIdle
	}, time.Second, 5*time.Millisecond)

	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, 2, fetcher.callCount())
}

func TestFeedPoller_KickoffAwareSilentFailureSchedulesRetry(t *testing.T) {
	t.Parallel()

	grace := time.Second
	kickoff := time.Now().Add(-grace + 30*time.Millisecond)
	fetcher := &fakeFetcher{fn: func(ctx context.Context, call int) ([]fixture.Fixture, error) {
		if call == 2 {
			return nil, fixture.ErrNetwork
		}
		return []fixture.Fixture{{ID: "1", Kickoff: kickoff, HomeTeam: fixture.Team{Name: "A"}, AwayTeam: fixture.Team{Name: "B"}}}, nil
	}}

	cfg := fastPollerConfig()
	cfg.Mode = PollModeKickoffAware
	cfg.Interval = time.Hour
	cfg.KickoffGrace = grace
	cfg.RetryInitial = 200 * time.Millisecond
	poller := NewFeedPoller(fetcher, cfg)
	poller.Start(context.Background())
	defer poller.Stop()

	var failed FeedState
	require.Eventually(t, func() bool {
		failed = poller.Snapshot()
		return fetcher.callCount() == 2 && failed.LastError != "" && failed.Phase == PollPhaseScheduled
	}, time.Second, time.Millisecond)

	remaining := time.Until(failed.NextFetch)
	if remaining <= 0 || remaining > 300*time.Millisecond {
		t.Fatalf("expected retry within backoff window, got=%s", remaining)
	}
	require.Len(t, failed.Fixtures, 1)

	require.Eventually(t, func() bool {
		snap := poller.Snapshot()
		return fetcher.callCount() == 3 && snap.LastError == "" && snap.Phase == PollPhaseIdle
	}, 2*time.Second, 5*time.Millisecond)
}

func TestFeedPoller_ClockTickRefreshesNowWithoutFetching(t *testing.T) {
	t.Parallel()

	var (
		mu   sync.Mutex
		tick time.Duration
	)
	base := time.Date(2024, 5, 1, 19, 0, 0, 0, time.UTC)
	fetcher := &fakeFetcher{fn: func(ctx context.Context, call int) ([]fixture.Fixture, error) {
		return pollerFeed("a.png"), nil
	}}

	cfg := fastPollerConfig()
	cfg.Interval = time.Hour
	cfg.ClockInterval = 20 * time.Millisecond
	cfg.Now = func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		tick += time.Minute
		return base.Add(tick)
	}
	poller := NewFeedPoller(fetcher, cfg)
	updates, unsubscribe := poller.Subscribe()
	defer unsubscribe()

	poller.Start(context.Background())
	defer poller.Stop()

	var clocked []FeedUpdate
	timeout := time.After(time.Second)
	for len(clocked) < 2 {
		select {
		case update := <-updates:
			if update.Reason == UpdateReasonClock && len(update.State.Fixtures) == 1 {
				clocked = append(clocked, update)
			}
		case <-timeout:
			t.Fatalf("expected two clock updates, got=%d", len(clocked))
		}
	}

	assert.True(t, clocked[1].State.Now.After(clocked[0].State.Now))
	assert.True(t, clocked[0].State.Now.After(clocked[0].State.LastPoll))
	assert.Equal(t, 1, fetcher.callCount())
}

func TestFeedPoller_NextScheduledFetch(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 5, 1, 22, 0, 0, 0, time.UTC)
	cfg := FeedPollerConfig{Mode: PollModeKickoffAware, Interval: 20 * time.Second, KickoffGrace: 10 * time.Minute}
	poller := NewFeedPoller(&fakeFetcher{}, cfg)

	_, ok := poller.nextScheduledFetch(now)
	assert.False(t, ok, "no fixtures means idle")

	poller.state.Fixtures = []fixture.Fixture{
		{ID: "1", Kickoff: now.Add(-2 * time.Hour)},
		{ID: "2", Kickoff: now.Add(time.Hour)},
	}
	at, ok := poller.nextScheduledFetch(now)
	require.True(t, ok)
	assert.Equal(t, now.Add(70*time.Minute), at)

	poller.state.Fixtures = []fixture.Fixture{{ID: "1", Kickoff: now.Add(-2 * time.Hour), IsLive: true}}
	at, ok = poller.nextScheduledFetch(now)
	require.True(t, ok)
	assert.Equal(t, now.Add(20*time.Second), at)

	poller.state.Fixtures[0].IsLive = false
	_, ok = poller.nextScheduledFetch(now)
	assert.False(t, ok)
}

func TestParsePollMode(t *testing.T) {
	t.Parallel()

	mode, err := ParsePollMode("")
	require.NoError(t, err)
	assert.Equal(t, PollModeStandard, mode)

	_, err = ParsePollMode("hourly")
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}
