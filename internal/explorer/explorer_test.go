package explorer

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/lehigh-university-libraries/artexplorer/internal/bans"
	"github.com/lehigh-university-libraries/artexplorer/internal/catalog"
	"github.com/lehigh-university-libraries/artexplorer/internal/history"
	"github.com/lehigh-university-libraries/artexplorer/internal/models"
	"github.com/lehigh-university-libraries/artexplorer/internal/sampler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubFetcher returns queued results in order
type stubFetcher struct {
	mu      sync.Mutex
	results []result
	lists   []bans.List
}

type result struct {
	record *models.ArtworkRecord
	err    error
}

func (s *stubFetcher) FetchOne(ctx context.Context, list bans.List) (*models.ArtworkRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lists = append(s.lists, list)
	r := s.results[0]
	s.results = s.results[1:]
	return r.record, r.err
}

func art(title, culture string) *models.ArtworkRecord {
	return &models.ArtworkRecord{Title: title, Culture: culture, PrimaryImageURL: "https://img/" + title}
}

func TestNewDeduplicatesPresetBans(t *testing.T) {
	e := New("s1", &stubFetcher{}, bans.List{"a", "b", "a", " "})
	assert.Equal(t, bans.List{"a", "b"}, e.Bans())
	assert.Equal(t, "s1", e.ID())
}

func TestDiscoverSuccessUpdatesCurrentAndHistory(t *testing.T) {
	first, second := art("first", "Dutch"), art("second", "French")
	f := &stubFetcher{results: []result{{record: first}, {record: second}}}
	e := New("s1", f, bans.List{"roman"})

	got, err := e.Discover(context.Background())
	require.NoError(t, err)
	assert.Same(t, first, got)

	_, err = e.Discover(context.Background())
	require.NoError(t, err)

	snap := e.Snapshot()
	assert.Same(t, second, snap.Current)
	require.Len(t, snap.History, 2)
	assert.Same(t, second, snap.History[0].Artwork)
	assert.Same(t, first, snap.History[1].Artwork)
	assert.False(t, snap.Fetching)
	assert.Equal(t, []bans.List{{"roman"}, {"roman"}}, f.lists)
}

func TestDiscoverExhaustedClearsCurrent(t *testing.T) {
	f := &stubFetcher{results: []result{{record: art("a", "")}, {err: sampler.ErrExhausted}}}
	e := New("s1", f, nil)

	_, err := e.Discover(context.Background())
	require.NoError(t, err)

	_, err = e.Discover(context.Background())
	assert.ErrorIs(t, err, sampler.ErrExhausted)
	assert.Nil(t, e.Current())
	assert.Len(t, e.Snapshot().History, 1)
}

func TestDiscoverFailureLeavesStateUntouched(t *testing.T) {
	a := art("a", "")
	f := &stubFetcher{results: []result{{record: a}, {err: catalog.ErrTransport}}}
	e := New("s1", f, nil)

	_, err := e.Discover(context.Background())
	require.NoError(t, err)

	_, err = e.Discover(context.Background())
	assert.ErrorIs(t, err, catalog.ErrTransport)
	assert.Same(t, a, e.Current())
	assert.Len(t, e.Snapshot().History, 1)
}

func TestSelectHistory(t *testing.T) {
	dutch, french := art("dutch", "Dutch"), art("french", "French")
	f := &stubFetcher{results: []result{{record: dutch}, {record: french}}}
	e := New("s1", f, nil)
	_, _ = e.Discover(context.Background())
	_, _ = e.Discover(context.Background())

	got, err := e.SelectHistory(1)
	require.NoError(t, err)
	assert.Same(t, dutch, got)
	assert.Same(t, dutch, e.Current())

	e.ToggleBan("French")
	_, err = e.SelectHistory(0)
	assert.ErrorIs(t, err, history.ErrRejected)
	assert.Same(t, dutch, e.Current(), "rejected selection must not change current")

	_, err = e.SelectHistory(5)
	assert.ErrorIs(t, err, ErrNoSuchEntry)
	assert.Same(t, dutch, e.Current())
}

func TestSnapshotMarksBannedHistory(t *testing.T) {
	f := &stubFetcher{results: []result{{record: art("bowl", "Chinese")}, {record: art("print", "Japanese")}}}
	e := New("s1", f, nil)
	_, _ = e.Discover(context.Background())
	_, _ = e.Discover(context.Background())

	e.ToggleBan("chinese")
	snap := e.Snapshot()
	assert.False(t, snap.History[0].Banned)
	assert.True(t, snap.History[1].Banned)
	assert.Equal(t, 1, snap.History[1].Index)
}

func TestToggleAndClearBans(t *testing.T) {
	e := New("s1", &stubFetcher{}, nil)

	assert.Equal(t, bans.List{"Bronze"}, e.ToggleBan("Bronze"))
	assert.Equal(t, bans.List{"Bronze", "Oil"}, e.ToggleBan("Oil"))
	assert.Equal(t, bans.List{"Oil"}, e.ToggleBan("Bronze"))

	e.ClearBans()
	assert.Empty(t, e.Bans())
}

func TestSubscribeReceivesChanges(t *testing.T) {
	f := &stubFetcher{results: []result{{record: art("a", "")}}}
	e := New("s1", f, nil)

	var snaps []Snapshot
	unsubscribe := e.Subscribe(func(s Snapshot) {
		snaps = append(snaps, s)
	})

	_, err := e.Discover(context.Background())
	require.NoError(t, err)
	require.Len(t, snaps, 2)
	assert.True(t, snaps[0].Fetching)
	assert.False(t, snaps[1].Fetching)
	assert.Equal(t, "a", snaps[1].Current.Title)

	e.ToggleBan("x")
	assert.Len(t, snaps, 3)

	unsubscribe()
	e.ClearBans()
	assert.Len(t, snaps, 3)
}

func TestDiscoverWhileFetchingIsBusy(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	f := fetcherFunc(func(ctx context.Context, list bans.List) (*models.ArtworkRecord, error) {
		close(started)
		<-release
		return art("slow", ""), nil
	})
	e := New("s1", f, nil)

	done := make(chan error, 1)
	go func() {
		_, err := e.Discover(context.Background())
		done <- err
	}()

	<-started
	assert.True(t, e.Snapshot().Fetching)
	_, err := e.Discover(context.Background())
	assert.ErrorIs(t, err, sampler.ErrBusy)

	close(release)
	require.NoError(t, <-done)
	assert.Len(t, e.Snapshot().History, 1)
}

type fetcherFunc func(ctx context.Context, list bans.List) (*models.ArtworkRecord, error)

func (f fetcherFunc) FetchOne(ctx context.Context, list bans.List) (*models.ArtworkRecord, error) {
	return f(ctx, list)
}

func TestSnapshotVersionOrdersConcurrentChanges(t *testing.T) {
	e := New("s1", &stubFetcher{}, nil)

	var mu sync.Mutex
	var latest Snapshot
	e.Subscribe(func(s Snapshot) {
		mu.Lock()
		defer mu.Unlock()
		if s.Version > latest.Version {
			latest = s
		}
	})

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			e.ToggleBan(fmt.Sprintf("term-%d", i))
		}(i)
	}
	wg.Wait()

	final := e.Snapshot()
	assert.Equal(t, uint64(20), final.Version)
	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, final.Version, latest.Version)
	assert.ElementsMatch(t, final.Bans, latest.Bans, "newest published snapshot matches the final state")
}

func TestRejectedChangesKeepVersion(t *testing.T) {
	f := &stubFetcher{results: []result{{record: art("a", "Dutch")}}}
	e := New("s1", f, bans.List{})
	_, _ = e.Discover(context.Background())
	e.ToggleBan("Dutch")
	before := e.Snapshot().Version

	_, err := e.SelectHistory(0)
	assert.ErrorIs(t, err, history.ErrRejected)
	_, err = e.SelectHistory(3)
	assert.ErrorIs(t, err, ErrNoSuchEntry)
	assert.Equal(t, before, e.Snapshot().Version)
}

func TestLastActive(t *testing.T) {
	e := New("s1", &stubFetcher{}, nil)
	created := e.LastActive()
	assert.False(t, created.IsZero())

	time.Sleep(2 * time.Millisecond)
	e.ToggleBan("x")
	afterToggle := e.LastActive()
	assert.True(t, afterToggle.After(created))

	time.Sleep(2 * time.Millisecond)
	e.Touch()
	assert.True(t, e.LastActive().After(afterToggle))
}
