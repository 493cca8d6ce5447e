package app

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"tripmarket/internal/cache"
	"tripmarket/internal/domain"
)

// countingGateway wraps memGateway to count full reloads via the trips
// bulk read, which every reload performs exactly once.
type countingGateway struct {
	*memGateway
	tripReads int64
}

func (g *countingGateway) Trips(ctx context.Context) ([]domain.Trip, error) {
	atomic.AddInt64(&g.tripReads, 1)
	return g.memGateway.Trips(ctx)
}

func newRefreshHarness(t *testing.T, window time.Duration) (*countingGateway, *memFeed, *RefreshController) {
	t.Helper()
	gw := &countingGateway{memGateway: newMemGateway(cache.FixtureData())}
	store := cache.New()
	loader := NewLoader(gw, store, zerolog.Nop())
	feed := newMemFeed()
	rc := NewRefreshController(feed, loader, window, zerolog.Nop())
	if err := rc.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	t.Cleanup(rc.Close)
	return gw, feed, rc
}

func TestRefresh_CoalescesEventsAcrossTables(t *testing.T) {
	gw, feed, _ := newRefreshHarness(t, 30*time.Millisecond)

	// A burst touching several tables inside one window.
	feed.emit(domain.TableTrips)
	feed.emit(domain.TableReviews)
	feed.emit(domain.TableTrips)
	feed.emit(domain.TableAgencies)
	feed.emit(domain.TableBookings)

	time.Sleep(150 * time.Millisecond)
	if got := atomic.LoadInt64(&gw.tripReads); got != 1 {
		t.Fatalf("burst caused %d reloads, want 1", got)
	}
}

func TestRefresh_SeparatedBurstsReloadTwice(t *testing.T) {
	gw, feed, _ := newRefreshHarness(t, 20*time.Millisecond)

	feed.emit(domain.TableTrips)
	time.Sleep(100 * time.Millisecond)
	feed.emit(domain.TableTrips)
	time.Sleep(100 * time.Millisecond)

	if got := atomic.LoadInt64(&gw.tripReads); got != 2 {
		t.Fatalf("two bursts caused %d reloads, want 2", got)
	}
}

func TestRefresh_EventDuringReloadRearms(t *testing.T) {
	gw := &countingGateway{memGateway: newMemGateway(cache.FixtureData())}
	hold := make(chan struct{})
	store := cache.New()
	loader := NewLoader(&slowGateway{countingGateway: gw, hold: hold}, store, zerolog.Nop())
	feed := newMemFeed()
	rc := NewRefreshController(feed, loader, 10*time.Millisecond, zerolog.Nop())
	if err := rc.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	t.Cleanup(rc.Close)

	feed.emit(domain.TableTrips)
	time.Sleep(50 * time.Millisecond) // reload now in flight, held on the gateway

	feed.emit(domain.TableReviews) // lands mid-reload
	close(hold)                    // let the first reload finish
	time.Sleep(150 * time.Millisecond)

	if got := atomic.LoadInt64(&gw.tripReads); got != 2 {
		t.Fatalf("mid-reload event produced %d reloads, want 2", got)
	}
}

func TestRefresh_ReloadsNeverOverlap(t *testing.T) {
	hold := make(chan struct{})
	gw := &overlapGateway{
		countingGateway: &countingGateway{memGateway: newMemGateway(cache.FixtureData())},
		hold:            hold,
	}
	store := cache.New()
	loader := NewLoader(gw, store, zerolog.Nop())
	rc := NewRefreshController(newMemFeed(), loader, 20*time.Millisecond, zerolog.Nop())
	t.Cleanup(rc.Close)

	go rc.reload()
	deadline := time.Now().Add(2 * time.Second)
	for atomic.LoadInt64(&gw.entries) == 0 {
		if time.Now().After(deadline) {
			t.Fatal("first reload never reached the gateway")
		}
		time.Sleep(time.Millisecond)
	}

	// A timer that fired while the first reload holds the gateway must
	// fold into the deferred cycle, not run a second reload in parallel.
	done := make(chan struct{})
	go func() {
		rc.reload()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("second reload call did not yield to the one in flight")
	}

	close(hold)
	time.Sleep(150 * time.Millisecond) // first reload finishes, deferred cycle runs

	if got := atomic.LoadInt64(&gw.tripReads); got != 2 {
		t.Fatalf("reload count %d, want 2 (held + deferred)", got)
	}
	if got := atomic.LoadInt64(&gw.maxActive); got != 1 {
		t.Fatalf("%d reloads were inside the gateway at once, want 1", got)
	}
}

// overlapGateway tracks how many reloads sit inside the gateway at once
// and holds the first trips read until released.
type overlapGateway struct {
	*countingGateway
	hold      <-chan struct{}
	active    int64
	maxActive int64
	entries   int64
}

func (g *overlapGateway) Trips(ctx context.Context) ([]domain.Trip, error) {
	cur := atomic.AddInt64(&g.active, 1)
	defer atomic.AddInt64(&g.active, -1)
	for {
		max := atomic.LoadInt64(&g.maxActive)
		if cur <= max || atomic.CompareAndSwapInt64(&g.maxActive, max, cur) {
			break
		}
	}
	if atomic.AddInt64(&g.entries, 1) == 1 {
		<-g.hold
	}
	return g.countingGateway.Trips(ctx)
}

// slowGateway holds the first Agencies read until released, keeping one
// reload in flight while the test injects more events.
type slowGateway struct {
	*countingGateway
	hold     <-chan struct{}
	released int64
}

func (g *slowGateway) Agencies(ctx context.Context) ([]domain.Agency, error) {
	if atomic.AddInt64(&g.released, 1) == 1 {
		<-g.hold
	}
	return g.countingGateway.Agencies(ctx)
}
