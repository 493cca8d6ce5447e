package app

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"tripmarket/internal/cache"
	"tripmarket/internal/domain"
)

func sessionHarness(t *testing.T) (*memGateway, *cache.Store, *SessionFetcher) {
	t.Helper()
	store := cache.New()
	store.ReplaceGlobal(cache.FixtureData())
	gw := newMemGateway(cache.FixtureData())
	return gw, store, NewSessionFetcher(gw, store, zerolog.Nop())
}

func TestSession_ClientSignInAndOut(t *testing.T) {
	gw, store, f := sessionHarness(t)
	gw.bookingsByClient["client-marina"] = []domain.Booking{bookingFixture("bk-1", "client-marina")}

	f.OnIdentity(context.Background(), &domain.Identity{UserID: "client-marina", Role: domain.RoleClient})
	if got := len(store.Snapshot().Bookings()); got != 1 {
		t.Fatalf("sign-in loaded %d bookings, want 1", got)
	}

	f.OnIdentity(context.Background(), nil)
	if got := len(store.Snapshot().Bookings()); got != 0 {
		t.Fatalf("sign-out left %d bookings", got)
	}
}

func TestSession_SameUserIsNoOp(t *testing.T) {
	gw, _, f := sessionHarness(t)
	id := &domain.Identity{UserID: "client-marina", Role: domain.RoleClient}

	f.OnIdentity(context.Background(), id)
	f.OnIdentity(context.Background(), id) // e.g. window refocus
	f.OnIdentity(context.Background(), id)

	gw.mu.Lock()
	calls := gw.fetchCalls
	gw.mu.Unlock()
	if calls != 1 {
		t.Fatalf("repeated identity caused %d fetches, want 1", calls)
	}
}

func TestSession_UserSwitchReplacesScopedData(t *testing.T) {
	gw, store, f := sessionHarness(t)
	gw.bookingsByClient["client-marina"] = []domain.Booking{bookingFixture("bk-1", "client-marina")}
	gw.bookingsByClient["client-diego"] = []domain.Booking{
		bookingFixture("bk-2", "client-diego"),
		bookingFixture("bk-3", "client-diego"),
	}

	f.OnIdentity(context.Background(), &domain.Identity{UserID: "client-marina", Role: domain.RoleClient})
	f.OnIdentity(context.Background(), &domain.Identity{UserID: "client-diego", Role: domain.RoleClient})

	bs := store.Snapshot().Bookings()
	if len(bs) != 2 {
		t.Fatalf("switch loaded %d bookings, want 2", len(bs))
	}
	for _, b := range bs {
		if b.ClientID != "client-diego" {
			t.Fatalf("stale booking survived the switch: %+v", b)
		}
	}
}

func TestSession_SupersededFetchIsDiscarded(t *testing.T) {
	gw, store, f := sessionHarness(t)
	gw.blockFetch = make(chan struct{})
	gw.bookingsByClient["client-marina"] = []domain.Booking{bookingFixture("bk-stale", "client-marina")}

	done := make(chan struct{})
	go func() {
		defer close(done)
		f.OnIdentity(context.Background(), &domain.Identity{UserID: "client-marina", Role: domain.RoleClient})
	}()
	time.Sleep(20 * time.Millisecond) // marina's fetch is now parked on the gateway

	// Sign-out bumps the generation while the fetch is still in flight.
	f.OnIdentity(context.Background(), nil)

	close(gw.blockFetch)
	<-done

	if got := len(store.Snapshot().Bookings()); got != 0 {
		t.Fatalf("superseded fetch wrote %d stale bookings into the cache", got)
	}
}

func TestSession_AgencyScopeIntersectsOwnership(t *testing.T) {
	gw, store, f := sessionHarness(t)
	gw.bookingsByTrips = []domain.Booking{bookingFixture("bk-agency", "client-marina")}

	f.OnIdentity(context.Background(), &domain.Identity{UserID: "user-andes", Role: domain.RoleAgency})
	if got := len(store.Snapshot().Bookings()); got != 1 {
		t.Fatalf("agency scope loaded %d bookings, want 1", got)
	}

	// An owner with no agency resolves to an empty scope, not an error.
	f.OnIdentity(context.Background(), &domain.Identity{UserID: "user-nobody", Role: domain.RoleAgency})
	if got := len(store.Snapshot().Bookings()); got != 0 {
		t.Fatalf("unknown owner kept %d bookings", got)
	}
}
