package cache

import (
	"errors"
	"testing"
	"time"

	"tripmarket/internal/domain"
)

func TestTripBySlug_Strict(t *testing.T) {
	st := New()
	st.ReplaceGlobal(FixtureData())
	snap := st.Snapshot()

	if _, err := snap.TripBySlug("machu-picchu-explorer"); err != nil {
		t.Fatalf("known slug: %v", err)
	}
	if _, err := snap.TripBySlug("  machu-picchu-explorer  "); err != nil {
		t.Fatalf("whitespace should be trimmed: %v", err)
	}
	if _, err := snap.TripBySlug(""); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("blank slug must not resolve, got %v", err)
	}
	if _, err := snap.TripBySlug("   "); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("whitespace-only slug must not resolve, got %v", err)
	}
	// An entity ID is never a valid slug lookup key.
	if _, err := snap.TripBySlug("trip-machu"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("id lookup through slug path must fail, got %v", err)
	}
}

func TestSnapshotIsolation(t *testing.T) {
	st := New()
	st.ReplaceGlobal(FixtureData())

	before := st.Snapshot()
	title := "Renamed"
	st.PatchTrip("trip-machu", func(tr domain.Trip) domain.Trip {
		tr.Title = title
		return tr
	})

	old, _ := before.TripByID("trip-machu")
	if old.Title == title {
		t.Fatal("patch leaked into previously captured snapshot")
	}
	cur, _ := st.Snapshot().TripByID("trip-machu")
	if cur.Title != title {
		t.Fatalf("patch not visible in new snapshot: %q", cur.Title)
	}
}

func TestReplaceGlobal_KeepsSessionBookings(t *testing.T) {
	st := New()
	st.ReplaceBookings([]domain.Booking{{ID: "bk-1", TripID: "trip-machu", ClientID: "client-marina"}})

	st.ReplaceGlobal(FixtureData())

	if got := len(st.Snapshot().Bookings()); got != 1 {
		t.Fatalf("global swap must not touch session bookings, got %d", got)
	}
	st.ClearBookings()
	if got := len(st.Snapshot().Bookings()); got != 0 {
		t.Fatalf("clear left %d bookings", got)
	}
}

func TestPutReview_UpsertsByPair(t *testing.T) {
	st := New()
	st.ReplaceGlobal(FixtureData())
	initial := len(st.Snapshot().Reviews())

	st.PutReview(domain.Review{
		ID: "review-1b", AgencyID: "agency-andes", ClientID: "client-marina",
		Rating: 3, Comment: "Revised opinion",
	})

	snap := st.Snapshot()
	if got := len(snap.Reviews()); got != initial {
		t.Fatalf("pair resubmission must replace, not append: %d -> %d", initial, got)
	}
	r, ok := snap.ReviewByPair("agency-andes", "client-marina")
	if !ok || r.Rating != 3 {
		t.Fatalf("replacement not applied: %+v", r)
	}

	st.PutReview(domain.Review{
		ID: "review-3", AgencyID: "agency-azure", ClientID: "client-marina", Rating: 4,
	})
	if got := len(st.Snapshot().Reviews()); got != initial+1 {
		t.Fatalf("new pair should append, got %d", got)
	}
}

func TestBroadcastsForRole(t *testing.T) {
	st := New()
	st.ReplaceGlobal(FixtureData())
	snap := st.Snapshot()

	client := snap.BroadcastsForRole(domain.RoleClient, nil)
	if len(client) != 1 || client[0].ID != "bcast-welcome" {
		t.Fatalf("client should see the untargeted message only: %+v", client)
	}
	agency := snap.BroadcastsForRole(domain.RoleAgency, nil)
	if len(agency) != 2 {
		t.Fatalf("agency should see both messages, got %d", len(agency))
	}
	dismissed := map[string]bool{"bcast-welcome": true}
	if got := snap.BroadcastsForRole(domain.RoleClient, dismissed); len(got) != 0 {
		t.Fatalf("dismissed message still listed: %+v", got)
	}
}

func TestActivityOrdering(t *testing.T) {
	st := New()
	st.ReplaceGlobal(FixtureData())

	acts := st.Snapshot().Activity()
	for i := 1; i < len(acts); i++ {
		if acts[i].CreatedAt.After(acts[i-1].CreatedAt) {
			t.Fatalf("activity not newest-first at %d", i)
		}
	}

	st.PrependActivity(domain.ActivityEntry{
		ID: "act-new", Action: "booking.created",
		CreatedAt: time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC),
	})
	if got := st.Snapshot().Activity()[0].ID; got != "act-new" {
		t.Fatalf("prepended entry not first: %s", got)
	}
}

func TestPatchMissingEntities(t *testing.T) {
	st := New()
	st.ReplaceGlobal(FixtureData())

	if st.PatchTrip("nope", func(tr domain.Trip) domain.Trip { return tr }) {
		t.Fatal("patching unknown trip reported success")
	}
	if st.PatchClient("nope", func(c domain.Client) domain.Client { return c }) {
		t.Fatal("patching unknown client reported success")
	}

	st.RemoveTrip("trip-island")
	if _, ok := st.Snapshot().TripByID("trip-island"); ok {
		t.Fatal("purged trip still resolvable")
	}
	st.RemoveTrip("trip-island") // second purge is a no-op
}

func TestAgencyByOwner(t *testing.T) {
	st := New()
	st.ReplaceGlobal(FixtureData())
	snap := st.Snapshot()

	a, ok := snap.AgencyByOwner("user-andes")
	if !ok || a.ID != "agency-andes" {
		t.Fatalf("owner lookup: %+v ok=%v", a, ok)
	}
	// The agency's own ID is not an owner ID.
	if _, ok := snap.AgencyByOwner("agency-andes"); ok {
		t.Fatal("agency id must not resolve as owner id")
	}
}
