package view

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"tripmarket/internal/cache"
	"tripmarket/internal/domain"
	"tripmarket/internal/storage/unconfigured"
)

type passengerGateway struct {
	unconfigured.Gateway
	passengers []domain.Passenger
	fail       bool
}

func (g *passengerGateway) BookingPassengers(context.Context, string) ([]domain.Passenger, error) {
	if g.fail {
		return nil, errors.New("backend down")
	}
	return g.passengers, nil
}

func seededStore() *cache.Store {
	st := cache.New()
	st.ReplaceGlobal(cache.FixtureData())
	return st
}

func TestReviewView_ResolvesNames(t *testing.T) {
	snap := seededStore().Snapshot()
	r, _ := snap.ReviewByPair("agency-andes", "client-marina")

	v := Review(snap, r)
	if v.ClientName != "Marina Lopes" {
		t.Fatalf("client name %q", v.ClientName)
	}
	if v.AgencyName != "Andes Trails" {
		t.Fatalf("agency name %q", v.AgencyName)
	}
	if v.TripTitle != "Machu Picchu Explorer" {
		t.Fatalf("trip title %q", v.TripTitle)
	}
}

func TestReviewView_FallbacksForDanglingRefs(t *testing.T) {
	snap := seededStore().Snapshot()
	gone := "trip-gone"
	v := Review(snap, domain.Review{
		AgencyID: "agency-gone", ClientID: "client-gone", TripID: &gone, Rating: 3,
	})
	if v.ClientName != FallbackClientName {
		t.Fatalf("client fallback %q", v.ClientName)
	}
	if v.AgencyName != FallbackAgencyName {
		t.Fatalf("agency fallback %q", v.AgencyName)
	}
	if v.TripTitle != FallbackTripTitle {
		t.Fatalf("trip fallback %q", v.TripTitle)
	}
}

func TestReviewView_NoTripRefMeansNoTitle(t *testing.T) {
	snap := seededStore().Snapshot()
	v := Review(snap, domain.Review{AgencyID: "agency-andes", ClientID: "client-marina", Rating: 4})
	if v.TripTitle != "" {
		t.Fatalf("absent trip ref should yield empty title, got %q", v.TripTitle)
	}
}

func TestBookingView_NilForUnresolvable(t *testing.T) {
	snap := seededStore().Snapshot()
	v := Booking(snap, domain.Booking{ID: "bk-x", TripID: "ghost", ClientID: "client-marina"})
	if v.Trip != nil || v.Agency != nil {
		t.Fatal("unresolvable refs must stay nil, never fabricated")
	}
	if v.TripTitle != FallbackTripTitle {
		t.Fatalf("trip title fallback %q", v.TripTitle)
	}
	if v.Client == nil || v.ClientName != "Marina Lopes" {
		t.Fatalf("resolvable client not resolved: %+v", v.Client)
	}
}

func TestVoucher_LazyPassengerFetch(t *testing.T) {
	store := seededStore()
	store.PutBooking(domain.Booking{
		ID: "bk-1", TripID: "trip-machu", ClientID: "client-marina",
		VoucherCode: "TM-ABCD1234", Seats: 2,
	})
	gw := &passengerGateway{passengers: []domain.Passenger{
		{Name: "Marina Lopes", Document: "M-1", Age: 34},
		{Name: "Irmã Lopes", Document: "M-2", Age: 30},
	}}
	res := NewResolver(gw, store, zerolog.Nop())

	g, err := res.Voucher(context.Background(), "bk-1")
	if err != nil {
		t.Fatalf("Voucher: %v", err)
	}
	if len(g.Passengers) != 2 {
		t.Fatalf("passengers %d, want 2", len(g.Passengers))
	}
	if g.Booking.TripTitle != "Machu Picchu Explorer" || g.Booking.AgencyName != "Andes Trails" {
		t.Fatalf("graph not resolved: %+v", g.Booking)
	}
}

func TestVoucher_PassengerFetchFailureDegrades(t *testing.T) {
	store := seededStore()
	store.PutBooking(domain.Booking{
		ID: "bk-1", TripID: "trip-machu", ClientID: "client-marina",
		Passengers: []domain.Passenger{{Name: "Embedded Only"}},
	})
	res := NewResolver(&passengerGateway{fail: true}, store, zerolog.Nop())

	g, err := res.Voucher(context.Background(), "bk-1")
	if err != nil {
		t.Fatalf("fetch failure must not fail the voucher: %v", err)
	}
	if len(g.Passengers) != 1 || g.Passengers[0].Name != "Embedded Only" {
		t.Fatalf("embedded fallback not used: %+v", g.Passengers)
	}
}

func TestVoucher_UnknownBooking(t *testing.T) {
	res := NewResolver(&passengerGateway{}, seededStore(), zerolog.Nop())
	if _, err := res.Voucher(context.Background(), "ghost"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}
