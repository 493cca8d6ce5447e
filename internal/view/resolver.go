// Package view computes read-time joins over the cache snapshot.
// Records keep foreign IDs only; names, avatars and titles are resolved
// on every read, so a rename shows up everywhere immediately. O(1)-ish
// lookups per field on a bounded in-memory dataset.
package view

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"tripmarket/internal/cache"
	"tripmarket/internal/domain"
)

// Fallbacks for references that no longer resolve (e.g. a client
// soft-deleted after writing a review).
const (
	FallbackClientName = "Traveler"
	FallbackAgencyName = "Agency"
	FallbackTripTitle  = "Trip unavailable"
)

type ReviewView struct {
	domain.Review
	ClientName   string
	ClientAvatar string
	AgencyName   string
	AgencyLogo   string
	TripTitle    string
}

func Review(snap *cache.Snapshot, r domain.Review) ReviewView {
	v := ReviewView{
		Review:     r,
		ClientName: FallbackClientName,
		AgencyName: FallbackAgencyName,
	}
	if c, ok := snap.ClientByID(r.ClientID); ok {
		v.ClientName = c.Name
		v.ClientAvatar = c.AvatarURL
	}
	if a, ok := snap.AgencyByID(r.AgencyID); ok {
		v.AgencyName = a.Name
		v.AgencyLogo = a.LogoURL
	}
	if r.TripID != nil {
		if t, ok := snap.TripByID(*r.TripID); ok {
			v.TripTitle = t.Title
		} else {
			v.TripTitle = FallbackTripTitle
		}
	}
	return v
}

func Reviews(snap *cache.Snapshot, rs []domain.Review) []ReviewView {
	out := make([]ReviewView, len(rs))
	for i, r := range rs {
		out[i] = Review(snap, r)
	}
	return out
}

// BookingView augments a booking with resolved snapshots. Unresolvable
// references are left nil, never fabricated.
type BookingView struct {
	domain.Booking
	Trip       *domain.Trip
	Agency     *domain.Agency
	Client     *domain.Client
	TripTitle  string
	AgencyName string
	ClientName string
}

func Booking(snap *cache.Snapshot, b domain.Booking) BookingView {
	v := BookingView{
		Booking:    b,
		TripTitle:  FallbackTripTitle,
		AgencyName: FallbackAgencyName,
		ClientName: FallbackClientName,
	}
	if t, ok := snap.TripByID(b.TripID); ok {
		tt := t
		v.Trip = &tt
		v.TripTitle = t.Title
		if a, ok := snap.AgencyByID(t.AgencyID); ok {
			aa := a
			v.Agency = &aa
			v.AgencyName = a.Name
		}
	}
	if c, ok := snap.ClientByID(b.ClientID); ok {
		cc := c
		v.Client = &cc
		v.ClientName = c.Name
	}
	return v
}

func Bookings(snap *cache.Snapshot, bs []domain.Booking) []BookingView {
	out := make([]BookingView, len(bs))
	for i, b := range bs {
		out[i] = Booking(snap, b)
	}
	return out
}

// VoucherGraph is the fully resolved object graph the document renderer
// consumes.
type VoucherGraph struct {
	Booking    BookingView
	Passengers []domain.Passenger
}

// Resolver assembles voucher graphs, including the lazy passenger
// sub-record fetch. It reads the latest snapshot at call time.
type Resolver struct {
	gw    domain.Gateway
	store *cache.Store
	log   zerolog.Logger
}

func NewResolver(gw domain.Gateway, store *cache.Store, log zerolog.Logger) *Resolver {
	return &Resolver{gw: gw, store: store, log: log.With().Str("component", "resolver").Logger()}
}

// Interactions returns the user's per-message broadcast flags keyed by
// message ID.
func (r *Resolver) Interactions(ctx context.Context, userID string) (map[string]domain.BroadcastInteraction, error) {
	list, err := r.gw.Interactions(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("interactions for %s: %w", userID, err)
	}
	out := make(map[string]domain.BroadcastInteraction, len(list))
	for _, i := range list {
		out[i.MessageID] = i
	}
	return out, nil
}

// Voucher resolves booking + trip + agency + passengers. A failed
// passenger fetch degrades to the embedded list rather than failing the
// whole read.
func (r *Resolver) Voucher(ctx context.Context, bookingID string) (VoucherGraph, error) {
	snap := r.store.Snapshot()
	b, ok := snap.BookingByID(bookingID)
	if !ok {
		return VoucherGraph{}, fmt.Errorf("voucher: booking %s: %w", bookingID, domain.ErrNotFound)
	}

	passengers := b.Passengers
	if fetched, err := r.gw.BookingPassengers(ctx, bookingID); err != nil {
		r.log.Warn().Str("booking", bookingID).Err(err).Msg("passenger fetch failed, using embedded list")
	} else if len(fetched) > 0 {
		passengers = fetched
	}

	// Re-read: the passenger fetch may have straddled a reload.
	return VoucherGraph{
		Booking:    Booking(r.store.Snapshot(), b),
		Passengers: passengers,
	}, nil
}
