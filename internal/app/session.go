package app

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"tripmarket/internal/cache"
	"tripmarket/internal/domain"
)

// SessionFetcher loads the cache subset that depends on the signed-in
// identity (bookings). Global trips/agencies load first (phase 1); the
// fetcher reads the latest snapshot at call time, so being invoked
// before phase 1 finishes only means ownership resolves against
// whatever has landed so far and self-corrects on the next reload.
//
// Fetches carry a generation number; a fetch whose generation was
// superseded by a later identity transition discards its result instead
// of writing stale rows into the cache.
type SessionFetcher struct {
	gw    domain.Gateway
	store *cache.Store
	log   zerolog.Logger

	mu         sync.Mutex
	lastUserID string
	gen        uint64
}

func NewSessionFetcher(gw domain.Gateway, store *cache.Store, log zerolog.Logger) *SessionFetcher {
	return &SessionFetcher{gw: gw, store: store, log: log.With().Str("component", "session").Logger()}
}

// Run consumes identity transitions until the channel closes or the
// context ends. Each transition is handled on its own goroutine so a
// slow scoped fetch never blocks the next transition.
func (f *SessionFetcher) Run(ctx context.Context, changes <-chan *domain.Identity) {
	for {
		select {
		case id, ok := <-changes:
			if !ok {
				return
			}
			go f.OnIdentity(ctx, id)
		case <-ctx.Done():
			return
		}
	}
}

// OnIdentity applies one identity transition:
// none -> A loads A's scoped data; A -> none clears it; A -> B loads B's;
// A -> A is a no-op (e.g. window refocus re-emitting the same identity).
func (f *SessionFetcher) OnIdentity(ctx context.Context, id *domain.Identity) {
	f.mu.Lock()
	if id == nil {
		f.lastUserID = ""
		f.gen++
		f.mu.Unlock()
		f.store.ClearBookings()
		f.log.Info().Msg("session cleared")
		return
	}
	if id.UserID == f.lastUserID {
		f.mu.Unlock()
		return
	}
	f.lastUserID = id.UserID
	f.gen++
	gen := f.gen
	f.mu.Unlock()

	bookings, err := f.fetch(ctx, *id)
	if err != nil {
		f.log.Warn().Str("user", id.UserID).Err(err).Msg("scoped fetch failed")
		return
	}

	f.mu.Lock()
	stale := gen != f.gen
	f.mu.Unlock()
	if stale {
		f.log.Debug().Str("user", id.UserID).Msg("scoped fetch superseded, discarding")
		return
	}
	f.store.ReplaceBookings(bookings)
	f.log.Info().Str("user", id.UserID).Int("bookings", len(bookings)).Msg("session loaded")
}

func (f *SessionFetcher) fetch(ctx context.Context, id domain.Identity) ([]domain.Booking, error) {
	switch id.Role {
	case domain.RoleAgency:
		// Agency bookings are computed by intersecting the agency's trip
		// ownership with the booking table. Snapshot read happens here,
		// at call time, never at schedule time.
		snap := f.store.Snapshot()
		agency, ok := snap.AgencyByOwner(id.UserID)
		if !ok {
			return nil, nil
		}
		trips := snap.TripsByAgency(agency.ID)
		ids := make([]string, 0, len(trips))
		for _, t := range trips {
			ids = append(ids, t.ID)
		}
		if len(ids) == 0 {
			return nil, nil
		}
		return f.gw.BookingsByTrips(ctx, ids)
	case domain.RoleAdmin:
		// Admins see everything; reuse the trip-scoped query unbounded.
		snap := f.store.Snapshot()
		ids := make([]string, 0, len(snap.Trips()))
		for _, t := range snap.Trips() {
			ids = append(ids, t.ID)
		}
		if len(ids) == 0 {
			return nil, nil
		}
		return f.gw.BookingsByTrips(ctx, ids)
	default:
		return f.gw.BookingsByClient(ctx, id.UserID)
	}
}
