package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"tripmarket/internal/adapters/observability"
	"tripmarket/internal/cache"
	"tripmarket/internal/domain"
)

// Mutator is the only write path into the cache besides the loader and
// the session fetcher. Toggle mutations (favorites, broadcast flags) are
// optimistic: cache first, remote second, inverse toggle on failure.
// Everything with remote-side effects (slug generation, uniqueness,
// counters) writes remote-first and patches the cache on success only.
type Mutator struct {
	gw       domain.Gateway
	store    *cache.Store
	notifier domain.Notifier
	kv       domain.KVStore
	budget   time.Duration // per-write deadline; remote may still finish late (picked up by next reload)
	log      zerolog.Logger
}

func NewMutator(gw domain.Gateway, store *cache.Store, notifier domain.Notifier, kv domain.KVStore, budget time.Duration, log zerolog.Logger) *Mutator {
	if budget <= 0 {
		budget = 15 * time.Second
	}
	return &Mutator{
		gw: gw, store: store, notifier: notifier, kv: kv, budget: budget,
		log: log.With().Str("component", "mutator").Logger(),
	}
}

func (m *Mutator) withBudget(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, m.budget)
}

// ---- optimistic toggle ----

// ToggleFavorite flips tripID in the client's favorite set. The local
// flip lands synchronously and the user is notified right away; a remote
// failure applies the inverse flip, restoring the exact prior state.
func (m *Mutator) ToggleFavorite(ctx context.Context, clientID, tripID string) error {
	snap := m.store.Snapshot()
	cl, ok := snap.ClientByID(clientID)
	if !ok {
		return fmt.Errorf("toggle favorite: client %s: %w", clientID, domain.ErrNotFound)
	}
	nowFavorite := !cl.IsFavorite(tripID)

	flip := func(c domain.Client) domain.Client {
		c.Favorites = domain.ToggleFavorite(c.Favorites, tripID)
		return c
	}
	m.store.PatchClient(clientID, flip)
	if nowFavorite {
		m.notifier.Notify("Added to favorites", domain.SeveritySuccess)
	} else {
		m.notifier.Notify("Removed from favorites", domain.SeveritySuccess)
	}

	wctx, cancel := m.withBudget(ctx)
	defer cancel()
	if err := m.gw.SetFavorite(wctx, clientID, tripID, nowFavorite); err != nil {
		m.store.PatchClient(clientID, flip) // inverse of a toggle is the toggle
		m.notifier.Notify("Could not update favorites", domain.SeverityError)
		observability.ObserveMutation("favorite.toggle", "rollback")
		return fmt.Errorf("toggle favorite: %w", err)
	}
	observability.ObserveMutation("favorite.toggle", "ok")
	return nil
}

// ---- trips ----

func (m *Mutator) CreateTrip(ctx context.Context, t domain.Trip) (domain.Trip, error) {
	if strings.TrimSpace(t.Title) == "" || t.AgencyID == "" {
		return domain.Trip{}, domain.ErrInvalidPatch
	}
	wctx, cancel := m.withBudget(ctx)
	defer cancel()

	slug, err := uniqueSlug(wctx, m.gw, domain.TableTrips, t.Title)
	if err != nil {
		m.notifier.Notify("Could not create trip", domain.SeverityError)
		observability.ObserveMutation("trip.create", "error")
		return domain.Trip{}, fmt.Errorf("create trip slug: %w", err)
	}
	t.ID = uuid.NewString()
	t.Slug = slug
	t.CreatedAt = time.Now().UTC()

	if err := m.gw.InsertTrip(wctx, t); err != nil {
		m.notifier.Notify("Could not create trip", domain.SeverityError)
		observability.ObserveMutation("trip.create", "error")
		return domain.Trip{}, fmt.Errorf("create trip: %w", err)
	}
	m.store.PutTrip(t)
	m.notifier.Notify("Trip created", domain.SeveritySuccess)
	observability.ObserveMutation("trip.create", "ok")
	return t, nil
}

func (m *Mutator) UpdateTrip(ctx context.Context, id string, p domain.TripPatch) error {
	if err := p.Validate(); err != nil {
		return err
	}
	wctx, cancel := m.withBudget(ctx)
	defer cancel()
	if err := m.gw.UpdateTrip(wctx, id, p); err != nil {
		m.notifier.Notify("Could not save trip", domain.SeverityError)
		observability.ObserveMutation("trip.update", "error")
		return fmt.Errorf("update trip %s: %w", id, err)
	}
	m.store.PatchTrip(id, p.Apply) // scoped patch, no full reload flicker
	m.notifier.Notify("Trip saved", domain.SeveritySuccess)
	observability.ObserveMutation("trip.update", "ok")
	return nil
}

// UploadTripImage pushes the image to object storage and appends the
// resulting URL to the trip's gallery.
func (m *Mutator) UploadTripImage(ctx context.Context, tripID, name string, data []byte) (string, error) {
	if _, ok := m.store.Snapshot().TripByID(tripID); !ok {
		return "", fmt.Errorf("upload image: trip %s: %w", tripID, domain.ErrNotFound)
	}
	wctx, cancel := m.withBudget(ctx)
	defer cancel()
	url, err := m.gw.Upload(wctx, name, data)
	if err != nil {
		m.notifier.Notify("Could not upload image", domain.SeverityError)
		observability.ObserveMutation("trip.image", "error")
		return "", fmt.Errorf("upload image: %w", err)
	}
	m.store.PatchTrip(tripID, func(t domain.Trip) domain.Trip {
		t.Images = append(append([]string(nil), t.Images...), url)
		t.ImagesLoaded = true
		return t
	})
	m.notifier.Notify("Image uploaded", domain.SeveritySuccess)
	observability.ObserveMutation("trip.image", "ok")
	return url, nil
}

// DeleteTrip tombstones the trip; it drops out of public listings but
// stays retrievable.
func (m *Mutator) DeleteTrip(ctx context.Context, id string) error {
	deleted := true
	return m.UpdateTrip(ctx, id, domain.TripPatch{Deleted: &deleted})
}

// PurgeTrip removes the row for good.
func (m *Mutator) PurgeTrip(ctx context.Context, id string) error {
	wctx, cancel := m.withBudget(ctx)
	defer cancel()
	if err := m.gw.PurgeTrip(wctx, id); err != nil {
		m.notifier.Notify("Could not delete trip", domain.SeverityError)
		observability.ObserveMutation("trip.purge", "error")
		return fmt.Errorf("purge trip %s: %w", id, err)
	}
	m.store.RemoveTrip(id)
	m.notifier.Notify("Trip deleted", domain.SeveritySuccess)
	observability.ObserveMutation("trip.purge", "ok")
	return nil
}

// RecordTripView bumps the remote view counter and mirrors it locally.
// Fire-and-forget: failures are logged, never surfaced.
func (m *Mutator) RecordTripView(ctx context.Context, tripID string) {
	wctx, cancel := m.withBudget(ctx)
	defer cancel()
	if err := m.gw.IncrementTripViews(wctx, tripID); err != nil {
		m.log.Warn().Str("trip", tripID).Err(err).Msg("view increment failed")
		return
	}
	m.store.PatchTrip(tripID, func(t domain.Trip) domain.Trip {
		t.Views++
		return t
	})
}

// ---- profiles ----

func (m *Mutator) UpdateAgency(ctx context.Context, id string, p domain.AgencyPatch) error {
	if err := p.Validate(); err != nil {
		return err
	}
	wctx, cancel := m.withBudget(ctx)
	defer cancel()
	if err := m.gw.UpdateAgency(wctx, id, p); err != nil {
		m.notifier.Notify("Could not save agency profile", domain.SeverityError)
		observability.ObserveMutation("agency.update", "error")
		return fmt.Errorf("update agency %s: %w", id, err)
	}
	m.store.PatchAgency(id, p.Apply)
	m.notifier.Notify("Agency profile saved", domain.SeveritySuccess)
	observability.ObserveMutation("agency.update", "ok")
	return nil
}

func (m *Mutator) UpdateClient(ctx context.Context, id string, p domain.ClientPatch) error {
	if err := p.Validate(); err != nil {
		return err
	}
	wctx, cancel := m.withBudget(ctx)
	defer cancel()
	if err := m.gw.UpdateClient(wctx, id, p); err != nil {
		m.notifier.Notify("Could not save profile", domain.SeverityError)
		observability.ObserveMutation("client.update", "error")
		return fmt.Errorf("update client %s: %w", id, err)
	}
	m.store.PatchClient(id, p.Apply)
	m.notifier.Notify("Profile saved", domain.SeveritySuccess)
	observability.ObserveMutation("client.update", "ok")
	return nil
}

// ---- reviews ----

// SubmitReview upserts the caller's review for an agency: an existing
// (agency, client) row is replaced with the new content, keeping its
// identity, so the pair never holds two records.
func (m *Mutator) SubmitReview(ctx context.Context, r domain.Review) (domain.Review, error) {
	if err := r.Validate(); err != nil {
		return domain.Review{}, err
	}
	if prev, ok := m.store.Snapshot().ReviewByPair(r.AgencyID, r.ClientID); ok {
		r.ID = prev.ID
		r.CreatedAt = prev.CreatedAt
	} else {
		r.ID = uuid.NewString()
		r.CreatedAt = time.Now().UTC()
	}

	wctx, cancel := m.withBudget(ctx)
	defer cancel()
	if err := m.gw.UpsertReview(wctx, r); err != nil {
		m.notifier.Notify("Could not submit review", domain.SeverityError)
		observability.ObserveMutation("review.submit", "error")
		return domain.Review{}, fmt.Errorf("submit review: %w", err)
	}
	m.store.PutReview(r)
	m.notifier.Notify("Review submitted", domain.SeveritySuccess)
	observability.ObserveMutation("review.submit", "ok")

	m.appendActivity(ctx, r.ClientID, "review.submitted", r.ID, "")
	return r, nil
}

func (m *Mutator) RespondReview(ctx context.Context, reviewID, response string) error {
	wctx, cancel := m.withBudget(ctx)
	defer cancel()
	if err := m.gw.RespondReview(wctx, reviewID, response); err != nil {
		m.notifier.Notify("Could not publish response", domain.SeverityError)
		observability.ObserveMutation("review.respond", "error")
		return fmt.Errorf("respond review %s: %w", reviewID, err)
	}
	m.store.PatchReview(reviewID, func(r domain.Review) domain.Review {
		r.Response = &response
		return r
	})
	m.notifier.Notify("Response published", domain.SeveritySuccess)
	observability.ObserveMutation("review.respond", "ok")
	return nil
}

// ---- bookings ----

// CreateBooking writes the booking, bumps the trip's sales counter and
// appends an activity record. Counter and activity are best-effort; the
// booking itself is the primary action.
func (m *Mutator) CreateBooking(ctx context.Context, b domain.Booking) (domain.Booking, error) {
	snap := m.store.Snapshot()
	if _, ok := snap.TripByID(b.TripID); !ok {
		return domain.Booking{}, fmt.Errorf("create booking: trip %s: %w", b.TripID, domain.ErrNotFound)
	}
	if b.Seats <= 0 {
		return domain.Booking{}, domain.ErrInvalidPatch
	}
	b.ID = uuid.NewString()
	b.VoucherCode = voucherCode()
	b.Status = domain.BookingPending
	b.CreatedAt = time.Now().UTC()

	wctx, cancel := m.withBudget(ctx)
	defer cancel()
	if err := m.gw.InsertBooking(wctx, b); err != nil {
		m.notifier.Notify("Could not complete booking", domain.SeverityError)
		observability.ObserveMutation("booking.create", "error")
		return domain.Booking{}, fmt.Errorf("create booking: %w", err)
	}
	m.store.PutBooking(b)
	m.notifier.Notify("Booking confirmed! Voucher "+b.VoucherCode, domain.SeveritySuccess)
	observability.ObserveMutation("booking.create", "ok")

	if err := m.gw.IncrementTripSales(wctx, b.TripID, b.Seats); err != nil {
		m.log.Warn().Str("trip", b.TripID).Err(err).Msg("sales increment failed")
	} else {
		m.store.PatchTrip(b.TripID, func(t domain.Trip) domain.Trip {
			t.Sales += int64(b.Seats)
			return t
		})
	}
	m.appendActivity(ctx, b.ClientID, "booking.created", b.ID, fmt.Sprintf("%d seats", b.Seats))
	return b, nil
}

func (m *Mutator) UpdateBooking(ctx context.Context, id string, p domain.BookingPatch) error {
	if err := p.Validate(); err != nil {
		return err
	}
	wctx, cancel := m.withBudget(ctx)
	defer cancel()
	if err := m.gw.UpdateBooking(wctx, id, p); err != nil {
		m.notifier.Notify("Could not update booking", domain.SeverityError)
		observability.ObserveMutation("booking.update", "error")
		return fmt.Errorf("update booking %s: %w", id, err)
	}
	m.store.PatchBooking(id, p.Apply)
	m.notifier.Notify("Booking updated", domain.SeveritySuccess)
	observability.ObserveMutation("booking.update", "ok")
	return nil
}

// ---- broadcasts ----

// MarkBroadcast stores a per-user interaction flag as its own record;
// the message itself is never mutated. Dismissals are mirrored to the
// client-persisted KV store so they survive reloads.
func (m *Mutator) MarkBroadcast(ctx context.Context, userID, messageID string, change func(domain.BroadcastInteraction) domain.BroadcastInteraction) error {
	i := change(domain.BroadcastInteraction{MessageID: messageID, UserID: userID})
	i.UpdatedAt = time.Now().UTC()

	wctx, cancel := m.withBudget(ctx)
	defer cancel()
	if err := m.gw.UpsertInteraction(wctx, i); err != nil {
		observability.ObserveMutation("broadcast.mark", "error")
		m.notifier.Notify("Could not update message", domain.SeverityError)
		return fmt.Errorf("mark broadcast %s: %w", messageID, err)
	}
	if i.DeletedForMe && m.kv != nil {
		if err := m.kv.Add(wctx, userID, "dismissed_broadcasts", messageID); err != nil {
			m.log.Warn().Str("message", messageID).Err(err).Msg("kv dismissal write failed")
		}
	}
	observability.ObserveMutation("broadcast.mark", "ok")
	m.notifier.Notify("Message updated", domain.SeveritySuccess)
	return nil
}

// ---- helpers ----

// appendActivity is best-effort: a logging failure never fails the
// primary mutation.
func (m *Mutator) appendActivity(ctx context.Context, actorID, action, entityID, detail string) {
	e := domain.ActivityEntry{
		ID:        uuid.NewString(),
		ActorID:   actorID,
		Action:    action,
		EntityID:  entityID,
		Detail:    detail,
		CreatedAt: time.Now().UTC(),
	}
	wctx, cancel := m.withBudget(ctx)
	defer cancel()
	if err := m.gw.AppendActivity(wctx, e); err != nil {
		m.log.Warn().Str("action", action).Err(err).Msg("activity append failed")
		return
	}
	m.store.PrependActivity(e)
}

func voucherCode() string {
	return "TM-" + strings.ToUpper(uuid.NewString()[:8])
}
