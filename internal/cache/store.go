// Package cache holds the normalized in-memory view of all shared
// marketplace entities. A Store owns an immutable Snapshot that is
// swapped atomically on every write, so a reader that grabbed a
// snapshot never observes a half-updated state, and long-lived
// operations can re-read Store.Snapshot() at the moment of need.
package cache

import (
	"sort"
	"strings"
	"sync"
	"sync/atomic"

	"tripmarket/internal/adapters/observability"
	"tripmarket/internal/domain"
)

type Snapshot struct {
	trips      []domain.Trip
	agencies   []domain.Agency
	clients    []domain.Client
	bookings   []domain.Booking
	reviews    []domain.Review
	broadcasts []domain.BroadcastMessage
	activity   []domain.ActivityEntry
	settings   domain.PlatformSettings

	tripIdx    map[string]int
	agencyIdx  map[string]int
	clientIdx  map[string]int
	bookingIdx map[string]int
	reviewIdx  map[string]int
}

func newSnapshot() *Snapshot {
	return (&Snapshot{}).reindex()
}

func (s *Snapshot) reindex() *Snapshot {
	s.tripIdx = indexOf(s.trips, func(t domain.Trip) string { return t.ID })
	s.agencyIdx = indexOf(s.agencies, func(a domain.Agency) string { return a.ID })
	s.clientIdx = indexOf(s.clients, func(c domain.Client) string { return c.ID })
	s.bookingIdx = indexOf(s.bookings, func(b domain.Booking) string { return b.ID })
	s.reviewIdx = indexOf(s.reviews, func(r domain.Review) string { return r.ID })
	return s
}

func indexOf[T any](items []T, key func(T) string) map[string]int {
	m := make(map[string]int, len(items))
	for i, it := range items {
		m[key(it)] = i
	}
	return m
}

// ---- reads ----

func (s *Snapshot) TripByID(id string) (domain.Trip, bool) {
	i, ok := s.tripIdx[id]
	if !ok {
		return domain.Trip{}, false
	}
	return s.trips[i], true
}

// TripBySlug matches slugs only. A blank slug returns ErrNotFound rather
// than matching anything; a slug that happens to equal some trip's ID
// must not resolve either. Deliberate: missing-slug bugs surface instead
// of being masked.
func (s *Snapshot) TripBySlug(slug string) (domain.Trip, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return domain.Trip{}, domain.ErrNotFound
	}
	for _, t := range s.trips {
		if t.Slug == slug {
			return t, nil
		}
	}
	return domain.Trip{}, domain.ErrNotFound
}

func (s *Snapshot) AgencyByID(id string) (domain.Agency, bool) {
	i, ok := s.agencyIdx[id]
	if !ok {
		return domain.Agency{}, false
	}
	return s.agencies[i], true
}

func (s *Snapshot) AgencyBySlug(slug string) (domain.Agency, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return domain.Agency{}, domain.ErrNotFound
	}
	for _, a := range s.agencies {
		if a.Slug == slug {
			return a, nil
		}
	}
	return domain.Agency{}, domain.ErrNotFound
}

// AgencyByOwner resolves the agency belonging to a user account.
func (s *Snapshot) AgencyByOwner(userID string) (domain.Agency, bool) {
	for _, a := range s.agencies {
		if a.OwnerUserID == userID {
			return a, true
		}
	}
	return domain.Agency{}, false
}

func (s *Snapshot) ClientByID(id string) (domain.Client, bool) {
	i, ok := s.clientIdx[id]
	if !ok {
		return domain.Client{}, false
	}
	return s.clients[i], true
}

func (s *Snapshot) BookingByID(id string) (domain.Booking, bool) {
	i, ok := s.bookingIdx[id]
	if !ok {
		return domain.Booking{}, false
	}
	return s.bookings[i], true
}

func (s *Snapshot) ReviewByID(id string) (domain.Review, bool) {
	i, ok := s.reviewIdx[id]
	if !ok {
		return domain.Review{}, false
	}
	return s.reviews[i], true
}

// ReviewByPair finds the at-most-one review for an (agency, client) pair.
func (s *Snapshot) ReviewByPair(agencyID, clientID string) (domain.Review, bool) {
	for _, r := range s.reviews {
		if r.AgencyID == agencyID && r.ClientID == clientID {
			return r, true
		}
	}
	return domain.Review{}, false
}

// Trips returns the full collection in stable load order, soft-deleted
// included. Callers must not mutate the returned slice.
func (s *Snapshot) Trips() []domain.Trip { return s.trips }

// PublicTrips is the default listing predicate: active and not
// soft-deleted, in stable load order.
func (s *Snapshot) PublicTrips() []domain.Trip {
	out := make([]domain.Trip, 0, len(s.trips))
	for _, t := range s.trips {
		if t.Public() {
			out = append(out, t)
		}
	}
	return out
}

func (s *Snapshot) TripsByAgency(agencyID string) []domain.Trip {
	var out []domain.Trip
	for _, t := range s.trips {
		if t.AgencyID == agencyID && !t.Deleted {
			out = append(out, t)
		}
	}
	return out
}

func (s *Snapshot) Agencies() []domain.Agency { return s.agencies }

func (s *Snapshot) PublicAgencies() []domain.Agency {
	out := make([]domain.Agency, 0, len(s.agencies))
	for _, a := range s.agencies {
		if a.Public() {
			out = append(out, a)
		}
	}
	return out
}

func (s *Snapshot) Clients() []domain.Client   { return s.clients }
func (s *Snapshot) Bookings() []domain.Booking { return s.bookings }

func (s *Snapshot) ReviewsByAgency(agencyID string) []domain.Review {
	var out []domain.Review
	for _, r := range s.reviews {
		if r.AgencyID == agencyID {
			out = append(out, r)
		}
	}
	return out
}

func (s *Snapshot) Reviews() []domain.Review { return s.reviews }

// BroadcastsForRole lists messages targeting the role, excluding those
// the user deleted for themselves.
func (s *Snapshot) BroadcastsForRole(role domain.Role, dismissed map[string]bool) []domain.BroadcastMessage {
	var out []domain.BroadcastMessage
	for _, m := range s.broadcasts {
		if !m.TargetsRole(role) {
			continue
		}
		if dismissed[m.ID] {
			continue
		}
		out = append(out, m)
	}
	return out
}

// Activity is ordered by creation time descending.
func (s *Snapshot) Activity() []domain.ActivityEntry { return s.activity }

func (s *Snapshot) Settings() domain.PlatformSettings { return s.settings }

// ---- store ----

// Store serializes writers behind a mutex and publishes snapshots
// through an atomic pointer. Only the loader, the mutation engine and
// the session fetcher write; everything else reads.
type Store struct {
	mu   sync.Mutex
	snap atomic.Pointer[Snapshot]
}

func New() *Store {
	st := &Store{}
	st.snap.Store(newSnapshot())
	return st
}

// Snapshot returns the latest published snapshot. Safe to call from any
// goroutine, including inside long-running operations that started
// before a reload.
func (st *Store) Snapshot() *Snapshot { return st.snap.Load() }

func (st *Store) publish(s *Snapshot) {
	st.snap.Store(s.reindex())
}

// GlobalData is one full-reload payload, applied as a single swap.
type GlobalData struct {
	Trips      []domain.Trip
	Agencies   []domain.Agency
	Clients    []domain.Client
	Reviews    []domain.Review
	Broadcasts []domain.BroadcastMessage
	Activity   []domain.ActivityEntry
	Settings   domain.PlatformSettings
}

// ReplaceGlobal swaps every global collection at once. Session-scoped
// bookings are carried over unchanged; they have their own lifecycle.
func (st *Store) ReplaceGlobal(g GlobalData) {
	st.mu.Lock()
	defer st.mu.Unlock()
	cur := st.snap.Load()
	next := &Snapshot{
		trips:      g.Trips,
		agencies:   g.Agencies,
		clients:    g.Clients,
		bookings:   cur.bookings,
		reviews:    g.Reviews,
		broadcasts: g.Broadcasts,
		activity:   g.Activity,
		settings:   g.Settings,
	}
	sort.SliceStable(next.activity, func(i, j int) bool {
		return next.activity[i].CreatedAt.After(next.activity[j].CreatedAt)
	})
	st.publish(next)
	observability.ObserveCache("store", "swap")
}

// ReplaceBookings swaps the session-scoped collection only.
func (st *Store) ReplaceBookings(bs []domain.Booking) {
	st.mu.Lock()
	defer st.mu.Unlock()
	next := st.clone()
	next.bookings = bs
	st.publish(next)
	observability.ObserveCache("store", "swap")
}

func (st *Store) ClearBookings() { st.ReplaceBookings(nil) }

// clone copies the snapshot struct; collection slices are shared until a
// writer replaces one wholesale (copy-on-write per collection).
func (st *Store) clone() *Snapshot {
	cur := st.snap.Load()
	cp := *cur
	return &cp
}

// PatchTrip applies fn to one trip and republishes. Reports whether the
// trip existed.
func (st *Store) PatchTrip(id string, fn func(domain.Trip) domain.Trip) bool {
	st.mu.Lock()
	defer st.mu.Unlock()
	next := st.clone()
	i, ok := next.tripIdx[id]
	if !ok {
		return false
	}
	trips := append([]domain.Trip(nil), next.trips...)
	trips[i] = fn(trips[i])
	next.trips = trips
	st.publish(next)
	observability.ObserveCache("store", "patch")
	return true
}

// PutTrip inserts or replaces a single trip.
func (st *Store) PutTrip(t domain.Trip) {
	st.mu.Lock()
	defer st.mu.Unlock()
	next := st.clone()
	trips := append([]domain.Trip(nil), next.trips...)
	if i, ok := next.tripIdx[t.ID]; ok {
		trips[i] = t
	} else {
		trips = append(trips, t)
	}
	next.trips = trips
	st.publish(next)
	observability.ObserveCache("store", "patch")
}

// RemoveTrip drops a trip outright (hard purge; soft deletes go through
// PatchTrip with the tombstone flag).
func (st *Store) RemoveTrip(id string) {
	st.mu.Lock()
	defer st.mu.Unlock()
	next := st.clone()
	i, ok := next.tripIdx[id]
	if !ok {
		return
	}
	trips := append([]domain.Trip(nil), next.trips[:i]...)
	trips = append(trips, next.trips[i+1:]...)
	next.trips = trips
	st.publish(next)
	observability.ObserveCache("store", "patch")
}

func (st *Store) PatchClient(id string, fn func(domain.Client) domain.Client) bool {
	st.mu.Lock()
	defer st.mu.Unlock()
	next := st.clone()
	i, ok := next.clientIdx[id]
	if !ok {
		return false
	}
	clients := append([]domain.Client(nil), next.clients...)
	clients[i] = fn(clients[i])
	next.clients = clients
	st.publish(next)
	observability.ObserveCache("store", "patch")
	return true
}

func (st *Store) PatchAgency(id string, fn func(domain.Agency) domain.Agency) bool {
	st.mu.Lock()
	defer st.mu.Unlock()
	next := st.clone()
	i, ok := next.agencyIdx[id]
	if !ok {
		return false
	}
	agencies := append([]domain.Agency(nil), next.agencies...)
	agencies[i] = fn(agencies[i])
	next.agencies = agencies
	st.publish(next)
	observability.ObserveCache("store", "patch")
	return true
}

// PutReview upserts by the (agency, client) pair, mirroring the remote
// conflict key, so a resubmission replaces the existing row in place.
func (st *Store) PutReview(r domain.Review) {
	st.mu.Lock()
	defer st.mu.Unlock()
	next := st.clone()
	reviews := append([]domain.Review(nil), next.reviews...)
	replaced := false
	for i := range reviews {
		if reviews[i].AgencyID == r.AgencyID && reviews[i].ClientID == r.ClientID {
			reviews[i] = r
			replaced = true
			break
		}
	}
	if !replaced {
		reviews = append(reviews, r)
	}
	next.reviews = reviews
	st.publish(next)
	observability.ObserveCache("store", "patch")
}

func (st *Store) PatchReview(id string, fn func(domain.Review) domain.Review) bool {
	st.mu.Lock()
	defer st.mu.Unlock()
	next := st.clone()
	i, ok := next.reviewIdx[id]
	if !ok {
		return false
	}
	reviews := append([]domain.Review(nil), next.reviews...)
	reviews[i] = fn(reviews[i])
	next.reviews = reviews
	st.publish(next)
	observability.ObserveCache("store", "patch")
	return true
}

func (st *Store) PutBooking(b domain.Booking) {
	st.mu.Lock()
	defer st.mu.Unlock()
	next := st.clone()
	bookings := append([]domain.Booking(nil), next.bookings...)
	if i, ok := next.bookingIdx[b.ID]; ok {
		bookings[i] = b
	} else {
		bookings = append(bookings, b)
	}
	next.bookings = bookings
	st.publish(next)
	observability.ObserveCache("store", "patch")
}

func (st *Store) PatchBooking(id string, fn func(domain.Booking) domain.Booking) bool {
	st.mu.Lock()
	defer st.mu.Unlock()
	next := st.clone()
	i, ok := next.bookingIdx[id]
	if !ok {
		return false
	}
	bookings := append([]domain.Booking(nil), next.bookings...)
	bookings[i] = fn(bookings[i])
	next.bookings = bookings
	st.publish(next)
	observability.ObserveCache("store", "patch")
	return true
}

// PrependActivity keeps the newest-first ordering without a resort.
func (st *Store) PrependActivity(e domain.ActivityEntry) {
	st.mu.Lock()
	defer st.mu.Unlock()
	next := st.clone()
	activity := make([]domain.ActivityEntry, 0, len(next.activity)+1)
	activity = append(activity, e)
	activity = append(activity, next.activity...)
	next.activity = activity
	st.publish(next)
	observability.ObserveCache("store", "patch")
}
