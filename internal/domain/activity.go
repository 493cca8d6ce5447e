package domain

import "time"

// ActivityEntry is append-only and immutable once written. Listings are
// ordered by CreatedAt descending.
type ActivityEntry struct {
	ID        string
	ActorID   string
	Action    string // e.g. "booking.created", "review.submitted"
	EntityID  string
	Detail    string
	CreatedAt time.Time
}
