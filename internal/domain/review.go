package domain

import "time"

// Review is agency-scoped: at most one per (agency, client) pair,
// enforced by upsert rather than by unique-constraint error handling.
type Review struct {
	ID        string
	AgencyID  string
	ClientID  string
	BookingID *string
	TripID    *string
	Rating    int // 1..5
	Comment   string
	Tags      []string
	Response  *string // agency reply, optional
	CreatedAt time.Time
}

func (r Review) Validate() error {
	if r.AgencyID == "" || r.ClientID == "" {
		return ErrInvalidPatch
	}
	if r.Rating < 1 || r.Rating > 5 {
		return ErrInvalidPatch
	}
	return nil
}
