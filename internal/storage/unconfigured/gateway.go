// Package unconfigured is the gateway used when no backing store is
// configured. Every call reports domain.ErrUnconfigured; the loader
// reacts by swapping in the fixture dataset so the app stays navigable.
package unconfigured

import (
	"context"

	"tripmarket/internal/domain"
)

type Gateway struct{}

func New() Gateway { return Gateway{} }

func (Gateway) Trips(context.Context) ([]domain.Trip, error)      { return nil, domain.ErrUnconfigured }
func (Gateway) Agencies(context.Context) ([]domain.Agency, error) { return nil, domain.ErrUnconfigured }
func (Gateway) Clients(context.Context) ([]domain.Client, error)  { return nil, domain.ErrUnconfigured }
func (Gateway) Reviews(context.Context) ([]domain.Review, error)  { return nil, domain.ErrUnconfigured }
func (Gateway) Broadcasts(context.Context) ([]domain.BroadcastMessage, error) {
	return nil, domain.ErrUnconfigured
}
func (Gateway) Activity(context.Context, int) ([]domain.ActivityEntry, error) {
	return nil, domain.ErrUnconfigured
}
func (Gateway) Settings(context.Context) (domain.PlatformSettings, error) {
	return domain.PlatformSettings{}, domain.ErrUnconfigured
}

func (Gateway) BookingsByClient(context.Context, string) ([]domain.Booking, error) {
	return nil, domain.ErrUnconfigured
}
func (Gateway) BookingsByTrips(context.Context, []string) ([]domain.Booking, error) {
	return nil, domain.ErrUnconfigured
}
func (Gateway) Interactions(context.Context, string) ([]domain.BroadcastInteraction, error) {
	return nil, domain.ErrUnconfigured
}

func (Gateway) TripImages(context.Context, string) ([]string, error) {
	return nil, domain.ErrUnconfigured
}
func (Gateway) BookingPassengers(context.Context, string) ([]domain.Passenger, error) {
	return nil, domain.ErrUnconfigured
}

func (Gateway) InsertTrip(context.Context, domain.Trip) error { return domain.ErrUnconfigured }
func (Gateway) UpdateTrip(context.Context, string, domain.TripPatch) error {
	return domain.ErrUnconfigured
}
func (Gateway) PurgeTrip(context.Context, string) error { return domain.ErrUnconfigured }
func (Gateway) UpdateAgency(context.Context, string, domain.AgencyPatch) error {
	return domain.ErrUnconfigured
}
func (Gateway) UpdateClient(context.Context, string, domain.ClientPatch) error {
	return domain.ErrUnconfigured
}
func (Gateway) InsertBooking(context.Context, domain.Booking) error { return domain.ErrUnconfigured }
func (Gateway) UpdateBooking(context.Context, string, domain.BookingPatch) error {
	return domain.ErrUnconfigured
}
func (Gateway) UpsertReview(context.Context, domain.Review) error { return domain.ErrUnconfigured }
func (Gateway) RespondReview(context.Context, string, string) error {
	return domain.ErrUnconfigured
}
func (Gateway) SetFavorite(context.Context, string, string, bool) error {
	return domain.ErrUnconfigured
}
func (Gateway) UpsertInteraction(context.Context, domain.BroadcastInteraction) error {
	return domain.ErrUnconfigured
}
func (Gateway) AppendActivity(context.Context, domain.ActivityEntry) error {
	return domain.ErrUnconfigured
}

func (Gateway) IncrementTripViews(context.Context, string) error { return domain.ErrUnconfigured }
func (Gateway) IncrementTripSales(context.Context, string, int) error {
	return domain.ErrUnconfigured
}

func (Gateway) SlugExists(context.Context, domain.Table, string) (bool, error) {
	return false, nil
}

func (Gateway) Upload(context.Context, string, []byte) (string, error) {
	return "", domain.ErrUnconfigured
}

// Feed is a change feed that never fires, for the same degraded mode.
type Feed struct{}

func (Feed) Subscribe(context.Context, domain.Table) (<-chan struct{}, error) {
	return make(chan struct{}), nil
}

func (Feed) Close() error { return nil }
