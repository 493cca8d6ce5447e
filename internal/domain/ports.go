package domain

import "context"

// Tables the remote store exposes change notifications for.
type Table string

const (
	TableTrips      Table = "trips"
	TableAgencies   Table = "agencies"
	TableClients    Table = "clients"
	TableBookings   Table = "bookings"
	TableReviews    Table = "reviews"
	TableBroadcasts Table = "broadcasts"
	TableSettings   Table = "settings"
)

// AllTables lists every table the refresh controller listens on.
var AllTables = []Table{
	TableTrips, TableAgencies, TableClients, TableBookings,
	TableReviews, TableBroadcasts, TableSettings,
}

// Gateway is the async CRUD + RPC boundary to the backing store. All
// calls suspend only at this boundary; cache reads never do.
type Gateway interface {
	// Bulk reads
	Trips(ctx context.Context) ([]Trip, error)
	Agencies(ctx context.Context) ([]Agency, error)
	Clients(ctx context.Context) ([]Client, error)
	Reviews(ctx context.Context) ([]Review, error)
	Broadcasts(ctx context.Context) ([]BroadcastMessage, error)
	Activity(ctx context.Context, limit int) ([]ActivityEntry, error)
	Settings(ctx context.Context) (PlatformSettings, error)

	// Scoped reads
	BookingsByClient(ctx context.Context, clientID string) ([]Booking, error)
	BookingsByTrips(ctx context.Context, tripIDs []string) ([]Booking, error)
	Interactions(ctx context.Context, userID string) ([]BroadcastInteraction, error)

	// Lazy secondary fetches
	TripImages(ctx context.Context, tripID string) ([]string, error)
	BookingPassengers(ctx context.Context, bookingID string) ([]Passenger, error)

	// Writes
	InsertTrip(ctx context.Context, t Trip) error
	UpdateTrip(ctx context.Context, id string, p TripPatch) error
	PurgeTrip(ctx context.Context, id string) error
	UpdateAgency(ctx context.Context, id string, p AgencyPatch) error
	UpdateClient(ctx context.Context, id string, p ClientPatch) error
	InsertBooking(ctx context.Context, b Booking) error
	UpdateBooking(ctx context.Context, id string, p BookingPatch) error
	// UpsertReview keys on (agency, client): existing pair is updated,
	// otherwise a row is inserted.
	UpsertReview(ctx context.Context, r Review) error
	RespondReview(ctx context.Context, reviewID, response string) error
	SetFavorite(ctx context.Context, clientID, tripID string, on bool) error
	UpsertInteraction(ctx context.Context, i BroadcastInteraction) error
	AppendActivity(ctx context.Context, e ActivityEntry) error

	// Named remote procedures (atomic counter increments)
	IncrementTripViews(ctx context.Context, tripID string) error
	IncrementTripSales(ctx context.Context, tripID string, n int) error

	// Uniqueness probe used by slug generation before insert.
	SlugExists(ctx context.Context, table Table, slug string) (bool, error)

	// Object storage
	Upload(ctx context.Context, name string, data []byte) (string, error)
}

// ChangeFeed yields a generic "something changed" signal per table (no
// diff). The refresh controller debounces it.
type ChangeFeed interface {
	Subscribe(ctx context.Context, table Table) (<-chan struct{}, error)
	Close() error
}

type Severity string

const (
	SeverityInfo    Severity = "info"
	SeveritySuccess Severity = "success"
	SeverityError   Severity = "error"
)

// Notifier surfaces outcomes to the user. Implementations must never
// fail or panic; mutation paths call it fire-and-forget.
type Notifier interface {
	Notify(message string, severity Severity)
}

// IdentityProvider is the external auth collaborator. Changes emits the
// new identity (nil on sign-out) after every transition.
type IdentityProvider interface {
	Current() *Identity
	Changes() <-chan *Identity
}

// KVStore persists opaque per-user string sets (e.g. dismissed broadcast
// IDs) in client-side storage.
type KVStore interface {
	Members(ctx context.Context, userID, bucket string) ([]string, error)
	Add(ctx context.Context, userID, bucket, value string) error
	Remove(ctx context.Context, userID, bucket, value string) error
}
