package app

import (
	"context"
	"errors"
	"sync"

	"tripmarket/internal/cache"
	"tripmarket/internal/domain"
	"tripmarket/internal/storage/unconfigured"
)

var errBoom = errors.New("boom")

// memGateway serves a canned dataset and records write calls. Methods a
// test does not care about fall through to the embedded unconfigured
// gateway.
type memGateway struct {
	unconfigured.Gateway

	mu   sync.Mutex
	data cache.GlobalData

	bookingsByClient map[string][]domain.Booking
	bookingsByTrips  []domain.Booking

	// blockFetch, when set, is waited on before any scoped booking
	// fetch returns.
	blockFetch chan struct{}

	failSetFavorite       bool
	failInsertBooking     bool
	failAppendActivity    bool
	failUpsertInteraction bool
	slugTaken             map[string]bool

	fetchCalls    int
	setFavCalls   int
	insertedTrips []domain.Trip
	inserted      []domain.Booking
	activity      []domain.ActivityEntry
	salesBumps    map[string]int
}

func newMemGateway(data cache.GlobalData) *memGateway {
	return &memGateway{
		data:             data,
		bookingsByClient: map[string][]domain.Booking{},
		slugTaken:        map[string]bool{},
		salesBumps:       map[string]int{},
	}
}

func (g *memGateway) Trips(context.Context) ([]domain.Trip, error)      { return g.data.Trips, nil }
func (g *memGateway) Agencies(context.Context) ([]domain.Agency, error) { return g.data.Agencies, nil }
func (g *memGateway) Clients(context.Context) ([]domain.Client, error)  { return g.data.Clients, nil }
func (g *memGateway) Reviews(context.Context) ([]domain.Review, error)  { return g.data.Reviews, nil }
func (g *memGateway) Broadcasts(context.Context) ([]domain.BroadcastMessage, error) {
	return g.data.Broadcasts, nil
}
func (g *memGateway) Activity(context.Context, int) ([]domain.ActivityEntry, error) {
	return g.data.Activity, nil
}
func (g *memGateway) Settings(context.Context) (domain.PlatformSettings, error) {
	return g.data.Settings, nil
}

func (g *memGateway) BookingsByClient(_ context.Context, clientID string) ([]domain.Booking, error) {
	if g.blockFetch != nil {
		<-g.blockFetch
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.fetchCalls++
	return g.bookingsByClient[clientID], nil
}

func (g *memGateway) BookingsByTrips(context.Context, []string) ([]domain.Booking, error) {
	if g.blockFetch != nil {
		<-g.blockFetch
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.fetchCalls++
	return g.bookingsByTrips, nil
}

func (g *memGateway) TripImages(context.Context, string) ([]string, error) {
	return nil, nil
}

func (g *memGateway) InsertTrip(_ context.Context, t domain.Trip) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.insertedTrips = append(g.insertedTrips, t)
	return nil
}

func (g *memGateway) UpdateTrip(context.Context, string, domain.TripPatch) error { return nil }

func (g *memGateway) UpdateAgency(context.Context, string, domain.AgencyPatch) error { return nil }

func (g *memGateway) UpdateClient(context.Context, string, domain.ClientPatch) error { return nil }

func (g *memGateway) Upload(_ context.Context, name string, _ []byte) (string, error) {
	return "https://cdn.test/" + name, nil
}

func (g *memGateway) InsertBooking(_ context.Context, b domain.Booking) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.failInsertBooking {
		return errBoom
	}
	g.inserted = append(g.inserted, b)
	return nil
}

func (g *memGateway) UpsertReview(context.Context, domain.Review) error   { return nil }
func (g *memGateway) RespondReview(context.Context, string, string) error { return nil }
func (g *memGateway) UpsertInteraction(context.Context, domain.BroadcastInteraction) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.failUpsertInteraction {
		return errBoom
	}
	return nil
}

func (g *memGateway) SetFavorite(context.Context, string, string, bool) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.setFavCalls++
	if g.failSetFavorite {
		return errBoom
	}
	return nil
}

func (g *memGateway) AppendActivity(_ context.Context, e domain.ActivityEntry) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.failAppendActivity {
		return errBoom
	}
	g.activity = append(g.activity, e)
	return nil
}

func (g *memGateway) IncrementTripViews(context.Context, string) error { return nil }

func (g *memGateway) IncrementTripSales(_ context.Context, tripID string, n int) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.salesBumps[tripID] += n
	return nil
}

func (g *memGateway) SlugExists(_ context.Context, _ domain.Table, slug string) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.slugTaken[slug], nil
}

// memNotifier records notifications in order.
type memNotifier struct {
	mu   sync.Mutex
	msgs []string
	sevs []domain.Severity
}

func (n *memNotifier) Notify(msg string, sev domain.Severity) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.msgs = append(n.msgs, msg)
	n.sevs = append(n.sevs, sev)
}

func (n *memNotifier) last() (string, domain.Severity) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.msgs) == 0 {
		return "", ""
	}
	return n.msgs[len(n.msgs)-1], n.sevs[len(n.sevs)-1]
}

// memKV is an in-memory domain.KVStore.
type memKV struct {
	mu   sync.Mutex
	sets map[string]map[string]bool
}

func newMemKV() *memKV { return &memKV{sets: map[string]map[string]bool{}} }

func (k *memKV) key(userID, bucket string) string { return userID + "/" + bucket }

func (k *memKV) Members(_ context.Context, userID, bucket string) ([]string, error) {
	k.mu.Lock()
	defer k.mu.Unlock()
	var out []string
	for v := range k.sets[k.key(userID, bucket)] {
		out = append(out, v)
	}
	return out, nil
}

func (k *memKV) Add(_ context.Context, userID, bucket, value string) error {
	k.mu.Lock()
	defer k.mu.Unlock()
	key := k.key(userID, bucket)
	if k.sets[key] == nil {
		k.sets[key] = map[string]bool{}
	}
	k.sets[key][value] = true
	return nil
}

func (k *memKV) Remove(_ context.Context, userID, bucket, value string) error {
	k.mu.Lock()
	defer k.mu.Unlock()
	delete(k.sets[k.key(userID, bucket)], value)
	return nil
}

// memFeed hands out caller-controlled channels per table.
type memFeed struct {
	mu  sync.Mutex
	chs map[domain.Table]chan struct{}
}

func newMemFeed() *memFeed { return &memFeed{chs: map[domain.Table]chan struct{}{}} }

func (f *memFeed) Subscribe(_ context.Context, table domain.Table) (<-chan struct{}, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ch := make(chan struct{}, 16)
	f.chs[table] = ch
	return ch, nil
}

func (f *memFeed) Close() error { return nil }

func (f *memFeed) emit(table domain.Table) {
	f.mu.Lock()
	ch := f.chs[table]
	f.mu.Unlock()
	if ch != nil {
		ch <- struct{}{}
	}
}

func bookingFixture(id, clientID string) domain.Booking {
	return domain.Booking{
		ID: id, TripID: "trip-machu", ClientID: clientID,
		Status: domain.BookingPending, Seats: 2, VoucherCode: "TM-" + id,
	}
}
