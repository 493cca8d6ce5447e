// Package mysql implements the remote store gateway over MySQL. Change
// notifications ride on a separate publisher (redis pub/sub) so other
// instances' refresh controllers hear about writes made here.
package mysql

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"

	"tripmarket/internal/domain"
)

// Publisher announces "something changed" on a table after a write.
// Optional; nil disables announcements.
type Publisher interface {
	Publish(ctx context.Context, table domain.Table) error
}

type Gateway struct {
	db        *sql.DB
	events    Publisher
	uploadURL string // public base for uploaded objects
}

func New(db *sql.DB, events Publisher, uploadURL string) *Gateway {
	return &Gateway{db: db, events: events, uploadURL: strings.TrimRight(uploadURL, "/")}
}

func (g *Gateway) announce(ctx context.Context, table domain.Table) {
	if g.events == nil {
		return
	}
	// Best-effort; the periodic reload covers a lost signal.
	_ = g.events.Publish(ctx, table)
}

func jsonCol(v any) string {
	b, _ := json.Marshal(v)
	return string(b)
}

// isDuplicate reports whether err is a MySQL duplicate-key rejection
// (error 1062), e.g. a slug or voucher collision racing past the
// pre-insert existence check.
func isDuplicate(err error) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == 1062
}

// ---- bulk reads ----

func (g *Gateway) Trips(ctx context.Context) ([]domain.Trip, error) {
	rows, err := g.db.QueryContext(ctx, selectTripsSQL)
	if err != nil {
		return nil, fmt.Errorf("select trips: %w", err)
	}
	defer rows.Close()

	var out []domain.Trip
	for rows.Next() {
		var t domain.Trip
		var tags, itinerary, boarding []byte
		var capacity sql.NullInt64
		var lat, lon sql.NullFloat64
		if err := rows.Scan(
			&t.ID, &t.AgencyID, &t.Title, &t.Slug, &t.Destination, &t.Price,
			&t.StartDate, &t.EndDate, &t.Category, &tags, &itinerary, &boarding,
			&t.Active, &t.Deleted, &t.Views, &t.Sales, &capacity, &lat, &lon,
			&t.Rating, &t.RatingCount, &t.CreatedAt,
		); err != nil {
			return nil, err
		}
		_ = json.Unmarshal(tags, &t.Tags)
		_ = json.Unmarshal(itinerary, &t.Itinerary)
		_ = json.Unmarshal(boarding, &t.Boarding)
		if capacity.Valid {
			c := int(capacity.Int64)
			t.Capacity = &c
		}
		if lat.Valid && lon.Valid {
			t.Coords = &domain.Coords{Lat: lat.Float64, Lon: lon.Float64}
		}
		// Images load lazily via TripImages; ImagesLoaded stays false.
		out = append(out, t)
	}
	return out, rows.Err()
}

func (g *Gateway) Agencies(ctx context.Context) ([]domain.Agency, error) {
	rows, err := g.db.QueryContext(ctx, selectAgenciesSQL)
	if err != nil {
		return nil, fmt.Errorf("select agencies: %w", err)
	}
	defer rows.Close()

	var out []domain.Agency
	for rows.Next() {
		var a domain.Agency
		var expires sql.NullTime
		if err := rows.Scan(
			&a.ID, &a.OwnerUserID, &a.Name, &a.Slug, &a.Active, &a.Deleted,
			&a.Subscription.Plan, &a.Subscription.Status, &expires,
			&a.Email, &a.Phone, &a.City, &a.LogoURL, &a.CreatedAt,
		); err != nil {
			return nil, err
		}
		if expires.Valid {
			e := expires.Time
			a.Subscription.ExpiresAt = &e
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (g *Gateway) Clients(ctx context.Context) ([]domain.Client, error) {
	rows, err := g.db.QueryContext(ctx, selectClientsSQL)
	if err != nil {
		return nil, fmt.Errorf("select clients: %w", err)
	}
	defer rows.Close()

	var out []domain.Client
	idx := map[string]int{}
	for rows.Next() {
		var c domain.Client
		if err := rows.Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &c.AvatarURL, &c.Status, &c.Deleted, &c.CreatedAt); err != nil {
			return nil, err
		}
		idx[c.ID] = len(out)
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	favRows, err := g.db.QueryContext(ctx, selectFavoritesSQL)
	if err != nil {
		return nil, fmt.Errorf("select favorites: %w", err)
	}
	defer favRows.Close()
	for favRows.Next() {
		var clientID, tripID string
		if err := favRows.Scan(&clientID, &tripID); err != nil {
			return nil, err
		}
		if i, ok := idx[clientID]; ok {
			out[i].Favorites = append(out[i].Favorites, tripID)
		}
	}
	return out, favRows.Err()
}

func (g *Gateway) Reviews(ctx context.Context) ([]domain.Review, error) {
	rows, err := g.db.QueryContext(ctx, selectReviewsSQL)
	if err != nil {
		return nil, fmt.Errorf("select reviews: %w", err)
	}
	defer rows.Close()

	var out []domain.Review
	for rows.Next() {
		var r domain.Review
		var bookingID, tripID, response sql.NullString
		var tags []byte
		if err := rows.Scan(
			&r.ID, &r.AgencyID, &r.ClientID, &bookingID, &tripID,
			&r.Rating, &r.Comment, &tags, &response, &r.CreatedAt,
		); err != nil {
			return nil, err
		}
		_ = json.Unmarshal(tags, &r.Tags)
		if bookingID.Valid {
			s := bookingID.String
			r.BookingID = &s
		}
		if tripID.Valid {
			s := tripID.String
			r.TripID = &s
		}
		if response.Valid {
			s := response.String
			r.Response = &s
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (g *Gateway) Broadcasts(ctx context.Context) ([]domain.BroadcastMessage, error) {
	rows, err := g.db.QueryContext(ctx, selectBroadcastsSQL)
	if err != nil {
		return nil, fmt.Errorf("select broadcasts: %w", err)
	}
	defer rows.Close()

	var out []domain.BroadcastMessage
	for rows.Next() {
		var m domain.BroadcastMessage
		var roles []byte
		if err := rows.Scan(&m.ID, &m.Title, &m.Body, &roles, &m.CreatedAt); err != nil {
			return nil, err
		}
		_ = json.Unmarshal(roles, &m.Roles)
		out = append(out, m)
	}
	return out, rows.Err()
}

func (g *Gateway) Activity(ctx context.Context, limit int) ([]domain.ActivityEntry, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := g.db.QueryContext(ctx, selectActivitySQL, limit)
	if err != nil {
		return nil, fmt.Errorf("select activity: %w", err)
	}
	defer rows.Close()

	var out []domain.ActivityEntry
	for rows.Next() {
		var e domain.ActivityEntry
		if err := rows.Scan(&e.ID, &e.ActorID, &e.Action, &e.EntityID, &e.Detail, &e.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (g *Gateway) Settings(ctx context.Context) (domain.PlatformSettings, error) {
	row := g.db.QueryRowContext(ctx, selectSettingsSQL, domain.SettingsID)
	var s domain.PlatformSettings
	var featured []byte
	err := row.Scan(&s.ID, &s.CommissionRate, &s.SupportEmail, &s.MaintenanceMode, &featured)
	if err == sql.ErrNoRows {
		// Singleton not seeded yet; defaults keep the app running.
		return domain.PlatformSettings{ID: domain.SettingsID}, nil
	}
	if err != nil {
		return domain.PlatformSettings{}, fmt.Errorf("select settings: %w", err)
	}
	_ = json.Unmarshal(featured, &s.FeaturedTripIDs)
	return s, nil
}

// ---- scoped reads ----

func (g *Gateway) BookingsByClient(ctx context.Context, clientID string) ([]domain.Booking, error) {
	rows, err := g.db.QueryContext(ctx, selectBookingsByClientSQL, clientID)
	if err != nil {
		return nil, fmt.Errorf("select bookings by client: %w", err)
	}
	defer rows.Close()
	return scanBookings(rows)
}

func (g *Gateway) BookingsByTrips(ctx context.Context, tripIDs []string) ([]domain.Booking, error) {
	if len(tripIDs) == 0 {
		return nil, nil
	}
	placeholders := strings.Repeat("?,", len(tripIDs))
	q := selectBookingsByTripsPrefix + placeholders[:len(placeholders)-1] + `)
ORDER BY created_at DESC, id DESC`
	args := make([]any, len(tripIDs))
	for i, id := range tripIDs {
		args[i] = id
	}
	rows, err := g.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("select bookings by trips: %w", err)
	}
	defer rows.Close()
	return scanBookings(rows)
}

func scanBookings(rows *sql.Rows) ([]domain.Booking, error) {
	var out []domain.Booking
	for rows.Next() {
		var b domain.Booking
		if err := rows.Scan(
			&b.ID, &b.TripID, &b.ClientID, &b.Status, &b.TotalPrice, &b.Seats,
			&b.VoucherCode, &b.PaymentMethod, &b.CreatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (g *Gateway) Interactions(ctx context.Context, userID string) ([]domain.BroadcastInteraction, error) {
	rows, err := g.db.QueryContext(ctx, selectInteractionsSQL, userID)
	if err != nil {
		return nil, fmt.Errorf("select interactions: %w", err)
	}
	defer rows.Close()

	var out []domain.BroadcastInteraction
	for rows.Next() {
		var i domain.BroadcastInteraction
		if err := rows.Scan(&i.MessageID, &i.UserID, &i.Read, &i.Liked, &i.DeletedForMe, &i.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, i)
	}
	return out, rows.Err()
}

// ---- lazy secondary fetches ----

func (g *Gateway) TripImages(ctx context.Context, tripID string) ([]string, error) {
	rows, err := g.db.QueryContext(ctx, selectTripImagesSQL, tripID)
	if err != nil {
		return nil, fmt.Errorf("select trip images: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var url string
		if err := rows.Scan(&url); err != nil {
			return nil, err
		}
		out = append(out, url)
	}
	return out, rows.Err()
}

func (g *Gateway) BookingPassengers(ctx context.Context, bookingID string) ([]domain.Passenger, error) {
	rows, err := g.db.QueryContext(ctx, selectPassengersSQL, bookingID)
	if err != nil {
		return nil, fmt.Errorf("select passengers: %w", err)
	}
	defer rows.Close()

	var out []domain.Passenger
	for rows.Next() {
		var p domain.Passenger
		if err := rows.Scan(&p.Name, &p.Document, &p.Age); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// ---- writes ----

func (g *Gateway) InsertTrip(ctx context.Context, t domain.Trip) error {
	var capacity any
	if t.Capacity != nil {
		capacity = *t.Capacity
	}
	var lat, lon any
	if t.Coords != nil {
		lat, lon = t.Coords.Lat, t.Coords.Lon
	}
	_, err := g.db.ExecContext(ctx, insertTripSQL,
		t.ID, t.AgencyID, t.Title, t.Slug, t.Destination, t.Price,
		t.StartDate, t.EndDate, string(t.Category),
		jsonCol(t.Tags), jsonCol(t.Itinerary), jsonCol(t.Boarding),
		t.Active, t.Deleted, t.Views, t.Sales, capacity, lat, lon,
		t.Rating, t.RatingCount, t.CreatedAt,
	)
	if err != nil {
		if isDuplicate(err) {
			return fmt.Errorf("insert trip %s: %w", t.Slug, domain.ErrConflict)
		}
		return fmt.Errorf("insert trip: %w", err)
	}
	g.announce(ctx, domain.TableTrips)
	return nil
}

func (g *Gateway) UpdateTrip(ctx context.Context, id string, p domain.TripPatch) error {
	set, args := tripPatchSet(p)
	if len(set) == 0 {
		return nil
	}
	args = append(args, id)
	q := "UPDATE trips SET " + strings.Join(set, ", ") + " WHERE id = ?"
	res, err := g.db.ExecContext(ctx, q, args...)
	if err != nil {
		return fmt.Errorf("update trip: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		if !g.tripExists(ctx, id) {
			return domain.ErrNotFound
		}
	}
	g.announce(ctx, domain.TableTrips)
	return nil
}

func (g *Gateway) tripExists(ctx context.Context, id string) bool {
	var one int
	err := g.db.QueryRowContext(ctx, `SELECT 1 FROM trips WHERE id = ?`, id).Scan(&one)
	return err == nil
}

func tripPatchSet(p domain.TripPatch) (set []string, args []any) {
	add := func(col string, v any) {
		set = append(set, col+" = ?")
		args = append(args, v)
	}
	if p.Title != nil {
		add("title", *p.Title)
	}
	if p.Destination != nil {
		add("destination", *p.Destination)
	}
	if p.Price != nil {
		add("price", *p.Price)
	}
	if p.StartDate != nil {
		add("start_date", *p.StartDate)
	}
	if p.EndDate != nil {
		add("end_date", *p.EndDate)
	}
	if p.Category != nil {
		add("category", string(*p.Category))
	}
	if p.Tags != nil {
		add("tags", jsonCol(p.Tags))
	}
	if p.Itinerary != nil {
		add("itinerary", jsonCol(p.Itinerary))
	}
	if p.Boarding != nil {
		add("boarding", jsonCol(p.Boarding))
	}
	if p.Active != nil {
		add("active", *p.Active)
	}
	if p.Deleted != nil {
		add("deleted", *p.Deleted)
	}
	if p.Capacity != nil {
		add("capacity", *p.Capacity)
	}
	if p.Coords != nil {
		add("lat", p.Coords.Lat)
		add("lon", p.Coords.Lon)
	}
	return set, args
}

func (g *Gateway) PurgeTrip(ctx context.Context, id string) error {
	if _, err := g.db.ExecContext(ctx, purgeTripSQL, id); err != nil {
		return fmt.Errorf("purge trip: %w", err)
	}
	g.announce(ctx, domain.TableTrips)
	return nil
}

func (g *Gateway) UpdateAgency(ctx context.Context, id string, p domain.AgencyPatch) error {
	var set []string
	var args []any
	add := func(col string, v any) {
		set = append(set, col+" = ?")
		args = append(args, v)
	}
	if p.Name != nil {
		add("name", *p.Name)
	}
	if p.Active != nil {
		add("active", *p.Active)
	}
	if p.Deleted != nil {
		add("deleted", *p.Deleted)
	}
	if p.Subscription != nil {
		add("plan", string(p.Subscription.Plan))
		add("plan_status", string(p.Subscription.Status))
		var exp any
		if p.Subscription.ExpiresAt != nil {
			exp = *p.Subscription.ExpiresAt
		}
		add("plan_expires_at", exp)
	}
	if p.Email != nil {
		add("email", *p.Email)
	}
	if p.Phone != nil {
		add("phone", *p.Phone)
	}
	if p.City != nil {
		add("city", *p.City)
	}
	if p.LogoURL != nil {
		add("logo_url", *p.LogoURL)
	}
	if len(set) == 0 {
		return nil
	}
	args = append(args, id)
	q := "UPDATE agencies SET " + strings.Join(set, ", ") + " WHERE id = ?"
	if _, err := g.db.ExecContext(ctx, q, args...); err != nil {
		return fmt.Errorf("update agency: %w", err)
	}
	g.announce(ctx, domain.TableAgencies)
	return nil
}

func (g *Gateway) UpdateClient(ctx context.Context, id string, p domain.ClientPatch) error {
	var set []string
	var args []any
	add := func(col string, v any) {
		set = append(set, col+" = ?")
		args = append(args, v)
	}
	if p.Name != nil {
		add("name", *p.Name)
	}
	if p.Email != nil {
		add("email", *p.Email)
	}
	if p.Phone != nil {
		add("phone", *p.Phone)
	}
	if p.AvatarURL != nil {
		add("avatar_url", *p.AvatarURL)
	}
	if p.Status != nil {
		add("status", string(*p.Status))
	}
	if p.Deleted != nil {
		add("deleted", *p.Deleted)
	}
	if len(set) == 0 {
		return nil
	}
	args = append(args, id)
	q := "UPDATE clients SET " + strings.Join(set, ", ") + " WHERE id = ?"
	if _, err := g.db.ExecContext(ctx, q, args...); err != nil {
		return fmt.Errorf("update client: %w", err)
	}
	g.announce(ctx, domain.TableClients)
	return nil
}

func (g *Gateway) InsertBooking(ctx context.Context, b domain.Booking) error {
	tx, err := g.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("insert booking: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, insertBookingSQL,
		b.ID, b.TripID, b.ClientID, string(b.Status), b.TotalPrice, b.Seats,
		b.VoucherCode, b.PaymentMethod, b.CreatedAt,
	); err != nil {
		if isDuplicate(err) {
			return fmt.Errorf("insert booking %s: %w", b.VoucherCode, domain.ErrConflict)
		}
		return fmt.Errorf("insert booking: %w", err)
	}
	for i, p := range b.Passengers {
		if _, err := tx.ExecContext(ctx, insertPassengerSQL, b.ID, i, p.Name, p.Document, p.Age); err != nil {
			return fmt.Errorf("insert passenger: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("insert booking: %w", err)
	}
	g.announce(ctx, domain.TableBookings)
	return nil
}

func (g *Gateway) UpdateBooking(ctx context.Context, id string, p domain.BookingPatch) error {
	var set []string
	var args []any
	if p.Status != nil {
		set = append(set, "status = ?")
		args = append(args, string(*p.Status))
	}
	if p.PaymentMethod != nil {
		set = append(set, "payment_method = ?")
		args = append(args, *p.PaymentMethod)
	}
	if len(set) == 0 {
		return nil
	}
	args = append(args, id)
	q := "UPDATE bookings SET " + strings.Join(set, ", ") + " WHERE id = ?"
	if _, err := g.db.ExecContext(ctx, q, args...); err != nil {
		return fmt.Errorf("update booking: %w", err)
	}
	g.announce(ctx, domain.TableBookings)
	return nil
}

func (g *Gateway) UpsertReview(ctx context.Context, r domain.Review) error {
	var bookingID, tripID, response any
	if r.BookingID != nil {
		bookingID = *r.BookingID
	}
	if r.TripID != nil {
		tripID = *r.TripID
	}
	if r.Response != nil {
		response = *r.Response
	}
	_, err := g.db.ExecContext(ctx, upsertReviewSQL,
		r.ID, r.AgencyID, r.ClientID, bookingID, tripID,
		r.Rating, r.Comment, jsonCol(r.Tags), response, r.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert review: %w", err)
	}
	g.announce(ctx, domain.TableReviews)
	return nil
}

func (g *Gateway) RespondReview(ctx context.Context, reviewID, response string) error {
	if _, err := g.db.ExecContext(ctx, respondReviewSQL, response, reviewID); err != nil {
		return fmt.Errorf("respond review: %w", err)
	}
	g.announce(ctx, domain.TableReviews)
	return nil
}

func (g *Gateway) SetFavorite(ctx context.Context, clientID, tripID string, on bool) error {
	q := deleteFavoriteSQL
	if on {
		q = insertFavoriteSQL
	}
	if _, err := g.db.ExecContext(ctx, q, clientID, tripID); err != nil {
		return fmt.Errorf("set favorite: %w", err)
	}
	g.announce(ctx, domain.TableClients)
	return nil
}

func (g *Gateway) UpsertInteraction(ctx context.Context, i domain.BroadcastInteraction) error {
	_, err := g.db.ExecContext(ctx, upsertInteractionSQL,
		i.MessageID, i.UserID, i.Read, i.Liked, i.DeletedForMe, i.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert interaction: %w", err)
	}
	g.announce(ctx, domain.TableBroadcasts)
	return nil
}

func (g *Gateway) AppendActivity(ctx context.Context, e domain.ActivityEntry) error {
	_, err := g.db.ExecContext(ctx, appendActivitySQL,
		e.ID, e.ActorID, e.Action, e.EntityID, e.Detail, e.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("append activity: %w", err)
	}
	return nil
}

// ---- named remote procedures ----

func (g *Gateway) IncrementTripViews(ctx context.Context, tripID string) error {
	if _, err := g.db.ExecContext(ctx, incrementViewsSQL, tripID); err != nil {
		return fmt.Errorf("increment views: %w", err)
	}
	return nil
}

func (g *Gateway) IncrementTripSales(ctx context.Context, tripID string, n int) error {
	if _, err := g.db.ExecContext(ctx, incrementSalesSQL, n, tripID); err != nil {
		return fmt.Errorf("increment sales: %w", err)
	}
	g.announce(ctx, domain.TableTrips)
	return nil
}

// ---- misc ----

func (g *Gateway) SlugExists(ctx context.Context, table domain.Table, slug string) (bool, error) {
	var q string
	switch table {
	case domain.TableTrips:
		q = `SELECT 1 FROM trips WHERE slug = ?`
	case domain.TableAgencies:
		q = `SELECT 1 FROM agencies WHERE slug = ?`
	default:
		return false, fmt.Errorf("slug exists: table %s not sluggable", table)
	}
	var one int
	err := g.db.QueryRowContext(ctx, q, slug).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("slug exists: %w", err)
	}
	return true, nil
}

func (g *Gateway) Upload(ctx context.Context, name string, data []byte) (string, error) {
	if _, err := g.db.ExecContext(ctx, insertUploadSQL, name, data, time.Now().UTC()); err != nil {
		return "", fmt.Errorf("upload: %w", err)
	}
	return g.uploadURL + "/" + name, nil
}

// ---- seeding ----
//
// Agencies, clients, broadcasts and settings are owned by other backend
// services in production; these upserts exist for cmd/seeder and tests,
// outside the domain.Gateway surface.

func (g *Gateway) SeedAgency(ctx context.Context, a domain.Agency) error {
	_, err := g.db.ExecContext(ctx, upsertAgencySQL,
		a.ID, a.OwnerUserID, a.Name, a.Slug, a.Active, a.Deleted,
		a.Subscription.Plan, a.Subscription.Status, a.Subscription.ExpiresAt,
		a.Email, a.Phone, a.City, a.LogoURL, a.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("seed agency %s: %w", a.ID, err)
	}
	g.announce(ctx, domain.TableAgencies)
	return nil
}

func (g *Gateway) SeedClient(ctx context.Context, c domain.Client) error {
	_, err := g.db.ExecContext(ctx, upsertClientSQL,
		c.ID, c.Name, c.Email, c.Phone, c.AvatarURL, c.Status, c.Deleted, c.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("seed client %s: %w", c.ID, err)
	}
	for _, tripID := range c.Favorites {
		if err := g.SetFavorite(ctx, c.ID, tripID, true); err != nil {
			return err
		}
	}
	g.announce(ctx, domain.TableClients)
	return nil
}

func (g *Gateway) SeedBroadcast(ctx context.Context, m domain.BroadcastMessage) error {
	_, err := g.db.ExecContext(ctx, upsertBroadcastSQL,
		m.ID, m.Title, m.Body, jsonCol(m.Roles), m.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("seed broadcast %s: %w", m.ID, err)
	}
	g.announce(ctx, domain.TableBroadcasts)
	return nil
}

func (g *Gateway) SeedSettings(ctx context.Context, s domain.PlatformSettings) error {
	if s.ID == "" {
		s.ID = domain.SettingsID
	}
	_, err := g.db.ExecContext(ctx, upsertSettingsSQL,
		s.ID, s.CommissionRate, s.SupportEmail, s.MaintenanceMode, jsonCol(s.FeaturedTripIDs),
	)
	if err != nil {
		return fmt.Errorf("seed settings: %w", err)
	}
	g.announce(ctx, domain.TableSettings)
	return nil
}
