package domain

import "time"

type Category string

const (
	CategoryAdventure Category = "adventure"
	CategoryBeach     Category = "beach"
	CategoryCultural  Category = "cultural"
	CategoryEco       Category = "eco"
	CategoryFamily    Category = "family"
	CategoryRomantic  Category = "romantic"
)

type Coords struct{ Lat, Lon float64 }

type ItineraryDay struct {
	Day         int
	Description string
}

type BoardingPoint struct {
	Time     string // "HH:MM"
	Location string
}

type Trip struct {
	ID          string
	AgencyID    string
	Title       string
	Slug        string
	Destination string
	Price       float64
	StartDate   time.Time
	EndDate     time.Time
	Category    Category
	Tags        []string
	Itinerary   []ItineraryDay
	Boarding    []BoardingPoint
	Active      bool
	Deleted     bool
	Views       int64
	Sales       int64
	Capacity    *int // nil = no declared ceiling
	Coords      *Coords
	Rating      float64
	RatingCount int
	CreatedAt   time.Time

	// Images are fetched separately from trip metadata to bound payload
	// size. An empty slice with ImagesLoaded=false means "not fetched yet",
	// not "no images".
	Images       []string
	ImagesLoaded bool
}

// DurationDays is inclusive of both endpoints.
func (t Trip) DurationDays() int {
	if t.EndDate.Before(t.StartDate) {
		return 0
	}
	return int(t.EndDate.Sub(t.StartDate).Hours()/24) + 1
}

// Public reports whether the trip appears in default listings.
func (t Trip) Public() bool { return t.Active && !t.Deleted }

// TripPatch is a typed delta applied to a trip. Nil fields are untouched.
type TripPatch struct {
	Title       *string
	Destination *string
	Price       *float64
	StartDate   *time.Time
	EndDate     *time.Time
	Category    *Category
	Tags        []string
	Itinerary   []ItineraryDay
	Boarding    []BoardingPoint
	Active      *bool
	Deleted     *bool
	Capacity    *int
	Coords      *Coords
}

func (p TripPatch) Validate() error {
	if p.Title != nil && *p.Title == "" {
		return ErrInvalidPatch
	}
	if p.Price != nil && *p.Price < 0 {
		return ErrInvalidPatch
	}
	if p.StartDate != nil && p.EndDate != nil && p.EndDate.Before(*p.StartDate) {
		return ErrInvalidPatch
	}
	if p.Capacity != nil && *p.Capacity < 0 {
		return ErrInvalidPatch
	}
	return nil
}

// Apply returns a copy of t with the non-nil patch fields set.
func (p TripPatch) Apply(t Trip) Trip {
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Destination != nil {
		t.Destination = *p.Destination
	}
	if p.Price != nil {
		t.Price = *p.Price
	}
	if p.StartDate != nil {
		t.StartDate = *p.StartDate
	}
	if p.EndDate != nil {
		t.EndDate = *p.EndDate
	}
	if p.Category != nil {
		t.Category = *p.Category
	}
	if p.Tags != nil {
		t.Tags = append([]string(nil), p.Tags...)
	}
	if p.Itinerary != nil {
		t.Itinerary = append([]ItineraryDay(nil), p.Itinerary...)
	}
	if p.Boarding != nil {
		t.Boarding = append([]BoardingPoint(nil), p.Boarding...)
	}
	if p.Active != nil {
		t.Active = *p.Active
	}
	if p.Deleted != nil {
		t.Deleted = *p.Deleted
	}
	if p.Capacity != nil {
		c := *p.Capacity
		t.Capacity = &c
	}
	if p.Coords != nil {
		c := *p.Coords
		t.Coords = &c
	}
	return t
}
