// Package query emulates server-side paginated trip search over one
// cache snapshot. The whole pipeline is pure: no remote calls, no
// mutation of the snapshot.
package query

import (
	"math"
	"sort"
	"strings"
	"time"

	"tripmarket/internal/domain"
)

type SortMode string

const (
	SortRelevance  SortMode = "relevance" // views + sales*10, descending
	SortPriceAsc   SortMode = "price_asc"
	SortPriceDesc  SortMode = "price_desc"
	SortDateAsc    SortMode = "date_asc"
	SortRatingDesc SortMode = "rating_desc"
)

const (
	defaultLimit = 12
	maxLimit     = 100
)

type TripSearch struct {
	Text      string
	Category  *domain.Category
	AgencyID  string
	MinPrice  *float64 // inclusive
	MaxPrice  *float64 // inclusive
	StartDate *time.Time
	EndDate   *time.Time
	Seats     int // requested total; only trips with an explicit smaller ceiling are excluded
	Near      *domain.Coords
	RadiusKm  float64
	Sort      SortMode
	Page      int
	Limit     int
}

// TripPage reports the sliced page plus the full pre-slice match count,
// which UI pagers need regardless of the requested page.
type TripPage struct {
	Items []domain.Trip
	Count int
	Page  int
	Limit int
}

// SearchTrips runs the filter/sort/paginate pipeline over the public
// subset of trips in stable input order.
func SearchTrips(trips []domain.Trip, q TripSearch) TripPage {
	matched := make([]domain.Trip, 0, len(trips))
	text := Fold(strings.TrimSpace(q.Text))
	for _, t := range trips {
		if !t.Public() {
			continue
		}
		if text != "" && !matchesText(t, text) {
			continue
		}
		if q.Category != nil && t.Category != *q.Category {
			continue
		}
		if q.AgencyID != "" && t.AgencyID != q.AgencyID {
			continue
		}
		if q.MinPrice != nil && t.Price < *q.MinPrice {
			continue
		}
		if q.MaxPrice != nil && t.Price > *q.MaxPrice {
			continue
		}
		if !matchesDates(t, q.StartDate, q.EndDate) {
			continue
		}
		if q.Seats > 0 && t.Capacity != nil && *t.Capacity < q.Seats {
			continue
		}
		if q.Near != nil && q.RadiusKm > 0 && t.Coords != nil {
			if planarDistanceKm(*q.Near, *t.Coords) > q.RadiusKm {
				continue
			}
		}
		matched = append(matched, t)
	}

	sortTrips(matched, q.Sort)

	page, limit := q.Page, q.Limit
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	lo := (page - 1) * limit
	hi := lo + limit
	count := len(matched)
	if lo > count {
		lo = count
	}
	if hi > count {
		hi = count
	}
	// Past-the-end pages yield an empty slice with the true count.
	return TripPage{Items: matched[lo:hi], Count: count, Page: page, Limit: limit}
}

func matchesText(t domain.Trip, folded string) bool {
	if foldContains(t.Title, folded) || foldContains(t.Destination, folded) {
		return true
	}
	for _, tag := range t.Tags {
		if foldContains(tag, folded) {
			return true
		}
	}
	return false
}

// matchesDates applies the three-rule overlap contract:
// both bounds    -> interval overlap (t.Start <= qEnd && t.End >= qStart)
// start only     -> t.Start >= qStart
// end only       -> t.End <= qEnd
func matchesDates(t domain.Trip, qStart, qEnd *time.Time) bool {
	switch {
	case qStart != nil && qEnd != nil:
		return !t.StartDate.After(*qEnd) && !t.EndDate.Before(*qStart)
	case qStart != nil:
		return !t.StartDate.Before(*qStart)
	case qEnd != nil:
		return !t.EndDate.After(*qEnd)
	default:
		return true
	}
}

const (
	kmPerLatDegree = 110.574
	kmPerLonDegree = 111.320
)

// planarDistanceKm is the deliberate equirectangular approximation, not
// great-circle. Fine at marketplace scale.
func planarDistanceKm(a, b domain.Coords) float64 {
	meanLat := (a.Lat + b.Lat) / 2 * math.Pi / 180
	dx := (b.Lon - a.Lon) * kmPerLonDegree * math.Cos(meanLat)
	dy := (b.Lat - a.Lat) * kmPerLatDegree
	return math.Sqrt(dx*dx + dy*dy)
}

func relevance(t domain.Trip) int64 { return t.Views + t.Sales*10 }

// sortTrips keeps ties in input order for every strategy.
func sortTrips(trips []domain.Trip, mode SortMode) {
	switch mode {
	case SortPriceAsc:
		sort.SliceStable(trips, func(i, j int) bool { return trips[i].Price < trips[j].Price })
	case SortPriceDesc:
		sort.SliceStable(trips, func(i, j int) bool { return trips[i].Price > trips[j].Price })
	case SortDateAsc:
		sort.SliceStable(trips, func(i, j int) bool { return trips[i].StartDate.Before(trips[j].StartDate) })
	case SortRatingDesc:
		sort.SliceStable(trips, func(i, j int) bool { return trips[i].Rating > trips[j].Rating })
	default: // SortRelevance
		sort.SliceStable(trips, func(i, j int) bool { return relevance(trips[i]) > relevance(trips[j]) })
	}
}
