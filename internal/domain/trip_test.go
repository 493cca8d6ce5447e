package domain

import (
	"errors"
	"testing"
	"time"
)

func TestDurationDays(t *testing.T) {
	day := func(d int) time.Time { return time.Date(2026, 5, d, 0, 0, 0, 0, time.UTC) }
	cases := []struct {
		start, end time.Time
		want       int
	}{
		{day(1), day(1), 1}, // single-day trip
		{day(1), day(7), 7}, // inclusive of both endpoints
		{day(7), day(1), 0}, // inverted range
	}
	for _, c := range cases {
		tr := Trip{StartDate: c.start, EndDate: c.end}
		if got := tr.DurationDays(); got != c.want {
			t.Errorf("DurationDays(%v..%v) = %d, want %d", c.start, c.end, got, c.want)
		}
	}
}

func TestTripPatchValidate(t *testing.T) {
	blank := ""
	neg := -1.0
	start := time.Date(2026, 5, 10, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, -1)

	for _, p := range []TripPatch{
		{Title: &blank},
		{Price: &neg},
		{StartDate: &start, EndDate: &end},
	} {
		if err := p.Validate(); !errors.Is(err, ErrInvalidPatch) {
			t.Errorf("patch %+v passed validation", p)
		}
	}
	if err := (TripPatch{}).Validate(); err != nil {
		t.Errorf("empty patch rejected: %v", err)
	}
}

func TestToggleFavoriteSelfInverse(t *testing.T) {
	set := []string{"a", "b"}

	once := ToggleFavorite(set, "c")
	if len(once) != 3 {
		t.Fatalf("add: %v", once)
	}
	twice := ToggleFavorite(once, "c")
	if len(twice) != 2 {
		t.Fatalf("toggle not self-inverse: %v", twice)
	}
	// Toggling on an already-duplicated input collapses the duplicates.
	deduped := ToggleFavorite([]string{"x", "x"}, "x")
	if len(deduped) != 0 {
		t.Fatalf("duplicates survived: %v", deduped)
	}
}

func TestBroadcastTargetsRole(t *testing.T) {
	all := BroadcastMessage{}
	if !all.TargetsRole(RoleClient) || !all.TargetsRole(RoleAdmin) {
		t.Fatal("empty role list must target everyone")
	}
	scoped := BroadcastMessage{Roles: []Role{RoleAgency}}
	if scoped.TargetsRole(RoleClient) || !scoped.TargetsRole(RoleAgency) {
		t.Fatal("role scoping broken")
	}
}
