package identity

import (
	"testing"

	"tripmarket/internal/domain"
)

func TestManual_Transitions(t *testing.T) {
	m := NewManual()
	if m.Current() != nil {
		t.Fatal("fresh provider should be signed out")
	}

	m.SignIn(domain.Identity{UserID: "u-1", Role: domain.RoleClient})
	got := m.Current()
	if got == nil || got.UserID != "u-1" {
		t.Fatalf("Current after sign-in: %+v", got)
	}

	select {
	case id := <-m.Changes():
		if id == nil || id.UserID != "u-1" {
			t.Fatalf("change event: %+v", id)
		}
	default:
		t.Fatal("sign-in emitted no change event")
	}

	m.SignOut()
	if m.Current() != nil {
		t.Fatal("Current after sign-out should be nil")
	}
	select {
	case id := <-m.Changes():
		if id != nil {
			t.Fatalf("sign-out event should be nil, got %+v", id)
		}
	default:
		t.Fatal("sign-out emitted no change event")
	}
}

func TestManual_CurrentReturnsCopy(t *testing.T) {
	m := NewManual()
	m.SignIn(domain.Identity{UserID: "u-1", Role: domain.RoleClient})

	c := m.Current()
	c.UserID = "tampered"
	if m.Current().UserID != "u-1" {
		t.Fatal("caller mutation leaked into provider state")
	}
}
