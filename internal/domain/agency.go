package domain

import "time"

type SubscriptionPlan string

const (
	PlanFree    SubscriptionPlan = "free"
	PlanPro     SubscriptionPlan = "pro"
	PlanPremium SubscriptionPlan = "premium"
)

type SubscriptionStatus string

const (
	SubscriptionActive   SubscriptionStatus = "active"
	SubscriptionExpired  SubscriptionStatus = "expired"
	SubscriptionCanceled SubscriptionStatus = "canceled"
)

type Subscription struct {
	Plan      SubscriptionPlan
	Status    SubscriptionStatus
	ExpiresAt *time.Time
}

// Agency has two correlated identifiers: its own ID and the ID of the
// user account that owns it. They are never interchangeable.
type Agency struct {
	ID           string
	OwnerUserID  string
	Name         string
	Slug         string
	Active       bool
	Deleted      bool
	Subscription Subscription
	Email        string
	Phone        string
	City         string
	LogoURL      string
	CreatedAt    time.Time
}

func (a Agency) Public() bool { return a.Active && !a.Deleted }

type AgencyPatch struct {
	Name         *string
	Active       *bool
	Deleted      *bool
	Subscription *Subscription
	Email        *string
	Phone        *string
	City         *string
	LogoURL      *string
}

func (p AgencyPatch) Validate() error {
	if p.Name != nil && *p.Name == "" {
		return ErrInvalidPatch
	}
	return nil
}

func (p AgencyPatch) Apply(a Agency) Agency {
	if p.Name != nil {
		a.Name = *p.Name
	}
	if p.Active != nil {
		a.Active = *p.Active
	}
	if p.Deleted != nil {
		a.Deleted = *p.Deleted
	}
	if p.Subscription != nil {
		a.Subscription = *p.Subscription
	}
	if p.Email != nil {
		a.Email = *p.Email
	}
	if p.Phone != nil {
		a.Phone = *p.Phone
	}
	if p.City != nil {
		a.City = *p.City
	}
	if p.LogoURL != nil {
		a.LogoURL = *p.LogoURL
	}
	return a
}
