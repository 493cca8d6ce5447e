package domain

import "time"

type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingCancelled BookingStatus = "cancelled"
)

type Passenger struct {
	Name     string
	Document string
	Age      int
}

type Booking struct {
	ID            string
	TripID        string
	ClientID      string
	Status        BookingStatus
	TotalPrice    float64
	Seats         int
	VoucherCode   string // unique per booking
	PaymentMethod string
	CreatedAt     time.Time

	// Passengers may arrive embedded with the booking row or be fetched
	// lazily as sub-records; see Gateway.BookingPassengers.
	Passengers []Passenger
}

type BookingPatch struct {
	Status        *BookingStatus
	PaymentMethod *string
}

func (p BookingPatch) Validate() error {
	if p.Status != nil {
		switch *p.Status {
		case BookingPending, BookingConfirmed, BookingCancelled:
		default:
			return ErrInvalidPatch
		}
	}
	return nil
}

func (p BookingPatch) Apply(b Booking) Booking {
	if p.Status != nil {
		b.Status = *p.Status
	}
	if p.PaymentMethod != nil {
		b.PaymentMethod = *p.PaymentMethod
	}
	return b
}
