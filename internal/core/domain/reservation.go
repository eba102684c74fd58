package domain

import "time"

type ReservationStatus string

const (
	ReservationPending   ReservationStatus = "pending"
	ReservationConfirmed ReservationStatus = "confirmed"
	ReservationCancelled ReservationStatus = "cancelled"
)

// Passenger identifies a traveller and their mobility profile tag
// (wheelchair, cane, visual, ...).
type Passenger struct {
	Name       string `json:"name"`
	PMRProfile string `json:"pmr_profile,omitempty"`
}

// Reservation is an adapted-transport booking.
type Reservation struct {
	ID          string            `json:"id"`
	Origin      string            `json:"origin"`
	Destination string            `json:"destination"`
	DepartureAt time.Time         `json:"datetime_utc"`
	Passenger   Passenger         `json:"passenger"`
	Status      ReservationStatus `json:"status"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}
