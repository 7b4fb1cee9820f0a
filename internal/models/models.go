package models

import "time"

// VehicleSpec is one row of the externally sourced vehicle catalog.
// Specs are immutable reference data; the catalog is fetched once per
// session and keyed case-insensitively by (make, model).
type VehicleSpec struct {
	Make         string  `json:"make"`
	Model        string  `json:"model"`
	Trim         string  `json:"trim"`
	SeatCapacity int     `json:"seat_capacity"`
	Horsepower   int     `json:"horsepower"`
	Acceleration float64 `json:"acceleration"`
	ImageURL     string  `json:"image_url"`
}

// ListingDraft is the transient, client-held listing prior to a
// successful publish. Numeric-looking fields stay strings because they
// arrive as entered in the owner's form; validation happens at publish.
// Latitude/Longitude are nil when address resolution fell back.
type ListingDraft struct {
	VehicleName     string   `json:"vehicle_name"`
	PhotoURL        string   `json:"photo_url"`
	SeatingCapacity string   `json:"seating_capacity"`
	Horsepower      string   `json:"horsepower"`
	Acceleration    string   `json:"acceleration"`
	LicensePlate    string   `json:"license_plate"`
	RentalPrice     string   `json:"rental_price"`
	PickupLocation  string   `json:"pickup_location"`
	Latitude        *float64 `json:"latitude"`
	Longitude       *float64 `json:"longitude"`
	City            string   `json:"city"`
}

// OwnerIdentity is the already-authenticated identity context attached
// to a published listing. The core treats it as opaque input.
type OwnerIdentity struct {
	ID       string `json:"owner_id"`
	Email    string `json:"owner_email"`
	Name     string `json:"owner_name"`
	PhotoURL string `json:"owner_photo_url"`
}

// Listing is the persisted record. Append-only from this service's
// point of view; edits and deletion are handled elsewhere.
type Listing struct {
	ID string `json:"id"`
	ListingDraft
	OwnerIdentity
	CreatedAt time.Time `json:"created_at"`
}

// BookingStatus is persisted as the display string the mobile client
// already stores, so existing documents keep working.
type BookingStatus string

const (
	StatusNeedsApproval BookingStatus = "Needs Approval"
	StatusApproved      BookingStatus = "Approved"
	StatusDeclined      BookingStatus = "Declined"
)

// Booking is the store-owned record of a renter's request against one
// of the owner's listings. This service never mutates it except through
// the two lifecycle transitions; ConfirmationCode is set iff Approved.
type Booking struct {
	ID               string        `json:"id"`
	OwnerID          string        `json:"owner_id"`
	VehicleName      string        `json:"vehicle_name"`
	VehicleImageURL  string        `json:"vehicle_image_url"`
	BookingDate      string        `json:"booking_date"`
	LicensePlate     string        `json:"license_plate"`
	RentalPrice      string        `json:"rental_price"`
	RenterName       string        `json:"renter_name"`
	RenterPhotoURL   string        `json:"renter_photo_url"`
	Status           BookingStatus `json:"booking_status"`
	ConfirmationCode string        `json:"confirmation_code,omitempty"`
}

// BookingEvent is published to Kafka after a successful transition.
type BookingEvent struct {
	BookingID string        `json:"booking_id"`
	OwnerID   string        `json:"owner_id"`
	Status    BookingStatus `json:"status"`
	At        time.Time     `json:"at"`
}
