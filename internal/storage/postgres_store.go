package storage

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq"

	"github.com/example/carshare/internal/models"
)

// PostgresStore persists listings and bookings. Booking change
// notifications ride on LISTEN/NOTIFY (see postgres_feed.go); the
// migrations install a trigger that fires pg_notify with the owner id
// on every bookings insert or update.
type PostgresStore struct {
	db   *sql.DB
	feed *pgFeed
}

func NewPostgresStore(dsn string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}
	// quick ping
	if err := db.Ping(); err != nil {
		return nil, err
	}
	return &PostgresStore{db: db, feed: newPGFeed(dsn)}, nil
}

func (p *PostgresStore) Close() error {
	p.feed.close()
	return p.db.Close()
}

func (p *PostgresStore) InsertListing(ctx context.Context, l *models.Listing) (string, error) {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	_, err := p.db.ExecContext(ctx, `INSERT INTO listings(
		id, vehicle_name, photo_url, seating_capacity, horsepower, acceleration,
		license_plate, rental_price, pickup_location, latitude, longitude, city,
		owner_id, owner_email, owner_name, owner_photo_url, created_at)
		VALUES($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17)`,
		l.ID, l.VehicleName, l.ListingDraft.PhotoURL, l.SeatingCapacity, l.Horsepower, l.Acceleration,
		l.LicensePlate, l.RentalPrice, l.PickupLocation, l.Latitude, l.Longitude, l.City,
		l.OwnerIdentity.ID, l.Email, l.Name, l.OwnerIdentity.PhotoURL, time.Now())
	if err != nil {
		return "", err
	}
	return l.ID, nil
}

func (p *PostgresStore) InsertBooking(ctx context.Context, b *models.Booking) (string, error) {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	_, err := p.db.ExecContext(ctx, `INSERT INTO bookings(
		id, owner_id, vehicle_name, vehicle_image_url, booking_date, license_plate,
		rental_price, renter_name, renter_photo_url, booking_status, confirmation_code)
		VALUES($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,NULLIF($11,''))`,
		b.ID, b.OwnerID, b.VehicleName, b.VehicleImageURL, b.BookingDate, b.LicensePlate,
		b.RentalPrice, b.RenterName, b.RenterPhotoURL, b.Status, b.ConfirmationCode)
	if err != nil {
		return "", err
	}
	return b.ID, nil
}

const bookingColumns = `id, owner_id, vehicle_name, vehicle_image_url, booking_date,
	license_plate, rental_price, renter_name, renter_photo_url, booking_status,
	COALESCE(confirmation_code, '')`

func (p *PostgresStore) GetBooking(ctx context.Context, id string) (*models.Booking, error) {
	row := p.db.QueryRowContext(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE id=$1`, id)
	var b models.Booking
	if err := scanBooking(row, &b); err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &b, nil
}

func (p *PostgresStore) BookingsByOwner(ctx context.Context, ownerID string) ([]models.Booking, error) {
	rows, err := p.db.QueryContext(ctx,
		`SELECT `+bookingColumns+` FROM bookings WHERE owner_id=$1 ORDER BY id`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]models.Booking, 0)
	for rows.Next() {
		var b models.Booking
		if err := scanBooking(rows, &b); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBooking(r rowScanner, b *models.Booking) error {
	return r.Scan(&b.ID, &b.OwnerID, &b.VehicleName, &b.VehicleImageURL, &b.BookingDate,
		&b.LicensePlate, &b.RentalPrice, &b.RenterName, &b.RenterPhotoURL, &b.Status,
		&b.ConfirmationCode)
}

func (p *PostgresStore) TransitionBooking(ctx context.Context, id string, from, to models.BookingStatus, code string) error {
	res, err := p.db.ExecContext(ctx,
		`UPDATE bookings SET booking_status=$1, confirmation_code=COALESCE(NULLIF($2,''), confirmation_code)
		 WHERE id=$3 AND booking_status=$4`,
		to, code, id, from)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		if _, err := p.GetBooking(ctx, id); err != nil {
			return err
		}
		return ErrConflict
	}
	return nil
}

func (p *PostgresStore) WatchBookings(ownerID string, fn func()) func() {
	return p.feed.watch(ownerID, fn)
}
