package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Yajiroobe/SAE-VISION360/internal/core/domain"
)

type ReservationRepository struct {
	db *sql.DB
}

func NewReservationRepository(db *sql.DB) *ReservationRepository {
	return &ReservationRepository{db: db}
}

func (r *ReservationRepository) Create(ctx context.Context, res *domain.Reservation) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO reservations (
	id, origin, destination, departure_at, passenger_name, passenger_profile, status, created_at, updated_at
) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
`,
		res.ID, res.Origin, res.Destination, res.DepartureAt,
		res.Passenger.Name, res.Passenger.PMRProfile, string(res.Status),
		res.CreatedAt, res.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert reservation: %w", err)
	}
	return nil
}

func (r *ReservationRepository) GetByID(ctx context.Context, id string) (*domain.Reservation, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT id, origin, destination, departure_at, passenger_name, passenger_profile, status, created_at, updated_at
FROM reservations
WHERE id = $1
`, id)

	res, err := scanReservation(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.WrapError(domain.ErrNotFound, "get reservation", fmt.Errorf("reservation not found: %s", id))
		}
		return nil, err
	}
	return res, nil
}

func (r *ReservationRepository) List(ctx context.Context) ([]domain.Reservation, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT id, origin, destination, departure_at, passenger_name, passenger_profile, status, created_at, updated_at
FROM reservations
ORDER BY departure_at ASC
`)
	if err != nil {
		return nil, fmt.Errorf("list reservations: %w", err)
	}
	defer rows.Close()

	out := make([]domain.Reservation, 0)
	for rows.Next() {
		res, err := scanReservation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *res)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate reservations: %w", err)
	}
	return out, nil
}

func (r *ReservationRepository) UpdateStatus(ctx context.Context, id string, status domain.ReservationStatus) error {
	result, err := r.db.ExecContext(ctx, `
UPDATE reservations
SET status = $2, updated_at = $3
WHERE id = $1
`, id, string(status), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("update reservation status: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update reservation status rows affected: %w", err)
	}
	if rows == 0 {
		return domain.WrapError(domain.ErrNotFound, "update reservation status", fmt.Errorf("reservation not found: %s", id))
	}
	return nil
}

type reservationScanner interface {
	Scan(dest ...interface{}) error
}

func scanReservation(row reservationScanner) (*domain.Reservation, error) {
	var res domain.Reservation
	var profile sql.NullString
	var status string

	err := row.Scan(
		&res.ID, &res.Origin, &res.Destination, &res.DepartureAt,
		&res.Passenger.Name, &profile, &status,
		&res.CreatedAt, &res.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	res.Passenger.PMRProfile = profile.String
	res.Status = domain.ReservationStatus(status)
	return &res, nil
}
