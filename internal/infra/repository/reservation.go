package repository

import (
	"context"
	"time"

	"campus-library/internal/domain/reservation"
	"campus-library/internal/infra"
	"campus-library/internal/infra/db"
	"campus-library/internal/pkg/pgconv"

	"github.com/google/uuid"
)

type ReservationRepository struct{}

func NewReservationRepository() *ReservationRepository {
	return &ReservationRepository{}
}

func (r *ReservationRepository) Create(ctx context.Context, tx db.DBTX, res *reservation.Reservation) (uuid.UUID, error) {
	const query = `
		INSERT INTO reservations (id, book_id, member_id, reservation_date, status, expiry_date)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`

	var id uuid.UUID
	err := tx.QueryRow(ctx, query,
		res.ID(),
		res.BookID(),
		res.MemberID(),
		pgconv.TimeToPgtype(res.ReservationDate()),
		string(res.Status()),
		pgconv.TimeToPgtype(res.ExpiryDate()),
	).Scan(&id)
	if err != nil {
		return uuid.Nil, infra.WrapRepoErr("failed to create reservation", err)
	}

	return id, nil
}

func (r *ReservationRepository) UpdateStatus(ctx context.Context, tx db.DBTX, id uuid.UUID, status reservation.Status) error {
	const query = `
		UPDATE reservations
		SET status = $2, updated_at = now()
		WHERE id = $1`

	tag, err := tx.Exec(ctx, query, id, string(status))
	if err != nil {
		return infra.WrapRepoErr("failed to update reservation status", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("reservation not found", nil, infra.KindNotFound)
	}

	return nil
}

// ExpirePending flips pending reservations whose hold window has lapsed and
// returns the ids of affected book rows so held copies can be released.
func (r *ReservationRepository) ExpirePending(ctx context.Context, tx db.DBTX, now time.Time) ([]uuid.UUID, error) {
	const query = `
		UPDATE reservations
		SET status = 'expired', updated_at = now()
		WHERE status = 'pending' AND expiry_date < $1
		RETURNING book_id`

	rows, err := tx.Query(ctx, query, pgconv.TimeToPgtype(now))
	if err != nil {
		return nil, infra.WrapRepoErr("failed to expire pending reservations", err)
	}
	defer rows.Close()

	var bookIDs []uuid.UUID
	for rows.Next() {
		var bookID uuid.UUID
		if err := rows.Scan(&bookID); err != nil {
			return nil, infra.WrapRepoErr("failed to scan expired reservation row", err)
		}
		bookIDs = append(bookIDs, bookID)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read expired reservation rows", err)
	}

	return bookIDs, nil
}
