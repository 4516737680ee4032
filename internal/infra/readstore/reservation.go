package readstore

import (
	"context"

	"campus-library/internal/infra"
	"campus-library/internal/infra/db"
	"campus-library/internal/pkg/pgconv"
	"campus-library/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type ReservationReadStore struct {
	db db.DBTX
}

func NewReservationReadStore(dbtx db.DBTX) *ReservationReadStore {
	return &ReservationReadStore{db: dbtx}
}

const reservationSelect = `
	SELECT r.id, r.book_id, b.title, r.member_id, m.name,
		r.reservation_date, r.status, r.expiry_date
	FROM reservations r
	JOIN books b ON b.id = r.book_id
	JOIN members m ON m.id = r.member_id`

func (r *ReservationReadStore) List(ctx context.Context) ([]*queries.ReservationView, error) {
	query := reservationSelect + ` ORDER BY r.reservation_date DESC, r.id ASC`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list reservations", err)
	}
	defer rows.Close()

	return collectReservationViews(rows)
}

func (r *ReservationReadStore) FindPendingByBook(ctx context.Context, bookID uuid.UUID) ([]*queries.ReservationView, error) {
	query := reservationSelect + `
		WHERE r.book_id = $1 AND r.status = 'pending'
		ORDER BY r.reservation_date ASC, r.id ASC`

	rows, err := r.db.Query(ctx, query, bookID)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find pending reservations", err)
	}
	defer rows.Close()

	return collectReservationViews(rows)
}

func (r *ReservationReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.ReservationView, error) {
	query := reservationSelect + ` WHERE r.id = $1`

	view, err := scanReservationView(r.db.QueryRow(ctx, query, id))
	if err != nil {
		return nil, err
	}

	return view, nil
}

type reservationRows interface {
	rowScanner
	Next() bool
	Err() error
}

func collectReservationViews(rows reservationRows) ([]*queries.ReservationView, error) {
	var views []*queries.ReservationView
	for rows.Next() {
		view, err := scanReservationView(rows)
		if err != nil {
			return nil, err
		}
		views = append(views, view)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read reservation rows", err)
	}

	return views, nil
}

func scanReservationView(row rowScanner) (*queries.ReservationView, error) {
	var (
		view     queries.ReservationView
		reserved pgtype.Timestamptz
		expiry   pgtype.Timestamptz
	)
	err := row.Scan(
		&view.ID, &view.BookID, &view.BookTitle, &view.MemberID, &view.MemberName,
		&reserved, &view.Status, &expiry,
	)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("reservation not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to scan reservation row", err)
	}

	view.ReservationDate = pgconv.TimeFromPgtype(reserved)
	view.ExpiryDate = pgconv.TimeFromPgtype(expiry)

	return &view, nil
}
