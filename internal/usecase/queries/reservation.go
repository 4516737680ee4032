package queries

import (
	"context"

	"campus-library/internal/infra"
	"campus-library/internal/pkg/errs"

	"github.com/google/uuid"
)

var ErrReservationNotFound = errs.New("reservation not found")

type ReservationQueries interface {
	List(ctx context.Context) ([]*ReservationView, error)
	ListByBook(ctx context.Context, bookID uuid.UUID) ([]*ReservationView, error)
	GetByID(ctx context.Context, id uuid.UUID) (*ReservationView, error)
}

type ReservationReadStore interface {
	List(ctx context.Context) ([]*ReservationView, error)
	// FindPendingByBook returns the pending queue in FIFO order.
	FindPendingByBook(ctx context.Context, bookID uuid.UUID) ([]*ReservationView, error)
	FindByID(ctx context.Context, id uuid.UUID) (*ReservationView, error)
}

type reservationQueriesImpl struct {
	readStore ReservationReadStore
}

func NewReservationQueries(readStore ReservationReadStore) ReservationQueries {
	return &reservationQueriesImpl{readStore: readStore}
}

func (q *reservationQueriesImpl) List(ctx context.Context) ([]*ReservationView, error) {
	return q.readStore.List(ctx)
}

func (q *reservationQueriesImpl) ListByBook(ctx context.Context, bookID uuid.UUID) ([]*ReservationView, error) {
	return q.readStore.FindPendingByBook(ctx, bookID)
}

func (q *reservationQueriesImpl) GetByID(ctx context.Context, id uuid.UUID) (*ReservationView, error) {
	view, err := q.readStore.FindByID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrReservationNotFound
		}
		return nil, err
	}

	return view, nil
}
