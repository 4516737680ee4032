package commands

import (
	"context"
	"log/slog"

	"campus-library/internal/domain/reservation"
	reqdto "campus-library/internal/handler/dto/request"
	"campus-library/internal/infra"
	"campus-library/internal/pkg/clock"
	"campus-library/internal/pkg/errs"
	"campus-library/internal/usecase/shared"

	"github.com/google/uuid"
)

var (
	ErrBookNotFound        = errs.New("book not found")
	ErrBookAvailable       = errs.New("book has available copies")
	ErrDuplicatePending    = errs.New("member already has a pending reservation for this book")
	ErrReservationNotFound = errs.New("reservation not found")
	ErrNotPending          = errs.New("reservation is not pending")
)

type ReservationCommands interface {
	CreateReservation(ctx context.Context, req reqdto.CreateReservationRequest) (uuid.UUID, error)
	CancelReservation(ctx context.Context, id uuid.UUID) error
	ExpireOverdue(ctx context.Context) (int64, error)
}

type reservationCommandsImpl struct {
	uow   shared.UnitOfWork
	clock clock.Clock
}

func NewReservationCommands(uow shared.UnitOfWork, clk clock.Clock) ReservationCommands {
	return &reservationCommandsImpl{uow: uow, clock: clk}
}

// CreateReservation places a hold on a book that currently has no available
// copies. Available books are borrowed directly, not reserved.
func (c *reservationCommandsImpl) CreateReservation(ctx context.Context, req reqdto.CreateReservationRequest) (uuid.UUID, error) {
	var reservationID uuid.UUID

	err := c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		reads := tx.Reads()

		exists, err := reads.BookExists(ctx, req.BookID)
		if err != nil {
			return err
		}
		if !exists {
			return ErrBookNotFound
		}

		if _, err := reads.MemberByID(ctx, req.MemberID); err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return ErrMemberNotFound
			}
			return err
		}

		available, err := reads.AvailableCopyCount(ctx, req.BookID)
		if err != nil {
			return err
		}
		if available > 0 {
			return ErrBookAvailable
		}

		duplicate, err := reads.HasPendingReservation(ctx, req.BookID, req.MemberID)
		if err != nil {
			return err
		}
		if duplicate {
			return ErrDuplicatePending
		}

		res := reservation.NewReservation(req.BookID, req.MemberID, c.clock.Now())

		reservationID, err = tx.Reservations().Create(ctx, tx.DB(), res)
		if err != nil {
			// The partial unique index backs up the read-then-insert check
			// under concurrency.
			if infra.IsKind(err, infra.KindDuplicateKey) {
				return ErrDuplicatePending
			}
			return err
		}

		return nil
	})
	if err != nil {
		return uuid.Nil, err
	}

	return reservationID, nil
}

func (c *reservationCommandsImpl) CancelReservation(ctx context.Context, id uuid.UUID) error {
	return c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		snap, err := tx.Reads().ReservationByID(ctx, id)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return ErrReservationNotFound
			}
			return err
		}

		status, err := reservation.NewStatus(snap.Status)
		if err != nil {
			return err
		}

		res := reservation.ReconstructReservation(
			snap.ID, snap.BookID, snap.MemberID,
			snap.ReservationDate, status, snap.ExpiryDate,
		)
		if err := res.Cancel(); err != nil {
			return errs.Mark(err, ErrNotPending)
		}

		return tx.Reservations().UpdateStatus(ctx, tx.DB(), id, res.Status())
	})
}

// ExpireOverdue lapses pending reservations whose hold window has passed.
// Pending reservations hold no copy, so nothing else changes.
func (c *reservationCommandsImpl) ExpireOverdue(ctx context.Context) (int64, error) {
	var expired int64

	err := c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		bookIDs, err := tx.Reservations().ExpirePending(ctx, tx.DB(), c.clock.Now())
		if err != nil {
			return err
		}
		expired = int64(len(bookIDs))
		return nil
	})
	if err != nil {
		return 0, err
	}

	if expired > 0 {
		slog.Info("expired pending reservations", "count", expired)
	}

	return expired, nil
}
