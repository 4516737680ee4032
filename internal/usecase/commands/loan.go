package commands

import (
	"context"

	"campus-library/internal/domain/book"
	"campus-library/internal/domain/loan"
	"campus-library/internal/domain/reservation"
	reqdto "campus-library/internal/handler/dto/request"
	"campus-library/internal/infra"
	"campus-library/internal/pkg/clock"
	"campus-library/internal/pkg/errs"
	"campus-library/internal/usecase/shared"

	"github.com/google/uuid"
)

var (
	ErrMemberNotFound   = errs.New("member not found")
	ErrCopyNotFound     = errs.New("book copy not found")
	ErrLoanNotFound     = errs.New("loan not found")
	ErrMemberIneligible = errs.New("member not eligible to borrow")
	ErrCopyUnavailable  = errs.New("book copy not available")
	ErrAlreadyReturned  = errs.New("loan already returned")
	ErrInvalidDueDate   = errs.New("invalid due date")
)

type ReturnLoanResult struct {
	LoanID          uuid.UUID
	FineCents       int64
	PromotedReserve *uuid.UUID
}

type LoanCommands interface {
	CreateLoan(ctx context.Context, req reqdto.CreateLoanRequest) (uuid.UUID, error)
	ReturnLoan(ctx context.Context, loanID uuid.UUID) (*ReturnLoanResult, error)
	MarkOverdue(ctx context.Context) (int64, error)
}

type loanCommandsImpl struct {
	uow   shared.UnitOfWork
	clock clock.Clock
}

func NewLoanCommands(uow shared.UnitOfWork, clk clock.Clock) LoanCommands {
	return &loanCommandsImpl{uow: uow, clock: clk}
}

// CreateLoan checks out a copy to a member. Eligibility, the copy claim,
// the loan insert and the member counter all commit or roll back together.
func (c *loanCommandsImpl) CreateLoan(ctx context.Context, req reqdto.CreateLoanRequest) (uuid.UUID, error) {
	var loanID uuid.UUID

	err := c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		reads := tx.Reads()

		memberSnap, err := reads.MemberByID(ctx, req.MemberID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return ErrMemberNotFound
			}
			return err
		}

		if err := shared.CheckBorrowEligibility(memberSnap); err != nil {
			return errs.Mark(err, ErrMemberIneligible)
		}

		if _, err := reads.CopyByID(ctx, req.BookCopyID); err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return ErrCopyNotFound
			}
			return err
		}

		ln, err := loan.NewLoan(req.BookCopyID, req.MemberID, req.DueDate, c.clock.Now())
		if err != nil {
			return errs.Mark(err, ErrInvalidDueDate)
		}

		// The conditional claim is the race guard: it wins on exactly one
		// of any concurrent checkouts for the same copy.
		claimed, err := tx.Copies().ClaimAvailable(ctx, tx.DB(), req.BookCopyID, book.CopyBorrowed)
		if err != nil {
			return err
		}
		if !claimed {
			return ErrCopyUnavailable
		}

		loanID, err = tx.Loans().Create(ctx, tx.DB(), ln)
		if err != nil {
			return err
		}

		return tx.Members().AdjustLoanCount(ctx, tx.DB(), req.MemberID, 1)
	})
	if err != nil {
		return uuid.Nil, err
	}

	return loanID, nil
}

// ReturnLoan closes a loan, settles its fine and hands the returned copy to
// the oldest pending reservation on the book, if any.
func (c *loanCommandsImpl) ReturnLoan(ctx context.Context, loanID uuid.UUID) (*ReturnLoanResult, error) {
	var result ReturnLoanResult

	err := c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		reads := tx.Reads()

		snap, err := reads.LoanByID(ctx, loanID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return ErrLoanNotFound
			}
			return err
		}

		status, err := loan.NewStatus(snap.Status)
		if err != nil {
			return err
		}

		ln := loan.ReconstructLoan(
			snap.ID, snap.CopyID, snap.MemberID,
			snap.LoanDate, snap.DueDate, snap.ReturnDate,
			status, loan.NewMoney(0),
		)

		if err := ln.Return(c.clock.Now()); err != nil {
			return errs.Mark(err, ErrAlreadyReturned)
		}

		if err := tx.Loans().Update(ctx, tx.DB(), ln); err != nil {
			// A concurrent return won the conditional update first.
			if infra.IsKind(err, infra.KindConflict) {
				return ErrAlreadyReturned
			}
			return err
		}

		if err := tx.Members().AdjustLoanCount(ctx, tx.DB(), snap.MemberID, -1); err != nil {
			return err
		}

		fine := ln.FineAmount()
		if !fine.IsZero() {
			if err := tx.Members().AddFine(ctx, tx.DB(), snap.MemberID, fine.Cents()); err != nil {
				return err
			}
		}

		result.LoanID = snap.ID
		result.FineCents = fine.Cents()

		return c.handOffCopy(ctx, tx, snap.BookID, snap.CopyID, &result)
	})
	if err != nil {
		return nil, err
	}

	return &result, nil
}

// handOffCopy promotes the FIFO head of the book's pending queue onto the
// returned copy, or releases the copy when the queue is empty.
func (c *loanCommandsImpl) handOffCopy(ctx context.Context, tx shared.Tx, bookID, copyID uuid.UUID, result *ReturnLoanResult) error {
	next, err := tx.Reads().OldestPendingReservation(ctx, bookID)
	if err != nil {
		return err
	}

	if next == nil {
		return tx.Copies().SetStatus(ctx, tx.DB(), copyID, book.CopyAvailable)
	}

	status, err := reservation.NewStatus(next.Status)
	if err != nil {
		return err
	}
	res := reservation.ReconstructReservation(next.ID, next.BookID, next.MemberID, next.ReservationDate, status, next.ExpiryDate)
	if err := res.Fulfill(); err != nil {
		return err
	}

	if err := tx.Reservations().UpdateStatus(ctx, tx.DB(), res.ID(), res.Status()); err != nil {
		return err
	}
	if err := tx.Copies().SetStatus(ctx, tx.DB(), copyID, book.CopyReserved); err != nil {
		return err
	}

	result.PromotedReserve = &next.ID
	return nil
}

// MarkOverdue flips active loans past their due date. The sweeper runs it
// between requests so list filters and fine math see the real state.
func (c *loanCommandsImpl) MarkOverdue(ctx context.Context) (int64, error) {
	var flipped int64

	err := c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		n, err := tx.Loans().MarkOverdue(ctx, tx.DB(), c.clock.Now())
		if err != nil {
			return err
		}
		flipped = n
		return nil
	})
	if err != nil {
		return 0, err
	}

	return flipped, nil
}
