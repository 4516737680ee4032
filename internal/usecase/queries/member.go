package queries

import (
	"context"
	"errors"

	"campus-library/internal/domain/member"
	"campus-library/internal/infra"
	"campus-library/internal/pkg/errs"
	"campus-library/internal/usecase/shared"

	"github.com/google/uuid"
)

var ErrMemberNotFound = errs.New("member not found")

type MemberQueries interface {
	List(ctx context.Context, page, limit int32) ([]*MemberView, int64, error)
	GetByID(ctx context.Context, id uuid.UUID) (*MemberDetailView, error)
	Eligibility(ctx context.Context, id uuid.UUID) (*EligibilityView, error)
}

type MemberReadStore interface {
	List(ctx context.Context, limit, offset int32) ([]*MemberView, int64, error)
	FindByID(ctx context.Context, id uuid.UUID) (*MemberDetailView, error)
}

type memberQueriesImpl struct {
	readStore MemberReadStore
	reads     shared.CommandReads
}

func NewMemberQueries(readStore MemberReadStore, reads shared.CommandReads) MemberQueries {
	return &memberQueriesImpl{readStore: readStore, reads: reads}
}

func (q *memberQueriesImpl) List(ctx context.Context, page, limit int32) ([]*MemberView, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	return q.readStore.List(ctx, limit, (page-1)*limit)
}

func (q *memberQueriesImpl) GetByID(ctx context.Context, id uuid.UUID) (*MemberDetailView, error) {
	view, err := q.readStore.FindByID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrMemberNotFound
		}
		return nil, err
	}

	return view, nil
}

// Eligibility applies the same borrowing rules checkout enforces, so staff
// can answer "why can't this member borrow" without attempting a loan.
func (q *memberQueriesImpl) Eligibility(ctx context.Context, id uuid.UUID) (*EligibilityView, error) {
	snap, err := q.reads.MemberByID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrMemberNotFound
		}
		return nil, err
	}

	if err := shared.CheckBorrowEligibility(snap); err != nil {
		reason := eligibilityReason(err)
		return &EligibilityView{MemberID: id, Eligible: false, Reason: &reason}, nil
	}

	return &EligibilityView{MemberID: id, Eligible: true}, nil
}

func eligibilityReason(err error) string {
	switch {
	case errors.Is(err, member.ErrSuspended):
		return "member is suspended"
	case errors.Is(err, member.ErrUnpaidFines):
		return "member has unpaid fines"
	case errors.Is(err, member.ErrAtLoanLimit):
		return "member has reached maximum loans limit"
	default:
		return err.Error()
	}
}
