package queries

import (
	"context"

	"campus-library/internal/domain/loan"
	"campus-library/internal/pkg/errs"
)

var ErrInvalidLoanStatus = errs.New("invalid loan status filter")

type LoanListParams struct {
	Status string
	Page   int32
	Limit  int32
}

type LoanQueries interface {
	List(ctx context.Context, params LoanListParams) (*LoanList, error)
}

type LoanReadStore interface {
	List(ctx context.Context, status string, limit, offset int32) ([]*LoanListItem, int64, error)
}

type loanQueriesImpl struct {
	readStore LoanReadStore
}

func NewLoanQueries(readStore LoanReadStore) LoanQueries {
	return &loanQueriesImpl{readStore: readStore}
}

func (q *loanQueriesImpl) List(ctx context.Context, params LoanListParams) (*LoanList, error) {
	if params.Status != "" {
		if _, err := loan.NewStatus(params.Status); err != nil {
			return nil, ErrInvalidLoanStatus
		}
	}
	if params.Page < 1 {
		params.Page = 1
	}
	if params.Limit < 1 || params.Limit > 100 {
		params.Limit = 20
	}

	items, total, err := q.readStore.List(ctx, params.Status, params.Limit, (params.Page-1)*params.Limit)
	if err != nil {
		return nil, err
	}

	return &LoanList{
		Items: items,
		Total: total,
		Page:  params.Page,
		Limit: params.Limit,
	}, nil
}
