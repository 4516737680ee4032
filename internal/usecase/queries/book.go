package queries

import (
	"context"

	"campus-library/internal/infra"
	"campus-library/internal/pkg/errs"

	"github.com/google/uuid"
)

var ErrBookNotFound = errs.New("book not found")

// Sort keys are whitelisted here so readstores never see raw user input
// in an ORDER BY clause.
const (
	BookSortTitle           = "title"
	BookSortPublicationYear = "publication_year"
	BookSortBorrowCount     = "borrow_count"
)

type BookSearchParams struct {
	Search    string
	Genre     string
	Author    string
	Available *bool
	SortBy    string
	SortDesc  bool
	Page      int32
	Limit     int32
}

func (p *BookSearchParams) Normalize() {
	switch p.SortBy {
	case BookSortTitle, BookSortPublicationYear, BookSortBorrowCount:
	default:
		p.SortBy = BookSortTitle
	}
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit < 1 || p.Limit > 100 {
		p.Limit = 20
	}
}

type BookQueries interface {
	List(ctx context.Context, params BookSearchParams) (*BookList, error)
	GetByID(ctx context.Context, id uuid.UUID) (*BookView, error)
}

type BookReadStore interface {
	Search(ctx context.Context, params BookSearchParams) ([]*BookListItem, int64, error)
	FindByID(ctx context.Context, id uuid.UUID) (*BookView, error)
}

type bookQueriesImpl struct {
	readStore BookReadStore
}

func NewBookQueries(readStore BookReadStore) BookQueries {
	return &bookQueriesImpl{readStore: readStore}
}

func (q *bookQueriesImpl) List(ctx context.Context, params BookSearchParams) (*BookList, error) {
	params.Normalize()

	items, total, err := q.readStore.Search(ctx, params)
	if err != nil {
		return nil, err
	}

	return &BookList{
		Items: items,
		Total: total,
		Page:  params.Page,
		Limit: params.Limit,
	}, nil
}

func (q *bookQueriesImpl) GetByID(ctx context.Context, id uuid.UUID) (*BookView, error) {
	view, err := q.readStore.FindByID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrBookNotFound
		}
		return nil, err
	}

	return view, nil
}
