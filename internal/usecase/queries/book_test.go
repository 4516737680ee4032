//go:build unit

package queries_test

import (
	"context"
	"testing"

	"campus-library/internal/usecase/queries"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBookSearchParamsNormalize(t *testing.T) {
	cases := []struct {
		name     string
		in       queries.BookSearchParams
		wantSort string
		wantPage int32
		wantLim  int32
	}{
		{
			name:     "zero values get defaults",
			in:       queries.BookSearchParams{},
			wantSort: "title",
			wantPage: 1,
			wantLim:  20,
		},
		{
			name:     "valid sort key kept",
			in:       queries.BookSearchParams{SortBy: "borrow_count", Page: 3, Limit: 50},
			wantSort: "borrow_count",
			wantPage: 3,
			wantLim:  50,
		},
		{
			name:     "unknown sort key falls back to title",
			in:       queries.BookSearchParams{SortBy: "isbn; DROP TABLE books"},
			wantSort: "title",
			wantPage: 1,
			wantLim:  20,
		},
		{
			name:     "limit above cap resets",
			in:       queries.BookSearchParams{Limit: 500},
			wantSort: "title",
			wantPage: 1,
			wantLim:  20,
		},
		{
			name:     "negative page resets",
			in:       queries.BookSearchParams{Page: -2},
			wantSort: "title",
			wantPage: 1,
			wantLim:  20,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			want := tc.in
			want.SortBy = tc.wantSort
			want.Page = tc.wantPage
			want.Limit = tc.wantLim

			tc.in.Normalize()
			if diff := cmp.Diff(want, tc.in); diff != "" {
				t.Errorf("params mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

type stubBookReadStore struct {
	searchFn func(ctx context.Context, params queries.BookSearchParams) ([]*queries.BookListItem, int64, error)
}

func (s *stubBookReadStore) Search(ctx context.Context, params queries.BookSearchParams) ([]*queries.BookListItem, int64, error) {
	return s.searchFn(ctx, params)
}

func (s *stubBookReadStore) FindByID(context.Context, uuid.UUID) (*queries.BookView, error) {
	return nil, nil
}

func TestBookList(t *testing.T) {
	store := &stubBookReadStore{
		searchFn: func(_ context.Context, params queries.BookSearchParams) ([]*queries.BookListItem, int64, error) {
			// normalized before hitting the readstore
			assert.Equal(t, "title", params.SortBy)
			assert.Equal(t, int32(1), params.Page)
			return []*queries.BookListItem{{Title: "SICP"}}, 1, nil
		},
	}

	q := queries.NewBookQueries(store)
	list, err := q.List(context.Background(), queries.BookSearchParams{SortBy: "bogus"})
	require.NoError(t, err)

	assert.Equal(t, int64(1), list.Total)
	require.Len(t, list.Items, 1)
	assert.Equal(t, "SICP", list.Items[0].Title)
}
