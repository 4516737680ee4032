package readstore

import (
	"context"
	"fmt"
	"strings"

	"campus-library/internal/infra"
	"campus-library/internal/infra/db"
	"campus-library/internal/pkg/pgconv"
	"campus-library/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type BookReadStore struct {
	db db.DBTX
}

func NewBookReadStore(dbtx db.DBTX) *BookReadStore {
	return &BookReadStore{db: dbtx}
}

const bookListSelect = `
	SELECT
		b.id, b.title, b.isbn, b.publisher, b.publication_year, b.created_at,
		coalesce(array_agg(DISTINCT a.name) FILTER (WHERE a.name IS NOT NULL), '{}') AS authors,
		coalesce(array_agg(DISTINCT g.name) FILTER (WHERE g.name IS NOT NULL), '{}') AS genres,
		count(DISTINCT c.id) AS total_copies,
		count(DISTINCT c.id) FILTER (WHERE c.status = 'available') AS available_copies,
		(SELECT count(*) FROM loans l
			JOIN book_copies bc ON bc.id = l.book_copy_id
			WHERE bc.book_id = b.id) AS borrow_count
	FROM books b
	LEFT JOIN book_authors ba ON ba.book_id = b.id
	LEFT JOIN authors a ON a.id = ba.author_id
	LEFT JOIN book_genres bg ON bg.book_id = b.id
	LEFT JOIN genres g ON g.id = bg.genre_id
	LEFT JOIN book_copies c ON c.book_id = b.id`

func (r *BookReadStore) Search(ctx context.Context, params queries.BookSearchParams) ([]*queries.BookListItem, int64, error) {
	where, having, args := buildBookFilters(params)

	countQuery := fmt.Sprintf(`
		SELECT count(*) FROM (%s%s GROUP BY b.id%s) AS matched`,
		bookListSelect, where, having)

	var total int64
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, infra.WrapRepoErr("failed to count books", err)
	}

	limitPos := len(args) + 1
	listQuery := fmt.Sprintf(`%s%s GROUP BY b.id%s ORDER BY %s LIMIT $%d OFFSET $%d`,
		bookListSelect, where, having, bookOrderClause(params), limitPos, limitPos+1)
	args = append(args, params.Limit, (params.Page-1)*params.Limit)

	rows, err := r.db.Query(ctx, listQuery, args...)
	if err != nil {
		return nil, 0, infra.WrapRepoErr("failed to search books", err)
	}
	defer rows.Close()

	var items []*queries.BookListItem
	for rows.Next() {
		var (
			item      queries.BookListItem
			createdAt pgtype.Timestamptz
		)
		if err := rows.Scan(
			&item.ID, &item.Title, &item.ISBN, &item.Publisher, &item.PublicationYear,
			&createdAt, &item.Authors, &item.Genres,
			&item.TotalCopies, &item.AvailableCopies, &item.BorrowCount,
		); err != nil {
			return nil, 0, infra.WrapRepoErr("failed to scan book row", err)
		}
		item.CreatedAt = pgconv.TimeFromPgtype(createdAt)
		items = append(items, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, infra.WrapRepoErr("failed to read book rows", err)
	}

	return items, total, nil
}

func buildBookFilters(params queries.BookSearchParams) (where, having string, args []any) {
	var conds []string

	if params.Search != "" {
		pattern := "%" + params.Search + "%"
		args = append(args, pattern)
		p := len(args)
		conds = append(conds, fmt.Sprintf(`(b.title ILIKE $%d OR b.isbn ILIKE $%d OR b.publisher ILIKE $%d
			OR EXISTS (SELECT 1 FROM book_authors sba JOIN authors sa ON sa.id = sba.author_id
				WHERE sba.book_id = b.id AND sa.name ILIKE $%d))`, p, p, p, p))
	}
	if params.Genre != "" {
		args = append(args, params.Genre)
		conds = append(conds, fmt.Sprintf(`EXISTS (SELECT 1 FROM book_genres sbg
			JOIN genres sg ON sg.id = sbg.genre_id
			WHERE sbg.book_id = b.id AND sg.name ILIKE $%d)`, len(args)))
	}
	if params.Author != "" {
		args = append(args, "%"+params.Author+"%")
		conds = append(conds, fmt.Sprintf(`EXISTS (SELECT 1 FROM book_authors sba
			JOIN authors sa ON sa.id = sba.author_id
			WHERE sba.book_id = b.id AND sa.name ILIKE $%d)`, len(args)))
	}

	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	if params.Available != nil {
		if *params.Available {
			having = " HAVING count(DISTINCT c.id) FILTER (WHERE c.status = 'available') > 0"
		} else {
			having = " HAVING count(DISTINCT c.id) FILTER (WHERE c.status = 'available') = 0"
		}
	}

	return where, having, args
}

// bookOrderClause only ever interpolates whitelisted column names; raw user
// input never reaches it.
func bookOrderClause(params queries.BookSearchParams) string {
	col := map[string]string{
		queries.BookSortTitle:           "b.title",
		queries.BookSortPublicationYear: "b.publication_year",
		queries.BookSortBorrowCount:     "borrow_count",
	}[params.SortBy]
	if col == "" {
		col = "b.title"
	}

	dir := "ASC"
	if params.SortDesc {
		dir = "DESC"
	}

	return col + " " + dir + ", b.id ASC"
}

func (r *BookReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.BookView, error) {
	query := bookListSelect + ` WHERE b.id = $1 GROUP BY b.id`

	var (
		view      queries.BookView
		createdAt pgtype.Timestamptz
	)
	err := r.db.QueryRow(ctx, query, id).Scan(
		&view.ID, &view.Title, &view.ISBN, &view.Publisher, &view.PublicationYear,
		&createdAt, &view.Authors, &view.Genres,
		&view.TotalCopies, &view.AvailableCopies, &view.BorrowCount,
	)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("book not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find book by ID", err)
	}
	view.CreatedAt = pgconv.TimeFromPgtype(createdAt)

	copies, err := r.findCopies(ctx, id)
	if err != nil {
		return nil, err
	}
	view.Copies = copies

	recent, err := r.findRecentLoans(ctx, id)
	if err != nil {
		return nil, err
	}
	view.RecentLoans = recent

	return &view, nil
}

func (r *BookReadStore) findCopies(ctx context.Context, bookID uuid.UUID) ([]*queries.CopyView, error) {
	const query = `
		SELECT id, status, condition, location
		FROM book_copies
		WHERE book_id = $1
		ORDER BY created_at ASC, id ASC`

	rows, err := r.db.Query(ctx, query, bookID)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find book copies", err)
	}
	defer rows.Close()

	var copies []*queries.CopyView
	for rows.Next() {
		var (
			cv       queries.CopyView
			location pgtype.Text
		)
		if err := rows.Scan(&cv.ID, &cv.Status, &cv.Condition, &location); err != nil {
			return nil, infra.WrapRepoErr("failed to scan book copy row", err)
		}
		cv.Location = pgconv.StringPtrFromPgtype(location)
		copies = append(copies, &cv)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read book copy rows", err)
	}

	return copies, nil
}

func (r *BookReadStore) findRecentLoans(ctx context.Context, bookID uuid.UUID) ([]*queries.LoanHistoryEntry, error) {
	const query = `
		SELECT l.id, m.name, l.loan_date, l.due_date, l.return_date, l.status
		FROM loans l
		JOIN book_copies c ON c.id = l.book_copy_id
		JOIN members m ON m.id = l.member_id
		WHERE c.book_id = $1
		ORDER BY l.loan_date DESC
		LIMIT 10`

	rows, err := r.db.Query(ctx, query, bookID)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find book loan history", err)
	}
	defer rows.Close()

	var entries []*queries.LoanHistoryEntry
	for rows.Next() {
		var (
			entry      queries.LoanHistoryEntry
			loanDate   pgtype.Timestamptz
			dueDate    pgtype.Timestamptz
			returnDate pgtype.Timestamptz
		)
		if err := rows.Scan(&entry.ID, &entry.MemberName, &loanDate, &dueDate, &returnDate, &entry.Status); err != nil {
			return nil, infra.WrapRepoErr("failed to scan loan history row", err)
		}
		entry.LoanDate = pgconv.TimeFromPgtype(loanDate)
		entry.DueDate = pgconv.TimeFromPgtype(dueDate)
		entry.ReturnDate = pgconv.TimePtrFromPgtype(returnDate)
		entries = append(entries, &entry)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read loan history rows", err)
	}

	return entries, nil
}
