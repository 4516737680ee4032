package readstore

import (
	"context"

	"campus-library/internal/infra"
	"campus-library/internal/infra/db"
	"campus-library/internal/pkg/pgconv"
	"campus-library/internal/usecase/queries"

	"github.com/jackc/pgx/v5/pgtype"
)

type LoanReadStore struct {
	db db.DBTX
}

func NewLoanReadStore(dbtx db.DBTX) *LoanReadStore {
	return &LoanReadStore{db: dbtx}
}

const loanListSelect = `
	SELECT l.id, l.book_copy_id, c.book_id, b.title, l.member_id, m.name,
		l.loan_date, l.due_date, l.return_date, l.status, l.fine_amount
	FROM loans l
	JOIN book_copies c ON c.id = l.book_copy_id
	JOIN books b ON b.id = c.book_id
	JOIN members m ON m.id = l.member_id`

func (r *LoanReadStore) List(ctx context.Context, status string, limit, offset int32) ([]*queries.LoanListItem, int64, error) {
	countQuery := `SELECT count(*) FROM loans`
	listQuery := loanListSelect + ` ORDER BY l.loan_date DESC, l.id ASC LIMIT $1 OFFSET $2`
	countArgs := []any{}
	listArgs := []any{limit, offset}

	if status != "" {
		countQuery = `SELECT count(*) FROM loans WHERE status = $1`
		listQuery = loanListSelect + ` WHERE l.status = $1 ORDER BY l.loan_date DESC, l.id ASC LIMIT $2 OFFSET $3`
		countArgs = []any{status}
		listArgs = []any{status, limit, offset}
	}

	var total int64
	if err := r.db.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, infra.WrapRepoErr("failed to count loans", err)
	}

	rows, err := r.db.Query(ctx, listQuery, listArgs...)
	if err != nil {
		return nil, 0, infra.WrapRepoErr("failed to list loans", err)
	}
	defer rows.Close()

	var items []*queries.LoanListItem
	for rows.Next() {
		item, err := scanLoanListItem(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, infra.WrapRepoErr("failed to read loan rows", err)
	}

	return items, total, nil
}

func scanLoanListItem(row rowScanner) (*queries.LoanListItem, error) {
	var (
		item       queries.LoanListItem
		loanDate   pgtype.Timestamptz
		dueDate    pgtype.Timestamptz
		returnDate pgtype.Timestamptz
		fine       pgtype.Numeric
	)
	err := row.Scan(
		&item.ID, &item.BookCopyID, &item.BookID, &item.BookTitle,
		&item.MemberID, &item.MemberName,
		&loanDate, &dueDate, &returnDate, &item.Status, &fine,
	)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to scan loan row", err)
	}

	cents, err := pgconv.CentsFromNumeric(fine)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to convert loan fine", err)
	}
	item.FineAmount = float64(cents) / 100
	item.LoanDate = pgconv.TimeFromPgtype(loanDate)
	item.DueDate = pgconv.TimeFromPgtype(dueDate)
	item.ReturnDate = pgconv.TimePtrFromPgtype(returnDate)

	return &item, nil
}
