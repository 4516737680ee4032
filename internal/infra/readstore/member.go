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

type MemberReadStore struct {
	db db.DBTX
}

func NewMemberReadStore(dbtx db.DBTX) *MemberReadStore {
	return &MemberReadStore{db: dbtx}
}

func (r *MemberReadStore) List(ctx context.Context, limit, offset int32) ([]*queries.MemberView, int64, error) {
	var total int64
	if err := r.db.QueryRow(ctx, `SELECT count(*) FROM members`).Scan(&total); err != nil {
		return nil, 0, infra.WrapRepoErr("failed to count members", err)
	}

	const query = `
		SELECT id, name, email, phone, status, max_loans, current_loans, total_fines, created_at
		FROM members
		ORDER BY name ASC, id ASC
		LIMIT $1 OFFSET $2`

	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, infra.WrapRepoErr("failed to list members", err)
	}
	defer rows.Close()

	var views []*queries.MemberView
	for rows.Next() {
		view, err := scanMemberView(rows)
		if err != nil {
			return nil, 0, err
		}
		views = append(views, view)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, infra.WrapRepoErr("failed to read member rows", err)
	}

	return views, total, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMemberView(row rowScanner) (*queries.MemberView, error) {
	var (
		view      queries.MemberView
		fines     pgtype.Numeric
		createdAt pgtype.Timestamptz
	)
	err := row.Scan(
		&view.ID, &view.Name, &view.Email, &view.Phone, &view.Status,
		&view.MaxLoans, &view.CurrentLoans, &fines, &createdAt,
	)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to scan member row", err)
	}

	cents, err := pgconv.CentsFromNumeric(fines)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to convert member fines", err)
	}
	view.TotalFines = float64(cents) / 100
	view.CreatedAt = pgconv.TimeFromPgtype(createdAt)

	return &view, nil
}

func (r *MemberReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.MemberDetailView, error) {
	const query = `
		SELECT id, name, email, phone, status, max_loans, current_loans, total_fines, created_at
		FROM members
		WHERE id = $1`

	row := r.db.QueryRow(ctx, query, id)
	view, err := scanMemberView(row)
	if err != nil {
		return nil, err
	}

	loans, err := r.findLoans(ctx, id)
	if err != nil {
		return nil, err
	}

	return &queries.MemberDetailView{MemberView: *view, Loans: loans}, nil
}

func (r *MemberReadStore) findLoans(ctx context.Context, memberID uuid.UUID) ([]*queries.LoanListItem, error) {
	const query = `
		SELECT l.id, l.book_copy_id, c.book_id, b.title, l.member_id, m.name,
			l.loan_date, l.due_date, l.return_date, l.status, l.fine_amount
		FROM loans l
		JOIN book_copies c ON c.id = l.book_copy_id
		JOIN books b ON b.id = c.book_id
		JOIN members m ON m.id = l.member_id
		WHERE l.member_id = $1
		ORDER BY l.loan_date DESC`

	rows, err := r.db.Query(ctx, query, memberID)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find member loans", err)
	}
	defer rows.Close()

	var items []*queries.LoanListItem
	for rows.Next() {
		item, err := scanLoanListItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read member loan rows", err)
	}

	return items, nil
}
