package repository

import (
	"context"
	"time"

	"campus-library/internal/domain/loan"
	"campus-library/internal/infra"
	"campus-library/internal/infra/db"
	"campus-library/internal/pkg/pgconv"

	"github.com/google/uuid"
)

type LoanRepository struct{}

func NewLoanRepository() *LoanRepository {
	return &LoanRepository{}
}

func (r *LoanRepository) Create(ctx context.Context, tx db.DBTX, ln *loan.Loan) (uuid.UUID, error) {
	const query = `
		INSERT INTO loans (id, member_id, book_copy_id, loan_date, due_date, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`

	var id uuid.UUID
	err := tx.QueryRow(ctx, query,
		ln.ID(),
		ln.MemberID(),
		ln.BookCopyID(),
		pgconv.TimeToPgtype(ln.LoanDate()),
		pgconv.TimeToPgtype(ln.DueDate()),
		string(ln.Status()),
	).Scan(&id)
	if err != nil {
		return uuid.Nil, infra.WrapRepoErr("failed to create loan", err)
	}

	return id, nil
}

// Update closes out a loan. The status predicate makes the write conditional
// so two concurrent returns of the same loan cannot both settle it; the loser
// sees zero rows and gets a conflict.
func (r *LoanRepository) Update(ctx context.Context, tx db.DBTX, ln *loan.Loan) error {
	const query = `
		UPDATE loans
		SET status = $2, return_date = $3, fine_amount = $4, updated_at = now()
		WHERE id = $1 AND status <> 'returned'`

	tag, err := tx.Exec(ctx, query,
		ln.ID(),
		string(ln.Status()),
		pgconv.TimePtrToPgtype(ln.ReturnDate()),
		pgconv.CentsToNumeric(ln.FineAmount().Cents()),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to update loan", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("loan already settled", nil, infra.KindConflict)
	}

	return nil
}

// MarkOverdue flips active loans past their due date so list filters and
// eligibility checks see them without waiting for a return.
func (r *LoanRepository) MarkOverdue(ctx context.Context, tx db.DBTX, now time.Time) (int64, error) {
	const query = `
		UPDATE loans
		SET status = 'overdue', updated_at = now()
		WHERE status = 'active' AND due_date < $1`

	tag, err := tx.Exec(ctx, query, pgconv.TimeToPgtype(now))
	if err != nil {
		return 0, infra.WrapRepoErr("failed to mark overdue loans", err)
	}

	return tag.RowsAffected(), nil
}
