package repository

import (
	"context"

	"campus-library/internal/domain/member"
	"campus-library/internal/infra"
	"campus-library/internal/infra/db"
	"campus-library/internal/pkg/pgconv"

	"github.com/google/uuid"
)

type MemberRepository struct{}

func NewMemberRepository() *MemberRepository {
	return &MemberRepository{}
}

func (r *MemberRepository) Create(ctx context.Context, tx db.DBTX, m *member.Member) (uuid.UUID, error) {
	const query = `
		INSERT INTO members (id, name, email, phone, status, max_loans, current_loans, total_fines)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id`

	var id uuid.UUID
	err := tx.QueryRow(ctx, query,
		m.ID(),
		m.Name(),
		m.Email(),
		m.Phone(),
		string(m.Status()),
		m.MaxLoans(),
		m.CurrentLoans(),
		pgconv.CentsToNumeric(m.TotalFinesCents()),
	).Scan(&id)
	if err != nil {
		return uuid.Nil, infra.WrapRepoErr("failed to create member", err)
	}

	return id, nil
}

func (r *MemberRepository) Update(ctx context.Context, tx db.DBTX, m *member.Member) error {
	const query = `
		UPDATE members
		SET name = $2, email = $3, phone = $4, status = $5, max_loans = $6, updated_at = now()
		WHERE id = $1`

	tag, err := tx.Exec(ctx, query,
		m.ID(),
		m.Name(),
		m.Email(),
		m.Phone(),
		string(m.Status()),
		m.MaxLoans(),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to update member", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("member not found", nil, infra.KindNotFound)
	}

	return nil
}

// AdjustLoanCount moves the denormalized active-loan counter. The guard on
// negative results keeps concurrent returns from driving it below zero.
func (r *MemberRepository) AdjustLoanCount(ctx context.Context, tx db.DBTX, memberID uuid.UUID, delta int32) error {
	const query = `
		UPDATE members
		SET current_loans = GREATEST(current_loans + $2, 0), updated_at = now()
		WHERE id = $1`

	tag, err := tx.Exec(ctx, query, memberID, delta)
	if err != nil {
		return infra.WrapRepoErr("failed to adjust member loan count", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("member not found", nil, infra.KindNotFound)
	}

	return nil
}

func (r *MemberRepository) AddFine(ctx context.Context, tx db.DBTX, memberID uuid.UUID, amountCents int64) error {
	const query = `
		UPDATE members
		SET total_fines = total_fines + $2, updated_at = now()
		WHERE id = $1`

	tag, err := tx.Exec(ctx, query, memberID, pgconv.CentsToNumeric(amountCents))
	if err != nil {
		return infra.WrapRepoErr("failed to add member fine", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("member not found", nil, infra.KindNotFound)
	}

	return nil
}

func (r *MemberRepository) SetStatus(ctx context.Context, tx db.DBTX, memberID uuid.UUID, status member.Status) error {
	const query = `
		UPDATE members
		SET status = $2, updated_at = now()
		WHERE id = $1`

	tag, err := tx.Exec(ctx, query, memberID, string(status))
	if err != nil {
		return infra.WrapRepoErr("failed to set member status", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("member not found", nil, infra.KindNotFound)
	}

	return nil
}
