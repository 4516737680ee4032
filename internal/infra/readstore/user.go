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

type UserReadStore struct {
	db db.DBTX
}

func NewUserReadStore(dbtx db.DBTX) *UserReadStore {
	return &UserReadStore{db: dbtx}
}

func (r *UserReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.UserView, error) {
	const query = `
		SELECT id, email, role, name, status, created_at
		FROM users
		WHERE id = $1`

	view, _, err := r.scanUser(r.db.QueryRow(ctx, query, id), false)
	if err != nil {
		return nil, err
	}

	return view, nil
}

func (r *UserReadStore) FindByEmail(ctx context.Context, email string) (*queries.UserView, string, error) {
	const query = `
		SELECT id, email, role, name, status, created_at, password_hash
		FROM users
		WHERE email = $1`

	return r.scanUser(r.db.QueryRow(ctx, query, email), true)
}

func (r *UserReadStore) scanUser(row rowScanner, withHash bool) (*queries.UserView, string, error) {
	var (
		view      queries.UserView
		status    string
		createdAt pgtype.Timestamptz
		hash      string
	)

	dest := []any{&view.ID, &view.Email, &view.Role, &view.Name, &status, &createdAt}
	if withHash {
		dest = append(dest, &hash)
	}

	if err := row.Scan(dest...); err != nil {
		if pgconv.IsNoRows(err) {
			return nil, "", infra.WrapRepoErr("user not found", err, infra.KindNotFound)
		}
		return nil, "", infra.WrapRepoErr("failed to scan user row", err)
	}

	view.IsActive = status == "active"
	view.CreatedAt = pgconv.TimeFromPgtype(createdAt)

	return &view, hash, nil
}
