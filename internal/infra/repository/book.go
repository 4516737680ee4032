package repository

import (
	"context"

	"campus-library/internal/domain/book"
	"campus-library/internal/infra"
	"campus-library/internal/infra/db"
	"campus-library/internal/pkg/pgconv"

	"github.com/google/uuid"
)

type BookRepository struct{}

func NewBookRepository() *BookRepository {
	return &BookRepository{}
}

func (r *BookRepository) Create(ctx context.Context, tx db.DBTX, b *book.Book, copies int) (uuid.UUID, error) {
	const query = `
		INSERT INTO books (id, title, isbn, publisher, publication_year)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`

	var id uuid.UUID
	err := tx.QueryRow(ctx, query,
		b.ID(),
		b.Title(),
		b.ISBN(),
		b.Publisher(),
		b.PublicationYear(),
	).Scan(&id)
	if err != nil {
		return uuid.Nil, infra.WrapRepoErr("failed to create book", err)
	}

	if err := r.linkAuthors(ctx, tx, id, b.Authors()); err != nil {
		return uuid.Nil, err
	}
	if err := r.linkGenres(ctx, tx, id, b.Genres()); err != nil {
		return uuid.Nil, err
	}

	copyRepo := NewCopyRepository()
	for i := 0; i < copies; i++ {
		if _, err := copyRepo.Create(ctx, tx, book.NewCopy(id)); err != nil {
			return uuid.Nil, err
		}
	}

	return id, nil
}

func (r *BookRepository) Update(ctx context.Context, tx db.DBTX, b *book.Book) error {
	const query = `
		UPDATE books
		SET title = $2, isbn = $3, publisher = $4, publication_year = $5, updated_at = now()
		WHERE id = $1`

	tag, err := tx.Exec(ctx, query,
		b.ID(),
		b.Title(),
		b.ISBN(),
		b.Publisher(),
		b.PublicationYear(),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to update book", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("book not found", nil, infra.KindNotFound)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM book_authors WHERE book_id = $1`, b.ID()); err != nil {
		return infra.WrapRepoErr("failed to unlink book authors", err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM book_genres WHERE book_id = $1`, b.ID()); err != nil {
		return infra.WrapRepoErr("failed to unlink book genres", err)
	}
	if err := r.linkAuthors(ctx, tx, b.ID(), b.Authors()); err != nil {
		return err
	}
	if err := r.linkGenres(ctx, tx, b.ID(), b.Genres()); err != nil {
		return err
	}

	return nil
}

func (r *BookRepository) Delete(ctx context.Context, tx db.DBTX, id uuid.UUID) error {
	tag, err := tx.Exec(ctx, `DELETE FROM books WHERE id = $1`, id)
	if err != nil {
		return infra.WrapRepoErr("failed to delete book", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("book not found", nil, infra.KindNotFound)
	}

	return nil
}

// linkAuthors resolves each author name to a row, creating it on first use,
// then attaches it to the book. The upsert keeps the RETURNING id arm alive
// for names that already exist.
func (r *BookRepository) linkAuthors(ctx context.Context, tx db.DBTX, bookID uuid.UUID, names []string) error {
	const upsert = `
		INSERT INTO authors (id, name)
		VALUES ($1, $2)
		ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
		RETURNING id`
	const link = `
		INSERT INTO book_authors (book_id, author_id)
		VALUES ($1, $2)
		ON CONFLICT DO NOTHING`

	for _, name := range names {
		var authorID uuid.UUID
		if err := tx.QueryRow(ctx, upsert, uuid.New(), name).Scan(&authorID); err != nil {
			return infra.WrapRepoErr("failed to upsert author", err)
		}
		if _, err := tx.Exec(ctx, link, bookID, authorID); err != nil {
			return infra.WrapRepoErr("failed to link book author", err)
		}
	}

	return nil
}

func (r *BookRepository) linkGenres(ctx context.Context, tx db.DBTX, bookID uuid.UUID, names []string) error {
	const upsert = `
		INSERT INTO genres (id, name)
		VALUES ($1, $2)
		ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
		RETURNING id`
	const link = `
		INSERT INTO book_genres (book_id, genre_id)
		VALUES ($1, $2)
		ON CONFLICT DO NOTHING`

	for _, name := range names {
		var genreID uuid.UUID
		if err := tx.QueryRow(ctx, upsert, uuid.New(), name).Scan(&genreID); err != nil {
			return infra.WrapRepoErr("failed to upsert genre", err)
		}
		if _, err := tx.Exec(ctx, link, bookID, genreID); err != nil {
			return infra.WrapRepoErr("failed to link book genre", err)
		}
	}

	return nil
}

type CopyRepository struct{}

func NewCopyRepository() *CopyRepository {
	return &CopyRepository{}
}

func (r *CopyRepository) Create(ctx context.Context, tx db.DBTX, c *book.Copy) (uuid.UUID, error) {
	const query = `
		INSERT INTO book_copies (id, book_id, status, condition, location)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`

	var id uuid.UUID
	err := tx.QueryRow(ctx, query,
		c.ID(),
		c.BookID(),
		string(c.Status()),
		string(c.Condition()),
		pgconv.StringPtrToPgtype(c.Location()),
	).Scan(&id)
	if err != nil {
		return uuid.Nil, infra.WrapRepoErr("failed to create book copy", err)
	}

	return id, nil
}

// ClaimAvailable is the race guard for checkout and reservation promotion:
// the status predicate makes concurrent claims on the same copy lose cleanly
// instead of double-lending it.
func (r *CopyRepository) ClaimAvailable(ctx context.Context, tx db.DBTX, copyID uuid.UUID, status book.CopyStatus) (bool, error) {
	const query = `
		UPDATE book_copies
		SET status = $2, updated_at = now()
		WHERE id = $1 AND status = 'available'`

	tag, err := tx.Exec(ctx, query, copyID, string(status))
	if err != nil {
		return false, infra.WrapRepoErr("failed to claim book copy", err)
	}

	return tag.RowsAffected() > 0, nil
}

func (r *CopyRepository) SetStatus(ctx context.Context, tx db.DBTX, copyID uuid.UUID, status book.CopyStatus) error {
	const query = `
		UPDATE book_copies
		SET status = $2, updated_at = now()
		WHERE id = $1`

	tag, err := tx.Exec(ctx, query, copyID, string(status))
	if err != nil {
		return infra.WrapRepoErr("failed to set book copy status", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("book copy not found", nil, infra.KindNotFound)
	}

	return nil
}
