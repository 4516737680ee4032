package commands

import (
	"context"

	reqdto "campus-library/internal/handler/dto/request"
	"campus-library/internal/infra"
	"campus-library/internal/pkg/errs"
	"campus-library/internal/usecase/shared"

	"github.com/google/uuid"
)

var (
	ErrDuplicateISBN     = errs.New("book with this ISBN already exists")
	ErrInvalidBookInput  = errs.New("invalid book input")
	ErrBookDeleteBlocked = errs.New("book has copies on loan")
)

type BookCommands interface {
	CreateBook(ctx context.Context, req reqdto.CreateBookRequest) (uuid.UUID, error)
	DeleteBook(ctx context.Context, id uuid.UUID) error
}

type bookCommandsImpl struct {
	uow shared.UnitOfWork
}

func NewBookCommands(uow shared.UnitOfWork) BookCommands {
	return &bookCommandsImpl{uow: uow}
}

func (c *bookCommandsImpl) CreateBook(ctx context.Context, req reqdto.CreateBookRequest) (uuid.UUID, error) {
	b, err := req.ToDomain()
	if err != nil {
		return uuid.Nil, errs.Mark(err, ErrInvalidBookInput)
	}

	var bookID uuid.UUID
	err = c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		bookID, err = tx.Books().Create(ctx, tx.DB(), b, req.Copies)
		if err != nil {
			if infra.IsKind(err, infra.KindDuplicateKey) {
				return ErrDuplicateISBN
			}
			return err
		}
		return nil
	})
	if err != nil {
		return uuid.Nil, err
	}

	return bookID, nil
}

func (c *bookCommandsImpl) DeleteBook(ctx context.Context, id uuid.UUID) error {
	return c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		err := tx.Books().Delete(ctx, tx.DB(), id)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return ErrBookNotFound
			}
			// Copies with loan history keep a restrict FK on the book.
			if infra.IsKind(err, infra.KindForeignKeyViolated) {
				return ErrBookDeleteBlocked
			}
			return err
		}
		return nil
	})
}
