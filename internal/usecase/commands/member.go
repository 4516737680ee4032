package commands

import (
	"context"
	"time"

	"campus-library/internal/domain/member"
	reqdto "campus-library/internal/handler/dto/request"
	"campus-library/internal/infra"
	"campus-library/internal/pkg/errs"
	"campus-library/internal/usecase/shared"

	"github.com/google/uuid"
)

var (
	ErrDuplicateMemberEmail = errs.New("member with this email already exists")
	ErrInvalidMemberInput   = errs.New("invalid member input")
)

type MemberCommands interface {
	CreateMember(ctx context.Context, req reqdto.CreateMemberRequest) (uuid.UUID, error)
	UpdateMember(ctx context.Context, id uuid.UUID, req reqdto.UpdateMemberRequest) error
}

type memberCommandsImpl struct {
	uow shared.UnitOfWork
}

func NewMemberCommands(uow shared.UnitOfWork) MemberCommands {
	return &memberCommandsImpl{uow: uow}
}

func (c *memberCommandsImpl) CreateMember(ctx context.Context, req reqdto.CreateMemberRequest) (uuid.UUID, error) {
	m, err := req.ToDomain()
	if err != nil {
		return uuid.Nil, errs.Mark(err, ErrInvalidMemberInput)
	}

	var memberID uuid.UUID
	err = c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		memberID, err = tx.Members().Create(ctx, tx.DB(), m)
		if err != nil {
			if infra.IsKind(err, infra.KindDuplicateKey) {
				return ErrDuplicateMemberEmail
			}
			return err
		}
		return nil
	})
	if err != nil {
		return uuid.Nil, err
	}

	return memberID, nil
}

// UpdateMember edits profile fields and policy knobs. The loan counter and
// fine total move only through checkout and return.
func (c *memberCommandsImpl) UpdateMember(ctx context.Context, id uuid.UUID, req reqdto.UpdateMemberRequest) error {
	status, err := member.NewStatus(req.Status)
	if err != nil {
		return errs.Mark(err, ErrInvalidMemberInput)
	}
	if req.MaxLoans < 1 {
		return errs.Mark(member.ErrNegativeLimit, ErrInvalidMemberInput)
	}

	return c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		snap, err := tx.Reads().MemberByID(ctx, id)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return ErrMemberNotFound
			}
			return err
		}

		m := member.ReconstructMember(
			snap.ID,
			req.Name, req.Email, req.Phone,
			status,
			req.MaxLoans, snap.CurrentLoans,
			snap.TotalFinesCents,
			time.Time{},
		)

		err = tx.Members().Update(ctx, tx.DB(), m)
		if err != nil {
			if infra.IsKind(err, infra.KindDuplicateKey) {
				return ErrDuplicateMemberEmail
			}
			return err
		}
		return nil
	})
}
