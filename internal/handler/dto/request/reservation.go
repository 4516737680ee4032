package request

import (
	"github.com/google/uuid"
)

type CreateReservationRequest struct {
	BookID   uuid.UUID `json:"book_id" binding:"required"`
	MemberID uuid.UUID `json:"member_id" binding:"required"`
}
