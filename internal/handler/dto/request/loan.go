package request

import (
	"time"

	"github.com/google/uuid"
)

type CreateLoanRequest struct {
	BookCopyID uuid.UUID `json:"book_copy_id" binding:"required"`
	MemberID   uuid.UUID `json:"member_id" binding:"required"`
	DueDate    time.Time `json:"due_date" binding:"required"`
}

type ListLoansRequest struct {
	Status string `form:"status" binding:"omitempty,oneof=active returned overdue"`
	Page   int32  `form:"page"`
	Limit  int32  `form:"limit"`
}
