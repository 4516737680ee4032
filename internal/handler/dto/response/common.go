package response

import (
	"campus-library/internal/usecase/queries"

	"github.com/google/uuid"
)

type CreatedResponse struct {
	ID uuid.UUID `json:"id"`
}

type MemberListResponse struct {
	Items []*queries.MemberView `json:"items"`
	Total int64                 `json:"total"`
	Page  int32                 `json:"page"`
	Limit int32                 `json:"limit"`
}

type ReturnLoanResponse struct {
	LoanID              uuid.UUID  `json:"loan_id"`
	FineAmount          float64    `json:"fine_amount"`
	PromotedReservation *uuid.UUID `json:"promoted_reservation,omitempty"`
}
